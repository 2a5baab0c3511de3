package sink

import (
	"bytes"
	"encoding/json"
	"image/png"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/magdock/pkg/dock"
)

func testFrame(t *testing.T, pointer *float64, open ...string) dock.Frame {
	t.Helper()
	slots := []dock.Slot{
		{ID: "finder", Label: "Finder"},
		{ID: "terminal", Label: "Terminal", Icon: "#222222"},
		{ID: "mail", Label: "Mail"},
	}
	sched := dock.NewManualScheduler(time.Unix(0, 0))
	c := dock.NewController(slots, dock.DefaultConfig, dock.WithScheduler(sched))
	defer c.Close()
	if pointer != nil {
		c.SetPointer(dock.At(*pointer))
		sched.Run(60)
	}
	f := c.Frame()
	f.MarkOpen(open...)
	return f
}

func ptr(v float64) *float64 { return &v }

func TestBuildSceneLayout(t *testing.T) {
	f := testFrame(t, nil)
	sc := BuildScene(f, SceneOptions{})

	head := Headroom(f.Config)
	if sc.Headroom != head {
		t.Errorf("Headroom = %v, want %v", sc.Headroom, head)
	}
	if want := math.Ceil(head + f.Height); sc.Height != want {
		t.Errorf("Height = %v, want %v", sc.Height, want)
	}

	var slots []Shape
	for _, s := range sc.Shapes {
		if strings.HasPrefix(s.ID, "slot-") {
			slots = append(slots, s)
		}
	}
	if len(slots) != 3 {
		t.Fatalf("slot shapes = %d, want 3", len(slots))
	}
	for _, s := range slots {
		// Resting slots sit on the row bottom inside the padding.
		if got, want := s.Y+s.H, head+f.Padding+f.Config.IconBaseSize; math.Abs(got-want) > 1e-9 {
			t.Errorf("%s bottom = %v, want %v", s.ID, got, want)
		}
	}
	if slots[1].Fill.Hex() != "#222222" {
		t.Errorf("hex icon fill = %s", slots[1].Fill.Hex())
	}
}

func TestBuildSceneOrdersByZ(t *testing.T) {
	f := testFrame(t, ptr(dock.NormalCenter(0, dock.DefaultConfig)))
	sc := BuildScene(f, SceneOptions{Pointer: true, Labels: true})

	var order []string
	var sawPointer, sawLabel bool
	for _, s := range sc.Shapes {
		switch {
		case strings.HasPrefix(s.ID, "slot-"):
			order = append(order, strings.TrimPrefix(s.ID, "slot-"))
		case s.ID == "pointer":
			sawPointer = true
		case s.ID == "label":
			sawLabel = s.Text == "Finder"
		}
	}
	if order[len(order)-1] != "finder" {
		t.Errorf("draw order = %v, want finder last", order)
	}
	if !sawPointer || !sawLabel {
		t.Errorf("pointer marker %v, label %v", sawPointer, sawLabel)
	}
}

func TestBuildSceneOpenIndicator(t *testing.T) {
	sc := BuildScene(testFrame(t, nil, "mail"), SceneOptions{})
	n := 0
	for _, s := range sc.Shapes {
		if s.Kind == ShapeCircle {
			n++
			if s.ID != "open-mail" {
				t.Errorf("indicator id = %s", s.ID)
			}
		}
	}
	if n != 1 {
		t.Errorf("indicators = %d, want 1", n)
	}
}

func TestRenderSVG(t *testing.T) {
	out := string(RenderSVG(testFrame(t, ptr(75)), WithPointerMarker(), WithTitle("snap")))
	for _, want := range []string{"<svg", "</svg>", `id="slot-finder"`, `id="pointer"`, "<title>snap</title>", "<title>Terminal</title>"} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
}

func TestRenderPNG(t *testing.T) {
	f := testFrame(t, nil)
	data, err := RenderPNG(f, WithScale(2))
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	sc := BuildScene(f, SceneOptions{})
	if got, want := img.Bounds().Dx(), int(math.Ceil(sc.Width*2)); got != want {
		t.Errorf("width = %d, want %d", got, want)
	}
	if got, want := img.Bounds().Dy(), int(math.Ceil(sc.Height*2)); got != want {
		t.Errorf("height = %d, want %d", got, want)
	}
}

func TestRenderJSON(t *testing.T) {
	f := testFrame(t, ptr(75), "finder")
	data, err := RenderJSON(f, WithViewport(1440, 900), WithFrameIndex(3))
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"viewport", "index", "slots", "width", "height", "config", "pointer"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("JSON missing %q", key)
		}
	}

	back, err := DecodeJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(back.Slots) != 3 || back.Slots[1].ID != "terminal" || !back.Slots[0].Open {
		t.Errorf("decoded slots = %+v", back.Slots)
	}
	if back.Pointer == nil || *back.Pointer != 75 {
		t.Errorf("decoded pointer = %v", back.Pointer)
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"#ff0000", "#ff0000", true},
		{"#0f0", "#00ff00", true},
		{"123456", "#123456", true},
		{"#12345", "", false},
		{"#zzzzzz", "", false},
	}
	for _, tt := range tests {
		c, ok := ParseHex(tt.in)
		if ok != tt.ok || (ok && c.Hex() != tt.want) {
			t.Errorf("ParseHex(%q) = %s, %v", tt.in, c.Hex(), ok)
		}
	}
}

func TestShadowGrowsWithScale(t *testing.T) {
	dy1, blur1, a1 := Shadow(48, 1)
	dy2, blur2, a2 := Shadow(48, 1.4)
	if !(dy2 > dy1 && blur2 > blur1 && a2 > a1) {
		t.Errorf("rest (%v %v %v) vs magnified (%v %v %v)", dy1, blur1, a1, dy2, blur2, a2)
	}
}

func TestParseFormats(t *testing.T) {
	got, err := ParseFormats("svg, PNG,svg,,json")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0] != FormatSVG || got[1] != FormatPNG || got[2] != FormatJSON {
		t.Errorf("ParseFormats = %v", got)
	}
	if _, err := ParseFormats("svg,gif"); err == nil {
		t.Error("gif accepted")
	}
	if _, err := ParseFormats(" , "); err == nil {
		t.Error("empty list accepted")
	}
}

func TestRenderDispatch(t *testing.T) {
	f := testFrame(t, ptr(75))
	for _, format := range Formats {
		t.Run(string(format), func(t *testing.T) {
			data, err := Render(f, format, Options{Pointer: true, Index: -1})
			if err != nil {
				t.Fatal(err)
			}
			if len(data) == 0 {
				t.Fatal("empty output")
			}
			switch format {
			case FormatSVG:
				if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("<?xml")) && !bytes.Contains(data, []byte("<svg")) {
					t.Error("not an SVG document")
				}
			case FormatPNG:
				if !bytes.HasPrefix(data, []byte("\x89PNG")) {
					t.Error("not a PNG")
				}
			case FormatJSON:
				var doc map[string]json.RawMessage
				if err := json.Unmarshal(data, &doc); err != nil {
					t.Fatalf("invalid JSON: %v", err)
				}
				if _, ok := doc["index"]; ok {
					t.Error("settled frame carries a top-level index")
				}
				if _, ok := doc["slots"]; !ok {
					t.Error("missing slots")
				}
			}
		})
	}
	if _, err := Render(f, Format("gif"), Options{}); err == nil {
		t.Error("Render accepted gif")
	}
}
