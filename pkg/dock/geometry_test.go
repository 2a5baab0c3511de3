package dock

import (
	"math"
	"testing"
)

func testSlots(ids ...string) []Slot {
	slots := make([]Slot, len(ids))
	for i, id := range ids {
		slots[i] = Slot{ID: id, Label: id, Index: i}
	}
	return slots
}

func TestBuildFrameRest(t *testing.T) {
	cfg := Config{IconBaseSize: 48, MaxScale: 1.4, EffectWidth: 180, Spacing: 3}
	slots := testSlots("a", "b", "c")
	f := BuildFrame(slots, NewState(3, cfg), nil)

	if len(f.Slots) != 3 {
		t.Fatalf("len(Slots) = %d", len(f.Slots))
	}
	if f.Padding != 6 {
		t.Errorf("Padding = %v, want 6", f.Padding)
	}
	if want := 150.0 + 12; math.Abs(f.Width-want) > 1e-9 {
		t.Errorf("Width = %v, want %v", f.Width, want)
	}
	if f.Height != 60 {
		t.Errorf("Height = %v, want 60", f.Height)
	}
	if !f.Settled {
		t.Error("rest frame not settled")
	}
	if f.Pointer != nil {
		t.Errorf("Pointer = %v, want nil", *f.Pointer)
	}

	for i, g := range f.Slots {
		if g.ID != slots[i].ID || g.Index != i {
			t.Errorf("slot %d: id=%q index=%d", i, g.ID, g.Index)
		}
		if g.Size != 48 || g.Scale != 1 || g.Z != 10 || g.Bottom != 0 {
			t.Errorf("slot %d: %+v", i, g)
		}
		if want := NormalCenter(i, cfg) - 24; math.Abs(g.Left-want) > 1e-9 {
			t.Errorf("slot %d: Left = %v, want %v", i, g.Left, want)
		}
	}
}

func TestBuildFrameMagnified(t *testing.T) {
	cfg := DefaultConfig
	s := NewState(3, cfg)
	s.Pointer = At(75)
	s.Scales = TargetScales(s.Pointer, 3, cfg)
	s.Positions = Positions(s.Scales, cfg)

	f := BuildFrame(testSlots("a", "b", "c"), s, func(i int) float64 {
		if i == 1 {
			return -3
		}
		return 0
	})
	if f.Pointer == nil || *f.Pointer != 75 {
		t.Errorf("Pointer = %v", f.Pointer)
	}
	if f.Settled {
		t.Error("frame with pointer reported settled")
	}
	mid := f.Slots[1]
	if mid.Z != 14 || math.Abs(mid.Size-48*1.4) > 1e-9 || mid.Lift != -3 {
		t.Errorf("middle slot = %+v", mid)
	}
	if f.Slots[0].Z >= mid.Z {
		t.Errorf("outer Z %d not below middle %d", f.Slots[0].Z, mid.Z)
	}
	if got := f.SlotAt(mid.Center); got != 1 {
		t.Errorf("SlotAt(center of b) = %d, want 1", got)
	}
	if got := f.SlotAt(-100); got != -1 {
		t.Errorf("SlotAt(-100) = %d, want -1", got)
	}
}

func TestBuildFrameMisaligned(t *testing.T) {
	s := State{Scales: []float64{2}, Config: DefaultConfig}
	f := BuildFrame(testSlots("a", "b"), s, nil)
	for _, g := range f.Slots {
		if g.Scale != 1 {
			t.Errorf("slot %s scale = %v, want rest", g.ID, g.Scale)
		}
	}
}

func TestFrameMarkOpen(t *testing.T) {
	f := BuildFrame(testSlots("a", "b", "c"), NewState(3, DefaultConfig), nil)
	f.MarkOpen("c", "a")
	if !f.Slots[0].Open || f.Slots[1].Open || !f.Slots[2].Open {
		t.Errorf("open flags = %v %v %v", f.Slots[0].Open, f.Slots[1].Open, f.Slots[2].Open)
	}
	f.MarkOpen()
	for _, g := range f.Slots {
		if g.Open {
			t.Errorf("slot %s still open", g.ID)
		}
	}
}

func TestReindexAndIndexOf(t *testing.T) {
	slots := Reindex([]Slot{{ID: "x", Index: 7}, {ID: "y", Index: 3}})
	if slots[0].Index != 0 || slots[1].Index != 1 {
		t.Errorf("Reindex = %+v", slots)
	}
	if IndexOf(slots, "y") != 1 || IndexOf(slots, "z") != -1 {
		t.Error("IndexOf mismatch")
	}
}

func TestFrameSlotAt(t *testing.T) {
	cfg := Config{IconBaseSize: 48, MaxScale: 1.4, EffectWidth: 180, Spacing: 3}
	f := BuildFrame(testSlots("a", "b", "c"), NewState(3, cfg), nil)

	tests := []struct {
		x    float64
		want int
	}{
		{10, 0},
		{49.5, -1}, // spacing gap
		{75, 1},
		{150, 2},
		{-1, -1},
		{200, -1},
	}
	for _, tt := range tests {
		if got := f.SlotAt(tt.x); got != tt.want {
			t.Errorf("SlotAt(%v) = %d, want %d", tt.x, got, tt.want)
		}
	}

	overlap := Frame{Slots: []SlotGeometry{
		{ID: "low", Left: 0, Size: 60, Z: 10},
		{ID: "high", Left: 40, Size: 60, Z: 14},
	}}
	if got := overlap.SlotAt(50); got != 1 {
		t.Errorf("overlap SlotAt = %d, want the higher slot", got)
	}
}
