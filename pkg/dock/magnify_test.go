package dock

import (
	"math"
	"testing"
)

func TestTargetScalesAbsent(t *testing.T) {
	for n := 0; n <= 12; n++ {
		scales := TargetScales(Absent(), n, DefaultConfig)
		if len(scales) != n {
			t.Fatalf("n=%d: len = %d", n, len(scales))
		}
		for i, s := range scales {
			if s != MinScale {
				t.Errorf("n=%d: scale[%d] = %v, want %v", n, i, s, MinScale)
			}
		}
	}
}

func TestTargetScalesNegativeCount(t *testing.T) {
	if got := TargetScales(At(10), -3, DefaultConfig); len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestTargetScalesBounds(t *testing.T) {
	configs := []Config{
		DefaultConfig,
		DeriveConfig(375, 667),
		DeriveConfig(2560, 1440),
		{IconBaseSize: 10, MaxScale: 3, EffectWidth: 5, Spacing: 0},
	}
	for _, cfg := range configs {
		for x := -300.0; x <= 900; x += 7.5 {
			scales := TargetScales(At(x), 12, cfg)
			for i, s := range scales {
				if s < MinScale || s > cfg.MaxScale+1e-12 {
					t.Fatalf("cfg=%+v x=%v: scale[%d] = %v out of [%v, %v]", cfg, x, i, s, MinScale, cfg.MaxScale)
				}
			}
		}
	}
}

func TestTargetScalesPeakAtNormalCenter(t *testing.T) {
	cfg := DefaultConfig
	const n = 9
	for i := 0; i < n; i++ {
		scales := TargetScales(At(NormalCenter(i, cfg)), n, cfg)
		if math.Abs(scales[i]-cfg.MaxScale) > 1e-6 {
			t.Errorf("slot %d: scale = %v, want %v", i, scales[i], cfg.MaxScale)
		}
		for j, s := range scales {
			if s > scales[i]+1e-12 {
				t.Errorf("pointer on slot %d: slot %d scale %v exceeds peak %v", i, j, s, scales[i])
			}
		}
	}
}

func TestTargetScalesSymmetric(t *testing.T) {
	cfg := DefaultConfig
	const n = 9
	scales := TargetScales(At(NormalCenter(4, cfg)), n, cfg)
	for k := 1; k <= 4; k++ {
		if math.Abs(scales[4-k]-scales[4+k]) > 1e-9 {
			t.Errorf("offset %d: left %v != right %v", k, scales[4-k], scales[4+k])
		}
	}
}

func TestTargetScalesBoundaryContinuity(t *testing.T) {
	cfg := DefaultConfig
	center := NormalCenter(0, cfg)

	tests := []struct {
		name string
		edge float64 // pointer x that puts the slot exactly on a window edge
		in   float64 // direction from the edge into the window
	}{
		{"window max", center - cfg.EffectWidth/2, 1},
		{"window min", center + cfg.EffectWidth/2, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TargetScales(At(tt.edge-tt.in*1e-9), 1, cfg)[0]; got != MinScale {
				t.Errorf("just outside window: scale = %v, want %v", got, MinScale)
			}
			if got := TargetScales(At(tt.edge), 1, cfg)[0]; math.Abs(got-MinScale) > 1e-12 {
				t.Errorf("on window edge: scale = %v, want %v", got, MinScale)
			}

			prev := math.Inf(1)
			for _, d := range []float64{1e-1, 1e-2, 1e-3} {
				lift := TargetScales(At(tt.edge+tt.in*d), 1, cfg)[0] - MinScale
				if lift < 0 {
					t.Fatalf("d=%v: scale below rest", d)
				}
				slope := lift / d
				if slope >= prev {
					t.Errorf("d=%v: slope %v did not shrink (previous %v)", d, slope, prev)
				}
				if slope > 1e-3 {
					t.Errorf("d=%v: slope %v, want approaching zero", d, slope)
				}
				prev = slope
			}
		})
	}
}

func TestTargetScalesThreeSlotScenario(t *testing.T) {
	cfg := Config{IconBaseSize: 48, MaxScale: 1.4, EffectWidth: 180, Spacing: 3}
	if got := NormalCenter(1, cfg); got != 75 {
		t.Fatalf("NormalCenter(1) = %v, want 75", got)
	}
	scales := TargetScales(At(75), 3, cfg)

	if math.Abs(scales[1]-1.4) > 1e-9 {
		t.Errorf("middle slot scale = %v, want 1.4", scales[1])
	}
	if math.Abs(scales[0]-scales[2]) > 1e-9 {
		t.Errorf("outer slots differ: %v vs %v", scales[0], scales[2])
	}
	if !(scales[0] > 1 && scales[0] < 1.4) {
		t.Errorf("outer slot scale = %v, want strictly between 1 and 1.4", scales[0])
	}
	want := 1 + 0.4*(1-math.Cos(39.0/180*2*math.Pi))/2
	if math.Abs(scales[0]-want) > 1e-9 {
		t.Errorf("outer slot scale = %v, want %v", scales[0], want)
	}

	// x=51 is the left edge of slot 1, not its center; slot 1 is not at peak.
	if edge := TargetScales(At(51), 3, cfg); edge[1] >= 1.4 || edge[0] >= edge[1] {
		t.Errorf("pointer on slot 1 edge: scales = %v", edge)
	}

	for i, s := range TargetScales(Absent(), 3, cfg) {
		if s != 1 {
			t.Errorf("absent: scale[%d] = %v, want 1", i, s)
		}
	}
}

func TestTargetScalesDegenerateConfig(t *testing.T) {
	cfg := Config{IconBaseSize: 0, MaxScale: 0, EffectWidth: 0, Spacing: -1}
	for _, s := range TargetScales(At(0), 4, cfg) {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			t.Fatalf("non-finite scale %v from degenerate config", s)
		}
	}
}

func TestPointer(t *testing.T) {
	var p Pointer
	if p.Present() {
		t.Error("zero Pointer should be absent")
	}
	if p.String() != "absent" {
		t.Errorf("String() = %q", p.String())
	}
	p = At(12.5)
	if x, ok := p.X(); !ok || x != 12.5 {
		t.Errorf("X() = %v, %v", x, ok)
	}
	if p.String() != "at(12.50)" {
		t.Errorf("String() = %q", p.String())
	}
}
