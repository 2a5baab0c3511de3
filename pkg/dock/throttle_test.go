package dock

import (
	"testing"
	"time"
)

func TestThrottle(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		offsets []time.Duration
		want    []bool
	}{
		{"single", []time.Duration{0}, []bool{true}},
		{"5ms apart", []time.Duration{0, 5 * time.Millisecond}, []bool{true, false}},
		{"exactly interval", []time.Duration{0, 16 * time.Millisecond}, []bool{true, true}},
		{"spaced", []time.Duration{0, 20 * time.Millisecond, 40 * time.Millisecond}, []bool{true, true, true}},
		{
			"rejected events do not extend window",
			[]time.Duration{0, 10 * time.Millisecond, 15 * time.Millisecond, 16 * time.Millisecond},
			[]bool{true, false, false, true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := NewThrottle(PointerThrottle)
			for i, off := range tt.offsets {
				if got := th.Allow(t0.Add(off)); got != tt.want[i] {
					t.Errorf("event %d at +%v: Allow = %v, want %v", i, off, got, tt.want[i])
				}
			}
		})
	}
}
