package dock

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Positions packs slots left-to-right and returns each slot's center.
// Each slot occupies cfg.IconBaseSize*scale pixels followed by cfg.Spacing.
// Negative scales are treated as zero width.
func Positions(scales []float64, cfg Config) []float64 {
	centers := make([]float64, len(scales))
	left := 0.0
	for i, s := range scales {
		w := cfg.IconBaseSize * math.Max(s, 0)
		centers[i] = left + w/2
		left += w + cfg.Spacing
	}
	return centers
}

// ContentWidth returns the packed width of the row, without trailing spacing.
func ContentWidth(scales []float64, cfg Config) float64 {
	if len(scales) == 0 {
		return 0
	}
	return cfg.IconBaseSize*floats.Sum(scales) + cfg.Spacing*float64(len(scales)-1)
}

// Extent returns the right edge of the rightmost slot given centers and
// scales, i.e. max(center[i] + size[i]/2). It is 0 for an empty row.
func Extent(centers, scales []float64, cfg Config) float64 {
	if len(centers) == 0 {
		return 0
	}
	edges := make([]float64, len(centers))
	for i, c := range centers {
		edges[i] = c + cfg.IconBaseSize*scaleOf(scales, i)/2
	}
	return math.Max(floats.Max(edges), 0)
}

func scaleOf(scales []float64, i int) float64 {
	if i < len(scales) {
		return scales[i]
	}
	return MinScale
}
