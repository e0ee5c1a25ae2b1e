package analysis

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Histogram is a binned sample. Edges has one more entry than Counts.
type Histogram struct {
	Edges  []float64
	Counts []float64
}

// SpeedHistogram sorts speeds into equal width bins from zero to the
// fastest speed.
func SpeedHistogram(speeds []float64, bins int) *Histogram {
	if len(speeds) == 0 || bins < 1 {
		return &Histogram{}
	}

	x := make([]float64, len(speeds))
	copy(x, speeds)
	sort.Float64s(x)

	top := x[len(x)-1]
	if top <= 0 {
		top = 1
	}
	edges := floats.Span(make([]float64, bins+1), 0, top*(1+1e-9))
	counts := stat.Histogram(nil, edges, x, nil)
	return &Histogram{Edges: edges, Counts: counts}
}

// Moments returns the mean and standard deviation of speeds.
func Moments(speeds []float64) (mean, std float64) {
	if len(speeds) < 2 {
		if len(speeds) == 1 {
			return speeds[0], 0
		}
		return 0, 0
	}
	return stat.MeanStdDev(speeds, nil)
}
