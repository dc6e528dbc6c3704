// Package metrics accumulates statistics over rendered frames and the view
// states that produced them.
package metrics

import (
	"github.com/san-kum/studio/internal/march"
	"github.com/san-kum/studio/internal/renderstate"
)

// Metric observes one frame at a time and reduces the sequence to a value.
type Metric interface {
	Name() string
	Observe(f *march.Frame, v renderstate.ViewState)
	Value() float64
	Reset()
}

// Standard returns the metrics reported for a tour.
func Standard() []Metric {
	return []Metric{
		NewMeanShade(),
		NewCoverage(0.1),
		NewFlicker(),
		NewCameraMotion(),
	}
}

func frameMean(f *march.Frame) float64 {
	if f == nil || len(f.Shade) == 0 {
		return 0
	}
	var sum float64
	for _, s := range f.Shade {
		sum += s
	}
	return sum / float64(len(f.Shade))
}
