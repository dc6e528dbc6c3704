package metrics

import (
	"math"

	"github.com/san-kum/studio/internal/march"
	"github.com/san-kum/studio/internal/renderstate"
)

// MeanShade is the average shade over every observed pixel.
type MeanShade struct {
	name    string
	total   float64
	samples int
}

func NewMeanShade() *MeanShade {
	return &MeanShade{name: "mean_shade"}
}

func (m *MeanShade) Name() string { return m.name }

func (m *MeanShade) Observe(f *march.Frame, v renderstate.ViewState) {
	if f == nil {
		return
	}
	m.total += frameMean(f)
	m.samples++
}

func (m *MeanShade) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *MeanShade) Reset() {
	m.total = 0
	m.samples = 0
}

// Flicker is the largest change in mean shade between consecutive frames.
type Flicker struct {
	name     string
	last     float64
	maxDelta float64
	samples  int
}

func NewFlicker() *Flicker {
	return &Flicker{name: "flicker"}
}

func (fl *Flicker) Name() string { return fl.name }

func (fl *Flicker) Observe(f *march.Frame, v renderstate.ViewState) {
	if f == nil {
		return
	}
	mean := frameMean(f)
	if fl.samples > 0 {
		fl.maxDelta = math.Max(fl.maxDelta, math.Abs(mean-fl.last))
	}
	fl.last = mean
	fl.samples++
}

func (fl *Flicker) Value() float64 {
	return fl.maxDelta
}

func (fl *Flicker) Reset() {
	fl.last = 0
	fl.maxDelta = 0
	fl.samples = 0
}
