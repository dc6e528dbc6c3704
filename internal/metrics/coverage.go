package metrics

import (
	"github.com/san-kum/studio/internal/march"
	"github.com/san-kum/studio/internal/renderstate"
)

// Coverage is the average fraction of pixels brighter than threshold.
type Coverage struct {
	name      string
	threshold float64
	total     float64
	samples   int
}

func NewCoverage(threshold float64) *Coverage {
	return &Coverage{
		name:      "coverage",
		threshold: threshold,
	}
}

func (c *Coverage) Name() string {
	return c.name
}

func (c *Coverage) Observe(f *march.Frame, v renderstate.ViewState) {
	if f == nil || len(f.Shade) == 0 {
		return
	}
	lit := 0
	for _, s := range f.Shade {
		if s > c.threshold {
			lit++
		}
	}
	c.total += float64(lit) / float64(len(f.Shade))
	c.samples++
}

func (c *Coverage) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.total / float64(c.samples)
}

func (c *Coverage) Reset() {
	c.total = 0
	c.samples = 0
}
