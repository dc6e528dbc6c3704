package metrics

import (
	"github.com/san-kum/studio/internal/march"
	"github.com/san-kum/studio/internal/renderstate"
)

// CameraMotion is the mean distance the camera travels between observed
// views, counting rotation in radians, origin and zoom steps alike.
type CameraMotion struct {
	name    string
	last    renderstate.ViewState
	sum     float64
	samples int
}

func NewCameraMotion() *CameraMotion {
	return &CameraMotion{
		name: "camera_motion",
	}
}

func (c *CameraMotion) Name() string {
	return c.name
}

func (c *CameraMotion) Observe(f *march.Frame, v renderstate.ViewState) {
	if c.samples > 0 {
		c.sum += float64(v.Rotation.Sub(c.last.Rotation).Length())
		c.sum += float64(v.Origin.Sub(c.last.Origin).Length())
		c.sum += float64(v.Origin2D.Sub(c.last.Origin2D).Length())
		d := v.Zoom - c.last.Zoom
		if d < 0 {
			d = -d
		}
		c.sum += d
	}
	c.last = v
	c.samples++
}

func (c *CameraMotion) Value() float64 {
	if c.samples < 2 {
		return 0
	}
	return c.sum / float64(c.samples-1)
}

func (c *CameraMotion) Reset() {
	c.last = renderstate.ViewState{}
	c.sum = 0
	c.samples = 0
}
