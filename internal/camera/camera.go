package camera

import (
	"math"

	"github.com/san-kum/studio/internal/renderstate"
)

const (
	// BaseDistance is the orbit distance at zoom 0.
	BaseDistance = 8.0
	// FOV is the vertical field of view of perspective panes.
	FOV = math.Pi / 3

	maxPitch = math.Pi/2 - 1e-3
)

var worldUp = Vec3{0, 1, 0}

// Orbit is a camera circling a target point.
type Orbit struct {
	Yaw, Pitch float64
	Distance   float64
	Target     Vec3
}

// DefaultOrbit looks at the origin from the front at zoom 0.
func DefaultOrbit() Orbit {
	return Orbit{Distance: BaseDistance}
}

// Eye returns the camera position.
func (o Orbit) Eye() Vec3 {
	cp := math.Cos(o.Pitch)
	dir := Vec3{cp * math.Sin(o.Yaw), math.Sin(o.Pitch), cp * math.Cos(o.Yaw)}
	return o.Target.Add(dir.Scale(o.Distance))
}

// ZoomDistance converts a zoom level into an orbit distance.
func ZoomDistance(zoom float64) float64 {
	return BaseDistance * math.Exp2(-zoom)
}

// OrbitFor returns the orbit the free pane uses. When the view does not
// prefer the free camera the scene's authored orbit wins.
func OrbitFor(v renderstate.ViewState, authored Orbit) Orbit {
	if !v.PrefersFreeCamera {
		return authored
	}
	return Orbit{
		Yaw:      float64(v.Rotation.X),
		Pitch:    math.Max(-maxPitch, math.Min(maxPitch, float64(v.Rotation.Y))),
		Distance: ZoomDistance(v.Zoom),
		Target:   FromVector3(v.Origin),
	}
}

// Camera is an oriented projection ready to generate rays.
type Camera struct {
	Eye                Vec3
	Forward, Right, Up Vec3
	Ortho              bool
	HalfHeight, Aspect float64
}

// Look builds a perspective camera at o.
func Look(o Orbit, aspect float64) Camera {
	eye := o.Eye()
	fwd := o.Target.Sub(eye).Normalize()
	right := fwd.Cross(worldUp).Normalize()
	return Camera{
		Eye:        eye,
		Forward:    fwd,
		Right:      right,
		Up:         right.Cross(fwd),
		HalfHeight: math.Tan(FOV / 2),
		Aspect:     aspect,
	}
}

// ForPane builds the camera for a layout pane. Axis panes are orthographic
// around the view origin with an extent that follows zoom.
func ForPane(kind Kind, v renderstate.ViewState, authored Orbit, aspect float64) Camera {
	if kind == Free {
		return Look(OrbitFor(v, authored), aspect)
	}

	dist := ZoomDistance(v.Zoom)
	target := FromVector3(v.Origin)
	var back, up Vec3
	switch kind {
	case Top:
		back, up = Vec3{0, 1, 0}, Vec3{0, 0, -1}
	case Front:
		back, up = Vec3{0, 0, 1}, Vec3{0, 1, 0}
	default:
		back, up = Vec3{1, 0, 0}, Vec3{0, 1, 0}
	}
	fwd := back.Scale(-1)
	return Camera{
		Eye:        target.Add(back.Scale(dist)),
		Forward:    fwd,
		Right:      fwd.Cross(up),
		Up:         up,
		Ortho:      true,
		HalfHeight: dist * math.Tan(FOV/2),
		Aspect:     aspect,
	}
}

// Ray returns the origin and unit direction through pane coordinates
// (u, v) in [-1, 1].
func (c Camera) Ray(u, v float64) (origin, dir Vec3) {
	du := c.Right.Scale(u * c.HalfHeight * c.Aspect)
	dv := c.Up.Scale(v * c.HalfHeight)
	if c.Ortho {
		return c.Eye.Add(du).Add(dv), c.Forward
	}
	return c.Eye, c.Forward.Add(du).Add(dv).Normalize()
}

// Plane maps pixels of a flat (2D) view to world coordinates: origin2D pans
// and zoom scales by powers of two.
type Plane struct {
	Center Vec3
	Scale  float64 // pixels per world unit
	Rect   Rect
}

// PlaneFor returns the 2D mapping for a pane. At zoom 0 the shorter side of
// the pane spans 2·BaseDistance world units.
func PlaneFor(v renderstate.ViewState, r Rect) Plane {
	short := math.Min(float64(r.W), float64(r.H))
	return Plane{
		Center: Vec3{float64(v.Origin2D.X), float64(v.Origin2D.Y), 0},
		Scale:  short / (2 * BaseDistance) * math.Exp2(v.Zoom),
		Rect:   r,
	}
}

// World returns the world point under pixel (x, y).
func (p Plane) World(x, y int) Vec3 {
	cx := float64(p.Rect.X) + float64(p.Rect.W)/2
	cy := float64(p.Rect.Y) + float64(p.Rect.H)/2
	return Vec3{
		X: p.Center.X + (float64(x)+0.5-cx)/p.Scale,
		Y: p.Center.Y - (float64(y)+0.5-cy)/p.Scale,
	}
}
