package control

import (
	"math"

	"cogentcore.org/core/math32"

	"github.com/san-kum/studio/internal/camera"
	"github.com/san-kum/studio/internal/march"
	"github.com/san-kum/studio/internal/renderstate"
)

const (
	// OrbitSpeed is the rotation in radians per dragged pixel.
	OrbitSpeed = 0.01
	// WheelStep is the zoom change per wheel notch.
	WheelStep = 0.25
)

// Input is the pointer and keyboard state of one frame. Deltas are in
// pixels with y pointing down.
type Input struct {
	Resolution renderstate.Resolution
	Visible    bool
	// Dt is the playback time to add; zero while paused.
	Dt float64

	Orbit math32.Vector2 // primary drag
	Pan   math32.Vector2 // secondary drag
	Wheel float32

	// MoveSplit places the quad split at Split, in [0, 1] output units.
	MoveSplit bool
	Split     math32.Vector2

	CycleRender bool
	ToggleQuad  bool
	ToggleFree  bool
	Reset       bool
}

// Apply returns v updated by one frame of input.
func Apply(v renderstate.ViewState, in Input, sc march.Scene) renderstate.ViewState {
	if in.Reset {
		v = renderstate.Defaults()
	}
	v.Resolution = in.Resolution
	v.IsVisible = in.Visible && in.Resolution.Width > 0 && in.Resolution.Height > 0
	if v.IsVisible && in.Dt > 0 {
		v.Time += renderstate.Seconds(in.Dt)
	}

	if in.Orbit != (math32.Vector2{}) {
		v.Rotation = Orbit(v.Rotation, -float64(in.Orbit.X)*OrbitSpeed, float64(in.Orbit.Y)*OrbitSpeed)
	}
	if in.Wheel != 0 {
		v.Zoom += float64(in.Wheel) * WheelStep
	}
	if in.Pan != (math32.Vector2{}) {
		px := PixelSize(v, sc)
		v = Pan(v, -float64(in.Pan.X)*px, float64(in.Pan.Y)*px, sc)
	}
	if in.MoveSplit {
		v.QuadSplitPoint = math32.Vec2(clampUnit(in.Split.X), clampUnit(in.Split.Y))
	}

	if in.CycleRender {
		v.RenderType = v.RenderType.Next()
	}
	if in.ToggleQuad {
		v.QuadView = !v.QuadView
	}
	if in.ToggleFree {
		v.PrefersFreeCamera = !v.PrefersFreeCamera
	}
	return v
}

// Orbit adds yaw and pitch to a rotation. Pitch stops at the poles.
func Orbit(r math32.Vector2, yaw, pitch float64) math32.Vector2 {
	p := math.Max(-math.Pi/2, math.Min(math.Pi/2, float64(r.Y)+pitch))
	return math32.Vec2(r.X+float32(yaw), float32(p))
}

// Pan moves the view origin by (dx, dy) world units along the screen axes
// of the free camera. Flat scenes move origin2D instead.
func Pan(v renderstate.ViewState, dx, dy float64, sc march.Scene) renderstate.ViewState {
	if sc.Flat {
		v.Origin2D = math32.Vec2(v.Origin2D.X+float32(dx), v.Origin2D.Y+float32(dy))
		return v
	}
	cam := camera.Look(camera.OrbitFor(v, sc.Camera), 1)
	delta := cam.Right.Scale(dx).Add(cam.Up.Scale(dy))
	v.Origin = camera.FromVector3(v.Origin).Add(delta).ToVector3()
	return v
}

// PixelSize returns the world size of one output pixel at the view
// origin, or 0 for an empty output.
func PixelSize(v renderstate.ViewState, sc march.Scene) float64 {
	h := v.Resolution.Height
	if h <= 0 || v.Resolution.Width <= 0 {
		return 0
	}
	if sc.Flat {
		full := camera.Rect{W: v.Resolution.Width, H: h}
		return 1 / camera.PlaneFor(v, full).Scale
	}
	return 2 * camera.ZoomDistance(v.Zoom) * math.Tan(camera.FOV/2) / float64(h)
}

func clampUnit(x float32) float32 {
	return max(0, min(1, x))
}
