package control

import (
	"math"
	"testing"

	"cogentcore.org/core/math32"

	"github.com/san-kum/studio/internal/camera"
	"github.com/san-kum/studio/internal/march"
	"github.com/san-kum/studio/internal/renderstate"
)

var res = renderstate.Resolution{Width: 200, Height: 100}

func scene(t *testing.T, name string) march.Scene {
	t.Helper()
	sc, err := march.SceneByName(name)
	if err != nil {
		t.Fatal(err)
	}
	return sc
}

func TestApplyIdleInput(t *testing.T) {
	v := renderstate.Defaults()
	got := Apply(v, Input{Resolution: res, Visible: true}, scene(t, "spheres"))

	want := v
	want.Resolution = res
	want.IsVisible = true
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestApplyAdvancesTimeOnlyWhenVisible(t *testing.T) {
	sc := scene(t, "spheres")
	v := Apply(renderstate.Defaults(), Input{Resolution: res, Visible: true, Dt: 0.5}, sc)
	if v.Time != 0.5 {
		t.Errorf("expected time 0.5, got %v", v.Time)
	}

	v = Apply(v, Input{Resolution: res, Visible: false, Dt: 0.5}, sc)
	if v.Time != 0.5 || v.IsVisible {
		t.Errorf("hidden frame changed time: %+v", v)
	}

	v = Apply(v, Input{Visible: true, Dt: 0.5}, sc)
	if v.IsVisible {
		t.Error("empty resolution must not be visible")
	}
}

func TestApplyOrbitAndZoom(t *testing.T) {
	in := Input{
		Resolution: res,
		Visible:    true,
		Orbit:      math32.Vec2(10, -20),
		Wheel:      2,
	}
	v := Apply(renderstate.Defaults(), in, scene(t, "spheres"))

	if math.Abs(float64(v.Rotation.X)+0.1) > 1e-6 {
		t.Errorf("expected yaw -0.1, got %f", v.Rotation.X)
	}
	if math.Abs(float64(v.Rotation.Y)+0.2) > 1e-6 {
		t.Errorf("expected pitch -0.2, got %f", v.Rotation.Y)
	}
	if v.Zoom != 0.5 {
		t.Errorf("expected zoom 0.5, got %f", v.Zoom)
	}
}

func TestOrbitClampsPitch(t *testing.T) {
	r := Orbit(math32.Vec2(0, 1.5), 0.25, 1)
	if r.X != 0.25 {
		t.Errorf("expected yaw 0.25, got %f", r.X)
	}
	if r.Y != float32(math.Pi/2) {
		t.Errorf("expected pitch at the pole, got %f", r.Y)
	}
}

func TestApplyPanFollowsDrag(t *testing.T) {
	sc := scene(t, "spheres")
	v := Apply(renderstate.Defaults(), Input{Resolution: res, Visible: true, Pan: math32.Vec2(10, 0)}, sc)

	// Dragging right moves the scene right, so the origin moves left.
	if v.Origin.X >= 0 {
		t.Errorf("expected origin to move left, got %+v", v.Origin)
	}
	want := 10 * PixelSize(v, sc)
	if math.Abs(float64(-v.Origin.X)-want) > 1e-5 {
		t.Errorf("expected pan of %f, got %f", want, -v.Origin.X)
	}
}

func TestPanFlatScene(t *testing.T) {
	v := Pan(renderstate.Defaults(), 1, -2, scene(t, "rings"))
	if v.Origin2D != math32.Vec2(1, -2) {
		t.Errorf("expected origin2D (1, -2), got %+v", v.Origin2D)
	}
	if v.Origin != (math32.Vector3{}) {
		t.Errorf("flat pan moved the 3D origin: %+v", v.Origin)
	}
}

func TestPanUsesScreenAxes(t *testing.T) {
	v := renderstate.Defaults()
	v.Rotation = math32.Vec2(math.Pi/2, 0)
	v = Pan(v, 1, 0, scene(t, "spheres"))

	// Looking down -X, screen right is -Z.
	got := camera.FromVector3(v.Origin)
	if math.Abs(got.Z+1) > 1e-5 || math.Abs(got.X) > 1e-5 {
		t.Errorf("expected origin (0, 0, -1), got %+v", got)
	}
}

func TestPixelSize(t *testing.T) {
	v := renderstate.Defaults()
	if PixelSize(v, scene(t, "spheres")) != 0 {
		t.Error("expected zero pixel size without a resolution")
	}

	v.Resolution = res
	want := 2 * camera.BaseDistance * math.Tan(camera.FOV/2) / 100
	if got := PixelSize(v, scene(t, "spheres")); math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %f, got %f", want, got)
	}

	v.Zoom = 1
	if got := PixelSize(v, scene(t, "spheres")); math.Abs(got-want/2) > 1e-9 {
		t.Errorf("expected zoom to halve pixel size, got %f", got)
	}

	if got := PixelSize(v, scene(t, "rings")); math.Abs(got-2*camera.BaseDistance/100/2) > 1e-9 {
		t.Errorf("unexpected flat pixel size %f", got)
	}
}

func TestApplyToggles(t *testing.T) {
	in := Input{
		Resolution:  res,
		Visible:     true,
		CycleRender: true,
		ToggleQuad:  true,
		ToggleFree:  true,
		MoveSplit:   true,
		Split:       math32.Vec2(1.5, 0.25),
	}
	v := Apply(renderstate.Defaults(), in, scene(t, "spheres"))

	if v.RenderType != renderstate.Surfaceless {
		t.Errorf("expected surfaceless, got %s", v.RenderType)
	}
	if !v.QuadView || v.PrefersFreeCamera {
		t.Errorf("toggles not applied: %+v", v)
	}
	if v.QuadSplitPoint != math32.Vec2(1, 0.25) {
		t.Errorf("expected clamped split (1, 0.25), got %+v", v.QuadSplitPoint)
	}
}

func TestApplyReset(t *testing.T) {
	v := renderstate.Defaults()
	v.Zoom, v.QuadView, v.Time = 3, true, 10
	v = Apply(v, Input{Resolution: res, Visible: true, Reset: true}, scene(t, "spheres"))

	want := renderstate.Defaults()
	want.Resolution, want.IsVisible = res, true
	if v != want {
		t.Errorf("expected %+v, got %+v", want, v)
	}
}
