package march

import (
	"context"
	"errors"
	"math"
	"testing"

	"cogentcore.org/core/math32"

	"github.com/san-kum/studio/internal/renderstate"
)

func visible(w, h int) renderstate.ViewState {
	v := renderstate.Defaults()
	v.IsVisible = true
	v.Resolution = renderstate.Resolution{Width: w, Height: h}
	return v
}

func TestShapeDistances(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		p     Vec3
		want  float64
	}{
		{"sphere outside", Sphere{Radius: 1}, Vec3{3, 0, 0}, 2},
		{"sphere inside", Sphere{Radius: 1}, Vec3{}, -1},
		{"box face", Box{Half: Vec3{1, 1, 1}}, Vec3{0, 3, 0}, 2},
		{"box corner", Box{Half: Vec3{1, 1, 1}}, Vec3{2, 2, 1}, math.Sqrt2},
		{"torus ring", Torus{Major: 2, Minor: 0.5}, Vec3{2, 1, 0}, 0.5},
		{"ground", Ground{Height: -1}, Vec3{5, 1, 5}, 2},
		{"union", Union{Sphere{Radius: 1}, Sphere{Vec3{5, 0, 0}, 1}}, Vec3{4, 0, 0}, 0},
		{"translate", Translate{Sphere{Radius: 1}, Vec3{0, 2, 0}}, Vec3{0, 2, 0}, -1},
		{"circle", Circle{Radius: 1}, Vec3{0, 2, 9}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.shape.Dist(tt.p, 0)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("expected %.4f, got %.4f", tt.want, got)
			}
		})
	}
}

func TestSmoothUnionBlends(t *testing.T) {
	a, b := Sphere{Vec3{-1, 0, 0}, 1}, Sphere{Vec3{1, 0, 0}, 1}
	hard := Union{a, b}.Dist(Vec3{0, 1, 0}, 0)
	soft := SmoothUnion{A: a, B: b, K: 0.5}.Dist(Vec3{0, 1, 0}, 0)
	if soft >= hard {
		t.Errorf("smooth union should bulge: hard %.4f, soft %.4f", hard, soft)
	}
}

func TestBobMovesWithTime(t *testing.T) {
	b := Bob{Shape: Sphere{Radius: 1}, Amplitude: 1, Speed: 1}
	if d := b.Dist(Vec3{0, 1, 0}, math.Pi/2); math.Abs(d+1) > 1e-9 {
		t.Errorf("expected centre at y=1, got distance %.4f", d)
	}
}

func TestTraceHitsSphere(t *testing.T) {
	hit, dist, steps := Trace(Sphere{Radius: 1}, Vec3{0, 0, 5}, Vec3{0, 0, -1}, 0, DefaultOptions())
	if !hit {
		t.Fatal("expected hit")
	}
	if math.Abs(dist-4) > 1e-2 {
		t.Errorf("expected distance ~4, got %.4f", dist)
	}
	if steps < 1 {
		t.Errorf("expected at least one step, got %d", steps)
	}
}

func TestTraceMisses(t *testing.T) {
	opts := DefaultOptions()
	hit, dist, _ := Trace(Sphere{Radius: 1}, Vec3{0, 0, 5}, Vec3{0, 0, 1}, 0, opts)
	if hit {
		t.Fatal("expected miss")
	}
	if dist != opts.MaxDistance {
		t.Errorf("expected max distance, got %.4f", dist)
	}
}

func TestNormalOfSphere(t *testing.T) {
	n := Normal(Sphere{Radius: 1}, Vec3{0, 1, 0}, 0)
	if math.Abs(n.Y-1) > 1e-6 {
		t.Errorf("expected up normal, got %+v", n)
	}
}

func TestRenderRequiresVisibility(t *testing.T) {
	sc, _ := SceneByName("spheres")
	v := visible(8, 8)
	v.IsVisible = false
	if _, err := Render(context.Background(), sc, v, DefaultOptions()); !errors.Is(err, ErrNotVisible) {
		t.Errorf("expected ErrNotVisible, got %v", err)
	}
}

func TestRenderRequiresPixels(t *testing.T) {
	sc, _ := SceneByName("spheres")
	if _, err := Render(context.Background(), sc, visible(0, 10), DefaultOptions()); !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("expected ErrEmptyFrame, got %v", err)
	}
}

func TestRenderCentreHitsSphere(t *testing.T) {
	sc := Scene{Shape: Sphere{Radius: 1}}
	f, err := Render(context.Background(), sc, visible(21, 21), DefaultOptions())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if f.Width != 21 || f.Height != 21 {
		t.Fatalf("unexpected size %dx%d", f.Width, f.Height)
	}
	if f.At(10, 10) <= 0 {
		t.Error("expected lit centre pixel")
	}
	if f.At(0, 0) != 0 {
		t.Errorf("expected empty corner, got %.3f", f.At(0, 0))
	}
}

func TestRenderZeroOptions(t *testing.T) {
	sc := Scene{Shape: Sphere{Radius: 1}}
	got, err := Render(context.Background(), sc, visible(21, 21), Options{})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	want, err := Render(context.Background(), sc, visible(21, 21), DefaultOptions())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if got.At(10, 10) <= 0 {
		t.Error("expected lit centre pixel with zero options")
	}
	for i := range want.Shade {
		if got.Shade[i] != want.Shade[i] {
			t.Fatalf("pixel %d: expected %.3f, got %.3f", i, want.Shade[i], got.Shade[i])
		}
	}
}

func TestRenderTypes(t *testing.T) {
	sc := Scene{Shape: Sphere{Radius: 1}}
	for _, rt := range renderstate.RenderTypes() {
		t.Run(rt.String(), func(t *testing.T) {
			v := visible(15, 15)
			v.RenderType = rt
			f, err := Render(context.Background(), sc, v, DefaultOptions())
			if err != nil {
				t.Fatalf("render failed: %v", err)
			}
			for _, s := range f.Shade {
				if s < 0 || s > 1 {
					t.Fatalf("shade out of range: %f", s)
				}
			}
			switch rt {
			case renderstate.Distance:
				if f.At(0, 0) != 1 {
					t.Errorf("expected miss at max distance, got %.3f", f.At(0, 0))
				}
				if f.At(7, 7) >= 1 {
					t.Error("expected centre closer than max distance")
				}
			case renderstate.Convergence:
				if f.At(7, 7) <= 0 {
					t.Error("expected steps at centre")
				}
			}
		})
	}
}

func TestRenderQuadView(t *testing.T) {
	sc := Scene{Shape: Sphere{Radius: 1}}
	v := visible(40, 20)
	v.QuadView = true
	v.QuadSplitPoint = math32.Vec2(0.5, 0.5)
	f, err := Render(context.Background(), sc, v, DefaultOptions())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	centres := [][2]int{{10, 5}, {30, 5}, {10, 15}, {30, 15}}
	for _, c := range centres {
		if f.At(c[0], c[1]) <= 0 {
			t.Errorf("expected sphere visible at pane centre %v", c)
		}
	}
}

func TestRenderFlatScene(t *testing.T) {
	sc, err := SceneByName("rings")
	if err != nil {
		t.Fatal(err)
	}
	v := visible(32, 32)
	v.Origin2D = math32.Vec2(-2, 0)
	f, err := Render(context.Background(), sc, v, DefaultOptions())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if f.At(16, 16) != 1 {
		t.Errorf("expected inside of disc at centre, got %.3f", f.At(16, 16))
	}
}

func TestRenderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sc, _ := SceneByName("spheres")
	if _, err := Render(ctx, sc, visible(16, 16), DefaultOptions()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSceneRegistry(t *testing.T) {
	names := SceneNames()
	if len(names) == 0 {
		t.Fatal("expected built-in scenes")
	}
	for _, n := range names {
		sc, err := SceneByName(n)
		if err != nil {
			t.Errorf("scene %s: %v", n, err)
		}
		if sc.Name != n {
			t.Errorf("scene %s has name %s", n, sc.Name)
		}
	}
	if _, err := SceneByName("nope"); !errors.Is(err, ErrUnknownScene) {
		t.Errorf("expected ErrUnknownScene, got %v", err)
	}
}

func TestFrameImage(t *testing.T) {
	f := NewFrame(2, 1)
	f.Shade[0], f.Shade[1] = 0, 1
	img := f.Image()
	if img.GrayAt(0, 0).Y != 0 || img.GrayAt(1, 0).Y != 255 {
		t.Errorf("unexpected pixels %v", img.Pix)
	}
}
