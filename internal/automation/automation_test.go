package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/studio/internal/march"
	"github.com/san-kum/studio/internal/renderstate"
	"github.com/san-kum/studio/internal/storage"
)

var fastTrace = march.Options{MaxSteps: 16, MaxDistance: 32, Epsilon: 1e-2, Workers: 2}

const tourYAML = `
name: demo
scene: torus
width: 24
height: 16
fps: 4
steps:
  - preset: iso
    duration: 1
  - render_type: distance
    zoom: 0.5
    save_as: close-up
  - quad_view: true
    quad_split_point: [0.25, 0.75]
    duration: 0.5
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tour.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, tourYAML))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sc.Name != "demo" || len(sc.Steps) != 3 {
		t.Errorf("unexpected scenario %+v", sc)
	}
	if sc.Steps[1].Zoom == nil || *sc.Steps[1].Zoom != 0.5 {
		t.Error("expected zoom override on step 2")
	}
}

func TestLoadScenarioDefaults(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, "steps:\n  - preset: top\n"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sc.Scene != "spheres" || sc.Width != 160 || sc.Height != 120 || sc.FPS != 10 {
		t.Errorf("defaults not applied: %+v", sc)
	}
}

func TestLoadScenarioErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"no steps", "name: empty\n", ErrNoSteps},
		{"bad preset", "steps:\n  - preset: nope\n", ErrUnknownPreset},
		{"bad render type", "steps:\n  - render_type: wireframe\n", renderstate.ErrUnknownRenderType},
		{"bad scene", "scene: nowhere\nsteps:\n  - preset: top\n", march.ErrUnknownScene},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.body))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := LoadScenario(writeScenario(t, "steps:\n  - rotation: [1]\n")); err == nil {
		t.Error("expected error for short rotation")
	}
}

func TestStepApplyKeepsUnsetFields(t *testing.T) {
	v := renderstate.Defaults()
	v.Zoom = 2
	v.QuadView = true

	yes := true
	out, err := ScenarioStep{Rotation: []float32{1, 2}, FreeCamera: &yes}.Apply(v)
	if err != nil {
		t.Fatal(err)
	}
	if out.Zoom != 2 || !out.QuadView {
		t.Error("unset fields must keep their value")
	}
	if out.Rotation.X != 1 || out.Rotation.Y != 2 {
		t.Errorf("unexpected rotation %v", out.Rotation)
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, tourYAML))
	if err != nil {
		t.Fatal(err)
	}
	store := storage.New(t.TempDir())

	var times []renderstate.Seconds
	results, err := RunScenario(context.Background(), sc, RunOptions{
		Trace: fastTrace,
		Store: store,
		OnFrame: func(step, index int, f *march.Frame, v renderstate.ViewState) error {
			if f.Width != 24 || f.Height != 16 {
				t.Errorf("unexpected frame size %dx%d", f.Width, f.Height)
			}
			times = append(times, v.Time)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	wantFrames := []int{4, 1, 2}
	for i, r := range results {
		if r.Frames != wantFrames[i] {
			t.Errorf("step %d: expected %d frames, got %d", i+1, wantFrames[i], r.Frames)
		}
		if _, ok := r.Metrics["coverage"]; !ok {
			t.Errorf("step %d: missing coverage", i+1)
		}
	}
	if len(times) != 7 {
		t.Fatalf("expected 7 frames, got %d", len(times))
	}
	if times[3] != 0.75 || times[4] != 0.75 || times[6] != 1 {
		t.Errorf("unexpected playback times %v", times)
	}

	last := results[2].View
	if last.RenderType != renderstate.Distance || last.Zoom != 0.5 || !last.QuadView {
		t.Errorf("steps did not accumulate: %+v", last)
	}

	b, err := store.LoadBookmark("close-up")
	if err != nil {
		t.Fatalf("bookmark not saved: %v", err)
	}
	if b.Scene != "torus" || b.View.Zoom != 0.5 {
		t.Errorf("unexpected bookmark %+v", b)
	}
}

func TestRunScenarioStopsOnFrameError(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, tourYAML))
	if err != nil {
		t.Fatal(err)
	}
	stop := errors.New("stop")
	results, err := RunScenario(context.Background(), sc, RunOptions{
		Trace:   fastTrace,
		OnFrame: func(int, int, *march.Frame, renderstate.ViewState) error { return stop },
	})
	if !errors.Is(err, stop) {
		t.Errorf("expected stop error, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no finished steps, got %d", len(results))
	}
}

func TestRunSweep(t *testing.T) {
	results, err := RunSweep(context.Background(), &Sweep{
		Scene:  "spheres",
		Field:  "zoom",
		Min:    -1,
		Max:    1,
		Steps:  3,
		Base:   renderstate.Defaults(),
		Width:  16,
		Height: 12,
	}, RunOptions{Trace: fastTrace})
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, want := range []float64{-1, 0, 1} {
		if results[i].Value != want {
			t.Errorf("result %d: expected value %v, got %v", i, want, results[i].Value)
		}
		if results[i].Coverage < 0 || results[i].Coverage > 1 {
			t.Errorf("result %d: coverage out of range: %v", i, results[i].Coverage)
		}
	}
}

func TestRunSweepDefaultTrace(t *testing.T) {
	results, err := RunSweep(context.Background(), &Sweep{
		Scene:  "spheres",
		Field:  "zoom",
		Min:    -0.5,
		Max:    0.5,
		Steps:  2,
		Base:   renderstate.Defaults(),
		Width:  16,
		Height: 12,
	}, RunOptions{})
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	for i, r := range results {
		if r.MeanShade <= 0 {
			t.Errorf("result %d: expected a lit frame, got mean shade %v", i, r.MeanShade)
		}
	}
}

func TestRunSweepErrors(t *testing.T) {
	base := &Sweep{Scene: "spheres", Field: "zoom", Steps: 1, Width: 4, Height: 4}
	if _, err := RunSweep(context.Background(), base, RunOptions{Trace: fastTrace}); err == nil {
		t.Error("expected error for a single step")
	}

	bad := *base
	bad.Steps, bad.Field = 2, "colour"
	if _, err := RunSweep(context.Background(), &bad, RunOptions{Trace: fastTrace}); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}

	neg := *base
	neg.Steps, neg.Field, neg.Min, neg.Max = 2, "time", -2, -1
	if _, err := RunSweep(context.Background(), &neg, RunOptions{Trace: fastTrace}); !errors.Is(err, renderstate.ErrNegativeTime) {
		t.Errorf("expected ErrNegativeTime, got %v", err)
	}
}
