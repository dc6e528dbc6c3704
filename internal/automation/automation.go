// Package automation plays scripted camera tours and parameter sweeps
// through a view registry and renders every resulting frame.
package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"

	"cogentcore.org/core/math32"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/studio/internal/config"
	"github.com/san-kum/studio/internal/march"
	"github.com/san-kum/studio/internal/metrics"
	"github.com/san-kum/studio/internal/renderstate"
	"github.com/san-kum/studio/internal/signal"
	"github.com/san-kum/studio/internal/storage"
)

var (
	ErrNoSteps       = errors.New("automation: scenario has no steps")
	ErrUnknownPreset = errors.New("automation: unknown preset")
	ErrUnknownField  = errors.New("automation: unknown sweep field")
)

// Scenario is a scripted camera tour.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Scene       string         `yaml:"scene"`
	Width       int            `yaml:"width"`
	Height      int            `yaml:"height"`
	FPS         float64        `yaml:"fps"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep rewrites the view once and then plays it for Duration
// seconds. Unset fields keep the previous step's value.
type ScenarioStep struct {
	Preset     string    `yaml:"preset"`
	RenderType string    `yaml:"render_type"`
	Rotation   []float32 `yaml:"rotation"`
	Origin     []float32 `yaml:"origin"`
	Origin2D   []float32 `yaml:"origin_2d"`
	Zoom       *float64  `yaml:"zoom"`
	QuadView   *bool     `yaml:"quad_view"`
	FreeCamera *bool     `yaml:"free_camera"`
	Split      []float32 `yaml:"quad_split_point"`
	Duration   float64   `yaml:"duration"`
	SaveAs     string    `yaml:"save_as"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("automation: %s: %w", path, err)
	}
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("automation: %s: %w", path, err)
	}
	return &scenario, nil
}

// Validate fills the playback defaults and checks every step.
func (s *Scenario) Validate() error {
	if len(s.Steps) == 0 {
		return ErrNoSteps
	}
	if s.Width <= 0 {
		s.Width = 160
	}
	if s.Height <= 0 {
		s.Height = 120
	}
	if s.FPS <= 0 {
		s.FPS = 10
	}
	if s.Scene == "" {
		s.Scene = "spheres"
	}
	if _, err := march.SceneByName(s.Scene); err != nil {
		return err
	}
	for i, step := range s.Steps {
		if _, err := step.Apply(renderstate.Defaults()); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

// Apply rewrites v with the step's preset and then its explicit fields.
func (st ScenarioStep) Apply(v renderstate.ViewState) (renderstate.ViewState, error) {
	if st.Preset != "" {
		p := config.GetPreset(st.Preset)
		if p == nil {
			return v, fmt.Errorf("%w: %q", ErrUnknownPreset, st.Preset)
		}
		v = p(v)
	}
	if st.RenderType != "" {
		rt, err := renderstate.ParseRenderType(st.RenderType)
		if err != nil {
			return v, err
		}
		v.RenderType = rt
	}

	var err error
	if v.Rotation, err = vec2(st.Rotation, v.Rotation, "rotation"); err != nil {
		return v, err
	}
	if v.Origin2D, err = vec2(st.Origin2D, v.Origin2D, "origin_2d"); err != nil {
		return v, err
	}
	if v.QuadSplitPoint, err = vec2(st.Split, v.QuadSplitPoint, "quad_split_point"); err != nil {
		return v, err
	}
	if st.Origin != nil {
		if len(st.Origin) != 3 {
			return v, fmt.Errorf("automation: origin needs 3 components, got %d", len(st.Origin))
		}
		v.Origin = math32.Vec3(st.Origin[0], st.Origin[1], st.Origin[2])
	}

	if st.Zoom != nil {
		v.Zoom = *st.Zoom
	}
	if st.QuadView != nil {
		v.QuadView = *st.QuadView
	}
	if st.FreeCamera != nil {
		v.PrefersFreeCamera = *st.FreeCamera
	}
	if st.Duration < 0 {
		return v, fmt.Errorf("automation: negative duration %v", st.Duration)
	}
	return v, v.Validate()
}

func vec2(in []float32, cur math32.Vector2, field string) (math32.Vector2, error) {
	if in == nil {
		return cur, nil
	}
	if len(in) != 2 {
		return cur, fmt.Errorf("automation: %s needs 2 components, got %d", field, len(in))
	}
	return math32.Vec2(in[0], in[1]), nil
}

// FrameFunc receives every rendered frame with the view that produced it.
type FrameFunc func(step, index int, f *march.Frame, v renderstate.ViewState) error

type RunOptions struct {
	Trace   march.Options
	Store   *storage.Store
	Logger  *slog.Logger
	OnFrame FrameFunc
}

// StepResult summarizes one step of a tour.
type StepResult struct {
	Step    int
	Frames  int
	View    renderstate.ViewState
	Metrics map[string]float64
}

// RunScenario plays every step of the scenario. Each step's rewrite lands
// as one batch; playback then advances time by 1/FPS per frame.
func RunScenario(ctx context.Context, scenario *Scenario, opts RunOptions) ([]StepResult, error) {
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	sc, err := march.SceneByName(scenario.Scene)
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	start := renderstate.Defaults()
	start.IsVisible = true
	start.Resolution = renderstate.Resolution{Width: scenario.Width, Height: scenario.Height}
	reg := renderstate.NewRegistryFrom(signal.NewRuntime(), start)

	dt := renderstate.Seconds(1 / scenario.FPS)
	ms := metrics.Standard()
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		next, err := step.Apply(reg.Snapshot())
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		reg.Set(next)

		if step.SaveAs != "" && opts.Store != nil {
			if _, err := opts.Store.SaveBookmark(step.SaveAs, sc.Name, next); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		}

		for _, m := range ms {
			m.Reset()
		}
		frames := max(1, int(math.Ceil(step.Duration*scenario.FPS)))
		for n := 0; n < frames; n++ {
			v := reg.Snapshot()
			f, err := march.Render(ctx, sc, v, opts.Trace)
			if err != nil {
				return results, fmt.Errorf("step %d frame %d: %w", i+1, n, err)
			}
			for _, m := range ms {
				m.Observe(f, v)
			}
			if opts.OnFrame != nil {
				if err := opts.OnFrame(i, n, f, v); err != nil {
					return results, err
				}
			}
			if n < frames-1 {
				reg.Update(func(v renderstate.ViewState) renderstate.ViewState {
					v.Time += dt
					return v
				})
			}
		}

		res := StepResult{Step: i + 1, Frames: frames, View: reg.Snapshot(), Metrics: map[string]float64{}}
		for _, m := range ms {
			res.Metrics[m.Name()] = m.Value()
		}
		results = append(results, res)
		log.Info("tour step", "step", i+1, "of", len(scenario.Steps), "frames", frames)
	}

	return results, nil
}

// Sweep renders one frame per value of a view field spread evenly over
// [Min, Max].
type Sweep struct {
	Scene  string
	Field  string
	Min    float64
	Max    float64
	Steps  int
	Base   renderstate.ViewState
	Width  int
	Height int
}

type SweepResult struct {
	Value     float64
	Coverage  float64
	MeanShade float64
}

// SweepFields lists the fields a sweep can vary.
var SweepFields = []string{"zoom", "rotation_x", "rotation_y", "time", "quad_split_x", "quad_split_y"}

func setField(v renderstate.ViewState, field string, x float64) (renderstate.ViewState, error) {
	switch field {
	case "zoom":
		v.Zoom = x
	case "rotation_x":
		v.Rotation.X = float32(x)
	case "rotation_y":
		v.Rotation.Y = float32(x)
	case "time":
		v.Time = renderstate.Seconds(x)
	case "quad_split_x":
		v.QuadSplitPoint.X = float32(x)
	case "quad_split_y":
		v.QuadSplitPoint.Y = float32(x)
	default:
		return v, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return v, nil
}

func RunSweep(ctx context.Context, sweep *Sweep, opts RunOptions) ([]SweepResult, error) {
	if sweep.Steps < 2 {
		return nil, fmt.Errorf("automation: sweep needs at least 2 steps, got %d", sweep.Steps)
	}
	if _, err := setField(sweep.Base, sweep.Field, 0); err != nil {
		return nil, err
	}
	sc, err := march.SceneByName(sweep.Scene)
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	base := sweep.Base
	base.IsVisible = true
	base.Resolution = renderstate.Resolution{Width: sweep.Width, Height: sweep.Height}
	reg := renderstate.NewRegistryFrom(signal.NewRuntime(), base)

	results := make([]SweepResult, 0, sweep.Steps)
	step := (sweep.Max - sweep.Min) / float64(sweep.Steps-1)
	coverage, shade := metrics.NewCoverage(0.1), metrics.NewMeanShade()

	for i := 0; i < sweep.Steps; i++ {
		x := sweep.Min + float64(i)*step
		next, _ := setField(reg.Snapshot(), sweep.Field, x)
		if err := next.Validate(); err != nil {
			return results, fmt.Errorf("%s=%v: %w", sweep.Field, x, err)
		}
		reg.Set(next)

		v := reg.Snapshot()
		f, err := march.Render(ctx, sc, v, opts.Trace)
		if err != nil {
			return results, err
		}
		coverage.Reset()
		shade.Reset()
		coverage.Observe(f, v)
		shade.Observe(f, v)
		if opts.OnFrame != nil {
			if err := opts.OnFrame(0, i, f, v); err != nil {
				return results, err
			}
		}

		results = append(results, SweepResult{Value: x, Coverage: coverage.Value(), MeanShade: shade.Value()})
		log.Debug("sweep", "field", sweep.Field, "value", x, "step", i+1, "of", sweep.Steps)
	}

	return results, nil
}
