package config

import (
	"math"
	"sort"

	"cogentcore.org/core/math32"

	"github.com/san-kum/studio/internal/renderstate"
)

// Preset rewrites part of a view state; the caller writes the result back
// with SetAll so the change lands as one update.
type Preset func(v renderstate.ViewState) renderstate.ViewState

var Presets = map[string]Preset{
	"front": func(v renderstate.ViewState) renderstate.ViewState {
		v.Rotation = math32.Vec2(0, 0)
		v.Origin = math32.Vec3(0, 0, 0)
		v.PrefersFreeCamera, v.QuadView = true, false
		v.RenderType = renderstate.Normal
		return v
	},
	"top": func(v renderstate.ViewState) renderstate.ViewState {
		v.Rotation = math32.Vec2(0, math.Pi/2)
		v.PrefersFreeCamera, v.QuadView = true, false
		return v
	},
	"side": func(v renderstate.ViewState) renderstate.ViewState {
		v.Rotation = math32.Vec2(math.Pi/2, 0)
		v.PrefersFreeCamera, v.QuadView = true, false
		return v
	},
	"iso": func(v renderstate.ViewState) renderstate.ViewState {
		v.Rotation = math32.Vec2(math.Pi/4, float32(math.Atan(1/math.Sqrt2)))
		v.PrefersFreeCamera, v.QuadView = true, false
		return v
	},
	"quad": func(v renderstate.ViewState) renderstate.ViewState {
		v.QuadView = true
		v.QuadSplitPoint = math32.Vec2(0.5, 0.5)
		return v
	},
	"depth": func(v renderstate.ViewState) renderstate.ViewState {
		v.RenderType = renderstate.Distance
		return v
	},
	"steps": func(v renderstate.ViewState) renderstate.ViewState {
		v.RenderType = renderstate.Convergence
		return v
	},
}

func GetPreset(name string) Preset {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
