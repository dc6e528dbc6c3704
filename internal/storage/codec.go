package storage

import (
	"fmt"
	"strconv"

	"cogentcore.org/core/math32"

	"github.com/san-kum/studio/internal/renderstate"
)

// Columns names the CSV columns of a recording, one per scalar field.
var Columns = []string{
	"time", "is_visible", "render_type",
	"rotation_x", "rotation_y",
	"origin_x", "origin_y", "origin_z",
	"origin2d_x", "origin2d_y",
	"zoom", "prefers_free_camera", "quad_view",
	"quad_split_x", "quad_split_y",
	"width", "height",
}

// Values flattens v into one float per column; booleans are 0 or 1 and the
// render type is its index.
func Values(v renderstate.ViewState) []float64 {
	return []float64{
		float64(v.Time), boolf(v.IsVisible), float64(v.RenderType),
		float64(v.Rotation.X), float64(v.Rotation.Y),
		float64(v.Origin.X), float64(v.Origin.Y), float64(v.Origin.Z),
		float64(v.Origin2D.X), float64(v.Origin2D.Y),
		v.Zoom, boolf(v.PrefersFreeCamera), boolf(v.QuadView),
		float64(v.QuadSplitPoint.X), float64(v.QuadSplitPoint.Y),
		float64(v.Resolution.Width), float64(v.Resolution.Height),
	}
}

// Column returns the values of the named column across samples.
func Column(samples []renderstate.ViewState, name string) ([]float64, error) {
	idx := -1
	for i, c := range Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("storage: unknown column %q", name)
	}
	out := make([]float64, len(samples))
	for i, v := range samples {
		out[i] = Values(v)[idx]
	}
	return out, nil
}

func EncodeRow(v renderstate.ViewState) []string {
	f64 := func(x float64) string { return strconv.FormatFloat(x, 'g', -1, 64) }
	f32 := func(x float32) string { return strconv.FormatFloat(float64(x), 'g', -1, 32) }
	return []string{
		f64(float64(v.Time)), strconv.FormatBool(v.IsVisible), v.RenderType.String(),
		f32(v.Rotation.X), f32(v.Rotation.Y),
		f32(v.Origin.X), f32(v.Origin.Y), f32(v.Origin.Z),
		f32(v.Origin2D.X), f32(v.Origin2D.Y),
		f64(v.Zoom), strconv.FormatBool(v.PrefersFreeCamera), strconv.FormatBool(v.QuadView),
		f32(v.QuadSplitPoint.X), f32(v.QuadSplitPoint.Y),
		strconv.Itoa(v.Resolution.Width), strconv.Itoa(v.Resolution.Height),
	}
}

// rowDecoder keeps the first parse error so DecodeRow reads linearly.
type rowDecoder struct {
	rec []string
	i   int
	err error
}

func (d *rowDecoder) next() string {
	s := d.rec[d.i]
	d.i++
	return s
}

func (d *rowDecoder) f64() float64 {
	s := d.next()
	if d.err != nil {
		return 0
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		d.err = fmt.Errorf("column %s: %w", Columns[d.i-1], err)
	}
	return x
}

func (d *rowDecoder) f32() float32 {
	s := d.next()
	if d.err != nil {
		return 0
	}
	x, err := strconv.ParseFloat(s, 32)
	if err != nil {
		d.err = fmt.Errorf("column %s: %w", Columns[d.i-1], err)
	}
	return float32(x)
}

func (d *rowDecoder) bool() bool {
	s := d.next()
	if d.err != nil {
		return false
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		d.err = fmt.Errorf("column %s: %w", Columns[d.i-1], err)
	}
	return b
}

func (d *rowDecoder) int() int {
	s := d.next()
	if d.err != nil {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		d.err = fmt.Errorf("column %s: %w", Columns[d.i-1], err)
	}
	return n
}

func (d *rowDecoder) renderType() renderstate.RenderType {
	s := d.next()
	if d.err != nil {
		return renderstate.Normal
	}
	rt, err := renderstate.ParseRenderType(s)
	if err != nil {
		d.err = err
	}
	return rt
}

func DecodeRow(rec []string) (renderstate.ViewState, error) {
	if len(rec) != len(Columns) {
		return renderstate.ViewState{}, fmt.Errorf("expected %d columns, got %d", len(Columns), len(rec))
	}
	d := &rowDecoder{rec: rec}
	var v renderstate.ViewState
	v.Time = renderstate.Seconds(d.f64())
	v.IsVisible = d.bool()
	v.RenderType = d.renderType()
	v.Rotation = math32.Vec2(d.f32(), d.f32())
	v.Origin = math32.Vec3(d.f32(), d.f32(), d.f32())
	v.Origin2D = math32.Vec2(d.f32(), d.f32())
	v.Zoom = d.f64()
	v.PrefersFreeCamera = d.bool()
	v.QuadView = d.bool()
	v.QuadSplitPoint = math32.Vec2(d.f32(), d.f32())
	v.Resolution = renderstate.Resolution{Width: d.int(), Height: d.int()}
	if d.err != nil {
		return renderstate.ViewState{}, d.err
	}
	if err := v.Validate(); err != nil {
		return renderstate.ViewState{}, err
	}
	return v, nil
}

func boolf(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
