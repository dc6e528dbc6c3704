package march

import (
	"context"
	"image"
	"image/color"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/studio/internal/camera"
	"github.com/san-kum/studio/internal/renderstate"
)

// Options bounds the work spent per ray.
type Options struct {
	MaxSteps    int
	MaxDistance float64
	Epsilon     float64
	Workers     int
}

func DefaultOptions() Options {
	return Options{
		MaxSteps:    96,
		MaxDistance: 64,
		Epsilon:     1e-3,
		Workers:     runtime.NumCPU(),
	}
}

// withDefaults fills unset bounds from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxSteps <= 0 {
		o.MaxSteps = d.MaxSteps
	}
	if o.MaxDistance <= 0 {
		o.MaxDistance = d.MaxDistance
	}
	if o.Epsilon <= 0 {
		o.Epsilon = d.Epsilon
	}
	if o.Workers <= 0 {
		o.Workers = d.Workers
	}
	return o
}

var lightDir = Vec3{0.6, 0.8, 0.4}.Normalize()

// Frame is a grayscale shade buffer in [0, 1], row-major.
type Frame struct {
	Width, Height int
	Shade         []float64
}

func NewFrame(w, h int) *Frame {
	return &Frame{Width: w, Height: h, Shade: make([]float64, w*h)}
}

func (f *Frame) At(x, y int) float64 {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return 0
	}
	return f.Shade[y*f.Width+x]
}

// Image converts the frame to an 8-bit grayscale image.
func (f *Frame) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, f.Width, f.Height))
	for i, s := range f.Shade {
		img.Pix[i] = uint8(math.Round(clamp01(s) * 255))
	}
	return img
}

// ColorAt maps a shade to an RGBA colour for the render type: the
// diagnostic modes use a heat ramp so iteration counts stand out.
func ColorAt(rt renderstate.RenderType, s float64) color.RGBA {
	s = clamp01(s)
	if rt == renderstate.Convergence {
		return color.RGBA{uint8(255 * s), uint8(255 * s * s), uint8(255 * (1 - s) * 0.6), 255}
	}
	g := uint8(255 * s)
	return color.RGBA{g, g, g, 255}
}

type paneCam struct {
	pane  camera.Pane
	cam   camera.Camera
	plane camera.Plane
}

// Render traces sc for view v into a frame the size of v's resolution.
func Render(ctx context.Context, sc Scene, v renderstate.ViewState, opts Options) (*Frame, error) {
	if !v.IsVisible {
		return nil, ErrNotVisible
	}
	panes := camera.Layout(v)
	if len(panes) == 0 {
		return nil, ErrEmptyFrame
	}
	opts = opts.withDefaults()

	cams := make([]paneCam, len(panes))
	for i, p := range panes {
		cams[i] = paneCam{
			pane:  p,
			cam:   camera.ForPane(p.Kind, v, sc.Camera, p.Rect.Aspect()),
			plane: camera.PlaneFor(v, p.Rect),
		}
	}

	w, h := v.Resolution.Width, v.Resolution.Height
	frame := NewFrame(w, h)
	t := float64(v.Time)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for y := 0; y < h; y++ {
		row := y
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for x := 0; x < w; x++ {
				pc := cameraAt(cams, x, row)
				if pc == nil {
					continue
				}
				var s float64
				if sc.Flat {
					s = shadeFlat(sc.Shape, pc.plane.World(x, row), t, pc.plane.Scale, v.RenderType)
				} else {
					u, vv := pc.pane.Rect.Normalized(x, row)
					o, d := pc.cam.Ray(u, vv)
					s = shadeRay(sc.Shape, o, d, t, v.RenderType, opts)
				}
				frame.Shade[row*w+x] = s
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return frame, nil
}

func cameraAt(cams []paneCam, x, y int) *paneCam {
	for i := range cams {
		if cams[i].pane.Rect.Contains(x, y) {
			return &cams[i]
		}
	}
	return nil
}

// Trace sphere-traces one ray. It returns whether the surface was hit, the
// distance travelled and the number of steps taken.
func Trace(s Shape, o, d Vec3, t float64, opts Options) (hit bool, dist float64, steps int) {
	for steps = 0; steps < opts.MaxSteps; steps++ {
		h := s.Dist(o.Add(d.Scale(dist)), t)
		if h < opts.Epsilon {
			return true, dist, steps + 1
		}
		dist += h
		if dist > opts.MaxDistance {
			return false, opts.MaxDistance, steps + 1
		}
	}
	return false, dist, steps
}

// Normal estimates the surface normal at p by central differences.
func Normal(s Shape, p Vec3, t float64) Vec3 {
	const e = 1e-4
	return Vec3{
		X: s.Dist(Vec3{p.X + e, p.Y, p.Z}, t) - s.Dist(Vec3{p.X - e, p.Y, p.Z}, t),
		Y: s.Dist(Vec3{p.X, p.Y + e, p.Z}, t) - s.Dist(Vec3{p.X, p.Y - e, p.Z}, t),
		Z: s.Dist(Vec3{p.X, p.Y, p.Z + e}, t) - s.Dist(Vec3{p.X, p.Y, p.Z - e}, t),
	}.Normalize()
}

func shadeRay(s Shape, o, d Vec3, t float64, rt renderstate.RenderType, opts Options) float64 {
	hit, dist, steps := Trace(s, o, d, t, opts)
	switch rt {
	case renderstate.Convergence:
		return float64(steps) / float64(opts.MaxSteps)
	case renderstate.Distance:
		if !hit {
			return 1
		}
		return clamp01(dist / opts.MaxDistance)
	}
	if !hit {
		return 0
	}
	n := Normal(s, o.Add(d.Scale(dist)), t)
	if rt == renderstate.Surfaceless {
		return clamp01(-n.Dot(d))
	}
	return 0.15 + 0.85*clamp01(n.Dot(lightDir))
}

// shadeFlat shades a point of a 2D scene; scale is pixels per world unit.
func shadeFlat(s Shape, p Vec3, t, scale float64, rt renderstate.RenderType) float64 {
	d := s.Dist(p, t)
	px := 1.5 / scale
	switch rt {
	case renderstate.Surfaceless:
		if math.Abs(d) < px {
			return 1
		}
		return 0
	case renderstate.Convergence:
		if _, frac := math.Modf(math.Abs(d)); frac < 2*px {
			return 1
		}
		return 0
	case renderstate.Distance:
		return clamp01(1 - math.Abs(d)/camera.BaseDistance)
	}
	if d <= 0 {
		return 1
	}
	return 0.15 * math.Exp(-d)
}

func clamp01(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Max(0, math.Min(1, x))
}
