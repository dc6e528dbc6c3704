package camera

import (
	"math"

	"cogentcore.org/core/math32"

	"github.com/san-kum/studio/internal/renderstate"
)

// Kind identifies the projection of a pane.
type Kind int

const (
	Free Kind = iota
	Top
	Front
	Side
)

var kindNames = [...]string{"free", "top", "front", "side"}

func (k Kind) String() string {
	if k < Free || k > Side {
		return "unknown"
	}
	return kindNames[k]
}

// Rect is a pixel rectangle with its origin at the top-left corner.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Aspect returns width over height, or 1 for an empty rectangle.
func (r Rect) Aspect() float64 {
	if r.Empty() {
		return 1
	}
	return float64(r.W) / float64(r.H)
}

// Normalized maps pixel (x, y) to pane coordinates in [-1, 1], with v
// pointing up. Pixel centres are sampled.
func (r Rect) Normalized(x, y int) (u, v float64) {
	u = (float64(x-r.X)+0.5)/float64(r.W)*2 - 1
	v = 1 - (float64(y-r.Y)+0.5)/float64(r.H)*2
	return u, v
}

// Pane is one viewport of the output.
type Pane struct {
	Kind Kind
	Rect Rect
}

// Layout splits the view's resolution into panes. Without quad view there
// is a single free pane; with it the split point divides the output into
// top, front, side and free panes in row-major order. Panes with no area
// are omitted.
func Layout(v renderstate.ViewState) []Pane {
	return LayoutIn(v.Resolution, v.QuadView, v.QuadSplitPoint)
}

func LayoutIn(res renderstate.Resolution, quad bool, split math32.Vector2) []Pane {
	full := Rect{0, 0, res.Width, res.Height}
	if !quad {
		if full.Empty() {
			return nil
		}
		return []Pane{{Kind: Free, Rect: full}}
	}

	sx := int(math.Round(clamp01(float64(split.X)) * float64(res.Width)))
	sy := int(math.Round(clamp01(float64(split.Y)) * float64(res.Height)))

	candidates := []Pane{
		{Top, Rect{0, 0, sx, sy}},
		{Front, Rect{sx, 0, res.Width - sx, sy}},
		{Side, Rect{0, sy, sx, res.Height - sy}},
		{Free, Rect{sx, sy, res.Width - sx, res.Height - sy}},
	}
	panes := candidates[:0]
	for _, p := range candidates {
		if !p.Rect.Empty() {
			panes = append(panes, p)
		}
	}
	return panes
}

// PaneAt returns the pane containing pixel (x, y).
func PaneAt(panes []Pane, x, y int) (Pane, bool) {
	for _, p := range panes {
		if p.Rect.Contains(x, y) {
			return p, true
		}
	}
	return Pane{}, false
}

func clamp01(x float64) float64 {
	if math.IsNaN(x) {
		return 0.5
	}
	return math.Max(0, math.Min(1, x))
}
