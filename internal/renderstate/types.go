package renderstate

import (
	"fmt"
	"math"
	"strings"

	"cogentcore.org/core/math32"
)

// Seconds is a playback time.
type Seconds float64

// RenderType selects what the sphere tracer shades.
type RenderType int

const (
	Normal RenderType = iota
	Surfaceless
	Convergence
	Distance
)

var renderTypeNames = [...]string{"normal", "surfaceless", "convergence", "distance"}

func (r RenderType) String() string {
	if !r.Valid() {
		return fmt.Sprintf("RenderType(%d)", int(r))
	}
	return renderTypeNames[r]
}

func (r RenderType) Valid() bool {
	return r >= Normal && r <= Distance
}

// Next returns the following render type, wrapping after Distance.
func (r RenderType) Next() RenderType {
	return (r + 1) % RenderType(len(renderTypeNames))
}

func RenderTypes() []RenderType {
	return []RenderType{Normal, Surfaceless, Convergence, Distance}
}

func ParseRenderType(s string) (RenderType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range renderTypeNames {
		if n == name {
			return RenderType(i), nil
		}
	}
	return Normal, fmt.Errorf("%w: %q", ErrUnknownRenderType, s)
}

func (r RenderType) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRenderType, int(r))
	}
	return []byte(r.String()), nil
}

func (r *RenderType) UnmarshalText(b []byte) error {
	v, err := ParseRenderType(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Resolution is the output size in pixels.
type Resolution struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Aspect returns width over height, or 1 for an empty resolution.
func (r Resolution) Aspect() float64 {
	if r.Width <= 0 || r.Height <= 0 {
		return 1
	}
	return float64(r.Width) / float64(r.Height)
}

// ViewState is a plain snapshot of every view cell.
type ViewState struct {
	Time              Seconds        `yaml:"time" json:"time"`
	IsVisible         bool           `yaml:"is_visible" json:"isVisible"`
	RenderType        RenderType     `yaml:"render_type" json:"renderType"`
	Rotation          math32.Vector2 `yaml:"rotation" json:"rotation"`
	Origin            math32.Vector3 `yaml:"origin" json:"origin"`
	Origin2D          math32.Vector2 `yaml:"origin_2d" json:"origin2D"`
	Zoom              float64        `yaml:"zoom" json:"zoom"`
	PrefersFreeCamera bool           `yaml:"prefers_free_camera" json:"prefersFreeCamera"`
	QuadView          bool           `yaml:"quad_view" json:"quadView"`
	QuadSplitPoint    math32.Vector2 `yaml:"quad_split_point" json:"quadSplitPoint"`
	Resolution        Resolution     `yaml:"resolution" json:"resolution"`
}

// Defaults returns the state every view starts from.
func Defaults() ViewState {
	return ViewState{
		Time:              0,
		IsVisible:         false,
		RenderType:        Normal,
		Rotation:          math32.Vec2(0, 0),
		Origin:            math32.Vec3(0, 0, 0),
		Origin2D:          math32.Vec2(0, 0),
		Zoom:              0,
		PrefersFreeCamera: true,
		QuadView:          false,
		QuadSplitPoint:    math32.Vec2(0.5, 0.5),
		Resolution:        Resolution{Width: 0, Height: 0},
	}
}

// Validate checks the invariants a decoded state must satisfy before it is
// written into the cells.
func (v ViewState) Validate() error {
	floats := []float64{
		float64(v.Time), v.Zoom,
		float64(v.Rotation.X), float64(v.Rotation.Y),
		float64(v.Origin.X), float64(v.Origin.Y), float64(v.Origin.Z),
		float64(v.Origin2D.X), float64(v.Origin2D.Y),
		float64(v.QuadSplitPoint.X), float64(v.QuadSplitPoint.Y),
	}
	for _, f := range floats {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: %v", ErrNonFinite, f)
		}
	}
	if v.Time < 0 {
		return fmt.Errorf("%w: %v", ErrNegativeTime, float64(v.Time))
	}
	if v.Resolution.Width < 0 || v.Resolution.Height < 0 {
		return fmt.Errorf("%w: %dx%d", ErrNegativeResolution, v.Resolution.Width, v.Resolution.Height)
	}
	if !v.RenderType.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownRenderType, int(v.RenderType))
	}
	return nil
}
