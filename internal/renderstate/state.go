package renderstate

import (
	"cogentcore.org/core/math32"

	"github.com/san-kum/studio/internal/signal"
)

// Signals holds one reactive cell per ViewState field.
type Signals struct {
	Time              *signal.Signal[Seconds]
	IsVisible         *signal.Signal[bool]
	RenderType        *signal.Signal[RenderType]
	Rotation          *signal.Signal[math32.Vector2]
	Origin            *signal.Signal[math32.Vector3]
	Origin2D          *signal.Signal[math32.Vector2]
	Zoom              *signal.Signal[float64]
	PrefersFreeCamera *signal.Signal[bool]
	QuadView          *signal.Signal[bool]
	QuadSplitPoint    *signal.Signal[math32.Vector2]
	Resolution        *signal.Signal[Resolution]
}

// Accessors holds one read function per ViewState field.
type Accessors struct {
	Time              signal.Accessor[Seconds]
	IsVisible         signal.Accessor[bool]
	RenderType        signal.Accessor[RenderType]
	Rotation          signal.Accessor[math32.Vector2]
	Origin            signal.Accessor[math32.Vector3]
	Origin2D          signal.Accessor[math32.Vector2]
	Zoom              signal.Accessor[float64]
	PrefersFreeCamera signal.Accessor[bool]
	QuadView          signal.Accessor[bool]
	QuadSplitPoint    signal.Accessor[math32.Vector2]
	Resolution        signal.Accessor[Resolution]
}

// DefaultSignals creates the cells seeded with Defaults.
func DefaultSignals(rt *signal.Runtime) Signals {
	return NewSignals(rt, Defaults())
}

// NewSignals creates the cells seeded with v.
func NewSignals(rt *signal.Runtime, v ViewState) Signals {
	return Signals{
		Time:              signal.New(rt, v.Time),
		IsVisible:         signal.New(rt, v.IsVisible),
		RenderType:        signal.New(rt, v.RenderType),
		Rotation:          signal.New(rt, v.Rotation),
		Origin:            signal.New(rt, v.Origin),
		Origin2D:          signal.New(rt, v.Origin2D),
		Zoom:              signal.New(rt, v.Zoom),
		PrefersFreeCamera: signal.New(rt, v.PrefersFreeCamera),
		QuadView:          signal.New(rt, v.QuadView),
		QuadSplitPoint:    signal.New(rt, v.QuadSplitPoint),
		Resolution:        signal.New(rt, v.Resolution),
	}
}

// GetAll returns the per-field accessors of s.
func GetAll(s Signals) Accessors {
	return Accessors{
		Time:              signal.Getter(s.Time),
		IsVisible:         signal.Getter(s.IsVisible),
		RenderType:        signal.Getter(s.RenderType),
		Rotation:          signal.Getter(s.Rotation),
		Origin:            signal.Getter(s.Origin),
		Origin2D:          signal.Getter(s.Origin2D),
		Zoom:              signal.Getter(s.Zoom),
		PrefersFreeCamera: signal.Getter(s.PrefersFreeCamera),
		QuadView:          signal.Getter(s.QuadView),
		QuadSplitPoint:    signal.Getter(s.QuadSplitPoint),
		Resolution:        signal.Getter(s.Resolution),
	}
}

// AccessAll returns a memo assembling a ViewState from a. The memo is
// recomputed lazily, at most once per batch of writes.
func AccessAll(rt *signal.Runtime, a Accessors) *signal.Memo[ViewState] {
	return signal.NewMemo(rt, func() ViewState {
		return ViewState{
			Time:              a.Time(),
			IsVisible:         a.IsVisible(),
			RenderType:        a.RenderType(),
			Rotation:          a.Rotation(),
			Origin:            a.Origin(),
			Origin2D:          a.Origin2D(),
			Zoom:              a.Zoom(),
			PrefersFreeCamera: a.PrefersFreeCamera(),
			QuadView:          a.QuadView(),
			QuadSplitPoint:    a.QuadSplitPoint(),
			Resolution:        a.Resolution(),
		}
	})
}

// SetAll writes every field of v into s in a single batch.
func SetAll(s Signals, v ViewState) {
	s.Time.Runtime().Batch(func() {
		s.Time.Set(v.Time)
		s.IsVisible.Set(v.IsVisible)
		s.RenderType.Set(v.RenderType)
		s.Rotation.Set(v.Rotation)
		s.Origin.Set(v.Origin)
		s.Origin2D.Set(v.Origin2D)
		s.Zoom.Set(v.Zoom)
		s.PrefersFreeCamera.Set(v.PrefersFreeCamera)
		s.QuadView.Set(v.QuadView)
		s.QuadSplitPoint.Set(v.QuadSplitPoint)
		s.Resolution.Set(v.Resolution)
	})
}

// Registry bundles the cells, accessors and aggregate memo of one view.
type Registry struct {
	Signals   Signals
	Accessors Accessors
	snapshot  *signal.Memo[ViewState]
	rt        *signal.Runtime
}

func NewRegistry(rt *signal.Runtime) *Registry {
	return NewRegistryFrom(rt, Defaults())
}

// NewRegistryFrom creates a registry whose cells start at v.
func NewRegistryFrom(rt *signal.Runtime, v ViewState) *Registry {
	s := NewSignals(rt, v)
	a := GetAll(s)
	return &Registry{
		Signals:   s,
		Accessors: a,
		snapshot:  AccessAll(rt, a),
		rt:        rt,
	}
}

// Snapshot returns the current aggregate state, tracked like any memo read.
func (r *Registry) Snapshot() ViewState {
	return r.snapshot.Get()
}

func (r *Registry) Memo() *signal.Memo[ViewState] {
	return r.snapshot
}

func (r *Registry) Runtime() *signal.Runtime {
	return r.rt
}

// Set writes v through SetAll.
func (r *Registry) Set(v ViewState) {
	SetAll(r.Signals, v)
}

// Update applies fn to the current snapshot and writes the result back in
// one batch.
func (r *Registry) Update(fn func(ViewState) ViewState) {
	r.Set(fn(r.snapshot.Peek()))
}

// Reset restores the defaults except resolution and visibility, which
// follow the host surface.
func (r *Registry) Reset() {
	cur := r.snapshot.Peek()
	v := Defaults()
	v.Resolution = cur.Resolution
	v.IsVisible = cur.IsVisible
	r.Set(v)
}
