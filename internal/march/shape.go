package march

import (
	"math"

	"github.com/san-kum/studio/internal/camera"
)

type Vec3 = camera.Vec3

// Shape is a signed distance function, animated by time t in seconds.
type Shape interface {
	Dist(p Vec3, t float64) float64
}

type Sphere struct {
	Center Vec3
	Radius float64
}

func (s Sphere) Dist(p Vec3, _ float64) float64 {
	return p.Sub(s.Center).Length() - s.Radius
}

type Box struct {
	Center, Half Vec3
}

func (b Box) Dist(p Vec3, _ float64) float64 {
	q := p.Sub(b.Center).Abs().Sub(b.Half)
	outside := q.Max(0).Length()
	inside := math.Min(math.Max(q.X, math.Max(q.Y, q.Z)), 0)
	return outside + inside
}

// Torus lies in the XZ plane.
type Torus struct {
	Center       Vec3
	Major, Minor float64
}

func (t Torus) Dist(p Vec3, _ float64) float64 {
	q := p.Sub(t.Center)
	ring := math.Hypot(q.X, q.Z) - t.Major
	return math.Hypot(ring, q.Y) - t.Minor
}

// Ground is the horizontal plane y = Height.
type Ground struct {
	Height float64
}

func (g Ground) Dist(p Vec3, _ float64) float64 {
	return p.Y - g.Height
}

type Union []Shape

func (u Union) Dist(p Vec3, t float64) float64 {
	d := math.Inf(1)
	for _, s := range u {
		d = math.Min(d, s.Dist(p, t))
	}
	return d
}

// SmoothUnion blends two shapes over radius K.
type SmoothUnion struct {
	A, B Shape
	K    float64
}

func (s SmoothUnion) Dist(p Vec3, t float64) float64 {
	a, b := s.A.Dist(p, t), s.B.Dist(p, t)
	if s.K <= 0 {
		return math.Min(a, b)
	}
	h := math.Max(0, math.Min(1, 0.5+0.5*(b-a)/s.K))
	return b*(1-h) + a*h - s.K*h*(1-h)
}

type Translate struct {
	Shape  Shape
	Offset Vec3
}

func (tr Translate) Dist(p Vec3, t float64) float64 {
	return tr.Shape.Dist(p.Sub(tr.Offset), t)
}

// Bob moves a shape up and down with time.
type Bob struct {
	Shape     Shape
	Amplitude float64
	Speed     float64
}

func (b Bob) Dist(p Vec3, t float64) float64 {
	dy := b.Amplitude * math.Sin(b.Speed*t)
	return b.Shape.Dist(p.Sub(Vec3{Y: dy}), t)
}

// Circle is a flat disc in the XY plane, for 2D scenes.
type Circle struct {
	Center Vec3
	Radius float64
}

func (c Circle) Dist(p Vec3, _ float64) float64 {
	return math.Hypot(p.X-c.Center.X, p.Y-c.Center.Y) - c.Radius
}
