package camera

import (
	"math"

	"cogentcore.org/core/math32"
)

// Vec3 is a float64 point or direction used for ray math.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Length() float64      { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }
func (v Vec3) Dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Normalize() Vec3 {
	if l := v.Length(); l != 0 {
		return v.Scale(1 / l)
	}
	return Vec3{}
}
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{v.Y*o.Z - v.Z*o.Y, v.Z*o.X - v.X*o.Z, v.X*o.Y - v.Y*o.X}
}
func (v Vec3) Abs() Vec3 { return Vec3{math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)} }
func (v Vec3) Max(s float64) Vec3 {
	return Vec3{math.Max(v.X, s), math.Max(v.Y, s), math.Max(v.Z, s)}
}

// FromVector3 widens a math32 vector.
func FromVector3(v math32.Vector3) Vec3 {
	return Vec3{float64(v.X), float64(v.Y), float64(v.Z)}
}

// ToVector3 narrows v to a math32 vector.
func (v Vec3) ToVector3() math32.Vector3 {
	return math32.Vec3(float32(v.X), float32(v.Y), float32(v.Z))
}
