package dynamo

import "math"

// Vec3 is an immutable 3D vector. Every method returns a new value except
// AddInPlace.
type Vec3 struct {
	X, Y, Z float64
}

// Axis selects a component of a Vec3.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Axes lists the three axes in order.
var Axes = [3]Axis{AxisX, AxisY, AxisZ}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Div(s float64) Vec3   { return Vec3{v.X / s, v.Y / s, v.Z / s} }
func (v Vec3) Neg() Vec3            { return Vec3{-v.X, -v.Y, -v.Z} }
func (v Vec3) Dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Length() float64      { return math.Sqrt(v.Dot(v)) }
func (v Vec3) LengthSq() float64    { return v.Dot(v) }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{v.Y*o.Z - v.Z*o.Y, v.Z*o.X - v.X*o.Z, v.X*o.Y - v.Y*o.X}
}

// Normalize returns the unit vector in the direction of v, or the zero
// vector when v has zero length.
func (v Vec3) Normalize() Vec3 {
	if l := v.Length(); l > 0 {
		return v.Div(l)
	}
	return Vec3{}
}

// Reflect mirrors v about the plane with unit normal n.
func (v Vec3) Reflect(n Vec3) Vec3 {
	return v.Sub(n.Scale(2 * v.Dot(n)))
}

// AddInPlace accumulates o into v.
func (v *Vec3) AddInPlace(o Vec3) {
	v.X += o.X
	v.Y += o.Y
	v.Z += o.Z
}

func (v Vec3) Component(a Axis) float64 {
	switch a {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	default:
		return v.Z
	}
}

func (v *Vec3) SetComponent(a Axis, val float64) {
	switch a {
	case AxisX:
		v.X = val
	case AxisY:
		v.Y = val
	default:
		v.Z = val
	}
}

// IsValid reports whether every component is finite.
func (v Vec3) IsValid() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
