package physics

import (
	"math"

	"github.com/san-kum/gravballs/internal/dynamo"
)

const (
	blackHoleStrength = 100.0
	blackHoleMinDist  = 1.0

	cursorStrength = 200.0
	cursorDeadZone = 0.5

	magneticStrength = 200.0
	magneticOffset   = 0.1
)

// Field computes an acceleration at pos for the given scene and cursor
// target. Fields that are switched off return the zero vector.
type Field func(sc *Scene, cursor, pos dynamo.Vec3) dynamo.Vec3

// Fields lists every mode-dependent field. Uniform gravity is applied
// separately because it is always on.
var Fields = []Field{BlackHoleField, CursorField, MagneticWallField}

// FieldAcceleration sums every enabled field at pos.
func FieldAcceleration(sc *Scene, cursor, pos dynamo.Vec3) dynamo.Vec3 {
	var acc dynamo.Vec3
	for _, f := range Fields {
		acc.AddInPlace(f(sc, cursor, pos))
	}
	return acc
}

// BlackHoleField pulls toward the origin with magnitude 100/max(1, d).
func BlackHoleField(sc *Scene, _, pos dynamo.Vec3) dynamo.Vec3 {
	if !sc.BlackHole {
		return dynamo.Vec3{}
	}
	toCenter := pos.Neg()
	d := math.Max(blackHoleMinDist, toCenter.Length())
	return toCenter.Normalize().Scale(blackHoleStrength / d)
}

// CursorField pulls toward the cursor target with magnitude 200/d outside a
// dead zone of radius 0.5.
func CursorField(sc *Scene, cursor, pos dynamo.Vec3) dynamo.Vec3 {
	if !sc.CursorGravity {
		return dynamo.Vec3{}
	}
	toCursor := cursor.Sub(pos)
	d := toCursor.Length()
	if d <= cursorDeadZone {
		return dynamo.Vec3{}
	}
	return toCursor.Normalize().Scale(cursorStrength / d)
}

// MagneticWallField sums one inverse-square term per wall: the wall on the
// negative side pushes toward +axis, the wall on the positive side toward
// -axis.
func MagneticWallField(sc *Scene, _, pos dynamo.Vec3) dynamo.Vec3 {
	if !sc.MagneticWalls {
		return dynamo.Vec3{}
	}
	var f dynamo.Vec3
	for _, a := range dynamo.Axes {
		c := pos.Component(a)
		near := math.Abs(-sc.BoxSize - c)
		far := math.Abs(sc.BoxSize - c)
		f.SetComponent(a, 1/(near*near+magneticOffset)-1/(far*far+magneticOffset))
	}
	return f.Scale(magneticStrength)
}
