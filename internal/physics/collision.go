package physics

import (
	"math/rand"

	"github.com/san-kum/gravballs/internal/dynamo"
)

// ResolveBoundaries keeps every ball inside the cube [-box, box]^3. Each axis
// is handled on its own: the offending coordinate is clamped to the wall and
// its velocity component reflected and damped by restitution. A ball at
// least as wide as the box touches both walls at once, so it is centered on
// the axis and reflected a single time.
func ResolveBoundaries(balls []Ball, box, restitution float64) {
	for i := range balls {
		b := &balls[i]
		for _, a := range dynamo.Axes {
			c := b.Pos.Component(a)
			if b.Radius >= box {
				if c-b.Radius < -box || c+b.Radius > box {
					b.Pos.SetComponent(a, 0)
					b.Vel.SetComponent(a, b.Vel.Component(a)*-restitution)
				}
				continue
			}
			if c-b.Radius < -box {
				b.Pos.SetComponent(a, -box+b.Radius)
				b.Vel.SetComponent(a, b.Vel.Component(a)*-restitution)
			}
			c = b.Pos.Component(a)
			if c+b.Radius > box {
				b.Pos.SetComponent(a, box-b.Radius)
				b.Vel.SetComponent(a, b.Vel.Component(a)*-restitution)
			}
		}
	}
}

// ResolvePairs separates every overlapping pair of balls and, when they
// approach, applies an impulse split by inverse mass. Each velocity-resolved
// contact appends a spark burst at its midpoint. Returns the sparks slice and
// the number of resolved contacts.
//
// Pairs with coincident centers are skipped: there is no separation axis.
func ResolvePairs(balls []Ball, restitution float64, sparks []Spark, rng *rand.Rand) ([]Spark, int) {
	contacts := 0
	for i := 0; i < len(balls); i++ {
		a := &balls[i]
		for j := i + 1; j < len(balls); j++ {
			b := &balls[j]
			delta := b.Pos.Sub(a.Pos)
			dist := delta.Length()
			minDist := a.Radius + b.Radius
			if dist >= minDist || dist <= 0 {
				continue
			}

			normal := delta.Normalize()
			overlap := 0.5 * (minDist - dist)
			a.Pos = a.Pos.Sub(normal.Scale(overlap))
			b.Pos = b.Pos.Add(normal.Scale(overlap))

			velAlongNormal := b.Vel.Sub(a.Vel).Dot(normal)
			if velAlongNormal >= 0 {
				continue
			}

			invA, invB := inverseMass(a.Mass), inverseMass(b.Mass)
			if invA+invB == 0 {
				continue
			}
			mag := -(1 + restitution) * velAlongNormal / (invA + invB)
			impulse := normal.Scale(mag)
			a.Vel = a.Vel.Sub(impulse.Scale(invA))
			b.Vel = b.Vel.Add(impulse.Scale(invB))

			contacts++
			mid := a.Pos.Add(b.Pos).Scale(0.5)
			sparks = append(sparks, burst(mid, CollisionSparkCount, rng)...)
		}
	}
	return sparks, contacts
}

// inverseMass treats a non-positive mass as immovable.
func inverseMass(m float64) float64 {
	if m <= 0 {
		return 0
	}
	return 1 / m
}
