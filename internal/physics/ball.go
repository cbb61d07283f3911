package physics

import (
	"math"
	"math/rand"

	"github.com/san-kum/gravballs/internal/dynamo"
)

const (
	MinRadius = 0.05
	MaxRadius = 5.0

	// entropyGain scales the per-axis jitter: uniform[-1,1) * entropy * gain * dt.
	entropyGain = 100.0
)

// Color is an RGB triple with components in [0,1].
type Color struct {
	R, G, B float64
}

func randomColor(rng *rand.Rand) Color {
	return Color{R: rng.Float64(), G: rng.Float64(), B: rng.Float64()}
}

// Ball is a point mass with a radius. Mass is derived from volume at unit
// density.
type Ball struct {
	Pos    dynamo.Vec3
	Vel    dynamo.Vec3
	Radius float64
	Mass   float64
	Color  Color
	Trail  Trail
}

// NewBall clamps radius into [MinRadius, MaxRadius] and derives the mass.
func NewBall(pos, vel dynamo.Vec3, radius float64, color Color) Ball {
	if math.IsNaN(radius) {
		radius = MinRadius
	}
	radius = clamp(radius, MinRadius, MaxRadius)
	return Ball{
		Pos:    pos,
		Vel:    vel,
		Radius: radius,
		Mass:   radius * radius * radius,
		Color:  color,
	}
}

// Update advances the ball by dt: fields, gravity, decay, integration,
// trail, then entropy jitter for the next step.
func (b *Ball) Update(sc *Scene, cursor dynamo.Vec3, dt float64, rng *rand.Rand) {
	b.Vel.AddInPlace(FieldAcceleration(sc, cursor, b.Pos).Scale(dt))
	b.Vel.AddInPlace(dynamo.Vec3{Y: sc.Gravity}.Scale(dt))
	b.Vel = b.Vel.Scale(1 - sc.Friction*dt)
	b.Pos.AddInPlace(b.Vel.Scale(dt))
	b.Trail.Add(b.Pos)

	if sc.Entropy > 0 {
		k := sc.Entropy * entropyGain * dt
		b.Vel.AddInPlace(dynamo.Vec3{
			X: jitter(rng) * k,
			Y: jitter(rng) * k,
			Z: jitter(rng) * k,
		})
	}
}

// Speed is the magnitude of the velocity.
func (b *Ball) Speed() float64 { return b.Vel.Length() }

// KineticEnergy is 0.5*m*|v|^2.
func (b *Ball) KineticEnergy() float64 { return 0.5 * b.Mass * b.Vel.LengthSq() }

func (b *Ball) IsValid() bool { return b.Pos.IsValid() && b.Vel.IsValid() }

func jitter(rng *rand.Rand) float64 { return rng.Float64()*2 - 1 }
