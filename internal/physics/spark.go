package physics

import (
	"math/rand"

	"github.com/san-kum/gravballs/internal/dynamo"
)

const (
	CollisionSparkCount = 15
	ConsumeSparkCount   = 20

	// SparkDeathEpsilon absorbs the rounding left over after subtracting dt
	// from an initial life of 1.0, so ten steps of 0.1 end a spark.
	SparkDeathEpsilon = 1e-9

	sparkSpeed       = 3.0
	sparkGravityDamp = 0.1
)

// Spark is a short-lived visual particle. It has no effect on bodies.
type Spark struct {
	Pos   dynamo.Vec3
	Vel   dynamo.Vec3
	Life  float64
	Color Color
}

func NewSpark(pos, vel dynamo.Vec3, rng *rand.Rand) Spark {
	return Spark{
		Pos:   pos,
		Vel:   vel,
		Life:  1.0,
		Color: Color{R: 1, G: 0.5 + rng.Float64()*0.5, B: 0},
	}
}

func (s *Spark) Update(gravity, dt float64) {
	s.Life -= dt
	s.Vel.AddInPlace(dynamo.Vec3{Y: gravity}.Scale(dt * sparkGravityDamp))
	s.Pos.AddInPlace(s.Vel.Scale(dt))
}

func (s *Spark) Dead() bool { return s.Life <= SparkDeathEpsilon }

// burst returns count sparks at pos with velocities uniform in a cube of
// half-width sparkSpeed.
func burst(pos dynamo.Vec3, count int, rng *rand.Rand) []Spark {
	out := make([]Spark, 0, count)
	for i := 0; i < count; i++ {
		dir := dynamo.Vec3{X: jitter(rng), Y: jitter(rng), Z: jitter(rng)}
		out = append(out, NewSpark(pos, dir.Scale(sparkSpeed), rng))
	}
	return out
}
