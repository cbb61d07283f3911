package physics_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravballs/internal/dynamo"
	"github.com/san-kum/gravballs/internal/physics"
)

var _ = Describe("Collision resolution", func() {
	var rng *rand.Rand

	BeforeEach(func() {
		rng = rand.New(rand.NewSource(7))
	})

	It("exchanges velocities in an elastic head-on collision of equal masses", func() {
		v := 3.0
		balls := []physics.Ball{
			physics.NewBall(dynamo.Vec3{X: -0.9}, dynamo.Vec3{X: v}, 1, physics.Color{}),
			physics.NewBall(dynamo.Vec3{X: 0.9}, dynamo.Vec3{X: -v}, 1, physics.Color{}),
		}

		_, contacts := physics.ResolvePairs(balls, 1.0, nil, rng)

		Expect(contacts).To(Equal(1))
		Expect(balls[0].Vel.X).To(BeNumerically("~", -v, 1e-9))
		Expect(balls[1].Vel.X).To(BeNumerically("~", v, 1e-9))
		Expect(balls[0].Vel.Y).To(BeZero())
		Expect(balls[1].Vel.Z).To(BeZero())
	})

	It("separates overlapping bodies to at least their combined radii", func() {
		balls := []physics.Ball{
			physics.NewBall(dynamo.Vec3{}, dynamo.Vec3{X: -1}, 1, physics.Color{}),
			physics.NewBall(dynamo.Vec3{X: 1}, dynamo.Vec3{X: 1}, 1, physics.Color{}),
		}

		sparks, contacts := physics.ResolvePairs(balls, 0.9, nil, rng)

		dist := balls[1].Pos.Sub(balls[0].Pos).Length()
		Expect(dist).To(BeNumerically(">=", 2-1e-9))
		By("leaving separating bodies' velocities alone")
		Expect(contacts).To(BeZero())
		Expect(sparks).To(BeEmpty())
		Expect(balls[0].Vel).To(Equal(dynamo.Vec3{X: -1}))
	})

	It("displaces the heavier body less", func() {
		large := physics.NewBall(dynamo.Vec3{}, dynamo.Vec3{X: 1}, 2, physics.Color{})
		small := physics.NewBall(dynamo.Vec3{X: 2.3}, dynamo.Vec3{X: -1}, 0.5, physics.Color{})
		balls := []physics.Ball{large, small}

		_, contacts := physics.ResolvePairs(balls, 0.9, nil, rng)
		Expect(contacts).To(Equal(1))

		dLarge := balls[0].Vel.Sub(large.Vel).Length()
		dSmall := balls[1].Vel.Sub(small.Vel).Length()
		Expect(dLarge).To(BeNumerically("<", dSmall))
	})

	It("spawns a spark burst at the midpoint of each resolved contact", func() {
		balls := []physics.Ball{
			physics.NewBall(dynamo.Vec3{X: -0.5}, dynamo.Vec3{X: 1}, 1, physics.Color{}),
			physics.NewBall(dynamo.Vec3{X: 0.5}, dynamo.Vec3{X: -1}, 1, physics.Color{}),
		}

		sparks, _ := physics.ResolvePairs(balls, 0.9, nil, rng)

		Expect(sparks).To(HaveLen(physics.CollisionSparkCount))
		for _, s := range sparks {
			Expect(s.Pos.Length()).To(BeNumerically("<", 1e-9))
			Expect(s.Life).To(Equal(1.0))
		}
	})

	It("skips bodies with coincident centers", func() {
		balls := []physics.Ball{
			physics.NewBall(dynamo.Vec3{X: 1}, dynamo.Vec3{X: 1}, 1, physics.Color{}),
			physics.NewBall(dynamo.Vec3{X: 1}, dynamo.Vec3{X: -1}, 1, physics.Color{}),
		}

		_, contacts := physics.ResolvePairs(balls, 1, nil, rng)

		Expect(contacts).To(BeZero())
		Expect(balls[0].Pos).To(Equal(balls[1].Pos))
	})

	It("keeps every coordinate inside the box after boundary resolution", func() {
		for trial := 0; trial < 500; trial++ {
			box := 1 + rng.Float64()*20
			balls := make([]physics.Ball, 5)
			for i := range balls {
				pos := dynamo.Vec3{
					X: (rng.Float64()*2 - 1) * 3 * box,
					Y: (rng.Float64()*2 - 1) * 3 * box,
					Z: (rng.Float64()*2 - 1) * 3 * box,
				}
				radius := physics.MinRadius + rng.Float64()*(physics.MaxRadius-physics.MinRadius)
				balls[i] = physics.NewBall(pos, dynamo.Vec3{X: 1, Y: -2, Z: 3}, radius, physics.Color{})
			}

			physics.ResolveBoundaries(balls, box, 0.9)

			for _, b := range balls {
				for _, a := range dynamo.Axes {
					Expect(math.Abs(b.Pos.Component(a))).To(BeNumerically("<=", box))
				}
			}
		}
	})

	It("centers a ball wider than the box and reflects it once", func() {
		balls := []physics.Ball{physics.NewBall(dynamo.Vec3{X: 0.3, Y: -0.2}, dynamo.Vec3{X: 2, Y: -4, Z: 1}, 5, physics.Color{})}

		physics.ResolveBoundaries(balls, 1, 0.5)

		Expect(balls[0].Pos).To(Equal(dynamo.Vec3{}))
		Expect(balls[0].Vel.X).To(BeNumerically("~", -1, 1e-12))
		Expect(balls[0].Vel.Y).To(BeNumerically("~", 2, 1e-12))
		Expect(balls[0].Vel.Z).To(BeNumerically("~", -0.5, 1e-12))
	})

	It("reflects and damps the velocity of a wall hit", func() {
		balls := []physics.Ball{physics.NewBall(dynamo.Vec3{Y: -9.9}, dynamo.Vec3{Y: -4}, 0.5, physics.Color{})}

		physics.ResolveBoundaries(balls, 10, 0.5)

		Expect(balls[0].Pos.Y).To(BeNumerically("~", -9.5, 1e-12))
		Expect(balls[0].Vel.Y).To(BeNumerically("~", 2, 1e-12))
	})
})

var _ = Describe("World", func() {
	var (
		scene *physics.Scene
		world *physics.World
	)

	BeforeEach(func() {
		scene = physics.DefaultScene()
		world = physics.NewWorld(scene, rand.New(rand.NewSource(42)))
	})

	It("keeps a single ball inside the box on every step", func() {
		scene.SetEntropy(0.5)
		Expect(world.Spawn(dynamo.Vec3{Y: 5}, dynamo.Vec3{X: 20, Z: -15}, 0.7)).To(BeTrue())

		for i := 0; i < 2000; i++ {
			world.Step(0.01, dynamo.Vec3{})
			b := world.Balls()[0]
			for _, a := range dynamo.Axes {
				Expect(math.Abs(b.Pos.Component(a))).To(BeNumerically("<=", scene.BoxSize))
			}
		}
	})

	It("keeps the largest ball inside the smallest box", func() {
		scene.SetBoxSize(0)
		Expect(world.Spawn(dynamo.Vec3{}, dynamo.Vec3{}, physics.MaxRadius)).To(BeTrue())

		for i := 0; i < 100; i++ {
			world.Step(0.01, dynamo.Vec3{})
			b := world.Balls()[0]
			for _, a := range dynamo.Axes {
				Expect(math.Abs(b.Pos.Component(a))).To(BeNumerically("<=", physics.MinBoxSize))
			}
		}
	})

	It("loses height on every bounce when restitution is below one", func() {
		scene.SetFriction(0)
		scene.SetRestitution(0.8)
		world.Spawn(dynamo.Vec3{Y: 5}, dynamo.Vec3{}, 0.5)

		var apexes []float64
		prevVy := 0.0
		for i := 0; i < 20000 && len(apexes) < 3; i++ {
			world.Step(0.001, dynamo.Vec3{})
			b := world.Balls()[0]
			if prevVy > 0 && b.Vel.Y <= 0 {
				apexes = append(apexes, b.Pos.Y)
			}
			prevVy = b.Vel.Y
		}

		Expect(apexes).To(HaveLen(3))
		Expect(apexes[0]).To(BeNumerically("<", 5))
		Expect(apexes[1]).To(BeNumerically("<", apexes[0]))
		Expect(apexes[2]).To(BeNumerically("<", apexes[1]))
	})

	It("removes a spark of life 1.0 by the tenth step of 0.1", func() {
		scene.ToggleBlackHole()
		world.Spawn(dynamo.Vec3{X: 0.2}, dynamo.Vec3{}, 0.1)

		stats := world.Step(0.1, dynamo.Vec3{})
		Expect(stats.Consumed).To(Equal(1))
		Expect(world.BodyCount()).To(BeZero())
		Expect(world.SparkCount()).To(Equal(physics.ConsumeSparkCount))

		steps := 1
		for world.SparkCount() > 0 && steps < 20 {
			world.Step(0.1, dynamo.Vec3{})
			steps++
		}
		Expect(steps).To(BeNumerically("<=", 10))
	})

	It("changes nothing while paused", func() {
		scene.SetEntropy(1)
		world.Reset()
		for i := 0; i < 30; i++ {
			world.Step(0.02, dynamo.Vec3{})
		}

		type frozen struct {
			pos, vel dynamo.Vec3
			trail    int
		}
		capture := func() ([]frozen, []physics.Spark) {
			fs := make([]frozen, 0, world.BodyCount())
			for _, b := range world.Balls() {
				fs = append(fs, frozen{b.Pos, b.Vel, b.Trail.Len()})
			}
			return fs, append(make([]physics.Spark, 0, world.SparkCount()), world.Sparks()...)
		}

		balls, sparks := capture()
		t0 := world.Time()
		scene.TogglePaused()
		for i := 0; i < 50; i++ {
			stats := world.Step(0.02, dynamo.Vec3{})
			Expect(stats).To(Equal(dynamo.StepStats{}))
		}

		afterBalls, afterSparks := capture()
		Expect(afterBalls).To(Equal(balls))
		Expect(afterSparks).To(Equal(sparks))
		Expect(world.Time()).To(Equal(t0))
	})

	It("repopulates on reset and empties on clear", func() {
		world.Reset()
		Expect(world.BodyCount()).To(Equal(scene.InitialBalls))
		for _, b := range world.Balls() {
			Expect(b.Radius).To(BeNumerically(">=", 0.4))
			Expect(b.Radius).To(BeNumerically("<", 0.9))
			Expect(b.Mass).To(BeNumerically("~", b.Radius*b.Radius*b.Radius, 1e-12))
		}

		world.Clear()
		Expect(world.BodyCount()).To(BeZero())
		Expect(world.SparkCount()).To(BeZero())
	})

	It("spawns without a limit by default", func() {
		for i := 0; i < 150; i++ {
			Expect(world.SpawnRandom()).To(BeTrue())
		}
		Expect(world.BodyCount()).To(Equal(150))
	})

	It("refuses spawns past the ball limit", func() {
		scene.MaxBalls = 3
		for i := 0; i < 3; i++ {
			Expect(world.SpawnRandom()).To(BeTrue())
		}
		Expect(world.SpawnRandom()).To(BeFalse())
		Expect(world.BodyCount()).To(Equal(3))
	})

	It("gives equal seeds equal trajectories", func() {
		other := physics.NewWorld(physics.DefaultScene(), rand.New(rand.NewSource(42)))
		scene.SetEntropy(0.2)
		other.Scene().SetEntropy(0.2)
		world.Reset()
		other.Reset()

		for i := 0; i < 200; i++ {
			world.Step(0.01, dynamo.Vec3{})
			other.Step(0.01, dynamo.Vec3{})
		}

		Expect(other.BodyCount()).To(Equal(world.BodyCount()))
		for i, b := range world.Balls() {
			Expect(other.Balls()[i].Pos).To(Equal(b.Pos))
		}
	})
})
