package physics

import (
	"math/rand"

	"github.com/san-kum/gravballs/internal/dynamo"
)

// ConsumeDistance is the black-hole event horizon.
const ConsumeDistance = 1.0

// World owns the live balls and sparks and advances them in fixed order.
type World struct {
	scene  *Scene
	rng    *rand.Rand
	balls  []Ball
	sparks []Spark
	time   float64
}

// NewWorld creates an empty world. The scene stays owned by the caller and
// is read at the start of every step.
func NewWorld(scene *Scene, rng *rand.Rand) *World {
	if scene == nil {
		scene = DefaultScene()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &World{
		scene:  scene,
		rng:    rng,
		balls:  make([]Ball, 0, max(scene.MaxBalls, scene.InitialBalls)),
		sparks: make([]Spark, 0, 256),
	}
}

func (w *World) Scene() *Scene { return w.scene }

// Balls returns the live balls. The slice is owned by the world and is only
// valid until the next mutating call.
func (w *World) Balls() []Ball { return w.balls }

// Sparks returns the live sparks, with the same ownership rule as Balls.
func (w *World) Sparks() []Spark { return w.sparks }

// Time is the accumulated simulated time.
func (w *World) Time() float64 { return w.time }

func (w *World) BodyCount() int  { return len(w.balls) }
func (w *World) SparkCount() int { return len(w.sparks) }

func (w *World) EachBody(fn func(pos, vel dynamo.Vec3, radius, mass float64)) {
	for i := range w.balls {
		b := &w.balls[i]
		fn(b.Pos, b.Vel, b.Radius, b.Mass)
	}
}

// Step advances the world by dt. cursor is the world-space target of the
// cursor field and is ignored unless that field is on. A paused world is
// left untouched, sparks included.
func (w *World) Step(dt float64, cursor dynamo.Vec3) dynamo.StepStats {
	sc := *w.scene
	var st dynamo.StepStats
	if sc.Paused {
		return st
	}

	if sc.BlackHole {
		st.Consumed = w.consume()
	}

	for i := range w.balls {
		w.balls[i].Update(&sc, cursor, dt, w.rng)
	}

	ResolveBoundaries(w.balls, sc.BoxSize, sc.Restitution)
	w.sparks, st.Collisions = ResolvePairs(w.balls, sc.Restitution, w.sparks, w.rng)

	for i := range w.sparks {
		w.sparks[i].Update(sc.Gravity, dt)
	}
	w.sparks = filterSparks(w.sparks)

	w.time += dt
	return st
}

// consume removes balls inside the event horizon and bursts sparks where
// they vanished.
func (w *World) consume() int {
	kept := w.balls[:0]
	consumed := 0
	for _, b := range w.balls {
		if b.Pos.Length() < ConsumeDistance {
			w.sparks = append(w.sparks, burst(b.Pos, ConsumeSparkCount, w.rng)...)
			consumed++
			continue
		}
		kept = append(kept, b)
	}
	clear(w.balls[len(kept):])
	w.balls = kept
	return consumed
}

func filterSparks(sparks []Spark) []Spark {
	kept := sparks[:0]
	for _, s := range sparks {
		if !s.Dead() {
			kept = append(kept, s)
		}
	}
	return kept
}

// Spawn adds a ball with a random color. The radius is clamped into
// [MinRadius, MaxRadius]. Returns false only when a MaxBalls cap is set and
// reached.
func (w *World) Spawn(pos, vel dynamo.Vec3, radius float64) bool {
	if w.scene.MaxBalls > 0 && len(w.balls) >= w.scene.MaxBalls {
		return false
	}
	w.balls = append(w.balls, NewBall(pos, vel, radius, randomColor(w.rng)))
	return true
}

// SpawnRandom drops a new ball from near the top of the box.
func (w *World) SpawnRandom() bool {
	pos := dynamo.Vec3{
		X: float64(w.rng.Intn(10) - 5),
		Y: float64(10 + w.rng.Intn(5)),
		Z: float64(w.rng.Intn(10) - 5),
	}
	return w.Spawn(pos, w.randomDrift(), 0.5+float64(w.rng.Intn(10))/20)
}

// Reset clears the balls and repopulates the scene with InitialBalls random
// balls. Sparks in flight are kept.
func (w *World) Reset() {
	w.ClearBodies()
	for i := 0; i < w.scene.InitialBalls; i++ {
		pos := dynamo.Vec3{
			X: float64(w.rng.Intn(10) - 5),
			Y: float64(w.rng.Intn(10) + 5),
			Z: float64(w.rng.Intn(10) - 5),
		}
		if !w.Spawn(pos, w.randomDrift(), 0.4+float64(w.rng.Intn(10))/20) {
			return
		}
	}
}

func (w *World) randomDrift() dynamo.Vec3 {
	return dynamo.Vec3{
		X: float64(w.rng.Intn(100)-50) / 50,
		Z: float64(w.rng.Intn(100)-50) / 50,
	}
}

func (w *World) ClearBodies() {
	clear(w.balls)
	w.balls = w.balls[:0]
}

func (w *World) ClearSparks() { w.sparks = w.sparks[:0] }

// Clear removes every ball and spark.
func (w *World) Clear() {
	w.ClearBodies()
	w.ClearSparks()
}

// Validate reports the index of the first ball with a non-finite state, or -1.
func (w *World) Validate() int {
	for i := range w.balls {
		if !w.balls[i].IsValid() {
			return i
		}
	}
	return -1
}
