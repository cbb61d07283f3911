// Package physics is the simulation core: balls in a box under gravity and
// optional force fields, with wall and pairwise collisions.
//
// The moving parts, leaves first:
//
//   - [Ball], [Spark], [Trail]: entities and their per-step update rules
//   - [Field]: acceleration contributions (black hole, cursor, magnetic walls)
//   - [ResolveBoundaries], [ResolvePairs]: collision response
//   - [World]: the stepper that orders fields, integration, collisions and pruning
//   - [Scene]: mutable parameters, owned by the control surface
//
// A [World] is single-threaded. The control surface mutates its [Scene]
// between calls to [World.Step]; a step reads a value copy taken on entry.
//
// # Example
//
//	scene := physics.DefaultScene()
//	w := physics.NewWorld(scene, rand.New(rand.NewSource(42)))
//	w.Reset()
//	for i := 0; i < 600; i++ {
//	    w.Step(scene.ScaleDt(1.0/60), dynamo.Vec3{})
//	}
package physics
