// Package dynamo provides the shared primitives of the ball simulation.
//
// The package defines the value types and interfaces that every other layer
// builds on:
//
//   - [Vec3]: 3D vector used for positions, velocities and accelerations
//   - [Config]: parameters of a headless run (dt, duration, seed)
//   - [Result] and [Sample]: what a headless run produces
//   - [Metric] and [Observer]: hooks that watch a world step by step
//
// # Example
//
//	w := physics.NewWorld(physics.DefaultScene(), rand.New(rand.NewSource(1)))
//	s := sim.New(w)
//	result, _ := s.Run(ctx, dynamo.DefaultConfig())
//
// # Thread Safety
//
// Nothing in this package is synchronized. A world and everything observing
// it belong to a single goroutine; use sim.Ensemble for parallel runs.
package dynamo
