package automation

import (
	"fmt"
	"sort"

	"github.com/san-kum/gravballs/internal/dynamo"
	"github.com/san-kum/gravballs/internal/sim"
)

type opFunc func(s *sim.Simulator, a Action)

var ops = map[string]opFunc{
	"pause":  func(s *sim.Simulator, _ Action) { s.World().Scene().Paused = true },
	"resume": func(s *sim.Simulator, _ Action) { s.World().Scene().Paused = false },

	"toggle_black_hole": func(s *sim.Simulator, _ Action) { s.World().Scene().ToggleBlackHole() },
	"toggle_magnetic":   func(s *sim.Simulator, _ Action) { s.World().Scene().ToggleMagneticWalls() },
	"toggle_cursor":     func(s *sim.Simulator, _ Action) { s.World().Scene().ToggleCursorGravity() },
	"cursor":            func(s *sim.Simulator, a Action) { s.SetCursor(a.position()) },

	"gravity":     func(s *sim.Simulator, a Action) { s.World().Scene().SetGravity(a.Value) },
	"friction":    func(s *sim.Simulator, a Action) { s.World().Scene().SetFriction(a.Value) },
	"restitution": func(s *sim.Simulator, a Action) { s.World().Scene().SetRestitution(a.Value) },
	"entropy":     func(s *sim.Simulator, a Action) { s.World().Scene().SetEntropy(a.Value) },
	"time_scale":  func(s *sim.Simulator, a Action) { s.World().Scene().SetTimeScale(a.Value) },

	"spawn":        func(s *sim.Simulator, a Action) { s.World().Spawn(a.position(), dynamo.Vec3{}, a.Value) },
	"spawn_random": func(s *sim.Simulator, _ Action) { s.World().SpawnRandom() },
	"clear":        func(s *sim.Simulator, _ Action) { s.World().Clear() },
	"clear_sparks": func(s *sim.Simulator, _ Action) { s.World().ClearSparks() },
	"reset":        func(s *sim.Simulator, _ Action) { s.World().Reset() },
}

func (a Action) position() dynamo.Vec3 {
	return dynamo.Vec3{X: a.X, Y: a.Y, Z: a.Z}
}

// Apply runs a single action immediately, ignoring its At time.
func Apply(s *sim.Simulator, a Action) error {
	fn, ok := ops[a.Op]
	if !ok {
		return fmt.Errorf("%w: %q", dynamo.ErrUnknownOp, a.Op)
	}
	fn(s, a)
	return nil
}

// Ops lists the supported action names in sorted order.
func Ops() []string {
	names := make([]string, 0, len(ops))
	for name := range ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
