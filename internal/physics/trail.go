package physics

import "github.com/san-kum/gravballs/internal/dynamo"

const TrailCapacity = 30

// Trail is a bounded FIFO of recent positions, oldest first.
type Trail struct {
	points []dynamo.Vec3
}

// Add appends p and evicts the oldest point past TrailCapacity.
func (t *Trail) Add(p dynamo.Vec3) {
	if len(t.points) < TrailCapacity {
		t.points = append(t.points, p)
		return
	}
	copy(t.points, t.points[1:])
	t.points[len(t.points)-1] = p
}

// Points returns the stored positions, oldest first. The slice is shared
// with the trail.
func (t *Trail) Points() []dynamo.Vec3 { return t.points }

func (t *Trail) Len() int { return len(t.points) }

func (t *Trail) Clear() { t.points = t.points[:0] }
