package metrics

import (
	"math"

	"github.com/san-kum/gravballs/internal/dynamo"
)

// Containment is the fraction of observed steps in which every body center
// stayed inside the box.
type Containment struct {
	name       string
	box        float64
	violations int
	samples    int
}

func NewContainment(box float64) *Containment {
	return &Containment{
		name: "containment",
		box:  box,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(s dynamo.Snapshot, _ dynamo.StepStats, _ float64) {
	c.samples++
	escaped := false
	s.EachBody(func(pos, _ dynamo.Vec3, _, _ float64) {
		if math.Abs(pos.X) > c.box || math.Abs(pos.Y) > c.box || math.Abs(pos.Z) > c.box {
			escaped = true
		}
	})
	if escaped {
		c.violations++
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
