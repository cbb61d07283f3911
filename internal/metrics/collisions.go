package metrics

import "github.com/san-kum/gravballs/internal/dynamo"

// CollisionRate is resolved ball-ball contacts per unit of simulated time.
type CollisionRate struct {
	name     string
	total    int
	consumed int
	first    float64
	last     float64
	samples  int
}

func NewCollisionRate() *CollisionRate {
	return &CollisionRate{
		name: "collision_rate",
	}
}

func (c *CollisionRate) Name() string {
	return c.name
}

func (c *CollisionRate) Observe(_ dynamo.Snapshot, st dynamo.StepStats, t float64) {
	if c.samples == 0 {
		c.first = t
	}
	c.total += st.Collisions
	c.consumed += st.Consumed
	c.last = t
	c.samples++
}

func (c *CollisionRate) Value() float64 {
	span := c.last - c.first
	if span <= 0 {
		return float64(c.total)
	}
	return float64(c.total) / span
}

// Total is the number of contacts seen since the last reset.
func (c *CollisionRate) Total() int { return c.total }

// Consumed is the number of balls swallowed by the black hole.
func (c *CollisionRate) Consumed() int { return c.consumed }

func (c *CollisionRate) Reset() {
	c.total = 0
	c.consumed = 0
	c.first = 0
	c.last = 0
	c.samples = 0
}

// Population is the mean number of live balls.
type Population struct {
	name    string
	sum     int
	samples int
}

func NewPopulation() *Population {
	return &Population{name: "population"}
}

func (p *Population) Name() string { return p.name }

func (p *Population) Observe(s dynamo.Snapshot, _ dynamo.StepStats, _ float64) {
	p.sum += s.BodyCount()
	p.samples++
}

func (p *Population) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return float64(p.sum) / float64(p.samples)
}

func (p *Population) Reset() {
	p.sum = 0
	p.samples = 0
}

// Defaults returns the metric set recorded by headless runs.
func Defaults(gravity, box float64) []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergy(),
		NewEnergyDrift(gravity),
		NewContainment(box),
		NewCollisionRate(),
		NewPopulation(),
	}
}
