package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/gravballs/internal/dynamo"
)

type body struct {
	pos, vel     dynamo.Vec3
	radius, mass float64
}

type fakeWorld struct {
	bodies []body
	sparks int
}

func (f *fakeWorld) BodyCount() int  { return len(f.bodies) }
func (f *fakeWorld) SparkCount() int { return f.sparks }
func (f *fakeWorld) EachBody(fn func(pos, vel dynamo.Vec3, radius, mass float64)) {
	for _, b := range f.bodies {
		fn(b.pos, b.vel, b.radius, b.mass)
	}
}

func TestKineticEnergy(t *testing.T) {
	w := &fakeWorld{bodies: []body{
		{vel: dynamo.Vec3{X: 2}, mass: 1},
		{vel: dynamo.Vec3{Y: 3, Z: 4}, mass: 2},
	}}

	expected := 0.5*1*4 + 0.5*2*25
	if got := KineticEnergy(w); math.Abs(got-expected) > 1e-12 {
		t.Errorf("expected kinetic energy %f, got %f", expected, got)
	}
	if got := MaxSpeed(w); got != 5 {
		t.Errorf("expected max speed 5, got %f", got)
	}
}

func TestEnergyReset(t *testing.T) {
	m := NewEnergy()
	w := &fakeWorld{bodies: []body{{vel: dynamo.Vec3{X: 1}, mass: 1}}}

	m.Observe(w, dynamo.StepStats{}, 0)
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift(-10)
	w := &fakeWorld{bodies: []body{{pos: dynamo.Vec3{Y: 1}, mass: 1}}}

	m.Observe(w, dynamo.StepStats{}, 0)
	if m.Value() != 0 {
		t.Errorf("expected zero drift on first sample, got %f", m.Value())
	}

	w.bodies[0].pos.Y = 0.5
	m.Observe(w, dynamo.StepStats{}, 0.1)
	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Errorf("expected drift 0.5, got %f", m.Value())
	}
}

func TestContainment(t *testing.T) {
	m := NewContainment(10)
	w := &fakeWorld{bodies: []body{{pos: dynamo.Vec3{X: 9}}}}

	m.Observe(w, dynamo.StepStats{}, 0)
	w.bodies[0].pos.Z = -11
	m.Observe(w, dynamo.StepStats{}, 0.1)

	if m.Value() != 0.5 {
		t.Errorf("expected containment 0.5, got %f", m.Value())
	}
}

func TestCollisionRate(t *testing.T) {
	m := NewCollisionRate()
	w := &fakeWorld{}

	m.Observe(w, dynamo.StepStats{Collisions: 2}, 0)
	m.Observe(w, dynamo.StepStats{Collisions: 4, Consumed: 1}, 2)

	if m.Total() != 6 || m.Consumed() != 1 {
		t.Errorf("unexpected totals: %d collisions, %d consumed", m.Total(), m.Consumed())
	}
	if m.Value() != 3 {
		t.Errorf("expected 3 collisions/s, got %f", m.Value())
	}
}

func TestDefaults(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Defaults(-9.8, 10) {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %s", m.Name())
		}
		seen[m.Name()] = true
	}
	if len(seen) != 5 {
		t.Errorf("expected 5 metrics, got %d", len(seen))
	}
}
