package metrics

import (
	"math"

	"github.com/san-kum/gravballs/internal/dynamo"
)

// KineticEnergy sums 0.5*m*|v|^2 over every body.
func KineticEnergy(s dynamo.Snapshot) float64 {
	ke := 0.0
	s.EachBody(func(_, vel dynamo.Vec3, _, mass float64) {
		ke += 0.5 * mass * vel.LengthSq()
	})
	return ke
}

// MechanicalEnergy adds gravitational potential energy relative to y = 0.
// gravity is the signed vertical acceleration of the scene.
func MechanicalEnergy(s dynamo.Snapshot, gravity float64) float64 {
	e := 0.0
	s.EachBody(func(pos, vel dynamo.Vec3, _, mass float64) {
		e += 0.5*mass*vel.LengthSq() - mass*gravity*pos.Y
	})
	return e
}

// MaxSpeed is the largest body speed, or 0 for an empty world.
func MaxSpeed(s dynamo.Snapshot) float64 {
	m := 0.0
	s.EachBody(func(_, vel dynamo.Vec3, _, _ float64) {
		m = math.Max(m, vel.Length())
	})
	return m
}

// Energy reports the mean kinetic energy over all observed steps.
type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s dynamo.Snapshot, _ dynamo.StepStats, _ float64) {
	e.totalEnergy += KineticEnergy(s)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift tracks the largest relative change of mechanical energy from
// the first observation. Restitution below one and friction make it grow.
type EnergyDrift struct {
	name          string
	gravity       float64
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(gravity float64) *EnergyDrift {
	return &EnergyDrift{
		name:    "energy_drift",
		gravity: gravity,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s dynamo.Snapshot, _ dynamo.StepStats, _ float64) {
	energy := MechanicalEnergy(s, e.gravity)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
