package dynamo

// Snapshot is the read-only view of a world that metrics and observers see.
type Snapshot interface {
	BodyCount() int
	SparkCount() int
	EachBody(fn func(pos, vel Vec3, radius, mass float64))
}

// StepStats reports what happened during one simulation step.
type StepStats struct {
	Consumed   int
	Collisions int
}

type Metric interface {
	Name() string
	Observe(s Snapshot, st StepStats, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Snapshot, st StepStats, t float64)
}

// Config describes a fixed-dt headless run.
type Config struct {
	Dt            float64
	Duration      float64
	Seed          int64
	SampleEvery   int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      10.0,
		SampleEvery:   1,
		ValidateState: true,
	}
}

// Sample is one recorded row of a run.
type Sample struct {
	Time          float64 `json:"time"`
	Balls         int     `json:"balls"`
	Sparks        int     `json:"sparks"`
	KineticEnergy float64 `json:"kinetic_energy"`
	MaxSpeed      float64 `json:"max_speed"`
	Collisions    int     `json:"collisions"`
}

type Result struct {
	Samples    []Sample
	Metrics    map[string]float64
	StepsTaken int
	Collisions int
	Consumed   int
	Errors     []error

	// Checksum fingerprints the final world state.
	Checksum uint64
}
