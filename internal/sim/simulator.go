package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/gravballs/internal/dynamo"
	"github.com/san-kum/gravballs/internal/metrics"
	"github.com/san-kum/gravballs/internal/physics"
)

// Driver mutates the world or the simulator between steps. Scenario
// playback is the main implementation.
type Driver interface {
	Drive(s *Simulator, t float64)
}

// Simulator advances one world and feeds metrics and observers.
type Simulator struct {
	world     *physics.World
	cursor    dynamo.Vec3
	metrics   []dynamo.Metric
	observers []dynamo.Observer
	drivers   []Driver
}

func New(world *physics.World) *Simulator {
	return &Simulator{
		world:     world,
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) AddDriver(d Driver)            { s.drivers = append(s.drivers, d) }

func (s *Simulator) World() *physics.World { return s.world }

// Cursor is the target of the cursor field.
func (s *Simulator) Cursor() dynamo.Vec3 { return s.cursor }

func (s *Simulator) SetCursor(c dynamo.Vec3) { s.cursor = c }

// Advance steps the world by a wall-clock interval scaled by the scene's
// time scale. The live viewer calls it once per frame.
func (s *Simulator) Advance(wall float64) dynamo.StepStats {
	dt := s.world.Scene().ScaleDt(wall)
	st := s.world.Step(dt, s.cursor)
	for _, obs := range s.observers {
		obs.OnStep(s.world, st, s.world.Time())
	}
	return st
}

// StepCount is the number of fixed steps a run of cfg takes.
func StepCount(cfg dynamo.Config) int {
	return int(math.Floor(cfg.Duration/cfg.Dt + 1e-9))
}

// Run performs a fixed-dt headless run. The first sample is taken before
// any step. Drivers fire before each step at the run-relative time.
func (s *Simulator) Run(ctx context.Context, cfg dynamo.Config) (*dynamo.Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	every := cfg.SampleEvery
	if every <= 0 {
		every = 1
	}

	steps := StepCount(cfg)
	result := &dynamo.Result{
		Samples: make([]dynamo.Sample, 0, steps/every+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t := 0.0
	pending := 0
	result.Samples = append(result.Samples, s.sample(t, 0))

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for _, d := range s.drivers {
			d.Drive(s, t)
		}

		dt := s.world.Scene().ScaleDt(cfg.Dt)
		st := s.world.Step(dt, s.cursor)
		t += cfg.Dt
		result.StepsTaken++
		result.Collisions += st.Collisions
		result.Consumed += st.Consumed
		pending += st.Collisions

		if cfg.ValidateState {
			if idx := s.world.Validate(); idx >= 0 {
				err := dynamo.SimError{
					Step:    i,
					Time:    t,
					Message: fmt.Sprintf("ball %d has a non-finite state", idx),
				}
				result.Errors = append(result.Errors, err)
				break
			}
		}

		for _, m := range s.metrics {
			m.Observe(s.world, st, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(s.world, st, t)
		}

		if (i+1)%every == 0 {
			result.Samples = append(result.Samples, s.sample(t, pending))
			pending = 0
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Checksum = Fingerprint(s.world)

	return result, nil
}

func (s *Simulator) sample(t float64, collisions int) dynamo.Sample {
	return dynamo.Sample{
		Time:          t,
		Balls:         s.world.BodyCount(),
		Sparks:        s.world.SparkCount(),
		KineticEnergy: metrics.KineticEnergy(s.world),
		MaxSpeed:      metrics.MaxSpeed(s.world),
		Collisions:    collisions,
	}
}

func validateConfig(cfg dynamo.Config) error {
	if cfg.Dt <= 0 || math.IsNaN(cfg.Dt) {
		return fmt.Errorf("%w: dt must be positive, got %f", dynamo.ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Duration <= 0 || math.IsNaN(cfg.Duration) {
		return fmt.Errorf("%w: duration must be positive, got %f", dynamo.ErrInvalidConfig, cfg.Duration)
	}
	return nil
}
