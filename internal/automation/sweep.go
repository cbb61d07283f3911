package automation

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/san-kum/gravballs/internal/config"
	"github.com/san-kum/gravballs/internal/dynamo"
	"github.com/san-kum/gravballs/internal/physics"
	"github.com/san-kum/gravballs/internal/sim"
	"go.uber.org/zap"
)

// ParameterSweep runs the same seeded scene across a range of values for
// one scene parameter.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds the summary of one sweep point.
type SweepResult struct {
	ParamValue    float64
	FinalBalls    int
	MeanEnergy    float64
	MaxEnergy     float64
	Collisions    int
	Consumed      int
	Instabilities int
}

var sweepParams = map[string]func(*physics.Scene, float64){
	"gravity":     (*physics.Scene).SetGravity,
	"friction":    (*physics.Scene).SetFriction,
	"restitution": (*physics.Scene).SetRestitution,
	"entropy":     (*physics.Scene).SetEntropy,
	"time_scale":  (*physics.Scene).SetTimeScale,
	"box_size":    (*physics.Scene).SetBoxSize,
}

// SweepParams lists the parameter names RunSweep accepts, sorted.
func SweepParams() []string {
	names := make([]string, 0, len(sweepParams))
	for name := range sweepParams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RunSweep executes a parameter sweep.
func RunSweep(ctx context.Context, sweep *ParameterSweep, log *zap.Logger) ([]SweepResult, error) {
	set, ok := sweepParams[sweep.ParamName]
	if !ok {
		return nil, fmt.Errorf("%w: cannot sweep %q", dynamo.ErrInvalidConfig, sweep.ParamName)
	}
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("%w: sweep needs at least one step", dynamo.ErrInvalidConfig)
	}
	if log == nil {
		log = zap.NewNop()
	}

	base := sweep.Base
	if base == nil {
		base = config.DefaultConfig()
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		sc := base.ToScene()
		set(sc, paramVal)
		w := physics.NewWorld(sc, rand.New(rand.NewSource(base.Run.Seed)))
		w.Reset()

		result, err := sim.New(w).Run(ctx, base.SimConfig())
		if err != nil {
			return results, fmt.Errorf("sweep %s=%.4f: %w", sweep.ParamName, paramVal, err)
		}

		results = append(results, summarize(paramVal, result))
		log.Debug("sweep point done",
			zap.String("param", sweep.ParamName),
			zap.Float64("value", paramVal),
			zap.Int("point", i+1),
			zap.Int("of", sweep.NumSteps))
	}

	return results, nil
}

func summarize(v float64, r *dynamo.Result) SweepResult {
	res := SweepResult{
		ParamValue:    v,
		Collisions:    r.Collisions,
		Consumed:      r.Consumed,
		Instabilities: len(r.Errors),
	}
	if n := len(r.Samples); n > 0 {
		res.FinalBalls = r.Samples[n-1].Balls
		sum := 0.0
		for _, s := range r.Samples {
			sum += s.KineticEnergy
			if s.KineticEnergy > res.MaxEnergy {
				res.MaxEnergy = s.KineticEnergy
			}
		}
		res.MeanEnergy = sum / float64(n)
	}
	return res
}
