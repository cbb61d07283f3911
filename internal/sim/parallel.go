package sim

import (
	"context"
	"runtime"

	"github.com/san-kum/gravballs/internal/dynamo"
	"golang.org/x/sync/errgroup"
)

// Factory builds a fresh simulator for one seed. Worlds are never shared
// between ensemble members.
type Factory func(seed int64) (*Simulator, error)

type Ensemble struct {
	factory   Factory
	numRuns   int
	seedStart int64
	workers   int
}

func NewEnsemble(factory Factory, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{
		factory:   factory,
		numRuns:   numRuns,
		seedStart: seedStart,
		workers:   runtime.NumCPU(),
	}
}

// SetWorkers bounds how many runs execute at once.
func (e *Ensemble) SetWorkers(n int) {
	if n > 0 {
		e.workers = n
	}
}

// Run executes every seed and returns results in seed order. The first
// failing run cancels the rest.
func (e *Ensemble) Run(ctx context.Context, cfg dynamo.Config) ([]*dynamo.Result, error) {
	results := make([]*dynamo.Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i := 0; i < e.numRuns; i++ {
		idx := i
		g.Go(func() error {
			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			s, err := e.factory(cfgCopy.Seed)
			if err != nil {
				return err
			}
			res, err := s.Run(ctx, cfgCopy)
			if err != nil {
				return err
			}
			results[idx] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
