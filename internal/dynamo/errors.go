package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for the layers around the simulation core. The core itself
// never returns errors; degenerate numeric input is guarded instead.
var (
	// ErrInvalidConfig indicates run parameters that cannot be simulated.
	ErrInvalidConfig = errors.New("dynamo: invalid run configuration")

	// ErrUnstable indicates a body position or velocity became NaN or Inf.
	ErrUnstable = errors.New("dynamo: simulation unstable (state diverged)")

	// ErrUnknownPreset indicates a preset name that is not registered.
	ErrUnknownPreset = errors.New("dynamo: unknown preset")

	// ErrUnknownOp indicates a scenario action with an unsupported op.
	ErrUnknownOp = errors.New("dynamo: unknown scenario op")

	// ErrRunNotFound indicates a run id with no stored metadata.
	ErrRunNotFound = errors.New("dynamo: run not found")

	// ErrNoSamples indicates a stored run without recorded samples.
	ErrNoSamples = errors.New("dynamo: run has no samples")
)

// SimError records where a run stopped.
type SimError struct {
	Step    int
	Time    float64
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

func (e SimError) Unwrap() error {
	return ErrUnstable
}
