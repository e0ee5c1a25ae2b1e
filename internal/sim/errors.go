package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRun indicates a run configuration that cannot be executed.
	ErrInvalidRun = errors.New("sim: invalid run configuration")

	// ErrUnstable indicates a sphere centre became NaN or infinite.
	ErrUnstable = errors.New("sim: simulation unstable (non-finite position)")
)

// RunError wraps an error with the tick it happened on.
type RunError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *RunError) Unwrap() error {
	return e.Wrapped
}
