package fluid

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidParameter indicates a non-positive mass, radius or duration.
	ErrInvalidParameter = errors.New("fluid: invalid physical parameter")

	// ErrUnstable indicates a step produced NaN or Inf particle state.
	ErrUnstable = errors.New("fluid: simulation unstable (non-finite state)")
)

// StepError wraps an error with the step that produced it.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidParameter}, args...)...)
}
