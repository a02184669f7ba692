package scenario

import (
	"errors"
	"fmt"
)

// ErrInvalidScenarioShape is returned by the normalizer when a
// recognized scenario key holds a value that is neither a mapping nor a
// coercible scalar.
var ErrInvalidScenarioShape = errors.New("scenario key has uncoercible shape")

// InterpretationError reports a failed interpretation round trip. It
// carries the raw model output for diagnostics; callers should surface a
// short apology to the user, never this error text verbatim.
type InterpretationError struct {
	RawOutput string
	Err       error
}

func (e *InterpretationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("scenario interpretation failed: %v", e.Err)
	}
	return "scenario interpretation failed"
}

func (e *InterpretationError) Unwrap() error {
	return e.Err
}

// InvalidDateError reports an add_expense date that could not be parsed
// as a calendar date after defaulting.
type InvalidDateError struct {
	Value string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid scenario date %q", e.Value)
}
