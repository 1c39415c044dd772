package circuit

import (
	"errors"
	"fmt"
)

var (
	ErrFrequencyMismatch  = errors.New("frequency vectors differ")
	ErrSingularConnection = errors.New("connection is singular")
	ErrNotConnected       = errors.New("circuit has more than one terminal entry")
)

// FrequencyError reports an entry whose frequency grid differs from the grid
// the rest of the cascade uses.
type FrequencyError struct {
	Component string
	Want      int // samples in the reference grid
	Got       int
}

func (e *FrequencyError) Error() string {
	if e.Want != e.Got {
		return fmt.Sprintf("%s: %v (%d samples, want %d)", e.Component, ErrFrequencyMismatch, e.Got, e.Want)
	}
	return fmt.Sprintf("%s: %v", e.Component, ErrFrequencyMismatch)
}

func (e *FrequencyError) Unwrap() error { return ErrFrequencyMismatch }
