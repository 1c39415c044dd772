package netlist

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyNetlist       = errors.New("empty netlist")
	ErrNoPorts            = errors.New("component has no ports")
	ErrDanglingNet        = errors.New("dangling internal net")
	ErrFanOut             = errors.New("internal net fan-out exceeds two ports")
	ErrDuplicateExternal  = errors.New("external net used more than once")
	ErrInvalidValue       = errors.New("invalid numeric literal")
	ErrLoad               = errors.New("netlist could not load successfully")
	ErrSubcircuitMismatch = errors.New("subcircuit header and footer names differ")
)

// NetError reports a structural problem with one net id.
type NetError struct {
	Net   int
	Kind  error // one of ErrDanglingNet, ErrFanOut, ErrDuplicateExternal
	Count int   // number of port slots found
}

func (e *NetError) Error() string {
	return fmt.Sprintf("net %d: %v (%d port slots)", e.Net, e.Kind, e.Count)
}

func (e *NetError) Unwrap() error { return e.Kind }

// CheckFanOut classifies the number of port slots found for an internal net.
// Zero and two slots are valid.
func CheckFanOut(net, count int) error {
	switch {
	case count == 1:
		return &NetError{Net: net, Kind: ErrDanglingNet, Count: count}
	case count > 2:
		return &NetError{Net: net, Kind: ErrFanOut, Count: count}
	}
	return nil
}

// LoadError wraps any failure while reading a persisted netlist.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("%v: %v", ErrLoad, e.Err)
	}
	return fmt.Sprintf("%v: %s: %v", ErrLoad, e.Source, e.Err)
}

func (e *LoadError) Unwrap() []error { return []error{ErrLoad, e.Err} }
