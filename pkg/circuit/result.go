package circuit

import (
	"fmt"

	"github.com/edp1096/toy-photon/pkg/netlist"
)

// Result holds the terminal entries of a cascade. Each entry has only
// external nets; more than one entry means the netlist has disconnected
// sub-circuits.
type Result struct {
	Freq           []float64
	Circuits       []*Entry
	EdgeComponents []*netlist.Component
}

func (r *Result) Connected() bool {
	return len(r.Circuits) == 1
}

// Composite returns the single terminal entry of a fully connected circuit.
func (r *Result) Composite() (*Entry, error) {
	if !r.Connected() {
		return nil, fmt.Errorf("%w: %d entries", ErrNotConnected, len(r.Circuits))
	}
	return r.Circuits[0], nil
}

// Find returns the terminal entry that owns the external net.
func (r *Result) Find(net int) (*Entry, bool) {
	for _, e := range r.Circuits {
		if e.Port(net) >= 0 {
			return e, true
		}
	}
	return nil, false
}
