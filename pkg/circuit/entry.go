package circuit

import (
	"fmt"
	"math"
	"math/cmplx"
	"slices"

	"github.com/edp1096/toy-photon/pkg/matrix"
	"github.com/edp1096/toy-photon/pkg/netlist"
)

// Entry is one unit of the working set: an ordered net list and the
// scattering matrix whose rows and columns follow it. Entries are never
// modified once built; a fold produces a new one.
type Entry struct {
	Name string
	Nets []int
	S    *matrix.SMatrix
}

func newEntry(c *netlist.Component, freqs []float64) (*Entry, error) {
	s, err := c.SParameters(freqs)
	if err != nil {
		return nil, err
	}
	return &Entry{
		Name: c.Name,
		Nets: slices.Clone(c.Nets),
		S:    s,
	}, nil
}

func (e *Entry) Freq() []float64 { return e.S.Freq }

func (e *Entry) Ports() int { return len(e.Nets) }

// External reports whether only external nets remain.
func (e *Entry) External() bool {
	return !slices.ContainsFunc(e.Nets, func(n int) bool { return n >= 0 })
}

// Port returns the matrix index of net, or -1.
func (e *Entry) Port(net int) int {
	return slices.Index(e.Nets, net)
}

// Response returns S[out][in] across the frequency vector, with out and in
// given as external net ids.
func (e *Entry) Response(out, in int) ([]complex128, error) {
	i, j := e.Port(out), e.Port(in)
	if i < 0 {
		return nil, fmt.Errorf("net %d is not a port of %s", out, e.Name)
	}
	if j < 0 {
		return nil, fmt.Errorf("net %d is not a port of %s", in, e.Name)
	}
	return e.S.Trace(i, j), nil
}

// PowerDB returns 20 log10 |S[out][in]| across the frequency vector.
func (e *Entry) PowerDB(out, in int) ([]float64, error) {
	trace, err := e.Response(out, in)
	if err != nil {
		return nil, err
	}
	db := make([]float64, len(trace))
	for k, v := range trace {
		db[k] = 20 * math.Log10(cmplx.Abs(v))
	}
	return db, nil
}

func (e *Entry) String() string {
	return fmt.Sprintf("%s nets=%v", e.Name, e.Nets)
}

// without returns nets minus the ports at indices k and l.
func without(nets []int, k, l int) []int {
	out := make([]int, 0, len(nets)-2)
	for i, n := range nets {
		if i != k && i != l {
			out = append(out, n)
		}
	}
	return out
}
