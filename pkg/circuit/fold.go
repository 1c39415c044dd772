package circuit

import (
	"fmt"
	"math/cmplx"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/edp1096/toy-photon/pkg/matrix"
)

// determinants below this magnitude are treated as a resonant, lossless loop
const singularTolerance = 1e-12

// InnerConnect eliminates ports k and l of s, which are wired to each other.
// The result has two ports fewer; the remaining ports keep their order.
func InnerConnect(s *matrix.SMatrix, k, l int) (*matrix.SMatrix, error) {
	return innerConnect(s, k, l, 1)
}

// Connect wires port k of a to port l of b. The ports of the result are a's
// remaining ports followed by b's.
func Connect(a *matrix.SMatrix, k int, b *matrix.SMatrix, l int) (*matrix.SMatrix, error) {
	return connect(a, k, b, l, 1)
}

func connect(a *matrix.SMatrix, k int, b *matrix.SMatrix, l int, workers int) (*matrix.SMatrix, error) {
	if !floats.Equal(a.Freq, b.Freq) {
		return nil, fmt.Errorf("connect: %w", ErrFrequencyMismatch)
	}
	if k < 0 || k >= a.N || l < 0 || l >= b.N {
		return nil, fmt.Errorf("connect: port out of range (k=%d of %d, l=%d of %d)", k, a.N, l, b.N)
	}
	return innerConnect(matrix.BlockDiag(a, b), k, a.N+l, workers)
}

// innerConnect solves, per frequency sample, the 2x2 system that closes the
// loop between ports k and l:
//
//	[ 1-S_lk   -S_ll ] [x_k]   [S_lj]
//	[ -S_kk   1-S_kl ] [x_l] = [S_kj]
//
// for every remaining port j, then S'_ij = S_ij + S_ik x_k + S_il x_l.
// With workers > 1 the frequency axis is split into contiguous chunks.
func innerConnect(s *matrix.SMatrix, k, l int, workers int) (*matrix.SMatrix, error) {
	if k == l || k < 0 || k >= s.N || l < 0 || l >= s.N {
		return nil, fmt.Errorf("inner connect: invalid port pair (%d, %d) of %d", k, l, s.N)
	}

	keep := make([]int, 0, s.N-2)
	for i := 0; i < s.N; i++ {
		if i != k && i != l {
			keep = append(keep, i)
		}
	}
	out := matrix.NewSMatrix(s.Freq, len(keep))

	n := s.Len()
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		if err := foldRange(s, out, k, l, keep, 0, n); err != nil {
			return nil, err
		}
		return out, nil
	}

	chunk := (n + workers - 1) / workers
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo, hi := w*chunk, min((w+1)*chunk, n)
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			errs[w] = foldRange(s, out, k, l, keep, lo, hi)
		}(w, lo, hi)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// foldRange fills out for frequency samples [lo, hi). Each call owns its
// own solver, and writes only its own samples of out.
func foldRange(s, out *matrix.SMatrix, k, l int, keep []int, lo, hi int) error {
	sys, err := matrix.NewSystem(2)
	if err != nil {
		return err
	}
	defer sys.Destroy()

	for f := lo; f < hi; f++ {
		skk, skl := s.At(f, k, k), s.At(f, k, l)
		slk, sll := s.At(f, l, k), s.At(f, l, l)

		det := (1-slk)*(1-skl) - sll*skk
		if cmplx.Abs(det) < singularTolerance {
			return fmt.Errorf("%w at %g Hz", ErrSingularConnection, s.Freq[f])
		}

		// values change per sample, so the pivot order is checked every time
		sys.Clear()
		sys.AddElement(1, 1, 1-slk)
		sys.AddElement(1, 2, -sll)
		sys.AddElement(2, 1, -skk)
		sys.AddElement(2, 2, 1-skl)
		if err := sys.OrderAndFactor(); err != nil {
			return fmt.Errorf("%w at %g Hz: %v", ErrSingularConnection, s.Freq[f], err)
		}

		for jj, j := range keep {
			sys.ClearRHS()
			sys.SetRHS(1, s.At(f, l, j))
			sys.SetRHS(2, s.At(f, k, j))
			if err := sys.Solve(); err != nil {
				return fmt.Errorf("%w at %g Hz: %v", ErrSingularConnection, s.Freq[f], err)
			}

			xk, xl := sys.Solution(1), sys.Solution(2)
			for ii, i := range keep {
				out.Set(f, ii, jj, s.At(f, i, j)+s.At(f, i, k)*xk+s.At(f, i, l)*xl)
			}
		}
	}
	return nil
}
