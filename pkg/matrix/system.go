package matrix

import (
	"fmt"
	"math/cmplx"

	"github.com/edp1096/sparse"
)

// System is a complex linear system A x = b backed by a sparse LU solver.
// Indices are 1-based, as in the underlying solver.
type System struct {
	Size         int
	matrix       *sparse.Matrix
	rhs          []float64
	rhsImag      []float64
	solution     []float64
	solutionImag []float64
	config       *sparse.Configuration
}

func NewSystem(size int) (*System, error) {
	if size < 1 {
		return nil, fmt.Errorf("invalid system size: %d", size)
	}

	config := &sparse.Configuration{
		Real:                    true,
		Complex:                 true,
		SeparatedComplexVectors: true,
		Expandable:              true,
		Translate:               true,
		ModifiedNodal:           true,
		TiesMultiplier:          5,
		PrinterWidth:            140,
		Annotate:                0,
	}

	mat, err := sparse.Create(int64(size), config)
	if err != nil {
		return nil, fmt.Errorf("creating sparse matrix: %w", err)
	}

	s := &System{
		Size:         size,
		matrix:       mat,
		rhs:          make([]float64, size+1), // 1-based indexing
		rhsImag:      make([]float64, size+1),
		solution:     make([]float64, size+1),
		solutionImag: make([]float64, size+1),
		config:       config,
	}
	s.setupElements()

	return s, nil
}

func (s *System) setupElements() {
	for i := 1; i <= s.Size; i++ {
		for j := 1; j <= s.Size; j++ {
			s.matrix.GetElement(int64(i), int64(j))
		}
	}
}

func (s *System) checkIndex(i int) {
	if i <= 0 || i > s.Size {
		panic(fmt.Sprintf("system index out of bounds (i=%d, size=%d)", i, s.Size))
	}
}

func (s *System) AddElement(i, j int, value complex128) {
	s.checkIndex(i)
	s.checkIndex(j)

	element := s.matrix.GetElement(int64(i), int64(j))
	element.Real += real(value)
	element.Imag += imag(value)
}

func (s *System) SetRHS(i int, value complex128) {
	s.checkIndex(i)
	s.rhs[i] = real(value)
	s.rhsImag[i] = imag(value)
}

// Clear zeroes the matrix and the right hand side, keeping the element structure.
func (s *System) Clear() {
	s.matrix.Clear()
	s.ClearRHS()
}

func (s *System) ClearRHS() {
	for i := range s.rhs {
		s.rhs[i] = 0
		s.rhsImag[i] = 0
	}
}

// Factor reuses the pivot order of the previous factorization and only
// reorders on an exactly zero pivot.
func (s *System) Factor() error {
	if err := s.matrix.Factor(); err != nil {
		return fmt.Errorf("matrix factorization failed: %w", err)
	}
	return nil
}

// OrderAndFactor factors with threshold pivoting: a pivot kept from the
// previous factorization is replaced when it is small relative to its column.
func (s *System) OrderAndFactor() error {
	if err := s.matrix.OrderAndFactor(nil, 0, 0, true); err != nil {
		return fmt.Errorf("matrix factorization failed: %w", err)
	}
	return nil
}

// Solve runs forward/back substitution against the last factorization.
func (s *System) Solve() error {
	var err error

	s.solution, s.solutionImag, err = s.matrix.SolveComplex(s.rhs, s.rhsImag)
	if err != nil {
		return fmt.Errorf("matrix solve failed: %w", err)
	}

	for i := 1; i <= s.Size; i++ {
		if x := s.Solution(i); cmplx.IsNaN(x) || cmplx.IsInf(x) {
			return fmt.Errorf("matrix solve failed: non-finite solution at x%d", i)
		}
	}
	return nil
}

func (s *System) Solution(i int) complex128 {
	s.checkIndex(i)
	return complex(s.solution[i], s.solutionImag[i])
}

func (s *System) Destroy() {
	if s.matrix != nil {
		s.matrix.Destroy()
		s.matrix = nil
	}
}
