package matrix

import (
	"fmt"
	"slices"
)

// SMatrix is a square complex scattering matrix sampled over a frequency
// vector. Data is laid out [frequency][row][col].
type SMatrix struct {
	Freq []float64
	N    int
	data []complex128
}

func NewSMatrix(freq []float64, ports int) *SMatrix {
	return &SMatrix{
		Freq: slices.Clone(freq),
		N:    ports,
		data: make([]complex128, len(freq)*ports*ports),
	}
}

// NewSMatrixFrom builds a matrix whose every frequency sample is produced by fn.
func NewSMatrixFrom(freq []float64, ports int, fn func(f float64, i, j int) complex128) *SMatrix {
	m := NewSMatrix(freq, ports)
	for k, f := range m.Freq {
		for i := 0; i < ports; i++ {
			for j := 0; j < ports; j++ {
				m.Set(k, i, j, fn(f, i, j))
			}
		}
	}
	return m
}

func (m *SMatrix) Ports() int { return m.N }

// Len returns the number of frequency samples.
func (m *SMatrix) Len() int { return len(m.Freq) }

func (m *SMatrix) index(f, i, j int) int {
	if f < 0 || f >= len(m.Freq) || i < 0 || i >= m.N || j < 0 || j >= m.N {
		panic(fmt.Sprintf("smatrix index out of range (f=%d, i=%d, j=%d, samples=%d, ports=%d)", f, i, j, len(m.Freq), m.N))
	}
	return (f*m.N+i)*m.N + j
}

func (m *SMatrix) At(f, i, j int) complex128 {
	return m.data[m.index(f, i, j)]
}

func (m *SMatrix) Set(f, i, j int, v complex128) {
	m.data[m.index(f, i, j)] = v
}

// Sample returns a copy of the n x n matrix at frequency index f.
func (m *SMatrix) Sample(f int) [][]complex128 {
	out := make([][]complex128, m.N)
	for i := range out {
		out[i] = make([]complex128, m.N)
		for j := range out[i] {
			out[i][j] = m.At(f, i, j)
		}
	}
	return out
}

// Trace returns S[i][j] across the whole frequency vector.
func (m *SMatrix) Trace(i, j int) []complex128 {
	out := make([]complex128, len(m.Freq))
	for f := range m.Freq {
		out[f] = m.At(f, i, j)
	}
	return out
}

func (m *SMatrix) Clone() *SMatrix {
	return &SMatrix{
		Freq: slices.Clone(m.Freq),
		N:    m.N,
		data: slices.Clone(m.data),
	}
}

// BlockDiag places a and b on the diagonal of a new (na+nb)-port matrix.
// The frequency vector is taken from a.
func BlockDiag(a, b *SMatrix) *SMatrix {
	n := a.N + b.N
	out := NewSMatrix(a.Freq, n)
	for f := range a.Freq {
		for i := 0; i < a.N; i++ {
			for j := 0; j < a.N; j++ {
				out.Set(f, i, j, a.At(f, i, j))
			}
		}
		for i := 0; i < b.N; i++ {
			for j := 0; j < b.N; j++ {
				out.Set(f, a.N+i, a.N+j, b.At(f, i, j))
			}
		}
	}
	return out
}
