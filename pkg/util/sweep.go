package util

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/edp1096/toy-photon/internal/consts"
)

// FreqToWl converts a frequency (Hz) to a vacuum wavelength (m).
func FreqToWl(freq float64) float64 {
	return consts.SPEED_OF_LIGHT / freq
}

// WlToFreq converts a vacuum wavelength (m) to a frequency (Hz).
func WlToFreq(wl float64) float64 {
	return consts.SPEED_OF_LIGHT / wl
}

// FrequencySweep returns n evenly spaced frequencies from start to stop inclusive.
func FrequencySweep(start, stop float64, n int) ([]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("sweep needs at least 1 point, got %d", n)
	}
	if start <= 0 || stop <= 0 {
		return nil, fmt.Errorf("sweep bounds must be positive: start=%g, stop=%g", start, stop)
	}
	if n == 1 {
		return []float64{start}, nil
	}
	return floats.Span(make([]float64, n), start, stop), nil
}

// WavelengthSweep samples n evenly spaced wavelengths between start and stop
// and returns the matching frequencies in increasing order.
func WavelengthSweep(start, stop float64, n int) ([]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("sweep needs at least 1 point, got %d", n)
	}
	if start <= 0 || stop <= 0 {
		return nil, fmt.Errorf("sweep bounds must be positive: start=%g, stop=%g", start, stop)
	}

	wls := []float64{start}
	if n > 1 {
		wls = floats.Span(make([]float64, n), start, stop)
	}

	freqs := make([]float64, len(wls))
	for i, wl := range wls {
		freqs[i] = WlToFreq(wl)
	}
	slices.Sort(freqs)
	return freqs, nil
}

// SameGrid reports whether two frequency vectors are identical.
func SameGrid(a, b []float64) bool {
	return floats.Equal(a, b)
}
