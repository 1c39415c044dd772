package util

import (
	"math"
	"strings"
	"testing"
)

func TestWavelengthRoundTrip(t *testing.T) {
	for _, wl := range []float64{1500e-9, 1550e-9, 1600e-9} {
		got := FreqToWl(WlToFreq(wl))
		if math.Abs(got-wl) > 1e-21 {
			t.Errorf("FreqToWl(WlToFreq(%g)) = %g", wl, got)
		}
	}
}

func TestFrequencySweep(t *testing.T) {
	f, err := FrequencySweep(190e12, 200e12, 11)
	if err != nil {
		t.Fatalf("FrequencySweep: %v", err)
	}
	if len(f) != 11 {
		t.Fatalf("len = %d, want 11", len(f))
	}
	if f[0] != 190e12 || f[10] != 200e12 {
		t.Errorf("bounds = %g..%g", f[0], f[10])
	}
	if math.Abs(f[1]-191e12) > 1 {
		t.Errorf("f[1] = %g, want 191e12", f[1])
	}

	single, err := FrequencySweep(193e12, 193e12, 1)
	if err != nil || len(single) != 1 {
		t.Errorf("single point sweep = %v, %v", single, err)
	}

	if _, err := FrequencySweep(1, 2, 0); err == nil {
		t.Error("expected error for zero points")
	}
	if _, err := FrequencySweep(-1, 2, 3); err == nil {
		t.Error("expected error for negative bound")
	}
}

func TestWavelengthSweepIncreasingFrequency(t *testing.T) {
	f, err := WavelengthSweep(1500e-9, 1600e-9, 5)
	if err != nil {
		t.Fatalf("WavelengthSweep: %v", err)
	}
	for i := 1; i < len(f); i++ {
		if f[i] <= f[i-1] {
			t.Fatalf("frequencies not increasing at %d: %v", i, f)
		}
	}
	if math.Abs(f[0]-WlToFreq(1600e-9)) > 1 {
		t.Errorf("f[0] = %g, want %g", f[0], WlToFreq(1600e-9))
	}
}

func TestSameGrid(t *testing.T) {
	a := []float64{1, 2, 3}
	if !SameGrid(a, []float64{1, 2, 3}) {
		t.Error("identical grids reported different")
	}
	if SameGrid(a, []float64{1, 2}) {
		t.Error("different lengths reported same")
	}
	if SameGrid(a, []float64{1, 2, 3.0000001}) {
		t.Error("different values reported same")
	}
}

func TestFormatters(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{FormatFrequency(193.4e12), "193.4000 THz"},
		{FormatFrequency(2.5e9), "  2.5000 GHz"},
		{FormatWavelength(1550e-9), "1550.000 nm"},
		{FormatValueFactor(1.5e-6, "m"), "1.500 um"},
		{FormatValueFactor(2e3, "Hz"), "2.000 kHz"},
		{FormatDB(math.Inf(-1)), "    -inf dB"},
		{FormatDB(-3.0103), "  -3.010 dB"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}

	mp := FormatMagnitudePhase("S21", 0.5, 90)
	if !strings.HasPrefix(mp, "S21=") || !strings.HasSuffix(mp, "90.0deg") {
		t.Errorf("FormatMagnitudePhase = %q", mp)
	}
}
