package device

import (
	"errors"
	"math"
	"math/cmplx"
	"slices"
	"testing"

	"github.com/edp1096/toy-photon/internal/consts"
)

const tol = 1e-12

var f0 = consts.SPEED_OF_LIGHT / consts.CENTER_WL

func TestRegistry(t *testing.T) {
	names := Registered()
	for _, want := range []string{"waveguide", "y_branch", "directional_coupler", "grating_coupler", "terminator", "ebeam_wg_integral_1550"} {
		if !slices.Contains(names, want) {
			t.Errorf("model %q not registered (have %v)", want, names)
		}
	}
	if !slices.IsSorted(names) {
		t.Errorf("Registered() not sorted: %v", names)
	}

	if _, err := New("no_such_cell", nil); !errors.Is(err, ErrUnknownModel) {
		t.Errorf("New(unknown) error = %v, want ErrUnknownModel", err)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register("waveguide", NewWaveguide)
}

func TestPortCounts(t *testing.T) {
	tests := map[string]int{
		"waveguide":           2,
		"y_branch":            3,
		"directional_coupler": 4,
		"grating_coupler":     2,
		"terminator":          1,
	}
	for name, ports := range tests {
		m, err := New(name, nil)
		if err != nil {
			t.Fatalf("New(%s): %v", name, err)
		}
		if m.Ports() != ports {
			t.Errorf("%s: Ports() = %d, want %d", name, m.Ports(), ports)
		}
		s, err := m.SParameters([]float64{f0, 1.01 * f0})
		if err != nil {
			t.Fatalf("%s: SParameters: %v", name, err)
		}
		if s.Ports() != ports || s.Len() != 2 {
			t.Errorf("%s: matrix %d ports x %d samples", name, s.Ports(), s.Len())
		}
		for k := 0; k < s.Len(); k++ {
			for i := 0; i < ports; i++ {
				for j := 0; j < ports; j++ {
					if s.At(k, i, j) != s.At(k, j, i) {
						t.Errorf("%s: not reciprocal at f%d (%d,%d)", name, k, i, j)
					}
				}
			}
		}
	}
}

func TestWaveguidePhaseAndLoss(t *testing.T) {
	m, err := New("waveguide", map[string]float64{"length": 100e-6, "loss": 1000})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s, err := m.SParameters([]float64{f0})
	if err != nil {
		t.Fatalf("SParameters: %v", err)
	}

	wg := m.(*Waveguide)
	beta := 2 * math.Pi * wg.Neff / consts.CENTER_WL
	want := complex(math.Pow(10, -0.1/20), 0) * cmplx.Exp(complex(0, -beta*100e-6))
	if got := s.At(0, 1, 0); cmplx.Abs(got-want) > 1e-9 {
		t.Errorf("S21 = %v, want %v", got, want)
	}
	if s.At(0, 0, 0) != 0 || s.At(0, 1, 1) != 0 {
		t.Error("waveguide should not reflect")
	}

	if got := wg.EffectiveIndex(consts.CENTER_WL); got != wg.Neff {
		t.Errorf("EffectiveIndex(wl0) = %g, want %g", got, wg.Neff)
	}
}

func TestLosslessModelsConservePower(t *testing.T) {
	for _, name := range []string{"y_branch", "directional_coupler"} {
		m, err := New(name, map[string]float64{"coupling": 0.3})
		if err != nil {
			t.Fatalf("New(%s): %v", name, err)
		}
		s, err := m.SParameters([]float64{f0})
		if err != nil {
			t.Fatalf("SParameters: %v", err)
		}
		// power launched into port 0 must be fully accounted for
		total := 0.0
		for i := 0; i < s.Ports(); i++ {
			total += math.Pow(cmplx.Abs(s.At(0, i, 0)), 2)
		}
		if math.Abs(total-1) > tol {
			t.Errorf("%s: output power from port 0 = %g, want 1", name, total)
		}
	}
}

func TestDirectionalCouplerSplit(t *testing.T) {
	m, err := New("directional_coupler", map[string]float64{"coupling": 0.3})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s, _ := m.SParameters([]float64{f0})

	if got := math.Pow(cmplx.Abs(s.At(0, 3, 0)), 2); math.Abs(got-0.3) > tol {
		t.Errorf("cross power = %g, want 0.3", got)
	}
	if got := math.Pow(cmplx.Abs(s.At(0, 2, 0)), 2); math.Abs(got-0.7) > tol {
		t.Errorf("through power = %g, want 0.7", got)
	}
}

func TestGratingCouplerSpectrum(t *testing.T) {
	m, err := New("grating_coupler", map[string]float64{"loss": 3, "bandwidth": 40e-9})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	edge := consts.SPEED_OF_LIGHT / (consts.CENTER_WL + 20e-9)
	s, err := m.SParameters([]float64{f0, edge})
	if err != nil {
		t.Fatalf("SParameters: %v", err)
	}

	peak := math.Pow(cmplx.Abs(s.At(0, 1, 0)), 2)
	if math.Abs(peak-math.Pow(10, -0.3)) > 1e-9 {
		t.Errorf("peak power = %g, want %g", peak, math.Pow(10, -0.3))
	}
	half := math.Pow(cmplx.Abs(s.At(1, 1, 0)), 2)
	if math.Abs(half/peak-0.5) > 1e-9 {
		t.Errorf("power at band edge = %g of peak, want 0.5", half/peak)
	}
}

func TestTerminatorReflection(t *testing.T) {
	m, err := New("terminator", map[string]float64{"reflection": 0.1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s, _ := m.SParameters([]float64{f0})
	if s.At(0, 0, 0) != 0.1 {
		t.Errorf("S11 = %v, want 0.1", s.At(0, 0, 0))
	}
}

func TestConstructorValidation(t *testing.T) {
	tests := []struct {
		model  string
		params map[string]float64
	}{
		{"waveguide", map[string]float64{"length": 0}},
		{"waveguide", map[string]float64{"neff": -1}},
		{"waveguide", map[string]float64{"loss": -3}},
		{"y_branch", map[string]float64{"loss": -1}},
		{"directional_coupler", map[string]float64{"coupling": 1.5}},
		{"grating_coupler", map[string]float64{"bandwidth": 0}},
		{"terminator", map[string]float64{"reflection": 2}},
	}
	for _, tt := range tests {
		if _, err := New(tt.model, tt.params); err == nil {
			t.Errorf("New(%s, %v) should fail", tt.model, tt.params)
		}
	}
}

func TestSParametersRejectBadFrequencies(t *testing.T) {
	m, _ := New("waveguide", nil)
	for _, freqs := range [][]float64{nil, {0}, {f0, -1}, {math.NaN()}} {
		if _, err := m.SParameters(freqs); err == nil {
			t.Errorf("SParameters(%v) should fail", freqs)
		}
	}
}

func TestSiEPICAliasRenamesParams(t *testing.T) {
	m, err := New("ebeam_wg_integral_1550", map[string]float64{"wg_length": 25e-6, "wg_width": 0.5})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if m.Type() != "waveguide" {
		t.Errorf("Type() = %q, want waveguide", m.Type())
	}
	if got := m.Params()["length"]; got != 25e-6 {
		t.Errorf("length = %g, want 25e-6", got)
	}
}

func TestParamsIsCopy(t *testing.T) {
	m, _ := New("waveguide", nil)
	m.Params()["length"] = 1
	if m.Params()["length"] == 1 {
		t.Error("Params() exposes internal map")
	}
}
