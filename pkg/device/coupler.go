package device

import (
	"fmt"
	"math"

	"github.com/edp1096/toy-photon/internal/consts"
	"github.com/edp1096/toy-photon/pkg/matrix"
)

// GratingCoupler couples fiber (port 0) to waveguide (port 1) with a
// Gaussian power spectrum centered on wl0.
type GratingCoupler struct {
	BaseModel
	Loss       float64 // peak insertion loss, dB
	Bandwidth  float64 // 3 dB bandwidth, m
	Wl0        float64 // m
	Reflection float64 // back reflection amplitude on both ports
}

var gratingDefaults = map[string]float64{
	"loss":       5,
	"bandwidth":  35e-9,
	"wl0":        consts.CENTER_WL,
	"reflection": 0,
}

func NewGratingCoupler(params map[string]float64) (Model, error) {
	p := resolveParams(gratingDefaults, params)
	if p["loss"] < 0 {
		return nil, fmt.Errorf("grating coupler loss must not be negative: %g", p["loss"])
	}
	if p["bandwidth"] <= 0 || p["wl0"] <= 0 {
		return nil, fmt.Errorf("grating coupler bandwidth and wl0 must be positive: bandwidth=%g, wl0=%g", p["bandwidth"], p["wl0"])
	}
	if p["reflection"] < 0 || p["reflection"] > 1 {
		return nil, fmt.Errorf("reflection must be within [0, 1]: %g", p["reflection"])
	}

	return &GratingCoupler{
		BaseModel:  BaseModel{Kind: "grating_coupler", NPorts: 2, Values: p},
		Loss:       p["loss"],
		Bandwidth:  p["bandwidth"],
		Wl0:        p["wl0"],
		Reflection: p["reflection"],
	}, nil
}

func (g *GratingCoupler) SParameters(freqs []float64) (*matrix.SMatrix, error) {
	if err := checkFrequencies(freqs); err != nil {
		return nil, fmt.Errorf("grating coupler: %w", err)
	}

	peak := dbToAmplitude(g.Loss)
	r := complex(g.Reflection, 0)
	return reciprocal(freqs, 2, func(f float64, set func(i, j int, v complex128)) {
		x := (wavelength(f) - g.Wl0) / g.Bandwidth
		// power falls to one half at x = +-0.5
		t := peak * math.Exp(-2*math.Ln2*x*x)
		set(0, 1, complex(t, 0))
		set(0, 0, r)
		set(1, 1, r)
	}), nil
}

// Terminator absorbs light on its single port.
type Terminator struct {
	BaseModel
	Reflection float64
}

func NewTerminator(params map[string]float64) (Model, error) {
	p := resolveParams(map[string]float64{"reflection": 0}, params)
	if p["reflection"] < 0 || p["reflection"] > 1 {
		return nil, fmt.Errorf("reflection must be within [0, 1]: %g", p["reflection"])
	}

	return &Terminator{
		BaseModel:  BaseModel{Kind: "terminator", NPorts: 1, Values: p},
		Reflection: p["reflection"],
	}, nil
}

func (t *Terminator) SParameters(freqs []float64) (*matrix.SMatrix, error) {
	if err := checkFrequencies(freqs); err != nil {
		return nil, fmt.Errorf("terminator: %w", err)
	}

	r := complex(t.Reflection, 0)
	return reciprocal(freqs, 1, func(_ float64, set func(i, j int, v complex128)) {
		set(0, 0, r)
	}), nil
}

func init() {
	Register("grating_coupler", NewGratingCoupler)
	Register("terminator", NewTerminator)
}
