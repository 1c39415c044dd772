package device

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/edp1096/toy-photon/internal/consts"
	"github.com/edp1096/toy-photon/pkg/matrix"
)

// Waveguide is a straight two-port guide with first-order dispersion around
// wl0 and a propagation loss in dB/m.
type Waveguide struct {
	BaseModel
	Length float64 // m
	Neff   float64 // effective index at wl0
	Ng     float64 // group index
	Wl0    float64 // m
	Loss   float64 // dB/m
}

var waveguideDefaults = map[string]float64{
	"length": 10e-6,
	"neff":   2.44,
	"ng":     4.2,
	"wl0":    consts.CENTER_WL,
	"loss":   300, // 3 dB/cm
}

func NewWaveguide(params map[string]float64) (Model, error) {
	p := resolveParams(waveguideDefaults, params)

	if p["length"] <= 0 {
		return nil, fmt.Errorf("waveguide length must be positive: %g", p["length"])
	}
	if p["neff"] <= 0 || p["ng"] <= 0 {
		return nil, fmt.Errorf("waveguide indices must be positive: neff=%g, ng=%g", p["neff"], p["ng"])
	}
	if p["wl0"] <= 0 {
		return nil, fmt.Errorf("waveguide wl0 must be positive: %g", p["wl0"])
	}
	if p["loss"] < 0 {
		return nil, fmt.Errorf("waveguide loss must not be negative: %g", p["loss"])
	}

	return &Waveguide{
		BaseModel: BaseModel{Kind: "waveguide", NPorts: 2, Values: p},
		Length:    p["length"],
		Neff:      p["neff"],
		Ng:        p["ng"],
		Wl0:       p["wl0"],
		Loss:      p["loss"],
	}, nil
}

// EffectiveIndex returns neff at wavelength wl.
func (w *Waveguide) EffectiveIndex(wl float64) float64 {
	return w.Neff - (w.Ng-w.Neff)*(wl-w.Wl0)/w.Wl0
}

func (w *Waveguide) SParameters(freqs []float64) (*matrix.SMatrix, error) {
	if err := checkFrequencies(freqs); err != nil {
		return nil, fmt.Errorf("waveguide: %w", err)
	}

	amplitude := dbToAmplitude(w.Loss * w.Length)
	return reciprocal(freqs, 2, func(f float64, set func(i, j int, v complex128)) {
		wl := wavelength(f)
		beta := 2 * math.Pi * w.EffectiveIndex(wl) / wl
		set(0, 1, complex(amplitude, 0)*cmplx.Exp(complex(0, -beta*w.Length)))
	}), nil
}

func init() {
	Register("waveguide", NewWaveguide)
}
