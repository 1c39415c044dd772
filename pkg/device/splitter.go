package device

import (
	"fmt"
	"math"

	"github.com/edp1096/toy-photon/pkg/matrix"
)

// YBranch is an ideal reciprocal 1x2 splitter. Port 0 is the stem.
type YBranch struct {
	BaseModel
	Loss float64 // excess loss, dB
}

func NewYBranch(params map[string]float64) (Model, error) {
	p := resolveParams(map[string]float64{"loss": 0}, params)
	if p["loss"] < 0 {
		return nil, fmt.Errorf("y-branch loss must not be negative: %g", p["loss"])
	}

	return &YBranch{
		BaseModel: BaseModel{Kind: "y_branch", NPorts: 3, Values: p},
		Loss:      p["loss"],
	}, nil
}

func (y *YBranch) SParameters(freqs []float64) (*matrix.SMatrix, error) {
	if err := checkFrequencies(freqs); err != nil {
		return nil, fmt.Errorf("y-branch: %w", err)
	}

	t := complex(math.Sqrt(0.5)*dbToAmplitude(y.Loss), 0)
	return reciprocal(freqs, 3, func(_ float64, set func(i, j int, v complex128)) {
		set(0, 1, t)
		set(0, 2, t)
	}), nil
}

// DirectionalCoupler is a four-port coupler. Ports 0 and 1 are on the left,
// 2 and 3 on the right; 0->2 and 1->3 are the through paths.
type DirectionalCoupler struct {
	BaseModel
	Coupling float64 // power coupling ratio, 0..1
	Loss     float64 // excess loss, dB
}

func NewDirectionalCoupler(params map[string]float64) (Model, error) {
	p := resolveParams(map[string]float64{"coupling": 0.5, "loss": 0}, params)
	if p["coupling"] < 0 || p["coupling"] > 1 {
		return nil, fmt.Errorf("coupling ratio must be within [0, 1]: %g", p["coupling"])
	}
	if p["loss"] < 0 {
		return nil, fmt.Errorf("coupler loss must not be negative: %g", p["loss"])
	}

	return &DirectionalCoupler{
		BaseModel: BaseModel{Kind: "directional_coupler", NPorts: 4, Values: p},
		Coupling:  p["coupling"],
		Loss:      p["loss"],
	}, nil
}

func (d *DirectionalCoupler) SParameters(freqs []float64) (*matrix.SMatrix, error) {
	if err := checkFrequencies(freqs); err != nil {
		return nil, fmt.Errorf("directional coupler: %w", err)
	}

	a := dbToAmplitude(d.Loss)
	through := complex(a*math.Sqrt(1-d.Coupling), 0)
	cross := complex(0, -a*math.Sqrt(d.Coupling))
	return reciprocal(freqs, 4, func(_ float64, set func(i, j int, v complex128)) {
		set(0, 2, through)
		set(1, 3, through)
		set(0, 3, cross)
		set(1, 2, cross)
	}), nil
}

func init() {
	Register("y_branch", NewYBranch)
	Register("directional_coupler", NewDirectionalCoupler)
}
