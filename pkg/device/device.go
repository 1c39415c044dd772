package device

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"sort"
	"sync"

	"github.com/edp1096/toy-photon/internal/consts"
	"github.com/edp1096/toy-photon/pkg/matrix"
)

// Model produces the scattering matrix of one component instance.
type Model interface {
	Type() string
	Ports() int
	Params() map[string]float64
	SParameters(freqs []float64) (*matrix.SMatrix, error)
}

// Constructor builds a Model from netlist parameters. Missing parameters
// take the model's defaults; unknown ones are ignored.
type Constructor func(params map[string]float64) (Model, error)

var ErrUnknownModel = errors.New("unknown model")

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Constructor)
)

// Register makes a model constructor available by name. It panics if the
// name is empty, the constructor is nil, or the name is already taken.
func Register(name string, ctor Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if name == "" || ctor == nil {
		panic("device: Register needs a name and a constructor")
	}
	if _, dup := registry[name]; dup {
		panic("device: Register called twice for model " + name)
	}
	registry[name] = ctor
}

// New constructs the model registered under name.
func New(name string, params map[string]float64) (Model, error) {
	registryMu.RLock()
	ctor, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, name)
	}

	model, err := ctor(params)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return model, nil
}

// Registered returns the sorted names of all registered models.
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type BaseModel struct {
	Kind   string
	NPorts int
	Values map[string]float64
}

func (b *BaseModel) Type() string { return b.Kind }

func (b *BaseModel) Ports() int { return b.NPorts }

func (b *BaseModel) Params() map[string]float64 { return maps.Clone(b.Values) }

// resolveParams overlays the given values on the defaults.
func resolveParams(defaults, given map[string]float64) map[string]float64 {
	out := maps.Clone(defaults)
	for k := range defaults {
		if v, ok := given[k]; ok {
			out[k] = v
		}
	}
	return out
}

func checkFrequencies(freqs []float64) error {
	if len(freqs) == 0 {
		return errors.New("empty frequency vector")
	}
	for i, f := range freqs {
		if !(f > 0) || math.IsInf(f, 1) {
			return fmt.Errorf("invalid frequency %g at index %d", f, i)
		}
	}
	return nil
}

func wavelength(freq float64) float64 {
	return consts.SPEED_OF_LIGHT / freq
}

// dbToAmplitude converts a power loss in dB to a field amplitude factor.
func dbToAmplitude(lossDB float64) float64 {
	return math.Pow(10, -lossDB/20)
}

// reciprocal fills S[i][j] and S[j][i] for every listed pair.
func reciprocal(freqs []float64, ports int, pairs func(f float64, set func(i, j int, v complex128))) *matrix.SMatrix {
	s := matrix.NewSMatrix(freqs, ports)
	for k, f := range s.Freq {
		pairs(f, func(i, j int, v complex128) {
			s.Set(k, i, j, v)
			s.Set(k, j, i, v)
		})
	}
	return s
}
