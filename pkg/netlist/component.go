package netlist

import (
	"fmt"
	"maps"
	"slices"

	"github.com/edp1096/toy-photon/pkg/device"
	"github.com/edp1096/toy-photon/pkg/matrix"
)

// Component is one instance in the netlist: an ordered list of nets bound to
// a model. Nets[i] is the net on row/column i of the model's S-matrix.
type Component struct {
	Name   string
	Type   string
	Params map[string]float64
	Nets   []int
	model  device.Model
}

// NewComponent resolves the model typ from the device registry and checks
// that the net list matches the model's port count.
func NewComponent(name, typ string, params map[string]float64, nets []int) (*Component, error) {
	if len(nets) == 0 {
		return nil, fmt.Errorf("component %s: %w", name, ErrNoPorts)
	}

	model, err := device.New(typ, params)
	if err != nil {
		return nil, fmt.Errorf("component %s: %w", name, err)
	}
	if model.Ports() != len(nets) {
		return nil, fmt.Errorf("component %s: model %s has %d ports, got %d nets", name, typ, model.Ports(), len(nets))
	}

	return &Component{
		Name:   name,
		Type:   typ,
		Params: maps.Clone(params),
		Nets:   slices.Clone(nets),
		model:  model,
	}, nil
}

// NewComponentWithModel binds an already constructed model.
func NewComponentWithModel(name string, model device.Model, nets []int) (*Component, error) {
	if len(nets) == 0 {
		return nil, fmt.Errorf("component %s: %w", name, ErrNoPorts)
	}
	if model == nil {
		return nil, fmt.Errorf("component %s: nil model", name)
	}
	if model.Ports() != len(nets) {
		return nil, fmt.Errorf("component %s: model %s has %d ports, got %d nets", name, model.Type(), model.Ports(), len(nets))
	}

	return &Component{
		Name:   name,
		Type:   model.Type(),
		Params: model.Params(),
		Nets:   slices.Clone(nets),
		model:  model,
	}, nil
}

func (c *Component) Model() device.Model { return c.model }

// SParameters evaluates the component's model over freqs.
func (c *Component) SParameters(freqs []float64) (*matrix.SMatrix, error) {
	s, err := c.model.SParameters(freqs)
	if err != nil {
		return nil, fmt.Errorf("component %s: %w", c.Name, err)
	}
	if s.Ports() != len(c.Nets) {
		return nil, fmt.Errorf("component %s: model returned %d ports, want %d", c.Name, s.Ports(), len(c.Nets))
	}
	return s, nil
}

// IsExternal reports whether the component owns at least one external net.
func (c *Component) IsExternal() bool {
	return slices.ContainsFunc(c.Nets, func(n int) bool { return n < 0 })
}

func (c *Component) String() string {
	return fmt.Sprintf("%s(%s) nets=%v", c.Name, c.Type, c.Nets)
}
