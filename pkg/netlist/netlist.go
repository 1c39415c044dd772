package netlist

import (
	"fmt"
	"maps"
	"slices"
)

// Netlist is an ordered collection of components plus labels for the
// external nets.
type Netlist struct {
	Title      string
	components []*Component
	Externals  map[int]string

	err error // first component rejected by New
}

// New builds a netlist through Add. Rejected components are left out and
// the first rejection is reported by Validate.
func New(components ...*Component) *Netlist {
	n := &Netlist{Externals: make(map[int]string)}
	for _, c := range components {
		if err := n.Add(c); err != nil && n.err == nil {
			n.err = err
		}
	}
	return n
}

func (n *Netlist) Add(c *Component) error {
	if c == nil {
		return fmt.Errorf("adding component: nil component")
	}
	if len(c.Nets) == 0 {
		return fmt.Errorf("adding component %s: %w", c.Name, ErrNoPorts)
	}
	n.components = append(n.components, c)
	return nil
}

func (n *Netlist) Components() []*Component {
	return slices.Clone(n.components)
}

func (n *Netlist) Len() int {
	return len(n.components)
}

// NetCount returns max(internal net id) + 1, or 0 when every net is external.
func (n *Netlist) NetCount() (int, error) {
	if len(n.components) == 0 {
		return 0, ErrEmptyNetlist
	}

	count := 0
	for _, c := range n.components {
		for _, net := range c.Nets {
			if net+1 > count {
				count = net + 1
			}
		}
	}
	return count, nil
}

// ExternalComponents returns the components that own at least one external
// net, in netlist order.
func (n *Netlist) ExternalComponents() []*Component {
	var out []*Component
	for _, c := range n.components {
		if c.IsExternal() {
			out = append(out, c)
		}
	}
	return out
}

// ExternalNets returns every external net id in ascending order.
func (n *Netlist) ExternalNets() []int {
	var nets []int
	for _, c := range n.components {
		for _, net := range c.Nets {
			if net < 0 {
				nets = append(nets, net)
			}
		}
	}
	slices.Sort(nets)
	return slices.Compact(nets)
}

// ExternalName returns the label of an external net, or "" if none is known.
func (n *Netlist) ExternalName(net int) string {
	return n.Externals[net]
}

// Validate checks that every internal net is wired to exactly two ports and
// every external net to exactly one. The lowest offending net is reported.
func (n *Netlist) Validate() error {
	if n.err != nil {
		return n.err
	}
	if len(n.components) == 0 {
		return ErrEmptyNetlist
	}

	slots := make(map[int]int)
	for _, c := range n.components {
		for _, net := range c.Nets {
			slots[net]++
		}
	}

	for _, net := range slices.Sorted(maps.Keys(slots)) {
		count := slots[net]
		if net < 0 {
			if count > 1 {
				return &NetError{Net: net, Kind: ErrDuplicateExternal, Count: count}
			}
			continue
		}
		if err := CheckFanOut(net, count); err != nil {
			return err
		}
	}
	return nil
}
