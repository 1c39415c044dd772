package netlist

import (
	"errors"
	"slices"
	"testing"
)

func mustComponent(t *testing.T, name, typ string, nets ...int) *Component {
	t.Helper()
	c, err := NewComponent(name, typ, nil, nets)
	if err != nil {
		t.Fatalf("NewComponent(%s): %v", name, err)
	}
	return c
}

func TestNetCount(t *testing.T) {
	nl := New()
	if _, err := nl.NetCount(); !errors.Is(err, ErrEmptyNetlist) {
		t.Fatalf("NetCount on empty netlist: %v, want ErrEmptyNetlist", err)
	}

	nl.Add(mustComponent(t, "wg0", "waveguide", -1, 0))
	nl.Add(mustComponent(t, "wg1", "waveguide", 0, 3))
	nl.Add(mustComponent(t, "wg2", "waveguide", 3, -2))
	if n, err := nl.NetCount(); err != nil || n != 4 {
		t.Errorf("NetCount = %d, %v; want 4", n, err)
	}

	ext := New(mustComponent(t, "t0", "terminator", -1))
	if n, err := ext.NetCount(); err != nil || n != 0 {
		t.Errorf("NetCount with only external nets = %d, %v; want 0", n, err)
	}
}

func TestAddRejects(t *testing.T) {
	nl := New()
	if err := nl.Add(nil); err == nil {
		t.Error("Add(nil) should fail")
	}
	if err := nl.Add(&Component{Name: "x"}); !errors.Is(err, ErrNoPorts) {
		t.Errorf("Add(no ports) error = %v, want ErrNoPorts", err)
	}
	if nl.Len() != 0 {
		t.Errorf("Len = %d after rejected adds", nl.Len())
	}
}

func TestNewComponent(t *testing.T) {
	if _, err := NewComponent("wg", "waveguide", nil, []int{0, 1, 2}); err == nil {
		t.Error("port count mismatch should fail")
	}
	if _, err := NewComponent("wg", "waveguide", nil, nil); !errors.Is(err, ErrNoPorts) {
		t.Errorf("no nets: error = %v, want ErrNoPorts", err)
	}

	params := map[string]float64{"length": 5e-6}
	nets := []int{-1, 0}
	c, err := NewComponent("wg", "waveguide", params, nets)
	if err != nil {
		t.Fatalf("NewComponent: %v", err)
	}
	params["length"] = 1
	nets[0] = 7
	if c.Params["length"] != 5e-6 || c.Nets[0] != -1 {
		t.Error("component shares caller's params or nets")
	}
}

func TestExternalComponents(t *testing.T) {
	a := mustComponent(t, "a", "waveguide", -1, 0)
	b := mustComponent(t, "b", "waveguide", 0, 1)
	c := mustComponent(t, "c", "y_branch", 1, -3, -2)
	nl := New(a, b, c)

	got := nl.ExternalComponents()
	if len(got) != 2 || got[0] != a || got[1] != c {
		t.Errorf("ExternalComponents = %v, want [a c]", got)
	}
	if nets := nl.ExternalNets(); !slices.Equal(nets, []int{-3, -2, -1}) {
		t.Errorf("ExternalNets = %v", nets)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		nets [][]int
		kind error
		net  int
	}{
		{"valid", [][]int{{-1, 0}, {0, -2}}, nil, 0},
		{"dangling", [][]int{{-1, 0}, {1, -2}, {1, -3}}, ErrDanglingNet, 0},
		{"fanout", [][]int{{-1, 2}, {2, -2}, {2, -3}}, ErrFanOut, 2},
		{"duplicate external", [][]int{{-1, 0}, {0, -1}}, ErrDuplicateExternal, -1},
		{"lowest net reported", [][]int{{5, 4}, {-1, 5}}, ErrDanglingNet, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nl := New()
			for i, nets := range tt.nets {
				nl.Add(mustComponent(t, string(rune('a'+i)), "waveguide", nets...))
			}
			err := nl.Validate()
			if tt.kind == nil {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.kind) {
				t.Fatalf("Validate error = %v, want %v", err, tt.kind)
			}
			var ne *NetError
			if !errors.As(err, &ne) || ne.Net != tt.net {
				t.Errorf("error net = %+v, want net %d", ne, tt.net)
			}
		})
	}

	if err := New().Validate(); !errors.Is(err, ErrEmptyNetlist) {
		t.Errorf("empty netlist: %v", err)
	}
}

func TestNewRejectsInvalidComponents(t *testing.T) {
	wg := mustComponent(t, "wg", "waveguide", -1, -2)

	nl := New(nil)
	if nl.Len() != 0 {
		t.Errorf("Len = %d, want 0", nl.Len())
	}
	if err := nl.Validate(); err == nil || errors.Is(err, ErrEmptyNetlist) {
		t.Errorf("New(nil).Validate() = %v, want the rejection", err)
	}

	nl = New(wg, &Component{Name: "bare"})
	if nl.Len() != 1 {
		t.Errorf("Len = %d, want 1", nl.Len())
	}
	if err := nl.Validate(); !errors.Is(err, ErrNoPorts) {
		t.Errorf("Validate = %v, want ErrNoPorts", err)
	}
}

func TestCheckFanOut(t *testing.T) {
	for count, want := range map[int]error{0: nil, 1: ErrDanglingNet, 2: nil, 3: ErrFanOut} {
		err := CheckFanOut(9, count)
		if want == nil && err != nil || want != nil && !errors.Is(err, want) {
			t.Errorf("CheckFanOut(9, %d) = %v, want %v", count, err, want)
		}
	}
}
