package netlist

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/edp1096/toy-photon/pkg/util"
)

// Analysis is one .ona directive. Definition holds the pairs on the
// directive line and Options those of its "+" continuation lines. An
// indexed option such as input(1)=... goes to Lists instead: the index is
// 1-based in the file and 0-based here, and skipped slots stay empty.
type Analysis struct {
	Definition map[string]string
	Options    map[string]string
	Lists      map[string][]string
}

var indexedKey = regexp.MustCompile(`^([^()]+)\(([0-9]+)\)$`)

func newAnalysis(definition []*spiItem, options []*spiOption) (Analysis, error) {
	a := Analysis{
		Definition: make(map[string]string),
		Options:    make(map[string]string),
		Lists:      make(map[string][]string),
	}

	for _, it := range definition {
		if !it.positional() {
			a.Definition[it.Key] = unquote(*it.Value)
		}
	}

	for _, o := range options {
		for _, it := range o.Items {
			if it.positional() {
				return Analysis{}, fmt.Errorf("option %s: missing value", it.Key)
			}
			value := unquote(*it.Value)

			m := indexedKey.FindStringSubmatch(it.Key)
			if m == nil {
				a.Options[it.Key] = value
				continue
			}
			idx, err := strconv.Atoi(m[2])
			if err != nil || idx < 1 {
				return Analysis{}, fmt.Errorf("option %s: index must start at 1", it.Key)
			}
			list := a.Lists[m[1]]
			for len(list) < idx {
				list = append(list, "")
			}
			list[idx-1] = value
			a.Lists[m[1]] = list
		}
	}
	return a, nil
}

// Get looks key up in the options, then in the definition.
func (a Analysis) Get(key string) (string, bool) {
	if v, ok := a.Options[key]; ok {
		return v, true
	}
	v, ok := a.Definition[key]
	return v, ok
}

func (a Analysis) value(key string) (float64, error) {
	s, ok := a.Get(key)
	if !ok {
		return 0, fmt.Errorf("analysis: missing %s", key)
	}
	v, err := ParseValue(s)
	if err != nil {
		return 0, fmt.Errorf("analysis: %s: %w", key, err)
	}
	return v, nil
}

// Sweep returns the frequency grid of a start_and_stop analysis. The bounds
// are wavelengths unless input_unit is frequency.
func (a Analysis) Sweep() ([]float64, error) {
	if p, ok := a.Get("input_parameter"); ok && p != "start_and_stop" {
		return nil, fmt.Errorf("analysis: unsupported input_parameter %s", p)
	}

	start, err := a.value("start")
	if err != nil {
		return nil, err
	}
	stop, err := a.value("stop")
	if err != nil {
		return nil, err
	}
	points, err := a.value("number_of_points")
	if err != nil {
		return nil, err
	}
	if points != math.Trunc(points) || points < 1 {
		return nil, fmt.Errorf("analysis: number_of_points must be a positive integer: %g", points)
	}

	unit, _ := a.Get("input_unit")
	switch strings.ToLower(unit) {
	case "", "wavelength":
		return util.WavelengthSweep(start, stop, int(points))
	case "frequency":
		return util.FrequencySweep(start, stop, int(points))
	default:
		return nil, fmt.Errorf("analysis: unsupported input_unit %s", unit)
	}
}
