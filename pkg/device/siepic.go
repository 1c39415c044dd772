package device

// SiEPIC EBeam PDK cell names, mapped onto the built-in models.
var siepicCells = []struct {
	cell    string
	ctor    Constructor
	renames map[string]string
}{
	{"ebeam_wg_integral_1550", NewWaveguide, map[string]string{"wg_length": "length"}},
	{"ebeam_y_1550", NewYBranch, nil},
	{"ebeam_bdc_te1550", NewDirectionalCoupler, nil},
	{"ebeam_gc_te1550", NewGratingCoupler, nil},
	{"ebeam_terminator_te1550", NewTerminator, nil},
}

func aliased(ctor Constructor, renames map[string]string) Constructor {
	return func(params map[string]float64) (Model, error) {
		mapped := make(map[string]float64, len(params))
		for k, v := range params {
			if to, ok := renames[k]; ok {
				k = to
			}
			mapped[k] = v
		}
		return ctor(mapped)
	}
}

func init() {
	for _, c := range siepicCells {
		Register(c.cell, aliased(c.ctor, c.renames))
	}
}
