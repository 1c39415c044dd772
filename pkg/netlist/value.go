package netlist

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// SI suffix exponents accepted after a numeric literal.
var unitExponent = map[string]int{
	"f": -15, // femto
	"p": -12, // pico
	"n": -9,  // nano
	"u": -6,  // micro
	"m": -3,  // milli
	"c": -2,  // centi
	"k": 3,   // kilo
	"M": 6,   // mega
	"G": 9,   // giga
	"T": 12,  // tera
}

// mantissa, then either an exponent or a single SI suffix
var valuePattern = regexp.MustCompile(`^([-+]?(?:[0-9]+\.?[0-9]*|\.[0-9]+))(?:([eE][-+]?[0-9]+)|([A-Za-z]))?$`)

// ParseValue converts a numeric literal such as "15.26u" or "0.4E6" to a float.
func ParseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	m := valuePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidValue, s)
	}

	mantissa, exponent, suffix := m[1], m[2], m[3]
	if suffix != "" {
		exp, ok := unitExponent[suffix]
		if !ok {
			return 0, fmt.Errorf("%w: unknown unit suffix %q in %q", ErrInvalidValue, suffix, s)
		}
		exponent = "e" + strconv.Itoa(exp)
	}

	v, err := strconv.ParseFloat(mantissa+exponent, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidValue, s, err)
	}
	return v, nil
}
