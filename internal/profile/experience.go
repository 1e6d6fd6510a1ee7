package profile

import (
	"strconv"
	"strings"
)

// Experience is either a whole number of years or a free-form label such as
// "2-5". The zero value is zero years.
type Experience struct {
	years int
	label string
}

// Years returns an Experience of n whole years. Negative values clamp to 0.
func Years(n int) Experience {
	if n < 0 {
		n = 0
	}
	return Experience{years: n}
}

// Label returns an Experience holding a label. Labels that parse as a whole
// number become Years.
func Label(s string) Experience {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return Years(n)
	}
	return Experience{label: s}
}

// IsYears reports whether e holds whole years.
func (e Experience) IsYears() bool { return e.label == "" }

// Years returns the whole years held by e, if any.
func (e Experience) Years() (int, bool) {
	return e.years, e.IsYears()
}

// Value returns an int for whole years, otherwise the label string. It is
// what goes on the wire as years_experience.
func (e Experience) Value() any {
	if e.IsYears() {
		return e.years
	}
	return e.label
}

func (e Experience) String() string {
	if e.IsYears() {
		return strconv.Itoa(e.years)
	}
	return e.label
}
