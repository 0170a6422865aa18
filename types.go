package xspline

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Policy says what Splev does with query points outside a spline's domain.
type Policy int

const (
	// NoExtrapolate evaluates out-of-domain points to NaN.
	NoExtrapolate Policy = iota
	// Extrapolate evaluates the end polynomial pieces beyond the domain.
	Extrapolate
	// Clip clamps points to the nearest domain boundary.
	Clip
	// Periodic wraps points into [lo, hi) by repeating the domain.
	Periodic
)

func (p Policy) String() string {
	switch p {
	case NoExtrapolate: return "false"
	case Extrapolate: return "true"
	case Clip: return "clip"
	case Periodic: return "periodic"
	}
	panic(fmt.Sprintf("Unknown extrapolation policy %d.", int(p)))
}

// ParsePolicy reads a policy written as "clip", "periodic" or a boolean.
func ParsePolicy(s string) (Policy, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "clip": return Clip, nil
	case "periodic": return Periodic, nil
	}

	ok, err := cast.ToBoolE(s)
	if err != nil {
		return NoExtrapolate, fmt.Errorf(
			"Extrapolation policy '%s' is not 'clip', 'periodic', or a " +
				"boolean.", s,
		)
	}
	if ok { return Extrapolate, nil }
	return NoExtrapolate, nil
}

// apply moves x according to the policy for a spline valid on [lo, hi].
func (p Policy) apply(x, lo, hi float64) float64 {
	switch p {
	case NoExtrapolate:
		if x < lo || x > hi { return math.NaN() }
	case Clip:
		return math.Max(lo, math.Min(x, hi))
	case Periodic:
		span := hi - lo
		if span <= 0 { return lo }
		x = lo + math.Mod(x - lo, span)
		if x < lo { x += span }
	}
	return x
}
