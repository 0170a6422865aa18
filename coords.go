package xspline

import (
	"github.com/phil-mansfield/xspline/array"
)

// kindName describes a unit the way TypeError reports it.
func kindName(u array.Unit) string {
	if u.IsTime() { return "time" }
	return "numeric"
}

// normalize returns the values of c as float64s. Numeric coordinates pass
// through unchanged and time coordinates are converted to ticks at unit.
func normalize(c *array.Coord, dim string, unit array.Unit) ([]float64, error) {
	switch c.Kind() {
	case array.LabelKind:
		return nil, &TypeError{Dim: dim, Got: "label", Want: kindName(unit)}
	case array.NumberKind:
		if unit.IsTime() {
			return nil, &TypeError{Dim: dim, Got: "numeric", Want: "time"}
		}
		return c.Numbers(), nil
	}

	if !unit.IsTime() {
		return nil, &TypeError{Dim: dim, Got: "time", Want: "numeric"}
	}
	ticks, f := c.Ticks(), scaling(c.Unit(), unit)
	out := make([]float64, len(ticks))
	for i := range ticks { out[i] = float64(ticks[i]) * f }
	return out, nil
}

// reconcile returns the unit both sides of an evaluation are converted to:
// the finer of two time units, or Numeric if both are numeric.
func reconcile(dim string, fit, query array.Unit) (array.Unit, error) {
	switch {
	case fit.IsTime() && query.IsTime():
		return array.Finer(fit, query), nil
	case !fit.IsTime() && !query.IsTime():
		return array.Numeric, nil
	}
	return array.Numeric, &TypeError{
		Dim: dim, Got: kindName(query), Want: kindName(fit),
	}
}

// scaling is the factor converting values encoded at from into to.
func scaling(from, to array.Unit) float64 {
	if !from.IsTime() || from == to { return 1 }
	return array.Ratio(from, to)
}
