package io

import (
	"fmt"
	"math"
	"time"

	"github.com/spf13/cast"
	"gonum.org/v1/gonum/floats"

	"github.com/phil-mansfield/xspline/array"
)

// ParsePoints reads query points written as numbers or, if unit is a time
// unit, as dates.
func ParsePoints(strs []string, unit array.Unit) (*array.Coord, error) {
	if !unit.IsTime() {
		xs := make([]float64, len(strs))
		for i, s := range strs {
			x, err := cast.ToFloat64E(s)
			if err != nil {
				return nil, fmt.Errorf("Could not parse point '%s': %s", s, err)
			}
			xs[i] = x
		}
		return array.Numbers(xs...), nil
	}

	ts := make([]time.Time, len(strs))
	for i, s := range strs {
		t, err := cast.ToTimeE(s)
		if err != nil {
			return nil, fmt.Errorf("Could not parse date '%s': %s", s, err)
		}
		ts[i] = t.UTC()
	}
	return array.Dates(unit, ts...), nil
}

// PointRange returns n evenly spaced query points from min to max,
// inclusive. Time points are rounded to the nearest tick.
func PointRange(min, max string, n int, unit array.Unit) (*array.Coord, error) {
	if n <= 0 {
		return nil, fmt.Errorf("Need a positive number of points, got %d.", n)
	}

	ends, err := ParsePoints([]string{min, max}, unit)
	if err != nil { return nil, err }

	var lo, hi float64
	if unit.IsTime() {
		lo, hi = float64(ends.Ticks()[0]), float64(ends.Ticks()[1])
	} else {
		lo, hi = ends.Numbers()[0], ends.Numbers()[1]
	}

	xs := []float64{lo}
	if n > 1 { xs = floats.Span(make([]float64, n), lo, hi) }

	if !unit.IsTime() { return array.Numbers(xs...), nil }
	ticks := make([]int64, n)
	for i := range xs { ticks[i] = int64(math.Round(xs[i])) }
	return array.Times(unit, ticks...), nil
}
