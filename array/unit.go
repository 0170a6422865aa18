package array

import (
	"fmt"
	"strings"
	"time"
)

// Unit describes how the numbers in a coordinate or array are encoded:
// either as plain numbers or as integer ticks since the Unix epoch at some
// time precision. Time units are ordered from coarsest to finest.
type Unit int

const (
	Numeric Unit = iota
	Day
	Hour
	Minute
	Second
	Millisecond
	Microsecond
	Nanosecond
)

var (
	unitCodes = []string{"", "D", "h", "m", "s", "ms", "us", "ns"}
	unitDurations = []time.Duration{
		0, 24 * time.Hour, time.Hour, time.Minute, time.Second,
		time.Millisecond, time.Microsecond, time.Nanosecond,
	}
)

func (u Unit) String() string {
	if u == Numeric { return "numeric" }
	return unitCodes[u]
}

// IsTime returns true if u is a time precision.
func (u Unit) IsTime() bool { return u > Numeric && u <= Nanosecond }

// Duration returns the length of one tick. It is zero for Numeric.
func (u Unit) Duration() time.Duration { return unitDurations[u] }

// ParseUnit reads a numpy-style unit code (D, h, m, s, ms, us, ns). The
// empty string and "numeric" give Numeric.
func ParseUnit(s string) (Unit, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "numeric") { return Numeric, nil }
	for u := Day; u <= Nanosecond; u++ {
		if unitCodes[u] == s { return u, nil }
	}
	return Numeric, fmt.Errorf(
		"Unrecognized time unit '%s'. Recognized units are %s.",
		s, strings.Join(unitCodes[1:], ", "),
	)
}

// Finer returns the finer of two time units.
func Finer(a, b Unit) Unit {
	if a > b { return a }
	return b
}

// Ratio returns the number of to ticks in one from tick. Both must be time
// units.
func Ratio(from, to Unit) float64 {
	return float64(from.Duration()) / float64(to.Duration())
}

// Ticks returns the number of ticks between the Unix epoch and t, rounded
// towards negative infinity.
func (u Unit) Ticks(t time.Time) int64 {
	d := u.Duration()
	if d >= time.Second {
		return floorDiv(t.Unix(), int64(d/time.Second))
	}
	perSecond := int64(time.Second / d)
	return t.Unix()*perSecond + int64(t.Nanosecond())/int64(d)
}

// Time returns the UTC time tick ticks after the Unix epoch.
func (u Unit) Time(tick int64) time.Time {
	d := u.Duration()
	if d >= time.Second {
		return time.Unix(tick*int64(d/time.Second), 0).UTC()
	}
	perSecond := int64(time.Second / d)
	sec, rem := floorDiv(tick, perSecond), floorMod(tick, perSecond)
	return time.Unix(sec, rem*int64(d)).UTC()
}

// Format prints a tick in a layout matching the unit's precision.
func (u Unit) Format(tick int64) string {
	t := u.Time(tick)
	switch u {
	case Day:
		return t.Format("2006-01-02")
	case Hour, Minute, Second:
		return t.Format("2006-01-02T15:04:05")
	default:
		return t.Format(time.RFC3339Nano)
	}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) { q-- }
	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}
