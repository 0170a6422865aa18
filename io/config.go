package io

import (
	"fmt"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/xspline/array"
)

const (
	ExampleInterpolateFile = `[Interpolate]

#######################
# Required Parameters #
#######################

# Whitespace-separated text table containing the data. Lines starting with
# '#' are ignored.
Input = path/to/input.txt

# File which the interpolated table will be written to. Its first column
# holds the query points and every following column holds one interpolated
# YColumn, in the order they were given.
Output = path/to/output.txt

# Column holding the x values (zero-indexed). These do not need to be sorted,
# but may not contain duplicates.
XColumn = 0

# Columns holding the y values. Give YColumn once per column. Every column is
# fit independently.
YColumn = 1
YColumn = 2

# Query points. Either list them with Point (given once per point) or give a
# range with PointMin, PointMax, and PointCount. If XUnit is set, points are
# dates, e.g. 2000-04-20 or 2000-04-20T12:00:00Z.
Point = 1.5
Point = 3.5
# PointMin = 0
# PointMax = 10
# PointCount = 101

#######################
# Optional Parameters #
#######################

# Degree of the spline. 0 gives step functions, 1 linear interpolation, and
# 3 cubic splines. Default is 3.
# Order = 3

# What to do with points outside the range of the x values. Must be one of
# [ true | false | clip | periodic ]: true extrapolates the end polynomials,
# false returns NaN, clip clamps points to the range, and periodic repeats
# the data. Default is true.
# Extrapolate = true

# If set, XColumn holds times given as a number of ticks since 1970-01-01
# UTC. Must be one of [ D | h | m | s | ms | us | ns ].
# XUnit = D

# Splits the query points into blocks of this size which are evaluated in
# parallel. Default is 0 (a single block).
# ChunkSize = 100

# Number of worker threads. Default is one per CPU.
# Threads = 4

# How long fitted splines are kept and reused within one run (e.g. for Plot),
# e.g. 30s or 5m. Default is 0 (not kept).
# Retain = 0s

# Shows the fits in a pyplot window after writing Output.
# Plot = false

# Output files which are useful for profiling and debugging. Generally, there
# isn't a reason to use these unless something goes wrong.
# ProfileFile = prof.out
# LogFile = log.out`
)

type SharedConfig struct {
	// Required
	Input, Output string
	// Optional
	LogFile, ProfileFile string
}

func (con *SharedConfig) ValidInput() bool {
	return con.Input != ""
}
func (con *SharedConfig) ValidOutput() bool {
	return con.Output != ""
}
func (con *SharedConfig) ValidLogFile() bool {
	return con.LogFile != ""
}
func (con *SharedConfig) ValidProfileFile() bool {
	return con.ProfileFile != ""
}

type InterpolateConfig struct {
	SharedConfig

	// Required
	XColumn int
	YColumn []int
	Point []string
	PointMin, PointMax string
	PointCount int

	// Optional
	Order int
	Extrapolate string
	XUnit string
	ChunkSize, Threads int
	Retain string
	Plot bool
}

type InterpolateWrapper struct {
	Interpolate InterpolateConfig
}

func DefaultInterpolateWrapper() *InterpolateWrapper {
	con := InterpolateConfig{}
	con.Order = 3
	con.Extrapolate = "true"
	con.Retain = "0s"
	return &InterpolateWrapper{con}
}

// ReadInterpolateConfig reads an [Interpolate] config file on top of the
// default values.
func ReadInterpolateConfig(fname string) (*InterpolateConfig, error) {
	wrap := DefaultInterpolateWrapper()
	if err := gcfg.ReadFileInto(wrap, fname); err != nil { return nil, err }
	return &wrap.Interpolate, nil
}

// ReadInterpolateString is ReadInterpolateConfig for a config which is
// already in memory.
func ReadInterpolateString(text string) (*InterpolateConfig, error) {
	wrap := DefaultInterpolateWrapper()
	if err := gcfg.ReadStringInto(wrap, text); err != nil { return nil, err }
	return &wrap.Interpolate, nil
}

func (con *InterpolateConfig) ValidXColumn() bool {
	return con.XColumn >= 0
}
func (con *InterpolateConfig) ValidYColumn() bool {
	if len(con.YColumn) == 0 { return false }
	for _, col := range con.YColumn {
		if col < 0 || col == con.XColumn { return false }
	}
	return true
}
func (con *InterpolateConfig) ValidPoint() bool {
	return len(con.Point) > 0
}
func (con *InterpolateConfig) ValidPointRange() bool {
	return con.PointMin != "" && con.PointMax != "" && con.PointCount > 0
}
func (con *InterpolateConfig) ValidOrder() bool {
	return con.Order >= 0
}
func (con *InterpolateConfig) ValidXUnit() bool {
	_, err := array.ParseUnit(con.XUnit)
	return err == nil
}
func (con *InterpolateConfig) ValidChunkSize() bool {
	return con.ChunkSize >= 0
}
func (con *InterpolateConfig) ValidThreads() bool {
	return con.Threads >= 0
}
func (con *InterpolateConfig) ValidRetain() bool {
	_, err := cast.ToDurationE(con.Retain)
	return err == nil
}

// RetainDuration returns Retain as a time.Duration.
func (con *InterpolateConfig) RetainDuration() time.Duration {
	return cast.ToDuration(con.Retain)
}

// Check returns an error describing the first invalid field, if any.
func (con *InterpolateConfig) Check() error {
	switch {
	case !con.ValidInput():
		return fmt.Errorf("Invalid/non-existent 'Input' value.")
	case !con.ValidOutput():
		return fmt.Errorf("Invalid/non-existent 'Output' value.")
	case !con.ValidXColumn():
		return fmt.Errorf("Invalid 'XColumn' value, %d.", con.XColumn)
	case !con.ValidYColumn():
		return fmt.Errorf(
			"Invalid/non-existent 'YColumn' values. They must be " +
				"non-negative and differ from XColumn.",
		)
	case con.ValidPoint() == con.ValidPointRange():
		return fmt.Errorf(
			"You must set either 'Point' or all of 'PointMin', 'PointMax', " +
				"and 'PointCount', but not both.",
		)
	case !con.ValidOrder():
		return fmt.Errorf("Invalid 'Order' value, %d.", con.Order)
	case !con.ValidXUnit():
		return fmt.Errorf("Invalid 'XUnit' value, '%s'.", con.XUnit)
	case !con.ValidChunkSize():
		return fmt.Errorf("Invalid 'ChunkSize' value, %d.", con.ChunkSize)
	case !con.ValidThreads():
		return fmt.Errorf("Invalid 'Threads' value, %d.", con.Threads)
	case !con.ValidRetain():
		return fmt.Errorf("Invalid 'Retain' value, '%s'.", con.Retain)
	}
	return nil
}
