package xspline

import (
	"errors"
	"fmt"
)

// ErrMultipleChunks is returned by Splrep when the interpolation dimension
// is split into more than one block.
var ErrMultipleChunks = errors.New(
	"Unsupported: multiple chunks on interpolation dim",
)

// OverlapError is returned by Splev when labeled query points share a
// dimension with the fitted models, or carry a coordinate named after one.
type OverlapError struct {
	Dim string
}

func (e *OverlapError) Error() string {
	return "Overlapping dims between interpolated array and x_new: " + e.Dim
}

// TypeError reports values whose encoding can't be used as spline
// coordinates, such as string labels, or numbers mixed with times.
type TypeError struct {
	Dim string
	Got, Want string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf(
		"Unsupported type along '%s': got %s values, need %s values.",
		e.Dim, e.Got, e.Want,
	)
}
