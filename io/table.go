package io

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/phil-mansfield/table"

	"github.com/phil-mansfield/xspline/array"
)

const (
	// SeriesDim names the dimension which separates the columns of a table.
	SeriesDim = "series"
	// XDim names the dimension running along the rows of a table.
	XDim = "x"
)

// ColumnName returns the label used for column col of an input table.
func ColumnName(col int) string { return fmt.Sprintf("col%d", col) }

// ReadSeries reads the x column and y columns of a whitespace-separated
// text table into an array with dimensions (SeriesDim, XDim). If unit is a
// time unit, x values are read as tick counts at that precision.
func ReadSeries(
	fname string, xCol int, yCols []int, unit array.Unit,
) (*array.Array, error) {
	colIdxs := append([]int{xCol}, yCols...)
	cols, err := table.ReadTable(fname, colIdxs, nil)
	if err != nil { return nil, err }
	return Series(cols[0], cols[1:], yCols, unit)
}

// Series packs columns read from a table into an array with dimensions
// (SeriesDim, XDim).
func Series(
	xs []float64, ys [][]float64, yCols []int, unit array.Unit,
) (*array.Array, error) {
	n := len(xs)
	data := make([]float64, 0, n*len(ys))
	labels := make([]string, len(ys))
	for i := range ys {
		if len(ys[i]) != n {
			return nil, fmt.Errorf(
				"Column %d has %d rows, but the x column has %d.",
				yCols[i], len(ys[i]), n,
			)
		}
		data = append(data, ys[i]...)
		labels[i] = ColumnName(yCols[i])
	}

	x := array.Numbers(xs...)
	if unit.IsTime() {
		ticks := make([]int64, n)
		for i := range xs { ticks[i] = int64(xs[i]) }
		x = array.Times(unit, ticks...)
	}

	return array.New(
		data, []string{SeriesDim, XDim}, []int{len(ys), n},
		map[string]*array.Coord{XDim: x, SeriesDim: array.Labels(labels...)},
	)
}

// WriteSeries writes the values of an array with dimensions (XDim,
// SeriesDim) as a text table. The first column holds the x coordinate.
func WriteSeries(fname string, a *array.Array, vals []float64) error {
	f, err := os.Create(fname)
	if err != nil { return err }
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := FormatSeries(w, a, vals); err != nil { return err }
	if err := w.Flush(); err != nil { return err }
	return f.Close()
}

// FormatSeries is WriteSeries for an already opened writer.
func FormatSeries(w *bufio.Writer, a *array.Array, vals []float64) error {
	if len(a.Dims) != 2 || a.Dims[0] != XDim || a.Dims[1] != SeriesDim {
		return fmt.Errorf(
			"Can only write arrays with dimensions [%s %s], not %v.",
			XDim, SeriesDim, a.Dims,
		)
	} else if len(vals) != a.Size() {
		return fmt.Errorf(
			"%d values given for an array of shape %v.", len(vals), a.Shape,
		)
	}

	x, series := a.Coord(XDim), a.Coord(SeriesDim)
	nx, ns := a.Shape[0], a.Shape[1]

	header := []string{"#", XDim}
	for i := 0; i < ns; i++ {
		if series != nil {
			header = append(header, series.Format(i))
		} else {
			header = append(header, strconv.Itoa(i))
		}
	}
	fmt.Fprintln(w, strings.Join(header, " "))

	row := make([]string, ns+1)
	for j := 0; j < nx; j++ {
		if x != nil {
			row[0] = x.Format(j)
		} else {
			row[0] = strconv.Itoa(j)
		}
		for i := 0; i < ns; i++ {
			row[i+1] = strconv.FormatFloat(vals[j*ns+i], 'g', -1, 64)
		}
		fmt.Fprintln(w, strings.Join(row, " "))
	}
	return nil
}
