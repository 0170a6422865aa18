package main

import (
	"context"
	"fmt"
	stdio "io"
	"log"
	"os"
	"runtime/pprof"

	plt "github.com/phil-mansfield/pyplot"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/phil-mansfield/xspline"
	"github.com/phil-mansfield/xspline/array"
	"github.com/phil-mansfield/xspline/graph"
	"github.com/phil-mansfield/xspline/io"
)

const plotPoints = 200

var plotColors = []string{"r", "b", "g", "m", "c", "k"}

type FileGroup struct {
	log, prof *os.File
}

func (fg *FileGroup) Close() {
	if fg.log != nil {
		log.SetOutput(os.Stderr)
		err := fg.log.Close()
		if err != nil { log.Fatal(err.Error()) }
	}

	if fg.prof != nil {
		pprof.StopCPUProfile()
		err := fg.prof.Close()
		if err != nil { log.Fatal(err.Error()) }
	}
}

func openFiles(con *io.SharedConfig) (*FileGroup, error) {
	fg := &FileGroup{}
	if con.ValidLogFile() {
		f, err := os.Create(con.LogFile)
		if err != nil { return nil, err }
		fg.log = f
		log.SetOutput(f)
	}

	if con.ValidProfileFile() {
		f, err := os.Create(con.ProfileFile)
		if err != nil {
			fg.Close()
			return nil, err
		}
		fg.prof = f
		if err := pprof.StartCPUProfile(f); err != nil {
			fg.Close()
			return nil, err
		}
	}
	return fg, nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	logFlag := false
	cmd := &cobra.Command{
		Use: "xspline",
		Short: "Spline interpolation of tabulated data",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().BoolVarP(
		&logFlag, "log", "l", false, "Log progress and memory usage.",
	)

	cmd.AddCommand(&cobra.Command{
		Use: "interpolate <config>",
		Short: "Fit and evaluate splines as described by an [Interpolate] file",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			con, err := readConfig(args[0])
			if err != nil { return err }
			return interpolateMain(cmd.Context(), con, logFlag)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use: "graph <config>",
		Short: "Print the task graph of an [Interpolate] file as YAML",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			con, err := readConfig(args[0])
			if err != nil { return err }
			return graphMain(cmd.OutOrStdout(), con)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use: "example-config",
		Short: "Print an example [Interpolate] file",
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), io.ExampleInterpolateFile)
		},
	})

	return cmd
}

func readConfig(fname string) (*io.InterpolateConfig, error) {
	con, err := io.ReadInterpolateConfig(fname)
	if err != nil { return nil, err }
	if err := con.Check(); err != nil { return nil, err }
	return con, nil
}

// run holds the lazily built pieces of an interpolation.
type run struct {
	unit array.Unit
	ext xspline.Policy
	y *array.Array
	tck *xspline.Models
	out *array.Array
}

func build(con *io.InterpolateConfig) (*run, error) {
	r := &run{}
	var err error
	if r.unit, err = array.ParseUnit(con.XUnit); err != nil { return nil, err }
	if r.ext, err = xspline.ParsePolicy(con.Extrapolate); err != nil {
		return nil, err
	}

	var points *array.Coord
	if con.ValidPoint() {
		points, err = io.ParsePoints(con.Point, r.unit)
	} else {
		points, err = io.PointRange(
			con.PointMin, con.PointMax, con.PointCount, r.unit,
		)
	}
	if err != nil { return nil, err }

	r.y, err = io.ReadSeries(con.Input, con.XColumn, con.YColumn, r.unit)
	if err != nil { return nil, err }
	if r.tck, err = xspline.Splrep(r.y, io.XDim, con.Order); err != nil {
		return nil, err
	}

	q := xspline.Sequence{Coord: points, ChunkSize: con.ChunkSize}
	if r.out, err = xspline.Splev(q, r.tck, r.ext); err != nil {
		return nil, err
	}
	return r, nil
}

func interpolateMain(
	ctx context.Context, con *io.InterpolateConfig, logFlag bool,
) error {
	if ctx == nil { ctx = context.Background() }

	fg, err := openFiles(&con.SharedConfig)
	if err != nil { return err }
	defer fg.Close()

	r, err := build(con)
	if err != nil { return err }

	s := graph.NewScheduler(con.Threads, con.RetainDuration())
	s.Log = logFlag
	if logFlag {
		log.Printf(
			"Fitting %d series of length %d with order %d splines.",
			r.y.Shape[0], r.y.Shape[1], con.Order,
		)
	}

	vals, err := r.out.Values(ctx, s)
	if err != nil { return err }
	if err := io.WriteSeries(con.Output, r.out, vals); err != nil {
		return err
	}
	if logFlag { log.Printf("Wrote %d points to %s.", r.out.Shape[0], con.Output) }

	if con.Plot { return plotFits(ctx, s, r) }
	return nil
}

func graphMain(w stdio.Writer, con *io.InterpolateConfig) error {
	r, err := build(con)
	if err != nil { return err }
	desc, err := r.out.Graph().Describe()
	if err != nil { return err }
	_, err = w.Write(desc)
	return err
}

// plotFits shows every input series along with its spline evaluated on a
// fine grid. The fits are reused from s if it retains results.
func plotFits(ctx context.Context, s *graph.Scheduler, r *run) error {
	x := r.y.Coord(io.XDim)
	var xs []float64
	if r.unit.IsTime() {
		for _, tick := range x.Ticks() { xs = append(xs, float64(tick)) }
	} else {
		xs = x.Numbers()
	}

	grid := floats.Span(make([]float64, plotPoints), floats.Min(xs), floats.Max(xs))
	q := xspline.Sequence{Coord: array.Numbers(grid...)}
	if r.unit.IsTime() {
		ticks := make([]int64, len(grid))
		for i := range grid { ticks[i] = int64(grid[i]) }
		q.Coord = array.Times(r.unit, ticks...)
	}

	fine, err := xspline.Splev(q, r.tck, r.ext)
	if err != nil { return err }
	fineVals, err := fine.Values(ctx, s)
	if err != nil { return err }
	yVals, err := r.y.Values(ctx, s)
	if err != nil { return err }

	ns, n := r.y.Shape[0], r.y.Shape[1]
	labels := r.y.Coord(io.SeriesDim)

	plt.Reset()
	plt.Figure(plt.Num(0))
	for i := 0; i < ns; i++ {
		color := plotColors[i % len(plotColors)]
		fit := make([]float64, len(grid))
		for j := range grid { fit[j] = fineVals[j*ns + i] }

		plt.Plot(xs, yVals[i*n:(i+1)*n], "o"+color)
		plt.Plot(grid, fit, color, plt.Label(labels.Format(i)), plt.LW(3))
	}
	plt.Title(fmt.Sprintf("Order %d splines", r.tck.K))
	plt.Legend(plt.Loc("upper left"))
	plt.Show()
	return nil
}
