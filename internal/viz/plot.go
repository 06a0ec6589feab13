package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/movlab/motionprim/internal/motion"
)

// SeriesPlot charts every dimension of a trajectory against time, one
// graph per dimension.
func SeriesPlot(tr *motion.Trajectory, height, width int) string {
	var b strings.Builder
	for d := 0; d < tr.Dims(); d++ {
		graph := asciigraph.Plot(tr.Series(d),
			asciigraph.Height(height),
			asciigraph.Width(width),
			asciigraph.Caption(fmt.Sprintf("x%d vs time", d)),
		)
		b.WriteString(graph)
		b.WriteString("\n\n")
	}
	return b.String()
}

// Overlay charts one dimension of two trajectories in a single graph, so
// a reproduction can be eyeballed against its demonstration.
func Overlay(a, b *motion.Trajectory, dim, height, width int, caption string) string {
	return asciigraph.PlotMany([][]float64{a.Series(dim), b.Series(dim)},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// PathPlot draws the spatial path on a braille canvas: dimensions 0 and 1
// for planar and higher motions, position against time for scalar ones.
func PathPlot(tr *motion.Trajectory, width, height int) string {
	c := NewCanvas(width, height)
	drawPath(c, tr, tr.Len()-1)
	return c.String()
}

// drawPath renders the path up to sample upto inclusive.
func drawPath(c *Canvas, tr *motion.Trajectory, upto int) {
	if tr.Len() == 0 || upto < 0 {
		return
	}
	if upto >= tr.Len() {
		upto = tr.Len() - 1
	}
	xs, ys := planarSeries(tr)
	px := projector(xs, c.Width*2-1)
	py := projector(ys, c.Height*4-1)

	x0, y0 := px(xs[0]), flip(py(ys[0]), c.Height*4-1)
	for i := 1; i <= upto; i++ {
		x1, y1 := px(xs[i]), flip(py(ys[i]), c.Height*4-1)
		c.Line(x0, y0, x1, y1)
		x0, y0 = x1, y1
	}
}

// planarSeries picks the two plotted axes: (x0, x1), or (t, x0) for
// one-dimensional motion.
func planarSeries(tr *motion.Trajectory) (xs, ys []float64) {
	if tr.Dims() >= 2 {
		return tr.Series(0), tr.Series(1)
	}
	xs = make([]float64, len(tr.Times))
	copy(xs, tr.Times)
	return xs, tr.Series(0)
}

// projector maps a value range onto [0, limit] sub-pixels. A flat range
// maps everything to the middle.
func projector(values []float64, limit int) func(float64) int {
	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	return func(v float64) int {
		if span == 0 {
			return limit / 2
		}
		return int((v - lo) / span * float64(limit))
	}
}

func flip(y, limit int) int { return limit - y }
