package viz

import (
	"fmt"
	"io"

	"github.com/movlab/motionprim/internal/motion"
)

const svgPadding = 0.1

// WriteSVG renders the spatial path as a standalone SVG polyline, axes
// chosen as in [PathPlot]. Unlike the terminal plots it survives being
// pasted into a report.
func WriteSVG(w io.Writer, tr *motion.Trajectory, width, height int) error {
	if tr.Len() < 2 {
		return fmt.Errorf("viz: need at least two samples for a path")
	}
	xs, ys := planarSeries(tr)
	minX, maxX := bounds(xs)
	minY, maxY := bounds(ys)

	spanX, spanY := maxX-minX, maxY-minY
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}
	minX -= spanX * svgPadding
	minY -= spanY * svgPadding
	spanX *= 1 + 2*svgPadding
	spanY *= 1 + 2*svgPadding

	if _, err := fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<polyline fill="none" stroke="#00ff00" stroke-width="1.5" points="`, width, height, width, height); err != nil {
		return err
	}
	for i := range xs {
		px := (xs[i] - minX) / spanX * float64(width)
		py := float64(height) - (ys[i]-minY)/spanY*float64(height)
		if _, err := fmt.Fprintf(w, "%.1f,%.1f ", px, py); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\"/>\n</svg>\n")
	return err
}

func bounds(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
