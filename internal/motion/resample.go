package motion

import (
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// Resample interpolates a demonstration onto a uniform grid at the given
// sample rate (Hz). Timestamps of the result start at zero. Piecewise-linear
// interpolation keeps the recorded samples exact at their own instants.
func Resample(d *Demonstration, rate float64) (*Demonstration, error) {
	if d.Len() < 2 {
		return nil, fmt.Errorf("resample needs at least two samples: %w", ErrInsufficientData)
	}
	if rate <= 0 {
		return nil, fmt.Errorf("motion: resample rate must be positive, got %g", rate)
	}

	elapsed := d.Elapsed()
	duration := elapsed[len(elapsed)-1]
	n := int(duration*rate+0.5) + 1
	if n < 2 {
		n = 2
	}
	step := duration / float64(n-1)

	times := make([]float64, n)
	samples := make([]State, n)
	for k := range times {
		times[k] = float64(k) * step
		samples[k] = make(State, d.Dims())
	}
	// The grid is closed on both ends; clamp the last point onto the final
	// recorded instant so float accumulation cannot step past it.
	times[n-1] = duration

	for dim := 0; dim < d.Dims(); dim++ {
		var pl interp.PiecewiseLinear
		if err := pl.Fit(elapsed, d.Series(dim)); err != nil {
			return nil, fmt.Errorf("motion: resample dim %d: %w", dim, err)
		}
		for k := range times {
			samples[k][dim] = pl.Predict(times[k])
		}
	}
	return NewDemonstration(times, samples)
}
