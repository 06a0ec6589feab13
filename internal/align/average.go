package align

import (
	"fmt"

	"github.com/movlab/motionprim/internal/motion"
)

// Average combines repeated demonstrations of one motion into a single
// demonstration. The member with the smallest cumulative warp distance to
// the rest becomes the time reference; every other member is warped onto
// its timeline and matched samples are averaged pointwise. The result
// keeps the reference timestamps, so it feeds straight into fitting.
func Average(demos []*motion.Demonstration, opts *Options) (*motion.Demonstration, error) {
	if len(demos) == 0 {
		return nil, ErrEmptySequence
	}
	if len(demos) == 1 {
		return demos[0].Clone(), nil
	}
	dims := demos[0].Dims()
	for i, d := range demos[1:] {
		if d.Dims() != dims {
			return nil, fmt.Errorf("align: demonstration %d has %d dims, want %d: %w", i+1, d.Dims(), dims, motion.ErrDimensionMismatch)
		}
	}

	ref, err := referenceIndex(demos, opts)
	if err != nil {
		return nil, err
	}
	base := demos[ref]

	sums := make([]motion.State, base.Len())
	counts := make([]int, base.Len())
	for i, s := range base.Samples {
		sums[i] = s.Clone()
		counts[i] = 1
	}
	for k, d := range demos {
		if k == ref {
			continue
		}
		_, path, err := Path(base.Samples, d.Samples, opts)
		if err != nil {
			return nil, err
		}
		for _, pair := range path {
			i, j := pair[0], pair[1]
			for dim := 0; dim < dims; dim++ {
				sums[i][dim] += d.Samples[j][dim]
			}
			counts[i]++
		}
	}
	for i := range sums {
		for dim := range sums[i] {
			sums[i][dim] /= float64(counts[i])
		}
	}

	times := make([]float64, base.Len())
	copy(times, base.Times)
	return motion.NewDemonstration(times, sums)
}

// referenceIndex picks the demonstration with minimal total warp distance
// to all others. Ties go to the earliest member.
func referenceIndex(demos []*motion.Demonstration, opts *Options) (int, error) {
	totals := make([]float64, len(demos))
	for i := 0; i < len(demos); i++ {
		for j := i + 1; j < len(demos); j++ {
			dist, _, err := Path(demos[i].Samples, demos[j].Samples, opts)
			if err != nil {
				return 0, err
			}
			totals[i] += dist
			totals[j] += dist
		}
	}
	best := 0
	for i, t := range totals {
		if t < totals[best] {
			best = i
		}
	}
	return best, nil
}
