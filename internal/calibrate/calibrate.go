// Package calibrate derives every model parameter from the demonstration
// itself: kernel count, kernel placement and the canonical time constant.
// The selection is closed-form; the same demonstration and config always
// produce the same result.
package calibrate

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/movlab/motionprim/internal/basis"
	"github.com/movlab/motionprim/internal/canonical"
	"github.com/movlab/motionprim/internal/motion"
)

// centerSpacingFraction: a feature kernel closer than this fraction of the
// floor-grid spacing to an existing center is considered covered already.
const centerSpacingFraction = 0.5

// Result carries everything the fitter needs: the calibrated canonical
// system, one unweighted kernel set per dimension, the detected features per
// dimension and the derivative profiles (so the fitter does not recompute
// them).
type Result struct {
	Canonical *canonical.System
	Sets      []basis.Set
	Features  [][]Feature
	Velocity  [][]float64
	Accel     [][]float64
}

// Run calibrates against a demonstration. The time constant is the effective
// motion duration (last instant any dimension moves faster than
// VelocityCutoff of the peak speed); kernel count per dimension is
// MinBasis plus one kernel per detected feature, clamped to MaxBasis.
func Run(d *motion.Demonstration, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if d.Len() < cfg.MinSamples {
		return nil, fmt.Errorf("calibrate: %d samples, need at least %d: %w", d.Len(), cfg.MinSamples, motion.ErrInsufficientData)
	}

	vel, acc := motion.Derivatives(d)
	elapsed := d.Elapsed()
	tau := effectiveDuration(elapsed, vel, cfg.VelocityCutoff)
	cs, err := canonical.NewWithCutoff(tau, d.Duration(), cfg.PhaseCutoff)
	if err != nil {
		return nil, err
	}

	dims := d.Dims()
	sets := make([]basis.Set, dims)
	features := make([][]Feature, dims)
	for dim := 0; dim < dims; dim++ {
		feats := profileFeatures(elapsed, vel[dim], cfg.Sensitivity, tau)
		times := kernelTimes(tau, feats, cfg)
		set, err := basis.FromTimes(cs, times)
		if err != nil {
			return nil, fmt.Errorf("calibrate: dim %d: %w", dim, err)
		}
		sets[dim] = set
		features[dim] = feats
	}

	return &Result{
		Canonical: cs,
		Sets:      sets,
		Features:  features,
		Velocity:  vel,
		Accel:     acc,
	}, nil
}

// effectiveDuration finds the last instant the motion is meaningfully moving.
// A demonstration that never moves gets the full recorded span, so fitting a
// flat hold is still well defined.
func effectiveDuration(times []float64, vel [][]float64, cutoff float64) float64 {
	total := times[len(times)-1]
	vmax := 0.0
	for _, v := range vel {
		for _, x := range v {
			if a := math.Abs(x); a > vmax {
				vmax = a
			}
		}
	}
	if vmax <= 0 {
		return total
	}

	thr := cutoff * vmax
	last := -1
	for k := range times {
		for _, v := range vel {
			if math.Abs(v[k]) > thr {
				last = k
				break
			}
		}
	}
	if last <= 0 || times[last] <= 0 {
		return total
	}
	return times[last]
}

// profileFeatures runs the turning-point scan on one velocity profile. The
// reversal threshold is Sensitivity times the profile's range, and features
// in the still tail past the effective duration are discarded. The scan skips
// the zero-padded final derivative sample, which is padding rather than data
// and would otherwise read as a cliff.
func profileFeatures(times, v []float64, sensitivity, tau float64) []Feature {
	n := len(v)
	if n < 2 {
		return nil
	}
	times, v = times[:n-1], v[:n-1]
	delta := sensitivity * (floats.Max(v) - floats.Min(v))
	feats := TurningPoints(times, v, delta)
	kept := feats[:0]
	for _, f := range feats {
		if f.Time <= tau {
			kept = append(kept, f)
		}
	}
	return kept
}

// kernelTimes merges the uniform floor grid with feature instants, strongest
// features first. Features already covered by a nearby center add a midpoint
// split of the widest remaining gap instead, so the final count is exactly
// MinBasis plus the clamped feature count.
func kernelTimes(tau float64, feats []Feature, cfg Config) []float64 {
	count := cfg.MinBasis + len(feats)
	if count > cfg.MaxBasis {
		count = cfg.MaxBasis
	}

	spacing := tau / float64(cfg.MinBasis-1)
	sep := centerSpacingFraction * spacing

	times := make([]float64, cfg.MinBasis)
	for i := range times {
		times[i] = tau * float64(i) / float64(cfg.MinBasis-1)
	}

	byStrength := make([]Feature, len(feats))
	copy(byStrength, feats)
	sort.SliceStable(byStrength, func(i, j int) bool {
		if byStrength[i].Prominence != byStrength[j].Prominence {
			return byStrength[i].Prominence > byStrength[j].Prominence
		}
		return byStrength[i].Index < byStrength[j].Index
	})

	for _, f := range byStrength {
		if len(times) >= count {
			break
		}
		covered := false
		for _, t := range times {
			if math.Abs(t-f.Time) < sep {
				covered = true
				break
			}
		}
		if !covered {
			times = append(times, f.Time)
		}
	}
	sort.Float64s(times)

	for len(times) < count {
		times = splitWidestGap(times)
	}
	return times
}

func splitWidestGap(times []float64) []float64 {
	widest, at := 0.0, 0
	for i := 0; i+1 < len(times); i++ {
		if gap := times[i+1] - times[i]; gap > widest {
			widest, at = gap, i
		}
	}
	mid := times[at] + widest/2
	times = append(times, 0)
	copy(times[at+2:], times[at+1:])
	times[at+1] = mid
	return times
}
