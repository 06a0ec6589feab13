// Package synth generates synthetic demonstrations between two states, the
// stand-in for a hardware recorder. Generators are closed-form samplers with
// exact endpoints, so they double as known-answer inputs for the learning
// pipeline.
package synth

import (
	"fmt"
	"math"
	"sort"

	"github.com/movlab/motionprim/internal/motion"
)

const (
	// sineCycles and sineAmplitude shape the "sine" generator: an oscillation
	// rides the straight ramp, its envelope pinned to zero at both endpoints.
	sineCycles    = 2
	sineAmplitude = 0.15
)

// Builder constructs a demonstration from start to goal over a duration,
// sampled at a fixed count.
type Builder func(start, goal motion.State, duration float64, samples int) (*motion.Demonstration, error)

var builders = map[string]Builder{
	"line":    Line,
	"minjerk": MinimumJerk,
	"sine":    Sine,
	"arc":     Arc,
}

func Lookup(name string) (Builder, error) {
	b, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("synth: unknown generator %q (have %v)", name, Names())
	}
	return b, nil
}

func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func validate(start, goal motion.State, duration float64, samples int) error {
	if len(start) == 0 || len(start) != len(goal) {
		return fmt.Errorf("synth: boundary states sized %d/%d: %w", len(start), len(goal), motion.ErrDimensionMismatch)
	}
	if duration <= 0 {
		return fmt.Errorf("synth: duration must be positive, got %g", duration)
	}
	if samples < 2 {
		return fmt.Errorf("synth: need at least 2 samples, got %d", samples)
	}
	return nil
}

// sample evaluates pos(u) for u in [0,1] on a uniform grid.
func sample(start motion.State, duration float64, samples int, pos func(u float64, out motion.State)) (*motion.Demonstration, error) {
	times := make([]float64, samples)
	states := make([]motion.State, samples)
	for k := range times {
		u := float64(k) / float64(samples-1)
		times[k] = u * duration
		out := make(motion.State, len(start))
		pos(u, out)
		states[k] = out
	}
	return motion.NewDemonstration(times, states)
}

// Line moves at constant velocity.
func Line(start, goal motion.State, duration float64, samples int) (*motion.Demonstration, error) {
	if err := validate(start, goal, duration, samples); err != nil {
		return nil, err
	}
	return sample(start, duration, samples, func(u float64, out motion.State) {
		for d := range out {
			out[d] = start[d] + (goal[d]-start[d])*u
		}
	})
}

// MinimumJerk follows the quintic blend 10u^3 - 15u^4 + 6u^5, which starts
// and ends at rest with zero acceleration.
func MinimumJerk(start, goal motion.State, duration float64, samples int) (*motion.Demonstration, error) {
	if err := validate(start, goal, duration, samples); err != nil {
		return nil, err
	}
	return sample(start, duration, samples, func(u float64, out motion.State) {
		b := u * u * u * (10 + u*(-15+6*u))
		for d := range out {
			out[d] = start[d] + (goal[d]-start[d])*b
		}
	})
}

// Sine rides an endpoint-pinned oscillation on the straight ramp, giving the
// velocity profile several interior reversals.
func Sine(start, goal motion.State, duration float64, samples int) (*motion.Demonstration, error) {
	if err := validate(start, goal, duration, samples); err != nil {
		return nil, err
	}
	return sample(start, duration, samples, func(u float64, out motion.State) {
		wobble := math.Sin(math.Pi*u) * math.Sin(2*math.Pi*sineCycles*u)
		for d := range out {
			span := goal[d] - start[d]
			out[d] = start[d] + span*u + sineAmplitude*span*wobble
		}
	})
}

// Arc bows through the plane of the first two dimensions, bulging half the
// planar chord length to the left of travel. Needs at least two dimensions
// and a nonzero planar chord.
func Arc(start, goal motion.State, duration float64, samples int) (*motion.Demonstration, error) {
	if err := validate(start, goal, duration, samples); err != nil {
		return nil, err
	}
	if len(start) < 2 {
		return nil, fmt.Errorf("synth: arc needs at least 2 dims, got %d", len(start))
	}
	dx, dy := goal[0]-start[0], goal[1]-start[1]
	chord := math.Hypot(dx, dy)
	if chord == 0 {
		return nil, fmt.Errorf("synth: arc needs distinct planar endpoints")
	}
	nx, ny := -dy/chord, dx/chord
	bulge := chord / 2

	return sample(start, duration, samples, func(u float64, out motion.State) {
		lift := bulge * math.Sin(math.Pi*u)
		for d := range out {
			out[d] = start[d] + (goal[d]-start[d])*u
		}
		out[0] += nx * lift
		out[1] += ny * lift
	})
}
