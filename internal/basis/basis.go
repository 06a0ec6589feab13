// Package basis provides the Gaussian kernels that shape the forcing term.
// Kernels live on the phase axis, not the time axis: centers are phase values
// in (0,1], ordered the way the phase passes them during a motion.
package basis

import (
	"fmt"
	"math"

	"github.com/movlab/motionprim/internal/canonical"
)

// OverlapFactor sets kernel width relative to the gap to the next center.
// 0.55 gives neighboring kernels enough overlap for a smooth reconstruction
// without washing out local detail.
const OverlapFactor = 0.55

type Function struct {
	Center float64
	Width  float64
	Weight float64
}

func (f Function) Activate(s float64) float64 {
	d := (s - f.Center) / f.Width
	return math.Exp(-0.5 * d * d)
}

// Set is one dimension's kernel bank, centers strictly decreasing (phase
// decays, so decreasing centers run chronologically).
type Set []Function

// FromTimes places one kernel per instant: centers at the phases the system
// passes at those times, widths from the spacing to the next center. Times
// must be non-negative and strictly increasing.
func FromTimes(cs *canonical.System, times []float64) (Set, error) {
	if len(times) == 0 {
		return nil, fmt.Errorf("basis: no kernel times")
	}
	centers := make([]float64, len(times))
	for i, t := range times {
		if t < 0 {
			return nil, fmt.Errorf("basis: negative kernel time %g", t)
		}
		if i > 0 && t <= times[i-1] {
			return nil, fmt.Errorf("basis: kernel times must be strictly increasing, got %g after %g", t, times[i-1])
		}
		centers[i] = cs.PhaseAt(t)
	}

	set := make(Set, len(centers))
	for i := range centers {
		set[i].Center = centers[i]
	}
	if len(set) == 1 {
		set[0].Width = OverlapFactor * (1 - cs.Cutoff)
	} else {
		for i := 0; i+1 < len(set); i++ {
			set[i].Width = OverlapFactor * (centers[i] - centers[i+1])
		}
		set[len(set)-1].Width = set[len(set)-2].Width
	}
	return set, set.Validate()
}

// Uniform spreads n kernels over uniformly spaced times in [0, tau].
func Uniform(cs *canonical.System, n int) (Set, error) {
	if n < 1 {
		return nil, fmt.Errorf("basis: kernel count must be at least 1, got %d", n)
	}
	if n == 1 {
		return FromTimes(cs, []float64{0})
	}
	times := make([]float64, n)
	for i := range times {
		times[i] = cs.Tau * float64(i) / float64(n-1)
	}
	return FromTimes(cs, times)
}

func (set Set) Validate() error {
	if len(set) == 0 {
		return fmt.Errorf("basis: empty kernel set")
	}
	for i, f := range set {
		if f.Center <= 0 || f.Center > 1 {
			return fmt.Errorf("basis: kernel %d center %g outside (0,1]", i, f.Center)
		}
		if f.Width <= 0 || math.IsNaN(f.Width) || math.IsInf(f.Width, 0) {
			return fmt.Errorf("basis: kernel %d has invalid width %g", i, f.Width)
		}
		if i > 0 && f.Center >= set[i-1].Center {
			return fmt.Errorf("basis: kernel centers must be strictly decreasing at %d", i)
		}
		if math.IsNaN(f.Weight) || math.IsInf(f.Weight, 0) {
			return fmt.Errorf("basis: kernel %d has non-finite weight", i)
		}
	}
	return nil
}

// Activations evaluates every kernel at phase s.
func (set Set) Activations(s float64) []float64 {
	psi := make([]float64, len(set))
	for i, f := range set {
		psi[i] = f.Activate(s)
	}
	return psi
}

// WeightedSum returns the weighted and unweighted activation sums at phase s,
// the two ingredients of the normalized forcing term.
func (set Set) WeightedSum(s float64) (num, den float64) {
	for _, f := range set {
		psi := f.Activate(s)
		num += f.Weight * psi
		den += psi
	}
	return num, den
}

func (set Set) Centers() []float64 {
	out := make([]float64, len(set))
	for i, f := range set {
		out[i] = f.Center
	}
	return out
}

func (set Set) Widths() []float64 {
	out := make([]float64, len(set))
	for i, f := range set {
		out[i] = f.Width
	}
	return out
}

func (set Set) Weights() []float64 {
	out := make([]float64, len(set))
	for i, f := range set {
		out[i] = f.Weight
	}
	return out
}

// FromArrays rebuilds a set from its serialized parts.
func FromArrays(centers, widths, weights []float64) (Set, error) {
	if len(centers) != len(widths) || len(centers) != len(weights) {
		return nil, fmt.Errorf("basis: mismatched array lengths %d/%d/%d", len(centers), len(widths), len(weights))
	}
	set := make(Set, len(centers))
	for i := range set {
		set[i] = Function{Center: centers[i], Width: widths[i], Weight: weights[i]}
	}
	return set, set.Validate()
}
