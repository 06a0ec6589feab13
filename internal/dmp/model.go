package dmp

import (
	"fmt"

	"github.com/movlab/motionprim/internal/basis"
	"github.com/movlab/motionprim/internal/canonical"
	"github.com/movlab/motionprim/internal/motion"
)

const (
	// alphaZ and betaZ form a critically damped pair (betaZ = alphaZ/4), the
	// standard gain choice for the transformation system.
	alphaZ = 25.0
	betaZ  = alphaZ / 4

	// forcingFloor keeps the normalized forcing finite once every kernel has
	// decayed to nothing.
	forcingFloor = 1e-10

	// spatialFloor is the smallest demonstrated displacement the amplitude
	// ratio divides by; below it the forcing term is switched off entirely.
	spatialFloor = 1e-8
)

// Model is a fitted primitive: the calibrated canonical system, one weighted
// kernel set per dimension, and the spatial boundary of the demonstration it
// was learned from. Immutable after Fit.
type Model struct {
	Canonical    *canonical.System
	Sets         []basis.Set
	Start        motion.State
	Goal         motion.State
	InitVelocity motion.State
	Dt           float64
}

func (m *Model) Dims() int { return len(m.Sets) }

func (m *Model) Validate() error {
	if m.Canonical == nil {
		return fmt.Errorf("dmp: model has no canonical system")
	}
	if err := m.Canonical.Validate(); err != nil {
		return err
	}
	if len(m.Sets) == 0 {
		return fmt.Errorf("dmp: model has no kernel sets")
	}
	dims := len(m.Sets)
	if len(m.Start) != dims || len(m.Goal) != dims || len(m.InitVelocity) != dims {
		return fmt.Errorf("dmp: boundary states sized %d/%d/%d for %d dims: %w",
			len(m.Start), len(m.Goal), len(m.InitVelocity), dims, motion.ErrDimensionMismatch)
	}
	for dim, set := range m.Sets {
		if err := set.Validate(); err != nil {
			return fmt.Errorf("dmp: dim %d: %w", dim, err)
		}
	}
	if m.Dt <= 0 {
		return fmt.Errorf("dmp: model step must be positive, got %g", m.Dt)
	}
	return nil
}

// forcingValue evaluates the normalized, phase-gated forcing of one kernel
// set: s * sum(w*psi) / (sum(psi) + floor).
func forcingValue(set basis.Set, phase float64) float64 {
	num, den := set.WeightedSum(phase)
	return phase * num / (den + forcingFloor)
}
