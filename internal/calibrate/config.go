package calibrate

import (
	"fmt"

	"github.com/movlab/motionprim/internal/canonical"
)

// Config holds every threshold the selector uses. All values have documented
// defaults; nothing is read from globals, so two runs over the same
// demonstration always agree.
type Config struct {
	// MinBasis kernels cover any motion, however plain. MaxBasis caps how far
	// feature detection can grow the bank.
	MinBasis int
	MaxBasis int

	// Sensitivity is the fraction of a velocity profile's range a reversal
	// must span before it counts as a feature.
	Sensitivity float64

	// VelocityCutoff is the fraction of peak speed below which the tail of a
	// demonstration counts as still, bounding the effective motion duration.
	VelocityCutoff float64

	// PhaseCutoff is handed to the canonical system; the time constant is
	// bound so the phase reaches it exactly at the effective duration.
	PhaseCutoff float64

	// MinSamples rejects demonstrations too short to differentiate.
	MinSamples int
}

func Default() Config {
	return Config{
		MinBasis:       10,
		MaxBasis:       40,
		Sensitivity:    0.05,
		VelocityCutoff: 0.05,
		PhaseCutoff:    canonical.DefaultCutoff,
		MinSamples:     4,
	}
}

func (c Config) Validate() error {
	if c.MinBasis < 2 {
		return fmt.Errorf("calibrate: MinBasis must be at least 2, got %d", c.MinBasis)
	}
	if c.MaxBasis < c.MinBasis {
		return fmt.Errorf("calibrate: MaxBasis %d below MinBasis %d", c.MaxBasis, c.MinBasis)
	}
	if c.Sensitivity <= 0 || c.Sensitivity >= 1 {
		return fmt.Errorf("calibrate: Sensitivity must lie in (0,1), got %g", c.Sensitivity)
	}
	if c.VelocityCutoff <= 0 || c.VelocityCutoff >= 1 {
		return fmt.Errorf("calibrate: VelocityCutoff must lie in (0,1), got %g", c.VelocityCutoff)
	}
	if c.PhaseCutoff <= 0 || c.PhaseCutoff >= 1 {
		return fmt.Errorf("calibrate: PhaseCutoff must lie in (0,1), got %g", c.PhaseCutoff)
	}
	if c.MinSamples < 2 {
		return fmt.Errorf("calibrate: MinSamples must be at least 2, got %d", c.MinSamples)
	}
	return nil
}
