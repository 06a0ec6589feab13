// Package canonical implements the phase system that replaces explicit time
// in the motion encoding. The phase s decays exponentially from 1 and gates
// the forcing term, so a single set of weights replays at any duration.
package canonical

import (
	"fmt"
	"math"
)

// DefaultCutoff is the phase value treated as "the motion is over". The decay
// rate is chosen so the phase lands exactly on the cutoff at t = Tau.
const DefaultCutoff = 1e-3

// System is the shared clock of a fitted model:
//
//	s(t) = exp(-ln(1/Cutoff) * t / Tau)
//
// Tau is the time constant taken from the demonstration's effective motion
// duration, Duration the full demonstrated span (Tau <= Duration when the
// recording has a still tail).
type System struct {
	Tau      float64
	Duration float64
	Cutoff   float64
}

func New(tau, duration float64) (*System, error) {
	return NewWithCutoff(tau, duration, DefaultCutoff)
}

func NewWithCutoff(tau, duration, cutoff float64) (*System, error) {
	s := &System{Tau: tau, Duration: duration, Cutoff: cutoff}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *System) Validate() error {
	if s.Tau <= 0 {
		return fmt.Errorf("canonical: time constant must be positive, got %g", s.Tau)
	}
	if s.Duration < s.Tau {
		return fmt.Errorf("canonical: duration %g shorter than time constant %g", s.Duration, s.Tau)
	}
	if s.Cutoff <= 0 || s.Cutoff >= 1 {
		return fmt.Errorf("canonical: cutoff must lie in (0,1), got %g", s.Cutoff)
	}
	return nil
}

func (s *System) decayRate() float64 {
	return math.Log(1 / s.Cutoff)
}

// PhaseAt returns s(t). Times before zero map to phase 1; times past Tau keep
// decaying below the cutoff, which drives the forcing term to zero.
func (s *System) PhaseAt(t float64) float64 {
	if t <= 0 {
		return 1
	}
	return math.Exp(-s.decayRate() * t / s.Tau)
}

// TimeOf inverts PhaseAt for phase values in (0, 1].
func (s *System) TimeOf(phase float64) (float64, error) {
	if phase <= 0 || phase > 1 {
		return 0, fmt.Errorf("canonical: phase must lie in (0,1], got %g", phase)
	}
	return -s.Tau * math.Log(phase) / s.decayRate(), nil
}

// Rescaled returns a system for a new total duration. The time constant
// scales proportionally, stretching the phase profile without changing the
// phase values any sample passes through.
func (s *System) Rescaled(duration float64) (*System, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("canonical: duration must be positive, got %g", duration)
	}
	tau := s.Tau * (duration / s.Duration)
	if tau > duration {
		tau = duration // scale product rounded past the new duration
	}
	return NewWithCutoff(tau, duration, s.Cutoff)
}
