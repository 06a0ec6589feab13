package dmp

import (
	"errors"
	"fmt"
	"math"

	"github.com/movlab/motionprim/internal/basis"
	"github.com/movlab/motionprim/internal/canonical"
	"github.com/movlab/motionprim/internal/metrics"
	"github.com/movlab/motionprim/internal/motion"
	"github.com/movlab/motionprim/internal/ode"
)

// DefaultGoalTolerance bounds the accepted terminal residual before the last
// sample is pinned onto the goal, as a fraction of one unit plus the
// commanded displacement.
const DefaultGoalTolerance = 0.05

var (
	// ErrInvalidDuration indicates a non-positive or non-finite requested duration.
	ErrInvalidDuration = errors.New("dmp: reproduction duration must be positive and finite")

	// ErrInvalidStep indicates a non-positive, non-finite or oversized step.
	ErrInvalidStep = errors.New("dmp: reproduction step must be positive and below the duration")

	// ErrNotConverged indicates the integrated motion ended outside the goal
	// tolerance.
	ErrNotConverged = errors.New("dmp: reproduction did not converge to the goal")
)

// ReproduceError wraps a reproduction failure with where it happened.
type ReproduceError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *ReproduceError) Error() string {
	return fmt.Sprintf("dmp: reproduce step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *ReproduceError) Unwrap() error { return e.Wrapped }

// Request describes one reproduction. Zero Duration means the demonstrated
// duration, zero Dt the demonstrated sampling step.
type Request struct {
	Start    motion.State
	Goal     motion.State
	Duration float64
	Dt       float64
}

// Reproducer replays a model toward requested boundaries. It owns integrator
// scratch state, so share models, not reproducers.
type Reproducer struct {
	model   *Model
	integ   ode.Integrator
	observe []metrics.Metric
	goalTol float64
}

func NewReproducer(m *Model) (*Reproducer, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &Reproducer{model: m, integ: ode.NewRK4(), goalTol: DefaultGoalTolerance}, nil
}

// SetIntegrator swaps the stepping scheme (RK4 by default).
func (r *Reproducer) SetIntegrator(in ode.Integrator) {
	r.integ = in
}

// SetGoalTolerance overrides the terminal residual guard.
func (r *Reproducer) SetGoalTolerance(tol float64) {
	r.goalTol = tol
}

func (r *Reproducer) AddMetric(m metrics.Metric) {
	r.observe = append(r.observe, m)
}

// MetricValues reports the attached metrics after a run.
func (r *Reproducer) MetricValues() map[string]float64 {
	if len(r.observe) == 0 {
		return nil
	}
	out := make(map[string]float64, len(r.observe))
	for _, m := range r.observe {
		out[m.Name()] = m.Value()
	}
	return out
}

// Run integrates the transformation system across the requested duration on
// a uniform grid. The first sample is exactly the requested start; the last
// is pinned onto the requested goal once the integrated endpoint passes the
// tolerance check, with its velocity zeroed.
func (r *Reproducer) Run(req Request) (*motion.Trajectory, error) {
	m := r.model
	dims := m.Dims()

	if len(req.Start) != dims || len(req.Goal) != dims {
		return nil, fmt.Errorf("dmp: boundary states sized %d/%d for a %d-dim model: %w",
			len(req.Start), len(req.Goal), dims, motion.ErrDimensionMismatch)
	}
	if !req.Start.IsValid() || !req.Goal.IsValid() {
		return nil, fmt.Errorf("dmp: boundary state: %w", motion.ErrInvalidValue)
	}

	duration := req.Duration
	if duration == 0 {
		duration = m.Canonical.Duration
	}
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return nil, fmt.Errorf("%w: got %g", ErrInvalidDuration, req.Duration)
	}
	dt := req.Dt
	if dt == 0 {
		dt = m.Dt
	}
	if dt <= 0 || math.IsNaN(dt) || dt > duration {
		return nil, fmt.Errorf("%w: got %g over %g", ErrInvalidStep, req.Dt, duration)
	}

	cs, err := m.Canonical.Rescaled(duration)
	if err != nil {
		return nil, err
	}
	amps := amplitudes(m, req)
	sys := &transformedSystem{cs: cs, sets: m.Sets, goal: req.Goal, amps: amps}

	steps := int(duration/dt + 0.5)
	if steps < 1 {
		steps = 1
	}

	for _, obs := range r.observe {
		obs.Reset()
	}

	x := make(motion.State, 2*dims)
	copy(x[:dims], req.Start)
	for d := 0; d < dims; d++ {
		// z = tau*velocity; seeding with the demonstrated launch velocity is
		// duration-invariant because tau and velocity rescale inversely.
		x[dims+d] = m.Canonical.Tau * m.InitVelocity[d] * amps[d]
	}

	traj := &motion.Trajectory{
		Times:      make([]float64, steps+1),
		States:     make([]motion.State, steps+1),
		Velocities: make([]motion.State, steps+1),
	}
	r.record(traj, 0, 0, x, cs.Tau)

	for k := 1; k <= steps; k++ {
		t := float64(k-1) * dt
		x = r.integ.Step(sys, x, t, dt)
		if !x.IsValid() {
			return nil, &ReproduceError{Step: k, Time: t + dt, Wrapped: motion.ErrInvalidValue}
		}
		r.record(traj, k, float64(k)*dt, x, cs.Tau)
	}

	residual := traj.States[steps].Sub(req.Goal).Norm()
	tol := r.goalTol * (1 + req.Goal.Sub(req.Start).Norm())
	if residual > tol {
		return nil, &ReproduceError{
			Step:    steps,
			Time:    duration,
			Wrapped: fmt.Errorf("%w: residual %g exceeds tolerance %g", ErrNotConverged, residual, tol),
		}
	}
	traj.States[steps] = req.Goal.Clone()
	traj.Velocities[steps] = make(motion.State, dims)

	return traj, nil
}

func (r *Reproducer) record(traj *motion.Trajectory, k int, t float64, x motion.State, tau float64) {
	dims := len(x) / 2
	pos := make(motion.State, dims)
	vel := make(motion.State, dims)
	copy(pos, x[:dims])
	for d := 0; d < dims; d++ {
		vel[d] = x[dims+d] / tau
	}
	traj.Times[k] = t
	traj.States[k] = pos
	traj.Velocities[k] = vel
	for _, obs := range r.observe {
		obs.Observe(t, pos, vel)
	}
}

// amplitudes scales each dimension's forcing by the ratio of commanded to
// demonstrated displacement. A degenerate demonstrated displacement turns
// that dimension's forcing off rather than dividing by almost-zero.
func amplitudes(m *Model, req Request) []float64 {
	amps := make([]float64, m.Dims())
	for d := range amps {
		span := m.Goal[d] - m.Start[d]
		if math.Abs(span) < spatialFloor {
			continue
		}
		amps[d] = (req.Goal[d] - req.Start[d]) / span
	}
	return amps
}

// transformedSystem stacks every dimension's (y, z) pair into one flat state
// vector: positions first, scaled velocities second.
type transformedSystem struct {
	cs   *canonical.System
	sets []basis.Set
	goal motion.State
	amps []float64
}

func (s *transformedSystem) Dim() int { return 2 * len(s.sets) }

func (s *transformedSystem) Derive(x motion.State, t float64) motion.State {
	dims := len(s.sets)
	phase := s.cs.PhaseAt(t)
	tau := s.cs.Tau

	dx := make(motion.State, 2*dims)
	for d := 0; d < dims; d++ {
		y, z := x[d], x[dims+d]
		f := forcingValue(s.sets[d], phase) * s.amps[d]
		dx[d] = z / tau
		dx[dims+d] = (alphaZ*(betaZ*(s.goal[d]-y)-z) + f) / tau
	}
	return dx
}
