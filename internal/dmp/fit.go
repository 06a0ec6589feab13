package dmp

import (
	"errors"
	"fmt"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/movlab/motionprim/internal/basis"
	"github.com/movlab/motionprim/internal/calibrate"
	"github.com/movlab/motionprim/internal/motion"
)

// ErrSingularFit indicates a regression system with no phase-weighted kernel
// support, so no weight assignment could explain the demonstration.
var ErrSingularFit = errors.New("dmp: singular regression (no phase-weighted kernel support)")

// FitError wraps a per-dimension fitting failure.
type FitError struct {
	Dim     int
	Wrapped error
}

func (e *FitError) Error() string {
	return fmt.Sprintf("dmp: fit dimension %d: %v", e.Dim, e.Wrapped)
}

func (e *FitError) Unwrap() error { return e.Wrapped }

// Fit learns a model from one demonstration. Calibration picks the canonical
// time constant and the kernel layout; the weights then come from the
// closed-form locally weighted regression
//
//	w_i = sum_t(psi_i * s_t * f*_t) / (sum_t(psi_i * s_t^2) + floor)
//
// against the target forcing f* = tau^2*a - alpha*(beta*(g-y) - tau*v).
// Dimensions are independent and fitted in parallel. The result depends only
// on the demonstration and the config.
func Fit(d *motion.Demonstration, cfg calibrate.Config) (*Model, error) {
	cal, err := calibrate.Run(d, cfg)
	if err != nil {
		return nil, err
	}

	elapsed := d.Elapsed()
	phases := make([]float64, len(elapsed))
	for k, t := range elapsed {
		phases[k] = cal.Canonical.PhaseAt(t)
	}
	goal := d.Last()

	dims := d.Dims()
	errs := make([]error, dims)
	var wg sync.WaitGroup
	for dim := 0; dim < dims; dim++ {
		wg.Add(1)
		go func(dim int) {
			defer wg.Done()
			errs[dim] = fitDimension(
				cal.Canonical.Tau,
				cal.Sets[dim],
				phases,
				d.Series(dim),
				cal.Velocity[dim],
				cal.Accel[dim],
				goal[dim],
			)
		}(dim)
	}
	wg.Wait()
	for dim, err := range errs {
		if err != nil {
			return nil, &FitError{Dim: dim, Wrapped: err}
		}
	}

	initVel := make(motion.State, dims)
	for dim := range initVel {
		initVel[dim] = cal.Velocity[dim][0]
	}

	m := &Model{
		Canonical:    cal.Canonical,
		Sets:         cal.Sets,
		Start:        d.First(),
		Goal:         goal,
		InitVelocity: initVel,
		Dt:           d.Duration() / float64(d.Len()-1),
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// fitDimension solves one dimension's regression and writes the weights into
// its kernel set.
func fitDimension(tau float64, set basis.Set, phases, pos, vel, acc []float64, goal float64) error {
	n := len(pos)
	k := len(set)

	target := make([]float64, n)
	for i := range target {
		target[i] = tau*tau*acc[i] - alphaZ*(betaZ*(goal-pos[i])-tau*vel[i])
	}

	psi := mat.NewDense(n, k, nil)
	for i, s := range phases {
		for j, fn := range set {
			psi.Set(i, j, fn.Activate(s))
		}
	}

	weighted := mat.NewVecDense(n, nil)
	squared := mat.NewVecDense(n, nil)
	for i, s := range phases {
		weighted.SetVec(i, s*target[i])
		squared.SetVec(i, s*s)
	}

	num := mat.NewVecDense(k, nil)
	den := mat.NewVecDense(k, nil)
	num.MulVec(psi.T(), weighted)
	den.MulVec(psi.T(), squared)

	if floats.Sum(den.RawVector().Data) <= 0 {
		return ErrSingularFit
	}
	floats.AddConst(forcingFloor, den.RawVector().Data)
	num.DivElemVec(num, den)

	for j := range set {
		set[j].Weight = num.AtVec(j)
	}
	return set.Validate()
}
