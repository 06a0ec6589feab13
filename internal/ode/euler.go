package ode

import "github.com/movlab/motionprim/internal/motion"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(sys System, x motion.State, t, dt float64) motion.State {
	dx := sys.Derive(x, t)
	result := make(motion.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}
