// Package ode holds the fixed-step integrators the reproducer steps with.
package ode

import "github.com/movlab/motionprim/internal/motion"

// System is an autonomous first-order system over a flat state vector. Time
// enters explicitly because the forcing term is phase-gated.
type System interface {
	Derive(x motion.State, t float64) motion.State
	Dim() int
}

// Integrator advances a system by one step. Implementations may reuse
// internal scratch space; a single instance must not be stepped concurrently.
type Integrator interface {
	Step(sys System, x motion.State, t, dt float64) motion.State
	Name() string
}
