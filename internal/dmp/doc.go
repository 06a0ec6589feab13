// Package dmp encodes a demonstrated motion as a dynamic movement primitive
// and replays it toward new boundary conditions.
//
// Each dimension follows a critically damped spring-damper pulled to the
// goal, reshaped by a learned forcing term that a shared phase variable gates
// to zero as the motion completes:
//
//	tau * dy/dt = z
//	tau * dz/dt = alpha*(beta*(g - y) - z) + A*f(s)
//
// The formulation follows Ijspeert, Nakanishi, Hoffmann, Pastor and Schaal,
// "Dynamical movement primitives: learning attractor models for motor
// behaviors" (Neural Computation 25, 2013). Forcing weights come from a
// closed-form locally weighted regression; nothing is searched iteratively.
//
//	model, _ := dmp.Fit(demo, calibrate.Default())
//	rep, _ := dmp.NewReproducer(model)
//	traj, _ := rep.Run(dmp.Request{Start: s, Goal: g, Duration: 2.0})
//
// # Thread Safety
//
// A Model is immutable after Fit and safe to share. Reproducer instances
// carry integrator scratch state and are NOT safe for concurrent runs; make
// one per goroutine.
package dmp
