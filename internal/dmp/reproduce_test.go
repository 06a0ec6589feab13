package dmp_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/movlab/motionprim/internal/calibrate"
	"github.com/movlab/motionprim/internal/dmp"
	"github.com/movlab/motionprim/internal/metrics"
	"github.com/movlab/motionprim/internal/motion"
	"github.com/movlab/motionprim/internal/ode"
	"github.com/movlab/motionprim/internal/synth"
)

func fitReach(samples int) (*dmp.Model, *motion.Demonstration) {
	d := reachDemo(samples)
	model, err := dmp.Fit(d, calibrate.Default())
	Expect(err).NotTo(HaveOccurred())
	return model, d
}

func reproduce(model *dmp.Model, req dmp.Request) *motion.Trajectory {
	rep, err := dmp.NewReproducer(model)
	Expect(err).NotTo(HaveOccurred())
	traj, err := rep.Run(req)
	Expect(err).NotTo(HaveOccurred())
	return traj
}

func speedPeakTime(traj *motion.Trajectory) float64 {
	best, at := -1.0, 0
	for k, v := range traj.Velocities {
		if s := v.Norm(); s > best {
			best, at = s, k
		}
	}
	return traj.Times[at]
}

var _ = Describe("Reproduce", func() {
	It("hits both boundaries exactly", func() {
		model, _ := fitReach(200)
		start := motion.State{-0.5}
		goal := motion.State{2.5}

		traj := reproduce(model, dmp.Request{Start: start, Goal: goal})

		Expect(traj.States[0][0]).To(BeNumerically("~", start[0], 1e-6))
		Expect(traj.States[traj.Len()-1][0]).To(BeNumerically("~", goal[0], 1e-6))
	})

	It("tracks the demonstration at its own boundaries", func() {
		model, demo := fitReach(200)

		traj := reproduce(model, dmp.Request{Start: demo.First(), Goal: demo.Last()})
		Expect(traj.Len()).To(Equal(demo.Len()))

		sum := 0.0
		for k := range traj.States {
			d := traj.States[k][0] - demo.Samples[k][0]
			sum += d * d
		}
		rms := math.Sqrt(sum / float64(traj.Len()))
		Expect(rms).To(BeNumerically("<", 0.05), "reproduction drifted from the demonstration")
		Expect(maxAbsDiff(traj.Series(0), demo.Series(0))).To(BeNumerically("<", 0.1))
	})

	It("keeps the path shape under displacement scaling", func() {
		model, _ := fitReach(200)

		unit := reproduce(model, dmp.Request{Start: motion.State{0}, Goal: motion.State{1}})
		tall := reproduce(model, dmp.Request{Start: motion.State{0}, Goal: motion.State{3}})

		// The transformation system is linear in the displacement, so the
		// tall run is the unit run scaled by three.
		for k := range unit.States {
			Expect(tall.States[k][0]).To(BeNumerically("~", 3*unit.States[k][0], 1e-6))
		}
	})

	It("scales feature timing with the requested duration", func() {
		model, demo := fitReach(200)

		base := reproduce(model, dmp.Request{Start: demo.First(), Goal: demo.Last()})
		slow := reproduce(model, dmp.Request{Start: demo.First(), Goal: demo.Last(), Duration: 2.0})

		Expect(slow.Duration()).To(BeNumerically("~", 2.0, 1e-9))
		ratio := speedPeakTime(slow) / speedPeakTime(base)
		Expect(ratio).To(BeNumerically("~", 2.0, 0.2))
	})

	It("approaches a farther goal monotonically from a straight ramp", func() {
		model, err := dmp.Fit(rampDemo(), calibrate.Default())
		Expect(err).NotTo(HaveOccurred())

		traj := reproduce(model, dmp.Request{Start: motion.State{0}, Goal: motion.State{2}, Duration: 1.0})

		last := traj.States[traj.Len()-1][0]
		Expect(last).To(BeNumerically("~", 2.0, 1e-6))
		for k := 1; k < traj.Len(); k++ {
			Expect(traj.States[k][0]).To(BeNumerically(">=", traj.States[k-1][0]-0.004),
				"position fell back at step %d", k)
		}
	})

	It("holds nearly still when start equals goal", func() {
		model, _ := fitReach(200)
		here := motion.State{0.7}

		traj := reproduce(model, dmp.Request{Start: here, Goal: here.Clone()})

		for k := range traj.States {
			Expect(traj.States[k].IsValid()).To(BeTrue())
			Expect(traj.States[k][0]).To(BeNumerically("~", 0.7, 1e-9))
		}
	})

	It("replays a motionless demonstration at a new duration", func() {
		d, err := synth.Line(motion.State{0.7}, motion.State{0.7}, 0.52, 53)
		Expect(err).NotTo(HaveOccurred())
		model, err := dmp.Fit(d, calibrate.Default())
		Expect(err).NotTo(HaveOccurred())
		// Nothing ever moves, so the time constant falls back to the full
		// recorded span and rescaling starts from Tau == Duration.
		Expect(model.Canonical.Tau).To(Equal(model.Canonical.Duration))

		traj := reproduce(model, dmp.Request{Start: d.First(), Goal: d.Last(), Duration: 1.43})

		Expect(traj.Duration()).To(BeNumerically("~", 1.43, 1e-9))
		for _, s := range traj.States {
			Expect(s[0]).To(BeNumerically("~", 0.7, 1e-9))
		}
	})

	It("keeps velocity continuous across the grid", func() {
		model, demo := fitReach(200)
		traj := reproduce(model, dmp.Request{Start: demo.First(), Goal: demo.Last()})

		vmax := 0.0
		for _, v := range traj.Velocities {
			if s := v.Norm(); s > vmax {
				vmax = s
			}
		}
		worstJump := 0.0
		for k := 1; k < traj.Len(); k++ {
			if j := traj.Velocities[k].Sub(traj.Velocities[k-1]).Norm(); j > worstJump {
				worstJump = j
			}
		}
		Expect(worstJump).To(BeNumerically("<", 0.2*vmax), "velocity jumped between samples")
	})

	It("rejects malformed requests", func() {
		model, _ := fitReach(80)
		rep, err := dmp.NewReproducer(model)
		Expect(err).NotTo(HaveOccurred())

		_, err = rep.Run(dmp.Request{Start: motion.State{0, 0}, Goal: motion.State{1}})
		Expect(errors.Is(err, motion.ErrDimensionMismatch)).To(BeTrue(), "got %v", err)

		_, err = rep.Run(dmp.Request{Start: motion.State{0}, Goal: motion.State{1}, Duration: -2})
		Expect(errors.Is(err, dmp.ErrInvalidDuration)).To(BeTrue(), "got %v", err)

		_, err = rep.Run(dmp.Request{Start: motion.State{0}, Goal: motion.State{1}, Dt: 5})
		Expect(errors.Is(err, dmp.ErrInvalidStep)).To(BeTrue(), "got %v", err)

		_, err = rep.Run(dmp.Request{Start: motion.State{math.NaN()}, Goal: motion.State{1}})
		Expect(errors.Is(err, motion.ErrInvalidValue)).To(BeTrue(), "got %v", err)
	})

	It("reports a typed error when the motion cannot settle", func() {
		model, _ := fitReach(120)
		rep, err := dmp.NewReproducer(model)
		Expect(err).NotTo(HaveOccurred())
		rep.SetGoalTolerance(1e-12)

		_, err = rep.Run(dmp.Request{Start: motion.State{0}, Goal: motion.State{1}})
		Expect(errors.Is(err, dmp.ErrNotConverged)).To(BeTrue(), "got %v", err)

		var rerr *dmp.ReproduceError
		Expect(errors.As(err, &rerr)).To(BeTrue())
		Expect(rerr.Time).To(BeNumerically(">", 0))
	})

	It("also integrates with the euler scheme", func() {
		model, demo := fitReach(200)
		rep, err := dmp.NewReproducer(model)
		Expect(err).NotTo(HaveOccurred())
		rep.SetIntegrator(ode.NewEuler())

		traj, err := rep.Run(dmp.Request{Start: demo.First(), Goal: demo.Last()})
		Expect(err).NotTo(HaveOccurred())
		Expect(maxAbsDiff(traj.Series(0), demo.Series(0))).To(BeNumerically("<", 0.15))
	})

	It("feeds attached metrics", func() {
		model, demo := fitReach(200)
		rep, err := dmp.NewReproducer(model)
		Expect(err).NotTo(HaveOccurred())

		goal := demo.Last()
		rep.AddMetric(metrics.NewPathLength())
		rep.AddMetric(metrics.NewMaxSpeed())
		rep.AddMetric(metrics.NewGoalDistance(goal))

		_, err = rep.Run(dmp.Request{Start: demo.First(), Goal: goal})
		Expect(err).NotTo(HaveOccurred())

		vals := rep.MetricValues()
		Expect(vals["path_length"]).To(BeNumerically("~", 1.0, 0.1))
		Expect(vals["max_speed"]).To(BeNumerically("~", 1.875, 0.3))
		Expect(vals["goal_distance"]).To(BeNumerically("<", 0.05))
	})

	It("reproduces a planar arc in both dimensions", func() {
		d, err := synth.Arc(motion.State{0, 0}, motion.State{2, 1}, 1.0, 200)
		Expect(err).NotTo(HaveOccurred())
		model, err := dmp.Fit(d, calibrate.Default())
		Expect(err).NotTo(HaveOccurred())

		traj := reproduce(model, dmp.Request{Start: d.First(), Goal: d.Last()})

		// The bow lifts the second dimension well past its endpoint span
		// before settling back; the replay keeps most of that lift.
		peak := 0.0
		for _, s := range traj.States {
			if s[1] > peak {
				peak = s[1]
			}
		}
		Expect(peak).To(BeNumerically(">", 1.3))
		Expect(peak).To(BeNumerically("<", 1.8))
	})

	It("flattens a dimension whose demonstrated endpoints coincide", func() {
		d, err := synth.Arc(motion.State{0, 0}, motion.State{2, 0}, 1.0, 200)
		Expect(err).NotTo(HaveOccurred())
		model, err := dmp.Fit(d, calibrate.Default())
		Expect(err).NotTo(HaveOccurred())

		traj := reproduce(model, dmp.Request{Start: d.First(), Goal: d.Last()})

		// Zero demonstrated displacement gives the second dimension no
		// amplitude reference, so its forcing shuts off and the replay holds
		// the straight line between the endpoints.
		for _, s := range traj.States {
			Expect(math.Abs(s[1])).To(BeNumerically("<", 1e-9))
		}
	})
})
