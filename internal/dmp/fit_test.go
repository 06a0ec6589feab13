package dmp_test

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/movlab/motionprim/internal/calibrate"
	"github.com/movlab/motionprim/internal/dmp"
	"github.com/movlab/motionprim/internal/motion"
	"github.com/movlab/motionprim/internal/synth"
)

func reachDemo(samples int) *motion.Demonstration {
	d, err := synth.MinimumJerk(motion.State{0}, motion.State{1}, 1.0, samples)
	Expect(err).NotTo(HaveOccurred())
	return d
}

func rampDemo() *motion.Demonstration {
	d, err := synth.Line(motion.State{0}, motion.State{1}, 1.0, 10)
	Expect(err).NotTo(HaveOccurred())
	return d
}

var _ = Describe("Fit", func() {
	It("learns a valid model from a smooth reach", func() {
		model, err := dmp.Fit(reachDemo(200), calibrate.Default())
		Expect(err).NotTo(HaveOccurred())
		Expect(model.Validate()).To(Succeed())
		Expect(model.Dims()).To(Equal(1))
		Expect(model.Start).To(Equal(motion.State{0}))
		Expect(model.Goal).To(Equal(motion.State{1}))

		nonzero := 0
		for _, w := range model.Sets[0].Weights() {
			if w != 0 {
				nonzero++
			}
		}
		Expect(nonzero).To(BeNumerically(">", 0), "forcing weights all zero")
	})

	It("is deterministic for identical inputs", func() {
		a, err := dmp.Fit(reachDemo(150), calibrate.Default())
		Expect(err).NotTo(HaveOccurred())
		b, err := dmp.Fit(reachDemo(150), calibrate.Default())
		Expect(err).NotTo(HaveOccurred())
		Expect(reflect.DeepEqual(a, b)).To(BeTrue(), "re-fit changed parameters")
	})

	It("keeps the kernel floor on a ten-sample straight ramp", func() {
		model, err := dmp.Fit(rampDemo(), calibrate.Default())
		Expect(err).NotTo(HaveOccurred())
		Expect(model.Sets[0]).To(HaveLen(calibrate.Default().MinBasis))
	})

	It("rejects a single-sample demonstration", func() {
		d, err := motion.NewDemonstration([]float64{0}, []motion.State{{1}})
		Expect(err).NotTo(HaveOccurred())

		_, err = dmp.Fit(d, calibrate.Default())
		Expect(errors.Is(err, motion.ErrInsufficientData)).To(BeTrue(), "got %v", err)
	})

	It("fits a still demonstration into a plain point attractor", func() {
		d, err := synth.Line(motion.State{2, 2}, motion.State{2.0000000001, 2}, 1.0, 50)
		Expect(err).NotTo(HaveOccurred())

		model, err := dmp.Fit(d, calibrate.Default())
		Expect(err).NotTo(HaveOccurred())
		Expect(model.Validate()).To(Succeed())
	})

	It("fits each dimension independently", func() {
		d, err := synth.Arc(motion.State{0, 0}, motion.State{1, 1}, 1.0, 120)
		Expect(err).NotTo(HaveOccurred())

		model, err := dmp.Fit(d, calibrate.Default())
		Expect(err).NotTo(HaveOccurred())
		Expect(model.Dims()).To(Equal(2))
		Expect(reflect.DeepEqual(model.Sets[0].Weights(), model.Sets[1].Weights())).
			To(BeFalse(), "distinct dimensions learned identical weights")
	})
})

var _ = Describe("Model codec", func() {
	It("round-trips exactly through JSON", func() {
		model, err := dmp.Fit(reachDemo(120), calibrate.Default())
		Expect(err).NotTo(HaveOccurred())

		data, err := json.Marshal(model)
		Expect(err).NotTo(HaveOccurred())

		var back dmp.Model
		Expect(json.Unmarshal(data, &back)).To(Succeed())
		Expect(reflect.DeepEqual(&back, model)).To(BeTrue(), "decoded model differs")
	})

	It("rejects unknown versions and broken arrays", func() {
		model, err := dmp.Fit(reachDemo(60), calibrate.Default())
		Expect(err).NotTo(HaveOccurred())
		data, err := json.Marshal(model)
		Expect(err).NotTo(HaveOccurred())

		var raw map[string]json.RawMessage
		Expect(json.Unmarshal(data, &raw)).To(Succeed())

		raw["version"] = json.RawMessage("99")
		broken, err := json.Marshal(raw)
		Expect(err).NotTo(HaveOccurred())
		Expect(json.Unmarshal(broken, &dmp.Model{})).NotTo(Succeed())

		raw["version"] = json.RawMessage("1")
		raw["widths"] = json.RawMessage("[[]]")
		broken, err = json.Marshal(raw)
		Expect(err).NotTo(HaveOccurred())
		Expect(json.Unmarshal(broken, &dmp.Model{})).NotTo(Succeed())
	})

	It("reproduces identically after a decode", func() {
		model, err := dmp.Fit(reachDemo(150), calibrate.Default())
		Expect(err).NotTo(HaveOccurred())
		data, err := json.Marshal(model)
		Expect(err).NotTo(HaveOccurred())
		var back dmp.Model
		Expect(json.Unmarshal(data, &back)).To(Succeed())

		req := dmp.Request{Start: motion.State{0.5}, Goal: motion.State{3}}
		repA, err := dmp.NewReproducer(model)
		Expect(err).NotTo(HaveOccurred())
		repB, err := dmp.NewReproducer(&back)
		Expect(err).NotTo(HaveOccurred())

		trajA, err := repA.Run(req)
		Expect(err).NotTo(HaveOccurred())
		trajB, err := repB.Run(req)
		Expect(err).NotTo(HaveOccurred())

		for k := range trajA.States {
			Expect(trajB.States[k][0]).To(Equal(trajA.States[k][0]))
		}
	})
})

func maxAbsDiff(a, b []float64) float64 {
	worst := 0.0
	for i := range a {
		if d := math.Abs(a[i] - b[i]); d > worst {
			worst = d
		}
	}
	return worst
}
