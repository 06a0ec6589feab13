package motion

import (
	"math"
	"testing"
)

func rampDemo(n int, duration float64) *Demonstration {
	times := make([]float64, n)
	samples := make([]State, n)
	for k := range times {
		u := float64(k) / float64(n-1)
		times[k] = u * duration
		samples[k] = State{u}
	}
	d, err := NewDemonstration(times, samples)
	if err != nil {
		panic(err)
	}
	return d
}

func TestDerivatives_Ramp(t *testing.T) {
	d := rampDemo(10, 1.0)
	vel, acc := Derivatives(d)

	// Constant slope everywhere except the zero-padded tail.
	for k := 0; k < 9; k++ {
		if math.Abs(vel[0][k]-1.0) > 1e-9 {
			t.Errorf("vel[%d] = %v, want 1", k, vel[0][k])
		}
	}
	if vel[0][9] != 0 {
		t.Errorf("vel tail = %v, want 0", vel[0][9])
	}
	for k := 0; k < 8; k++ {
		if math.Abs(acc[0][k]) > 1e-9 {
			t.Errorf("acc[%d] = %v, want 0", k, acc[0][k])
		}
	}
	if acc[0][8] != 0 || acc[0][9] != 0 {
		t.Error("acc tail not zero-padded")
	}
}

func TestDerivatives_Quadratic(t *testing.T) {
	// y = t^2 over a non-uniform grid: forward differences give the
	// midpoint slope t_k + t_{k+1}.
	times := []float64{0, 0.1, 0.3, 0.6, 1.0}
	samples := make([]State, len(times))
	for k, tt := range times {
		samples[k] = State{tt * tt}
	}
	d, err := NewDemonstration(times, samples)
	if err != nil {
		t.Fatal(err)
	}

	vel, _ := Derivatives(d)
	for k := 0; k+1 < len(times); k++ {
		want := times[k] + times[k+1]
		if math.Abs(vel[0][k]-want) > 1e-9 {
			t.Errorf("vel[%d] = %v, want %v", k, vel[0][k], want)
		}
	}
}

func TestDerivatives_MultiDim(t *testing.T) {
	times := []float64{0, 1, 2}
	samples := []State{{0, 0}, {1, -2}, {2, -4}}
	d, err := NewDemonstration(times, samples)
	if err != nil {
		t.Fatal(err)
	}

	vel, _ := Derivatives(d)
	if vel[0][0] != 1 || vel[1][0] != -2 {
		t.Errorf("per-dim velocities wrong: %v %v", vel[0], vel[1])
	}
}
