package motion

import (
	"fmt"
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// Demonstration is a recorded motion: one timestamp per sample, all samples
// sharing a dimensionality. It is the read-only input to fitting; the
// constructor is the single validation point.
type Demonstration struct {
	Times   []float64
	Samples []State
}

func NewDemonstration(times []float64, samples []State) (*Demonstration, error) {
	if len(times) == 0 || len(samples) == 0 {
		return nil, fmt.Errorf("empty demonstration: %w", ErrInsufficientData)
	}
	if len(times) != len(samples) {
		return nil, fmt.Errorf("%d timestamps for %d samples: %w", len(times), len(samples), ErrDimensionMismatch)
	}
	dims := len(samples[0])
	if dims == 0 {
		return nil, fmt.Errorf("zero-dimensional samples: %w", ErrDimensionMismatch)
	}
	for i, s := range samples {
		if len(s) != dims {
			return nil, fmt.Errorf("sample %d has %d dims, want %d: %w", i, len(s), dims, ErrDimensionMismatch)
		}
		if !s.IsValid() {
			return nil, fmt.Errorf("sample %d: %w", i, ErrInvalidValue)
		}
	}
	for i, t := range times {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil, fmt.Errorf("timestamp %d: %w", i, ErrInvalidValue)
		}
		if i > 0 && t <= times[i-1] {
			return nil, fmt.Errorf("timestamp %d (%g after %g): %w", i, t, times[i-1], ErrTimestampOrder)
		}
	}
	return &Demonstration{Times: times, Samples: samples}, nil
}

func (d *Demonstration) Len() int  { return len(d.Samples) }
func (d *Demonstration) Dims() int { return len(d.Samples[0]) }

func (d *Demonstration) Duration() float64 {
	return d.Times[len(d.Times)-1] - d.Times[0]
}

// Elapsed returns the timestamps re-based so the first sample sits at t=0.
func (d *Demonstration) Elapsed() []float64 {
	out := make([]float64, len(d.Times))
	for i, t := range d.Times {
		out[i] = t - d.Times[0]
	}
	return out
}

func (d *Demonstration) First() State { return d.Samples[0].Clone() }
func (d *Demonstration) Last() State  { return d.Samples[len(d.Samples)-1].Clone() }

// Series returns a copy of one dimension's value sequence.
func (d *Demonstration) Series(dim int) []float64 {
	out := make([]float64, len(d.Samples))
	for i, s := range d.Samples {
		out[i] = s[dim]
	}
	return out
}

func (d *Demonstration) Clone() *Demonstration {
	times := make([]float64, len(d.Times))
	copy(times, d.Times)
	samples := make([]State, len(d.Samples))
	for i, s := range d.Samples {
		samples[i] = s.Clone()
	}
	return &Demonstration{Times: times, Samples: samples}
}

// Trajectory is a reproduced motion: positions and velocities on a uniform
// time grid, owned by the caller.
type Trajectory struct {
	Times      []float64
	States     []State
	Velocities []State
}

func (tr *Trajectory) Len() int { return len(tr.States) }

func (tr *Trajectory) Dims() int {
	if len(tr.States) == 0 {
		return 0
	}
	return len(tr.States[0])
}

func (tr *Trajectory) Duration() float64 {
	if len(tr.Times) < 2 {
		return 0
	}
	return tr.Times[len(tr.Times)-1] - tr.Times[0]
}

// Series returns a copy of one dimension's position sequence.
func (tr *Trajectory) Series(dim int) []float64 {
	out := make([]float64, len(tr.States))
	for i, s := range tr.States {
		out[i] = s[dim]
	}
	return out
}
