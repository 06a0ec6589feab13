package motion

import (
	"errors"
	"math"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0, 3.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{1.0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_Clone(t *testing.T) {
	s := State{1, 2, 3}
	c := s.Clone()
	c[0] = 99
	if s[0] == 99 {
		t.Error("Clone did not create independent copy")
	}
}

func TestState_Norm(t *testing.T) {
	if got := (State{3, 4}).Norm(); math.Abs(got-5.0) > 1e-12 {
		t.Errorf("Norm = %v, want 5", got)
	}
	diff := State{4, 6}.Sub(State{1, 2})
	if diff[0] != 3 || diff[1] != 4 {
		t.Errorf("Sub failed: got %v", diff)
	}
}

func TestNewDemonstration(t *testing.T) {
	tests := []struct {
		name    string
		times   []float64
		samples []State
		wantErr error
	}{
		{"valid", []float64{0, 0.1, 0.2}, []State{{0}, {1}, {2}}, nil},
		{"empty", nil, nil, ErrInsufficientData},
		{"length mismatch", []float64{0, 0.1}, []State{{0}}, ErrDimensionMismatch},
		{"ragged dims", []float64{0, 0.1}, []State{{0}, {1, 2}}, ErrDimensionMismatch},
		{"zero dims", []float64{0}, []State{{}}, ErrDimensionMismatch},
		{"duplicate timestamp", []float64{0, 0.1, 0.1}, []State{{0}, {1}, {2}}, ErrTimestampOrder},
		{"decreasing timestamp", []float64{0, 0.2, 0.1}, []State{{0}, {1}, {2}}, ErrTimestampOrder},
		{"nan sample", []float64{0, 0.1}, []State{{0}, {math.NaN()}}, ErrInvalidValue},
		{"nan timestamp", []float64{0, math.NaN()}, []State{{0}, {1}}, ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDemonstration(tt.times, tt.samples)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDemonstration_Accessors(t *testing.T) {
	d, err := NewDemonstration(
		[]float64{1.0, 1.5, 2.0},
		[]State{{0, 10}, {1, 11}, {2, 12}},
	)
	if err != nil {
		t.Fatal(err)
	}

	if d.Len() != 3 || d.Dims() != 2 {
		t.Errorf("Len/Dims = %d/%d, want 3/2", d.Len(), d.Dims())
	}
	if d.Duration() != 1.0 {
		t.Errorf("Duration = %v, want 1", d.Duration())
	}

	el := d.Elapsed()
	if el[0] != 0 || el[2] != 1.0 {
		t.Errorf("Elapsed = %v, want [0 0.5 1]", el)
	}

	series := d.Series(1)
	if series[0] != 10 || series[2] != 12 {
		t.Errorf("Series(1) = %v", series)
	}

	first := d.First()
	first[0] = 99
	if d.Samples[0][0] == 99 {
		t.Error("First() leaked internal state")
	}

	c := d.Clone()
	c.Samples[1][0] = 99
	if d.Samples[1][0] == 99 {
		t.Error("Clone() leaked internal state")
	}
}

func TestTrajectory_Accessors(t *testing.T) {
	tr := &Trajectory{
		Times:      []float64{0, 0.5, 1.0},
		States:     []State{{0, 0}, {0.5, 1}, {1, 2}},
		Velocities: []State{{1, 2}, {1, 2}, {0, 0}},
	}
	if tr.Len() != 3 || tr.Dims() != 2 {
		t.Errorf("Len/Dims = %d/%d, want 3/2", tr.Len(), tr.Dims())
	}
	if tr.Duration() != 1.0 {
		t.Errorf("Duration = %v, want 1", tr.Duration())
	}
	if s := tr.Series(1); s[1] != 1 {
		t.Errorf("Series(1) = %v", s)
	}
}
