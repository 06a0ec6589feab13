package canonical

import (
	"math"
	"testing"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name                  string
		tau, duration, cutoff float64
		wantErr               bool
	}{
		{"valid", 1.0, 1.0, 1e-3, false},
		{"still tail", 0.8, 1.0, 1e-3, false},
		{"zero tau", 0, 1.0, 1e-3, true},
		{"negative tau", -1, 1.0, 1e-3, true},
		{"duration below tau", 1.0, 0.5, 1e-3, true},
		{"cutoff zero", 1.0, 1.0, 0, true},
		{"cutoff one", 1.0, 1.0, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWithCutoff(tt.tau, tt.duration, tt.cutoff)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestPhaseAt_Boundaries(t *testing.T) {
	cs, err := New(2.0, 2.0)
	if err != nil {
		t.Fatal(err)
	}

	if got := cs.PhaseAt(0); got != 1 {
		t.Errorf("PhaseAt(0) = %v, want 1", got)
	}
	if got := cs.PhaseAt(-1); got != 1 {
		t.Errorf("PhaseAt(-1) = %v, want 1", got)
	}
	// The decay rate is bound to the cutoff: s(tau) == cutoff exactly.
	if got := cs.PhaseAt(cs.Tau); math.Abs(got-cs.Cutoff) > 1e-15 {
		t.Errorf("PhaseAt(tau) = %v, want %v", got, cs.Cutoff)
	}
	if got := cs.PhaseAt(2 * cs.Tau); got >= cs.Cutoff {
		t.Errorf("PhaseAt(2*tau) = %v, not below cutoff", got)
	}
}

func TestPhaseAt_Monotone(t *testing.T) {
	cs, err := New(1.5, 2.0)
	if err != nil {
		t.Fatal(err)
	}

	prev := cs.PhaseAt(0)
	for k := 1; k <= 100; k++ {
		s := cs.PhaseAt(float64(k) * 0.02)
		if s >= prev {
			t.Fatalf("phase not strictly decreasing at step %d: %v >= %v", k, s, prev)
		}
		prev = s
	}
}

func TestTimeOf_InvertsPhaseAt(t *testing.T) {
	cs, err := New(0.7, 1.0)
	if err != nil {
		t.Fatal(err)
	}

	for _, tt := range []float64{0, 0.1, 0.35, 0.7} {
		s := cs.PhaseAt(tt)
		back, err := cs.TimeOf(s)
		if err != nil {
			t.Fatalf("TimeOf(%v): %v", s, err)
		}
		if math.Abs(back-tt) > 1e-12 {
			t.Errorf("TimeOf(PhaseAt(%v)) = %v", tt, back)
		}
	}

	if _, err := cs.TimeOf(0); err == nil {
		t.Error("TimeOf(0) accepted")
	}
	if _, err := cs.TimeOf(1.5); err == nil {
		t.Error("TimeOf(1.5) accepted")
	}
}

func TestRescaled_StretchesPhaseProfile(t *testing.T) {
	cs, err := New(0.9, 1.0)
	if err != nil {
		t.Fatal(err)
	}

	doubled, err := cs.Rescaled(2.0)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(doubled.Tau-1.8) > 1e-12 {
		t.Errorf("rescaled tau = %v, want 1.8", doubled.Tau)
	}
	for _, tt := range []float64{0, 0.25, 0.5, 0.9} {
		a := cs.PhaseAt(tt)
		b := doubled.PhaseAt(2 * tt)
		if math.Abs(a-b) > 1e-12 {
			t.Errorf("phase profile not stretched: s(%v)=%v vs s'(%v)=%v", tt, a, 2*tt, b)
		}
	}

	if _, err := cs.Rescaled(0); err == nil {
		t.Error("zero duration accepted")
	}
}

func TestRescaled_TauAtFullDuration(t *testing.T) {
	// A demonstration with no still tail keeps Tau == Duration. Scaling that
	// pair can round the new time constant one ulp past the new duration;
	// the rescale must land exactly on it instead of failing validation.
	cs, err := New(0.52, 0.52)
	if err != nil {
		t.Fatal(err)
	}

	for _, d := range []float64{1.43, 1.95, 2.86} {
		scaled, err := cs.Rescaled(d)
		if err != nil {
			t.Fatalf("Rescaled(%v): %v", d, err)
		}
		if scaled.Tau != d {
			t.Errorf("Rescaled(%v): tau = %v, want the new duration", d, scaled.Tau)
		}
		if math.Abs(scaled.PhaseAt(d)-scaled.Cutoff) > 1e-15 {
			t.Errorf("Rescaled(%v): PhaseAt(end) = %v, want cutoff %v", d, scaled.PhaseAt(d), scaled.Cutoff)
		}
	}
}
