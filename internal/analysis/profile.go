package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/movlab/motionprim/internal/motion"
)

// ErrLengthMismatch indicates two trajectories that cannot be compared
// sample by sample.
var ErrLengthMismatch = errors.New("analysis: trajectory lengths differ")

// RMSError is the root-mean-square Euclidean deviation between two
// trajectories of equal length and dimensionality.
func RMSError(a, b *motion.Trajectory) (float64, error) {
	if a.Len() != b.Len() {
		return 0, fmt.Errorf("%d vs %d samples: %w", a.Len(), b.Len(), ErrLengthMismatch)
	}
	if a.Dims() != b.Dims() {
		return 0, fmt.Errorf("analysis: %d vs %d dims: %w", a.Dims(), b.Dims(), motion.ErrDimensionMismatch)
	}
	if a.Len() == 0 {
		return 0, nil
	}
	sum := 0.0
	for i := range a.States {
		for d := range a.States[i] {
			diff := a.States[i][d] - b.States[i][d]
			sum += diff * diff
		}
	}
	return math.Sqrt(sum / float64(a.Len())), nil
}

// EndpointError is the Euclidean distance from the trajectory's final
// state to goal.
func EndpointError(tr *motion.Trajectory, goal motion.State) float64 {
	if tr.Len() == 0 {
		return goal.Norm()
	}
	return tr.States[tr.Len()-1].Sub(goal).Norm()
}

// SpeedProfile returns the Euclidean speed at every sample.
func SpeedProfile(tr *motion.Trajectory) []float64 {
	out := make([]float64, len(tr.Velocities))
	for i, v := range tr.Velocities {
		out[i] = v.Norm()
	}
	return out
}

// PeakSpeed locates the fastest sample, returning its time and speed. An
// empty trajectory reports (0, 0).
func PeakSpeed(tr *motion.Trajectory) (at, speed float64) {
	for i, v := range tr.Velocities {
		if s := v.Norm(); s > speed {
			at, speed = tr.Times[i], s
		}
	}
	return at, speed
}
