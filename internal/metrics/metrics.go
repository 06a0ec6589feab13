// Package metrics provides streaming observers for reproduced trajectories.
// A metric sees every sample as it is produced and reduces the run to a
// single number.
package metrics

import "github.com/movlab/motionprim/internal/motion"

type Metric interface {
	Name() string
	Observe(t float64, pos, vel motion.State)
	Value() float64
	Reset()
}
