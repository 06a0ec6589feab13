// Package analysis provides frequency and quality measures for sampled
// motions.
//
// The package includes tools for inspecting demonstrations and
// reproductions:
//
//   - [PowerSpectrum]: one-sided amplitude spectrum of a sampled series
//   - [RMSError]: root-mean-square deviation between two trajectories
//   - [EndpointError]: distance from a trajectory's last state to a goal
//   - [SpeedProfile]: per-sample speed along a trajectory
//
// # Dominant Frequency
//
// The spectrum reports which oscillation dominates a recording:
//
//	spec := analysis.PowerSpectrum(d.Series(0), rate)
//	hz, _ := spec.Dominant()
package analysis
