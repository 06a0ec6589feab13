// Package viz provides terminal-based visualization for motions.
//
// Static plots render through asciigraph; spatial paths use a Braille
// pixel canvas. Interactive playback runs on the Bubble Tea framework:
//
//   - [SeriesPlot], [Overlay]: time-series charts of trajectories
//   - [PathPlot]: 2D path on a [Canvas]
//   - [WriteSVG]: the same path as a standalone SVG file
//   - [Player]: replay of a reproduced trajectory at recorded speed
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	R     - Restart from the first sample
//	H/L   - Scrub backward/forward
//	+/-   - Double/halve replay speed
//	Q     - Quit
package viz
