// Package align warps repeated demonstrations of one motion onto a shared
// timeline so they can be combined before fitting.
package align

import (
	"errors"
	"fmt"
	"math"

	"github.com/movlab/motionprim/internal/motion"
)

// ErrEmptySequence indicates a warp input with no samples.
var ErrEmptySequence = errors.New("align: empty sequence")

// Options configures the warp computation.
type Options struct {
	// Window is the Sakoe-Chiba band half-width: sample pairs with
	// |i-j| beyond it are never matched. Zero or negative disables the
	// band. The band is widened to the length difference of the inputs
	// so a path always exists.
	Window int
}

// Path computes the dynamic time warping distance between two state
// sequences and the optimal alignment path. The local cost is the
// Euclidean distance between states. The returned path is a sequence of
// index pairs (i, j) into a and b, starting at (0, 0), ending at
// (len(a)-1, len(b)-1), non-decreasing in both coordinates.
func Path(a, b []motion.State, opts *Options) (float64, [][2]int, error) {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return 0, nil, ErrEmptySequence
	}
	dims := len(a[0])
	if err := checkDims(a, dims); err != nil {
		return 0, nil, err
	}
	if err := checkDims(b, dims); err != nil {
		return 0, nil, err
	}

	window := n + m
	if opts != nil && opts.Window > 0 {
		window = opts.Window
		if diff := n - m; diff > window {
			window = diff
		} else if -diff > window {
			window = -diff
		}
	}

	inf := math.Inf(1)
	dp := make([][]float64, n+1)
	for i := range dp {
		dp[i] = make([]float64, m+1)
		for j := range dp[i] {
			dp[i][j] = inf
		}
	}
	dp[0][0] = 0

	for i := 1; i <= n; i++ {
		lo, hi := i-window, i+window
		if lo < 1 {
			lo = 1
		}
		if hi > m {
			hi = m
		}
		for j := lo; j <= hi; j++ {
			best := dp[i-1][j-1]
			if dp[i-1][j] < best {
				best = dp[i-1][j]
			}
			if dp[i][j-1] < best {
				best = dp[i][j-1]
			}
			if math.IsInf(best, 1) {
				continue
			}
			dp[i][j] = localCost(a[i-1], b[j-1]) + best
		}
	}

	dist := dp[n][m]
	path := backtrack(dp, n, m)
	return dist, path, nil
}

// backtrack walks the filled matrix from (n, m) to (1, 1), preferring the
// diagonal on ties, and returns the path in forward order.
func backtrack(dp [][]float64, n, m int) [][2]int {
	path := make([][2]int, 0, n+m)
	i, j := n, m
	for i > 1 || j > 1 {
		path = append(path, [2]int{i - 1, j - 1})
		switch {
		case i == 1:
			j--
		case j == 1:
			i--
		default:
			diag, up, left := dp[i-1][j-1], dp[i-1][j], dp[i][j-1]
			if diag <= up && diag <= left {
				i--
				j--
			} else if up <= left {
				i--
			} else {
				j--
			}
		}
	}
	path = append(path, [2]int{0, 0})
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return path
}

func checkDims(seq []motion.State, dims int) error {
	for i, s := range seq {
		if len(s) != dims {
			return fmt.Errorf("align: sample %d has %d dims, want %d: %w", i, len(s), dims, motion.ErrDimensionMismatch)
		}
	}
	return nil
}

// localCost avoids State.Sub to keep the O(n*m) fill allocation-free.
func localCost(a, b motion.State) float64 {
	sum := 0.0
	for d := range a {
		diff := a[d] - b[d]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}
