package calibrate

import "math"

// Feature marks a confirmed direction reversal in a profile, the kinematic
// signature the selector concentrates kernels around.
type Feature struct {
	Index      int
	Time       float64
	Value      float64
	Prominence float64
}

// TurningPoints scans a sampled profile for interior extrema with a reversal
// threshold: an extreme counts only once the profile has moved against it by
// at least delta. Plateaus and sub-threshold jitter confirm nothing, and a
// monotone profile yields no features at all. Runs in one pass plus a
// prominence sweep.
func TurningPoints(times, values []float64, delta float64) []Feature {
	if delta <= 0 || len(values) < 3 {
		return nil
	}

	var feats []Feature
	dir := 0
	extIdx := 0
	minIdx, maxIdx := 0, 0
	for k := 1; k < len(values); k++ {
		v := values[k]
		switch dir {
		case 0:
			if v < values[minIdx] {
				minIdx = k
			}
			if v > values[maxIdx] {
				maxIdx = k
			}
			if v-values[minIdx] >= delta {
				dir, extIdx = 1, maxIdx
			} else if values[maxIdx]-v >= delta {
				dir, extIdx = -1, minIdx
			}
		case 1:
			if v > values[extIdx] {
				extIdx = k
			} else if values[extIdx]-v >= delta {
				feats = append(feats, Feature{Index: extIdx, Time: times[extIdx], Value: values[extIdx]})
				dir, extIdx = -1, k
			}
		case -1:
			if v < values[extIdx] {
				extIdx = k
			} else if v-values[extIdx] >= delta {
				feats = append(feats, Feature{Index: extIdx, Time: times[extIdx], Value: values[extIdx]})
				dir, extIdx = 1, k
			}
		}
	}

	// Prominence: distance to the nearer neighboring pivot, with the profile
	// ends standing in as outermost pivots.
	for i := range feats {
		left := values[0]
		if i > 0 {
			left = feats[i-1].Value
		}
		right := values[len(values)-1]
		if i+1 < len(feats) {
			right = feats[i+1].Value
		}
		feats[i].Prominence = math.Min(math.Abs(feats[i].Value-left), math.Abs(feats[i].Value-right))
	}
	return feats
}
