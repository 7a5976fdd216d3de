package analysis

import "math"

// SettlingStep returns the first index from which every sample of series
// is within tol of the matching target, or -1 if the series never
// settles. targets may be shorter than series; its last value is then
// held.
func SettlingStep(series, targets []float64, tol float64) int {
	if len(series) == 0 || len(targets) == 0 {
		return -1
	}
	settled := -1
	for i, v := range series {
		t := targets[len(targets)-1]
		if i < len(targets) {
			t = targets[i]
		}
		if math.Abs(v-t) <= tol {
			if settled < 0 {
				settled = i
			}
		} else {
			settled = -1
		}
	}
	return settled
}

// Overshoot is the largest excursion of series past its final target, in
// the direction of travel from the first sample. It is zero when the
// series never crosses the target.
func Overshoot(series []float64, target float64) float64 {
	if len(series) == 0 {
		return 0
	}
	dir := 1.0
	if series[0] > target {
		dir = -1
	}
	max := 0.0
	for _, v := range series {
		if d := dir * (v - target); d > max {
			max = d
		}
	}
	return max
}
