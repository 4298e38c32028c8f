package progress

import (
	"math"
	"time"
)

const (
	// StallCeiling is the highest fraction shown while the task is unfinished
	StallCeiling = 0.95

	easeKnee      = 0.6
	easeKneeValue = 0.7
	easeTail      = 0.25
)

// Ease maps linear time progress t in [0,1] onto [0, 0.95].
// A cubic ease-out reaches 0.7 at t=0.6, then a quadratic ease-out
// covers the remaining 0.25 until t=1.
func Ease(t float64) float64 {
	t = clamp01(t)

	if t < easeKnee {
		tt := t / easeKnee
		return easeKneeValue * (1 - math.Pow(1-tt, 3))
	}

	tt := (t - easeKnee) / (1 - easeKnee)
	return easeKneeValue + easeTail*(1-math.Pow(1-tt, 2))
}

// TimeProgress returns elapsed/estimated clamped to [0,1]
func TimeProgress(elapsed, estimated time.Duration) float64 {
	if estimated <= 0 {
		return 1
	}
	return clamp01(float64(elapsed) / float64(estimated))
}

// FractionAt returns the displayed fraction for time progress t.
// Completed runs are always 1; unfinished runs never exceed StallCeiling.
func FractionAt(t float64, completed bool) float64 {
	if completed {
		return 1
	}

	t = clamp01(t)
	if t >= 1 {
		return StallCeiling
	}
	return Ease(t) * StallCeiling
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(1, math.Max(0, v))
}
