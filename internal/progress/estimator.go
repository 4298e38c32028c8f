package progress

import (
	"fmt"
	"math"
	"time"
)

const (
	// DefaultEstimate is used when the input size is missing or invalid
	DefaultEstimate = 2500 * time.Millisecond

	// MaxEstimate caps every estimate
	MaxEstimate = 6 * time.Hour

	baseOverheadMs = 1200.0
	smallFloorMs   = 300.0
	largeFloorMs   = 5000.0
	smallInputMB   = 0.3
)

// Estimate returns the expected analysis time for an input of raw size.
// raw goes through NormalizeSize first; invalid sizes yield DefaultEstimate.
func Estimate(raw float64) time.Duration {
	bytes, ok := NormalizeSize(raw)
	if !ok {
		return DefaultEstimate
	}
	return EstimateBytes(bytes)
}

// EstimateBytes returns the expected analysis time for a size already known
// to be in bytes. Non-positive or non-finite sizes yield DefaultEstimate.
//
// The curve is piecewise: near-instant below 1 MB, superlinear up to 30 MB
// and steeper beyond that. Roughly 100 KB is instant, 3 MB about 20s,
// 10 MB one to two minutes and 1 GB about an hour.
func EstimateBytes(bytes float64) time.Duration {
	if math.IsNaN(bytes) || math.IsInf(bytes, 0) || bytes <= 0 {
		return DefaultEstimate
	}

	mb := bytes / (1024 * 1024)

	var seconds float64
	switch {
	case mb <= 1:
		seconds = 1 + 3*mb
	case mb <= 30:
		seconds = 5.2 * math.Pow(mb, 1.35)
	default:
		seconds = 1.9 * math.Pow(mb, 1.55)
	}

	ms := seconds*1000 + baseOverheadMs

	floor := largeFloorMs
	if mb < smallInputMB {
		floor = smallFloorMs
	}
	ms = math.Min(math.Max(ms, floor), float64(MaxEstimate/time.Millisecond))

	return time.Duration(ms * float64(time.Millisecond))
}

// FormatETA renders an estimate as a short label such as "~45s", "~2m" or "~3h".
// Minutes are used up to and including the sixty minute mark.
func FormatETA(d time.Duration) string {
	ms := float64(d) / float64(time.Millisecond)

	s := math.Max(1, math.Round(ms/1000))
	if s < 60 {
		return fmt.Sprintf("~%.0fs", s)
	}

	m := math.Round(s / 60)
	if m <= 60 {
		return fmt.Sprintf("~%.0fm", m)
	}

	h := math.Round(m / 60)
	return fmt.Sprintf("~%.0fh", h)
}

// Label combines the ETA with the size of the input, e.g. "~24s · 3.0 MB".
// The size part is omitted when bytes is not positive.
func Label(estimated time.Duration, bytes float64) string {
	eta := FormatETA(estimated)
	if math.IsNaN(bytes) || bytes <= 0 {
		return eta
	}
	return eta + " · " + FormatSize(bytes)
}

// FormatDuration formats a duration in human-readable format
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return "< 1s"
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		if minutes > 0 {
			return fmt.Sprintf("%dh %dm", hours, minutes)
		}
		return fmt.Sprintf("%dh", hours)
	}

	if minutes > 0 {
		if seconds > 5 {
			return fmt.Sprintf("%dm %ds", minutes, seconds)
		}
		return fmt.Sprintf("%dm", minutes)
	}

	return fmt.Sprintf("%ds", seconds)
}
