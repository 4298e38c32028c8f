package progress

import (
	"fmt"
	"math"
	"strings"
)

// Size unit modes accepted by ResolveSize
const (
	UnitAuto  = "auto"
	UnitBytes = "bytes"
	UnitKB    = "kb"
)

const (
	kbGuessMin   = 1000
	kbGuessMax   = 50_000_000
	kbGuessFloor = 10_000
)

// NormalizeSize turns a raw size of unknown unit into a byte count.
// Callers sometimes hand over kilobytes instead of bytes; values in
// [1000, 50M) that are a multiple of 1024 or larger than 10000 are taken
// as kilobytes. Returns false for NaN, Inf, zero and negative input.
func NormalizeSize(raw float64) (float64, bool) {
	if math.IsNaN(raw) || math.IsInf(raw, 0) || raw <= 0 {
		return 0, false
	}

	if raw >= kbGuessMin && raw < kbGuessMax {
		if math.Mod(raw, 1024) == 0 || raw > kbGuessFloor {
			return raw * 1024, true
		}
	}

	return raw, true
}

// ResolveSize converts raw into bytes according to unit.
// UnitAuto applies the NormalizeSize heuristic.
func ResolveSize(raw float64, unit string) (float64, bool) {
	switch strings.ToLower(unit) {
	case UnitBytes:
		if math.IsNaN(raw) || math.IsInf(raw, 0) || raw <= 0 {
			return 0, false
		}
		return raw, true
	case UnitKB:
		if math.IsNaN(raw) || math.IsInf(raw, 0) || raw <= 0 {
			return 0, false
		}
		return raw * 1024, true
	default:
		return NormalizeSize(raw)
	}
}

// ValidUnit reports whether unit is understood by ResolveSize
func ValidUnit(unit string) bool {
	switch strings.ToLower(unit) {
	case UnitAuto, UnitBytes, UnitKB:
		return true
	}
	return false
}

// FormatSize formats a byte count for the progress label.
// One decimal below 1024 MB, two decimals for GB.
func FormatSize(bytes float64) string {
	const (
		KB = 1024.0
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case math.IsNaN(bytes) || bytes <= 0:
		return "0 B"
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", bytes/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", bytes/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", bytes/KB)
	default:
		return fmt.Sprintf("%.0f B", bytes)
	}
}
