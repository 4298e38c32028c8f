package progress

import (
	"math"
	"testing"
	"time"
)

func TestNormalizeSize(t *testing.T) {
	tests := []struct {
		raw      float64
		expected float64
		ok       bool
	}{
		{500, 500, true},
		{999, 999, true},
		{27000, 27000 * 1024, true},
		{1024, 1024 * 1024, true},
		{2048, 2048 * 1024, true},
		{5000, 5000, true},   // not a multiple of 1024 and not above 10000
		{10000, 10000, true}, // boundary is exclusive
		{10001, 10001 * 1024, true},
		{50_000_000, 50_000_000, true},
		{3 * 1024 * 1024, 3 * 1024 * 1024 * 1024, true},
		{0, 0, false},
		{-5, 0, false},
		{math.NaN(), 0, false},
		{math.Inf(1), 0, false},
	}

	for _, tt := range tests {
		got, ok := NormalizeSize(tt.raw)
		if ok != tt.ok || got != tt.expected {
			t.Errorf("NormalizeSize(%v) = (%v, %v), expected (%v, %v)", tt.raw, got, ok, tt.expected, tt.ok)
		}
	}
}

func TestResolveSize(t *testing.T) {
	if got, ok := ResolveSize(27000, UnitBytes); !ok || got != 27000 {
		t.Errorf("bytes unit should pass through, got (%v, %v)", got, ok)
	}
	if got, ok := ResolveSize(3, UnitKB); !ok || got != 3072 {
		t.Errorf("kb unit should multiply by 1024, got (%v, %v)", got, ok)
	}
	if got, ok := ResolveSize(27000, UnitAuto); !ok || got != 27648000 {
		t.Errorf("auto unit should apply heuristic, got (%v, %v)", got, ok)
	}
	if _, ok := ResolveSize(-1, UnitBytes); ok {
		t.Error("negative size must be invalid")
	}
	if !ValidUnit("KB") || ValidUnit("mb") {
		t.Error("unexpected ValidUnit result")
	}
}

func TestEstimateInvalidFallsBack(t *testing.T) {
	for _, raw := range []float64{0, -5, math.NaN(), math.Inf(-1)} {
		if got := Estimate(raw); got != DefaultEstimate {
			t.Errorf("Estimate(%v) = %v, expected %v", raw, got, DefaultEstimate)
		}
	}
	if got := Estimate(0); got != 2500*time.Millisecond {
		t.Errorf("Estimate(0) = %v, expected 2.5s", got)
	}
}

func TestEstimateBytesThreeMegabytes(t *testing.T) {
	got := EstimateBytes(3 * 1024 * 1024)
	if got < 24*time.Second || got > 24200*time.Millisecond {
		t.Errorf("Expected ~24.1s for 3MB, got %v", got)
	}
	if label := FormatETA(got); label != "~24s" {
		t.Errorf("Expected '~24s', got '%s'", label)
	}
}

func TestEstimateBytesRegimes(t *testing.T) {
	tests := []struct {
		bytes    float64
		expected time.Duration
	}{
		{100 * 1024, 2493 * time.Millisecond},         // 1 + 3mb seconds
		{1024 * 1024, 5200 * time.Millisecond},        // 4s + 1.2s baseline
		{10 * 1024 * 1024, 117613 * time.Millisecond}, // 5.2 * mb^1.35
		{1024 * 1024 * 1024, MaxEstimate},             // clamped
	}

	for _, tt := range tests {
		got := EstimateBytes(tt.bytes)
		diff := got - tt.expected
		if diff < -time.Millisecond || diff > time.Millisecond {
			t.Errorf("EstimateBytes(%v) = %v, expected %v", tt.bytes, got, tt.expected)
		}
	}
}

func TestEstimateClamped(t *testing.T) {
	sizes := []float64{1, 10, 999, 5000, 27000, 300 * 1024, 2 * 1024 * 1024, 40 * 1024 * 1024, 1 << 40, 1e15}
	for _, raw := range sizes {
		got := Estimate(raw)
		bytes, _ := NormalizeSize(raw)
		floor := 5000 * time.Millisecond
		if bytes/(1024*1024) < 0.3 {
			floor = 300 * time.Millisecond
		}
		if got < floor {
			t.Errorf("Estimate(%v) = %v, below floor %v", raw, got, floor)
		}
		if got > 6*time.Hour {
			t.Errorf("Estimate(%v) = %v, above 6h", raw, got)
		}
	}
}

func TestFormatETA(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{0, "~1s"},
		{400 * time.Millisecond, "~1s"},
		{45 * time.Second, "~45s"},
		{59 * time.Second, "~59s"},
		{90 * time.Second, "~2m"},
		{10 * time.Minute, "~10m"},
		{time.Hour, "~60m"},
		{90 * time.Minute, "~2h"},
		{6 * time.Hour, "~6h"},
	}

	for _, tt := range tests {
		result := FormatETA(tt.duration)
		if result != tt.expected {
			t.Errorf("FormatETA(%v) = '%s', expected '%s'", tt.duration, result, tt.expected)
		}
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes    float64
		expected string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1536, "1.5 KB"},
		{3 * 1024 * 1024, "3.0 MB"},
		{27648000, "26.4 MB"},
		{1024 * 1024 * 1024, "1.00 GB"},
		{2.5 * 1024 * 1024 * 1024, "2.50 GB"},
	}

	for _, tt := range tests {
		result := FormatSize(tt.bytes)
		if result != tt.expected {
			t.Errorf("FormatSize(%v) = '%s', expected '%s'", tt.bytes, result, tt.expected)
		}
	}
}

func TestLabel(t *testing.T) {
	if got := Label(24*time.Second, 3*1024*1024); got != "~24s · 3.0 MB" {
		t.Errorf("Unexpected label: '%s'", got)
	}
	if got := Label(DefaultEstimate, 0); got != "~3s" {
		t.Errorf("Expected ETA only for unknown size, got '%s'", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{500 * time.Millisecond, "< 1s"},
		{5 * time.Second, "5s"},
		{65 * time.Second, "1m"},
		{3*time.Minute + 10*time.Second, "3m 10s"},
		{90 * time.Minute, "1h 30m"},
		{120 * time.Minute, "2h"},
	}

	for _, tt := range tests {
		result := FormatDuration(tt.duration)
		if result != tt.expected {
			t.Errorf("FormatDuration(%v) = '%s', expected '%s'", tt.duration, result, tt.expected)
		}
	}
}
