package progress

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"
)

func TestEase(t *testing.T) {
	tests := []struct {
		t        float64
		expected float64
	}{
		{-1, 0},
		{0, 0},
		{0.6, 0.7},
		{0.8, 0.7 + 0.25*0.75},
		{1, 0.95},
		{2, 0.95},
	}

	for _, tt := range tests {
		if got := Ease(tt.t); math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("Ease(%v) = %v, expected %v", tt.t, got, tt.expected)
		}
	}

	prev := 0.0
	for i := 0; i <= 1000; i++ {
		got := Ease(float64(i) / 1000)
		if got < prev {
			t.Fatalf("Ease is not monotonic at %d: %v < %v", i, got, prev)
		}
		prev = got
	}
}

func TestFractionAt(t *testing.T) {
	if got := FractionAt(0.3, true); got != 1 {
		t.Errorf("Completed fraction should be 1, got %v", got)
	}
	if got := FractionAt(1, false); got != StallCeiling {
		t.Errorf("Exhausted estimate should stall at %v, got %v", StallCeiling, got)
	}
	if got := FractionAt(0.99, false); got >= StallCeiling {
		t.Errorf("Unfinished fraction should stay below the ceiling, got %v", got)
	}
}

func TestTimeProgress(t *testing.T) {
	if got := TimeProgress(5*time.Second, 10*time.Second); got != 0.5 {
		t.Errorf("Expected 0.5, got %v", got)
	}
	if got := TimeProgress(-time.Second, 10*time.Second); got != 0 {
		t.Errorf("Expected 0 for negative elapsed, got %v", got)
	}
	if got := TimeProgress(time.Minute, 10*time.Second); got != 1 {
		t.Errorf("Expected 1 past the estimate, got %v", got)
	}
}

func TestTimerFramesCancel(t *testing.T) {
	frames := NewTimerFrames(20 * time.Millisecond)

	fired := make(chan struct{}, 1)
	h := frames.Schedule(func(time.Time) { fired <- struct{}{} })
	frames.Cancel(h)

	select {
	case <-fired:
		t.Fatal("Cancelled frame fired")
	case <-time.After(60 * time.Millisecond):
	}

	if frames.Pending() != 0 {
		t.Errorf("Expected no pending frames, got %d", frames.Pending())
	}

	// cancelling again is harmless
	frames.Cancel(h)
}

func TestProgressBarRender(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf)

	bar.Start("~24s · 3.0 MB")
	bar.Render(RunState{Fraction: 0.5})
	bar.Render(RunState{Fraction: 0.501}) // same percent, skipped
	bar.Complete("Analysis complete")

	out := buf.String()
	if strings.Count(out, "\r") != 3 {
		t.Errorf("Expected 3 redraws, got %d: %q", strings.Count(out, "\r"), out)
	}
	if !strings.Contains(out, " 50%") || !strings.Contains(out, "100%") {
		t.Errorf("Missing percentages in output: %q", out)
	}
	if !strings.Contains(out, "Analysis complete") {
		t.Errorf("Missing completion message: %q", out)
	}
}

func TestRenderBar(t *testing.T) {
	if got := RenderBar(0.5, 10); got != "█████░░░░░" {
		t.Errorf("Unexpected bar: %q", got)
	}
	if got := RenderBar(2, 4); got != "████" {
		t.Errorf("Bar should clamp, got %q", got)
	}
}

func TestLineByLineMilestones(t *testing.T) {
	var buf bytes.Buffer
	line := NewLineByLine(&buf)

	line.Start("Analyzing")
	for _, f := range []float64{0.05, 0.12, 0.15, 0.31, 0.95} {
		line.Render(RunState{Fraction: f})
	}
	line.Complete("done")

	out := buf.String()
	for _, want := range []string{"10%", "30%", "90%", "done"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output: %q", want, out)
		}
	}
	if strings.Count(out, "10%") != 1 {
		t.Errorf("Milestone printed twice: %q", out)
	}
}

func TestNewIndicator(t *testing.T) {
	var buf bytes.Buffer
	if _, ok := NewIndicator("bar", &buf).(*ProgressBar); !ok {
		t.Error("Expected ProgressBar for 'bar'")
	}
	if _, ok := NewIndicator("none", &buf).(*NullIndicator); !ok {
		t.Error("Expected NullIndicator for 'none'")
	}
	if _, ok := NewIndicator("unknown", &buf).(*LineByLine); !ok {
		t.Error("Expected LineByLine fallback")
	}
}
