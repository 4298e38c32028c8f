package metrics

import (
	"math"
	"testing"
	"time"

	"audioprobe/internal/logger"
)

func TestRecordRun(t *testing.T) {
	c := NewCollector(logger.NewNullLogger())

	m := c.RecordRun("talk.wav", 3<<20, 24*time.Second, 30*time.Second, true)
	if !m.Stalled {
		t.Error("Run longer than its estimate should be marked stalled")
	}
	if math.Abs(m.Accuracy-1.25) > 1e-9 {
		t.Errorf("Expected accuracy 1.25, got %f", m.Accuracy)
	}

	m = c.RecordRun("short.wav", 1024, 5*time.Second, 2*time.Second, false)
	if m.Stalled {
		t.Error("Run finishing early should not be stalled")
	}

	if got := len(c.GetRuns()); got != 2 {
		t.Fatalf("Expected 2 runs, got %d", got)
	}
}

func TestGetAverages(t *testing.T) {
	c := NewCollector(nil)
	if len(c.GetAverages()) != 0 {
		t.Error("Empty collector should report no averages")
	}

	c.RecordRun("a", 1<<20, 10*time.Second, 5*time.Second, true)
	c.RecordRun("b", 3<<20, 10*time.Second, 15*time.Second, false)

	avg := c.GetAverages()
	if avg["total_runs"] != 2 {
		t.Errorf("Expected 2 runs, got %v", avg["total_runs"])
	}
	if avg["success_rate"] != 50.0 {
		t.Errorf("Expected 50%% success, got %v", avg["success_rate"])
	}
	if avg["avg_size_mb"] != 2.0 {
		t.Errorf("Expected 2 MB average, got %v", avg["avg_size_mb"])
	}
	if avg["avg_accuracy"] != 1.0 {
		t.Errorf("Expected accuracy 1.0, got %v", avg["avg_accuracy"])
	}
	if avg["stalled_runs"] != 1 {
		t.Errorf("Expected 1 stalled run, got %v", avg["stalled_runs"])
	}

	c.Clear()
	if len(c.GetRuns()) != 0 {
		t.Error("Clear should drop all runs")
	}
}

func TestZeroEstimateAccuracy(t *testing.T) {
	c := NewCollector(nil)
	m := c.RecordRun("x", 0, 0, time.Second, true)
	if m.Accuracy != 0 || m.Stalled {
		t.Errorf("Zero estimate should give zero accuracy and no stall: %+v", m)
	}
}

func TestInitGlobalMetrics(t *testing.T) {
	InitGlobalMetrics(logger.NewNullLogger())
	if GlobalMetrics == nil {
		t.Fatal("GlobalMetrics not initialized")
	}
}
