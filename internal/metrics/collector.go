package metrics

import (
	"sync"
	"time"

	"audioprobe/internal/logger"
)

// RunMetrics holds the outcome of one analysis run against its estimate
type RunMetrics struct {
	Name      string        `json:"name"`
	StartTime time.Time     `json:"start_time"`
	SizeBytes int64         `json:"size_bytes"`
	Estimated time.Duration `json:"estimated"`
	Actual    time.Duration `json:"actual"`
	Accuracy  float64       `json:"accuracy"` // actual / estimated
	Stalled   bool          `json:"stalled"`  // ran past the estimate
	Success   bool          `json:"success"`
}

// Collector collects and reports run metrics for the current session
type Collector struct {
	runs   []RunMetrics
	mu     sync.RWMutex
	logger logger.Logger
}

// NewCollector creates a new metrics collector
func NewCollector(log logger.Logger) *Collector {
	return &Collector{
		runs:   make([]RunMetrics, 0),
		logger: log,
	}
}

// RecordRun records metrics for a finished run
func (c *Collector) RecordRun(name string, sizeBytes int64, estimated, actual time.Duration, success bool) RunMetrics {
	m := RunMetrics{
		Name:      name,
		StartTime: time.Now().Add(-actual),
		SizeBytes: sizeBytes,
		Estimated: estimated,
		Actual:    actual,
		Accuracy:  accuracy(estimated, actual),
		Stalled:   estimated > 0 && actual > estimated,
		Success:   success,
	}

	c.mu.Lock()
	c.runs = append(c.runs, m)
	c.mu.Unlock()

	if c.logger != nil {
		fields := map[string]interface{}{
			"metric_type":  "run_complete",
			"name":         name,
			"size_bytes":   sizeBytes,
			"estimated_ms": estimated.Milliseconds(),
			"actual_ms":    actual.Milliseconds(),
			"accuracy":     m.Accuracy,
			"stalled":      m.Stalled,
			"success":      success,
		}

		if success {
			c.logger.WithFields(fields).Info("Analysis run completed")
		} else {
			c.logger.WithFields(fields).Error("Analysis run failed")
		}
	}

	return m
}

// GetRuns returns a copy of all recorded runs
func (c *Collector) GetRuns() []RunMetrics {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]RunMetrics, len(c.runs))
	copy(result, c.runs)
	return result
}

// GetAverages calculates session averages
func (c *Collector) GetAverages() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.runs) == 0 {
		return map[string]interface{}{}
	}

	var totalActual time.Duration
	var totalSize, totalAccuracy float64
	var successCount, stallCount int

	for _, m := range c.runs {
		totalActual += m.Actual
		totalSize += float64(m.SizeBytes)
		totalAccuracy += m.Accuracy
		if m.Success {
			successCount++
		}
		if m.Stalled {
			stallCount++
		}
	}

	count := len(c.runs)
	return map[string]interface{}{
		"total_runs":      count,
		"success_rate":    float64(successCount) / float64(count) * 100,
		"avg_duration_ms": totalActual.Milliseconds() / int64(count),
		"avg_size_mb":     totalSize / float64(count) / 1024 / 1024,
		"avg_accuracy":    totalAccuracy / float64(count),
		"stalled_runs":    stallCount,
	}
}

// Clear removes all collected metrics
func (c *Collector) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.runs = make([]RunMetrics, 0)
}

func accuracy(estimated, actual time.Duration) float64 {
	if estimated <= 0 {
		return 0
	}
	return float64(actual) / float64(estimated)
}

// Global metrics collector instance
var GlobalMetrics *Collector

// InitGlobalMetrics initializes the global metrics collector
func InitGlobalMetrics(log logger.Logger) {
	GlobalMetrics = NewCollector(log)
}
