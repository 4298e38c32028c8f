package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"audioprobe/internal/analysis"
	"audioprobe/internal/metrics"
	"audioprobe/internal/progress"
	"audioprobe/internal/tui"
)

// trackedRun describes one request to animate
type trackedRun struct {
	name      string
	sizeBytes float64 // normalized; 0 if unknown
	rawSize   int64
	estimated time.Duration
	run       tui.AnalyzeFunc
}

// indicatorMode returns the configured indicator, downgrading the
// interactive UI to line output when stdout is not a terminal
func indicatorMode() string {
	mode := cfg.Indicator
	if mode == "tui" && !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		mode = "line"
	}
	return mode
}

// track runs r under the configured indicator and records session metrics
func track(ctx context.Context, r trackedRun) (*analysis.Result, error) {
	var (
		result  *analysis.Result
		elapsed time.Duration
		err     error
	)

	mode := indicatorMode()
	log.Debug("Tracking run", "file", r.name, "indicator", mode, "eta", progress.FormatETA(r.estimated))

	if mode == "tui" {
		m := tui.NewAnalyzeModel(ctx, log, tui.AnalyzeOptions{
			Name:          r.name,
			SizeBytes:     r.sizeBytes,
			Estimated:     r.estimated,
			FrameInterval: cfg.FrameInterval,
			Run:           r.run,
		})

		final, runErr := tui.RunAnalyze(m, tea.WithContext(ctx))
		if runErr != nil {
			return nil, runErr
		}
		result, elapsed, err = final.Result(), final.Elapsed(), final.Err()
	} else {
		ind := progress.NewIndicator(mode, os.Stdout)
		start := time.Now()

		var res *analysis.Result
		_, err = progress.Run(ctx, ind, progress.RunOptions{
			Label:     fmt.Sprintf("%s %s", r.name, progress.Label(r.estimated, r.sizeBytes)),
			Estimated: r.estimated,
			Frames:    progress.NewTimerFrames(cfg.FrameInterval),
		}, func(ctx context.Context) error {
			var runErr error
			res, runErr = r.run(ctx)
			return runErr
		})
		elapsed = time.Since(start)
		if err == nil {
			result = res
		}
	}

	if metrics.GlobalMetrics != nil {
		metrics.GlobalMetrics.RecordRun(r.name, r.rawSize, r.estimated, elapsed, err == nil)
	}
	return result, err
}

// printResult prints the summary for non-interactive indicators; the
// interactive UI already shows it in its final frame
func printResult(result *analysis.Result) {
	if result == nil || indicatorMode() == "tui" {
		return
	}
	for _, line := range result.Summary() {
		fmt.Println("  " + line)
	}
	fmt.Println()
}
