package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"audioprobe/cmd"
	"audioprobe/internal/checks"
	"audioprobe/internal/config"
	"audioprobe/internal/logger"
	"audioprobe/internal/metrics"
)

// Build information (set by ldflags)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize configuration
	cfg := config.New()

	// Set version information
	cfg.Version = version
	cfg.BuildTime = buildTime
	cfg.GitCommit = gitCommit

	// Initialize logger
	log := logger.New(cfg.EffectiveLogLevel(), cfg.LogFormat)

	// Initialize global metrics
	metrics.InitGlobalMetrics(log)

	err := cmd.Execute(ctx, cfg, log)

	// Show session summary
	if metrics.GlobalMetrics != nil {
		avgs := metrics.GlobalMetrics.GetAverages()
		if runs, ok := avgs["total_runs"].(int); ok && runs > 1 {
			fmt.Printf("\n📊 Session Summary: %d runs, %.1f%% success rate, actual/estimate %.2f\n",
				runs, avgs["success_rate"], avgs["avg_accuracy"])
		}
	}

	if err != nil {
		fmt.Fprintln(os.Stderr)
		fmt.Fprint(os.Stderr, checks.FormatErrorWithHint(err))
		os.Exit(1)
	}
}
