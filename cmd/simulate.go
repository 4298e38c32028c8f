package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"audioprobe/internal/analysis"
	"audioprobe/internal/progress"
)

var (
	simulateAfter time.Duration
	simulateSize  float64
	simulateFail  bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the progress display against a fake analysis",
	Long: `Animate the progress display against a fake task that finishes after
--after. Set --after beyond the estimate to watch the bar hold at 95%, or
below it to watch the bar snap to 100%.

Examples:
  audioprobe simulate --size 3145728 --after 40s
  audioprobe simulate --size 100 --after 1s --indicator line`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSimulate(cmd.Context())
	},
}

func init() {
	simulateCmd.Flags().DurationVar(&simulateAfter, "after", 8*time.Second, "When the fake analysis finishes")
	simulateCmd.Flags().Float64Var(&simulateSize, "size", 3*1024*1024, "Simulated input size")
	simulateCmd.Flags().BoolVar(&simulateFail, "fail", false, "Make the fake analysis fail")
}

func runSimulate(ctx context.Context) error {
	estimated := progress.DefaultEstimate
	sizeBytes, ok := progress.ResolveSize(simulateSize, cfg.SizeUnitOr(progress.UnitBytes))
	if ok {
		estimated = progress.EstimateBytes(sizeBytes)
	} else {
		sizeBytes = 0
	}

	log.Debug("Simulating analysis", "estimate", progress.FormatETA(estimated), "after", simulateAfter)

	result, err := track(ctx, trackedRun{
		name:      "simulated.wav",
		sizeBytes: sizeBytes,
		rawSize:   int64(sizeBytes),
		estimated: estimated,
		run:       fakeAnalysis(simulateAfter, simulateFail),
	})
	if err != nil {
		return err
	}

	printResult(result)
	return nil
}

func fakeAnalysis(after time.Duration, fail bool) func(ctx context.Context) (*analysis.Result, error) {
	return func(ctx context.Context) (*analysis.Result, error) {
		timer := time.NewTimer(after)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}

		if fail {
			return nil, &analysis.StatusError{StatusCode: 500, Detail: "simulated failure"}
		}

		pitch := 172.0
		return &analysis.Result{
			SampleRate: 16000,
			Channels:   1,
			Segments: []analysis.Segment{
				{Start: 0.2, End: 2.4, Duration: 2.2, PitchHz: &pitch},
			},
			SpeakerProfiles: []analysis.SpeakerProfile{
				{Label: "Speaker 1", Segments: 1, TotalDurationS: 2.2, MedianPitchHz: &pitch,
					PitchBucket: "mid", TempoBucket: "medium", Confidence: 0.42},
			},
		}, nil
	}
}

