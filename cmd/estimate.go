package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"audioprobe/internal/progress"
	"audioprobe/internal/source"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate <size|file|uri>...",
	Short: "Print the estimated analysis time for sizes or files",
	Long: `Print the normalized size, estimated duration and progress label.

Bare numbers use --size-unit (default auto: values that look like kilobytes
are scaled by 1024). Files and URIs are measured in bytes.

Examples:
  audioprobe estimate 3145728 --size-unit bytes
  audioprobe estimate 2048 500000
  audioprobe estimate meeting.wav gs://bucket/talk.mp3`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEstimate(cmd.Context(), args)
	},
}

type estimateRow struct {
	input     string
	sizeBytes float64
	valid     bool
	estimated time.Duration
}

func runEstimate(ctx context.Context, args []string) error {
	rows := make([]estimateRow, 0, len(args))
	for _, arg := range args {
		row, err := estimateOne(ctx, arg)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	fmt.Printf("%-32s %12s %12s  %s\n", "INPUT", "SIZE", "ESTIMATE", "LABEL")
	for _, r := range rows {
		size := "invalid"
		if r.valid {
			size = progress.FormatSize(r.sizeBytes)
		}
		fmt.Printf("%-32s %12s %12s  %s\n", r.input, size, progress.FormatDuration(r.estimated), progress.Label(r.estimated, r.sizeBytes))
	}
	return nil
}

func estimateOne(ctx context.Context, arg string) (estimateRow, error) {
	row := estimateRow{input: arg}

	var raw float64
	unit := cfg.SizeUnitOr(progress.UnitAuto)
	if n, err := strconv.ParseFloat(arg, 64); err == nil {
		raw = n
	} else {
		src, err := source.Open(ctx, arg, storageConfig())
		if err != nil {
			return row, err
		}
		size, err := src.Size(ctx)
		if err != nil {
			return row, err
		}
		raw = float64(size)
		unit = cfg.SizeUnitOr(progress.UnitBytes)
	}

	row.sizeBytes, row.valid = progress.ResolveSize(raw, unit)
	if row.valid {
		row.estimated = progress.EstimateBytes(row.sizeBytes)
	} else {
		row.sizeBytes = 0
		row.estimated = progress.DefaultEstimate
	}
	return row, nil
}
