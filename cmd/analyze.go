package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"audioprobe/internal/analysis"
	"audioprobe/internal/config"
	"audioprobe/internal/metadata"
	"audioprobe/internal/progress"
	"audioprobe/internal/source"
)

var analyzeReport string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file|uri>",
	Short: "Analyze an audio file with an estimated progress bar",
	Long: `Upload an audio file to the analysis service and show estimated progress
until the result arrives.

File sizes are taken as bytes unless --size-unit says otherwise.

Examples:
  audioprobe analyze meeting.wav
  audioprobe analyze s3://recordings/2024/keynote.mp3 --region eu-west-1
  audioprobe analyze talk.flac --indicator bar --timeout 10m
  audioprobe analyze talk.flac --report            # writes talk.flac.analysis.json
  audioprobe analyze talk.flac --report=out.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(cmd.Context(), args[0])
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeReport, "report", "", "Write the result as JSON (default path <name>"+metadata.ReportSuffix+")")
	analyzeCmd.Flags().Lookup("report").NoOptDefVal = "auto"
}

func storageConfig() *source.Config {
	return &source.Config{
		Endpoint:  cfg.StorageEndpoint,
		Region:    cfg.StorageRegion,
		AccessKey: cfg.StorageAccessKey,
		SecretKey: cfg.StorageSecretKey,
	}
}

func runAnalyze(ctx context.Context, location string) error {
	cfg.UpdateFromEnvironment()

	src, err := source.Open(ctx, location, storageConfig())
	if err != nil {
		return err
	}

	size, err := src.Size(ctx)
	if err != nil {
		return err
	}
	if size == 0 {
		return fmt.Errorf("%s: %w", src, analysis.ErrEmptyFile)
	}

	estimated := progress.DefaultEstimate
	sizeBytes, ok := progress.ResolveSize(float64(size), cfg.SizeUnitOr(progress.UnitBytes))
	if ok {
		estimated = progress.EstimateBytes(sizeBytes)
	}

	op := log.StartOperation("analyze")
	op.Update("Starting analysis", "source", src.String(), "size", progress.FormatSize(sizeBytes), "eta", progress.FormatETA(estimated))

	client := analysis.NewClient(cfg.ServerURL, cfg.AnalysisCode, cfg.Timeout, log)
	start := time.Now()
	result, err := track(ctx, trackedRun{
		name:      src.Name(),
		sizeBytes: sizeBytes,
		rawSize:   size,
		estimated: estimated,
		run: func(ctx context.Context) (*analysis.Result, error) {
			rc, err := src.Open(ctx)
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return client.Analyze(ctx, src.Name(), size, rc)
		},
	})
	if err != nil {
		op.Fail("Analysis failed", "error", err)
		return err
	}

	op.Complete("Analysis finished", "segments", len(result.Segments), "speakers", len(result.SpeakerProfiles))
	printResult(result)

	if analyzeReport != "" {
		if err := writeReport(src, size, estimated, time.Since(start), result); err != nil {
			log.Warn("Failed to write report", "error", err)
		}
	}

	// Save configuration for future use (unless disabled)
	if !cfg.NoSaveConfig {
		if err := config.SaveLocalConfig(config.ConfigFromConfig(cfg)); err != nil {
			log.Warn("Failed to save configuration", "error", err)
		} else {
			log.Debug("Configuration saved to " + config.ConfigFileName)
		}
	}

	return nil
}

func writeReport(src source.Source, size int64, estimated, elapsed time.Duration, result *analysis.Result) error {
	path := analyzeReport
	if path == "auto" {
		path = metadata.ReportPath(".", src.Name())
	}

	report := &metadata.Report{
		Version:     cfg.Version,
		Timestamp:   time.Now(),
		Source:      src.String(),
		ServiceURL:  cfg.ServerURL,
		SizeBytes:   size,
		EstimatedMs: estimated.Milliseconds(),
		DurationMs:  elapsed.Milliseconds(),
		Result:      result,
	}
	if _, local := src.(*source.Local); local {
		sum, err := metadata.CalculateSHA256(src.String())
		if err != nil {
			return err
		}
		report.SHA256 = sum
	}

	if err := report.Save(path); err != nil {
		return err
	}
	log.Info("Report written", "path", path)
	return nil
}
