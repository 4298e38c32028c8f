package cmd

import (
	"context"
	"fmt"
	"time"

	"audioprobe/internal/config"
	"audioprobe/internal/logger"
	"audioprobe/internal/metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	cfg     *config.Config
	log     logger.Logger
	frameMs int
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "audioprobe",
	Short: "Audio analysis client with estimated progress",
	Long: `Upload audio to the analysis service and watch an estimated progress bar
while the request runs.

The service reports nothing until it is done, so progress is simulated: the
bar eases toward 95% over a duration estimated from the file size, holds
there if the estimate runs out, and snaps to 100% when the result arrives.

Inputs can be local files or object storage URIs:
  s3://bucket/key, minio://host:9000/bucket/key, b2://bucket/key,
  gs://bucket/key, azure://container/blob

For help with specific commands, use: audioprobe [command] --help`,
	Version:       "",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			return nil
		}

		// Store which flags were explicitly set by user
		flagsSet := make(map[string]bool)
		cmd.Flags().Visit(func(f *pflag.Flag) {
			flagsSet[f.Name] = true
		})

		if flagsSet["frame-ms"] {
			cfg.FrameInterval = time.Duration(frameMs) * time.Millisecond
		}

		if err := setupLogging(); err != nil {
			return err
		}

		// Load local config if not disabled
		if !cfg.NoLoadConfig {
			if localCfg, err := config.LoadLocalConfig(); err != nil {
				log.Warn("Failed to load local config", "error", err)
			} else if localCfg != nil {
				saved := *cfg

				config.ApplyLocalConfig(cfg, localCfg)
				log.Debug("Loaded configuration from " + config.ConfigFileName)

				// Restore explicitly set flag values (flags have priority)
				if flagsSet["url"] {
					cfg.ServerURL = saved.ServerURL
				}
				if flagsSet["timeout"] {
					cfg.Timeout = saved.Timeout
				}
				if flagsSet["size-unit"] {
					cfg.SizeUnit = saved.SizeUnit
				}
				if flagsSet["indicator"] {
					cfg.Indicator = saved.Indicator
				}
				if flagsSet["frame-ms"] {
					cfg.FrameInterval = saved.FrameInterval
				}
				if flagsSet["endpoint"] {
					cfg.StorageEndpoint = saved.StorageEndpoint
				}
				if flagsSet["region"] {
					cfg.StorageRegion = saved.StorageRegion
				}
			}
		}

		return cfg.Validate()
	},
}

// setupLogging rebuilds the logger once flags are parsed
func setupLogging() error {
	level := cfg.EffectiveLogLevel()
	if cfg.LogFile != "" {
		fl, err := logger.FileLogger(level, cfg.LogFormat, cfg.LogFile)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		log = fl
	} else {
		log = logger.New(level, cfg.LogFormat)
	}
	metrics.InitGlobalMetrics(log)
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context, appConfig *config.Config, appLogger logger.Logger) error {
	cfg = appConfig
	log = appLogger

	// Set version info
	rootCmd.Version = fmt.Sprintf("%s (built: %s, commit: %s)",
		cfg.Version, cfg.BuildTime, cfg.GitCommit)

	// Add persistent flags
	frameMs = int(cfg.FrameInterval.Milliseconds())
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "url", cfg.ServerURL, "Analysis service base URL")
	rootCmd.PersistentFlags().StringVar(&cfg.AnalysisCode, "code", cfg.AnalysisCode, "Analysis access code (X-Analysis-Code)")
	rootCmd.PersistentFlags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Request timeout (0 = none)")
	rootCmd.PersistentFlags().StringVar(&cfg.SizeUnit, "size-unit", cfg.SizeUnit, "Unit of size inputs (auto|bytes|kb)")
	rootCmd.PersistentFlags().StringVar(&cfg.Indicator, "indicator", cfg.Indicator, "Progress display (tui|bar|line|none)")
	rootCmd.PersistentFlags().IntVar(&frameMs, "frame-ms", frameMs, "Progress frame interval in milliseconds")
	rootCmd.PersistentFlags().StringVar(&cfg.StorageEndpoint, "endpoint", cfg.StorageEndpoint, "Custom object storage endpoint (MinIO, B2, emulators)")
	rootCmd.PersistentFlags().StringVar(&cfg.StorageRegion, "region", cfg.StorageRegion, "Object storage region")
	rootCmd.PersistentFlags().BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json)")
	rootCmd.PersistentFlags().StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Also write logs to this file")
	rootCmd.PersistentFlags().BoolVar(&cfg.NoSaveConfig, "no-save-config", false, "Don't save configuration after successful operations")
	rootCmd.PersistentFlags().BoolVar(&cfg.NoLoadConfig, "no-config", false, "Don't load configuration from "+config.ConfigFileName)

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Register subcommands
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(reportsCmd)
}
