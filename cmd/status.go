package cmd

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"audioprobe/internal/analysis"
	"audioprobe/internal/progress"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and check the analysis service",
	Long:  `Display current configuration and test that the analysis service is reachable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatus(cmd.Context())
	},
}

// runStatus displays configuration and tests connectivity
func runStatus(ctx context.Context) error {
	// Update config from environment
	cfg.UpdateFromEnvironment()

	displayHeader()
	displayConfiguration()

	return testConnection(ctx)
}

// displayHeader shows the application header
func displayHeader() {
	if cfg.NoColor {
		fmt.Println("==============================================================")
		fmt.Println(" audioprobe")
		fmt.Println("==============================================================")
	} else {
		fmt.Println("\033[1;34m==============================================================\033[0m")
		fmt.Println("\033[1;37m audioprobe\033[0m")
		fmt.Println("\033[1;34m==============================================================\033[0m")
	}

	fmt.Printf("Version: %s (built: %s, commit: %s)\n", cfg.Version, cfg.BuildTime, cfg.GitCommit)
	fmt.Println()
}

// displayConfiguration shows current configuration
func displayConfiguration() {
	fmt.Println("Configuration:")
	fmt.Printf("  Service URL:   %s\n", cfg.ServerURL)
	if cfg.AnalysisCode != "" {
		fmt.Printf("  Access Code:   ****** (set)\n")
	} else {
		fmt.Printf("  Access Code:   (not set)\n")
	}
	if cfg.Timeout > 0 {
		fmt.Printf("  Timeout:       %s\n", cfg.Timeout)
	} else {
		fmt.Printf("  Timeout:       none\n")
	}

	unit := cfg.SizeUnit
	if unit == "" {
		unit = "bytes for files, auto for numbers"
	}
	fmt.Printf("  Size Unit:     %s\n", unit)
	fmt.Printf("  Indicator:     %s (using %s)\n", cfg.Indicator, indicatorMode())
	fmt.Printf("  Frame:         %s\n", cfg.FrameInterval)

	if cfg.StorageEndpoint != "" {
		fmt.Printf("  Storage:       %s (%s)\n", cfg.StorageEndpoint, cfg.StorageRegion)
	} else {
		fmt.Printf("  Storage:       default endpoints (%s)\n", cfg.StorageRegion)
	}

	fmt.Println()
	fmt.Println("System Information:")
	fmt.Printf("  OS:            %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Printf("  Go Version:    %s\n", runtime.Version())
	fmt.Println()
}

// testConnection checks that the service answers
func testConnection(ctx context.Context) error {
	indicator := progress.NewIndicator("line", nil)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client := analysis.NewClient(cfg.ServerURL, cfg.AnalysisCode, 0, log)

	indicator.Start(fmt.Sprintf("Connecting to %s...", cfg.ServerURL))
	if err := client.Ping(ctx); err != nil {
		indicator.Fail(fmt.Sprintf("Connection failed: %v", err))
		return err
	}
	indicator.Complete("Service reachable")

	fmt.Println("✅ Status check completed successfully!")
	return nil
}
