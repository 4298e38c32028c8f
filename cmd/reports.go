package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"audioprobe/internal/metadata"
	"audioprobe/internal/progress"
)

var reportsCmd = &cobra.Command{
	Use:   "reports [dir]",
	Short: "List saved analysis reports and how their estimates held up",
	Long: `List reports written by 'analyze --report' in a directory (default: current
directory), comparing the estimated time of each run with the time it took.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		return runReports(dir)
	},
}

func runReports(dir string) error {
	reports, err := metadata.ListReports(dir)
	if err != nil {
		return err
	}

	if len(reports) == 0 {
		fmt.Println("No analysis reports found in:", dir)
		return nil
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].Timestamp.After(reports[j].Timestamp)
	})

	fmt.Printf("\nAnalysis reports in %s\n\n", dir)
	fmt.Printf("%-36s %-10s %-8s %-10s %-10s %-9s %s\n",
		"SOURCE", "SIZE", "AUDIO", "ESTIMATED", "ACTUAL", "ACCURACY", "ANALYZED")
	fmt.Println(strings.Repeat("-", 110))

	for _, r := range reports {
		estimated := time.Duration(r.EstimatedMs) * time.Millisecond
		actual := time.Duration(r.DurationMs) * time.Millisecond

		audio := "-"
		if r.Result != nil {
			audio = fmt.Sprintf("%.0fs", r.Result.Duration())
		}
		accuracy := "-"
		if estimated > 0 {
			accuracy = fmt.Sprintf("%.2fx", actual.Seconds()/estimated.Seconds())
		}

		fmt.Printf("%-36s %-10s %-8s %-10s %-10s %-9s %s\n",
			truncate(r.Source, 36),
			progress.FormatSize(float64(r.SizeBytes)),
			audio,
			progress.FormatETA(estimated),
			progress.FormatDuration(actual),
			accuracy,
			r.Timestamp.Format("2006-01-02 15:04:05"))
	}

	fmt.Printf("\nTotal: %d report(s)\n", len(reports))
	return nil
}

// truncate keeps the tail of s, where bucket paths differ
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n+3:]
}
