package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielhan/advisor/internal/scheduler/jobs"
)

// warmCmd represents the warm command
var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Warm the metrics cache once",
	Long: `Resolve every symbol in the taxonomy through the cache-or-fetch
path, refreshing anything expired. The same work runs on a schedule
inside the api command when WARM_ENABLED is set.

Example:
  go run ./cmd/advisor warm`,
	RunE: runWarm,
}

func init() {
	rootCmd.AddCommand(warmCmd)
}

func runWarm(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	start := time.Now()
	job := jobs.NewWarmJob(a.resolver, a.taxonomy, a.cfg.Scheduler.WarmSchedule, a.log)
	if err := job.Run(context.Background()); err != nil {
		return err
	}

	fmt.Printf("Cache warm finished in %s\n", time.Since(start).Round(time.Second))
	return nil
}
