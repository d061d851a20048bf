package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielhan/advisor/internal/api"
	"github.com/danielhan/advisor/internal/api/handlers"
	"github.com/danielhan/advisor/internal/scheduler"
	"github.com/danielhan/advisor/internal/scheduler/jobs"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Start the REST API server.

Endpoints:
  GET  /health                        - Health check
  POST /api/v1/recommendations        - Run a profile through the engine
  GET  /api/v1/instruments/{symbol}   - Single instrument snapshot
  GET  /api/v1/taxonomy/sectors       - Sector reference data
  GET  /api/v1/jobs                   - Scheduled job status (when scheduler enabled)
  POST /api/v1/jobs/{name}/run        - Trigger a job immediately

Example:
  go run ./cmd/advisor api
  go run ./cmd/advisor api --port 8087`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	// Off-hours cache warm keeps daytime requests off the provider
	var sched *scheduler.Scheduler
	if a.cfg.Scheduler.WarmEnabled {
		sched = scheduler.New(a.log)
		warm := jobs.NewWarmJob(a.resolver, a.taxonomy, a.cfg.Scheduler.WarmSchedule, a.log)
		if err := sched.AddJob(warm); err != nil {
			return fmt.Errorf("schedule warm job: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	recHandler := handlers.NewRecommendationHandler(a.engine, a.log)
	instHandler := handlers.NewInstrumentHandler(a.resolver, a.yahoo, a.log)
	taxHandler := handlers.NewTaxonomyHandler(a.taxonomy, a.log)
	var jobsHandler *handlers.JobsHandler
	if sched != nil {
		jobsHandler = handlers.NewJobsHandler(sched, a.log)
	}

	router := api.NewRouter(recHandler, instHandler, taxHandler, jobsHandler, a.log)
	server := api.New(a.cfg, a.log, router)

	go func() {
		if err := server.Start(); err != nil {
			a.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.log.Info("Server stopped")
	return nil
}
