package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "tasko-backend/cmd/api"
	taskdomain "tasko-backend/internal/task/domain"
	"tasko-backend/pkg/config"
	"tasko-backend/pkg/scheduler"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "tasko",
		Short:         "Task and weekly schedule backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	rootCmd.AddCommand(serveCmd(), sweepCmd(), generateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and run the background jobs (default)",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	gin.SetMode(gin.ReleaseMode)

	a, err := newApp(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer a.close()
	go a.hub.Run(ctx)

	routes, err := a.routes()
	if err != nil {
		return err
	}

	// A restart inside a slot must not announce it again
	if err := a.scanner.Prime(ctx); err != nil {
		log.Printf("[Scanner] Prime failed: %v", err)
	}

	jobs := scheduler.New(cfg.Location, 5*time.Minute)
	if err := jobs.Add("notification sweep", cfg.SweepSpec, func(ctx context.Context) error {
		_, err := a.scanner.Sweep(ctx)
		return err
	}); err != nil {
		return err
	}
	if err := jobs.Add("occurrence generation", cfg.GenerationSpec, func(ctx context.Context) error {
		_, err := a.scanner.Generate(ctx)
		return err
	}); err != nil {
		return err
	}
	jobs.Start()
	defer jobs.Stop()

	return api.NewHandler(cfg.FrontendURL, routes).Start(ctx, ":"+cfg.Port)
}

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run one notification sweep and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			a, err := newApp(cmd.Context(), cfg, false)
			if err != nil {
				return err
			}
			defer a.close()

			res, err := a.scanner.Sweep(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "overdue=%d due_soon=%d reminder=%d activity=%d\n",
				res.Overdue, res.DueSoon, res.Reminder, res.Activity)
			return err
		},
	}
}

func generateCmd() *cobra.Command {
	var (
		days       int
		scheduleID string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Materialize recurring slot occurrences as tasks and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if days <= 0 {
				return fmt.Errorf("--days must be positive")
			}
			cfg := config.Load()
			a, err := newApp(cmd.Context(), cfg, false)
			if err != nil {
				return err
			}
			defer a.close()

			start := time.Now().In(cfg.Location)
			end := start.AddDate(0, 0, days)
			var tasks []*taskdomain.Task
			if scheduleID != "" {
				tasks, err = a.schedules.GenerateForSchedule(cmd.Context(), scheduleID, start, end)
			} else {
				tasks, err = a.schedules.GenerateAll(cmd.Context(), start, end)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d tasks generated through %s\n", len(tasks), end.Format("2006-01-02"))
			return err
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "number of days ahead to generate")
	cmd.Flags().StringVar(&scheduleID, "schedule", "", "only generate for this schedule id")
	return cmd
}
