package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pratik-mahalle/trainhub/internal/config"
	"github.com/pratik-mahalle/trainhub/internal/domain/sweep"
	"github.com/pratik-mahalle/trainhub/internal/repository/postgres"
	"github.com/pratik-mahalle/trainhub/internal/worker"
	"github.com/pratik-mahalle/trainhub/pkg/client"
	"github.com/spf13/cobra"
)

func newSweepCmd() *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Expire ACTIVE subscriptions whose end date has passed",
		Long: `Runs one expiration sweep. By default the sweep runs in-process against
the configured database; with --remote the running server performs it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if remote {
				c, err := newAPIClient(true)
				if err != nil {
					return err
				}
				run, err := c.Sweeps().Trigger(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to trigger sweep: %w", err)
				}
				return printSweepRuns([]client.SweepRun{*run})
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := newLogger(cfg)

			db, err := openDatabase(cfg, log)
			if err != nil {
				return err
			}
			defer db.Close()

			sweeper := worker.NewExpirationSweeper(
				postgres.NewSubscriptionRepository(db),
				postgres.NewSweepRunRepository(db),
				log,
				worker.WithBatchSize(cfg.Sweeper.BatchSize),
			)
			run, runErr := sweeper.Run(cmd.Context(), sweep.TriggerManual)
			if run != nil {
				if err := printSweepRuns([]client.SweepRun{toClientRun(run)}); err != nil {
					return err
				}
			}
			if runErr != nil {
				return fmt.Errorf("sweep failed: %w", runErr)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "ask the server to run the sweep")
	cmd.AddCommand(newSweepHistoryCmd())

	return cmd
}

func newSweepHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent sweep runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAPIClient(true)
			if err != nil {
				return err
			}
			runs, err := c.Sweeps().History(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("failed to list sweep runs: %w", err)
			}
			return printSweepRuns(runs)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "number of runs to show")
	return cmd
}

func toClientRun(r *sweep.Run) client.SweepRun {
	return client.SweepRun{
		ID:           r.ID,
		Trigger:      string(r.Trigger),
		Status:       string(r.Status),
		StartedAt:    r.StartedAt,
		CompletedAt:  r.CompletedAt,
		DurationMs:   r.DurationMs,
		Scanned:      r.Result.Scanned,
		Expired:      r.Result.Expired,
		Skipped:      r.Result.Skipped,
		Failed:       r.Result.Failed,
		ErrorMessage: r.ErrorMessage,
	}
}

func printSweepRuns(runs []client.SweepRun) error {
	if getOutputFormat() != "table" {
		return printOutput(runs)
	}

	t := NewTable("ID", "TRIGGER", "STATUS", "STARTED", "DURATION", "SCANNED", "EXPIRED", "SKIPPED", "FAILED")
	for _, r := range runs {
		t.AddRow(
			r.ID,
			r.Trigger,
			formatStatus(r.Status),
			formatTime(r.StartedAt),
			(time.Duration(r.DurationMs) * time.Millisecond).String(),
			strconv.Itoa(r.Scanned),
			strconv.Itoa(r.Expired),
			strconv.Itoa(r.Skipped),
			strconv.Itoa(r.Failed),
		)
	}
	t.Render()
	return nil
}
