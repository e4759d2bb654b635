package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/pratik-mahalle/trainhub/pkg/client"
	"github.com/spf13/cobra"
)

func newAccessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "access",
		Short: "Query training entitlements",
	}

	cmd.AddCommand(newAccessCheckCmd())
	cmd.AddCommand(newAccessListCmd())

	return cmd
}

func newAccessCheckCmd() *cobra.Command {
	var userID, asOf string

	cmd := &cobra.Command{
		Use:   "check <training-id>",
		Short: "Check whether a user may access a training",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAPIClient(true)
			if err != nil {
				return err
			}

			opts := &client.CheckAccessOptions{UserID: userID}
			if asOf != "" {
				opts.AsOf, err = time.Parse(time.RFC3339, asOf)
				if err != nil {
					return fmt.Errorf("invalid --as-of, expected RFC 3339: %w", err)
				}
			}

			d, err := c.Access().Check(cmd.Context(), args[0], opts)
			if err != nil {
				return fmt.Errorf("failed to check access: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(d)
			}

			t := NewTable("USER", "TRAINING", "GRANTED", "VIA", "SUBSCRIPTION", "AS OF")
			t.AddRow(d.UserID, d.TrainingID, formatGranted(d.Granted), orDash(d.Via), orDash(d.SubscriptionID), formatTime(d.AsOf))
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user to check (admin token required for other users)")
	cmd.Flags().StringVar(&asOf, "as-of", "", "instant to evaluate, RFC 3339 (default now)")

	return cmd
}

func newAccessListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the trainings the token holder may access now",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAPIClient(true)
			if err != nil {
				return err
			}

			out, err := c.Access().MyTrainings(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list trainings: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(out)
			}
			if len(out.TrainingIDs) == 0 {
				fmt.Fprintf(stdout, "%s has no accessible trainings\n", out.UserID)
				return nil
			}
			fmt.Fprintln(stdout, strings.Join(out.TrainingIDs, "\n"))
			return nil
		},
	}
}
