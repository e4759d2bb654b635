package cli

import (
	"fmt"
	"strings"

	"github.com/pratik-mahalle/trainhub/pkg/client"
	"github.com/spf13/cobra"
)

func newSubscriptionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subscription",
		Aliases: []string{"sub"},
		Short:   "Manage subscriptions (admin token required)",
	}

	cmd.AddCommand(newSubscriptionCreateCmd())
	cmd.AddCommand(newSubscriptionGetCmd())
	cmd.AddCommand(newSubscriptionListCmd())
	cmd.AddCommand(newSubscriptionCancelCmd())
	cmd.AddCommand(newSubscriptionRenewCmd())

	return cmd
}

func newSubscriptionCreateCmd() *cobra.Command {
	var accountID, planID, origin string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Start a subscription of a plan for an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAPIClient(true)
			if err != nil {
				return err
			}

			sub, err := c.Subscriptions().Create(cmd.Context(), client.CreateSubscriptionRequest{
				AccountID: accountID,
				PlanID:    planID,
				Origin:    strings.ToUpper(origin),
			})
			if err != nil {
				return fmt.Errorf("failed to create subscription: %w", err)
			}
			return printSubscriptions([]client.Subscription{*sub})
		},
	}

	cmd.Flags().StringVar(&accountID, "account", "", "account ID (required)")
	cmd.Flags().StringVar(&planID, "plan", "", "plan ID (required)")
	cmd.Flags().StringVar(&origin, "origin", client.OriginPurchase, "PURCHASE, ADMIN_GRANT or RENEWAL")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

func newSubscriptionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <subscription-id>",
		Short: "Show a subscription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAPIClient(true)
			if err != nil {
				return err
			}
			sub, err := c.Subscriptions().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get subscription: %w", err)
			}
			return printSubscriptions([]client.Subscription{*sub})
		},
	}
}

func newSubscriptionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <account-id>",
		Short: "List an account's subscriptions, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAPIClient(true)
			if err != nil {
				return err
			}
			subs, err := c.Subscriptions().ListByAccount(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to list subscriptions: %w", err)
			}
			return printSubscriptions(subs)
		},
	}
}

func newSubscriptionCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <subscription-id>",
		Short: "Cancel an ACTIVE subscription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAPIClient(true)
			if err != nil {
				return err
			}
			if err := c.Subscriptions().Cancel(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to cancel subscription: %w", err)
			}
			fmt.Fprintf(stdout, "Subscription %s canceled\n", args[0])
			return nil
		},
	}
}

func newSubscriptionRenewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "renew <subscription-id>",
		Short: "Start a RENEWAL following a subscription that is no longer in force",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAPIClient(true)
			if err != nil {
				return err
			}
			sub, err := c.Subscriptions().Renew(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to renew subscription: %w", err)
			}
			return printSubscriptions([]client.Subscription{*sub})
		},
	}
}

func printSubscriptions(subs []client.Subscription) error {
	if getOutputFormat() != "table" {
		return printOutput(subs)
	}

	t := NewTable("ID", "ACCOUNT", "PLAN", "STATUS", "ORIGIN", "START", "END")
	for _, s := range subs {
		t.AddRow(
			s.ID,
			s.AccountID,
			s.PlanID,
			formatStatus(s.Status),
			s.Origin,
			formatTime(s.StartDate),
			formatTime(s.EndDate),
		)
	}
	t.Render()
	return nil
}
