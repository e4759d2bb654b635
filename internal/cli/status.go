package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that the server is up",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAPIClient(false)
			if err != nil {
				return err
			}

			health, err := c.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("server unreachable: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(health)
			}
			fmt.Fprintf(stdout, "%s: %s (version %s)\n",
				viper.GetString("server_url"), formatStatus(health.Status), health.Version)
			return nil
		},
	}
}
