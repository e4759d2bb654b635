package cli

import (
	"fmt"
	"time"

	"github.com/pratik-mahalle/trainhub/internal/auth"
	"github.com/pratik-mahalle/trainhub/internal/config"
	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Development identity assertions",
	}

	cmd.AddCommand(newTokenMintCmd())
	return cmd
}

func newTokenMintCmd() *cobra.Command {
	var (
		admin bool
		ttl   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "mint <user-id>",
		Short: "Sign a token for a user with the server's JWT secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			var roles []string
			if admin {
				roles = append(roles, auth.RoleAdmin)
			}
			if ttl <= 0 {
				ttl = cfg.Auth.AccessTokenExpiry
			}

			token, err := auth.MintToken(args[0], roles, cfg.Auth.JWTSecret, cfg.Auth.Issuer, ttl)
			if err != nil {
				return fmt.Errorf("failed to mint token: %w", err)
			}
			fmt.Fprintln(stdout, token)
			return nil
		},
	}

	cmd.Flags().BoolVar(&admin, "admin", false, "grant the platform admin role")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default JWT_ACCESS_EXPIRY)")

	return cmd
}
