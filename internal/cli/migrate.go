package cli

import (
	"fmt"

	"github.com/pratik-mahalle/trainhub/internal/config"
	"github.com/pratik-mahalle/trainhub/internal/repository/postgres"
	"github.com/pratik-mahalle/trainhub/migrations"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := postgres.New(cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			applied, err := postgres.RunMigrations(db, migrations.GetFS())
			if err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			if len(applied) == 0 {
				fmt.Fprintln(stdout, "Schema is up to date")
				return nil
			}
			for _, v := range applied {
				fmt.Fprintf(stdout, "Applied %s\n", v)
			}
			return nil
		},
	}
}
