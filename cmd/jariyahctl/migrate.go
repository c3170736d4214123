package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jariyah/internal/config"
	"jariyah/internal/gateway/postgres"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the PostgreSQL schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer a.close()

			pg, ok := a.gateway.(*postgres.Gateway)
			if !ok {
				return fmt.Errorf("migrate needs STORE=%s, have %q", config.StorePostgres, a.cfg.STORE)
			}
			if err := pg.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}
