package cli

import (
	"fmt"

	"slot-reservation-engine/internal/infra/db"
	"slot-reservation-engine/internal/pkg/config"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			pool, cleanup, err := db.Connect(cmd.Context(), cfg.DB)
			if err != nil {
				return err
			}
			defer cleanup()

			applied, err := db.MigrateUp(cmd.Context(), pool)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
				return nil
			}
			for _, v := range applied {
				fmt.Fprintln(cmd.OutOrStdout(), "applied", v)
			}
			return nil
		},
	}
}
