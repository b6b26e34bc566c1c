package cli

import (
	"context"
	"log/slog"

	"slot-reservation-engine/cmd/bootstrap"
	"slot-reservation-engine/cmd/bootstrap/components"
	"slot-reservation-engine/internal/usecase/commands"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func newReapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reap",
		Short: "Run one pending-booking sweep and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var reaper commands.ReaperCommands
			app := fx.New(
				bootstrap.ConfigModule,
				bootstrap.InfraModule,
				components.PersistenceModule,
				components.UseCaseModule,
				fx.Populate(&reaper),
				fx.NopLogger,
			)
			if err := app.Start(cmd.Context()); err != nil {
				return err
			}
			defer func() {
				if err := app.Stop(context.Background()); err != nil {
					slog.Warn("failed to stop application", "error", err)
				}
			}()

			res, err := reaper.ReapStale(cmd.Context())
			if err != nil {
				return err
			}
			slog.Info("reap finished",
				"scanned", res.Scanned,
				"expired", res.Expired,
				"skipped", res.Skipped,
				"failed", res.Failed,
				"purged_keys", res.Purged,
			)
			return nil
		},
	}
}
