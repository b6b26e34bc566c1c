package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"slot-reservation-engine/cmd/bootstrap"
	"slot-reservation-engine/internal/infra/db"
	"slot-reservation-engine/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func newServeCmd() *cobra.Command {
	var (
		migrateUp   bool
		withWorkers bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with the reaper and outbox relay",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := []fx.Option{
				bootstrap.Module,
				fx.Provide(func() *gin.Engine { return gin.New() }),
				fx.Invoke(startServer),
			}
			if migrateUp {
				opts = append(opts, fx.Invoke(migrateOnStart))
			}
			if withWorkers {
				opts = append(opts, bootstrap.WorkerModule)
			}

			app := fx.New(opts...)
			if err := app.Start(cmd.Context()); err != nil {
				slog.Error("failed to start application", "error", err)
				return err
			}

			<-app.Done()

			stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := app.Stop(stopCtx); err != nil {
				// shutdown errors are reported but do not change the exit code
				slog.Error("failed to stop application", "error", err)
			}

			slog.Info("application stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", false, "apply database migrations before serving")
	cmd.Flags().BoolVar(&withWorkers, "workers", true, "run the pending reaper and outbox relay in-process")
	return cmd
}

func migrateOnStart(lc fx.Lifecycle, pool *pgxpool.Pool) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_, err := db.MigrateUp(ctx, pool)
			return err
		},
	})
}

func startServer(lc fx.Lifecycle, engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			gin.EnableJsonDecoderDisallowUnknownFields()
			logger.Info("starting http server", "address", srv.Addr, "mode", gin.Mode())
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("http server failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping http server")
			return srv.Shutdown(ctx)
		},
	})
}
