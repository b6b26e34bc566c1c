package bootstrap

import (
	"log/slog"

	"slot-reservation-engine/internal/handler/middleware"
	"slot-reservation-engine/internal/pkg/config"

	"go.uber.org/fx"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		NewLogger,
	),
	// CLI commands that never ask for a logger still get the configured default
	fx.Invoke(func(*slog.Logger) {}),
)

// NewLogger also installs the logger as the slog default.
func NewLogger(cfg config.Config) *slog.Logger {
	return middleware.NewLogger(cfg.Log)
}
