package components

import (
	"slot-reservation-engine/internal/domain/booking"
	"slot-reservation-engine/internal/pkg/clock"
	"slot-reservation-engine/internal/pkg/config"
	"slot-reservation-engine/internal/usecase"
	"slot-reservation-engine/internal/usecase/commands"
	"slot-reservation-engine/internal/usecase/queries"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewSettings,
	fx.Annotate(
		NewPriceCalculator,
		fx.As(new(booking.PriceCalculator)),
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewCheckoutUseCase,
		commands.NewConfirmationUseCase,
		commands.NewReaperUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
		queries.NewAvailabilityQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

func NewSettings(cfg config.Config) commands.Settings {
	return commands.Settings{
		Currency:    cfg.Payment.Currency,
		PendingTTL:  cfg.Reaper.PendingTTL,
		ReaperBatch: cfg.Reaper.BatchSize,
	}
}

func NewPriceCalculator(cfg config.Config) (*booking.DefaultPriceCalculator, error) {
	rate, err := decimal.NewFromString(cfg.Pricing.PlatformRate)
	if err != nil {
		return nil, err
	}
	return booking.NewDefaultPriceCalculator(rate)
}
