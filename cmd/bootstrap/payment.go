package bootstrap

import (
	"slot-reservation-engine/internal/infra/payment"
	"slot-reservation-engine/internal/pkg/config"
	"slot-reservation-engine/internal/usecase/commands"

	"go.uber.org/fx"
)

var PaymentModule = fx.Module("payment",
	fx.Provide(
		NewPaymentGateway,
	),
)

func NewPaymentGateway(cfg config.Config) commands.PaymentGateway {
	return payment.NewStripeGateway(cfg.Payment)
}
