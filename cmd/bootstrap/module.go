package bootstrap

import (
	"slot-reservation-engine/cmd/bootstrap/components"

	"go.uber.org/fx"
)

// InfraModule wires external dependencies; Module adds the application layers on top.
var InfraModule = fx.Options(
	LoggerModule,
	TracingModule,
	DBModule,
	CacheModule,
	BrokerModule,
	PaymentModule,
	JWTModule,
)

var Module = fx.Options(
	ConfigModule,
	InfraModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.HandlerModule,
)
