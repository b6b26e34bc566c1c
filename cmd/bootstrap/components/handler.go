package components

import (
	"slot-reservation-engine/internal/handler"
	"slot-reservation-engine/internal/handler/api"
	"slot-reservation-engine/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewCheckoutHandler,
		api.NewBookingHandler,
		api.NewAvailabilityHandler,
		middleware.NewAuthMiddleware,
		NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func NewHandlers(checkout *api.CheckoutHandler, bookings *api.BookingHandler, availability *api.AvailabilityHandler) handler.Handlers {
	return handler.Handlers{
		Checkout:     checkout,
		Booking:      bookings,
		Availability: availability,
	}
}
