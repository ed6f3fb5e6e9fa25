package components

import (
	"go.uber.org/fx"

	"stay-booking/internal/handler"
	"stay-booking/internal/handler/api"
	"stay-booking/internal/handler/middleware"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewReservationHandler,
		api.NewUnitHandler,
		api.NewPaymentHandler,
		NewHandlers,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)

func NewHandlers(reservations *api.ReservationHandler, units *api.UnitHandler, payments *api.PaymentHandler) handler.Handlers {
	return handler.Handlers{
		Reservations: reservations,
		Units:        units,
		Payments:     payments,
	}
}
