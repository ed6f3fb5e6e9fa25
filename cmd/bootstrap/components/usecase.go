package components

import (
	"go.uber.org/fx"

	"stay-booking/internal/domain/money"
	"stay-booking/internal/domain/reservation"
	"stay-booking/internal/pkg/clock"
	"stay-booking/internal/pkg/config"
	"stay-booking/internal/usecase"
	"stay-booking/internal/usecase/commands"
	"stay-booking/internal/usecase/queries"
	"stay-booking/internal/usecase/shared"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewPriceCalculator,
	NewReservationFactory,
	NewBookingSettings,
	shared.NewOverlapGuard,
	shared.NewCouponEngine,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewBookingCommands,
		commands.NewCouponCommands,
		commands.NewCalendarCommands,
		commands.NewPaymentCommands,
		NewExpiryCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewReservationQueries,
		queries.NewAvailabilityQueries,
		queries.NewPricingQueries,
		queries.NewCouponQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

func NewPriceCalculator(cfg config.Config) (reservation.PriceCalculator, error) {
	cleaning, err := money.NewPercent(cfg.Pricing.CleaningFeePercent)
	if err != nil {
		return nil, err
	}
	service, err := money.NewPercent(cfg.Pricing.ServiceFeePercent)
	if err != nil {
		return nil, err
	}
	tax, err := money.NewPercent(cfg.Pricing.TaxPercent)
	if err != nil {
		return nil, err
	}
	weekend, err := reservation.ParseWeekdays(cfg.Pricing.WeekendNights)
	if err != nil {
		return nil, err
	}

	rates := reservation.FeeRates{Cleaning: cleaning, Service: service, Tax: tax}
	return reservation.NewDefaultPriceCalculator(rates, weekend), nil
}

func NewReservationFactory(clk clock.Clock, cfg config.Config) *reservation.Factory {
	return reservation.NewFactory(clk, cfg.Booking.PaymentWindow)
}

func NewBookingSettings(cfg config.Config) (commands.BookingSettings, error) {
	gate, err := commands.ParsePaymentGate(cfg.Booking.PaymentGate)
	if err != nil {
		return commands.BookingSettings{}, err
	}
	return commands.BookingSettings{
		PaymentGate:    gate,
		StrictCheckIn:  cfg.Booking.StrictCheckIn,
		IdempotencyTTL: cfg.Booking.IdempotencyTTL,
	}, nil
}

func NewExpiryCommands(uow shared.UnitOfWork, coupons *shared.CouponEngine, clk clock.Clock, metrics shared.Metrics, cfg config.Config) commands.ExpiryCommands {
	return commands.NewExpiryCommands(uow, coupons, clk, metrics, cfg.Sweep.BatchSize)
}
