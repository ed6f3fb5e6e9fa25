//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"stay-booking/internal/domain/calendar"
	"stay-booking/internal/domain/coupon"
	"stay-booking/internal/domain/money"
	"stay-booking/internal/domain/reservation"
	"stay-booking/internal/domain/unit"
	"stay-booking/internal/domain/user"
	reqdto "stay-booking/internal/handler/dto/request"
	"stay-booking/internal/pkg/clock"
	"stay-booking/internal/usecase/commands"
	"stay-booking/internal/usecase/shared"
	"stay-booking/tests/common/builder"
	"stay-booking/tests/common/memstore"
)

var fixtureNow = time.Date(2030, time.June, 1, 9, 0, 0, 0, time.UTC)

const paymentWindow = 15 * time.Minute

// fixture wires every command over one in-memory store. The default unit
// charges 10000 per night with 5% cleaning, 10% service and 8% tax, so a
// three-night weekday stay has a subtotal of 36900.
type fixture struct {
	store    *memstore.Store
	clock    *clock.MockClock
	unit     *unit.Unit
	host     user.Actor
	guest    user.Actor
	admin    user.Actor
	settings commands.BookingSettings

	// listed keeps units visible to the catalog after they leave the store.
	listed map[uuid.UUID]*unit.Unit

	booking  commands.BookingCommands
	coupons  commands.CouponCommands
	calendar commands.CalendarCommands
	payments commands.PaymentCommands
	expiry   commands.ExpiryCommands
}

func newFixture(t *testing.T, mutate ...func(*commands.BookingSettings)) *fixture {
	t.Helper()

	f := &fixture{
		store: memstore.New(),
		clock: clock.NewMockClock(fixtureNow),
		host:  user.Actor{ID: uuid.New(), Role: user.RoleHost},
		guest: user.Actor{ID: uuid.New(), Role: user.RoleGuest},
		admin: user.Actor{ID: uuid.New(), Role: user.RoleAdmin},
		settings: commands.BookingSettings{
			PaymentGate:    commands.PaymentGateConfirm,
			StrictCheckIn:  true,
			IdempotencyTTL: 24 * time.Hour,
		},
	}
	for _, m := range mutate {
		m(&f.settings)
	}

	f.unit = builder.NewUnitBuilder().WithHost(f.host.ID).MustBuild()
	f.store.AddUnit(f.unit)

	pct := func(v float64) money.Percent {
		p, err := money.NewPercent(v)
		require.NoError(t, err)
		return p
	}
	pricing := reservation.NewDefaultPriceCalculator(reservation.FeeRates{
		Cleaning: pct(5),
		Service:  pct(10),
		Tax:      pct(8),
	}, []time.Weekday{time.Friday, time.Saturday})

	metrics := shared.NopMetrics{}
	engine := shared.NewCouponEngine(f.clock)
	guard := shared.NewOverlapGuard()
	factory := reservation.NewFactory(f.clock, paymentWindow)

	f.booking = commands.NewBookingCommands(f.store, f, guard, engine, pricing, factory, f.clock, metrics, f.settings)
	f.coupons = commands.NewCouponCommands(f.store, f, engine, f.clock, metrics)
	f.calendar = commands.NewCalendarCommands(f.store, f)
	f.payments = commands.NewPaymentCommands(f.store, engine, f.clock, metrics)
	f.expiry = commands.NewExpiryCommands(f.store, engine, f.clock, metrics, 10)
	return f
}

// FindByID makes the fixture the commands' unit catalog. It reads through the
// transactional view, which is safe to call while a transaction is running.
func (f *fixture) FindByID(ctx context.Context, id uuid.UUID) (*unit.Unit, error) {
	if u, ok := f.listed[id]; ok {
		return u, nil
	}
	return f.store.Units().FindByID(ctx, id)
}

func (f *fixture) request(checkIn, checkOut string) reqdto.CreateReservationRequest {
	return builder.NewReservationBuilder().With(func(b *builder.ReservationBuilder) {
		b.UnitID = f.unit.ID()
		b.CheckIn = checkIn
		b.CheckOut = checkOut
	}).BuildCreateRequestDTO()
}

// book creates a reservation for the default stay (2030-06-10 to 2030-06-13).
func (f *fixture) book(t *testing.T, guest user.Actor, couponCode ...string) uuid.UUID {
	t.Helper()
	return f.bookStay(t, guest, "2030-06-10", "2030-06-13", couponCode...)
}

func (f *fixture) bookStay(t *testing.T, guest user.Actor, checkIn, checkOut string, couponCode ...string) uuid.UUID {
	t.Helper()
	req := f.request(checkIn, checkOut)
	if len(couponCode) > 0 {
		req.CouponCode = &couponCode[0]
	}
	result, err := f.booking.Create(context.Background(), req, guest, uuid.New())
	require.NoError(t, err)
	require.False(t, result.IsReplayed)
	return result.ReservationID
}

func (f *fixture) confirm(t *testing.T, id uuid.UUID) {
	t.Helper()
	f.pay(t, id, "completed")
	require.NoError(t, f.booking.Confirm(context.Background(), id, f.host))
}

func (f *fixture) pay(t *testing.T, id uuid.UUID, status string) commands.PaymentOutcome {
	t.Helper()
	event, err := reqdto.PaymentEventRequest{
		ReservationID: id,
		TransactionID: "txn-" + id.String(),
		Status:        status,
		AmountCents:   36900,
	}.ToDomain(f.clock.Now())
	require.NoError(t, err)
	outcome, err := f.payments.HandleEvent(context.Background(), event)
	require.NoError(t, err)
	return outcome
}

// addCoupon stores a 10% all-units coupon valid around fixtureNow.
func (f *fixture) addCoupon(t *testing.T, code string, mutate ...func(*coupon.Params)) uuid.UUID {
	t.Helper()
	discount, err := coupon.NewPercentageDiscount(10)
	require.NoError(t, err)
	p := coupon.Params{
		Code:     code,
		Discount: discount,
		StartsAt: fixtureNow.Add(-24 * time.Hour),
		EndsAt:   fixtureNow.Add(30 * 24 * time.Hour),
		Scope:    coupon.ScopeAllUnits,
		Active:   true,
	}
	for _, m := range mutate {
		m(&p)
	}
	return f.store.AddCoupon(p)
}

func (f *fixture) reservation(t *testing.T, id uuid.UUID) *reservation.Reservation {
	t.Helper()
	res := f.store.Reservation(id)
	require.NotNil(t, res)
	return res
}

func (f *fixture) otherGuest() user.Actor {
	return user.Actor{ID: uuid.New(), Role: user.RoleGuest}
}

func day(s string) calendar.Date {
	d, err := calendar.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}
