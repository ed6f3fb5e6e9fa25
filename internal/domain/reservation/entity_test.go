//go:build unit

package reservation_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stay-booking/internal/domain/calendar"
	"stay-booking/internal/domain/money"
	"stay-booking/internal/domain/reservation"
	"stay-booking/internal/pkg/errs"
)

var (
	checkIn   = calendar.NewDate(2030, time.June, 10)
	checkOut  = calendar.NewDate(2030, time.June, 13)
	before    = time.Date(2030, time.June, 1, 12, 0, 0, 0, time.UTC)
	onArrival = time.Date(2030, time.June, 10, 15, 0, 0, 0, time.UTC)
)

func mustStay(t *testing.T, in, out calendar.Date) calendar.Range {
	t.Helper()
	r, err := calendar.NewRange(in, out)
	require.NoError(t, err)
	return r
}

func mustAmounts(t *testing.T, base int64) reservation.Amounts {
	t.Helper()
	a, err := reservation.NewAmounts(money.FromCents(base), money.FromCents(1000), money.FromCents(500), money.FromCents(800), money.Zero())
	require.NoError(t, err)
	return a
}

func newReservation(t *testing.T, status reservation.Status) *reservation.Reservation {
	t.Helper()
	expires := before.Add(15 * time.Minute)
	return reservation.Reconstruct(reservation.Snapshot{
		ID:               uuid.New(),
		Code:             "BK-TEST000001",
		UnitID:           uuid.New(),
		GuestID:          uuid.New(),
		Stay:             mustStay(t, checkIn, checkOut),
		Status:           status,
		Amounts:          mustAmounts(t, 30000),
		PaymentExpiresAt: &expires,
		Version:          1,
		CreatedAt:        before,
		UpdatedAt:        before,
	})
}

func TestStatus_CanTransitionTo(t *testing.T) {
	all := []reservation.Status{
		reservation.StatusPending, reservation.StatusConfirmed, reservation.StatusRejected,
		reservation.StatusCancelled, reservation.StatusCheckedIn, reservation.StatusCheckedOut,
		reservation.StatusCompleted, reservation.StatusNoShow,
	}
	allowed := map[reservation.Status][]reservation.Status{
		reservation.StatusPending:    {reservation.StatusConfirmed, reservation.StatusRejected, reservation.StatusCancelled},
		reservation.StatusConfirmed:  {reservation.StatusCheckedIn, reservation.StatusCancelled, reservation.StatusNoShow},
		reservation.StatusCheckedIn:  {reservation.StatusCheckedOut, reservation.StatusNoShow},
		reservation.StatusCheckedOut: {reservation.StatusCompleted},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equalf(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
		assert.Equal(t, len(allowed[from]) == 0, from.IsTerminal(), from)
	}
}

func TestStatus_OccupiesCalendar(t *testing.T) {
	assert.True(t, reservation.StatusPending.OccupiesCalendar())
	assert.True(t, reservation.StatusConfirmed.OccupiesCalendar())
	assert.True(t, reservation.StatusCheckedOut.OccupiesCalendar())
	for _, s := range reservation.ReleasedStatuses() {
		assert.False(t, s.OccupiesCalendar(), s)
	}
}

func TestReservation_Confirm(t *testing.T) {
	r := newReservation(t, reservation.StatusPending)
	require.NoError(t, r.Confirm(before))
	assert.Equal(t, reservation.StatusConfirmed, r.Status())
	assert.Nil(t, r.PaymentExpiresAt())

	err := r.Confirm(before)
	assert.True(t, errs.Is(err, errs.ErrInvalidTransition))
}

func TestReservation_Reject(t *testing.T) {
	r := newReservation(t, reservation.StatusPending)
	require.NoError(t, r.Reject("  unit under maintenance  ", before))
	assert.Equal(t, reservation.StatusRejected, r.Status())
	assert.Equal(t, "unit under maintenance", r.RejectionReason())

	t.Run("reason too long", func(t *testing.T) {
		r := newReservation(t, reservation.StatusPending)
		err := r.Reject(strings.Repeat("x", reservation.MaxReasonLength+1), before)
		assert.ErrorIs(t, err, reservation.ErrReasonTooLong)
		assert.Equal(t, reservation.StatusPending, r.Status())
	})
}

func TestReservation_Cancel(t *testing.T) {
	actor := uuid.New()
	r := newReservation(t, reservation.StatusConfirmed)
	require.NoError(t, r.Cancel(reservation.CancelledByGuest, "plans changed", actor, before))

	assert.Equal(t, reservation.StatusCancelled, r.Status())
	require.NotNil(t, r.Cancellation())
	assert.Equal(t, reservation.CancelledByGuest, r.Cancellation().Kind)
	assert.Equal(t, actor, r.Cancellation().ActorID)
	assert.False(t, r.IsExpiredCancellation())

	for _, s := range []reservation.Status{reservation.StatusCheckedIn, reservation.StatusCompleted, reservation.StatusCancelled} {
		err := newReservation(t, s).Cancel(reservation.CancelledByGuest, "", actor, before)
		assert.Truef(t, errs.Is(err, errs.ErrInvalidTransition), "cancel from %s", s)
	}
}

func TestReservation_Expire(t *testing.T) {
	t.Run("window still open", func(t *testing.T) {
		r := newReservation(t, reservation.StatusPending)
		assert.ErrorIs(t, r.Expire(before.Add(14*time.Minute)), reservation.ErrPaymentWindowOpen)
	})

	t.Run("window elapsed exactly", func(t *testing.T) {
		r := newReservation(t, reservation.StatusPending)
		require.NoError(t, r.Expire(before.Add(15*time.Minute)))
		assert.True(t, r.IsExpiredCancellation())
		assert.Equal(t, uuid.Nil, r.Cancellation().ActorID)
	})

	t.Run("only pending reservations expire", func(t *testing.T) {
		r := newReservation(t, reservation.StatusConfirmed)
		assert.True(t, errs.Is(r.Expire(before.Add(time.Hour)), errs.ErrInvalidTransition))
	})
}

func TestReservation_CheckIn(t *testing.T) {
	t.Run("strict mode refuses an early arrival", func(t *testing.T) {
		r := newReservation(t, reservation.StatusConfirmed)
		assert.ErrorIs(t, r.CheckIn(before, true), reservation.ErrCheckInTooEarly)
	})

	t.Run("lenient mode allows an early arrival", func(t *testing.T) {
		r := newReservation(t, reservation.StatusConfirmed)
		require.NoError(t, r.CheckIn(before, false))
		assert.Equal(t, reservation.StatusCheckedIn, r.Status())
	})

	t.Run("on the arrival date", func(t *testing.T) {
		r := newReservation(t, reservation.StatusConfirmed)
		require.NoError(t, r.CheckIn(onArrival, true))
	})

	t.Run("pending cannot check in", func(t *testing.T) {
		r := newReservation(t, reservation.StatusPending)
		assert.True(t, errs.Is(r.CheckIn(onArrival, true), errs.ErrInvalidTransition))
	})
}

func TestReservation_StayLifecycle(t *testing.T) {
	r := newReservation(t, reservation.StatusPending)
	require.NoError(t, r.Confirm(before))
	require.NoError(t, r.CheckIn(onArrival, true))
	require.NoError(t, r.CheckOut(onArrival.Add(72*time.Hour)))
	require.NoError(t, r.Complete(onArrival.Add(73*time.Hour)))
	assert.Equal(t, reservation.StatusCompleted, r.Status())
	assert.True(t, r.Status().IsTerminal())
	assert.Equal(t, onArrival.Add(73*time.Hour), r.UpdatedAt())
}

func TestReservation_MarkNoShow(t *testing.T) {
	r := newReservation(t, reservation.StatusConfirmed)
	assert.ErrorIs(t, r.MarkNoShow(before), reservation.ErrNoShowTooEarly)
	require.NoError(t, r.MarkNoShow(onArrival))
	assert.Equal(t, reservation.StatusNoShow, r.Status())
	assert.False(t, r.Status().OccupiesCalendar())
}

func TestReservation_Reschedule(t *testing.T) {
	newStay := mustStay(t, calendar.NewDate(2030, time.July, 1), calendar.NewDate(2030, time.July, 5))

	r := newReservation(t, reservation.StatusConfirmed)
	require.NoError(t, r.Reschedule(newStay, mustAmounts(t, 40000), before))
	assert.Equal(t, newStay, r.Stay())
	assert.Equal(t, int64(40000), r.Amounts().Base().Cents())

	closed := newReservation(t, reservation.StatusCheckedIn)
	assert.ErrorIs(t, closed.Reschedule(newStay, mustAmounts(t, 40000), before), reservation.ErrNotModifiable)
}

func TestReservation_Discount(t *testing.T) {
	r := newReservation(t, reservation.StatusPending)
	// subtotal 30000 + 1000 + 500 + 800
	require.NoError(t, r.ApplyDiscount(money.FromCents(2000), before))
	assert.Equal(t, int64(30300), r.Amounts().Total().Cents())

	assert.ErrorIs(t, r.ApplyDiscount(money.FromCents(40000), before), reservation.ErrDiscountOverAmount)
	assert.Equal(t, int64(2000), r.Amounts().Discount().Cents())

	require.NoError(t, r.ClearDiscount(before))
	assert.Equal(t, int64(32300), r.Amounts().Total().Cents())

	confirmed := newReservation(t, reservation.StatusConfirmed)
	assert.ErrorIs(t, confirmed.ApplyDiscount(money.FromCents(100), before), reservation.ErrCouponChangesClosed)
}

func TestNewAmounts(t *testing.T) {
	_, err := reservation.NewAmounts(money.FromCents(-1), money.Zero(), money.Zero(), money.Zero(), money.Zero())
	assert.ErrorIs(t, err, reservation.ErrNegativeAmount)

	a, err := reservation.NewAmounts(money.FromCents(1000), money.Zero(), money.Zero(), money.Zero(), money.FromCents(1000))
	require.NoError(t, err)
	assert.True(t, a.Total().IsZero())
}

func TestNewCode(t *testing.T) {
	c := reservation.NewCode()
	assert.Regexp(t, `^BK-[0-9A-F]{10}$`, c.String())
	assert.NotEqual(t, c, reservation.NewCode())
}
