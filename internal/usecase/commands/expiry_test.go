//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stay-booking/internal/domain/reservation"
	"stay-booking/internal/usecase/commands"
	"stay-booking/internal/usecase/shared"
)

func TestExpiryCommands_SweepExpired(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing due inside the payment window", func(t *testing.T) {
		f := newFixture(t)
		id := f.book(t, f.guest)
		f.clock.Add(paymentWindow - time.Minute)

		result, err := f.expiry.SweepExpired(ctx)
		require.NoError(t, err)
		assert.Equal(t, commands.SweepResult{}, result)
		assert.Equal(t, reservation.StatusPending, f.reservation(t, id).Status())
	})

	t.Run("expires unpaid reservations and releases everything they hold", func(t *testing.T) {
		f := newFixture(t)
		couponID := f.addCoupon(t, "SUMMER10")
		id := f.book(t, f.guest, "SUMMER10")
		f.clock.Add(paymentWindow)

		result, err := f.expiry.SweepExpired(ctx)
		require.NoError(t, err)
		assert.Equal(t, commands.SweepResult{Scanned: 1, Expired: 1}, result)

		res := f.reservation(t, id)
		assert.Equal(t, reservation.StatusCancelled, res.Status())
		assert.Equal(t, reservation.CancelledExpired, res.Cancellation().Kind)
		assert.Zero(t, f.store.HeldNights(id))
		assert.Zero(t, f.store.CouponUsage(couponID))
		assert.Contains(t, f.store.Topics(), shared.TopicReservationExpired)

		f.bookStay(t, f.otherGuest(), "2030-06-10", "2030-06-13")
	})

	t.Run("a second sweep is a no-op", func(t *testing.T) {
		f := newFixture(t)
		f.book(t, f.guest)
		f.clock.Add(time.Hour)

		_, err := f.expiry.SweepExpired(ctx)
		require.NoError(t, err)
		jobs := len(f.store.Jobs())

		result, err := f.expiry.SweepExpired(ctx)
		require.NoError(t, err)
		assert.Equal(t, commands.SweepResult{}, result)
		assert.Len(t, f.store.Jobs(), jobs)
	})

	t.Run("paid reservations are never scanned", func(t *testing.T) {
		f := newFixture(t)
		id := f.book(t, f.guest)
		f.pay(t, id, "completed")
		f.clock.Add(time.Hour)

		result, err := f.expiry.SweepExpired(ctx)
		require.NoError(t, err)
		assert.Equal(t, commands.SweepResult{}, result)
		assert.Equal(t, reservation.StatusPending, f.reservation(t, id).Status())
		assert.Equal(t, 3, f.store.HeldNights(id))
	})

	t.Run("a full batch of paid reservations does not starve unpaid ones", func(t *testing.T) {
		f := newFixture(t)
		var paid []uuid.UUID
		for i := 0; i < 15; i++ {
			in := day("2030-07-01").AddDays(2 * i)
			id := f.bookStay(t, f.otherGuest(), in.String(), in.AddDays(1).String())
			f.pay(t, id, "completed")
			paid = append(paid, id)
		}
		f.clock.Add(time.Minute)
		unpaid := f.book(t, f.guest)
		f.clock.Add(time.Hour)

		for range 3 {
			_, err := f.expiry.SweepExpired(ctx)
			require.NoError(t, err)
		}

		assert.Equal(t, reservation.StatusCancelled, f.reservation(t, unpaid).Status())
		assert.Zero(t, f.store.HeldNights(unpaid))
		for _, id := range paid {
			assert.Equal(t, reservation.StatusPending, f.reservation(t, id).Status())
		}
	})

	t.Run("confirmed reservations are never scanned", func(t *testing.T) {
		f := newFixture(t)
		id := f.book(t, f.guest)
		f.confirm(t, id)
		f.clock.Add(time.Hour)

		result, err := f.expiry.SweepExpired(ctx)
		require.NoError(t, err)
		assert.Zero(t, result.Scanned)
		assert.Equal(t, reservation.StatusConfirmed, f.reservation(t, id).Status())
	})

	t.Run("works through one batch per run", func(t *testing.T) {
		f := newFixture(t)
		for i := 0; i < 12; i++ {
			in := day("2030-07-01").AddDays(2 * i)
			f.bookStay(t, f.otherGuest(), in.String(), in.AddDays(1).String())
		}
		f.clock.Add(time.Hour)

		first, err := f.expiry.SweepExpired(ctx)
		require.NoError(t, err)
		assert.Equal(t, 10, first.Expired)

		second, err := f.expiry.SweepExpired(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, second.Expired)
	})
}
