package shared

import (
	"context"

	"github.com/google/uuid"

	"stay-booking/internal/domain/calendar"
	"stay-booking/internal/domain/coupon"
	"stay-booking/internal/domain/money"
	"stay-booking/internal/domain/reservation"
	"stay-booking/internal/pkg/clock"
	"stay-booking/internal/pkg/errs"
)

// CouponEngine selects, redeems and reverses promotional coupons.
type CouponEngine struct {
	clock clock.Clock
}

func NewCouponEngine(clock clock.Clock) *CouponEngine {
	return &CouponEngine{clock: clock}
}

// FindApplicable returns the coupons the user could use, best first.
func (e *CouponEngine) FindApplicable(ctx context.Context, tx Tx, unitID, userID uuid.UUID, bookingAmount money.Money, nights int) ([]*coupon.Coupon, error) {
	now := e.clock.Now()
	candidates, err := tx.Coupons().ListActiveForUnit(ctx, unitID, now)
	if err != nil {
		return nil, errs.Wrap(err, "list candidate coupons")
	}

	completed, err := tx.Reservations().CountCompletedByGuest(ctx, userID)
	if err != nil {
		return nil, errs.Wrap(err, "count completed reservations")
	}

	applicable := make([]*coupon.Coupon, 0, len(candidates))
	for _, c := range candidates {
		used := 0
		if c.PerUserLimit() != nil {
			used, err = tx.Redemptions().CountActiveByUser(ctx, c.ID(), userID)
			if err != nil {
				return nil, errs.Wrap(err, "count user redemptions")
			}
		}
		elig := coupon.Eligibility{
			Now:                   now,
			UnitID:                unitID,
			BookingAmount:         bookingAmount,
			Nights:                nights,
			CompletedReservations: completed,
			UserRedemptions:       used,
		}
		if c.CheckEligibility(elig) == nil {
			applicable = append(applicable, c)
		}
	}

	coupon.SortByPriority(applicable)
	return applicable, nil
}

// Apply redeems code against res for userID, writes the redemption and the
// counter increment, and sets the discount on res. The caller persists res.
func (e *CouponEngine) Apply(ctx context.Context, tx Tx, code string, res *reservation.Reservation, userID uuid.UUID) (money.Money, error) {
	now := e.clock.Now()

	couponCode, err := coupon.NewCouponCode(code)
	if err != nil {
		return money.Zero(), err
	}

	if _, err = tx.Redemptions().FindActiveByReservation(ctx, res.ID()); err == nil {
		return money.Zero(), coupon.ErrReservationHasCoupon
	} else if !errs.Is(err, errs.ErrNotFound) {
		return money.Zero(), errs.Wrap(err, "find existing redemption")
	}

	c, err := tx.Coupons().FindByCode(ctx, couponCode)
	if err != nil {
		if errs.Is(err, errs.ErrNotFound) {
			return money.Zero(), coupon.ErrCouponNotFound
		}
		return money.Zero(), errs.Wrap(err, "find coupon")
	}

	completed, err := tx.Reservations().CountCompletedByGuest(ctx, userID)
	if err != nil {
		return money.Zero(), errs.Wrap(err, "count completed reservations")
	}
	used, err := tx.Redemptions().CountActiveByUser(ctx, c.ID(), userID)
	if err != nil {
		return money.Zero(), errs.Wrap(err, "count user redemptions")
	}

	bookingAmount := res.Amounts().Subtotal()
	elig := coupon.Eligibility{
		Now:                   now,
		UnitID:                res.UnitID(),
		BookingAmount:         bookingAmount,
		Nights:                res.Stay().Nights(),
		CompletedReservations: completed,
		UserRedemptions:       used,
	}
	if err = c.CheckEligibility(elig); err != nil {
		return money.Zero(), err
	}

	// The conditional increment holds the coupon row lock until commit, so the
	// per-user count below cannot race another redemption of this coupon.
	if err = tx.Coupons().IncrementUsage(ctx, c.ID()); err != nil {
		return money.Zero(), err
	}
	if limit := c.PerUserLimit(); limit != nil {
		used, err = tx.Redemptions().CountActiveByUser(ctx, c.ID(), userID)
		if err != nil {
			return money.Zero(), errs.Wrap(err, "recount user redemptions")
		}
		if used >= *limit {
			return money.Zero(), coupon.ErrPerUserLimitReached
		}
	}

	discount := c.CalculateDiscount(bookingAmount)
	if err = res.ApplyDiscount(discount, now); err != nil {
		return money.Zero(), err
	}

	redemption := coupon.NewRedemption(c.ID(), userID, res.ID(), discount, now)
	if err = tx.Redemptions().Create(ctx, redemption); err != nil {
		if errs.Is(err, errs.ErrConcurrencyConflict) {
			return money.Zero(), coupon.ErrReservationHasCoupon
		}
		return money.Zero(), errs.Wrap(err, "create redemption")
	}

	return discount, nil
}

// Remove reverses the reservation's redemption, if any, and reports whether one existed.
// A failed counter decrement fails the whole operation.
func (e *CouponEngine) Remove(ctx context.Context, tx Tx, reservationID uuid.UUID) (bool, error) {
	redemption, err := tx.Redemptions().FindActiveByReservation(ctx, reservationID)
	if err != nil {
		if errs.Is(err, errs.ErrNotFound) {
			return false, nil
		}
		return false, errs.Wrap(err, "find redemption")
	}

	if err = tx.Redemptions().Delete(ctx, redemption.ID, e.clock.Now()); err != nil {
		return false, errs.Wrap(err, "delete redemption")
	}
	if err = tx.Coupons().DecrementUsage(ctx, redemption.CouponID); err != nil {
		return false, errs.Wrap(err, "decrement coupon usage")
	}
	return true, nil
}

// Recalculate re-derives an existing redemption's discount for a rescheduled
// stay. The coupon must still accept the new stay, otherwise the redemption is
// left untouched and the returned error is CouponNotApplicable.
func (e *CouponEngine) Recalculate(ctx context.Context, tx Tx, res *reservation.Reservation, stay calendar.Range, bookingAmount money.Money) (money.Money, error) {
	redemption, err := tx.Redemptions().FindActiveByReservation(ctx, res.ID())
	if err != nil {
		if errs.Is(err, errs.ErrNotFound) {
			return money.Zero(), nil
		}
		return money.Zero(), errs.Wrap(err, "find redemption")
	}

	c, err := tx.Coupons().FindByID(ctx, redemption.CouponID)
	if err != nil {
		return money.Zero(), errs.Wrap(err, "find redeemed coupon")
	}

	elig := coupon.Eligibility{
		Now:           e.clock.Now(),
		UnitID:        res.UnitID(),
		BookingAmount: bookingAmount,
		Nights:        stay.Nights(),
	}
	if err = c.CheckRedeemedEligibility(elig); err != nil {
		return money.Zero(), err
	}

	discount := c.CalculateDiscount(bookingAmount)
	if err = tx.Redemptions().UpdateDiscount(ctx, redemption.ID, discount); err != nil {
		return money.Zero(), errs.Wrap(err, "update redemption discount")
	}
	return discount, nil
}
