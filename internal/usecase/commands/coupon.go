package commands

import (
	"context"

	"github.com/google/uuid"

	"stay-booking/internal/domain/coupon"
	"stay-booking/internal/domain/money"
	"stay-booking/internal/domain/reservation"
	"stay-booking/internal/domain/user"
	reqdto "stay-booking/internal/handler/dto/request"
	"stay-booking/internal/pkg/clock"
	"stay-booking/internal/pkg/errs"
	"stay-booking/internal/usecase/shared"
)

type CouponCommands interface {
	Apply(ctx context.Context, reservationID uuid.UUID, req reqdto.ApplyCouponRequest, actor user.Actor) (money.Money, error)
	Remove(ctx context.Context, reservationID uuid.UUID, actor user.Actor) error
}

type couponCommandsImpl struct {
	uow     shared.UnitOfWork
	units   shared.UnitReader
	engine  *shared.CouponEngine
	clock   clock.Clock
	metrics shared.Metrics
}

func NewCouponCommands(uow shared.UnitOfWork, units shared.UnitReader, engine *shared.CouponEngine, clock clock.Clock, metrics shared.Metrics) CouponCommands {
	return &couponCommandsImpl{
		uow:     uow,
		units:   units,
		engine:  engine,
		clock:   clock,
		metrics: metrics,
	}
}

// Apply redeems a coupon on a pending reservation. The redeeming user is the
// reservation's guest, also when an admin applies it.
func (c *couponCommandsImpl) Apply(ctx context.Context, reservationID uuid.UUID, req reqdto.ApplyCouponRequest, actor user.Actor) (money.Money, error) {
	var discount money.Money
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := c.authorizedReservation(ctx, tx, reservationID, actor)
		if err != nil {
			return err
		}
		if res.Status() != reservation.StatusPending {
			return reservation.ErrCouponChangesClosed
		}

		discount, err = c.engine.Apply(ctx, tx, req.NormalizedCode(), res, res.GuestID())
		if err != nil {
			return err
		}
		if err := tx.Reservations().Update(ctx, res); err != nil {
			return errs.Wrap(err, "update reservation")
		}
		return nil
	})
	if err != nil {
		c.metrics.CouponRedemption(couponResultLabel(err))
		return money.Zero(), err
	}

	c.metrics.CouponRedemption("applied")
	return discount, nil
}

func (c *couponCommandsImpl) Remove(ctx context.Context, reservationID uuid.UUID, actor user.Actor) error {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := c.authorizedReservation(ctx, tx, reservationID, actor)
		if err != nil {
			return err
		}
		if err := res.ClearDiscount(c.clock.Now()); err != nil {
			return err
		}

		removed, err := c.engine.Remove(ctx, tx, res.ID())
		if err != nil {
			return err
		}
		if !removed {
			return coupon.ErrRedemptionNotFound
		}

		if err := tx.Reservations().Update(ctx, res); err != nil {
			return errs.Wrap(err, "update reservation")
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.metrics.CouponRedemption("removed")
	return nil
}

func (c *couponCommandsImpl) authorizedReservation(ctx context.Context, tx shared.Tx, id uuid.UUID, actor user.Actor) (*reservation.Reservation, error) {
	res, err := loadReservation(ctx, tx, id, false)
	if err != nil {
		return nil, err
	}
	u, err := c.units.FindByID(ctx, res.UnitID())
	if err != nil {
		return nil, errs.Wrap(err, "load unit")
	}
	if err := reservation.Authorize(reservation.ActionManageCoupon, actor, res.GuestID(), u.HostID()); err != nil {
		return nil, err
	}
	return res, nil
}
