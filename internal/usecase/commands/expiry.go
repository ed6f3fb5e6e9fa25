package commands

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"stay-booking/internal/domain/payment"
	"stay-booking/internal/domain/reservation"
	"stay-booking/internal/pkg/clock"
	"stay-booking/internal/pkg/errs"
	"stay-booking/internal/usecase/shared"
)

type SweepResult struct {
	Scanned int
	Expired int
	Skipped int
	Failed  int
}

type ExpiryCommands interface {
	// SweepExpired cancels one batch of pending reservations whose payment
	// window has elapsed. Running it again over the same data is a no-op.
	SweepExpired(ctx context.Context) (SweepResult, error)
}

type expiryCommandsImpl struct {
	uow       shared.UnitOfWork
	coupons   *shared.CouponEngine
	clock     clock.Clock
	metrics   shared.Metrics
	batchSize int
}

func NewExpiryCommands(uow shared.UnitOfWork, coupons *shared.CouponEngine, clock clock.Clock, metrics shared.Metrics, batchSize int) ExpiryCommands {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &expiryCommandsImpl{
		uow:       uow,
		coupons:   coupons,
		clock:     clock,
		metrics:   metrics,
		batchSize: batchSize,
	}
}

func (e *expiryCommandsImpl) SweepExpired(ctx context.Context) (SweepResult, error) {
	started := e.clock.Now()
	var result SweepResult

	ids, err := e.uow.Reads().Reservations().ListExpiredPending(ctx, started, e.batchSize)
	if err != nil {
		return result, errs.Mark(errs.Wrap(err, "list expired reservations"), errs.ErrDatabaseOperationFailed)
	}
	result.Scanned = len(ids)

	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}

		expired, err := e.expireOne(ctx, id)
		if errs.Is(err, errs.ErrConcurrencyConflict) {
			expired, err = e.expireOne(ctx, id)
		}

		switch {
		case err != nil:
			result.Failed++
			slog.Error("failed to expire reservation", "reservation_id", id, "error", err.Error())
		case expired:
			result.Expired++
		default:
			result.Skipped++
		}
	}

	e.metrics.SweepCompleted(result.Expired, result.Skipped, result.Failed, e.clock.Now().Sub(started))
	if result.Scanned > 0 {
		slog.Info("expiry sweep finished",
			"scanned", result.Scanned,
			"expired", result.Expired,
			"skipped", result.Skipped,
			"failed", result.Failed,
		)
	}
	return result, ctx.Err()
}

// expireOne re-checks the reservation inside its own transaction, so a
// reservation confirmed or paid since the scan is skipped.
func (e *expiryCommandsImpl) expireOne(ctx context.Context, id uuid.UUID) (bool, error) {
	expired := false
	err := e.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		expired = false

		res, err := loadReservation(ctx, tx, id, false)
		if err != nil {
			return err
		}

		now := e.clock.Now()
		if res.Status() != reservation.StatusPending || !res.IsPaymentExpired(now) {
			return nil
		}

		payments, err := tx.Payments().ListByReservation(ctx, res.ID())
		if err != nil {
			return errs.Wrap(err, "list payments")
		}
		if payment.Settled(payments) {
			return nil
		}

		if err := res.Expire(now); err != nil {
			return err
		}
		if err := tx.Reservations().Update(ctx, res); err != nil {
			return errs.Wrap(err, "update reservation")
		}
		if err := releaseHold(ctx, tx, e.coupons, res, true); err != nil {
			return err
		}
		if err := enqueueReservationEvent(ctx, tx, shared.TopicReservationExpired, res, "payment window elapsed", now); err != nil {
			return err
		}

		expired = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if expired {
		e.metrics.ReservationTransition(reservation.StatusCancelled)
		slog.Info("reservation expired", "reservation_id", id)
	}
	return expired, nil
}
