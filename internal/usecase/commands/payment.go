package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"stay-booking/internal/domain/payment"
	"stay-booking/internal/domain/reservation"
	"stay-booking/internal/pkg/clock"
	"stay-booking/internal/pkg/errs"
	"stay-booking/internal/usecase/shared"
)

var ErrTransactionReservationMismatch = errs.Mark(
	errs.New("transaction id already belongs to another reservation"), errs.ErrDomainValidation)

// PaymentOutcome tells the payment subsystem what the callback caused.
type PaymentOutcome string

const (
	PaymentOutcomeRecorded             PaymentOutcome = "recorded"
	PaymentOutcomeIgnored              PaymentOutcome = "ignored"
	PaymentOutcomeRefundRequired       PaymentOutcome = "refund_required"
	PaymentOutcomeReservationCancelled PaymentOutcome = "reservation_cancelled"
)

type PaymentCommands interface {
	HandleEvent(ctx context.Context, event payment.Event) (PaymentOutcome, error)
}

type paymentCommandsImpl struct {
	uow     shared.UnitOfWork
	coupons *shared.CouponEngine
	clock   clock.Clock
	metrics shared.Metrics
}

func NewPaymentCommands(uow shared.UnitOfWork, coupons *shared.CouponEngine, clock clock.Clock, metrics shared.Metrics) PaymentCommands {
	return &paymentCommandsImpl{
		uow:     uow,
		coupons: coupons,
		clock:   clock,
		metrics: metrics,
	}
}

type refundRequiredPayload struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	TransactionID string    `json:"transaction_id"`
	AmountCents   int64     `json:"amount_cents"`
	Status        string    `json:"reservation_status"`
}

// HandleEvent records a payment status change. The reservation row is locked
// and its version bumped, so a concurrent expiry sweep loses its optimistic
// check instead of cancelling a reservation that was just paid.
func (p *paymentCommandsImpl) HandleEvent(ctx context.Context, event payment.Event) (PaymentOutcome, error) {
	if err := event.Validate(); err != nil {
		return "", err
	}

	var outcome PaymentOutcome
	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := loadReservation(ctx, tx, event.ReservationID, true)
		if err != nil {
			return err
		}

		record, err := p.nextPaymentRecord(ctx, tx, event)
		if err != nil {
			return err
		}
		if record == nil {
			outcome = PaymentOutcomeIgnored
			return nil
		}
		if err := tx.Payments().Upsert(ctx, record); err != nil {
			return errs.Wrap(err, "upsert payment")
		}

		outcome, err = p.applyToReservation(ctx, tx, res, event)
		return err
	})
	if err != nil {
		return "", err
	}

	slog.Info("payment event handled",
		"reservation_id", event.ReservationID,
		"transaction_id", event.TransactionID,
		"status", event.Status.String(),
		"outcome", string(outcome),
	)
	return outcome, nil
}

// nextPaymentRecord returns the record to store, or nil for a duplicate or
// out-of-order delivery.
func (p *paymentCommandsImpl) nextPaymentRecord(ctx context.Context, tx shared.Tx, event payment.Event) (*payment.Payment, error) {
	existing, err := tx.Payments().FindByTransactionID(ctx, event.TransactionID)
	if err != nil && !errs.Is(err, errs.ErrNotFound) {
		return nil, errs.Wrap(err, "find payment")
	}

	if existing == nil {
		return &payment.Payment{
			ID:            uuid.New(),
			ReservationID: event.ReservationID,
			TransactionID: event.TransactionID,
			Status:        event.Status,
			Amount:        event.Amount,
			UpdatedAt:     event.OccurredAt,
		}, nil
	}

	if existing.ReservationID != event.ReservationID {
		return nil, ErrTransactionReservationMismatch
	}
	if existing.Status == event.Status || !existing.CanAdvanceTo(event.Status) {
		return nil, nil
	}

	existing.Status = event.Status
	existing.Amount = event.Amount
	existing.UpdatedAt = event.OccurredAt
	return existing, nil
}

func (p *paymentCommandsImpl) applyToReservation(ctx context.Context, tx shared.Tx, res *reservation.Reservation, event payment.Event) (PaymentOutcome, error) {
	now := p.clock.Now()

	switch event.Status {
	case payment.StatusCompleted:
		switch res.Status() {
		case reservation.StatusPending:
			if err := tx.Reservations().TouchVersion(ctx, res.ID(), res.Version()); err != nil {
				return "", errs.Wrap(err, "bump reservation version")
			}
		case reservation.StatusCancelled, reservation.StatusRejected:
			return p.requireRefund(ctx, tx, res, event, now)
		}
		return PaymentOutcomeRecorded, nil

	case payment.StatusRefunded:
		if res.Status() != reservation.StatusPending && res.Status() != reservation.StatusConfirmed {
			return PaymentOutcomeRecorded, nil
		}
		if err := res.Cancel(reservation.CancelledByPaymentRefunded, "payment refunded", uuid.Nil, now); err != nil {
			return "", err
		}
		if err := tx.Reservations().Update(ctx, res); err != nil {
			return "", errs.Wrap(err, "update reservation")
		}
		if err := releaseHold(ctx, tx, p.coupons, res, true); err != nil {
			return "", err
		}
		if err := enqueueReservationEvent(ctx, tx, shared.TopicReservationCancelled, res, "payment refunded", now); err != nil {
			return "", err
		}
		p.metrics.ReservationTransition(reservation.StatusCancelled)
		return PaymentOutcomeReservationCancelled, nil

	default:
		return PaymentOutcomeRecorded, nil
	}
}

// requireRefund handles money arriving for a reservation that no longer holds
// its nights. The reservation stays as it is; the refund is left to the
// payment subsystem through the outbox.
func (p *paymentCommandsImpl) requireRefund(ctx context.Context, tx shared.Tx, res *reservation.Reservation, event payment.Event, now time.Time) (PaymentOutcome, error) {
	payload, err := json.Marshal(refundRequiredPayload{
		ReservationID: res.ID(),
		TransactionID: event.TransactionID,
		AmountCents:   event.Amount.Cents(),
		Status:        res.Status().String(),
	})
	if err != nil {
		return "", errs.Wrap(err, "marshal refund payload")
	}
	if err := tx.Notifications().CreateJob(ctx, notificationKindPayment, shared.TopicRefundRequired, payload, now); err != nil {
		return "", errs.Mark(errs.Wrap(err, "enqueue refund"), errs.ErrDatabaseOperationFailed)
	}

	if res.IsExpiredCancellation() {
		p.metrics.LatePayment()
	}
	slog.Warn("payment received for released reservation",
		"reservation_id", res.ID(),
		"status", res.Status().String(),
		"transaction_id", event.TransactionID,
	)
	return PaymentOutcomeRefundRequired, nil
}
