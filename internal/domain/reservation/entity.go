package reservation

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"stay-booking/internal/domain/calendar"
	"stay-booking/internal/domain/money"
	"stay-booking/internal/pkg/errs"
)

var (
	ErrReservationNotFound = errs.Mark(errs.New("reservation not found"), errs.ErrNotFound)
	ErrPaymentWindowOpen   = errs.Mark(errs.New("payment window has not elapsed"), errs.ErrInvalidTransition)
	ErrCheckInTooEarly     = errs.Mark(errs.New("check-in date has not arrived"), errs.ErrInvalidTransition)
	ErrNoShowTooEarly      = errs.Mark(errs.New("cannot mark no-show before the check-in date"), errs.ErrInvalidTransition)
	ErrNotModifiable       = errs.Mark(errs.New("reservation can no longer be modified"), errs.ErrInvalidTransition)
	ErrCouponChangesClosed = errs.Mark(errs.New("coupons can only be changed while the reservation is pending"), errs.ErrInvalidTransition)
	ErrReasonTooLong       = errs.Mark(errs.New("reason is too long (max 500 characters)"), errs.ErrDomainValidation)
)

const MaxReasonLength = 500

type Reservation struct {
	id               uuid.UUID
	code             Code
	unitID           uuid.UUID
	guestID          uuid.UUID
	stay             calendar.Range
	status           Status
	amounts          Amounts
	paymentExpiresAt *time.Time
	cancellation     *Cancellation
	rejectionReason  string
	version          int64
	createdAt        time.Time
	updatedAt        time.Time
}

type Snapshot struct {
	ID               uuid.UUID
	Code             Code
	UnitID           uuid.UUID
	GuestID          uuid.UUID
	Stay             calendar.Range
	Status           Status
	Amounts          Amounts
	PaymentExpiresAt *time.Time
	Cancellation     *Cancellation
	RejectionReason  string
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func Reconstruct(s Snapshot) *Reservation {
	return &Reservation{
		id:               s.ID,
		code:             s.Code,
		unitID:           s.UnitID,
		guestID:          s.GuestID,
		stay:             s.Stay,
		status:           s.Status,
		amounts:          s.Amounts,
		paymentExpiresAt: s.PaymentExpiresAt,
		cancellation:     s.Cancellation,
		rejectionReason:  s.RejectionReason,
		version:          s.Version,
		createdAt:        s.CreatedAt,
		updatedAt:        s.UpdatedAt,
	}
}

func (r *Reservation) Confirm(now time.Time) error {
	if err := r.transition(StatusConfirmed, now); err != nil {
		return err
	}
	r.paymentExpiresAt = nil
	return nil
}

func (r *Reservation) Reject(reason string, now time.Time) error {
	reason, err := normalizeReason(reason)
	if err != nil {
		return err
	}
	if err := r.transition(StatusRejected, now); err != nil {
		return err
	}
	r.paymentExpiresAt = nil
	r.rejectionReason = reason
	return nil
}

func (r *Reservation) Cancel(kind CancellationKind, reason string, actorID uuid.UUID, now time.Time) error {
	reason, err := normalizeReason(reason)
	if err != nil {
		return err
	}
	if err := r.transition(StatusCancelled, now); err != nil {
		return err
	}
	r.paymentExpiresAt = nil
	r.cancellation = &Cancellation{Kind: kind, Reason: reason, ActorID: actorID, At: now}
	return nil
}

// Expire cancels a pending reservation whose payment window has elapsed.
func (r *Reservation) Expire(now time.Time) error {
	if r.status != StatusPending {
		return r.invalidTransition(StatusCancelled)
	}
	if !r.IsPaymentExpired(now) {
		return ErrPaymentWindowOpen
	}
	return r.Cancel(CancelledExpired, "payment window elapsed", uuid.Nil, now)
}

func (r *Reservation) CheckIn(now time.Time, strict bool) error {
	if strict && r.status == StatusConfirmed && calendar.DateOf(now).Before(r.stay.CheckIn()) {
		return ErrCheckInTooEarly
	}
	return r.transition(StatusCheckedIn, now)
}

func (r *Reservation) CheckOut(now time.Time) error {
	return r.transition(StatusCheckedOut, now)
}

func (r *Reservation) Complete(now time.Time) error {
	return r.transition(StatusCompleted, now)
}

func (r *Reservation) MarkNoShow(now time.Time) error {
	if r.status == StatusConfirmed && calendar.DateOf(now).Before(r.stay.CheckIn()) {
		return ErrNoShowTooEarly
	}
	return r.transition(StatusNoShow, now)
}

// Reschedule moves the stay. Callers must re-run the overlap checks and re-price first.
func (r *Reservation) Reschedule(stay calendar.Range, amounts Amounts, now time.Time) error {
	if r.status != StatusPending && r.status != StatusConfirmed {
		return ErrNotModifiable
	}
	r.stay = stay
	r.amounts = amounts
	r.updatedAt = now
	return nil
}

func (r *Reservation) ApplyDiscount(discount money.Money, now time.Time) error {
	if r.status != StatusPending {
		return ErrCouponChangesClosed
	}
	amounts, err := r.amounts.WithDiscount(discount)
	if err != nil {
		return err
	}
	r.amounts = amounts
	r.updatedAt = now
	return nil
}

func (r *Reservation) ClearDiscount(now time.Time) error {
	return r.ApplyDiscount(money.Zero(), now)
}

func (r *Reservation) IsPaymentExpired(now time.Time) bool {
	return r.paymentExpiresAt != nil && !now.Before(*r.paymentExpiresAt)
}

func (r *Reservation) IsExpiredCancellation() bool {
	return r.status == StatusCancelled && r.cancellation != nil && r.cancellation.Kind == CancelledExpired
}

// BlockReason is the traceable calendar note written on the nights this reservation holds.
func (r *Reservation) BlockReason() string {
	return "reservation " + r.code.String()
}

func (r *Reservation) transition(next Status, now time.Time) error {
	if !r.status.CanTransitionTo(next) {
		return r.invalidTransition(next)
	}
	r.status = next
	r.updatedAt = now
	return nil
}

func (r *Reservation) invalidTransition(next Status) error {
	return errs.Mark(errs.Newf("cannot move reservation from %s to %s", r.status, next), errs.ErrInvalidTransition)
}

func normalizeReason(reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	if len(reason) > MaxReasonLength {
		return "", ErrReasonTooLong
	}
	return reason, nil
}

func (r *Reservation) ID() uuid.UUID                { return r.id }
func (r *Reservation) Code() Code                   { return r.code }
func (r *Reservation) UnitID() uuid.UUID            { return r.unitID }
func (r *Reservation) GuestID() uuid.UUID           { return r.guestID }
func (r *Reservation) Stay() calendar.Range         { return r.stay }
func (r *Reservation) Status() Status               { return r.status }
func (r *Reservation) Amounts() Amounts             { return r.amounts }
func (r *Reservation) PaymentExpiresAt() *time.Time { return r.paymentExpiresAt }
func (r *Reservation) Cancellation() *Cancellation  { return r.cancellation }
func (r *Reservation) RejectionReason() string      { return r.rejectionReason }
func (r *Reservation) Version() int64               { return r.version }
func (r *Reservation) CreatedAt() time.Time         { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time         { return r.updatedAt }
