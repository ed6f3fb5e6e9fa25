package commands

import (
	"time"

	"github.com/google/uuid"

	"stay-booking/internal/pkg/errs"
)

var ErrUnknownPaymentGate = errs.Mark(errs.New("payment gate must be confirm, check_in or none"), errs.ErrDomainValidation)

// PaymentGate names the transition that requires a completed payment.
type PaymentGate string

const (
	PaymentGateConfirm PaymentGate = "confirm"
	PaymentGateCheckIn PaymentGate = "check_in"
	PaymentGateNone    PaymentGate = "none"
)

func ParsePaymentGate(s string) (PaymentGate, error) {
	switch g := PaymentGate(s); g {
	case PaymentGateConfirm, PaymentGateCheckIn, PaymentGateNone:
		return g, nil
	default:
		return "", ErrUnknownPaymentGate
	}
}

// BookingSettings are the operator knobs of the booking lifecycle.
type BookingSettings struct {
	PaymentGate    PaymentGate
	StrictCheckIn  bool
	IdempotencyTTL time.Duration
}

// CreateResult identifies the reservation produced (or replayed) by a create.
type CreateResult struct {
	ReservationID uuid.UUID
	IsReplayed    bool
}
