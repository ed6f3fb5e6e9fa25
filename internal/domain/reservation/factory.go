package reservation

import (
	"time"

	"github.com/google/uuid"

	"stay-booking/internal/domain/calendar"
	"stay-booking/internal/pkg/clock"
	"stay-booking/internal/pkg/errs"
)

var ErrCheckInInPast = errs.Mark(errs.New("check-in date cannot be in the past"), errs.ErrInvalidDateRange)

type Factory struct {
	clock         clock.Clock
	paymentWindow time.Duration
}

func NewFactory(clock clock.Clock, paymentWindow time.Duration) *Factory {
	return &Factory{clock: clock, paymentWindow: paymentWindow}
}

// NewPending creates a reservation awaiting payment until now + payment window.
func (f *Factory) NewPending(unitID, guestID uuid.UUID, stay calendar.Range, amounts Amounts) (*Reservation, error) {
	now := f.clock.Now()
	if stay.CheckIn().Before(calendar.DateOf(now)) {
		return nil, ErrCheckInInPast
	}
	expiresAt := now.Add(f.paymentWindow)

	return &Reservation{
		id:               uuid.New(),
		code:             NewCode(),
		unitID:           unitID,
		guestID:          guestID,
		stay:             stay,
		status:           StatusPending,
		amounts:          amounts,
		paymentExpiresAt: &expiresAt,
		version:          1,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}
