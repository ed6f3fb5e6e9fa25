package availability

import (
	"time"

	"github.com/google/uuid"

	"stay-booking/internal/domain/calendar"
	"stay-booking/internal/domain/money"
	"stay-booking/internal/pkg/errs"
)

var (
	ErrInvalidMinimumNightsOverride = errs.Mark(errs.New("minimum nights override must be at least 1"), errs.ErrDomainValidation)
	ErrBlockReasonTooLong           = errs.Mark(errs.New("block reason is too long (max 255 characters)"), errs.ErrDomainValidation)
)

const MaxBlockReasonLength = 255

// Record is the calendar entry for one unit on one date. A missing record
// means the date is available at the unit's regular rate.
type Record struct {
	ID                    uuid.UUID
	UnitID                uuid.UUID
	Date                  calendar.Date
	IsAvailable           bool
	IsBlocked             bool
	BlockReason           *string
	ReservationID         *uuid.UUID
	CustomPrice           *money.Money
	MinimumNightsOverride *int
	UpdatedAt             time.Time
}

// Blocks reports whether the record makes its date unbookable. Rows owned by
// the excluded reservation never block, so an edited reservation does not
// collide with the nights it already holds.
func (r Record) Blocks(exclude *uuid.UUID) bool {
	if !r.IsBlocked && r.IsAvailable {
		return false
	}
	if exclude != nil && r.ReservationID != nil && *r.ReservationID == *exclude {
		return false
	}
	return true
}

func (r Record) IsHeldByReservation() bool {
	return r.ReservationID != nil
}

// Fields are the host-editable columns written by an upsert.
type Fields struct {
	IsAvailable           bool
	IsBlocked             bool
	BlockReason           *string
	CustomPrice           *money.Money
	MinimumNightsOverride *int
}

func (f Fields) Validate() error {
	if f.CustomPrice != nil && f.CustomPrice.Cents() < 0 {
		return money.ErrNegativeAmount
	}
	if f.MinimumNightsOverride != nil && *f.MinimumNightsOverride < 1 {
		return ErrInvalidMinimumNightsOverride
	}
	if f.BlockReason != nil && len(*f.BlockReason) > MaxBlockReasonLength {
		return ErrBlockReasonTooLong
	}
	return nil
}
