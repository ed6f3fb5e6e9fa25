package commands

import (
	"context"

	"github.com/google/uuid"

	"stay-booking/internal/domain/availability"
	"stay-booking/internal/domain/calendar"
	"stay-booking/internal/domain/unit"
	"stay-booking/internal/domain/user"
	reqdto "stay-booking/internal/handler/dto/request"
	"stay-booking/internal/pkg/errs"
	"stay-booking/internal/usecase/shared"
)

// MaxCalendarSpanDays bounds a single calendar write.
const MaxCalendarSpanDays = 366

var (
	ErrCalendarSpanTooLong    = errs.Mark(errs.New("calendar updates are limited to 366 days at a time"), errs.ErrInvalidDateRange)
	ErrNightHeldByReservation = errs.Mark(errs.New("date is held by a reservation and cannot be edited"), errs.ErrUnavailableRange)
)

type CalendarCommands interface {
	UpsertRange(ctx context.Context, unitID uuid.UUID, req reqdto.UpsertCalendarRequest, actor user.Actor) ([]availability.Record, error)
	DeleteRange(ctx context.Context, unitID uuid.UUID, span calendar.Range, actor user.Actor) (int64, error)
}

type calendarCommandsImpl struct {
	uow   shared.UnitOfWork
	units shared.UnitReader
}

func NewCalendarCommands(uow shared.UnitOfWork, units shared.UnitReader) CalendarCommands {
	return &calendarCommandsImpl{uow: uow, units: units}
}

// UpsertRange writes the same host fields on every date of the span. Nights
// held by a reservation are only changed through the reservation itself.
func (c *calendarCommandsImpl) UpsertRange(ctx context.Context, unitID uuid.UUID, req reqdto.UpsertCalendarRequest, actor user.Actor) ([]availability.Record, error) {
	span, fields, err := req.ToDomain()
	if err != nil {
		return nil, err
	}
	if err := c.authorize(ctx, unitID, span, actor); err != nil {
		return nil, err
	}

	var written []availability.Record
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		written = written[:0]

		if err := tx.Units().LockForBooking(ctx, unitID); err != nil {
			return errs.Wrap(err, "lock unit")
		}

		existing, err := tx.Availability().GetRange(ctx, unitID, span.CheckIn(), span.CheckOut())
		if err != nil {
			return errs.Wrap(err, "load calendar")
		}
		for _, rec := range existing {
			if rec.IsHeldByReservation() {
				return errs.Wrapf(ErrNightHeldByReservation, "%s", rec.Date)
			}
		}

		for _, d := range span.Dates() {
			rec, err := tx.Availability().Upsert(ctx, unitID, d, fields)
			if err != nil {
				return errs.Wrap(err, "upsert calendar date")
			}
			written = append(written, *rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return written, nil
}

// DeleteRange drops host overrides in the span, returning those dates to the
// unit's regular rate. Reservation-held nights are kept.
func (c *calendarCommandsImpl) DeleteRange(ctx context.Context, unitID uuid.UUID, span calendar.Range, actor user.Actor) (int64, error) {
	if err := c.authorize(ctx, unitID, span, actor); err != nil {
		return 0, err
	}

	var deleted int64
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		n, err := tx.Availability().DeleteRange(ctx, unitID, span.CheckIn(), span.CheckOut())
		if err != nil {
			return errs.Wrap(err, "delete calendar range")
		}
		deleted = n
		return nil
	})
	return deleted, err
}

func (c *calendarCommandsImpl) authorize(ctx context.Context, unitID uuid.UUID, span calendar.Range, actor user.Actor) error {
	if span.Nights() > MaxCalendarSpanDays {
		return ErrCalendarSpanTooLong
	}
	u, err := c.units.FindByID(ctx, unitID)
	if err != nil {
		if errs.Is(err, errs.ErrNotFound) {
			return unit.ErrUnitNotFound
		}
		return errs.Wrap(err, "load unit")
	}
	return u.AuthorizeManage(actor)
}
