package queries

import (
	"context"

	"github.com/google/uuid"

	"stay-booking/internal/domain/availability"
	"stay-booking/internal/domain/calendar"
	"stay-booking/internal/domain/reservation"
	"stay-booking/internal/domain/unit"
	"stay-booking/internal/pkg/errs"
	"stay-booking/internal/usecase/shared"
)

// MaxCalendarViewDays bounds a calendar read.
const MaxCalendarViewDays = 366

var ErrCalendarViewTooLong = errs.Mark(errs.New("calendar reads are limited to 366 days at a time"), errs.ErrInvalidDateRange)

type AvailabilityQueries interface {
	Check(ctx context.Context, unitID uuid.UUID, stay calendar.Range) (*AvailabilityView, error)
	Calendar(ctx context.Context, unitID uuid.UUID, span calendar.Range) ([]CalendarDayView, error)
}

type availabilityQueriesImpl struct {
	uow     shared.UnitOfWork
	units   shared.UnitReader
	guard   *shared.OverlapGuard
	pricing reservation.PriceCalculator
}

func NewAvailabilityQueries(uow shared.UnitOfWork, units shared.UnitReader, guard *shared.OverlapGuard, pricing reservation.PriceCalculator) AvailabilityQueries {
	return &availabilityQueriesImpl{
		uow:     uow,
		units:   units,
		guard:   guard,
		pricing: pricing,
	}
}

// Check runs both overlap checks and the stay-length rules in one consistent
// snapshot. Unavailability is reported in the view, not as an error.
func (q *availabilityQueriesImpl) Check(ctx context.Context, unitID uuid.UUID, stay calendar.Range) (*AvailabilityView, error) {
	u, err := findUnit(ctx, q.units, unitID)
	if err != nil {
		return nil, err
	}

	view := &AvailabilityView{
		UnitID:       unitID,
		CheckIn:      stay.CheckIn().String(),
		CheckOut:     stay.CheckOut().String(),
		Nights:       stay.Nights(),
		BlockedDates: []string{},
	}

	err = q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		rangeFree, err := q.guard.IsRangeFree(ctx, tx, unitID, stay, nil)
		if err != nil {
			return err
		}
		cal, err := q.guard.Calendar(ctx, tx, unitID, stay)
		if err != nil {
			return err
		}

		for _, d := range cal.BlockedDates(stay, nil) {
			view.BlockedDates = append(view.BlockedDates, d.String())
		}
		view.RangeFree = rangeFree
		view.CalendarFree = len(view.BlockedDates) == 0

		var reason error
		switch {
		case !u.IsActive():
			reason = u.EnsureBookable()
		case !rangeFree:
			reason = shared.ErrRangeOverlaps
		case !view.CalendarFree:
			reason = availability.ErrDatesBlocked
		default:
			reason = u.ValidateStayLength(stay.Nights(), cal.MinimumNights(stay))
		}
		if reason != nil {
			msg := errs.Reason(reason)
			view.Reason = &msg
		}
		view.Available = reason == nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Calendar lists every date of span. Dates without a stored record are
// available at the unit's regular rate.
func (q *availabilityQueriesImpl) Calendar(ctx context.Context, unitID uuid.UUID, span calendar.Range) ([]CalendarDayView, error) {
	if span.Nights() > MaxCalendarViewDays {
		return nil, ErrCalendarViewTooLong
	}
	u, err := findUnit(ctx, q.units, unitID)
	if err != nil {
		return nil, err
	}

	records, err := q.uow.Reads().Availability().GetRange(ctx, unitID, span.CheckIn(), span.CheckOut())
	if err != nil {
		return nil, errs.Wrap(err, "load calendar")
	}
	cal := availability.NewCalendar(unitID, records)

	days := make([]CalendarDayView, 0, span.Nights())
	for _, d := range span.Dates() {
		price := q.pricing.NightPrice(u, d, cal)
		day := CalendarDayView{
			Date:        d.String(),
			IsAvailable: true,
			PriceCents:  price.Price.Cents(),
			PriceSource: string(price.Source),
		}
		if rec, ok := cal.Lookup(d); ok {
			day.IsAvailable = rec.IsAvailable
			day.IsBlocked = rec.IsBlocked
			day.BlockReason = rec.BlockReason
			day.ReservationID = rec.ReservationID
			day.MinimumNightsOverride = rec.MinimumNightsOverride
			day.Stored = true
		}
		days = append(days, day)
	}
	return days, nil
}

func findUnit(ctx context.Context, units shared.UnitReader, id uuid.UUID) (*unit.Unit, error) {
	u, err := units.FindByID(ctx, id)
	if err != nil {
		if errs.Is(err, errs.ErrNotFound) {
			return nil, unit.ErrUnitNotFound
		}
		return nil, errs.Wrap(err, "load unit")
	}
	return u, nil
}
