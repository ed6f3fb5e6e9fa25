package shared

import (
	"context"

	"github.com/google/uuid"

	"stay-booking/internal/domain/availability"
	"stay-booking/internal/domain/calendar"
	"stay-booking/internal/domain/reservation"
	"stay-booking/internal/pkg/errs"
)

var ErrRangeOverlaps = errs.Mark(errs.New("another reservation already holds these nights"), errs.ErrUnavailableRange)

// OverlapGuard answers whether a unit's nights are free, both against other
// reservations and against the host calendar.
type OverlapGuard struct{}

func NewOverlapGuard() *OverlapGuard {
	return &OverlapGuard{}
}

func (g *OverlapGuard) ListOverlapping(ctx context.Context, tx Tx, unitID uuid.UUID, stay calendar.Range, exclude *uuid.UUID) ([]*reservation.Reservation, error) {
	found, err := tx.Reservations().ListOverlapping(ctx, unitID, stay, exclude)
	if err != nil {
		return nil, errs.Wrap(err, "list overlapping reservations")
	}

	out := found[:0]
	for _, r := range found {
		if !r.Status().OccupiesCalendar() || !r.Stay().Overlaps(stay) {
			continue
		}
		if exclude != nil && r.ID() == *exclude {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (g *OverlapGuard) IsRangeFree(ctx context.Context, tx Tx, unitID uuid.UUID, stay calendar.Range, exclude *uuid.UUID) (bool, error) {
	overlapping, err := g.ListOverlapping(ctx, tx, unitID, stay, exclude)
	if err != nil {
		return false, err
	}
	return len(overlapping) == 0, nil
}

// Calendar loads the unit calendar covering stay.
func (g *OverlapGuard) Calendar(ctx context.Context, tx Tx, unitID uuid.UUID, stay calendar.Range) (*availability.Calendar, error) {
	records, err := tx.Availability().GetRange(ctx, unitID, stay.CheckIn(), stay.CheckOut())
	if err != nil {
		return nil, errs.Wrap(err, "load unit calendar")
	}
	return availability.NewCalendar(unitID, records), nil
}

func (g *OverlapGuard) IsCalendarFree(ctx context.Context, tx Tx, unitID uuid.UUID, stay calendar.Range, exclude *uuid.UUID) (bool, error) {
	cal, err := g.Calendar(ctx, tx, unitID, stay)
	if err != nil {
		return false, err
	}
	return len(cal.BlockedDates(stay, exclude)) == 0, nil
}

// EnsureBookable runs both checks and fails with an UnavailableRange error.
func (g *OverlapGuard) EnsureBookable(ctx context.Context, tx Tx, cal *availability.Calendar, stay calendar.Range, exclude *uuid.UUID) error {
	free, err := g.IsRangeFree(ctx, tx, cal.UnitID(), stay, exclude)
	if err != nil {
		return err
	}
	if !free {
		return ErrRangeOverlaps
	}
	return cal.EnsureFree(stay, exclude)
}
