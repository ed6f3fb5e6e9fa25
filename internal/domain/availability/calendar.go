package availability

import (
	"github.com/google/uuid"

	"stay-booking/internal/domain/calendar"
	"stay-booking/internal/domain/money"
	"stay-booking/internal/pkg/errs"
)

var ErrDatesBlocked = errs.Mark(errs.New("one or more nights are blocked on the calendar"), errs.ErrUnavailableRange)

// Calendar is the set of existing records for a unit over some range, with the
// open-world default applied to missing dates.
type Calendar struct {
	unitID  uuid.UUID
	records map[calendar.Date]Record
}

func NewCalendar(unitID uuid.UUID, records []Record) *Calendar {
	m := make(map[calendar.Date]Record, len(records))
	for _, r := range records {
		m[r.Date] = r
	}
	return &Calendar{unitID: unitID, records: m}
}

func (c *Calendar) UnitID() uuid.UUID {
	return c.unitID
}

func (c *Calendar) Lookup(d calendar.Date) (Record, bool) {
	r, ok := c.records[d]
	return r, ok
}

// BlockedDates lists the nights of stay that are blocked, ignoring rows owned by exclude.
func (c *Calendar) BlockedDates(stay calendar.Range, exclude *uuid.UUID) []calendar.Date {
	var blocked []calendar.Date
	for _, d := range stay.Dates() {
		if r, ok := c.records[d]; ok && r.Blocks(exclude) {
			blocked = append(blocked, d)
		}
	}
	return blocked
}

func (c *Calendar) EnsureFree(stay calendar.Range, exclude *uuid.UUID) error {
	blocked := c.BlockedDates(stay, exclude)
	if len(blocked) == 0 {
		return nil
	}
	return errs.Wrapf(ErrDatesBlocked, "first blocked night %s", blocked[0])
}

// MinimumNights returns the strictest override across the stay, or 0.
func (c *Calendar) MinimumNights(stay calendar.Range) int {
	strictest := 0
	for _, d := range stay.Dates() {
		if r, ok := c.records[d]; ok && r.MinimumNightsOverride != nil && *r.MinimumNightsOverride > strictest {
			strictest = *r.MinimumNightsOverride
		}
	}
	return strictest
}

func (c *Calendar) CustomPrice(d calendar.Date) (money.Money, bool) {
	r, ok := c.records[d]
	if !ok || r.CustomPrice == nil {
		return money.Money{}, false
	}
	return *r.CustomPrice, true
}
