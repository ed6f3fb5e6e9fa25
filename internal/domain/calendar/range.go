package calendar

import (
	"stay-booking/internal/pkg/errs"
)

var ErrCheckOutNotAfterCheckIn = errs.Mark(errs.New("check-out must be after check-in"), errs.ErrInvalidDateRange)

// Range is a half-open stay [checkIn, checkOut); the checkOut night is not occupied.
type Range struct {
	checkIn  Date
	checkOut Date
}

func NewRange(checkIn, checkOut Date) (Range, error) {
	if checkIn.IsZero() || checkOut.IsZero() {
		return Range{}, ErrInvalidDate
	}
	if !checkIn.Before(checkOut) {
		return Range{}, ErrCheckOutNotAfterCheckIn
	}
	return Range{checkIn: checkIn, checkOut: checkOut}, nil
}

func (r Range) CheckIn() Date {
	return r.checkIn
}

func (r Range) CheckOut() Date {
	return r.checkOut
}

func (r Range) Nights() int {
	return r.checkIn.DaysUntil(r.checkOut)
}

// Dates lists every occupied night in order.
func (r Range) Dates() []Date {
	n := r.Nights()
	dates := make([]Date, 0, n)
	for i := 0; i < n; i++ {
		dates = append(dates, r.checkIn.AddDays(i))
	}
	return dates
}

// Overlaps reports whether [a,b) and [c,d) share a night: a < d && b > c.
func (r Range) Overlaps(o Range) bool {
	return r.checkIn.Before(o.checkOut) && r.checkOut.After(o.checkIn)
}

func (r Range) Contains(d Date) bool {
	return !d.Before(r.checkIn) && d.Before(r.checkOut)
}

func (r Range) String() string {
	return r.checkIn.String() + "/" + r.checkOut.String()
}
