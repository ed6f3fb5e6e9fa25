package unit

import (
	"strings"

	"github.com/google/uuid"

	"stay-booking/internal/domain/money"
	"stay-booking/internal/pkg/errs"
)

var (
	ErrUnitNotFound       = errs.Mark(errs.New("unit not found"), errs.ErrNotFound)
	ErrEmptyUnitName      = errs.Mark(errs.New("unit name cannot be empty"), errs.ErrDomainValidation)
	ErrInvalidMinimumStay = errs.Mark(errs.New("minimum nights must be at least 1"), errs.ErrDomainValidation)
	ErrInvalidMaximumStay = errs.Mark(errs.New("maximum nights must not be below minimum nights"), errs.ErrDomainValidation)
	ErrUnitInactive       = errs.Mark(errs.New("unit is not accepting reservations"), errs.ErrUnavailableRange)
	ErrStayShorterThanMin = errs.Mark(errs.New("stay is shorter than the minimum nights"), errs.ErrInvalidDateRange)
	ErrStayLongerThanMax  = errs.Mark(errs.New("stay is longer than the maximum nights"), errs.ErrInvalidDateRange)
)

// Unit is the read-only catalog view of a lodging listing that pricing and
// availability need.
type Unit struct {
	id              uuid.UUID
	hostID          uuid.UUID
	name            string
	basePrice       money.Money
	weekendPrice    *money.Money
	weeklyDiscount  *money.Percent
	monthlyDiscount *money.Percent
	minimumNights   int
	maximumNights   *int
	active          bool
}

type Params struct {
	ID              uuid.UUID
	HostID          uuid.UUID
	Name            string
	BasePrice       money.Money
	WeekendPrice    *money.Money
	WeeklyDiscount  *money.Percent
	MonthlyDiscount *money.Percent
	MinimumNights   int
	MaximumNights   *int
	Active          bool
}

func NewUnit(p Params) (*Unit, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, ErrEmptyUnitName
	}
	if p.BasePrice.Cents() < 0 || (p.WeekendPrice != nil && p.WeekendPrice.Cents() < 0) {
		return nil, money.ErrNegativeAmount
	}
	if p.MinimumNights < 1 {
		return nil, ErrInvalidMinimumStay
	}
	if p.MaximumNights != nil && *p.MaximumNights < p.MinimumNights {
		return nil, ErrInvalidMaximumStay
	}

	return &Unit{
		id:              p.ID,
		hostID:          p.HostID,
		name:            strings.TrimSpace(p.Name),
		basePrice:       p.BasePrice,
		weekendPrice:    p.WeekendPrice,
		weeklyDiscount:  p.WeeklyDiscount,
		monthlyDiscount: p.MonthlyDiscount,
		minimumNights:   p.MinimumNights,
		maximumNights:   p.MaximumNights,
		active:          p.Active,
	}, nil
}

// ValidateStayLength checks nights against the unit limits. calendarMinimum is the
// strictest minimum-nights override found on the calendar for the stay (0 if none).
func (u *Unit) ValidateStayLength(nights, calendarMinimum int) error {
	minimum := u.minimumNights
	if calendarMinimum > minimum {
		minimum = calendarMinimum
	}
	if nights < minimum {
		return ErrStayShorterThanMin
	}
	if u.maximumNights != nil && nights > *u.maximumNights {
		return ErrStayLongerThanMax
	}
	return nil
}

func (u *Unit) EnsureBookable() error {
	if !u.active {
		return ErrUnitInactive
	}
	return nil
}

func (u *Unit) IsOwnedBy(userID uuid.UUID) bool {
	return u.hostID == userID
}

func (u *Unit) ID() uuid.UUID                   { return u.id }
func (u *Unit) HostID() uuid.UUID               { return u.hostID }
func (u *Unit) Name() string                    { return u.name }
func (u *Unit) BasePrice() money.Money          { return u.basePrice }
func (u *Unit) WeekendPrice() *money.Money      { return u.weekendPrice }
func (u *Unit) WeeklyDiscount() *money.Percent  { return u.weeklyDiscount }
func (u *Unit) MonthlyDiscount() *money.Percent { return u.monthlyDiscount }
func (u *Unit) MinimumNights() int              { return u.minimumNights }
func (u *Unit) MaximumNights() *int             { return u.maximumNights }
func (u *Unit) IsActive() bool                  { return u.active }
