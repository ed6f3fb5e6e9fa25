//go:build unit || e2e

package builder

import (
	"github.com/google/uuid"

	"stay-booking/internal/domain/money"
	"stay-booking/internal/domain/unit"
	"stay-booking/internal/pkg/ptr"
)

type UnitBuilder struct {
	ID             uuid.UUID
	HostID         uuid.UUID
	Name           string
	BaseCents      int64
	WeekendCents   *int64
	WeeklyPercent  *float64
	MonthlyPercent *float64
	MinimumNights  int
	MaximumNights  *int
	Active         bool
}

func NewUnitBuilder() *UnitBuilder {
	return &UnitBuilder{
		ID:            uuid.New(),
		HostID:        uuid.New(),
		Name:          "Seaside Cottage",
		BaseCents:     10000,
		MinimumNights: 1,
		Active:        true,
	}
}

func (b *UnitBuilder) With(mutate func(*UnitBuilder)) *UnitBuilder {
	mutate(b)
	return b
}

func (b *UnitBuilder) WithHost(id uuid.UUID) *UnitBuilder {
	b.HostID = id
	return b
}

func (b *UnitBuilder) WithWeekendPrice(cents int64) *UnitBuilder {
	b.WeekendCents = ptr.Of(cents)
	return b
}

func (b *UnitBuilder) WithDiscounts(weekly, monthly float64) *UnitBuilder {
	b.WeeklyPercent = ptr.Of(weekly)
	b.MonthlyPercent = ptr.Of(monthly)
	return b
}

func (b *UnitBuilder) WithNights(minimum int, maximum *int) *UnitBuilder {
	b.MinimumNights = minimum
	b.MaximumNights = maximum
	return b
}

func (b *UnitBuilder) Inactive() *UnitBuilder {
	b.Active = false
	return b
}

func (b *UnitBuilder) Params() unit.Params {
	p := unit.Params{
		ID:            b.ID,
		HostID:        b.HostID,
		Name:          b.Name,
		BasePrice:     money.FromCents(b.BaseCents),
		MinimumNights: b.MinimumNights,
		MaximumNights: b.MaximumNights,
		Active:        b.Active,
	}
	if b.WeekendCents != nil {
		p.WeekendPrice = ptr.Of(money.FromCents(*b.WeekendCents))
	}
	if b.WeeklyPercent != nil {
		pct, _ := money.NewPercent(*b.WeeklyPercent)
		p.WeeklyDiscount = &pct
	}
	if b.MonthlyPercent != nil {
		pct, _ := money.NewPercent(*b.MonthlyPercent)
		p.MonthlyDiscount = &pct
	}
	return p
}

func (b *UnitBuilder) BuildDomain() (*unit.Unit, error) {
	return unit.NewUnit(b.Params())
}

// MustBuild is for tests whose subject is not the unit itself.
func (b *UnitBuilder) MustBuild() *unit.Unit {
	u, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	return u
}
