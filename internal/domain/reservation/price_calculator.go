package reservation

import (
	"strings"
	"time"

	"stay-booking/internal/domain/calendar"
	"stay-booking/internal/domain/money"
	"stay-booking/internal/domain/unit"
	"stay-booking/internal/pkg/errs"
)

const (
	WeeklyDiscountNights  = 7
	MonthlyDiscountNights = 30
)

var ErrUnknownWeekday = errs.Mark(errs.New("unknown weekday name"), errs.ErrDomainValidation)

type PriceSource string

const (
	PriceSourceCustom  PriceSource = "custom"
	PriceSourceWeekend PriceSource = "weekend"
	PriceSourceBase    PriceSource = "base"
)

type StayDiscountKind string

const (
	StayDiscountNone    StayDiscountKind = ""
	StayDiscountWeekly  StayDiscountKind = "weekly"
	StayDiscountMonthly StayDiscountKind = "monthly"
)

// NightlyOverrides exposes per-date custom prices from the unit calendar.
type NightlyOverrides interface {
	CustomPrice(d calendar.Date) (money.Money, bool)
}

type NightPrice struct {
	Date   calendar.Date
	Price  money.Money
	Source PriceSource
}

type Quote struct {
	Nights           int
	PerNight         []NightPrice
	NightlySubtotal  money.Money
	StayDiscountKind StayDiscountKind
	StayDiscount     money.Money
	// Base is the nightly subtotal after the length-of-stay discount.
	Base        money.Money
	CleaningFee money.Money
	ServiceFee  money.Money
	Tax         money.Money
}

// Subtotal is the booking amount a coupon is evaluated against.
func (q Quote) Subtotal() money.Money {
	return q.Base.Add(q.CleaningFee).Add(q.ServiceFee).Add(q.Tax)
}

func (q Quote) Amounts(discount money.Money) (Amounts, error) {
	return NewAmounts(q.Base, q.CleaningFee, q.ServiceFee, q.Tax, discount)
}

type PriceCalculator interface {
	Price(u *unit.Unit, stay calendar.Range, overrides NightlyOverrides) Quote
	NightPrice(u *unit.Unit, night calendar.Date, overrides NightlyOverrides) NightPrice
}

type FeeRates struct {
	Cleaning money.Percent
	Service  money.Percent
	Tax      money.Percent
}

type DefaultPriceCalculator struct {
	rates         FeeRates
	weekendNights map[time.Weekday]bool
}

func NewDefaultPriceCalculator(rates FeeRates, weekendNights []time.Weekday) *DefaultPriceCalculator {
	set := make(map[time.Weekday]bool, len(weekendNights))
	for _, d := range weekendNights {
		set[d] = true
	}
	return &DefaultPriceCalculator{rates: rates, weekendNights: set}
}

// Price sums nightly rates (custom, then weekend, then base), applies the
// length-of-stay discount to the whole stay and derives fees and tax from the
// discounted base. All rounding floors to whole cents.
func (pc *DefaultPriceCalculator) Price(u *unit.Unit, stay calendar.Range, overrides NightlyOverrides) Quote {
	q := Quote{Nights: stay.Nights()}

	for _, night := range stay.Dates() {
		np := pc.NightPrice(u, night, overrides)
		q.PerNight = append(q.PerNight, np)
		q.NightlySubtotal = q.NightlySubtotal.Add(np.Price)
	}

	switch {
	case q.Nights >= MonthlyDiscountNights && u.MonthlyDiscount() != nil:
		q.StayDiscountKind = StayDiscountMonthly
		q.StayDiscount = q.NightlySubtotal.ApplyPercent(*u.MonthlyDiscount())
	case q.Nights >= WeeklyDiscountNights && u.WeeklyDiscount() != nil:
		q.StayDiscountKind = StayDiscountWeekly
		q.StayDiscount = q.NightlySubtotal.ApplyPercent(*u.WeeklyDiscount())
	}

	q.Base = q.NightlySubtotal.Sub(q.StayDiscount)
	q.CleaningFee = q.Base.ApplyPercent(pc.rates.Cleaning)
	q.ServiceFee = q.Base.ApplyPercent(pc.rates.Service)
	q.Tax = q.Base.ApplyPercent(pc.rates.Tax)
	return q
}

// NightPrice resolves the rate of a single night.
func (pc *DefaultPriceCalculator) NightPrice(u *unit.Unit, night calendar.Date, overrides NightlyOverrides) NightPrice {
	if overrides != nil {
		if custom, ok := overrides.CustomPrice(night); ok {
			return NightPrice{Date: night, Price: custom, Source: PriceSourceCustom}
		}
	}
	if pc.weekendNights[night.Weekday()] && u.WeekendPrice() != nil {
		return NightPrice{Date: night, Price: *u.WeekendPrice(), Source: PriceSourceWeekend}
	}
	return NightPrice{Date: night, Price: u.BasePrice(), Source: PriceSourceBase}
}

// ParseWeekdays maps names like "saturday" or "sat" to weekdays.
func ParseWeekdays(names []string) ([]time.Weekday, error) {
	out := make([]time.Weekday, 0, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		found := false
		for d := time.Sunday; d <= time.Saturday; d++ {
			full := strings.ToLower(d.String())
			if n == full || n == full[:3] {
				out = append(out, d)
				found = true
				break
			}
		}
		if !found {
			return nil, ErrUnknownWeekday
		}
	}
	return out, nil
}
