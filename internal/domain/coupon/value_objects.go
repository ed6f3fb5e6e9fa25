package coupon

import (
	"regexp"
	"strings"

	"stay-booking/internal/domain/money"
	"stay-booking/internal/pkg/errs"
)

var (
	ErrInvalidCouponCode     = errs.Mark(errs.New("invalid coupon code format"), errs.ErrDomainValidation)
	ErrInvalidDiscountType   = errs.Mark(errs.New("discount type must be percentage or fixed_amount"), errs.ErrDomainValidation)
	ErrInvalidDiscountAmount = errs.Mark(errs.New("discount amount must be positive"), errs.ErrDomainValidation)
	ErrInvalidScope          = errs.Mark(errs.New("coupon scope does not match its unit references"), errs.ErrDomainValidation)
)

var couponCodeRegex = regexp.MustCompile(`^[A-Z0-9_-]{3,32}$`)

type Code string

func NewCouponCode(code string) (Code, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if !couponCodeRegex.MatchString(code) {
		return Code(""), ErrInvalidCouponCode
	}
	return Code(code), nil
}

func (c Code) String() string {
	return string(c)
}

type DiscountType string

const (
	DiscountPercentage  DiscountType = "percentage"
	DiscountFixedAmount DiscountType = "fixed_amount"
)

// Discount is either a percentage of the booking amount or a fixed amount off.
type Discount struct {
	kind    DiscountType
	percent money.Percent
	amount  money.Money
}

func NewPercentageDiscount(percent float64) (Discount, error) {
	p, err := money.NewPercent(percent)
	if err != nil {
		return Discount{}, err
	}
	if p.IsZero() {
		return Discount{}, ErrInvalidDiscountAmount
	}
	return Discount{kind: DiscountPercentage, percent: p}, nil
}

func NewFixedDiscount(amount money.Money) (Discount, error) {
	if amount.Cents() <= 0 {
		return Discount{}, ErrInvalidDiscountAmount
	}
	return Discount{kind: DiscountFixedAmount, amount: amount}, nil
}

// NewDiscount builds a discount from its stored form, where value is a percent
// for percentage coupons and a major-unit amount for fixed ones.
func NewDiscount(kind DiscountType, value float64) (Discount, error) {
	switch kind {
	case DiscountPercentage:
		return NewPercentageDiscount(value)
	case DiscountFixedAmount:
		return NewFixedDiscount(money.FromMajor(value))
	default:
		return Discount{}, ErrInvalidDiscountType
	}
}

func (d Discount) Type() DiscountType {
	return d.kind
}

func (d Discount) IsPercentage() bool {
	return d.kind == DiscountPercentage
}

func (d Discount) Percent() money.Percent {
	return d.percent
}

func (d Discount) Amount() money.Money {
	return d.amount
}

// Value is the stored discount value (percent or major units).
func (d Discount) Value() float64 {
	if d.IsPercentage() {
		return d.percent.Float64()
	}
	return d.amount.Major()
}

// valueHundredths orders discounts by their raw value, as stored.
func (d Discount) valueHundredths() int64 {
	if d.IsPercentage() {
		return d.percent.BasisPoints()
	}
	return d.amount.Cents()
}

// Calculate returns the uncapped discount for bookingAmount.
func (d Discount) Calculate(bookingAmount money.Money) money.Money {
	if d.IsPercentage() {
		return bookingAmount.ApplyPercent(d.percent)
	}
	return d.amount
}

type Scope string

const (
	ScopeAllUnits     Scope = "all_units"
	ScopeSpecificUnit Scope = "specific_unit"
	ScopeUnitSet      Scope = "unit_set"
)

func (s Scope) IsValid() bool {
	switch s {
	case ScopeAllUnits, ScopeSpecificUnit, ScopeUnitSet:
		return true
	default:
		return false
	}
}
