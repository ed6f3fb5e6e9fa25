package money

import (
	"math"

	"stay-booking/internal/pkg/errs"
)

var (
	ErrNegativeAmount  = errs.Mark(errs.New("amount cannot be negative"), errs.ErrDomainValidation)
	ErrPercentOutRange = errs.Mark(errs.New("percentage must be between 0 and 100"), errs.ErrDomainValidation)
)

// Money is an amount in minor units (cents).
type Money struct {
	cents int64
}

func FromCents(cents int64) Money {
	return Money{cents: cents}
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativeAmount
	}
	return Money{cents: cents}, nil
}

// FromMajor converts a decimal amount (e.g. 12.34) to cents, rounding half away from zero.
func FromMajor(v float64) Money {
	return Money{cents: int64(math.Round(v * 100))}
}

func Zero() Money {
	return Money{}
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Major() float64 {
	return float64(m.cents) / 100
}

func (m Money) Add(o Money) Money {
	return Money{cents: m.cents + o.cents}
}

func (m Money) Sub(o Money) Money {
	return Money{cents: m.cents - o.cents}
}

func (m Money) IsZero() bool {
	return m.cents == 0
}

func (m Money) LessThan(o Money) bool {
	return m.cents < o.cents
}

func Min(a, b Money) Money {
	if a.cents < b.cents {
		return a
	}
	return b
}

// ApplyPercent returns floor(m * p).
func (m Money) ApplyPercent(p Percent) Money {
	return Money{cents: m.cents * p.bps / 10000}
}

// Percent is held in basis points so rate math stays in integers.
type Percent struct {
	bps int64
}

func NewPercent(v float64) (Percent, error) {
	if v < 0 || v > 100 {
		return Percent{}, ErrPercentOutRange
	}
	return Percent{bps: int64(math.Round(v * 100))}, nil
}

func PercentFromBasisPoints(bps int64) Percent {
	return Percent{bps: bps}
}

func (p Percent) BasisPoints() int64 {
	return p.bps
}

func (p Percent) Float64() float64 {
	return float64(p.bps) / 100
}

func (p Percent) IsZero() bool {
	return p.bps == 0
}
