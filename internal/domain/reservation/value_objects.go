package reservation

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"stay-booking/internal/domain/money"
	"stay-booking/internal/pkg/errs"
)

var (
	ErrNegativeAmount     = errs.Mark(errs.New("amounts cannot be negative"), errs.ErrDomainValidation)
	ErrDiscountOverAmount = errs.Mark(errs.New("discount cannot exceed the booking amount"), errs.ErrDomainValidation)
)

// Amounts is the priced breakdown of a stay. Total is always
// base + cleaningFee + serviceFee + tax - discount.
type Amounts struct {
	base        money.Money
	cleaningFee money.Money
	serviceFee  money.Money
	tax         money.Money
	discount    money.Money
}

func NewAmounts(base, cleaningFee, serviceFee, tax, discount money.Money) (Amounts, error) {
	for _, m := range []money.Money{base, cleaningFee, serviceFee, tax, discount} {
		if m.Cents() < 0 {
			return Amounts{}, ErrNegativeAmount
		}
	}
	a := Amounts{base: base, cleaningFee: cleaningFee, serviceFee: serviceFee, tax: tax}
	if a.Subtotal().LessThan(discount) {
		return Amounts{}, ErrDiscountOverAmount
	}
	a.discount = discount
	return a, nil
}

func (a Amounts) WithDiscount(discount money.Money) (Amounts, error) {
	return NewAmounts(a.base, a.cleaningFee, a.serviceFee, a.tax, discount)
}

// Subtotal is the booking amount before any coupon.
func (a Amounts) Subtotal() money.Money {
	return a.base.Add(a.cleaningFee).Add(a.serviceFee).Add(a.tax)
}

func (a Amounts) Total() money.Money {
	return a.Subtotal().Sub(a.discount)
}

func (a Amounts) Base() money.Money        { return a.base }
func (a Amounts) CleaningFee() money.Money { return a.cleaningFee }
func (a Amounts) ServiceFee() money.Money  { return a.serviceFee }
func (a Amounts) Tax() money.Money         { return a.tax }
func (a Amounts) Discount() money.Money    { return a.discount }

// Code is the human-facing reservation reference, e.g. BK-3F9A0C12D4.
type Code string

func NewCode() Code {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return Code("BK-" + strings.ToUpper(raw[:10]))
}

func (c Code) String() string {
	return string(c)
}

type Cancellation struct {
	Kind    CancellationKind
	Reason  string
	ActorID uuid.UUID
	At      time.Time
}
