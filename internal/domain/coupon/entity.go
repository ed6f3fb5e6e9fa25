package coupon

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"stay-booking/internal/domain/money"
	"stay-booking/internal/pkg/errs"
)

// Reasons a coupon does not apply. Each is marked as CouponNotApplicable except
// the exhausted total limit, which is its own kind.
var (
	ErrCouponInactive        = errs.Mark(errs.New("coupon is not active"), errs.ErrCouponNotApplicable)
	ErrCouponNotYetValid     = errs.Mark(errs.New("coupon is not yet valid"), errs.ErrCouponNotApplicable)
	ErrCouponExpired         = errs.Mark(errs.New("coupon has expired"), errs.ErrCouponNotApplicable)
	ErrCouponScopeMismatch   = errs.Mark(errs.New("coupon does not apply to this unit"), errs.ErrCouponNotApplicable)
	ErrCouponExhausted       = errs.Mark(errs.New("coupon usage limit reached"), errs.ErrUsageLimitExceeded)
	ErrBelowMinimumAmount    = errs.Mark(errs.New("booking amount is below the coupon minimum"), errs.ErrCouponNotApplicable)
	ErrBelowMinimumNights    = errs.Mark(errs.New("stay is shorter than the coupon minimum nights"), errs.ErrCouponNotApplicable)
	ErrFirstBookingOnly      = errs.Mark(errs.New("coupon is only valid for a first booking"), errs.ErrCouponNotApplicable)
	ErrPerUserLimitReached   = errs.Mark(errs.New("coupon already used the maximum number of times by this user"), errs.ErrCouponNotApplicable)
	ErrReservationHasCoupon  = errs.Mark(errs.New("reservation already has a coupon"), errs.ErrCouponNotApplicable)
	ErrCouponNotFound        = errs.Mark(errs.New("coupon not found"), errs.ErrNotFound)
	ErrRedemptionNotFound    = errs.Mark(errs.New("reservation has no coupon applied"), errs.ErrNotFound)
	ErrInvalidValidityWindow = errs.Mark(errs.New("coupon end date must be after start date"), errs.ErrDomainValidation)
	ErrUsageCountOverLimit   = errs.Mark(errs.New("coupon usage count exceeds its limit"), errs.ErrDomainValidation)
)

type Coupon struct {
	id                   uuid.UUID
	code                 Code
	discount             Discount
	maxDiscount          *money.Money
	startsAt             time.Time
	endsAt               time.Time
	scope                Scope
	specificUnitID       *uuid.UUID
	unitIDs              []uuid.UUID
	totalUsageLimit      *int
	perUserLimit         *int
	minimumBookingAmount *money.Money
	minimumNights        *int
	firstBookingOnly     bool
	priority             int
	active               bool
	usageCount           int
}

type Params struct {
	ID                   uuid.UUID
	Code                 string
	Discount             Discount
	MaxDiscount          *money.Money
	StartsAt             time.Time
	EndsAt               time.Time
	Scope                Scope
	SpecificUnitID       *uuid.UUID
	UnitIDs              []uuid.UUID
	TotalUsageLimit      *int
	PerUserLimit         *int
	MinimumBookingAmount *money.Money
	MinimumNights        *int
	FirstBookingOnly     bool
	Priority             int
	Active               bool
	UsageCount           int
}

func NewCoupon(p Params) (*Coupon, error) {
	code, err := NewCouponCode(p.Code)
	if err != nil {
		return nil, err
	}
	if !p.EndsAt.After(p.StartsAt) {
		return nil, ErrInvalidValidityWindow
	}
	switch p.Scope {
	case ScopeAllUnits:
	case ScopeSpecificUnit:
		if p.SpecificUnitID == nil {
			return nil, ErrInvalidScope
		}
	case ScopeUnitSet:
		if len(p.UnitIDs) == 0 {
			return nil, ErrInvalidScope
		}
	default:
		return nil, ErrInvalidScope
	}
	if p.TotalUsageLimit != nil && p.UsageCount > *p.TotalUsageLimit {
		return nil, ErrUsageCountOverLimit
	}

	return &Coupon{
		id:                   p.ID,
		code:                 code,
		discount:             p.Discount,
		maxDiscount:          p.MaxDiscount,
		startsAt:             p.StartsAt,
		endsAt:               p.EndsAt,
		scope:                p.Scope,
		specificUnitID:       p.SpecificUnitID,
		unitIDs:              p.UnitIDs,
		totalUsageLimit:      p.TotalUsageLimit,
		perUserLimit:         p.PerUserLimit,
		minimumBookingAmount: p.MinimumBookingAmount,
		minimumNights:        p.MinimumNights,
		firstBookingOnly:     p.FirstBookingOnly,
		priority:             p.Priority,
		active:               p.Active,
		usageCount:           p.UsageCount,
	}, nil
}

// Eligibility is everything the filter chain needs about the caller and the stay.
type Eligibility struct {
	Now                   time.Time
	UnitID                uuid.UUID
	BookingAmount         money.Money
	Nights                int
	CompletedReservations int
	UserRedemptions       int
}

// CheckEligibility runs the filter chain in order and returns the first failing reason.
func (c *Coupon) CheckEligibility(e Eligibility) error {
	if err := c.checkValidity(e); err != nil {
		return err
	}
	if !c.HasRemainingUses() {
		return ErrCouponExhausted
	}
	if err := c.checkStay(e); err != nil {
		return err
	}
	if c.firstBookingOnly && e.CompletedReservations > 0 {
		return ErrFirstBookingOnly
	}
	if c.perUserLimit != nil && e.UserRedemptions >= *c.perUserLimit {
		return ErrPerUserLimitReached
	}
	return nil
}

// CheckRedeemedEligibility re-runs the stay filters for a coupon that is
// already redeemed. Usage limits and per-user rules are not re-checked since
// the redemption being re-evaluated is already counted.
func (c *Coupon) CheckRedeemedEligibility(e Eligibility) error {
	if err := c.checkValidity(e); err != nil {
		return err
	}
	return c.checkStay(e)
}

func (c *Coupon) checkValidity(e Eligibility) error {
	if !c.active {
		return ErrCouponInactive
	}
	if e.Now.Before(c.startsAt) {
		return ErrCouponNotYetValid
	}
	if !e.Now.Before(c.endsAt) {
		return ErrCouponExpired
	}
	if !c.AppliesToUnit(e.UnitID) {
		return ErrCouponScopeMismatch
	}
	return nil
}

func (c *Coupon) checkStay(e Eligibility) error {
	if c.minimumBookingAmount != nil && e.BookingAmount.LessThan(*c.minimumBookingAmount) {
		return ErrBelowMinimumAmount
	}
	if c.minimumNights != nil && e.Nights < *c.minimumNights {
		return ErrBelowMinimumNights
	}
	return nil
}

func (c *Coupon) AppliesToUnit(unitID uuid.UUID) bool {
	switch c.scope {
	case ScopeAllUnits:
		return true
	case ScopeSpecificUnit:
		return c.specificUnitID != nil && *c.specificUnitID == unitID
	case ScopeUnitSet:
		for _, id := range c.unitIDs {
			if id == unitID {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func (c *Coupon) HasRemainingUses() bool {
	return c.totalUsageLimit == nil || c.usageCount < *c.totalUsageLimit
}

// CalculateDiscount applies the cap and never discounts more than bookingAmount.
func (c *Coupon) CalculateDiscount(bookingAmount money.Money) money.Money {
	d := c.discount.Calculate(bookingAmount)
	if c.maxDiscount != nil {
		d = money.Min(d, *c.maxDiscount)
	}
	return money.Min(d, bookingAmount)
}

// SortByPriority orders coupons by priority, then discount value, both descending.
func SortByPriority(coupons []*Coupon) {
	sort.SliceStable(coupons, func(i, j int) bool {
		if coupons[i].priority != coupons[j].priority {
			return coupons[i].priority > coupons[j].priority
		}
		return coupons[i].discount.valueHundredths() > coupons[j].discount.valueHundredths()
	})
}

func (c *Coupon) ID() uuid.UUID                      { return c.id }
func (c *Coupon) Code() Code                         { return c.code }
func (c *Coupon) Discount() Discount                 { return c.discount }
func (c *Coupon) MaxDiscount() *money.Money          { return c.maxDiscount }
func (c *Coupon) StartsAt() time.Time                { return c.startsAt }
func (c *Coupon) EndsAt() time.Time                  { return c.endsAt }
func (c *Coupon) Scope() Scope                       { return c.scope }
func (c *Coupon) SpecificUnitID() *uuid.UUID         { return c.specificUnitID }
func (c *Coupon) UnitIDs() []uuid.UUID               { return c.unitIDs }
func (c *Coupon) TotalUsageLimit() *int              { return c.totalUsageLimit }
func (c *Coupon) PerUserLimit() *int                 { return c.perUserLimit }
func (c *Coupon) MinimumBookingAmount() *money.Money { return c.minimumBookingAmount }
func (c *Coupon) MinimumNights() *int                { return c.minimumNights }
func (c *Coupon) IsFirstBookingOnly() bool           { return c.firstBookingOnly }
func (c *Coupon) Priority() int                      { return c.priority }
func (c *Coupon) IsActive() bool                     { return c.active }
func (c *Coupon) UsageCount() int                    { return c.usageCount }
