package converter

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"stay-booking/internal/domain/coupon"
	"stay-booking/internal/domain/money"
	"stay-booking/internal/pkg/pgconv"
)

// CouponColumns expects the coupon table aliased as c.
const CouponColumns = `c.id, c.code, c.discount_type, c.discount_value, c.max_discount_amount,
	c.starts_at, c.ends_at, c.scope, c.specific_unit_id, c.total_usage_limit, c.per_user_limit,
	c.minimum_booking_amount, c.minimum_nights, c.first_booking_only, c.priority, c.is_active,
	c.current_usage_count,
	COALESCE((SELECT array_agg(cu.unit_id ORDER BY cu.unit_id) FROM coupon_units cu WHERE cu.coupon_id = c.id), '{}')`

type couponRow struct {
	ID                   uuid.UUID
	Code                 string
	DiscountType         string
	DiscountValue        pgtype.Numeric
	MaxDiscountAmount    pgtype.Numeric
	StartsAt             time.Time
	EndsAt               time.Time
	Scope                string
	SpecificUnitID       pgtype.UUID
	TotalUsageLimit      pgtype.Int4
	PerUserLimit         pgtype.Int4
	MinimumBookingAmount pgtype.Numeric
	MinimumNights        pgtype.Int4
	FirstBookingOnly     bool
	Priority             int
	IsActive             bool
	UsageCount           int
	UnitIDs              []uuid.UUID
}

func ScanCoupon(row pgx.Row) (*coupon.Coupon, error) {
	var c couponRow
	err := row.Scan(
		&c.ID, &c.Code, &c.DiscountType, &c.DiscountValue, &c.MaxDiscountAmount,
		&c.StartsAt, &c.EndsAt, &c.Scope, &c.SpecificUnitID, &c.TotalUsageLimit, &c.PerUserLimit,
		&c.MinimumBookingAmount, &c.MinimumNights, &c.FirstBookingOnly, &c.Priority, &c.IsActive,
		&c.UsageCount, &c.UnitIDs,
	)
	if err != nil {
		return nil, err
	}
	return couponToDomain(c)
}

func couponToDomain(c couponRow) (*coupon.Coupon, error) {
	discount, err := discountFromNumeric(coupon.DiscountType(c.DiscountType), c.DiscountValue)
	if err != nil {
		return nil, err
	}
	maxDiscount, err := pgconv.MoneyPtrFromNumeric(c.MaxDiscountAmount)
	if err != nil {
		return nil, err
	}
	minAmount, err := pgconv.MoneyPtrFromNumeric(c.MinimumBookingAmount)
	if err != nil {
		return nil, err
	}

	return coupon.NewCoupon(coupon.Params{
		ID:                   c.ID,
		Code:                 c.Code,
		Discount:             discount,
		MaxDiscount:          maxDiscount,
		StartsAt:             c.StartsAt,
		EndsAt:               c.EndsAt,
		Scope:                coupon.Scope(c.Scope),
		SpecificUnitID:       pgconv.UUIDPtrFromPgtype(c.SpecificUnitID),
		UnitIDs:              c.UnitIDs,
		TotalUsageLimit:      pgconv.IntPtrFromPgtype(c.TotalUsageLimit),
		PerUserLimit:         pgconv.IntPtrFromPgtype(c.PerUserLimit),
		MinimumBookingAmount: minAmount,
		MinimumNights:        pgconv.IntPtrFromPgtype(c.MinimumNights),
		FirstBookingOnly:     c.FirstBookingOnly,
		Priority:             c.Priority,
		Active:               c.IsActive,
		UsageCount:           c.UsageCount,
	})
}

// discountFromNumeric reads discount_value exactly: hundredths are basis points
// for percentage coupons and cents for fixed ones.
func discountFromNumeric(kind coupon.DiscountType, value pgtype.Numeric) (coupon.Discount, error) {
	hundredths, _, err := pgconv.HundredthsFromNumeric(value)
	if err != nil {
		return coupon.Discount{}, err
	}
	switch kind {
	case coupon.DiscountPercentage:
		return coupon.NewPercentageDiscount(money.PercentFromBasisPoints(hundredths).Float64())
	case coupon.DiscountFixedAmount:
		return coupon.NewFixedDiscount(money.FromCents(hundredths))
	default:
		return coupon.Discount{}, coupon.ErrInvalidDiscountType
	}
}
