package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"stay-booking/internal/domain/coupon"
	"stay-booking/internal/infra"
	"stay-booking/internal/infra/db"
	"stay-booking/internal/infra/repository/converter"
	"stay-booking/internal/pkg/pgconv"
)

const getCouponByID = `SELECT ` + converter.CouponColumns + `
FROM coupons c WHERE c.id = $1 AND c.deleted_at IS NULL`

const getCouponByCode = `SELECT ` + converter.CouponColumns + `
FROM coupons c WHERE c.code = $1 AND c.deleted_at IS NULL`

const listActiveCouponsForUnit = `SELECT ` + converter.CouponColumns + `
FROM coupons c
WHERE c.deleted_at IS NULL
  AND c.is_active
  AND c.starts_at <= $2 AND c.ends_at > $2
  AND (
    c.scope = 'all_units'
    OR (c.scope = 'specific_unit' AND c.specific_unit_id = $1)
    OR (c.scope = 'unit_set' AND EXISTS (
      SELECT 1 FROM coupon_units cu WHERE cu.coupon_id = c.id AND cu.unit_id = $1))
  )`

// The WHERE clause is the guard: a coupon at its limit matches no row.
const incrementCouponUsage = `UPDATE coupons
SET current_usage_count = current_usage_count + 1, updated_at = now()
WHERE id = $1 AND deleted_at IS NULL
  AND (total_usage_limit IS NULL OR current_usage_count < total_usage_limit)`

const decrementCouponUsage = `UPDATE coupons
SET current_usage_count = current_usage_count - 1, updated_at = now()
WHERE id = $1 AND current_usage_count > 0`

type CouponRepository struct {
	db db.DBTX
}

func NewCouponRepository(db db.DBTX) *CouponRepository {
	return &CouponRepository{db: db}
}

func (r *CouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error) {
	return r.findOne(ctx, getCouponByID, id)
}

func (r *CouponRepository) FindByCode(ctx context.Context, code coupon.Code) (*coupon.Coupon, error) {
	return r.findOne(ctx, getCouponByCode, code.String())
}

func (r *CouponRepository) findOne(ctx context.Context, query string, arg any) (*coupon.Coupon, error) {
	c, err := converter.ScanCoupon(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon", err)
	}
	return c, nil
}

func (r *CouponRepository) ListActiveForUnit(ctx context.Context, unitID uuid.UUID, now time.Time) ([]*coupon.Coupon, error) {
	rows, err := r.db.Query(ctx, listActiveCouponsForUnit, unitID, now)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list coupons", err)
	}
	defer rows.Close()

	var out []*coupon.Coupon
	for rows.Next() {
		c, err := converter.ScanCoupon(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan coupon", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate coupons", err)
	}
	return out, nil
}

func (r *CouponRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, incrementCouponUsage, id)
	if err != nil {
		return infra.WrapRepoErr("failed to increment coupon usage", err)
	}
	if tag.RowsAffected() == 0 {
		return coupon.ErrCouponExhausted
	}
	return nil
}

func (r *CouponRepository) DecrementUsage(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, decrementCouponUsage, id)
	if err != nil {
		return infra.WrapRepoErr("failed to decrement coupon usage", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon usage count already zero", nil, infra.KindConflict)
	}
	return nil
}
