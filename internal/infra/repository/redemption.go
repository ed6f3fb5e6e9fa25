package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"stay-booking/internal/domain/coupon"
	"stay-booking/internal/domain/money"
	"stay-booking/internal/infra"
	"stay-booking/internal/infra/db"
	"stay-booking/internal/pkg/pgconv"
)

const createRedemption = `INSERT INTO coupon_redemptions (
	id, coupon_id, user_id, reservation_id, discount_amount, redeemed_at
) VALUES ($1, $2, $3, $4, $5, $6)`

const getActiveRedemptionByReservation = `SELECT id, coupon_id, user_id, reservation_id, discount_amount, redeemed_at
FROM coupon_redemptions
WHERE reservation_id = $1 AND deleted_at IS NULL`

const deleteRedemption = `UPDATE coupon_redemptions SET deleted_at = $2
WHERE id = $1 AND deleted_at IS NULL`

const updateRedemptionDiscount = `UPDATE coupon_redemptions SET discount_amount = $2
WHERE id = $1 AND deleted_at IS NULL`

const countActiveRedemptionsByUser = `SELECT count(*) FROM coupon_redemptions
WHERE coupon_id = $1 AND user_id = $2 AND deleted_at IS NULL`

type RedemptionRepository struct {
	db db.DBTX
}

func NewRedemptionRepository(db db.DBTX) *RedemptionRepository {
	return &RedemptionRepository{db: db}
}

func (r *RedemptionRepository) Create(ctx context.Context, red *coupon.Redemption) error {
	_, err := r.db.Exec(ctx, createRedemption,
		red.ID, red.CouponID, red.UserID, red.ReservationID,
		pgconv.MoneyToNumeric(red.Discount), red.RedeemedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create coupon redemption", err)
	}
	return nil
}

func (r *RedemptionRepository) FindActiveByReservation(ctx context.Context, reservationID uuid.UUID) (*coupon.Redemption, error) {
	var (
		red      coupon.Redemption
		discount pgtype.Numeric
	)
	err := r.db.QueryRow(ctx, getActiveRedemptionByReservation, reservationID).Scan(
		&red.ID, &red.CouponID, &red.UserID, &red.ReservationID, &discount, &red.RedeemedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("redemption not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find redemption", err)
	}
	if red.Discount, err = pgconv.MoneyFromNumeric(discount); err != nil {
		return nil, infra.WrapRepoErr("invalid redemption discount", err)
	}
	return &red, nil
}

func (r *RedemptionRepository) Delete(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.db.Exec(ctx, deleteRedemption, id, at)
	if err != nil {
		return infra.WrapRepoErr("failed to delete redemption", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NotFound("redemption not found")
	}
	return nil
}

func (r *RedemptionRepository) UpdateDiscount(ctx context.Context, id uuid.UUID, discount money.Money) error {
	tag, err := r.db.Exec(ctx, updateRedemptionDiscount, id, pgconv.MoneyToNumeric(discount))
	if err != nil {
		return infra.WrapRepoErr("failed to update redemption discount", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NotFound("redemption not found")
	}
	return nil
}

func (r *RedemptionRepository) CountActiveByUser(ctx context.Context, couponID, userID uuid.UUID) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, countActiveRedemptionsByUser, couponID, userID).Scan(&n); err != nil {
		return 0, infra.WrapRepoErr("failed to count redemptions", err)
	}
	return n, nil
}
