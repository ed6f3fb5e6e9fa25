package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"stay-booking/internal/infra"
	"stay-booking/internal/infra/db"
	"stay-booking/internal/pkg/pgconv"
	"stay-booking/internal/usecase/shared"
)

const tryInsertIdempotencyKey = `INSERT INTO idempotency_keys (key, user_id, endpoint, request_hash, status, expires_at)
VALUES ($1, $2, $3, $4, 'processing', $5)
ON CONFLICT (key, user_id) DO NOTHING`

const getIdempotencyKey = `SELECT key, user_id, endpoint, status, request_hash, result_reservation_id, expires_at
FROM idempotency_keys WHERE key = $1 AND user_id = $2`

// Only an expired key may be taken over, and only by one caller.
const claimExpiredIdempotencyKey = `UPDATE idempotency_keys
SET request_hash = $3, status = 'processing', result_reservation_id = NULL,
	expires_at = $5, updated_at = $4
WHERE key = $1 AND user_id = $2 AND expires_at <= $4`

const completeIdempotencyKey = `UPDATE idempotency_keys
SET status = 'completed', result_reservation_id = $3, updated_at = now()
WHERE key = $1 AND user_id = $2`

const deleteIdempotencyKey = `DELETE FROM idempotency_keys
WHERE key = $1 AND user_id = $2 AND status = 'processing'`

type IdempotencyRepository struct {
	db db.DBTX
}

func NewIdempotencyRepository(db db.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{db: db}
}

func (r *IdempotencyRepository) TryInsert(ctx context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, tryInsertIdempotencyKey, key, userID, endpoint, requestHash, expiresAt)
	if err != nil {
		return false, infra.WrapRepoErr("failed to try insert idempotency key", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *IdempotencyRepository) Get(ctx context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	var (
		rec    shared.IdempotencyRecord
		result pgtype.UUID
	)
	err := r.db.QueryRow(ctx, getIdempotencyKey, key, userID).Scan(
		&rec.Key, &rec.UserID, &rec.Endpoint, &rec.Status, &rec.RequestHash, &result, &rec.ExpiresAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get idempotency key", err)
	}
	rec.ResultReservationID = pgconv.UUIDPtrFromPgtype(result)
	return &rec, nil
}

func (r *IdempotencyRepository) ClaimExpired(ctx context.Context, key, userID uuid.UUID, requestHash string, now, expiresAt time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, claimExpiredIdempotencyKey, key, userID, requestHash, now, expiresAt)
	if err != nil {
		return false, infra.WrapRepoErr("failed to claim expired idempotency key", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *IdempotencyRepository) MarkCompleted(ctx context.Context, key, userID, reservationID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, completeIdempotencyKey, key, userID, reservationID)
	if err != nil {
		return infra.WrapRepoErr("failed to update idempotency key status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NotFound("idempotency key not found")
	}
	return nil
}

func (r *IdempotencyRepository) Delete(ctx context.Context, key, userID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, deleteIdempotencyKey, key, userID); err != nil {
		return infra.WrapRepoErr("failed to delete idempotency key", err)
	}
	return nil
}
