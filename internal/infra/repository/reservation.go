package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"stay-booking/internal/domain/calendar"
	"stay-booking/internal/domain/reservation"
	"stay-booking/internal/infra"
	"stay-booking/internal/infra/db"
	"stay-booking/internal/infra/repository/converter"
	"stay-booking/internal/pkg/pgconv"
)

const createReservation = `INSERT INTO reservations (
	id, code, unit_id, guest_id, check_in, check_out, status,
	base_amount, cleaning_fee, service_fee, tax_amount, discount_amount, total_amount,
	payment_expires_at, version, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

const getReservationByID = `SELECT ` + converter.ReservationColumns + ` FROM reservations WHERE id = $1`

const getReservationByIDForUpdate = getReservationByID + ` FOR UPDATE`

const listOverlappingReservations = `SELECT ` + converter.ReservationColumns + `
FROM reservations
WHERE unit_id = $1
  AND status NOT IN ('cancelled', 'rejected', 'no_show')
  AND check_in < $3 AND check_out > $2
  AND ($4::uuid IS NULL OR id <> $4)
ORDER BY check_in`

const updateReservation = `UPDATE reservations SET
	check_in = $3, check_out = $4, status = $5,
	base_amount = $6, cleaning_fee = $7, service_fee = $8, tax_amount = $9,
	discount_amount = $10, total_amount = $11,
	payment_expires_at = $12, cancellation_kind = $13, cancellation_reason = $14,
	cancelled_by = $15, cancelled_at = $16, rejection_reason = $17,
	version = version + 1, updated_at = $18
WHERE id = $1 AND version = $2`

const touchReservationVersion = `UPDATE reservations
SET version = version + 1, updated_at = now()
WHERE id = $1 AND version = $2`

const reservationExists = `SELECT EXISTS (SELECT 1 FROM reservations WHERE id = $1)`

const listExpiredPendingReservations = `SELECT id
FROM reservations
WHERE status = 'pending' AND payment_expires_at <= $1
  AND NOT EXISTS (
    SELECT 1 FROM payments p
    WHERE p.reservation_id = reservations.id AND p.status = 'completed'
  )
ORDER BY payment_expires_at, id
LIMIT $2`

const countCompletedReservationsByGuest = `SELECT count(*) FROM reservations
WHERE guest_id = $1 AND status = 'completed'`

type ReservationRepository struct {
	db db.DBTX
}

func NewReservationRepository(db db.DBTX) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	p := converter.ReservationToInfra(res)
	_, err := r.db.Exec(ctx, createReservation,
		p.ID, p.Code, p.UnitID, p.GuestID, p.CheckIn, p.CheckOut, p.Status,
		p.BaseAmount, p.CleaningFee, p.ServiceFee, p.TaxAmount, p.DiscountAmount, p.TotalAmount,
		p.PaymentExpiresAt, p.Version, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create reservation", err)
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	return r.findOne(ctx, getReservationByID, id)
}

func (r *ReservationRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	return r.findOne(ctx, getReservationByIDForUpdate, id)
}

func (r *ReservationRepository) findOne(ctx context.Context, query string, id uuid.UUID) (*reservation.Reservation, error) {
	res, err := converter.ScanReservation(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation", err)
	}
	return res, nil
}

func (r *ReservationRepository) ListOverlapping(ctx context.Context, unitID uuid.UUID, stay calendar.Range, exclude *uuid.UUID) ([]*reservation.Reservation, error) {
	rows, err := r.db.Query(ctx, listOverlappingReservations,
		unitID, stay.CheckIn().Time(), stay.CheckOut().Time(), pgconv.UUIDPtrToPgtype(exclude))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list overlapping reservations", err)
	}
	defer rows.Close()

	var out []*reservation.Reservation
	for rows.Next() {
		res, err := converter.ScanReservation(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation", err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservations", err)
	}
	return out, nil
}

// Update writes res only if the stored version still equals res.Version().
func (r *ReservationRepository) Update(ctx context.Context, res *reservation.Reservation) error {
	p := converter.ReservationToInfra(res)
	tag, err := r.db.Exec(ctx, updateReservation,
		p.ID, p.Version, p.CheckIn, p.CheckOut, p.Status,
		p.BaseAmount, p.CleaningFee, p.ServiceFee, p.TaxAmount, p.DiscountAmount, p.TotalAmount,
		p.PaymentExpiresAt, p.CancellationKind, p.CancellationReason, p.CancelledBy, p.CancelledAt,
		p.RejectionReason, p.UpdatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return r.versionMismatch(ctx, p.ID)
	}
	return nil
}

func (r *ReservationRepository) TouchVersion(ctx context.Context, id uuid.UUID, expectedVersion int64) error {
	tag, err := r.db.Exec(ctx, touchReservationVersion, id, expectedVersion)
	if err != nil {
		return infra.WrapRepoErr("failed to bump reservation version", err)
	}
	if tag.RowsAffected() == 0 {
		return r.versionMismatch(ctx, id)
	}
	return nil
}

func (r *ReservationRepository) versionMismatch(ctx context.Context, id uuid.UUID) error {
	var exists bool
	if err := r.db.QueryRow(ctx, reservationExists, id).Scan(&exists); err != nil {
		return infra.WrapRepoErr("failed to check reservation", err)
	}
	if !exists {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return infra.WrapRepoErr("reservation was modified concurrently", nil, infra.KindConflict)
}

func (r *ReservationRepository) ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, listExpiredPendingReservations, now, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list expired reservations", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate expired reservations", err)
	}
	return ids, nil
}

func (r *ReservationRepository) CountCompletedByGuest(ctx context.Context, guestID uuid.UUID) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, countCompletedReservationsByGuest, guestID).Scan(&n); err != nil {
		return 0, infra.WrapRepoErr("failed to count completed reservations", err)
	}
	return n, nil
}
