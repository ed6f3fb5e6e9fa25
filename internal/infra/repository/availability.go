package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"stay-booking/internal/domain/availability"
	"stay-booking/internal/domain/calendar"
	"stay-booking/internal/infra"
	"stay-booking/internal/infra/db"
	"stay-booking/internal/pkg/pgconv"
)

const availabilityColumns = `id, unit_id, date, is_available, is_blocked, block_reason,
	reservation_id, custom_price, minimum_nights_override, updated_at`

const getAvailability = `SELECT ` + availabilityColumns + `
FROM availability_records
WHERE unit_id = $1 AND date = $2 AND deleted_at IS NULL`

const getAvailabilityRange = `SELECT ` + availabilityColumns + `
FROM availability_records
WHERE unit_id = $1 AND date >= $2 AND date < $3 AND deleted_at IS NULL
ORDER BY date`

const upsertAvailability = `INSERT INTO availability_records (
	unit_id, date, is_available, is_blocked, block_reason, custom_price, minimum_nights_override
) VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (unit_id, date) WHERE deleted_at IS NULL DO UPDATE SET
	is_available = EXCLUDED.is_available,
	is_blocked = EXCLUDED.is_blocked,
	block_reason = EXCLUDED.block_reason,
	custom_price = EXCLUDED.custom_price,
	minimum_nights_override = EXCLUDED.minimum_nights_override,
	updated_at = now()
RETURNING ` + availabilityColumns

const deleteAvailabilityRange = `UPDATE availability_records
SET deleted_at = now(), updated_at = now()
WHERE unit_id = $1 AND date >= $2 AND date < $3
  AND deleted_at IS NULL AND reservation_id IS NULL`

const existingAvailabilityDates = `SELECT date
FROM availability_records
WHERE unit_id = $1 AND date = ANY($2::date[]) AND deleted_at IS NULL
ORDER BY date`

// The DO UPDATE only fires on free rows, so rows blocked by the host or held
// by another reservation are skipped and missing from the affected count.
const blockForReservation = `INSERT INTO availability_records (
	unit_id, date, is_available, is_blocked, block_reason, reservation_id
)
SELECT $1, d, TRUE, TRUE, $3, $4 FROM unnest($2::date[]) AS d
ON CONFLICT (unit_id, date) WHERE deleted_at IS NULL DO UPDATE SET
	is_blocked = TRUE,
	block_reason = EXCLUDED.block_reason,
	reservation_id = EXCLUDED.reservation_id,
	updated_at = now()
WHERE availability_records.is_blocked = FALSE
  AND availability_records.is_available = TRUE
  AND availability_records.reservation_id IS NULL`

const releaseReservation = `UPDATE availability_records
SET is_blocked = FALSE, block_reason = NULL, reservation_id = NULL, updated_at = now()
WHERE reservation_id = $1 AND deleted_at IS NULL`

type AvailabilityRepository struct {
	db db.DBTX
}

func NewAvailabilityRepository(db db.DBTX) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

func (r *AvailabilityRepository) Get(ctx context.Context, unitID uuid.UUID, date calendar.Date) (*availability.Record, error) {
	rec, err := scanAvailability(r.db.QueryRow(ctx, getAvailability, unitID, date.Time()))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("availability record not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get availability record", err)
	}
	return rec, nil
}

func (r *AvailabilityRepository) GetRange(ctx context.Context, unitID uuid.UUID, from, to calendar.Date) ([]availability.Record, error) {
	rows, err := r.db.Query(ctx, getAvailabilityRange, unitID, from.Time(), to.Time())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query availability range", err)
	}
	defer rows.Close()

	var records []availability.Record
	for rows.Next() {
		rec, err := scanAvailability(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan availability record", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate availability range", err)
	}
	return records, nil
}

func (r *AvailabilityRepository) Upsert(ctx context.Context, unitID uuid.UUID, date calendar.Date, f availability.Fields) (*availability.Record, error) {
	row := r.db.QueryRow(ctx, upsertAvailability,
		unitID,
		date.Time(),
		f.IsAvailable,
		f.IsBlocked,
		pgconv.StringPtrToPgtype(f.BlockReason),
		pgconv.MoneyPtrToNumeric(f.CustomPrice),
		pgconv.IntPtrToPgtype(f.MinimumNightsOverride),
	)
	rec, err := scanAvailability(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to upsert availability record", err)
	}
	return rec, nil
}

func (r *AvailabilityRepository) DeleteRange(ctx context.Context, unitID uuid.UUID, from, to calendar.Date) (int64, error) {
	tag, err := r.db.Exec(ctx, deleteAvailabilityRange, unitID, from.Time(), to.Time())
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete availability range", err)
	}
	return tag.RowsAffected(), nil
}

func (r *AvailabilityRepository) ExistingDates(ctx context.Context, unitID uuid.UUID, dates []calendar.Date) ([]calendar.Date, error) {
	rows, err := r.db.Query(ctx, existingAvailabilityDates, unitID, toTimes(dates))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query existing dates", err)
	}
	defer rows.Close()

	var existing []calendar.Date
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, infra.WrapRepoErr("failed to scan existing date", err)
		}
		existing = append(existing, calendar.DateOf(t))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate existing dates", err)
	}
	return existing, nil
}

func (r *AvailabilityRepository) BlockForReservation(ctx context.Context, unitID, reservationID uuid.UUID, dates []calendar.Date, reason string) (int64, error) {
	tag, err := r.db.Exec(ctx, blockForReservation, unitID, toTimes(dates), reason, reservationID)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to block dates for reservation", err)
	}
	return tag.RowsAffected(), nil
}

func (r *AvailabilityRepository) ReleaseReservation(ctx context.Context, reservationID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, releaseReservation, reservationID)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to release reservation dates", err)
	}
	return tag.RowsAffected(), nil
}

func scanAvailability(row pgx.Row) (*availability.Record, error) {
	var (
		rec           availability.Record
		date          time.Time
		blockReason   pgtype.Text
		reservationID pgtype.UUID
		customPrice   pgtype.Numeric
		minNights     pgtype.Int4
	)
	err := row.Scan(
		&rec.ID, &rec.UnitID, &date, &rec.IsAvailable, &rec.IsBlocked, &blockReason,
		&reservationID, &customPrice, &minNights, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Date = calendar.DateOf(date)
	rec.BlockReason = pgconv.StringPtrFromPgtype(blockReason)
	rec.ReservationID = pgconv.UUIDPtrFromPgtype(reservationID)
	rec.MinimumNightsOverride = pgconv.IntPtrFromPgtype(minNights)
	if rec.CustomPrice, err = pgconv.MoneyPtrFromNumeric(customPrice); err != nil {
		return nil, err
	}
	return &rec, nil
}

func toTimes(dates []calendar.Date) []time.Time {
	out := make([]time.Time, len(dates))
	for i, d := range dates {
		out[i] = d.Time()
	}
	return out
}
