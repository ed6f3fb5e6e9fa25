package readstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"stay-booking/internal/domain/calendar"
	"stay-booking/internal/infra"
	"stay-booking/internal/infra/db"
	"stay-booking/internal/pkg/pgconv"
	"stay-booking/internal/usecase/queries"
)

const getReservationView = `SELECT
	r.id, r.code, r.unit_id, u.name, u.host_id, r.guest_id, r.check_in, r.check_out, r.status,
	(r.base_amount * 100)::bigint, (r.cleaning_fee * 100)::bigint, (r.service_fee * 100)::bigint,
	(r.tax_amount * 100)::bigint, (r.discount_amount * 100)::bigint, (r.total_amount * 100)::bigint,
	c.code, r.payment_expires_at, r.cancellation_kind, r.cancellation_reason, r.rejection_reason,
	r.version, r.created_at, r.updated_at
FROM reservations r
JOIN units u ON u.id = r.unit_id
LEFT JOIN coupon_redemptions cr ON cr.reservation_id = r.id AND cr.deleted_at IS NULL
LEFT JOIN coupons c ON c.id = cr.coupon_id
WHERE r.id = $1`

const listItemColumns = `r.id, r.code, r.unit_id, u.name, r.check_in, r.check_out, r.status,
	(r.total_amount * 100)::bigint, r.created_at`

const getReservationsByGuestFirstPage = `SELECT ` + listItemColumns + `
FROM reservations r
JOIN units u ON u.id = r.unit_id
WHERE r.guest_id = $1
ORDER BY r.created_at DESC, r.id DESC
LIMIT $2`

const getReservationsByGuestKeyset = `SELECT ` + listItemColumns + `
FROM reservations r
JOIN units u ON u.id = r.unit_id
WHERE r.guest_id = $1 AND (r.created_at, r.id) < ($2, $3)
ORDER BY r.created_at DESC, r.id DESC
LIMIT $4`

type ReservationReadStore struct {
	db db.DBTX
}

func NewReservationReadStore(db db.DBTX) *ReservationReadStore {
	return &ReservationReadStore{db: db}
}

func (r *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	var (
		v                  queries.ReservationView
		checkIn, checkOut  time.Time
		couponCode         pgtype.Text
		paymentExpiresAt   pgtype.Timestamptz
		cancellationKind   pgtype.Text
		cancellationReason pgtype.Text
		rejectionReason    pgtype.Text
	)
	err := r.db.QueryRow(ctx, getReservationView, id).Scan(
		&v.ID, &v.Code, &v.UnitID, &v.UnitName, &v.HostID, &v.GuestID, &checkIn, &checkOut, &v.Status,
		&v.BaseCents, &v.CleaningFeeCents, &v.ServiceFeeCents, &v.TaxCents, &v.DiscountCents, &v.TotalCents,
		&couponCode, &paymentExpiresAt, &cancellationKind, &cancellationReason, &rejectionReason,
		&v.Version, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}

	in, out := calendar.DateOf(checkIn), calendar.DateOf(checkOut)
	v.CheckIn = in.String()
	v.CheckOut = out.String()
	v.Nights = in.DaysUntil(out)
	v.CouponCode = pgconv.StringPtrFromPgtype(couponCode)
	v.PaymentExpiresAt = pgconv.TimePtrFromPgtype(paymentExpiresAt)
	v.CancellationKind = pgconv.StringPtrFromPgtype(cancellationKind)
	v.CancellationReason = pgconv.StringPtrFromPgtype(cancellationReason)
	v.RejectionReason = pgconv.StringPtrFromPgtype(rejectionReason)
	return &v, nil
}

func (r *ReservationReadStore) FindByGuest(ctx context.Context, guestID uuid.UUID, afterCreatedAt *time.Time, afterID *uuid.UUID, limit int) ([]*queries.ReservationListItem, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if afterCreatedAt == nil || afterID == nil {
		rows, err = r.db.Query(ctx, getReservationsByGuestFirstPage, guestID, limit)
	} else {
		rows, err = r.db.Query(ctx, getReservationsByGuestKeyset, guestID, *afterCreatedAt, *afterID, limit)
	}
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find reservations by guest", err)
	}
	defer rows.Close()

	result := make([]*queries.ReservationListItem, 0, limit)
	for rows.Next() {
		var (
			item              queries.ReservationListItem
			checkIn, checkOut time.Time
		)
		if err := rows.Scan(
			&item.ID, &item.Code, &item.UnitID, &item.UnitName, &checkIn, &checkOut,
			&item.Status, &item.TotalCents, &item.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation", err)
		}
		item.CheckIn = calendar.DateOf(checkIn).String()
		item.CheckOut = calendar.DateOf(checkOut).String()
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservations", err)
	}
	return result, nil
}
