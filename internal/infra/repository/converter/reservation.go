package converter

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"stay-booking/internal/domain/calendar"
	"stay-booking/internal/domain/money"
	"stay-booking/internal/domain/reservation"
	"stay-booking/internal/pkg/pgconv"
)

// ReservationColumns is the column list ScanReservation expects, in order.
const ReservationColumns = `id, code, unit_id, guest_id, check_in, check_out, status,
	base_amount, cleaning_fee, service_fee, tax_amount, discount_amount,
	payment_expires_at, cancellation_kind, cancellation_reason, cancelled_by, cancelled_at,
	rejection_reason, version, created_at, updated_at`

// ReservationParams are the column values of a reservation row.
type ReservationParams struct {
	ID                 uuid.UUID
	Code               string
	UnitID             uuid.UUID
	GuestID            uuid.UUID
	CheckIn            time.Time
	CheckOut           time.Time
	Status             string
	BaseAmount         pgtype.Numeric
	CleaningFee        pgtype.Numeric
	ServiceFee         pgtype.Numeric
	TaxAmount          pgtype.Numeric
	DiscountAmount     pgtype.Numeric
	TotalAmount        pgtype.Numeric
	PaymentExpiresAt   pgtype.Timestamptz
	CancellationKind   pgtype.Text
	CancellationReason pgtype.Text
	CancelledBy        pgtype.UUID
	CancelledAt        pgtype.Timestamptz
	RejectionReason    pgtype.Text
	Version            int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func ReservationToInfra(res *reservation.Reservation) ReservationParams {
	amounts := res.Amounts()
	p := ReservationParams{
		ID:               res.ID(),
		Code:             res.Code().String(),
		UnitID:           res.UnitID(),
		GuestID:          res.GuestID(),
		CheckIn:          res.Stay().CheckIn().Time(),
		CheckOut:         res.Stay().CheckOut().Time(),
		Status:           res.Status().String(),
		BaseAmount:       pgconv.MoneyToNumeric(amounts.Base()),
		CleaningFee:      pgconv.MoneyToNumeric(amounts.CleaningFee()),
		ServiceFee:       pgconv.MoneyToNumeric(amounts.ServiceFee()),
		TaxAmount:        pgconv.MoneyToNumeric(amounts.Tax()),
		DiscountAmount:   pgconv.MoneyToNumeric(amounts.Discount()),
		TotalAmount:      pgconv.MoneyToNumeric(amounts.Total()),
		PaymentExpiresAt: pgconv.TimePtrToPgtype(res.PaymentExpiresAt()),
		Version:          res.Version(),
		CreatedAt:        res.CreatedAt(),
		UpdatedAt:        res.UpdatedAt(),
	}

	if c := res.Cancellation(); c != nil {
		kind := c.Kind.String()
		p.CancellationKind = pgconv.StringPtrToPgtype(&kind)
		if c.Reason != "" {
			p.CancellationReason = pgconv.StringPtrToPgtype(&c.Reason)
		}
		if c.ActorID != uuid.Nil {
			p.CancelledBy = pgconv.UUIDToPgtype(c.ActorID)
		}
		p.CancelledAt = pgconv.TimeToPgtype(c.At)
	}
	if reason := res.RejectionReason(); reason != "" {
		p.RejectionReason = pgconv.StringPtrToPgtype(&reason)
	}
	return p
}

func ScanReservation(row pgx.Row) (*reservation.Reservation, error) {
	var p ReservationParams
	err := row.Scan(
		&p.ID, &p.Code, &p.UnitID, &p.GuestID, &p.CheckIn, &p.CheckOut, &p.Status,
		&p.BaseAmount, &p.CleaningFee, &p.ServiceFee, &p.TaxAmount, &p.DiscountAmount,
		&p.PaymentExpiresAt, &p.CancellationKind, &p.CancellationReason, &p.CancelledBy, &p.CancelledAt,
		&p.RejectionReason, &p.Version, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return ReservationToDomain(p)
}

func ReservationToDomain(p ReservationParams) (*reservation.Reservation, error) {
	stay, err := calendar.NewRange(calendar.DateOf(p.CheckIn), calendar.DateOf(p.CheckOut))
	if err != nil {
		return nil, err
	}

	var vals [5]money.Money
	for i, n := range []pgtype.Numeric{p.BaseAmount, p.CleaningFee, p.ServiceFee, p.TaxAmount, p.DiscountAmount} {
		if vals[i], err = pgconv.MoneyFromNumeric(n); err != nil {
			return nil, err
		}
	}
	amounts, err := reservation.NewAmounts(vals[0], vals[1], vals[2], vals[3], vals[4])
	if err != nil {
		return nil, err
	}

	snap := reservation.Snapshot{
		ID:               p.ID,
		Code:             reservation.Code(p.Code),
		UnitID:           p.UnitID,
		GuestID:          p.GuestID,
		Stay:             stay,
		Status:           reservation.Status(p.Status),
		Amounts:          amounts,
		PaymentExpiresAt: pgconv.TimePtrFromPgtype(p.PaymentExpiresAt),
		Version:          p.Version,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
	if p.RejectionReason.Valid {
		snap.RejectionReason = p.RejectionReason.String
	}
	if p.CancellationKind.Valid {
		c := &reservation.Cancellation{Kind: reservation.CancellationKind(p.CancellationKind.String)}
		if p.CancellationReason.Valid {
			c.Reason = p.CancellationReason.String
		}
		if id := pgconv.UUIDPtrFromPgtype(p.CancelledBy); id != nil {
			c.ActorID = *id
		}
		if at := pgconv.TimePtrFromPgtype(p.CancelledAt); at != nil {
			c.At = *at
		}
		snap.Cancellation = c
	}
	return reservation.Reconstruct(snap), nil
}
