package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"stay-booking/internal/domain/payment"
	"stay-booking/internal/infra"
	"stay-booking/internal/infra/db"
	"stay-booking/internal/pkg/pgconv"
)

const paymentColumns = `id, reservation_id, transaction_id, status, amount, updated_at`

const listPaymentsByReservation = `SELECT ` + paymentColumns + `
FROM payments WHERE reservation_id = $1 ORDER BY created_at, id`

const getPaymentByTransactionID = `SELECT ` + paymentColumns + `
FROM payments WHERE transaction_id = $1`

const upsertPayment = `INSERT INTO payments (id, reservation_id, transaction_id, status, amount, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6)
ON CONFLICT (transaction_id) DO UPDATE
SET status = EXCLUDED.status, amount = EXCLUDED.amount, updated_at = EXCLUDED.updated_at
WHERE payments.reservation_id = EXCLUDED.reservation_id`

type PaymentRepository struct {
	db db.DBTX
}

func NewPaymentRepository(db db.DBTX) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) ListByReservation(ctx context.Context, reservationID uuid.UUID) ([]payment.Payment, error) {
	rows, err := r.db.Query(ctx, listPaymentsByReservation, reservationID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list payments", err)
	}
	defer rows.Close()

	var out []payment.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan payment", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate payments", err)
	}
	return out, nil
}

func (r *PaymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*payment.Payment, error) {
	p, err := scanPayment(r.db.QueryRow(ctx, getPaymentByTransactionID, transactionID))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment", err)
	}
	return p, nil
}

func (r *PaymentRepository) Upsert(ctx context.Context, p *payment.Payment) error {
	tag, err := r.db.Exec(ctx, upsertPayment,
		p.ID, p.ReservationID, p.TransactionID, p.Status.String(), pgconv.MoneyToNumeric(p.Amount), p.UpdatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to upsert payment", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("transaction belongs to another reservation", nil, infra.KindConflict)
	}
	return nil
}

func scanPayment(row pgx.Row) (*payment.Payment, error) {
	var (
		p      payment.Payment
		status string
		amount pgtype.Numeric
	)
	if err := row.Scan(&p.ID, &p.ReservationID, &p.TransactionID, &status, &amount, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Status = payment.Status(status)

	var err error
	if p.Amount, err = pgconv.MoneyFromNumeric(amount); err != nil {
		return nil, err
	}
	return &p, nil
}
