package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"stay-booking/internal/domain/unit"
	"stay-booking/internal/infra"
	"stay-booking/internal/infra/db"
	"stay-booking/internal/pkg/pgconv"
)

const unitColumns = `id, host_id, name, base_price, weekend_price, weekly_discount,
	monthly_discount, minimum_nights, maximum_nights, is_active`

const getUnitByID = `SELECT ` + unitColumns + ` FROM units WHERE id = $1`

const lockUnitForBooking = `SELECT id FROM units WHERE id = $1 FOR UPDATE`

type UnitRepository struct {
	db db.DBTX
}

func NewUnitRepository(db db.DBTX) *UnitRepository {
	return &UnitRepository{db: db}
}

func (r *UnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*unit.Unit, error) {
	u, err := scanUnit(r.db.QueryRow(ctx, getUnitByID, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("unit not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find unit", err)
	}
	return u, nil
}

// LockForBooking takes the unit row lock that serializes bookings of one unit.
func (r *UnitRepository) LockForBooking(ctx context.Context, id uuid.UUID) error {
	var locked uuid.UUID
	if err := r.db.QueryRow(ctx, lockUnitForBooking, id).Scan(&locked); err != nil {
		if pgconv.IsNoRows(err) {
			return infra.WrapRepoErr("unit not found", err, infra.KindNotFound)
		}
		return infra.WrapRepoErr("failed to lock unit", err)
	}
	return nil
}

func scanUnit(row pgx.Row) (*unit.Unit, error) {
	var (
		p               unit.Params
		basePrice       pgtype.Numeric
		weekendPrice    pgtype.Numeric
		weeklyDiscount  pgtype.Numeric
		monthlyDiscount pgtype.Numeric
		maximumNights   pgtype.Int4
	)
	err := row.Scan(
		&p.ID, &p.HostID, &p.Name, &basePrice, &weekendPrice, &weeklyDiscount,
		&monthlyDiscount, &p.MinimumNights, &maximumNights, &p.Active,
	)
	if err != nil {
		return nil, err
	}

	if p.BasePrice, err = pgconv.MoneyFromNumeric(basePrice); err != nil {
		return nil, err
	}
	if p.WeekendPrice, err = pgconv.MoneyPtrFromNumeric(weekendPrice); err != nil {
		return nil, err
	}
	if p.WeeklyDiscount, err = pgconv.PercentPtrFromNumeric(weeklyDiscount); err != nil {
		return nil, err
	}
	if p.MonthlyDiscount, err = pgconv.PercentPtrFromNumeric(monthlyDiscount); err != nil {
		return nil, err
	}
	p.MaximumNights = pgconv.IntPtrFromPgtype(maximumNights)

	return unit.NewUnit(p)
}
