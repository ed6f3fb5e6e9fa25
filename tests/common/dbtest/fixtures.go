//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// UnitFixture describes a catalog unit. Prices are decimal strings.
type UnitFixture struct {
	HostID          uuid.UUID
	Name            string
	BasePrice       string
	WeekendPrice    *string
	WeeklyDiscount  *string
	MonthlyDiscount *string
	MinimumNights   int
	MaximumNights   *int
}

func DefaultUnit(hostID uuid.UUID) UnitFixture {
	return UnitFixture{
		HostID:        hostID,
		Name:          "Seaside Cottage",
		BasePrice:     "100.00",
		MinimumNights: 1,
	}
}

func CreateTestUnit(t *testing.T, db DBLike, f UnitFixture) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(), `
		INSERT INTO units (id, host_id, name, base_price, weekend_price, weekly_discount,
		                   monthly_discount, minimum_nights, maximum_nights, is_active)
		VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6::numeric, $7::numeric, $8, $9, true)`,
		id, f.HostID, f.Name, f.BasePrice, f.WeekendPrice, f.WeeklyDiscount, f.MonthlyDiscount,
		f.MinimumNights, f.MaximumNights)
	require.NoError(t, err)
	return id
}

// CouponFixture describes a coupon row. Value is a percentage for
// "percentage" coupons and a decimal amount for "fixed_amount".
type CouponFixture struct {
	Code             string
	DiscountType     string
	DiscountValue    string
	MaxDiscount      *string
	StartsAt         time.Time
	EndsAt           time.Time
	Scope            string
	SpecificUnitID   *uuid.UUID
	TotalUsageLimit  *int
	PerUserLimit     *int
	MinimumAmount    *string
	MinimumNights    *int
	FirstBookingOnly bool
	Priority         int
}

func DefaultCoupon(code string) CouponFixture {
	now := time.Now().UTC()
	return CouponFixture{
		Code:          code,
		DiscountType:  "percentage",
		DiscountValue: "10",
		StartsAt:      now.Add(-24 * time.Hour),
		EndsAt:        now.Add(30 * 24 * time.Hour),
		Scope:         "all_units",
	}
}

func CreateTestCoupon(t *testing.T, db DBLike, f CouponFixture) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(), `
		INSERT INTO coupons (id, code, discount_type, discount_value, max_discount_amount,
		                     starts_at, ends_at, scope, specific_unit_id, total_usage_limit,
		                     per_user_limit, minimum_booking_amount, minimum_nights,
		                     first_booking_only, priority, is_active)
		VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6, $7, $8, $9, $10, $11, $12::numeric, $13, $14, $15, true)`,
		id, f.Code, f.DiscountType, f.DiscountValue, f.MaxDiscount, f.StartsAt, f.EndsAt, f.Scope,
		f.SpecificUnitID, f.TotalUsageLimit, f.PerUserLimit, f.MinimumAmount, f.MinimumNights,
		f.FirstBookingOnly, f.Priority)
	require.NoError(t, err)
	return id
}

// CountHeldNights counts live calendar records pointing at a reservation.
func CountHeldNights(t *testing.T, db DBLike, reservationID uuid.UUID) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM availability_records WHERE reservation_id = $1 AND deleted_at IS NULL",
		reservationID).Scan(&n)
	require.NoError(t, err)
	return n
}

func CouponUsage(t *testing.T, db DBLike, couponID uuid.UUID) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT current_usage_count FROM coupons WHERE id = $1", couponID).Scan(&n)
	require.NoError(t, err)
	return n
}

func ReservationStatus(t *testing.T, db DBLike, reservationID uuid.UUID) string {
	t.Helper()

	var status string
	err := db.QueryRow(context.Background(),
		"SELECT status FROM reservations WHERE id = $1", reservationID).Scan(&status)
	require.NoError(t, err)
	return status
}

// ExpirePending moves the payment deadline of a pending reservation into the past.
func ExpirePending(t *testing.T, db DBLike, reservationID uuid.UUID) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"UPDATE reservations SET payment_expires_at = now() - interval '1 minute' WHERE id = $1 AND status = 'pending'",
		reservationID)
	require.NoError(t, err)
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
