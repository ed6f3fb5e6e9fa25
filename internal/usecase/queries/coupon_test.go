//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stay-booking/internal/domain/coupon"
	"stay-booking/internal/domain/money"
	"stay-booking/internal/domain/unit"
	"stay-booking/internal/domain/user"
	"stay-booking/internal/pkg/clock"
	"stay-booking/internal/pkg/ptr"
	"stay-booking/internal/usecase/queries"
	"stay-booking/internal/usecase/shared"
	"stay-booking/tests/common/builder"
	"stay-booking/tests/common/memstore"
)

func TestCouponQueries_FindApplicable(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2030, time.June, 1, 9, 0, 0, 0, time.UTC)
	store := memstore.New()
	u := builder.NewUnitBuilder().MustBuild()
	store.AddUnit(u)

	add := func(code string, d coupon.Discount, mutate ...func(*coupon.Params)) {
		p := coupon.Params{
			Code:     code,
			Discount: d,
			StartsAt: now.Add(-time.Hour),
			EndsAt:   now.Add(24 * time.Hour),
			Scope:    coupon.ScopeAllUnits,
			Active:   true,
		}
		for _, m := range mutate {
			m(&p)
		}
		store.AddCoupon(p)
	}
	pct, err := coupon.NewPercentageDiscount(10)
	require.NoError(t, err)
	fixed, err := coupon.NewFixedDiscount(money.FromCents(5000))
	require.NoError(t, err)

	add("TENOFF", pct, func(p *coupon.Params) { p.MaxDiscount = ptr.Of(money.FromCents(2500)) })
	add("FIFTY", fixed, func(p *coupon.Params) { p.Priority = 5 })
	add("BIGSPEND", fixed, func(p *coupon.Params) { p.MinimumBookingAmount = ptr.Of(money.FromCents(100000)) })

	q := queries.NewCouponQueries(store, store.Units(), shared.NewCouponEngine(clock.NewMockClock(now)))
	guest := user.Actor{ID: uuid.New(), Role: user.RoleGuest}

	views, err := q.FindApplicable(ctx, u.ID(), guest, money.FromCents(36900), 3)
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, "FIFTY", views[0].Code)
	assert.Equal(t, int64(5000), views[0].EstimatedSavingCents)
	assert.Nil(t, views[0].MaxDiscountCents)

	assert.Equal(t, "TENOFF", views[1].Code)
	assert.Equal(t, int64(2500), views[1].EstimatedSavingCents)
	require.NotNil(t, views[1].MaxDiscountCents)
	assert.Equal(t, int64(2500), *views[1].MaxDiscountCents)

	t.Run("nights must be positive", func(t *testing.T) {
		_, err := q.FindApplicable(ctx, u.ID(), guest, money.FromCents(36900), 0)
		assert.ErrorIs(t, err, queries.ErrInvalidNights)
	})

	t.Run("unknown unit", func(t *testing.T) {
		_, err := q.FindApplicable(ctx, uuid.New(), guest, money.FromCents(36900), 3)
		assert.ErrorIs(t, err, unit.ErrUnitNotFound)
	})
}
