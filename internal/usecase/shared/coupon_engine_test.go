//go:build unit

package shared_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"stay-booking/internal/domain/calendar"
	"stay-booking/internal/domain/coupon"
	"stay-booking/internal/domain/money"
	"stay-booking/internal/domain/reservation"
	"stay-booking/internal/pkg/clock"
	"stay-booking/internal/pkg/errs"
	"stay-booking/internal/pkg/ptr"
	"stay-booking/internal/usecase/shared"
	"stay-booking/tests/common/memstore"
)

var engineNow = time.Date(2030, time.June, 1, 9, 0, 0, 0, time.UTC)

type CouponEngineTestSuite struct {
	suite.Suite
	ctx    context.Context
	store  *memstore.Store
	engine *shared.CouponEngine
}

func (s *CouponEngineTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memstore.New()
	s.engine = shared.NewCouponEngine(clock.NewMockClock(engineNow))
}

func TestCouponEngineTestSuite(t *testing.T) {
	suite.Run(t, new(CouponEngineTestSuite))
}

func (s *CouponEngineTestSuite) addCoupon(code string, percent float64, mutate ...func(*coupon.Params)) uuid.UUID {
	discount, err := coupon.NewPercentageDiscount(percent)
	s.Require().NoError(err)
	p := coupon.Params{
		Code:     code,
		Discount: discount,
		StartsAt: engineNow.Add(-time.Hour),
		EndsAt:   engineNow.Add(7 * 24 * time.Hour),
		Scope:    coupon.ScopeAllUnits,
		Active:   true,
	}
	for _, m := range mutate {
		m(&p)
	}
	return s.store.AddCoupon(p)
}

func (s *CouponEngineTestSuite) pending() *reservation.Reservation {
	id := seedReservation(s.T(), s.store, reservation.StatusPending, "2030-06-10", "2030-06-13")
	return s.store.Reservation(id)
}

func (s *CouponEngineTestSuite) TestFindApplicable() {
	best := s.addCoupon("BEST", 20, func(p *coupon.Params) { p.Priority = 10 })
	plain := s.addCoupon("PLAIN", 5)
	bigger := s.addCoupon("BIGGER", 15)
	s.addCoupon("LATER", 50, func(p *coupon.Params) { p.StartsAt = engineNow.Add(time.Hour) })
	s.addCoupon("OFF", 50, func(p *coupon.Params) { p.Active = false })
	s.addCoupon("OTHER", 50, func(p *coupon.Params) {
		p.Scope = coupon.ScopeSpecificUnit
		p.SpecificUnitID = ptr.Of(uuid.New())
	})
	s.addCoupon("LONG", 50, func(p *coupon.Params) { p.MinimumNights = ptr.Of(7) })
	s.addCoupon("ONCE", 50, func(p *coupon.Params) { p.UsageCount, p.TotalUsageLimit = 1, ptr.Of(1) })

	found, err := s.engine.FindApplicable(s.ctx, s.store.Reads(), unitID, uuid.New(), money.FromCents(30000), 3)
	s.Require().NoError(err)

	ids := make([]uuid.UUID, 0, len(found))
	for _, c := range found {
		ids = append(ids, c.ID())
	}
	s.Equal([]uuid.UUID{best, bigger, plain}, ids)
}

func (s *CouponEngineTestSuite) TestApplyAndRemove() {
	couponID := s.addCoupon("SAVE", 10, func(p *coupon.Params) { p.MaxDiscount = ptr.Of(money.FromCents(2000)) })
	res := s.pending()

	var discount money.Money
	err := s.store.Within(s.ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		discount, err = s.engine.Apply(ctx, tx, "SAVE", res, res.GuestID())
		return err
	})
	s.Require().NoError(err)
	s.Equal(money.FromCents(2000), discount, "capped at the maximum discount")
	s.Equal(discount, res.Amounts().Discount())
	s.Equal(1, s.store.CouponUsage(couponID))

	err = s.store.Within(s.ctx, func(ctx context.Context, tx shared.Tx) error {
		_, err := s.engine.Apply(ctx, tx, "SAVE", res, res.GuestID())
		return err
	})
	s.ErrorIs(err, coupon.ErrReservationHasCoupon)

	var removed bool
	err = s.store.Within(s.ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		removed, err = s.engine.Remove(ctx, tx, res.ID())
		return err
	})
	s.Require().NoError(err)
	s.True(removed)
	s.Zero(s.store.CouponUsage(couponID))

	err = s.store.Within(s.ctx, func(ctx context.Context, tx shared.Tx) error {
		removed, err = s.engine.Remove(ctx, tx, res.ID())
		return err
	})
	s.Require().NoError(err)
	s.False(removed)
}

func (s *CouponEngineTestSuite) TestApply_Failures() {
	s.addCoupon("GONE", 10, func(p *coupon.Params) { p.UsageCount, p.TotalUsageLimit = 2, ptr.Of(2) })

	tests := []struct {
		name string
		code string
		want error
		kind error
	}{
		{name: "malformed code", code: "no spaces allowed", want: coupon.ErrInvalidCouponCode, kind: errs.ErrDomainValidation},
		{name: "unknown code", code: "MISSING", want: coupon.ErrCouponNotFound, kind: errs.ErrNotFound},
		{name: "exhausted", code: "GONE", want: coupon.ErrCouponExhausted, kind: errs.ErrUsageLimitExceeded},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			res := s.pending()
			err := s.store.Within(s.ctx, func(ctx context.Context, tx shared.Tx) error {
				_, err := s.engine.Apply(ctx, tx, tt.code, res, res.GuestID())
				return err
			})
			s.ErrorIs(err, tt.want)
			s.True(errs.Is(err, tt.kind))
			s.True(res.Amounts().Discount().IsZero())
		})
	}
}

func (s *CouponEngineTestSuite) TestRecalculate() {
	s.addCoupon("SAVE", 10)
	res := s.pending()

	err := s.store.Within(s.ctx, func(ctx context.Context, tx shared.Tx) error {
		_, err := s.engine.Apply(ctx, tx, "SAVE", res, res.GuestID())
		return err
	})
	s.Require().NoError(err)

	var discount money.Money
	err = s.store.Within(s.ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		discount, err = s.engine.Recalculate(ctx, tx, res, stay(s.T(), "2030-06-10", "2030-06-14"), money.FromCents(45000))
		return err
	})
	s.Require().NoError(err)
	s.Equal(money.FromCents(4500), discount)
	s.Equal(discount, s.store.ActiveRedemption(res.ID()).Discount)
}

func (s *CouponEngineTestSuite) TestRecalculate_StayNoLongerQualifies() {
	s.addCoupon("LONGSTAY", 10, func(p *coupon.Params) {
		p.MinimumNights = ptr.Of(3)
		p.MinimumBookingAmount = ptr.Of(money.FromCents(20000))
	})
	res := s.pending()

	err := s.store.Within(s.ctx, func(ctx context.Context, tx shared.Tx) error {
		_, err := s.engine.Apply(ctx, tx, "LONGSTAY", res, res.GuestID())
		return err
	})
	s.Require().NoError(err)
	applied := s.store.ActiveRedemption(res.ID()).Discount

	tests := []struct {
		name   string
		stay   calendar.Range
		amount money.Money
		want   error
	}{
		{name: "too few nights", stay: stay(s.T(), "2030-06-10", "2030-06-11"), amount: money.FromCents(30000), want: coupon.ErrBelowMinimumNights},
		{name: "below minimum amount", stay: stay(s.T(), "2030-06-10", "2030-06-13"), amount: money.FromCents(10000), want: coupon.ErrBelowMinimumAmount},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			err := s.store.Within(s.ctx, func(ctx context.Context, tx shared.Tx) error {
				_, err := s.engine.Recalculate(ctx, tx, res, tt.stay, tt.amount)
				return err
			})
			s.ErrorIs(err, tt.want)
			s.True(errs.Is(err, errs.ErrCouponNotApplicable))
			s.Equal(applied, s.store.ActiveRedemption(res.ID()).Discount)
		})
	}
}

// Redemptions race for the last use of a coupon. Whatever the interleaving,
// the usage counter never passes the total limit.
func (s *CouponEngineTestSuite) TestApply_ConcurrentRedemptionsRespectTotalLimit() {
	for _, limit := range []int{1, 3} {
		s.Run(fmt.Sprintf("limit %d", limit), func() {
			couponID := s.addCoupon(fmt.Sprintf("RACE%d", limit), 10, func(p *coupon.Params) { p.TotalUsageLimit = ptr.Of(limit) })
			code := fmt.Sprintf("RACE%d", limit)

			const attempts = 12
			reservations := make([]*reservation.Reservation, attempts)
			for i := range reservations {
				reservations[i] = s.pending()
			}

			results := make([]error, attempts)
			var wg sync.WaitGroup
			for i, res := range reservations {
				wg.Add(1)
				go func() {
					defer wg.Done()
					results[i] = s.store.Within(s.ctx, func(ctx context.Context, tx shared.Tx) error {
						_, err := s.engine.Apply(ctx, tx, code, res, res.GuestID())
						return err
					})
				}()
			}
			wg.Wait()

			applied := 0
			for _, err := range results {
				if err == nil {
					applied++
					continue
				}
				s.True(errs.Is(err, errs.ErrUsageLimitExceeded), "got %v", err)
			}
			s.Equal(limit, applied)
			s.Equal(limit, s.store.CouponUsage(couponID))
		})
	}
}

func TestCouponEngine_RecalculateWithoutRedemption(t *testing.T) {
	store := memstore.New()
	engine := shared.NewCouponEngine(clock.NewMockClock(engineNow))
	id := seedReservation(t, store, reservation.StatusPending, "2030-06-10", "2030-06-13")
	res := store.Reservation(id)

	err := store.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		discount, err := engine.Recalculate(ctx, tx, res, res.Stay(), money.FromCents(45000))
		require.NoError(t, err)
		assert.True(t, discount.IsZero())
		return nil
	})
	require.NoError(t, err)
}
