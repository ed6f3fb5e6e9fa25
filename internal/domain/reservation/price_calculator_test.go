//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stay-booking/internal/domain/calendar"
	"stay-booking/internal/domain/money"
	"stay-booking/internal/domain/reservation"
	"stay-booking/tests/common/builder"
)

type overrides map[calendar.Date]money.Money

func (o overrides) CustomPrice(d calendar.Date) (money.Money, bool) {
	m, ok := o[d]
	return m, ok
}

func pct(t *testing.T, v float64) money.Percent {
	t.Helper()
	p, err := money.NewPercent(v)
	require.NoError(t, err)
	return p
}

func newCalculator(t *testing.T) *reservation.DefaultPriceCalculator {
	t.Helper()
	return reservation.NewDefaultPriceCalculator(reservation.FeeRates{
		Cleaning: pct(t, 5),
		Service:  pct(t, 10),
		Tax:      pct(t, 8),
	}, []time.Weekday{time.Friday, time.Saturday})
}

func TestDefaultPriceCalculator_Price(t *testing.T) {
	pc := newCalculator(t)
	// 2030-06-10 is a Monday.
	monday := calendar.NewDate(2030, time.June, 10)

	t.Run("base rate only", func(t *testing.T) {
		u := builder.NewUnitBuilder().MustBuild()
		q := pc.Price(u, mustStay(t, monday, monday.AddDays(3)), nil)

		assert.Equal(t, 3, q.Nights)
		assert.Equal(t, int64(30000), q.Base.Cents())
		assert.Equal(t, reservation.StayDiscountNone, q.StayDiscountKind)
		assert.Equal(t, int64(1500), q.CleaningFee.Cents())
		assert.Equal(t, int64(3000), q.ServiceFee.Cents())
		assert.Equal(t, int64(2400), q.Tax.Cents())
		assert.Equal(t, int64(36900), q.Subtotal().Cents())
	})

	t.Run("weekend nights and weekly discount", func(t *testing.T) {
		u := builder.NewUnitBuilder().WithWeekendPrice(15000).WithDiscounts(10, 20).MustBuild()
		q := pc.Price(u, mustStay(t, monday, monday.AddDays(7)), nil)

		assert.Equal(t, int64(80000), q.NightlySubtotal.Cents())
		assert.Equal(t, reservation.PriceSourceWeekend, q.PerNight[4].Source)
		assert.Equal(t, reservation.PriceSourceWeekend, q.PerNight[5].Source)
		assert.Equal(t, reservation.PriceSourceBase, q.PerNight[6].Source)
		assert.Equal(t, reservation.StayDiscountWeekly, q.StayDiscountKind)
		assert.Equal(t, int64(8000), q.StayDiscount.Cents())
		assert.Equal(t, int64(72000), q.Base.Cents())
		assert.Equal(t, int64(3600), q.CleaningFee.Cents())
		assert.Equal(t, int64(7200), q.ServiceFee.Cents())
		assert.Equal(t, int64(5760), q.Tax.Cents())
	})

	t.Run("monthly discount wins over weekly", func(t *testing.T) {
		u := builder.NewUnitBuilder().WithDiscounts(10, 20).MustBuild()
		q := pc.Price(u, mustStay(t, monday, monday.AddDays(30)), nil)

		assert.Equal(t, reservation.StayDiscountMonthly, q.StayDiscountKind)
		assert.Equal(t, int64(60000), q.StayDiscount.Cents())
		assert.Equal(t, int64(240000), q.Base.Cents())
	})

	t.Run("custom calendar price beats the weekend rate", func(t *testing.T) {
		u := builder.NewUnitBuilder().WithWeekendPrice(15000).MustBuild()
		friday := monday.AddDays(4)
		q := pc.Price(u, mustStay(t, friday, friday.AddDays(1)), overrides{friday: money.FromCents(9999)})

		require.Len(t, q.PerNight, 1)
		assert.Equal(t, reservation.PriceSourceCustom, q.PerNight[0].Source)
		assert.Equal(t, int64(9999), q.Base.Cents())
		assert.Equal(t, int64(499), q.CleaningFee.Cents())
	})

	t.Run("weekend night without a weekend price", func(t *testing.T) {
		u := builder.NewUnitBuilder().MustBuild()
		np := pc.NightPrice(u, monday.AddDays(5), nil)
		assert.Equal(t, reservation.PriceSourceBase, np.Source)
	})
}

func TestQuote_Amounts(t *testing.T) {
	u := builder.NewUnitBuilder().MustBuild()
	q := newCalculator(t).Price(u, mustStay(t, checkIn, checkOut), nil)

	a, err := q.Amounts(money.FromCents(900))
	require.NoError(t, err)
	assert.Equal(t, q.Subtotal().Cents()-900, a.Total().Cents())

	_, err = q.Amounts(q.Subtotal().Add(money.FromCents(1)))
	assert.ErrorIs(t, err, reservation.ErrDiscountOverAmount)
}

func TestParseWeekdays(t *testing.T) {
	got, err := reservation.ParseWeekdays([]string{"Friday", " sat ", ""})
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Friday, time.Saturday}, got)

	_, err = reservation.ParseWeekdays([]string{"funday"})
	assert.ErrorIs(t, err, reservation.ErrUnknownWeekday)
}
