//go:build unit

package availability_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stay-booking/internal/domain/availability"
	"stay-booking/internal/domain/calendar"
	"stay-booking/internal/domain/money"
	"stay-booking/internal/pkg/ptr"
)

func stay(t *testing.T, in, out string) calendar.Range {
	t.Helper()
	ci, err := calendar.ParseDate(in)
	require.NoError(t, err)
	co, err := calendar.ParseDate(out)
	require.NoError(t, err)
	r, err := calendar.NewRange(ci, co)
	require.NoError(t, err)
	return r
}

func day(s string) calendar.Date {
	d, _ := calendar.ParseDate(s)
	return d
}

func TestRecord_Blocks(t *testing.T) {
	own := uuid.New()
	other := uuid.New()

	tests := []struct {
		name    string
		record  availability.Record
		exclude *uuid.UUID
		blocks  bool
	}{
		{"available record", availability.Record{IsAvailable: true}, nil, false},
		{"explicit block", availability.Record{IsAvailable: true, IsBlocked: true}, nil, true},
		{"unavailable", availability.Record{IsAvailable: false}, nil, true},
		{"held by another reservation", availability.Record{ReservationID: &other}, &own, true},
		{"held by the excluded reservation", availability.Record{ReservationID: &own}, &own, false},
		{"held with no exclusion", availability.Record{ReservationID: &own}, nil, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.blocks, tc.record.Blocks(tc.exclude))
		})
	}
}

func TestCalendar(t *testing.T) {
	unitID := uuid.New()
	resID := uuid.New()
	price := money.FromCents(15000)
	cal := availability.NewCalendar(unitID, []availability.Record{
		{UnitID: unitID, Date: day("2030-06-10"), IsAvailable: true, CustomPrice: &price},
		{UnitID: unitID, Date: day("2030-06-11"), IsAvailable: true, MinimumNightsOverride: ptr.Of(3)},
		{UnitID: unitID, Date: day("2030-06-12"), IsBlocked: true},
		{UnitID: unitID, Date: day("2030-06-20"), ReservationID: &resID},
	})

	t.Run("missing dates are free", func(t *testing.T) {
		assert.NoError(t, cal.EnsureFree(stay(t, "2030-06-01", "2030-06-10"), nil))
	})

	t.Run("blocked night inside the stay", func(t *testing.T) {
		err := cal.EnsureFree(stay(t, "2030-06-10", "2030-06-14"), nil)
		assert.ErrorIs(t, err, availability.ErrDatesBlocked)
		assert.Equal(t, []calendar.Date{day("2030-06-12")}, cal.BlockedDates(stay(t, "2030-06-10", "2030-06-14"), nil))
	})

	t.Run("check-out date itself is not occupied", func(t *testing.T) {
		assert.NoError(t, cal.EnsureFree(stay(t, "2030-06-10", "2030-06-12"), nil))
	})

	t.Run("own reservation nights do not block a reschedule", func(t *testing.T) {
		assert.Error(t, cal.EnsureFree(stay(t, "2030-06-19", "2030-06-22"), nil))
		assert.NoError(t, cal.EnsureFree(stay(t, "2030-06-19", "2030-06-22"), &resID))
	})

	t.Run("strictest minimum nights override", func(t *testing.T) {
		assert.Equal(t, 3, cal.MinimumNights(stay(t, "2030-06-10", "2030-06-12")))
		assert.Equal(t, 0, cal.MinimumNights(stay(t, "2030-06-13", "2030-06-15")))
	})

	t.Run("custom price lookup", func(t *testing.T) {
		got, ok := cal.CustomPrice(day("2030-06-10"))
		require.True(t, ok)
		assert.Equal(t, price, got)

		_, ok = cal.CustomPrice(day("2030-06-11"))
		assert.False(t, ok)
	})
}

func TestFields_Validate(t *testing.T) {
	assert.NoError(t, availability.Fields{IsAvailable: true}.Validate())
	assert.ErrorIs(t, availability.Fields{MinimumNightsOverride: ptr.Of(0)}.Validate(), availability.ErrInvalidMinimumNightsOverride)
	assert.ErrorIs(t, availability.Fields{BlockReason: ptr.Of(strings.Repeat("x", 256))}.Validate(), availability.ErrBlockReasonTooLong)
	negative := money.FromCents(-1)
	assert.ErrorIs(t, availability.Fields{CustomPrice: &negative}.Validate(), money.ErrNegativeAmount)
}
