//go:build unit

package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stay-booking/internal/domain/calendar"
	"stay-booking/internal/pkg/errs"
)

func mustRange(t *testing.T, in, out string) calendar.Range {
	t.Helper()
	ci, err := calendar.ParseDate(in)
	require.NoError(t, err)
	co, err := calendar.ParseDate(out)
	require.NoError(t, err)
	r, err := calendar.NewRange(ci, co)
	require.NoError(t, err)
	return r
}

func TestParseDate(t *testing.T) {
	t.Run("valid date is midnight UTC", func(t *testing.T) {
		d, err := calendar.ParseDate(" 2030-02-28 ")
		require.NoError(t, err)
		assert.Equal(t, "2030-02-28", d.String())
		assert.Equal(t, time.UTC, d.Time().Location())
		assert.Equal(t, 0, d.Time().Hour())
	})

	for _, s := range []string{"", "2030-2-28", "28/02/2030", "2030-02-30", "2030-02-28T10:00:00Z"} {
		t.Run("invalid: "+s, func(t *testing.T) {
			_, err := calendar.ParseDate(s)
			assert.ErrorIs(t, err, calendar.ErrInvalidDate)
			assert.True(t, errs.Is(err, errs.ErrInvalidDateRange))
		})
	}

	t.Run("DateOf drops the time of day in UTC", func(t *testing.T) {
		tokyo := time.FixedZone("JST", 9*3600)
		d := calendar.DateOf(time.Date(2030, 6, 1, 3, 0, 0, 0, tokyo))
		assert.Equal(t, "2030-05-31", d.String())
	})
}

func TestNewRange(t *testing.T) {
	in := calendar.NewDate(2030, 6, 10)

	t.Run("rejects empty and reversed ranges", func(t *testing.T) {
		_, err := calendar.NewRange(in, in)
		assert.ErrorIs(t, err, calendar.ErrCheckOutNotAfterCheckIn)

		_, err = calendar.NewRange(in, in.AddDays(-1))
		assert.ErrorIs(t, err, calendar.ErrCheckOutNotAfterCheckIn)

		_, err = calendar.NewRange(calendar.Date{}, in)
		assert.ErrorIs(t, err, calendar.ErrInvalidDate)
	})

	t.Run("nights and dates exclude check-out", func(t *testing.T) {
		r := mustRange(t, "2030-06-10", "2030-06-13")
		assert.Equal(t, 3, r.Nights())

		dates := r.Dates()
		require.Len(t, dates, 3)
		assert.Equal(t, "2030-06-10", dates[0].String())
		assert.Equal(t, "2030-06-12", dates[2].String())
		assert.True(t, r.Contains(dates[2]))
		assert.False(t, r.Contains(r.CheckOut()))
	})

	t.Run("nights across a month boundary", func(t *testing.T) {
		assert.Equal(t, 2, mustRange(t, "2030-02-27", "2030-03-01").Nights())
		assert.Equal(t, 31, mustRange(t, "2030-12-01", "2031-01-01").Nights())
	})
}

func TestRange_Overlaps(t *testing.T) {
	base := mustRange(t, "2030-06-10", "2030-06-13")

	tests := []struct {
		name     string
		in, out  string
		overlaps bool
	}{
		{"identical", "2030-06-10", "2030-06-13", true},
		{"inside", "2030-06-11", "2030-06-12", true},
		{"covers", "2030-06-09", "2030-06-14", true},
		{"tail overlap", "2030-06-12", "2030-06-15", true},
		{"head overlap", "2030-06-08", "2030-06-11", true},
		{"back-to-back after", "2030-06-13", "2030-06-15", false},
		{"back-to-back before", "2030-06-08", "2030-06-10", false},
		{"disjoint", "2030-07-01", "2030-07-02", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			other := mustRange(t, tc.in, tc.out)
			assert.Equal(t, tc.overlaps, base.Overlaps(other))
			assert.Equal(t, tc.overlaps, other.Overlaps(base), "overlap must be symmetric")
		})
	}
}
