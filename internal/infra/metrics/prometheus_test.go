//go:build unit

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"stay-booking/internal/domain/reservation"
)

func TestRecorder_ReservationTransition(t *testing.T) {
	before := testutil.ToFloat64(ReservationTransitions.WithLabelValues("confirmed"))

	NewRecorder().ReservationTransition(reservation.StatusConfirmed)

	assert.Equal(t, before+1, testutil.ToFloat64(ReservationTransitions.WithLabelValues("confirmed")))
}

func TestRecorder_BookingRejectedBlankReason(t *testing.T) {
	before := testutil.ToFloat64(BookingRejections.WithLabelValues("unknown"))

	NewRecorder().BookingRejected("  ")

	assert.Equal(t, before+1, testutil.ToFloat64(BookingRejections.WithLabelValues("unknown")))
}

func TestRecorder_SweepCompleted(t *testing.T) {
	expired := testutil.ToFloat64(SweepReservations.WithLabelValues("expired"))
	failed := testutil.ToFloat64(SweepReservations.WithLabelValues("failed"))

	NewRecorder().SweepCompleted(3, 1, 2, 150*time.Millisecond)

	assert.Equal(t, expired+3, testutil.ToFloat64(SweepReservations.WithLabelValues("expired")))
	assert.Equal(t, failed+2, testutil.ToFloat64(SweepReservations.WithLabelValues("failed")))
}

func TestRecorder_Rescheduled(t *testing.T) {
	before := testutil.ToFloat64(Reschedules)

	NewRecorder().Rescheduled()

	assert.Equal(t, before+1, testutil.ToFloat64(Reschedules))
}
