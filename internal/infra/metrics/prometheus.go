package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"stay-booking/internal/domain/reservation"
)

var (
	ReservationTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stay_booking_reservation_transitions_total",
		Help: "Reservations entering each status",
	}, []string{"status"})

	BookingRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stay_booking_booking_rejections_total",
		Help: "Create requests refused, by error kind",
	}, []string{"reason"})

	CouponRedemptions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stay_booking_coupon_redemptions_total",
		Help: "Coupon apply and remove outcomes",
	}, []string{"result"})

	SweepReservations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stay_booking_expiry_sweep_reservations_total",
		Help: "Reservations handled by the payment expiry sweep",
	}, []string{"outcome"})

	SweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "stay_booking_expiry_sweep_duration_seconds",
		Help:    "Time to run one payment expiry sweep",
		Buckets: prometheus.DefBuckets,
	})

	LatePayments = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stay_booking_late_payments_total",
		Help: "Payments completed after their reservation expired",
	})

	Reschedules = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stay_booking_reservation_reschedules_total",
		Help: "Reservations moved to new dates",
	})
)

// Recorder implements shared.Metrics on the package collectors.
type Recorder struct{}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (Recorder) ReservationTransition(to reservation.Status) {
	ReservationTransitions.WithLabelValues(label(to.String())).Inc()
}

func (Recorder) BookingRejected(reason string) {
	BookingRejections.WithLabelValues(label(reason)).Inc()
}

func (Recorder) CouponRedemption(result string) {
	CouponRedemptions.WithLabelValues(label(result)).Inc()
}

func (Recorder) SweepCompleted(expired, skipped, failed int, took time.Duration) {
	SweepReservations.WithLabelValues("expired").Add(float64(expired))
	SweepReservations.WithLabelValues("skipped").Add(float64(skipped))
	SweepReservations.WithLabelValues("failed").Add(float64(failed))
	SweepDuration.Observe(took.Seconds())
}

func (Recorder) LatePayment() {
	LatePayments.Inc()
}

func (Recorder) Rescheduled() {
	Reschedules.Inc()
}

func label(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "unknown"
	}
	return v
}
