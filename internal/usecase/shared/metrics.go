package shared

import (
	"time"

	"stay-booking/internal/domain/reservation"
)

// Metrics receives business events from the usecases.
type Metrics interface {
	ReservationTransition(to reservation.Status)
	BookingRejected(reason string)
	CouponRedemption(result string)
	SweepCompleted(expired, skipped, failed int, took time.Duration)
	LatePayment()
	Rescheduled()
}

type NopMetrics struct{}

func (NopMetrics) ReservationTransition(reservation.Status)    {}
func (NopMetrics) BookingRejected(string)                      {}
func (NopMetrics) CouponRedemption(string)                     {}
func (NopMetrics) SweepCompleted(int, int, int, time.Duration) {}
func (NopMetrics) LatePayment()                                {}
func (NopMetrics) Rescheduled()                                {}
