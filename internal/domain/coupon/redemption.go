package coupon

import (
	"time"

	"github.com/google/uuid"

	"stay-booking/internal/domain/money"
)

// Redemption records one use of a coupon against a reservation.
type Redemption struct {
	ID            uuid.UUID
	CouponID      uuid.UUID
	UserID        uuid.UUID
	ReservationID uuid.UUID
	Discount      money.Money
	RedeemedAt    time.Time
}

func NewRedemption(couponID, userID, reservationID uuid.UUID, discount money.Money, now time.Time) *Redemption {
	return &Redemption{
		ID:            uuid.New(),
		CouponID:      couponID,
		UserID:        userID,
		ReservationID: reservationID,
		Discount:      discount,
		RedeemedAt:    now,
	}
}
