package queries

import (
	"time"

	"github.com/google/uuid"
)

// ReservationView is the read model of one reservation with its unit and coupon.
type ReservationView struct {
	ID                 uuid.UUID  `json:"id"`
	Code               string     `json:"code"`
	UnitID             uuid.UUID  `json:"unitId"`
	UnitName           string     `json:"unitName"`
	HostID             uuid.UUID  `json:"hostId"`
	GuestID            uuid.UUID  `json:"guestId"`
	CheckIn            string     `json:"checkIn"`
	CheckOut           string     `json:"checkOut"`
	Nights             int        `json:"nights"`
	Status             string     `json:"status"`
	BaseCents          int64      `json:"baseCents"`
	CleaningFeeCents   int64      `json:"cleaningFeeCents"`
	ServiceFeeCents    int64      `json:"serviceFeeCents"`
	TaxCents           int64      `json:"taxCents"`
	DiscountCents      int64      `json:"discountCents"`
	TotalCents         int64      `json:"totalCents"`
	CouponCode         *string    `json:"couponCode,omitempty"`
	PaymentExpiresAt   *time.Time `json:"paymentExpiresAt,omitempty"`
	CancellationKind   *string    `json:"cancellationKind,omitempty"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	RejectionReason    *string    `json:"rejectionReason,omitempty"`
	Version            int64      `json:"version"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

type ReservationListItem struct {
	ID         uuid.UUID `json:"id"`
	Code       string    `json:"code"`
	UnitID     uuid.UUID `json:"unitId"`
	UnitName   string    `json:"unitName"`
	CheckIn    string    `json:"checkIn"`
	CheckOut   string    `json:"checkOut"`
	Status     string    `json:"status"`
	TotalCents int64     `json:"totalCents"`
	CreatedAt  time.Time `json:"createdAt"`
}

type ReviewEligibilityView struct {
	ReservationID uuid.UUID `json:"reservationId"`
	Eligible      bool      `json:"eligible"`
	Status        string    `json:"status"`
}

type AvailabilityView struct {
	UnitID       uuid.UUID `json:"unitId"`
	CheckIn      string    `json:"checkIn"`
	CheckOut     string    `json:"checkOut"`
	Nights       int       `json:"nights"`
	Available    bool      `json:"available"`
	RangeFree    bool      `json:"rangeFree"`
	CalendarFree bool      `json:"calendarFree"`
	BlockedDates []string  `json:"blockedDates"`
	Reason       *string   `json:"reason,omitempty"`
}

// CalendarDayView is one date of a unit calendar, with defaults filled in for
// dates that have no stored record.
type CalendarDayView struct {
	Date                  string     `json:"date"`
	IsAvailable           bool       `json:"isAvailable"`
	IsBlocked             bool       `json:"isBlocked"`
	BlockReason           *string    `json:"blockReason,omitempty"`
	ReservationID         *uuid.UUID `json:"reservationId,omitempty"`
	PriceCents            int64      `json:"priceCents"`
	PriceSource           string     `json:"priceSource"`
	MinimumNightsOverride *int       `json:"minimumNightsOverride,omitempty"`
	Stored                bool       `json:"stored"`
}

type NightPriceView struct {
	Date       string `json:"date"`
	PriceCents int64  `json:"priceCents"`
	Source     string `json:"source"`
}

type PriceQuoteView struct {
	UnitID               uuid.UUID        `json:"unitId"`
	CheckIn              string           `json:"checkIn"`
	CheckOut             string           `json:"checkOut"`
	Nights               int              `json:"nights"`
	PerNight             []NightPriceView `json:"perNight"`
	NightlySubtotalCents int64            `json:"nightlySubtotalCents"`
	StayDiscountKind     string           `json:"stayDiscountKind"`
	StayDiscountCents    int64            `json:"stayDiscountCents"`
	BaseCents            int64            `json:"baseCents"`
	CleaningFeeCents     int64            `json:"cleaningFeeCents"`
	ServiceFeeCents      int64            `json:"serviceFeeCents"`
	TaxCents             int64            `json:"taxCents"`
	TotalCents           int64            `json:"totalCents"`
}

type CouponView struct {
	ID                   uuid.UUID `json:"id"`
	Code                 string    `json:"code"`
	DiscountType         string    `json:"discountType"`
	DiscountValue        float64   `json:"discountValue"`
	MaxDiscountCents     *int64    `json:"maxDiscountCents,omitempty"`
	EstimatedSavingCents int64     `json:"estimatedSavingCents"`
	Priority             int       `json:"priority"`
	EndsAt               time.Time `json:"endsAt"`
}
