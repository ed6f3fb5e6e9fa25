package request

import (
	"strings"

	"github.com/google/uuid"

	"stay-booking/internal/domain/calendar"
)

type CreateReservationRequest struct {
	UnitID     uuid.UUID `json:"unitId" binding:"required"`
	CheckIn    string    `json:"checkIn" binding:"required"`
	CheckOut   string    `json:"checkOut" binding:"required"`
	CouponCode *string   `json:"couponCode,omitempty"`
}

func (r CreateReservationRequest) GetCouponCode() *string {
	if r.CouponCode == nil {
		return nil
	}
	trimmed := strings.ToUpper(strings.TrimSpace(*r.CouponCode))
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (r CreateReservationRequest) ToStay() (calendar.Range, error) {
	return parseStay(r.CheckIn, r.CheckOut)
}

type RescheduleReservationRequest struct {
	CheckIn  string `json:"checkIn" binding:"required"`
	CheckOut string `json:"checkOut" binding:"required"`
}

func (r RescheduleReservationRequest) ToStay() (calendar.Range, error) {
	return parseStay(r.CheckIn, r.CheckOut)
}

// ReasonRequest carries the optional free-text reason of a reject or cancel.
type ReasonRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

func (r ApplyCouponRequest) NormalizedCode() string {
	return strings.ToUpper(strings.TrimSpace(r.Code))
}

func parseStay(checkIn, checkOut string) (calendar.Range, error) {
	in, err := calendar.ParseDate(checkIn)
	if err != nil {
		return calendar.Range{}, err
	}
	out, err := calendar.ParseDate(checkOut)
	if err != nil {
		return calendar.Range{}, err
	}
	return calendar.NewRange(in, out)
}
