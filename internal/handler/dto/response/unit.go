package response

import (
	"github.com/google/uuid"

	"stay-booking/internal/domain/availability"
	"stay-booking/internal/usecase/queries"
)

type CalendarResponse struct {
	UnitID uuid.UUID                 `json:"unitId"`
	From   string                    `json:"from"`
	To     string                    `json:"to"`
	Days   []queries.CalendarDayView `json:"days"`
}

type CalendarWriteResponse struct {
	UnitID  uuid.UUID           `json:"unitId"`
	Updated int                 `json:"updated"`
	Days    []CalendarRecordDTO `json:"days"`
}

type CalendarRecordDTO struct {
	Date                  string     `json:"date"`
	IsAvailable           bool       `json:"isAvailable"`
	IsBlocked             bool       `json:"isBlocked"`
	BlockReason           *string    `json:"blockReason,omitempty"`
	ReservationID         *uuid.UUID `json:"reservationId,omitempty"`
	CustomPriceCents      *int64     `json:"customPriceCents,omitempty"`
	MinimumNightsOverride *int       `json:"minimumNightsOverride,omitempty"`
}

type CalendarDeleteResponse struct {
	UnitID  uuid.UUID `json:"unitId"`
	Deleted int64     `json:"deleted"`
}

type CouponListResponse struct {
	UnitID  uuid.UUID            `json:"unitId"`
	Coupons []queries.CouponView `json:"coupons"`
}

func FromCalendarDays(unitID uuid.UUID, from, to string, days []queries.CalendarDayView) *CalendarResponse {
	return &CalendarResponse{UnitID: unitID, From: from, To: to, Days: days}
}

func FromAvailabilityRecords(unitID uuid.UUID, records []availability.Record) *CalendarWriteResponse {
	resp := &CalendarWriteResponse{
		UnitID:  unitID,
		Updated: len(records),
		Days:    make([]CalendarRecordDTO, len(records)),
	}
	for i, r := range records {
		dto := CalendarRecordDTO{
			Date:                  r.Date.String(),
			IsAvailable:           r.IsAvailable,
			IsBlocked:             r.IsBlocked,
			BlockReason:           r.BlockReason,
			ReservationID:         r.ReservationID,
			MinimumNightsOverride: r.MinimumNightsOverride,
		}
		if r.CustomPrice != nil {
			cents := r.CustomPrice.Cents()
			dto.CustomPriceCents = &cents
		}
		resp.Days[i] = dto
	}
	return resp
}

func FromCouponViews(unitID uuid.UUID, views []queries.CouponView) *CouponListResponse {
	if views == nil {
		views = []queries.CouponView{}
	}
	return &CouponListResponse{UnitID: unitID, Coupons: views}
}
