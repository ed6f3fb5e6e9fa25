package response

import (
	"time"

	"github.com/google/uuid"

	"stay-booking/internal/usecase/queries"
)

type AmountsResponse struct {
	BaseCents        int64 `json:"baseCents"`
	CleaningFeeCents int64 `json:"cleaningFeeCents"`
	ServiceFeeCents  int64 `json:"serviceFeeCents"`
	TaxCents         int64 `json:"taxCents"`
	DiscountCents    int64 `json:"discountCents"`
	TotalCents       int64 `json:"totalCents"`
}

type CancellationResponse struct {
	Kind   string  `json:"kind"`
	Reason *string `json:"reason,omitempty"`
}

type ReservationResponse struct {
	ID               uuid.UUID             `json:"id"`
	Code             string                `json:"code"`
	UnitID           uuid.UUID             `json:"unitId"`
	UnitName         string                `json:"unitName"`
	GuestID          uuid.UUID             `json:"guestId"`
	CheckIn          string                `json:"checkIn"`
	CheckOut         string                `json:"checkOut"`
	Nights           int                   `json:"nights"`
	Status           string                `json:"status"`
	Amounts          AmountsResponse       `json:"amounts"`
	CouponCode       *string               `json:"couponCode,omitempty"`
	PaymentExpiresAt *time.Time            `json:"paymentExpiresAt,omitempty"`
	Cancellation     *CancellationResponse `json:"cancellation,omitempty"`
	RejectionReason  *string               `json:"rejectionReason,omitempty"`
	Version          int64                 `json:"version"`
	CreatedAt        time.Time             `json:"createdAt"`
	UpdatedAt        time.Time             `json:"updatedAt"`
}

type ReservationListResponse struct {
	Items      []*ReservationListItemResponse `json:"items"`
	NextCursor *string                        `json:"nextCursor,omitempty"`
}

type ReservationListItemResponse struct {
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

type CouponAppliedResponse struct {
	DiscountCents int64                `json:"discountCents"`
	Reservation   *ReservationResponse `json:"reservation"`
}

type ReviewEligibilityResponse struct {
	ReservationID uuid.UUID `json:"reservationId"`
	Eligible      bool      `json:"eligible"`
	Status        string    `json:"status"`
}

func FromReservationView(v *queries.ReservationView) *ReservationResponse {
	resp := &ReservationResponse{
		ID:       v.ID,
		Code:     v.Code,
		UnitID:   v.UnitID,
		UnitName: v.UnitName,
		GuestID:  v.GuestID,
		CheckIn:  v.CheckIn,
		CheckOut: v.CheckOut,
		Nights:   v.Nights,
		Status:   v.Status,
		Amounts: AmountsResponse{
			BaseCents:        v.BaseCents,
			CleaningFeeCents: v.CleaningFeeCents,
			ServiceFeeCents:  v.ServiceFeeCents,
			TaxCents:         v.TaxCents,
			DiscountCents:    v.DiscountCents,
			TotalCents:       v.TotalCents,
		},
		CouponCode:       v.CouponCode,
		PaymentExpiresAt: v.PaymentExpiresAt,
		RejectionReason:  v.RejectionReason,
		Version:          v.Version,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
	}
	if v.CancellationKind != nil {
		resp.Cancellation = &CancellationResponse{Kind: *v.CancellationKind, Reason: v.CancellationReason}
	}
	return resp
}

func FromReservationListItems(items []*queries.ReservationListItem, next *queries.Cursor) *ReservationListResponse {
	resp := &ReservationListResponse{Items: make([]*ReservationListItemResponse, len(items))}
	for i, it := range items {
		resp.Items[i] = &ReservationListItemResponse{
			ID:         it.ID,
			Code:       it.Code,
			UnitID:     it.UnitID,
			UnitName:   it.UnitName,
			CheckIn:    it.CheckIn,
			CheckOut:   it.CheckOut,
			Status:     it.Status,
			TotalCents: it.TotalCents,
			CreatedAt:  it.CreatedAt,
		}
	}
	if next != nil && next.After != "" {
		after := next.After
		resp.NextCursor = &after
	}
	return resp
}

func FromReviewEligibilityView(v *queries.ReviewEligibilityView) *ReviewEligibilityResponse {
	return &ReviewEligibilityResponse{
		ReservationID: v.ReservationID,
		Eligible:      v.Eligible,
		Status:        v.Status,
	}
}
