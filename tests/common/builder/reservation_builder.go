//go:build unit || e2e

package builder

import (
	"time"

	"github.com/google/uuid"

	reqdto "stay-booking/internal/handler/dto/request"
	"stay-booking/internal/usecase/queries"
)

type ReservationBuilder struct {
	ID         uuid.UUID
	UnitID     uuid.UUID
	GuestID    uuid.UUID
	HostID     uuid.UUID
	CheckIn    string
	CheckOut   string
	Status     string
	CouponCode *string
	BaseCents  int64
	CreatedAt  time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	return &ReservationBuilder{
		ID:        uuid.New(),
		UnitID:    uuid.New(),
		GuestID:   uuid.New(),
		HostID:    uuid.New(),
		CheckIn:   "2030-06-10",
		CheckOut:  "2030-06-13",
		Status:    "pending",
		BaseCents: 30000,
		CreatedAt: time.Date(2030, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (b *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(b)
	return b
}

func (b *ReservationBuilder) WithStatus(status string) *ReservationBuilder {
	b.Status = status
	return b
}

func (b *ReservationBuilder) WithGuest(id uuid.UUID) *ReservationBuilder {
	b.GuestID = id
	return b
}

func (b *ReservationBuilder) WithCoupon(code string) *ReservationBuilder {
	b.CouponCode = &code
	return b
}

func (b *ReservationBuilder) BuildCreateRequestDTO() reqdto.CreateReservationRequest {
	return reqdto.CreateReservationRequest{
		UnitID:     b.UnitID,
		CheckIn:    b.CheckIn,
		CheckOut:   b.CheckOut,
		CouponCode: b.CouponCode,
	}
}

func (b *ReservationBuilder) BuildRescheduleRequestDTO() reqdto.RescheduleReservationRequest {
	return reqdto.RescheduleReservationRequest{CheckIn: b.CheckIn, CheckOut: b.CheckOut}
}

func (b *ReservationBuilder) BuildView() *queries.ReservationView {
	service := b.BaseCents / 10
	tax := b.BaseCents * 8 / 100
	expires := b.CreatedAt.Add(30 * time.Minute)
	return &queries.ReservationView{
		ID:               b.ID,
		Code:             "BK-0A1B2C3D4E",
		UnitID:           b.UnitID,
		UnitName:         "Seaside Cottage",
		HostID:           b.HostID,
		GuestID:          b.GuestID,
		CheckIn:          b.CheckIn,
		CheckOut:         b.CheckOut,
		Nights:           3,
		Status:           b.Status,
		BaseCents:        b.BaseCents,
		ServiceFeeCents:  service,
		TaxCents:         tax,
		TotalCents:       b.BaseCents + service + tax,
		CouponCode:       b.CouponCode,
		PaymentExpiresAt: &expires,
		Version:          1,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.CreatedAt,
	}
}

func (b *ReservationBuilder) BuildListItem() *queries.ReservationListItem {
	v := b.BuildView()
	return &queries.ReservationListItem{
		ID:         v.ID,
		Code:       v.Code,
		UnitID:     v.UnitID,
		UnitName:   v.UnitName,
		CheckIn:    v.CheckIn,
		CheckOut:   v.CheckOut,
		Status:     v.Status,
		TotalCents: v.TotalCents,
		CreatedAt:  v.CreatedAt,
	}
}
