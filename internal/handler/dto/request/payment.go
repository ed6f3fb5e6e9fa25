package request

import (
	"time"

	"github.com/google/uuid"

	"stay-booking/internal/domain/money"
	"stay-booking/internal/domain/payment"
)

type PaymentEventRequest struct {
	ReservationID uuid.UUID  `json:"reservationId" binding:"required"`
	TransactionID string     `json:"transactionId" binding:"required"`
	Status        string     `json:"status" binding:"required"`
	AmountCents   int64      `json:"amountCents"`
	OccurredAt    *time.Time `json:"occurredAt,omitempty"`
}

func (r PaymentEventRequest) ToDomain(now time.Time) (payment.Event, error) {
	status, err := payment.ParseStatus(r.Status)
	if err != nil {
		return payment.Event{}, err
	}
	amount, err := money.NewMoney(r.AmountCents)
	if err != nil {
		return payment.Event{}, err
	}

	occurredAt := now
	if r.OccurredAt != nil {
		occurredAt = r.OccurredAt.UTC()
	}

	event := payment.Event{
		ReservationID: r.ReservationID,
		TransactionID: r.TransactionID,
		Status:        status,
		Amount:        amount,
		OccurredAt:    occurredAt,
	}
	if err := event.Validate(); err != nil {
		return payment.Event{}, err
	}
	return event, nil
}
