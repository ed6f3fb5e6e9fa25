package response

import "github.com/google/uuid"

type PaymentEventResponse struct {
	ReservationID uuid.UUID `json:"reservationId"`
	TransactionID string    `json:"transactionId"`
	Outcome       string    `json:"outcome"`
}
