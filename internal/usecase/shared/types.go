package shared

import (
	"time"

	"github.com/google/uuid"
)

const (
	IdempotencyStatusProcessing = "processing"
	IdempotencyStatusCompleted  = "completed"
)

type IdempotencyRecord struct {
	Key                 uuid.UUID
	UserID              uuid.UUID
	Endpoint            string
	Status              string
	RequestHash         string
	ResultReservationID *uuid.UUID
	ExpiresAt           time.Time
}

// Notification topics written to the outbox.
const (
	TopicReservationCreated     = "reservation.created"
	TopicReservationConfirmed   = "reservation.confirmed"
	TopicReservationRejected    = "reservation.rejected"
	TopicReservationCancelled   = "reservation.cancelled"
	TopicReservationExpired     = "reservation.expired"
	TopicReservationNoShow      = "reservation.no_show"
	TopicReservationCompleted   = "reservation.completed"
	TopicReservationRescheduled = "reservation.rescheduled"
	TopicRefundRequired         = "payment.refund_required"
)
