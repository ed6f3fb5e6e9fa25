package payment

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"stay-booking/internal/domain/money"
	"stay-booking/internal/pkg/errs"
)

var (
	ErrInvalidStatus      = errs.Mark(errs.New("payment status must be pending, completed, failed or refunded"), errs.ErrDomainValidation)
	ErrEmptyTransactionID = errs.Mark(errs.New("transaction id is required"), errs.ErrDomainValidation)
	ErrPaymentRequired    = errs.Mark(errs.New("a completed payment is required first"), errs.ErrInvalidTransition)
	ErrStatusRegression   = errs.Mark(errs.New("payment status cannot move backwards"), errs.ErrInvalidTransition)
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
)

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusPending, StatusCompleted, StatusFailed, StatusRefunded:
		return st, nil
	default:
		return "", ErrInvalidStatus
	}
}

func (s Status) String() string {
	return string(s)
}

// rank orders statuses so duplicate or out-of-order callbacks cannot undo progress.
func (s Status) rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusFailed, StatusCompleted:
		return 1
	case StatusRefunded:
		return 2
	default:
		return -1
	}
}

// Payment mirrors the payment subsystem's record for a reservation.
type Payment struct {
	ID            uuid.UUID
	ReservationID uuid.UUID
	TransactionID string
	Status        Status
	Amount        money.Money
	UpdatedAt     time.Time
}

// Event is a status notification from the payment subsystem.
type Event struct {
	ReservationID uuid.UUID
	TransactionID string
	Status        Status
	Amount        money.Money
	OccurredAt    time.Time
}

func (e Event) Validate() error {
	if strings.TrimSpace(e.TransactionID) == "" {
		return ErrEmptyTransactionID
	}
	if e.Status.rank() < 0 {
		return ErrInvalidStatus
	}
	if e.Amount.Cents() < 0 {
		return money.ErrNegativeAmount
	}
	return nil
}

// CanAdvanceTo reports whether a stored payment may take the new status.
// Re-delivery of the same status is allowed and treated as a no-op upstream.
func (p *Payment) CanAdvanceTo(next Status) bool {
	if p.Status == next {
		return true
	}
	if p.Status == StatusFailed && next == StatusCompleted {
		return true
	}
	return next.rank() > p.Status.rank()
}

// Settled reports whether payments hold a completed, unrefunded payment.
func Settled(payments []Payment) bool {
	for _, p := range payments {
		if p.Status == StatusCompleted {
			return true
		}
	}
	return false
}
