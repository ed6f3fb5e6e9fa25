package reservation

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusRejected   Status = "rejected"
	StatusCancelled  Status = "cancelled"
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
	StatusCompleted  Status = "completed"
	StatusNoShow     Status = "no_show"
)

// Confirmed -> NoShow is further restricted to on or after the check-in date.
var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusRejected, StatusCancelled},
	StatusConfirmed:  {StatusCheckedIn, StatusCancelled, StatusNoShow},
	StatusCheckedIn:  {StatusCheckedOut, StatusNoShow},
	StatusCheckedOut: {StatusCompleted},
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected, StatusCancelled,
		StatusCheckedIn, StatusCheckedOut, StatusCompleted, StatusNoShow:
		return true
	default:
		return false
	}
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// OccupiesCalendar reports whether a reservation in this status claims its nights.
func (s Status) OccupiesCalendar() bool {
	switch s {
	case StatusCancelled, StatusRejected, StatusNoShow:
		return false
	default:
		return true
	}
}

// ReleasedStatuses are the statuses that do not count toward occupancy.
func ReleasedStatuses() []Status {
	return []Status{StatusCancelled, StatusRejected, StatusNoShow}
}

type CancellationKind string

const (
	CancelledByGuest           CancellationKind = "guest"
	CancelledByAdmin           CancellationKind = "admin"
	CancelledExpired           CancellationKind = "expired"
	CancelledByPaymentRefunded CancellationKind = "payment_refunded"
)

func (k CancellationKind) String() string {
	return string(k)
}
