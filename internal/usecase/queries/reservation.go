package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"stay-booking/internal/domain/reservation"
	"stay-booking/internal/domain/user"
	"stay-booking/internal/pkg/errs"
)

type ReservationQueries interface {
	GetByID(ctx context.Context, actor user.Actor, id uuid.UUID) (*ReservationView, error)
	ListByGuest(ctx context.Context, actor user.Actor, after *Cursor, limit int) ([]*ReservationListItem, *Cursor, error)
	ReviewEligibility(ctx context.Context, actor user.Actor, id uuid.UUID) (*ReviewEligibilityView, error)
}

type ReservationReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	// FindByGuest lists newest first, starting strictly after the keyset position when one is given.
	FindByGuest(ctx context.Context, guestID uuid.UUID, afterCreatedAt *time.Time, afterID *uuid.UUID, limit int) ([]*ReservationListItem, error)
}

type reservationQueriesImpl struct {
	store ReservationReadStore
}

func NewReservationQueries(store ReservationReadStore) ReservationQueries {
	return &reservationQueriesImpl{store: store}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, actor user.Actor, id uuid.UUID) (*ReservationView, error) {
	view, err := q.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := reservation.Authorize(reservation.ActionView, actor, view.GuestID, view.HostID); err != nil {
		return nil, err
	}
	return view, nil
}

func (q *reservationQueriesImpl) ListByGuest(ctx context.Context, actor user.Actor, after *Cursor, limit int) ([]*ReservationListItem, *Cursor, error) {
	limit = ValidateLimit(limit)

	var afterCreatedAt *time.Time
	var afterID *uuid.UUID
	if after != nil && after.After != "" {
		ts, id, err := DecodeAfterCursor(after.After)
		if err != nil {
			return nil, nil, err
		}
		afterCreatedAt, afterID = &ts, &id
	}

	// One extra row tells whether another page exists.
	rows, err := q.store.FindByGuest(ctx, actor.ID, afterCreatedAt, afterID, limit+1)
	if err != nil {
		return nil, nil, errs.Wrap(err, "list reservations")
	}
	if len(rows) <= limit {
		return rows, nil, nil
	}

	rows = rows[:limit]
	last := rows[len(rows)-1]
	return rows, &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}, nil
}

// ReviewEligibility reports whether the guest may review the stay: only
// Completed reservations qualify.
func (q *reservationQueriesImpl) ReviewEligibility(ctx context.Context, actor user.Actor, id uuid.UUID) (*ReviewEligibilityView, error) {
	view, err := q.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && actor.ID != view.GuestID {
		return nil, reservation.ErrNotReservationGuest
	}
	return &ReviewEligibilityView{
		ReservationID: view.ID,
		Eligible:      view.Status == reservation.StatusCompleted.String(),
		Status:        view.Status,
	}, nil
}

func (q *reservationQueriesImpl) find(ctx context.Context, id uuid.UUID) (*ReservationView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if errs.Is(err, errs.ErrNotFound) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, errs.Wrap(err, "find reservation")
	}
	return view, nil
}
