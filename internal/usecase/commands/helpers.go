package commands

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"stay-booking/internal/domain/reservation"
	"stay-booking/internal/pkg/errs"
	"stay-booking/internal/usecase/shared"
)

const (
	notificationKindEmail   = "email"
	notificationKindPayment = "payment"
)

type reservationEvent struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	Code          string    `json:"code"`
	UnitID        uuid.UUID `json:"unit_id"`
	GuestID       uuid.UUID `json:"guest_id"`
	Status        string    `json:"status"`
	CheckIn       string    `json:"check_in"`
	CheckOut      string    `json:"check_out"`
	TotalCents    int64     `json:"total_cents"`
	Reason        string    `json:"reason,omitempty"`
}

func enqueueReservationEvent(ctx context.Context, tx shared.Tx, topic string, res *reservation.Reservation, reason string, now time.Time) error {
	payload, err := json.Marshal(reservationEvent{
		ReservationID: res.ID(),
		Code:          res.Code().String(),
		UnitID:        res.UnitID(),
		GuestID:       res.GuestID(),
		Status:        res.Status().String(),
		CheckIn:       res.Stay().CheckIn().String(),
		CheckOut:      res.Stay().CheckOut().String(),
		TotalCents:    res.Amounts().Total().Cents(),
		Reason:        reason,
	})
	if err != nil {
		return errs.Wrap(err, "marshal notification payload")
	}

	if err := tx.Notifications().CreateJob(ctx, notificationKindEmail, topic, payload, now); err != nil {
		return errs.Mark(errs.Wrap(err, "enqueue notification"), errs.ErrDatabaseOperationFailed)
	}
	return nil
}

// releaseHold undoes everything a reservation holds: its calendar nights and,
// when reverseCoupon is set, its coupon redemption.
func releaseHold(ctx context.Context, tx shared.Tx, coupons *shared.CouponEngine, res *reservation.Reservation, reverseCoupon bool) error {
	if _, err := tx.Availability().ReleaseReservation(ctx, res.ID()); err != nil {
		return errs.Wrap(err, "release calendar block")
	}
	if reverseCoupon {
		if _, err := coupons.Remove(ctx, tx, res.ID()); err != nil {
			return err
		}
	}
	return nil
}

// loadReservation reads a reservation for a versioned update. lock additionally
// takes the row lock, used where a callback must serialize with transitions.
func loadReservation(ctx context.Context, tx shared.Tx, id uuid.UUID, lock bool) (*reservation.Reservation, error) {
	find := tx.Reservations().FindByID
	if lock {
		find = tx.Reservations().FindByIDForUpdate
	}
	res, err := find(ctx, id)
	if err != nil {
		if errs.Is(err, errs.ErrNotFound) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, errs.Wrap(err, "load reservation")
	}
	return res, nil
}
