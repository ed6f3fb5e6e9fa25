package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"stay-booking/internal/domain/availability"
	"stay-booking/internal/domain/calendar"
	"stay-booking/internal/domain/money"
	"stay-booking/internal/domain/payment"
	"stay-booking/internal/domain/reservation"
	"stay-booking/internal/domain/unit"
	"stay-booking/internal/domain/user"
	reqdto "stay-booking/internal/handler/dto/request"
	"stay-booking/internal/pkg/clock"
	"stay-booking/internal/pkg/errs"
	"stay-booking/internal/usecase/shared"
)

const createReservationEndpoint = "POST /api/reservations"

type BookingCommands interface {
	Create(ctx context.Context, req reqdto.CreateReservationRequest, actor user.Actor, idempotencyKey uuid.UUID) (*CreateResult, error)
	Confirm(ctx context.Context, id uuid.UUID, actor user.Actor) error
	Reject(ctx context.Context, id uuid.UUID, reason string, actor user.Actor) error
	Cancel(ctx context.Context, id uuid.UUID, reason string, actor user.Actor) error
	CheckIn(ctx context.Context, id uuid.UUID, actor user.Actor) error
	CheckOut(ctx context.Context, id uuid.UUID, actor user.Actor) error
	Complete(ctx context.Context, id uuid.UUID, actor user.Actor) error
	MarkNoShow(ctx context.Context, id uuid.UUID, actor user.Actor) error
	Reschedule(ctx context.Context, id uuid.UUID, req reqdto.RescheduleReservationRequest, actor user.Actor) error
}

type bookingCommandsImpl struct {
	uow      shared.UnitOfWork
	units    shared.UnitReader
	guard    *shared.OverlapGuard
	coupons  *shared.CouponEngine
	pricing  reservation.PriceCalculator
	factory  *reservation.Factory
	clock    clock.Clock
	metrics  shared.Metrics
	settings BookingSettings
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	units shared.UnitReader,
	guard *shared.OverlapGuard,
	coupons *shared.CouponEngine,
	pricing reservation.PriceCalculator,
	factory *reservation.Factory,
	clock clock.Clock,
	metrics shared.Metrics,
	settings BookingSettings,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:      uow,
		units:    units,
		guard:    guard,
		coupons:  coupons,
		pricing:  pricing,
		factory:  factory,
		clock:    clock,
		metrics:  metrics,
		settings: settings,
	}
}

func (b *bookingCommandsImpl) Create(
	ctx context.Context,
	req reqdto.CreateReservationRequest,
	actor user.Actor,
	idempotencyKey uuid.UUID,
) (*CreateResult, error) {
	if idempotencyKey == uuid.Nil {
		return nil, errs.ErrIdempotencyKeyRequired
	}
	if err := reservation.Authorize(reservation.ActionCreate, actor, actor.ID, uuid.Nil); err != nil {
		return nil, err
	}

	stay, err := req.ToStay()
	if err != nil {
		return nil, err
	}

	requestHash := calculateRequestHash(req)
	replayedID, err := b.claimIdempotencyKey(ctx, idempotencyKey, actor.ID, requestHash)
	if err != nil {
		return nil, err
	}
	if replayedID != nil {
		return &CreateResult{ReservationID: *replayedID, IsReplayed: true}, nil
	}

	reservationID, err := b.createReservation(ctx, req, stay, actor, idempotencyKey)
	if err != nil {
		if delErr := b.uow.Reads().Idempotency().Delete(ctx, idempotencyKey, actor.ID); delErr != nil {
			slog.Warn("failed to release idempotency key", "key", idempotencyKey, "error", delErr.Error())
		}
		b.metrics.BookingRejected(rejectionLabel(err))
		return nil, err
	}

	b.metrics.ReservationTransition(reservation.StatusPending)
	return &CreateResult{ReservationID: reservationID}, nil
}

// claimIdempotencyKey returns the stored reservation id for a completed replay,
// or nil when this call owns the key and should proceed.
func (b *bookingCommandsImpl) claimIdempotencyKey(ctx context.Context, key, userID uuid.UUID, requestHash string) (*uuid.UUID, error) {
	repo := b.uow.Reads().Idempotency()
	now := b.clock.Now()
	expiresAt := now.Add(b.settings.IdempotencyTTL)

	inserted, err := repo.TryInsert(ctx, key, userID, createReservationEndpoint, requestHash, expiresAt)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "claim idempotency key"), errs.ErrDatabaseOperationFailed)
	}
	if inserted {
		return nil, nil
	}

	existing, err := repo.Get(ctx, key, userID)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "read idempotency key"), errs.ErrDatabaseOperationFailed)
	}

	if !now.Before(existing.ExpiresAt) {
		claimed, err := repo.ClaimExpired(ctx, key, userID, requestHash, now, expiresAt)
		if err != nil {
			return nil, errs.Mark(errs.Wrap(err, "reclaim idempotency key"), errs.ErrDatabaseOperationFailed)
		}
		if claimed {
			return nil, nil
		}
		return nil, errs.ErrIdempotencyInProgress
	}

	if existing.RequestHash != requestHash {
		return nil, errs.ErrIdempotencyMismatch
	}

	switch existing.Status {
	case shared.IdempotencyStatusCompleted:
		if existing.ResultReservationID == nil {
			return nil, errs.New("completed request missing result reservation ID")
		}
		return existing.ResultReservationID, nil
	case shared.IdempotencyStatusProcessing:
		return nil, errs.ErrIdempotencyInProgress
	default:
		return nil, errs.Newf("invalid idempotency key status %q", existing.Status)
	}
}

func (b *bookingCommandsImpl) createReservation(
	ctx context.Context,
	req reqdto.CreateReservationRequest,
	stay calendar.Range,
	actor user.Actor,
	idempotencyKey uuid.UUID,
) (uuid.UUID, error) {
	u, err := b.loadUnit(ctx, req.UnitID)
	if err != nil {
		return uuid.Nil, err
	}
	if err := u.EnsureBookable(); err != nil {
		return uuid.Nil, err
	}

	var reservationID uuid.UUID
	err = b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Units().LockForBooking(ctx, u.ID()); err != nil {
			if errs.Is(err, errs.ErrNotFound) {
				return unit.ErrUnitNotFound
			}
			return errs.Wrap(err, "lock unit")
		}

		cal, err := b.guard.Calendar(ctx, tx, u.ID(), stay)
		if err != nil {
			return err
		}
		if err := u.ValidateStayLength(stay.Nights(), cal.MinimumNights(stay)); err != nil {
			return err
		}
		if err := b.guard.EnsureBookable(ctx, tx, cal, stay, nil); err != nil {
			return err
		}

		quote := b.pricing.Price(u, stay, cal)
		amounts, err := quote.Amounts(money.Zero())
		if err != nil {
			return err
		}

		res, err := b.factory.NewPending(u.ID(), actor.ID, stay, amounts)
		if err != nil {
			return err
		}

		if code := req.GetCouponCode(); code != nil {
			if _, err := b.coupons.Apply(ctx, tx, *code, res, actor.ID); err != nil {
				b.metrics.CouponRedemption(couponResultLabel(err))
				return err
			}
			b.metrics.CouponRedemption("applied")
		}

		if err := tx.Reservations().Create(ctx, res); err != nil {
			if errs.Is(err, errs.ErrConcurrencyConflict) {
				return shared.ErrRangeOverlaps
			}
			return errs.Wrap(err, "create reservation")
		}

		if err := blockNights(ctx, tx, res); err != nil {
			return err
		}

		if err := tx.Idempotency().MarkCompleted(ctx, idempotencyKey, actor.ID, res.ID()); err != nil {
			return errs.Mark(errs.Wrap(err, "complete idempotency key"), errs.ErrDatabaseOperationFailed)
		}

		if err := enqueueReservationEvent(ctx, tx, shared.TopicReservationCreated, res, "", b.clock.Now()); err != nil {
			return err
		}

		reservationID = res.ID()
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return reservationID, nil
}

func (b *bookingCommandsImpl) Confirm(ctx context.Context, id uuid.UUID, actor user.Actor) error {
	return b.transition(ctx, id, actor, transitionSpec{
		action:         reservation.ActionConfirm,
		requirePayment: b.settings.PaymentGate == PaymentGateConfirm,
		topic:          shared.TopicReservationConfirmed,
		apply: func(res *reservation.Reservation, now time.Time) error {
			return res.Confirm(now)
		},
	})
}

func (b *bookingCommandsImpl) Reject(ctx context.Context, id uuid.UUID, reason string, actor user.Actor) error {
	return b.transition(ctx, id, actor, transitionSpec{
		action:        reservation.ActionReject,
		release:       true,
		reverseCoupon: true,
		topic:         shared.TopicReservationRejected,
		reason:        reason,
		apply: func(res *reservation.Reservation, now time.Time) error {
			return res.Reject(reason, now)
		},
	})
}

func (b *bookingCommandsImpl) Cancel(ctx context.Context, id uuid.UUID, reason string, actor user.Actor) error {
	kind := reservation.CancelledByGuest
	if actor.IsAdmin() {
		kind = reservation.CancelledByAdmin
	}
	return b.transition(ctx, id, actor, transitionSpec{
		action:        reservation.ActionCancel,
		release:       true,
		reverseCoupon: true,
		topic:         shared.TopicReservationCancelled,
		reason:        reason,
		apply: func(res *reservation.Reservation, now time.Time) error {
			return res.Cancel(kind, reason, actor.ID, now)
		},
	})
}

func (b *bookingCommandsImpl) CheckIn(ctx context.Context, id uuid.UUID, actor user.Actor) error {
	return b.transition(ctx, id, actor, transitionSpec{
		action:         reservation.ActionCheckIn,
		requirePayment: b.settings.PaymentGate == PaymentGateCheckIn,
		apply: func(res *reservation.Reservation, now time.Time) error {
			return res.CheckIn(now, b.settings.StrictCheckIn)
		},
	})
}

func (b *bookingCommandsImpl) CheckOut(ctx context.Context, id uuid.UUID, actor user.Actor) error {
	return b.transition(ctx, id, actor, transitionSpec{
		action: reservation.ActionCheckOut,
		apply: func(res *reservation.Reservation, now time.Time) error {
			return res.CheckOut(now)
		},
	})
}

func (b *bookingCommandsImpl) Complete(ctx context.Context, id uuid.UUID, actor user.Actor) error {
	return b.transition(ctx, id, actor, transitionSpec{
		action: reservation.ActionComplete,
		topic:  shared.TopicReservationCompleted,
		apply: func(res *reservation.Reservation, now time.Time) error {
			return res.Complete(now)
		},
	})
}

// MarkNoShow releases the held nights; the coupon stays consumed.
func (b *bookingCommandsImpl) MarkNoShow(ctx context.Context, id uuid.UUID, actor user.Actor) error {
	return b.transition(ctx, id, actor, transitionSpec{
		action:  reservation.ActionNoShow,
		release: true,
		topic:   shared.TopicReservationNoShow,
		apply: func(res *reservation.Reservation, now time.Time) error {
			return res.MarkNoShow(now)
		},
	})
}

type transitionSpec struct {
	action         reservation.Action
	apply          func(res *reservation.Reservation, now time.Time) error
	requirePayment bool
	release        bool
	reverseCoupon  bool
	topic          string
	reason         string
}

// transition runs one versioned lifecycle step. A concurrent writer makes the
// version check fail with ConcurrencyConflict and nothing is written.
func (b *bookingCommandsImpl) transition(ctx context.Context, id uuid.UUID, actor user.Actor, spec transitionSpec) error {
	var next reservation.Status
	err := b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := loadReservation(ctx, tx, id, false)
		if err != nil {
			return err
		}

		hostID, err := b.hostOf(ctx, res.UnitID())
		if err != nil {
			return err
		}
		if err := reservation.Authorize(spec.action, actor, res.GuestID(), hostID); err != nil {
			return err
		}

		if spec.requirePayment {
			payments, err := tx.Payments().ListByReservation(ctx, res.ID())
			if err != nil {
				return errs.Wrap(err, "list payments")
			}
			if !payment.Settled(payments) {
				return payment.ErrPaymentRequired
			}
		}

		now := b.clock.Now()
		if err := spec.apply(res, now); err != nil {
			return err
		}

		if err := tx.Reservations().Update(ctx, res); err != nil {
			return errs.Wrap(err, "update reservation")
		}

		if spec.release {
			if err := releaseHold(ctx, tx, b.coupons, res, spec.reverseCoupon); err != nil {
				return err
			}
		}

		if spec.topic != "" {
			if err := enqueueReservationEvent(ctx, tx, spec.topic, res, spec.reason, now); err != nil {
				return err
			}
		}

		next = res.Status()
		return nil
	})
	if err != nil {
		return err
	}

	b.metrics.ReservationTransition(next)
	slog.Info("reservation transitioned", "reservation_id", id, "status", next.String(), "actor_id", actor.ID)
	return nil
}

// Reschedule moves a Pending or Confirmed stay to new dates, re-running both
// overlap checks while ignoring the reservation's own nights. A redeemed coupon
// the new stay no longer qualifies for fails the move with CouponNotApplicable.
func (b *bookingCommandsImpl) Reschedule(ctx context.Context, id uuid.UUID, req reqdto.RescheduleReservationRequest, actor user.Actor) error {
	stay, err := req.ToStay()
	if err != nil {
		return err
	}

	var previous calendar.Range
	err = b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := loadReservation(ctx, tx, id, false)
		if err != nil {
			return err
		}

		u, err := b.loadUnit(ctx, res.UnitID())
		if err != nil {
			return err
		}
		if err := reservation.Authorize(reservation.ActionReschedule, actor, res.GuestID(), u.HostID()); err != nil {
			return err
		}
		if err := u.EnsureBookable(); err != nil {
			return err
		}
		if stay.CheckIn().Before(calendar.DateOf(b.clock.Now())) {
			return reservation.ErrCheckInInPast
		}

		if err := tx.Units().LockForBooking(ctx, u.ID()); err != nil {
			if errs.Is(err, errs.ErrNotFound) {
				return unit.ErrUnitNotFound
			}
			return errs.Wrap(err, "lock unit")
		}

		self := res.ID()
		previous = res.Stay()
		cal, err := b.guard.Calendar(ctx, tx, u.ID(), stay)
		if err != nil {
			return err
		}
		if err := u.ValidateStayLength(stay.Nights(), cal.MinimumNights(stay)); err != nil {
			return err
		}
		if err := b.guard.EnsureBookable(ctx, tx, cal, stay, &self); err != nil {
			return err
		}

		quote := b.pricing.Price(u, stay, cal)
		discount, err := b.coupons.Recalculate(ctx, tx, res, stay, quote.Subtotal())
		if err != nil {
			return err
		}
		amounts, err := quote.Amounts(discount)
		if err != nil {
			return err
		}

		now := b.clock.Now()
		if err := res.Reschedule(stay, amounts, now); err != nil {
			return err
		}
		if err := tx.Reservations().Update(ctx, res); err != nil {
			return errs.Wrap(err, "update reservation")
		}

		if _, err := tx.Availability().ReleaseReservation(ctx, res.ID()); err != nil {
			return errs.Wrap(err, "release previous nights")
		}
		if err := blockNights(ctx, tx, res); err != nil {
			return err
		}

		reason := "moved from " + previous.CheckIn().String() + "/" + previous.CheckOut().String()
		return enqueueReservationEvent(ctx, tx, shared.TopicReservationRescheduled, res, reason, now)
	})
	if err != nil {
		return err
	}

	b.metrics.Rescheduled()
	slog.Info("reservation rescheduled",
		"reservation_id", id,
		"from", previous.CheckIn().String(),
		"check_in", stay.CheckIn().String(),
		"check_out", stay.CheckOut().String(),
		"actor_id", actor.ID,
	)
	return nil
}

func (b *bookingCommandsImpl) loadUnit(ctx context.Context, id uuid.UUID) (*unit.Unit, error) {
	u, err := b.units.FindByID(ctx, id)
	if err != nil {
		if errs.Is(err, errs.ErrNotFound) {
			return nil, unit.ErrUnitNotFound
		}
		return nil, errs.Wrap(err, "load unit")
	}
	return u, nil
}

func (b *bookingCommandsImpl) hostOf(ctx context.Context, unitID uuid.UUID) (uuid.UUID, error) {
	u, err := b.loadUnit(ctx, unitID)
	if err != nil {
		return uuid.Nil, err
	}
	return u.HostID(), nil
}

// blockNights claims every night of res on the calendar. The conditional write
// skips rows that are already blocked, so a short count means a host block or
// another reservation won the nights.
func blockNights(ctx context.Context, tx shared.Tx, res *reservation.Reservation) error {
	dates := res.Stay().Dates()
	claimed, err := tx.Availability().BlockForReservation(ctx, res.UnitID(), res.ID(), dates, res.BlockReason())
	if err != nil {
		return errs.Wrap(err, "block calendar nights")
	}
	if claimed < int64(len(dates)) {
		return availability.ErrDatesBlocked
	}
	return nil
}

func calculateRequestHash(req reqdto.CreateReservationRequest) string {
	normalized := struct {
		UnitID     uuid.UUID `json:"unit_id"`
		CheckIn    string    `json:"check_in"`
		CheckOut   string    `json:"check_out"`
		CouponCode *string   `json:"coupon_code"`
	}{req.UnitID, req.CheckIn, req.CheckOut, req.GetCouponCode()}
	data, _ := json.Marshal(normalized)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func rejectionLabel(err error) string {
	if kind := errs.Kind(err); kind != nil {
		return kind.Error()
	}
	return "internal"
}

func couponResultLabel(err error) string {
	if errs.Is(err, errs.ErrUsageLimitExceeded) {
		return "exhausted"
	}
	if errs.Is(err, errs.ErrNotFound) {
		return "not_found"
	}
	return "not_applicable"
}
