package shared

import (
	"context"
	"time"

	"github.com/google/uuid"

	"stay-booking/internal/domain/availability"
	"stay-booking/internal/domain/calendar"
	"stay-booking/internal/domain/coupon"
	"stay-booking/internal/domain/money"
	"stay-booking/internal/domain/payment"
	"stay-booking/internal/domain/reservation"
	"stay-booking/internal/domain/unit"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// Reads: Repositories bound to the pool for single statements outside a transaction
	Reads() Tx
}

type Tx interface {
	Units() UnitRepository
	Availability() AvailabilityRepository
	Reservations() ReservationRepository
	Coupons() CouponRepository
	Redemptions() RedemptionRepository
	Payments() PaymentRepository
	Idempotency() IdempotencyRepository
	Notifications() NotificationRepository
}

// UnitReader is the read-only catalog lookup; implementations may cache.
type UnitReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*unit.Unit, error)
}

type UnitRepository interface {
	UnitReader
	// LockForBooking takes the per-unit exclusive lock that serializes bookings.
	LockForBooking(ctx context.Context, id uuid.UUID) error
}

type AvailabilityRepository interface {
	Get(ctx context.Context, unitID uuid.UUID, date calendar.Date) (*availability.Record, error)
	// GetRange returns existing rows in [from, to).
	GetRange(ctx context.Context, unitID uuid.UUID, from, to calendar.Date) ([]availability.Record, error)
	Upsert(ctx context.Context, unitID uuid.UUID, date calendar.Date, fields availability.Fields) (*availability.Record, error)
	// DeleteRange soft-deletes host rows in [from, to); rows held by a reservation are kept.
	DeleteRange(ctx context.Context, unitID uuid.UUID, from, to calendar.Date) (int64, error)
	ExistingDates(ctx context.Context, unitID uuid.UUID, dates []calendar.Date) ([]calendar.Date, error)
	// BlockForReservation marks dates as held by the reservation and returns how many
	// rows were claimed. Rows already blocked or unavailable are left untouched.
	BlockForReservation(ctx context.Context, unitID, reservationID uuid.UUID, dates []calendar.Date, reason string) (int64, error)
	ReleaseReservation(ctx context.Context, reservationID uuid.UUID) (int64, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, res *reservation.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	// ListOverlapping returns occupying reservations whose stay overlaps stay.
	ListOverlapping(ctx context.Context, unitID uuid.UUID, stay calendar.Range, exclude *uuid.UUID) ([]*reservation.Reservation, error)
	// Update persists res if its version is still current and bumps the version.
	Update(ctx context.Context, res *reservation.Reservation) error
	TouchVersion(ctx context.Context, id uuid.UUID, expectedVersion int64) error
	ListExpiredPending(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
	CountCompletedByGuest(ctx context.Context, guestID uuid.UUID) (int, error)
}

type CouponRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*coupon.Coupon, error)
	FindByCode(ctx context.Context, code coupon.Code) (*coupon.Coupon, error)
	// ListActiveForUnit pre-filters by active flag, validity window and scope.
	ListActiveForUnit(ctx context.Context, unitID uuid.UUID, now time.Time) ([]*coupon.Coupon, error)
	// IncrementUsage bumps the counter only while it is below the total limit.
	IncrementUsage(ctx context.Context, id uuid.UUID) error
	DecrementUsage(ctx context.Context, id uuid.UUID) error
}

type RedemptionRepository interface {
	Create(ctx context.Context, r *coupon.Redemption) error
	FindActiveByReservation(ctx context.Context, reservationID uuid.UUID) (*coupon.Redemption, error)
	Delete(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdateDiscount(ctx context.Context, id uuid.UUID, discount money.Money) error
	CountActiveByUser(ctx context.Context, couponID, userID uuid.UUID) (int, error)
}

type PaymentRepository interface {
	ListByReservation(ctx context.Context, reservationID uuid.UUID) ([]payment.Payment, error)
	FindByTransactionID(ctx context.Context, transactionID string) (*payment.Payment, error)
	Upsert(ctx context.Context, p *payment.Payment) error
}

type IdempotencyRepository interface {
	// TryInsert reports whether the key was newly claimed.
	TryInsert(ctx context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	Get(ctx context.Context, key, userID uuid.UUID) (*IdempotencyRecord, error)
	ClaimExpired(ctx context.Context, key, userID uuid.UUID, requestHash string, now, expiresAt time.Time) (bool, error)
	MarkCompleted(ctx context.Context, key, userID, reservationID uuid.UUID) error
	Delete(ctx context.Context, key, userID uuid.UUID) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
}
