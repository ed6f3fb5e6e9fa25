//go:build unit

// Package memstore is an in-memory shared.UnitOfWork for usecase tests.
// Transactions are serialized and roll back by restoring a copy of the state.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"stay-booking/internal/domain/availability"
	"stay-booking/internal/domain/calendar"
	"stay-booking/internal/domain/coupon"
	"stay-booking/internal/domain/money"
	"stay-booking/internal/domain/payment"
	"stay-booking/internal/domain/reservation"
	"stay-booking/internal/domain/unit"
	"stay-booking/internal/pkg/errs"
	"stay-booking/internal/usecase/shared"
)

var (
	errNotFound = errs.Mark(errs.New("row not found"), errs.ErrNotFound)
	errConflict = errs.Mark(errs.New("row was modified concurrently"), errs.ErrConcurrencyConflict)
)

type Job struct {
	Kind    string
	Topic   string
	Payload []byte
	RunAt   time.Time
}

type idemKey struct {
	key, userID uuid.UUID
}

type couponRow struct {
	params  coupon.Params
	deleted bool
}

type redemptionRow struct {
	coupon.Redemption
	deleted bool
}

type state struct {
	units        map[uuid.UUID]*unit.Unit
	calendar     map[uuid.UUID]map[calendar.Date]availability.Record
	reservations map[uuid.UUID]reservation.Snapshot
	coupons      map[uuid.UUID]couponRow
	redemptions  map[uuid.UUID]redemptionRow
	payments     map[string]payment.Payment
	idempotency  map[idemKey]shared.IdempotencyRecord
	jobs         []Job
}

func (s state) clone() state {
	c := state{
		units:        make(map[uuid.UUID]*unit.Unit, len(s.units)),
		calendar:     make(map[uuid.UUID]map[calendar.Date]availability.Record, len(s.calendar)),
		reservations: make(map[uuid.UUID]reservation.Snapshot, len(s.reservations)),
		coupons:      make(map[uuid.UUID]couponRow, len(s.coupons)),
		redemptions:  make(map[uuid.UUID]redemptionRow, len(s.redemptions)),
		payments:     make(map[string]payment.Payment, len(s.payments)),
		idempotency:  make(map[idemKey]shared.IdempotencyRecord, len(s.idempotency)),
		jobs:         append([]Job(nil), s.jobs...),
	}
	for k, v := range s.units {
		c.units[k] = v
	}
	for k, days := range s.calendar {
		m := make(map[calendar.Date]availability.Record, len(days))
		for d, r := range days {
			m[d] = r
		}
		c.calendar[k] = m
	}
	for k, v := range s.reservations {
		c.reservations[k] = v
	}
	for k, v := range s.coupons {
		c.coupons[k] = v
	}
	for k, v := range s.redemptions {
		c.redemptions[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	for k, v := range s.idempotency {
		c.idempotency[k] = v
	}
	return c
}

// Store implements shared.UnitOfWork and shared.Tx over maps.
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex
	st   state

	// NotificationErr, when set, fails every CreateJob call.
	NotificationErr error
}

func New() *Store {
	return &Store{st: state{}.clone()}
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	saved := s.st.clone()
	s.mu.Unlock()

	if err := fn(ctx, s); err != nil {
		s.mu.Lock()
		s.st = saved
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(ctx, s)
}

// Reads returns autocommit repositories. Each call waits for any running
// transaction, so a rollback never discards a concurrent autocommit write.
func (s *Store) Reads() shared.Tx { return view{Store: s, auto: true} }

func (s *Store) Units() shared.UnitRepository                 { return view{Store: s}.Units() }
func (s *Store) Availability() shared.AvailabilityRepository  { return view{Store: s}.Availability() }
func (s *Store) Reservations() shared.ReservationRepository   { return view{Store: s}.Reservations() }
func (s *Store) Coupons() shared.CouponRepository             { return view{Store: s}.Coupons() }
func (s *Store) Redemptions() shared.RedemptionRepository     { return view{Store: s}.Redemptions() }
func (s *Store) Payments() shared.PaymentRepository           { return view{Store: s}.Payments() }
func (s *Store) Idempotency() shared.IdempotencyRepository    { return view{Store: s}.Idempotency() }
func (s *Store) Notifications() shared.NotificationRepository { return view{Store: s}.Notifications() }

type view struct {
	*Store
	auto bool
}

func (v view) Units() shared.UnitRepository                 { return unitRepo{v} }
func (v view) Availability() shared.AvailabilityRepository  { return availabilityRepo{v} }
func (v view) Reservations() shared.ReservationRepository   { return reservationRepo{v} }
func (v view) Coupons() shared.CouponRepository             { return couponRepo{v} }
func (v view) Redemptions() shared.RedemptionRepository     { return redemptionRepo{v} }
func (v view) Payments() shared.PaymentRepository           { return paymentRepo{v} }
func (v view) Idempotency() shared.IdempotencyRepository    { return idempotencyRepo{v} }
func (v view) Notifications() shared.NotificationRepository { return notificationRepo{v} }

func (v view) locked(fn func(st *state)) {
	if v.auto {
		v.txMu.Lock()
		defer v.txMu.Unlock()
	}
	v.Store.locked(fn)
}

func (s *Store) locked(fn func(st *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.st)
}

// ---- seeding and inspection ----

func (s *Store) AddUnit(u *unit.Unit) {
	s.locked(func(st *state) { st.units[u.ID()] = u })
}

// RemoveUnit drops a unit as if it were deleted concurrently.
func (s *Store) RemoveUnit(id uuid.UUID) {
	s.locked(func(st *state) { delete(st.units, id) })
}

func (s *Store) AddCoupon(p coupon.Params) uuid.UUID {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.locked(func(st *state) { st.coupons[p.ID] = couponRow{params: p} })
	return p.ID
}

func (s *Store) AddReservation(r *reservation.Reservation) {
	s.locked(func(st *state) { st.reservations[r.ID()] = snapshotOf(r) })
}

func (s *Store) AddPayment(p payment.Payment) {
	s.locked(func(st *state) { st.payments[p.TransactionID] = p })
}

func (s *Store) SetRecord(rec availability.Record) {
	s.locked(func(st *state) { st.day(rec.UnitID)[rec.Date] = rec })
}

func (s *Store) Reservation(id uuid.UUID) *reservation.Reservation {
	var out *reservation.Reservation
	s.locked(func(st *state) {
		if snap, ok := st.reservations[id]; ok {
			out = reservation.Reconstruct(snap)
		}
	})
	return out
}

func (s *Store) ReservationCount() int {
	var n int
	s.locked(func(st *state) { n = len(st.reservations) })
	return n
}

// HeldNights counts calendar rows owned by the reservation.
func (s *Store) HeldNights(reservationID uuid.UUID) int {
	n := 0
	s.locked(func(st *state) {
		for _, days := range st.calendar {
			for _, r := range days {
				if r.ReservationID != nil && *r.ReservationID == reservationID {
					n++
				}
			}
		}
	})
	return n
}

func (s *Store) CouponUsage(id uuid.UUID) int {
	var n int
	s.locked(func(st *state) { n = st.coupons[id].params.UsageCount })
	return n
}

func (s *Store) ActiveRedemption(reservationID uuid.UUID) *coupon.Redemption {
	var out *coupon.Redemption
	s.locked(func(st *state) {
		if r, ok := st.activeRedemption(reservationID); ok {
			out = &r.Redemption
		}
	})
	return out
}

func (s *Store) Jobs() []Job {
	var out []Job
	s.locked(func(st *state) { out = append(out, st.jobs...) })
	return out
}

func (s *Store) Topics() []string {
	jobs := s.Jobs()
	out := make([]string, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.Topic)
	}
	return out
}

func (s *Store) IdempotencyRecord(key, userID uuid.UUID) (shared.IdempotencyRecord, bool) {
	var rec shared.IdempotencyRecord
	var ok bool
	s.locked(func(st *state) { rec, ok = st.idempotency[idemKey{key, userID}] })
	return rec, ok
}

func (st *state) day(unitID uuid.UUID) map[calendar.Date]availability.Record {
	m, ok := st.calendar[unitID]
	if !ok {
		m = make(map[calendar.Date]availability.Record)
		st.calendar[unitID] = m
	}
	return m
}

func (st *state) activeRedemption(reservationID uuid.UUID) (redemptionRow, bool) {
	for _, r := range st.redemptions {
		if !r.deleted && r.ReservationID == reservationID {
			return r, true
		}
	}
	return redemptionRow{}, false
}

func snapshotOf(r *reservation.Reservation) reservation.Snapshot {
	return reservation.Snapshot{
		ID:               r.ID(),
		Code:             r.Code(),
		UnitID:           r.UnitID(),
		GuestID:          r.GuestID(),
		Stay:             r.Stay(),
		Status:           r.Status(),
		Amounts:          r.Amounts(),
		PaymentExpiresAt: r.PaymentExpiresAt(),
		Cancellation:     r.Cancellation(),
		RejectionReason:  r.RejectionReason(),
		Version:          r.Version(),
		CreatedAt:        r.CreatedAt(),
		UpdatedAt:        r.UpdatedAt(),
	}
}

// ---- units ----

type unitRepo struct{ s view }

func (r unitRepo) FindByID(_ context.Context, id uuid.UUID) (*unit.Unit, error) {
	var u *unit.Unit
	r.s.locked(func(st *state) { u = st.units[id] })
	if u == nil {
		return nil, errNotFound
	}
	return u, nil
}

func (r unitRepo) LockForBooking(ctx context.Context, id uuid.UUID) error {
	_, err := r.FindByID(ctx, id)
	return err
}

// ---- availability ----

type availabilityRepo struct{ s view }

func (r availabilityRepo) Get(_ context.Context, unitID uuid.UUID, date calendar.Date) (*availability.Record, error) {
	var rec availability.Record
	var ok bool
	r.s.locked(func(st *state) { rec, ok = st.day(unitID)[date] })
	if !ok {
		return nil, errNotFound
	}
	return &rec, nil
}

func (r availabilityRepo) GetRange(_ context.Context, unitID uuid.UUID, from, to calendar.Date) ([]availability.Record, error) {
	var out []availability.Record
	r.s.locked(func(st *state) {
		for d, rec := range st.day(unitID) {
			if !d.Before(from) && d.Before(to) {
				out = append(out, rec)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r availabilityRepo) Upsert(_ context.Context, unitID uuid.UUID, date calendar.Date, f availability.Fields) (*availability.Record, error) {
	var rec availability.Record
	r.s.locked(func(st *state) {
		days := st.day(unitID)
		rec = days[date]
		if rec.ID == uuid.Nil {
			rec.ID = uuid.New()
			rec.UnitID = unitID
			rec.Date = date
		}
		rec.IsAvailable = f.IsAvailable
		rec.IsBlocked = f.IsBlocked
		rec.BlockReason = f.BlockReason
		rec.CustomPrice = f.CustomPrice
		rec.MinimumNightsOverride = f.MinimumNightsOverride
		rec.UpdatedAt = time.Now()
		days[date] = rec
	})
	return &rec, nil
}

func (r availabilityRepo) DeleteRange(_ context.Context, unitID uuid.UUID, from, to calendar.Date) (int64, error) {
	var n int64
	r.s.locked(func(st *state) {
		days := st.day(unitID)
		for d, rec := range days {
			if !d.Before(from) && d.Before(to) && rec.ReservationID == nil {
				delete(days, d)
				n++
			}
		}
	})
	return n, nil
}

func (r availabilityRepo) ExistingDates(_ context.Context, unitID uuid.UUID, dates []calendar.Date) ([]calendar.Date, error) {
	var out []calendar.Date
	r.s.locked(func(st *state) {
		days := st.day(unitID)
		for _, d := range dates {
			if _, ok := days[d]; ok {
				out = append(out, d)
			}
		}
	})
	return out, nil
}

func (r availabilityRepo) BlockForReservation(_ context.Context, unitID, reservationID uuid.UUID, dates []calendar.Date, reason string) (int64, error) {
	var n int64
	r.s.locked(func(st *state) {
		days := st.day(unitID)
		for _, d := range dates {
			rec, ok := days[d]
			if ok && (rec.IsBlocked || !rec.IsAvailable || rec.ReservationID != nil) {
				continue
			}
			if !ok {
				rec = availability.Record{ID: uuid.New(), UnitID: unitID, Date: d, IsAvailable: true}
			}
			id := reservationID
			note := reason
			rec.IsBlocked = true
			rec.BlockReason = &note
			rec.ReservationID = &id
			days[d] = rec
			n++
		}
	})
	return n, nil
}

func (r availabilityRepo) ReleaseReservation(_ context.Context, reservationID uuid.UUID) (int64, error) {
	var n int64
	r.s.locked(func(st *state) {
		for _, days := range st.calendar {
			for d, rec := range days {
				if rec.ReservationID != nil && *rec.ReservationID == reservationID {
					rec.IsBlocked = false
					rec.BlockReason = nil
					rec.ReservationID = nil
					days[d] = rec
					n++
				}
			}
		}
	})
	return n, nil
}

// ---- reservations ----

type reservationRepo struct{ s view }

func (r reservationRepo) Create(_ context.Context, res *reservation.Reservation) error {
	var err error
	r.s.locked(func(st *state) {
		if _, exists := st.reservations[res.ID()]; exists {
			err = errConflict
			return
		}
		st.reservations[res.ID()] = snapshotOf(res)
	})
	return err
}

func (r reservationRepo) FindByID(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	var snap reservation.Snapshot
	var ok bool
	r.s.locked(func(st *state) { snap, ok = st.reservations[id] })
	if !ok {
		return nil, errNotFound
	}
	return reservation.Reconstruct(snap), nil
}

func (r reservationRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	return r.FindByID(ctx, id)
}

func (r reservationRepo) ListOverlapping(_ context.Context, unitID uuid.UUID, stay calendar.Range, exclude *uuid.UUID) ([]*reservation.Reservation, error) {
	var out []*reservation.Reservation
	r.s.locked(func(st *state) {
		for _, snap := range st.reservations {
			if snap.UnitID != unitID || !snap.Status.OccupiesCalendar() || !snap.Stay.Overlaps(stay) {
				continue
			}
			if exclude != nil && snap.ID == *exclude {
				continue
			}
			out = append(out, reservation.Reconstruct(snap))
		}
	})
	return out, nil
}

func (r reservationRepo) Update(_ context.Context, res *reservation.Reservation) error {
	var err error
	r.s.locked(func(st *state) {
		stored, ok := st.reservations[res.ID()]
		if !ok {
			err = errNotFound
			return
		}
		if stored.Version != res.Version() {
			err = errConflict
			return
		}
		snap := snapshotOf(res)
		snap.Version++
		st.reservations[res.ID()] = snap
	})
	return err
}

func (r reservationRepo) TouchVersion(_ context.Context, id uuid.UUID, expectedVersion int64) error {
	var err error
	r.s.locked(func(st *state) {
		stored, ok := st.reservations[id]
		if !ok {
			err = errNotFound
			return
		}
		if stored.Version != expectedVersion {
			err = errConflict
			return
		}
		stored.Version++
		st.reservations[id] = stored
	})
	return err
}

func (r reservationRepo) ListExpiredPending(_ context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	var found []reservation.Snapshot
	r.s.locked(func(st *state) {
		paid := make(map[uuid.UUID]bool)
		for _, p := range st.payments {
			if p.Status == payment.StatusCompleted {
				paid[p.ReservationID] = true
			}
		}
		for _, snap := range st.reservations {
			if snap.Status != reservation.StatusPending || snap.PaymentExpiresAt == nil || snap.PaymentExpiresAt.After(now) {
				continue
			}
			if paid[snap.ID] {
				continue
			}
			found = append(found, snap)
		}
	})
	sort.Slice(found, func(i, j int) bool {
		if !found[i].PaymentExpiresAt.Equal(*found[j].PaymentExpiresAt) {
			return found[i].PaymentExpiresAt.Before(*found[j].PaymentExpiresAt)
		}
		return found[i].ID.String() < found[j].ID.String()
	})
	if len(found) > limit {
		found = found[:limit]
	}
	ids := make([]uuid.UUID, 0, len(found))
	for _, snap := range found {
		ids = append(ids, snap.ID)
	}
	return ids, nil
}

func (r reservationRepo) CountCompletedByGuest(_ context.Context, guestID uuid.UUID) (int, error) {
	n := 0
	r.s.locked(func(st *state) {
		for _, snap := range st.reservations {
			if snap.GuestID == guestID && snap.Status == reservation.StatusCompleted {
				n++
			}
		}
	})
	return n, nil
}

// ---- coupons ----

type couponRepo struct{ s view }

func (r couponRepo) FindByID(_ context.Context, id uuid.UUID) (*coupon.Coupon, error) {
	var row couponRow
	var ok bool
	r.s.locked(func(st *state) { row, ok = st.coupons[id] })
	if !ok || row.deleted {
		return nil, errNotFound
	}
	return coupon.NewCoupon(row.params)
}

func (r couponRepo) FindByCode(ctx context.Context, code coupon.Code) (*coupon.Coupon, error) {
	var id uuid.UUID
	r.s.locked(func(st *state) {
		for cid, row := range st.coupons {
			if c, err := coupon.NewCouponCode(row.params.Code); err == nil && c == code && !row.deleted {
				id = cid
			}
		}
	})
	if id == uuid.Nil {
		return nil, errNotFound
	}
	return r.FindByID(ctx, id)
}

func (r couponRepo) ListActiveForUnit(_ context.Context, unitID uuid.UUID, now time.Time) ([]*coupon.Coupon, error) {
	var params []coupon.Params
	r.s.locked(func(st *state) {
		for _, row := range st.coupons {
			p := row.params
			if row.deleted || !p.Active || now.Before(p.StartsAt) || !now.Before(p.EndsAt) {
				continue
			}
			params = append(params, p)
		}
	})
	var out []*coupon.Coupon
	for _, p := range params {
		c, err := coupon.NewCoupon(p)
		if err != nil {
			return nil, err
		}
		if c.AppliesToUnit(unitID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r couponRepo) IncrementUsage(_ context.Context, id uuid.UUID) error {
	var err error
	r.s.locked(func(st *state) {
		row, ok := st.coupons[id]
		if !ok || row.deleted {
			err = coupon.ErrCouponExhausted
			return
		}
		if limit := row.params.TotalUsageLimit; limit != nil && row.params.UsageCount >= *limit {
			err = coupon.ErrCouponExhausted
			return
		}
		row.params.UsageCount++
		st.coupons[id] = row
	})
	return err
}

func (r couponRepo) DecrementUsage(_ context.Context, id uuid.UUID) error {
	var err error
	r.s.locked(func(st *state) {
		row, ok := st.coupons[id]
		if !ok || row.params.UsageCount == 0 {
			err = errConflict
			return
		}
		row.params.UsageCount--
		st.coupons[id] = row
	})
	return err
}

// ---- redemptions ----

type redemptionRepo struct{ s view }

func (r redemptionRepo) Create(_ context.Context, red *coupon.Redemption) error {
	var err error
	r.s.locked(func(st *state) {
		if _, exists := st.activeRedemption(red.ReservationID); exists {
			err = errConflict
			return
		}
		st.redemptions[red.ID] = redemptionRow{Redemption: *red}
	})
	return err
}

func (r redemptionRepo) FindActiveByReservation(_ context.Context, reservationID uuid.UUID) (*coupon.Redemption, error) {
	var row redemptionRow
	var ok bool
	r.s.locked(func(st *state) { row, ok = st.activeRedemption(reservationID) })
	if !ok {
		return nil, errNotFound
	}
	return &row.Redemption, nil
}

func (r redemptionRepo) Delete(_ context.Context, id uuid.UUID, _ time.Time) error {
	var err error
	r.s.locked(func(st *state) {
		row, ok := st.redemptions[id]
		if !ok || row.deleted {
			err = errNotFound
			return
		}
		row.deleted = true
		st.redemptions[id] = row
	})
	return err
}

func (r redemptionRepo) UpdateDiscount(_ context.Context, id uuid.UUID, discount money.Money) error {
	var err error
	r.s.locked(func(st *state) {
		row, ok := st.redemptions[id]
		if !ok || row.deleted {
			err = errNotFound
			return
		}
		row.Discount = discount
		st.redemptions[id] = row
	})
	return err
}

func (r redemptionRepo) CountActiveByUser(_ context.Context, couponID, userID uuid.UUID) (int, error) {
	n := 0
	r.s.locked(func(st *state) {
		for _, row := range st.redemptions {
			if !row.deleted && row.CouponID == couponID && row.UserID == userID {
				n++
			}
		}
	})
	return n, nil
}

// ---- payments ----

type paymentRepo struct{ s view }

func (r paymentRepo) ListByReservation(_ context.Context, reservationID uuid.UUID) ([]payment.Payment, error) {
	var out []payment.Payment
	r.s.locked(func(st *state) {
		for _, p := range st.payments {
			if p.ReservationID == reservationID {
				out = append(out, p)
			}
		}
	})
	return out, nil
}

func (r paymentRepo) FindByTransactionID(_ context.Context, transactionID string) (*payment.Payment, error) {
	var p payment.Payment
	var ok bool
	r.s.locked(func(st *state) { p, ok = st.payments[transactionID] })
	if !ok {
		return nil, errNotFound
	}
	return &p, nil
}

func (r paymentRepo) Upsert(_ context.Context, p *payment.Payment) error {
	r.s.locked(func(st *state) { st.payments[p.TransactionID] = *p })
	return nil
}

// ---- idempotency ----

type idempotencyRepo struct{ s view }

func (r idempotencyRepo) TryInsert(_ context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	inserted := false
	r.s.locked(func(st *state) {
		k := idemKey{key, userID}
		if _, exists := st.idempotency[k]; exists {
			return
		}
		st.idempotency[k] = shared.IdempotencyRecord{
			Key:         key,
			UserID:      userID,
			Endpoint:    endpoint,
			Status:      shared.IdempotencyStatusProcessing,
			RequestHash: requestHash,
			ExpiresAt:   expiresAt,
		}
		inserted = true
	})
	return inserted, nil
}

func (r idempotencyRepo) Get(_ context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	var rec shared.IdempotencyRecord
	var ok bool
	r.s.locked(func(st *state) { rec, ok = st.idempotency[idemKey{key, userID}] })
	if !ok {
		return nil, errNotFound
	}
	return &rec, nil
}

func (r idempotencyRepo) ClaimExpired(_ context.Context, key, userID uuid.UUID, requestHash string, now, expiresAt time.Time) (bool, error) {
	claimed := false
	r.s.locked(func(st *state) {
		k := idemKey{key, userID}
		rec, ok := st.idempotency[k]
		if !ok || rec.ExpiresAt.After(now) {
			return
		}
		rec.Status = shared.IdempotencyStatusProcessing
		rec.RequestHash = requestHash
		rec.ResultReservationID = nil
		rec.ExpiresAt = expiresAt
		st.idempotency[k] = rec
		claimed = true
	})
	return claimed, nil
}

func (r idempotencyRepo) MarkCompleted(_ context.Context, key, userID, reservationID uuid.UUID) error {
	var err error
	r.s.locked(func(st *state) {
		k := idemKey{key, userID}
		rec, ok := st.idempotency[k]
		if !ok {
			err = errNotFound
			return
		}
		id := reservationID
		rec.Status = shared.IdempotencyStatusCompleted
		rec.ResultReservationID = &id
		st.idempotency[k] = rec
	})
	return err
}

func (r idempotencyRepo) Delete(_ context.Context, key, userID uuid.UUID) error {
	r.s.locked(func(st *state) {
		k := idemKey{key, userID}
		if rec, ok := st.idempotency[k]; ok && rec.Status == shared.IdempotencyStatusProcessing {
			delete(st.idempotency, k)
		}
	})
	return nil
}

// ---- notifications ----

type notificationRepo struct{ s view }

func (r notificationRepo) CreateJob(_ context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	if r.s.NotificationErr != nil {
		return r.s.NotificationErr
	}
	r.s.locked(func(st *state) {
		st.jobs = append(st.jobs, Job{Kind: kind, Topic: topic, Payload: payload, RunAt: runAt})
	})
	return nil
}
