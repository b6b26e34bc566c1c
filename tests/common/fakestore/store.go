//go:build unit

// Package fakestore is an in-memory unit of work for use-case tests. Transactions run one at a
// time, writes are staged until commit, and commit enforces the same no-double-booking rule as the
// bookings_no_double_booking exclusion constraint.
package fakestore

import (
	"context"
	"sort"
	"sync"
	"time"

	"slot-reservation-engine/internal/domain/booking"
	"slot-reservation-engine/internal/domain/resource"
	"slot-reservation-engine/internal/infra"
	"slot-reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Op string

const (
	OpCreate        Op = "create"
	OpLock          Op = "lock"
	OpTransition    Op = "transition"
	OpHasOverlap    Op = "has_overlap"
	OpBookingByID   Op = "booking_by_id"
	OpStalePending  Op = "stale_pending"
	OpCouponByCode  Op = "coupon_by_code"
	OpResourceByID  Op = "resource_by_id"
	OpEnqueue       Op = "enqueue"
	OpClaim         Op = "claim"
	OpOccupiedSlots Op = "occupied_slots"
	OpIdempotency   Op = "idempotency"
)

type OutboxRecord struct {
	shared.OutboxEvent
	Status      string
	LastError   string
	AvailableAt time.Time
	SentAt      *time.Time
}

type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex

	bookings  map[uuid.UUID]*booking.Booking
	resources map[uuid.UUID]*resource.BookableResource
	coupons   map[string]shared.CouponSnapshot
	outbox    []*OutboxRecord
	keys      map[idemKey]*shared.IdempotencyRecord
	failures  map[Op]error

	// BeforeCommit runs after the transaction body succeeded and before staged writes are
	// validated. Tests use it to slip in a competing write.
	BeforeCommit func(s *Store)

	Commits   int
	Rollbacks int
}

func New() *Store {
	return &Store{
		bookings:  make(map[uuid.UUID]*booking.Booking),
		resources: make(map[uuid.UUID]*resource.BookableResource),
		coupons:   make(map[string]shared.CouponSnapshot),
		keys:      make(map[idemKey]*shared.IdempotencyRecord),
		failures:  make(map[Op]error),
	}
}

// FailNext makes the next call of op return err.
func (s *Store) FailNext(op Op, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

func (s *Store) injected(op Op) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err, ok := s.failures[op]
	if !ok {
		return nil
	}
	delete(s.failures, op)
	return err
}

// PutBooking stores b as committed state, bypassing constraints.
func (s *Store) PutBooking(b *booking.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[b.ID()] = clone(b)
}

func (s *Store) PutResource(r *resource.BookableResource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[r.ID()] = r
}

func (s *Store) PutCoupon(c shared.CouponSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coupons[c.Code] = c
}

func (s *Store) Booking(id uuid.UUID) *booking.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil
	}
	return clone(b)
}

func (s *Store) Bookings() []*booking.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*booking.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, clone(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().Before(out[j].CreatedAt()) })
	return out
}

// IdempotencyRecord returns the committed record for (key, customer), or nil.
func (s *Store) IdempotencyRecord(key, customerID uuid.UUID) *shared.IdempotencyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.keys[idemKey{key, customerID}]
	if !ok {
		return nil
	}
	cp := *rec
	return &cp
}

// PutIdempotencyRecord stores rec as committed state.
func (s *Store) PutIdempotencyRecord(rec shared.IdempotencyRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[idemKey{rec.Key, rec.CustomerID}] = &rec
}

func (s *Store) Outbox() []OutboxRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]OutboxRecord, len(s.outbox))
	for i, r := range s.outbox {
		out[i] = *r
	}
	return out
}

// EnqueueCommitted adds an outbox row outside any transaction.
func (s *Store) EnqueueCommitted(topic string, aggregateID uuid.UUID, payload []byte, at time.Time) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := newOutboxRecord(topic, aggregateID, payload, at)
	s.outbox = append(s.outbox, rec)
	return rec.ID
}

func newOutboxRecord(topic string, aggregateID uuid.UUID, payload []byte, at time.Time) *OutboxRecord {
	return &OutboxRecord{
		OutboxEvent: shared.OutboxEvent{
			ID:          uuid.New(),
			Topic:       topic,
			AggregateID: aggregateID,
			Payload:     payload,
			CreatedAt:   at,
		},
		Status:      "queued",
		AvailableAt: at,
	}
}

// =============================================================================
// shared.UnitOfWork
// =============================================================================

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &fakeTx{
		store:  s,
		staged: make(map[uuid.UUID]*booking.Booking),
	}
	if err := fn(ctx, tx); err != nil {
		s.rollback()
		return err
	}

	if hook := s.BeforeCommit; hook != nil {
		hook(s)
	}
	return s.commit(tx)
}

func (s *Store) CommandReads() shared.CommandReads {
	return &reads{store: s}
}

func (s *Store) rollback() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Rollbacks++
}

func (s *Store) commit(tx *fakeTx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := make(map[uuid.UUID]*booking.Booking, len(s.bookings)+len(tx.staged))
	for id, b := range s.bookings {
		merged[id] = b
	}
	for id, b := range tx.staged {
		merged[id] = b
	}
	for _, b := range tx.staged {
		if b.Status() != booking.StatusSuccess {
			continue
		}
		for _, other := range merged {
			if other.ID() == b.ID() || other.Status() != booking.StatusSuccess {
				continue
			}
			if sameSlot(other, b) && other.Interval().Overlaps(b.Interval()) {
				s.Rollbacks++
				return infra.WrapRepoErr("failed to transition booking status", &pgconn.PgError{
					Code:           "23P01",
					ConstraintName: "bookings_no_double_booking",
				})
			}
		}
	}

	for id, b := range tx.staged {
		s.bookings[id] = b
	}
	s.outbox = append(s.outbox, tx.outbox...)
	for _, upd := range tx.outboxUpdates {
		upd(s)
	}
	for _, upd := range tx.keyUpdates {
		upd(s)
	}
	s.Commits++
	return nil
}

func sameSlot(a, b *booking.Booking) bool {
	return a.ResourceID() == b.ResourceID() && a.Slot() == b.Slot()
}

// =============================================================================
// shared.Tx
// =============================================================================

type fakeTx struct {
	store         *Store
	staged        map[uuid.UUID]*booking.Booking
	outbox        []*OutboxRecord
	outboxUpdates []func(*Store)
	keyUpdates    []func(*Store)
}

func (t *fakeTx) Bookings() shared.BookingRepository        { return (*txBookings)(t) }
func (t *fakeTx) Outbox() shared.OutboxRepository           { return (*txOutbox)(t) }
func (t *fakeTx) Idempotency() shared.IdempotencyRepository { return (*txIdempotency)(t) }
func (t *fakeTx) Reads() shared.CommandReads                { return &reads{store: t.store, tx: t} }

// current returns the booking as seen inside the transaction.
func (t *fakeTx) current(id uuid.UUID) (*booking.Booking, bool) {
	if b, ok := t.staged[id]; ok {
		return b, true
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	b, ok := t.store.bookings[id]
	return b, ok
}

type txBookings fakeTx

func (r *txBookings) Create(_ context.Context, b *booking.Booking) error {
	if err := r.store.injected(OpCreate); err != nil {
		return err
	}
	if _, exists := (*fakeTx)(r).current(b.ID()); exists {
		return infra.WrapRepoErr("failed to create booking", &pgconn.PgError{Code: "23505"})
	}
	r.staged[b.ID()] = clone(b)
	return nil
}

func (r *txBookings) LockByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	if err := r.store.injected(OpLock); err != nil {
		return nil, err
	}
	b, ok := (*fakeTx)(r).current(id)
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return clone(b), nil
}

func (r *txBookings) Transition(_ context.Context, b *booking.Booking) (bool, error) {
	if err := r.store.injected(OpTransition); err != nil {
		return false, err
	}
	cur, ok := (*fakeTx)(r).current(b.ID())
	if !ok || cur.Status() != booking.StatusPending {
		return false, nil
	}
	r.staged[b.ID()] = clone(b)
	return true, nil
}

type txOutbox fakeTx

func (o *txOutbox) Enqueue(_ context.Context, topic string, aggregateID uuid.UUID, payload []byte, availableAt time.Time) error {
	if err := o.store.injected(OpEnqueue); err != nil {
		return err
	}
	o.outbox = append(o.outbox, newOutboxRecord(topic, aggregateID, payload, availableAt))
	return nil
}

func (o *txOutbox) ClaimBatch(_ context.Context, now, leaseUntil time.Time, limit int32) ([]shared.OutboxEvent, error) {
	if err := o.store.injected(OpClaim); err != nil {
		return nil, err
	}
	o.store.mu.Lock()
	defer o.store.mu.Unlock()

	var out []shared.OutboxEvent
	for _, r := range o.store.outbox {
		if int32(len(out)) >= limit {
			break
		}
		if r.Status == "queued" && !r.AvailableAt.After(now) {
			out = append(out, r.OutboxEvent)
			id := r.ID
			o.outboxUpdates = append(o.outboxUpdates, func(s *Store) {
				if r := s.findOutbox(id); r != nil {
					r.AvailableAt = leaseUntil
				}
			})
		}
	}
	return out, nil
}

func (o *txOutbox) MarkSent(_ context.Context, id uuid.UUID, sentAt time.Time) error {
	o.outboxUpdates = append(o.outboxUpdates, func(s *Store) {
		if r := s.findOutbox(id); r != nil {
			r.Status = "sent"
			r.Attempts++
			r.LastError = ""
			t := sentAt
			r.SentAt = &t
		}
	})
	return nil
}

func (o *txOutbox) MarkRetry(_ context.Context, id uuid.UUID, lastError string, nextAttemptAt time.Time, maxAttempts int32) error {
	o.outboxUpdates = append(o.outboxUpdates, func(s *Store) {
		if r := s.findOutbox(id); r != nil {
			r.Attempts++
			r.LastError = lastError
			r.AvailableAt = nextAttemptAt
			if r.Attempts >= maxAttempts {
				r.Status = "dead"
			}
		}
	})
	return nil
}

type idemKey struct {
	key        uuid.UUID
	customerID uuid.UUID
}

// txIdempotency applies key changes at commit. Transactions are serialized, so reads of
// committed keys inside one transaction are stable.
type txIdempotency fakeTx

func (t *txIdempotency) committed(k idemKey) (*shared.IdempotencyRecord, bool) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	rec, ok := t.store.keys[k]
	return rec, ok
}

func (t *txIdempotency) TryInsert(_ context.Context, claim shared.IdempotencyClaim) (bool, error) {
	if err := t.store.injected(OpIdempotency); err != nil {
		return false, err
	}
	k := idemKey{claim.Key, claim.CustomerID}
	if _, held := t.committed(k); held {
		return false, nil
	}
	t.keyUpdates = append(t.keyUpdates, func(s *Store) { s.keys[k] = recordFor(claim) })
	return true, nil
}

func (t *txIdempotency) ClaimExpired(_ context.Context, claim shared.IdempotencyClaim, now time.Time) (bool, error) {
	k := idemKey{claim.Key, claim.CustomerID}
	rec, held := t.committed(k)
	if !held || rec.ExpiresAt.After(now) {
		return false, nil
	}
	t.keyUpdates = append(t.keyUpdates, func(s *Store) { s.keys[k] = recordFor(claim) })
	return true, nil
}

func (t *txIdempotency) UpdateStatusCompleted(_ context.Context, key, customerID, bookingID uuid.UUID) error {
	t.keyUpdates = append(t.keyUpdates, func(s *Store) {
		if rec, ok := s.keys[idemKey{key, customerID}]; ok {
			rec.Status = shared.IdempotencyStatusCompleted
			id := bookingID
			rec.ResultBookingID = &id
		}
	})
	return nil
}

func (t *txIdempotency) Release(_ context.Context, key, customerID uuid.UUID) error {
	t.keyUpdates = append(t.keyUpdates, func(s *Store) {
		k := idemKey{key, customerID}
		if rec, ok := s.keys[k]; ok && rec.Status == shared.IdempotencyStatusProcessing {
			delete(s.keys, k)
		}
	})
	return nil
}

func (t *txIdempotency) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	t.store.mu.Lock()
	var expired []idemKey
	for k, rec := range t.store.keys {
		if !rec.ExpiresAt.After(now) {
			expired = append(expired, k)
		}
	}
	t.store.mu.Unlock()

	t.keyUpdates = append(t.keyUpdates, func(s *Store) {
		for _, k := range expired {
			delete(s.keys, k)
		}
	})
	return int64(len(expired)), nil
}

func recordFor(claim shared.IdempotencyClaim) *shared.IdempotencyRecord {
	return &shared.IdempotencyRecord{
		Key:         claim.Key,
		CustomerID:  claim.CustomerID,
		Status:      shared.IdempotencyStatusProcessing,
		RequestHash: claim.RequestHash,
		ExpiresAt:   claim.ExpiresAt,
	}
}

// findOutbox expects s.mu to be held.
func (s *Store) findOutbox(id uuid.UUID) *OutboxRecord {
	for _, r := range s.outbox {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// =============================================================================
// shared.CommandReads, shared.ResourceCatalog, queries.OccupancyReader
// =============================================================================

type reads struct {
	store *Store
	tx    *fakeTx
}

func (r *reads) view() map[uuid.UUID]*booking.Booking {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make(map[uuid.UUID]*booking.Booking, len(r.store.bookings))
	for id, b := range r.store.bookings {
		out[id] = b
	}
	if r.tx != nil {
		for id, b := range r.tx.staged {
			out[id] = b
		}
	}
	return out
}

func (r *reads) BookingByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	if err := r.store.injected(OpBookingByID); err != nil {
		return nil, err
	}
	b, ok := r.view()[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return clone(b), nil
}

func (r *reads) CouponByCode(_ context.Context, code string) (*shared.CouponSnapshot, error) {
	if err := r.store.injected(OpCouponByCode); err != nil {
		return nil, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.coupons[code]
	if !ok {
		return nil, infra.WrapRepoErr("coupon not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return &c, nil
}

func (r *reads) HasOverlap(_ context.Context, q shared.OverlapQuery) (bool, error) {
	if err := r.store.injected(OpHasOverlap); err != nil {
		return false, err
	}
	for _, b := range r.view() {
		if q.ExcludeID != nil && b.ID() == *q.ExcludeID {
			continue
		}
		if b.ResourceID() != q.ResourceID || b.Slot() != q.Slot || !hasStatus(q.Statuses, b.Status()) {
			continue
		}
		if b.Interval().Overlaps(q.Interval) {
			return true, nil
		}
	}
	return false, nil
}

func hasStatus(statuses []booking.Status, s booking.Status) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}

func (r *reads) StalePending(_ context.Context, createdBefore time.Time, limit int32) ([]*booking.Booking, error) {
	if err := r.store.injected(OpStalePending); err != nil {
		return nil, err
	}
	var out []*booking.Booking
	for _, b := range r.view() {
		if b.Status() == booking.StatusPending && !b.CreatedAt().After(createdBefore) {
			out = append(out, clone(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().Before(out[j].CreatedAt()) })
	if int32(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *reads) IdempotencyByKey(_ context.Context, key, customerID uuid.UUID) (*shared.IdempotencyRecord, error) {
	if rec := r.store.IdempotencyRecord(key, customerID); rec != nil {
		return rec, nil
	}
	return nil, infra.WrapRepoErr("idempotency key not found", pgx.ErrNoRows, infra.KindNotFound)
}

func (s *Store) ResourceByID(_ context.Context, id uuid.UUID) (*resource.BookableResource, error) {
	if err := s.injected(OpResourceByID); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resources[id]
	if !ok {
		return nil, infra.WrapRepoErr("resource not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return r, nil
}

func (s *Store) OccupiedSlots(_ context.Context, resourceID uuid.UUID, interval booking.Interval) ([]booking.SlotID, error) {
	if err := s.injected(OpOccupiedSlots); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[booking.SlotID]bool)
	var out []booking.SlotID
	for _, b := range s.bookings {
		if b.ResourceID() != resourceID || b.Status() != booking.StatusSuccess || !b.Interval().Overlaps(interval) {
			continue
		}
		if !seen[b.Slot()] {
			seen[b.Slot()] = true
			out = append(out, b.Slot())
		}
	}
	return out, nil
}

func clone(b *booking.Booking) *booking.Booking {
	return booking.ReconstructBooking(booking.ReconstructParams{
		ID:            b.ID(),
		ResourceID:    b.ResourceID(),
		OwnerID:       b.OwnerID(),
		Slot:          b.Slot(),
		CustomerID:    b.CustomerID(),
		Interval:      b.Interval(),
		Status:        b.Status(),
		Method:        b.Method(),
		Quote:         b.Quote(),
		Intent:        b.Intent(),
		CouponCode:    b.CouponCode(),
		VehicleID:     b.VehicleID(),
		Evidence:      b.Evidence(),
		FailureReason: b.FailureReason(),
		PaidAt:        b.PaidAt(),
		CreatedAt:     b.CreatedAt(),
		UpdatedAt:     b.UpdatedAt(),
	})
}
