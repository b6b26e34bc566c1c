package repository

import (
	"context"
	"sort"
	"time"

	"slot-reservation-engine/internal/infra"
	"slot-reservation-engine/internal/infra/query"
	"slot-reservation-engine/internal/pkg/pgconv"
	"slot-reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type OutboxWriteQueries interface {
	CreateOutboxEvent(ctx context.Context, db query.DBTX, arg query.CreateOutboxEventParams) error
	ClaimOutboxEvents(ctx context.Context, db query.DBTX, arg query.ClaimOutboxEventsParams) ([]query.OutboxEvent, error)
	MarkOutboxEventSent(ctx context.Context, db query.DBTX, id uuid.UUID, sentAt pgtype.Timestamptz) error
	MarkOutboxEventRetry(ctx context.Context, db query.DBTX, arg query.MarkOutboxEventRetryParams) error
}

type OutboxRepository struct {
	queries OutboxWriteQueries
	db      query.DBTX
}

func NewOutboxRepository(queries OutboxWriteQueries, db query.DBTX) *OutboxRepository {
	return &OutboxRepository{
		queries: queries,
		db:      db,
	}
}

func (r *OutboxRepository) Enqueue(ctx context.Context, topic string, aggregateID uuid.UUID, payload []byte, availableAt time.Time) error {
	err := r.queries.CreateOutboxEvent(ctx, r.db, query.CreateOutboxEventParams{
		Topic:       topic,
		AggregateID: aggregateID,
		Payload:     payload,
		AvailableAt: pgconv.TimeToPgtype(availableAt),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to enqueue outbox event", err)
	}
	return nil
}

// ClaimBatch leases queued events with SKIP LOCKED so concurrent relays never share a row,
// even after the claiming transaction commits.
func (r *OutboxRepository) ClaimBatch(ctx context.Context, now, leaseUntil time.Time, limit int32) ([]shared.OutboxEvent, error) {
	rows, err := r.queries.ClaimOutboxEvents(ctx, r.db, query.ClaimOutboxEventsParams{
		Now:        pgconv.TimeToPgtype(now),
		LeaseUntil: pgconv.TimeToPgtype(leaseUntil),
		Limit:      limit,
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim outbox events", err)
	}

	events := make([]shared.OutboxEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, shared.OutboxEvent{
			ID:          row.ID,
			Topic:       row.Topic,
			AggregateID: row.AggregateID,
			Payload:     row.Payload,
			Attempts:    row.Attempts,
			CreatedAt:   pgconv.TimeFromPgtype(row.CreatedAt),
		})
	}
	// RETURNING order is unspecified
	sort.SliceStable(events, func(i, j int) bool { return events[i].CreatedAt.Before(events[j].CreatedAt) })
	return events, nil
}

func (r *OutboxRepository) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	if err := r.queries.MarkOutboxEventSent(ctx, r.db, id, pgconv.TimeToPgtype(sentAt)); err != nil {
		return infra.WrapRepoErr("failed to mark outbox event sent", err)
	}
	return nil
}

func (r *OutboxRepository) MarkRetry(ctx context.Context, id uuid.UUID, lastError string, nextAttemptAt time.Time, maxAttempts int32) error {
	err := r.queries.MarkOutboxEventRetry(ctx, r.db, query.MarkOutboxEventRetryParams{
		ID:          id,
		LastError:   pgconv.StringToPgtype(lastError),
		AvailableAt: pgconv.TimeToPgtype(nextAttemptAt),
		MaxAttempts: maxAttempts,
	})
	if err != nil {
		return infra.WrapRepoErr("failed to reschedule outbox event", err)
	}
	return nil
}
