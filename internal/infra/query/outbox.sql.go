package query

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createOutboxEvent = `-- name: CreateOutboxEvent :exec
INSERT INTO outbox_events (topic, aggregate_id, payload, available_at)
VALUES ($1, $2, $3, $4)
`

type CreateOutboxEventParams struct {
	Topic       string
	AggregateID uuid.UUID
	Payload     []byte
	AvailableAt pgtype.Timestamptz
}

func (q *Queries) CreateOutboxEvent(ctx context.Context, db DBTX, arg CreateOutboxEventParams) error {
	_, err := db.Exec(ctx, createOutboxEvent, arg.Topic, arg.AggregateID, arg.Payload, arg.AvailableAt)
	return err
}

const claimOutboxEvents = `-- name: ClaimOutboxEvents :many
UPDATE outbox_events
SET available_at = $2
WHERE id IN (
    SELECT id
    FROM outbox_events
    WHERE status = 'queued' AND available_at <= $1
    ORDER BY available_at, created_at
    LIMIT $3
    FOR UPDATE SKIP LOCKED
)
RETURNING id, topic, aggregate_id, payload, status, attempts, last_error, available_at, sent_at, created_at
`

type ClaimOutboxEventsParams struct {
	Now        pgtype.Timestamptz
	LeaseUntil pgtype.Timestamptz
	Limit      int32
}

func (q *Queries) ClaimOutboxEvents(ctx context.Context, db DBTX, arg ClaimOutboxEventsParams) ([]OutboxEvent, error) {
	rows, err := db.Query(ctx, claimOutboxEvents, arg.Now, arg.LeaseUntil, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OutboxEvent
	for rows.Next() {
		var i OutboxEvent
		if err := rows.Scan(
			&i.ID,
			&i.Topic,
			&i.AggregateID,
			&i.Payload,
			&i.Status,
			&i.Attempts,
			&i.LastError,
			&i.AvailableAt,
			&i.SentAt,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const markOutboxEventSent = `-- name: MarkOutboxEventSent :exec
UPDATE outbox_events
SET status = 'sent', sent_at = $2, attempts = attempts + 1, last_error = NULL
WHERE id = $1
`

func (q *Queries) MarkOutboxEventSent(ctx context.Context, db DBTX, id uuid.UUID, sentAt pgtype.Timestamptz) error {
	_, err := db.Exec(ctx, markOutboxEventSent, id, sentAt)
	return err
}

const markOutboxEventRetry = `-- name: MarkOutboxEventRetry :exec
UPDATE outbox_events
SET attempts = attempts + 1,
    last_error = $2,
    available_at = $3,
    status = CASE WHEN attempts + 1 >= $4 THEN 'dead' ELSE 'queued' END
WHERE id = $1
`

type MarkOutboxEventRetryParams struct {
	ID          uuid.UUID
	LastError   pgtype.Text
	AvailableAt pgtype.Timestamptz
	MaxAttempts int32
}

func (q *Queries) MarkOutboxEventRetry(ctx context.Context, db DBTX, arg MarkOutboxEventRetryParams) error {
	_, err := db.Exec(ctx, markOutboxEventRetry, arg.ID, arg.LastError, arg.AvailableAt, arg.MaxAttempts)
	return err
}
