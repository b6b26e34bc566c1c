package worker

import (
	"context"
	"log/slog"
	"time"

	"slot-reservation-engine/internal/pkg/clock"
	"slot-reservation-engine/internal/usecase/shared"
)

const (
	retryBaseDelay = 2 * time.Second
	retryMaxDelay  = 5 * time.Minute

	// claimed rows are hidden from other relays until the lease lapses
	claimLease     = 2 * time.Minute
	publishTimeout = 10 * time.Second
)

// EventPublisher delivers one outbox event to the broker and returns once the broker
// has accepted it.
type EventPublisher interface {
	Publish(ctx context.Context, ev shared.OutboxEvent) error
}

// OutboxRelay drains queued outbox rows to the publisher. Delivery is at-least-once:
// an event is marked sent only after the broker confirmed it, and a crash before that
// mark republishes the same event id once the claim lease lapses.
type OutboxRelay struct {
	uow         shared.UnitOfWork
	publisher   EventPublisher
	clock       clock.Clock
	batchSize   int32
	maxAttempts int32
}

func NewOutboxRelay(uow shared.UnitOfWork, publisher EventPublisher, clk clock.Clock, batchSize, maxAttempts int32) *OutboxRelay {
	return &OutboxRelay{
		uow:         uow,
		publisher:   publisher,
		clock:       clk,
		batchSize:   batchSize,
		maxAttempts: maxAttempts,
	}
}

func (r *OutboxRelay) Name() string { return "outbox_relay" }

type publishOutcome struct {
	event shared.OutboxEvent
	err   error
}

// RunOnce claims a batch in one short transaction, publishes with no transaction open,
// then records the outcomes in a second transaction.
func (r *OutboxRelay) RunOnce(ctx context.Context) error {
	claimedAt := r.clock.Now()
	leaseUntil := claimedAt.Add(claimLease)

	var batch []shared.OutboxEvent
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		batch, err = tx.Outbox().ClaimBatch(ctx, claimedAt, leaseUntil, r.batchSize)
		return err
	})
	if err != nil || len(batch) == 0 {
		return err
	}

	outcomes := make([]publishOutcome, 0, len(batch))
	for _, ev := range batch {
		// rows left over return to the queue when the lease lapses
		if ctx.Err() != nil || !r.clock.Now().Add(publishTimeout).Before(leaseUntil) {
			break
		}
		outcomes = append(outcomes, publishOutcome{event: ev, err: r.publish(ctx, ev)})
	}
	if len(outcomes) == 0 {
		return ctx.Err()
	}

	var sent, retried int
	now := r.clock.Now()
	// ctx may be done by now; outcomes of events already handed to the broker are still recorded
	err = r.uow.Within(context.WithoutCancel(ctx), func(ctx context.Context, tx shared.Tx) error {
		sent, retried = 0, 0
		for _, o := range outcomes {
			if o.err == nil {
				if err := tx.Outbox().MarkSent(ctx, o.event.ID, now); err != nil {
					return err
				}
				sent++
				continue
			}
			next := now.Add(retryDelay(o.event.Attempts))
			if err := tx.Outbox().MarkRetry(ctx, o.event.ID, o.err.Error(), next, r.maxAttempts); err != nil {
				return err
			}
			retried++
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "outbox batch relayed", "sent", sent, "retried", retried, "leased", len(batch))
	return nil
}

func (r *OutboxRelay) publish(ctx context.Context, ev shared.OutboxEvent) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err := r.publisher.Publish(ctx, ev)
	if err != nil {
		slog.WarnContext(ctx, "outbox publish failed",
			"event_id", ev.ID.String(),
			"topic", ev.Topic,
			"attempts", ev.Attempts+1,
			"error", err.Error())
	}
	return err
}

// retryDelay doubles per attempt from retryBaseDelay up to retryMaxDelay.
func retryDelay(attempts int32) time.Duration {
	d := retryBaseDelay
	for i := int32(0); i < attempts; i++ {
		d *= 2
		if d >= retryMaxDelay {
			return retryMaxDelay
		}
	}
	return d
}
