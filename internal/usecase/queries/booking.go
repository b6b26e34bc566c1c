package queries

import (
	"context"
	"time"

	"slot-reservation-engine/internal/domain/user"
	"slot-reservation-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

// BookingKeyset positions a page after (CreatedAt, ID) in descending order.
type BookingKeyset struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

type BookingViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, after *BookingKeyset, limit int32) ([]*BookingListItem, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, actor user.Principal, id uuid.UUID) (*BookingView, error)
	ListMine(ctx context.Context, actor user.Principal, after *Cursor, limit int) ([]*BookingListItem, *Cursor, error)
}

type bookingQueriesImpl struct {
	repo BookingViewRepo
}

func NewBookingQueries(repo BookingViewRepo) BookingQueries {
	return &bookingQueriesImpl{repo: repo}
}

// GetByID is visible to the customer, the resource owner and admins.
func (q *bookingQueriesImpl) GetByID(ctx context.Context, actor user.Principal, id uuid.UUID) (*BookingView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		return nil, readErr(err, ErrBookingNotFound)
	}
	if !actor.IsAdmin() && view.CustomerID != actor.ID && view.OwnerID != actor.ID {
		return nil, ErrForbidden
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListMine(ctx context.Context, actor user.Principal, after *Cursor, limit int) ([]*BookingListItem, *Cursor, error) {
	limit = ValidateLimit(limit)

	var keyset *BookingKeyset
	if after != nil && after.After != "" {
		createdAt, id, err := DecodeAfterCursor(after.After)
		if err != nil {
			return nil, nil, errs.Mark(err, ErrInvalidCursor)
		}
		keyset = &BookingKeyset{CreatedAt: createdAt, ID: id}
	}

	// one extra row tells whether another page exists
	rows, err := q.repo.ListByCustomer(ctx, actor.ID, keyset, int32(limit+1)) // #nosec G115 -- bounded by MaxListLimit
	if err != nil {
		return nil, nil, readErr(err, nil)
	}

	if len(rows) <= limit {
		return rows, nil, nil
	}
	rows = rows[:limit]
	last := rows[len(rows)-1]
	return rows, &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}, nil
}
