//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"slot-reservation-engine/internal/domain/user"
	"slot-reservation-engine/internal/infra"
	"slot-reservation-engine/internal/pkg/errs"
	"slot-reservation-engine/internal/usecase/queries"
	queriesmock "slot-reservation-engine/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestBookingQueries_GetByID(t *testing.T) {
	customerID, ownerID := uuid.New(), uuid.New()
	view := &queries.BookingView{ID: uuid.New(), CustomerID: customerID, OwnerID: ownerID, Status: "PENDING"}

	testCases := []struct {
		name  string
		actor user.Principal
		errIs error
	}{
		{name: "customer", actor: user.Principal{ID: customerID, Role: user.RoleCustomer}},
		{name: "resource owner", actor: user.Principal{ID: ownerID, Role: user.RoleMerchant}},
		{name: "admin", actor: user.Principal{ID: uuid.New(), Role: user.RoleAdmin}},
		{name: "stranger", actor: user.Principal{ID: uuid.New(), Role: user.RoleCustomer}, errIs: queries.ErrForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := queriesmock.NewMockBookingViewRepo(gomock.NewController(t))
			repo.EXPECT().FindByID(gomock.Any(), view.ID).Return(view, nil)

			actual, err := queries.NewBookingQueries(repo).GetByID(context.Background(), tc.actor, view.ID)
			if tc.errIs != nil {
				assert.Nil(t, actual)
				assert.True(t, errs.Is(err, tc.errIs), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, view, actual)
		})
	}

	t.Run("not found", func(t *testing.T) {
		repo := queriesmock.NewMockBookingViewRepo(gomock.NewController(t))
		id := uuid.New()
		repo.EXPECT().FindByID(gomock.Any(), id).
			Return(nil, infra.WrapRepoErr("booking not found", pgx.ErrNoRows, infra.KindNotFound))

		actual, err := queries.NewBookingQueries(repo).GetByID(context.Background(), user.Principal{ID: uuid.New()}, id)
		assert.Nil(t, actual)
		assert.True(t, errs.Is(err, queries.ErrBookingNotFound), "got %v", err)
		assert.Equal(t, errs.CategoryNotFound, errs.CategoryOf(err))
	})
}

func TestBookingQueries_ListMine(t *testing.T) {
	actor := user.Principal{ID: uuid.New(), Role: user.RoleCustomer}
	base := time.Date(2030, 1, 6, 12, 0, 0, 0, time.UTC)

	items := make([]*queries.BookingListItem, 3)
	for i := range items {
		items[i] = &queries.BookingListItem{ID: uuid.New(), CreatedAt: base.Add(-time.Duration(i) * time.Minute)}
	}

	t.Run("first page with more rows returns a cursor", func(t *testing.T) {
		repo := queriesmock.NewMockBookingViewRepo(gomock.NewController(t))
		repo.EXPECT().ListByCustomer(gomock.Any(), actor.ID, (*queries.BookingKeyset)(nil), int32(3)).Return(items, nil)

		rows, next, err := queries.NewBookingQueries(repo).ListMine(context.Background(), actor, nil, 2)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
		require.NotNil(t, next)

		createdAt, id, err := queries.DecodeAfterCursor(next.After)
		require.NoError(t, err)
		assert.Equal(t, items[1].ID, id)
		assert.True(t, items[1].CreatedAt.Equal(createdAt))
	})

	t.Run("cursor is decoded into a keyset", func(t *testing.T) {
		repo := queriesmock.NewMockBookingViewRepo(gomock.NewController(t))
		after := &queries.Cursor{After: queries.EncodeAfterCursor(items[1].CreatedAt, items[1].ID)}
		repo.EXPECT().
			ListByCustomer(gomock.Any(), actor.ID, gomock.Cond(func(x any) bool {
				k, ok := x.(*queries.BookingKeyset)
				return ok && k != nil && k.ID == items[1].ID && k.CreatedAt.Equal(items[1].CreatedAt)
			}), int32(21)).
			Return(items[2:], nil)

		rows, next, err := queries.NewBookingQueries(repo).ListMine(context.Background(), actor, after, 0)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
		assert.Nil(t, next)
	})

	t.Run("malformed cursor", func(t *testing.T) {
		repo := queriesmock.NewMockBookingViewRepo(gomock.NewController(t))

		_, _, err := queries.NewBookingQueries(repo).ListMine(context.Background(), actor, &queries.Cursor{After: "%%%"}, 10)
		assert.True(t, errs.Is(err, queries.ErrInvalidCursor), "got %v", err)
		assert.Equal(t, errs.CategoryValidation, errs.CategoryOf(err))
	})
}
