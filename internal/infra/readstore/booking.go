package readstore

import (
	"context"

	"slot-reservation-engine/internal/domain/booking"
	"slot-reservation-engine/internal/infra"
	"slot-reservation-engine/internal/infra/query"
	"slot-reservation-engine/internal/pkg/pgconv"
	"slot-reservation-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

//go:generate mockgen -source=booking.go -destination=../../../tests/mock/readstore/booking.go -package=readstoremock

type BookingViewQueries interface {
	GetBookingView(ctx context.Context, db query.DBTX, id uuid.UUID) (query.GetBookingViewRow, error)
	ListBookingsByCustomerFirstPage(ctx context.Context, db query.DBTX, arg query.ListBookingsByCustomerFirstPageParams) ([]query.ListBookingsByCustomerRow, error)
	ListBookingsByCustomerKeyset(ctx context.Context, db query.DBTX, arg query.ListBookingsByCustomerKeysetParams) ([]query.ListBookingsByCustomerRow, error)
	ListOccupiedSlots(ctx context.Context, db query.DBTX, arg query.ListOccupiedSlotsParams) ([]string, error)
}

type BookingReadStore struct {
	queries BookingViewQueries
	db      query.DBTX
}

func NewBookingReadStore(queries BookingViewQueries, db query.DBTX) *BookingReadStore {
	return &BookingReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	row, err := r.queries.GetBookingView(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}

	return rowToBookingView(row), nil
}

func rowToBookingView(row query.GetBookingViewRow) *queries.BookingView {
	return &queries.BookingView{
		ID:                  row.ID,
		ResourceID:          row.ResourceID,
		ResourceName:        row.ResourceName,
		ResourceKind:        row.ResourceKind,
		OwnerID:             row.OwnerID,
		CustomerID:          row.CustomerID,
		SlotID:              row.SlotID,
		From:                pgconv.TimeFromPgtype(row.StartsAt),
		To:                  pgconv.TimeFromPgtype(row.EndsAt),
		Status:              row.PaymentStatus,
		PaymentMethod:       row.PaymentMethod,
		HourlyRateCents:     row.HourlyRateCents,
		BaseAmountCents:     row.BaseAmountCents,
		PlatformChargeCents: row.PlatformChargeCents,
		DiscountCents:       row.DiscountCents,
		AmountPayableCents:  row.AmountPayableCents,
		Currency:            pgconv.StringPtrFromPgtype(row.IntentCurrency),
		IntentID:            pgconv.StringPtrFromPgtype(row.IntentID),
		CouponCode:          pgconv.StringPtrFromPgtype(row.CouponCode),
		VehicleID:           pgconv.StringPtrFromPgtype(row.VehicleID),
		EvidenceImageRef:    pgconv.StringPtrFromPgtype(row.EvidenceImageRef),
		EvidenceNote:        pgconv.StringPtrFromPgtype(row.EvidenceNote),
		FailureReason:       pgconv.StringPtrFromPgtype(row.FailureReason),
		PaidAt:              pgconv.TimePtrFromPgtype(row.PaidAt),
		CreatedAt:           pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:           pgconv.TimeFromPgtype(row.UpdatedAt),
	}
}

// ListByCustomer returns newest first; after positions the page strictly past that keyset.
func (r *BookingReadStore) ListByCustomer(ctx context.Context, customerID uuid.UUID, after *queries.BookingKeyset, limit int32) ([]*queries.BookingListItem, error) {
	var (
		rows []query.ListBookingsByCustomerRow
		err  error
	)
	if after == nil {
		rows, err = r.queries.ListBookingsByCustomerFirstPage(ctx, r.db, query.ListBookingsByCustomerFirstPageParams{
			CustomerID: customerID,
			Limit:      limit,
		})
	} else {
		rows, err = r.queries.ListBookingsByCustomerKeyset(ctx, r.db, query.ListBookingsByCustomerKeysetParams{
			CustomerID:     customerID,
			AfterCreatedAt: pgconv.TimeToPgtype(after.CreatedAt),
			AfterID:        after.ID,
			Limit:          limit,
		})
	}
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings by customer", err)
	}

	result := make([]*queries.BookingListItem, len(rows))
	for i, row := range rows {
		result[i] = &queries.BookingListItem{
			ID:                 row.ID,
			ResourceID:         row.ResourceID,
			ResourceName:       row.ResourceName,
			SlotID:             row.SlotID,
			From:               pgconv.TimeFromPgtype(row.StartsAt),
			To:                 pgconv.TimeFromPgtype(row.EndsAt),
			Status:             row.PaymentStatus,
			PaymentMethod:      row.PaymentMethod,
			AmountPayableCents: row.AmountPayableCents,
			CreatedAt:          pgconv.TimeFromPgtype(row.CreatedAt),
		}
	}
	return result, nil
}

func (r *BookingReadStore) OccupiedSlots(ctx context.Context, resourceID uuid.UUID, interval booking.Interval) ([]booking.SlotID, error) {
	raw, err := r.queries.ListOccupiedSlots(ctx, r.db, query.ListOccupiedSlotsParams{
		ResourceID: resourceID,
		StartsAt:   pgconv.TimeToPgtype(interval.From()),
		EndsAt:     pgconv.TimeToPgtype(interval.To()),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list occupied slots", err)
	}

	slots := make([]booking.SlotID, 0, len(raw))
	for _, s := range raw {
		slot, err := booking.ParseSlotID(s)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to decode slot id", err, infra.KindDBFailure)
		}
		slots = append(slots, slot)
	}
	return slots, nil
}
