package query

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const getBookingView = `-- name: GetBookingView :one
SELECT b.id, b.resource_id, r.name AS resource_name, r.kind AS resource_kind, b.owner_id,
       b.customer_id, b.slot_id, b.starts_at, b.ends_at, b.payment_status, b.payment_method,
       b.hourly_rate_cents, b.base_amount_cents, b.platform_charge_cents, b.discount_cents,
       b.amount_payable_cents, b.intent_currency, b.intent_id, b.coupon_code, b.vehicle_id,
       b.evidence_image_ref, b.evidence_note, b.failure_reason, b.paid_at, b.created_at, b.updated_at
FROM bookings b
JOIN bookable_resources r ON r.id = b.resource_id
WHERE b.id = $1
`

type GetBookingViewRow struct {
	ID                  uuid.UUID
	ResourceID          uuid.UUID
	ResourceName        string
	ResourceKind        string
	OwnerID             uuid.UUID
	CustomerID          uuid.UUID
	SlotID              string
	StartsAt            pgtype.Timestamptz
	EndsAt              pgtype.Timestamptz
	PaymentStatus       string
	PaymentMethod       string
	HourlyRateCents     int64
	BaseAmountCents     int64
	PlatformChargeCents int64
	DiscountCents       int64
	AmountPayableCents  int64
	IntentCurrency      pgtype.Text
	IntentID            pgtype.Text
	CouponCode          pgtype.Text
	VehicleID           pgtype.Text
	EvidenceImageRef    pgtype.Text
	EvidenceNote        pgtype.Text
	FailureReason       pgtype.Text
	PaidAt              pgtype.Timestamptz
	CreatedAt           pgtype.Timestamptz
	UpdatedAt           pgtype.Timestamptz
}

func (q *Queries) GetBookingView(ctx context.Context, db DBTX, id uuid.UUID) (GetBookingViewRow, error) {
	row := db.QueryRow(ctx, getBookingView, id)
	var i GetBookingViewRow
	err := row.Scan(
		&i.ID,
		&i.ResourceID,
		&i.ResourceName,
		&i.ResourceKind,
		&i.OwnerID,
		&i.CustomerID,
		&i.SlotID,
		&i.StartsAt,
		&i.EndsAt,
		&i.PaymentStatus,
		&i.PaymentMethod,
		&i.HourlyRateCents,
		&i.BaseAmountCents,
		&i.PlatformChargeCents,
		&i.DiscountCents,
		&i.AmountPayableCents,
		&i.IntentCurrency,
		&i.IntentID,
		&i.CouponCode,
		&i.VehicleID,
		&i.EvidenceImageRef,
		&i.EvidenceNote,
		&i.FailureReason,
		&i.PaidAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listBookingsByCustomerFirstPage = `-- name: ListBookingsByCustomerFirstPage :many
SELECT b.id, b.resource_id, r.name AS resource_name, b.slot_id, b.starts_at, b.ends_at,
       b.payment_status, b.payment_method, b.amount_payable_cents, b.created_at
FROM bookings b
JOIN bookable_resources r ON r.id = b.resource_id
WHERE b.customer_id = $1
ORDER BY b.created_at DESC, b.id DESC
LIMIT $2
`

type ListBookingsByCustomerFirstPageParams struct {
	CustomerID uuid.UUID
	Limit      int32
}

type ListBookingsByCustomerRow struct {
	ID                 uuid.UUID
	ResourceID         uuid.UUID
	ResourceName       string
	SlotID             string
	StartsAt           pgtype.Timestamptz
	EndsAt             pgtype.Timestamptz
	PaymentStatus      string
	PaymentMethod      string
	AmountPayableCents int64
	CreatedAt          pgtype.Timestamptz
}

func (q *Queries) ListBookingsByCustomerFirstPage(ctx context.Context, db DBTX, arg ListBookingsByCustomerFirstPageParams) ([]ListBookingsByCustomerRow, error) {
	rows, err := db.Query(ctx, listBookingsByCustomerFirstPage, arg.CustomerID, arg.Limit)
	if err != nil {
		return nil, err
	}
	return scanBookingListRows(rows)
}

const listBookingsByCustomerKeyset = `-- name: ListBookingsByCustomerKeyset :many
SELECT b.id, b.resource_id, r.name AS resource_name, b.slot_id, b.starts_at, b.ends_at,
       b.payment_status, b.payment_method, b.amount_payable_cents, b.created_at
FROM bookings b
JOIN bookable_resources r ON r.id = b.resource_id
WHERE b.customer_id = $1
  AND (b.created_at, b.id) < ($2::timestamptz, $3::uuid)
ORDER BY b.created_at DESC, b.id DESC
LIMIT $4
`

type ListBookingsByCustomerKeysetParams struct {
	CustomerID     uuid.UUID
	AfterCreatedAt pgtype.Timestamptz
	AfterID        uuid.UUID
	Limit          int32
}

func (q *Queries) ListBookingsByCustomerKeyset(ctx context.Context, db DBTX, arg ListBookingsByCustomerKeysetParams) ([]ListBookingsByCustomerRow, error) {
	rows, err := db.Query(ctx, listBookingsByCustomerKeyset, arg.CustomerID, arg.AfterCreatedAt, arg.AfterID, arg.Limit)
	if err != nil {
		return nil, err
	}
	return scanBookingListRows(rows)
}

func scanBookingListRows(rows pgx.Rows) ([]ListBookingsByCustomerRow, error) {
	defer rows.Close()
	var items []ListBookingsByCustomerRow
	for rows.Next() {
		var i ListBookingsByCustomerRow
		if err := rows.Scan(
			&i.ID,
			&i.ResourceID,
			&i.ResourceName,
			&i.SlotID,
			&i.StartsAt,
			&i.EndsAt,
			&i.PaymentStatus,
			&i.PaymentMethod,
			&i.AmountPayableCents,
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
