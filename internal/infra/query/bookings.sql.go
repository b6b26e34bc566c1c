package query

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const bookingColumns = `id, resource_id, owner_id, slot_id, customer_id, starts_at, ends_at,
	payment_status, payment_method, hourly_rate_cents, base_amount_cents, platform_charge_cents,
	discount_cents, amount_payable_cents, intent_id, intent_client_secret, intent_amount_cents,
	intent_currency, coupon_code, vehicle_id, evidence_image_ref, evidence_note, failure_reason,
	paid_at, created_at, updated_at`

func scanBooking(row pgx.Row) (Booking, error) {
	var i Booking
	err := row.Scan(
		&i.ID,
		&i.ResourceID,
		&i.OwnerID,
		&i.SlotID,
		&i.CustomerID,
		&i.StartsAt,
		&i.EndsAt,
		&i.PaymentStatus,
		&i.PaymentMethod,
		&i.HourlyRateCents,
		&i.BaseAmountCents,
		&i.PlatformChargeCents,
		&i.DiscountCents,
		&i.AmountPayableCents,
		&i.IntentID,
		&i.IntentClientSecret,
		&i.IntentAmountCents,
		&i.IntentCurrency,
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

func scanBookings(rows pgx.Rows) ([]Booking, error) {
	defer rows.Close()
	var items []Booking
	for rows.Next() {
		i, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createBooking = `-- name: CreateBooking :exec
INSERT INTO bookings (
	id, resource_id, owner_id, slot_id, customer_id, starts_at, ends_at,
	payment_status, payment_method, hourly_rate_cents, base_amount_cents, platform_charge_cents,
	discount_cents, amount_payable_cents, intent_id, intent_client_secret, intent_amount_cents,
	intent_currency, coupon_code, vehicle_id, created_at, updated_at
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $21
)
`

type CreateBookingParams struct {
	ID                  uuid.UUID
	ResourceID          uuid.UUID
	OwnerID             uuid.UUID
	SlotID              string
	CustomerID          uuid.UUID
	StartsAt            pgtype.Timestamptz
	EndsAt              pgtype.Timestamptz
	PaymentStatus       string
	PaymentMethod       string
	HourlyRateCents     int64
	BaseAmountCents     int64
	PlatformChargeCents int64
	DiscountCents       int64
	AmountPayableCents  int64
	IntentID            pgtype.Text
	IntentClientSecret  pgtype.Text
	IntentAmountCents   pgtype.Int8
	IntentCurrency      pgtype.Text
	CouponCode          pgtype.Text
	VehicleID           pgtype.Text
	CreatedAt           pgtype.Timestamptz
}

func (q *Queries) CreateBooking(ctx context.Context, db DBTX, arg CreateBookingParams) error {
	_, err := db.Exec(ctx, createBooking,
		arg.ID,
		arg.ResourceID,
		arg.OwnerID,
		arg.SlotID,
		arg.CustomerID,
		arg.StartsAt,
		arg.EndsAt,
		arg.PaymentStatus,
		arg.PaymentMethod,
		arg.HourlyRateCents,
		arg.BaseAmountCents,
		arg.PlatformChargeCents,
		arg.DiscountCents,
		arg.AmountPayableCents,
		arg.IntentID,
		arg.IntentClientSecret,
		arg.IntentAmountCents,
		arg.IntentCurrency,
		arg.CouponCode,
		arg.VehicleID,
		arg.CreatedAt,
	)
	return err
}

const getBookingByID = `-- name: GetBookingByID :one
SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1
`

func (q *Queries) GetBookingByID(ctx context.Context, db DBTX, id uuid.UUID) (Booking, error) {
	return scanBooking(db.QueryRow(ctx, getBookingByID, id))
}

const getBookingByIDForUpdate = `-- name: GetBookingByIDForUpdate :one
SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetBookingByIDForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (Booking, error) {
	return scanBooking(db.QueryRow(ctx, getBookingByIDForUpdate, id))
}

const transitionBookingStatus = `-- name: TransitionBookingStatus :execrows
UPDATE bookings
SET payment_status = $2,
    failure_reason = $3,
    paid_at = $4,
    evidence_image_ref = COALESCE($5, evidence_image_ref),
    evidence_note = COALESCE($6, evidence_note),
    updated_at = $7
WHERE id = $1 AND payment_status = 'PENDING'
`

type TransitionBookingStatusParams struct {
	ID               uuid.UUID
	PaymentStatus    string
	FailureReason    pgtype.Text
	PaidAt           pgtype.Timestamptz
	EvidenceImageRef pgtype.Text
	EvidenceNote     pgtype.Text
	UpdatedAt        pgtype.Timestamptz
}

func (q *Queries) TransitionBookingStatus(ctx context.Context, db DBTX, arg TransitionBookingStatusParams) (int64, error) {
	result, err := db.Exec(ctx, transitionBookingStatus,
		arg.ID,
		arg.PaymentStatus,
		arg.FailureReason,
		arg.PaidAt,
		arg.EvidenceImageRef,
		arg.EvidenceNote,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const existsOverlappingBooking = `-- name: ExistsOverlappingBooking :one
SELECT EXISTS (
	SELECT 1 FROM bookings
	WHERE resource_id = $1
	  AND slot_id = $2
	  AND payment_status = ANY($3::text[])
	  AND tstzrange(starts_at, ends_at, '[)') && tstzrange($4::timestamptz, $5::timestamptz, '[)')
	  AND ($6::uuid IS NULL OR id <> $6::uuid)
)
`

type ExistsOverlappingBookingParams struct {
	ResourceID uuid.UUID
	SlotID     string
	Statuses   []string
	StartsAt   pgtype.Timestamptz
	EndsAt     pgtype.Timestamptz
	ExcludeID  pgtype.UUID
}

func (q *Queries) ExistsOverlappingBooking(ctx context.Context, db DBTX, arg ExistsOverlappingBookingParams) (bool, error) {
	row := db.QueryRow(ctx, existsOverlappingBooking,
		arg.ResourceID,
		arg.SlotID,
		arg.Statuses,
		arg.StartsAt,
		arg.EndsAt,
		arg.ExcludeID,
	)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const listOccupiedSlots = `-- name: ListOccupiedSlots :many
SELECT DISTINCT slot_id FROM bookings
WHERE resource_id = $1
  AND payment_status = 'SUCCESS'
  AND tstzrange(starts_at, ends_at, '[)') && tstzrange($2::timestamptz, $3::timestamptz, '[)')
ORDER BY slot_id
`

type ListOccupiedSlotsParams struct {
	ResourceID uuid.UUID
	StartsAt   pgtype.Timestamptz
	EndsAt     pgtype.Timestamptz
}

func (q *Queries) ListOccupiedSlots(ctx context.Context, db DBTX, arg ListOccupiedSlotsParams) ([]string, error) {
	rows, err := db.Query(ctx, listOccupiedSlots, arg.ResourceID, arg.StartsAt, arg.EndsAt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var slotID string
		if err := rows.Scan(&slotID); err != nil {
			return nil, err
		}
		items = append(items, slotID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listStalePendingBookings = `-- name: ListStalePendingBookings :many
SELECT ` + bookingColumns + ` FROM bookings
WHERE payment_status = 'PENDING' AND created_at <= $1
ORDER BY created_at
LIMIT $2
`

type ListStalePendingBookingsParams struct {
	CreatedBefore pgtype.Timestamptz
	Limit         int32
}

func (q *Queries) ListStalePendingBookings(ctx context.Context, db DBTX, arg ListStalePendingBookingsParams) ([]Booking, error) {
	rows, err := db.Query(ctx, listStalePendingBookings, arg.CreatedBefore, arg.Limit)
	if err != nil {
		return nil, err
	}
	return scanBookings(rows)
}
