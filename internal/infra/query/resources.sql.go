package query

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const getResourceByID = `-- name: GetResourceByID :one
SELECT id, kind, owner_id, name, zones, schedule, timezone, latitude, longitude, created_at, updated_at
FROM bookable_resources
WHERE id = $1
`

func (q *Queries) GetResourceByID(ctx context.Context, db DBTX, id uuid.UUID) (BookableResource, error) {
	row := db.QueryRow(ctx, getResourceByID, id)
	var i BookableResource
	err := row.Scan(
		&i.ID,
		&i.Kind,
		&i.OwnerID,
		&i.Name,
		&i.Zones,
		&i.Schedule,
		&i.Timezone,
		&i.Latitude,
		&i.Longitude,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const upsertResource = `-- name: UpsertResource :exec
INSERT INTO bookable_resources (id, kind, owner_id, name, zones, schedule, timezone, latitude, longitude)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE
SET kind = EXCLUDED.kind,
    owner_id = EXCLUDED.owner_id,
    name = EXCLUDED.name,
    zones = EXCLUDED.zones,
    schedule = EXCLUDED.schedule,
    timezone = EXCLUDED.timezone,
    latitude = EXCLUDED.latitude,
    longitude = EXCLUDED.longitude,
    updated_at = now()
`

type UpsertResourceParams struct {
	ID        uuid.UUID
	Kind      string
	OwnerID   uuid.UUID
	Name      string
	Zones     []byte
	Schedule  []byte
	Timezone  string
	Latitude  pgtype.Float8
	Longitude pgtype.Float8
}

func (q *Queries) UpsertResource(ctx context.Context, db DBTX, arg UpsertResourceParams) error {
	_, err := db.Exec(ctx, upsertResource,
		arg.ID,
		arg.Kind,
		arg.OwnerID,
		arg.Name,
		arg.Zones,
		arg.Schedule,
		arg.Timezone,
		arg.Latitude,
		arg.Longitude,
	)
	return err
}
