package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"slot-reservation-engine/internal/domain/resource"
	"slot-reservation-engine/internal/infra/query"
	"slot-reservation-engine/internal/infra/repository/converter"
	"slot-reservation-engine/internal/pkg/pgconv"
	"slot-reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultResourceTTL = 5 * time.Minute

// cachedResource is the Redis value shape; zones and schedule keep their stored JSON documents.
type cachedResource struct {
	ID        uuid.UUID       `json:"id"`
	Kind      string          `json:"kind"`
	OwnerID   uuid.UUID       `json:"owner_id"`
	Name      string          `json:"name"`
	Zones     json.RawMessage `json:"zones"`
	Schedule  json.RawMessage `json:"schedule"`
	Timezone  string          `json:"timezone"`
	Latitude  *float64        `json:"latitude,omitempty"`
	Longitude *float64        `json:"longitude,omitempty"`
}

// ResourceCatalog is a read-through cache in front of another catalog.
// Redis failures degrade to the inner catalog and are only logged.
type ResourceCatalog struct {
	inner  shared.ResourceCatalog
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewResourceCatalog(inner shared.ResourceCatalog, rdb *redis.Client, prefix string, ttl time.Duration) *ResourceCatalog {
	if ttl <= 0 {
		ttl = defaultResourceTTL
	}
	return &ResourceCatalog{
		inner:  inner,
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (c *ResourceCatalog) key(id uuid.UUID) string {
	return c.prefix + ":resource:" + id.String()
}

func (c *ResourceCatalog) ResourceByID(ctx context.Context, id uuid.UUID) (*resource.BookableResource, error) {
	if c.rdb == nil {
		return c.inner.ResourceByID(ctx, id)
	}

	key := c.key(id)
	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		res, decodeErr := decodeResource(raw)
		if decodeErr == nil {
			return res, nil
		}
		slog.WarnContext(ctx, "discarding undecodable cached resource", "key", key, "error", decodeErr.Error())
	case !errors.Is(err, redis.Nil):
		slog.WarnContext(ctx, "resource cache read failed", "key", key, "error", err.Error())
	}

	res, err := c.inner.ResourceByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, encErr := encodeResource(res); encErr == nil {
		if setErr := c.rdb.SetEx(ctx, key, payload, c.ttl).Err(); setErr != nil {
			slog.WarnContext(ctx, "resource cache write failed", "key", key, "error", setErr.Error())
		}
	}
	return res, nil
}

// Invalidate drops the cached definition after the resource was rewritten.
func (c *ResourceCatalog) Invalidate(ctx context.Context, id uuid.UUID) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, c.key(id)).Err()
}

func encodeResource(r *resource.BookableResource) ([]byte, error) {
	params, err := converter.ResourceToUpsertParams(r)
	if err != nil {
		return nil, err
	}
	doc := cachedResource{
		ID:        params.ID,
		Kind:      params.Kind,
		OwnerID:   params.OwnerID,
		Name:      params.Name,
		Zones:     params.Zones,
		Schedule:  params.Schedule,
		Timezone:  params.Timezone,
		Latitude:  pgconv.Float64PtrFromPgtype(params.Latitude),
		Longitude: pgconv.Float64PtrFromPgtype(params.Longitude),
	}
	return json.Marshal(doc)
}

func decodeResource(raw []byte) (*resource.BookableResource, error) {
	var doc cachedResource
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return converter.ResourceFromRow(query.BookableResource{
		ID:        doc.ID,
		Kind:      doc.Kind,
		OwnerID:   doc.OwnerID,
		Name:      doc.Name,
		Zones:     doc.Zones,
		Schedule:  doc.Schedule,
		Timezone:  doc.Timezone,
		Latitude:  pgconv.Float64PtrToPgtype(doc.Latitude),
		Longitude: pgconv.Float64PtrToPgtype(doc.Longitude),
	})
}
