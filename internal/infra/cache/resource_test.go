//go:build unit

package cache

import (
	"context"
	"testing"
	"time"

	"slot-reservation-engine/internal/domain/resource"
	"slot-reservation-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCatalog struct {
	res   *resource.BookableResource
	err   error
	calls int
}

func (c *countingCatalog) ResourceByID(_ context.Context, _ uuid.UUID) (*resource.BookableResource, error) {
	c.calls++
	return c.res, c.err
}

func TestEncodeDecodeResource(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	w, err := resource.NewWindow(8*60, 22*60)
	require.NoError(t, err)

	original := builder.NewResourceBuilder().With(func(b *builder.ResourceBuilder) {
		b.Timezone = tokyo
		b.Schedule = resource.NewWeeklySchedule(map[time.Weekday][]resource.Window{time.Monday: {w}})
	}).MustBuildDomain()

	raw, err := encodeResource(original)
	require.NoError(t, err)

	decoded, err := decodeResource(raw)
	require.NoError(t, err)

	assert.Equal(t, original.ID(), decoded.ID())
	assert.Equal(t, original.Name(), decoded.Name())
	assert.Equal(t, "Asia/Tokyo", decoded.Timezone().String())
	assert.Equal(t, original.TotalCapacity(), decoded.TotalCapacity())
	assert.Equal(t, original.Location(), decoded.Location())
	assert.Len(t, decoded.Schedule().Days()[time.Monday], 1)
}

func TestResourceCatalog_WithoutRedis(t *testing.T) {
	res := builder.NewResourceBuilder().MustBuildDomain()
	inner := &countingCatalog{res: res}

	catalog := NewResourceCatalog(inner, nil, "test", time.Minute)
	for i := 0; i < 2; i++ {
		got, err := catalog.ResourceByID(context.Background(), res.ID())
		require.NoError(t, err)
		assert.Equal(t, res.ID(), got.ID())
	}
	assert.Equal(t, 2, inner.calls)
	assert.NoError(t, catalog.Invalidate(context.Background(), res.ID()))
}

func TestResourceCatalog_DegradesWhenRedisIsDown(t *testing.T) {
	res := builder.NewResourceBuilder().MustBuildDomain()
	inner := &countingCatalog{res: res}

	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	catalog := NewResourceCatalog(inner, rdb, "test", time.Minute)
	got, err := catalog.ResourceByID(context.Background(), res.ID())
	require.NoError(t, err)
	assert.Equal(t, res.ID(), got.ID())
	assert.Equal(t, 1, inner.calls)
}

func TestResourceCatalog_KeyLayout(t *testing.T) {
	id := uuid.MustParse("7b0c8f9e-3a4d-4c1e-9f00-000000000001")
	catalog := NewResourceCatalog(&countingCatalog{}, nil, "slotres", 0)
	assert.Equal(t, "slotres:resource:7b0c8f9e-3a4d-4c1e-9f00-000000000001", catalog.key(id))
	assert.Equal(t, defaultResourceTTL, catalog.ttl)
}
