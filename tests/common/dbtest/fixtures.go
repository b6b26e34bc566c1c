//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"slot-reservation-engine/internal/domain/coupon"
	"slot-reservation-engine/internal/domain/resource"
	"slot-reservation-engine/internal/infra/query"
	"slot-reservation-engine/internal/infra/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// SeedResource stores res through the production repository so fixtures follow the real encoding.
func SeedResource(t *testing.T, db query.DBTX, res *resource.BookableResource) {
	t.Helper()

	repo := repository.NewResourceRepository(query.New(), db)
	require.NoError(t, repo.Upsert(context.Background(), res))
}

func SeedCoupon(t *testing.T, db query.DBTX, code string, rate string, active bool) {
	t.Helper()

	c, err := coupon.NewCoupon(uuid.New(), code, decimal.RequireFromString(rate), active, nil, nil)
	require.NoError(t, err)
	repo := repository.NewCouponRepository(query.New(), db)
	require.NoError(t, repo.Upsert(context.Background(), c))
}

// CountBookings returns how many bookings on the slot are in status.
func CountBookings(t *testing.T, db query.DBTX, resourceID uuid.UUID, slotID, status string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM bookings WHERE resource_id = $1 AND slot_id = $2 AND payment_status = $3",
		resourceID, slotID, status).Scan(&n)
	require.NoError(t, err)
	return n
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables except the migration ledger
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
