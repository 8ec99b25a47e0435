// Package testutil connects tests to the local Postgres and Redis instances from LoadTestConfig.
package testutil

import (
	"context"
	"ops-portal/config"
	"ops-portal/internal/database"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const connectTimeout = 2 * time.Second

// Redis returns a client on the test database, or skips the test when Redis is unreachable.
// The database is flushed before and after the test.
func Redis(t *testing.T) *redis.Client {
	t.Helper()
	cfg := config.LoadTestConfig()

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	rdb, err := database.InitRedis(ctx, &cfg.Redis)
	if err != nil {
		t.Skipf("redis not available: %v", err)
	}

	flush := func() {
		if err := rdb.FlushDB(context.Background()).Err(); err != nil {
			t.Fatalf("flush redis: %v", err)
		}
	}
	flush()
	t.Cleanup(func() {
		flush()
		rdb.Close()
	})
	return rdb
}

// Postgres returns a pool on the test database, or skips the test when it is unreachable.
func Postgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	cfg := config.LoadTestConfig()

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	pool, err := database.InitDatabase(ctx, &cfg.Database)
	if err != nil {
		t.Skipf("postgres not available: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}
