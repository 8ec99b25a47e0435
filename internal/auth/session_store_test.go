package auth_test

import (
	"context"
	"testing"
	"time"

	"ops-portal/internal/auth"
	"ops-portal/internal/testutil"
	apperrors "ops-portal/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSessionStore(t *testing.T) {
	ctx := context.Background()
	rdb := testutil.Redis(t)
	store := auth.NewRedisSessionStore(rdb)

	expires := time.Now().Add(time.Hour).Truncate(time.Second)
	sess := &auth.Session{
		ID:           "s1",
		UserID:       "user-1",
		Email:        "ana@example.com",
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    expires,
	}

	t.Run("Save and Get", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sess, time.Minute))

		got, err := store.Get(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "user-1", got.UserID)
		assert.Equal(t, "access-1", got.AccessToken)
		assert.True(t, expires.Equal(got.ExpiresAt))

		ttl, err := rdb.TTL(ctx, "session:s1").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "s1"))
		_, err := store.Get(ctx, "s1")
		assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
	})

	t.Run("Without expiry", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, &auth.Session{ID: "s2", AccessToken: "access-2"}, time.Minute))

		got, err := store.Get(ctx, "s2")
		require.NoError(t, err)
		assert.True(t, got.ExpiresAt.IsZero())
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := store.Get(ctx, "nope")
		assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
	})
}

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	store := auth.NewMemorySessionStore()

	require.NoError(t, store.Save(ctx, &auth.Session{ID: "s1", Email: "a@b.c"}, 0))
	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", got.Email)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}
