package staging_test

import (
	"context"
	"testing"
	"time"

	"communityAPI/internal/staging"
	"communityAPI/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromotionLock(t *testing.T) {
	store, mr := testutil.NewMiniRedisStore(t)
	lock := staging.NewPromotionLock(store, 10*time.Second)
	ctx := context.Background()
	key := "post:processing:7"

	t.Run("Первый захват успешен, второй нет", func(t *testing.T) {
		ok, err := lock.TryAcquire(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = lock.TryAcquire(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Блокировка истекает сама", func(t *testing.T) {
		require.NoError(t, lock.SetExpiry(ctx, key))
		mr.FastForward(11 * time.Second)

		ok, err := lock.TryAcquire(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Снятие блокировки", func(t *testing.T) {
		require.NoError(t, lock.Release(ctx, key))
		assert.False(t, mr.Exists(key))

		ok, err := lock.TryAcquire(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestPromotionLock_DefaultTTL(t *testing.T) {
	store, mr := testutil.NewMiniRedisStore(t)
	lock := staging.NewPromotionLock(store, 0)

	ok, err := lock.TryAcquire(context.Background(), "post:processing:1")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, staging.DefaultLockTTL, mr.TTL("post:processing:1"))
}
