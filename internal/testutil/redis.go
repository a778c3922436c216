package testutil

import (
	"testing"

	"communityAPI/internal/staging"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// NewMiniRedisStore starts an in-memory Redis and returns a store bound to it.
// Both are torn down with the test.
func NewMiniRedisStore(t *testing.T) (*staging.RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return staging.NewRedisStoreFromClient(client), mr
}
