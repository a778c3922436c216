package staging

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"communityAPI/internal/config"

	"github.com/redis/go-redis/v9"
)

// Store is the key/value contract the pending pipelines stage content in.
// Every mutation goes through an atomic primitive of the backing store.
type Store interface {
	Incr(ctx context.Context, key string) (int64, error)
	ZAdd(ctx context.Context, key string, score float64, member string) error
	ZScore(ctx context.Context, key, member string) (float64, bool, error)
	ZRangeByScore(ctx context.Context, key string, min, max float64) ([]string, error)
	HSet(ctx context.Context, key, field, value string) error
	HGet(ctx context.Context, key, field string) (string, bool, error)
	// Scan walks the whole keyspace with the given pattern. The result may
	// contain keys that no longer match by the time the caller reads them.
	Scan(ctx context.Context, match string, count int64) ([]string, error)
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	// Multi queues the removals recorded by fn and applies them as one
	// MULTI/EXEC transaction.
	Multi(ctx context.Context, fn func(b Batch)) error
	Ping(ctx context.Context) error
	Close() error
}

// Batch collects removals for Multi.
type Batch interface {
	ZRem(key, member string)
	HDel(key, field string)
	Del(keys ...string)
}

type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to the Redis instance described by cfg and checks
// that it answers.
func NewRedisStore(cfg config.Redis) (*RedisStore, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("неверный адрес Redis: %w", err)
	}

	opt.MaxRetries = cfg.MaxRetries
	opt.PoolSize = cfg.PoolSize
	opt.PoolTimeout = cfg.PoolTimeout
	opt.ReadTimeout = 5 * time.Second
	opt.WriteTimeout = 5 * time.Second

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("не удалось подключиться к Redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// NewRedisStoreFromClient wraps an already configured client.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Incr(ctx context.Context, key string) (int64, error) {
	n, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("ошибка INCR %s: %w", key, err)
	}
	return n, nil
}

func (s *RedisStore) ZAdd(ctx context.Context, key string, score float64, member string) error {
	if err := s.client.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err(); err != nil {
		return fmt.Errorf("ошибка ZADD %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) ZScore(ctx context.Context, key, member string) (float64, bool, error) {
	score, err := s.client.ZScore(ctx, key, member).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("ошибка ZSCORE %s: %w", key, err)
	}
	return score, true, nil
}

func (s *RedisStore) ZRangeByScore(ctx context.Context, key string, min, max float64) ([]string, error) {
	members, err := s.client.ZRangeByScore(ctx, key, &redis.ZRangeBy{
		Min: formatScore(min),
		Max: formatScore(max),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("ошибка ZRANGEBYSCORE %s: %w", key, err)
	}
	return members, nil
}

func (s *RedisStore) HSet(ctx context.Context, key, field, value string) error {
	if err := s.client.HSet(ctx, key, field, value).Err(); err != nil {
		return fmt.Errorf("ошибка HSET %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) HGet(ctx context.Context, key, field string) (string, bool, error) {
	value, err := s.client.HGet(ctx, key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("ошибка HGET %s: %w", key, err)
	}
	return value, true, nil
}

func (s *RedisStore) Scan(ctx context.Context, match string, count int64) ([]string, error) {
	seen := make(map[string]struct{})
	var keys []string
	var cursor uint64

	for {
		batch, next, err := s.client.Scan(ctx, cursor, match, count).Result()
		if err != nil {
			return nil, fmt.Errorf("ошибка SCAN %s: %w", match, err)
		}
		for _, key := range batch {
			// SCAN may hand out the same key twice across iterations
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	return keys, nil
}

func (s *RedisStore) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("ошибка SETNX %s: %w", key, err)
	}
	return ok, nil
}

func (s *RedisStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("ошибка EXPIRE %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Del(ctx context.Context, keys ...string) error {
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("ошибка DEL: %w", err)
	}
	return nil
}

func (s *RedisStore) Multi(ctx context.Context, fn func(b Batch)) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		fn(&redisBatch{ctx: ctx, pipe: pipe})
		return nil
	})
	if err != nil {
		return fmt.Errorf("ошибка MULTI/EXEC: %w", err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

type redisBatch struct {
	ctx  context.Context
	pipe redis.Pipeliner
}

func (b *redisBatch) ZRem(key, member string) {
	b.pipe.ZRem(b.ctx, key, member)
}

func (b *redisBatch) HDel(key, field string) {
	b.pipe.HDel(b.ctx, key, field)
}

func (b *redisBatch) Del(keys ...string) {
	b.pipe.Del(b.ctx, keys...)
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}
