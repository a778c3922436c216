package staging

import (
	"context"
	"fmt"
	"time"
)

const DefaultLockTTL = 10 * time.Second

// PromotionLock is a non-blocking exclusive lease on a single staged item.
// A lease expires on its own, so a crashed holder blocks others for at most
// one TTL.
type PromotionLock interface {
	TryAcquire(ctx context.Context, key string) (bool, error)
	SetExpiry(ctx context.Context, key string) error
	Release(ctx context.Context, key string) error
}

type promotionLock struct {
	store Store
	ttl   time.Duration
}

func NewPromotionLock(store Store, ttl time.Duration) PromotionLock {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &promotionLock{store: store, ttl: ttl}
}

func (l *promotionLock) TryAcquire(ctx context.Context, key string) (bool, error) {
	ok, err := l.store.SetNX(ctx, key, "1", l.ttl)
	if err != nil {
		return false, fmt.Errorf("ошибка при захвате блокировки %s: %w", key, err)
	}
	return ok, nil
}

func (l *promotionLock) SetExpiry(ctx context.Context, key string) error {
	if err := l.store.Expire(ctx, key, l.ttl); err != nil {
		return fmt.Errorf("ошибка при установке срока блокировки %s: %w", key, err)
	}
	return nil
}

func (l *promotionLock) Release(ctx context.Context, key string) error {
	if err := l.store.Del(ctx, key); err != nil {
		return fmt.Errorf("ошибка при снятии блокировки %s: %w", key, err)
	}
	return nil
}
