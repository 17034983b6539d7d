package reconcile

import (
	"context"
	"sync"
	"time"

	"sekolah/pkg/redis"
)

// Locker serializes work per key. Reconciliation for one order_id
// must be single-writer: webhook delivery and manual polling can
// race.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func() error) error
}

// RedisLocker serializes across processes with a redis mutex.
type RedisLocker struct {
	client *redis.RedisClient
	ttl    time.Duration
}

// NewRedisLocker builds a locker; ttl bounds how long a crashed
// holder can block an order.
func NewRedisLocker(client *redis.RedisClient, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisLocker{client: client, ttl: ttl}
}

// WithLock runs fn while holding the distributed lock on key.
func (l *RedisLocker) WithLock(ctx context.Context, key string, fn func() error) error {
	mutex := redis.NewMutex(l.client, key, l.ttl)
	if err := mutex.Acquire(ctx); err != nil {
		return err
	}
	defer func() {
		_ = mutex.Release(context.WithoutCancel(ctx))
	}()

	return fn()
}

// LocalLocker serializes within one process only. Used by the test
// suite and by single-instance deployments without redis.
type LocalLocker struct {
	locks sync.Map
}

// NewLocalLocker builds an in-process locker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{}
}

// WithLock runs fn while holding an in-process mutex on key.
func (l *LocalLocker) WithLock(_ context.Context, key string, fn func() error) error {
	mu, _ := l.locks.LoadOrStore(key, &sync.Mutex{})
	mutex := mu.(*sync.Mutex)
	mutex.Lock()
	defer mutex.Unlock()

	return fn()
}
