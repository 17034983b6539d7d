package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

// Lock errors
var (
	ErrLockNotAcquired = errors.New("redis lock: not acquired")
)

// releaseScript deletes the lock only when the caller still owns it.
var releaseScript = redislib.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

// Mutex is a distributed lock on one key, used to serialize
// reconciliation per order_id across webhook delivery and manual
// polling.
type Mutex struct {
	client *RedisClient
	key    string
	token  string
	ttl    time.Duration
}

// NewMutex builds a lock handle; Acquire must be called before the
// critical section.
func NewMutex(client *RedisClient, key string, ttl time.Duration) *Mutex {
	return &Mutex{
		client: client,
		key:    "lock:" + key,
		ttl:    ttl,
	}
}

// Acquire takes the lock, retrying with a short backoff until ctx is
// done.
func (m *Mutex) Acquire(ctx context.Context) error {
	token := make([]byte, 16)
	if _, err := rand.Read(token); err != nil {
		return err
	}
	m.token = hex.EncodeToString(token)

	backoff := 20 * time.Millisecond
	for {
		ok, err := m.client.Client.SetNX(ctx, m.key, m.token, m.ttl).Result()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return ErrLockNotAcquired
		case <-time.After(backoff):
		}
		if backoff < 200*time.Millisecond {
			backoff *= 2
		}
	}
}

// Release drops the lock if this holder still owns it.
func (m *Mutex) Release(ctx context.Context) error {
	return releaseScript.Run(ctx, m.client.Client, []string{m.key}, m.token).Err()
}
