/*
Package redis provides the shared Redis connections.

Two logical instances are kept apart: MainDB for business state
(reconciliation locks, rate limiting) and QueueDB for the sync-job
queue.
*/
package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const (
	// DefaultPoolSize is the connection pool size per instance
	DefaultPoolSize = 100
	// DefaultTimeout bounds every helper operation
	DefaultTimeout = 5 * time.Second
	// DefaultMinIdleConns keeps warm connections around
	DefaultMinIdleConns = 10
	// DefaultMaxRetries for transient command failures
	DefaultMaxRetries = 3
	// DefaultIdleTimeout recycles idle connections
	DefaultIdleTimeout = 5 * time.Minute
)

// RedisInstance names a logical database
type RedisInstance string

const (
	MainDB  RedisInstance = "main"  // business state, locks, limits
	QueueDB RedisInstance = "queue" // sync-job queue
)

// RedisClient wraps one go-redis client
type RedisClient struct {
	Client  *redis.Client
	Context context.Context
}

// RedisConfig holds connection settings for one instance
type RedisConfig struct {
	Address      string
	Username     string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	Timeout      time.Duration
}

var (
	once      sync.Once
	instances map[RedisInstance]*RedisClient
	mu        sync.RWMutex
)

// InitRedis connects the main and queue instances.
func InitRedis(address, username, password string, mainDB, queueDB int) {
	once.Do(func() {
		instances = make(map[RedisInstance]*RedisClient)
		instances[MainDB] = NewClient(RedisConfig{
			Address:      address,
			Username:     username,
			Password:     password,
			DB:           mainDB,
			PoolSize:     DefaultPoolSize,
			MinIdleConns: DefaultMinIdleConns,
			Timeout:      DefaultTimeout,
		})
		instances[QueueDB] = NewClient(RedisConfig{
			Address:      address,
			Username:     username,
			Password:     password,
			DB:           queueDB,
			PoolSize:     DefaultPoolSize,
			MinIdleConns: DefaultMinIdleConns,
			Timeout:      DefaultTimeout,
		})
	})
}

// GetRedis returns the client for a logical instance, nil when
// InitRedis was never called (tests without Redis).
func GetRedis(name RedisInstance) *RedisClient {
	mu.RLock()
	defer mu.RUnlock()
	if instances == nil {
		return nil
	}
	return instances[name]
}

// NewClient builds one configured client and verifies the
// connection.
func NewClient(config RedisConfig) *RedisClient {
	rds := &RedisClient{
		Context: context.Background(),
	}

	rds.Client = redis.NewClient(&redis.Options{
		Addr:         config.Address,
		Username:     config.Username,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,

		PoolTimeout:     config.Timeout,
		ConnMaxIdleTime: DefaultIdleTimeout,
		ConnMaxLifetime: 24 * time.Hour,

		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,

		MaxRetries:      DefaultMaxRetries,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
	})

	if err := rds.Ping(); err != nil {
		panic(fmt.Sprintf("redis connect failed: %v", err))
	}

	return rds
}

// Ping verifies the connection.
func (rds *RedisClient) Ping() error {
	ctx, cancel := context.WithTimeout(rds.Context, DefaultTimeout)
	defer cancel()

	_, err := rds.Client.Ping(ctx).Result()
	return err
}
