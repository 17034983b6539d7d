// Package queue drives bulk status polling. The admin sweep pushes
// pending order ids onto a redis list; workers pop them and run each
// through the reconciliation engine. This is the poll-side answer to
// payments the gateway never calls back about.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"sekolah/pkg/config"
	"sekolah/pkg/redis"
)

// SyncJob is one queued gateway poll.
type SyncJob struct {
	OrderID    string    `json:"order_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// QueueService is the redis-list-backed job queue.
type QueueService struct {
	client      *redis.RedisClient
	prefix      string
	rateLimiter *rate.Limiter
	metrics     *QueueMetrics
}

// NewQueueService builds the queue on the queue redis instance.
func NewQueueService() *QueueService {
	rateLimit := config.GetInt("queue.rate_limit", 12)
	burst := config.GetInt("queue.rate_burst", 50)

	return &QueueService{
		client:      redis.GetRedis(redis.QueueDB),
		prefix:      config.GetString("redis.queue_prefix", "sekolah:queue"),
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), burst),
		metrics:     NewQueueMetrics(),
	}
}

// Metrics exposes the queue counters.
func (q *QueueService) Metrics() *QueueMetrics {
	return q.metrics
}

// Push enqueues one sync job. Rate limited so a large sweep cannot
// hammer redis.
func (q *QueueService) Push(ctx context.Context, job *SyncJob) error {
	if err := q.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit exceeded: %w", err)
	}

	jobJSON, err := json.Marshal(job)
	if err != nil {
		q.metrics.RecordError(OpPush)
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	key := fmt.Sprintf("%s:sync", q.prefix)
	if err := q.client.Client.LPush(ctx, key, jobJSON).Err(); err != nil {
		q.metrics.RecordError(OpPush)
		return fmt.Errorf("failed to push job: %w", err)
	}

	q.metrics.RecordSuccess(OpPush)
	return nil
}

// Pop blocks until a job is available or the timeout elapses.
// Returns nil without error on timeout.
func (q *QueueService) Pop(ctx context.Context, timeout time.Duration) (*SyncJob, error) {
	key := fmt.Sprintf("%s:sync", q.prefix)
	result, err := q.client.Client.BRPop(ctx, timeout, key).Result()
	if err != nil {
		if err == goredis.Nil || err == context.DeadlineExceeded || err == context.Canceled {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to pop job: %w", err)
	}
	if len(result) != 2 {
		return nil, fmt.Errorf("invalid result from queue")
	}

	var job SyncJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}
	return &job, nil
}

// Length reports the number of waiting jobs.
func (q *QueueService) Length(ctx context.Context) (int64, error) {
	key := fmt.Sprintf("%s:sync", q.prefix)
	return q.client.Client.LLen(ctx, key).Result()
}

// Ping checks queue health.
func (q *QueueService) Ping(ctx context.Context) error {
	return q.client.Ping()
}
