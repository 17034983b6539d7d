package queue

import (
	"sync/atomic"
	"time"
)

// MetricOperation names a counted operation
type MetricOperation string

const (
	OpPush    MetricOperation = "push"
	OpProcess MetricOperation = "process"
)

// QueueMetrics collects queue counters. Cheap atomics only; scraped
// via Snapshot for the admin summary.
type QueueMetrics struct {
	totalJobs      atomic.Int64
	successfulJobs atomic.Int64
	failedJobs     atomic.Int64

	processedJobs atomic.Int64
	processedMs   atomic.Int64
}

// NewQueueMetrics builds an empty collector.
func NewQueueMetrics() *QueueMetrics {
	return &QueueMetrics{}
}

// RecordSuccess counts a successful operation.
func (m *QueueMetrics) RecordSuccess(op MetricOperation) {
	m.successfulJobs.Add(1)
	m.totalJobs.Add(1)
}

// RecordError counts a failed operation.
func (m *QueueMetrics) RecordError(op MetricOperation) {
	m.failedJobs.Add(1)
	m.totalJobs.Add(1)
}

// RecordProcessingTime tracks how long one job took.
func (m *QueueMetrics) RecordProcessingTime(duration time.Duration) {
	m.processedJobs.Add(1)
	m.processedMs.Add(duration.Milliseconds())
}

// Snapshot is a point-in-time view of the counters.
type Snapshot struct {
	Total           int64 `json:"total"`
	Successful      int64 `json:"successful"`
	Failed          int64 `json:"failed"`
	AvgProcessingMs int64 `json:"avg_processing_ms"`
}

// Snapshot reads the counters.
func (m *QueueMetrics) Snapshot() Snapshot {
	snap := Snapshot{
		Total:      m.totalJobs.Load(),
		Successful: m.successfulJobs.Load(),
		Failed:     m.failedJobs.Load(),
	}
	if processed := m.processedJobs.Load(); processed > 0 {
		snap.AvgProcessingMs = m.processedMs.Load() / processed
	}
	return snap
}
