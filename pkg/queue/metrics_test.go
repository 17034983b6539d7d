package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsCounts(t *testing.T) {
	m := NewQueueMetrics()

	m.RecordSuccess(OpPush)
	m.RecordSuccess(OpProcess)
	m.RecordError(OpProcess)
	m.RecordProcessingTime(50 * time.Millisecond)
	m.RecordProcessingTime(150 * time.Millisecond)

	snap := m.Snapshot()
	assert.EqualValues(t, 3, snap.Total)
	assert.EqualValues(t, 2, snap.Successful)
	assert.EqualValues(t, 1, snap.Failed)
	assert.EqualValues(t, 100, snap.AvgProcessingMs)
}

func TestMetricsAverageWithoutSamples(t *testing.T) {
	snap := NewQueueMetrics().Snapshot()
	assert.Zero(t, snap.AvgProcessingMs)
}

func TestMetricsConcurrentUpdates(t *testing.T) {
	m := NewQueueMetrics()

	const writers = 16
	const perWriter = 100

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				m.RecordSuccess(OpProcess)
			}
		}()
	}
	wg.Wait()

	snap := m.Snapshot()
	assert.EqualValues(t, writers*perWriter, snap.Successful)
}
