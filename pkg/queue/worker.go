package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sekolah/pkg/errs"
	"sekolah/pkg/logger"
)

// Syncer is the unit of work a worker performs per job. Satisfied by
// the reconciliation engine.
type Syncer interface {
	SyncOrder(ctx context.Context, orderID string) error
}

// Worker is a pool of goroutines draining the sync queue.
type Worker struct {
	queueService *QueueService
	syncer       Syncer
	stopChan     chan struct{}
	workerCount  int
	metrics      *QueueMetrics
	wg           sync.WaitGroup
	config       WorkerConfig
}

// WorkerConfig sizes the pool.
type WorkerConfig struct {
	WorkerCount     int
	JobTimeout      time.Duration
	ShutdownTimeout time.Duration
}

// NewWorker builds the pool.
func NewWorker(qs *QueueService, syncer Syncer, config WorkerConfig) *Worker {
	if config.WorkerCount <= 0 {
		config.WorkerCount = 4
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = 30 * time.Second
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 30 * time.Second
	}

	return &Worker{
		queueService: qs,
		syncer:       syncer,
		stopChan:     make(chan struct{}),
		workerCount:  config.WorkerCount,
		metrics:      qs.Metrics(),
		config:       config,
	}
}

// Start launches the worker goroutines.
func (w *Worker) Start() {
	for i := 0; i < w.workerCount; i++ {
		w.wg.Add(1)
		go w.startWorker(i)
	}
}

func (w *Worker) startWorker(id int) {
	defer w.wg.Done()

	logger.InfoString("Worker", "Start", fmt.Sprintf("worker %d started", id))

	for {
		select {
		case <-w.stopChan:
			logger.InfoString("Worker", "Stop", fmt.Sprintf("worker %d stopping", id))
			return
		default:
			if err := w.processNextJob(); err != nil {
				logger.ErrorString("Worker", "Error", fmt.Sprintf("worker %d: %v", id, err))
				time.Sleep(time.Second)
			}
		}
	}
}

func (w *Worker) processNextJob() error {
	ctx, cancel := context.WithTimeout(context.Background(), w.config.JobTimeout)
	defer cancel()

	job, err := w.queueService.Pop(ctx, 2*time.Second)
	if err != nil {
		return fmt.Errorf("pop job: %w", err)
	}
	if job == nil {
		return nil
	}

	return w.handleJob(ctx, job)
}

func (w *Worker) handleJob(ctx context.Context, job *SyncJob) error {
	start := time.Now()
	defer func() {
		w.metrics.RecordProcessingTime(time.Since(start))
	}()

	if err := w.syncer.SyncOrder(ctx, job.OrderID); err != nil {
		// an unmapped status is an alert, not a worker failure: the
		// audit row landed and retrying will not change the verdict
		if errs.IsUnmappedStatus(err) {
			logger.ErrorString("Worker", "UnmappedStatus", err.Error())
			w.metrics.RecordSuccess(OpProcess)
			return nil
		}
		w.metrics.RecordError(OpProcess)
		return fmt.Errorf("sync %s: %w", job.OrderID, err)
	}

	w.metrics.RecordSuccess(OpProcess)
	return nil
}

// Stop drains the pool, waiting up to ShutdownTimeout.
func (w *Worker) Stop() {
	close(w.stopChan)

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.InfoString("Worker", "Stop", "all workers stopped gracefully")
	case <-time.After(w.config.ShutdownTimeout):
		logger.WarnString("Worker", "Stop", "worker shutdown timed out")
	}
}
