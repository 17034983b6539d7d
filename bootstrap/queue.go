package bootstrap

import (
	"time"

	"sekolah/pkg/config"
	"sekolah/pkg/logger"
	"sekolah/pkg/queue"
	"sekolah/pkg/reconcile"
)

// SetupQueue starts the sync-job worker pool and returns the queue
// service (for enqueueing) and the worker (for shutdown).
func SetupQueue(engine *reconcile.Engine) (*queue.QueueService, *queue.Worker) {
	queueService := queue.NewQueueService()

	worker := queue.NewWorker(queueService, engine, queue.WorkerConfig{
		WorkerCount:     config.GetInt("queue.worker_count", 4),
		JobTimeout:      30 * time.Second,
		ShutdownTimeout: 30 * time.Second,
	})

	go worker.Start()

	logger.InfoString("queue", "setup", "sync worker pool started")
	return queueService, worker
}
