// Package admin exposes the back-office payment operations.
package admin

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"sekolah/app/repositories"
	"sekolah/app/requests"
	"sekolah/pkg/logger"
	"sekolah/pkg/queue"
	"sekolah/pkg/reconcile"
	"sekolah/pkg/response"
)

// PaymentAdminController handles refunds, summaries and the pending
// sweep.
type PaymentAdminController struct {
	engine *reconcile.Engine
	queue  *queue.QueueService
}

func NewPaymentAdminController(engine *reconcile.Engine, q *queue.QueueService) *PaymentAdminController {
	return &PaymentAdminController{
		engine: engine,
		queue:  q,
	}
}

// Show returns any payment by id, with items and audit trail.
// GET /v1/admin/payments/:id
func (ac *PaymentAdminController) Show(c *gin.Context) {
	payments := repositories.NewPaymentRepository()
	p, err := payments.GetByID(c.Request.Context(), cast.ToUint64(c.Param("id")))
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Data(c, p)
}

// Refund pushes a refund to the gateway and records the outcome.
// POST /v1/admin/payments/:id/refund
func (ac *PaymentAdminController) Refund(c *gin.Context) {
	req, err := requests.ValidateRefund(c)
	if err != nil {
		var vErr requests.ValidationError
		if errors.As(err, &vErr) {
			response.ValidationError(c, vErr.Errors)
			return
		}
		response.BadRequest(c, err)
		return
	}

	p, err := ac.engine.Refund(c.Request.Context(), cast.ToUint64(c.Param("id")), req.Reason)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Data(c, p)
}

// Summary aggregates payments per status plus queue throughput.
// GET /v1/admin/payments/summary
func (ac *PaymentAdminController) Summary(c *gin.Context) {
	payments := repositories.NewPaymentRepository()
	rows, err := payments.Summary(c.Request.Context())
	if err != nil {
		response.AppError(c, err)
		return
	}

	data := gin.H{"statuses": rows}
	if ac.queue != nil {
		data["queue"] = ac.queue.Metrics().Snapshot()
	}
	response.Data(c, data)
}

// Sweep enqueues a status sync for every payment still pending, so
// orders that expired without a webhook get resolved.
// POST /v1/admin/payments/sweep
func (ac *PaymentAdminController) Sweep(c *gin.Context) {
	payments := repositories.NewPaymentRepository()
	orderIDs, err := payments.PendingOrderIDs(c.Request.Context())
	if err != nil {
		response.AppError(c, err)
		return
	}

	now := time.Now()
	enqueued := 0
	for _, orderID := range orderIDs {
		job := &queue.SyncJob{OrderID: orderID, EnqueuedAt: now}
		if err := ac.queue.Push(c.Request.Context(), job); err != nil {
			logger.Error("admin",
				zap.String("event", "sweep_enqueue_failed"),
				zap.String("order_id", orderID),
				zap.Error(err),
			)
			continue
		}
		enqueued++
	}

	response.Data(c, gin.H{
		"pending":  len(orderIDs),
		"enqueued": enqueued,
	})
}
