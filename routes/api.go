package routes

import (
	"github.com/gin-gonic/gin"

	"sekolah/app/http/controllers/api/v1/admin"
	"sekolah/app/http/controllers/api/v1/payment"
	"sekolah/app/http/middlewares"
	"sekolah/pkg/queue"
	"sekolah/pkg/reconcile"
)

// Rate limits per route class.
const (
	// global per-IP ceiling
	GlobalRateLimit = "10000-H"
	// creating payments hits the gateway, keep it tight
	CreatePaymentLimit = "30-H"
	// reads are cheap
	QueryLimit = "300-M"
	// webhook ingress: the gateway retries, give it headroom
	NotificationLimit = "600-M"
)

// RegisterAPIRoutes registers the whole API surface.
func RegisterAPIRoutes(r *gin.Engine, engine *reconcile.Engine, verifier payment.SignatureVerifier, q *queue.QueueService) {
	v1 := r.Group("/v1")

	v1.Use(
		middlewares.Recovery(),
		middlewares.SecurityHeaders(),
		middlewares.LimitIP(GlobalRateLimit),
		middlewares.Cors(),
	)

	paymentRoutes := v1.Group("/payments")
	{
		pc := payment.NewPaymentController(engine, verifier)

		// gateway webhook, authenticated by signature instead of user
		// POST /v1/payments/notification
		paymentRoutes.POST("/notification",
			middlewares.LimitPerRoute(NotificationLimit),
			pc.Notification,
		)

		owner := paymentRoutes.Group("", middlewares.RequireUser())
		{
			// POST /v1/payments
			owner.POST("",
				middlewares.LimitPerRoute(CreatePaymentLimit),
				pc.Store,
			)

			// GET /v1/payments
			owner.GET("",
				middlewares.LimitPerRoute(QueryLimit),
				pc.Index,
			)

			// GET /v1/payments/:id
			owner.GET("/:id",
				middlewares.LimitPerRoute(QueryLimit),
				pc.Show,
			)

			// POST /v1/payments/:id/cancel
			owner.POST("/:id/cancel", pc.Cancel)

			// POST /v1/payments/:id/sync-status
			owner.POST("/:id/sync-status",
				middlewares.LimitPerRoute(QueryLimit),
				pc.SyncStatus,
			)
		}
	}

	adminRoutes := v1.Group("/admin/payments", middlewares.RequireAdmin())
	{
		ac := admin.NewPaymentAdminController(engine, q)

		// GET /v1/admin/payments/summary
		adminRoutes.GET("/summary", ac.Summary)

		// GET /v1/admin/payments/:id
		adminRoutes.GET("/:id", ac.Show)

		// POST /v1/admin/payments/:id/refund
		adminRoutes.POST("/:id/refund", ac.Refund)

		// POST /v1/admin/payments/sweep
		adminRoutes.POST("/sweep", ac.Sweep)
	}
}
