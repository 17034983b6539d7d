package bootstrap

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"sekolah/app/http/controllers/api/v1/payment"
	"sekolah/app/http/middlewares"
	"sekolah/pkg/queue"
	"sekolah/pkg/reconcile"
	"sekolah/routes"
)

// SetupRoute configures global middleware, the API routes and the
// 404 handler.
func SetupRoute(router *gin.Engine, engine *reconcile.Engine, verifier payment.SignatureVerifier, q *queue.QueueService) {
	registerGlobalMiddleWare(router)

	routes.RegisterAPIRoutes(router, engine, verifier, q)

	setup404Handler(router)
}

func registerGlobalMiddleWare(router *gin.Engine) {
	router.Use(
		middlewares.Logger(),
		middlewares.Recovery(),
	)
}

func setup404Handler(router *gin.Engine) {
	router.NoRoute(func(c *gin.Context) {
		acceptString := c.Request.Header.Get("Accept")

		if strings.Contains(acceptString, "text/html") {
			c.String(http.StatusNotFound, "404 not found")
		} else {
			c.JSON(http.StatusNotFound, gin.H{
				"error_code":    404,
				"error_message": "route not found, check the url and request method",
			})
		}
	})
}
