package middlewares

import (
	"time"

	"sekolah/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger records one structured log line per request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		cost := time.Since(start)
		responStatus := c.Writer.Status()

		logFields := []zap.Field{
			zap.Int("status", responStatus),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
			zap.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()),
			zap.String("time", cost.String()),
		}

		if responStatus > 400 && responStatus <= 499 {
			logger.Warn("HTTP Warning "+c.Request.Method, logFields...)
		} else if responStatus >= 500 {
			logger.Error("HTTP Error "+c.Request.Method, logFields...)
		} else {
			logger.Debug("HTTP Access Log", logFields...)
		}
	}
}
