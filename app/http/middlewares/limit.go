package middlewares

import (
	"net/http"
	"sync"
	"time"

	"sekolah/pkg/app"
	"sekolah/pkg/limiter"
	"sekolah/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"golang.org/x/time/rate"
)

const (
	// DefaultBurst allows short spikes through
	DefaultBurst = 100
)

var (
	// in-process limiter cache
	limiters sync.Map
	// last-seen timestamps for cleanup
	lastCleanup sync.Map
	cleanupOnce sync.Once
)

// RateLimitConfig configures one limiter
type RateLimitConfig struct {
	Limit string
	Burst int
}

// LimitIP rate limits by client IP.
//
// Supported limit formats:
// - 5 reqs/second:   "5-S"
// - 10 reqs/minute:  "10-M"
// - 1000 reqs/hour:  "1000-H"
// - 2000 reqs/day:   "2000-D"
func LimitIP(limit string) gin.HandlerFunc {
	if app.IsTesting() {
		limit = "1000000-H"
	}

	config := RateLimitConfig{
		Limit: limit,
		Burst: DefaultBurst,
	}

	return createLimiterHandler(func(c *gin.Context) string {
		return limiter.GetKeyIP(c)
	}, config)
}

// LimitPerRoute rate limits by IP plus route path.
func LimitPerRoute(limit string) gin.HandlerFunc {
	if app.IsTesting() {
		limit = "1000000-H"
	}

	config := RateLimitConfig{
		Limit: limit,
		Burst: DefaultBurst,
	}

	return createLimiterHandler(func(c *gin.Context) string {
		return limiter.GetKeyRouteWithIP(c)
	}, config)
}

func createLimiterHandler(keyFunc func(*gin.Context) string, config RateLimitConfig) gin.HandlerFunc {
	cleanupOnce.Do(func() {
		go cleanupLimiters()
	})

	return func(c *gin.Context) {
		key := keyFunc(c)

		lim, err := getLimiter(key, config)
		if err != nil {
			logger.ErrorString("limiter", "create", err.Error())
			// degrade open: a broken limiter must not take the API down
			c.Next()
			return
		}

		lastCleanup.Store(key, time.Now())

		if !lim.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    429,
				"message": "too many requests, please retry later",
				"error":   "Too Many Requests",
			})
			return
		}

		setRateLimitHeaders(c, lim)

		c.Next()
	}
}

func getLimiter(key string, config RateLimitConfig) (*rate.Limiter, error) {
	if lim, exists := limiters.Load(key); exists {
		return lim.(*rate.Limiter), nil
	}

	r, err := limiter.ParseLimit(config.Limit)
	if err != nil {
		return nil, err
	}

	lim := rate.NewLimiter(rate.Limit(r.Rate), config.Burst)

	actual, _ := limiters.LoadOrStore(key, lim)
	return actual.(*rate.Limiter), nil
}

func setRateLimitHeaders(c *gin.Context, lim *rate.Limiter) {
	c.Header("X-RateLimit-Limit", cast.ToString(float64(lim.Limit())))
	c.Header("X-RateLimit-Remaining", cast.ToString(int(lim.Tokens())))
	c.Header("X-RateLimit-Reset", cast.ToString(time.Now().Add(time.Second).Unix()))
}

// cleanupLimiters drops limiters idle for over 24h.
func cleanupLimiters() {
	ticker := time.NewTicker(1 * time.Hour)
	for range ticker.C {
		now := time.Now()
		limiters.Range(func(key, value interface{}) bool {
			lastAccess, _ := lastCleanup.Load(key)
			if lastAccess == nil {
				lastCleanup.Store(key, now)
				return true
			}

			if now.Sub(lastAccess.(time.Time)) > 24*time.Hour {
				limiters.Delete(key)
				lastCleanup.Delete(key)
			}
			return true
		})
	}
}
