// Package limiter handles rate limit parsing and keying.
package limiter

import (
	"fmt"
	"strconv"
	"strings"

	"sekolah/pkg/logger"

	"github.com/gin-gonic/gin"
	limiterlib "github.com/ulule/limiter/v3"
)

// Rate is a parsed per-second rate
type Rate struct {
	Rate float64
}

// GetKeyIP builds a limiter key from the client IP.
func GetKeyIP(c *gin.Context) string {
	return c.ClientIP()
}

// GetKeyRouteWithIP builds a limiter key from route plus client IP.
func GetKeyRouteWithIP(c *gin.Context) string {
	return routeToKeyString(c.FullPath()) + c.ClientIP()
}

// ParseLimit parses a limit string such as "5-S", "10-M", "1000-H",
// "2000-D" into a per-second rate.
func ParseLimit(limit string) (*Rate, error) {
	// validate the format with the limiter library first
	formatted := strings.ReplaceAll(limit, "-", "/")
	if _, err := limiterlib.NewRateFromFormatted(formatted); err != nil {
		return nil, fmt.Errorf("invalid limit format: %w", err)
	}

	parts := strings.Split(limit, "-")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid limit format: %s", limit)
	}

	value, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid rate value: %s", parts[0])
	}

	var ratePerSecond float64
	switch strings.ToUpper(parts[1]) {
	case "S":
		ratePerSecond = value
	case "M":
		ratePerSecond = value / 60
	case "H":
		ratePerSecond = value / 3600
	case "D":
		ratePerSecond = value / 86400
	default:
		return nil, fmt.Errorf("invalid rate period: %s", parts[1])
	}

	if ratePerSecond <= 0 {
		logger.WarnString("limiter", "ParseLimit", "non-positive rate, falling back to 1/s")
		ratePerSecond = 1
	}

	return &Rate{Rate: ratePerSecond}, nil
}

func routeToKeyString(routeName string) string {
	routeName = strings.ReplaceAll(routeName, "/", "-")
	routeName = strings.ReplaceAll(routeName, ":", "_")
	return routeName
}
