// Package app provides application level helpers.
package app

import (
	"time"

	"sekolah/pkg/config"
)

// IsLocal reports whether the app runs in the local environment.
func IsLocal() bool {
	return config.Get("app.env") == "local"
}

// IsProduction reports whether the app runs in production.
func IsProduction() bool {
	return config.Get("app.env") == "production"
}

// IsTesting reports whether the app runs in the testing environment.
func IsTesting() bool {
	return config.Get("app.env") == "testing"
}

// TimenowInTimezone returns the current time in the configured
// app.timezone location.
func TimenowInTimezone() time.Time {
	loc, _ := time.LoadLocation(config.GetString("app.timezone"))
	return time.Now().In(loc)
}
