// Package config site configuration
package config

import "sekolah/pkg/config"

func init() {
	config.Add("app", func() map[string]interface{} {
		return map[string]interface{}{

			// application name
			"name": config.Env("APP_NAME", "Sekolah"),

			// environment: local, stage, production, testing
			"env": config.Env("APP_ENV", "production"),

			// debug mode
			"debug": config.Env("APP_DEBUG", false),

			// HTTP listen port
			"port": config.Env("APP_PORT", "3000"),

			// timezone used for paid_at / expiry timestamps
			"timezone": config.Env("TIMEZONE", "Asia/Jakarta"),

			// rate limit defaults, requests per hour
			"api_rate_limit": config.Env("API_RATE_LIMIT", "100"),
		}
	})
}
