package config

import (
	"sekolah/pkg/config"
)

func init() {
	config.Add("redis", func() map[string]interface{} {
		return map[string]interface{}{
			"host":     config.Env("REDIS_HOST", "127.0.0.1"),
			"port":     config.Env("REDIS_PORT", "6379"),
			"username": config.Env("REDIS_USERNAME", ""),
			"password": config.Env("REDIS_PASSWORD", ""),

			// business state (reconciliation locks, rate limiting)
			"database": config.Env("REDIS_MAIN_DB", 1),

			// sync-job queue
			"queue_database": config.Env("REDIS_QUEUE_DB", 2),
			"queue_prefix":   config.Env("REDIS_QUEUE_PREFIX", "sekolah:queue"),

			// seconds a reconciliation lock may be held before it expires
			"lock_ttl": config.Env("REDIS_LOCK_TTL", 30),
		}
	})
}
