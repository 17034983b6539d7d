package config

import "sekolah/pkg/config"

func init() {
	config.Add("queue", func() map[string]interface{} {
		return map[string]interface{}{
			"worker_count": config.Env("QUEUE_WORKER_COUNT", 4),
			"rate_limit":   config.Env("QUEUE_RATE_LIMIT", 12),
			"rate_burst":   config.Env("QUEUE_RATE_BURST", 50),
		}
	})
}
