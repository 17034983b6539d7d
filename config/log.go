package config

import "sekolah/pkg/config"

func init() {
	config.Add("log", func() map[string]interface{} {
		return map[string]interface{}{

			// log level: debug, info, warn, error, fatal
			"level": config.Env("LOG_LEVEL", "info"),

			// log type: single file or daily rotation
			"type": config.Env("LOG_TYPE", "daily"),

			// rotation settings (lumberjack)
			"filename":   config.Env("LOG_NAME", "storage/logs/logs.log"),
			"max_size":   config.Env("LOG_MAX_SIZE", 64),
			"max_backup": config.Env("LOG_MAX_BACKUP", 5),
			"max_age":    config.Env("LOG_MAX_AGE", 30),
			"compress":   config.Env("LOG_COMPRESS", false),
		}
	})
}
