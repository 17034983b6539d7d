package bootstrap

import (
	"sekolah/pkg/config"
	"sekolah/pkg/logger"
)

// SetupLogger initializes the zap logger from the log.* config
// section. Must run before anything that logs.
func SetupLogger() {
	logger.InitLogger(
		config.GetString("log.filename"),
		config.GetInt("log.max_size"),
		config.GetInt("log.max_backup"),
		config.GetInt("log.max_age"),
		config.GetBool("log.compress"),
		config.GetString("log.type"),
		config.GetString("log.level"),
	)
}
