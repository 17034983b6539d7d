package bootstrap

import (
	"fmt"

	"sekolah/pkg/config"
	"sekolah/pkg/redis"
)

// SetupRedis connects the main and queue redis databases.
func SetupRedis() {
	redis.InitRedis(
		fmt.Sprintf("%v:%v", config.GetString("redis.host"), config.GetString("redis.port")),
		config.GetString("redis.username"),
		config.GetString("redis.password"),
		config.GetInt("redis.database"),
		config.GetInt("redis.queue_database"),
	)
}
