package bootstrap

import (
	"fmt"
	"time"

	appConfig "sekolah/config"
	"sekolah/pkg/config"
	"sekolah/pkg/database"
	"sekolah/pkg/gateway/midtrans"
	"sekolah/pkg/logger"
	"sekolah/pkg/reconcile"
	"sekolah/pkg/redis"
)

// SetupGateway builds the Midtrans client from config. Returns nil
// when the server key is missing so the caller can refuse to start.
func SetupGateway() *midtrans.Client {
	serverKey := config.GetString("midtrans.server_key")
	if serverKey == "" {
		logger.ErrorString("gateway", "config", "MIDTRANS_SERVER_KEY is not set")
		return nil
	}

	client := midtrans.NewClient(appConfig.MidtransConfig{
		ServerKey:    serverKey,
		ClientKey:    config.GetString("midtrans.client_key"),
		IsProduction: config.GetBool("midtrans.is_production"),
		FinishURL:    config.GetString("midtrans.finish_url"),
		Timeout:      config.GetInt("midtrans.timeout"),
		ExpiryHours:  config.GetInt("midtrans.expiry_hours"),
	})

	logger.InfoString("gateway", "setup", fmt.Sprintf(
		"midtrans client ready [production: %v]",
		config.GetBool("midtrans.is_production"),
	))
	return client
}

// SetupEngine wires the reconciliation engine: database, gateway and
// the redis lock that serializes per-order updates.
func SetupEngine(gw *midtrans.Client) *reconcile.Engine {
	lockTTL := time.Duration(config.GetInt("redis.lock_ttl", 30)) * time.Second
	locker := reconcile.NewRedisLocker(redis.GetRedis(redis.MainDB), lockTTL)

	return reconcile.NewEngine(database.DB, gw, locker)
}
