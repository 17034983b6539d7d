package config

import "sekolah/pkg/config"

func init() {
	config.Add("midtrans", func() map[string]interface{} {
		return map[string]interface{}{
			"server_key":    config.Env("MIDTRANS_SERVER_KEY", ""),
			"client_key":    config.Env("MIDTRANS_CLIENT_KEY", ""),
			"is_production": config.Env("MIDTRANS_IS_PRODUCTION", false),

			// where the hosted checkout redirects after payment
			"finish_url": config.Env("MIDTRANS_FINISH_URL", ""),

			// request timeout in seconds; a timed-out call is treated
			// the same as a failed one
			"timeout": config.Env("MIDTRANS_TIMEOUT", 15),

			// checkout validity in hours
			"expiry_hours": config.Env("MIDTRANS_EXPIRY_HOURS", 24),
		}
	})
}

// MidtransConfig is the injected gateway configuration. Built in
// bootstrap from the section above and passed to the adapter
// constructor; the adapter never reads ambient config.
type MidtransConfig struct {
	ServerKey    string
	ClientKey    string
	IsProduction bool
	FinishURL    string
	Timeout      int
	ExpiryHours  int
}
