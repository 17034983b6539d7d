// Package config holds the per-concern configuration registrars.
package config

// Initialize triggers the init() registrations in this package. Call
// before pkg/config.InitConfig.
func Initialize() {
}
