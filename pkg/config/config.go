// Package config manages application configuration on top of viper.
// Config sections register themselves via Add(); values come from env
// variables (optionally loaded from an .env file) with code defaults.
package config

import (
	"os"

	"github.com/spf13/cast"
	viperlib "github.com/spf13/viper"
)

// viper instance shared by the whole application
var viper *viperlib.Viper

// ConfigFunc lazily produces one configuration section
type ConfigFunc func() map[string]interface{}

// ConfigFuncs holds every registered section keyed by name
var ConfigFuncs map[string]ConfigFunc

func init() {
	viper = viperlib.New()
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("APPENV")
	viper.AutomaticEnv()

	ConfigFuncs = make(map[string]ConfigFunc)
}

// InitConfig reads the .env file (if any) and materializes all
// registered sections. envSuffix selects .env.<suffix> for multi
// environment setups, e.g. --env=testing loads .env.testing.
func InitConfig(envSuffix string) {
	loadEnv(envSuffix)
	loadConfig()
}

func loadConfig() {
	for name, fn := range ConfigFuncs {
		viper.Set(name, fn())
	}
}

func loadEnv(envSuffix string) {
	envPath := ".env"
	if len(envSuffix) > 0 {
		filepath := ".env." + envSuffix
		if _, err := os.Stat(filepath); err == nil {
			envPath = filepath
		}
	}

	viper.SetConfigName(envPath)
	// a missing .env file is fine, real env vars still apply
	_ = viper.ReadInConfig()

	viper.WatchConfig()
}

// Env reads an environment variable with an optional default value.
func Env(envName string, defaultValue ...interface{}) interface{} {
	if len(defaultValue) > 0 {
		return internalGet(envName, defaultValue[0])
	}
	return internalGet(envName)
}

// Add registers a configuration section.
func Add(name string, configFn ConfigFunc) {
	ConfigFuncs[name] = configFn
}

// Get fetches a config value as string, path is dot separated,
// e.g. "app.name".
func Get(path string, defaultValue ...interface{}) string {
	return GetString(path, defaultValue...)
}

func internalGet(path string, defaultValue ...interface{}) interface{} {
	if !viper.IsSet(path) || helperEmpty(viper.Get(path)) {
		if len(defaultValue) > 0 {
			return defaultValue[0]
		}
		return nil
	}
	return viper.Get(path)
}

// GetString fetches a string config value.
func GetString(path string, defaultValue ...interface{}) string {
	return cast.ToString(internalGet(path, defaultValue...))
}

// GetInt fetches an int config value.
func GetInt(path string, defaultValue ...interface{}) int {
	return cast.ToInt(internalGet(path, defaultValue...))
}

// GetInt64 fetches an int64 config value.
func GetInt64(path string, defaultValue ...interface{}) int64 {
	return cast.ToInt64(internalGet(path, defaultValue...))
}

// GetUint fetches a uint config value.
func GetUint(path string, defaultValue ...interface{}) uint {
	return cast.ToUint(internalGet(path, defaultValue...))
}

// GetBool fetches a bool config value.
func GetBool(path string, defaultValue ...interface{}) bool {
	return cast.ToBool(internalGet(path, defaultValue...))
}

// GetStringMapString fetches a map config value.
func GetStringMapString(path string) map[string]string {
	return viper.GetStringMapString(path)
}

func helperEmpty(val interface{}) bool {
	switch v := val.(type) {
	case string:
		return v == ""
	case bool:
		return !v
	default:
		return val == nil
	}
}
