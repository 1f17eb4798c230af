package config

import (
	"time"
)

// Environment variables read by parseEnv.
const (
	EnvHTTPAddr       = "HTTP_ADDR"
	EnvDatabaseDriver = "DATABASE_DRIVER"
	EnvDatabaseURL    = "DATABASE_URL"
	EnvRPCTimeout     = "RPC_TIMEOUT"
	EnvLogLevel       = "LOG_LEVEL"
	EnvLogFormat      = "LOG_FORMAT"
	EnvLogBackend     = "LOG_BACKEND"
	EnvRPCURL         = "BTC_RPC_URL"
	EnvRPCUser        = "BTC_RPC_USER"
	EnvRPCPassword    = "BTC_RPC_PASS"
	EnvNetwork        = "BTC_NETWORK"
)

// env returns the variable's value, or def when it is unset or empty.
func env(getenv func(string) string, key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

// parseEnv overlays environment variables. RPC_TIMEOUT takes a Go duration;
// a malformed value is ignored.
func parseEnv(config *Config, getenv func(string) string) {
	if getenv == nil {
		return
	}
	config.HTTPAddr = env(getenv, EnvHTTPAddr, config.HTTPAddr)
	config.DatabaseDriver = env(getenv, EnvDatabaseDriver, config.DatabaseDriver)
	config.DatabaseDSN = env(getenv, EnvDatabaseURL, config.DatabaseDSN)
	if d, err := time.ParseDuration(getenv(EnvRPCTimeout)); err == nil && d > 0 {
		config.RPCTimeout = d
	}
	config.LogLevel = env(getenv, EnvLogLevel, config.LogLevel)
	config.LogFormat = env(getenv, EnvLogFormat, config.LogFormat)
	config.LogBackend = env(getenv, EnvLogBackend, config.LogBackend)

	config.Bootstrap.RPCURL = env(getenv, EnvRPCURL, config.Bootstrap.RPCURL)
	config.Bootstrap.RPCUser = env(getenv, EnvRPCUser, config.Bootstrap.RPCUser)
	config.Bootstrap.RPCPassword = env(getenv, EnvRPCPassword, config.Bootstrap.RPCPassword)
	config.Bootstrap.Network = env(getenv, EnvNetwork, config.Bootstrap.Network)
}
