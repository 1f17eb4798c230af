package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/nodekeeper/internal/flagx"
	"github.com/dmitrijs2005/nodekeeper/internal/timex"
)

// JSONConfig is the on-disk shape of Config. Durations accept strings such
// as "10s" or integer nanoseconds. Absent or empty fields keep the value
// already set.
type JSONConfig struct {
	HTTPAddr        string         `json:"http_addr"`
	DatabaseDriver  string         `json:"database_driver"`
	DatabaseDSN     string         `json:"database_dsn"`
	RPCTimeout      timex.Duration `json:"rpc_timeout"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout"`
	LogLevel        string         `json:"log_level"`
	LogFormat       string         `json:"log_format"`
	LogBackend      string         `json:"log_backend"`
	Bootstrap       struct {
		Name        string `json:"name"`
		RPCURL      string `json:"rpc_url"`
		RPCUser     string `json:"rpc_user"`
		RPCPassword string `json:"rpc_password"`
		Network     string `json:"network"`
	} `json:"bootstrap"`
}

// parseJSON overlays the file named by -c or -config. Without either flag it
// does nothing.
func parseJSON(config *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	c := &JSONConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	if c.RPCTimeout.Duration > 0 {
		config.RPCTimeout = c.RPCTimeout.Duration
	}
	if c.ShutdownTimeout.Duration > 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.LogBackend, c.LogBackend)
	setString(&config.Bootstrap.Name, c.Bootstrap.Name)
	setString(&config.Bootstrap.RPCURL, c.Bootstrap.RPCURL)
	setString(&config.Bootstrap.RPCUser, c.Bootstrap.RPCUser)
	setString(&config.Bootstrap.RPCPassword, c.Bootstrap.RPCPassword)
	setString(&config.Bootstrap.Network, c.Bootstrap.Network)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
