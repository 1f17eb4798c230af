// Package config handles configuration for the server component: defaults,
// an optional JSON file, environment variables and command-line flags,
// applied in that order.
package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the nodekeeper server.
//
// Bootstrap describes a node profile that is created, and therefore made
// active, when the store is empty at startup. It is ignored when RPCURL is
// empty.
type Config struct {
	HTTPAddr        string
	DatabaseDriver  string
	DatabaseDSN     string
	RPCTimeout      time.Duration
	ShutdownTimeout time.Duration
	LogLevel        string
	LogFormat       string
	LogBackend      string
	Bootstrap       Bootstrap
}

type Bootstrap struct {
	Name        string
	RPCURL      string
	RPCUser     string
	RPCPassword string
	Network     string
}

// DefaultDSN is a local SQLite file. BEGIN IMMEDIATE and the busy timeout
// serialize concurrent writers.
const DefaultDSN = "file:nodekeeper.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"

// LoadDefaults populates Config with local development defaults.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = "127.0.0.1:3000"
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = DefaultDSN
	c.RPCTimeout = 10 * time.Second
	c.ShutdownTimeout = 10 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "json"
	c.LogBackend = "slog"
	c.Bootstrap = Bootstrap{Name: "default", Network: "mainnet"}
}

// Load builds a Config from defaults, then the JSON file named by -c/-config
// in args, then the environment, then the flags in args.
func Load(args []string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	parseEnv(cfg, getenv)
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over the process arguments and environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:], os.Getenv)
}
