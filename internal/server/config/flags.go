package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/nodekeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP listen address (e.g., "127.0.0.1:3000")
//	-d string   database DSN
//	-D string   database driver: sqlite or pgx
//	-t int      RPC timeout, seconds
//	-l string   log level
//
// Other flags in args are ignored.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-D", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.DatabaseDriver, "D", config.DatabaseDriver, "database driver (sqlite, pgx)")
	rpcTimeout := fs.Int("t", int(config.RPCTimeout.Seconds()), "rpc timeout (in seconds)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	config.RPCTimeout = time.Duration(*rpcTimeout) * time.Second
	return nil
}
