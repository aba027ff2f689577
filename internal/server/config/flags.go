package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/farmportal/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-g string   gRPC health bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-s string   session signing secret
//	-t int      session lifetime, minutes
//	-r string   Redis address for OAuth state
//	-l string   log level
//
// args are filtered through flagx.FilterArgs first so flags owned by other
// components (such as -c) do not cause parse errors.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-d", "-s", "-t", "-r", "-l"})

	fs := flag.NewFlagSet("farmportal", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to serve HTTP on")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "address and port to serve gRPC health on")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SessionSecret, "s", config.SessionSecret, "session signing secret")
	sessionTTL := fs.Int("t", int(config.SessionTTL.Minutes()), "session lifetime (in minutes)")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address for OAuth state")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Minute granularity would truncate a finer TTL from JSON or env, so
	// only an explicit -t overrides it.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.SessionTTL = time.Duration(*sessionTTL) * time.Minute
		}
	})
}
