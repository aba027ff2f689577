package config

import (
	"strconv"
	"time"
)

// envPrefix namespaces every environment variable the server reads.
const envPrefix = "FARMPORTAL_"

// lookupFunc matches os.LookupEnv.
type lookupFunc func(key string) (string, bool)

// parseEnv overlays FARMPORTAL_* variables. Secrets are expected to arrive
// this way rather than through flags. Unparseable numbers and durations are
// ignored and the previous value is kept.
func parseEnv(config *Config, lookup lookupFunc) {
	getenv := func(key string, dst *string) {
		if v, ok := lookup(envPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	getenvDuration := func(key string, dst *time.Duration) {
		v, ok := lookup(envPrefix + key)
		if !ok || v == "" {
			return
		}
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}

	getenv("HTTP_ADDR", &config.HTTPAddr)
	getenv("GRPC_ADDR", &config.GRPCAddr)
	getenv("DATABASE_DSN", &config.DatabaseDSN)
	if v, ok := lookup(envPrefix + "MAX_OPEN_CONNS"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.MaxOpenConns = n
		}
	}
	getenv("SESSION_SECRET", &config.SessionSecret)
	getenvDuration("SESSION_TTL", &config.SessionTTL)
	getenvDuration("SESSION_REVALIDATE_INTERVAL", &config.SessionRevalidateInterval)
	getenvDuration("SESSION_SWEEP_INTERVAL", &config.SessionSweepInterval)
	getenv("GOOGLE_CLIENT_ID", &config.GoogleClientID)
	getenv("GOOGLE_CLIENT_SECRET", &config.GoogleClientSecret)
	getenv("GOOGLE_REDIRECT_URL", &config.GoogleRedirectURL)
	getenv("OAUTH_FAILURE_URL", &config.OAuthFailureURL)
	getenvDuration("OAUTH_STATE_TTL", &config.OAuthStateTTL)
	getenv("REDIS_ADDR", &config.RedisAddr)
	getenv("REDIS_PASSWORD", &config.RedisPassword)
	getenvDuration("HEALTH_CHECK_INTERVAL", &config.HealthCheckInterval)
	getenv("LOG_LEVEL", &config.LogLevel)
}
