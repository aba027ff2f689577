package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/farmportal/internal/flagx"
	"github.com/dmitrijs2005/farmportal/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations use
// timex.Duration, so both "15m" and integer nanoseconds are accepted.
// Only keys present in the file override the current values.
type JsonConfig struct {
	HTTPAddr                  string         `json:"http_addr"`
	GRPCAddr                  string         `json:"grpc_addr"`
	DatabaseDSN               string         `json:"database_dsn"`
	MaxOpenConns              int            `json:"max_open_conns"`
	SessionSecret             string         `json:"session_secret"`
	SessionTTL                timex.Duration `json:"session_ttl"`
	SessionRevalidateInterval timex.Duration `json:"session_revalidate_interval"`
	SessionSweepInterval      timex.Duration `json:"session_sweep_interval"`
	GoogleClientID            string         `json:"google_client_id"`
	GoogleClientSecret        string         `json:"google_client_secret"`
	GoogleRedirectURL         string         `json:"google_redirect_url"`
	OAuthFailureURL           string         `json:"oauth_failure_url"`
	OAuthStateTTL             timex.Duration `json:"oauth_state_ttl"`
	RedisAddr                 string         `json:"redis_addr"`
	RedisPassword             string         `json:"redis_password"`
	HealthCheckInterval       timex.Duration `json:"health_check_interval"`
	LogLevel                  string         `json:"log_level"`
}

// parseJson overlays values from the file named by -c/-config in args.
// A missing flag is a no-op; an unreadable or invalid file panics.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCAddr, c.GRPCAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	if c.MaxOpenConns > 0 {
		config.MaxOpenConns = c.MaxOpenConns
	}
	setString(&config.SessionSecret, c.SessionSecret)
	setDuration(&config.SessionTTL, c.SessionTTL)
	setDuration(&config.SessionRevalidateInterval, c.SessionRevalidateInterval)
	setDuration(&config.SessionSweepInterval, c.SessionSweepInterval)
	setString(&config.GoogleClientID, c.GoogleClientID)
	setString(&config.GoogleClientSecret, c.GoogleClientSecret)
	setString(&config.GoogleRedirectURL, c.GoogleRedirectURL)
	setString(&config.OAuthFailureURL, c.OAuthFailureURL)
	setDuration(&config.OAuthStateTTL, c.OAuthStateTTL)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	setDuration(&config.HealthCheckInterval, c.HealthCheckInterval)
	setString(&config.LogLevel, c.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
