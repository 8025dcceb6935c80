package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const maxFetchTimeout = 2 * time.Minute

var (
	errInvalidPort         = errors.New("config: invalid PORT number")
	errInvalidLogFormat    = errors.New("config: LOG_FORMAT must be json or text")
	errFetchTimeoutRange   = errors.New("config: FETCH_TIMEOUT must be between 1ms and 2m")
	errNegativeRateLimit   = errors.New("config: RATE_LIMIT_RPS must not be negative")
	errBurstOutOfRange     = errors.New("config: RATE_LIMIT_BURST must be 1-1000")
	errShutdownTimeoutZero = errors.New("config: SHUTDOWN_TIMEOUT must be positive")
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port      string
	LogLevel  string
	LogFormat string

	// FetchTimeout bounds each outbound page fetch.
	FetchTimeout time.Duration
	// AllowPrivateNetworks disables the dial-time block on private and
	// reserved addresses. Only meant for local development.
	AllowPrivateNetworks bool

	// RateLimitRPS is the per-client request rate. Zero disables limiting.
	RateLimitRPS   float64
	RateLimitBurst int

	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:                 getEnv("PORT", "8080"),
		LogLevel:             getEnv("LOG_LEVEL", "ERROR"),
		LogFormat:            strings.ToLower(getEnv("LOG_FORMAT", "json")),
		FetchTimeout:         getEnvAsDuration("FETCH_TIMEOUT", 10*time.Second),
		AllowPrivateNetworks: getEnvAsBool("ALLOW_PRIVATE_NETWORKS", false),
		RateLimitRPS:         getEnvAsFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:       getEnvAsInt("RATE_LIMIT_BURST", 10),
		ShutdownTimeout:      getEnvAsDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
	}

	return cfg, cfg.validate()
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func (c Config) validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: %q", errInvalidPort, c.Port)
	}

	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("%w: got %q", errInvalidLogFormat, c.LogFormat)
	}

	if c.FetchTimeout <= 0 || c.FetchTimeout > maxFetchTimeout {
		return fmt.Errorf("%w: got %s", errFetchTimeoutRange, c.FetchTimeout)
	}

	if c.RateLimitRPS < 0 {
		return fmt.Errorf("%w: got %g", errNegativeRateLimit, c.RateLimitRPS)
	}

	if c.RateLimitRPS > 0 && (c.RateLimitBurst < 1 || c.RateLimitBurst > 1000) {
		return fmt.Errorf("%w: got %d", errBurstOutOfRange, c.RateLimitBurst)
	}

	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: got %s", errShutdownTimeoutZero, c.ShutdownTimeout)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsFloat(key string, fallback float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsBool(key string, fallback bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return v
}

// getEnvAsDuration accepts Go duration strings ("15s", "500ms").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return v
}
