// Package config loads server configuration from the environment and the
// declarative rule file the guard registry is built from.
package config

import (
	"os"
	"strconv"
)

// Config holds server configuration.
type Config struct {
	Addr           string
	LogLevel       string
	RuleFile       string
	RateLimitRPM   int
	RateLimitBurst int
	RedisAddr      string
	OTLPEndpoint   string
	AuthSecret     string
}

// Load reads configuration from environment variables, with development
// defaults for everything but the auth secret.
func Load() *Config {
	addr := os.Getenv("GATEHOUSE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "INFO"
	}

	return &Config{
		Addr:           addr,
		LogLevel:       logLevel,
		RuleFile:       os.Getenv("GATEHOUSE_RULE_FILE"),
		RateLimitRPM:   envInt("RATE_LIMIT_RPM", 300),
		RateLimitBurst: envInt("RATE_LIMIT_BURST", 50),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		OTLPEndpoint:   os.Getenv("OTLP_ENDPOINT"),
		AuthSecret:     os.Getenv("GATEHOUSE_AUTH_SECRET"),
	}
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
