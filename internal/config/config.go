// Package config loads toolkit configuration from the environment.
// A .env file in the working directory is honored when present.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/rezonia/facturx/internal/logger"
)

// Config holds all runtime settings
type Config struct {
	// License verification
	LicensePublicKeyFile string
	LicenseToken         string

	// Daily quota for unlicensed use
	QuotaFile  string
	QuotaLimit int

	// Chorus Pro
	ChorusBaseURL      string
	ChorusAuthURL      string
	ChorusClientID     string
	ChorusClientSecret string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment, after loading .env if it
// exists. Missing values fall back to defaults; credentials stay empty and
// the features needing them report that at call time.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		LicensePublicKeyFile: getEnv("FACTURX_LICENSE_PUBKEY", ""),
		LicenseToken:         getEnv("FACTURX_LICENSE_TOKEN", ""),
		QuotaFile:            getEnv("FACTURX_QUOTA_FILE", defaultQuotaFile()),
		QuotaLimit:           getEnvInt("FACTURX_QUOTA_LIMIT", 0),
		ChorusBaseURL:        getEnv("CHORUS_BASE_URL", ""),
		ChorusAuthURL:        getEnv("CHORUS_AUTH_URL", ""),
		ChorusClientID:       getEnv("CHORUS_CLIENT_ID", ""),
		ChorusClientSecret:   getEnv("CHORUS_CLIENT_SECRET", ""),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "console"),
	}
}

// LoggerConfig returns the logging sub-configuration
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{Level: c.LogLevel, Format: c.LogFormat}
}

func defaultQuotaFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".facturx-quota.json"
	}
	return home + "/.facturx/quota.json"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
