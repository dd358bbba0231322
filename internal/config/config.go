// Package config reads the configuration of the backend from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
)

type Config struct {
	// HTTP Server
	Port    string
	APIURL  string // External URL of the API, used to build links
	GinMode string

	// Database
	DBPath string

	// Logging
	LogFormat string
	LogLevel  string

	// Router
	CORSAllowOrigins []string
	EnablePprof      bool
	DisableMetrics   bool
}

// Load reads the configuration from the environment.
//
// Variables that are not set in the environment are read from the
// files passed in, or from .env in the working directory if no file is
// passed. Missing files are ignored.
func Load(files ...string) (*Config, error) {
	err := godotenv.Load(files...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not read environment file: %w", err)
	}

	return &Config{
		Port:             getEnv("PORT", "8080"),
		APIURL:           getEnv("API_URL", ""),
		GinMode:          getEnv("GIN_MODE", "release"),
		DBPath:           getEnv("DB_PATH", "data/emendas.db"),
		LogFormat:        getEnv("LOG_FORMAT", ""),
		LogLevel:         getEnv("LOG_LEVEL", ""),
		CORSAllowOrigins: strings.Fields(getEnv("CORS_ALLOW_ORIGINS", "")),
		EnablePprof:      getEnvBool("ENABLE_PPROF", false),
		DisableMetrics:   getEnvBool("DISABLE_METRICS", false),
	}, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.APIURL == "" {
		errors = append(errors, "API_URL must be set to the URL the API is reachable at")
	} else if u, err := url.Parse(c.APIURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid API_URL '%s': %v", c.APIURL, err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid API_URL scheme '%s': must be 'http' or 'https'", u.Scheme))
	}

	if !slices.Contains([]string{"debug", "release", "test"}, c.GinMode) {
		errors = append(errors, fmt.Sprintf("invalid GIN_MODE '%s': must be one of debug, release, test", c.GinMode))
	}

	if c.DBPath == "" {
		errors = append(errors, "DB_PATH cannot be empty")
	}

	if !slices.Contains([]string{"", "human", "json"}, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("invalid LOG_FORMAT '%s': must be 'human' or 'json'", c.LogFormat))
	}

	if c.LogLevel != "" {
		if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
			errors = append(errors, fmt.Sprintf("invalid LOG_LEVEL '%s': %v", c.LogLevel, err))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// URL returns the parsed API URL. Validate must have succeeded before.
func (c *Config) URL() *url.URL {
	u, _ := url.Parse(c.APIURL)
	return u
}

// Level returns the log level. Without an explicit LOG_LEVEL, the level
// is debug in gin's debug mode and info otherwise.
func (c *Config) Level() zerolog.Level {
	if c.LogLevel != "" {
		level, err := zerolog.ParseLevel(c.LogLevel)
		if err == nil {
			return level
		}
	}

	if c.GinMode == "debug" {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// HumanLogs reports if logs are written in human readable format. This
// is the default for debug mode, JSON is the default otherwise.
func (c *Config) HumanLogs() bool {
	if c.LogFormat == "" {
		return c.GinMode == "debug"
	}
	return c.LogFormat == "human"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
