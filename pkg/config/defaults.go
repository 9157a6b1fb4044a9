package config

import (
	"os"
	"strconv"
	"time"

	"github.com/ccollicutt/clsview/pkg/analyzer"
)

// Default values for configuration.
const (
	DefaultConfigFile     = "clsview.yaml"
	DefaultOutput         = "text"
	DefaultLogLevel       = "info"
	DefaultWorkers        = 4
	DefaultAddr           = ":8080"
	DefaultMaxUploadBytes = 64 << 20
	DefaultReadTimeout    = 30 * time.Second
	DefaultWriteTimeout   = 60 * time.Second
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvOutput      = "CLSVIEW_OUTPUT"
	EnvContentType = "CLSVIEW_CONTENT_TYPE"
	EnvMinSeverity = "CLSVIEW_MIN_SEVERITY"
	EnvLogLevel    = "CLSVIEW_LOG_LEVEL"
	EnvWorkers     = "CLSVIEW_WORKERS"
	EnvAddr        = "CLSVIEW_ADDR"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Output:      DefaultOutput,
		ContentType: analyzer.DefaultContentType,
		MinSeverity: "info",
		LogLevel:    DefaultLogLevel,
		Workers:     DefaultWorkers,
		Server: ServerConfig{
			Addr:           DefaultAddr,
			MaxUploadBytes: DefaultMaxUploadBytes,
			ReadTimeout:    DefaultReadTimeout,
			WriteTimeout:   DefaultWriteTimeout,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if v := os.Getenv(EnvOutput); v != "" {
		c.Output = v
	}
	if v := os.Getenv(EnvContentType); v != "" {
		c.ContentType = v
	}
	if v := os.Getenv(EnvMinSeverity); v != "" {
		c.MinSeverity = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
}
