// Package config provides configuration loading and validation for clsview.
package config

import (
	"time"

	"github.com/ccollicutt/clsview/pkg/analyzer"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// Output is the default report format (text, json, yaml, markdown, html).
	Output string `yaml:"output"`

	// ContentType is the "Content" field value that marks console entries.
	ContentType string `yaml:"content_type"`

	// MinSeverity hides entries below this severity (info, warning, error).
	MinSeverity string `yaml:"min_severity"`

	// LogLevel is the zerolog level for diagnostic output.
	LogLevel string `yaml:"log_level"`

	// Workers is how many dumps are parsed concurrently.
	Workers int `yaml:"workers"`

	Server   ServerConfig    `yaml:"server"`
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`

	// severity is MinSeverity parsed during validation.
	severity analyzer.Severity
}

// Severity returns the parsed minimum severity.
func (c *Config) Severity() analyzer.Severity {
	return c.severity
}

// ServerConfig configures the HTTP viewer.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr"`

	// MaxUploadBytes limits the size of a submitted dump.
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnErrors fires only when the dump has error entries (default).
	WebhookTriggerOnErrors WebhookTrigger = "on_errors"
	// WebhookTriggerAlways fires after every analysis.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token. ${VAR} and $VAR are expanded.
	Token string `yaml:"token,omitempty"`

	// Trigger defaults to "on_errors".
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout defaults to 10s.
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// MaxEntries caps the entries sent per report. Zero uses the client default.
	MaxEntries int `yaml:"max_entries,omitempty"`
}
