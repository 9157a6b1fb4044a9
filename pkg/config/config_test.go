package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ccollicutt/clsview/pkg/analyzer"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}

// chdirTemp moves the test into an empty directory so no clsview.yaml or
// .env from the working tree is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_ValidConfig(t *testing.T) {
	chdirTemp(t)
	content := `
output: json
content_type: log-element
min_severity: warning
log_level: debug
workers: 8
server:
  addr: "127.0.0.1:9000"
  max_upload_bytes: 1048576
  read_timeout: 5s
webhooks:
  - name: ci
    url: https://hooks.example.com/clsview
    trigger: always
`
	path := writeTempFile(t, "config.yaml", content)
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Output != "json" {
		t.Errorf("Output = %q, want json", cfg.Output)
	}
	if cfg.Severity() != analyzer.SeverityWarning {
		t.Errorf("Severity() = %v, want warning", cfg.Severity())
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Workers)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.MaxUploadBytes != 1048576 {
		t.Errorf("Server.MaxUploadBytes = %d", cfg.Server.MaxUploadBytes)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 5s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("Server.WriteTimeout = %v, want default", cfg.Server.WriteTimeout)
	}
	if len(cfg.Webhooks) != 1 {
		t.Fatalf("Webhooks = %d, want 1", len(cfg.Webhooks))
	}
	if cfg.Webhooks[0].Trigger != WebhookTriggerAlways {
		t.Errorf("Trigger = %q, want always", cfg.Webhooks[0].Trigger)
	}
	if cfg.Webhooks[0].Timeout != DefaultWebhookTimeout {
		t.Errorf("Timeout = %v, want default", cfg.Webhooks[0].Timeout)
	}
}

func TestLoad_NoPathUsesDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load(context.Background(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output != DefaultOutput {
		t.Errorf("Output = %q, want %q", cfg.Output, DefaultOutput)
	}
	if cfg.ContentType != analyzer.DefaultContentType {
		t.Errorf("ContentType = %q", cfg.ContentType)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
}

func TestLoad_DefaultConfigFile(t *testing.T) {
	dir := chdirTemp(t)
	if err := os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte("output: markdown\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(context.Background(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output != "markdown" {
		t.Errorf("Output = %q, want markdown", cfg.Output)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdirTemp(t)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("CLSVIEW_ADDR=:9999\n"), 0644); err != nil {
		t.Fatal(err)
	}
	// godotenv sets the variable for the process; restore it afterwards.
	t.Setenv(EnvAddr, "")
	os.Unsetenv(EnvAddr)

	cfg, err := Load(context.Background(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("Server.Addr = %q, want :9999", cfg.Server.Addr)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv(EnvOutput, "yaml")
	t.Setenv(EnvMinSeverity, "error")
	t.Setenv(EnvContentType, "custom-entry")
	t.Setenv(EnvWorkers, "2")

	path := writeTempFile(t, "config.yaml", "output: json\nmin_severity: info\n")
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Output != "yaml" {
		t.Errorf("Output = %q, want yaml", cfg.Output)
	}
	if cfg.Severity() != analyzer.SeverityError {
		t.Errorf("Severity() = %v, want error", cfg.Severity())
	}
	if cfg.ContentType != "custom-entry" {
		t.Errorf("ContentType = %q", cfg.ContentType)
	}
	if cfg.Workers != 2 {
		t.Errorf("Workers = %d, want 2", cfg.Workers)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	chdirTemp(t)
	_, err := Load(context.Background(), "/nonexistent/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	chdirTemp(t)
	path := writeTempFile(t, "invalid.yaml", `invalid: yaml: content: [`)
	_, err := Load(context.Background(), path)
	if err == nil {
		t.Error("Load() expected error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"unknown output", func(c *Config) { c.Output = "pdf" }, true},
		{"empty content type", func(c *Config) { c.ContentType = " " }, true},
		{"bad severity", func(c *Config) { c.MinSeverity = "critical" }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, true},
		{"zero workers", func(c *Config) { c.Workers = 0 }, false},
		{"webhook without url", func(c *Config) {
			c.Webhooks = []WebhookConfig{{Name: "x"}}
		}, true},
		{"webhook bad scheme", func(c *Config) {
			c.Webhooks = []WebhookConfig{{URL: "ftp://example.com"}}
		}, true},
		{"webhook no host", func(c *Config) {
			c.Webhooks = []WebhookConfig{{URL: "http://"}}
		}, true},
		{"webhook bad trigger", func(c *Config) {
			c.Webhooks = []WebhookConfig{{URL: "http://example.com", Trigger: "sometimes"}}
		}, true},
		{"webhook negative max entries", func(c *Config) {
			c.Webhooks = []WebhookConfig{{URL: "http://example.com", MaxEntries: -1}}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Defaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 0
	cfg.Webhooks = []WebhookConfig{{URL: "https://example.com/hook"}}

	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Workers != DefaultWorkers {
		t.Errorf("Workers = %d, want %d", cfg.Workers, DefaultWorkers)
	}
	if cfg.Webhooks[0].Trigger != WebhookTriggerOnErrors {
		t.Errorf("Trigger = %q, want on_errors", cfg.Webhooks[0].Trigger)
	}
}

func TestExpandEnvVar(t *testing.T) {
	t.Setenv("CLSVIEW_TEST_TOKEN", "secret")

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"plain", "plain"},
		{"${CLSVIEW_TEST_TOKEN}", "secret"},
		{"$CLSVIEW_TEST_TOKEN", "secret"},
		{"${CLSVIEW_UNSET_TOKEN}", ""},
	}

	for _, tt := range tests {
		if got := expandEnvVar(tt.input); got != tt.want {
			t.Errorf("expandEnvVar(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
