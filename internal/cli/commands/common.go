package commands

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/clsview/pkg/config"
)

// Persistent flag names registered on the root command.
const (
	FlagConfig   = "config"
	FlagLogLevel = "log-level"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// loadConfig loads the configuration named by --config, applies --log-level
// and sets the global log level.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.Context(), stringFlag(cmd, FlagConfig))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if level := stringFlag(cmd, FlagLogLevel); level != "" {
		cfg.LogLevel = level
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	zerolog.SetGlobalLevel(level)

	return cfg, nil
}

// stringFlag returns the value of a flag that may not be registered when
// the command runs without its root.
func stringFlag(cmd *cobra.Command, name string) string {
	f := cmd.Flags().Lookup(name)
	if f == nil {
		return ""
	}
	return f.Value.String()
}
