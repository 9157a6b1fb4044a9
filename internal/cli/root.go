// Package cli provides the command-line interface for clsview.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/clsview/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// SilenceErrors keeps cobra from printing this itself.
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "clsview",
		Short: "Read and analyze Unity console log dumps",
		Long: `clsview reads ConsoleLogSaverData log dumps saved from the Unity editor.

It can:
  - Parse a dump into its header fields and sections
  - List console entries by severity, with search and filtering
  - Summarize the Unity project and packages the dump was saved from
  - Find dumps among other files and report their encoding
  - Serve a small web viewer for uploaded dumps`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String(commands.FlagConfig, "", "Config file (default ./clsview.yaml if present)")
	rootCmd.PersistentFlags().String(commands.FlagLogLevel, "", "Log level (debug|info|warn|error)")

	rootCmd.AddCommand(commands.NewParseCommand())
	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewInfoCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
