package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/clsview/pkg/parser"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file|glob|dir>...",
		Short: "Check that log dumps parse",
		Long: `Validate log dumps without analyzing them.

Checks:
  - ConsoleLogSaverData/1.x prologue
  - Header and section field syntax
  - Presence of a section separator

Exits with code 1 when any dump is invalid.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	files, err := parser.ExpandGlobs(args)
	if err != nil {
		return fmt.Errorf("expanding inputs: %w", err)
	}

	out := cmd.OutOrStdout()
	invalid := 0

	for _, fr := range parser.ParseFiles(ctx, files, cfg.Workers) {
		if fr.Err != nil {
			invalid++
			fmt.Fprintf(out, "FAIL %s: %v\n", fr.Path, fr.Err)
			continue
		}
		fmt.Fprintf(out, "OK   %s (version %s, %d sections)\n",
			fr.Path, fr.Document.Version(), len(fr.Document.Sections))
	}

	fmt.Fprintf(out, "\n%d of %d log dump(s) valid\n", len(files)-invalid, len(files))

	if invalid > 0 {
		ExitCode = 1
	}

	return nil
}
