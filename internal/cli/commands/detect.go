package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/clsview/pkg/detector"
	"github.com/ccollicutt/clsview/pkg/parser"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleBytes int
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <file|glob|dir>...",
		Short: "Find log dumps and their encoding",
		Long: `Sample files to tell which ones are console log dumps.

For each file reports whether it starts with a ConsoleLogSaverData/1.x
prologue, its text encoding (UTF-8, or UTF-8/UTF-16 with a byte order
mark) and the separator declared in its header.

Example:
  clsview detect ~/Logs
  clsview detect --sample 4096 "Logs/*.txt"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleBytes, "sample", "n", detector.DefaultSampleBytes, "Number of bytes to sample from each file")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.Output != "text" && opts.Output != "json" {
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}

	if _, err := loadConfig(cmd); err != nil {
		return err
	}

	files, err := parser.ExpandGlobs(args)
	if err != nil {
		return fmt.Errorf("expanding inputs: %w", err)
	}

	d := detector.New(detector.WithSampleBytes(opts.SampleBytes))

	results := make([]*detector.DetectionResult, 0, len(files))
	for _, path := range files {
		result, err := d.DetectFromFile(ctx, path)
		if err != nil {
			return fmt.Errorf("detecting %s: %w", path, err)
		}
		results = append(results, result)
	}

	out := cmd.OutOrStdout()
	if opts.Output == "json" {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	}

	return outputDetectText(results, out)
}

func outputDetectText(results []*detector.DetectionResult, w io.Writer) error {
	dumps := 0
	for _, r := range results {
		if !r.IsDump {
			fmt.Fprintf(w, "-    %s (%s): not a log dump\n", r.Path, r.Encoding)
			continue
		}
		dumps++

		separator := r.Separator
		if separator == "" {
			separator = "not found"
		}
		fmt.Fprintf(w, "DUMP %s (%s): version %s, separator %s\n", r.Path, r.Encoding, r.Version, separator)
	}

	_, err := fmt.Fprintf(w, "\n%d of %d file(s) are log dumps\n", dumps, len(results))
	return err
}
