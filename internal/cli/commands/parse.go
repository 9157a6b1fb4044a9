package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/clsview/pkg/parser"
)

// ParseOptions holds command-line options for the parse command.
type ParseOptions struct {
	Output string
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Print the parsed structure of a log dump",
		Long: `Parse a log dump and print its prologue, header fields and sections.

The json and yaml formats print the complete document. The text format
prints the header and a one-line summary per section.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "json", "Output format (json|yaml|text)")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := loadConfig(cmd); err != nil {
		return err
	}

	doc, err := parser.ParseFile(ctx, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	switch opts.Output {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(doc)
	case "yaml":
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		if err := encoder.Encode(doc); err != nil {
			return err
		}
		return encoder.Close()
	case "text":
		return writeDocumentText(doc, out)
	default:
		return fmt.Errorf("unknown output format %q (use json, yaml, or text)", opts.Output)
	}
}

func writeDocumentText(doc *parser.Document, w io.Writer) error {
	fmt.Fprintf(w, "Version: %s\n", doc.Version())
	fmt.Fprintf(w, "Separator: %s\n", doc.Separator())
	fmt.Fprintln(w, "Header:")
	for _, f := range doc.Header {
		fmt.Fprintf(w, "  %s: %s\n", f.Key, f.Value)
	}

	fmt.Fprintf(w, "Sections: %d\n", len(doc.Sections))
	for i := range doc.Sections {
		s := &doc.Sections[i]
		contentType := s.ContentType()
		if contentType == "" {
			contentType = "-"
		}
		lines := 0
		if s.Content != "" {
			lines = strings.Count(s.Content, "\n") + 1
		}
		fmt.Fprintf(w, "  [%d] line %d: %s (%d fields, %d content lines)\n",
			i, s.Line, contentType, len(s.Fields), lines)
	}

	return nil
}
