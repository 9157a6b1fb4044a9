package output

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Formatter renders reports in a specific format.
type Formatter interface {
	// Format renders the report to the given writer.
	Format(ctx context.Context, report *Report, w io.Writer) error

	// Name returns the format name (text, json, yaml, markdown, html).
	Name() string
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Verbose includes full entry text and section fields.
	Verbose bool

	// Quiet enables minimal summary-only output.
	Quiet bool
}

var formats = []string{"text", "json", "yaml", "markdown", "html"}

// Formats returns the supported format names.
func Formats() []string {
	return append([]string(nil), formats...)
}

// IsFormat reports whether name is a supported format.
func IsFormat(name string) bool {
	for _, f := range formats {
		if f == name {
			return true
		}
	}
	return false
}

// New returns the formatter for name.
func New(name string, opts FormatOptions) (Formatter, error) {
	switch name {
	case "text":
		return NewTextFormatter(opts), nil
	case "json":
		return NewJSONFormatter(opts), nil
	case "yaml":
		return NewYAMLFormatter(opts), nil
	case "markdown":
		return NewMarkdownFormatter(opts), nil
	case "html":
		return NewHTMLFormatter(opts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use %s)", name, strings.Join(formats, ", "))
	}
}
