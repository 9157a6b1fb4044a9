package output

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ccollicutt/clsview/pkg/analyzer"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s: %d entries, %d errors, %d warnings\n",
		sourceLabel(report),
		report.Summary.Entries,
		report.Summary.Errors,
		report.Summary.Warnings)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	fmt.Fprintf(w, "=== %s ===\n", sourceLabel(report))
	fmt.Fprintln(w)

	fmt.Fprint(w, report.Project.String())

	if len(report.Entries) == 0 {
		fmt.Fprintln(w, "No entries to show")
		fmt.Fprintln(w)
	}

	for i := range report.Entries {
		f.formatEntry(&report.Entries[i], w)
	}

	fmt.Fprintln(w, "---")
	_, err := fmt.Fprintf(w, "Summary: %d entries (%d errors, %d warnings, %d info), %d shown\n",
		report.Summary.Entries,
		report.Summary.Errors,
		report.Summary.Warnings,
		report.Summary.Infos,
		report.Summary.Shown)
	if err != nil {
		return err
	}

	if f.opts.Verbose {
		fmt.Fprintf(w, "Sections: %d\n", report.Summary.Sections)
		fmt.Fprintf(w, "Format version: %s\n", report.Metadata.Version)
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(time.Microsecond))
	}

	return nil
}

func (f *TextFormatter) formatEntry(e *analyzer.Entry, w io.Writer) {
	fmt.Fprintf(w, "[%s] line %d: %s\n",
		strings.ToUpper(e.Severity.String()), e.Line, indent(e.Short, "    "))

	if !f.opts.Verbose {
		return
	}

	fmt.Fprintf(w, "  Mode: %s\n", e.Mode)
	if e.Full != e.Short {
		fmt.Fprintln(w, "  Message:")
		fmt.Fprintf(w, "    %s\n", indent(e.Full, "    "))
	}
	fmt.Fprintln(w)
}

// indent prefixes every line after the first with prefix.
func indent(s, prefix string) string {
	return strings.ReplaceAll(s, "\n", "\n"+prefix)
}

func sourceLabel(report *Report) string {
	if report.Metadata.Source == "" {
		return "clsview"
	}
	return report.Metadata.Source
}
