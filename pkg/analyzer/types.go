// Package analyzer turns parsed log dumps into console entries and a
// project summary.
package analyzer

import (
	"fmt"
	"strings"
	"time"

	"github.com/ccollicutt/clsview/pkg/parser"
)

// DefaultContentType is the "Content" field value of sections that hold a
// console log entry.
const DefaultContentType = "log-element"

// Severity is the console icon class of an entry.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Icon returns the viewer icon file for the severity.
func (s Severity) Icon() string {
	return s.String() + ".svg"
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	v, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSeverity parses "info", "warning" or "error" (case-insensitive).
// The short forms "warn" and "err" are accepted too.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info", "":
		return SeverityInfo, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "error", "err":
		return SeverityError, nil
	default:
		return SeverityInfo, fmt.Errorf("invalid severity %q (must be info, warning, or error)", s)
	}
}

// Entry is a console log entry taken from a "log-element" section.
type Entry struct {
	// Index is the position of the section in the document.
	Index int `json:"index" yaml:"index"`

	// Line is the 1-based source line where the section starts.
	Line int `json:"line" yaml:"line"`

	Mode     Mode     `json:"mode" yaml:"mode"`
	Severity Severity `json:"severity" yaml:"severity"`

	// Short is the first one or two lines of the message.
	Short string `json:"short" yaml:"short"`

	// Full is the complete section content.
	Full string `json:"full" yaml:"full"`

	// Fields are the section's fields, kept for verbose output.
	Fields parser.Fields `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Stats counts sections and entries in a document.
type Stats struct {
	Sections int `json:"sections" yaml:"sections"`
	Entries  int `json:"entries" yaml:"entries"`
	Errors   int `json:"errors" yaml:"errors"`
	Warnings int `json:"warnings" yaml:"warnings"`
	Infos    int `json:"infos" yaml:"infos"`

	// Shown is the number of entries left after filtering.
	Shown int `json:"shown" yaml:"shown"`
}

// Result is the output of analyzing one document.
type Result struct {
	Project ProjectInfo
	Entries []Entry
	Stats   Stats

	Metadata Metadata
}

// Metadata provides context about an analysis run.
type Metadata struct {
	Version   string
	Separator string
	StartTime time.Time
	EndTime   time.Time
}

// HasErrors returns true if the document holds any error entries, filtered
// or not.
func (r *Result) HasErrors() bool {
	return r.Stats.Errors > 0
}
