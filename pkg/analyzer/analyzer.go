package analyzer

import (
	"context"
	"strings"
	"time"

	"github.com/ccollicutt/clsview/pkg/parser"
)

// Analyzer extracts console entries from parsed dumps.
type Analyzer struct {
	contentType string
	minSeverity Severity
	search      string
	verbose     bool
}

// AnalyzerOption configures analyzer behavior.
type AnalyzerOption func(*Analyzer)

// WithContentType selects which sections are console entries, by the value
// of their "Content" field.
func WithContentType(contentType string) AnalyzerOption {
	return func(a *Analyzer) {
		if contentType != "" {
			a.contentType = contentType
		}
	}
}

// WithMinSeverity hides entries below the given severity.
func WithMinSeverity(s Severity) AnalyzerOption {
	return func(a *Analyzer) {
		a.minSeverity = s
	}
}

// WithSearch keeps only entries whose content contains text,
// case-insensitively.
func WithSearch(text string) AnalyzerOption {
	return func(a *Analyzer) {
		a.search = strings.ToLower(text)
	}
}

// WithVerbose keeps each entry's section fields in the result.
func WithVerbose(v bool) AnalyzerOption {
	return func(a *Analyzer) {
		a.verbose = v
	}
}

// NewAnalyzer creates an analyzer. Without options it reports every
// "log-element" section.
func NewAnalyzer(opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		contentType: DefaultContentType,
		minSeverity: SeverityInfo,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze builds the entry list, severity counts and project summary for doc.
// Counts cover every entry; Entries holds only the ones passing the filters.
func (a *Analyzer) Analyze(ctx context.Context, doc *parser.Document) (*Result, error) {
	result := &Result{
		Project: Summarize(doc.Header),
		Entries: []Entry{},
		Metadata: Metadata{
			Version:   doc.Version(),
			Separator: doc.Separator(),
			StartTime: time.Now(),
		},
	}
	result.Stats.Sections = len(doc.Sections)

	for i := range doc.Sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		section := &doc.Sections[i]
		if section.ContentType() != a.contentType {
			continue
		}

		entry := a.newEntry(i, section)
		result.Stats.Entries++
		switch entry.Severity {
		case SeverityError:
			result.Stats.Errors++
		case SeverityWarning:
			result.Stats.Warnings++
		default:
			result.Stats.Infos++
		}

		if !a.keep(&entry) {
			continue
		}
		result.Entries = append(result.Entries, entry)
	}

	result.Stats.Shown = len(result.Entries)
	result.Metadata.EndTime = time.Now()

	return result, nil
}

func (a *Analyzer) newEntry(index int, section *parser.Section) Entry {
	mode := ParseMode(section.Fields.Get("Mode-Raw"))
	entry := Entry{
		Index:    index,
		Line:     section.Line,
		Mode:     mode,
		Severity: mode.Severity(),
		Short:    Preview(section.Content),
		Full:     section.Content,
	}
	if a.verbose {
		entry.Fields = section.Fields
	}
	return entry
}

func (a *Analyzer) keep(entry *Entry) bool {
	if entry.Severity < a.minSeverity {
		return false
	}
	if a.search != "" && !strings.Contains(strings.ToLower(entry.Full), a.search) {
		return false
	}
	return true
}

// Preview returns the first line of content, or the first two lines joined
// by a newline when there is more than one.
func Preview(content string) string {
	lines := strings.SplitN(strings.ReplaceAll(content, "\r\n", "\n"), "\n", 3)
	if len(lines) == 1 {
		return lines[0]
	}
	return lines[0] + "\n" + lines[1]
}
