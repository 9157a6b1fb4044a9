// Package output provides formatting and output generation for analyzed log dumps.
package output

import (
	"time"

	"github.com/ccollicutt/clsview/pkg/analyzer"
)

// Report is the complete analysis output for one dump.
type Report struct {
	// Summary provides aggregate statistics.
	Summary analyzer.Stats `json:"summary" yaml:"summary"`

	// Project describes the Unity project the dump came from.
	Project analyzer.ProjectInfo `json:"project" yaml:"project"`

	// Entries are the console entries left after filtering.
	Entries []analyzer.Entry `json:"entries" yaml:"entries"`

	// Metadata provides context about the analysis.
	Metadata Metadata `json:"metadata" yaml:"metadata"`
}

// Metadata provides context about the analysis run.
type Metadata struct {
	// Source is the path of the analyzed dump, or a label for uploads.
	Source string `json:"source" yaml:"source"`

	// Version is the dump format version, e.g. "1.0".
	Version string `json:"version" yaml:"version"`

	// Separator is the section separator the dump declared.
	Separator string `json:"separator" yaml:"separator"`

	// AnalyzedAt is when the analysis was performed.
	AnalyzedAt time.Time `json:"analyzed_at" yaml:"analyzed_at"`

	// Duration is how long the analysis took.
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// NewReport creates a Report from an analysis result.
func NewReport(result *analyzer.Result, source string) *Report {
	return &Report{
		Summary: result.Stats,
		Project: result.Project,
		Entries: result.Entries,
		Metadata: Metadata{
			Source:     source,
			Version:    result.Metadata.Version,
			Separator:  result.Metadata.Separator,
			AnalyzedAt: result.Metadata.EndTime,
			Duration:   result.Metadata.EndTime.Sub(result.Metadata.StartTime),
		},
	}
}

// HasErrors returns true if the dump contains error entries.
func (r *Report) HasErrors() bool {
	return r.Summary.Errors > 0
}
