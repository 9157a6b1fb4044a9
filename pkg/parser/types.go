// Package parser reads ConsoleLogSaverData log dumps into a structured Document.
//
// A dump is a versioned prologue line, a block of header fields, and a
// sequence of sections terminated by a separator string declared in the
// header. Each section carries its own field block and a free-text content
// body.
package parser

import "strings"

// Field is a single "Key: value" pair from the header or a section.
type Field struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Fields is an ordered list of fields. Duplicate keys are kept in source
// order; lookups decide which one wins.
type Fields []Field

// Lookup returns the value of the first field whose key matches name
// case-insensitively.
func (f Fields) Lookup(name string) (string, bool) {
	for _, field := range f {
		if strings.EqualFold(field.Key, name) {
			return field.Value, true
		}
	}
	return "", false
}

// Get returns the first matching value, or "" when no field matches.
func (f Fields) Get(name string) string {
	v, _ := f.Lookup(name)
	return v
}

// Values returns every value whose key matches name, in source order.
func (f Fields) Values(name string) []string {
	var values []string
	for _, field := range f {
		if strings.EqualFold(field.Key, name) {
			values = append(values, field.Value)
		}
	}
	return values
}

// Section is one separator-terminated block of a dump.
type Section struct {
	// Fields are the section's local key/value lines.
	Fields Fields `json:"fields" yaml:"fields"`

	// Content is the body text after the field block.
	Content string `json:"content" yaml:"content"`

	// Line is the 1-based source line where the section starts.
	Line int `json:"line" yaml:"line"`
}

// Field returns the first field value matching name case-insensitively.
func (s *Section) Field(name string) (string, bool) {
	return s.Fields.Lookup(name)
}

// ContentType returns the section's "Content" field, which tells consumers
// what kind of body the section holds (for example "log-element").
func (s *Section) ContentType() string {
	return s.Fields.Get("Content")
}

// Document is the result of parsing a dump.
type Document struct {
	// Prologue is the version line the dump started with.
	Prologue string `json:"prologue" yaml:"prologue"`

	// Header holds the document-level fields. It always contains a
	// "separator" field.
	Header Fields `json:"header" yaml:"header"`

	// Sections are the parsed sections in source order. May be empty.
	Sections []Section `json:"sections" yaml:"sections"`
}

// Separator returns the section separator declared in the header.
func (d *Document) Separator() string {
	return d.Header.Get(separatorField)
}

// Version returns the format version from the prologue, e.g. "1.0".
func (d *Document) Version() string {
	return strings.TrimPrefix(d.Prologue, "ConsoleLogSaverData/")
}
