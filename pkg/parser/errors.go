package parser

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is matching against the typed parse errors.
var (
	ErrUnsupportedVersion = errors.New("unsupported version")
	ErrMalformedFieldLine = errors.New("invalid field")
	ErrMissingSeparator   = errors.New("separator not found")
)

// UnsupportedVersionError is returned when the first line is not a
// ConsoleLogSaverData/1.x prologue.
type UnsupportedVersionError struct {
	Prologue string
}

func (e *UnsupportedVersionError) Error() string {
	if e.Prologue == "" {
		return "unsupported version: missing ConsoleLogSaverData/1.x prologue"
	}
	return fmt.Sprintf("unsupported version: %q", truncate(e.Prologue, 64))
}

// Is reports whether target is ErrUnsupportedVersion.
func (e *UnsupportedVersionError) Is(target error) bool {
	return target == ErrUnsupportedVersion
}

// MalformedFieldLineError is returned when a header or section field line
// has no colon.
type MalformedFieldLineError struct {
	// Line is the 1-based line number in the source text.
	Line int
	Text string
}

func (e *MalformedFieldLineError) Error() string {
	return fmt.Sprintf("invalid field at line %d", e.Line)
}

// Is reports whether target is ErrMalformedFieldLine.
func (e *MalformedFieldLineError) Is(target error) bool {
	return target == ErrMalformedFieldLine
}

// MissingSeparatorError is returned when the header declares no separator.
type MissingSeparatorError struct{}

func (e *MissingSeparatorError) Error() string {
	return "separator not found"
}

// Is reports whether target is ErrMissingSeparator.
func (e *MissingSeparatorError) Is(target error) bool {
	return target == ErrMissingSeparator
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
