package parser

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

const sampleDump = `ConsoleLogSaverData/1.0
Separator: ---END---
Unity-Version: 2022.3.1

Content: log-element
Mode-Raw: 400

Hello world
---END---`

// buildDump renders a dump the way ConsoleLogSaver writes one: header,
// blank line, then each section's fields, a blank line, its content and the
// separator on its own line.
func buildDump(header Fields, sections []Section, separator string) string {
	var sb strings.Builder
	sb.WriteString("ConsoleLogSaverData/1.0\n")
	for _, f := range header {
		sb.WriteString(f.Key + ": " + f.Value + "\n")
	}
	sb.WriteString("\n")
	sb.WriteString(separator + "\n")
	for _, s := range sections {
		for _, f := range s.Fields {
			sb.WriteString(f.Key + ": " + f.Value + "\n")
		}
		sb.WriteString("\n")
		sb.WriteString(s.Content + "\n")
		sb.WriteString(separator + "\n")
	}
	return sb.String()
}

func TestParse_Sample(t *testing.T) {
	doc, err := Parse(sampleDump)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	wantHeader := Fields{
		{Key: "Separator", Value: "---END---"},
		{Key: "Unity-Version", Value: "2022.3.1"},
	}
	if !reflect.DeepEqual(doc.Header, wantHeader) {
		t.Errorf("Header = %v, want %v", doc.Header, wantHeader)
	}

	if len(doc.Sections) != 1 {
		t.Fatalf("Got %d sections, want 1", len(doc.Sections))
	}

	section := doc.Sections[0]
	wantFields := Fields{
		{Key: "Content", Value: "log-element"},
		{Key: "Mode-Raw", Value: "400"},
	}
	if !reflect.DeepEqual(section.Fields, wantFields) {
		t.Errorf("Fields = %v, want %v", section.Fields, wantFields)
	}
	if section.Content != "Hello world" {
		t.Errorf("Content = %q, want %q", section.Content, "Hello world")
	}
	if section.ContentType() != "log-element" {
		t.Errorf("ContentType() = %q, want %q", section.ContentType(), "log-element")
	}
	if section.Line != 5 {
		t.Errorf("Line = %d, want 5", section.Line)
	}

	if doc.Separator() != "---END---" {
		t.Errorf("Separator() = %q", doc.Separator())
	}
	if doc.Version() != "1.0" {
		t.Errorf("Version() = %q, want %q", doc.Version(), "1.0")
	}
}

func TestParse_CRLF(t *testing.T) {
	doc, err := Parse(strings.ReplaceAll(sampleDump, "\n", "\r\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(doc.Sections) != 1 {
		t.Fatalf("Got %d sections, want 1", len(doc.Sections))
	}
	if doc.Sections[0].Content != "Hello world" {
		t.Errorf("Content = %q, want %q", doc.Sections[0].Content, "Hello world")
	}
	if doc.Header.Get("unity-version") != "2022.3.1" {
		t.Errorf("Unity-Version = %q", doc.Header.Get("unity-version"))
	}
}

func TestParse_RoundTrip(t *testing.T) {
	header := Fields{
		{Key: "Separator", Value: "<<SEP-8f3a>>"},
		{Key: "Unity-Version", Value: "2022.3.6f1"},
		{Key: "UPM-Dependency", Value: "com.vrchat.base@file:Packages/com.vrchat.base"},
		{Key: "UPM-Dependency", Value: "com.unity.ugui@1.0.0"},
	}
	sections := []Section{
		{
			Fields:  Fields{{Key: "Content", Value: "log-element"}, {Key: "Mode-Raw", Value: "00000401"}},
			Content: "NullReferenceException: Object reference not set\nUnityEngine.Debug:Log (object)",
		},
		{
			Fields:  Fields{{Key: "Content", Value: "log-element"}, {Key: "Mode-Raw", Value: "200"}},
			Content: "single line",
		},
		{
			Fields:  Fields{{Key: "Content", Value: "note"}, {Key: "Empty", Value: ""}, {Key: "Spaced", Value: "  two spaces"}},
			Content: "trailing newline\n",
		},
		{
			Fields:  Fields{{Key: "Content", Value: "log-element"}},
			Content: "",
		},
	}

	doc, err := Parse(buildDump(header, sections, "<<SEP-8f3a>>"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if !reflect.DeepEqual(doc.Header, header) {
		t.Errorf("Header = %v, want %v", doc.Header, header)
	}
	if len(doc.Sections) != len(sections) {
		t.Fatalf("Got %d sections, want %d", len(doc.Sections), len(sections))
	}
	for i, want := range sections {
		got := doc.Sections[i]
		if !reflect.DeepEqual(got.Fields, want.Fields) {
			t.Errorf("Sections[%d].Fields = %v, want %v", i, got.Fields, want.Fields)
		}
		if got.Content != want.Content {
			t.Errorf("Sections[%d].Content = %q, want %q", i, got.Content, want.Content)
		}
	}
}

func TestParse_InlineSeparator(t *testing.T) {
	input := "ConsoleLogSaverData/1.2\nseparator: @@\n\n@@\nContent: a\n\nfirst@@\nContent: b\n\nsecond\nline@@\n"

	doc, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(doc.Sections) != 2 {
		t.Fatalf("Got %d sections, want 2", len(doc.Sections))
	}
	if doc.Sections[0].Content != "first" {
		t.Errorf("Sections[0].Content = %q, want %q", doc.Sections[0].Content, "first")
	}
	if doc.Sections[1].Content != "second\nline" {
		t.Errorf("Sections[1].Content = %q, want %q", doc.Sections[1].Content, "second\nline")
	}
	if doc.Sections[1].Line != 8 {
		t.Errorf("Sections[1].Line = %d, want 8", doc.Sections[1].Line)
	}
}

func TestParse_UnsupportedVersion(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"version 2", "ConsoleLogSaverData/2.0\nSeparator: x\n\n"},
		{"no prologue", "Separator: ---\n\n---\n"},
		{"leading space", " ConsoleLogSaverData/1.0\nSeparator: ---\n"},
		{"missing minor dot", "ConsoleLogSaverData/1\nSeparator: ---\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.input)
			if doc != nil {
				t.Error("Parse() returned a partial document")
			}
			var verr *UnsupportedVersionError
			if !errors.As(err, &verr) {
				t.Fatalf("Parse() error = %v, want UnsupportedVersionError", err)
			}
			if !errors.Is(err, ErrUnsupportedVersion) {
				t.Error("errors.Is(err, ErrUnsupportedVersion) = false")
			}
		})
	}
}

func TestParse_MissingSeparator(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no header", "ConsoleLogSaverData/1.0\n\n---\nContent: x\n\nbody\n---\n"},
		{"other fields only", "ConsoleLogSaverData/1.0\nUnity-Version: 2022\n\n---\nContent: x\n\nbody\n---\n"},
		{"separator in section only", "ConsoleLogSaverData/1.0\nA: b\n\nSeparator: ---\n"},
		{"prologue only", "ConsoleLogSaverData/1.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			var serr *MissingSeparatorError
			if !errors.As(err, &serr) {
				t.Fatalf("Parse() error = %v, want MissingSeparatorError", err)
			}
			if !errors.Is(err, ErrMissingSeparator) {
				t.Error("errors.Is(err, ErrMissingSeparator) = false")
			}
		})
	}
}

func TestParse_EmptySeparator(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty value", "ConsoleLogSaverData/1.0\nSeparator: \n\n"},
		{"no space", "ConsoleLogSaverData/1.0\nSeparator:\n"},
		{"first match wins", "ConsoleLogSaverData/1.0\nSeparator:\nseparator: ---\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if doc.Separator() != "" {
				t.Errorf("Separator() = %q, want empty", doc.Separator())
			}
			if len(doc.Sections) != 0 {
				t.Errorf("Got %d sections, want 0", len(doc.Sections))
			}
		})
	}
}

func TestParse_TextBeforeFirstSeparator(t *testing.T) {
	t.Run("well formed", func(t *testing.T) {
		input := "ConsoleLogSaverData/1.0\nSeparator: ---\n\n" +
			"Content: intro\n\nsaved from editor\n---\n" +
			"Content: a\n\none\n---\n"

		doc, err := Parse(input)
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if len(doc.Sections) != 2 {
			t.Fatalf("Got %d sections, want 2", len(doc.Sections))
		}
		first := doc.Sections[0]
		if first.ContentType() != "intro" || first.Content != "saved from editor" {
			t.Errorf("Sections[0] = %+v, want the intro section", first)
		}
		if first.Line != 4 {
			t.Errorf("Sections[0].Line = %d, want 4", first.Line)
		}
		if doc.Sections[1].Content != "one" {
			t.Errorf("Sections[1].Content = %q, want %q", doc.Sections[1].Content, "one")
		}
	})

	t.Run("stray line", func(t *testing.T) {
		_, err := Parse("ConsoleLogSaverData/1.0\nSeparator: ---\n\nstray preamble\n---\n")

		var ferr *MalformedFieldLineError
		if !errors.As(err, &ferr) {
			t.Fatalf("Parse() error = %v, want MalformedFieldLineError", err)
		}
		if ferr.Line != 4 {
			t.Errorf("Line = %d, want 4", ferr.Line)
		}
	})
}

func TestParse_MalformedFieldLine(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
	}{
		{
			name:     "header line",
			input:    "ConsoleLogSaverData/1.0\nSeparator: ---\nno colon here\n\n",
			wantLine: 3,
		},
		{
			name:     "first header line",
			input:    "ConsoleLogSaverData/1.0\nbroken\nSeparator: ---\n\n",
			wantLine: 2,
		},
		{
			name:     "section field",
			input:    "ConsoleLogSaverData/1.0\nSeparator: ---\n\n---\nContent: log-element\nbroken\n\nbody\n---\n",
			wantLine: 6,
		},
		{
			name:     "second section field",
			input:    "ConsoleLogSaverData/1.0\nSeparator: ---\n\n---\nContent: a\n\nbody\n---\nbad\n\nbody\n---\n",
			wantLine: 9,
		},
		{
			name:     "section without blank line",
			input:    "ConsoleLogSaverData/1.0\nSeparator: ---\n\n---\nContent: a\njust text\n---\n",
			wantLine: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.input)
			if doc != nil {
				t.Error("Parse() returned a partial document")
			}
			var ferr *MalformedFieldLineError
			if !errors.As(err, &ferr) {
				t.Fatalf("Parse() error = %v, want MalformedFieldLineError", err)
			}
			if ferr.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", ferr.Line, tt.wantLine)
			}
			if !errors.Is(err, ErrMalformedFieldLine) {
				t.Error("errors.Is(err, ErrMalformedFieldLine) = false")
			}
			if !strings.Contains(err.Error(), "invalid field at line") {
				t.Errorf("Error() = %q", err.Error())
			}
		})
	}
}

func TestParse_NoSections(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no body", "ConsoleLogSaverData/1.0\nSeparator: ---\n"},
		{"no blank line", "ConsoleLogSaverData/1.0\nSeparator: ---"},
		{"body without separator", "ConsoleLogSaverData/1.0\nSeparator: ---\n\nContent: a\n\ntext\n"},
		{"leading separator only", "ConsoleLogSaverData/1.0\nSeparator: ---\n\n---\n"},
		{"trailing blank lines", "ConsoleLogSaverData/1.0\nSeparator: ---\n\n---\n\n\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if doc.Sections == nil || len(doc.Sections) != 0 {
				t.Errorf("Sections = %v, want empty", doc.Sections)
			}
		})
	}
}

func TestParse_HeaderSeparatorLineIsNotASection(t *testing.T) {
	// The header's own "Separator:" line ends with the separator but must
	// not open a section.
	doc, err := Parse("ConsoleLogSaverData/1.0\nSeparator: ---\nA: 1\n\n---\nContent: x\n\nbody\n---\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(doc.Sections) != 1 {
		t.Fatalf("Got %d sections, want 1", len(doc.Sections))
	}
	if doc.Sections[0].Content != "body" {
		t.Errorf("Content = %q, want %q", doc.Sections[0].Content, "body")
	}
}

func TestParse_TrailingBlankBlockStops(t *testing.T) {
	input := "ConsoleLogSaverData/1.0\nSeparator: ---\n\n---\n" +
		"Content: a\n\none\n---\n" +
		"Content: b\n\ntwo\n---\n" +
		"\n\n\n"

	doc, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(doc.Sections) != 2 {
		t.Fatalf("Got %d sections, want 2", len(doc.Sections))
	}
	if doc.Sections[1].Content != "two" {
		t.Errorf("Content = %q, want %q", doc.Sections[1].Content, "two")
	}
}

func TestParse_BlankSectionBeforeSeparator(t *testing.T) {
	// Blank lines followed by a separator form an empty section rather than
	// ending the document.
	input := "ConsoleLogSaverData/1.0\nSeparator: ---\n\n---\n" +
		"Content: a\n\none\n---\n" +
		"\n\n---\n" +
		"Content: b\n\nthree\n---\n"

	doc, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(doc.Sections) != 3 {
		t.Fatalf("Got %d sections, want 3", len(doc.Sections))
	}
	empty := doc.Sections[1]
	if len(empty.Fields) != 0 || empty.Content != "" {
		t.Errorf("Sections[1] = %+v, want empty section", empty)
	}
	if doc.Sections[2].Content != "three" {
		t.Errorf("Sections[2].Content = %q, want %q", doc.Sections[2].Content, "three")
	}
}

func TestParse_SectionWithoutBlankLine(t *testing.T) {
	doc, err := Parse("ConsoleLogSaverData/1.0\nSeparator: ---\n\n---\nContent: a\nMode-Raw: 1\n---\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(doc.Sections) != 1 {
		t.Fatalf("Got %d sections, want 1", len(doc.Sections))
	}
	s := doc.Sections[0]
	if len(s.Fields) != 2 {
		t.Errorf("Got %d fields, want 2", len(s.Fields))
	}
	if s.Content != "" {
		t.Errorf("Content = %q, want empty", s.Content)
	}
}

func TestParse_UnterminatedLastSection(t *testing.T) {
	doc, err := Parse("ConsoleLogSaverData/1.0\nSeparator: ---\n\n---\nContent: a\n\ncut off")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(doc.Sections) != 1 {
		t.Fatalf("Got %d sections, want 1", len(doc.Sections))
	}
	if doc.Sections[0].Content != "cut off" {
		t.Errorf("Content = %q, want %q", doc.Sections[0].Content, "cut off")
	}
}

func TestParseField(t *testing.T) {
	tests := []struct {
		line    string
		want    Field
		wantErr bool
	}{
		{"Key: value", Field{"Key", "value"}, false},
		{"Key:value", Field{"Key", "value"}, false},
		{"Key:  value", Field{"Key", " value"}, false},
		{"Key: a:b: c", Field{"Key", "a:b: c"}, false},
		{"Key:", Field{"Key", ""}, false},
		{": value", Field{"", "value"}, false},
		{"Key:\tvalue", Field{"Key", "\tvalue"}, false},
		{"no colon", Field{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := parseField(tt.line)
			if ok == tt.wantErr {
				t.Fatalf("parseField(%q) ok = %v", tt.line, ok)
			}
			if got != tt.want {
				t.Errorf("parseField(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestFields_Lookup(t *testing.T) {
	fields := Fields{
		{Key: "Mode", Value: "1"},
		{Key: "mode", Value: "2"},
		{Key: "Other", Value: "x"},
	}

	if v, ok := fields.Lookup("MODE"); !ok || v != "1" {
		t.Errorf("Lookup(MODE) = %q, %v, want \"1\", true", v, ok)
	}
	if _, ok := fields.Lookup("missing"); ok {
		t.Error("Lookup(missing) found a value")
	}
	if got := fields.Get("missing"); got != "" {
		t.Errorf("Get(missing) = %q", got)
	}
	if got := fields.Values("mode"); !reflect.DeepEqual(got, []string{"1", "2"}) {
		t.Errorf("Values(mode) = %v", got)
	}
}

func TestSection_Field(t *testing.T) {
	s := Section{Fields: Fields{{Key: "content", Value: "log-element"}, {Key: "Mode-Raw", Value: "4"}}}

	if s.ContentType() != "log-element" {
		t.Errorf("ContentType() = %q", s.ContentType())
	}
	if v, ok := s.Field("mode-raw"); !ok || v != "4" {
		t.Errorf("Field(mode-raw) = %q, %v", v, ok)
	}
}
