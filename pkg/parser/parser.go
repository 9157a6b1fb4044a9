package parser

import (
	"strings"
)

// VersionPrefix is the prologue every supported dump starts with.
const VersionPrefix = "ConsoleLogSaverData/1."

const separatorField = "separator"

// rawSection is a section's text before its field block is parsed.
type rawSection struct {
	start int // index into the post-prologue lines
	lines []string
}

// Parse parses the full text of a dump. It returns an error and no Document
// when the prologue is unsupported, a field line has no colon, or the header
// has no separator field. Non-blank text between the header and the first
// separator line is parsed as a section, so it must be well formed.
func Parse(content string) (*Document, error) {
	lines := splitLines(content)
	if !strings.HasPrefix(lines[0], VersionPrefix) {
		return nil, &UnsupportedVersionError{Prologue: lines[0]}
	}
	prologue := lines[0]
	lines = lines[1:]

	headerEnd := indexOfEmpty(lines, 0)
	if headerEnd < 0 {
		headerEnd = len(lines)
	}

	header, err := parseFields(lines[:headerEnd], 0)
	if err != nil {
		return nil, err
	}

	// An empty value still counts; every line then ends with the separator.
	separator, ok := header.Lookup(separatorField)
	if !ok {
		return nil, &MissingSeparatorError{}
	}

	doc := &Document{
		Prologue: prologue,
		Header:   header,
		Sections: []Section{},
	}

	raws := splitSections(lines, headerEnd+1, separator)
	for _, raw := range raws {
		section, err := parseSection(raw)
		if err != nil {
			return nil, err
		}
		doc.Sections = append(doc.Sections, section)
	}

	return doc, nil
}

// splitSections cuts lines[from:] into separator-terminated blocks.
func splitSections(lines []string, from int, separator string) []rawSection {
	first := indexOfSuffix(lines, from, separator)
	if first < 0 {
		return nil
	}

	var raws []rawSection

	// Whatever precedes the first separator line is a section only when it
	// has content; a dump normally opens with a bare separator line.
	lead := stripSeparator(lines[from:first+1], separator)
	if !allEmpty(lead) {
		raws = append(raws, rawSection{start: from, lines: lead})
	}

	pos := first + 1
	for pos < len(lines) {
		start := pos
		for pos < len(lines) && !strings.HasSuffix(lines[pos], separator) {
			pos++
		}
		terminated := pos < len(lines)
		if terminated {
			pos++
		}

		block := lines[start:pos]
		if allEmpty(block) {
			// A trailing all-blank block ends the document.
			break
		}
		// A final block with no separator line is kept as written; there
		// is no suffix to strip.
		if terminated {
			block = stripSeparator(block, separator)
		}
		raws = append(raws, rawSection{start: start, lines: block})
	}

	return raws
}

// stripSeparator removes the separator from the end of the block's last
// line. A separator standing on its own line is dropped along with the line.
func stripSeparator(block []string, separator string) []string {
	n := len(block)
	last := strings.TrimSuffix(block[n-1], separator)
	if last == "" && n > 1 {
		return block[:n-1]
	}

	stripped := make([]string, n)
	copy(stripped, block)
	stripped[n-1] = last
	return stripped
}

func parseSection(raw rawSection) (Section, error) {
	fieldsEnd := indexOfEmpty(raw.lines, 0)

	var content string
	if fieldsEnd < 0 {
		// No blank line: the whole block is fields and the body is empty.
		fieldsEnd = len(raw.lines)
	} else {
		content = strings.Join(raw.lines[fieldsEnd+1:], "\n")
	}

	fields, err := parseFields(raw.lines[:fieldsEnd], raw.start)
	if err != nil {
		return Section{}, err
	}

	return Section{
		Fields:  fields,
		Content: content,
		Line:    sourceLine(raw.start),
	}, nil
}

// parseFields parses "Key: value" lines. offset is the index of lines[0]
// among the post-prologue lines and is only used for error reporting.
func parseFields(lines []string, offset int) (Fields, error) {
	fields := make(Fields, 0, len(lines))
	for i, line := range lines {
		field, ok := parseField(line)
		if !ok {
			return nil, &MalformedFieldLineError{Line: sourceLine(offset + i), Text: line}
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// parseField splits a line on its first colon. At most one space after the
// colon is dropped; any further whitespace belongs to the value.
func parseField(line string) (Field, bool) {
	key, value, ok := strings.Cut(line, ":")
	if !ok {
		return Field{}, false
	}
	return Field{Key: key, Value: strings.TrimPrefix(value, " ")}, true
}

// sourceLine converts a post-prologue line index to a 1-based line number in
// the original text.
func sourceLine(index int) int {
	return index + 2
}

func splitLines(content string) []string {
	return strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
}

func indexOfEmpty(lines []string, from int) int {
	for i := from; i < len(lines); i++ {
		if lines[i] == "" {
			return i
		}
	}
	return -1
}

func indexOfSuffix(lines []string, from int, suffix string) int {
	for i := from; i < len(lines); i++ {
		if strings.HasSuffix(lines[i], suffix) {
			return i
		}
	}
	return -1
}

func allEmpty(lines []string) bool {
	for _, line := range lines {
		if line != "" {
			return false
		}
	}
	return true
}
