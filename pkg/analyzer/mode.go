package analyzer

import (
	"strconv"
	"strings"
)

// Mode is the Unity console entry mode bitmask stored in a log section's
// "Mode-Raw" field as hexadecimal.
type Mode uint32

// Console mode flags.
const (
	ModeError                           Mode = 1 << 0
	ModeAssert                          Mode = 1 << 1
	ModeLog                             Mode = 1 << 2
	ModeFatal                           Mode = 1 << 4
	ModeDontPreprocessCondition         Mode = 1 << 5
	ModeAssetImportError                Mode = 1 << 6
	ModeAssetImportWarning              Mode = 1 << 7
	ModeScriptingError                  Mode = 1 << 8
	ModeScriptingWarning                Mode = 1 << 9
	ModeScriptingLog                    Mode = 1 << 10
	ModeScriptCompileError              Mode = 1 << 11
	ModeScriptCompileWarning            Mode = 1 << 12
	ModeStickyError                     Mode = 1 << 13
	ModeMayIgnoreLineNumber             Mode = 1 << 14
	ModeReportBug                       Mode = 1 << 15
	ModeDisplayPreviousErrorInStatusBar Mode = 1 << 16
	ModeScriptingException              Mode = 1 << 17
	ModeDontExtractStacktrace           Mode = 1 << 18
	ModeShouldClearOnPlay               Mode = 1 << 19
	ModeGraphCompileError               Mode = 1 << 20
	ModeScriptingAssertion              Mode = 1 << 21
	ModeVisualScriptingError            Mode = 1 << 22
)

const (
	errorModes = ModeFatal | ModeAssert | ModeError | ModeScriptingError | ModeAssetImportError |
		ModeScriptCompileError | ModeGraphCompileError | ModeScriptingAssertion | ModeScriptingException
	warningModes = ModeScriptCompileWarning | ModeScriptingWarning | ModeAssetImportWarning
)

var modeNames = []struct {
	mode Mode
	name string
}{
	{ModeError, "Error"},
	{ModeAssert, "Assert"},
	{ModeLog, "Log"},
	{ModeFatal, "Fatal"},
	{ModeDontPreprocessCondition, "DontPreprocessCondition"},
	{ModeAssetImportError, "AssetImportError"},
	{ModeAssetImportWarning, "AssetImportWarning"},
	{ModeScriptingError, "ScriptingError"},
	{ModeScriptingWarning, "ScriptingWarning"},
	{ModeScriptingLog, "ScriptingLog"},
	{ModeScriptCompileError, "ScriptCompileError"},
	{ModeScriptCompileWarning, "ScriptCompileWarning"},
	{ModeStickyError, "StickyError"},
	{ModeMayIgnoreLineNumber, "MayIgnoreLineNumber"},
	{ModeReportBug, "ReportBug"},
	{ModeDisplayPreviousErrorInStatusBar, "DisplayPreviousErrorInStatusBar"},
	{ModeScriptingException, "ScriptingException"},
	{ModeDontExtractStacktrace, "DontExtractStacktrace"},
	{ModeShouldClearOnPlay, "ShouldClearOnPlay"},
	{ModeGraphCompileError, "GraphCompileError"},
	{ModeScriptingAssertion, "ScriptingAssertion"},
	{ModeVisualScriptingError, "VisualScriptingError"},
}

// Has reports whether any bit of flag is set.
func (m Mode) Has(flag Mode) bool {
	return m&flag != 0
}

// Flags returns the names of the known flags set in m.
func (m Mode) Flags() []string {
	var names []string
	for _, mn := range modeNames {
		if m.Has(mn.mode) {
			names = append(names, mn.name)
		}
	}
	return names
}

// String renders the mode as its flag names joined by "|".
func (m Mode) String() string {
	if m == 0 {
		return "None"
	}
	names := m.Flags()
	if len(names) == 0 {
		return "0x" + strconv.FormatUint(uint64(m), 16)
	}
	return strings.Join(names, "|")
}

// Severity classifies the mode the same way the Unity console picks its
// icon: any error flag wins over any warning flag, everything else is info.
func (m Mode) Severity() Severity {
	switch {
	case m.Has(errorModes):
		return SeverityError
	case m.Has(warningModes):
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// ParseMode reads a hexadecimal Mode-Raw value. An optional "0x" prefix and
// surrounding whitespace are accepted and parsing stops at the first
// non-hex character. Values with no leading hex digits yield 0.
func ParseMode(raw string) Mode {
	s := strings.TrimSpace(raw)
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}

	end := 0
	for end < len(s) && isHexDigit(s[end]) {
		end++
	}
	digits := strings.TrimLeft(s[:end], "0")
	if digits == "" {
		return 0
	}
	// Only the low 32 bits carry flags.
	if len(digits) > 8 {
		digits = digits[len(digits)-8:]
	}

	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0
	}
	return Mode(v)
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}
