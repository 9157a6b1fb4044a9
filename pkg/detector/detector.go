// Package detector identifies console log dumps and their text encoding by
// sampling the start of a file.
package detector

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"

	"github.com/ccollicutt/clsview/pkg/parser"
)

// Encoding names the text encoding of a sampled file.
type Encoding string

const (
	EncodingUTF8    Encoding = "utf-8"
	EncodingUTF8BOM Encoding = "utf-8-bom"
	EncodingUTF16LE Encoding = "utf-16le"
	EncodingUTF16BE Encoding = "utf-16be"
)

// DefaultSampleBytes is how much of a file is read when sampling.
const DefaultSampleBytes = 64 * 1024

// DetectionResult holds what was learned from the start of a file.
type DetectionResult struct {
	Path     string   `json:"path"`
	Encoding Encoding `json:"encoding"`

	// IsDump is true when the first line is a supported prologue.
	IsDump bool `json:"is_dump"`

	// Prologue is the first line of the file, truncated for display.
	Prologue string `json:"prologue"`

	// Version is the format version, set only for dumps.
	Version string `json:"version,omitempty"`

	// Separator is the header separator when it appears in the sample.
	Separator string `json:"separator,omitempty"`

	// HeaderFields counts the header fields seen in the sample.
	HeaderFields int `json:"header_fields"`
}

// Detector samples files to recognize log dumps.
type Detector struct {
	sampleBytes int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleBytes sets how many bytes are read from each file.
func WithSampleBytes(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleBytes = n
		}
	}
}

// New creates a new Detector.
func New(opts ...Option) *Detector {
	d := &Detector{
		sampleBytes: DefaultSampleBytes,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile samples the file at path.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// #nosec G304 - path is provided by user via CLI
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	sample, err := io.ReadAll(io.LimitReader(file, int64(d.sampleBytes)))
	if err != nil {
		return nil, err
	}

	result := d.DetectFromBytes(sample)
	result.Path = path
	return result, nil
}

// DetectFromBytes inspects the start of a file.
func (d *Detector) DetectFromBytes(sample []byte) *DetectionResult {
	enc, body := sniffEncoding(sample)
	result := &DetectionResult{Encoding: enc}

	text := decodeSample(enc, body)

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 4096), len(text)+1)

	if !scanner.Scan() {
		return result
	}
	prologue := strings.TrimSuffix(scanner.Text(), "\r")
	result.Prologue = truncate(prologue, 80)

	if !strings.HasPrefix(prologue, parser.VersionPrefix) {
		return result
	}
	result.IsDump = true
	result.Version = strings.TrimPrefix(prologue, "ConsoleLogSaverData/")

	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			break
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		result.HeaderFields++
		if result.Separator == "" && strings.EqualFold(key, "separator") {
			result.Separator = strings.TrimPrefix(value, " ")
		}
	}

	return result
}

// sniffEncoding reports the encoding given by a byte order mark and returns
// the bytes after it. Without a BOM the sample is treated as UTF-8.
func sniffEncoding(sample []byte) (Encoding, []byte) {
	switch {
	case bytes.HasPrefix(sample, []byte{0xEF, 0xBB, 0xBF}):
		return EncodingUTF8BOM, sample[3:]
	case bytes.HasPrefix(sample, []byte{0xFF, 0xFE}):
		return EncodingUTF16LE, sample[2:]
	case bytes.HasPrefix(sample, []byte{0xFE, 0xFF}):
		return EncodingUTF16BE, sample[2:]
	default:
		return EncodingUTF8, sample
	}
}

func decodeSample(enc Encoding, body []byte) string {
	var decoder *encoding.Decoder
	switch enc {
	case EncodingUTF16LE:
		decoder = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	case EncodingUTF16BE:
		decoder = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	default:
		return string(body)
	}

	// A sample can end in the middle of a code unit.
	if len(body)%2 == 1 {
		body = body[:len(body)-1]
	}
	out, err := decoder.Bytes(body)
	if err != nil {
		return ""
	}
	return string(out)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// FilterDumps returns the paths that hold log dumps. Files that cannot be
// read are kept so the caller reports the read error.
func (d *Detector) FilterDumps(ctx context.Context, paths []string) ([]string, []*DetectionResult) {
	var dumps []string
	var skipped []*DetectionResult

	for _, path := range paths {
		result, err := d.DetectFromFile(ctx, path)
		if err != nil || result.IsDump {
			dumps = append(dumps, path)
			continue
		}
		skipped = append(skipped, result)
	}

	return dumps, skipped
}
