package parser

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// MaxFileSize caps how much of a single dump is read into memory.
const MaxFileSize = 256 * 1024 * 1024

// Decode reads a dump from r. UTF-16 input with a byte order mark is
// converted to UTF-8 and a UTF-8 byte order mark is dropped.
func Decode(r io.Reader) (string, error) {
	return decode(r, MaxFileSize)
}

// decode is Decode with an explicit cap on the decoded size.
func decode(r io.Reader, limit int64) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	data, err := io.ReadAll(io.LimitReader(transform.NewReader(r, decoder), limit+1))
	if err != nil {
		return "", fmt.Errorf("decoding input: %w", err)
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("input exceeds %d bytes", limit)
	}
	return string(data), nil
}

// ReadFile reads and decodes the dump at path.
func ReadFile(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return "", fmt.Errorf("opening log dump %s: %w", path, err)
	}
	defer f.Close()

	content, err := Decode(f)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return content, nil
}

// ParseFile reads and parses the dump at path.
func ParseFile(ctx context.Context, path string) (*Document, error) {
	content, err := ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	doc, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// FileResult is the outcome of parsing one file in ParseFiles.
type FileResult struct {
	Path     string
	Document *Document
	Err      error
}

// ParseFiles parses each path with at most workers files in flight.
// Results are returned in the order of paths. A failing file does not stop
// the others; its error is kept in its FileResult.
func ParseFiles(ctx context.Context, paths []string, workers int) []FileResult {
	if workers < 1 {
		workers = 1
	}

	results := make([]FileResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			doc, err := ParseFile(ctx, path)
			results[i] = FileResult{Path: path, Document: doc, Err: err}
			return nil
		})
	}

	// Workers never return an error; per-file failures live in results.
	_ = g.Wait()

	return results
}
