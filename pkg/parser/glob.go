package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ExpandGlobs expands file paths, glob patterns and directories into a
// sorted, deduplicated list of dump paths. A directory contributes the
// regular files directly inside it. Patterns that match nothing are returned
// as-is so the caller reports a file-not-found error for them.
func ExpandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			result = append(result, path)
		}
	}

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			add(pattern)
			continue
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil || !info.IsDir() {
				add(match)
				continue
			}

			entries, err := os.ReadDir(match)
			if err != nil {
				return nil, fmt.Errorf("reading directory %s: %w", match, err)
			}
			for _, entry := range entries {
				if entry.Type().IsRegular() {
					add(filepath.Join(match, entry.Name()))
				}
			}
		}
	}

	sort.Strings(result)

	return result, nil
}
