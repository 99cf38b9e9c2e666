package graph

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ParseIgnoreDirectory reads the optional ignore directory (spec.md §6): a
// directory of text files, each containing article names one per line.
// Whitespace within a line is preserved as-is except the terminating
// newline; each name has its first character capitalized before insertion,
// matching the grounding original's `parse_ignore_directory`
// (_examples/original_source/src/parse.rs). Returns the set of names to
// pass as BuildOptions.Ignore.
func ParseIgnoreDirectory(dir string) (map[string]struct{}, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("graph: reading ignore directory %q: %w", dir, err)
	}

	ignore := make(map[string]struct{})
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := parseIgnoreFile(path, ignore); err != nil {
			return nil, err
		}
	}
	return ignore, nil
}

func parseIgnoreFile(path string, ignore map[string]struct{}) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("graph: reading ignore file %q: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		ignore[capitalizeFirst(line)] = struct{}{}
	}
	return scanner.Err()
}

// capitalizeFirst upper-cases only the first character of s, leaving the
// rest (including surrounding whitespace) byte-identical, unlike
// normalize.Normalize which also trims.
func capitalizeFirst(s string) string {
	first, size := utf8.DecodeRuneInString(s)
	return strings.ToUpper(string(first)) + s[size:]
}
