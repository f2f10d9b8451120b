// Package props reads and rewrites flat key=value properties files,
// preserving every byte that is not the rewritten line.
package props

import (
	"fmt"
	"os"
	"strings"
)

// Properties holds the parsed contents of a properties file.
// Key order follows first appearance in the file; duplicate keys keep the
// last value seen.
type Properties struct {
	keys   []string
	values map[string]string
}

// Get returns the value for a key and whether the key was present.
func (p *Properties) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Keys returns the keys in file order (first appearance).
func (p *Properties) Keys() []string {
	return p.keys
}

// Len returns the number of distinct keys.
func (p *Properties) Len() int {
	return len(p.keys)
}

// Read parses a properties file from disk.
func Read(path string) (*Properties, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read properties file: %w", err)
	}
	return Parse(string(data)), nil
}

// Parse parses properties text. Blank lines and lines whose first
// non-whitespace character is '#' are ignored. Lines split on the first
// '=': the value may itself contain '='. Keys and values are trimmed.
func Parse(text string) *Properties {
	p := &Properties{values: make(map[string]string)}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if _, seen := p.values[key]; !seen {
			p.keys = append(p.keys, key)
		}
		p.values[key] = value
	}

	return p
}

// DetectLineEnding returns the dominant line ending of text: "\r\n" when
// CRLF occurrences outnumber bare-LF occurrences, otherwise "\n". A file
// with no newlines at all defaults to "\n".
func DetectLineEnding(text string) string {
	crlf := strings.Count(text, "\r\n")
	lf := strings.Count(text, "\n") - crlf
	if crlf > lf {
		return "\r\n"
	}
	return "\n"
}

// WriteKey rewrites the first line of the file whose key matches, replacing
// it with "key=value" terminated by the file's dominant line ending. Every
// other line is preserved byte for byte. If the key is absent the file is
// left untouched and no error is returned.
func WriteKey(path, key, value string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read properties file: %w", err)
	}

	text := string(data)
	eol := DetectLineEnding(text)
	lines := splitAfter(text)

	for i, line := range lines {
		if !lineHasKey(line, key) {
			continue
		}
		lines[i] = key + "=" + value + eol
		out := strings.Join(lines, "")
		if err := os.WriteFile(path, []byte(out), 0644); err != nil {
			return fmt.Errorf("failed to write properties file: %w", err)
		}
		return nil
	}

	// Key not present: nothing to do.
	return nil
}

// splitAfter splits text into lines keeping each line's terminator attached.
// A trailing empty element from a final newline is dropped.
func splitAfter(text string) []string {
	lines := strings.SplitAfter(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

// lineHasKey reports whether a raw line (terminator included) assigns the
// given key, ignoring whitespace around the key.
func lineHasKey(line, key string) bool {
	body := strings.TrimRight(line, "\r\n")
	before, _, found := strings.Cut(body, "=")
	if !found {
		return false
	}
	return strings.TrimSpace(before) == key
}
