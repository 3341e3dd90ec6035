package layout

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pschichtel/VirtualScanner/internal/ir"
)

// FileError reports a malformed line in a layout file.
type FileError struct {
	Line int
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// keyEscapes are the control characters a line file may name with a
// backslash escape, since they cannot appear literally in a line.
var keyEscapes = map[byte]rune{
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'\\': '\\',
}

// ParseLayoutFile reads KEY=SPEC lines. KEY is a single character, or one
// of the escapes \n \r \t \\. Lines without "=" after the key are ignored.
// Trailing blanks after SPEC are ignored.
// A later entry for the same key replaces an earlier one.
func ParseLayoutFile(r io.Reader) (*Layout, error) {
	entries := make(map[string][]ir.KeyEvent)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		key, spec, ok := splitLine(strings.TrimSuffix(scanner.Text(), "\r"))
		if !ok {
			continue
		}
		events, err := ParseActionSpec(strings.TrimRight(spec, " \t"))
		if err != nil {
			return nil, &FileError{Line: lineNo, Err: err}
		}
		entries[key] = events
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading layout file: %w", err)
	}
	return &Layout{entries: entries}, nil
}

func splitLine(line string) (key, spec string, ok bool) {
	if line == "" {
		return "", "", false
	}
	if len(line) >= 3 && line[0] == '\\' && line[2] == '=' {
		if r, isEscape := keyEscapes[line[1]]; isEscape {
			return string(r), line[3:], true
		}
	}
	r, size := utf8.DecodeRuneInString(line)
	if size >= len(line) || line[size] != '=' {
		return "", "", false
	}
	return string(r), line[size+1:], true
}

// WriteLayoutFile writes single-character entries in KEY=SPEC form,
// sorted by key. Entries the line format cannot express (symbolic names)
// are skipped and returned.
func (l *Layout) WriteLayoutFile(w io.Writer) (skipped []string, err error) {
	bw := bufio.NewWriter(w)
	for _, key := range l.Keys() {
		if !isSingleChar(key) {
			skipped = append(skipped, key)
			continue
		}
		if _, err := fmt.Fprintf(bw, "%s=%s\n", escapeKey(key), ir.Canonicalize(l.entries[key])); err != nil {
			return skipped, err
		}
	}
	return skipped, bw.Flush()
}

func escapeKey(key string) string {
	switch key {
	case "\n":
		return `\n`
	case "\r":
		return `\r`
	case "\t":
		return `\t`
	case "\\":
		return `\\`
	}
	return key
}
