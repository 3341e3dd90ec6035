package layout

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a layout file does not exist.
var ErrNotFound = errors.New("layout file not found")

// Format identifies a layout file format.
type Format string

const (
	FormatLines Format = "lines"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// FormatFor picks the format from a file extension: .json and .yaml/.yml
// are structured tables, anything else is a line file.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatLines
	}
}

// LoadFile reads a layout in the format implied by its extension.
func LoadFile(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading layout: %w", err)
	}

	var l *Layout
	switch FormatFor(path) {
	case FormatJSON:
		l, err = ParseJSON(data)
	case FormatYAML:
		l, err = ParseYAML(data)
	default:
		l, err = ParseLayoutFile(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	l.source = path
	return l, nil
}

// SaveFile writes l in the format implied by path's extension. The file is
// written to a temporary sibling first and renamed into place.
// For line files the keys that could not be written are returned.
func SaveFile(path string, l *Layout) (skipped []string, err error) {
	var buf bytes.Buffer
	switch FormatFor(path) {
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(l); err != nil {
			return nil, fmt.Errorf("encoding layout: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(l); err != nil {
			return nil, fmt.Errorf("encoding layout: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding layout: %w", err)
		}
	default:
		skipped, err = l.WriteLayoutFile(&buf)
		if err != nil {
			return nil, fmt.Errorf("encoding layout: %w", err)
		}
	}

	if err := writeAtomic(path, buf.Bytes()); err != nil {
		return nil, err
	}
	return skipped, nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing layout: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing layout: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing layout: %w", err)
	}
	return nil
}
