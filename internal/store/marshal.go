package store

import (
	"encoding/json"
	"fmt"
	"time"
)

// timeLayout stores recorded_at as sortable UTC text.
const timeLayout = time.RFC3339Nano

// marshalUnresolved converts the unresolved key list to JSON TEXT.
// A nil list is stored as "[]".
func marshalUnresolved(keys []string) (string, error) {
	if len(keys) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(keys)
	if err != nil {
		return "", fmt.Errorf("marshal unresolved: %w", err)
	}
	return string(data), nil
}

// unmarshalUnresolved parses JSON TEXT to a key list. An empty list
// becomes nil.
func unmarshalUnresolved(data string) ([]string, error) {
	if data == "" || data == "[]" {
		return nil, nil
	}
	var keys []string
	if err := json.Unmarshal([]byte(data), &keys); err != nil {
		return nil, fmt.Errorf("unmarshal unresolved: %w", err)
	}
	return keys, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse recorded_at: %w", err)
	}
	return t, nil
}
