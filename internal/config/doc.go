// Package config loads vscan configuration files.
//
// YAML, TOML and JSON files are read into a generic map first and then
// decoded onto the defaults with mapstructure, so a file only needs the
// keys it changes. Unknown keys are rejected. Durations accept Go duration
// strings ("250ms") or plain numbers, taken as milliseconds.
package config
