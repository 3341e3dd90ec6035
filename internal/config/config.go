package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pschichtel/VirtualScanner/internal/compiler"
	"github.com/pschichtel/VirtualScanner/internal/inject"
	"github.com/pschichtel/VirtualScanner/internal/ir"
	"github.com/pschichtel/VirtualScanner/internal/layout"
	"github.com/pschichtel/VirtualScanner/internal/source"
)

// Config is the vscan configuration.
type Config struct {
	// Layout is the path of a layout file. Empty means built-in tables only.
	Layout string `mapstructure:"layout"`
	// EncodingHint decodes input bytes that are neither BOM-marked nor UTF-8.
	EncodingHint string `mapstructure:"encoding_hint"`

	NormalizeLineBreaks bool `mapstructure:"normalize_line_breaks"`
	NormalizeUnicode    bool `mapstructure:"normalize_unicode"`
	AllowNesting        bool `mapstructure:"allow_nesting"`
	AllowSpecial        bool `mapstructure:"allow_special"`

	// Envelope is a macro template around the content. Empty means no
	// envelope unless Prefix or Suffix is set.
	Envelope        string `mapstructure:"envelope"`
	EnvelopeKeyName string `mapstructure:"envelope_key_name"`
	// Prefix and Suffix are macros typed before and after the content.
	Prefix string `mapstructure:"prefix"`
	Suffix string `mapstructure:"suffix"`

	// Delay is waited before each emission.
	Delay        time.Duration `mapstructure:"delay"`
	EventDelay   time.Duration `mapstructure:"event_delay"`
	PollInterval time.Duration `mapstructure:"poll_interval"`

	// Charset lists characters the layout must cover (layout check).
	Charset   string `mapstructure:"charset"`
	HistoryDB string `mapstructure:"history_db"`
	LogLevel  string `mapstructure:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		EncodingHint:        source.DefaultEncodingHint,
		NormalizeLineBreaks: true,
		AllowNesting:        true,
		AllowSpecial:        true,
		EnvelopeKeyName:     compiler.DefaultEnvelopeKeyName,
		Delay:               time.Second,
		EventDelay:          inject.DefaultEventDelay,
		PollInterval:        source.DefaultPollInterval,
		LogLevel:            "info",
	}
}

// ValidationError lists every problem found by Validate.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

var logLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

// Validate checks the configuration and reports all problems at once.
func (c Config) Validate() error {
	var problems []string
	if c.EncodingHint != "" && !source.ValidEncoding(c.EncodingHint) {
		problems = append(problems, fmt.Sprintf("encoding_hint: unknown encoding %q", c.EncodingHint))
	}
	if strings.ContainsAny(c.EnvelopeKeyName, "{}") {
		problems = append(problems, "envelope_key_name: must not contain braces")
	}
	if c.Envelope != "" && (c.Prefix != "" || c.Suffix != "") {
		problems = append(problems, "envelope: cannot be combined with prefix or suffix")
	}
	if c.Delay < 0 {
		problems = append(problems, "delay: must not be negative")
	}
	if c.EventDelay < 0 {
		problems = append(problems, "event_delay: must not be negative")
	}
	if c.PollInterval <= 0 {
		problems = append(problems, "poll_interval: must be positive")
	}
	if !logLevels[strings.ToLower(c.LogLevel)] {
		problems = append(problems, fmt.Sprintf("log_level: unknown level %q", c.LogLevel))
	}
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}

// EnvelopeTemplate returns the effective envelope template, or nil when
// content is typed bare.
func (c Config) EnvelopeTemplate() *string {
	switch {
	case c.Envelope != "":
		t := c.Envelope
		return &t
	case c.Prefix != "" || c.Suffix != "":
		t := compiler.EnvelopeFromAffixes(c.Prefix, c.Suffix, c.EnvelopeKeyName)
		return &t
	}
	return nil
}

// CompileOptions builds the macro compiler options. l may be nil.
func (c Config) CompileOptions(l *layout.Layout) compiler.Options {
	return compiler.Options{
		NormalizeLineBreaks: c.NormalizeLineBreaks,
		AllowNesting:        c.AllowNesting,
		AllowSpecial:        c.AllowSpecial,
		Envelope:            c.EnvelopeTemplate(),
		EnvelopeKeyName:     c.EnvelopeKeyName,
		Layout:              l,
	}
}

// DirectOptions builds the direct compiler options. Prefix and Suffix are
// compiled as macros without an envelope.
func (c Config) DirectOptions(l *layout.Layout) (compiler.DirectOptions, error) {
	affix := c.CompileOptions(l)
	affix.Envelope = nil

	opts := compiler.DirectOptions{NormalizeLineBreaks: c.NormalizeLineBreaks, Layout: l}
	for _, a := range []struct {
		name string
		src  string
		dst  *[]ir.KeyEvent
	}{
		{"prefix", c.Prefix, &opts.Prefix},
		{"suffix", c.Suffix, &opts.Suffix},
	} {
		if a.src == "" {
			continue
		}
		prog, err := compiler.Compile(a.src, affix)
		if err != nil {
			return compiler.DirectOptions{}, fmt.Errorf("%s: %w", a.name, err)
		}
		*a.dst = prog.Events
	}
	return opts, nil
}

// LoadLayout loads the configured layout file. It returns nil when no
// layout is configured.
func (c Config) LoadLayout() (*layout.Layout, error) {
	if c.Layout == "" {
		return nil, nil
	}
	l, err := layout.LoadFile(c.Layout)
	if err != nil {
		return nil, fmt.Errorf("load layout: %w", err)
	}
	return l, nil
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
