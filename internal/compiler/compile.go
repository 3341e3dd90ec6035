package compiler

import (
	"github.com/pschichtel/VirtualScanner/internal/ir"
	"github.com/pschichtel/VirtualScanner/internal/layout"
)

// Options configures Compile.
type Options struct {
	NormalizeLineBreaks bool
	AllowNesting        bool
	AllowSpecial        bool

	// Envelope is the template macro wrapping the content. Nil means no
	// envelope; an empty template types nothing.
	Envelope *string
	// EnvelopeKeyName is the placeholder name inside Envelope.
	EnvelopeKeyName string
	// EnvelopeOptions controls parsing of the template. Nil uses
	// DefaultOptions.
	EnvelopeOptions *Options

	// Layout, when set, takes precedence over the built-in tables.
	Layout *layout.Layout
	// CharCoder is the last-resort character lookup.
	CharCoder CharCoder
}

// DefaultOptions enables line-break normalization, nesting and special
// keys, with the "CONTENT" placeholder.
func DefaultOptions() Options {
	return Options{
		NormalizeLineBreaks: true,
		AllowNesting:        true,
		AllowSpecial:        true,
		EnvelopeKeyName:     DefaultEnvelopeKeyName,
	}
}

// WithEnvelope returns a copy of o using template as the envelope.
func (o Options) WithEnvelope(template string) Options {
	o.Envelope = &template
	return o
}

func (o Options) parseOptions(placeholder string) ParseOptions {
	return ParseOptions{
		NormalizeLineBreaks: o.NormalizeLineBreaks,
		AllowNesting:        o.AllowNesting,
		AllowSpecial:        o.AllowSpecial,
		PlaceholderName:     placeholder,
	}
}

func (o Options) envelopeKeyName() string {
	if o.EnvelopeKeyName == "" {
		return DefaultEnvelopeKeyName
	}
	return o.EnvelopeKeyName
}

// Program is the result of compiling one macro.
type Program struct {
	// Tree is the action tree after envelope substitution.
	Tree []ir.ActionNode
	// Events is the flat event list to inject.
	Events []ir.KeyEvent
	// Unresolved lists keys that produced no events and were dropped.
	Unresolved []ir.KeyIdentifier
}

// Canonical returns the events in action-spec form.
func (p *Program) Canonical() string {
	return ir.Canonicalize(p.Events)
}

// Compile parses content, wraps it in the envelope when one is set and
// generates the events.
//
// Content is parsed with placeholder recognition disabled, so a literal
// {CONTENT} in scanned data is an ordinary (unresolvable) key name.
// Keys without any mapping are dropped and reported in
// Program.Unresolved rather than failing the compile.
func Compile(content string, opts Options) (*Program, error) {
	tree, err := ParseSequence(content, opts.parseOptions(""))
	if err != nil {
		return nil, err
	}

	if opts.Envelope != nil {
		envOpts := DefaultOptions()
		if opts.EnvelopeOptions != nil {
			envOpts = *opts.EnvelopeOptions
		}
		template, err := ParseSequence(*opts.Envelope, envOpts.parseOptions(opts.envelopeKeyName()))
		if err != nil {
			return nil, err
		}
		tree = ApplyEnvelope(template, tree)
	}

	events, unresolved := GenerateReport(tree, NewResolver(opts.Layout, opts.CharCoder))
	return &Program{Tree: tree, Events: events, Unresolved: unresolved}, nil
}
