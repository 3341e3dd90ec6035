package engine

import (
	"github.com/pschichtel/VirtualScanner/internal/compiler"
)

// Compiler turns detected content into events.
type Compiler interface {
	Compile(content string) (*compiler.Program, error)
	// Path names the compile path for metrics.
	Path() string
}

// MacroCompiler compiles content with the macro grammar. Unknown keys are
// dropped.
type MacroCompiler struct {
	Options compiler.Options
}

// Compile implements Compiler.
func (c MacroCompiler) Compile(content string) (*compiler.Program, error) {
	return compiler.Compile(content, c.Options)
}

// Path implements Compiler.
func (c MacroCompiler) Path() string { return "macro" }

// DirectCompiler types content character by character through a layout
// and fails when any character is missing.
type DirectCompiler struct {
	Options compiler.DirectOptions
}

// Compile implements Compiler.
func (c DirectCompiler) Compile(content string) (*compiler.Program, error) {
	events, err := compiler.CompileDirect(content, c.Options)
	if err != nil {
		return nil, err
	}
	return &compiler.Program{Events: events}, nil
}

// Path implements Compiler.
func (c DirectCompiler) Path() string { return "direct" }
