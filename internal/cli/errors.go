package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/pschichtel/VirtualScanner/internal/compiler"
	"github.com/pschichtel/VirtualScanner/internal/config"
	"github.com/pschichtel/VirtualScanner/internal/inject"
	"github.com/pschichtel/VirtualScanner/internal/layout"
)

// Error codes reported in CLI output.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeParse        = "E002" // Macro could not be parsed
	ErrCodeMissingChars = "E003" // Layout is missing characters
	ErrCodeLayout       = "E004" // Layout could not be loaded
	ErrCodeNotFound     = "E005" // Path not found
	ErrCodeInjection    = "E006" // Key injection failed
	ErrCodeWriteFailed  = "E007" // File write error
	ErrCodeConfig       = "E008" // Invalid configuration
)

// ErrorCode maps an error to its CLI error code.
func ErrorCode(err error) string {
	var (
		missing   *compiler.MissingCharactersError
		fileErr   *layout.FileError
		specErr   *layout.ActionSpecError
		injectErr *inject.InjectionError
		cfgParse  *config.ParseError
	)
	switch {
	case errors.Is(err, compiler.ErrParseFailure):
		return ErrCodeParse
	case errors.As(err, &missing):
		return ErrCodeMissingChars
	case errors.Is(err, layout.ErrNotFound), errors.Is(err, os.ErrNotExist):
		return ErrCodeNotFound
	case errors.As(err, &fileErr), errors.As(err, &specErr):
		return ErrCodeLayout
	case errors.As(err, &injectErr):
		return ErrCodeInjection
	case config.IsValidation(err), errors.As(err, &cfgParse):
		return ErrCodeConfig
	default:
		return ErrCodeGeneric
	}
}

// errorDetails returns structured context for JSON error output.
func errorDetails(err error) any {
	var parseErr *compiler.ParseError
	if errors.As(err, &parseErr) {
		return map[string]any{"offset": parseErr.Offset}
	}
	var missing *compiler.MissingCharactersError
	if errors.As(err, &missing) {
		chars := make([]string, len(missing.Chars))
		for i, r := range missing.Chars {
			chars[i] = string(r)
		}
		return map[string]any{"missing": chars}
	}
	var validation *config.ValidationError
	if errors.As(err, &validation) {
		return map[string]any{"problems": validation.Problems}
	}
	var injectErr *inject.InjectionError
	if errors.As(err, &injectErr) {
		return map[string]any{"index": injectErr.Index, "key": injectErr.Event.Code}
	}
	return nil
}

// fail reports err through the formatter and returns the matching ExitError.
func fail(formatter *OutputFormatter, exitCode int, err error) error {
	return failWith(formatter, exitCode, ErrorCode(err), err.Error(), errorDetails(err))
}

// failWith reports an explicit code and message.
func failWith(formatter *OutputFormatter, exitCode int, code, message string, details any) error {
	_ = formatter.Error(code, message, details)
	return &ExitError{Code: exitCode, Message: fmt.Sprintf("%s: %s", code, message), Reported: true}
}
