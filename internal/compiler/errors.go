package compiler

import (
	"errors"
	"fmt"
	"strings"
)

// ErrParseFailure is matched by every *ParseError.
var ErrParseFailure = errors.New("macro could not be parsed")

// ParseError reports a macro that could not be consumed completely.
type ParseError struct {
	Input   string
	Offset  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse failure at offset %d: %s", e.Offset, e.Message)
}

func (e *ParseError) Unwrap() error {
	return ErrParseFailure
}

// MissingCharactersError reports the characters a layout cannot type.
// The direct compile path fails as a whole when any character is missing.
type MissingCharactersError struct {
	Chars []rune
}

func (e *MissingCharactersError) Error() string {
	quoted := make([]string, len(e.Chars))
	for i, r := range e.Chars {
		quoted[i] = fmt.Sprintf("%q", r)
	}
	return fmt.Sprintf("layout is missing %d character(s): %s", len(e.Chars), strings.Join(quoted, ", "))
}
