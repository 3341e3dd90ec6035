// Package layout maps characters and symbolic key names to the key event
// sequences that type them on a particular keyboard.
//
// Layouts are loaded from either of two formats:
//   - line files: one KEY=SPEC entry per line, SPEC in the +N/-N/~N
//     action-spec mini-language (see ParseActionSpec)
//   - structured tables: a JSON or YAML object whose values are either an
//     action-spec string or a list of {key, state} objects
//
// A Layout is immutable once built and safe for concurrent readers.
package layout
