package source

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// DefaultEncodingHint is used when raw bytes are neither marked by a BOM
// nor valid UTF-8.
const DefaultEncodingHint = "ISO-8859-1"

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF32LE = []byte{0xFF, 0xFE, 0x00, 0x00}
	bomUTF32BE = []byte{0x00, 0x00, 0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Decode turns raw scanned bytes into text:
//   - a UTF-32 or UTF-16 byte order mark selects that encoding
//   - valid UTF-8 is used as-is (a UTF-8 BOM is stripped)
//   - anything else is decoded with the charset named by hint
func Decode(b []byte, hint string) (string, error) {
	var enc encoding.Encoding
	switch {
	case len(b) >= 4 && (bytes.HasPrefix(b, bomUTF32LE) || bytes.HasPrefix(b, bomUTF32BE)):
		enc = utf32.UTF32(utf32.BigEndian, utf32.ExpectBOM)
	case len(b) >= 2 && (bytes.HasPrefix(b, bomUTF16LE) || bytes.HasPrefix(b, bomUTF16BE)):
		enc = unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)
	case utf8.Valid(b):
		return string(bytes.TrimPrefix(b, bomUTF8)), nil
	default:
		if hint == "" {
			hint = DefaultEncodingHint
		}
		var err error
		enc, err = htmlindex.Get(hint)
		if err != nil {
			return "", fmt.Errorf("unknown encoding hint %q: %w", hint, err)
		}
	}

	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decoding content: %w", err)
	}
	return string(out), nil
}

// ValidEncoding reports whether name is a known charset.
func ValidEncoding(name string) bool {
	_, err := htmlindex.Get(name)
	return err == nil
}
