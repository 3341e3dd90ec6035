package ir

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/text/unicode/norm"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainContent = "vscan/content/v1"
	DomainEvents  = "vscan/events/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ContentHash identifies scanned content independent of Unicode
// normalization form: NFC and NFD spellings hash equal.
func ContentHash(content string) string {
	return hashWithDomain(DomainContent, []byte(norm.NFC.String(content)))
}

// EventsHash identifies a compiled event list by its canonical form.
func EventsHash(events []KeyEvent) string {
	return hashWithDomain(DomainEvents, []byte(Canonicalize(events)))
}
