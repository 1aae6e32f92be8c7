// Package itemcode generates the human-readable codes printed on found-item
// tags, e.g. "FOUND-9F2C41AB".
package itemcode

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"
)

// Prefix starts every issued code.
const Prefix = "FOUND-"

// suffixBytes of randomness give 2^32 possible codes, plenty for a single
// campus. Collisions are caught by the unique index on items.item_code and
// the store retries with a fresh candidate.
const suffixBytes = 4

var codePattern = regexp.MustCompile(`^FOUND-[0-9A-F]{8}$`)

// New returns a fresh candidate code. Safe for concurrent use; two
// concurrent calls can only collide with negligible probability, and the
// store never persists a duplicate.
func New() string {
	buf := make([]byte, suffixBytes)
	// crypto/rand.Read does not fail on supported platforms.
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return Prefix + strings.ToUpper(hex.EncodeToString(buf))
}

// Valid reports whether s looks like an issued item code.
func Valid(s string) bool {
	return codePattern.MatchString(s)
}
