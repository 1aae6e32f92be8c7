// Package verify implements hidden-detail matching for claim requests.
package verify

import (
	"crypto/subtle"
	"strings"
)

// Match reports whether a claimant's entered secret matches an item's stored
// hidden detail. The comparison ignores surrounding whitespace and letter
// case; normalization applies only to the comparison, never to stored
// values. An empty value on either side never matches, so an item without a
// usable secret cannot be auto-verified by an empty guess.
func Match(entered, stored string) bool {
	entered = normalize(entered)
	stored = normalize(stored)
	if entered == "" || stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(entered), []byte(stored)) == 1
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
