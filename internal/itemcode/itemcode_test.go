package itemcode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormat(t *testing.T) {
	code := New()
	assert.True(t, strings.HasPrefix(code, Prefix), "code %q missing prefix", code)
	assert.Len(t, code, len(Prefix)+8)
	assert.True(t, Valid(code), "code %q not valid", code)
}

func TestNewDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		code := New()
		require.False(t, seen[code], "duplicate code %q", code)
		seen[code] = true
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("FOUND-9F2C41AB"))
	assert.False(t, Valid("FOUND-9f2c41ab"), "lowercase")
	assert.False(t, Valid("FOUND-9F2C41"), "too short")
	assert.False(t, Valid("LOST-9F2C41AB"), "wrong prefix")
	assert.False(t, Valid(""))
}
