// Package quote implements the quoting oracle: the shared policy for
// deciding whether a string or object key must be quoted in the active
// delimiter context.
package quote

import (
	"regexp"
	"strings"

	"github.com/mcncl/gotoon/internal/numfmt"
)

// specialChars are bytes that always force quoting regardless of the
// active delimiter.
const specialChars = `:"\[]{}` + "\n\r\t"

// identifierRe matches an unquoted-safe key.
var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// NeedsQuoting reports whether s must be quoted when emitted as a string
// value under the given active delimiter byte.
func NeedsQuoting(s string, delim byte) bool {
	if s == "" {
		return true
	}
	if s[0] == ' ' || s[0] == '\t' || s[len(s)-1] == ' ' || s[len(s)-1] == '\t' {
		return true
	}
	if s == "true" || s == "false" || s == "null" {
		return true
	}
	if numfmt.LooksLikeNumber(s) {
		return true
	}
	if strings.HasPrefix(s, "-") {
		return true
	}
	if strings.ContainsAny(s, specialChars) {
		return true
	}
	if strings.IndexByte(s, delim) >= 0 {
		return true
	}
	return false
}

// KeyNeedsQuoting reports whether an object key must be quoted: it may be
// emitted bare only if it matches [A-Za-z_][A-Za-z0-9_.]*.
func KeyNeedsQuoting(key string) bool {
	return !identifierRe.MatchString(key)
}
