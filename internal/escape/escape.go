// Package escape implements the five permitted TOON string escape
// sequences and their inverse.
package escape

import (
	"strings"

	"github.com/mcncl/gotoon/internal/errors"
)

// Escape maps backslash, double-quote, newline, carriage return, and tab to
// their two-character escape sequences. All other bytes pass through
// unchanged. No Unicode escapes are ever produced.
func Escape(s string) string {
	var needsEscape bool
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\', '"', '\n', '\r', '\t':
			needsEscape = true
		}
		if needsEscape {
			break
		}
	}
	if !needsEscape {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Unescape walks s left-to-right, resolving the five permitted escape
// sequences. A lone trailing backslash is UnterminatedString; a backslash
// followed by anything else is InvalidEscape.
func Unescape(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(s) {
			return "", errors.New(errors.KindUnterminatedStr, "string ends with a lone backslash", nil)
		}
		i++
		switch s[i] {
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		default:
			return "", errors.New(errors.KindInvalidEscape, "unsupported escape sequence \\"+string(s[i]), nil)
		}
	}
	return b.String(), nil
}
