package mlex

import (
	"unicode"

	"golang.org/x/text/unicode/runenames"
)

// IsNewline reports whether c is one of the line-terminating characters
// enumerated in spec.md §6: CR, LF, VT, FF, NEL, LS, PS. CRLF is handled by
// the caller as a two-character terminator; IsNewline alone recognizes the
// characters that *may* start or complete one.
func IsNewline(c rune) bool {
	switch c {
	case '\n', '\r', '\x0B', '\x0C', '', ' ', ' ':
		return true
	}
	return false
}

// IsIDStart reports whether c may start a plain M identifier.
func IsIDStart(c rune) bool {
	return unicode.Is(unicode.L, c) || c == '_'
}

// IsIDContinue reports whether c may continue a plain M identifier.
func IsIDContinue(c rune) bool {
	return unicode.Is(unicode.L, c) ||
		unicode.Is(unicode.Nd, c) ||
		unicode.Is(unicode.Mn, c) ||
		unicode.Is(unicode.Mc, c) ||
		unicode.Is(unicode.Pc, c) ||
		c == '_'
}

// IsDigit reports whether c is an ASCII decimal digit.
func IsDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

// IsHexDigit reports whether c is an ASCII hexadecimal digit.
func IsHexDigit(c rune) bool {
	return IsDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// describeChar names an unexpected character for diagnostics, e.g. when the
// line lexer hits a byte that starts no valid M token. Falls back to the
// rune itself for characters without a registered Unicode name (control
// characters, unassigned code points).
func describeChar(c rune) string {
	if name := runenames.Name(c); name != "" {
		return name
	}
	return string(c)
}
