package mformula

import (
	"github.com/halvorsen/mformula/internal/mlex"
	"github.com/halvorsen/mformula/internal/mparse"
)

// ErrorCategory discriminates the three result-level error families named
// in spec.md §6: "{err, error: LexError | ParseError | CommonError}".
type ErrorCategory uint8

const (
	// CategoryLex covers both line-isolated lexical errors (§4.1) and
	// multi-line-form errors from the snapshot step (§4.2); both fail the
	// library's public entry point even though only the latter fails
	// mlex's own TryFrom (line-level errors are aggregated first).
	CategoryLex ErrorCategory = iota
	// CategoryParse is a structured parse error (§4.3/§7); it carries the
	// partial result so tooling can still inspect the failed tree.
	CategoryParse
	// CategoryCommon covers cancellation and internal invariant
	// violations (§7 "Runtime" row).
	CategoryCommon
)

// Error is the single public error type every entry point in this package
// returns (§6). At most one of the Lex/Multiline/Parse fields is populated,
// selected by Category (none for CategoryCommon); Message is already
// localized via Settings.Lookup.
type Error struct {
	Category ErrorCategory

	Lex       *mlex.LexError
	Multiline *mlex.MultilineError
	Parse     *mparse.ParseError
	Cancelled bool

	// GraphemeColumn is the Unicode-grapheme-cluster column of the
	// offending position, computed via ColumnNumber when the triggering
	// line text is available (§4.3 "Each carries ... its grapheme column
	// number").
	GraphemeColumn int
	HasColumn      bool

	Message string
}

func (e *Error) Error() string { return e.Message }

func newLexError(settings Settings, state *mlex.State, lex *mlex.LexError) *Error {
	key := lexMessageKey(lex.Kind)
	msg := settings.lookup()(settings.locale(), key, describeLexRead(lex), lex.LineNumber)
	e := &Error{Category: CategoryLex, Lex: lex, Message: msg}
	if lex.LineNumber >= 0 && lex.LineNumber < len(state.Lines) {
		e.GraphemeColumn = ColumnNumber(state.Lines[lex.LineNumber].LineString, lex.ColumnHint)
		e.HasColumn = true
	}
	return e
}

func describeLexRead(lex *mlex.LexError) string {
	if lex.Message != "" {
		return lex.Message
	}
	return "?"
}

func lexMessageKey(kind mlex.LexErrorKind) string {
	switch kind {
	case mlex.UnexpectedEof:
		return KeyLexUnexpectedEof
	case mlex.BadLineTerminator:
		return KeyLexBadLineTerminator
	case mlex.BadRange:
		return KeyLexBadRange
	default:
		return KeyLexUnexpectedRead
	}
}

func newMultilineError(settings Settings, m *mlex.MultilineError) *Error {
	key := multilineMessageKey(m.Kind)
	msg := settings.lookup()(settings.locale(), key, m.LineNumber)
	return &Error{Category: CategoryLex, Multiline: m, Message: msg}
}

func multilineMessageKey(kind mlex.MultilineErrorKind) string {
	switch kind {
	case mlex.UnterminatedQuotedIdentifier:
		return KeyUnterminatedQuotedId
	case mlex.UnterminatedString:
		return KeyUnterminatedString
	default:
		return KeyUnterminatedBlockCmt
	}
}

func newParseFacingError(settings Settings, state *mlex.State, pe *mparse.ParseError) *Error {
	e := &Error{Category: CategoryParse, Parse: pe, Message: pe.Error()}
	lookup := settings.lookup()
	locale := settings.locale()
	switch pe.Kind {
	case mparse.ExpectedTokenKind:
		e.Message = lookup(locale, KeyExpectedTokenKind, pe.Expected.Name(), pe.Token.Kind.Name())
	case mparse.ExpectedAnyTokenKind:
		e.Message = lookup(locale, KeyExpectedAnyTokenKind, pe.Token.Kind.Name())
	case mparse.ExpectedCsvContinuation:
		if pe.CsvContinuation == mparse.LetExpressionContinuation {
			e.Message = lookup(locale, KeyExpectedCsvLet)
		} else {
			e.Message = lookup(locale, KeyExpectedCsvDangling)
		}
	case mparse.UnterminatedParentheses:
		e.Message = lookup(locale, KeyUnterminatedParens)
	case mparse.UnterminatedBracket:
		e.Message = lookup(locale, KeyUnterminatedBracket, pe.Expected.Name())
	case mparse.UnusedTokensRemain:
		e.Message = lookup(locale, KeyUnusedTokensRemain, pe.Token.Kind.Name())
	case mparse.InvalidPrimitiveType:
		e.Message = lookup(locale, KeyInvalidPrimitiveType, pe.Token.Data)
	}
	e.GraphemeColumn, e.HasColumn = graphemeColumnOfToken(state, pe.Token), true
	return e
}

// graphemeColumnOfToken recovers the offending token's grapheme column by
// consulting the original line model's text, per spec.md §4.3 "Each
// [error] carries the offending token and its grapheme column number".
func graphemeColumnOfToken(state *mlex.State, tok mlex.Token) int {
	ln := tok.PositionStart.LineNumber
	if ln < 0 || ln >= len(state.Lines) {
		return tok.PositionStart.LineCodeUnit
	}
	return ColumnNumber(state.Lines[ln].LineString, tok.PositionStart.LineCodeUnit)
}

func newCancellationError(settings Settings) *Error {
	msg := settings.lookup()(settings.locale(), KeyCancellation)
	return &Error{Category: CategoryCommon, Cancelled: true, Message: msg}
}
