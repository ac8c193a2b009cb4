package mparse

import "github.com/halvorsen/mformula/internal/mlex"

// ParseErrorKind discriminates the structured parse error taxonomy from
// spec.md §4.3/§7. Every ParseError carries the offending token; its
// grapheme column is not stored here but computed by the caller (the
// facade's Error.GraphemeColumn), which has access to the line text the
// parser itself does not hold onto.
type ParseErrorKind uint8

const (
	ExpectedTokenKind ParseErrorKind = iota
	ExpectedAnyTokenKind
	ExpectedCsvContinuation
	UnterminatedParentheses
	UnterminatedBracket
	UnusedTokensRemain
	InvalidPrimitiveType
	Cancellation
)

// CsvContinuationKind distinguishes the two dangling-comma contexts a Csv
// list can fail in (§4.3 "ExpectedCsvContinuationError").
type CsvContinuationKind uint8

const (
	LetExpressionContinuation CsvContinuationKind = iota
	DanglingCommaContinuation
)

// ParseError is the single error type every grammar production raises
// (§4.3 "Error surfacing"). Kind selects which fields are meaningful;
// Token/TokenIndex identify where in the stream the failure occurred so a
// caller can recover the grapheme column via the lexer snapshot's line
// text, which this package does not itself hold.
type ParseError struct {
	Kind          ParseErrorKind
	Token         mlex.Token
	TokenIndex    int
	Expected      mlex.TokenKind
	ExpectedSet   []mlex.TokenKind
	CsvContinuation CsvContinuationKind
	Message       string
}

func (e *ParseError) Error() string { return e.Message }

func newExpectedTokenKind(p *ParserState, expected mlex.TokenKind) *ParseError {
	tok, _ := p.CurrentToken()
	return &ParseError{
		Kind:       ExpectedTokenKind,
		Token:      tok,
		TokenIndex: p.TokenIndex,
		Expected:   expected,
		Message:    "expected " + expected.Name() + ", found " + tok.Kind.Name(),
	}
}

func newExpectedAnyTokenKind(p *ParserState, expected []mlex.TokenKind) *ParseError {
	tok, _ := p.CurrentToken()
	return &ParseError{
		Kind:        ExpectedAnyTokenKind,
		Token:       tok,
		TokenIndex:  p.TokenIndex,
		ExpectedSet: expected,
		Message:     "unexpected " + tok.Kind.Name(),
	}
}

func newExpectedCsvContinuation(p *ParserState, kind CsvContinuationKind) *ParseError {
	tok, _ := p.CurrentToken()
	msg := "expected another comma-separated value"
	if kind == DanglingCommaContinuation {
		msg = "dangling comma with no following value"
	}
	return &ParseError{
		Kind:            ExpectedCsvContinuation,
		Token:           tok,
		TokenIndex:      p.TokenIndex,
		CsvContinuation: kind,
		Message:         msg,
	}
}

func newUnterminatedParentheses(p *ParserState) *ParseError {
	tok, _ := p.CurrentToken()
	return &ParseError{Kind: UnterminatedParentheses, Token: tok, TokenIndex: p.TokenIndex, Message: "unterminated '('"}
}

func newUnterminatedBracket(p *ParserState, closer mlex.TokenKind) *ParseError {
	tok, _ := p.CurrentToken()
	return &ParseError{Kind: UnterminatedBracket, Token: tok, TokenIndex: p.TokenIndex, Expected: closer, Message: "unterminated '" + closer.Name() + "'"}
}

func newUnusedTokensRemain(p *ParserState) *ParseError {
	tok, _ := p.CurrentToken()
	return &ParseError{Kind: UnusedTokensRemain, Token: tok, TokenIndex: p.TokenIndex, Message: "unused tokens remain after a complete parse"}
}

func newInvalidPrimitiveType(p *ParserState) *ParseError {
	tok, _ := p.CurrentToken()
	return &ParseError{Kind: InvalidPrimitiveType, Token: tok, TokenIndex: p.TokenIndex, Message: "invalid primitive type name " + tok.Data}
}

// CancellationError propagates like any other parse error (§5). It carries
// no token position since cancellation can be observed between productions.
type CancellationError struct{}

func (e *CancellationError) Error() string { return "parse cancelled" }
