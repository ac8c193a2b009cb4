package mparse

import (
	"github.com/halvorsen/mformula/internal/marena"
	"github.com/halvorsen/mformula/internal/mlex"
)

// itemReader is a production that reads one comma-separated value's
// content (an expression, a paired-expression, a parameter, ...).
type itemReader func(p *ParserState) (marena.NodeId, error)

// readCsv reads one Csv node: itemReader's result, plus an optional
// trailing comma Constant (§3 glossary "Csv"). Returns whether a trailing
// comma was consumed.
func readCsv(p *ParserState, item itemReader) (bool, error) {
	p.StartContext(marena.Csv)
	start := p.TokenIndex
	if _, err := item(p); err != nil {
		return false, err
	}
	trailing := false
	if p.IsOnTokenKind(mlex.Comma) {
		p.Expect(mlex.Comma)
		trailing = true
	}
	p.EndContext(start)
	return trailing, nil
}

// readArrayWrapper reads one-or-more Csv(item) wrapped in an ArrayWrapper
// (§3 glossary "ArrayWrapper"), stopping at closer. A trailing comma
// immediately followed by closer raises ExpectedCsvContinuationError with
// kind DanglingComma rather than attempting (and failing on) another item.
// A trailing comma followed by End leaves the loop without attempting a
// doomed item read, so the caller's own closer check raises
// UnterminatedBracket/UnterminatedParentheses against a tree that still
// carries every item successfully parsed so far.
func readArrayWrapper(p *ParserState, item itemReader, closer mlex.TokenKind) error {
	p.StartContext(marena.ArrayWrapper)
	start := p.TokenIndex
	for {
		trailing, err := readCsv(p, item)
		if err != nil {
			return err
		}
		if !trailing {
			break
		}
		if p.IsOnTokenKind(closer) {
			return newExpectedCsvContinuation(p, DanglingCommaContinuation)
		}
		if p.IsOnTokenKind(mlex.End) {
			break
		}
	}
	p.EndContext(start)
	return nil
}

// readArrayWrapperKind is readArrayWrapper generalized to a caller-chosen
// terminator token and CsvContinuationKind, used by let-expression's
// binding list where the terminator is the `in` keyword rather than a
// closing bracket (§4.3 "ExpectedCsvContinuationError(kind ∈
// {LetExpression, DanglingComma})").
func readArrayWrapperKind(p *ParserState, item itemReader, terminator mlex.TokenKind, continuation CsvContinuationKind) error {
	p.StartContext(marena.ArrayWrapper)
	start := p.TokenIndex
	for {
		trailing, err := readCsv(p, item)
		if err != nil {
			return err
		}
		if !trailing {
			break
		}
		if p.IsOnTokenKind(terminator) {
			return newExpectedCsvContinuation(p, continuation)
		}
		if p.IsOnTokenKind(mlex.End) {
			break
		}
	}
	p.EndContext(start)
	return nil
}

// readGeneralizedIdentifier reads one-or-more keyword/identifier segments
// joined by `.`, covering the token range without promoting each segment
// to its own child node (§3 glossary "Generalized identifier"): the
// segment text is recovered later from the covered token range rather
// than from children, since GeneralizedIdentifier is not itself a leaf
// kind but normally carries none either.
func readGeneralizedIdentifier(p *ParserState) (marena.NodeId, error) {
	if !p.IsOnGeneralizedIdentifierStart() {
		tok, _ := p.CurrentToken()
		return 0, &ParseError{
			Kind:       ExpectedAnyTokenKind,
			Token:      tok,
			TokenIndex: p.TokenIndex,
			Message:    "expected a generalized identifier, found " + tok.Kind.Name(),
		}
	}
	p.StartContext(marena.GeneralizedIdentifier)
	start := p.TokenIndex
	p.TokenIndex++
	for p.IsOnTokenKind(mlex.Dot) && isGeneralizedIdentifierSegment(p.PeekTokenKind(1)) {
		p.TokenIndex += 2
	}
	return p.EndContext(start).Id, nil
}

func isGeneralizedIdentifierSegment(k mlex.TokenKind) bool {
	return mlex.IsGeneralizedIdentifierStart(k)
}

// readParameterList reads `(` csv-list(parameter) `)` (§9 ParameterList /
// Parameter). A parameter may carry an `optional` contextual marker and an
// `as` type annotation; optionality and the annotated type feed directly
// into the type inspector's nullability rule (spec.md §4.6).
func readParameterList(p *ParserState) (marena.NodeId, error) {
	p.StartContext(marena.ParameterList)
	start := p.TokenIndex
	if _, err := p.Expect(mlex.LeftParen); err != nil {
		return 0, err
	}
	if !p.IsOnTokenKind(mlex.RightParen) {
		if err := readArrayWrapper(p, readParameter, mlex.RightParen); err != nil {
			return 0, err
		}
	}
	if !p.IsOnTokenKind(mlex.RightParen) {
		return 0, newUnterminatedParentheses(p)
	}
	p.Expect(mlex.RightParen)
	return p.EndContext(start).Id, nil
}

func readParameter(p *ParserState) (marena.NodeId, error) {
	p.StartContext(marena.Parameter)
	start := p.TokenIndex
	if p.IsOnTokenKind(mlex.Identifier) {
		tok, _ := p.CurrentToken()
		if tok.Data == "optional" && p.PeekTokenKind(1) == mlex.Identifier {
			p.PushLeaf(marena.Constant)
		}
	}
	if !p.IsOnTokenKind(mlex.Identifier) {
		return 0, newExpectedTokenKind(p, mlex.Identifier)
	}
	p.PushLeaf(marena.Identifier)
	if p.IsOnTokenKind(mlex.KeywordAs) {
		p.Expect(mlex.KeywordAs)
		if _, err := readNullablePrimitiveType(p); err != nil {
			return 0, err
		}
	}
	return p.EndContext(start).Id, nil
}
