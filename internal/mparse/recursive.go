package mparse

import (
	"github.com/halvorsen/mformula/internal/marena"
	"github.com/halvorsen/mformula/internal/mlex"
)

// readRecursivePrimaryExpression reads a primary expression followed by
// zero or more invoke/item-access/field-selector suffixes (§9 "Recursive
// primary expression"): `primary ( invoke | index | field-access )*`. When
// no suffix follows, the bare primary is returned directly rather than
// being wrapped — the wrapper only exists when there is at least one
// continuation, so a plain `1` parses to a LiteralExpression root (S1),
// not a one-element RecursivePrimaryExpression.
func readRecursivePrimaryExpression(p *ParserState) (marena.NodeId, error) {
	headStartTokenIndex := p.TokenIndex
	head, err := readPrimaryExpression(p)
	if err != nil {
		return 0, err
	}
	if !p.IsRecursivePrimaryExpressionNext() {
		return head, nil
	}

	parentId, hasParent := p.ContextId, p.HasContext
	wrapperId := p.Arena.WrapLastChild(parentId, hasParent, marena.RecursivePrimaryExpression)
	p.ContextId, p.HasContext = wrapperId, true

	for p.IsRecursivePrimaryExpressionNext() {
		switch p.CurrentTokenKind() {
		case mlex.LeftParen:
			if _, err := readInvokeExpression(p); err != nil {
				return 0, err
			}
		case mlex.LeftBrace:
			if _, err := readItemAccessExpression(p); err != nil {
				return 0, err
			}
		case mlex.LeftBracket:
			if _, err := readFieldSelectorOrProjection(p); err != nil {
				return 0, err
			}
		}
	}
	return p.EndContext(headStartTokenIndex).Id, nil
}

// readInvokeExpression reads `(` csv-list(expression) `)` as an invoke
// suffix (function call).
func readInvokeExpression(p *ParserState) (marena.NodeId, error) {
	p.StartContext(marena.InvokeExpression)
	start := p.TokenIndex
	p.Expect(mlex.LeftParen)
	if !p.IsOnTokenKind(mlex.RightParen) {
		if err := readArrayWrapper(p, readExpression, mlex.RightParen); err != nil {
			return 0, err
		}
	}
	if !p.IsOnTokenKind(mlex.RightParen) {
		return 0, newUnterminatedParentheses(p)
	}
	p.Expect(mlex.RightParen)
	return p.EndContext(start).Id, nil
}

// readItemAccessExpression reads `{` expression `}` or `{` expression
// `}?` (the optional-access marker) as an index suffix.
func readItemAccessExpression(p *ParserState) (marena.NodeId, error) {
	p.StartContext(marena.ItemAccessExpression)
	start := p.TokenIndex
	p.Expect(mlex.LeftBrace)
	if _, err := readExpression(p); err != nil {
		return 0, err
	}
	if !p.IsOnTokenKind(mlex.RightBrace) {
		return 0, newUnterminatedBracket(p, mlex.RightBrace)
	}
	p.Expect(mlex.RightBrace)
	if p.IsOnTokenKind(mlex.Question) {
		p.Expect(mlex.Question)
	}
	return p.EndContext(start).Id, nil
}

// readFieldSelectorOrProjection reads either a single field selector
// `[name]` or a field projection `[[name], [name], ...]` (optionally
// `?`-suffixed for optional projection), dispatching on whether the token
// immediately after `[` is itself `[`.
func readFieldSelectorOrProjection(p *ParserState) (marena.NodeId, error) {
	if p.PeekTokenKind(1) == mlex.LeftBracket {
		return readFieldProjection(p)
	}
	return readFieldSelector(p)
}

func readFieldSelector(p *ParserState) (marena.NodeId, error) {
	p.StartContext(marena.FieldSelector)
	start := p.TokenIndex
	p.Expect(mlex.LeftBracket)
	if _, err := readGeneralizedIdentifier(p); err != nil {
		return 0, err
	}
	if !p.IsOnTokenKind(mlex.RightBracket) {
		return 0, newUnterminatedBracket(p, mlex.RightBracket)
	}
	p.Expect(mlex.RightBracket)
	if p.IsOnTokenKind(mlex.Question) {
		p.Expect(mlex.Question)
	}
	return p.EndContext(start).Id, nil
}

func readFieldProjection(p *ParserState) (marena.NodeId, error) {
	p.StartContext(marena.FieldProjection)
	start := p.TokenIndex
	p.Expect(mlex.LeftBracket)
	if err := readArrayWrapper(p, readFieldSelectorContents, mlex.RightBracket); err != nil {
		return 0, err
	}
	if !p.IsOnTokenKind(mlex.RightBracket) {
		return 0, newUnterminatedBracket(p, mlex.RightBracket)
	}
	p.Expect(mlex.RightBracket)
	if p.IsOnTokenKind(mlex.Question) {
		p.Expect(mlex.Question)
	}
	return p.EndContext(start).Id, nil
}

func readFieldSelectorContents(p *ParserState) (marena.NodeId, error) {
	p.StartContext(marena.FieldSelectorContents)
	start := p.TokenIndex
	p.Expect(mlex.LeftBracket)
	if _, err := readGeneralizedIdentifier(p); err != nil {
		return 0, err
	}
	if !p.IsOnTokenKind(mlex.RightBracket) {
		return 0, newUnterminatedBracket(p, mlex.RightBracket)
	}
	p.Expect(mlex.RightBracket)
	return p.EndContext(start).Id, nil
}
