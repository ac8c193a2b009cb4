package mparse

import (
	"github.com/halvorsen/mformula/internal/marena"
	"github.com/halvorsen/mformula/internal/mlex"
)

// primitiveTypeNames are the identifier-text forms recognized as
// primitive type names (§4.6's closed family plus "type"/"action"/"none").
// These are contextual, not reserved: "number" still lexes as a plain
// Identifier token, distinguished here only by its text.
var primitiveTypeNames = map[string]bool{
	"any": true, "anynonnull": true, "binary": true, "date": true,
	"datetime": true, "datetimezone": true, "duration": true,
	"function": true, "list": true, "logical": true, "none": true,
	"null": true, "number": true, "record": true, "table": true,
	"text": true, "time": true, "type": true, "action": true,
}

// readTypeExpression reads `type` primary-type (§9's unary-level
// type-expression). KeywordType is consumed here as the node's first
// Constant child; readPrimaryExpression only dispatches on it.
func readTypeExpression(p *ParserState) (marena.NodeId, error) {
	p.StartContext(marena.TypePrimaryType)
	start := p.TokenIndex
	p.Expect(mlex.KeywordType)
	if _, err := readPrimaryType(p); err != nil {
		return 0, err
	}
	return p.EndContext(start).Id, nil
}

// readNullablePrimitiveType reads ['nullable' ] primitive-type, the
// contextual-keyword form used by parameter/return type annotations
// (§4.6 "Parameter nullability").
func readNullablePrimitiveType(p *ParserState) (marena.NodeId, error) {
	p.StartContext(marena.NullablePrimitiveType)
	start := p.TokenIndex
	if tok, ok := p.CurrentToken(); ok && tok.Kind == mlex.Identifier && tok.Data == "nullable" {
		p.PushLeaf(marena.Constant)
	}
	if _, err := readPrimitiveType(p); err != nil {
		return 0, err
	}
	return p.EndContext(start).Id, nil
}

// readPrimitiveType accepts either a plain-identifier primitive type name
// ("binary", "date", ...) or one of the hash-keyword forms spec.md §6
// also allows inside a type expression (`#binary`, `#date`, ...),
// mlex.PrimitiveTypeKeywordKinds.
func readPrimitiveType(p *ParserState) (marena.NodeId, error) {
	p.StartContext(marena.PrimitiveType)
	start := p.TokenIndex
	tok, _ := p.CurrentToken()
	namedPrimitive := tok.Kind == mlex.Identifier && primitiveTypeNames[tok.Data]
	hashKeywordPrimitive := mlex.PrimitiveTypeKeywordKinds.Contains(tok.Kind)
	if !namedPrimitive && !hashKeywordPrimitive {
		return 0, newInvalidPrimitiveType(p)
	}
	p.PushLeaf(marena.Constant)
	return p.EndContext(start).Id, nil
}

// readPrimaryType dispatches among the structural type forms and falls
// back to a primitive/custom-identifier type reference.
func readPrimaryType(p *ParserState) (marena.NodeId, error) {
	tok, _ := p.CurrentToken()
	if tok.Kind == mlex.Identifier {
		switch tok.Data {
		case "record":
			return readRecordType(p)
		case "table":
			return readTableType(p)
		case "function":
			return readFunctionType(p)
		case "list":
			return readListType(p)
		case "nullable":
			return readNullablePrimitiveType(p)
		}
	}
	if tok.Kind == mlex.LeftBracket {
		return readRecordType(p)
	}
	return readPrimitiveType(p)
}

// readRecordType reads `record` `[` csv(field) `]`, or `record` `[` `...`
// `]` for an open record; the `record` keyword prefix is optional when a
// bracketed field list is used directly (matching M's nested-record-type
// shorthand).
func readRecordType(p *ParserState) (marena.NodeId, error) {
	p.StartContext(marena.RecordType)
	start := p.TokenIndex
	if tok, ok := p.CurrentToken(); ok && tok.Kind == mlex.Identifier && tok.Data == "record" {
		p.PushLeaf(marena.Constant)
	}
	if _, err := p.Expect(mlex.LeftBracket); err != nil {
		return 0, err
	}
	if p.IsOnTokenKind(mlex.Ellipsis) {
		p.PushLeaf(marena.Constant)
	} else if !p.IsOnTokenKind(mlex.RightBracket) {
		if err := readArrayWrapper(p, readGeneralizedIdentifierPairedType, mlex.RightBracket); err != nil {
			return 0, err
		}
	}
	if !p.IsOnTokenKind(mlex.RightBracket) {
		return 0, newUnterminatedBracket(p, mlex.RightBracket)
	}
	p.Expect(mlex.RightBracket)
	return p.EndContext(start).Id, nil
}

func readGeneralizedIdentifierPairedType(p *ParserState) (marena.NodeId, error) {
	p.StartContext(marena.GeneralizedIdentifierPairedExpression)
	start := p.TokenIndex
	if _, err := readGeneralizedIdentifier(p); err != nil {
		return 0, err
	}
	if _, err := p.Expect(mlex.Equal); err != nil {
		return 0, err
	}
	if _, err := readNullablePrimitiveType(p); err != nil {
		return 0, err
	}
	return p.EndContext(start).Id, nil
}

// readTableType reads `table` row-type, where row-type is either a
// bracketed field list (same shape as a record type's fields) or a
// primary expression naming a type value.
func readTableType(p *ParserState) (marena.NodeId, error) {
	p.StartContext(marena.TableType)
	start := p.TokenIndex
	p.Expect(mlex.Identifier) // "table"
	if p.IsOnTokenKind(mlex.LeftBracket) {
		if _, err := readRecordType(p); err != nil {
			return 0, err
		}
	} else if p.IsRecursivePrimaryExpressionNext() || p.IsOnGeneralizedIdentifierStart() || p.IsOnConstantKind() {
		if _, err := readPrimaryExpression(p); err != nil {
			return 0, err
		}
	}
	return p.EndContext(start).Id, nil
}

// readFunctionType reads `function` `(` csv(identifier `as` type) `)`
// `as` type.
func readFunctionType(p *ParserState) (marena.NodeId, error) {
	p.StartContext(marena.FunctionType)
	start := p.TokenIndex
	p.Expect(mlex.Identifier) // "function"
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
	if _, err := p.Expect(mlex.KeywordAs); err != nil {
		return 0, err
	}
	if _, err := readNullablePrimitiveType(p); err != nil {
		return 0, err
	}
	return p.EndContext(start).Id, nil
}

// readListType reads `list` `{` type `}`.
func readListType(p *ParserState) (marena.NodeId, error) {
	p.StartContext(marena.ListType)
	start := p.TokenIndex
	p.Expect(mlex.Identifier) // "list"
	if _, err := p.Expect(mlex.LeftBrace); err != nil {
		return 0, err
	}
	if _, err := readNullablePrimitiveType(p); err != nil {
		return 0, err
	}
	if !p.IsOnTokenKind(mlex.RightBrace) {
		return 0, newUnterminatedBracket(p, mlex.RightBrace)
	}
	p.Expect(mlex.RightBrace)
	return p.EndContext(start).Id, nil
}
