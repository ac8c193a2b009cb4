package mparse

import (
	"github.com/halvorsen/mformula/internal/marena"
	"github.com/halvorsen/mformula/internal/mlex"
)

// readPrimaryExpression is the innermost expression production (§4.3,
// component H): literals, identifiers, the three bracketed forms (list,
// record, parenthesized/function), and the keyword-led forms (each, let,
// if, try, error, not-implemented). Every primary expression is then
// offered to readRecursivePrimaryExpression for invoke/item-access/field-
// selector suffixes.
func readPrimaryExpression(p *ParserState) (marena.NodeId, error) {
	if err := p.checkCancellation(); err != nil {
		return 0, err
	}

	switch p.CurrentTokenKind() {
	case mlex.Numeric, mlex.TextLiteral, mlex.KeywordTrue, mlex.KeywordFalse,
		mlex.KeywordHashInfinity, mlex.KeywordHashNan:
		return readLiteralExpression(p)
	case mlex.KeywordHashBinary, mlex.KeywordHashDate, mlex.KeywordHashDateTime,
		mlex.KeywordHashDateTimeZone, mlex.KeywordHashDuration,
		mlex.KeywordHashSections, mlex.KeywordHashShared, mlex.KeywordHashTable,
		mlex.KeywordHashTime, mlex.Identifier:
		return readIdentifierExpression(p)
	case mlex.Ellipsis:
		return readNotImplementedExpression(p)
	case mlex.LeftBrace:
		return readListExpression(p)
	case mlex.LeftBracket:
		return readRecordExpression(p)
	case mlex.LeftParen:
		return readParenthesizedOrFunctionExpression(p)
	case mlex.KeywordEach:
		return readEachExpression(p)
	case mlex.KeywordLet:
		return readLetExpression(p)
	case mlex.KeywordIf:
		return readIfExpression(p)
	case mlex.KeywordTry:
		return readTryExpression(p)
	case mlex.KeywordError:
		return readErrorRaisingExpression(p)
	case mlex.KeywordType:
		return readTypeExpression(p)
	}

	tok, _ := p.CurrentToken()
	return 0, &ParseError{
		Kind:       ExpectedAnyTokenKind,
		Token:      tok,
		TokenIndex: p.TokenIndex,
		Message:    "expected a primary expression, found " + tok.Kind.Name(),
	}
}

func readLiteralExpression(p *ParserState) (marena.NodeId, error) {
	p.StartContext(marena.LiteralExpression)
	start := p.TokenIndex
	p.PushLeaf(marena.Constant)
	return p.EndContext(start).Id, nil
}

func readIdentifierExpression(p *ParserState) (marena.NodeId, error) {
	p.StartContext(marena.IdentifierExpression)
	start := p.TokenIndex
	p.PushLeaf(marena.Identifier)
	return p.EndContext(start).Id, nil
}

func readNotImplementedExpression(p *ParserState) (marena.NodeId, error) {
	p.StartContext(marena.NotImplementedExpression)
	start := p.TokenIndex
	p.PushLeaf(marena.Constant)
	return p.EndContext(start).Id, nil
}

// readListExpression reads `{` [ csv-list of expression ] `}` (§9
// ListExpression / ArrayWrapper / Csv).
func readListExpression(p *ParserState) (marena.NodeId, error) {
	p.StartContext(marena.ListExpression)
	start := p.TokenIndex
	if _, err := p.Expect(mlex.LeftBrace); err != nil {
		return 0, err
	}
	if !p.IsOnTokenKind(mlex.RightBrace) {
		if err := readArrayWrapper(p, readExpression, mlex.RightBrace); err != nil {
			return 0, err
		}
	}
	if !p.IsOnTokenKind(mlex.RightBrace) {
		return 0, newUnterminatedBracket(p, mlex.RightBrace)
	}
	p.Expect(mlex.RightBrace)
	return p.EndContext(start).Id, nil
}

// readRecordExpression reads `[` [ csv-list of generalized-identifier-
// paired-expression ] `]` (§9 RecordExpression).
func readRecordExpression(p *ParserState) (marena.NodeId, error) {
	p.StartContext(marena.RecordExpression)
	start := p.TokenIndex
	if _, err := p.Expect(mlex.LeftBracket); err != nil {
		return 0, err
	}
	if !p.IsOnTokenKind(mlex.RightBracket) {
		if err := readArrayWrapper(p, readGeneralizedIdentifierPairedExpression, mlex.RightBracket); err != nil {
			return 0, err
		}
	}
	if !p.IsOnTokenKind(mlex.RightBracket) {
		return 0, newUnterminatedBracket(p, mlex.RightBracket)
	}
	p.Expect(mlex.RightBracket)
	return p.EndContext(start).Id, nil
}

func readGeneralizedIdentifierPairedExpression(p *ParserState) (marena.NodeId, error) {
	p.StartContext(marena.GeneralizedIdentifierPairedExpression)
	start := p.TokenIndex
	if _, err := readGeneralizedIdentifier(p); err != nil {
		return 0, err
	}
	if _, err := p.Expect(mlex.Equal); err != nil {
		return 0, err
	}
	if _, err := readExpression(p); err != nil {
		return 0, err
	}
	return p.EndContext(start).Id, nil
}

func readIdentifierPairedExpression(p *ParserState) (marena.NodeId, error) {
	p.StartContext(marena.IdentifierPairedExpression)
	start := p.TokenIndex
	p.PushLeaf(marena.Identifier)
	if _, err := p.Expect(mlex.Equal); err != nil {
		return 0, err
	}
	if _, err := readExpression(p); err != nil {
		return 0, err
	}
	return p.EndContext(start).Id, nil
}

// readParenthesizedOrFunctionExpression disambiguates `(expr)` from
// `(params) => body`, an LL(k)-ambiguous pair (§4.3): it speculatively
// attempts the function-expression production first and falls back to a
// parenthesized expression on failure, exercising the O(delta) backup the
// rest of the grammar only occasionally needs.
func readParenthesizedOrFunctionExpression(p *ParserState) (marena.NodeId, error) {
	backup := p.Backup()
	if id, err := readFunctionExpression(p); err == nil {
		return id, nil
	}
	p.ApplyFastStateBackup(backup)
	return readParenthesizedExpression(p)
}

func readParenthesizedExpression(p *ParserState) (marena.NodeId, error) {
	p.StartContext(marena.ParenthesizedExpression)
	start := p.TokenIndex
	if _, err := p.Expect(mlex.LeftParen); err != nil {
		return 0, err
	}
	if _, err := readExpression(p); err != nil {
		return 0, err
	}
	if !p.IsOnTokenKind(mlex.RightParen) {
		return 0, newUnterminatedParentheses(p)
	}
	p.Expect(mlex.RightParen)
	return p.EndContext(start).Id, nil
}

// readFunctionExpression reads `(` parameter-list `)` [ `as`
// nullable-primitive-type ] `=>` expression. The caller
// (readParenthesizedOrFunctionExpression) owns the speculative
// backup/restore around this production; this function simply propagates
// the first error it hits.
func readFunctionExpression(p *ParserState) (marena.NodeId, error) {
	p.StartContext(marena.FunctionExpression)
	start := p.TokenIndex
	if _, err := readParameterList(p); err != nil {
		return 0, err
	}
	if p.IsOnTokenKind(mlex.KeywordAs) {
		p.Expect(mlex.KeywordAs)
		if _, err := readNullablePrimitiveType(p); err != nil {
			return 0, err
		}
	}
	if _, err := p.Expect(mlex.FatArrow); err != nil {
		return 0, err
	}
	if _, err := readExpression(p); err != nil {
		return 0, err
	}
	return p.EndContext(start).Id, nil
}

func readEachExpression(p *ParserState) (marena.NodeId, error) {
	p.StartContext(marena.EachExpression)
	start := p.TokenIndex
	p.Expect(mlex.KeywordEach)
	if _, err := readExpression(p); err != nil {
		return 0, err
	}
	return p.EndContext(start).Id, nil
}

// readLetExpression reads `let` csv-list(identifier-paired-expression)
// `in` expression (S3's concrete scenario). Each missing continuation
// comma is reported with CsvContinuationKind LetExpression rather than
// DanglingComma, per §4.3.
func readLetExpression(p *ParserState) (marena.NodeId, error) {
	p.StartContext(marena.LetExpression)
	start := p.TokenIndex
	p.Expect(mlex.KeywordLet)
	if err := readArrayWrapperKind(p, readIdentifierPairedExpression, mlex.KeywordIn, LetExpressionContinuation); err != nil {
		return 0, err
	}
	if _, err := p.Expect(mlex.KeywordIn); err != nil {
		return 0, err
	}
	if _, err := readExpression(p); err != nil {
		return 0, err
	}
	return p.EndContext(start).Id, nil
}

func readIfExpression(p *ParserState) (marena.NodeId, error) {
	p.StartContext(marena.IfExpression)
	start := p.TokenIndex
	p.Expect(mlex.KeywordIf)
	if _, err := readExpression(p); err != nil {
		return 0, err
	}
	if _, err := p.Expect(mlex.KeywordThen); err != nil {
		return 0, err
	}
	if _, err := readExpression(p); err != nil {
		return 0, err
	}
	if _, err := p.Expect(mlex.KeywordElse); err != nil {
		return 0, err
	}
	if _, err := readExpression(p); err != nil {
		return 0, err
	}
	return p.EndContext(start).Id, nil
}

// readTryExpression reads `try` expression [ `otherwise` expression ],
// wrapping the optional else-branch as an OtherwiseExpression child so the
// scope/type inspectors can tell "no otherwise" from "otherwise exists".
func readTryExpression(p *ParserState) (marena.NodeId, error) {
	p.StartContext(marena.TryExpression)
	start := p.TokenIndex
	p.Expect(mlex.KeywordTry)
	if _, err := readExpression(p); err != nil {
		return 0, err
	}
	if p.IsOnTokenKind(mlex.KeywordOtherwise) {
		if _, err := readOtherwiseExpression(p); err != nil {
			return 0, err
		}
	}
	return p.EndContext(start).Id, nil
}

func readOtherwiseExpression(p *ParserState) (marena.NodeId, error) {
	p.StartContext(marena.OtherwiseExpression)
	start := p.TokenIndex
	p.Expect(mlex.KeywordOtherwise)
	if _, err := readExpression(p); err != nil {
		return 0, err
	}
	return p.EndContext(start).Id, nil
}

func readErrorRaisingExpression(p *ParserState) (marena.NodeId, error) {
	p.StartContext(marena.ErrorRaisingExpression)
	start := p.TokenIndex
	p.Expect(mlex.KeywordError)
	if _, err := readExpression(p); err != nil {
		return 0, err
	}
	return p.EndContext(start).Id, nil
}
