package mparse

import (
	"github.com/halvorsen/mformula/internal/marena"
	"github.com/halvorsen/mformula/internal/mlex"
)

// readExpression is the single entry point every production uses to read
// a sub-expression (§4.3 "Combinator variants"): it dispatches to one of
// the two grammar-production engines by p.Kind. Both engines bottom out in
// the same primary/recursive-primary productions and must produce
// byte-identical ASTs (§8 invariant implied by S2).
func readExpression(p *ParserState) (marena.NodeId, error) {
	if p.Kind == Combinatorial {
		return readBinaryExpressionCombinatorial(p, 0)
	}
	return readLogicalOrExpression(p)
}

// binaryLevel describes one precedence level of the M binary-operator
// grammar, from lowest (index 0, `or`) to highest (index len-1,
// multiplicative) before the unary/metadata base case.
type binaryLevel struct {
	operators mlex.TokenKindSet
	kind      marena.AstNodeKind
	rhsIsType bool
}

var binaryLevels = []binaryLevel{
	{operators: mlex.TokenKindSetOf(mlex.KeywordOr), kind: marena.LogicalExpression},
	{operators: mlex.TokenKindSetOf(mlex.KeywordAnd), kind: marena.LogicalExpression},
	{operators: mlex.TokenKindSetOf(mlex.KeywordIs), kind: marena.IsExpression, rhsIsType: true},
	{operators: mlex.TokenKindSetOf(mlex.KeywordAs), kind: marena.AsExpression, rhsIsType: true},
	{operators: mlex.TokenKindSetOf(mlex.Equal, mlex.NotEqual), kind: marena.EqualityExpression},
	{operators: mlex.TokenKindSetOf(mlex.LessThan, mlex.LessThanEqual, mlex.GreaterThan, mlex.GreaterThanEqual), kind: marena.RelationalExpression},
	{operators: mlex.TokenKindSetOf(mlex.Plus, mlex.Minus, mlex.Ampersand), kind: marena.ArithmeticExpression},
	{operators: mlex.TokenKindSetOf(mlex.Asterisk, mlex.Division), kind: marena.ArithmeticExpression},
}

// extendBinary wraps the already-parsed left operand under a new binary-
// expression context (reusing marena.Arena.WrapLastChild, the same
// retroactive-reparent trick readRecursivePrimaryExpression uses),
// consumes the operator token as a Constant child, reads the right-hand
// side (a type for is/as, the next precedence level's expression
// otherwise), and closes the wrapper.
func extendBinary(p *ParserState, left marena.NodeId, lvl binaryLevel, readRhs func(*ParserState) (marena.NodeId, error)) (marena.NodeId, error) {
	startTok := p.TokenStartOf(left)
	parentId, hasParent := p.ContextId, p.HasContext
	wrapperId := p.Arena.WrapLastChild(parentId, hasParent, lvl.kind)
	p.ContextId, p.HasContext = wrapperId, true

	p.PushLeaf(marena.Constant)
	if lvl.rhsIsType {
		if _, err := readNullablePrimitiveType(p); err != nil {
			return 0, err
		}
	} else if _, err := readRhs(p); err != nil {
		return 0, err
	}
	return p.EndContext(startTok).Id, nil
}

// --- RecursiveDescent engine: one named production per precedence level.

func readLogicalOrExpression(p *ParserState) (marena.NodeId, error) {
	left, err := readLogicalAndExpression(p)
	if err != nil {
		return 0, err
	}
	for binaryLevels[0].operators.Contains(p.CurrentTokenKind()) {
		left, err = extendBinary(p, left, binaryLevels[0], readLogicalAndExpression)
		if err != nil {
			return 0, err
		}
	}
	return left, nil
}

func readLogicalAndExpression(p *ParserState) (marena.NodeId, error) {
	left, err := readIsExpression(p)
	if err != nil {
		return 0, err
	}
	for binaryLevels[1].operators.Contains(p.CurrentTokenKind()) {
		left, err = extendBinary(p, left, binaryLevels[1], readIsExpression)
		if err != nil {
			return 0, err
		}
	}
	return left, nil
}

func readIsExpression(p *ParserState) (marena.NodeId, error) {
	left, err := readAsExpression(p)
	if err != nil {
		return 0, err
	}
	for binaryLevels[2].operators.Contains(p.CurrentTokenKind()) {
		left, err = extendBinary(p, left, binaryLevels[2], readAsExpression)
		if err != nil {
			return 0, err
		}
	}
	return left, nil
}

func readAsExpression(p *ParserState) (marena.NodeId, error) {
	left, err := readEqualityExpression(p)
	if err != nil {
		return 0, err
	}
	for binaryLevels[3].operators.Contains(p.CurrentTokenKind()) {
		left, err = extendBinary(p, left, binaryLevels[3], readEqualityExpression)
		if err != nil {
			return 0, err
		}
	}
	return left, nil
}

func readEqualityExpression(p *ParserState) (marena.NodeId, error) {
	left, err := readRelationalExpression(p)
	if err != nil {
		return 0, err
	}
	for binaryLevels[4].operators.Contains(p.CurrentTokenKind()) {
		left, err = extendBinary(p, left, binaryLevels[4], readRelationalExpression)
		if err != nil {
			return 0, err
		}
	}
	return left, nil
}

func readRelationalExpression(p *ParserState) (marena.NodeId, error) {
	left, err := readAdditiveExpression(p)
	if err != nil {
		return 0, err
	}
	for binaryLevels[5].operators.Contains(p.CurrentTokenKind()) {
		left, err = extendBinary(p, left, binaryLevels[5], readAdditiveExpression)
		if err != nil {
			return 0, err
		}
	}
	return left, nil
}

func readAdditiveExpression(p *ParserState) (marena.NodeId, error) {
	left, err := readMultiplicativeExpression(p)
	if err != nil {
		return 0, err
	}
	for binaryLevels[6].operators.Contains(p.CurrentTokenKind()) {
		left, err = extendBinary(p, left, binaryLevels[6], readMultiplicativeExpression)
		if err != nil {
			return 0, err
		}
	}
	return left, nil
}

func readMultiplicativeExpression(p *ParserState) (marena.NodeId, error) {
	left, err := readMetadataExpression(p)
	if err != nil {
		return 0, err
	}
	for binaryLevels[7].operators.Contains(p.CurrentTokenKind()) {
		left, err = extendBinary(p, left, binaryLevels[7], readMetadataExpression)
		if err != nil {
			return 0, err
		}
	}
	return left, nil
}

// --- Combinatorial engine: one loop, precedence passed as a parameter.

// readBinaryExpressionCombinatorial fuses every level in binaryLevels
// into a single left-associative loop, comparing the current token's
// precedence against minLevel instead of recursing through one named
// function per level (§4.3 "Combinator variants").
func readBinaryExpressionCombinatorial(p *ParserState, minLevel int) (marena.NodeId, error) {
	left, err := readMetadataExpression(p)
	if err != nil {
		return 0, err
	}
	for {
		levelIdx, ok := precedenceIndexOf(p.CurrentTokenKind())
		if !ok || levelIdx < minLevel {
			return left, nil
		}
		lvl := binaryLevels[levelIdx]
		readRhs := func(p *ParserState) (marena.NodeId, error) {
			return readBinaryExpressionCombinatorial(p, levelIdx+1)
		}
		left, err = extendBinary(p, left, lvl, readRhs)
		if err != nil {
			return 0, err
		}
	}
}

// precedenceIndexOf resolves kind to its binaryLevels index. It first
// checks mlex.BinaryOperatorKinds, the precomputed union of every level's
// operator set (plus `meta`, handled below the precedence climb by
// readMetadataExpression), so the common "current token starts no binary
// operator at all" case exits in one set test instead of scanning all
// eight levels.
func precedenceIndexOf(kind mlex.TokenKind) (int, bool) {
	if !mlex.BinaryOperatorKinds.Contains(kind) {
		return 0, false
	}
	for i, lvl := range binaryLevels {
		if lvl.operators.Contains(kind) {
			return i, true
		}
	}
	return 0, false
}

// readMetadataExpression reads unary-expression [ `meta` unary-expression ]
// (§9 grammar, component H's base case above unary).
func readMetadataExpression(p *ParserState) (marena.NodeId, error) {
	left, err := readUnaryExpression(p)
	if err != nil {
		return 0, err
	}
	if !p.IsOnTokenKind(mlex.KeywordMeta) {
		return left, nil
	}
	startTok := p.TokenStartOf(left)
	parentId, hasParent := p.ContextId, p.HasContext
	wrapperId := p.Arena.WrapLastChild(parentId, hasParent, marena.MetadataExpression)
	p.ContextId, p.HasContext = wrapperId, true
	p.PushLeaf(marena.Constant)
	if _, err := readUnaryExpression(p); err != nil {
		return 0, err
	}
	return p.EndContext(startTok).Id, nil
}

// readUnaryExpression reads a run of prefix `+`/`-`/`not` operators around
// a recursive-primary-expression (§9 "unary-expression").
func readUnaryExpression(p *ParserState) (marena.NodeId, error) {
	switch p.CurrentTokenKind() {
	case mlex.Plus, mlex.Minus, mlex.KeywordNot:
		p.StartContext(marena.UnaryExpression)
		start := p.TokenIndex
		p.PushLeaf(marena.Constant)
		if _, err := readUnaryExpression(p); err != nil {
			return 0, err
		}
		return p.EndContext(start).Id, nil
	}
	return readRecursivePrimaryExpression(p)
}
