// Package mparse implements the M grammar parser (components G and H): the
// token-position/context-node bookkeeping the grammar productions share,
// the O(delta) speculative backup/restore mechanism, the structured parse
// error taxonomy, and the two grammar-production engines
// (CombinatorialParser and RecursiveDescentParser) spec.md §9 requires to
// agree byte-for-byte.
//
// Grounded on the teacher's Parser/Checkpoint/Marker/MemoArena bookkeeping
// in syntax/parser.go, generalized from a marker-into-a-flat-node-slice
// scheme to a NodeId-into-an-Arena scheme (internal/marena) so that the
// context-node / AST-node duality spec.md §3 describes is explicit in the
// types rather than folded into one mutable node list.
package mparse

import (
	"github.com/halvorsen/mformula/internal/marena"
	"github.com/halvorsen/mformula/internal/mlex"
)

// Kind selects which grammar-production engine reads binary-operator
// expressions (§4.3 "Combinator variants"). Both must produce
// byte-identical ASTs for identical input.
type Kind uint8

const (
	// RecursiveDescent reads each precedence level as its own named
	// production, recursing one level per call.
	RecursiveDescent Kind = iota
	// Combinatorial fuses every precedence level into a single
	// left-associative loop driven by a precedence-comparison table.
	Combinatorial
)

// CancellationToken is consulted at production boundaries (§5). A nil
// token never cancels.
type CancellationToken func() bool

// ParserState is the mutable cursor a grammar production engine advances
// as it consumes tokens and builds nodes (§4.3 "Parser state").
type ParserState struct {
	Snapshot   *mlex.Snapshot
	Arena      *marena.Arena
	TokenIndex int

	ContextId  marena.NodeId
	HasContext bool

	Kind              Kind
	CancellationToken CancellationToken
}

// NewParserState begins a parse of a lexer snapshot with an empty arena.
func NewParserState(snap *mlex.Snapshot, kind Kind, cancel CancellationToken) *ParserState {
	return &ParserState{Snapshot: snap, Arena: marena.NewArena(), Kind: kind, CancellationToken: cancel}
}

// checkCancellation consults the cancellation hook, if any, at a
// production boundary (§5, §7 "Runtime" row).
func (p *ParserState) checkCancellation() error {
	if p.CancellationToken != nil && p.CancellationToken() {
		return &CancellationError{}
	}
	return nil
}

// CurrentToken returns the token at TokenIndex and true, or false if the
// cursor has run past the end of the stream (should not happen in
// practice since every snapshot ends with an End token).
func (p *ParserState) CurrentToken() (mlex.Token, bool) {
	if p.TokenIndex < 0 || p.TokenIndex >= len(p.Snapshot.Tokens) {
		return mlex.Token{}, false
	}
	return p.Snapshot.Tokens[p.TokenIndex], true
}

// CurrentTokenKind returns the kind of the current token, or End if past
// the end of the stream.
func (p *ParserState) CurrentTokenKind() mlex.TokenKind {
	tok, ok := p.CurrentToken()
	if !ok {
		return mlex.End
	}
	return tok.Kind
}

// PeekTokenKind looks ahead offset tokens from the cursor without
// consuming, returning mlex.End if that runs past the stream.
func (p *ParserState) PeekTokenKind(offset int) mlex.TokenKind {
	idx := p.TokenIndex + offset
	if idx < 0 || idx >= len(p.Snapshot.Tokens) {
		return mlex.End
	}
	return p.Snapshot.Tokens[idx].Kind
}

// IsOnTokenKind reports whether the current token is kind.
func (p *ParserState) IsOnTokenKind(kind mlex.TokenKind) bool {
	return p.CurrentTokenKind() == kind
}

// IsOnTokenKindSet reports whether the current token's kind is in set.
func (p *ParserState) IsOnTokenKindSet(set mlex.TokenKindSet) bool {
	return set.Contains(p.CurrentTokenKind())
}

// IsNextTokenKind reports whether the token one past the cursor is kind.
func (p *ParserState) IsNextTokenKind(kind mlex.TokenKind) bool {
	return p.PeekTokenKind(1) == kind
}

// IsOnConstantKind reports whether the current token starts a constant
// literal primary expression (§9 "isOnConstantKind").
func (p *ParserState) IsOnConstantKind() bool {
	return mlex.ConstantLiteralKinds.Contains(p.CurrentTokenKind())
}

// IsOnGeneralizedIdentifierStart reports whether the current token may
// open a generalized identifier.
func (p *ParserState) IsOnGeneralizedIdentifierStart() bool {
	return mlex.IsGeneralizedIdentifierStart(p.CurrentTokenKind())
}

// IsRecursivePrimaryExpressionNext reports whether, from the current
// token, a recursive-primary-expression continuation (item access,
// invocation, or field selector) can follow.
func (p *ParserState) IsRecursivePrimaryExpressionNext() bool {
	switch p.CurrentTokenKind() {
	case mlex.LeftParen, mlex.LeftBrace, mlex.LeftBracket:
		return true
	}
	return false
}

// Advance consumes the current token and moves the cursor forward one
// position, returning the consumed token.
func (p *ParserState) Advance() mlex.Token {
	tok, _ := p.CurrentToken()
	p.TokenIndex++
	return tok
}

// FastStateBackup is an O(1)-sized snapshot of everything the parser needs
// to roll back a failed speculative parse: the token cursor and the
// arena's next-id watermark (§4.3). Rolling back never needs to inspect
// or copy tree contents; it only needs these two integers plus whatever
// context-node linkage the arena itself restores.
type FastStateBackup struct {
	TokenIndex   int
	ArenaNextId  marena.NodeId
	ContextId    marena.NodeId
	HasContext   bool
}

// Backup captures the current parser position.
func (p *ParserState) Backup() FastStateBackup {
	return FastStateBackup{
		TokenIndex:  p.TokenIndex,
		ArenaNextId: p.Arena.NextId(),
		ContextId:   p.ContextId,
		HasContext:  p.HasContext,
	}
}

// ApplyFastStateBackup rewinds the parser to a previously captured backup
// in O(delta) time: only the nodes created since the backup are dropped
// from the arena, never the whole tree.
func (p *ParserState) ApplyFastStateBackup(b FastStateBackup) {
	p.TokenIndex = b.TokenIndex
	p.Arena.Restore(b.ArenaNextId, b.ContextId, b.HasContext)
	p.ContextId = b.ContextId
	p.HasContext = b.HasContext
}

// StartContext pushes a new context node of kind as a child of the
// current context (or as the tree root if none is open yet) and makes it
// current.
func (p *ParserState) StartContext(kind marena.AstNodeKind) marena.NodeId {
	id := p.Arena.NewContext(kind, p.ContextId, p.HasContext)
	p.ContextId = id
	p.HasContext = true
	return id
}

// EndContext finishes the current context node, converting it to an
// AstNode covering tokens [tokenIndexAtStart, TokenIndex), and restores
// the parent context as current.
func (p *ParserState) EndContext(tokenIndexAtStart int) *marena.AstNode {
	id := p.ContextId
	node := p.Arena.EndContext(id, [2]int{tokenIndexAtStart, p.TokenIndex})
	if parentId, ok := p.Arena.ParentId(id); ok {
		p.ContextId, p.HasContext = parentId, true
	} else {
		p.HasContext = false
	}
	return node
}

// PushLeaf appends a finished leaf AstNode for tok as a child of the
// current context, advancing the cursor past it.
func (p *ParserState) PushLeaf(kind marena.AstNodeKind) marena.NodeId {
	tok, _ := p.CurrentToken()
	id := p.Arena.NewLeaf(kind, tok, p.ContextId, p.HasContext, p.TokenIndex)
	p.TokenIndex++
	return id
}

// Expect consumes the current token as a Constant leaf if it is kind, or
// raises ExpectedTokenKindError.
func (p *ParserState) Expect(kind mlex.TokenKind) (marena.NodeId, error) {
	if !p.IsOnTokenKind(kind) {
		return 0, newExpectedTokenKind(p, kind)
	}
	return p.PushLeaf(marena.Constant), nil
}

// ExpectAny consumes the current token as a Constant leaf if it is any of
// kinds, or raises ExpectedAnyTokenKindError.
func (p *ParserState) ExpectAny(kinds ...mlex.TokenKind) (marena.NodeId, error) {
	cur := p.CurrentTokenKind()
	for _, k := range kinds {
		if cur == k {
			return p.PushLeaf(marena.Constant), nil
		}
	}
	return 0, newExpectedAnyTokenKind(p, kinds)
}

// TokenStartOf returns the token index the node at id's coverage begins
// at, used when re-deriving a wrapped node's start index after
// WrapLastChild has moved it under a new parent.
func (p *ParserState) TokenStartOf(id marena.NodeId) int {
	x, ok := p.Arena.MaybeXor(id)
	if !ok {
		return p.TokenIndex
	}
	ast, ok := x.AsAst()
	if !ok {
		return p.TokenIndex
	}
	return ast.TokenRange[0]
}

// abandon rolls a production back to backup and returns err unchanged
// (§4.3 step 4). No production in this package calls it at present.
func (p *ParserState) abandon(backup FastStateBackup, err error) error {
	p.ApplyFastStateBackup(backup)
	return err
}
