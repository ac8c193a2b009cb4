// Package minspect implements post-parse inspection at a cursor position
// (components I, J, K): position predicates over XOR-nodes, the
// names-visible-at-position scope algorithm, and the structural type
// inspector. Every function here is read-only with respect to the arena
// it is given — inspection must work equally well against a complete AST
// or the partial tree left behind by a failed parse (§4.5).
package minspect

import (
	"github.com/halvorsen/mformula/internal/marena"
	"github.com/halvorsen/mformula/internal/mlex"
)

// Span is the [Start, End) document range a XOR-node covers. HasEnd is
// false for a context node still being built whose production has not
// produced even a partial right-most leaf (§4.5 "treated as having no
// finite end").
type Span struct {
	Start  mlex.Position
	End    mlex.Position
	HasEnd bool
}

// SpanOf computes the Span of a XorNode by consulting its token range (for
// a finished AstNode) or its right-most-leaf-so-far (for an open
// ContextNode), per §4.5.
func SpanOf(arena *marena.Arena, snap *mlex.Snapshot, x marena.XorNode) Span {
	if ast, ok := x.AsAst(); ok {
		start := snap.LineStartOf(ast.TokenRange[0])
		end := start
		if ast.TokenRange[1] > ast.TokenRange[0] {
			endTok := snap.Tokens[ast.TokenRange[1]-1]
			end = endTok.PositionEnd
		}
		return Span{Start: start, End: end, HasEnd: true}
	}

	ctx, _ := x.AsContext()
	start := mlex.Position{}
	if len(ctx.ChildIds) > 0 {
		if first, ok := arena.MaybeXor(ctx.ChildIds[0]); ok {
			start = SpanOf(arena, snap, first).Start
		}
	}
	if leaf, ok := arena.MaybeRightMostLeaf(x); ok {
		return Span{Start: start, End: leaf.Token.PositionEnd, HasEnd: true}
	}
	return Span{Start: start, HasEnd: false}
}

// IsBeforeXorNode reports whether position sorts strictly before node's
// start (§4.5 "Position predicates").
func IsBeforeXorNode(arena *marena.Arena, snap *mlex.Snapshot, x marena.XorNode, position mlex.Position) bool {
	span := SpanOf(arena, snap, x)
	return position.Less(span.Start)
}

// IsOnXorNodeStart reports whether position is exactly node's start.
func IsOnXorNodeStart(arena *marena.Arena, snap *mlex.Snapshot, x marena.XorNode, position mlex.Position) bool {
	return SpanOf(arena, snap, x).Start == position
}

// IsOnXorNodeEnd reports whether position is exactly node's end. A node
// with no finite end never satisfies this.
func IsOnXorNodeEnd(arena *marena.Arena, snap *mlex.Snapshot, x marena.XorNode, position mlex.Position) bool {
	span := SpanOf(arena, snap, x)
	return span.HasEnd && span.End == position
}

// IsInXorNode reports whether position lies within [start, end). A node
// with no finite end is "in" for any position at or after its start
// (§4.5).
func IsInXorNode(arena *marena.Arena, snap *mlex.Snapshot, x marena.XorNode, position mlex.Position) bool {
	span := SpanOf(arena, snap, x)
	if !span.Start.LessEqual(position) {
		return false
	}
	if !span.HasEnd {
		return true
	}
	return position.Less(span.End)
}

// IsAfterXorNode reports whether position sorts at or after node's end. A
// node with no finite end is never "after" (§4.5).
func IsAfterXorNode(arena *marena.Arena, snap *mlex.Snapshot, x marena.XorNode, position mlex.Position) bool {
	span := SpanOf(arena, snap, x)
	if !span.HasEnd {
		return false
	}
	return span.End.LessEqual(position)
}

// ClosestLeafByPosition finds the right-most leaf whose end is at or
// before position, falling back to the lexically-first leaf if none
// qualifies (§4.5 step 1).
func ClosestLeafByPosition(arena *marena.Arena, snap *mlex.Snapshot, leafIds []marena.NodeId, position mlex.Position) (marena.XorNode, bool) {
	var best marena.XorNode
	var bestEnd mlex.Position
	found := false
	var first marena.XorNode
	hasFirst := false

	for _, id := range leafIds {
		x, ok := arena.MaybeXor(id)
		if !ok {
			continue
		}
		if !hasFirst {
			first, hasFirst = x, true
		}
		span := SpanOf(arena, snap, x)
		if !span.HasEnd || position.Less(span.End) {
			continue
		}
		if !found || bestEnd.Less(span.End) || bestEnd == span.End {
			best, bestEnd, found = x, span.End, true
		}
	}
	if found {
		return best, true
	}
	return first, hasFirst
}
