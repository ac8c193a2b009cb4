package minspect

import (
	"testing"

	"github.com/halvorsen/mformula/internal/mlex"
	"github.com/halvorsen/mformula/internal/mparse"
)

func mustParseWithSnap(t *testing.T, text string) (*mparse.Result, *mlex.Snapshot) {
	t.Helper()
	snap, err := mlex.TryFrom(mlex.StateFrom(text))
	if err != nil {
		t.Fatalf("unexpected lex error for %q: %v", text, err)
	}
	result, err := mparse.Parse(snap, mparse.Combinatorial, nil)
	if err != nil {
		t.Fatalf("unexpected parse error for %q: %v", text, err)
	}
	return result, snap
}

func pos(col int) mlex.Position { return mlex.Position{LineNumber: 0, LineCodeUnit: col} }

// TestSpanOfArithmeticExpression checks SpanOf against a known token range:
// "1 + 22" spans the whole input, columns 0 through 6.
func TestSpanOfArithmeticExpression(t *testing.T) {
	result, snap := mustParseWithSnap(t, "1 + 22")
	root, _ := result.Arena.MaybeXor(result.RootId)
	span := SpanOf(result.Arena, snap, root)
	if span.Start != pos(0) {
		t.Errorf("start = %+v, want column 0", span.Start)
	}
	if !span.HasEnd || span.End != pos(6) {
		t.Errorf("end = %+v (hasEnd=%v), want column 6", span.End, span.HasEnd)
	}
}

func TestIsBeforeOnInAfterXorNode(t *testing.T) {
	result, snap := mustParseWithSnap(t, "1 + 2")
	root, _ := result.Arena.MaybeXor(result.RootId)

	if !IsBeforeXorNode(result.Arena, snap, root, pos(-1)) {
		t.Error("expected a negative column to be before the root's span")
	}
	if !IsOnXorNodeStart(result.Arena, snap, root, pos(0)) {
		t.Error("expected column 0 to be on the root's start")
	}
	if !IsOnXorNodeEnd(result.Arena, snap, root, pos(5)) {
		t.Error("expected column 5 to be on the root's end")
	}
	if !IsInXorNode(result.Arena, snap, root, pos(2)) {
		t.Error("expected column 2 to be inside the root's span")
	}
	if IsInXorNode(result.Arena, snap, root, pos(5)) {
		t.Error("the end column itself is exclusive and must not be 'in'")
	}
	if !IsAfterXorNode(result.Arena, snap, root, pos(5)) {
		t.Error("expected column 5 to be at-or-after the root's end")
	}
	if IsAfterXorNode(result.Arena, snap, root, pos(0)) {
		t.Error("column 0 must not be considered after the root")
	}
}

// TestClosestLeafByPositionPicksRightMostLeafAtOrBefore checks step 1 of the
// inspection algorithm directly: among "1 + 22"'s three leaves (1, +, 22),
// a cursor sitting right after the "22" literal resolves to that literal,
// not to the "+" operator or the opening "1".
func TestClosestLeafByPositionPicksRightMostLeafAtOrBefore(t *testing.T) {
	result, snap := mustParseWithSnap(t, "1 + 22")
	leaf, ok := ClosestLeafByPosition(result.Arena, snap, result.LeafNodeIds, pos(6))
	if !ok {
		t.Fatal("expected a closest leaf to be found")
	}
	ast, ok := leaf.AsAst()
	if !ok || ast.Token == nil || ast.Token.Data != "22" {
		t.Fatalf("expected the closest leaf to be the '22' token, got %+v", ast)
	}
}

// TestClosestLeafByPositionFallsBackToFirstLeaf checks the "no leaf ends at
// or before position" fallback: a cursor sitting before any token resolves
// to the lexically-first leaf.
func TestClosestLeafByPositionFallsBackToFirstLeaf(t *testing.T) {
	result, snap := mustParseWithSnap(t, "1 + 22")
	leaf, ok := ClosestLeafByPosition(result.Arena, snap, result.LeafNodeIds, pos(0))
	if !ok {
		t.Fatal("expected a closest leaf to be found")
	}
	ast, ok := leaf.AsAst()
	if !ok || ast.Token == nil || ast.Token.Data != "1" {
		t.Fatalf("expected the fallback leaf to be the '1' token, got %+v", ast)
	}
}
