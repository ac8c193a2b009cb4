package minspect

import (
	"testing"

	"github.com/halvorsen/mformula/internal/marena"
)

func TestScopeMapFirstWriterWinsAndOrdering(t *testing.T) {
	m := NewScopeMap()
	first := marena.XorNode{}

	if ok := m.Add("x", first); !ok {
		t.Fatal("expected the first Add of a fresh key to be accepted")
	}
	if ok := m.Add("x", marena.XorNode{}); ok {
		t.Error("expected a second Add of the same key to be rejected (first-writer-wins)")
	}
	if ok := m.Add("y", marena.XorNode{}); !ok {
		t.Fatal("expected Add of a new key to be accepted")
	}

	if got := m.Names(); len(got) != 2 || got[0] != "x" || got[1] != "y" {
		t.Fatalf("expected insertion-ordered names [x y], got %v", got)
	}

	if _, ok := m.Get("x"); !ok {
		t.Error("expected Get(\"x\") to succeed")
	}
	if _, ok := m.Get("z"); ok {
		t.Error("expected Get of an unbound name to fail")
	}
}

// TestInspectLetExpressionBindsBothNames is scenario S3's scope half: at the
// end of "let x = 1, y = x + 1 in y", both x and y must be visible.
func TestInspectLetExpressionBindsBothNames(t *testing.T) {
	text := "let x = 1, y = x + 1 in y"
	result, snap := mustParseWithSnap(t, text)

	result2, ok := Inspect(result.Arena, snap, result.LeafNodeIds, pos(len(text)))
	if !ok {
		t.Fatal("expected Inspect to find a closest leaf")
	}
	if _, ok := result2.Scope.Get("x"); !ok {
		t.Error("expected 'x' to be in scope at the end of the let expression")
	}
	if _, ok := result2.Scope.Get("y"); !ok {
		t.Error("expected 'y' to be in scope at the end of the let expression")
	}
}

// TestInspectLetExpressionExcludesForwardReference checks §4.5's "forward
// references are not in scope" rule: with the cursor just before the "y"
// reference in "x = y", y's binding (which comes later) must not yet be
// visible.
func TestInspectLetExpressionExcludesForwardReference(t *testing.T) {
	text := "let x = y, y = 1 in x"
	result, snap := mustParseWithSnap(t, text)

	// Column of the "y" reference inside "x = y" (before its own binding).
	refCol := len("let x = ")
	result2, ok := Inspect(result.Arena, snap, result.LeafNodeIds, pos(refCol))
	if !ok {
		t.Fatal("expected Inspect to find a closest leaf")
	}
	if _, ok := result2.Scope.Get("y"); ok {
		t.Error("expected 'y' to NOT be in scope at its own forward reference, per the bounded pair-list rule")
	}
}

// TestInspectEachExpressionBindsUnderscore is §4.5's EachExpression rule:
// "each" always adds the implicit parameter name "_".
func TestInspectEachExpressionBindsUnderscore(t *testing.T) {
	text := "each _ + 1"
	result, snap := mustParseWithSnap(t, text)

	result2, ok := Inspect(result.Arena, snap, result.LeafNodeIds, pos(len(text)))
	if !ok {
		t.Fatal("expected Inspect to find a closest leaf")
	}
	if _, ok := result2.Scope.Get("_"); !ok {
		t.Error("expected '_' to be bound inside an each expression")
	}
}

// TestInspectFunctionExpressionBindsParameterNames is §4.5's function scope
// rule: each declared parameter name resolves to its Parameter node.
func TestInspectFunctionExpressionBindsParameterNames(t *testing.T) {
	text := "(x, y) => x + y"
	result, snap := mustParseWithSnap(t, text)

	result2, ok := Inspect(result.Arena, snap, result.LeafNodeIds, pos(len(text)))
	if !ok {
		t.Fatal("expected Inspect to find a closest leaf")
	}
	xNode, ok := result2.Scope.Get("x")
	if !ok {
		t.Fatal("expected 'x' to be bound from the parameter list")
	}
	if xNode.Kind != marena.Parameter {
		t.Errorf("expected 'x' to resolve to a Parameter node, got %v", xNode.Kind)
	}
	if _, ok := result2.Scope.Get("y"); !ok {
		t.Error("expected 'y' to be bound from the parameter list")
	}
}

// TestInspectInvokeExpressionResolvesNameAndArgumentIndex is §4.5's
// invocation-context rule: the invoked name is recovered from the
// enclosing RecursivePrimaryExpression's head, and the argument containing
// the cursor is identified by index.
func TestInspectInvokeExpressionResolvesNameAndArgumentIndex(t *testing.T) {
	text := "Foo(1, 2)"
	result, snap := mustParseWithSnap(t, text)

	// Position inside the second argument, "2".
	secondArgCol := len("Foo(1, ")
	result2, ok := Inspect(result.Arena, snap, result.LeafNodeIds, pos(secondArgCol+1))
	if !ok {
		t.Fatal("expected Inspect to find a closest leaf")
	}
	if !result2.HasInvoke {
		t.Fatal("expected an invocation context to be recorded")
	}
	if !result2.Invoke.HasName || result2.Invoke.Name != "Foo" {
		t.Errorf("expected invoke name 'Foo', got %q (hasName=%v)", result2.Invoke.Name, result2.Invoke.HasName)
	}
	if result2.Invoke.ArgumentCount != 2 {
		t.Errorf("expected 2 arguments, got %d", result2.Invoke.ArgumentCount)
	}
	if !result2.Invoke.HasArgumentIndex || result2.Invoke.ArgumentIndex != 1 {
		t.Errorf("expected argument index 1 (the second argument), got %d (has=%v)", result2.Invoke.ArgumentIndex, result2.Invoke.HasArgumentIndex)
	}
}

// TestInspectRecordExpressionBindsFieldNames checks RecordExpression's
// pair-list scope contribution. RecordExpression uses the same bounded rule
// as let: a field is visible once its pair has ended at or before the
// cursor, which holds for both pairs at the end of the record.
func TestInspectRecordExpressionBindsFieldNames(t *testing.T) {
	text := "[ a = 1, b = 2 ]"
	result, snap := mustParseWithSnap(t, text)

	result2, ok := Inspect(result.Arena, snap, result.LeafNodeIds, pos(len(text)))
	if !ok {
		t.Fatal("expected Inspect to find a closest leaf")
	}
	if _, ok := result2.Scope.Get("a"); !ok {
		t.Error("expected field 'a' to be visible")
	}
	if _, ok := result2.Scope.Get("b"); !ok {
		t.Error("expected field 'b' to be visible")
	}
}
