package marena

import (
	"testing"

	"github.com/halvorsen/mformula/internal/mlex"
)

func TestNewContextAndEndContextRoot(t *testing.T) {
	a := NewArena()
	id := a.NewContext(LetExpression, 0, false)
	if root, ok := a.RootId(); !ok || root != id {
		t.Fatalf("expected root = %v, got %v (ok=%v)", id, root, ok)
	}
	node := a.EndContext(id, [2]int{0, 3})
	if node.Kind != LetExpression {
		t.Errorf("kind = %v, want LetExpression", node.Kind)
	}
	if _, ok := a.MaybeXor(id); !ok {
		t.Fatal("expected the finished node to still be addressable")
	}
	if x, _ := a.MaybeXor(id); !x.IsAst() {
		t.Error("expected the finished node to report IsAst() == true")
	}
}

func TestNewLeafAttachesToParent(t *testing.T) {
	a := NewArena()
	parent := a.NewContext(ListExpression, 0, false)
	leaf := a.NewLeaf(LiteralExpression, mlex.Token{Kind: mlex.Numeric, Data: "1"}, parent, true, 0)

	parentNode, _ := a.MaybeXor(parent)
	ctx, ok := parentNode.AsContext()
	if !ok || len(ctx.ChildIds) != 1 || ctx.ChildIds[0] != leaf {
		t.Fatalf("expected parent to have the leaf as its one child, got %+v", ctx)
	}
	if pid, ok := a.ParentId(leaf); !ok || pid != parent {
		t.Fatalf("expected leaf's parent to be %v, got %v (ok=%v)", parent, pid, ok)
	}
}

func TestWrapLastChildReparentsRoot(t *testing.T) {
	a := NewArena()
	head := a.NewLeaf(IdentifierExpression, mlex.Token{Kind: mlex.Identifier, Data: "x"}, 0, false, 0)

	wrapper := a.WrapLastChild(0, false, RecursivePrimaryExpression)
	root, ok := a.RootId()
	if !ok || root != wrapper {
		t.Fatalf("expected wrapper to become the new root, got root=%v wrapper=%v", root, wrapper)
	}
	wrapperNode, _ := a.MaybeXor(wrapper)
	ctx, _ := wrapperNode.AsContext()
	if len(ctx.ChildIds) != 1 || ctx.ChildIds[0] != head {
		t.Fatalf("expected wrapper's sole child to be the original head, got %+v", ctx.ChildIds)
	}
	if pid, ok := a.ParentId(head); !ok || pid != wrapper {
		t.Fatalf("expected head's parent to now be the wrapper, got %v (ok=%v)", pid, ok)
	}
}

func TestWrapLastChildReparentsUnderExistingParent(t *testing.T) {
	a := NewArena()
	parent := a.NewContext(ListExpression, 0, false)
	head := a.NewLeaf(IdentifierExpression, mlex.Token{Kind: mlex.Identifier, Data: "x"}, parent, true, 0)

	wrapper := a.WrapLastChild(parent, true, RecursivePrimaryExpression)

	parentNode, _ := a.MaybeXor(parent)
	parentCtx, _ := parentNode.AsContext()
	if len(parentCtx.ChildIds) != 1 || parentCtx.ChildIds[0] != wrapper {
		t.Fatalf("expected parent's only child to now be the wrapper, got %+v", parentCtx.ChildIds)
	}

	wrapperNode, _ := a.MaybeXor(wrapper)
	wrapperCtx, _ := wrapperNode.AsContext()
	if len(wrapperCtx.ChildIds) != 1 || wrapperCtx.ChildIds[0] != head {
		t.Fatalf("expected wrapper's child to be the original head, got %+v", wrapperCtx.ChildIds)
	}
}

// TestRestoreDropsNodesAtOrAfterBackupId exercises the O(delta) rollback
// contract: restoring to a checkpoint drops every node created since, and
// trims the surviving current context's ChildIds back to what it had then.
func TestRestoreDropsNodesAtOrAfterBackupId(t *testing.T) {
	a := NewArena()
	parent := a.NewContext(ListExpression, 0, false)
	kept := a.NewLeaf(LiteralExpression, mlex.Token{Kind: mlex.Numeric, Data: "1"}, parent, true, 0)

	backup := a.NextId()
	speculative := a.NewLeaf(LiteralExpression, mlex.Token{Kind: mlex.Numeric, Data: "2"}, parent, true, 1)

	a.Restore(backup, parent, true)

	if _, ok := a.MaybeXor(speculative); ok {
		t.Fatal("expected the speculative node to be gone after Restore")
	}
	if _, ok := a.MaybeXor(kept); !ok {
		t.Fatal("expected the pre-backup node to survive Restore")
	}
	parentNode, _ := a.MaybeXor(parent)
	ctx, _ := parentNode.AsContext()
	if len(ctx.ChildIds) != 1 || ctx.ChildIds[0] != kept {
		t.Fatalf("expected parent's children to be trimmed back to [kept], got %+v", ctx.ChildIds)
	}
	if a.NextId() != backup {
		t.Fatalf("expected NextId to be reset to the backup point, got %v want %v", a.NextId(), backup)
	}
}

// TestRestoreThenReparseIsObservationallyEquivalent checks the property that
// a failed speculative branch followed by Restore and a fresh parse produces
// the same final tree as if the failed branch had never been attempted.
func TestRestoreThenReparseIsObservationallyEquivalent(t *testing.T) {
	build := func(withFailedAttempt bool) *Arena {
		a := NewArena()
		parent := a.NewContext(ListExpression, 0, false)
		if withFailedAttempt {
			backup := a.NextId()
			a.NewLeaf(LiteralExpression, mlex.Token{Kind: mlex.Numeric, Data: "99"}, parent, true, 1)
			a.Restore(backup, parent, true)
		}
		a.NewLeaf(LiteralExpression, mlex.Token{Kind: mlex.Numeric, Data: "2"}, parent, true, 1)
		a.EndContext(parent, [2]int{0, 2})
		return a
	}

	clean := build(false)
	withRollback := build(true)

	cleanNode, _ := clean.MaybeXor(0)
	rollbackNode, _ := withRollback.MaybeXor(0)
	cleanAst, _ := cleanNode.AsAst()
	rollbackAst, _ := rollbackNode.AsAst()
	if len(cleanAst.ChildIds) != len(rollbackAst.ChildIds) {
		t.Fatalf("child count mismatch: clean=%d rollback=%d", len(cleanAst.ChildIds), len(rollbackAst.ChildIds))
	}
	for i := range cleanAst.ChildIds {
		cleanChild, _ := clean.MaybeXor(cleanAst.ChildIds[i])
		rollbackChild, _ := withRollback.MaybeXor(rollbackAst.ChildIds[i])
		cleanLeaf, _ := cleanChild.AsAst()
		rollbackLeaf, _ := rollbackChild.AsAst()
		if cleanLeaf.Token.Data != rollbackLeaf.Token.Data {
			t.Errorf("child %d: clean=%q rollback=%q", i, cleanLeaf.Token.Data, rollbackLeaf.Token.Data)
		}
	}
}

// TestMaybeChildXorByAttributeIndexBounds is the explicit regression test
// spec.md §9 calls for: the guard must be attributeIndex >= len(childIds),
// never the inverted form.
func TestMaybeChildXorByAttributeIndexBounds(t *testing.T) {
	a := NewArena()
	parent := a.NewContext(ListExpression, 0, false)
	a.NewLeaf(LiteralExpression, mlex.Token{Kind: mlex.Numeric, Data: "1"}, parent, true, 0)
	a.NewLeaf(LiteralExpression, mlex.Token{Kind: mlex.Numeric, Data: "2"}, parent, true, 1)
	parentNode, _ := a.MaybeXor(parent)

	if _, ok := a.MaybeChildXorByAttributeIndex(parentNode, 0); !ok {
		t.Error("index 0 should be in bounds")
	}
	if _, ok := a.MaybeChildXorByAttributeIndex(parentNode, 1); !ok {
		t.Error("index 1 should be in bounds")
	}
	if _, ok := a.MaybeChildXorByAttributeIndex(parentNode, 2); ok {
		t.Error("index 2 is out of bounds and must report false")
	}
	if _, ok := a.MaybeChildXorByAttributeIndex(parentNode, -1); ok {
		t.Error("negative index must report false")
	}
}

func TestMaybeRightMostLeafWalksRightSpine(t *testing.T) {
	a := NewArena()
	parent := a.NewContext(ListExpression, 0, false)
	a.NewLeaf(LiteralExpression, mlex.Token{Kind: mlex.Numeric, Data: "1"}, parent, true, 0)
	last := a.NewLeaf(LiteralExpression, mlex.Token{Kind: mlex.Numeric, Data: "2"}, parent, true, 1)
	a.EndContext(parent, [2]int{0, 2})

	root, _ := a.MaybeXor(parent)
	leaf, ok := a.MaybeRightMostLeaf(root)
	if !ok || leaf.Id != last {
		t.Fatalf("expected right-most leaf to be %v, got %v (ok=%v)", last, leaf, ok)
	}
}

func TestMaybeNthSiblingXor(t *testing.T) {
	a := NewArena()
	parent := a.NewContext(ListExpression, 0, false)
	first := a.NewLeaf(LiteralExpression, mlex.Token{Kind: mlex.Numeric, Data: "1"}, parent, true, 0)
	second := a.NewLeaf(LiteralExpression, mlex.Token{Kind: mlex.Numeric, Data: "2"}, parent, true, 1)
	a.EndContext(parent, [2]int{0, 2})

	next, ok := a.MaybeNthSiblingXor(first, 1)
	if !ok || next.Id != second {
		t.Fatalf("expected sibling +1 of first to be second, got %v (ok=%v)", next.Id, ok)
	}
	prev, ok := a.MaybeNthSiblingXor(second, -1)
	if !ok || prev.Id != first {
		t.Fatalf("expected sibling -1 of second to be first, got %v (ok=%v)", prev.Id, ok)
	}
	if _, ok := a.MaybeNthSiblingXor(second, 1); ok {
		t.Error("offset running off the end must report false")
	}
}

func TestLeafNodeIdsAscendingAndLeavesOnly(t *testing.T) {
	a := NewArena()
	parent := a.NewContext(ListExpression, 0, false)
	l1 := a.NewLeaf(Constant, mlex.Token{Kind: mlex.Numeric, Data: "1"}, parent, true, 0)
	l2 := a.NewLeaf(Constant, mlex.Token{Kind: mlex.Numeric, Data: "2"}, parent, true, 1)
	a.EndContext(parent, [2]int{0, 2})

	ids := a.LeafNodeIds()
	if len(ids) != 2 || ids[0] != l1 || ids[1] != l2 {
		t.Fatalf("expected leaf ids [%v %v], got %v", l1, l2, ids)
	}
}
