package marena

import (
	"sort"

	"github.com/halvorsen/mformula/internal/mlex"
)

// NodeId addresses a node in an Arena. Ids are assigned from a single
// monotonic counter shared between context nodes and AST nodes, so that a
// backup point captured as "the next id to be issued" partitions the arena
// cleanly into "existed before the backup" and "created since" (§4.3).
type NodeId uint32

// AstNode is a finished production: either a single token (leaf) or an
// ordered list of child NodeIds addressed by attribute index (inner).
type AstNode struct {
	Id         NodeId
	Kind       AstNodeKind
	Token      *mlex.Token // non-nil only for leaf kinds
	ChildIds   []NodeId    // attribute-indexed children, for inner kinds
	TokenRange [2]int      // [start, end) index into the Snapshot.Tokens this node covers
}

// ContextNode is a production still under construction: the parser has
// called StartContext for it but not yet EndContext (§4.3 "context node").
// Its ChildIds accumulate in parse order and it becomes (or is discarded in
// favor of) an AstNode when the production finishes.
type ContextNode struct {
	Id        NodeId
	Kind      AstNodeKind
	ParentId  NodeId
	HasParent bool
	ChildIds  []NodeId
}

// XorNode is a read-only view over either an AstNode or a ContextNode,
// named for the source grammar's invariant that exactly one of the two
// exists for any given NodeId at a time (§3 "XOR node").
type XorNode struct {
	Id    NodeId
	Kind  AstNodeKind
	ast   *AstNode
	ctx   *ContextNode
}

// IsAst reports whether the underlying node is a finished AstNode.
func (x XorNode) IsAst() bool { return x.ast != nil }

// AsAst returns the underlying AstNode and true if IsAst.
func (x XorNode) AsAst() (*AstNode, bool) { return x.ast, x.ast != nil }

// AsContext returns the underlying ContextNode and true if !IsAst.
func (x XorNode) AsContext() (*ContextNode, bool) { return x.ctx, x.ctx != nil }

// Arena owns every node created during a parse, indexed by NodeId, plus the
// parent/child edges needed for ancestry-based queries (components E, F).
type Arena struct {
	nextId       NodeId
	astById      map[NodeId]*AstNode
	contextById  map[NodeId]*ContextNode
	parentIdById map[NodeId]NodeId
	hasParent    map[NodeId]bool
	rootId       NodeId
	hasRoot      bool
}

// NewArena returns an empty node arena.
func NewArena() *Arena {
	return &Arena{
		astById:      make(map[NodeId]*AstNode),
		contextById:  make(map[NodeId]*ContextNode),
		parentIdById: make(map[NodeId]NodeId),
		hasParent:    make(map[NodeId]bool),
	}
}

// NextId returns the id the next created node would receive, without
// creating it — used by the parser to capture a backup checkpoint (§4.3).
func (a *Arena) NextId() NodeId { return a.nextId }

// NewContext allocates a new ContextNode under parentId (or as the root if
// hasParent is false) and returns its id.
func (a *Arena) NewContext(kind AstNodeKind, parentId NodeId, hasParent bool) NodeId {
	id := a.nextId
	a.nextId++
	a.contextById[id] = &ContextNode{Id: id, Kind: kind, ParentId: parentId, HasParent: hasParent}
	a.hasParent[id] = hasParent
	if hasParent {
		a.parentIdById[id] = parentId
		if p, ok := a.contextById[parentId]; ok {
			p.ChildIds = append(p.ChildIds, id)
		}
	} else {
		a.rootId, a.hasRoot = id, true
	}
	return id
}

// EndContext finishes the ContextNode at id, converting it into an AstNode
// with the given token range, and removes the spent ContextNode.
func (a *Arena) EndContext(id NodeId, tokenRange [2]int) *AstNode {
	ctx := a.contextById[id]
	node := &AstNode{Id: id, Kind: ctx.Kind, ChildIds: ctx.ChildIds, TokenRange: tokenRange}
	a.astById[id] = node
	delete(a.contextById, id)
	return node
}

// NewLeaf allocates a finished leaf AstNode directly (used for
// token-backed productions that never pass through a ContextNode).
func (a *Arena) NewLeaf(kind AstNodeKind, tok mlex.Token, parentId NodeId, hasParent bool, tokenIndex int) NodeId {
	id := a.nextId
	a.nextId++
	a.astById[id] = &AstNode{Id: id, Kind: kind, Token: &tok, TokenRange: [2]int{tokenIndex, tokenIndex + 1}}
	a.hasParent[id] = hasParent
	if hasParent {
		a.parentIdById[id] = parentId
		if p, ok := a.contextById[parentId]; ok {
			p.ChildIds = append(p.ChildIds, id)
		}
	}
	return id
}

// WrapLastChild reparents the most-recently-appended child of parentId
// under a freshly created context node of kind, and returns the new
// context's id. Used by the recursive-primary-expression production
// (§9): the head of `primary (invoke | index | field-access)+` is parsed
// before it is known whether any suffix follows, so when a suffix does
// follow, the already-finished head is retroactively moved under a new
// RecursivePrimaryExpression context as its attribute-0 child instead of
// being reparsed.
func (a *Arena) WrapLastChild(parentId NodeId, hasParent bool, kind AstNodeKind) NodeId {
	var childId NodeId
	if hasParent {
		if parent, ok := a.contextById[parentId]; ok && len(parent.ChildIds) > 0 {
			last := len(parent.ChildIds) - 1
			childId = parent.ChildIds[last]
			parent.ChildIds = parent.ChildIds[:last]
		}
	} else if a.hasRoot {
		childId = a.rootId
		a.hasRoot = false
	}
	wrapperId := a.NewContext(kind, parentId, hasParent)
	wrapper := a.contextById[wrapperId]
	wrapper.ChildIds = append(wrapper.ChildIds, childId)
	a.parentIdById[childId] = wrapperId
	a.hasParent[childId] = true
	return wrapperId
}

// Restore drops every node created at or after id, the O(delta) rollback
// operation spec.md §4.3 requires of backtracking. currentId/hasCurrent
// identify the context node that was current at backup time: if it
// survives the cutoff (it was created before the speculative attempt), its
// ChildIds is trimmed back to the children it had at that time, since
// StartContext links a new child into its parent's ChildIds immediately on
// creation, before the child's production has even attempted to succeed.
func (a *Arena) Restore(id NodeId, currentId NodeId, hasCurrent bool) {
	for i := id; i < a.nextId; i++ {
		delete(a.astById, i)
		delete(a.contextById, i)
		delete(a.parentIdById, i)
		delete(a.hasParent, i)
	}
	a.nextId = id
	if hasCurrent {
		if ctx, ok := a.contextById[currentId]; ok {
			ctx.ChildIds = trimChildIds(ctx.ChildIds, id)
		}
	}
}

func trimChildIds(ids []NodeId, cutoff NodeId) []NodeId {
	for i, c := range ids {
		if c >= cutoff {
			return ids[:i]
		}
	}
	return ids
}

// MaybeXor returns the XorNode view at id, or false if no node exists there
// (e.g. it was rolled back by Restore).
func (a *Arena) MaybeXor(id NodeId) (XorNode, bool) {
	if ast, ok := a.astById[id]; ok {
		return XorNode{Id: id, Kind: ast.Kind, ast: ast}, true
	}
	if ctx, ok := a.contextById[id]; ok {
		return XorNode{Id: id, Kind: ctx.Kind, ctx: ctx}, true
	}
	return XorNode{}, false
}

// AssertXor is MaybeXor but panics if the node does not exist, for call
// sites where the parser has already guaranteed the id is live.
func (a *Arena) AssertXor(id NodeId) XorNode {
	x, ok := a.MaybeXor(id)
	if !ok {
		panic("marena: assertXor on a dead node id")
	}
	return x
}

func childIdsOf(x XorNode) []NodeId {
	if ast, ok := x.AsAst(); ok {
		return ast.ChildIds
	}
	ctx, _ := x.AsContext()
	return ctx.ChildIds
}

// MaybeChildXorByAttributeIndex returns the child at attributeIndex (in
// parse order) under parent, or false if parent has no such child. The
// guard is `attributeIndex >= len(childIds)`, not the inverted form the
// reference implementation's equivalent helper got backwards.
func (a *Arena) MaybeChildXorByAttributeIndex(parent XorNode, attributeIndex int) (XorNode, bool) {
	childIds := childIdsOf(parent)
	if attributeIndex < 0 || attributeIndex >= len(childIds) {
		return XorNode{}, false
	}
	return a.MaybeXor(childIds[attributeIndex])
}

// MaybeChildAstByAttributeIndex is MaybeChildXorByAttributeIndex narrowed
// to the case where the child is known to already be a finished AstNode.
func (a *Arena) MaybeChildAstByAttributeIndex(parent XorNode, attributeIndex int) (*AstNode, bool) {
	x, ok := a.MaybeChildXorByAttributeIndex(parent, attributeIndex)
	if !ok {
		return nil, false
	}
	return x.AsAst()
}

// MaybeRightMostLeaf walks down the right spine of node, returning the
// right-most leaf AstNode reachable, or false if node has no children and
// is not itself a leaf.
func (a *Arena) MaybeRightMostLeaf(node XorNode) (*AstNode, bool) {
	current := node
	for {
		if ast, ok := current.AsAst(); ok && ast.Token != nil {
			return ast, true
		}
		childIds := childIdsOf(current)
		if len(childIds) == 0 {
			return nil, false
		}
		next, ok := a.MaybeXor(childIds[len(childIds)-1])
		if !ok {
			return nil, false
		}
		current = next
	}
}

// MaybeArrayWrapperContent confirms node is an ArrayWrapper and returns it
// unchanged: readArrayWrapper attaches each Csv directly as a child of the
// wrapper itself, with no further indirection, so the wrapper's own
// ChildIds already are the repeated Csv list callers want to iterate.
func (a *Arena) MaybeArrayWrapperContent(node XorNode) (XorNode, bool) {
	if node.Kind != ArrayWrapper {
		return XorNode{}, false
	}
	return node, true
}

// AssertAncestry returns the chain of ancestor ids from id up to (and
// including) the root, panicking if id has no recorded parent chain
// reaching the root — a programmer error, not a recoverable parse failure.
func (a *Arena) AssertAncestry(id NodeId) []NodeId {
	chain := []NodeId{id}
	current := id
	for {
		if a.hasRoot && current == a.rootId {
			return chain
		}
		parentId, ok := a.parentIdById[current]
		if !ok {
			panic("marena: assertAncestry found no path to root")
		}
		chain = append(chain, parentId)
		current = parentId
	}
}

// MaybeNthSiblingXor returns the sibling offset positions away from id
// within their shared parent's child list (negative offset for a
// preceding sibling), or false if id has no parent or the offset runs off
// either end of the sibling list.
func (a *Arena) MaybeNthSiblingXor(id NodeId, offset int) (XorNode, bool) {
	parentId, ok := a.parentIdById[id]
	if !ok {
		return XorNode{}, false
	}
	parent, ok := a.MaybeXor(parentId)
	if !ok {
		return XorNode{}, false
	}
	childIds := childIdsOf(parent)
	selfIndex := -1
	for i, c := range childIds {
		if c == id {
			selfIndex = i
			break
		}
	}
	if selfIndex == -1 {
		return XorNode{}, false
	}
	target := selfIndex + offset
	if target < 0 || target >= len(childIds) {
		return XorNode{}, false
	}
	return a.MaybeXor(childIds[target])
}

// ParentId returns the parent of id and whether id has one (the root does
// not).
func (a *Arena) ParentId(id NodeId) (NodeId, bool) {
	p, ok := a.parentIdById[id]
	return p, ok
}

// RootId returns the arena's root node id, if one has been created.
func (a *Arena) RootId() (NodeId, bool) { return a.rootId, a.hasRoot }

// LeafNodeIds returns, in ascending id order, every AstNode id whose kind
// is a leaf kind (§3 invariant (d)). Context nodes are never leaves:
// leaf-ness is only decided once a production has finished.
func (a *Arena) LeafNodeIds() []NodeId {
	ids := make([]NodeId, 0, len(a.astById))
	for id, node := range a.astById {
		if node.Kind.IsLeaf() {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
