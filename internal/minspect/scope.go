package minspect

import (
	"github.com/halvorsen/mformula/internal/marena"
	"github.com/halvorsen/mformula/internal/mlex"
)

// ScopeMap is the names-visible-at-position result: an insertion-ordered
// mapping of name to the XorNode it resolves to (§3 "ordered mapping",
// §9 "maps with insertion-order-significant iteration"). Addition is
// first-writer-wins (§4.5): once a key is bound, later Adds are no-ops, so
// that inner scopes naturally shadow outer ones when visitors run from the
// leaf outward.
type ScopeMap struct {
	order []string
	byKey map[string]marena.XorNode
}

// NewScopeMap returns an empty ScopeMap.
func NewScopeMap() *ScopeMap {
	return &ScopeMap{byKey: make(map[string]marena.XorNode)}
}

// Add binds name to value unless name is already bound, returning whether
// the binding was accepted.
func (m *ScopeMap) Add(name string, value marena.XorNode) bool {
	if _, ok := m.byKey[name]; ok {
		return false
	}
	m.byKey[name] = value
	m.order = append(m.order, name)
	return true
}

// Get looks up name.
func (m *ScopeMap) Get(name string) (marena.XorNode, bool) {
	x, ok := m.byKey[name]
	return x, ok
}

// Names returns the bound names in insertion order.
func (m *ScopeMap) Names() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// InvokeContext is the invocation-context record a scope walk accumulates
// when it passes through an InvokeExpression (§4.5): the invoked
// expression's display name (if resolvable), the argument count, and
// which argument (if any) contains position.
type InvokeContext struct {
	Node         marena.XorNode
	Name         string
	HasName      bool
	ArgumentCount int
	ArgumentIndex int
	HasArgumentIndex bool
}

// ContextualNode annotates a node the scope walk passed through with its
// span, for the `nodes` field of §6's tryInspection output.
type ContextualNode struct {
	Node marena.XorNode
	Span Span
}

// ScopeResult is `tryInspection`'s payload (§6): the visible-name map, the
// contextual nodes passed through during the ancestry walk, the identifier
// (if any) the cursor sits on or just after, and the innermost invocation
// context (if any).
type ScopeResult struct {
	Scope               *ScopeMap
	Nodes                []ContextualNode
	PositionIdentifier    string
	HasPositionIdentifier bool
	Invoke                InvokeContext
	HasInvoke             bool
}

// Inspect runs the full position-inspection algorithm (§4.5): find the
// closest leaf at-or-before position, then walk its ancestry to the root
// invoking the per-kind scope visitor at each level.
func Inspect(arena *marena.Arena, snap *mlex.Snapshot, leafIds []marena.NodeId, position mlex.Position) (*ScopeResult, bool) {
	leaf, ok := ClosestLeafByPosition(arena, snap, leafIds, position)
	if !ok {
		return nil, false
	}

	result := &ScopeResult{Scope: NewScopeMap()}
	ancestry := arena.AssertAncestry(leaf.Id)

	for _, id := range ancestry {
		x, ok := arena.MaybeXor(id)
		if !ok {
			continue
		}
		visitScope(arena, snap, x, position, result)
	}
	return result, true
}

// visitScope applies the scope-contribution rule for x's kind (§4.5 "Scope
// visitors"), in addition to recording its span in result.Nodes when x is
// one of the kinds a consumer would want contextual framing for.
func visitScope(arena *marena.Arena, snap *mlex.Snapshot, x marena.XorNode, position mlex.Position, result *ScopeResult) {
	switch x.Kind {
	case marena.Identifier:
		// "at or before the cursor adds itself" (§4.5): any identifier the
		// walk reaches here is, by construction, on the ancestry chain of
		// the closest leaf at-or-before position, so it always qualifies.
		if name, ok := identifierText(x); ok {
			result.Scope.Add(name, x)
			if !result.HasPositionIdentifier {
				result.PositionIdentifier, result.HasPositionIdentifier = name, true
			}
		}

	case marena.GeneralizedIdentifier:
		if name, ok := generalizedIdentifierText(snap, x); ok {
			result.Scope.Add(name, x)
		}

	case marena.EachExpression:
		result.Scope.Add("_", x)
		recordNode(arena, snap, x, result)

	case marena.FunctionExpression:
		visitFunctionScope(arena, x, result)

	case marena.LetExpression:
		visitPairListScope(arena, snap, x, position, result, true)

	case marena.RecordExpression:
		visitPairListScope(arena, snap, x, position, result, true)

	case marena.Section:
		visitPairListScope(arena, snap, x, position, result, false)

	case marena.ListExpression, marena.RecordType:
		recordNode(arena, snap, x, result)

	case marena.InvokeExpression:
		recordNode(arena, snap, x, result)
		if !result.HasInvoke {
			result.Invoke, result.HasInvoke = invocationContextOf(arena, snap, x, position)
		}
	}
}

func recordNode(arena *marena.Arena, snap *mlex.Snapshot, x marena.XorNode, result *ScopeResult) {
	result.Nodes = append(result.Nodes, ContextualNode{Node: x, Span: SpanOf(arena, snap, x)})
}

func identifierText(x marena.XorNode) (string, bool) {
	ast, ok := x.AsAst()
	if !ok || ast.Token == nil {
		return "", false
	}
	return ast.Token.Data, true
}

func generalizedIdentifierText(snap *mlex.Snapshot, x marena.XorNode) (string, bool) {
	ast, ok := x.AsAst()
	if !ok {
		return "", false
	}
	start, end := ast.TokenRange[0], ast.TokenRange[1]
	if start >= end || end > len(snap.Tokens) {
		return "", false
	}
	text := ""
	for i := start; i < end; i++ {
		text += snap.Tokens[i].Data
	}
	return text, true
}

// firstChildOfKind scans x's children in attribute order for the first one
// of kind, used where a bracket/keyword production may or may not have
// emitted a preceding Constant child depending on whether its bracketed
// content was empty (e.g. ListExpression's ArrayWrapper is present only
// when the list is non-empty), making a fixed attribute index unsafe.
func firstChildOfKind(arena *marena.Arena, x marena.XorNode, kind marena.AstNodeKind) (marena.XorNode, bool) {
	for _, id := range childIdsOfXor(arena, x) {
		if c, ok := arena.MaybeXor(id); ok && c.Kind == kind {
			return c, true
		}
	}
	return marena.XorNode{}, false
}

// visitFunctionScope adds each declared parameter's name bound to the
// Parameter node itself (§4.5 "Function expression adds each parameter
// name -> parameter node").
func visitFunctionScope(arena *marena.Arena, fn marena.XorNode, result *ScopeResult) {
	paramList, ok := arena.MaybeChildXorByAttributeIndex(fn, 0)
	if !ok || paramList.Kind != marena.ParameterList {
		return
	}
	wrapper, ok := firstChildOfKind(arena, paramList, marena.ArrayWrapper)
	if !ok {
		return
	}
	content, ok := arena.MaybeArrayWrapperContent(wrapper)
	if !ok {
		content = wrapper
	}
	for _, csvId := range childIdsOfXor(arena, content) {
		csv, ok := arena.MaybeXor(csvId)
		if !ok {
			continue
		}
		param, ok := arena.MaybeChildXorByAttributeIndex(csv, 0)
		if !ok || param.Kind != marena.Parameter {
			continue
		}
		for _, childId := range childIdsOfXor(arena, param) {
			child, ok := arena.MaybeXor(childId)
			if !ok || child.Kind != marena.Identifier {
				continue
			}
			if name, ok := identifierText(child); ok {
				result.Scope.Add(name, param)
			}
			break
		}
	}
}

// visitPairListScope adds the bindings of a key-value array (LetExpression
// or RecordExpression's ArrayWrapper, or Section's direct SectionMember
// children) to scope. When bounded is true, a pair is only added once its
// own span's end is at-or-before position (§4.5 "forward references...not
// in scope"); Section members have no such restriction.
func visitPairListScope(arena *marena.Arena, snap *mlex.Snapshot, owner marena.XorNode, position mlex.Position, result *ScopeResult, bounded bool) {
	var pairIds []marena.NodeId
	if owner.Kind == marena.Section {
		for _, memberId := range childIdsOfXor(arena, owner) {
			member, ok := arena.MaybeXor(memberId)
			if !ok || member.Kind != marena.SectionMember {
				continue
			}
			for _, childId := range childIdsOfXor(arena, member) {
				if child, ok := arena.MaybeXor(childId); ok &&
					(child.Kind == marena.IdentifierPairedExpression) {
					pairIds = append(pairIds, childId)
				}
			}
		}
	} else {
		wrapper, ok := firstChildOfKind(arena, owner, marena.ArrayWrapper)
		if !ok {
			return
		}
		content, ok := arena.MaybeArrayWrapperContent(wrapper)
		if !ok {
			content = wrapper
		}
		for _, csvId := range childIdsOfXor(arena, content) {
			csv, ok := arena.MaybeXor(csvId)
			if !ok {
				continue
			}
			if pair, ok := arena.MaybeChildXorByAttributeIndex(csv, 0); ok {
				pairIds = append(pairIds, pair.Id)
			}
		}
	}

	for _, pairId := range pairIds {
		pair, ok := arena.MaybeXor(pairId)
		if !ok {
			continue
		}
		if bounded && !IsOnXorNodeEnd(arena, snap, pair, position) && !IsAfterXorNode(arena, snap, pair, position) {
			continue
		}
		key, ok := arena.MaybeChildXorByAttributeIndex(pair, 0)
		if !ok {
			continue
		}
		name, ok := pairKeyText(snap, key)
		if !ok {
			continue
		}
		value, ok := arena.MaybeChildXorByAttributeIndex(pair, 2)
		if !ok {
			value = pair
		}
		result.Scope.Add(name, value)
	}
}

func pairKeyText(snap *mlex.Snapshot, key marena.XorNode) (string, bool) {
	if key.Kind == marena.Identifier {
		return identifierText(key)
	}
	return generalizedIdentifierText(snap, key)
}

// invocationContextOf resolves the invoked expression's display name by
// climbing from invoke to its enclosing RecursivePrimaryExpression and
// reading that node's head (attribute index 0), per §4.5; it also reports
// the argument count and which argument (if any) contains position.
func invocationContextOf(arena *marena.Arena, snap *mlex.Snapshot, invoke marena.XorNode, position mlex.Position) (InvokeContext, bool) {
	ctx := InvokeContext{Node: invoke}

	parentId, ok := arena.ParentId(invoke.Id)
	if ok {
		if parent, ok := arena.MaybeXor(parentId); ok && parent.Kind == marena.RecursivePrimaryExpression {
			if head, ok := arena.MaybeChildXorByAttributeIndex(parent, 0); ok {
				ctx.Name, ctx.HasName = headDisplayName(arena, head)
			}
		}
	}

	wrapper, ok := firstChildOfKind(arena, invoke, marena.ArrayWrapper)
	if ok {
		content, ok := arena.MaybeArrayWrapperContent(wrapper)
		if !ok {
			content = wrapper
		}
		args := childIdsOfXor(arena, content)
		ctx.ArgumentCount = len(args)
		for i, argCsvId := range args {
			argCsv, ok := arena.MaybeXor(argCsvId)
			if !ok {
				continue
			}
			if IsInXorNode(arena, snap, argCsv, position) || IsOnXorNodeEnd(arena, snap, argCsv, position) {
				ctx.ArgumentIndex, ctx.HasArgumentIndex = i, true
			}
		}
	}
	return ctx, true
}

// headDisplayName recovers a human-readable name from a
// RecursivePrimaryExpression's head, descending through IdentifierExpression
// wrappers to the underlying Identifier token.
func headDisplayName(arena *marena.Arena, head marena.XorNode) (string, bool) {
	if head.Kind == marena.IdentifierExpression {
		if id, ok := arena.MaybeChildXorByAttributeIndex(head, 0); ok {
			return identifierText(id)
		}
	}
	return "", false
}

func childIdsOfXor(arena *marena.Arena, x marena.XorNode) []marena.NodeId {
	if ast, ok := x.AsAst(); ok {
		return ast.ChildIds
	}
	if ctx, ok := x.AsContext(); ok {
		return ctx.ChildIds
	}
	return nil
}
