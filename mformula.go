// Package mformula is a parser library for the Power Query/M formula
// language: an incremental line-oriented lexer, a combinator-style
// recursive-descent parser with O(delta) speculative backtracking, and a
// post-parse position inspector. It mirrors the teacher corpus's own
// package-is-the-API shape (boergens-gotypst's syntax package): the
// internal engine lives in internal/mlex, internal/marena, internal/mparse,
// and internal/minspect; this file is the small public facade over them.
package mformula

import (
	"github.com/halvorsen/mformula/internal/marena"
	"github.com/halvorsen/mformula/internal/minspect"
	"github.com/halvorsen/mformula/internal/mlex"
	"github.com/halvorsen/mformula/internal/mparse"
)

// NodeId re-exports internal/marena's arena key type so callers can hold
// and pass node ids (e.g. into InferType) without importing an internal
// package.
type NodeId = marena.NodeId

// ParseOutcome is what TryLexAndParse always returns, success or failure
// (spec.md §6: a failed parse still carries "the partial contextState
// (node-id map, leafNodeIds)" for tooling). RootId/HasRoot are only
// meaningful when the accompanying error is nil.
type ParseOutcome struct {
	Arena       *marena.Arena
	Snapshot    *mlex.Snapshot
	LeafNodeIds []NodeId
	RootId      NodeId
	HasRoot     bool
}

// TryLexAndParse lexes text (or, if Settings.NewParserState is set,
// snapshots the caller-supplied incremental state instead of re-lexing
// text) and parses the result (spec.md §6 "Output of tryLexAndParse").
//
// Three failure shapes are possible, all reported as *Error:
//   - a line-isolated lexical error (the first one found, in ascending
//     line order, per OrderedErrorLineNumbers) — CategoryLex;
//   - an unterminated multi-line form caught by the snapshot step —
//     CategoryLex;
//   - a structured parse error — CategoryParse, with the returned
//     ParseOutcome still populated so the caller can inspect the partial
//     tree.
func TryLexAndParse(text string, settings Settings) (*ParseOutcome, error) {
	var state *mlex.State
	if settings.NewParserState != nil {
		state = settings.NewParserState()
	} else {
		state = mlex.StateFrom(text)
	}

	for _, lineNumber := range state.OrderedErrorLineNumbers() {
		return nil, newLexError(settings, state, state.Lines[lineNumber].MaybeError)
	}

	snap, err := mlex.TryFrom(state)
	if err != nil {
		multiline, _ := err.(*mlex.MultilineError)
		return nil, newMultilineError(settings, multiline)
	}

	result, perr := mparse.Parse(snap, settings.Parser.engineKind(), settings.CancellationToken)
	outcome := &ParseOutcome{
		Arena:       result.Arena,
		Snapshot:    snap,
		LeafNodeIds: result.LeafNodeIds,
		RootId:      result.RootId,
		HasRoot:     result.HasRoot,
	}
	if perr == nil {
		return outcome, nil
	}

	if _, cancelled := perr.(*mparse.CancellationError); cancelled {
		return outcome, newCancellationError(settings)
	}
	parseErr, ok := perr.(*mparse.ParseError)
	if !ok {
		return outcome, &Error{Category: CategoryCommon, Message: perr.Error()}
	}
	return outcome, newParseFacingError(settings, state, parseErr)
}

// TryInspection runs the position-inspection algorithm of spec.md §4.5-4.6
// against a previously parsed outcome (its arena and leaf ids — which
// remain valid even when the outcome came back from a failed parse, per
// §6's contract that inspection must work against a partial tree). It
// returns the scope/contextual-node/position-identifier/invoke-context
// bundle described in §6's "Output of tryInspection".
func TryInspection(position Position, outcome *ParseOutcome) (*InspectionResult, error) {
	scoped, ok := minspect.Inspect(outcome.Arena, outcome.Snapshot, outcome.LeafNodeIds, position)
	if !ok {
		return nil, &Error{Category: CategoryCommon, Message: "no leaf nodes to inspect from"}
	}
	return &InspectionResult{
		Scope:                 scoped.Scope,
		Nodes:                 scoped.Nodes,
		PositionIdentifier:    scoped.PositionIdentifier,
		HasPositionIdentifier: scoped.HasPositionIdentifier,
		Invoke:                scoped.Invoke,
		HasInvoke:             scoped.HasInvoke,
	}, nil
}

// InspectionResult mirrors internal/minspect.ScopeResult at the public
// boundary (spec.md §6's "{scope, nodes, maybePositionIdentifier,
// maybeInvokeExpression}"), re-exporting its field types directly since
// minspect.ScopeMap/ContextualNode/InvokeContext are already read-only
// views safe to hand to a caller.
type InspectionResult struct {
	Scope                 *minspect.ScopeMap
	Nodes                 []minspect.ContextualNode
	PositionIdentifier    string
	HasPositionIdentifier bool
	Invoke                minspect.InvokeContext
	HasInvoke             bool
}

// InferType derives the structural type of the XOR node at id within
// outcome's arena (spec.md §4.6), memoizing into cache. Pass a fresh
// *TypeCache per top-level inspection request, or reuse one across calls
// against the same arena to carry forward GivenTypeById seeds.
func InferType(outcome *ParseOutcome, id NodeId, cache *TypeCache) InferredType {
	return minspect.InferType(outcome.Arena, outcome.Snapshot, id, cache)
}

// TypeCache and InferredType are re-exported from internal/minspect so
// callers never import it directly (spec.md §4.6).
type TypeCache = minspect.TypeCache
type InferredType = minspect.InferredType
type TypeKind = minspect.TypeKind

// NewTypeCache returns a fresh, empty TypeCache.
func NewTypeCache() *TypeCache { return minspect.NewTypeCache() }
