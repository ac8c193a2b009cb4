package mparse

import (
	"github.com/halvorsen/mformula/internal/marena"
	"github.com/halvorsen/mformula/internal/mlex"
)

// Result is what a parse attempt leaves behind regardless of whether it
// succeeded (§6 "ParseError carries the partial contextState"): the node
// arena and its leaf ids are always populated so tooling can inspect a
// failed parse's partial tree; RootId/HasRoot are only meaningful when the
// parse succeeded.
type Result struct {
	Arena       *marena.Arena
	LeafNodeIds []marena.NodeId
	RootId      marena.NodeId
	HasRoot     bool
}

// Parse runs readDocument over snap using the given engine Kind and
// optional cancellation hook, returning a Result (always) and an error
// (nil on success). A successful parse additionally requires that every
// token up to the terminal End token was consumed; leftover tokens raise
// UnusedTokensRemainError (§4.3) rather than being silently ignored.
func Parse(snap *mlex.Snapshot, kind Kind, cancel CancellationToken) (*Result, error) {
	p := NewParserState(snap, kind, cancel)

	rootId, err := readDocument(p)
	if err == nil && !p.IsOnTokenKind(mlex.End) {
		err = newUnusedTokensRemain(p)
	}

	result := &Result{Arena: p.Arena, LeafNodeIds: p.Arena.LeafNodeIds()}
	if err == nil {
		result.RootId = rootId
		result.HasRoot = true
	}
	return result, err
}
