package mformula

import (
	"github.com/halvorsen/mformula/internal/mlex"
	"github.com/halvorsen/mformula/internal/mparse"
)

// ParserKind selects which grammar-production engine TryLexAndParse uses
// to read binary-operator expressions (spec.md §6, §4.3 "Combinator
// variants"). Both engines are required to produce byte-identical ASTs
// for identical input; the choice between them is a performance knob, not
// a behavioral one.
type ParserKind uint8

const (
	// CombinatorialParser fuses every operator-precedence level into one
	// left-associative loop (internal/mparse.Combinatorial).
	CombinatorialParser ParserKind = iota
	// RecursiveDescentParser reads each precedence level as its own named
	// production (internal/mparse.RecursiveDescent).
	RecursiveDescentParser
)

func (k ParserKind) engineKind() mparse.Kind {
	if k == RecursiveDescentParser {
		return mparse.RecursiveDescent
	}
	return mparse.Combinatorial
}

// CancellationToken is consulted at production boundaries during parsing
// (spec.md §5); a nil token never cancels. Re-exported from internal/mparse
// so callers configuring Settings never need to import it directly.
type CancellationToken = mparse.CancellationToken

// StateFactory optionally supplies a pre-built lexer state to parse from
// instead of lexing text fresh, the hook spec.md §6 names as
// "newParserState?: factory" — used by an embedder that has already applied
// incremental edits to a mlex.State via AppendLine/TryUpdateLine/
// TryUpdateRange and wants TryLexAndParse to snapshot and parse that state
// rather than re-lexing the reconstructed text from scratch.
type StateFactory func() *mlex.State

// Settings is the input configuration record named in spec.md §6: locale
// for message lookup, which grammar engine to run, an optional
// cancellation hook, and an optional incremental-state factory. The zero
// value is a usable default: en-US locale, the combinatorial engine, no
// cancellation, no pre-built state.
type Settings struct {
	// Locale is a BCP-47 tag used to key LocaleLookup. Defaults to
	// "en-US" when empty.
	Locale string
	// Parser selects the grammar engine (default CombinatorialParser).
	Parser ParserKind
	// CancellationToken, if non-nil, is polled at production boundaries.
	CancellationToken CancellationToken
	// NewParserState, if non-nil, supplies the lexer state to snapshot
	// and parse instead of lexing Settings-caller-supplied text fresh.
	NewParserState StateFactory
	// Lookup overrides the built-in en-US message table (spec.md §7
	// "User-visible failure ... keyed by settings.locale"). Nil uses
	// DefaultLocaleLookup.
	Lookup LocaleLookup
}

func (s Settings) locale() string {
	if s.Locale == "" {
		return "en-US"
	}
	return s.Locale
}

func (s Settings) lookup() LocaleLookup {
	if s.Lookup != nil {
		return s.Lookup
	}
	return DefaultLocaleLookup
}
