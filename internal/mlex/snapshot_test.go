package mlex

import "testing"

// TestTryFromUnterminatedBlockCommentFails is scenario S5: "/* open" lexes
// without any per-line error (it only opens a multi-line form), but the
// snapshot step must fail once it observes the form never closed.
func TestTryFromUnterminatedBlockCommentFails(t *testing.T) {
	state := StateFrom("/* open")
	if errs := state.ErrorLineMap(); len(errs) != 0 {
		t.Fatalf("expected no per-line errors, got %v", errs)
	}

	_, err := TryFrom(state)
	if err == nil {
		t.Fatal("expected TryFrom to fail on an unterminated block comment")
	}
	multiline, ok := err.(*MultilineError)
	if !ok {
		t.Fatalf("expected *MultilineError, got %T", err)
	}
	if multiline.Kind != UnterminatedBlockComment {
		t.Errorf("kind = %v, want UnterminatedBlockComment", multiline.Kind)
	}
	if multiline.LineNumber != 0 {
		t.Errorf("LineNumber = %d, want 0", multiline.LineNumber)
	}
}

func TestTryFromUnterminatedStringFails(t *testing.T) {
	state := StateFrom(`"open`)
	_, err := TryFrom(state)
	multiline, ok := err.(*MultilineError)
	if !ok {
		t.Fatalf("expected *MultilineError, got %T", err)
	}
	if multiline.Kind != UnterminatedString {
		t.Errorf("kind = %v, want UnterminatedString", multiline.Kind)
	}
}

func TestTryFromClosedBlockCommentRoutesToComments(t *testing.T) {
	state := StateFrom("/* hello */ 1")
	snap, err := TryFrom(state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Comments) != 1 {
		t.Fatalf("expected one comment, got %d", len(snap.Comments))
	}
	if snap.Comments[0].Kind != BlockCommentKind {
		t.Errorf("expected BlockCommentKind, got %v", snap.Comments[0].Kind)
	}
	// Numeric literal, then End.
	if len(snap.Tokens) != 2 || snap.Tokens[0].Kind != Numeric || snap.Tokens[1].Kind != End {
		t.Fatalf("unexpected tokens: %+v", snap.Tokens)
	}
}

func TestTryFromMultilineBlockCommentSpansLines(t *testing.T) {
	state := StateFrom("/* line one\nline two */ 1")
	snap, err := TryFrom(state)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Comments) != 1 {
		t.Fatalf("expected one fused comment, got %d", len(snap.Comments))
	}
	c := snap.Comments[0]
	if !c.ContainsNewline {
		t.Error("expected ContainsNewline to be true for a comment spanning two lines")
	}
	if c.PositionStart.LineNumber != 0 || c.PositionEnd.LineNumber != 1 {
		t.Errorf("expected comment to span line 0 to line 1, got %+v to %+v", c.PositionStart, c.PositionEnd)
	}
}

// TestTryFromIncrementalAppendThenCloseYieldsOneStringToken is scenario S6:
// appending an open string literal and then updating it closed converges to
// a single fused TextLiteral token in the resulting snapshot.
func TestTryFromIncrementalAppendThenCloseYieldsOneStringToken(t *testing.T) {
	s := &State{}
	s.AppendLine(`"a`, TerminatorNone)
	if err := s.TryUpdateLine(0, `"a"`); err != nil {
		t.Fatalf("unexpected update error: %v", err)
	}
	snap, err := TryFrom(s)
	if err != nil {
		t.Fatalf("unexpected snapshot error: %v", err)
	}
	if len(snap.Tokens) != 2 {
		t.Fatalf("expected [TextLiteral, End], got %+v", snap.Tokens)
	}
	if snap.Tokens[0].Kind != TextLiteral || snap.Tokens[0].Data != `"a"` {
		t.Errorf("unexpected first token: %+v", snap.Tokens[0])
	}
}

func TestTryFromEndTokenAlwaysLast(t *testing.T) {
	snap, err := TryFrom(StateFrom("1 + 2"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Tokens) == 0 || snap.Tokens[len(snap.Tokens)-1].Kind != End {
		t.Fatalf("expected the final token to be End, got %+v", snap.Tokens)
	}
}
