package mlex

import "testing"

func tokenKinds(tokens []Token) []TokenKind {
	kinds := make([]TokenKind, len(tokens))
	for i, t := range tokens {
		kinds[i] = t.Kind
	}
	return kinds
}

func TestTokenizeLineIdentifiersAndKeywords(t *testing.T) {
	tokens, mode, err := tokenizeLine(0, "let x = each x", Default)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mode != Default {
		t.Fatalf("expected mode to stay Default, got %v", mode)
	}
	got := tokenKinds(tokens)
	want := []TokenKind{KeywordLet, Identifier, Equal, KeywordEach, Identifier}
	if len(got) != len(want) {
		t.Fatalf("token count mismatch: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestTokenizeLineNumeric(t *testing.T) {
	cases := []string{"1", "1.5", "0x1F", ".5", "1e10", "1.5e-3"}
	for _, text := range cases {
		tokens, _, err := tokenizeLine(0, text, Default)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", text, err)
		}
		if len(tokens) != 1 || tokens[0].Kind != Numeric {
			t.Fatalf("%q: expected one Numeric token, got %+v", text, tokens)
		}
		if tokens[0].Data != text {
			t.Errorf("%q: data = %q", text, tokens[0].Data)
		}
	}
}

func TestTokenizeLineStringLiteralClosedSameLine(t *testing.T) {
	tokens, mode, err := tokenizeLine(0, `"hello ""world"""`, Default)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mode != Default {
		t.Fatalf("expected Default mode, got %v", mode)
	}
	if len(tokens) != 1 || tokens[0].Kind != TextLiteral {
		t.Fatalf("expected a single TextLiteral token, got %+v", tokens)
	}
}

func TestTokenizeLineStringLiteralUnterminated(t *testing.T) {
	tokens, mode, err := tokenizeLine(0, `"open`, Default)
	if err != nil {
		t.Fatalf("unexpected line-level error: %v", err)
	}
	if mode != InsideString {
		t.Fatalf("expected InsideString, got %v", mode)
	}
	if len(tokens) != 1 || tokens[0].Kind != StringStart {
		t.Fatalf("expected a StringStart marker, got %+v", tokens)
	}
}

func TestTokenizeLineQuotedIdentifier(t *testing.T) {
	tokens, mode, err := tokenizeLine(0, `#"my identifier"`, Default)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mode != Default {
		t.Fatalf("expected Default mode, got %v", mode)
	}
	if len(tokens) != 1 || tokens[0].Kind != QuotedIdentifier {
		t.Fatalf("expected a single QuotedIdentifier token, got %+v", tokens)
	}
}

func TestTokenizeLineBlockCommentSameLine(t *testing.T) {
	tokens, mode, err := tokenizeLine(0, "/* comment */ 1", Default)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mode != Default {
		t.Fatalf("expected Default mode, got %v", mode)
	}
	if len(tokens) != 2 || tokens[0].Kind != BlockCommentEnd || tokens[1].Kind != Numeric {
		t.Fatalf("unexpected tokens: %+v", tokens)
	}
}

func TestTokenizeLineBlockCommentOpen(t *testing.T) {
	tokens, mode, err := tokenizeLine(0, "/* open", Default)
	if err != nil {
		t.Fatalf("unexpected line-level error: %v", err)
	}
	if mode != InsideBlockComment {
		t.Fatalf("expected InsideBlockComment, got %v", mode)
	}
	if len(tokens) != 1 || tokens[0].Kind != BlockCommentStart {
		t.Fatalf("expected a BlockCommentStart marker, got %+v", tokens)
	}
}

func TestTokenizeLineLineComment(t *testing.T) {
	tokens, _, err := tokenizeLine(0, "1 // trailing note", Default)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 2 || tokens[0].Kind != Numeric || tokens[1].Kind != Comment {
		t.Fatalf("unexpected tokens: %+v", tokens)
	}
}

func TestTokenizeLineUnexpectedCharacter(t *testing.T) {
	_, _, err := tokenizeLine(0, "1 $ 2", Default)
	if err == nil {
		t.Fatal("expected an UnexpectedRead error")
	}
	if err.Kind != UnexpectedRead {
		t.Errorf("kind = %v, want UnexpectedRead", err.Kind)
	}
}

func TestTokenizePunctuation(t *testing.T) {
	tokens, _, err := tokenizeLine(0, "<= >= <> => ?? .. ...", Default)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []TokenKind{LessThanEqual, GreaterThanEqual, NotEqual, FatArrow, QuestionQuestion, DotDot, Ellipsis}
	got := tokenKinds(tokens)
	if len(got) != len(want) {
		t.Fatalf("token count mismatch: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v want %v", i, got[i], want[i])
		}
	}
}
