package mformula

import "fmt"

// LocaleLookup is the injectable message-template lookup named in spec.md
// §1/§7 as an external collaborator: "localization template loading ...
// accessed through a pure lookup". key identifies which template to use
// (one per error kind, see the keys below); args are interpolated into it.
// Grounded on the teacher's SyntaxKind.Name() (syntax/kind.go): a pure,
// side-effect-free lookup from a closed key set to a human string, the
// same shape generalized to take a locale and format arguments.
type LocaleLookup func(locale string, key string, args ...any) string

// Message-template keys, one per error kind in spec.md §7's taxonomy.
const (
	KeyLexUnexpectedRead      = "lex.unexpectedRead"
	KeyLexUnexpectedEof       = "lex.unexpectedEof"
	KeyLexBadLineTerminator   = "lex.badLineTerminator"
	KeyLexBadRange            = "lex.badRange"
	KeyUnterminatedString     = "multiline.unterminatedString"
	KeyUnterminatedQuotedId   = "multiline.unterminatedQuotedIdentifier"
	KeyUnterminatedBlockCmt   = "multiline.unterminatedBlockComment"
	KeyExpectedTokenKind      = "parse.expectedTokenKind"
	KeyExpectedAnyTokenKind   = "parse.expectedAnyTokenKind"
	KeyExpectedCsvLet         = "parse.expectedCsvContinuation.letExpression"
	KeyExpectedCsvDangling    = "parse.expectedCsvContinuation.danglingComma"
	KeyUnterminatedParens     = "parse.unterminatedParentheses"
	KeyUnterminatedBracket    = "parse.unterminatedBracket"
	KeyUnusedTokensRemain     = "parse.unusedTokensRemain"
	KeyInvalidPrimitiveType   = "parse.invalidPrimitiveType"
	KeyCancellation           = "runtime.cancellation"
	KeyInvariant              = "runtime.invariant"
)

// enUSTemplates is the built-in default table (spec.md §10 "a built-in
// en-US default table covering every error kind in §7"). %v placeholders
// are filled positionally by fmt.Sprintf via DefaultLocaleLookup.
var enUSTemplates = map[string]string{
	KeyLexUnexpectedRead:    "unexpected character %v at line %v",
	KeyLexUnexpectedEof:     "unexpected end of input at line %v",
	KeyLexBadLineTerminator: "invalid line terminator at line %v",
	KeyLexBadRange:          "edit range out of bounds at line %v",
	KeyUnterminatedString:   "unterminated string literal starting at line %v",
	KeyUnterminatedQuotedId: "unterminated quoted identifier starting at line %v",
	KeyUnterminatedBlockCmt: "unterminated block comment starting at line %v",
	KeyExpectedTokenKind:    "expected %v, found %v",
	KeyExpectedAnyTokenKind: "unexpected %v",
	KeyExpectedCsvLet:       "expected another let-expression binding after ','",
	KeyExpectedCsvDangling:  "dangling ',' with no following value",
	KeyUnterminatedParens:   "unterminated '('",
	KeyUnterminatedBracket:  "unterminated '%v'",
	KeyUnusedTokensRemain:   "unused tokens remain after a complete parse, starting with %v",
	KeyInvalidPrimitiveType: "invalid primitive type name %v",
	KeyCancellation:         "parse cancelled",
	KeyInvariant:            "internal invariant violated: %v",
}

// DefaultLocaleLookup is the library's built-in en-US-only implementation
// of LocaleLookup. Any other locale falls back to the same en-US template,
// since no other locale's table ships with the library (an embedder
// supplies its own LocaleLookup via Settings.Lookup for real localization).
func DefaultLocaleLookup(locale string, key string, args ...any) string {
	template, ok := enUSTemplates[key]
	if !ok {
		return key
	}
	if len(args) == 0 {
		return template
	}
	return fmt.Sprintf(template, args...)
}
