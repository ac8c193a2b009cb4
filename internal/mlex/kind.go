// Package mlex implements the incremental, line-oriented lexer for the M
// formula language: single-line tokenization (component B), the ordered
// line sequence with per-line modes and edit operations (component C), and
// the snapshot step that fuses multi-line tokens into a flat stream
// (component D).
package mlex

// TokenKind is the closed enumeration a Token's kind is drawn from.
type TokenKind uint8

const (
	// End marks the end of the token stream. Always present as the final
	// token of a snapshot.
	End TokenKind = iota

	Identifier
	GeneralizedIdentifier
	QuotedIdentifier
	Numeric
	TextLiteral

	// Keywords.
	KeywordAnd
	KeywordAs
	KeywordEach
	KeywordElse
	KeywordError
	KeywordFalse
	KeywordIf
	KeywordIn
	KeywordIs
	KeywordLet
	KeywordMeta
	KeywordNot
	KeywordOr
	KeywordOtherwise
	KeywordSection
	KeywordShared
	KeywordThen
	KeywordTrue
	KeywordTry
	KeywordType

	// Hash-keywords.
	KeywordHashBinary
	KeywordHashDate
	KeywordHashDateTime
	KeywordHashDateTimeZone
	KeywordHashDuration
	KeywordHashInfinity
	KeywordHashNan
	KeywordHashSections
	KeywordHashShared
	KeywordHashTable
	KeywordHashTime

	// Punctuation.
	LeftParen
	RightParen
	LeftBracket
	RightBracket
	LeftBrace
	RightBrace
	Comma
	Semicolon
	Colon
	At
	Question
	QuestionQuestion
	Equal
	NotEqual
	LessThan
	LessThanEqual
	GreaterThan
	GreaterThanEqual
	Plus
	Minus
	Asterisk
	Division
	Ampersand
	DotDot
	Ellipsis
	FatArrow
	Dot
	Comment

	// Multi-line form markers. These never survive past LexerSnapshot.tryFrom
	// (component D): they are fused into a single QuotedIdentifier,
	// TextLiteral, or Comment token, or routed to the comments side-channel.
	// They exist only in Line.Tokens prior to snapshot.
	BlockCommentStart
	BlockCommentContent
	BlockCommentEnd
	QuotedIdentifierStart
	QuotedIdentifierContent
	QuotedIdentifierEnd
	StringStart
	StringContent
	StringEnd
)

// IsMultilineMarker reports whether k is one of the begin/content/end
// marker kinds fused away by the snapshot step (§4.2).
func (k TokenKind) IsMultilineMarker() bool {
	switch k {
	case BlockCommentStart, BlockCommentContent, BlockCommentEnd,
		QuotedIdentifierStart, QuotedIdentifierContent, QuotedIdentifierEnd,
		StringStart, StringContent, StringEnd:
		return true
	}
	return false
}

// isKeyword reports whether the kind is one of the bare-word keywords
// (as opposed to hash-keywords or punctuation).
func (k TokenKind) isKeyword() bool {
	switch k {
	case KeywordAnd, KeywordAs, KeywordEach, KeywordElse, KeywordError,
		KeywordFalse, KeywordIf, KeywordIn, KeywordIs, KeywordLet,
		KeywordMeta, KeywordNot, KeywordOr, KeywordOtherwise,
		KeywordSection, KeywordShared, KeywordThen, KeywordTrue,
		KeywordTry, KeywordType:
		return true
	}
	return false
}

// keywordKinds maps the bare-word keyword text to its TokenKind. Order does
// not matter; the map is immutable after init.
var keywordKinds = map[string]TokenKind{
	"and":        KeywordAnd,
	"as":         KeywordAs,
	"each":       KeywordEach,
	"else":       KeywordElse,
	"error":      KeywordError,
	"false":      KeywordFalse,
	"if":         KeywordIf,
	"in":         KeywordIn,
	"is":         KeywordIs,
	"let":        KeywordLet,
	"meta":       KeywordMeta,
	"not":        KeywordNot,
	"or":         KeywordOr,
	"otherwise":  KeywordOtherwise,
	"section":    KeywordSection,
	"shared":     KeywordShared,
	"then":       KeywordThen,
	"true":       KeywordTrue,
	"try":        KeywordTry,
	"type":       KeywordType,
}

var hashKeywordKinds = map[string]TokenKind{
	"#binary":        KeywordHashBinary,
	"#date":          KeywordHashDate,
	"#datetime":      KeywordHashDateTime,
	"#datetimezone":  KeywordHashDateTimeZone,
	"#duration":      KeywordHashDuration,
	"#infinity":      KeywordHashInfinity,
	"#nan":           KeywordHashNan,
	"#sections":      KeywordHashSections,
	"#shared":        KeywordHashShared,
	"#table":         KeywordHashTable,
	"#time":          KeywordHashTime,
}

// LookupKeyword returns the TokenKind for a bare identifier-shaped word if
// it is one of the M keywords, plus whether the lookup succeeded.
func LookupKeyword(text string) (TokenKind, bool) {
	k, ok := keywordKinds[text]
	return k, ok
}

// LookupHashKeyword returns the TokenKind for a `#word` form if it is one
// of the recognized hash-keywords.
func LookupHashKeyword(text string) (TokenKind, bool) {
	k, ok := hashKeywordKinds[text]
	return k, ok
}

// generalizedIdentifierStartKinds are the keyword kinds that may open a
// generalized identifier (spec.md §6): plain keywords only, not the
// hash-keywords (those always start a distinct literal form).
var generalizedIdentifierStartKinds = map[TokenKind]bool{
	KeywordAnd: true, KeywordAs: true, KeywordEach: true, KeywordElse: true,
	KeywordError: true, KeywordFalse: true, KeywordIf: true, KeywordIn: true,
	KeywordIs: true, KeywordLet: true, KeywordMeta: true, KeywordNot: true,
	KeywordOr: true, KeywordOtherwise: true, KeywordSection: true,
	KeywordShared: true, KeywordThen: true, KeywordTrue: true,
	KeywordTry: true, KeywordType: true,
}

// IsGeneralizedIdentifierStart reports whether a token of this kind may
// open a generalized identifier.
func IsGeneralizedIdentifierStart(k TokenKind) bool {
	return k == Identifier || generalizedIdentifierStartKinds[k]
}

// Name returns a human-readable name for the kind, used in error messages
// produced by the parser (§4.3) and routed through the localization table.
func (k TokenKind) Name() string {
	switch k {
	case End:
		return "end of input"
	case Identifier:
		return "identifier"
	case GeneralizedIdentifier:
		return "generalized identifier"
	case QuotedIdentifier:
		return "quoted identifier"
	case Numeric:
		return "number"
	case TextLiteral:
		return "text literal"
	case LeftParen:
		return "'('"
	case RightParen:
		return "')'"
	case LeftBracket:
		return "'['"
	case RightBracket:
		return "']'"
	case LeftBrace:
		return "'{'"
	case RightBrace:
		return "'}'"
	case Comma:
		return "','"
	case Equal:
		return "'='"
	case FatArrow:
		return "'=>'"
	case Dot:
		return "'.'"
	}
	if k.isKeyword() {
		for text, kind := range keywordKinds {
			if kind == k {
				return "'" + text + "'"
			}
		}
	}
	return "token"
}

// CommentKind distinguishes line comments from block comments (§3).
type CommentKind uint8

const (
	LineCommentKind CommentKind = iota
	BlockCommentKind
)
