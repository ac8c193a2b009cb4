package mlex

// TokenKindSet is a set of token kinds implemented as a bitset, used by the
// parser's token-predicate helpers (component G) to test "is the current
// token one of these". Grounded on the teacher's SyntaxSet (syntax/set.go),
// itself based on rust-analyzer's TokenSet.
type TokenKindSet struct {
	lo uint64 // bits 0-63
	hi uint64 // bits 64-127
}

const maxSetBit = 128

// TokenKindSetOf creates a set containing the given kinds.
func TokenKindSetOf(kinds ...TokenKind) TokenKindSet {
	s := TokenKindSet{}
	for _, k := range kinds {
		s = s.Add(k)
	}
	return s
}

// Add inserts a token kind into the set and returns the new set. Panics if
// the kind's discriminator is >= 128.
func (s TokenKindSet) Add(kind TokenKind) TokenKindSet {
	if int(kind) >= maxSetBit {
		panic("TokenKindSet.Add: kind discriminator must be < 128")
	}
	if kind < 64 {
		s.lo |= 1 << kind
	} else {
		s.hi |= 1 << (kind - 64)
	}
	return s
}

// Contains returns true if the set contains the given token kind.
func (s TokenKindSet) Contains(kind TokenKind) bool {
	if int(kind) >= maxSetBit {
		return false
	}
	if kind < 64 {
		return (s.lo & (1 << kind)) != 0
	}
	return (s.hi & (1 << (kind - 64))) != 0
}

// BinaryOperatorKinds is the set of token kinds that begin a binary
// operator production in the M grammar (arithmetic, relational, logical,
// metadata, and concatenation operators), used by the expression-precedence
// parser (component H).
var BinaryOperatorKinds = TokenKindSetOf(
	KeywordAnd, KeywordOr, KeywordAs, KeywordIs, KeywordMeta,
	Equal, NotEqual, LessThan, LessThanEqual, GreaterThan, GreaterThanEqual,
	Plus, Minus, Asterisk, Division, Ampersand,
)

// ConstantLiteralKinds is the set of token kinds that are themselves
// complete primary-expression literals (component H, "isOnConstantKind").
var ConstantLiteralKinds = TokenKindSetOf(
	KeywordTrue, KeywordFalse, KeywordHashInfinity, KeywordHashNan,
	Numeric, TextLiteral,
)

// PrimitiveTypeKeywordKinds are the hash-keywords that may also appear as
// primitive type names inside a type expression (component H).
var PrimitiveTypeKeywordKinds = TokenKindSetOf(
	KeywordHashBinary, KeywordHashDate, KeywordHashDateTime,
	KeywordHashDateTimeZone, KeywordHashDuration, KeywordHashTable,
	KeywordHashTime,
)
