package mlex

// LineMode is the lexer mode threaded across lines (§3 "kindAtStart/End").
// It identifies which multi-line form, if any, is open at a line boundary.
type LineMode uint8

const (
	// Default is the ordinary top-level lexing mode.
	Default LineMode = iota
	// InsideBlockComment means a /* ... */ comment is still open.
	InsideBlockComment
	// InsideQuotedIdentifier means a #"..." identifier is still open.
	InsideQuotedIdentifier
	// InsideString means a "..." literal is still open.
	InsideString
)

// LineTerminator identifies which terminator sequence ended a line, so the
// original bytes can be reconstructed exactly when re-assembling text.
type LineTerminator int

const (
	TerminatorNone LineTerminator = iota
	TerminatorCRLF
	TerminatorLF
	TerminatorCR
	TerminatorLS  // U+2028 LINE SEPARATOR
	TerminatorPS  // U+2029 PARAGRAPH SEPARATOR
	TerminatorVT  // U+000B
	TerminatorFF  // U+000C
	TerminatorNEL // U+0085 NEXT LINE
)

// String returns the literal bytes of the terminator.
func (t LineTerminator) String() string {
	switch t {
	case TerminatorCRLF:
		return "\r\n"
	case TerminatorLF:
		return "\n"
	case TerminatorCR:
		return "\r"
	case TerminatorLS:
		return " "
	case TerminatorPS:
		return " "
	case TerminatorVT:
		return "\x0B"
	case TerminatorFF:
		return "\x0C"
	case TerminatorNEL:
		return ""
	}
	return ""
}

// LexError is a line-isolated lexical error (§4.1, §7 "Lexical, per-line").
// Line-level errors never fail stateFrom; they are captured per line and
// surfaced in aggregate via ErrorLineMap.
type LexError struct {
	LineNumber int
	Kind       LexErrorKind
	Message    string
	ColumnHint int
}

func (e *LexError) Error() string { return e.Message }

// LexErrorKind enumerates the per-line lexical error kinds from §7.
type LexErrorKind uint8

const (
	UnexpectedRead LexErrorKind = iota
	UnexpectedEof
	BadLineTerminator
	BadRange
)

// Line is one line of the document together with its tokenization result
// (§3). Invariant: for adjacent lines, lineN.KindAtEnd == lineN+1.KindAtStart.
type Line struct {
	KindAtStart    LineMode
	KindAtEnd      LineMode
	LineString     string
	LineTerminator LineTerminator
	Tokens         []Token
	MaybeError     *LexError
}
