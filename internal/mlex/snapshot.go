package mlex

// Snapshot is the immutable, multi-line-token-fused view of a lexer state
// suitable for parsing (§3, component D).
type Snapshot struct {
	Tokens          []Token
	Comments        []Comment
	tokenLineStarts []Position // PositionStart of each token, for grapheme lookups later.
}

// MultilineErrorKind enumerates the ways a snapshot can fail (§4.2, §7).
type MultilineErrorKind uint8

const (
	UnterminatedBlockComment MultilineErrorKind = iota
	UnterminatedQuotedIdentifier
	UnterminatedString
)

// MultilineError fails LexerSnapshot.tryFrom (§4.2).
type MultilineError struct {
	Kind       MultilineErrorKind
	LineNumber int
	Message    string
}

func (e *MultilineError) Error() string { return e.Message }

// TryFrom fuses a State's per-line tokens into a flat Snapshot. Adjacent
// *Start + zero-or-more *Content + *End token runs are merged into a
// single token inheriting PositionStart from the begin token and
// PositionEnd from the end token, with Data equal to the concatenated raw,
// unescaped covered text. Line comments and closed block comments are
// routed to Comments, not Tokens (§4.2).
func TryFrom(state *State) (*Snapshot, error) {
	snap := &Snapshot{}

	var pending *pendingMultiline

	for lineNumber, line := range state.Lines {
		for _, tok := range line.Tokens {
			switch {
			case tok.Kind == BlockCommentStart || tok.Kind == QuotedIdentifierStart || tok.Kind == StringStart:
				pending = &pendingMultiline{
					kind:  tok.Kind,
					start: tok.PositionStart,
					data:  tok.Data,
				}
			case tok.Kind == BlockCommentContent || tok.Kind == QuotedIdentifierContent || tok.Kind == StringContent:
				if pending == nil {
					return nil, &MultilineError{
						LineNumber: lineNumber,
						Message:    "content token with no open multi-line form",
					}
				}
				pending.data += state.Lines[lineNumber-1].LineTerminator.String() + tok.Data
			case tok.Kind == BlockCommentEnd && pending == nil:
				// Opened and closed within a single tokenizeLine call: the
				// token's Data already covers "/*...*/" in full, so it needs
				// no fusion with a preceding Start.
				snap.Comments = append(snap.Comments, Comment{
					Kind:          BlockCommentKind,
					Data:          tok.Data,
					PositionStart: tok.PositionStart,
					PositionEnd:   tok.PositionEnd,
				})
			case tok.Kind == BlockCommentEnd || tok.Kind == QuotedIdentifierEnd || tok.Kind == StringEnd:
				if pending == nil {
					return nil, &MultilineError{
						LineNumber: lineNumber,
						Message:    "closing token with no open multi-line form",
					}
				}
				pending.data += state.Lines[lineNumber-1].LineTerminator.String() + tok.Data
				fused := fuseClosed(pending, tok.PositionEnd)
				pending = nil
				if fused.isComment {
					snap.Comments = append(snap.Comments, Comment{
						Kind:            BlockCommentKind,
						Data:            fused.data,
						PositionStart:   fused.start,
						PositionEnd:     fused.end,
						ContainsNewline: fused.start.LineNumber != fused.end.LineNumber,
					})
				} else {
					snap.Tokens = append(snap.Tokens, Token{
						Kind:          fused.kind,
						Data:          fused.data,
						PositionStart: fused.start,
						PositionEnd:   fused.end,
					})
					snap.tokenLineStarts = append(snap.tokenLineStarts, fused.start)
				}
			case tok.Kind == Comment:
				snap.Comments = append(snap.Comments, Comment{
					Kind:            LineCommentKind,
					Data:            tok.Data,
					PositionStart:   tok.PositionStart,
					PositionEnd:     tok.PositionEnd,
					ContainsNewline: false,
				})
			default:
				snap.Tokens = append(snap.Tokens, tok)
				snap.tokenLineStarts = append(snap.tokenLineStarts, tok.PositionStart)
			}
		}
	}

	if pending != nil {
		return nil, &MultilineError{
			Kind:       kindForPending(pending.kind),
			LineNumber: pending.start.LineNumber,
			Message:    unterminatedMessage(pending.kind),
		}
	}

	lastLine := len(state.Lines) - 1
	lastCol := 0
	if lastLine >= 0 {
		lastCol = utf16Units(state.Lines[lastLine].LineString)
	}
	endPos := Position{LineNumber: max(lastLine, 0), LineCodeUnit: lastCol}
	snap.Tokens = append(snap.Tokens, Token{Kind: End, PositionStart: endPos, PositionEnd: endPos})
	snap.tokenLineStarts = append(snap.tokenLineStarts, endPos)

	return snap, nil
}

type pendingMultiline struct {
	kind  TokenKind
	start Position
	data  string
}

type fusedForm struct {
	kind      TokenKind
	data      string
	start     Position
	end       Position
	isComment bool
}

func fuseClosed(p *pendingMultiline, end Position) fusedForm {
	switch p.kind {
	case BlockCommentStart:
		return fusedForm{data: p.data, start: p.start, end: end, isComment: true}
	case QuotedIdentifierStart:
		return fusedForm{kind: QuotedIdentifier, data: p.data, start: p.start, end: end}
	default: // StringStart
		return fusedForm{kind: TextLiteral, data: p.data, start: p.start, end: end}
	}
}

func kindForPending(k TokenKind) MultilineErrorKind {
	switch k {
	case BlockCommentStart:
		return UnterminatedBlockComment
	case QuotedIdentifierStart:
		return UnterminatedQuotedIdentifier
	default:
		return UnterminatedString
	}
}

func unterminatedMessage(k TokenKind) string {
	switch k {
	case BlockCommentStart:
		return "unterminated block comment"
	case QuotedIdentifierStart:
		return "unterminated quoted identifier"
	default:
		return "unterminated string literal"
	}
}

// LineStartOf returns the (line, codeUnit) position the token at tokenIndex
// began at, used by the type/position inspectors to recover grapheme
// columns without re-scanning the whole document.
func (s *Snapshot) LineStartOf(tokenIndex int) Position {
	return s.tokenLineStarts[tokenIndex]
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
