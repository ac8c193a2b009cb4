package mlex

import "unicode/utf8"

// tokenizeLine lexes a single line of text starting from incomingMode,
// returning the tokens produced, the mode to carry into the next line, and
// at most one line-isolated error (§4.1). lineNumber is stamped on every
// token's positions and on the error, if any; each position pairs it with a
// UTF-16 code-unit offset within the line.
func tokenizeLine(lineNumber int, text string, incomingMode LineMode) ([]Token, LineMode, *LexError) {
	s := newScanner(text)
	var tokens []Token
	mode := incomingMode

	// A line can begin already inside a multi-line form; finish that form
	// (or carry it through to the next line) before resuming normal
	// tokenization.
	switch mode {
	case InsideBlockComment:
		tok, closed := continueBlockComment(s)
		tokens = append(tokens, positioned(lineNumber, 0, tok.Kind, text, 0, s.cursor))
		if closed {
			mode = Default
		} else {
			return tokens, mode, nil
		}
	case InsideQuotedIdentifier:
		tok, closed := continueQuoted(s, QuotedIdentifierContent, QuotedIdentifierEnd, '"')
		tokens = append(tokens, positioned(lineNumber, 0, tok.Kind, text, 0, s.cursor))
		if closed {
			mode = Default
		} else {
			return tokens, mode, nil
		}
	case InsideString:
		tok, closed := continueQuoted(s, StringContent, StringEnd, '"')
		tokens = append(tokens, positioned(lineNumber, 0, tok.Kind, text, 0, s.cursor))
		if closed {
			mode = Default
		} else {
			return tokens, mode, nil
		}
	}

	for !s.done() {
		startByte := s.cursor
		startUnits := utf16Units(text[:startByte])
		c := s.eat()

		var kind TokenKind
		var err *LexError
		switch {
		case c == ' ' || c == '\t':
			continue
		case c == '/' && s.eatIf('/'):
			s.eatWhile(func(r rune) bool { return true })
			kind = Comment
		case c == '/' && s.eatIf('*'):
			// Opens a block comment; try to close it on the same line.
			node, closed := scanBlockCommentOpen(s, startByte)
			tokens = append(tokens, positioned(lineNumber, startUnits, node, text, startByte, s.cursor))
			if !closed {
				return tokens, InsideBlockComment, nil
			}
			continue
		case c == '#' && s.eatIf('"'):
			node, closed := scanQuotedOpen(s, QuotedIdentifierStart)
			tokens = append(tokens, positioned(lineNumber, startUnits, node, text, startByte, s.cursor))
			if !closed {
				return tokens, InsideQuotedIdentifier, nil
			}
			continue
		case c == '"':
			node, closed := scanQuotedOpen(s, StringStart)
			tokens = append(tokens, positioned(lineNumber, startUnits, node, text, startByte, s.cursor))
			if !closed {
				return tokens, InsideString, nil
			}
			continue
		case c == '#':
			kind, err = lexHashKeyword(s, startByte, lineNumber)
		case IsIDStart(c):
			s.eatWhile(IsIDContinue)
			word := s.from(startByte)
			if kw, ok := LookupKeyword(word); ok {
				kind = kw
			} else {
				kind = Identifier
			}
		case IsDigit(c) || (c == '.' && s.atRune(IsDigit)):
			kind = lexNumeric(s, c)
		default:
			kind, err = lexPunctuation(s, c)
			if kind == End && err == nil {
				err = &LexError{
					LineNumber: lineNumber,
					Kind:       UnexpectedRead,
					Message:    "unexpected character " + describeChar(c),
					ColumnHint: utf8.RuneCountInString(text[:startByte]),
				}
			}
		}

		if err != nil {
			return tokens, mode, err
		}

		tok := Token{
			Kind: kind,
			Data: text[startByte:s.cursor],
			PositionStart: Position{LineNumber: lineNumber, LineCodeUnit: startUnits},
			PositionEnd:   Position{LineNumber: lineNumber, LineCodeUnit: utf16Units(text[:s.cursor])},
		}
		tokens = append(tokens, tok)
	}

	return tokens, mode, nil
}

func positioned(lineNumber, startUnits int, kind TokenKind, text string, startByte, endByte int) Token {
	return Token{
		Kind:          kind,
		Data:          text[startByte:endByte],
		PositionStart: Position{LineNumber: lineNumber, LineCodeUnit: startUnits},
		PositionEnd:   Position{LineNumber: lineNumber, LineCodeUnit: utf16Units(text[:endByte])},
	}
}

// scanBlockCommentOpen scans from just after "/*" looking for "*/" on the
// same line (block comments do not nest, §6). Returns the marker kind to
// use and whether the form closed on this line.
func scanBlockCommentOpen(s *scanner, startByte int) (TokenKind, bool) {
	for !s.done() {
		if s.eatIfStr("*/") {
			return BlockCommentEnd, true
		}
		s.eat()
	}
	return BlockCommentStart, false
}

func continueBlockComment(s *scanner) (Token, bool) {
	start := s.cursor
	for !s.done() {
		if s.eatIfStr("*/") {
			return Token{Kind: BlockCommentEnd, Data: s.from(start)}, true
		}
		s.eat()
	}
	return Token{Kind: BlockCommentContent, Data: s.from(start)}, false
}

// scanQuotedOpen scans a #"..." or "..." body starting just after the
// opening quote, honoring the "" escape (§6). Returns whether it closed.
func scanQuotedOpen(s *scanner, openKind TokenKind) (TokenKind, bool) {
	for !s.done() {
		c := s.eat()
		if c == '"' {
			if s.eatIf('"') {
				continue // escaped quote
			}
			return closingKindFor(openKind), true
		}
	}
	return openKind, false
}

func closingKindFor(openKind TokenKind) TokenKind {
	if openKind == QuotedIdentifierStart {
		return QuotedIdentifier
	}
	return TextLiteral
}

func continueQuoted(s *scanner, contentKind, endKind TokenKind, quote rune) (Token, bool) {
	start := s.cursor
	for !s.done() {
		c := s.eat()
		if c == quote {
			if s.eatIf(quote) {
				continue
			}
			return Token{Kind: endKind, Data: s.from(start)}, true
		}
	}
	return Token{Kind: contentKind, Data: s.from(start)}, false
}

func lexHashKeyword(s *scanner, startByte int, lineNumber int) (TokenKind, *LexError) {
	s.eatWhile(IsIDContinue)
	word := s.from(startByte)
	if kw, ok := LookupHashKeyword(word); ok {
		return kw, nil
	}
	return End, &LexError{
		LineNumber: lineNumber,
		Kind:       UnexpectedRead,
		Message:    "unrecognized hash-keyword " + word,
	}
}

func lexNumeric(s *scanner, first rune) TokenKind {
	if first == '0' {
		if s.eatIf('x') || s.eatIf('X') {
			s.eatWhile(IsHexDigit)
			return Numeric
		}
	}
	s.eatWhile(IsDigit)
	if s.atRune(func(r rune) bool { return r == '.' }) {
		// Only consume the dot as a decimal point if a digit follows it.
		save := s.cursor
		s.eat()
		if s.atRune(IsDigit) {
			s.eatWhile(IsDigit)
		} else {
			s.cursor = save
		}
	}
	if s.atRune(func(r rune) bool { return r == 'e' || r == 'E' }) {
		save := s.cursor
		s.eat()
		s.eatIf('+')
		s.eatIf('-')
		if s.atRune(IsDigit) {
			s.eatWhile(IsDigit)
		} else {
			s.cursor = save
		}
	}
	return Numeric
}

func lexPunctuation(s *scanner, c rune) (TokenKind, *LexError) {
	switch c {
	case '(':
		return LeftParen, nil
	case ')':
		return RightParen, nil
	case '[':
		return LeftBracket, nil
	case ']':
		return RightBracket, nil
	case '{':
		return LeftBrace, nil
	case '}':
		return RightBrace, nil
	case ',':
		return Comma, nil
	case ';':
		return Semicolon, nil
	case ':':
		return Colon, nil
	case '@':
		return At, nil
	case '?':
		if s.eatIf('?') {
			return QuestionQuestion, nil
		}
		return Question, nil
	case '=':
		if s.eatIf('>') {
			return FatArrow, nil
		}
		return Equal, nil
	case '<':
		if s.eatIf('>') {
			return NotEqual, nil
		}
		if s.eatIf('=') {
			return LessThanEqual, nil
		}
		return LessThan, nil
	case '>':
		if s.eatIf('=') {
			return GreaterThanEqual, nil
		}
		return GreaterThan, nil
	case '+':
		return Plus, nil
	case '-':
		return Minus, nil
	case '*':
		return Asterisk, nil
	case '/':
		return Division, nil
	case '&':
		return Ampersand, nil
	case '.':
		if s.eatIfStr("..") {
			return Ellipsis, nil
		}
		if s.eatIf('.') {
			return DotDot, nil
		}
		return Dot, nil
	}
	return End, nil
}

// utf16Units counts the UTF-16 code units that text would occupy, matching
// the wire format's lineCodeUnit (§6).
func utf16Units(text string) int {
	count := 0
	for _, r := range text {
		if r > 0xFFFF {
			count += 2
		} else {
			count++
		}
	}
	return count
}
