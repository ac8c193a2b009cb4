package mlex

import "strings"

// State is the ordered sequence of lines threading a lexer mode across line
// boundaries (§3 "Lexer state", component C). A purely empty document is
// represented as one empty Line with default modes, never as zero lines.
type State struct {
	Lines []Line
}

// splitLines splits text on the auto-detected line terminator set from
// spec.md §6, returning each line's content (terminator stripped) and
// which terminator ended it (TerminatorNone for the final, unterminated
// line).
func splitLines(text string) ([]string, []LineTerminator) {
	var contents []string
	var terms []LineTerminator

	lineStart := 0
	i := 0
	for i < len(text) {
		c := text[i]
		var term LineTerminator
		var width int
		switch {
		case c == '\r' && i+1 < len(text) && text[i+1] == '\n':
			term, width = TerminatorCRLF, 2
		case c == '\n':
			term, width = TerminatorLF, 1
		case c == '\r':
			term, width = TerminatorCR, 1
		case c == '\x0B':
			term, width = TerminatorVT, 1
		case c == '\x0C':
			term, width = TerminatorFF, 1
		case strHasPrefixAt(text, i, TerminatorNEL.String()):
			term, width = TerminatorNEL, len(TerminatorNEL.String())
		case strHasPrefixAt(text, i, TerminatorLS.String()):
			term, width = TerminatorLS, len(TerminatorLS.String())
		case strHasPrefixAt(text, i, TerminatorPS.String()):
			term, width = TerminatorPS, len(TerminatorPS.String())
		default:
			i++
			continue
		}
		contents = append(contents, text[lineStart:i])
		terms = append(terms, term)
		i += width
		lineStart = i
	}
	contents = append(contents, text[lineStart:])
	terms = append(terms, TerminatorNone)

	return contents, terms
}

func strHasPrefixAt(text string, i int, prefix string) bool {
	if i+len(prefix) > len(text) {
		return false
	}
	return text[i:i+len(prefix)] == prefix
}

// StateFrom splits text into lines and tokenizes each in sequence,
// threading the end-mode of line i into the start-mode of line i+1 (§4.1).
func StateFrom(text string) *State {
	contents, terms := splitLines(text)
	lines := make([]Line, len(contents))
	mode := Default
	for i, content := range contents {
		tokens, outMode, lexErr := tokenizeLine(i, content, mode)
		lines[i] = Line{
			KindAtStart:    mode,
			KindAtEnd:      outMode,
			LineString:     content,
			LineTerminator: terms[i],
			Tokens:         tokens,
			MaybeError:     lexErr,
		}
		mode = outMode
	}
	return &State{Lines: lines}
}

// AppendLine appends one line of text, re-tokenizing from the prior line's
// end-mode (§4.1).
func (s *State) AppendLine(text string, terminator LineTerminator) {
	incoming := Default
	if n := len(s.Lines); n > 0 {
		incoming = s.Lines[n-1].KindAtEnd
	}
	tokens, outMode, lexErr := tokenizeLine(len(s.Lines), text, incoming)
	s.Lines = append(s.Lines, Line{
		KindAtStart:    incoming,
		KindAtEnd:      outMode,
		LineString:     text,
		LineTerminator: terminator,
		Tokens:         tokens,
		MaybeError:     lexErr,
	})
}

// EditError is a structured failure from an edit operation, carrying the
// offending line number (§4.1 "never throws").
type EditError struct {
	LineNumber int
	Kind       LexErrorKind
	Message    string
}

func (e *EditError) Error() string { return e.Message }

// TryUpdateLine replaces one line and re-tokenizes from that line forward,
// stopping as soon as the outgoing mode of a retokenized line matches the
// stored outgoing mode of the next line — the incremental optimization
// named in §4.1.
func (s *State) TryUpdateLine(lineNumber int, newText string) error {
	if lineNumber < 0 || lineNumber >= len(s.Lines) {
		return &EditError{LineNumber: lineNumber, Kind: BadRange, Message: "line number out of range"}
	}

	incoming := Default
	if lineNumber > 0 {
		incoming = s.Lines[lineNumber-1].KindAtEnd
	}

	i := lineNumber
	mode := incoming
	for i < len(s.Lines) {
		text := newText
		if i != lineNumber {
			text = s.Lines[i].LineString
		}
		tokens, outMode, lexErr := tokenizeLine(i, text, mode)
		prevOutMode := s.Lines[i].KindAtEnd
		s.Lines[i] = Line{
			KindAtStart:    mode,
			KindAtEnd:      outMode,
			LineString:     text,
			LineTerminator: s.Lines[i].LineTerminator,
			Tokens:         tokens,
			MaybeError:     lexErr,
		}

		// Reconverged: stop propagating further down the document.
		if i != lineNumber && outMode == prevOutMode {
			return nil
		}
		mode = outMode
		i++
	}
	return nil
}

// TryUpdateRange generalizes TryUpdateLine to a position range, by
// rewriting the affected whole lines and delegating to the line-level
// primitive (§4.1).
func (s *State) TryUpdateRange(startPos, endPos Position, newText string) error {
	if startPos.LineNumber < 0 || endPos.LineNumber >= len(s.Lines) || startPos.LineNumber > endPos.LineNumber {
		return &EditError{LineNumber: startPos.LineNumber, Kind: BadRange, Message: "range out of bounds"}
	}

	startLine := s.Lines[startPos.LineNumber].LineString
	endLine := s.Lines[endPos.LineNumber].LineString

	startByte := byteOffsetForCodeUnit(startLine, startPos.LineCodeUnit)
	endByte := byteOffsetForCodeUnit(endLine, endPos.LineCodeUnit)

	replaced := startLine[:startByte] + newText + endLine[endByte:]
	replacedLines, terms := splitLines(replaced)

	newLines := make([]Line, 0, len(s.Lines)-(endPos.LineNumber-startPos.LineNumber+1)+len(replacedLines))
	newLines = append(newLines, s.Lines[:startPos.LineNumber]...)

	incoming := Default
	if startPos.LineNumber > 0 {
		incoming = s.Lines[startPos.LineNumber-1].KindAtEnd
	}
	mode := incoming
	for idx, content := range replacedLines {
		term := terms[idx]
		if idx == len(replacedLines)-1 {
			term = s.Lines[endPos.LineNumber].LineTerminator
		}
		tokens, outMode, lexErr := tokenizeLine(startPos.LineNumber+idx, content, mode)
		newLines = append(newLines, Line{
			KindAtStart:    mode,
			KindAtEnd:      outMode,
			LineString:     content,
			LineTerminator: term,
			Tokens:         tokens,
			MaybeError:     lexErr,
		})
		mode = outMode
	}
	newLines = append(newLines, s.Lines[endPos.LineNumber+1:]...)
	s.Lines = newLines

	return s.renumberAndReconverge(startPos.LineNumber + len(replacedLines) - 1)
}

// renumberAndReconverge re-tokenizes from lineNumber forward only until
// modes reconverge, mirroring TryUpdateLine's propagation stop rule; used
// after TryUpdateRange has already spliced in new lines with fresh byte
// content but a mode chain that may now be stale beyond the edit.
func (s *State) renumberAndReconverge(from int) error {
	if from >= len(s.Lines) {
		return nil
	}
	mode := Default
	if from > 0 {
		mode = s.Lines[from-1].KindAtEnd
	}
	for i := from; i < len(s.Lines); i++ {
		tokens, outMode, lexErr := tokenizeLine(i, s.Lines[i].LineString, mode)
		prevOutMode := s.Lines[i].KindAtEnd
		s.Lines[i].KindAtStart = mode
		s.Lines[i].KindAtEnd = outMode
		s.Lines[i].Tokens = tokens
		s.Lines[i].MaybeError = lexErr
		if i != from && outMode == prevOutMode {
			return nil
		}
		mode = outMode
	}
	return nil
}

func byteOffsetForCodeUnit(line string, codeUnit int) int {
	if codeUnit <= 0 {
		return 0
	}
	units := 0
	for i, r := range line {
		if units >= codeUnit {
			return i
		}
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
	}
	return len(line)
}

// ErrorLineMap maps lineNumber to the line-level error (§4.1). Returns nil
// if there are no errors. It is a plain Go map, so its iteration order is
// not defined; OrderedErrorLineNumbers gives the lines in ascending order.
func (s *State) ErrorLineMap() map[int]*LexError {
	var m map[int]*LexError
	for i := range s.Lines {
		if s.Lines[i].MaybeError != nil {
			if m == nil {
				m = make(map[int]*LexError)
			}
			m[i] = s.Lines[i].MaybeError
		}
	}
	return m
}

// OrderedErrorLineNumbers returns the line numbers with errors in
// ascending order, the same lines ErrorLineMap holds as keys.
func (s *State) OrderedErrorLineNumbers() []int {
	var nums []int
	for i := range s.Lines {
		if s.Lines[i].MaybeError != nil {
			nums = append(nums, i)
		}
	}
	return nums
}

// Text reconstructs the full document text from the line model.
func (s *State) Text() string {
	var b strings.Builder
	for _, l := range s.Lines {
		b.WriteString(l.LineString)
		b.WriteString(l.LineTerminator.String())
	}
	return b.String()
}
