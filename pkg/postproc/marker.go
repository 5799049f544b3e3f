package postproc

import "strings"

// Marker matchers. Each grammar is a flat table of sub-token byte sequences;
// a shared matcher walks them, tolerating formatter-inserted whitespace
// between sub-tokens but never inside one. The literal payload between
// prefix and suffix is delimited by the skippers so embedded ')' or ';'
// bytes cannot end a match early.
//
// Grammars (WS* is whitespace tolerated between the adjacent tokens only):
//
//	blank:   "_b" "lank_"   WS* "!" WS* "(" [INT]    WS* ")" WS* ";" LINE-END
//	comment: "_c" "omment_" WS* "!" WS* "(" [STRING] WS* ")" WS* ";" LINE-END
//	doc:     "#" WS* "[" WS* "doc" WS* "=" WS* STRING WS* "]" LINE-END
//
// The leading bytes before the table ("_b", "_c", "#") are consumed by the
// driver's dispatch; everything after the payload is the suffix table.
//
//nolint:gochecknoglobals // Read-only grammar tables.
var (
	blankPrefix   = grammar("lank_", "!", "(")
	blankSuffix   = grammar(";")
	commentPrefix = grammar("omment_", "!", "(")
	commentSuffix = grammar(")", ";")
	// When the payload was absent the ')' has already been consumed while
	// looking for the string literal.
	commentBareSuffix = grammar(";")
	docPrefix         = grammar("[", "doc", "=")
	docSuffix         = grammar("]")
)

// grammar builds a sub-token table from string literals.
func grammar(tokens ...string) [][]byte {
	out := make([][]byte, len(tokens))
	for i, tok := range tokens {
		out[i] = []byte(tok)
	}
	return out
}

// matchTokens attempts to match each sub-token in sequence starting at the
// current position. Whitespace is tolerated before a sub-token when allowed;
// the first sub-token's tolerance is the caller's choice, every later gap
// allows it. On failure pos is left on the byte that broke the match and the
// driver resumes ordinary scanning there; nothing is rewound.
func (s *scanner) matchTokens(tokens [][]byte, allowLeadingWS bool) bool {
	allowWS := allowLeadingWS

	for _, tok := range tokens {
		// Find the token's first byte, skipping tolerated whitespace.
		for {
			if s.pos >= len(s.src) {
				return false
			}
			c := s.src[s.pos]
			if c == tok[0] {
				break
			}
			if allowWS && isWhitespace(c) {
				s.pos++
				continue
			}
			return false
		}

		// Match the token bytes exactly.
		for _, want := range tok {
			if s.pos >= len(s.src) || s.src[s.pos] != want {
				return false
			}
			s.pos++
		}
		allowWS = true
	}

	return true
}

// lineEnding consumes the line terminator that must immediately follow a
// marker's closing syntax and reports which style it was. The rendered
// replacement reuses the same style so LF and CRLF are never mixed within
// one replacement.
func (s *scanner) lineEnding() (string, bool) {
	if s.pos < len(s.src) && s.src[s.pos] == '\n' {
		s.pos++
		return "\n", true
	}
	if s.pos+1 < len(s.src) && s.src[s.pos] == '\r' && s.src[s.pos+1] == '\n' {
		s.pos += 2
		return "\r\n", true
	}
	return "", false
}

// tryBlankMarker is entered with pos on the 'b' after a dispatched '_'.
// identStart is the offset of the marker text including any leading
// indentation run.
func (s *scanner) tryBlankMarker(identStart int) error {
	s.pos++ // past 'b'
	if !s.matchTokens(blankPrefix, false) {
		return nil
	}

	valueStart := s.pos

	// The optional integer payload cannot contain ')', so scan straight to
	// the parameter close.
	off := strings.IndexByte(s.src[s.pos:], ')')
	if off < 0 {
		return s.errAt(len(s.src), "unexpected end of input in blank marker")
	}
	valueEnd := valueStart + off
	s.pos = valueEnd + 1 // past ')'

	return s.completeMarker(identStart, valueStart, valueEnd, blankSuffix, renderBlanks)
}

// tryCommentMarker is entered with pos on the 'c' after a dispatched '_'.
func (s *scanner) tryCommentMarker(identStart int) error {
	s.pos++ // past 'c'
	if !s.matchTokens(commentPrefix, false) {
		return nil
	}

	valueStart := s.pos

	valueEnd, suffix, err := s.skipStringPayload(commentSuffix, commentBareSuffix)
	if err != nil {
		return err
	}

	return s.completeMarker(identStart, valueStart, valueEnd, suffix, renderComments)
}

// tryDocBlock is entered with pos on a dispatched '#'.
func (s *scanner) tryDocBlock(identStart int) error {
	s.pos++ // past '#'
	if !s.matchTokens(docPrefix, true) {
		return nil
	}

	valueStart := s.pos

	valueEnd, suffix, err := s.skipStringPayload(docSuffix, nil)
	if err != nil {
		return err
	}
	if suffix == nil {
		return s.errAt(valueEnd, "expected string literal in doc block")
	}

	return s.completeMarker(identStart, valueStart, valueEnd, suffix, renderDocBlock)
}

// skipStringPayload consumes an optional string-literal payload after a
// marker prefix. It returns the payload's exclusive end offset and the
// suffix table to match next: stringSuffix when a literal was present,
// bareSuffix when the parameter close was found instead of a literal. A nil
// bareSuffix means the payload is mandatory, in which case valueEnd reports
// the offending offset.
func (s *scanner) skipStringPayload(stringSuffix, bareSuffix [][]byte) (int, [][]byte, error) {
	if !s.skipWhitespace() {
		return 0, nil, s.errAt(len(s.src), "unexpected end of input in marker payload")
	}

	switch c := s.src[s.pos]; c {
	case '"':
		s.skipString()
		return s.pos, stringSuffix, nil
	case 'r':
		start := s.pos
		if !s.skipRawString() {
			return 0, nil, s.errAt(start, "expected raw string literal")
		}
		return s.pos, stringSuffix, nil
	case ')':
		if bareSuffix == nil {
			return s.pos, nil, nil
		}
		end := s.pos
		s.pos++ // past ')'
		return end, bareSuffix, nil
	default:
		return 0, nil, s.errAt(s.pos, "expected ')' or string literal")
	}
}

// completeMarker matches the suffix table and line terminator, flushes the
// text preceding the marker, and hands the payload to the renderer. Once a
// prefix has fully matched the grammar is strict: any failure from here is
// a hard error rather than a fall-through to ordinary scanning.
func (s *scanner) completeMarker(identStart, valueStart, valueEnd int, suffix [][]byte, render renderFunc) error {
	if !s.matchTokens(suffix, true) {
		return s.errAt(s.pos, "unable to match closing syntax on marker or doc block")
	}

	ending, ok := s.lineEnding()
	if !ok {
		return s.errAt(s.pos, "expected LF or CRLF after marker")
	}

	s.flushTo(identStart, s.pos)

	buf, err := render(s.buf, s.indent, s.src[valueStart:valueEnd], ending)
	if err != nil {
		return s.errWrap(valueStart, err)
	}
	s.buf = buf
	return nil
}
