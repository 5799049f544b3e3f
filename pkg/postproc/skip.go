package postproc

// Lexical skippers. These consume well-formed comment and string regions
// without interpreting their contents, so the marker matchers are never
// invoked on text inside them. Skippers never raise errors: a file ending
// mid-comment or mid-string simply stops the skip at end of input. Only the
// marker grammars are strict, because ordinary comments and strings in
// pre-formatted source are assumed valid.

// skipComment is entered with pos on a '/'. If a line or block comment
// follows it is consumed whole; otherwise pos ends on the byte after the '/'
// and scanning resumes there.
func (s *scanner) skipComment() {
	s.pos++ // past '/'
	if s.pos >= len(s.src) {
		return
	}

	switch s.src[s.pos] {
	case '/':
		s.skipLineComment()
	case '*':
		s.pos++
		s.skipBlockComment()
	}
}

// skipLineComment consumes through the terminating line feed, or to end of
// input for a truncated final line.
func (s *scanner) skipLineComment() {
	for s.pos < len(s.src) {
		if s.src[s.pos] == '\n' {
			s.pos++
			return
		}
		s.pos++
	}
}

// blockState tracks progress through the two-byte open and close sequences
// of a block comment.
type blockState int

const (
	blockInside blockState = iota
	blockMaybeOpening
	blockMaybeClosing
)

// skipBlockComment is entered just past the opening sequence and consumes
// through the matching close, honoring nesting.
func (s *scanner) skipBlockComment() {
	nest := 1
	state := blockInside

	for s.pos < len(s.src) {
		c := s.src[s.pos]
		s.pos++

		switch {
		case c == '*' && state == blockMaybeOpening:
			nest++
			state = blockInside
		case c == '*':
			// A run of stars keeps the close candidate alive.
			state = blockMaybeClosing
		case c == '/' && state == blockMaybeClosing:
			nest--
			if nest == 0 {
				return
			}
			state = blockInside
		case c == '/':
			state = blockMaybeOpening
		default:
			state = blockInside
		}
	}
}

// skipString is entered with pos on the opening quote and consumes through
// the first unescaped closing quote. The escape flag toggles on every
// backslash and clears on every other byte, so runs of backslashes resolve
// correctly: the quote in `\\"` terminates, the quote in `\"` does not.
func (s *scanner) skipString() {
	s.pos++ // past opening quote
	inEscape := false

	for s.pos < len(s.src) {
		c := s.src[s.pos]
		s.pos++

		switch {
		case c == '"' && !inEscape:
			return
		case c == '\\' && !inEscape:
			inEscape = true
		default:
			inEscape = false
		}
	}
}

// skipRawString is entered with pos on the 'r'. It attempts to match the
// fence-and-quote entry sequence; on success the whole raw string is
// consumed and true is returned. On failure pos ends on the byte that broke
// the match so the driver re-classifies it as ordinary text.
func (s *scanner) skipRawString() bool {
	s.pos++ // past 'r'

	fences := 0
	for s.pos < len(s.src) && s.src[s.pos] == '#' {
		fences++
		s.pos++
	}

	if s.pos >= len(s.src) || s.src[s.pos] != '"' {
		// Not a raw string after all; could be an ordinary identifier
		// starting with 'r' or a raw identifier like r#try.
		return false
	}
	s.pos++ // past opening quote

	// Scan for a quote followed by exactly `fences` hash bytes. A close
	// candidate with too few fences does not terminate the string.
	seen := -1 // -1: not in a close candidate
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		s.pos++

		switch {
		case c == '"':
			if fences == 0 {
				return true
			}
			seen = 0
		case c == '#' && seen >= 0:
			seen++
			if seen == fences {
				return true
			}
		default:
			seen = -1
		}
	}

	// Unterminated raw string at end of input: accepted silently, same as
	// every other skipper.
	return true
}

// skipWhitespace advances past ASCII whitespace and reports whether any
// input remains.
func (s *scanner) skipWhitespace() bool {
	for s.pos < len(s.src) && isWhitespace(s.src[s.pos]) {
		s.pos++
	}
	return s.pos < len(s.src)
}

// isWhitespace matches the ASCII whitespace a code formatter inserts.
// Unicode whitespace is not recognized; formatters emit only ' ', '\t',
// '\r', and '\n' in practice.
func isWhitespace(c byte) bool {
	switch c {
	case ' ', '\n', '\r', '\t', '\v', '\f':
		return true
	default:
		return false
	}
}
