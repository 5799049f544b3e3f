// Package postproc rewrites marker macros in formatted Rust source into the
// blank lines and comments they stand for. Code generators emit the markers
// because blank lines and comments do not survive a token-level formatter;
// running the replacement after formatting restores them.
//
// Three markers are recognized:
//
//	_blank_!(3);        three blank lines (count optional, default one)
//	_comment_!("text"); a line comment per line of text (string optional)
//	#[doc = "text"]     a doc comment per line of text (opt-in)
//
// The scan is a single pass that understands just enough Rust lexical
// structure, line comments, block comments, quoted strings, and raw strings,
// to never rewrite marker-shaped text inside them.
package postproc

// Result is the outcome of a replacement pass. When no marker matched, Text
// aliases the input and no copy was made.
type Result struct {
	// Text is the output source.
	Text string

	// Changed reports whether any replacement occurred.
	Changed bool
}

// Replace scans source once and substitutes every marker with its rendered
// text. Doc block rewriting is opt-in because #[doc = "..."] is legal Rust
// an author may want kept verbatim. The input is assumed to be formatter
// output; text that matches a marker prefix but violates the rest of the
// marker grammar is a SyntaxError.
func Replace(source string, replaceDocBlocks bool) (Result, error) {
	s := scanner{cursor: cursor{src: source}}
	if err := s.run(replaceDocBlocks); err != nil {
		return Result{}, err
	}
	return s.finish(), nil
}

// scanner drives the pass: the cursor handles copy bookkeeping while indent
// tracks the run of spaces preceding the current position, which the
// renderers reproduce in front of every generated line.
type scanner struct {
	cursor
	indent int
}

// run dispatches on the current byte until the input is exhausted. Skippers
// consume comment and string regions wholesale; marker matchers either
// replace a full marker or leave the position on the byte that broke the
// prefix so scanning resumes there.
func (s *scanner) run(replaceDocBlocks bool) error {
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case ' ':
			s.indent++
			s.pos++
			continue
		case 'r':
			s.skipRawString()
		case '"':
			s.skipString()
		case '/':
			s.skipComment()
		case '_':
			identStart := s.pos - s.indent
			if err := s.tryMarker(identStart); err != nil {
				return err
			}
		case '#':
			if !replaceDocBlocks {
				s.pos++
				break
			}
			identStart := s.pos - s.indent
			if err := s.tryDocBlock(identStart); err != nil {
				return err
			}
		default:
			s.pos++
		}
		s.indent = 0
	}
	return nil
}

// tryMarker is entered with pos on a '_' and routes to the blank or comment
// matcher based on the following byte. Any other byte is ordinary text.
func (s *scanner) tryMarker(identStart int) error {
	if s.pos+1 >= len(s.src) {
		s.pos++
		return nil
	}

	switch s.src[s.pos+1] {
	case 'b':
		s.pos++
		return s.tryBlankMarker(identStart)
	case 'c':
		s.pos++
		return s.tryCommentMarker(identStart)
	default:
		s.pos++
		return nil
	}
}
