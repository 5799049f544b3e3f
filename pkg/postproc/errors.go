package postproc

import "fmt"

// excerptRadius bounds how much surrounding text a SyntaxError reports.
const excerptRadius = 24

// SyntaxError is the single error kind the scanner produces. Every failure
// mode is the same root cause, text that looks like a marker prefix but does
// not satisfy the full grammar, so one type carries a description plus enough
// context to locate the problem in the generated source.
type SyntaxError struct {
	// Offset is the byte offset at which the violation was detected.
	Offset int

	// Msg describes what was expected.
	Msg string

	// Excerpt is the source text surrounding Offset.
	Excerpt string

	// Err is the underlying literal decoding error, if any.
	Err error
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("malformed source at offset %d: %s (near %q)", e.Offset, e.Msg, e.Excerpt)
}

// Unwrap returns the underlying cause, if any.
func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// errAt builds a SyntaxError at the given offset with an excerpt of the
// surrounding source.
func (s *scanner) errAt(offset int, msg string) error {
	return &SyntaxError{Offset: offset, Msg: msg, Excerpt: excerpt(s.src, offset)}
}

// errWrap builds a SyntaxError around a literal decoding failure.
func (s *scanner) errWrap(offset int, err error) error {
	return &SyntaxError{
		Offset:  offset,
		Msg:     "invalid marker payload: " + err.Error(),
		Excerpt: excerpt(s.src, offset),
		Err:     err,
	}
}

// excerpt returns the source text around offset, clamped to the input.
func excerpt(src string, offset int) string {
	start := offset - excerptRadius
	if start < 0 {
		start = 0
	}
	end := offset + excerptRadius
	if end > len(src) {
		end = len(src)
	}
	return src[start:end]
}
