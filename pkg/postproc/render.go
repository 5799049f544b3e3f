package postproc

import (
	"strings"

	"github.com/yaklabco/rustgen/pkg/literal"
)

// Comment tokens emitted by the renderers.
const (
	emptyComment = "//"
	lineComment  = "// "
	docComment   = "///"
)

// renderFunc translates a raw marker payload into final text, appending to
// dst. indent is the length of the space run that preceded the marker and is
// reproduced in front of every generated line; ending is the line terminator
// detected after the marker.
type renderFunc func(dst []byte, indent int, payload, ending string) ([]byte, error)

// renderBlanks emits the requested number of blank lines. An absent payload
// means one.
func renderBlanks(dst []byte, _ int, payload, ending string) ([]byte, error) {
	if isBlankPayload(payload) {
		return append(dst, ending...), nil
	}

	n, err := literal.ParseInteger(payload)
	if err != nil {
		return nil, err
	}
	for range n {
		dst = append(dst, ending...)
	}
	return dst, nil
}

// renderComments emits one line comment per line of the decoded payload. An
// absent or empty payload emits a single bare comment line with no trailing
// space.
func renderComments(dst []byte, indent int, payload, ending string) ([]byte, error) {
	return renderCommentLines(dst, indent, payload, ending, emptyComment, lineComment)
}

// renderDocBlock is the doc-comment flavor of renderComments. Doc blocks
// translate literally: #[doc = "test"] becomes ///test with no space added
// after the token, because the doc string itself carries any leading space.
func renderDocBlock(dst []byte, indent int, payload, ending string) ([]byte, error) {
	return renderCommentLines(dst, indent, payload, ending, docComment, docComment)
}

func renderCommentLines(dst []byte, indent int, payload, ending, bareTok, lineTok string) ([]byte, error) {
	if isBlankPayload(payload) {
		dst = appendSpaces(dst, indent)
		dst = append(dst, bareTok...)
		return append(dst, ending...), nil
	}

	text, err := literal.ParseString(payload)
	if err != nil {
		return nil, err
	}

	if text == "" {
		dst = appendSpaces(dst, indent)
		dst = append(dst, bareTok...)
		return append(dst, ending...), nil
	}

	for _, line := range splitLines(text) {
		dst = appendSpaces(dst, indent)
		if line == "" {
			dst = append(dst, bareTok...)
		} else {
			dst = append(dst, lineTok...)
			dst = append(dst, line...)
		}
		dst = append(dst, ending...)
	}
	return dst, nil
}

// isBlankPayload reports whether the captured payload region holds no
// literal at all, only the whitespace a formatter may have left between the
// parentheses.
func isBlankPayload(payload string) bool {
	for i := 0; i < len(payload); i++ {
		if !isWhitespace(payload[i]) {
			return false
		}
	}
	return true
}

// splitLines splits decoded payload text on line breaks, accepting either LF
// or CRLF, without producing a trailing empty line for a trailing break.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 1 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// appendSpaces reproduces the indentation run that preceded a marker.
func appendSpaces(dst []byte, n int) []byte {
	for range n {
		dst = append(dst, ' ')
	}
	return dst
}
