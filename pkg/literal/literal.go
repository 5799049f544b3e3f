// Package literal decodes Rust string and integer literals. It implements
// just enough of the literal grammar to handle the payloads that appear in
// generated source: quoted strings with standard escape sequences, raw
// strings with hash fences, and base-10 integers with underscore separators
// and an optional unsigned suffix.
package literal

import (
	"fmt"
	"math"
	"strings"
)

// intSuffixes are the type suffixes accepted on integer literals.
//
//nolint:gochecknoglobals // Read-only lookup table.
var intSuffixes = []string{"u8", "u16", "u32", "u64", "usize"}

// ParseString decodes a quoted or raw string literal into its value.
// Surrounding ASCII whitespace is tolerated; the literal itself must be
// complete, i.e. include its delimiters.
func ParseString(lit string) (string, error) {
	lit = trimSpace(lit)
	if lit == "" {
		return "", fmt.Errorf("empty string literal")
	}

	if lit[0] == 'r' {
		return parseRawString(lit)
	}
	return parseQuotedString(lit)
}

// ParseInteger decodes a base-10 integer literal into a uint32. Underscore
// separators and an optional unsigned type suffix are accepted, matching the
// literal forms a code generator emits into marker payloads.
func ParseInteger(lit string) (uint32, error) {
	lit = trimSpace(lit)
	if lit == "" {
		return 0, fmt.Errorf("empty integer literal")
	}

	digits := stripIntSuffix(lit)
	if digits == "" {
		return 0, fmt.Errorf("integer literal %q has no digits", lit)
	}
	if digits[0] == '_' {
		return 0, fmt.Errorf("integer literal %q starts with a separator", lit)
	}

	var value uint64
	seenDigit := false
	for i := 0; i < len(digits); i++ {
		c := digits[i]
		if c == '_' {
			continue
		}
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid digit %q in integer literal %q", c, lit)
		}
		seenDigit = true
		value = value*10 + uint64(c-'0')
		if value > math.MaxUint32 {
			return 0, fmt.Errorf("integer literal %q overflows uint32", lit)
		}
	}
	if !seenDigit {
		return 0, fmt.Errorf("integer literal %q has no digits", lit)
	}

	return uint32(value), nil
}

// stripIntSuffix removes a trailing type suffix, if present.
func stripIntSuffix(lit string) string {
	for _, suffix := range intSuffixes {
		if strings.HasSuffix(lit, suffix) {
			return lit[:len(lit)-len(suffix)]
		}
	}
	return lit
}

// parseRawString decodes r"..." and r#"..."# forms. The content between the
// delimiters is returned verbatim; raw strings have no escape processing.
func parseRawString(lit string) (string, error) {
	// Skip the 'r' prefix and count opening fences.
	rest := lit[1:]
	fences := 0
	for fences < len(rest) && rest[fences] == '#' {
		fences++
	}

	if fences >= len(rest) || rest[fences] != '"' {
		return "", fmt.Errorf("raw string literal %q has no opening quote", lit)
	}

	body := rest[fences+1:]
	closing := `"` + strings.Repeat("#", fences)
	if !strings.HasSuffix(body, closing) {
		return "", fmt.Errorf("raw string literal %q is missing its closing %q", lit, closing)
	}

	return body[:len(body)-len(closing)], nil
}

// parseQuotedString decodes a conventional "..." literal, applying escape
// sequences.
func parseQuotedString(lit string) (string, error) {
	if len(lit) < 2 || lit[0] != '"' || lit[len(lit)-1] != '"' {
		return "", fmt.Errorf("string literal %q is missing its quotes", lit)
	}

	body := lit[1 : len(lit)-1]

	// Fast path: no escapes to process.
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}

	var sb strings.Builder
	sb.Grow(len(body))

	for i := 0; i < len(body); {
		c := body[i]
		if c != '\\' {
			sb.WriteByte(c)
			i++
			continue
		}

		if i+1 >= len(body) {
			return "", fmt.Errorf("string literal %q ends with a bare backslash", lit)
		}

		consumed, err := decodeEscape(body[i:], &sb)
		if err != nil {
			return "", fmt.Errorf("string literal %q: %w", lit, err)
		}
		i += consumed
	}

	return sb.String(), nil
}

// decodeEscape decodes one escape sequence at the start of s (which begins
// with a backslash), writes its value to sb, and returns the number of bytes
// consumed.
func decodeEscape(s string, sb *strings.Builder) (int, error) {
	switch s[1] {
	case 'n':
		sb.WriteByte('\n')
		return 2, nil
	case 'r':
		sb.WriteByte('\r')
		return 2, nil
	case 't':
		sb.WriteByte('\t')
		return 2, nil
	case '\\':
		sb.WriteByte('\\')
		return 2, nil
	case '0':
		sb.WriteByte(0)
		return 2, nil
	case '\'':
		sb.WriteByte('\'')
		return 2, nil
	case '"':
		sb.WriteByte('"')
		return 2, nil
	case 'x':
		return decodeHexEscape(s, sb)
	case 'u':
		return decodeUnicodeEscape(s, sb)
	case '\n':
		// A backslash before a line break elides the break and any leading
		// whitespace on the next line.
		i := 2
		for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
			i++
		}
		return i, nil
	default:
		return 0, fmt.Errorf("unknown escape sequence \\%c", s[1])
	}
}

// decodeHexEscape decodes \xNN.
func decodeHexEscape(s string, sb *strings.Builder) (int, error) {
	if len(s) < 4 {
		return 0, fmt.Errorf("truncated \\x escape")
	}
	hi, ok1 := hexValue(s[2])
	lo, ok2 := hexValue(s[3])
	if !ok1 || !ok2 {
		return 0, fmt.Errorf("invalid \\x escape %q", s[:4])
	}
	b := hi<<4 | lo
	if b > 0x7f {
		return 0, fmt.Errorf("\\x escape %q is out of ASCII range", s[:4])
	}
	sb.WriteByte(byte(b))
	return 4, nil
}

// decodeUnicodeEscape decodes \u{XXXX} with one to six hex digits.
func decodeUnicodeEscape(s string, sb *strings.Builder) (int, error) {
	if len(s) < 3 || s[2] != '{' {
		return 0, fmt.Errorf("\\u escape is missing its opening brace")
	}

	value := rune(0)
	i := 3
	digits := 0
	for i < len(s) && s[i] != '}' {
		v, ok := hexValue(s[i])
		if !ok {
			return 0, fmt.Errorf("invalid hex digit %q in \\u escape", s[i])
		}
		value = value<<4 | rune(v)
		digits++
		if digits > 6 {
			return 0, fmt.Errorf("\\u escape has too many digits")
		}
		i++
	}

	if i >= len(s) {
		return 0, fmt.Errorf("\\u escape is missing its closing brace")
	}
	if digits == 0 {
		return 0, fmt.Errorf("\\u escape has no digits")
	}
	if value > 0x10ffff || (value >= 0xd800 && value <= 0xdfff) {
		return 0, fmt.Errorf("\\u escape U+%X is not a valid scalar value", value)
	}

	sb.WriteRune(value)
	return i + 1, nil
}

// hexValue returns the value of an ASCII hex digit.
func hexValue(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	default:
		return 0, false
	}
}

// trimSpace trims the ASCII whitespace a formatter may leave around a
// literal. Unicode whitespace is deliberately not considered.
func trimSpace(s string) string {
	return strings.Trim(s, " \t\r\n\x0b\x0c")
}
