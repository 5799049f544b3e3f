package uses

import (
	"fmt"
	"strings"
)

// tree is one parsed use tree. Exactly one of the shapes is populated: a
// glob, a brace group, a path segment with a child, or a terminal name with
// an optional rename.
type tree struct {
	segment string
	rename  string
	glob    bool
	group   []*tree
	child   *tree
}

// parser walks use statement source by byte offset.
type parser struct {
	src string
	pos int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\r', '\n':
			p.pos++
		default:
			return
		}
	}
}

// errHere builds a parse error pointing at the current offset.
func (p *parser) errHere(format string, args ...any) error {
	at := p.src[p.pos:]
	if len(at) > 16 {
		at = at[:16]
	}
	return fmt.Errorf("use statement at offset %d (near %q): %s", p.pos, at, fmt.Sprintf(format, args...))
}

// statement parses one full use statement: optional attribute lines, an
// optional pub visibility, the use keyword, an optional leading ::, the
// tree, and the terminating semicolon.
func (p *parser) statement() (itemData, *tree, error) {
	var data itemData

	attrs, err := p.attributes()
	if err != nil {
		return itemData{}, nil, err
	}
	data.attrs = attrs

	word, ok := p.ident()
	if !ok {
		return itemData{}, nil, p.errHere("expected use keyword")
	}

	if word == "pub" {
		vis, err := p.visibility()
		if err != nil {
			return itemData{}, nil, err
		}
		data.vis = vis

		word, ok = p.ident()
		if !ok {
			return itemData{}, nil, p.errHere("expected use keyword")
		}
	}

	if word != "use" {
		return itemData{}, nil, p.errHere("expected use keyword, found %q", word)
	}

	p.skipSpace()
	if p.consume("::") {
		data.rooted = true
	}

	t, err := p.tree()
	if err != nil {
		return itemData{}, nil, err
	}

	p.skipSpace()
	if !p.consume(";") {
		return itemData{}, nil, p.errHere("expected ';'")
	}
	return data, t, nil
}

// attributes captures leading #[...] lines verbatim, joined by newlines.
func (p *parser) attributes() (string, error) {
	var lines []string

	for {
		p.skipSpace()
		if p.eof() || p.src[p.pos] != '#' {
			break
		}

		start := p.pos
		p.pos++
		p.skipSpace()
		if p.eof() || p.src[p.pos] != '[' {
			return "", p.errHere("expected '[' after '#'")
		}

		depth := 0
		for p.pos < len(p.src) {
			switch p.src[p.pos] {
			case '[':
				depth++
			case ']':
				depth--
			}
			p.pos++
			if depth == 0 {
				break
			}
		}
		if depth != 0 {
			return "", p.errHere("unterminated attribute")
		}
		lines = append(lines, p.src[start:p.pos])
	}

	return strings.Join(lines, "\n"), nil
}

// visibility is entered just after the pub keyword and captures an optional
// restriction like (crate) verbatim.
func (p *parser) visibility() (string, error) {
	p.skipSpace()
	if p.eof() || p.src[p.pos] != '(' {
		return "pub", nil
	}

	start := p.pos
	depth := 0
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '(':
			depth++
		case ')':
			depth--
		}
		p.pos++
		if depth == 0 {
			return "pub" + p.src[start:p.pos], nil
		}
	}
	return "", p.errHere("unterminated visibility restriction")
}

// tree parses one use tree at the current position.
func (p *parser) tree() (*tree, error) {
	p.skipSpace()
	if p.eof() {
		return nil, p.errHere("unexpected end of use statement")
	}

	switch p.src[p.pos] {
	case '*':
		p.pos++
		return &tree{glob: true}, nil
	case '{':
		return p.group()
	}

	segment, ok := p.ident()
	if !ok {
		return nil, p.errHere("expected path segment")
	}

	p.skipSpace()
	if p.consume("::") {
		child, err := p.tree()
		if err != nil {
			return nil, err
		}
		return &tree{segment: segment, child: child}, nil
	}

	if p.peekIdent("as") {
		p.ident() // consume the keyword
		rename, ok := p.ident()
		if !ok {
			return nil, p.errHere("expected rename after as")
		}
		return &tree{segment: segment, rename: rename}, nil
	}

	return &tree{segment: segment}, nil
}

// group parses a brace group of comma-separated trees.
func (p *parser) group() (*tree, error) {
	p.pos++ // past '{'
	var items []*tree

	for {
		p.skipSpace()
		if p.consume("}") {
			return &tree{group: items}, nil
		}

		item, err := p.tree()
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		p.skipSpace()
		if p.consume(",") {
			continue
		}
		if p.consume("}") {
			return &tree{group: items}, nil
		}
		return nil, p.errHere("expected ',' or '}' in group")
	}
}

// ident consumes one identifier, including raw identifiers like r#type.
func (p *parser) ident() (string, bool) {
	p.skipSpace()
	start := p.pos

	if strings.HasPrefix(p.src[p.pos:], "r#") {
		p.pos += 2
	}

	for p.pos < len(p.src) && isIdentByte(p.src[p.pos], p.pos == start) {
		p.pos++
	}
	if p.pos == start || p.src[start:p.pos] == "r#" {
		p.pos = start
		return "", false
	}
	return p.src[start:p.pos], true
}

// peekIdent reports whether the next identifier equals word without
// consuming it.
func (p *parser) peekIdent(word string) bool {
	save := p.pos
	got, ok := p.ident()
	p.pos = save
	return ok && got == word
}

// consume advances past tok if it is next, after whitespace.
func (p *parser) consume(tok string) bool {
	p.skipSpace()
	if strings.HasPrefix(p.src[p.pos:], tok) {
		p.pos += len(tok)
		return true
	}
	return false
}

func isIdentByte(c byte, first bool) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		return true
	case c >= '0' && c <= '9':
		return !first
	default:
		return false
	}
}
