package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/rustgen/pkg/literal"
)

// Code value prefixes. A string var starting with one of these decodes to a
// code value that interpolates as bare Rust tokens instead of a string
// literal.
const (
	identPrefix  = "$ident$"
	intLitPrefix = "$int_lit$"
)

// Var lookup errors.
var (
	ErrMissingVar = errors.New("var not defined")
	ErrWrongKind  = errors.New("var has the wrong shape")
)

// Vars maps var names to their configured items.
type Vars map[string]Item

// Get returns the named single-valued var.
func (v Vars) Get(name string) (Value, error) {
	item, ok := v[name]
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrMissingVar, name)
	}
	single, ok := item.Single()
	if !ok {
		return Value{}, fmt.Errorf("%w: %q is a list, want a single value", ErrWrongKind, name)
	}
	return single, nil
}

// GetList returns the named list-valued var.
func (v Vars) GetList(name string) ([]Value, error) {
	item, ok := v[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingVar, name)
	}
	list, ok := item.List()
	if !ok {
		return nil, fmt.Errorf("%w: %q is a single value, want a list", ErrWrongKind, name)
	}
	return list, nil
}

// Item is one var entry: either a single Value or a list of them.
type Item struct {
	values []Value
	isList bool
}

// SingleItem wraps one value.
func SingleItem(v Value) Item {
	return Item{values: []Value{v}}
}

// ListItem wraps a list of values.
func ListItem(vs ...Value) Item {
	return Item{values: vs, isList: true}
}

// Single returns the value when the item is single-valued.
func (i Item) Single() (Value, bool) {
	if i.isList || len(i.values) != 1 {
		return Value{}, false
	}
	return i.values[0], true
}

// List returns the values when the item is a list.
func (i Item) List() ([]Value, bool) {
	if !i.isList {
		return nil, false
	}
	return i.values, true
}

// UnmarshalTOML implements toml.Unmarshaler. A TOML array becomes a list
// item; any scalar becomes a single item.
func (i *Item) UnmarshalTOML(data any) error {
	if arr, ok := data.([]any); ok {
		values := make([]Value, 0, len(arr))
		for _, elem := range arr {
			v, err := parseValue(elem)
			if err != nil {
				return err
			}
			values = append(values, v)
		}
		*i = Item{values: values, isList: true}
		return nil
	}

	v, err := parseValue(data)
	if err != nil {
		return err
	}
	*i = Item{values: []Value{v}}
	return nil
}

// Kind discriminates the value union.
type Kind int

const (
	// KindString interpolates as a Rust string literal.
	KindString Kind = iota

	// KindInt interpolates as a decimal integer.
	KindInt

	// KindBool interpolates as true or false.
	KindBool

	// KindIdent interpolates as a bare identifier.
	KindIdent

	// KindIntLit interpolates as a verbatim integer literal, suffix
	// included.
	KindIntLit
)

// Value is one var value: a string, integer, bool, or code value.
type Value struct {
	kind Kind
	str  string
	num  int64
	flag bool
}

// StringValue returns a string Value.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// IntValue returns an integer Value.
func IntValue(n int64) Value { return Value{kind: KindInt, num: n} }

// BoolValue returns a boolean Value.
func BoolValue(b bool) Value { return Value{kind: KindBool, flag: b} }

// IdentValue returns an identifier code Value.
func IdentValue(s string) Value { return Value{kind: KindIdent, str: s} }

// IntLitValue returns an integer-literal code Value.
func IntLitValue(s string) Value { return Value{kind: KindIntLit, str: s} }

// Kind returns the value's kind.
func (v Value) Kind() Kind { return v.kind }

// Tokens renders the value the way it interpolates into generated Rust
// source: strings quoted and escaped, code values verbatim.
func (v Value) Tokens() string {
	switch v.kind {
	case KindString:
		return quoteRust(v.str)
	case KindInt:
		return fmt.Sprintf("%d", v.num)
	case KindBool:
		return fmt.Sprintf("%t", v.flag)
	default:
		return v.str
	}
}

// Display renders the value as plain text, strings unquoted. Fragments use
// this when building names and comments rather than code.
func (v Value) Display() string {
	switch v.kind {
	case KindInt:
		return fmt.Sprintf("%d", v.num)
	case KindBool:
		return fmt.Sprintf("%t", v.flag)
	default:
		return v.str
	}
}

// parseValue converts a decoded TOML scalar into a Value. Strings carrying a
// code prefix are validated as the code form they claim.
func parseValue(data any) (Value, error) {
	switch val := data.(type) {
	case string:
		return parseStringValue(val)
	case int64:
		return IntValue(val), nil
	case bool:
		return BoolValue(val), nil
	default:
		return Value{}, fmt.Errorf("unsupported var value %v (%T)", data, data)
	}
}

func parseStringValue(s string) (Value, error) {
	switch {
	case strings.HasPrefix(s, identPrefix):
		ident := s[len(identPrefix):]
		if !isRustIdent(ident) {
			return Value{}, fmt.Errorf("invalid identifier %q in var value", ident)
		}
		return IdentValue(ident), nil
	case strings.HasPrefix(s, intLitPrefix):
		lit := s[len(intLitPrefix):]
		if _, err := literal.ParseInteger(lit); err != nil {
			return Value{}, fmt.Errorf("invalid integer literal in var value: %w", err)
		}
		return IntLitValue(lit), nil
	default:
		return StringValue(s), nil
	}
}

// isRustIdent reports whether s is an acceptable Rust identifier, raw
// identifiers included.
func isRustIdent(s string) bool {
	s = strings.TrimPrefix(s, "r#")
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// quoteRust renders s as a Rust string literal.
func quoteRust(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')

	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&sb, `\u{%X}`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}

	sb.WriteByte('"')
	return sb.String()
}
