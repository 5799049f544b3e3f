// Package uses merges Rust use statements from multiple sources into a
// deduplicated, deterministically ordered use section. Code fragments each
// declare the imports they need; the builder combines them, groups shared
// path prefixes, and partitions the result into standard library, external
// crate, and intra-crate sections the way rustfmt orders import blocks.
package uses

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrTopLevelGlob reports a use statement whose first path entry is a
	// glob, which is not legal Rust.
	ErrTopLevelGlob = errors.New("top level glob is not allowed")

	// ErrTopLevelGroup reports a use statement whose first path entry is a
	// brace group, which is not supported.
	ErrTopLevelGroup = errors.New("top level group is not allowed")

	// ErrConflictingAttrs reports the same import declared twice with
	// differing visibility, attributes, or leading-colon prefix.
	ErrConflictingAttrs = errors.New("multiple copies of the same import with differing attributes are not allowed")
)

// stdRoots and crateRoots classify a use statement's first path segment.
//
//nolint:gochecknoglobals // Read-only lookup tables.
var (
	stdRoots   = map[string]bool{"std": true, "alloc": true, "core": true, "proc_macro": true, "test": true}
	crateRoots = map[string]bool{"self": true, "super": true, "crate": true}
)

// itemData is the per-import metadata that must agree for two declarations
// of the same path to merge.
type itemData struct {
	vis    string // "" or a pub variant, verbatim
	attrs  string // newline-joined attribute lines, "" if none
	rooted bool   // leading ::
}

// leafKey identifies a terminal entry under a path node.
type leafKey struct {
	name   string
	rename string
	glob   bool
}

// node is one segment in the merge trie. Terminal entries live in leaves;
// longer paths continue through children.
type node struct {
	children map[string]*node
	leaves   map[leafKey]map[itemData]bool
}

func newNode() *node {
	return &node{
		children: map[string]*node{},
		leaves:   map[leafKey]map[itemData]bool{},
	}
}

func (n *node) child(segment string) *node {
	c, ok := n.children[segment]
	if !ok {
		c = newNode()
		n.children[segment] = c
	}
	return c
}

func (n *node) addLeaf(key leafKey, data itemData) {
	set, ok := n.leaves[key]
	if !ok {
		set = map[itemData]bool{}
		n.leaves[key] = set
	}
	set[data] = true
}

// Builder accumulates use statements and emits the merged section. The zero
// value is not usable; call NewBuilder.
type Builder struct {
	root *node
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{root: newNode()}
}

// Add parses src, which may hold any number of use statements, and merges
// them into the builder. Statements may carry attribute lines, a pub
// visibility, leading double colons, renames, globs, and nested groups.
func (b *Builder) Add(src string) error {
	p := &parser{src: src}

	for {
		p.skipSpace()
		if p.eof() {
			return nil
		}

		data, t, err := p.statement()
		if err != nil {
			return err
		}
		if err := b.insert(t, data); err != nil {
			return err
		}
	}
}

// insert places a parsed top-level tree into the trie. Globs and groups are
// rejected at the top level; anywhere deeper they are ordinary entries.
func (b *Builder) insert(t *tree, data itemData) error {
	switch {
	case t.glob:
		return ErrTopLevelGlob
	case t.group != nil:
		return ErrTopLevelGroup
	default:
		insertTree(b.root, t, data)
		return nil
	}
}

func insertTree(n *node, t *tree, data itemData) {
	switch {
	case t.glob:
		n.addLeaf(leafKey{glob: true}, data)
	case t.group != nil:
		for _, sub := range t.group {
			insertTree(n, sub, data)
		}
	case t.child != nil:
		insertTree(n.child(t.segment), t.child, data)
	default:
		n.addLeaf(leafKey{name: t.segment, rename: t.rename}, data)
	}
}

// Items returns every merged use statement, sorted. Entries under the same
// path with identical metadata collapse into one statement; a glob absorbs
// its sibling names.
func (b *Builder) Items() ([]string, error) {
	var items []string
	for _, segment := range sortedKeys(b.root.children) {
		sub, err := renderNode(b.root.children[segment], segment)
		if err != nil {
			return nil, err
		}
		items = append(items, sub...)
	}

	roots, err := rootStatements(b.root)
	if err != nil {
		return nil, err
	}
	for _, r := range roots {
		items = append(items, r.text)
	}

	sort.Strings(items)
	return items, nil
}

// Sections is the merged use section partitioned the way formatted Rust
// source orders its import blocks.
type Sections struct {
	// Std holds imports rooted in the standard library crates.
	Std []string

	// External holds imports of external crates.
	External []string

	// Crate holds self, super, and crate rooted imports.
	Crate []string
}

// Empty reports whether no section holds any import.
func (s Sections) Empty() bool {
	return len(s.Std) == 0 && len(s.External) == 0 && len(s.Crate) == 0
}

// Sections returns the merged statements partitioned by their first path
// segment.
func (b *Builder) Sections() (Sections, error) {
	var out Sections

	for _, segment := range sortedKeys(b.root.children) {
		items, err := renderNode(b.root.children[segment], segment)
		if err != nil {
			return Sections{}, err
		}

		switch {
		case stdRoots[segment]:
			out.Std = append(out.Std, items...)
		case crateRoots[segment]:
			out.Crate = append(out.Crate, items...)
		default:
			out.External = append(out.External, items...)
		}
	}

	roots, err := rootStatements(b.root)
	if err != nil {
		return Sections{}, err
	}
	for _, r := range roots {
		switch {
		case stdRoots[r.name]:
			out.Std = append(out.Std, r.text)
		case crateRoots[r.name]:
			out.Crate = append(out.Crate, r.text)
		default:
			out.External = append(out.External, r.text)
		}
	}

	sort.Strings(out.Std)
	sort.Strings(out.External)
	sort.Strings(out.Crate)
	return out, nil
}

// renderNode emits the statements for every leaf at or below n. Child paths
// come out before this node's own leaf groups; the callers sort afterwards.
func renderNode(n *node, path string) ([]string, error) {
	var items []string

	for _, segment := range sortedKeys(n.children) {
		sub, err := renderNode(n.children[segment], path+"::"+segment)
		if err != nil {
			return nil, err
		}
		items = append(items, sub...)
	}

	grouped, err := groupLeaves(n)
	if err != nil {
		return nil, fmt.Errorf("path %s: %w", path, err)
	}

	for _, g := range grouped {
		items = append(items, renderStatement(path, g.keys, g.data))
	}
	return items, nil
}

type leafGroup struct {
	data itemData
	keys []leafKey
}

type rootStatement struct {
	name string
	text string
}

// rootStatements renders single-segment imports like `use foo;`, which live
// as leaves directly on the trie root. Each renders as its own statement
// since a top-level brace group is not valid output.
func rootStatements(root *node) ([]rootStatement, error) {
	grouped, err := groupLeaves(root)
	if err != nil {
		return nil, err
	}

	var out []rootStatement
	for _, g := range grouped {
		for _, key := range g.keys {
			var sb strings.Builder
			if g.data.attrs != "" {
				sb.WriteString(g.data.attrs)
				sb.WriteByte('\n')
			}
			if g.data.vis != "" {
				sb.WriteString(g.data.vis)
				sb.WriteByte(' ')
			}
			sb.WriteString("use ")
			if g.data.rooted {
				sb.WriteString("::")
			}
			sb.WriteString(key.name)
			if key.rename != "" {
				sb.WriteString(" as " + key.rename)
			}
			sb.WriteByte(';')
			out = append(out, rootStatement{name: key.name, text: sb.String()})
		}
	}
	return out, nil
}

// groupLeaves buckets a node's leaves by their metadata. A leaf declared
// with two differing metadata sets is a conflict.
func groupLeaves(n *node) ([]leafGroup, error) {
	byData := map[itemData][]leafKey{}

	for key, set := range n.leaves {
		if len(set) > 1 {
			return nil, ErrConflictingAttrs
		}
		for data := range set {
			byData[data] = append(byData[data], key)
		}
	}

	groups := make([]leafGroup, 0, len(byData))
	for data, keys := range byData {
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].glob != keys[j].glob {
				return keys[j].glob
			}
			return keys[i].name < keys[j].name
		})
		groups = append(groups, leafGroup{data: data, keys: keys})
	}

	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if a.data.vis != b.data.vis {
			return a.data.vis < b.data.vis
		}
		return a.data.attrs < b.data.attrs
	})
	return groups, nil
}

// renderStatement prints one use statement for a set of leaves sharing a
// path and metadata. A glob among the leaves swallows the sibling names.
func renderStatement(path string, keys []leafKey, data itemData) string {
	var entries []string
	glob := false
	for _, key := range keys {
		if key.glob {
			glob = true
			break
		}
		entry := key.name
		if key.rename != "" {
			entry += " as " + key.rename
		}
		entries = append(entries, entry)
	}

	var sb strings.Builder
	if data.attrs != "" {
		sb.WriteString(data.attrs)
		sb.WriteByte('\n')
	}
	if data.vis != "" {
		sb.WriteString(data.vis)
		sb.WriteByte(' ')
	}
	sb.WriteString("use ")
	if data.rooted {
		sb.WriteString("::")
	}
	sb.WriteString(path)
	sb.WriteString("::")

	switch {
	case glob:
		sb.WriteByte('*')
	case len(entries) == 1:
		sb.WriteString(entries[0])
	default:
		sb.WriteByte('{')
		sb.WriteString(strings.Join(entries, ", "))
		sb.WriteByte('}')
	}

	sb.WriteByte(';')
	return sb.String()
}

func sortedKeys(m map[string]*node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
