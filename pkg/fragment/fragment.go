// Package fragment defines the code fragments rustgen assembles into
// generated Rust files, the registry they register into, and the generator
// that builds each configured file from them.
//
// A fragment is the smallest unit of generated code. Fragments register
// themselves by name, typically from an init function:
//
//	func init() {
//		fragment.MustRegister("impl_struct", implStruct{})
//	}
//
// and the generate command pulls them in with blank imports.
package fragment

import (
	"fmt"
	"sort"

	"github.com/yaklabco/rustgen/pkg/config"
)

// Fragment produces the pieces of a generated file. All three methods
// receive the merged vars for the file being generated and return Rust
// source text; an empty string means the fragment contributes nothing to
// that section.
type Fragment interface {
	// Uses returns use statements needed by this fragment's code. They are
	// merged and deduplicated with every other fragment's uses.
	Uses(vars config.Vars) (string, error)

	// Top returns source that must sit at the top of the file, such as
	// inner #![...] attributes.
	Top(vars config.Vars) (string, error)

	// Body returns the fragment's main source text.
	Body(vars config.Vars) (string, error)
}

// Base is a convenience embed providing empty defaults, so fragments only
// implement the sections they contribute.
type Base struct{}

// Uses implements Fragment.
func (Base) Uses(config.Vars) (string, error) { return "", nil }

// Top implements Fragment.
func (Base) Top(config.Vars) (string, error) { return "", nil }

// Body implements Fragment.
func (Base) Body(config.Vars) (string, error) { return "", nil }

// Registry maps fragment names to implementations. Names are snake_case and
// must be unique; configuration fragment lists are validated against the
// registered set.
type Registry struct {
	frags map[string]Fragment
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{frags: map[string]Fragment{}}
}

// Register adds a fragment under name.
func (r *Registry) Register(name string, f Fragment) error {
	if !validName(name) {
		return fmt.Errorf("invalid fragment name %q: must be snake_case", name)
	}
	if f == nil {
		return fmt.Errorf("fragment %q is nil", name)
	}
	if _, exists := r.frags[name]; exists {
		return fmt.Errorf("fragment %q already registered", name)
	}
	r.frags[name] = f
	return nil
}

// MustRegister is Register, panicking on error. Intended for init-time
// registration where a failure is a programming mistake.
func (r *Registry) MustRegister(name string, f Fragment) {
	if err := r.Register(name, f); err != nil {
		panic(err)
	}
}

// Get returns the named fragment.
func (r *Registry) Get(name string) (Fragment, bool) {
	f, ok := r.frags[name]
	return f, ok
}

// Names returns the registered names as a set, for config validation.
func (r *Registry) Names() map[string]bool {
	names := make(map[string]bool, len(r.frags))
	for name := range r.frags {
		names[name] = true
	}
	return names
}

// SortedNames returns the registered names in order, for listings.
func (r *Registry) SortedNames() []string {
	names := make([]string, 0, len(r.frags))
	for name := range r.frags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

//nolint:gochecknoglobals // Package-level registry for init-time registration.
var defaultRegistry = NewRegistry()

// Default returns the process-wide registry that Register adds to.
func Default() *Registry {
	return defaultRegistry
}

// Register adds a fragment to the default registry.
func Register(name string, f Fragment) error {
	return defaultRegistry.Register(name, f)
}

// MustRegister adds a fragment to the default registry, panicking on error.
func MustRegister(name string, f Fragment) {
	defaultRegistry.MustRegister(name, f)
}

// validName accepts snake_case: lowercase letters, digits, underscores,
// starting with a letter.
func validName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c == '_', c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
