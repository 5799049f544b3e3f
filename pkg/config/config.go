// Package config defines the rustgen project configuration: the TOML schema
// describing generated files, the fragment lists that compose them, and the
// interpolation vars fragments consume. Discovery of the config file and
// environment overrides live in internal/configloader; this package only
// decodes and validates.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultFileName is the config file rustgen looks for.
const DefaultFileName = "rustgen.toml"

// Validation errors.
var (
	ErrMissingFragments  = errors.New("fragment list references unknown fragments")
	ErrMissingList       = errors.New("file references unknown fragment list")
	ErrMissingExceptions = errors.New("file lists unknown fragment list exceptions")
	ErrFileNotFound      = errors.New("file not found in configuration")
	ErrListNotFound      = errors.New("fragment list not found in configuration")
)

// Config is the full project configuration.
type Config struct {
	General       General             `toml:"general"`
	FragmentLists map[string][]string `toml:"fragment_lists"`
	Files         map[string]File     `toml:"files"`
}

// General holds settings that apply to every generated file.
type General struct {
	// BasePath is prepended to every file path.
	BasePath string `toml:"base_path"`

	// ReplaceDocBlocks opts generated files into doc attribute rewriting.
	ReplaceDocBlocks bool `toml:"replace_doc_blocks"`

	// RustFmt configures the final formatting pass.
	RustFmt RustFmt `toml:"rustfmt"`

	// Vars are available to every fragment; file vars override them.
	Vars Vars `toml:"vars"`
}

// RustFmt mirrors the [general.rustfmt] table.
type RustFmt struct {
	// SkipFinalFormat disables the rustfmt pass; markers are still
	// replaced.
	SkipFinalFormat bool `toml:"skip_final_format"`

	// Path overrides the rustfmt executable.
	Path string `toml:"path"`

	// Edition is passed to rustfmt as --edition.
	Edition string `toml:"edition"`

	// Options are passed to rustfmt as --config key=value pairs.
	Options map[string]string `toml:"options"`
}

// File is one [files.*] entry describing a generated output file.
type File struct {
	// Path of the generated file, relative to the general base path.
	Path string `toml:"path"`

	// FragmentList names the list in [fragment_lists] to generate from.
	FragmentList string `toml:"fragment_list"`

	// FragmentListExceptions names fragments or nested lists to skip for
	// this file.
	FragmentListExceptions []string `toml:"fragment_list_exceptions"`

	// Vars override the general vars for this file.
	Vars Vars `toml:"vars"`
}

// Load decodes a config from TOML text.
func Load(data string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// LoadFile decodes a config from the TOML file at path.
func LoadFile(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the fragment lists and file entries against the set of
// registered fragment names. Every list entry must name either a registered
// fragment or another list; every file must reference a known list; every
// exception must name a known list or a fragment that appears in some list.
func (c *Config) Validate(known map[string]bool) error {
	var missing []string
	for _, name := range sortedListNames(c.FragmentLists) {
		for _, entry := range c.FragmentLists[name] {
			if _, isList := c.FragmentLists[entry]; isList {
				continue
			}
			if !known[entry] {
				missing = append(missing, entry)
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingFragments, strings.Join(dedupe(missing), ", "))
	}

	for _, name := range c.FileNames() {
		if err := c.validateFile(name, c.Files[name]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateFile(name string, f File) error {
	if _, ok := c.FragmentLists[f.FragmentList]; !ok {
		return fmt.Errorf("%w: %q in file %q", ErrMissingList, f.FragmentList, name)
	}

	var missing []string
	for _, exception := range f.FragmentListExceptions {
		if _, isList := c.FragmentLists[exception]; isList {
			continue
		}
		if !c.fragmentAppears(exception) {
			missing = append(missing, exception)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s in file %q", ErrMissingExceptions, strings.Join(missing, ", "), name)
	}
	return nil
}

// fragmentAppears reports whether any fragment list mentions name.
func (c *Config) fragmentAppears(name string) bool {
	for _, entries := range c.FragmentLists {
		for _, entry := range entries {
			if entry == name {
				return true
			}
		}
	}
	return false
}

// FileNames returns the configured file names, sorted for deterministic
// iteration.
func (c *Config) FileNames() []string {
	names := make([]string, 0, len(c.Files))
	for name := range c.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// File returns the named file entry.
func (c *Config) File(name string) (File, error) {
	f, ok := c.Files[name]
	if !ok {
		return File{}, fmt.Errorf("%w: %q", ErrFileNotFound, name)
	}
	return f, nil
}

// FilePath returns the full output path for the named file, including the
// general base path.
func (c *Config) FilePath(name string) (string, error) {
	f, err := c.File(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(c.General.BasePath, f.Path), nil
}

// FragmentList returns the named fragment list.
func (c *Config) FragmentList(name string) ([]string, error) {
	entries, ok := c.FragmentLists[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrListNotFound, name)
	}
	return entries, nil
}

// VarsFor returns the merged vars for the named file: the general vars with
// the file's own vars layered on top.
func (c *Config) VarsFor(name string) (Vars, error) {
	f, err := c.File(name)
	if err != nil {
		return nil, err
	}

	merged := make(Vars, len(c.General.Vars)+len(f.Vars))
	for k, v := range c.General.Vars {
		merged[k] = v
	}
	for k, v := range f.Vars {
		merged[k] = v
	}
	return merged, nil
}

func sortedListNames(lists map[string][]string) []string {
	names := make([]string, 0, len(lists))
	for name := range lists {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func dedupe(names []string) []string {
	seen := map[string]bool{}
	out := names[:0]
	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}
