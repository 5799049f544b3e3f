package fragment

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/yaklabco/rustgen/pkg/config"
	"github.com/yaklabco/rustgen/pkg/format"
	"github.com/yaklabco/rustgen/pkg/fsutil"
	"github.com/yaklabco/rustgen/pkg/uses"
)

// blankMarker separates assembled sections; the post-processor turns it
// into a real blank line after formatting.
const blankMarker = "_blank_!();"

// warningHeader is the notice placed at the top of every generated file,
// emitted as comment markers so it survives formatting.
//
//nolint:gochecknoglobals // Read-only header text.
var warningHeader = []string{
	"WARNING: This file has been auto-generated using rustgen.",
	"Any manual modifications to this file will be overwritten",
	"the next time this file is generated.",
}

// Options configures a Generator.
type Options struct {
	// Jobs bounds generation concurrency. Zero or negative means one
	// worker per CPU; the count is further capped at the number of files.
	Jobs int

	// RustFmtPath overrides the configured rustfmt executable. The CLI
	// resolves the RUSTFMT environment variable into this.
	RustFmtPath string

	// Formatter overrides the formatter built from the config. Tests use
	// this to generate without a rustfmt installation.
	Formatter format.Formatter
}

// Generator builds every configured file from the registered fragments.
type Generator struct {
	cfg       *config.Config
	reg       *Registry
	formatter format.Formatter
	jobs      int
}

// NewGenerator validates cfg against the registry and prepares a generator.
// Every fragment named by a fragment list must be registered, every file's
// list and exceptions must resolve, and the rustfmt settings must be
// well-formed.
func NewGenerator(cfg *config.Config, reg *Registry, opts Options) (*Generator, error) {
	if err := cfg.Validate(reg.Names()); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	formatter := opts.Formatter
	if formatter == nil {
		var err error
		formatter, err = buildFormatter(cfg, opts.RustFmtPath)
		if err != nil {
			return nil, err
		}
	}

	return &Generator{cfg: cfg, reg: reg, formatter: formatter, jobs: opts.Jobs}, nil
}

// buildFormatter assembles the formatter the config asks for: rustfmt with
// marker post-processing, or marker replacement alone when the final format
// pass is skipped.
func buildFormatter(cfg *config.Config, pathOverride string) (format.Formatter, error) {
	post := format.PostProcessMarkers
	if cfg.General.ReplaceDocBlocks {
		post = format.PostProcessMarkersAndDocBlocks
	}

	if cfg.General.RustFmt.SkipFinalFormat {
		return format.NewMarkerOnly(post), nil
	}

	path := pathOverride
	if path == "" {
		path = cfg.General.RustFmt.Path
	}

	return format.NewRustFmt(format.RustFmtOptions{
		Path:        path,
		Edition:     format.Edition(cfg.General.RustFmt.Edition),
		Config:      cfg.General.RustFmt.Options,
		PostProcess: post,
	})
}

// GenerateStrings generates every configured file and returns the sources
// in the results instead of writing them.
func (g *Generator) GenerateStrings(ctx context.Context) (*Result, error) {
	return g.generate(ctx, false)
}

// GenerateFiles generates every configured file and writes each to its
// configured path, atomically, skipping files whose content is unchanged.
func (g *Generator) GenerateFiles(ctx context.Context) (*Result, error) {
	return g.generate(ctx, true)
}

func (g *Generator) generate(ctx context.Context, write bool) (*Result, error) {
	names := g.cfg.FileNames()

	result := &Result{Files: make([]FileResult, 0, len(names))}
	if len(names) == 0 {
		return result, nil
	}

	jobs := g.jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if jobs > len(names) {
		jobs = len(names)
	}

	workCh := make(chan string)
	outCh := make(chan FileResult)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.worker(ctx, workCh, outCh, write)
		}()
	}

	go func() {
		defer close(workCh)
		for _, name := range names {
			select {
			case <-ctx.Done():
				return
			case workCh <- name:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	// Workers finish out of order; collect by name and rebuild in config
	// order.
	outcomes := make(map[string]FileResult, len(names))
	for fr := range outCh {
		outcomes[fr.Name] = fr
	}

	for _, name := range names {
		if fr, ok := outcomes[name]; ok {
			result.accumulate(fr)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("generate cancelled: %w", ctx.Err())
	}
	return result, nil
}

func (g *Generator) worker(ctx context.Context, workCh <-chan string, outCh chan<- FileResult, write bool) {
	for name := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		fr := g.generateOne(ctx, name, write)

		select {
		case <-ctx.Done():
			return
		case outCh <- fr:
		}
	}
}

func (g *Generator) generateOne(ctx context.Context, name string, write bool) FileResult {
	fr := FileResult{Name: name}

	path, err := g.cfg.FilePath(name)
	if err != nil {
		fr.Err = err
		return fr
	}
	fr.Path = path

	source, err := g.buildSource(ctx, name)
	if err != nil {
		fr.Err = fmt.Errorf("generate %s: %w", name, err)
		return fr
	}
	fr.Bytes = len(source)

	if !write {
		fr.Source = source
		return fr
	}

	if err := fsutil.EnsureDir(path); err != nil {
		fr.Err = err
		return fr
	}

	written, err := fsutil.WriteAtomicIfChanged(ctx, path, []byte(source), 0)
	if err != nil {
		fr.Err = err
		return fr
	}
	fr.Written = written
	fr.Unchanged = !written
	return fr
}

// collector gathers fragment contributions for one file.
type collector struct {
	tops   []string
	bodies []string
	uses   *uses.Builder
}

// buildSource assembles and formats the named file: warning header, top
// sections, merged use sections, then fragment bodies separated by blank
// markers.
func (g *Generator) buildSource(ctx context.Context, name string) (string, error) {
	file, err := g.cfg.File(name)
	if err != nil {
		return "", err
	}
	vars, err := g.cfg.VarsFor(name)
	if err != nil {
		return "", err
	}
	entries, err := g.cfg.FragmentList(file.FragmentList)
	if err != nil {
		return "", err
	}

	exceptions := make(map[string]bool, len(file.FragmentListExceptions))
	for _, e := range file.FragmentListExceptions {
		exceptions[e] = true
	}

	col := collector{uses: uses.NewBuilder()}
	seen := map[string]bool{file.FragmentList: true}
	if err := g.collect(entries, exceptions, vars, &col, seen); err != nil {
		return "", err
	}

	raw, err := g.assemble(&col)
	if err != nil {
		return "", err
	}

	formatted, err := g.formatter.Format(ctx, raw)
	if err != nil {
		return "", err
	}
	return formatted, nil
}

// collect walks a fragment list, expanding references to other lists in
// place and skipping exceptions, and gathers each fragment's sections. seen
// tracks lists already being expanded so a reference cycle errors instead of
// recursing forever.
func (g *Generator) collect(entries []string, exceptions map[string]bool, vars config.Vars, col *collector, seen map[string]bool) error {
	for _, entry := range entries {
		if exceptions[entry] {
			continue
		}

		if sub, isList := g.cfg.FragmentLists[entry]; isList {
			if seen[entry] {
				return fmt.Errorf("fragment list %q references itself", entry)
			}
			seen[entry] = true
			if err := g.collect(sub, exceptions, vars, col, seen); err != nil {
				return err
			}
			continue
		}

		frag, ok := g.reg.Get(entry)
		if !ok {
			// Validation makes this unreachable in practice.
			return fmt.Errorf("fragment %q not registered", entry)
		}

		useSrc, err := frag.Uses(vars)
		if err != nil {
			return fmt.Errorf("fragment %q uses: %w", entry, err)
		}
		if useSrc != "" {
			if err := col.uses.Add(useSrc); err != nil {
				return fmt.Errorf("fragment %q uses: %w", entry, err)
			}
		}

		top, err := frag.Top(vars)
		if err != nil {
			return fmt.Errorf("fragment %q top: %w", entry, err)
		}
		if top != "" {
			col.tops = append(col.tops, top)
		}

		body, err := frag.Body(vars)
		if err != nil {
			return fmt.Errorf("fragment %q body: %w", entry, err)
		}
		if body != "" {
			col.bodies = append(col.bodies, body)
		}
	}
	return nil
}

// assemble stitches the collected sections into marker-bearing source ready
// for formatting.
func (g *Generator) assemble(col *collector) (string, error) {
	var sb strings.Builder

	for _, line := range headerMarkers() {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteString(blankMarker)
	sb.WriteByte('\n')

	for _, top := range col.tops {
		writeChunk(&sb, top)
	}
	if len(col.tops) > 0 {
		sb.WriteString(blankMarker)
		sb.WriteByte('\n')
	}

	sections, err := col.uses.Sections()
	if err != nil {
		return "", err
	}
	for _, section := range [][]string{sections.Std, sections.External, sections.Crate} {
		if len(section) == 0 {
			continue
		}
		for _, item := range section {
			sb.WriteString(item)
			sb.WriteByte('\n')
		}
		sb.WriteString(blankMarker)
		sb.WriteByte('\n')
	}

	for i, body := range col.bodies {
		if i > 0 {
			sb.WriteString(blankMarker)
			sb.WriteByte('\n')
		}
		writeChunk(&sb, body)
	}

	return sb.String(), nil
}

// writeChunk appends source text, normalizing to exactly one trailing
// newline so markers always start a line.
func writeChunk(sb *strings.Builder, chunk string) {
	sb.WriteString(strings.TrimRight(chunk, "\n"))
	sb.WriteByte('\n')
}

// headerMarkers renders the warning notice as comment markers inside a
// boxed border sized to the longest line.
func headerMarkers() []string {
	width := 0
	for _, line := range warningHeader {
		if len(line) > width {
			width = len(line)
		}
	}

	border := "+" + strings.Repeat("-", width+2) + "+"

	lines := make([]string, 0, len(warningHeader)+2)
	lines = append(lines, commentMarker(border))
	for _, line := range warningHeader {
		padded := "| " + line + strings.Repeat(" ", width-len(line)) + " |"
		lines = append(lines, commentMarker(padded))
	}
	lines = append(lines, commentMarker(border))
	return lines
}

func commentMarker(text string) string {
	return fmt.Sprintf("_comment_!(%q);", text)
}
