package fragment

// FileResult is the outcome of generating one configured file.
type FileResult struct {
	// Name is the config file entry name.
	Name string

	// Path is the resolved output path.
	Path string

	// Source holds the generated text when generating to strings; empty
	// when writing to disk.
	Source string

	// Bytes is the size of the generated output.
	Bytes int

	// Written reports that the file on disk was created or updated.
	Written bool

	// Unchanged reports that the file on disk already matched.
	Unchanged bool

	// Err is the per-file failure, if any. Other files still generate.
	Err error
}

// Stats aggregates file outcomes for the CLI summary.
type Stats struct {
	// Files is the number of configured files processed.
	Files int

	// Written counts files created or updated on disk.
	Written int

	// Unchanged counts files that already matched their generated content.
	Unchanged int

	// Failed counts files whose generation errored.
	Failed int
}

// Result is the outcome of a generation run, in configuration order.
type Result struct {
	Files []FileResult
	Stats Stats
}

// Failed reports whether any file errored.
func (r *Result) Failed() bool {
	return r.Stats.Failed > 0
}

func (r *Result) accumulate(fr FileResult) {
	r.Files = append(r.Files, fr)
	r.Stats.Files++

	switch {
	case fr.Err != nil:
		r.Stats.Failed++
	case fr.Written:
		r.Stats.Written++
	case fr.Unchanged:
		r.Stats.Unchanged++
	}
}
