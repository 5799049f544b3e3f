// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldFile       = "file"
	FieldFiles      = "files"
	FieldConfig     = "config"
	FieldWorkingDir = "working_dir"

	// Generation fields.
	FieldJobs      = "jobs"
	FieldEdition   = "edition"
	FieldRustFmt   = "rustfmt"
	FieldFragments = "fragments"
	FieldList      = "list"

	// Statistics fields.
	FieldFilesWritten   = "files_written"
	FieldFilesUnchanged = "files_unchanged"
	FieldFilesFailed    = "files_failed"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
