package cli

import "github.com/yaklabco/rustgen/pkg/fragment"

// Exit codes for rustgen.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitGenerateFailed indicates one or more files failed to generate.
	ExitGenerateFailed = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ExitCodeFromResult determines the exit code for a generation run.
func ExitCodeFromResult(result *fragment.Result) int {
	if result == nil {
		return ExitSuccess
	}
	if result.Failed() {
		return ExitGenerateFailed
	}
	return ExitSuccess
}
