package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/rustgen/pkg/fragment"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

// FormatFileResult formats a single generated file outcome as one line.
func (s *Styles) FormatFileResult(fileResult fragment.FileResult) string {
	path := s.FilePath.Render(fileResult.Path)

	switch {
	case fileResult.Err != nil:
		return fmt.Sprintf("%s %s: %s\n", s.Failed.Render("FAIL"), path, fileResult.Err)
	case fileResult.Written:
		return fmt.Sprintf("%s %s %s\n", s.Written.Render("write"), path,
			s.Dim.Render(fmt.Sprintf("(%d bytes)", fileResult.Bytes)))
	case fileResult.Unchanged:
		return fmt.Sprintf("%s %s\n", s.Unchanged.Render("  ok "), path)
	default:
		return fmt.Sprintf("%s %s %s\n", s.Written.Render(" gen "), path,
			s.Dim.Render(fmt.Sprintf("(%d bytes)", fileResult.Bytes)))
	}
}

// FormatSummaryOneLine formats generation statistics as a single line.
// Example: "4 files generated (2 written, 1 unchanged, 1 failed)".
func (s *Styles) FormatSummaryOneLine(stats fragment.Stats) string {
	fileWord := wordFiles
	if stats.Files == 1 {
		fileWord = wordFile
	}

	var parts []string
	if stats.Written > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d written", stats.Written)))
	}
	if stats.Unchanged > 0 {
		parts = append(parts, s.Dim.Render(fmt.Sprintf("%d unchanged", stats.Unchanged)))
	}
	if stats.Failed > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d failed", stats.Failed)))
	}

	msg := fmt.Sprintf("%d %s generated", stats.Files, fileWord)
	if len(parts) > 0 {
		msg += " (" + strings.Join(parts, ", ") + ")"
	}
	return msg + "\n"
}

// FormatSummary formats generation statistics as a summary block.
func (s *Styles) FormatSummary(stats fragment.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files generated:   " +
		s.SummaryValue.Render(strconv.Itoa(stats.Files)) + "\n")

	if stats.Written > 0 {
		builder.WriteString("  Files written:     " +
			s.Success.Render(strconv.Itoa(stats.Written)) + "\n")
	}

	if stats.Unchanged > 0 {
		builder.WriteString("  Files unchanged:   " +
			s.SummaryValue.Render(strconv.Itoa(stats.Unchanged)) + "\n")
	}

	if stats.Failed > 0 {
		builder.WriteString("  Files failed:      " +
			s.Failure.Render(strconv.Itoa(stats.Failed)) + "\n")
	}

	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	if stats.Failed > 0 {
		builder.WriteString(s.Failure.Render("Generation failed") + "\n")
	} else {
		builder.WriteString(s.Success.Render("Generation complete") + "\n")
	}

	return builder.String()
}
