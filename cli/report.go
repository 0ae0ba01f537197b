// ABOUTME: Shared rendering of validation outcomes for CLI commands
// ABOUTME: Prints issue lists with lipgloss styles and maps rejections to ErrRejected
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/mandato/schema"
)

// ErrRejected is returned after a command has already printed why one or
// more records failed validation. main exits 1 without repeating it.
var ErrRejected = errors.New("records rejected")

var (
	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("10")).
		Bold(true)

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Width(18)

	codeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

func printIssues(out io.Writer, issues []schema.Issue) {
	for _, issue := range issues {
		path := issue.Path
		if path == "" {
			path = "(record)"
		}
		_, _ = fmt.Fprintf(out, "  %s %s %s\n", pathStyle.Render(path), issue.Message, codeStyle.Render("["+issue.Code+"]"))
	}
}

// reportWriteError prints validation issues for a failed create/update and
// returns ErrRejected; other errors are wrapped with action.
func reportWriteError(out io.Writer, action string, err error) error {
	verr, ok := schema.AsValidationError(err)
	if !ok {
		return fmt.Errorf("failed to %s: %w", action, err)
	}
	_, _ = fmt.Fprintln(out, failStyle.Render(fmt.Sprintf("✗ Invalid %s (%d issue(s))", verr.Entity, len(verr.Issues))))
	printIssues(out, verr.Issues)
	return ErrRejected
}
