// Package style centralizes terminal styling for command output. Color is
// enabled only when stdout is a terminal and NO_COLOR is unset.
package style

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/davidmrtn/jobtree/pkg/relocate"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	subjectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

// Init configures the global color profile. It must run before any Render
// call so that piped output stays plain text.
func Init() {
	if os.Getenv("NO_COLOR") != "" || !isatty.IsTerminal(os.Stdout.Fd()) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// RenderResult renders a relocation result with the status label colored.
// The layout matches Result.String exactly.
func RenderResult(r *relocate.Result) string {
	label := fmt.Sprintf("[%s]", r.Status)
	if r.Status == relocate.StatusSuccess {
		label = successStyle.Render(label)
	} else {
		label = failureStyle.Render(label)
	}

	var b strings.Builder
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(r.Message)
	for _, out := range r.Outputs {
		b.WriteString("\n\t> ")
		b.WriteString(subjectStyle.Render(out.Subject))
		b.WriteString(": ")
		b.WriteString(out.Message)
	}
	return b.String()
}
