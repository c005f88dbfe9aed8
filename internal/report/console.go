package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"DiligenceScanner/internal/domain"
)

var (
	redStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("9"))

	yellowStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("11"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	detailStyle = lipgloss.NewStyle().
			Faint(true)
)

// ConsoleSummary renders a terminal-facing digest of the run's flags,
// severity-coloured so the queue can be triaged at a glance.
func ConsoleSummary(docs []domain.ExtractedDoc, flags []domain.Flag) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyzed %d documents, %d flags\n", len(docs), len(flags))
	if len(flags) == 0 {
		b.WriteString(okStyle.Render("No contradictions detected.") + "\n")
		return b.String()
	}

	for _, f := range flags {
		label := yellowStyle.Render(string(f.Severity))
		if f.Severity == domain.SeverityRed {
			label = redStyle.Render(string(f.Severity))
		}
		fmt.Fprintf(&b, "%s %s  %s\n", label, f.Type, f.Docs)
		fmt.Fprintf(&b, "  %s\n", detailStyle.Render(f.Detail))
	}

	return b.String()
}
