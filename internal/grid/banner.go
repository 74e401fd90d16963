package grid

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/vault-md/launchdeck/internal/view"
)

var (
	loadingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Italic(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	footerStyle  = lipgloss.NewStyle().Faint(true)
)

// Banner returns the status line for phase, or "" when there is nothing to
// report.
func Banner(phase view.Phase, errMsg string) string {
	switch phase {
	case view.Loading:
		return loadingStyle.Render("Loading...")
	case view.Error:
		return errorStyle.Render(errMsg)
	default:
		return ""
	}
}

// Footer returns the pagination line.
func Footer(page, totalPages, total int) string {
	return footerStyle.Render(FooterText(page, totalPages, total))
}

// FooterText is Footer without styling.
func FooterText(page, totalPages, total int) string {
	return fmt.Sprintf("Page %d of %d (%d records)", page, totalPages, total)
}
