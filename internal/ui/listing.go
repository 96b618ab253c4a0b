package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ListEntry is a single name/description pair in a command listing.
type ListEntry struct {
	Name string
	Help string
}

// RenderListing formats a titled two-column listing of names and descriptions,
// used when a command group is invoked without a subcommand.
func RenderListing(title string, entries []ListEntry) string {
	var b strings.Builder

	nameStyle := lipgloss.NewStyle().Foreground(ColorSecondary)
	helpStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	b.WriteString(title + "\n")

	width := 0
	for _, e := range entries {
		if len(e.Name) > width {
			width = len(e.Name)
		}
	}

	for _, e := range entries {
		padded := fmt.Sprintf("%-*s", width, e.Name)
		if e.Help != "" {
			b.WriteString(fmt.Sprintf("  %s  %s\n", nameStyle.Render(padded), helpStyle.Render(e.Help)))
		} else {
			b.WriteString(fmt.Sprintf("  %s\n", nameStyle.Render(padded)))
		}
	}

	return b.String()
}
