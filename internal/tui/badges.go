// internal/tui/badges.go
package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/passageqa/internal/rag"
)

// renderIndexBadge returns a Lipgloss-styled badge describing the loaded index.
func renderIndexBadge(stats rag.Stats) string {
	badgeStyle := lipgloss.NewStyle().Background(lipgloss.Color("229")).Foreground(lipgloss.Color("0")).Padding(0, 1).MarginLeft(1)
	return badgeStyle.Render(formatIndexIndicator(stats))
}

func formatIndexIndicator(stats rag.Stats) string {
	if stats.Passages == 0 {
		return "Index: empty"
	}
	id := stats.BuildID.String()
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("Index: %d passages, dim %d, build %s", stats.Passages, stats.Dimension, id)
}

// renderTopKBadge returns a Lipgloss-styled badge with the current topK.
func renderTopKBadge(topK int) string {
	badgeStyle := lipgloss.NewStyle().Background(lipgloss.Color("255")).Foreground(lipgloss.Color("0")).Padding(0, 1)
	return badgeStyle.Render(fmt.Sprintf("topK: %d", topK))
}
