package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/bootseq/internal/ui/theme"
)

// PanelWidth splits a content width into board and detail columns. In
// compact mode both panels take the full width.
func PanelWidth(width int, compact bool) (board, detail int) {
	if compact {
		return width, width
	}
	board = min(max(width/3, 26), 34)
	return board, width - board - 1
}

// Centered places content in the middle of a width x height box.
func Centered(content string, width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Card wraps content in a rounded-border card of the given outer width.
// The active card gets the primary border colour.
func Card(content string, width int, active bool) string {
	style := theme.Card
	if active {
		style = theme.ActiveCard
	}
	return style.Width(max(width, 4)).Render(content)
}
