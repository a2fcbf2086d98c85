package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/bootseq/internal/ui/theme"
)

// ProgressBar displays a horizontal bar, used for the remaining budget
// and the number of modules online.
type ProgressBar struct {
	Label   string
	Value   int
	Total   int
	Width   int
	Warning bool
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, value, total, width int) ProgressBar {
	return ProgressBar{Label: label, Value: value, Total: total, Width: width}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string
	if p.Label != "" {
		result = lipgloss.NewStyle().Foreground(theme.TextDim).Render(p.Label) + " "
	}
	count := fmt.Sprintf(" %d/%d", p.Value, p.Total)

	barWidth := max(p.Width-lipgloss.Width(result)-len(count), 4)
	filled := 0
	if p.Total > 0 {
		filled = min(max(barWidth*p.Value/p.Total, 0), barWidth)
	}

	fill := theme.Secondary
	if p.Warning {
		fill = theme.Error
	}
	result += lipgloss.NewStyle().Background(fill).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(count)
	return result
}
