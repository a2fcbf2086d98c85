package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/bootseq/internal/game"
	"github.com/abhisek/bootseq/internal/ui/theme"
)

const (
	MinWidth  = 72
	MinHeight = 20

	// CompactWidthThreshold switches the board from side-by-side to
	// stacked panels.
	CompactWidthThreshold = 100
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsCompactWidth returns true if the terminal width is in compact range.
func IsCompactWidth(width int) bool {
	return width < CompactWidthThreshold
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage renders the "terminal too small" message.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminal too small!\n\nPlease resize to at\nleast %d x %d\n\nCurrent: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

// Counters renders the steps, mistakes and best score of a frame. The
// step counter turns red once three or fewer steps remain.
func Counters(f game.Frame) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	stepStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	if f.Danger() {
		stepStyle = stepStyle.Foreground(theme.Error)
	}
	steps := dim.Render("Steps ") + stepStyle.Render(fmt.Sprintf("%d/%d", f.StepsRemaining, f.InitialBudget))

	m := fmt.Sprintf("%d", f.Mistakes)
	if f.MistakeLimit > 0 {
		m = fmt.Sprintf("%d/%d", f.Mistakes, f.MistakeLimit)
	}
	mistakes := dim.Render("Mistakes ") + lipgloss.NewStyle().Foreground(theme.Text).Render(m)

	best := dim.Render("Best ") + lipgloss.NewStyle().Foreground(theme.Secondary).Render(game.FormatBest(f.Best, f.HasBest))

	return steps + dim.Render("   ") + mistakes + dim.Render("   ") + best
}

// RenderHeader renders the application header bar.
func RenderHeader(title string, f game.Frame, width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("RAG2F boot")

	center := lipgloss.NewStyle().
		Foreground(theme.Text).
		Render(title)

	right := Counters(f)

	leftLen := lipgloss.Width(left)
	centerLen := lipgloss.Width(center)
	rightLen := lipgloss.Width(right)

	innerWidth := max(width-4, 0)
	leftGap := max((innerWidth-centerLen)/2-leftLen, 1)
	rightGap := max(innerWidth-leftLen-leftGap-centerLen-rightLen, 1)

	content := left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right

	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderStatus renders the status line in the frame's tone. A running tour
// is flagged on the right.
func RenderStatus(f game.Frame, width int) string {
	line := theme.ToneStyle(f.Tone).Render(firstLine(f.Message))
	if f.TourRunning {
		tag := lipgloss.NewStyle().Foreground(theme.Accent).Render("● tour")
		gap := max(width-2-lipgloss.Width(line)-lipgloss.Width(tag), 1)
		line += strings.Repeat(" ", gap) + tag
	}
	return lipgloss.NewStyle().Width(width).Padding(0, 1).Render(line)
}

// RenderFooter renders the footer with key hints.
func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		part := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) +
			" " +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description)
		parts = append(parts, part)
	}

	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(" " + strings.Join(parts, "   "))
}

// RenderFrame composes the full frame: header + content + status + footer.
func RenderFrame(header, content, status, footer string, width, height int) string {
	used := lipgloss.Height(header) + lipgloss.Height(status) + lipgloss.Height(footer)
	contentHeight := max(height-used, 0)

	styledContent := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	return strings.Join([]string{header, styledContent, status, footer}, "\n")
}

// ContentHeight returns the rows left for screen content once the header,
// status line and footer are drawn.
func ContentHeight(header, status, footer string, height int) int {
	return max(height-lipgloss.Height(header)-lipgloss.Height(status)-lipgloss.Height(footer), 0)
}

// firstLine keeps multi-line lesson text from pushing the footer away; the
// full text is shown in the task panel.
func firstLine(s string) string {
	head, _, _ := strings.Cut(s, "\n")
	return head
}
