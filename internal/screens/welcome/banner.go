package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/bootseq/internal/ui/theme"
)

const bannerArt = `
 ██████╗  ██████╗  ██████╗ ████████╗███████╗███████╗ ██████╗
 ██╔══██╗██╔═══██╗██╔═══██╗╚══██╔══╝██╔════╝██╔════╝██╔═══██╗
 ██████╔╝██║   ██║██║   ██║   ██║   ███████╗█████╗  ██║   ██║
 ██╔══██╗██║   ██║██║   ██║   ██║   ╚════██║██╔══╝  ██║▄▄ ██║
 ██████╔╝╚██████╔╝╚██████╔╝   ██║   ███████║███████╗╚██████╔╝
 ╚═════╝  ╚═════╝  ╚═════╝    ╚═╝   ╚══════╝╚══════╝ ╚══▀▀═╝`

const bannerCompact = "B O O T S E Q"

// bannerWidth is the widest line of bannerArt.
const bannerWidth = 62

// RenderBanner returns the banner, or a one-line fallback when the
// terminal is too narrow for the block letters.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
