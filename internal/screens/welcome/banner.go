package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pagequiz/internal/ui/theme"
)

const bannerArt = `╔═╗╔═╗╔═╗╔═╗  ╔═╗ ╦ ╦╦╔═╗
╠═╝╠═╣║ ╦║╣   ║═╬╗║ ║║╔═╝
╩  ╩ ╩╚═╝╚═╝  ╚═╝╚╚═╝╩╚═╝`

const bannerCompact = "P A G E Q U I Z"

// RenderBanner returns the banner styled in the primary color, falling back
// to spaced letters below 40 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 40 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
