package ui

import (
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

var scrollStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)

// scrollHint describes the parts of vp that are out of view
func scrollHint(vp viewport.Model) string {
	hint := ""
	if !vp.AtTop() {
		hint = "↑ More above"
	}
	if !vp.AtBottom() {
		if hint != "" {
			hint += "\n"
		}
		hint += "↓ Scroll for more"
	}
	return hint
}

// RenderHelpOverlay renders an overlay with all available commands
func RenderHelpOverlay(m *Model) string {
	overlayWidth := int(float64(m.Width) * 0.7)

	content := m.HelpViewport.View()
	if hint := scrollHint(m.HelpViewport); hint != "" {
		content += "\n" + scrollStyle.Render(hint)
	}

	return lipgloss.Place(
		m.Width,
		m.Height,
		lipgloss.Center,
		lipgloss.Center,
		GeneralOverlayStyle(overlayWidth).Render(content),
	)
}
