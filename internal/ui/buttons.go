package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// FitLabel truncates label to width terminal cells and centres it. Wide
// characters count as two cells.
func FitLabel(label string, width int) string {
	if width <= 0 {
		return ""
	}
	label = runewidth.Truncate(label, width, "…")
	gap := width - runewidth.StringWidth(label)
	left := gap / 2
	return strings.Repeat(" ", left) + label + strings.Repeat(" ", gap-left)
}

// RenderButtons renders the button panel, one button per row.
func RenderButtons(buttons []Button, focused int, busy bool, s Styles) string {
	inner := s.ButtonWidth - 2*s.Margin
	rows := make([]string, 0, len(buttons))
	for i, b := range buttons {
		style := s.Button
		switch {
		case busy:
			style = s.DisabledButton
		case i == focused:
			style = s.FocusedButton
		}
		label := b.Label
		if !b.IsExit() && i < 9 {
			label = string(rune('1'+i)) + ". " + label
		}
		rows = append(rows, style.Render(FitLabel(label, inner)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
