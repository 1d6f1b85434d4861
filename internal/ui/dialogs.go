package ui

import "github.com/charmbracelet/lipgloss"

func dialogWidth(width int) int {
	w := int(float64(width) * 0.5)
	if w < 30 {
		w = 30
	}
	return w
}

// RenderResultDialog renders the modal dialog shown when an action finishes
func RenderResultDialog(width, height int, result *Result) string {
	if result == nil {
		return ""
	}

	border, textStyle := FailureColor, FailureStyle
	if result.OK {
		border, textStyle = SuccessColor, SuccessStyle
	}

	content := DialogTitleStyle.Render(result.Title) + "\n"
	content += textStyle.Render(result.Text) + "\n"
	content += DialogHintStyle.Render("enter/esc: OK")

	overlay := DialogStyle(dialogWidth(width), border).Render(content)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		overlay,
	)
}

// RenderExitConfirm renders the exit confirmation dialog
func RenderExitConfirm(width, height int, title, prompt string) string {
	content := DialogTitleStyle.Render(title) + "\n"
	content += prompt + "\n"
	content += DialogHintStyle.Render("y/enter: yes • n/esc: no")

	overlay := DialogStyle(dialogWidth(width), lipgloss.Color("63")).Render(content)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		overlay,
	)
}
