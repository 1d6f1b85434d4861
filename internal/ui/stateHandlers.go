package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// handleKeyMsg processes all keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if IsKeyMatch(msg, "ctrl+c") {
		return m, tea.Quit
	}

	// Input stays disabled until the running action reports back
	if m.Busy {
		return m, nil
	}

	switch m.State {
	case StateResultDialog:
		return m.handleResultDialogKey(msg)
	case StateExitConfirm:
		return m.handleExitConfirmKey(msg)
	case StateHelpOverlay:
		return m.handleHelpOverlayKey(msg)
	default: // StateNormal
		return m.handleNormalKey(msg)
	}
}

// handleNormalKey handles key presses when in the normal state
func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Exit
	if IsKeyMatch(msg, "q") || IsKeyMatch(msg, "esc") {
		m.Focused = len(m.Buttons) - 1
		m.State = StateExitConfirm
		return m, nil
	}

	// Move focus
	if IsKeyMatch(msg, "↑/k") || IsKeyMatch(msg, "shift+tab") {
		m.Focused = (m.Focused - 1 + len(m.Buttons)) % len(m.Buttons)
		return m, nil
	}
	if IsKeyMatch(msg, "↓/j") || IsKeyMatch(msg, "tab") {
		m.Focused = (m.Focused + 1) % len(m.Buttons)
		return m, nil
	}

	// Press focused button
	if IsKeyMatch(msg, "enter/space") {
		return m.activate(m.Focused)
	}

	// Run action by number
	if n, ok := DigitKey(msg); ok {
		if n > len(m.Config.Actions) {
			return m, nil
		}
		return m.activate(n - 1)
	}

	// Show help
	if IsKeyMatch(msg, "?") {
		m.State = StateHelpOverlay
		m.sizeHelpViewport()
		content := m.KeyBindings.GenerateHelpContent(int(float64(m.Width) * 0.7))
		m.HelpViewport.SetContent(content)
		m.HelpViewport.GotoTop()
		return m, nil
	}

	return m, nil
}

// handleResultDialogKey handles key presses while the result dialog is shown
func (m Model) handleResultDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if IsKeyMatch(msg, "enter/esc") {
		m.State = StateNormal
		m.Result = nil
		m.Focused = m.Activated
	}
	return m, nil
}

// handleExitConfirmKey handles key presses while the exit confirmation is shown
func (m Model) handleExitConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if IsKeyMatch(msg, "y/enter") {
		return m, tea.Quit
	}
	if IsKeyMatch(msg, "n/esc") {
		m.State = StateNormal
	}
	return m, nil
}

// handleHelpOverlayKey handles key presses when in the help overlay state
func (m Model) handleHelpOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Check for keys that close the help overlay
	if IsKeyMatch(msg, "esc") || IsKeyMatch(msg, "?") {
		m.State = StateNormal
		return m, nil
	}

	// Handle navigation within help overlay
	if IsKeyMatch(msg, "↑/k") {
		m.HelpViewport.LineUp(1)
	} else if IsKeyMatch(msg, "↓/j") {
		m.HelpViewport.LineDown(1)
	} else if IsKeyMatch(msg, "pgup/pgdn") {
		if msg.String() == "pgup" {
			m.HelpViewport.HalfViewUp()
		} else {
			m.HelpViewport.HalfViewDown()
		}
	} else if IsKeyMatch(msg, "home/end") {
		if msg.String() == "home" {
			m.HelpViewport.GotoTop()
		} else {
			m.HelpViewport.GotoBottom()
		}
	}
	return m, nil
}
