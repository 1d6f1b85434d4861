package ui

import (
	"fmt"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// KeyBindingSection represents a section of key bindings in the help text
type KeyBindingSection struct {
	Name        string       // Section name (e.g., "Navigation", "Actions")
	KeyBindings []KeyBinding // Key bindings in this section
}

// Context is a type alias for string representing UI contexts where key bindings are active
type Context string

// Context constants
const (
	ContextGlobal       Context = "global"
	ContextResultDialog Context = "resultDialog"
	ContextExitConfirm  Context = "exitConfirm"
	ContextHelpOverlay  Context = "helpOverlay"
)

// KeyBinding represents a single key binding with its key, description, and context
type KeyBinding struct {
	Key         string    // The key or key combination (e.g., "ctrl+c", "enter")
	Description string    // Description of what the key does
	Contexts    []Context // Contexts where this key binding is active
}

// KeyBindings contains all key bindings used in the application
type KeyBindings struct {
	Sections []KeyBindingSection // Sections of key bindings
}

// DefaultKeyBindings returns the default key bindings for the application
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		Sections: []KeyBindingSection{
			{
				Name: "Help",
				KeyBindings: []KeyBinding{
					{Key: "?", Description: "Show/hide help", Contexts: []Context{ContextGlobal, ContextHelpOverlay}},
				},
			},
			{
				Name: "Navigation",
				KeyBindings: []KeyBinding{
					{Key: "↑/↓/j/k", Description: "Move focus", Contexts: []Context{ContextGlobal, ContextHelpOverlay}},
					{Key: "tab/shift+tab", Description: "Next/previous button", Contexts: []Context{ContextGlobal}},
					{Key: "pgup/pgdn", Description: "Page up/down", Contexts: []Context{ContextHelpOverlay}},
					{Key: "home/end", Description: "Top/bottom", Contexts: []Context{ContextHelpOverlay}},
				},
			},
			{
				Name: "Actions",
				KeyBindings: []KeyBinding{
					{Key: "enter/space", Description: "Press button", Contexts: []Context{ContextGlobal}},
					{Key: "1-9", Description: "Run action", Contexts: []Context{ContextGlobal}},
					{Key: "q", Description: "Exit", Contexts: []Context{ContextGlobal}},
					{Key: "ctrl+c", Description: "Quit immediately", Contexts: []Context{ContextGlobal}},
				},
			},
			{
				Name: "Dialogs",
				KeyBindings: []KeyBinding{
					{Key: "enter/esc", Description: "Close result", Contexts: []Context{ContextResultDialog}},
					{Key: "y/enter", Description: "Confirm exit", Contexts: []Context{ContextExitConfirm}},
					{Key: "n/esc", Description: "Cancel exit", Contexts: []Context{ContextExitConfirm}},
				},
			},
		},
	}
}

// GetKeyBindingsForContext returns all key bindings for a specific context
func (kb KeyBindings) GetKeyBindingsForContext(context Context) []KeyBinding {
	var bindings []KeyBinding
	for _, section := range kb.Sections {
		for _, binding := range section.KeyBindings {
			for _, ctx := range binding.Contexts {
				if ctx == context {
					bindings = append(bindings, binding)
					break
				}
			}
		}
	}
	return bindings
}

// contextFor maps a UI state to the bindings shown in the help bar.
func contextFor(state UIState) Context {
	switch state {
	case StateResultDialog:
		return ContextResultDialog
	case StateExitConfirm:
		return ContextExitConfirm
	case StateHelpOverlay:
		return ContextHelpOverlay
	default:
		return ContextGlobal
	}
}

// RenderHelpView renders the help text at the bottom of the screen using the key bindings
func (kb KeyBindings) RenderHelpView(busy bool, state UIState) string {
	var help []string
	for _, binding := range kb.GetKeyBindingsForContext(contextFor(state)) {
		// Only ctrl+c works while an action is running
		if busy && binding.Key != "ctrl+c" {
			continue
		}
		help = append(help, fmt.Sprintf("%s: %s", binding.Key, binding.Description))
	}
	return HelpStyle.Render(strings.Join(help, " • "))
}

// GenerateHelpContent creates the help content with a two-column layout using the key bindings
func (kb KeyBindings) GenerateHelpContent(overlayWidth int) string {
	contentWidth := overlayWidth - 6      // 6 = 2*2 padding + 2 border
	columnWidth := (contentWidth / 2) - 2 // 2 for spacing between columns

	content := HelpTextTitleStyle.Render("Help - Available Commands")

	bi, ok := debug.ReadBuildInfo()
	if ok {
		content += HelpStyle.Render("\n" + bi.Main.Version)
	}

	content += "\n\n"

	for _, section := range kb.Sections {
		content += HelpTextSectionStyle.Render(section.Name) + "\n"

		bindings := section.KeyBindings
		midpoint := (len(bindings) + 1) / 2

		col1Content := ""
		for _, binding := range bindings[:midpoint] {
			col1Content += HelpTextCommandStyle.Render(binding.Key+": ") + binding.Description + "\n"
		}
		col1 := lipgloss.NewStyle().Width(columnWidth).Render(col1Content)

		col2Content := ""
		for _, binding := range bindings[midpoint:] {
			col2Content += HelpTextCommandStyle.Render(binding.Key+": ") + binding.Description + "\n"
		}
		col2 := lipgloss.NewStyle().Width(columnWidth).Render(col2Content)

		content += lipgloss.JoinHorizontal(lipgloss.Top, col1, "  ", col2) + "\n\n"
	}

	return content
}

// IsKeyMatch checks if a key message matches a key binding
func IsKeyMatch(msg tea.KeyMsg, keyBinding string) bool {
	// Handle special cases for key combinations
	switch keyBinding {
	case "↑/k":
		return msg.String() == "up" || msg.String() == "k"
	case "↓/j":
		return msg.String() == "down" || msg.String() == "j"
	case "enter/space":
		return msg.String() == "enter" || msg.String() == " "
	case "enter/esc":
		return msg.String() == "enter" || msg.String() == "esc"
	case "y/enter":
		return msg.String() == "y" || msg.String() == "Y" || msg.String() == "enter"
	case "n/esc":
		return msg.String() == "n" || msg.String() == "N" || msg.String() == "esc"
	case "pgup/pgdn":
		return msg.String() == "pgup" || msg.String() == "pgdown"
	case "home/end":
		return msg.String() == "home" || msg.String() == "end"
	default:
		return msg.String() == keyBinding
	}
}

// DigitKey returns n for the keys "1".."9".
func DigitKey(msg tea.KeyMsg) (int, bool) {
	s := msg.String()
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return 0, false
	}
	return int(s[0] - '0'), true
}
