package ui

// UIState represents the different states of the UI
type UIState int

const (
	// StateNormal is the default state of the UI
	StateNormal UIState = iota

	// StateResultDialog is the state when an action result is shown
	StateResultDialog

	// StateExitConfirm is the state when the exit confirmation is shown
	StateExitConfirm

	// StateHelpOverlay is the state when the help overlay is active
	StateHelpOverlay
)

// String returns a string representation of the UIState
func (s UIState) String() string {
	switch s {
	case StateNormal:
		return "Normal"
	case StateResultDialog:
		return "ResultDialog"
	case StateExitConfirm:
		return "ExitConfirm"
	case StateHelpOverlay:
		return "HelpOverlay"
	default:
		return "Unknown"
	}
}
