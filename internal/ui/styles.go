package ui

import (
	"math"

	"github.com/charmbracelet/lipgloss"
)

// Status colours
var (
	PendingColor = lipgloss.Color("#C86400")
	SuccessColor = lipgloss.Color("#007800")
	FailureColor = lipgloss.Color("#C80000")
)

const (
	baseButtonWidth = 24
	baseMargin      = 1
)

var (
	HelpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	TitleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	DescriptionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	TooltipStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	FooterStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	ReadyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	PendingStyle = lipgloss.NewStyle().Foreground(PendingColor).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor).Bold(true)
	FailureStyle = lipgloss.NewStyle().Foreground(FailureColor).Bold(true)
)

// Styles holds the styles whose size follows the configured scale.
type Styles struct {
	Scale       float64
	ButtonWidth int
	Margin      int

	Button         lipgloss.Style
	FocusedButton  lipgloss.Style
	DisabledButton lipgloss.Style
}

// NewStyles builds button styles for scale. Values below 1 are treated as 1.
func NewStyles(scale float64) Styles {
	if scale < 1 {
		scale = 1
	}
	width := int(math.Round(baseButtonWidth * scale))
	margin := int(math.Round(baseMargin * scale))

	base := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		Padding(0, margin).
		MarginLeft(2 * margin)

	return Styles{
		Scale:          scale,
		ButtonWidth:    width,
		Margin:         margin,
		Button:         base.BorderForeground(lipgloss.Color("240")),
		FocusedButton:  base.BorderForeground(lipgloss.Color("69")).Foreground(lipgloss.Color("229")).Bold(true),
		DisabledButton: base.BorderForeground(lipgloss.Color("236")).Foreground(lipgloss.Color("240")),
	}
}

// StatusStyle returns the style for a status line of the given kind.
func StatusStyle(kind StatusKind) lipgloss.Style {
	switch kind {
	case StatusPending:
		return PendingStyle
	case StatusSuccess:
		return SuccessStyle
	case StatusFailure:
		return FailureStyle
	default:
		return ReadyStyle
	}
}

func GeneralOverlayStyle(overlayWidth int) lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(1, 2).
		Width(overlayWidth)
}

// Dialog styles
var (
	DialogTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("63")).
				MarginBottom(1)
	DialogHintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)

func DialogStyle(overlayWidth int, border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 2).
		Width(overlayWidth)
}

// Help Text styles
var (
	HelpTextTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).MarginBottom(1)
	HelpTextSectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69")).MarginTop(1).MarginBottom(1)
	HelpTextCommandStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("241"))
)
