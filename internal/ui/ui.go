package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Aj4x/jiyu/internal/action"
	"github.com/Aj4x/jiyu/internal/config"
	"github.com/Aj4x/jiyu/internal/logger"
	"github.com/Aj4x/jiyu/internal/msgbus"
)

// StatusKind selects the colour of the status line
type StatusKind int

const (
	StatusReady StatusKind = iota
	StatusPending
	StatusSuccess
	StatusFailure
)

// Button is one entry of the button panel. Action is nil for the exit button.
type Button struct {
	Label   string
	Tooltip string
	Action  *config.Action
}

// IsExit reports whether the button closes the application
func (b Button) IsExit() bool {
	return b.Action == nil
}

// Result is the content of the result dialog
type Result struct {
	Title string
	Text  string
	OK    bool
}

// Model represents the UI model for the application
type Model struct {
	Config     config.Config
	Executor   *action.Executor
	MessageBus msgbus.PublisherSubscriber[action.Message]
	busHandler msgbus.MessageHandler[action.Message]
	logger     *slog.Logger

	Buttons   []Button
	Focused   int // index of the focused button
	Activated int // index of the button whose action ran last

	Status     string
	StatusKind StatusKind
	Busy       bool
	run        uint64 // run number of the action in flight or last finished
	Result     *Result

	Spinner      spinner.Model
	State        UIState
	HelpViewport viewport.Model
	KeyBindings  KeyBindings
	Styles       Styles

	Width       int
	Height      int
	Initialised bool
}

// NewModel creates a new UI model
func NewModel(cfg config.Config, exec *action.Executor, bus msgbus.PublisherSubscriber[action.Message], log *slog.Logger) Model {
	if log == nil {
		log = logger.Discard()
	}

	buttons := make([]Button, 0, len(cfg.Actions)+1)
	for i := range cfg.Actions {
		a := cfg.Actions[i]
		buttons = append(buttons, Button{Label: a.Label, Tooltip: a.Tooltip, Action: &a})
	}
	buttons = append(buttons, Button{Label: cfg.UI.ExitLabel, Tooltip: cfg.UI.ExitPrompt})

	return Model{
		Config:       cfg,
		Executor:     exec,
		MessageBus:   bus,
		busHandler:   make(msgbus.MessageHandler[action.Message], 64),
		logger:       log.With("component", "ui"),
		Buttons:      buttons,
		Status:       cfg.UI.Ready,
		StatusKind:   StatusReady,
		Spinner:      spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(PendingStyle)),
		State:        StateNormal,
		HelpViewport: viewport.New(0, 0),
		KeyBindings:  DefaultKeyBindings(),
		Styles:       NewStyles(cfg.UI.Scale),
	}
}

// View renders the UI
func (m Model) View() string {
	if !m.Initialised {
		return "Initialising..."
	}

	switch m.State {
	case StateResultDialog:
		return RenderResultDialog(m.Width, m.Height, m.Result)
	case StateExitConfirm:
		return RenderExitConfirm(m.Width, m.Height, m.Config.UI.ExitTitle, m.Config.UI.ExitPrompt)
	case StateHelpOverlay:
		return RenderHelpOverlay(&m)
	}

	header := lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.Render(m.Config.UI.Title),
		DescriptionStyle.Render(m.Config.UI.Description),
	)

	tooltip := ""
	if m.Focused >= 0 && m.Focused < len(m.Buttons) {
		tooltip = TooltipStyle.Render(m.Buttons[m.Focused].Tooltip)
	}

	status := StatusStyle(m.StatusKind).Render(m.Status)
	if m.Busy {
		status = m.Spinner.View() + " " + status
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		RenderButtons(m.Buttons, m.Focused, m.Busy, m.Styles),
		tooltip,
		"",
		status,
		"",
		FooterStyle.Render(m.Config.UI.Footer),
		m.KeyBindings.RenderHelpView(m.Busy, m.State),
	)
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	sub := func(topic msgbus.Topic) {
		_, err := m.MessageBus.Subscribe(topic, m.busHandler)
		if err != nil {
			panic(fmt.Errorf("failed to subscribe to '%s' topic: %w", topic, err))
		}
	}
	for _, t := range []msgbus.Topic{action.TopicStarted, action.TopicFinished} {
		sub(t)
	}
	return m.pollMessages()
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		return m.handleWindowSizeMsg(msg)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		if !m.Busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case TickMessage:
		return m, m.pollMessages()

	case RejectedMessage:
		return m.handleRejectedMsg(msg)

	// handle any bus messages
	case action.Message:
		newModel, cmd := m.handleBusMessage(msg)
		if cmd == nil {
			return newModel, newModel.pollMessages()
		}
		return newModel, tea.Batch(cmd, newModel.pollMessages())
	case msgbus.TopicMessage[action.Message]:
		newModel, cmd := m.handleBusMessage(msg.Message)
		if cmd == nil {
			return newModel, newModel.pollMessages()
		}
		return newModel, tea.Batch(cmd, newModel.pollMessages())
	default:
		return m, nil
	}
}

type TickMessage struct{}

// RejectedMessage is returned by the worker when the executor refused the action.
type RejectedMessage struct {
	Action config.Action
	Err    error
}

func (m Model) pollMessages() tea.Cmd {
	return tea.Tick(time.Millisecond*50, func(t time.Time) tea.Msg {
		select {
		case msg := <-m.busHandler:
			return msg.Message
		default:
			return TickMessage{}
		}
	})
}

// runAction runs a on a command goroutine. The outcome arrives through the bus.
func (m Model) runAction(a config.Action) tea.Cmd {
	exec := m.Executor
	return func() tea.Msg {
		_, err := exec.Run(context.Background(), a)
		if errors.Is(err, action.ErrBusy) || errors.Is(err, action.ErrUnknownKind) {
			return RejectedMessage{Action: a, Err: err}
		}
		return nil
	}
}

// activate presses the button at index i
func (m Model) activate(i int) (Model, tea.Cmd) {
	if m.Busy || i < 0 || i >= len(m.Buttons) {
		return m, nil
	}
	m.Focused = i
	b := m.Buttons[i]
	if b.IsExit() {
		m.State = StateExitConfirm
		return m, nil
	}

	a := *b.Action
	m.Activated = i
	m.Busy = true
	m.setStatus(a.Pending, StatusPending)
	m.logger.Debug("button pressed", "action", a.ID)
	return m, tea.Batch(m.Spinner.Tick, m.runAction(a))
}

func (m *Model) setStatus(text string, kind StatusKind) {
	m.Status = text
	m.StatusKind = kind
}

// handleWindowSizeMsg handles window resize events
func (m Model) handleWindowSizeMsg(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	if !m.Initialised {
		m.Initialised = true
	}
	m.HandleWindowResize(msg.Width, msg.Height)
	return m, nil
}

// HandleWindowResize handles window resize events
func (m *Model) HandleWindowResize(width, height int) {
	m.Width = width
	m.Height = height

	if m.State == StateHelpOverlay {
		m.sizeHelpViewport()
	}
}

func (m *Model) sizeHelpViewport() {
	overlayWidth := int(float64(m.Width) * 0.7)
	overlayHeight := int(float64(m.Height) * 0.7)
	m.HelpViewport.Width = overlayWidth - 6   // 6 = 2*2 padding + 2 border
	m.HelpViewport.Height = overlayHeight - 6 // Account for padding and borders
}
