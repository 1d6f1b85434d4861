package ui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Aj4x/jiyu/internal/action"
)

func (m Model) handleBusMessage(message action.Message) (Model, tea.Cmd) {
	switch message.Type {
	case action.TypeStarted:
		return m.handleStartedMsg(message)
	case action.TypeFinished:
		return m.handleFinishedMsg(message)
	default:
		return m, nil
	}
}

// handleStartedMsg processes started messages. Deliveries are not ordered, so a
// started message for a run that already finished is ignored.
func (m Model) handleStartedMsg(msg action.Message) (Model, tea.Cmd) {
	if msg.Run <= m.run {
		return m, nil
	}
	m.run = msg.Run
	m.Busy = true
	m.setStatus(msg.Action.Pending, StatusPending)
	return m, nil
}

func (m Model) handleFinishedMsg(msg action.Message) (Model, tea.Cmd) {
	if msg.Run < m.run {
		return m, nil
	}
	m.run = msg.Run
	m.Busy = false

	ui := m.Config.UI
	if msg.OK {
		m.setStatus(msg.Action.Success, StatusSuccess)
		m.Result = &Result{Title: ui.SuccessTitle, Text: msg.Action.Success, OK: true}
	} else {
		m.setStatus(msg.Action.Failure, StatusFailure)
		m.Result = &Result{Title: ui.FailureTitle, Text: msg.Action.Failure}
	}
	if msg.Err != nil {
		m.logger.Warn("action error", "action", msg.Action.ID, "error", msg.Err)
	}
	m.State = StateResultDialog
	return m, nil
}

// handleRejectedMsg handles an action the executor refused. ErrBusy means another
// run owns the executor, and its finished message clears Busy.
func (m Model) handleRejectedMsg(msg RejectedMessage) (Model, tea.Cmd) {
	m.logger.Warn("action rejected", "action", msg.Action.ID, "error", msg.Err)
	if errors.Is(msg.Err, action.ErrBusy) {
		return m, nil
	}
	m.Busy = false
	m.setStatus(msg.Action.Failure, StatusFailure)
	return m, nil
}
