package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"legalsim-backend/internal/extract"
	"legalsim-backend/internal/upload"
)

// progressMsg carries one estimate from a running task.
type progressMsg struct {
	task     *upload.Task
	estimate upload.Estimate
}

// progressClosedMsg is sent once a task has reset its progress to 0.
type progressClosedMsg struct {
	task *upload.Task
}

// outcomeMsg is the settled analysis call for a task.
type outcomeMsg struct {
	task    *upload.Task
	outcome upload.Outcome
}

// notificationMsg is a toast raised by the uploader.
type notificationMsg upload.Notification

// fileLoadedMsg is a local file ready to submit.
type fileLoadedMsg struct {
	file extract.File
}

// fileErrorMsg reports a file that could not be read.
type fileErrorMsg struct {
	err error
}

func waitProgress(t *upload.Task) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-t.Progress()
		if !ok {
			return progressClosedMsg{task: t}
		}
		return progressMsg{task: t, estimate: e}
	}
}

func waitOutcome(t *upload.Task) tea.Cmd {
	return func() tea.Msg {
		out, ok := <-t.Done()
		if !ok {
			return nil
		}
		return outcomeMsg{task: t, outcome: out}
	}
}

func waitNotification(ch <-chan upload.Notification) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return notificationMsg(n)
	}
}
