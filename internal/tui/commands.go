package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Command factories for async operations

// StartCmd kicks off the first genre and page loads.
func StartCmd(b Browser) tea.Cmd {
	return func() tea.Msg {
		b.Start()
		return nil
	}
}

// AwaitWriteCmd waits for a local write and reports it on the status line.
// A failed write is already published as a WriteFailureMsg, so only success
// produces a message here.
func AwaitWriteCmd(done <-chan error, success string) tea.Cmd {
	if done == nil {
		return nil
	}
	return func() tea.Msg {
		if err := <-done; err != nil {
			return nil
		}
		return StatusMsg{Message: success}
	}
}

// ClearStatusCmd clears the status message after a delay
func ClearStatusCmd(seq int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ClearStatusMsg{seq: seq}
	})
}

// OpenLinkCmd opens url in the browser
func OpenLinkCmd(o LinkOpener, url string) tea.Cmd {
	return func() tea.Msg {
		if err := o.Open(url); err != nil {
			return ErrMsg{Err: err, Context: "opening " + url}
		}
		return StatusMsg{Message: "Opened " + url}
	}
}
