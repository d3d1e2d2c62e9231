package msg

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ToastMsg displays a temporary status message in the footer. Failures
// go through ErrorMsg instead so they also reach the log.
type ToastMsg struct {
	Message  string
	Duration time.Duration
}

// ErrorMsg reports a failed async action. The navigator surfaces it as an
// error toast and logs the wrapped error.
type ErrorMsg struct {
	Context string // short action description, e.g. "rename note"
	Err     error
}

// ShowToast returns a command to show a toast message.
func ShowToast(message string, duration time.Duration) tea.Cmd {
	return func() tea.Msg {
		return ToastMsg{Message: message, Duration: duration}
	}
}

// ShowError returns a command to report a failed action.
func ShowError(context string, err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Context: context, Err: err}
	}
}
