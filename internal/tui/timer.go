package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/checkclock/internal/engine"
)

// Every engine call blocks on the ledger, so the UI only makes them inside a
// tea.Cmd and gets the result back as a message.

// tickCmd fires one tickMsg after interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// pollCmd asks the engine for its value, recording a tick when advance is
// set. The value itself arrives through the mirror, so only a failure comes
// back here.
func pollCmd(e *engine.Engine, advance bool) tea.Cmd {
	return func() tea.Msg {
		if _, err := e.GetValue(advance); err != nil {
			return valueMsg{err: err}
		}
		return nil
	}
}

// mirror subscribes to every value e publishes. A full buffer drops its
// oldest value so the latest one always gets through.
func mirror(e *engine.Engine) <-chan engine.TrackedValue {
	ch := make(chan engine.TrackedValue, 16)
	e.Subscribe(engine.ObserverFunc(func(v engine.TrackedValue) {
		for {
			select {
			case ch <- v:
				return
			default:
			}
			select {
			case <-ch:
			default:
			}
		}
	}))
	return ch
}

// waitForValue delivers the next mirrored value.
func waitForValue(ch <-chan engine.TrackedValue) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		return valueMsg{value: <-ch}
	}
}

func toggleCmd(e *engine.Engine) tea.Cmd {
	return func() tea.Msg {
		paused, err := e.TogglePaused()
		return pausedMsg{paused: paused, err: err}
	}
}
