package tui

import (
	"time"

	"github.com/sadopc/checkclock/internal/engine"
	"github.com/sadopc/checkclock/internal/report"
	"github.com/sadopc/checkclock/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewToday viewState = iota
	viewReport
	viewSettings
)

var viewNames = []string{"Today", "Report", "Settings"}

// --- Messages ---

type tickMsg time.Time

// valueMsg carries a value the engine published, or a failed poll, back to
// the UI goroutine.
type valueMsg struct {
	value engine.TrackedValue
	err   error
}

type pausedMsg struct {
	paused bool
	err    error
}

type todayDataMsg struct {
	intervals []store.BacklogInterval
	balance   int64
	err       error
}

type reportDataMsg struct {
	report *report.Report
	err    error
}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

type settingsSavedMsg struct {
	path string
	err  error
}
