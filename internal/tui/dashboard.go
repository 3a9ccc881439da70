package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/checkclock/internal/durfmt"
	"github.com/sadopc/checkclock/internal/engine"
	"github.com/sadopc/checkclock/internal/report"
	"github.com/sadopc/checkclock/internal/store"
)

// almostDone is how close to the daily target the clock turns amber.
const almostDone = 30 * 60

type todayModel struct {
	engine      *engine.Engine
	target      int64
	minDuration int64
	width       int
	height      int

	value  engine.TrackedValue
	polled bool
	// last tracked seconds, shown while paused
	seconds   int64
	intervals []store.BacklogInterval
	balance   int64
}

func newTodayModel(e *engine.Engine, minDuration int64) todayModel {
	return todayModel{
		engine:      e,
		target:      e.AvgWorkingTime(),
		minDuration: minDuration,
	}
}

func (d *todayModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d todayModel) loadData() tea.Cmd {
	return func() tea.Msg {
		intervals, err := d.engine.TodayIntervals()
		if err != nil {
			return todayDataMsg{err: err}
		}
		balance, err := d.engine.GetBalance(0, d.minDuration)
		return todayDataMsg{intervals: intervals, balance: balance, err: err}
	}
}

func (d todayModel) update(msg tea.Msg) (todayModel, tea.Cmd) {
	switch msg := msg.(type) {
	case valueMsg:
		if msg.err == nil {
			d.value = msg.value
			d.polled = true
			if msg.value.State == engine.Working {
				d.seconds = msg.value.Seconds
			}
		}
		return d, nil

	case todayDataMsg:
		if msg.err != nil {
			return d, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Error: %v", msg.err), isError: true}
			}
		}
		d.intervals = msg.intervals
		d.balance = msg.balance
		return d, nil
	}
	return d, nil
}

// indicator returns the short state marker shown in the footer as well.
func (d todayModel) indicator() string {
	if !d.polled {
		return ""
	}
	switch d.value.State {
	case engine.Paused:
		return warningStyle.Render("⏸  PAUSED")
	case engine.NotWorking:
		return mutedStyle.Render("✖  NOT A WORKING DAY")
	}
	return successStyle.Render("●  " + durfmt.Clock(d.value.Seconds))
}

func (d todayModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	contentWidth := d.width - 4
	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderClockPanel(contentWidth),
		d.renderIntervalsPanel(contentWidth),
	)
}

func (d todayModel) renderClockPanel(w int) string {
	target := d.target
	var clock, state string
	switch {
	case !d.polled:
		clock = clockPausedStyle.Width(w - 6).Render("--:--:--")
		state = mutedStyle.Render("loading")
	case d.value.State == engine.Paused:
		clock = clockPausedStyle.Width(w - 6).Render(durfmt.Clock(d.seconds))
		state = warningStyle.Render("⏸  PAUSED")
	case d.value.State == engine.NotWorking:
		clock = clockPausedStyle.Width(w - 6).Render("✖")
		state = mutedStyle.Render("not a working day")
	default:
		style := clockStyle
		if d.value.Seconds >= target {
			style = clockDoneStyle
		} else if d.value.Seconds >= target-almostDone {
			style = clockAlmostDoneStyle
		}
		clock = style.Width(w - 6).Render(durfmt.Clock(d.value.Seconds))
		state = successStyle.Render("●  WORKING")
	}

	summary := mutedStyle.Render(fmt.Sprintf("target %s  balance ", durfmt.HoursMinutes(target))) +
		balanceStyle(d.balance).Render(durfmt.HoursMinutes(d.balance))

	content := lipgloss.JoinVertical(lipgloss.Center, clock, state, summary)
	if d.polled && d.value.State == engine.Working {
		return activePanelStyle.Width(w).Render(content)
	}
	return panelStyle.Width(w).Render(content)
}

func (d todayModel) renderIntervalsPanel(w int) string {
	title := titleStyle.Render("Today")
	if len(d.intervals) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No work recorded yet"),
		)
		return panelStyle.Width(w).Render(content)
	}

	rows := []string{title}
	for _, iv := range d.intervals {
		rows = append(rows, "  "+highlightStyle.Render(report.Span(iv)))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
