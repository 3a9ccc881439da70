// Package tui is the interactive host of the engine: it ticks it on a timer,
// shows today's clock, a balance report and the settings.
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/checkclock/internal/config"
	"github.com/sadopc/checkclock/internal/engine"
	"github.com/sadopc/checkclock/internal/export"
	"github.com/sadopc/checkclock/internal/report"
)

// App is the root Bubble Tea model.
type App struct {
	engine   *engine.Engine
	values   <-chan engine.TrackedValue
	cfg      *config.Config
	interval time.Duration
	width    int
	height   int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	today    todayModel
	reports  reportsModel
	settings settingsModel

	help   help.Model
	status string
}

// NewApp builds the UI for e. cfgPath is where the settings view saves.
func NewApp(e *engine.Engine, cfg *config.Config, cfgPath string) App {
	h := help.New()
	h.ShowAll = false

	return App{
		engine:     e,
		values:     mirror(e),
		cfg:        cfg,
		interval:   time.Duration(cfg.TickLength) * time.Second,
		activeView: viewToday,
		today:      newTodayModel(e, cfg.BalanceMinDuration),
		reports: newReportsModel(e, report.Options{
			Days:        cfg.ReportDays,
			TotalDays:   cfg.TotalDays,
			MinDuration: cfg.BalanceMinDuration,
		}),
		settings: newSettingsModel(cfg, cfgPath),
		help:     h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		waitForValue(a.values),
		pollCmd(a.engine, false),
		a.today.loadData(),
		tickCmd(a.interval),
	)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.today.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Pause):
			return a, toggleCmd(a.engine)
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewToday
			return a, a.today.loadData()
		case key.Matches(msg, keys.Tab2), key.Matches(msg, keys.Report):
			a.activeView = viewReport
			return a, a.reports.refresh()
		case key.Matches(msg, keys.Tab3), key.Matches(msg, keys.Settings):
			a.activeView = viewSettings
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		// The next tick is scheduled right away so a slow ledger does not
		// stretch the interval.
		return a, tea.Batch(tickCmd(a.interval), pollCmd(a.engine, true))

	case valueMsg:
		if msg.err != nil {
			a.status = fmt.Sprintf("Tick failed: %v", msg.err)
			return a, nil
		}
		cmds := []tea.Cmd{waitForValue(a.values)}
		var cmd tea.Cmd
		a.today, cmd = a.today.update(msg)
		cmds = append(cmds, cmd)
		if a.activeView == viewToday {
			cmds = append(cmds, a.today.loadData())
		}
		return a, tea.Batch(cmds...)

	case pausedMsg:
		if msg.err != nil {
			a.status = fmt.Sprintf("Pause failed: %v", msg.err)
			return a, nil
		}
		a.status = "Resumed"
		if msg.paused {
			a.status = "Paused"
		}
		return a, nil

	case todayDataMsg:
		var cmd tea.Cmd
		a.today, cmd = a.today.update(msg)
		return a, cmd

	case reportDataMsg:
		var cmd tea.Cmd
		a.reports, cmd = a.reports.update(msg)
		return a, cmd

	case statusMsg:
		a.status = msg.text
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewToday:
		a.today, cmd = a.today.update(msg)
	case viewReport:
		a.reports, cmd = a.reports.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	return a.activeView == viewSettings && a.settings.formActive
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewToday:
		return a.today.loadData()
	case viewReport:
		return a.reports.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewToday:
		content = a.today.view()
	case viewReport:
		content = a.reports.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	// Show export picker overlay
	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("checkclock")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	left := footerStyle.Render(helpView)
	right := " " + a.today.indicator() + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	formats := []string{"CSV", "JSON"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("compacted days of the last %d days", a.cfg.TotalDays)))
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	e, days := a.engine, a.cfg.TotalDays
	return func() tea.Msg {
		if err := e.Compact(); err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		data, err := export.Load(e.Store(), e.Date(days), e.Date(0), e.AvgWorkingTime())
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		home, _ := os.UserHomeDir()
		dateStr := e.Date(0)

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("checkclock-export-%s.csv", dateStr))
			if err := export.ToCSV(data, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(home, fmt.Sprintf("checkclock-export-%s.json", dateStr))
			if err := export.ToJSON(data, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
