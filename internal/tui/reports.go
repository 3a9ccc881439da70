package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/checkclock/internal/durfmt"
	"github.com/sadopc/checkclock/internal/engine"
	"github.com/sadopc/checkclock/internal/report"
	"github.com/sadopc/checkclock/internal/store"
)

const maxReportDays = 31

type reportsModel struct {
	engine *engine.Engine
	opts   report.Options
	width  int
	height int

	report *report.Report
	chart  barchart.Model
}

func newReportsModel(e *engine.Engine, opts report.Options) reportsModel {
	return reportsModel{
		engine: e,
		opts:   opts,
		chart:  barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

// refresh compacts finished days and rebuilds the report off the UI
// goroutine.
func (r reportsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		rep, err := report.Build(r.engine, r.opts)
		return reportDataMsg{report: rep, err: err}
	}
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportDataMsg:
		if msg.err != nil {
			return r, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Report error: %v", msg.err), isError: true}
			}
		}
		r.report = msg.report
		r.buildChart()
		if msg.report.CompactErr != nil {
			return r, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Compaction failed: %v", msg.report.CompactErr), isError: true}
			}
		}
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			if r.opts.Days < maxReportDays {
				r.opts.Days++
			}
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.opts.Days > 0 {
				r.opts.Days--
			}
			return r, r.refresh()
		case key.Matches(msg, keys.Refresh):
			return r, r.refresh()
		}
	}
	return r, nil
}

// buildChart draws one bar per reported day with the hours worked.
func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)
	if r.report == nil {
		return
	}

	var bars []barchart.BarData
	for _, d := range r.report.Days {
		label := d.Date
		if t, err := store.ParseDate(d.Date); err == nil {
			label = t.Format("Mon 02")
		}
		color := colorSuccess
		if d.Balance < 0 {
			color = colorError
		}
		bars = append(bars, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{{
				Name:  d.Date,
				Value: float64(d.Worked) / 3600.0,
				Style: lipgloss.NewStyle().Foreground(color),
			}},
		})
	}
	if len(bars) == 0 {
		bars = []barchart.BarData{{
			Label:  time.Now().Format("Mon 02"),
			Values: []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}},
		}}
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Report"), "  ",
		mutedStyle.Render(fmt.Sprintf("last %d days", r.opts.Days)),
	)

	if r.report == nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, header, "", mutedStyle.Render("  Loading...")),
		)
	}

	nav := mutedStyle.Render("  ←/→: more/fewer days  ctrl+r: refresh")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", r.renderDays(w), "", r.renderTotal(), "", nav,
		),
	)
}

func (r reportsModel) renderDays(w int) string {
	if len(r.report.Days) == 0 {
		return mutedStyle.Render("  No balance for this period")
	}

	var rows []string
	for i, d := range r.report.Days {
		if i > 0 {
			rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 24))))
		}
		rows = append(rows, fmt.Sprintf("  %s  %s",
			titleStyle.Render(d.Date),
			balanceStyle(d.Balance).Bold(true).Render(durfmt.HoursMinutes(d.Balance)),
		))
		for _, iv := range d.Intervals {
			rows = append(rows, "    "+report.Span(iv))
		}
	}
	return strings.Join(rows, "\n")
}

func (r reportsModel) renderTotal() string {
	label := fmt.Sprintf("  total balance (%d days): ", r.report.TotalDays)
	return titleStyle.Render(label) + balanceStyle(r.report.Total).Bold(true).Render(durfmt.HoursMinutes(r.report.Total))
}
