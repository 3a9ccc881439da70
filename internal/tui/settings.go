package tui

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/checkclock/internal/calendar"
	"github.com/sadopc/checkclock/internal/config"
)

type settingsModel struct {
	cfg    *config.Config
	path   string
	width  int
	height int

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	tickLength     *string
	avgWorkingTime *string
	workingDays    *string
	mergeGap       *string
	minDuration    *string
	reportDays     *string
	totalDays      *string
	idleEnabled    *bool
}

func newSettingsModel(cfg *config.Config, path string) settingsModel {
	tl, awt, wd, mg, md, rd, td := "", "", "", "", "", "", ""
	idle := false
	return settingsModel{
		cfg:            cfg,
		path:           path,
		tickLength:     &tl,
		avgWorkingTime: &awt,
		workingDays:    &wd,
		mergeGap:       &mg,
		minDuration:    &md,
		reportDays:     &rd,
		totalDays:      &td,
		idleEnabled:    &idle,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsSavedMsg:
		if msg.err != nil {
			return s, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Save error: %v", msg.err), isError: true}
			}
		}
		return s, func() tea.Msg {
			return statusMsg{text: "Saved to " + msg.path + ", restart to apply"}
		}

	case tea.KeyMsg:
		if key.Matches(msg, keys.Enter) {
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	// Load current values
	*s.tickLength = strconv.FormatInt(s.cfg.TickLength, 10)
	*s.avgWorkingTime = secsToHours(s.cfg.AvgWorkingTime)
	*s.workingDays = s.cfg.WorkingDays
	*s.mergeGap = secsToMin(s.cfg.MergeGap)
	*s.minDuration = strconv.FormatInt(s.cfg.MinDuration, 10)
	*s.reportDays = strconv.Itoa(s.cfg.ReportDays)
	*s.totalDays = strconv.Itoa(s.cfg.TotalDays)
	*s.idleEnabled = s.cfg.Idle.Enabled

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Working days").
				Description("e.g. Mon-Fri or Tue,Wed-Sat").
				Value(s.workingDays).
				Validate(validateSchedule),
			huh.NewInput().Title("Daily target (hours)").Value(s.avgWorkingTime).Validate(validateHours),
			huh.NewInput().Title("Tick length (s)").Value(s.tickLength).Validate(validatePositive),
			huh.NewConfirm().Title("Freeze while the screen is locked").Value(s.idleEnabled),
		).Title("Tracking"),
		huh.NewGroup(
			huh.NewInput().Title("Merge gap (min)").Value(s.mergeGap).Validate(validateNonNegative),
			huh.NewInput().Title("Shortest interval kept (s)").Value(s.minDuration).Validate(validateNonNegative),
			huh.NewInput().Title("Days in report").Value(s.reportDays).Validate(validateNonNegative),
			huh.NewInput().Title("Days in total balance").Value(s.totalDays).Validate(validateNonNegative),
		).Title("Report"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.applyForm()
		return s, s.save()
	}

	return s, cmd
}

// applyForm copies the validated form values into the config.
func (s settingsModel) applyForm() {
	s.cfg.WorkingDays = *s.workingDays
	s.cfg.AvgWorkingTime = hoursToSecs(*s.avgWorkingTime)
	s.cfg.TickLength, _ = strconv.ParseInt(*s.tickLength, 10, 64)
	s.cfg.Idle.Enabled = *s.idleEnabled
	s.cfg.MergeGap = minToSecs(*s.mergeGap)
	s.cfg.MinDuration, _ = strconv.ParseInt(*s.minDuration, 10, 64)
	s.cfg.ReportDays, _ = strconv.Atoi(*s.reportDays)
	s.cfg.TotalDays, _ = strconv.Atoi(*s.totalDays)
}

func (s settingsModel) save() tea.Cmd {
	cfg, path := *s.cfg, s.path
	return func() tea.Msg {
		if err := cfg.Validate(); err != nil {
			return settingsSavedMsg{path: path, err: err}
		}
		return settingsSavedMsg{path: path, err: config.Save(path, &cfg)}
	}
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	rows := []string{title, ""}
	for _, kv := range s.rows() {
		label := lipgloss.NewStyle().Width(24).Render(kv[0])
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(kv[1])))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (s settingsModel) rows() [][2]string {
	idle := "off"
	if s.cfg.Idle.Enabled {
		idle = "on"
	}
	return [][2]string{
		{"config file", s.path},
		{"ledger", s.cfg.DBPath},
		{"working days", s.cfg.WorkingDays},
		{"daily target", secsToHours(s.cfg.AvgWorkingTime) + " hours"},
		{"tick length", fmt.Sprintf("%d s", s.cfg.TickLength)},
		{"idle freeze", idle},
		{"merge gap", secsToMin(s.cfg.MergeGap) + " min"},
		{"shortest interval", fmt.Sprintf("%d s", s.cfg.MinDuration)},
		{"report days", strconv.Itoa(s.cfg.ReportDays)},
		{"total balance days", strconv.Itoa(s.cfg.TotalDays)},
	}
}

func validateSchedule(v string) error {
	_, err := calendar.Parse(v)
	return err
}

func validateHours(v string) error {
	h, err := strconv.ParseFloat(v, 64)
	if err != nil || h < 0 || h > 24 {
		return errors.New("hours between 0 and 24")
	}
	return nil
}

func validatePositive(v string) error {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return errors.New("must be a positive number")
	}
	return nil
}

func validateNonNegative(v string) error {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return errors.New("must be zero or more")
	}
	return nil
}

func secsToMin(secs int64) string {
	return strconv.FormatInt(secs/60, 10)
}

func minToSecs(s string) int64 {
	mins, _ := strconv.ParseInt(s, 10, 64)
	return mins * 60
}

func secsToHours(secs int64) string {
	return strconv.FormatFloat(float64(secs)/3600, 'f', -1, 64)
}

func hoursToSecs(s string) int64 {
	hours, _ := strconv.ParseFloat(s, 64)
	return int64(hours * 3600)
}
