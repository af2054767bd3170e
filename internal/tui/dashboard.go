package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/melcan/fastbite/internal/health"
	"github.com/melcan/fastbite/internal/profile"
	"github.com/melcan/fastbite/internal/store"
)

type dashboardModel struct {
	store  *store.Store
	prof   profile.Profile
	width  int
	height int

	log     *store.DailyLog
	metrics health.Metrics
}

func newDashboardModel(s *store.Store, prof profile.Profile) dashboardModel {
	d := dashboardModel{store: s, prof: prof}
	d.refresh()
	return d
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d *dashboardModel) applyProfile(p profile.Profile) {
	d.prof = p
	d.refresh()
}

func (d *dashboardModel) refresh() {
	log, err := d.store.GetOrCreateLog(today(), d.prof)
	if err == nil {
		d.log = log
	}
}

// loadHealthCmd reads today's wearable metrics from the configured snapshot
// file. Partial data is kept; a fully empty read clears the panel.
func (d dashboardModel) loadHealthCmd() tea.Cmd {
	path, err := d.store.GetSetting("health_file")
	if err != nil || strings.TrimSpace(path) == "" {
		return nil
	}
	provider := &health.FileProvider{Path: path}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		metrics := health.Aggregate(ctx, provider, today())
		return healthDataMsg{metrics: metrics}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case healthDataMsg:
		d.metrics = msg.metrics
	case fastingStartedMsg, fastingEndedMsg:
		d.refresh()
	}
	return d, nil
}

func (d dashboardModel) view() string {
	w := d.width - 4

	title := titleStyle.Render("Dashboard — " + time.Now().Format("Monday, Jan 2"))

	var sections []string
	sections = append(sections, title, "")
	sections = append(sections, d.renderCalories())
	sections = append(sections, "", d.renderMacros())

	if target := d.renderTarget(); target != "" {
		sections = append(sections, "", target)
	}
	if hp := d.renderHealth(); hp != "" {
		sections = append(sections, "", hp)
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (d dashboardModel) renderCalories() string {
	if d.log == nil {
		return mutedStyle.Render("No data for today yet.")
	}
	goal := d.log.Goals.Calories
	eaten := d.log.Totals.Calories
	remaining := goal - eaten

	bar := renderBar(eaten, goal, 30)
	line := fmt.Sprintf("Calories  %s  %d / %d kcal", bar, eaten, goal)
	if d.log.IsRefeedDay {
		line += "  " + warningStyle.Render("[refeed]")
	}

	var hint string
	if remaining >= 0 {
		hint = successStyle.Render(fmt.Sprintf("%d kcal remaining", remaining))
	} else {
		hint = errorStyle.Render(fmt.Sprintf("%d kcal over goal", -remaining))
	}
	return line + "\n" + hint
}

func (d dashboardModel) renderMacros() string {
	if d.log == nil {
		return ""
	}
	row := func(name string, have, want float64) string {
		return fmt.Sprintf("%-8s %s  %.0f / %.0f g", name, renderBar(int(have), int(want), 20), have, want)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		row("Protein", d.log.Totals.ProteinG, d.log.Goals.ProteinG),
		row("Carbs", d.log.Totals.CarbsG, d.log.Goals.CarbsG),
		row("Fat", d.log.Totals.FatG, d.log.Goals.FatG),
	)
}

func (d dashboardModel) renderTarget() string {
	g := d.prof.Goals
	if g.TargetWeightKg <= 0 {
		return ""
	}
	delta := d.prof.Details.WeightKg - g.TargetWeightKg
	var dir string
	switch {
	case delta > 0.05:
		dir = fmt.Sprintf("%.1f kg to lose", delta)
	case delta < -0.05:
		dir = fmt.Sprintf("%.1f kg to gain", -delta)
	default:
		dir = "at target weight"
	}
	line := fmt.Sprintf("Goal: %.1f kg (%s) · TDEE %d kcal · BMR %d kcal", g.TargetWeightKg, dir, d.prof.TDEE, d.prof.BMR)
	if g.TargetDate != "" {
		line += " · by " + g.TargetDate
	}
	return mutedStyle.Render(line)
}

func (d dashboardModel) renderHealth() string {
	m := d.metrics
	if m.Empty() {
		return ""
	}
	var parts []string
	if m.Steps != nil {
		parts = append(parts, fmt.Sprintf("%d steps", *m.Steps))
	}
	if m.ActiveEnergyKcal != nil {
		parts = append(parts, fmt.Sprintf("%.0f active kcal", *m.ActiveEnergyKcal))
	}
	if m.DistanceKm != nil {
		parts = append(parts, fmt.Sprintf("%.1f km", *m.DistanceKm))
	}
	if m.RestingHeartRateBpm != nil {
		parts = append(parts, fmt.Sprintf("%d bpm resting", *m.RestingHeartRateBpm))
	}
	if m.HeartRateVariabilityMs != nil {
		parts = append(parts, fmt.Sprintf("%.0f ms HRV", *m.HeartRateVariabilityMs))
	}
	if m.SleepHours != nil {
		parts = append(parts, fmt.Sprintf("%.1f h sleep", *m.SleepHours))
	}
	return highlightStyle.Render("Health  ") + mutedStyle.Render(strings.Join(parts, " · "))
}

func renderBar(value, total, width int) string {
	if total <= 0 {
		total = 1
	}
	filled := value * width / total
	filled = max(0, min(filled, width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	if value > total {
		return errorStyle.Render(bar)
	}
	return successStyle.Render(bar)
}
