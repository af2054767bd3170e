package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/melcan/fastbite/internal/store"
)

type trendMode int

const (
	trendWeek trendMode = iota
	trendFortnight
)

type trendsModel struct {
	store  *store.Store
	width  int
	height int

	mode      trendMode
	summaries []store.DaySummary
	offset    int // windows back from today (0 = current)

	chart barchart.Model
}

func newTrendsModel(s *store.Store) trendsModel {
	return trendsModel{
		store: s,
		chart: barchart.New(60, 12),
	}
}

func (r *trendsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type trendsDataMsg struct {
	summaries []store.DaySummary
}

func (r trendsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		from, to := r.dateRange()
		summaries, _ := r.store.GetDaySummaries(from, to)
		return trendsDataMsg{summaries: summaries}
	}
}

func (r trendsModel) window() int {
	if r.mode == trendFortnight {
		return 14
	}
	return 7
}

func (r trendsModel) dateRange() (time.Time, time.Time) {
	now := time.Now().UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	n := r.window()

	end := day.AddDate(0, 0, 1-n*r.offset)
	start := end.AddDate(0, 0, -n)
	return start, end
}

func (r trendsModel) update(msg tea.Msg) (trendsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case trendsDataMsg:
		r.summaries = msg.summaries
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		case key.Matches(msg, keys.Enter):
			if r.mode == trendWeek {
				r.mode = trendFortnight
			} else {
				r.mode = trendWeek
			}
			r.offset = 0
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r *trendsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	from, to := r.dateRange()

	byDate := make(map[string]store.DaySummary, len(r.summaries))
	for _, s := range r.summaries {
		byDate[s.Date] = s
	}

	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		label := d.Format("02")
		if r.mode == trendWeek {
			label = d.Format("Mon")
		}

		s, ok := byDate[d.Format(dateLayout)]
		value := barchart.BarValue{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}
		if ok && s.Calories > 0 {
			style := lipgloss.NewStyle().Foreground(colorSuccess)
			if s.GoalCalories > 0 && s.Calories > s.GoalCalories {
				style = lipgloss.NewStyle().Foreground(colorError)
			}
			value = barchart.BarValue{Name: "kcal", Value: float64(s.Calories), Style: style}
		}

		bars = append(bars, barchart.BarData{
			Label:  label,
			Values: []barchart.BarValue{value},
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r trendsModel) view() string {
	w := r.width - 4

	weekTab := inactiveTabStyle.Render("7 days")
	fortnightTab := inactiveTabStyle.Render("14 days")
	if r.mode == trendWeek {
		weekTab = activeTabStyle.Render("7 days")
	} else {
		fortnightTab = activeTabStyle.Render("14 days")
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, weekTab, fortnightTab)

	from, to := r.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s — %s", from.Format("Jan 02"), to.Add(-24*time.Hour).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Trends"), "  ", modeTabs, "  ", dateLabel,
	)

	chartView := r.chart.View()
	tableView := r.renderSummaryTable(w)
	statsView := r.renderStats()
	nav := mutedStyle.Render("  ←/→: navigate  enter: switch window  e: export")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chartView, "", statsView, "", tableView, "", nav,
		),
	)
}

func (r trendsModel) renderStats() string {
	var total, goalTotal, days int
	for _, s := range r.summaries {
		if s.EntryCount == 0 {
			continue
		}
		total += s.Calories
		goalTotal += s.GoalCalories
		days++
	}
	if days == 0 {
		return ""
	}
	avg := total / days
	line := fmt.Sprintf("  %d logged days · avg %d kcal/day", days, avg)
	if goalTotal > 0 {
		line += fmt.Sprintf(" · avg goal %d kcal", goalTotal/days)
	}
	return mutedStyle.Render(line)
}

func (r trendsModel) renderSummaryTable(w int) string {
	if len(r.summaries) == 0 {
		return mutedStyle.Render("  No data for this period")
	}

	var rows []string
	headerRow := mutedStyle.Render(fmt.Sprintf("  %-12s %10s %10s %8s", "Date", "Calories", "Goal", "Entries"))
	rows = append(rows, headerRow)
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 44))))

	for _, s := range r.summaries {
		dot := successStyle.Render("●")
		if s.GoalCalories > 0 && s.Calories > s.GoalCalories {
			dot = errorStyle.Render("●")
		}
		rows = append(rows, fmt.Sprintf("  %-12s %s %8d %10d %8d",
			s.Date, dot, s.Calories, s.GoalCalories, s.EntryCount,
		))
	}

	return strings.Join(rows, "\n")
}
