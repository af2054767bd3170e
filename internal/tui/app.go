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
	"github.com/melcan/fastbite/internal/export"
	"github.com/melcan/fastbite/internal/profile"
	"github.com/melcan/fastbite/internal/store"
)

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	dashboard dashboardModel
	diary     diaryModel
	fasting   fastingModel
	trends    trendsModel
	profile   profileModel

	help        help.Model
	status      string
	statusError bool
}

func NewApp(s *store.Store) App {
	h := help.New()
	h.ShowAll = false

	prof, err := s.GetProfile()
	if err != nil {
		prof = profile.Default()
	}

	return App{
		store:      s,
		activeView: viewDashboard,
		dashboard:  newDashboardModel(s, prof),
		diary:      newDiaryModel(s, prof),
		fasting:    newFastingModel(s, prof),
		trends:     newTrendsModel(s),
		profile:    newProfileModel(s, prof),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.dashboard.loadHealthCmd()}
	// The countdown loop only runs while a fast is actively ticking.
	if a.fasting.active() {
		cmds = append(cmds, tickCmd())
	}
	return tea.Batch(cmds...)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.diary.setSize(a.width, contentHeight)
		a.fasting.setSize(a.width, contentHeight)
		a.trends.setSize(a.width, contentHeight)
		a.profile.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
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
			a.activeView = viewDashboard
			a.dashboard.refresh()
			return a, a.dashboard.loadHealthCmd()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewDiary
			a.diary.reload()
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewFasting
			return a, nil
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewTrends
			return a, a.trends.refresh()
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewProfile
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 5
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		// Route ticks to the fasting state machine; reschedule only while a
		// fast is still actively ticking so a paused or ended timer leaves no
		// loop behind.
		var cmd tea.Cmd
		a.fasting, cmd = a.fasting.update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		if a.fasting.active() {
			cmds = append(cmds, tickCmd())
		}
		return a, tea.Batch(cmds...)

	case statusMsg:
		a.status = msg.text
		a.statusError = msg.isError
		return a, nil

	case profileSavedMsg:
		a.status = "Profile saved"
		a.statusError = false
		a.dashboard.applyProfile(msg.profile)
		a.diary.applyProfile(msg.profile)
		a.fasting.applyProfile(msg.profile)
		a.profile.applyProfile(msg.profile)
		return a, nil

	case fastingStartedMsg:
		a.status = "Fast started"
		a.statusError = false
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, tea.Batch(cmd, tickCmd())

	case fastingEndedMsg:
		a.status = "Fast ended"
		a.statusError = false
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, cmd

	case healthDataMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, cmd

	case aiResultMsg:
		var cmd tea.Cmd
		a.diary, cmd = a.diary.update(msg)
		return a, cmd

	case trendsDataMsg:
		var cmd tea.Cmd
		a.trends, cmd = a.trends.update(msg)
		return a, cmd

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusError = false
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewDiary:
		a.diary, cmd = a.diary.update(msg)
	case viewFasting:
		a.fasting, cmd = a.fasting.update(msg)
	case viewTrends:
		a.trends, cmd = a.trends.update(msg)
	case viewProfile:
		a.profile, cmd = a.profile.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewDiary:
		return a.diary.mode != formNone
	case viewFasting:
		return a.fasting.formActive || a.fasting.picking
	case viewProfile:
		return a.profile.editing
	}
	return false
}

func (a *App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDashboard:
		a.dashboard.refresh()
		return a.dashboard.loadHealthCmd()
	case viewDiary:
		a.diary.reload()
	case viewTrends:
		return a.trends.refresh()
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
	case viewDashboard:
		content = a.dashboard.view()
	case viewDiary:
		content = a.diary.view()
	case viewFasting:
		content = a.fasting.view()
	case viewTrends:
		content = a.trends.view()
	case viewProfile:
		content = a.profile.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

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

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("fastbite")
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
		if a.statusError {
			status = errorStyle.Render(" " + a.status)
		} else {
			status = mutedStyle.Render(" " + a.status)
		}
	}

	fastingInfo := a.fasting.statusLine(time.Now())

	left := footerStyle.Render(helpView)
	right := fastingInfo + status

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
	return func() tea.Msg {
		logs, err := a.store.ListLogs()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format(dateLayout)

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("fastbite-export-%s.csv", dateStr))
			if err := export.ToCSV(logs, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(home, fmt.Sprintf("fastbite-export-%s.json", dateStr))
			if err := export.ToJSON(logs, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
