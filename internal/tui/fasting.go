package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/melcan/fastbite/internal/fasting"
	"github.com/melcan/fastbite/internal/profile"
	"github.com/melcan/fastbite/internal/store"
)

type fastingModel struct {
	store  *store.Store
	width  int
	height int

	state fasting.State
	prof  profile.Profile

	// Protocol picker state
	picking      bool
	pickerCursor int

	formActive   bool
	form         *huh.Form
	fastingHours *string
	eatingHours  *string
}

var protocolChoices = []fasting.ProtocolType{
	fasting.Protocol16x8,
	fasting.Protocol18x6,
	fasting.ProtocolCustom,
}

func newFastingModel(s *store.Store, prof profile.Profile) fastingModel {
	state, err := s.LoadTimer(prof.Preferences.Protocol)
	if err != nil {
		state = fasting.NewState(prof.Preferences.Protocol)
	}
	fh, eh := "", ""
	return fastingModel{
		store:        s,
		state:        state,
		prof:         prof,
		fastingHours: &fh,
		eatingHours:  &eh,
	}
}

func (f *fastingModel) setSize(w, h int) {
	f.width = w
	f.height = h
}

func (f fastingModel) active() bool {
	return f.state.Status == fasting.StatusActive
}

func (f fastingModel) running() bool {
	return f.state.Status != fasting.StatusNotActive
}

// applyProfile reacts to a saved profile: while stopped the timer adopts the
// new protocol; disabling intermittent fasting resets any running fast back
// to NotActive on the default protocol.
func (f *fastingModel) applyProfile(p profile.Profile) {
	f.prof = p
	if !p.Preferences.IntermittentFasting {
		f.state = fasting.NewState(fasting.DefaultProtocol())
		f.store.SaveTimer(f.state)
		return
	}
	if f.state.Status == fasting.StatusNotActive {
		f.state = fasting.NewState(p.Preferences.Protocol)
		f.store.SaveTimer(f.state)
	}
}

func (f fastingModel) update(msg tea.Msg) (fastingModel, tea.Cmd) {
	if f.formActive && f.form != nil {
		return f.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tickMsg:
		// Flip check and remaining-time refresh are one recomputation, so a
		// negative remainder is never rendered.
		next, flipped := f.state.Sample(time.Time(msg))
		if flipped {
			f.state = next
			f.store.SaveTimer(f.state)
			label := "Eating window started \a"
			if f.state.Phase == fasting.PhaseFasting {
				label = "Fasting window started \a"
			}
			return f, func() tea.Msg { return statusMsg{text: label} }
		}
		f.state = next
		return f, nil

	case tea.KeyMsg:
		if f.picking {
			return f.updatePicker(msg)
		}

		switch {
		case key.Matches(msg, keys.Start):
			return f.startFast()
		case key.Matches(msg, keys.Stop):
			return f.endFast()
		case key.Matches(msg, keys.Pause):
			return f.togglePause()
		case key.Matches(msg, keys.New), key.Matches(msg, keys.Enter):
			if f.state.Status == fasting.StatusNotActive {
				f.picking = true
				f.pickerCursor = 0
			}
			return f, nil
		}
	}
	return f, nil
}

func (f fastingModel) startFast() (fastingModel, tea.Cmd) {
	next, err := f.state.Start(time.Now())
	if err != nil {
		return f, nil
	}
	f.state = next
	if err := f.store.SaveTimer(f.state); err != nil {
		return f, errStatus(err)
	}
	return f, func() tea.Msg { return fastingStartedMsg{} }
}

func (f fastingModel) endFast() (fastingModel, tea.Cmd) {
	protocol := fasting.DefaultProtocol()
	if f.prof.Preferences.IntermittentFasting {
		protocol = f.prof.Preferences.Protocol
	}
	next, err := f.state.End(protocol)
	if err != nil {
		return f, nil
	}
	f.state = next
	if err := f.store.SaveTimer(f.state); err != nil {
		return f, errStatus(err)
	}
	return f, func() tea.Msg { return fastingEndedMsg{} }
}

func (f fastingModel) togglePause() (fastingModel, tea.Cmd) {
	now := time.Now()
	switch f.state.Status {
	case fasting.StatusActive:
		next, err := f.state.Pause(now)
		if err != nil {
			return f, nil
		}
		f.state = next
		f.store.SaveTimer(f.state)
		return f, func() tea.Msg { return statusMsg{text: "Fast paused"} }
	case fasting.StatusPaused:
		next, err := f.state.Resume(now)
		if err != nil {
			return f, nil
		}
		f.state = next
		f.store.SaveTimer(f.state)
		return f, tea.Batch(
			tickCmd(),
			func() tea.Msg { return statusMsg{text: "Fast resumed"} },
		)
	}
	return f, nil
}

func (f fastingModel) updatePicker(msg tea.KeyMsg) (fastingModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if f.pickerCursor > 0 {
			f.pickerCursor--
		}
	case key.Matches(msg, keys.Down):
		if f.pickerCursor < len(protocolChoices)-1 {
			f.pickerCursor++
		}
	case key.Matches(msg, keys.Enter):
		choice := protocolChoices[f.pickerCursor]
		f.picking = false
		if choice == fasting.ProtocolCustom {
			return f.showCustomForm()
		}
		return f.changeProtocol(fasting.NewProtocol(choice, 0, 0))
	case key.Matches(msg, keys.Back):
		f.picking = false
	}
	return f, nil
}

func (f fastingModel) showCustomForm() (fastingModel, tea.Cmd) {
	*f.fastingHours = fmt.Sprintf("%g", f.state.Protocol.FastingHours)
	*f.eatingHours = fmt.Sprintf("%g", f.state.Protocol.EatingHours)

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Fasting hours").Value(f.fastingHours),
			huh.NewInput().Title("Eating hours").Value(f.eatingHours),
		).Title("Custom Protocol"),
	).WithShowHelp(true).WithShowErrors(true)

	f.formActive = true
	return f, f.form.Init()
}

func (f fastingModel) updateForm(msg tea.Msg) (fastingModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			f.formActive = false
			f.form = nil
			return f, nil
		}
	}

	form, cmd := f.form.Update(msg)
	if m, ok := form.(*huh.Form); ok {
		f.form = m
	}

	if f.form.State == huh.StateCompleted {
		f.formActive = false
		return f.changeProtocol(fasting.ParseCustom(*f.fastingHours, *f.eatingHours))
	}

	return f, cmd
}

func (f fastingModel) changeProtocol(p fasting.Protocol) (fastingModel, tea.Cmd) {
	next, err := f.state.ChangeProtocol(p)
	if err != nil {
		return f, func() tea.Msg {
			return statusMsg{text: "End the current fast before changing protocol", isError: true}
		}
	}
	f.state = next
	if err := f.store.SaveTimer(f.state); err != nil {
		return f, errStatus(err)
	}
	return f, func() tea.Msg {
		return statusMsg{text: "Protocol set to " + p.Label()}
	}
}

func (f fastingModel) view() string {
	w := f.width - 4

	if f.formActive && f.form != nil {
		title := titleStyle.Render("Fasting Timer")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", f.form.View()),
		)
	}

	title := titleStyle.Render("Fasting Timer")
	now := time.Now()

	var timeDisplay, phaseLabel, indicator string
	switch f.state.Status {
	case fasting.StatusNotActive:
		timeDisplay = timerStyle.Width(w - 6).Render(fasting.FormatClock(f.state.Protocol.Duration(fasting.PhaseFasting)))
		phaseLabel = mutedStyle.Render("Protocol " + f.state.Protocol.Label())
		indicator = mutedStyle.Render("Press s to start fasting")
	case fasting.StatusActive:
		remaining := f.state.Remaining(now)
		if f.state.Phase == fasting.PhaseFasting {
			timeDisplay = timerFastingStyle.Width(w - 6).Render(fasting.FormatClock(remaining))
			phaseLabel = successStyle.Bold(true).Render("FASTING")
		} else {
			timeDisplay = timerStyle.Width(w - 6).Render(fasting.FormatClock(remaining))
			phaseLabel = highlightStyle.Bold(true).Render("EATING WINDOW")
		}
		indicator = f.renderElapsed(now)
	case fasting.StatusPaused:
		timeDisplay = timerPausedStyle.Width(w - 6).Render(fasting.FormatClock(f.state.Remaining(now)))
		phaseLabel = warningStyle.Bold(true).Render("⏸  PAUSED")
		indicator = f.renderElapsed(now)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		timeDisplay,
		phaseLabel,
		"",
		indicator,
	)

	var controls string
	switch f.state.Status {
	case fasting.StatusNotActive:
		controls = mutedStyle.Render("s: start  enter: protocol  q: quit")
	case fasting.StatusActive:
		controls = mutedStyle.Render("space: pause  x: end fast")
	case fasting.StatusPaused:
		controls = mutedStyle.Render("space: resume  x: end fast")
	}

	style := panelStyle
	if f.state.Status == fasting.StatusActive {
		style = activePanelStyle
	}
	return style.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", controls),
	)
}

func (f fastingModel) renderElapsed(now time.Time) string {
	elapsed := f.state.Elapsed(now)
	started := f.state.StartTime.Local().Format("Mon 15:04")
	return mutedStyle.Render(fmt.Sprintf("%s elapsed · started %s · %s", fasting.FormatClock(elapsed), started, f.state.Protocol.Label()))
}

// statusLine is the footer summary shown from any view.
func (f fastingModel) statusLine(now time.Time) string {
	switch f.state.Status {
	case fasting.StatusActive:
		icon := "●"
		if f.state.Phase == fasting.PhaseEating {
			icon = "◌"
		}
		return successStyle.Render(fmt.Sprintf(" %s %s", icon, fasting.FormatClock(f.state.Remaining(now))))
	case fasting.StatusPaused:
		return warningStyle.Render(" ⏸ " + fasting.FormatClock(f.state.Remaining(now)))
	default:
		return ""
	}
}

func errStatus(err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
	}
}
