package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/melcan/fastbite/internal/ai"
	"github.com/melcan/fastbite/internal/profile"
	"github.com/melcan/fastbite/internal/store"
)

type diaryFormMode int

const (
	formNone diaryFormMode = iota
	formAdd
	formEdit
	formAIText
	formAIPhoto
)

type diaryModel struct {
	store  *store.Store
	prof   profile.Profile
	width  int
	height int

	date   string
	log    *store.DailyLog
	cursor int

	mode      diaryFormMode
	form      *huh.Form
	editingID string
	analyzing bool

	// Form fields (huh wants pointer-backed values)
	fName        *string
	fCalories    *string
	fProtein     *string
	fCarbs       *string
	fFat         *string
	fServingSize *string
	fQuantity    *string
	fNotes       *string
	fAIAssisted  bool
	fPrompt      *string
	fPhotoPath   *string
}

func newDiaryModel(s *store.Store, prof profile.Profile) diaryModel {
	var name, cal, prot, carbs, fat, serving, qty, notes, prompt, photo string
	d := diaryModel{
		store:        s,
		prof:         prof,
		date:         today(),
		fName:        &name,
		fCalories:    &cal,
		fProtein:     &prot,
		fCarbs:       &carbs,
		fFat:         &fat,
		fServingSize: &serving,
		fQuantity:    &qty,
		fNotes:       &notes,
		fPrompt:      &prompt,
		fPhotoPath:   &photo,
	}
	d.reload()
	return d
}

func (d *diaryModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d *diaryModel) applyProfile(p profile.Profile) {
	d.prof = p
	d.reload()
}

func (d *diaryModel) reload() {
	log, err := d.store.GetOrCreateLog(d.date, d.prof)
	if err != nil {
		d.log = &store.DailyLog{Date: d.date}
		return
	}
	d.log = log
	if d.cursor >= len(log.Entries) {
		d.cursor = max(0, len(log.Entries)-1)
	}
}

func (d diaryModel) update(msg tea.Msg) (diaryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case aiResultMsg:
		d.analyzing = false
		if msg.err != nil {
			return d, errStatus(msg.err)
		}
		d.prefillFromEstimate(msg.estimate)
		return d.openEntryForm(formAdd)

	case tea.KeyMsg:
		if d.mode != formNone && d.form != nil {
			return d.updateForm(msg)
		}
		return d.updateList(msg)
	}

	if d.mode != formNone && d.form != nil {
		return d.updateForm(msg)
	}
	return d, nil
}

func (d diaryModel) updateList(msg tea.KeyMsg) (diaryModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if d.cursor > 0 {
			d.cursor--
		}
	case key.Matches(msg, keys.Down):
		if d.log != nil && d.cursor < len(d.log.Entries)-1 {
			d.cursor++
		}
	case key.Matches(msg, keys.Left):
		d.date = shiftDate(d.date, -1)
		d.cursor = 0
		d.reload()
	case key.Matches(msg, keys.Right):
		d.date = shiftDate(d.date, 1)
		d.cursor = 0
		d.reload()
	case key.Matches(msg, keys.New):
		d.clearForm()
		return d.openEntryForm(formAdd)
	case key.Matches(msg, keys.Edit):
		if d.log == nil || d.cursor >= len(d.log.Entries) {
			return d, nil
		}
		d.prefillFromEntry(d.log.Entries[d.cursor])
		return d.openEntryForm(formEdit)
	case key.Matches(msg, keys.Delete):
		if d.log == nil || d.cursor >= len(d.log.Entries) {
			return d, nil
		}
		entry := d.log.Entries[d.cursor]
		if err := d.store.DeleteEntry(entry.ID); err != nil {
			return d, errStatus(err)
		}
		d.reload()
		return d, func() tea.Msg {
			return statusMsg{text: "Deleted " + entry.Name}
		}
	case key.Matches(msg, keys.Analyze):
		if d.analyzing {
			return d, nil
		}
		*d.fPrompt = ""
		return d.openAIForm(formAIText)
	case key.Matches(msg, keys.Photo):
		if d.analyzing {
			return d, nil
		}
		*d.fPhotoPath = ""
		*d.fPrompt = ""
		return d.openAIForm(formAIPhoto)
	case key.Matches(msg, keys.Refeed):
		return d.toggleRefeed()
	}
	return d, nil
}

func (d diaryModel) toggleRefeed() (diaryModel, tea.Cmd) {
	if !d.prof.Preferences.RefeedEnabled {
		return d, func() tea.Msg {
			return statusMsg{text: "Enable refeed days in your profile first", isError: true}
		}
	}
	log, err := d.store.SetRefeedDay(d.date, !d.log.IsRefeedDay, d.prof)
	if err != nil {
		return d, errStatus(err)
	}
	d.log = log
	label := "Refeed day off"
	if log.IsRefeedDay {
		label = fmt.Sprintf("Refeed day on · goal %d kcal", log.Goals.Calories)
	}
	return d, func() tea.Msg { return statusMsg{text: label} }
}

func (d *diaryModel) clearForm() {
	*d.fName = ""
	*d.fCalories = ""
	*d.fProtein = ""
	*d.fCarbs = ""
	*d.fFat = ""
	*d.fServingSize = ""
	*d.fQuantity = "1"
	*d.fNotes = ""
	d.fAIAssisted = false
	d.editingID = ""
}

func (d *diaryModel) prefillFromEntry(e store.FoodEntry) {
	*d.fName = e.Name
	*d.fCalories = trimFloat(e.Calories)
	*d.fProtein = trimFloat(e.ProteinG)
	*d.fCarbs = trimFloat(e.CarbsG)
	*d.fFat = trimFloat(e.FatG)
	*d.fServingSize = e.ServingSize
	*d.fQuantity = trimFloat(e.Quantity)
	*d.fNotes = e.Notes
	d.fAIAssisted = e.AIAssisted
	d.editingID = e.ID
}

func (d *diaryModel) prefillFromEstimate(est ai.Estimate) {
	d.clearForm()
	*d.fName = est.Name
	*d.fCalories = trimFloat(est.Calories)
	*d.fProtein = trimFloat(est.ProteinG)
	*d.fCarbs = trimFloat(est.CarbsG)
	*d.fFat = trimFloat(est.FatG)
	*d.fServingSize = est.ServingSize
	d.fAIAssisted = true
}

func (d diaryModel) openEntryForm(mode diaryFormMode) (diaryModel, tea.Cmd) {
	title := "Add Food"
	if mode == formEdit {
		title = "Edit Food"
	}
	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(d.fName).Validate(notEmpty),
			huh.NewInput().Title("Calories").Value(d.fCalories).Validate(numeric),
			huh.NewInput().Title("Protein (g)").Value(d.fProtein).Validate(numericOrEmpty),
			huh.NewInput().Title("Carbs (g)").Value(d.fCarbs).Validate(numericOrEmpty),
			huh.NewInput().Title("Fat (g)").Value(d.fFat).Validate(numericOrEmpty),
			huh.NewInput().Title("Serving size").Value(d.fServingSize),
			huh.NewInput().Title("Quantity").Value(d.fQuantity).Validate(numericOrEmpty),
			huh.NewInput().Title("Notes").Value(d.fNotes),
		).Title(title),
	).WithShowHelp(true).WithShowErrors(true)
	d.mode = mode
	return d, d.form.Init()
}

func (d diaryModel) openAIForm(mode diaryFormMode) (diaryModel, tea.Cmd) {
	var group *huh.Group
	if mode == formAIPhoto {
		group = huh.NewGroup(
			huh.NewInput().Title("Photo path").Value(d.fPhotoPath).Validate(notEmpty),
			huh.NewInput().Title("Hint (optional)").Value(d.fPrompt),
		).Title("Analyze Photo")
	} else {
		group = huh.NewGroup(
			huh.NewInput().Title("Describe the meal").Value(d.fPrompt).Validate(notEmpty),
		).Title("Analyze Meal")
	}
	d.form = huh.NewForm(group).WithShowHelp(true).WithShowErrors(true)
	d.mode = mode
	return d, d.form.Init()
}

func (d diaryModel) updateForm(msg tea.Msg) (diaryModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			d.mode = formNone
			d.form = nil
			return d, nil
		}
	}

	form, cmd := d.form.Update(msg)
	if m, ok := form.(*huh.Form); ok {
		d.form = m
	}

	if d.form.State == huh.StateCompleted {
		mode := d.mode
		d.mode = formNone
		d.form = nil
		switch mode {
		case formAdd, formEdit:
			return d.submitEntry(mode)
		case formAIText:
			d.analyzing = true
			return d, d.analyzeTextCmd(*d.fPrompt)
		case formAIPhoto:
			d.analyzing = true
			return d, d.analyzePhotoCmd(*d.fPhotoPath, *d.fPrompt)
		}
	}
	return d, cmd
}

func (d diaryModel) submitEntry(mode diaryFormMode) (diaryModel, tea.Cmd) {
	entry := store.FoodEntry{
		ID:          d.editingID,
		LogDate:     d.date,
		Name:        strings.TrimSpace(*d.fName),
		Calories:    parseFloat(*d.fCalories),
		ProteinG:    parseFloat(*d.fProtein),
		CarbsG:      parseFloat(*d.fCarbs),
		FatG:        parseFloat(*d.fFat),
		ServingSize: strings.TrimSpace(*d.fServingSize),
		Quantity:    parseFloat(*d.fQuantity),
		Notes:       strings.TrimSpace(*d.fNotes),
		AIAssisted:  d.fAIAssisted,
	}
	if entry.Quantity <= 0 {
		entry.Quantity = 1
	}

	var err error
	var label string
	if mode == formEdit {
		if existing := d.findEntry(entry.ID); existing != nil {
			entry.MealTime = existing.MealTime
		}
		err = d.store.UpdateEntry(entry)
		label = "Updated " + entry.Name
	} else {
		entry.ID = uuid.NewString()
		err = d.store.AddEntry(entry, d.prof)
		label = "Logged " + entry.Name
	}
	if err != nil {
		return d, errStatus(err)
	}
	d.reload()
	return d, func() tea.Msg { return statusMsg{text: label} }
}

func (d diaryModel) findEntry(id string) *store.FoodEntry {
	if d.log == nil {
		return nil
	}
	for i := range d.log.Entries {
		if d.log.Entries[i].ID == id {
			return &d.log.Entries[i]
		}
	}
	return nil
}

// newAIClient builds the estimation client from stored settings plus the
// FASTBITE_AI_KEY environment variable.
func (d diaryModel) newAIClient() *ai.Client {
	baseURL, _ := d.store.GetSetting("ai_base_url")
	model, _ := d.store.GetSetting("ai_model")
	return ai.NewClient(baseURL, os.Getenv("FASTBITE_AI_KEY"), model)
}

func (d diaryModel) analyzeTextCmd(description string) tea.Cmd {
	client := d.newAIClient()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
		defer cancel()
		est, err := client.AnalyzeText(ctx, description)
		return aiResultMsg{estimate: est, err: err}
	}
}

func (d diaryModel) analyzePhotoCmd(path, hint string) tea.Cmd {
	client := d.newAIClient()
	return func() tea.Msg {
		payload, err := os.ReadFile(path)
		if err != nil {
			return aiResultMsg{err: fmt.Errorf("read photo: %w", err)}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
		defer cancel()
		est, err := client.AnalyzeImage(ctx, payload, mimeFromPath(path), hint)
		return aiResultMsg{estimate: est, err: err}
	}
}

func mimeFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

func (d diaryModel) view() string {
	w := d.width - 4

	if d.mode != formNone && d.form != nil {
		return panelStyle.Width(w).Render(d.form.View())
	}

	dateLabel := d.date
	if d.date == today() {
		dateLabel = "Today · " + d.date
	}
	title := titleStyle.Render("Food Diary — " + dateLabel)
	if d.log != nil && d.log.IsRefeedDay {
		title += "  " + warningStyle.Render("[refeed]")
	}

	var rows []string
	if d.log == nil || len(d.log.Entries) == 0 {
		rows = append(rows, mutedStyle.Render("No food logged. Press n to add, a to estimate with AI."))
	}
	if d.log != nil {
		for i, e := range d.log.Entries {
			cursor := "  "
			style := normalItemStyle
			if i == d.cursor {
				cursor = "> "
				style = selectedItemStyle
			}
			qty := ""
			if e.Quantity != 1 {
				qty = fmt.Sprintf(" ×%s", trimFloat(e.Quantity))
			}
			tag := ""
			if e.AIAssisted {
				tag = highlightStyle.Render(" ✦")
			}
			line := fmt.Sprintf("%s%s%s · %d kcal · P %sg C %sg F %sg%s",
				cursor, e.Name, qty,
				int(e.Calories*e.Quantity+0.5),
				trimFloat(e.ProteinG*e.Quantity), trimFloat(e.CarbsG*e.Quantity), trimFloat(e.FatG*e.Quantity),
				tag)
			rows = append(rows, style.Render(line))
		}
	}

	var footer string
	if d.log != nil {
		remaining := d.log.Goals.Calories - d.log.Totals.Calories
		footer = fmt.Sprintf("Total %d / %d kcal · %d left · P %.0fg C %.0fg F %.0fg",
			d.log.Totals.Calories, d.log.Goals.Calories, remaining,
			d.log.Totals.ProteinG, d.log.Totals.CarbsG, d.log.Totals.FatG)
		if remaining < 0 {
			footer = errorStyle.Render(footer)
		} else {
			footer = mutedStyle.Render(footer)
		}
	}
	if d.analyzing {
		footer += "\n" + highlightStyle.Render("Analyzing with AI…")
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		strings.Join(rows, "\n"),
		"",
		footer,
		"",
		mutedStyle.Render("←/→ day  n: add  enter: edit  d: delete  a: ai  i: photo  r: refeed"),
	)
	return panelStyle.Width(w).Render(body)
}

// --- small input helpers shared by the form views ---

func notEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}

func numeric(s string) error {
	if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
		return fmt.Errorf("enter a number")
	}
	return nil
}

func numericOrEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return numeric(s)
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
