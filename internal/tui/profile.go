package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/melcan/fastbite/internal/fasting"
	"github.com/melcan/fastbite/internal/nutrition"
	"github.com/melcan/fastbite/internal/profile"
	"github.com/melcan/fastbite/internal/store"
)

type profileModel struct {
	store  *store.Store
	prof   profile.Profile
	width  int
	height int

	editing bool
	form    *huh.Form

	// Questionnaire fields
	fAge          *string
	fSex          *string
	fUnits        *string
	fHeight       *string
	fWeight       *string
	fActivity     *string
	fTargetWeight *string
	fTargetDate   *string
	fPlan         *string
	fFasting      *bool
	fRefeed       *bool
	fProtocol     *string
}

const (
	unitsMetric   = "metric"
	unitsImperial = "imperial"
)

func newProfileModel(s *store.Store, prof profile.Profile) profileModel {
	var age, sex, units, height, weight, activity, targetWeight, targetDate, plan, protocol string
	var ifEnabled, refeed bool
	return profileModel{
		store:         s,
		prof:          prof,
		fAge:          &age,
		fSex:          &sex,
		fUnits:        &units,
		fHeight:       &height,
		fWeight:       &weight,
		fActivity:     &activity,
		fTargetWeight: &targetWeight,
		fTargetDate:   &targetDate,
		fPlan:         &plan,
		fFasting:      &ifEnabled,
		fRefeed:       &refeed,
		fProtocol:     &protocol,
	}
}

func (p *profileModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p *profileModel) applyProfile(prof profile.Profile) {
	p.prof = prof
}

func (p profileModel) update(msg tea.Msg) (profileModel, tea.Cmd) {
	if p.editing && p.form != nil {
		return p.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Edit), key.Matches(msg, keys.New):
			return p.openForm()
		}
	}
	return p, nil
}

func (p profileModel) openForm() (profileModel, tea.Cmd) {
	prof := p.prof
	*p.fAge = strconv.Itoa(prof.Details.AgeYears)
	*p.fSex = string(prof.Details.Sex)
	*p.fUnits = unitsMetric
	*p.fHeight = trimFloat(prof.Details.HeightCm)
	*p.fWeight = trimFloat(prof.Details.WeightKg)
	*p.fActivity = string(prof.Activity)
	*p.fTargetWeight = trimFloat(prof.Goals.TargetWeightKg)
	*p.fTargetDate = prof.Goals.TargetDate
	*p.fPlan = prof.Goals.PlanDescription
	*p.fFasting = prof.Preferences.IntermittentFasting
	*p.fRefeed = prof.Preferences.RefeedEnabled
	*p.fProtocol = string(prof.Preferences.Protocol.Type)

	var activityOptions []huh.Option[string]
	for _, level := range nutrition.ActivityLevels() {
		activityOptions = append(activityOptions, huh.NewOption(activityLabel(level), string(level)))
	}

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Age").Value(p.fAge).Validate(numeric),
			huh.NewSelect[string]().Title("Sex").
				Options(huh.NewOption("Male", string(nutrition.SexMale)), huh.NewOption("Female", string(nutrition.SexFemale))).
				Value(p.fSex),
			huh.NewSelect[string]().Title("Units").
				Options(huh.NewOption("Metric (kg, cm)", unitsMetric), huh.NewOption("Imperial (lb, in)", unitsImperial)).
				Value(p.fUnits),
		).Title("About You"),
		huh.NewGroup(
			huh.NewInput().Title("Height").Value(p.fHeight).Validate(numeric).
				Description("cm, or inches with imperial units"),
			huh.NewInput().Title("Weight").Value(p.fWeight).Validate(numeric).
				Description("kg, or lb with imperial units"),
			huh.NewSelect[string]().Title("Activity level").Options(activityOptions...).Value(p.fActivity),
		).Title("Body & Activity"),
		huh.NewGroup(
			huh.NewInput().Title("Target weight").Value(p.fTargetWeight).Validate(numericOrEmpty),
			huh.NewInput().Title("Target date").Value(p.fTargetDate).
				Description("YYYY-MM-DD, optional").Validate(dateOrEmpty),
			huh.NewInput().Title("What's your plan?").Value(p.fPlan).
				Description("e.g. lose weight, build muscle, keto"),
		).Title("Goals"),
		huh.NewGroup(
			huh.NewConfirm().Title("Intermittent fasting?").Value(p.fFasting),
			huh.NewSelect[string]().Title("Protocol").
				Options(
					huh.NewOption("16:8", string(fasting.Protocol16x8)),
					huh.NewOption("18:6", string(fasting.Protocol18x6)),
				).
				Value(p.fProtocol),
			huh.NewConfirm().Title("Weekly refeed days?").Value(p.fRefeed),
		).Title("Preferences"),
	).WithShowHelp(true).WithShowErrors(true)

	p.editing = true
	return p, p.form.Init()
}

func (p profileModel) updateForm(msg tea.Msg) (profileModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.editing = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if m, ok := form.(*huh.Form); ok {
		p.form = m
	}

	if p.form.State == huh.StateCompleted {
		p.editing = false
		p.form = nil
		return p.save()
	}
	return p, cmd
}

func (p profileModel) save() (profileModel, tea.Cmd) {
	heightCm := parseFloat(*p.fHeight)
	weightKg := parseFloat(*p.fWeight)
	targetKg := parseFloat(*p.fTargetWeight)
	if *p.fUnits == unitsImperial {
		heightCm = nutrition.FeetInchesToCm(0, int(math.Round(heightCm)))
		weightKg = nutrition.LbsToKg(weightKg)
		targetKg = nutrition.LbsToKg(targetKg)
	}

	age, _ := strconv.Atoi(strings.TrimSpace(*p.fAge))

	next := profile.Apply(p.prof,
		profile.SetAge{Years: age},
		profile.SetSex{Sex: nutrition.Sex(*p.fSex)},
		profile.SetHeight{Cm: heightCm},
		profile.SetWeight{Kg: weightKg},
		profile.SetActivity{Level: nutrition.ActivityLevel(*p.fActivity)},
		profile.SetTargetWeight{Kg: targetKg},
		profile.SetTargetDate{Date: strings.TrimSpace(*p.fTargetDate)},
		profile.SetPlanDescription{Text: strings.TrimSpace(*p.fPlan)},
		profile.SetIntermittentFasting{Enabled: *p.fFasting},
		profile.SetRefeedEnabled{Enabled: *p.fRefeed},
		profile.SetProtocol{Protocol: fasting.NewProtocol(fasting.ProtocolType(*p.fProtocol), 0, 0)},
	)
	if err := next.Recalculate(); err != nil {
		return p, errStatus(err)
	}
	if err := p.store.SaveProfile(next); err != nil {
		return p, errStatus(err)
	}
	p.prof = next
	return p, func() tea.Msg { return profileSavedMsg{profile: next} }
}

func (p profileModel) view() string {
	w := p.width - 4

	if p.editing && p.form != nil {
		return panelStyle.Width(w).Render(p.form.View())
	}

	prof := p.prof
	title := titleStyle.Render("Profile")

	feet, inches := nutrition.CmToFeetInches(prof.Details.HeightCm)
	rows := []string{
		row("Age", fmt.Sprintf("%d years", prof.Details.AgeYears)),
		row("Sex", string(prof.Details.Sex)),
		row("Height", fmt.Sprintf("%.0f cm (%d'%d\")", prof.Details.HeightCm, feet, inches)),
		row("Weight", fmt.Sprintf("%.1f kg (%.1f lb)", prof.Details.WeightKg, nutrition.KgToLbs(prof.Details.WeightKg))),
		row("Activity", activityLabel(prof.Activity)),
		"",
		row("Plan", prof.Goals.PlanDescription),
		row("Target", fmt.Sprintf("%.1f kg", prof.Goals.TargetWeightKg)),
		row("BMR", fmt.Sprintf("%d kcal", prof.BMR)),
		row("TDEE", fmt.Sprintf("%d kcal", prof.TDEE)),
		row("Daily goal", fmt.Sprintf("%d kcal · P %.0fg C %.0fg F %.0fg",
			prof.TargetMacros.Calories, prof.TargetMacros.ProteinG, prof.TargetMacros.CarbsG, prof.TargetMacros.FatG)),
		"",
		row("Fasting", onOff(prof.Preferences.IntermittentFasting)+" · "+prof.Preferences.Protocol.Label()),
		row("Refeed days", onOff(prof.Preferences.RefeedEnabled)),
	}
	if prof.Goals.TargetDate != "" {
		rows = append(rows[:8], append([]string{row("Target date", prof.Goals.TargetDate)}, rows[8:]...)...)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		strings.Join(rows, "\n"),
		"",
		mutedStyle.Render("enter: edit profile"),
	)
	return panelStyle.Width(w).Render(body)
}

func row(label, value string) string {
	return fmt.Sprintf("%s %s", mutedStyle.Render(fmt.Sprintf("%-12s", label)), value)
}

func onOff(b bool) string {
	if b {
		return successStyle.Render("on")
	}
	return mutedStyle.Render("off")
}

func activityLabel(level nutrition.ActivityLevel) string {
	switch level {
	case nutrition.ActivitySedentary:
		return "Sedentary (little exercise)"
	case nutrition.ActivityLight:
		return "Light (1-3 days/week)"
	case nutrition.ActivityModerate:
		return "Moderate (3-5 days/week)"
	case nutrition.ActivityActive:
		return "Active (6-7 days/week)"
	case nutrition.ActivityVeryActive:
		return "Very active (physical job)"
	default:
		return string(level)
	}
}

func dateOrEmpty(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}
