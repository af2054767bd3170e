package profile

import (
	"github.com/melcan/fastbite/internal/fasting"
	"github.com/melcan/fastbite/internal/nutrition"
)

// DietaryPreferences controls the fasting timer and refeed-day behavior.
type DietaryPreferences struct {
	IntermittentFasting bool
	RefeedEnabled       bool
	Protocol            fasting.Protocol
}

// Profile is the single user aggregate: measured inputs, goals, preferences,
// and the derived energy/macro targets. Derived fields are recomputed via
// Recalculate after edits, never persisted independently of the rest.
type Profile struct {
	Details     nutrition.PersonalDetails
	Activity    nutrition.ActivityLevel
	Goals       nutrition.Goals
	Preferences DietaryPreferences

	BMR          int
	TDEE         int
	TargetMacros nutrition.Macros
}

// DefaultGoals seeds a fresh profile before onboarding completes.
func DefaultGoals() nutrition.Goals {
	return nutrition.Goals{PlanDescription: "General fitness"}
}

// DefaultMacros is the initial 2000 kcal general-split target, already in
// grams-consistent form.
func DefaultMacros() nutrition.Macros {
	return nutrition.MacrosFromGrams(150, 200, 67)
}

// Default is what a load-miss produces: general goals, initial macros,
// fasting disabled on the 16:8 protocol.
func Default() Profile {
	return Profile{
		Details:  nutrition.PersonalDetails{AgeYears: 30, Sex: nutrition.SexMale, HeightCm: 170, WeightKg: 70},
		Activity: nutrition.ActivityModerate,
		Goals:    DefaultGoals(),
		Preferences: DietaryPreferences{
			Protocol: fasting.DefaultProtocol(),
		},
		TargetMacros: DefaultMacros(),
	}
}

// Recalculate re-derives BMR, TDEE and the suggested macro target from the
// current details, activity and goals. Callers invoke it after reducing
// detail/goal updates; a failed BMR leaves every derived field untouched.
func (p *Profile) Recalculate() error {
	bmr, err := nutrition.BMR(p.Details)
	if err != nil {
		return err
	}
	tdee, err := nutrition.TDEE(bmr, p.Activity)
	if err != nil {
		return err
	}
	p.BMR = bmr
	p.TDEE = tdee
	p.TargetMacros = nutrition.SuggestMacros(tdee, p.Goals, p.Details.WeightKg)
	return nil
}
