package profile

import (
	"github.com/melcan/fastbite/internal/fasting"
	"github.com/melcan/fastbite/internal/nutrition"
)

// Update is a tagged profile mutation. Each variant names exactly one field
// edit; Apply dispatches them through a single reducer so every edit path is
// explicit and exhaustiveness lives in one switch.
type Update interface {
	isUpdate()
}

type SetAge struct{ Years int }
type SetSex struct{ Sex nutrition.Sex }
type SetHeight struct{ Cm float64 }
type SetWeight struct{ Kg float64 }
type SetActivity struct{ Level nutrition.ActivityLevel }
type SetTargetWeight struct{ Kg float64 }
type SetTargetDate struct{ Date string }
type SetPlanDescription struct{ Text string }
type SetIntermittentFasting struct{ Enabled bool }
type SetRefeedEnabled struct{ Enabled bool }
type SetProtocol struct{ Protocol fasting.Protocol }

// SetMacroGrams is a manual gram edit; calories are recomputed from the
// grams to restore the 4/4/9 invariant.
type SetMacroGrams struct{ ProteinG, CarbsG, FatG float64 }

// SetCalories edits the calorie figure alone. Grams are deliberately not
// back-solved; the user rebalances them.
type SetCalories struct{ Calories int }

func (SetAge) isUpdate()                 {}
func (SetSex) isUpdate()                 {}
func (SetHeight) isUpdate()              {}
func (SetWeight) isUpdate()              {}
func (SetActivity) isUpdate()            {}
func (SetTargetWeight) isUpdate()        {}
func (SetTargetDate) isUpdate()          {}
func (SetPlanDescription) isUpdate()     {}
func (SetIntermittentFasting) isUpdate() {}
func (SetRefeedEnabled) isUpdate()       {}
func (SetProtocol) isUpdate()            {}
func (SetMacroGrams) isUpdate()          {}
func (SetCalories) isUpdate()            {}

// Apply reduces updates onto a profile snapshot and returns the new value.
// Derived fields are not recomputed here; call Recalculate explicitly once
// a batch of edits is done.
func Apply(p Profile, updates ...Update) Profile {
	for _, u := range updates {
		switch u := u.(type) {
		case SetAge:
			p.Details.AgeYears = u.Years
		case SetSex:
			p.Details.Sex = u.Sex
		case SetHeight:
			p.Details.HeightCm = u.Cm
		case SetWeight:
			p.Details.WeightKg = u.Kg
		case SetActivity:
			p.Activity = u.Level
		case SetTargetWeight:
			p.Goals.TargetWeightKg = u.Kg
		case SetTargetDate:
			p.Goals.TargetDate = u.Date
		case SetPlanDescription:
			p.Goals.PlanDescription = u.Text
		case SetIntermittentFasting:
			p.Preferences.IntermittentFasting = u.Enabled
		case SetRefeedEnabled:
			p.Preferences.RefeedEnabled = u.Enabled
		case SetProtocol:
			p.Preferences.Protocol = u.Protocol
		case SetMacroGrams:
			p.TargetMacros = nutrition.MacrosFromGrams(u.ProteinG, u.CarbsG, u.FatG)
		case SetCalories:
			p.TargetMacros.Calories = u.Calories
		}
	}
	return p
}
