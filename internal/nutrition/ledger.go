package nutrition

import "math"

// refeedFactor scales TDEE up on refeed days.
const refeedFactor = 1.15

// ServingEntry is a food entry's per-serving macros plus the quantity
// multiplier; its contribution to a day is quantity * each field.
type ServingEntry struct {
	Calories float64
	ProteinG float64
	CarbsG   float64
	FatG     float64
	Quantity float64
}

// Totals sums entry contributions for a day. The sum is associative, so
// recomputing over the same set in any order yields the same result.
// An empty set totals zero.
func Totals(entries []ServingEntry) Macros {
	var cal, protein, carbs, fat float64
	for _, e := range entries {
		cal += e.Calories * e.Quantity
		protein += e.ProteinG * e.Quantity
		carbs += e.CarbsG * e.Quantity
		fat += e.FatG * e.Quantity
	}
	return Macros{
		Calories: int(math.Round(cal)),
		ProteinG: protein,
		CarbsG:   carbs,
		FatG:     fat,
	}
}

// EffectiveGoals resolves a day's goal macros. Non-refeed days (or a
// disabled refeed preference) pass the base target through unchanged.
// Refeed days scale the target to round(tdee*1.15) calories, with each
// gram field scaled and rounded independently; the resulting calorie sum
// may drift slightly from the refeed figure and is not re-normalized.
func EffectiveGoals(isRefeedDay bool, target Macros, tdee int, refeedEnabled bool) Macros {
	if !isRefeedDay || !refeedEnabled {
		return target
	}
	refeedCalories := int(math.Round(float64(tdee) * refeedFactor))
	ratio := 1.0
	if target.Calories != 0 {
		ratio = float64(refeedCalories) / float64(target.Calories)
	}
	return Macros{
		Calories: refeedCalories,
		ProteinG: math.Round(target.ProteinG * ratio),
		CarbsG:   math.Round(target.CarbsG * ratio),
		FatG:     math.Round(target.FatG * ratio),
	}
}

// ReconcileGoals recomputes a day's effective goals from current inputs and
// reports whether the stored value needs overwriting. Stale stored goals are
// self-healed here, never surfaced as an error.
func ReconcileGoals(stored Macros, isRefeedDay bool, target Macros, tdee int, refeedEnabled bool) (Macros, bool) {
	effective := EffectiveGoals(isRefeedDay, target, tdee, refeedEnabled)
	return effective, effective != stored
}
