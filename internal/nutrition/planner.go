package nutrition

import (
	"math"
	"strings"
)

// minCalories floors suggested targets to avoid unsafe deficits.
const minCalories = 1200

// Goals captures what the user wants to reach and by when. PlanDescription
// is free text; its keywords pick the macro split.
type Goals struct {
	TargetWeightKg  float64
	TargetDate      string // YYYY-MM-DD, informational
	PlanDescription string
}

// Split is a protein/carb/fat calorie ratio. Ratios sum to 1.
type Split struct {
	Name    string
	Protein float64
	Carbs   float64
	Fat     float64
}

var (
	splitMuscleGain = Split{Name: "Muscle Gain", Protein: 0.35, Carbs: 0.45, Fat: 0.20}
	splitKeto       = Split{Name: "Keto", Protein: 0.25, Carbs: 0.05, Fat: 0.70}
	splitWeightLoss = Split{Name: "Weight Loss", Protein: 0.40, Carbs: 0.30, Fat: 0.30}
	splitGeneral    = Split{Name: "General", Protein: 0.30, Carbs: 0.40, Fat: 0.30}
)

// SplitFor picks a macro split from free-text plan keywords, first match
// wins. Substring matching on user prose is brittle but matches what users
// already typed into their plans; keep replacements behind this function.
func SplitFor(planDescription string) Split {
	plan := strings.ToLower(planDescription)
	contains := func(subs ...string) bool {
		for _, s := range subs {
			if strings.Contains(plan, s) {
				return true
			}
		}
		return false
	}
	switch {
	case contains("muscle", "gain"):
		return splitMuscleGain
	case contains("keto", "low carb"):
		return splitKeto
	case contains("lose weight", "fat loss", "cut"):
		return splitWeightLoss
	default:
		return splitGeneral
	}
}

// SuggestMacros derives a daily macro target from TDEE and goals.
//
// The calorie target starts at TDEE, shifts -500 for a >1kg loss goal or
// +300 for a >1kg gain goal, and is floored at 1200. Grams are rounded per
// split ratio, then calories are recomputed from the rounded grams so the
// stored figure always satisfies the 4/4/9 invariant; the pre-rounding
// calorie value is only an intermediate.
func SuggestMacros(tdee int, goals Goals, currentWeightKg float64) Macros {
	calories := float64(tdee)
	delta := goals.TargetWeightKg - currentWeightKg
	switch {
	case delta < -1:
		calories -= 500
	case delta > 1:
		calories += 300
	}
	if calories < minCalories {
		calories = minCalories
	}

	split := SplitFor(goals.PlanDescription)
	protein := math.Round(calories * split.Protein / 4)
	carbs := math.Round(calories * split.Carbs / 4)
	fat := math.Round(calories * split.Fat / 9)

	return MacrosFromGrams(protein, carbs, fat)
}
