package nutrition

import "math"

// Macros is a daily macro-nutrient target or total. Calories is kept
// consistent with the gram fields (4/4/9 kcal per gram) whenever grams
// change; editing Calories alone intentionally leaves grams untouched.
type Macros struct {
	Calories int
	ProteinG float64
	CarbsG   float64
	FatG     float64
}

// CaloriesFromGrams is the weighted 4/4/9 sum, rounded.
func CaloriesFromGrams(proteinG, carbsG, fatG float64) int {
	return int(math.Round(proteinG*4 + carbsG*4 + fatG*9))
}

// MacrosFromGrams builds a Macros with calories recomputed from the grams.
// Used for manual gram edits so the calorie figure never drifts from them.
func MacrosFromGrams(proteinG, carbsG, fatG float64) Macros {
	return Macros{
		Calories: CaloriesFromGrams(proteinG, carbsG, fatG),
		ProteinG: proteinG,
		CarbsG:   carbsG,
		FatG:     fatG,
	}
}

// Consistent reports whether the calorie field matches the gram fields.
func (m Macros) Consistent() bool {
	return m.Calories == CaloriesFromGrams(m.ProteinG, m.CarbsG, m.FatG)
}
