package nutrition

import (
	"math"
	"testing"
)

// ============================================================
// Unit conversions
// ============================================================

func TestConvertWeight(t *testing.T) {
	got, err := ConvertWeight(70, UnitKg, UnitLbs)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-154.324) > 0.001 {
		t.Fatalf("70 kg = %f lbs, want ~154.324", got)
	}

	back, err := ConvertWeight(got, UnitLbs, UnitKg)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(back-70) > 0.001 {
		t.Fatalf("round trip drifted: %f", back)
	}
}

func TestConvertWeightIdentity(t *testing.T) {
	got, err := ConvertWeight(82.5, UnitKg, UnitKg)
	if err != nil {
		t.Fatal(err)
	}
	if got != 82.5 {
		t.Fatalf("identity conversion changed value: %f", got)
	}
}

func TestConvertWeightAliases(t *testing.T) {
	if _, err := ConvertWeight(10, "KG", "lb"); err != nil {
		t.Fatalf("case/alias forms should resolve: %v", err)
	}
	if _, err := ConvertWeight(10, UnitKg, "stone"); err == nil {
		t.Fatal("expected error for unsupported unit")
	}
}

func TestCmToFeetInches(t *testing.T) {
	feet, inches := CmToFeetInches(177.8)
	if feet != 5 || inches != 10 {
		t.Fatalf("177.8 cm = %d'%d\", want 5'10\"", feet, inches)
	}
}

func TestCmToFeetInchesCarry(t *testing.T) {
	// 182.5 cm is 71.85 in: inches round to 12 and must carry into feet.
	feet, inches := CmToFeetInches(182.5)
	if feet != 6 || inches != 0 {
		t.Fatalf("182.5 cm = %d'%d\", want 6'0\"", feet, inches)
	}
}

func TestFeetInchesToCm(t *testing.T) {
	got := FeetInchesToCm(5, 10)
	if math.Abs(got-177.8) > 0.001 {
		t.Fatalf("5'10\" = %f cm, want 177.8", got)
	}
}

// ============================================================
// BMR / TDEE
// ============================================================

func TestBMR(t *testing.T) {
	tests := []struct {
		name    string
		details PersonalDetails
		want    int
	}{
		{"male", PersonalDetails{AgeYears: 30, Sex: SexMale, HeightCm: 175, WeightKg: 70}, 1649},
		{"female", PersonalDetails{AgeYears: 30, Sex: SexFemale, HeightCm: 175, WeightKg: 70}, 1483},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BMR(tt.details)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("BMR = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBMRInvalidSex(t *testing.T) {
	_, err := BMR(PersonalDetails{AgeYears: 30, Sex: "other", HeightCm: 175, WeightKg: 70})
	if err != ErrInvalidSex {
		t.Fatalf("expected ErrInvalidSex, got %v", err)
	}
}

func TestTDEE(t *testing.T) {
	got, err := TDEE(1649, ActivityModerate)
	if err != nil {
		t.Fatal(err)
	}
	if got != 2556 {
		t.Fatalf("TDEE = %d, want 2556", got)
	}
}

func TestTDEEInvalidActivity(t *testing.T) {
	_, err := TDEE(1649, "couch")
	if err != ErrInvalidActivity {
		t.Fatalf("expected ErrInvalidActivity, got %v", err)
	}
}

func TestActivityLevelsOrdered(t *testing.T) {
	levels := ActivityLevels()
	if len(levels) != 5 {
		t.Fatalf("expected 5 levels, got %d", len(levels))
	}
	if levels[0] != ActivitySedentary || levels[4] != ActivityVeryActive {
		t.Fatalf("levels out of order: %v", levels)
	}
}

// ============================================================
// Macros
// ============================================================

func TestCaloriesFromGrams(t *testing.T) {
	if got := CaloriesFromGrams(150, 200, 67); got != 2003 {
		t.Fatalf("got %d, want 2003", got)
	}
}

func TestMacrosFromGramsConsistent(t *testing.T) {
	m := MacrosFromGrams(120, 180, 55)
	if !m.Consistent() {
		t.Fatalf("calories %d inconsistent with grams", m.Calories)
	}
}

func TestConsistentDetectsDrift(t *testing.T) {
	m := MacrosFromGrams(120, 180, 55)
	m.Calories += 100
	if m.Consistent() {
		t.Fatal("drifted calories reported consistent")
	}
}

// ============================================================
// Macro planner
// ============================================================

func TestSplitFor(t *testing.T) {
	tests := []struct {
		plan string
		want string
	}{
		{"Build muscle and get stronger", "Muscle Gain"},
		{"trying keto this month", "Keto"},
		{"low carb lifestyle", "Keto"},
		{"Lose weight and tone up", "Weight Loss"},
		{"cut for summer", "Weight Loss"},
		{"", "General"},
		{"stay healthy", "General"},
		// muscle/gain outranks the later keyword groups
		{"gain muscle on keto", "Muscle Gain"},
	}
	for _, tt := range tests {
		if got := SplitFor(tt.plan); got.Name != tt.want {
			t.Errorf("SplitFor(%q) = %s, want %s", tt.plan, got.Name, tt.want)
		}
	}
}

func TestSplitRatiosSumToOne(t *testing.T) {
	for _, s := range []Split{splitMuscleGain, splitKeto, splitWeightLoss, splitGeneral} {
		sum := s.Protein + s.Carbs + s.Fat
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("%s ratios sum to %f", s.Name, sum)
		}
	}
}

func TestSuggestMacrosLossAdjustment(t *testing.T) {
	goals := Goals{TargetWeightKg: 65, PlanDescription: "lose weight"}
	m := SuggestMacros(2556, goals, 70)
	// 2556 - 500 = 2056 pre-rounding; grams per 40/30/30.
	if m.ProteinG != math.Round(2056*0.40/4) {
		t.Fatalf("protein = %f", m.ProteinG)
	}
	if !m.Consistent() {
		t.Fatalf("calories %d not derived from grams", m.Calories)
	}
}

func TestSuggestMacrosGainAdjustment(t *testing.T) {
	goals := Goals{TargetWeightKg: 75, PlanDescription: "build muscle"}
	m := SuggestMacros(2556, goals, 70)
	if m.ProteinG != math.Round(2856*0.35/4) {
		t.Fatalf("protein = %f", m.ProteinG)
	}
	if !m.Consistent() {
		t.Fatal("inconsistent macros")
	}
}

func TestSuggestMacrosNoAdjustmentWithinKilogram(t *testing.T) {
	goals := Goals{TargetWeightKg: 70.5}
	m := SuggestMacros(2000, goals, 70)
	if m.ProteinG != math.Round(2000*0.30/4) {
		t.Fatalf("small delta should not shift calories, protein = %f", m.ProteinG)
	}
}

func TestSuggestMacrosFloor(t *testing.T) {
	goals := Goals{TargetWeightKg: 40, PlanDescription: "cut"}
	m := SuggestMacros(1500, goals, 60)
	// 1500 - 500 = 1000, floored to 1200 before the split.
	if m.ProteinG != math.Round(1200*0.40/4) {
		t.Fatalf("floor not applied, protein = %f", m.ProteinG)
	}
}

// ============================================================
// Daily ledger
// ============================================================

func TestTotalsEmpty(t *testing.T) {
	m := Totals(nil)
	if m.Calories != 0 || m.ProteinG != 0 || m.CarbsG != 0 || m.FatG != 0 {
		t.Fatalf("empty set should total zero: %+v", m)
	}
}

func TestTotalsQuantity(t *testing.T) {
	entries := []ServingEntry{
		{Calories: 200, ProteinG: 10, CarbsG: 20, FatG: 5, Quantity: 2},
		{Calories: 150, ProteinG: 8, CarbsG: 12, FatG: 6, Quantity: 1},
	}
	m := Totals(entries)
	if m.Calories != 550 {
		t.Fatalf("calories = %d, want 550", m.Calories)
	}
	if m.ProteinG != 28 || m.CarbsG != 52 || m.FatG != 16 {
		t.Fatalf("grams = %+v", m)
	}
}

func TestTotalsOrderIndependent(t *testing.T) {
	entries := []ServingEntry{
		{Calories: 120.3, ProteinG: 9.1, Quantity: 1},
		{Calories: 333.4, CarbsG: 41.2, Quantity: 1.5},
		{Calories: 87.9, FatG: 4.4, Quantity: 3},
	}
	reversed := []ServingEntry{entries[2], entries[1], entries[0]}
	if Totals(entries) != Totals(reversed) {
		t.Fatal("totals depend on entry order")
	}
}

func TestEffectiveGoalsPassthrough(t *testing.T) {
	target := MacrosFromGrams(150, 200, 67)
	if got := EffectiveGoals(false, target, 2500, true); got != target {
		t.Fatalf("non-refeed day should pass target through: %+v", got)
	}
	if got := EffectiveGoals(true, target, 2500, false); got != target {
		t.Fatalf("disabled refeed should pass target through: %+v", got)
	}
}

func TestEffectiveGoalsRefeed(t *testing.T) {
	target := Macros{Calories: 2000, ProteinG: 150, CarbsG: 200, FatG: 67}
	got := EffectiveGoals(true, target, 2500, true)

	if got.Calories != 2875 {
		t.Fatalf("refeed calories = %d, want 2875", got.Calories)
	}
	if got.ProteinG != 216 || got.CarbsG != 288 || got.FatG != 96 {
		t.Fatalf("refeed grams = %+v", got)
	}
}

func TestEffectiveGoalsRefeedZeroTarget(t *testing.T) {
	target := Macros{ProteinG: 150, CarbsG: 200, FatG: 67}
	got := EffectiveGoals(true, target, 2500, true)
	if got.Calories != 2875 {
		t.Fatalf("calories = %d, want 2875", got.Calories)
	}
	// ratio guards to 1 so grams stay as-is
	if got.ProteinG != 150 || got.CarbsG != 200 || got.FatG != 67 {
		t.Fatalf("zero-calorie target should leave grams unscaled: %+v", got)
	}
}

func TestReconcileGoals(t *testing.T) {
	target := MacrosFromGrams(150, 200, 67)

	got, changed := ReconcileGoals(target, false, target, 2500, true)
	if changed {
		t.Fatal("identical stored goals reported changed")
	}
	if got != target {
		t.Fatalf("got %+v", got)
	}

	stale := Macros{Calories: 1800, ProteinG: 100, CarbsG: 150, FatG: 50}
	got, changed = ReconcileGoals(stale, false, target, 2500, true)
	if !changed {
		t.Fatal("stale stored goals not flagged")
	}
	if got != target {
		t.Fatalf("reconciled to %+v, want %+v", got, target)
	}
}
