package profile

import (
	"testing"

	"github.com/melcan/fastbite/internal/fasting"
	"github.com/melcan/fastbite/internal/nutrition"
)

func TestDefault(t *testing.T) {
	p := Default()
	if p.Preferences.IntermittentFasting {
		t.Fatal("fasting should default off")
	}
	if p.Preferences.Protocol.Type != fasting.Protocol16x8 {
		t.Fatalf("protocol = %s", p.Preferences.Protocol.Type)
	}
	if !p.TargetMacros.Consistent() {
		t.Fatalf("default macros inconsistent: %+v", p.TargetMacros)
	}
}

func TestApply(t *testing.T) {
	p := Apply(Default(),
		SetAge{Years: 45},
		SetSex{Sex: nutrition.SexFemale},
		SetHeight{Cm: 165},
		SetWeight{Kg: 62},
		SetActivity{Level: nutrition.ActivityLight},
		SetTargetWeight{Kg: 58},
		SetTargetDate{Date: "2026-12-01"},
		SetPlanDescription{Text: "lose weight"},
		SetIntermittentFasting{Enabled: true},
		SetRefeedEnabled{Enabled: true},
		SetProtocol{Protocol: fasting.ParseCustom("14", "10")},
	)

	if p.Details.AgeYears != 45 || p.Details.Sex != nutrition.SexFemale {
		t.Fatalf("details = %+v", p.Details)
	}
	if p.Activity != nutrition.ActivityLight {
		t.Fatalf("activity = %s", p.Activity)
	}
	if p.Goals.TargetWeightKg != 58 || p.Goals.TargetDate != "2026-12-01" {
		t.Fatalf("goals = %+v", p.Goals)
	}
	if !p.Preferences.IntermittentFasting || !p.Preferences.RefeedEnabled {
		t.Fatalf("preferences = %+v", p.Preferences)
	}
	if p.Preferences.Protocol.FastingHours != 14 {
		t.Fatalf("protocol = %+v", p.Preferences.Protocol)
	}
}

func TestApplyMacroGramsRestoresConsistency(t *testing.T) {
	p := Apply(Default(), SetMacroGrams{ProteinG: 180, CarbsG: 220, FatG: 70})
	if p.TargetMacros.ProteinG != 180 {
		t.Fatalf("protein = %f", p.TargetMacros.ProteinG)
	}
	if !p.TargetMacros.Consistent() {
		t.Fatalf("calories not recomputed: %+v", p.TargetMacros)
	}
}

func TestApplyCaloriesLeavesGrams(t *testing.T) {
	base := Default()
	p := Apply(base, SetCalories{Calories: 1800})
	if p.TargetMacros.Calories != 1800 {
		t.Fatalf("calories = %d", p.TargetMacros.Calories)
	}
	if p.TargetMacros.ProteinG != base.TargetMacros.ProteinG {
		t.Fatal("gram fields were back-solved")
	}
}

func TestRecalculate(t *testing.T) {
	p := Default()
	p.Details = nutrition.PersonalDetails{AgeYears: 30, Sex: nutrition.SexMale, HeightCm: 175, WeightKg: 70}
	p.Activity = nutrition.ActivityModerate
	p.Goals = nutrition.Goals{TargetWeightKg: 65, PlanDescription: "lose weight"}

	if err := p.Recalculate(); err != nil {
		t.Fatal(err)
	}
	if p.BMR != 1649 {
		t.Fatalf("bmr = %d, want 1649", p.BMR)
	}
	if p.TDEE != 2556 {
		t.Fatalf("tdee = %d, want 2556", p.TDEE)
	}
	if !p.TargetMacros.Consistent() {
		t.Fatalf("macros = %+v", p.TargetMacros)
	}
}

func TestRecalculateFailureKeepsDerived(t *testing.T) {
	p := Default()
	if err := p.Recalculate(); err != nil {
		t.Fatal(err)
	}
	before := p

	p.Details.Sex = "unknown"
	if err := p.Recalculate(); err == nil {
		t.Fatal("expected error for invalid sex")
	}
	if p.BMR != before.BMR || p.TDEE != before.TDEE || p.TargetMacros != before.TargetMacros {
		t.Fatal("failed recalculation touched derived fields")
	}
}
