package store

import (
	"database/sql"
	"fmt"

	"github.com/melcan/fastbite/internal/fasting"
	"github.com/melcan/fastbite/internal/nutrition"
	"github.com/melcan/fastbite/internal/profile"
)

// GetProfile loads the singleton user profile. A load-miss yields the
// documented defaults without creating a row; the first save creates it.
func (s *Store) GetProfile() (profile.Profile, error) {
	var (
		p            profile.Profile
		sex          string
		activity     string
		ifEnabled    int
		refeed       int
		protoType    string
		fastingHours float64
		eatingHours  float64
	)
	err := s.db.QueryRow(`
		SELECT age, sex, height_cm, weight_kg, activity,
		       target_weight_kg, target_date, plan_description,
		       intermittent_fasting, refeed_enabled,
		       protocol_type, fasting_hours, eating_hours,
		       bmr, tdee, goal_calories, goal_protein_g, goal_carbs_g, goal_fat_g
		FROM profiles WHERE id = 1`,
	).Scan(
		&p.Details.AgeYears, &sex, &p.Details.HeightCm, &p.Details.WeightKg, &activity,
		&p.Goals.TargetWeightKg, &p.Goals.TargetDate, &p.Goals.PlanDescription,
		&ifEnabled, &refeed,
		&protoType, &fastingHours, &eatingHours,
		&p.BMR, &p.TDEE, &p.TargetMacros.Calories, &p.TargetMacros.ProteinG,
		&p.TargetMacros.CarbsG, &p.TargetMacros.FatG,
	)
	if err == sql.ErrNoRows {
		return profile.Default(), nil
	}
	if err != nil {
		return profile.Profile{}, fmt.Errorf("get profile: %w", err)
	}

	p.Details.Sex = nutrition.Sex(sex)
	p.Activity = nutrition.ActivityLevel(activity)
	p.Preferences = profile.DietaryPreferences{
		IntermittentFasting: ifEnabled != 0,
		RefeedEnabled:       refeed != 0,
		Protocol:            fasting.NewProtocol(fasting.ProtocolType(protoType), fastingHours, eatingHours),
	}
	return p, nil
}

// SaveProfile upserts the singleton profile row.
func (s *Store) SaveProfile(p profile.Profile) error {
	_, err := s.db.Exec(`
		INSERT INTO profiles (
			id, age, sex, height_cm, weight_kg, activity,
			target_weight_kg, target_date, plan_description,
			intermittent_fasting, refeed_enabled,
			protocol_type, fasting_hours, eating_hours,
			bmr, tdee, goal_calories, goal_protein_g, goal_carbs_g, goal_fat_g,
			updated_at
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, strftime('%Y-%m-%dT%H:%M:%SZ','now'))
		ON CONFLICT(id) DO UPDATE SET
			age=excluded.age, sex=excluded.sex,
			height_cm=excluded.height_cm, weight_kg=excluded.weight_kg,
			activity=excluded.activity,
			target_weight_kg=excluded.target_weight_kg,
			target_date=excluded.target_date,
			plan_description=excluded.plan_description,
			intermittent_fasting=excluded.intermittent_fasting,
			refeed_enabled=excluded.refeed_enabled,
			protocol_type=excluded.protocol_type,
			fasting_hours=excluded.fasting_hours,
			eating_hours=excluded.eating_hours,
			bmr=excluded.bmr, tdee=excluded.tdee,
			goal_calories=excluded.goal_calories,
			goal_protein_g=excluded.goal_protein_g,
			goal_carbs_g=excluded.goal_carbs_g,
			goal_fat_g=excluded.goal_fat_g,
			updated_at=excluded.updated_at`,
		p.Details.AgeYears, string(p.Details.Sex), p.Details.HeightCm, p.Details.WeightKg,
		string(p.Activity),
		p.Goals.TargetWeightKg, p.Goals.TargetDate, p.Goals.PlanDescription,
		boolInt(p.Preferences.IntermittentFasting), boolInt(p.Preferences.RefeedEnabled),
		string(p.Preferences.Protocol.Type), p.Preferences.Protocol.FastingHours,
		p.Preferences.Protocol.EatingHours,
		p.BMR, p.TDEE, p.TargetMacros.Calories, p.TargetMacros.ProteinG,
		p.TargetMacros.CarbsG, p.TargetMacros.FatG,
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
