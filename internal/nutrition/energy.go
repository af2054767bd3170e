package nutrition

import (
	"errors"
	"math"
)

var (
	// ErrInvalidSex is returned for a sex value outside the closed enum.
	ErrInvalidSex = errors.New("unrecognized sex")

	// ErrInvalidActivity is returned for an unknown activity level key.
	ErrInvalidActivity = errors.New("unrecognized activity level")
)

// Sex selects the Mifflin-St Jeor constant. It is a two-valued coefficient
// key, not a general representation of sex or gender.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// activityMultipliers is the single source of truth for valid activity
// levels; the profile form builds its options from the same keys.
var activityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary:  1.2,
	ActivityLight:      1.375,
	ActivityModerate:   1.55,
	ActivityActive:     1.725,
	ActivityVeryActive: 1.9,
}

// ActivityLevels lists the tiers in ascending order for UI pickers.
func ActivityLevels() []ActivityLevel {
	return []ActivityLevel{
		ActivitySedentary, ActivityLight, ActivityModerate,
		ActivityActive, ActivityVeryActive,
	}
}

// PersonalDetails is the immutable calculator input snapshot.
type PersonalDetails struct {
	AgeYears int
	Sex      Sex
	HeightCm float64
	WeightKg float64
}

// BMR computes basal metabolic rate (kcal/day) via Mifflin-St Jeor:
// 10*kg + 6.25*cm - 5*age, +5 for male / -161 for female.
func BMR(d PersonalDetails) (int, error) {
	base := 10*d.WeightKg + 6.25*d.HeightCm - 5*float64(d.AgeYears)
	switch d.Sex {
	case SexMale:
		base += 5
	case SexFemale:
		base -= 161
	default:
		return 0, ErrInvalidSex
	}
	return int(math.Round(base)), nil
}

// TDEE scales a BMR by the activity multiplier for the given tier.
func TDEE(bmr int, level ActivityLevel) (int, error) {
	mult, ok := activityMultipliers[level]
	if !ok {
		return 0, ErrInvalidActivity
	}
	return int(math.Round(float64(bmr) * mult)), nil
}
