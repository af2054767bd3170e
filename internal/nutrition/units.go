package nutrition

import (
	"fmt"
	"math"
	"strings"
)

// kgPerLb matches the factor used across the food databases we sync with.
const kgPerLb = 0.453592

type WeightUnit string

const (
	UnitKg  WeightUnit = "kg"
	UnitLbs WeightUnit = "lbs"
)

// ConvertWeight converts between kg and lbs. Identity when units match.
func ConvertWeight(value float64, from, to WeightUnit) (float64, error) {
	f, err := resolveWeightUnit(from)
	if err != nil {
		return 0, err
	}
	t, err := resolveWeightUnit(to)
	if err != nil {
		return 0, err
	}
	if f == t {
		return value, nil
	}
	if f == UnitKg {
		return value / kgPerLb, nil
	}
	return value * kgPerLb, nil
}

func KgToLbs(kg float64) float64 { return kg / kgPerLb }

func LbsToKg(lbs float64) float64 { return lbs * kgPerLb }

// CmToFeetInches converts a metric height to whole feet and inches.
// Inches that round up to 12 carry into the next foot.
func CmToFeetInches(cm float64) (feet, inches int) {
	totalInches := cm / 2.54
	feet = int(totalInches / 12)
	inches = int(math.Round(totalInches - float64(feet)*12))
	if inches == 12 {
		feet++
		inches = 0
	}
	return feet, inches
}

func FeetInchesToCm(feet, inches int) float64 {
	return (float64(feet)*12 + float64(inches)) * 2.54
}

func resolveWeightUnit(u WeightUnit) (WeightUnit, error) {
	switch WeightUnit(strings.ToLower(strings.TrimSpace(string(u)))) {
	case UnitKg:
		return UnitKg, nil
	case UnitLbs, "lb":
		return UnitLbs, nil
	default:
		return "", fmt.Errorf("unsupported weight unit %q", u)
	}
}
