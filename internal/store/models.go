package store

import (
	"time"

	"github.com/melcan/fastbite/internal/nutrition"
)

// FoodEntry is a logged food with per-serving macros. LoggedAt is fixed at
// creation; MealTime is the user-editable consumption timestamp.
type FoodEntry struct {
	ID          string
	LogDate     string // YYYY-MM-DD
	Name        string
	Calories    float64
	ProteinG    float64
	CarbsG      float64
	FatG        float64
	ServingSize string
	Quantity    float64
	LoggedAt    time.Time
	MealTime    time.Time
	Notes       string
	AIAssisted  bool
}

// Serving is the entry's contribution input for the daily ledger.
func (e FoodEntry) Serving() nutrition.ServingEntry {
	return nutrition.ServingEntry{
		Calories: e.Calories,
		ProteinG: e.ProteinG,
		CarbsG:   e.CarbsG,
		FatG:     e.FatG,
		Quantity: e.Quantity,
	}
}

// DailyLog is one calendar day of the ledger. Entries keep insertion order
// for display; Totals are always derived from Entries, never stored.
type DailyLog struct {
	Date        string
	IsRefeedDay bool
	Goals       nutrition.Macros
	Entries     []FoodEntry
	Totals      nutrition.Macros
}

// DaySummary is an aggregated row for the trends chart.
type DaySummary struct {
	Date         string
	Calories     int
	GoalCalories int
	EntryCount   int
}

type Setting struct {
	Key   string
	Value string
}
