package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/melcan/fastbite/internal/store"
)

type jsonExport struct {
	ExportedAt string    `json:"exported_at"`
	Count      int       `json:"count"`
	Days       []jsonDay `json:"days"`
}

type jsonDay struct {
	Date          string      `json:"date"`
	Refeed        bool        `json:"refeed"`
	GoalCalories  int         `json:"goal_calories"`
	TotalCalories int         `json:"total_calories"`
	Entries       []jsonEntry `json:"entries"`
}

type jsonEntry struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Calories    float64 `json:"calories"`
	ProteinG    float64 `json:"protein_g"`
	CarbsG      float64 `json:"carbs_g"`
	FatG        float64 `json:"fat_g"`
	ServingSize string  `json:"serving_size,omitempty"`
	Quantity    float64 `json:"quantity"`
	LoggedAt    string  `json:"logged_at"`
	MealTime    string  `json:"meal_time"`
	AIAssisted  bool    `json:"ai_assisted,omitempty"`
	Notes       string  `json:"notes,omitempty"`
}

func ToJSON(logs []store.DailyLog, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(logs),
	}

	for _, l := range logs {
		day := jsonDay{
			Date:          l.Date,
			Refeed:        l.IsRefeedDay,
			GoalCalories:  l.Goals.Calories,
			TotalCalories: l.Totals.Calories,
		}
		for _, e := range l.Entries {
			day.Entries = append(day.Entries, jsonEntry{
				ID:          e.ID,
				Name:        e.Name,
				Calories:    e.Calories,
				ProteinG:    e.ProteinG,
				CarbsG:      e.CarbsG,
				FatG:        e.FatG,
				ServingSize: e.ServingSize,
				Quantity:    e.Quantity,
				LoggedAt:    e.LoggedAt.Local().Format(time.RFC3339),
				MealTime:    e.MealTime.Local().Format(time.RFC3339),
				AIAssisted:  e.AIAssisted,
				Notes:       e.Notes,
			})
		}
		export.Days = append(export.Days, day)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
