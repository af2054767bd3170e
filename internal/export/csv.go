package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/melcan/fastbite/internal/store"
)

func ToCSV(logs []store.DailyLog, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{
		"Date", "Refeed", "Entry", "Calories", "Protein (g)", "Carbs (g)", "Fat (g)",
		"Serving", "Quantity", "Meal Time", "AI", "Notes",
	}); err != nil {
		return err
	}

	for _, l := range logs {
		for _, e := range l.Entries {
			row := []string{
				l.Date,
				boolStr(l.IsRefeedDay),
				e.Name,
				fmt.Sprintf("%.1f", e.Calories),
				fmt.Sprintf("%.1f", e.ProteinG),
				fmt.Sprintf("%.1f", e.CarbsG),
				fmt.Sprintf("%.1f", e.FatG),
				e.ServingSize,
				fmt.Sprintf("%g", e.Quantity),
				e.MealTime.Local().Format(time.RFC3339),
				boolStr(e.AIAssisted),
				e.Notes,
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	return w.Error()
}

func boolStr(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
