package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/melcan/fastbite/internal/nutrition"
	"github.com/melcan/fastbite/internal/profile"
)

// GetOrCreateLog returns the ledger day for date, creating it lazily on
// first access. Existing days are reconciled: effective goals are recomputed
// from the current refeed flag and profile targets, and the row is rewritten
// only when the computed value differs from the stored one. Totals are
// always derived from the entries on the way out.
func (s *Store) GetOrCreateLog(date string, prof profile.Profile) (*DailyLog, error) {
	log := &DailyLog{Date: date}

	var isRefeed int
	err := s.db.QueryRow(`
		SELECT is_refeed, goal_calories, goal_protein_g, goal_carbs_g, goal_fat_g
		FROM daily_logs WHERE date = ?`, date,
	).Scan(&isRefeed, &log.Goals.Calories, &log.Goals.ProteinG, &log.Goals.CarbsG, &log.Goals.FatG)

	switch {
	case err == sql.ErrNoRows:
		log.Goals = nutrition.EffectiveGoals(false, prof.TargetMacros, prof.TDEE, prof.Preferences.RefeedEnabled)
		_, err = s.db.Exec(`
			INSERT INTO daily_logs (date, is_refeed, goal_calories, goal_protein_g, goal_carbs_g, goal_fat_g)
			VALUES (?, 0, ?, ?, ?, ?)`,
			date, log.Goals.Calories, log.Goals.ProteinG, log.Goals.CarbsG, log.Goals.FatG,
		)
		if err != nil {
			return nil, fmt.Errorf("create log %s: %w", date, err)
		}
	case err != nil:
		return nil, fmt.Errorf("get log %s: %w", date, err)
	default:
		log.IsRefeedDay = isRefeed != 0
		goals, changed := nutrition.ReconcileGoals(
			log.Goals, log.IsRefeedDay, prof.TargetMacros, prof.TDEE, prof.Preferences.RefeedEnabled,
		)
		if changed {
			if err := s.writeLogGoals(date, goals); err != nil {
				return nil, err
			}
			log.Goals = goals
		}
	}

	entries, err := s.ListEntries(date)
	if err != nil {
		return nil, err
	}
	log.Entries = entries
	log.Totals = totalsOf(entries)
	return log, nil
}

// SetRefeedDay flips a day's refeed flag and reconciles its goals. Toggling
// while the refeed preference is disabled is a no-op.
func (s *Store) SetRefeedDay(date string, isRefeed bool, prof profile.Profile) (*DailyLog, error) {
	if !prof.Preferences.RefeedEnabled {
		return s.GetOrCreateLog(date, prof)
	}
	if _, err := s.GetOrCreateLog(date, prof); err != nil {
		return nil, err
	}
	goals := nutrition.EffectiveGoals(isRefeed, prof.TargetMacros, prof.TDEE, true)
	_, err := s.db.Exec(`
		UPDATE daily_logs SET is_refeed = ?, goal_calories = ?, goal_protein_g = ?, goal_carbs_g = ?, goal_fat_g = ?
		WHERE date = ?`,
		boolInt(isRefeed), goals.Calories, goals.ProteinG, goals.CarbsG, goals.FatG, date,
	)
	if err != nil {
		return nil, fmt.Errorf("set refeed %s: %w", date, err)
	}
	return s.GetOrCreateLog(date, prof)
}

func (s *Store) writeLogGoals(date string, goals nutrition.Macros) error {
	_, err := s.db.Exec(`
		UPDATE daily_logs SET goal_calories = ?, goal_protein_g = ?, goal_carbs_g = ?, goal_fat_g = ?
		WHERE date = ?`,
		goals.Calories, goals.ProteinG, goals.CarbsG, goals.FatG, date,
	)
	if err != nil {
		return fmt.Errorf("update log goals %s: %w", date, err)
	}
	return nil
}

// AddEntry inserts a food entry under its log date, creating the day first
// if needed. LoggedAt/MealTime default to now when unset.
func (s *Store) AddEntry(e FoodEntry, prof profile.Profile) error {
	if _, err := s.GetOrCreateLog(e.LogDate, prof); err != nil {
		return err
	}
	if e.LoggedAt.IsZero() {
		e.LoggedAt = time.Now().UTC()
	}
	if e.MealTime.IsZero() {
		e.MealTime = e.LoggedAt
	}
	_, err := s.db.Exec(`
		INSERT INTO food_entries (id, log_date, name, calories, protein_g, carbs_g, fat_g,
			serving_size, quantity, logged_at, meal_time, notes, ai_assisted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.LogDate, e.Name, e.Calories, e.ProteinG, e.CarbsG, e.FatG,
		e.ServingSize, e.Quantity, e.LoggedAt.UTC().Format(time.RFC3339),
		e.MealTime.UTC().Format(time.RFC3339), e.Notes, boolInt(e.AIAssisted),
	)
	if err != nil {
		return fmt.Errorf("add entry: %w", err)
	}
	return nil
}

// UpdateEntry rewrites an entry's editable fields. LoggedAt is immutable
// once set and is deliberately absent here.
func (s *Store) UpdateEntry(e FoodEntry) error {
	res, err := s.db.Exec(`
		UPDATE food_entries
		SET name = ?, calories = ?, protein_g = ?, carbs_g = ?, fat_g = ?,
		    serving_size = ?, quantity = ?, meal_time = ?, notes = ?
		WHERE id = ?`,
		e.Name, e.Calories, e.ProteinG, e.CarbsG, e.FatG,
		e.ServingSize, e.Quantity, e.MealTime.UTC().Format(time.RFC3339), e.Notes, e.ID,
	)
	if err != nil {
		return fmt.Errorf("update entry %s: %w", e.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update entry %s: not found", e.ID)
	}
	return nil
}

func (s *Store) DeleteEntry(id string) error {
	_, err := s.db.Exec(`DELETE FROM food_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry %s: %w", id, err)
	}
	return nil
}

// ListEntries returns a day's entries in insertion order.
func (s *Store) ListEntries(date string) ([]FoodEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, log_date, name, calories, protein_g, carbs_g, fat_g,
		       serving_size, quantity, logged_at, meal_time, notes, ai_assisted
		FROM food_entries WHERE log_date = ? ORDER BY rowid`, date,
	)
	if err != nil {
		return nil, fmt.Errorf("list entries %s: %w", date, err)
	}
	defer rows.Close()

	var entries []FoodEntry
	for rows.Next() {
		var e FoodEntry
		var loggedAt, mealTime string
		var aiAssisted int
		if err := rows.Scan(&e.ID, &e.LogDate, &e.Name, &e.Calories, &e.ProteinG, &e.CarbsG, &e.FatG,
			&e.ServingSize, &e.Quantity, &loggedAt, &mealTime, &e.Notes, &aiAssisted); err != nil {
			return nil, err
		}
		e.LoggedAt, _ = time.Parse(time.RFC3339, loggedAt)
		e.MealTime, _ = time.Parse(time.RFC3339, mealTime)
		e.AIAssisted = aiAssisted != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListLogs returns every ledger day ascending, entries included, with
// stored goals as-is (no reconciliation; used for export).
func (s *Store) ListLogs() ([]DailyLog, error) {
	rows, err := s.db.Query(`
		SELECT date, is_refeed, goal_calories, goal_protein_g, goal_carbs_g, goal_fat_g
		FROM daily_logs ORDER BY date`,
	)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()

	var logs []DailyLog
	for rows.Next() {
		var l DailyLog
		var isRefeed int
		if err := rows.Scan(&l.Date, &isRefeed, &l.Goals.Calories, &l.Goals.ProteinG, &l.Goals.CarbsG, &l.Goals.FatG); err != nil {
			return nil, err
		}
		l.IsRefeedDay = isRefeed != 0
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range logs {
		entries, err := s.ListEntries(logs[i].Date)
		if err != nil {
			return nil, err
		}
		logs[i].Entries = entries
		logs[i].Totals = totalsOf(entries)
	}
	return logs, nil
}

// GetDaySummaries aggregates calories against goals per day in [from, to).
func (s *Store) GetDaySummaries(from, to time.Time) ([]DaySummary, error) {
	rows, err := s.db.Query(`
		SELECT l.date, l.goal_calories,
		       COALESCE(SUM(e.calories * e.quantity), 0), COUNT(e.id)
		FROM daily_logs l
		LEFT JOIN food_entries e ON e.log_date = l.date
		WHERE l.date >= ? AND l.date < ?
		GROUP BY l.date
		ORDER BY l.date`,
		from.Format("2006-01-02"), to.Format("2006-01-02"),
	)
	if err != nil {
		return nil, fmt.Errorf("day summaries: %w", err)
	}
	defer rows.Close()

	var summaries []DaySummary
	for rows.Next() {
		var ds DaySummary
		var cal float64
		if err := rows.Scan(&ds.Date, &ds.GoalCalories, &cal, &ds.EntryCount); err != nil {
			return nil, err
		}
		ds.Calories = int(cal + 0.5)
		summaries = append(summaries, ds)
	}
	return summaries, rows.Err()
}

func totalsOf(entries []FoodEntry) nutrition.Macros {
	servings := make([]nutrition.ServingEntry, len(entries))
	for i, e := range entries {
		servings[i] = e.Serving()
	}
	return nutrition.Totals(servings)
}
