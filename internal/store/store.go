package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS profiles (
		id                   INTEGER PRIMARY KEY CHECK (id = 1),
		age                  INTEGER NOT NULL DEFAULT 0,
		sex                  TEXT NOT NULL DEFAULT 'male',
		height_cm            REAL NOT NULL DEFAULT 0,
		weight_kg            REAL NOT NULL DEFAULT 0,
		activity             TEXT NOT NULL DEFAULT 'moderate',
		target_weight_kg     REAL NOT NULL DEFAULT 0,
		target_date          TEXT NOT NULL DEFAULT '',
		plan_description     TEXT NOT NULL DEFAULT '',
		intermittent_fasting INTEGER NOT NULL DEFAULT 0,
		refeed_enabled       INTEGER NOT NULL DEFAULT 0,
		protocol_type        TEXT NOT NULL DEFAULT '16:8',
		fasting_hours        REAL NOT NULL DEFAULT 16,
		eating_hours         REAL NOT NULL DEFAULT 8,
		bmr                  INTEGER NOT NULL DEFAULT 0,
		tdee                 INTEGER NOT NULL DEFAULT 0,
		goal_calories        INTEGER NOT NULL DEFAULT 0,
		goal_protein_g       REAL NOT NULL DEFAULT 0,
		goal_carbs_g         REAL NOT NULL DEFAULT 0,
		goal_fat_g           REAL NOT NULL DEFAULT 0,
		updated_at           TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS daily_logs (
		date           TEXT PRIMARY KEY,
		is_refeed      INTEGER NOT NULL DEFAULT 0,
		goal_calories  INTEGER NOT NULL DEFAULT 0,
		goal_protein_g REAL NOT NULL DEFAULT 0,
		goal_carbs_g   REAL NOT NULL DEFAULT 0,
		goal_fat_g     REAL NOT NULL DEFAULT 0,
		created_at     TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS food_entries (
		id           TEXT PRIMARY KEY,
		log_date     TEXT NOT NULL REFERENCES daily_logs(date),
		name         TEXT NOT NULL,
		calories     REAL NOT NULL DEFAULT 0,
		protein_g    REAL NOT NULL DEFAULT 0,
		carbs_g      REAL NOT NULL DEFAULT 0,
		fat_g        REAL NOT NULL DEFAULT 0,
		serving_size TEXT NOT NULL DEFAULT '',
		quantity     REAL NOT NULL DEFAULT 1,
		logged_at    TEXT NOT NULL,
		meal_time    TEXT NOT NULL,
		notes        TEXT NOT NULL DEFAULT '',
		ai_assisted  INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_entries_date ON food_entries(log_date);

	CREATE TABLE IF NOT EXISTS fasting_timer (
		id            INTEGER PRIMARY KEY CHECK (id = 1),
		status        TEXT NOT NULL DEFAULT 'not_active',
		phase         TEXT NOT NULL DEFAULT 'fasting',
		start_time    TEXT,
		end_time      TEXT,
		phase_start   TEXT,
		paused_ms     INTEGER NOT NULL DEFAULT 0,
		last_pause    TEXT,
		protocol_type TEXT NOT NULL DEFAULT '16:8',
		fasting_hours REAL NOT NULL DEFAULT 16,
		eating_hours  REAL NOT NULL DEFAULT 8
	);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('ai_base_url', 'https://api.openai.com/v1'),
		('ai_model',    'gpt-4o-mini'),
		('health_file', ''),
		('week_start',  'monday');
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/fastbite/fastbite.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "fastbite", "fastbite.db"), nil
}
