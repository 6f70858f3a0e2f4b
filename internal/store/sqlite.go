// Package store persists forecast settings, UTM mappings and UI
// preferences in SQLite, and holds the in-memory response cache.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver

	"github.com/mcordova/intake-dashboard-go/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS forecast_settings (
    id          INTEGER PRIMARY KEY CHECK (id = 1),
    payload     TEXT NOT NULL,
    updated_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS utm_mappings (
    utm         TEXT PRIMARY KEY,
    bucket      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS preferences (
    key         TEXT PRIMARY KEY,
    value       INTEGER NOT NULL DEFAULT 0
);
`

// PreferenceKeys are the persisted UI flags; anything else is rejected.
var PreferenceKeys = []string{
	"dark_mode",
	"sidebar_collapsed",
	"include_spam",
	"include_abandoned",
	"include_duplicate",
	"color_coding_disabled",
}

type Store struct {
	db *sql.DB
}

// Open opens or creates the settings database at the given path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening settings db: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// LoadSettings returns the persisted forecast settings, falling back to the
// shipped defaults field by field when absent.
func (s *Store) LoadSettings() (*models.ForecastSettings, error) {
	var payload string
	err := s.db.QueryRow("SELECT payload FROM forecast_settings WHERE id = 1").Scan(&payload)
	if err == sql.ErrNoRows {
		return models.DefaultForecastSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	loaded := &models.ForecastSettings{}
	if err := json.Unmarshal([]byte(payload), loaded); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}

	// merge defaults so newly added fields always exist
	def := models.DefaultForecastSettings()
	if loaded.Targets == nil {
		loaded.Targets = def.Targets
	}
	if loaded.CPLTargets == nil {
		loaded.CPLTargets = def.CPLTargets
	}
	if loaded.LeadToCaseRate == 0 {
		loaded.LeadToCaseRate = def.LeadToCaseRate
	}
	if loaded.LeadToRetainerRate == 0 {
		loaded.LeadToRetainerRate = def.LeadToRetainerRate
	}
	return loaded, nil
}

func (s *Store) SaveSettings(settings *models.ForecastSettings) error {
	payload, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO forecast_settings (id, payload, updated_at) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		string(payload), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

// UTMMappings returns every persisted UTM -> bucket mapping.
func (s *Store) UTMMappings() (map[string]string, error) {
	rows, err := s.db.Query("SELECT utm, bucket FROM utm_mappings")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]string)
	for rows.Next() {
		var utm, bucket string
		if err := rows.Scan(&utm, &bucket); err != nil {
			return nil, err
		}
		out[utm] = bucket
	}
	return out, rows.Err()
}

func (s *Store) SetUTMMapping(utm, bucket string) error {
	_, err := s.db.Exec(`
		INSERT INTO utm_mappings (utm, bucket) VALUES (?, ?)
		ON CONFLICT (utm) DO UPDATE SET bucket = excluded.bucket`, utm, bucket)
	return err
}

// DeleteUTMMapping removes a mapping; false when it did not exist.
func (s *Store) DeleteUTMMapping(utm string) (bool, error) {
	res, err := s.db.Exec("DELETE FROM utm_mappings WHERE utm = ?", utm)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ReplaceUTMMappings swaps the whole table atomically.
func (s *Store) ReplaceUTMMappings(mappings map[string]string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM utm_mappings"); err != nil {
		return err
	}
	for utm, bucket := range mappings {
		if _, err := tx.Exec("INSERT INTO utm_mappings (utm, bucket) VALUES (?, ?)", utm, bucket); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Preferences reads all persisted UI flags; missing keys default to false.
func (s *Store) Preferences() (models.Preferences, error) {
	var p models.Preferences
	rows, err := s.db.Query("SELECT key, value FROM preferences")
	if err != nil {
		return p, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var key string
		var value int
		if err := rows.Scan(&key, &value); err != nil {
			return p, err
		}
		set := value != 0
		switch key {
		case "dark_mode":
			p.DarkMode = set
		case "sidebar_collapsed":
			p.SidebarCollapsed = set
		case "include_spam":
			p.IncludeSpam = set
		case "include_abandoned":
			p.IncludeAbandoned = set
		case "include_duplicate":
			p.IncludeDuplicate = set
		case "color_coding_disabled":
			p.ColorCodingDisabled = set
		}
	}
	return p, rows.Err()
}

// SetPreference persists one UI flag. Unknown keys are an error.
func (s *Store) SetPreference(key string, value bool) error {
	known := false
	for _, k := range PreferenceKeys {
		if k == key {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown preference %q", key)
	}
	v := 0
	if value {
		v = 1
	}
	_, err := s.db.Exec(`
		INSERT INTO preferences (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`, key, v)
	return err
}
