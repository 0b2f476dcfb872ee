package settings

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"
)

// Store wraps the sqlite handle holding user preferences.
type Store struct {
	db *sql.DB
}

// Open opens (creating and seeding if needed) the settings database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating settings directory %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening settings database at %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to settings database: %w", err)
	}
	return New(db)
}

// New wraps an already-open database handle, creating the schema and seeding
// defaults when missing.
func New(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) init() error {
	const createTableSQL = `
	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		category TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		value_type TEXT DEFAULT 'string',
		description TEXT,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(category, key)
	);

	CREATE INDEX IF NOT EXISTS idx_settings_category_key ON settings(category, key);
	`
	if _, err := s.db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to create settings table: %w", err)
	}

	const insertSQL = `
	INSERT OR IGNORE INTO settings (category, key, value, value_type, description)
	VALUES (?, ?, ?, ?, ?)
	`
	for _, d := range Defaults {
		if _, err := s.db.Exec(insertSQL, d.Category, d.Key, d.Value, d.ValueType, d.Description); err != nil {
			return fmt.Errorf("failed to insert default setting %s.%s: %w", d.Category, d.Key, err)
		}
	}
	return nil
}

// Get returns the raw value of one setting.
func (s *Store) Get(category, key string) (string, error) {
	var value string
	err := s.db.QueryRow(
		`SELECT value FROM settings WHERE category = ? AND key = ?`,
		category, key,
	).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("setting %s.%s: %w", category, key, err)
	}
	return value, nil
}

// Set updates a setting's value, validating it against the declared type.
// Unknown category/key pairs are stored with type "string".
func (s *Store) Set(category, key, value string) error {
	var valueType string
	err := s.db.QueryRow(
		`SELECT value_type FROM settings WHERE category = ? AND key = ?`,
		category, key,
	).Scan(&valueType)
	switch {
	case err == sql.ErrNoRows:
		_, err = s.db.Exec(
			`INSERT INTO settings (category, key, value, value_type) VALUES (?, ?, ?, 'string')`,
			category, key, value,
		)
		return err
	case err != nil:
		return fmt.Errorf("setting %s.%s: %w", category, key, err)
	}
	if err := validateValue(valueType, value); err != nil {
		return fmt.Errorf("setting %s.%s: %w", category, key, err)
	}
	_, err = s.db.Exec(
		`UPDATE settings SET value = ?, updated_at = CURRENT_TIMESTAMP WHERE category = ? AND key = ?`,
		value, category, key,
	)
	return err
}

// GetString returns the setting value, or def when the row is missing.
func (s *Store) GetString(category, key, def string) string {
	v, err := s.Get(category, key)
	if err != nil {
		return def
	}
	return v
}

// GetBool returns the setting as a bool, or def when missing or malformed.
func (s *Store) GetBool(category, key string, def bool) bool {
	v, err := s.Get(category, key)
	if err != nil {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// GetInt returns the setting as an int, or def when missing or malformed.
func (s *Store) GetInt(category, key string, def int) int {
	v, err := s.Get(category, key)
	if err != nil {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// All returns every setting, ordered by category then key.
func (s *Store) All() ([]Setting, error) {
	rows, err := s.db.Query(`
	SELECT category, key, value, value_type, COALESCE(description, '')
	FROM settings
	ORDER BY category, key`)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	var out []Setting
	for rows.Next() {
		var st Setting
		if err := rows.Scan(&st.Category, &st.Key, &st.Value, &st.ValueType, &st.Description); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
