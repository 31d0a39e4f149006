// Package localstore persists the client-side state that outlives a
// session: preference settings, notification toggles and the
// recently-used icon list. It is the terminal analogue of the browser's
// localStorage, backed by SQLite.
package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Store is the local persistence handle.
type Store struct {
	db     *sql.DB
	dbPath string
}

// New opens (or creates) the local store at dbPath.
func New(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath cannot be empty")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping local store: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Setting returns the value stored under key, with ok reporting presence.
func (s *Store) Setting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read setting %q: %w", key, err)
	}
	return value, true, nil
}

// SetSetting stores value under key, replacing any previous value.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write setting %q: %w", key, err)
	}
	return nil
}

// BoolSetting reads a boolean setting, returning fallback when unset or
// unparseable.
func (s *Store) BoolSetting(ctx context.Context, key string, fallback bool) (bool, error) {
	value, ok, err := s.Setting(ctx, key)
	if err != nil {
		return fallback, err
	}
	if !ok {
		return fallback, nil
	}

	parsed, parseErr := strconv.ParseBool(value)
	if parseErr != nil {
		return fallback, nil
	}
	return parsed, nil
}

// SetBoolSetting stores a boolean setting.
func (s *Store) SetBoolSetting(ctx context.Context, key string, value bool) error {
	return s.SetSetting(ctx, key, strconv.FormatBool(value))
}

// recentIconCap bounds the recently-used icon list.
const recentIconCap = 24

// TouchIcon records icon as most recently used, deduplicating and
// trimming the list to its cap.
func (s *Store) TouchIcon(ctx context.Context, icon string) error {
	if icon == "" {
		return fmt.Errorf("icon cannot be empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO recent_icons (icon, used_at) VALUES (?, ?)
		 ON CONFLICT(icon) DO UPDATE SET used_at = excluded.used_at`,
		icon, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to record icon: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM recent_icons WHERE icon NOT IN (
			SELECT icon FROM recent_icons ORDER BY used_at DESC LIMIT ?
		)`, recentIconCap); err != nil {
		return fmt.Errorf("failed to trim recent icons: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit icon update: %w", err)
	}
	return nil
}

// RecentIcons returns recently used icons, most recent first.
func (s *Store) RecentIcons(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 || limit > recentIconCap {
		limit = recentIconCap
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT icon FROM recent_icons ORDER BY used_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read recent icons: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var icons []string
	for rows.Next() {
		var icon string
		if err := rows.Scan(&icon); err != nil {
			return nil, fmt.Errorf("failed to scan icon: %w", err)
		}
		icons = append(icons, icon)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recent icons: %w", err)
	}

	return icons, nil
}
