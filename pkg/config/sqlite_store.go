package config

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/xlttj/fridamgr/pkg/logging"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// DatabaseFileName is the SQLite file inside ConfigDirName.
const DatabaseFileName = "fridamgr.db"

// SQLiteStore persists profiles and run history using SQLite
type SQLiteStore struct {
	db     *sql.DB
	mutex  sync.RWMutex
	dbPath string
}

var _ StoreInterface = (*SQLiteStore)(nil)

// NewSQLiteStore opens (and creates) the database at dbPath. An empty path
// selects ~/.fridamgr/fridamgr.db.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		dbPath = filepath.Join(homeDir, ConfigDirName, DatabaseFileName)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create empty file with 0600 before the driver creates it with wider permissions
	if _, statErr := os.Stat(dbPath); os.IsNotExist(statErr) {
		f, ferr := os.OpenFile(dbPath, os.O_CREATE|os.O_RDONLY, 0600)
		if ferr == nil {
			_ = f.Close()
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{
		db:     db,
		dbPath: dbPath,
	}

	if err := store.initializeSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	logging.LogDebug("SQLite store initialized at: %s", dbPath)
	return store, nil
}

// initializeSchema creates the database tables and indexes
func (s *SQLiteStore) initializeSchema() error {
	schema := `
	-- Saved configurations
	CREATE TABLE IF NOT EXISTS profiles (
		name TEXT PRIMARY KEY,
		frida_version TEXT NOT NULL,
		tools_version TEXT NOT NULL,
		device_port TEXT NOT NULL,
		host_port TEXT NOT NULL,
		device_path TEXT NOT NULL,
		server_name TEXT NOT NULL,
		adb_path TEXT NOT NULL,
		local_dir TEXT NOT NULL,
		python TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);

	-- One row per executed action
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		action TEXT NOT NULL,
		profile TEXT NOT NULL DEFAULT '',
		exit_code INTEGER NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// Path returns the database file location
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Profile Operations

func validateProfileName(name string) error {
	if name == "" {
		return fmt.Errorf("profile name cannot be empty")
	}
	if strings.TrimSpace(name) != name {
		return fmt.Errorf("profile name '%s' contains leading/trailing whitespace", name)
	}
	return nil
}

// SaveProfile inserts or replaces the profile called name
func (s *SQLiteStore) SaveProfile(name string, cfg Config) error {
	if err := validateProfileName(name); err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	query := `
		INSERT INTO profiles (name, frida_version, tools_version, device_port, host_port,
			device_path, server_name, adb_path, local_dir, python, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			frida_version = excluded.frida_version,
			tools_version = excluded.tools_version,
			device_port = excluded.device_port,
			host_port = excluded.host_port,
			device_path = excluded.device_path,
			server_name = excluded.server_name,
			adb_path = excluded.adb_path,
			local_dir = excluded.local_dir,
			python = excluded.python,
			updated_at = excluded.updated_at
	`

	_, err := s.db.Exec(query, name, cfg.FridaVersion, cfg.ToolsVersion, cfg.DevicePort, cfg.HostPort,
		cfg.DevicePath, cfg.ServerName, cfg.AdbPath, cfg.LocalDir, cfg.Python, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	logging.LogDebug("Saved profile: %s", name)
	return nil
}

const profileColumns = `name, frida_version, tools_version, device_port, host_port,
	device_path, server_name, adb_path, local_dir, python, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (Profile, error) {
	var p Profile
	var updated int64
	err := row.Scan(&p.Name, &p.Config.FridaVersion, &p.Config.ToolsVersion, &p.Config.DevicePort,
		&p.Config.HostPort, &p.Config.DevicePath, &p.Config.ServerName, &p.Config.AdbPath,
		&p.Config.LocalDir, &p.Config.Python, &updated)
	if err != nil {
		return Profile{}, err
	}
	p.UpdatedAt = time.Unix(0, updated)
	return p, nil
}

// GetProfile returns the profile called name
func (s *SQLiteStore) GetProfile(name string) (Profile, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	row := s.db.QueryRow(`SELECT `+profileColumns+` FROM profiles WHERE name = ?`, name)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	if err != nil {
		return Profile{}, fmt.Errorf("failed to query profile: %w", err)
	}
	return p, nil
}

// ListProfiles returns all profiles ordered by name
func (s *SQLiteStore) ListProfiles() ([]Profile, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	rows, err := s.db.Query(`SELECT ` + profileColumns + ` FROM profiles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			logging.LogError("Failed to scan profile row: %v", err)
			continue
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// DeleteProfile removes the profile called name
func (s *SQLiteStore) DeleteProfile(name string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	result, err := s.db.Exec(`DELETE FROM profiles WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}

	logging.LogDebug("Deleted profile: %s", name)
	return nil
}

// Run History

// RecordRun stores rec, assigning a new ID when rec.ID is empty
func (s *SQLiteStore) RecordRun(rec RunRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO runs (id, action, profile, exit_code, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Action, rec.Profile, rec.ExitCode, rec.Error, rec.StartedAt.UnixNano(), rec.FinishedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	logging.LogDebug("Recorded run %s: %s exit=%d", rec.ID, rec.Action, rec.ExitCode)
	return nil
}

// RecentRuns returns up to limit runs, newest first
func (s *SQLiteStore) RecentRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, action, profile, exit_code, error, started_at, finished_at
		FROM runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var rec RunRecord
		var started, finished int64
		if err := rows.Scan(&rec.ID, &rec.Action, &rec.Profile, &rec.ExitCode, &rec.Error, &started, &finished); err != nil {
			logging.LogError("Failed to scan run row: %v", err)
			continue
		}
		rec.StartedAt = time.Unix(0, started)
		rec.FinishedAt = time.Unix(0, finished)
		runs = append(runs, rec)
	}
	return runs, rows.Err()
}
