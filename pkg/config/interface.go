package config

import "errors"

// Sentinel error for a profile name that is not stored
var ErrProfileNotFound = errors.New("profile not found")

// StoreInterface defines the persistence used by the front ends
type StoreInterface interface {
	// Profile Operations
	SaveProfile(name string, cfg Config) error
	GetProfile(name string) (Profile, error)
	ListProfiles() ([]Profile, error)
	DeleteProfile(name string) error

	// Run History
	RecordRun(rec RunRecord) error
	RecentRuns(limit int) ([]RunRecord, error)

	Close() error
}

// NewStore opens the default store (SQLite under ~/.fridamgr)
func NewStore() (StoreInterface, error) {
	return NewSQLiteStore("")
}
