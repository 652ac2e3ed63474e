package config

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "state", DatabaseFileName))
	if err != nil {
		t.Fatalf("NewSQLiteStore returned error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndGetProfile(t *testing.T) {
	store := newTestStore(t)
	cfg := Default()
	cfg.HostPort = "28000"

	if err := store.SaveProfile("pixel", cfg); err != nil {
		t.Fatalf("SaveProfile returned error: %v", err)
	}
	p, err := store.GetProfile("pixel")
	if err != nil {
		t.Fatalf("GetProfile returned error: %v", err)
	}
	if p.Name != "pixel" || p.Config != cfg {
		t.Fatalf("GetProfile = %+v, want config %+v", p, cfg)
	}
	if p.UpdatedAt.IsZero() {
		t.Fatalf("UpdatedAt not set")
	}
}

func TestSaveProfileOverwrites(t *testing.T) {
	store := newTestStore(t)
	cfg := Default()
	if err := store.SaveProfile("dev", cfg); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	cfg.DevicePath = "/data/local/tmp/other"
	if err := store.SaveProfile("dev", cfg); err != nil {
		t.Fatalf("SaveProfile overwrite: %v", err)
	}

	profiles, err := store.ListProfiles()
	if err != nil {
		t.Fatalf("ListProfiles: %v", err)
	}
	if len(profiles) != 1 || profiles[0].Config.DevicePath != "/data/local/tmp/other" {
		t.Fatalf("profiles = %+v", profiles)
	}
}

func TestSaveProfileRejectsBadNames(t *testing.T) {
	store := newTestStore(t)
	for _, name := range []string{"", " padded"} {
		if err := store.SaveProfile(name, Default()); err == nil {
			t.Errorf("SaveProfile(%q) succeeded, want error", name)
		}
	}
}

func TestListProfilesOrderedByName(t *testing.T) {
	store := newTestStore(t)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := store.SaveProfile(name, Default()); err != nil {
			t.Fatalf("SaveProfile(%s): %v", name, err)
		}
	}
	profiles, err := store.ListProfiles()
	if err != nil {
		t.Fatalf("ListProfiles: %v", err)
	}
	var names []string
	for _, p := range profiles {
		names = append(names, p.Name)
	}
	if len(names) != 3 || names[0] != "alpha" || names[1] != "mid" || names[2] != "zeta" {
		t.Fatalf("names = %v", names)
	}
}

func TestDeleteProfile(t *testing.T) {
	store := newTestStore(t)
	if err := store.SaveProfile("gone", Default()); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	if err := store.DeleteProfile("gone"); err != nil {
		t.Fatalf("DeleteProfile: %v", err)
	}
	if _, err := store.GetProfile("gone"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("GetProfile after delete err = %v, want ErrProfileNotFound", err)
	}
	if err := store.DeleteProfile("gone"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("second DeleteProfile err = %v, want ErrProfileNotFound", err)
	}
}

func TestRecordAndListRuns(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	first := RunRecord{Action: "install", ExitCode: 0, StartedAt: base, FinishedAt: base.Add(time.Second)}
	second := RunRecord{ID: "fixed-id", Action: "start", Profile: "pixel", ExitCode: 1, Error: "boom",
		StartedAt: base.Add(time.Minute), FinishedAt: base.Add(2 * time.Minute)}

	if err := store.RecordRun(first); err != nil {
		t.Fatalf("RecordRun first: %v", err)
	}
	if err := store.RecordRun(second); err != nil {
		t.Fatalf("RecordRun second: %v", err)
	}

	runs, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}
	if runs[0].ID != "fixed-id" || runs[0].Action != "start" || runs[0].Profile != "pixel" || runs[0].Error != "boom" {
		t.Fatalf("newest run = %+v", runs[0])
	}
	if !runs[0].StartedAt.Equal(second.StartedAt) || !runs[0].FinishedAt.Equal(second.FinishedAt) {
		t.Fatalf("timestamps not preserved: %+v", runs[0])
	}
	if runs[1].ID == "" || runs[1].Action != "install" {
		t.Fatalf("oldest run = %+v, want generated ID", runs[1])
	}

	limited, err := store.RecentRuns(1)
	if err != nil {
		t.Fatalf("RecentRuns(1): %v", err)
	}
	if len(limited) != 1 || limited[0].ID != "fixed-id" {
		t.Fatalf("RecentRuns(1) = %+v", limited)
	}
}
