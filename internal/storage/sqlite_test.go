package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/ekoseoglu/takip/internal/store"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_AppliesMigrations(t *testing.T) {
	s := openTestStore(t)

	versions, err := s.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations failed: %v", err)
	}
	if len(versions) == 0 {
		t.Fatal("no migrations applied")
	}
	if versions[0] != 1 {
		t.Errorf("first migration version = %d, want 1", versions[0])
	}
}

func TestSnapshot_SaveAndLoad(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.LoadSnapshot("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadSnapshot(missing) error = %v, want ErrNotFound", err)
	}

	if err := s.SaveSnapshot("slot", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	// Second write replaces, not appends.
	if err := s.SaveSnapshot("slot", []byte(`{"a":2}`)); err != nil {
		t.Fatalf("SaveSnapshot (replace) failed: %v", err)
	}

	body, err := s.LoadSnapshot("slot")
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if string(body) != `{"a":2}` {
		t.Errorf("body = %s, want {\"a\":2}", body)
	}
}

func TestSettings_SetAndGet(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.GetSetting(SettingLanguage); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetSetting error = %v, want ErrNotFound", err)
	}

	if err := s.SetSetting(SettingLanguage, "tr"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	if err := s.SetSetting(SettingLanguage, "en"); err != nil {
		t.Fatalf("SetSetting (replace) failed: %v", err)
	}

	v, err := s.GetSetting(SettingLanguage)
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if v != "en" {
		t.Errorf("language = %q, want %q", v, "en")
	}
}

func TestMirror_RoundTrip(t *testing.T) {
	db := openTestStore(t)
	m := NewMirror(db)

	// Fresh database: empty snapshot, no error.
	snap, err := m.LoadState()
	if err != nil {
		t.Fatalf("LoadState on empty db failed: %v", err)
	}
	if snap.Authenticated || len(snap.Applications) != 0 {
		t.Errorf("empty LoadState = %+v", snap)
	}

	want := store.Snapshot{
		Authenticated: true,
		User:          store.User{Name: "Deniz", Email: "deniz@example.com"},
		Applications: []store.Application{
			{
				ID:        "abc",
				No:        1,
				Company:   "Apple",
				Position:  "iOS Developer",
				AppliedAt: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
				Status:    store.StatusInProcess,
				CreatedAt: 1700000000000,
			},
		},
	}
	if err := m.SaveSnapshot(want); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	got, err := m.LoadState()
	if err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}
	if !got.Authenticated || got.User.Email != want.User.Email {
		t.Errorf("session = {%v %+v}", got.Authenticated, got.User)
	}
	if len(got.Applications) != 1 {
		t.Fatalf("len(apps) = %d, want 1", len(got.Applications))
	}
	a := got.Applications[0]
	w := want.Applications[0]
	if a.ID != w.ID || a.No != w.No || a.CreatedAt != w.CreatedAt || !a.AppliedAt.Equal(w.AppliedAt) {
		t.Errorf("application = %+v, want %+v", a, w)
	}
}

func TestMirror_IsStorePersister(t *testing.T) {
	var _ store.Persister = NewMirror(openTestStore(t))
}
