package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ekoseoglu/takip/internal/store"
)

// Sentinel errors.
var ErrNotFound = errors.New("not found")

// StateSlot is the fixed snapshot name under which the full store state
// (session flag, user, applications) is mirrored.
const StateSlot = "takip.state"

// Setting keys. Each is an independent persisted slot.
const (
	SettingLanguage        = "language"
	SettingRememberedEmail = "remembered_email"
)

// Mirror adapts the SQLite store to the record store's Persister
// interface: the full snapshot is serialized to a single fixed slot after
// every mutation.
type Mirror struct {
	db *Store
}

// NewMirror wraps db as a snapshot persister.
func NewMirror(db *Store) *Mirror {
	return &Mirror{db: db}
}

// SaveSnapshot serializes the snapshot and replaces the state slot.
func (m *Mirror) SaveSnapshot(snap store.Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return m.db.SaveSnapshot(StateSlot, body)
}

// LoadState deserializes the mirrored snapshot. A missing slot yields an
// empty snapshot, not an error: first run starts from nothing.
func (m *Mirror) LoadState() (store.Snapshot, error) {
	body, err := m.db.LoadSnapshot(StateSlot)
	if errors.Is(err, ErrNotFound) {
		return store.Snapshot{}, nil
	}
	if err != nil {
		return store.Snapshot{}, err
	}
	var snap store.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return store.Snapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	return snap, nil
}
