// Package store owns the in-memory application list and session state.
// It is the single writer: every mutation goes through one of its methods
// and synchronously mirrors the full snapshot to the injected Persister
// before returning.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Persister mirrors the full store snapshot to durable storage after each
// mutation. Implementations must treat the snapshot as a total replacement.
type Persister interface {
	SaveSnapshot(Snapshot) error
}

// Store is an explicit, constructed state container. It holds no hidden
// module-level state so tests can run it against a fake Persister.
type Store struct {
	mu      sync.Mutex
	state   Snapshot
	persist Persister

	// now is swappable in tests.
	now func() time.Time
}

// New creates a Store seeded with initial state. A nil persister disables
// mirroring (used by read-only callers and tests).
func New(p Persister, initial Snapshot) *Store {
	return &Store{
		state:   initial,
		persist: p,
		now:     time.Now,
	}
}

// SetClock replaces the store's time source. Test helper.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// flush must be called with the lock held.
func (s *Store) flush() error {
	if s.persist == nil {
		return nil
	}
	if err := s.persist.SaveSnapshot(s.snapshotLocked()); err != nil {
		return fmt.Errorf("persisting snapshot: %w", err)
	}
	return nil
}

func (s *Store) snapshotLocked() Snapshot {
	apps := make([]Application, len(s.state.Applications))
	copy(apps, s.state.Applications)
	return Snapshot{
		Authenticated: s.state.Authenticated,
		User:          s.state.User,
		Applications:  apps,
	}
}

// Snapshot returns a copy of the full state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Applications returns a copy of the record list.
func (s *Store) Applications() []Application {
	s.mu.Lock()
	defer s.mu.Unlock()
	apps := make([]Application, len(s.state.Applications))
	copy(apps, s.state.Applications)
	return apps
}

// Authenticated reports whether a session is active.
func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Authenticated
}

// User returns the denormalized session identity.
func (s *Store) User() User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.User
}

// Login marks the session authenticated and stores the identity.
// It performs no validation.
func (s *Store) Login(email, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Authenticated = true
	s.state.User = User{Name: name, Email: email}
	return s.flush()
}

// Logout clears the session flag and identity. The application list is
// kept; the remote identity provider remains authoritative for the account.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Authenticated = false
	s.state.User = User{}
	return s.flush()
}

// Add appends a new record. The display number is 1 + max(existing
// numbers), the identifier is a fresh UUID, and the creation timestamp is
// stamped in milliseconds. Field validation is a caller responsibility.
func (s *Store) Add(f Fields) (Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	no := 1
	for _, a := range s.state.Applications {
		if a.No >= no {
			no = a.No + 1
		}
	}

	app := Application{
		ID:             uuid.New().String(),
		No:             no,
		Company:        f.Company,
		Position:       f.Position,
		URL:            f.URL,
		AppliedAt:      f.AppliedAt,
		Location:       f.Location,
		WorkType:       f.WorkType,
		ContractType:   f.ContractType,
		Platform:       f.Platform,
		CVVersion:      f.CVVersion,
		TestLink:       f.TestLink,
		Motivation:     f.Motivation,
		Notes:          f.Notes,
		InterviewNotes: f.InterviewNotes,
		HRNotes:        f.HRNotes,
		OtherNotes:     f.OtherNotes,
		Tags:           f.Tags,
		Status:         f.Status,
		CreatedAt:      s.now().UnixMilli(),
	}
	s.state.Applications = append(s.state.Applications, app)
	return app, s.flush()
}

// Update applies the patch to the record with the matching identifier.
// It reports whether a record matched, so callers can distinguish a
// successful update from a no-op on an unknown id. Identity fields are
// untouchable by construction (see Patch).
func (s *Store) Update(id string, p Patch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Applications {
		if s.state.Applications[i].ID != id {
			continue
		}
		p.apply(&s.state.Applications[i])
		return true, s.flush()
	}
	return false, nil
}

// Delete removes the record with the matching identifier and reports
// whether one existed. Remaining records keep their display numbers.
func (s *Store) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Applications {
		if s.state.Applications[i].ID != id {
			continue
		}
		s.state.Applications = append(s.state.Applications[:i], s.state.Applications[i+1:]...)
		return true, s.flush()
	}
	return false, nil
}

// Replace swaps the whole record list, used when a remote pull
// wholesale-replaces local state. No merge is attempted.
func (s *Store) Replace(apps []Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Applications = make([]Application, len(apps))
	copy(s.state.Applications, apps)
	return s.flush()
}
