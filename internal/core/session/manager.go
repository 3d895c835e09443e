package session

import (
	"fmt"
	"sort"
	"time"

	"github.com/0xd219b/cr-helper/internal/core/diff"
	"github.com/0xd219b/cr-helper/internal/core/types"
)

// DefaultAutoSaveInterval throttles periodic saves from the UI so edits
// during active typing do not hammer the disk.
const DefaultAutoSaveInterval = 30 * time.Second

// Manager drives session lifecycle against a storage backend. It is not
// safe for concurrent use; each caller owns its manager.
type Manager struct {
	storage          Storage
	autoSaveInterval time.Duration
	lastAutoSave     time.Time
}

func NewManager(storage Storage) *Manager {
	return &Manager{
		storage:          storage,
		autoSaveInterval: DefaultAutoSaveInterval,
	}
}

// SetAutoSaveInterval overrides the autosave throttle.
func (m *Manager) SetAutoSaveInterval(d time.Duration) {
	m.autoSaveInterval = d
}

// Create starts a new session and persists it immediately.
func (m *Manager) Create(src diff.Source, data *diff.DiffData) (*Session, error) {
	s := New(src, data)
	if err := m.storage.Save(s); err != nil {
		return nil, err
	}
	return s, nil
}

// CreateWithID starts a session under a caller-chosen id, rejecting ids
// already in use.
func (m *Manager) CreateWithID(id types.SessionID, src diff.Source, data *diff.DiffData) (*Session, error) {
	if m.storage.Exists(id) {
		return nil, &types.ValidationError{Msg: fmt.Sprintf("session %s already exists", id)}
	}
	s := WithID(id, src, data)
	if err := m.storage.Save(s); err != nil {
		return nil, err
	}
	return s, nil
}

// CreateWithMetadata starts a session carrying reviewer metadata.
func (m *Manager) CreateWithMetadata(src diff.Source, data *diff.DiffData, meta Metadata) (*Session, error) {
	s := New(src, data)
	s.Metadata = meta
	if err := m.storage.Save(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads a session by id.
func (m *Manager) Load(id types.SessionID) (*Session, error) {
	return m.storage.Load(id)
}

// LoadLatest reads the most recently updated session, or nil when there
// are none.
func (m *Manager) LoadLatest() (*Session, error) {
	return Latest(m.storage)
}

// Save touches the session's timestamp and persists it.
func (m *Manager) Save(s *Session) error {
	s.Touch()
	return m.storage.Save(s)
}

// AutoSave persists the session unless one was saved within the throttle
// interval. Reports whether a save happened.
func (m *Manager) AutoSave(s *Session) (bool, error) {
	now := time.Now()
	if !m.lastAutoSave.IsZero() && now.Sub(m.lastAutoSave) < m.autoSaveInterval {
		return false, nil
	}

	if err := m.Save(s); err != nil {
		return false, err
	}
	m.lastAutoSave = now
	return true, nil
}

// ResetAutoSave clears the throttle so the next AutoSave always writes.
func (m *Manager) ResetAutoSave() {
	m.lastAutoSave = time.Time{}
}

// List returns all session summaries, newest first.
func (m *Manager) List() ([]Info, error) {
	infos, err := m.storage.List()
	if err != nil {
		return nil, err
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].UpdatedAt.After(infos[j].UpdatedAt)
	})
	return infos, nil
}

// Search returns the sessions passing the filter, newest first.
func (m *Manager) Search(filter Filter) ([]Info, error) {
	infos, err := m.List()
	if err != nil {
		return nil, err
	}

	out := infos[:0]
	for _, info := range infos {
		if filter.Matches(info) {
			out = append(out, info)
		}
	}
	return out, nil
}

// Delete removes a session.
func (m *Manager) Delete(id types.SessionID) error {
	return m.storage.Delete(id)
}

// Clean deletes every session last updated before the cutoff, returning
// how many went. Individual delete failures are skipped, not fatal.
func (m *Manager) Clean(before time.Time) (int, error) {
	infos, err := m.storage.List()
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, info := range infos {
		if info.UpdatedAt.Before(before) {
			if err := m.storage.Delete(info.ID); err == nil {
				deleted++
			}
		}
	}
	return deleted, nil
}

// Exists reports whether a session id is stored.
func (m *Manager) Exists(id types.SessionID) bool {
	return m.storage.Exists(id)
}

// Count returns the number of stored sessions.
func (m *Manager) Count() (int, error) {
	infos, err := m.storage.List()
	if err != nil {
		return 0, err
	}
	return len(infos), nil
}

// Storage exposes the underlying backend.
func (m *Manager) Storage() Storage {
	return m.storage
}
