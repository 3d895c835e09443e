package session

import (
	"errors"
	"sync"

	"github.com/0xd219b/cr-helper/internal/core/types"
)

// ErrNotFound is returned when a session id resolves to nothing.
var ErrNotFound = errors.New("session not found")

// Storage persists sessions. Implementations must be safe for concurrent
// use.
type Storage interface {
	// Save writes a session, replacing any previous version.
	Save(s *Session) error
	// Load reads a session by id. Returns an error wrapping ErrNotFound
	// when it does not exist.
	Load(id types.SessionID) (*Session, error)
	// List returns summaries of every stored session in no particular
	// order.
	List() ([]Info, error)
	// Delete removes a session. Returns an error wrapping ErrNotFound
	// when it does not exist.
	Delete(id types.SessionID) error
	// Exists reports whether a session is stored.
	Exists(id types.SessionID) bool
}

// Latest loads the most recently updated session, or nil when storage is
// empty.
func Latest(storage Storage) (*Session, error) {
	infos, err := storage.List()
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, nil
	}

	latest := infos[0]
	for _, info := range infos[1:] {
		if info.UpdatedAt.After(latest.UpdatedAt) {
			latest = info
		}
	}
	return storage.Load(latest.ID)
}

// MemoryStorage keeps sessions in a map. Used by tests and as a scratch
// backend; nothing survives the process.
type MemoryStorage struct {
	mu       sync.RWMutex
	sessions map[types.SessionID]*Session
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{sessions: map[types.SessionID]*Session{}}
}

func (m *MemoryStorage) Save(s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *MemoryStorage) Load(id types.SessionID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryStorage) List() ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]Info, 0, len(m.sessions))
	for _, s := range m.sessions {
		infos = append(infos, s.Info())
	}
	return infos, nil
}

func (m *MemoryStorage) Delete(id types.SessionID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MemoryStorage) Exists(id types.SessionID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.sessions[id]
	return ok
}
