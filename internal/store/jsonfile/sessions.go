// Package jsonfile persists review sessions as one JSON file per session
// under a sessions directory, with temp-file-and-rename writes so a crash
// never leaves a half-written session behind.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/0xd219b/cr-helper/internal/core/session"
	"github.com/0xd219b/cr-helper/internal/core/types"
)

// SessionStore implements session.Storage over a directory tree:
// <base>/sessions/<id>.json.
type SessionStore struct {
	baseDir     string
	sessionsDir string
	mu          sync.RWMutex
	log         zerolog.Logger
}

// NewSessionStore creates the store and its directories.
func NewSessionStore(baseDir string, log zerolog.Logger) (*SessionStore, error) {
	s := &SessionStore{
		baseDir:     baseDir,
		sessionsDir: filepath.Join(baseDir, "sessions"),
		log:         log,
	}
	if err := os.MkdirAll(s.sessionsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create sessions directory: %w", err)
	}
	return s, nil
}

// BaseDir returns the storage root.
func (s *SessionStore) BaseDir() string {
	return s.baseDir
}

// SessionsDir returns the directory holding session files.
func (s *SessionStore) SessionsDir() string {
	return s.sessionsDir
}

func (s *SessionStore) sessionPath(id types.SessionID) string {
	return filepath.Join(s.sessionsDir, string(id)+".json")
}

// tempPath is dot-prefixed so List skips in-flight writes.
func (s *SessionStore) tempPath(id types.SessionID) string {
	return filepath.Join(s.sessionsDir, "."+string(id)+".json.tmp")
}

// Save writes the session envelope to a temp file and renames it into
// place.
func (s *SessionStore) Save(sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file := session.NewFile(sess)
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", sess.ID, err)
	}

	tmp := s.tempPath(sess.ID)
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write session %s: %w", sess.ID, err)
	}

	if err := os.Rename(tmp, s.sessionPath(sess.ID)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename session %s: %w", sess.ID, err)
	}

	s.log.Debug().Str("session", string(sess.ID)).Msg("saved session")
	return nil
}

// Load reads a session, migrating its schema when needed.
func (s *SessionStore) Load(id types.SessionID) (*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.readSession(s.sessionPath(id), id)
}

func (s *SessionStore) readSession(path string, id types.SessionID) (*session.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", session.ErrNotFound, id)
		}
		return nil, fmt.Errorf("read session %s: %w", id, err)
	}

	var file session.File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", id, err)
	}

	if session.NeedsMigration(&file) {
		s.log.Info().
			Str("session", string(id)).
			Str("from", file.SchemaVersion).
			Str("to", session.CurrentSchemaVersion).
			Msg("migrating session schema")

		migrated, err := session.Migrate(&file)
		if err != nil {
			return nil, fmt.Errorf("migrate session %s: %w", id, err)
		}
		file = *migrated
	}

	return file.Session, nil
}

// List walks the sessions directory. Temp files, dotfiles, and files that
// fail to parse are skipped with a warning rather than failing the whole
// listing.
func (s *SessionStore) List() ([]session.Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.sessionsDir)
	if err != nil {
		return nil, fmt.Errorf("read sessions directory: %w", err)
	}

	var infos []session.Info
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".json") {
			continue
		}

		id := types.SessionID(strings.TrimSuffix(name, ".json"))
		sess, err := s.readSession(filepath.Join(s.sessionsDir, name), id)
		if err != nil {
			s.log.Warn().Err(err).Str("file", name).Msg("skipping unreadable session file")
			continue
		}
		infos = append(infos, sess.Info())
	}

	return infos, nil
}

// Delete removes a session file.
func (s *SessionStore) Delete(id types.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.sessionPath(id)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", session.ErrNotFound, id)
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

// Exists reports whether a session file is on disk.
func (s *SessionStore) Exists(id types.SessionID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.sessionPath(id))
	return err == nil
}
