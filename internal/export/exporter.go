// Package export renders review sessions into machine- and
// human-readable report formats.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/0xd219b/cr-helper/internal/core/session"
	"github.com/0xd219b/cr-helper/internal/core/types"
)

// Exporter renders one session into one format.
type Exporter interface {
	Export(s *session.Session) (string, error)
	// FormatName is the name users select the format by.
	FormatName() string
	// FileExtension is appended when exporting to a path without one.
	FileExtension() string
}

// Manager is a registry of exporters keyed by format name.
type Manager struct {
	exporters map[string]Exporter
}

// NewManager returns a registry preloaded with the built-in formats:
// json, json-compact, markdown, and markdown-enhanced.
func NewManager() *Manager {
	m := &Manager{exporters: map[string]Exporter{}}
	m.Register(NewJSONExporter(false))
	m.Register(NewJSONExporter(true))
	m.Register(NewMarkdownExporter())
	m.Register(NewMarkdownEnhancedExporter())
	return m
}

// Register adds an exporter, replacing any previous one for the same
// format name.
func (m *Manager) Register(e Exporter) {
	m.exporters[e.FormatName()] = e
}

// Export renders the session in the named format.
func (m *Manager) Export(s *session.Session, format string) (string, error) {
	e, ok := m.exporters[format]
	if !ok {
		return "", &types.ValidationError{Msg: fmt.Sprintf("unknown export format: %s", format)}
	}
	return e.Export(s)
}

// ExportToFile renders the session and writes it atomically. A path
// without an extension gets the format's default one.
func (m *Manager) ExportToFile(s *session.Session, format, path string) error {
	e, ok := m.exporters[format]
	if !ok {
		return &types.ValidationError{Msg: fmt.Sprintf("unknown export format: %s", format)}
	}

	content, err := e.Export(s)
	if err != nil {
		return err
	}

	if filepath.Ext(path) == "" {
		path = path + "." + e.FileExtension()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename export: %w", err)
	}
	return nil
}

// AvailableFormats returns the registered format names, sorted.
func (m *Manager) AvailableFormats() []string {
	formats := make([]string, 0, len(m.exporters))
	for name := range m.exporters {
		formats = append(formats, name)
	}
	sort.Strings(formats)
	return formats
}

// HasFormat reports whether a format name is registered.
func (m *Manager) HasFormat(format string) bool {
	_, ok := m.exporters[format]
	return ok
}

// Get returns the exporter for a format name, or nil.
func (m *Manager) Get(format string) Exporter {
	return m.exporters[format]
}

// FormatsHelp returns the format names joined for CLI usage strings.
func (m *Manager) FormatsHelp() string {
	return strings.Join(m.AvailableFormats(), ", ")
}
