package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xd219b/cr-helper/internal/core/config"
	"github.com/0xd219b/cr-helper/internal/core/diff"
	"github.com/0xd219b/cr-helper/internal/core/session"
)

const reviewDiff = `diff --git a/src/main.go b/src/main.go
index 1234567..89abcde 100644
--- a/src/main.go
+++ b/src/main.go
@@ -1,3 +1,4 @@
 package main
-func old() {}
+func renamed() {}
+func extra() {}
 func keep() {}
diff --git a/README.md b/README.md
index 1234567..89abcde 100644
--- a/README.md
+++ b/README.md
@@ -1,1 +1,2 @@
 # readme
+new line
`

func testModel(t *testing.T) (Model, *session.Manager) {
	t.Helper()

	data, err := diff.NewParser(zerolog.Nop()).Parse(reviewDiff)
	require.NoError(t, err)

	sess := session.New(diff.Source{Type: diff.SourceWorkingTree}, data)
	mgr := session.NewManager(session.NewMemoryStorage())
	require.NoError(t, mgr.Save(sess))

	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()

	m := New(sess, mgr, &cfg, zerolog.Nop())
	sized, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return sized.(Model), mgr
}

func key(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	panic("unknown key " + s)
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(Model)
	}
	return m
}

func TestModelLineMovement(t *testing.T) {
	m, _ := testModel(t)

	assert.Equal(t, diff.Position{}, m.nav.Pos())

	m = press(t, m, "j", "j")
	assert.Equal(t, 2, m.nav.Pos().LineIdx)

	m = press(t, m, "k")
	assert.Equal(t, 1, m.nav.Pos().LineIdx)
}

func TestModelFileMovement(t *testing.T) {
	m, _ := testModel(t)

	m = press(t, m, "]")
	assert.Equal(t, 1, m.nav.Pos().FileIdx)
	assert.Equal(t, "README.md", m.nav.CurrentFile().DisplayPath())

	m = press(t, m, "[")
	assert.Equal(t, 0, m.nav.Pos().FileIdx)
}

func TestModelTopBottom(t *testing.T) {
	m, _ := testModel(t)

	m = press(t, m, "G")
	assert.Equal(t, 1, m.nav.Pos().FileIdx)
	assert.Equal(t, "new line", m.nav.CurrentLine().Content)

	m = press(t, m, "g")
	assert.Equal(t, diff.Position{}, m.nav.Pos())
}

func TestModelCommentFlow(t *testing.T) {
	m, _ := testModel(t)

	// Move to the first added line and open the modal.
	m = press(t, m, "j", "j")
	require.Equal(t, "func renamed() {}", m.nav.CurrentLine().Content)

	m = press(t, m, "c")
	require.NotNil(t, m.modal)

	// Cycle severity once (info -> warning), type, submit.
	m = press(t, m, "tab")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("needs a test")})
	m = next.(Model)
	m = press(t, m, "ctrl+s")

	require.Nil(t, m.modal)
	require.Equal(t, 1, m.sess.CommentCount())

	c := m.sess.Comments.All()[0]
	assert.Equal(t, "needs a test", c.Content)
	assert.Equal(t, "warning", string(c.Severity))
	assert.Equal(t, "src/main.go", c.Metadata.FilePath)
	assert.Equal(t, 2, c.Metadata.LineNumber)
	assert.Equal(t, "tui", c.Metadata.Source)
	assert.True(t, m.sess.Comments.HasLine(m.nav.CurrentLine().ID))
}

func TestModelCommentCancel(t *testing.T) {
	m, _ := testModel(t)

	m = press(t, m, "c")
	require.NotNil(t, m.modal)

	m = press(t, m, "esc")
	assert.Nil(t, m.modal)
	assert.Equal(t, 0, m.sess.CommentCount())
}

func TestModelQuitSaves(t *testing.T) {
	m, mgr := testModel(t)

	m = press(t, m, "j", "j", "c")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("check this")})
	m = next.(Model)
	m = press(t, m, "ctrl+s")

	next, cmd := m.Update(key("q"))
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.NoError(t, m.SaveErr())

	loaded, err := mgr.Load(m.sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.CommentCount())
}

func TestModelViewShowsMarkers(t *testing.T) {
	m, _ := testModel(t)

	m = press(t, m, "j", "j", "c")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("note")})
	m = next.(Model)
	m = press(t, m, "ctrl+s")

	view := m.View()
	assert.Contains(t, view, "src/main.go")
	assert.Contains(t, view, "1 comments")
	assert.Contains(t, view, "●")
}

func TestModelLoadsLazyFileOnView(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("alpha\nbeta\n"), 0o644))

	data, err := diff.NewParser(zerolog.Nop()).Parse(reviewDiff)
	require.NoError(t, err)
	data.Files = append(data.Files, diff.NewLazyFile("notes.txt"))
	data.Metadata.Repository = dir

	sess := session.New(diff.Source{Type: diff.SourceWorkingTree}, data)
	mgr := session.NewManager(session.NewMemoryStorage())
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()

	m := New(sess, mgr, &cfg, zerolog.Nop())
	sized, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = sized.(Model)

	// Moving onto the untracked file materializes its content.
	m = press(t, m, "]", "]")
	lazy := m.nav.CurrentFile()
	require.Equal(t, "notes.txt", lazy.DisplayPath())
	assert.False(t, lazy.NeedsLoading())

	view := m.View()
	assert.Contains(t, view, "alpha")
	assert.NotContains(t, view, "file not loaded")

	// Comments attach to the loaded lines as usual.
	m = press(t, m, "c", "l", "ctrl+s")
	got := sess.Comments.AllSorted()
	require.Len(t, got, 1)
	assert.Equal(t, "notes.txt", got[0].Metadata.FilePath)
	assert.Equal(t, 1, got[0].Metadata.LineNumber)
}

func TestModelLazyLoadFailureKeepsStatus(t *testing.T) {
	data, err := diff.NewParser(zerolog.Nop()).Parse(reviewDiff)
	require.NoError(t, err)
	data.Files = append(data.Files, diff.NewLazyFile("gone.txt"))
	data.Metadata.Repository = t.TempDir()

	sess := session.New(diff.Source{Type: diff.SourceWorkingTree}, data)
	mgr := session.NewManager(session.NewMemoryStorage())
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()

	m := New(sess, mgr, &cfg, zerolog.Nop())
	sized, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = sized.(Model)

	m = press(t, m, "]", "]")
	assert.True(t, m.nav.CurrentFile().NeedsLoading())
	assert.Contains(t, m.View(), "file not loaded")
	assert.Contains(t, m.statusView(), "gone.txt")
}

func TestModelEmptyDiff(t *testing.T) {
	sess := session.New(diff.Source{Type: diff.SourceWorkingTree}, &diff.DiffData{})
	mgr := session.NewManager(session.NewMemoryStorage())
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()

	m := New(sess, mgr, &cfg, zerolog.Nop())
	sized, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = sized.(Model)

	// Movement and comment attempts on an empty diff must not panic.
	m = press(t, m, "j", "k", "G", "c")
	assert.Nil(t, m.modal)
	assert.True(t, strings.Contains(m.View(), "no changes"))
}
