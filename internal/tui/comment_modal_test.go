package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xd219b/cr-helper/internal/core/comment"
)

func TestCommentModalSubmit(t *testing.T) {
	m := NewCommentModal("src/main.go:2", "func renamed() {}", 80)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("looks wrong")})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.True(t, m.Submitted())
	assert.False(t, m.Cancelled())
	assert.Equal(t, "looks wrong", m.Value())
}

func TestCommentModalEmptySubmitIgnored(t *testing.T) {
	m := NewCommentModal("src/main.go:2", "x", 80)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.False(t, m.Submitted())
}

func TestCommentModalCancel(t *testing.T) {
	m := NewCommentModal("src/main.go:2", "x", 80)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.Cancelled())
}

func TestCommentModalSeverityCycle(t *testing.T) {
	m := NewCommentModal("src/main.go:2", "x", 80)
	require.Equal(t, comment.SeverityInfo, m.Severity())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, comment.SeverityWarning, m.Severity())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, comment.SeverityCritical, m.Severity())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, comment.SeverityInfo, m.Severity())
}

func TestCommentModalTruncatesPreview(t *testing.T) {
	long := make([]byte, 150)
	for i := range long {
		long[i] = 'x'
	}

	m := NewCommentModal("a.go:1", string(long), 80)
	assert.Len(t, m.preview, 100)
}
