package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/0xd219b/cr-helper/internal/core/comment"
)

// CommentModal handles comment entry for the line under the cursor.
type CommentModal struct {
	textarea  textarea.Model
	severity  comment.Severity
	location  string // e.g. "src/main.go:42"
	preview   string // the line content being commented on
	width     int
	submitted bool
	cancelled bool
}

// NewCommentModal creates a comment modal for the given location.
func NewCommentModal(location, lineContent string, width int) CommentModal {
	ta := textarea.New()
	ta.Placeholder = "Enter your review comment..."
	ta.ShowLineNumbers = false
	ta.SetWidth(width - 10)
	ta.SetHeight(4)
	ta.Focus()

	preview := lineContent
	if len(preview) > 100 {
		preview = preview[:97] + "..."
	}

	return CommentModal{
		textarea: ta,
		severity: comment.SeverityInfo,
		location: location,
		preview:  preview,
		width:    width,
	}
}

// Update handles messages.
func (m CommentModal) Update(msg tea.Msg) (CommentModal, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+s":
			if strings.TrimSpace(m.textarea.Value()) != "" {
				m.submitted = true
			}
			return m, nil
		case "esc":
			m.cancelled = true
			return m, nil
		case "tab":
			m.severity = nextSeverity(m.severity)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// View renders the modal.
func (m CommentModal) View() string {
	content := strings.Join([]string{
		modalTitleStyle.Render("Add Review Comment"),
		modalLabelStyle.Render(m.location),
		modalLabelStyle.Render("\"" + m.preview + "\""),
		"",
		fmt.Sprintf("Severity: %s", severityBadge(m.severity)),
		m.textarea.View(),
		modalHelpStyle.Render("ctrl+s: submit • tab: severity • esc: cancel"),
	}, "\n")

	return modalStyle.Render(content)
}

// Submitted returns true if the comment was submitted.
func (m CommentModal) Submitted() bool {
	return m.submitted
}

// Cancelled returns true if the modal was cancelled.
func (m CommentModal) Cancelled() bool {
	return m.cancelled
}

// Value returns the entered comment text.
func (m CommentModal) Value() string {
	return m.textarea.Value()
}

// Severity returns the selected severity.
func (m CommentModal) Severity() comment.Severity {
	return m.severity
}

func nextSeverity(s comment.Severity) comment.Severity {
	all := comment.Severities()
	for i, cur := range all {
		if cur == s {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}
