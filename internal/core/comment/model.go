// Package comment holds review comments anchored to diff lines, the
// multi-key index over them, and the manager that owns their lifecycle.
package comment

import (
	"time"

	"github.com/0xd219b/cr-helper/internal/core/types"
)

// DiffSide says which side of the diff a comment is anchored to.
//
// ENUM: old, new
type DiffSide string

const (
	// SideOld anchors to deleted code on the left side.
	SideOld DiffSide = "old"
	// SideNew anchors to added or context code on the right side.
	SideNew DiffSide = "new"
)

// Severity is the weight of a comment.
//
// ENUM: info, warning, critical
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Short returns the compact export form: "i", "w", or "c".
func (s Severity) Short() string {
	switch s {
	case SeverityCritical:
		return "c"
	case SeverityWarning:
		return "w"
	default:
		return "i"
	}
}

// ParseSeverity accepts both the short and the long form.
func ParseSeverity(s string) (Severity, bool) {
	switch s {
	case "i", "info":
		return SeverityInfo, true
	case "w", "warning":
		return SeverityWarning, true
	case "c", "critical":
		return SeverityCritical, true
	default:
		return "", false
	}
}

// Severities lists all severities from lightest to heaviest.
func Severities() []Severity {
	return []Severity{SeverityInfo, SeverityWarning, SeverityCritical}
}

// State is the lifecycle state of a comment. Transitions are not
// restricted: any state may move to any other, so external tooling can
// reopen resolved comments or resurrect outdated ones.
//
// ENUM: open, acknowledged, resolved, dismissed, outdated
type State string

const (
	StateOpen         State = "open"
	StateAcknowledged State = "acknowledged"
	StateResolved     State = "resolved"
	StateDismissed    State = "dismissed"
	StateOutdated     State = "outdated"
)

// IsActive reports whether the comment still needs attention.
func (s State) IsActive() bool {
	return s == StateOpen || s == StateAcknowledged
}

// IsClosed reports whether the comment has been dealt with.
func (s State) IsClosed() bool {
	return s == StateResolved || s == StateDismissed
}

// LineReference anchors a comment to a line or a range of lines in one
// file. EndLineID is empty for single-line references.
type LineReference struct {
	FileID    types.FileID `json:"file_id"`
	LineID    types.LineID `json:"line_id"`
	EndLineID types.LineID `json:"end_line_id,omitempty"`
	Side      DiffSide     `json:"side"`
}

// SingleLine references one line.
func SingleLine(fileID types.FileID, lineID types.LineID, side DiffSide) LineReference {
	return LineReference{FileID: fileID, LineID: lineID, Side: side}
}

// LineRange references a contiguous run of lines from LineID to EndLineID.
func LineRange(fileID types.FileID, start, end types.LineID, side DiffSide) LineReference {
	return LineReference{FileID: fileID, LineID: start, EndLineID: end, Side: side}
}

// IsRange reports whether the reference spans multiple lines.
func (r LineReference) IsRange() bool {
	return r.EndLineID != ""
}

// LineIDs returns every line id the reference touches directly.
func (r LineReference) LineIDs() []types.LineID {
	if r.IsRange() {
		return []types.LineID{r.LineID, r.EndLineID}
	}
	return []types.LineID{r.LineID}
}

// Metadata carries display-oriented fields denormalized onto a comment so
// exports do not need the diff to show where a comment lives.
type Metadata struct {
	Author     string `json:"author,omitempty"`
	Source     string `json:"source,omitempty"`
	LineNumber int    `json:"line_number,omitempty"`
	FilePath   string `json:"file_path,omitempty"`
}

// Comment is a review note attached to a line in a diff.
type Comment struct {
	ID         types.CommentID  `json:"id"`
	LineRef    LineReference    `json:"line_ref"`
	Content    string           `json:"content"`
	Severity   Severity         `json:"severity"`
	Tags       []string         `json:"tags,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
	State      State            `json:"state"`
	Metadata   Metadata         `json:"metadata"`
	Extensions types.Extensions `json:"extensions,omitempty"`
}

// UpdateContent replaces the content and refreshes UpdatedAt.
func (c *Comment) UpdateContent(content string) {
	c.Content = content
	c.UpdatedAt = time.Now().UTC()
}

// AddTag appends a tag unless it is already present.
func (c *Comment) AddTag(tag string) {
	for _, t := range c.Tags {
		if t == tag {
			return
		}
	}
	c.Tags = append(c.Tags, tag)
	c.UpdatedAt = time.Now().UTC()
}

// RemoveTag deletes a tag, reporting whether it was present.
func (c *Comment) RemoveTag(tag string) bool {
	for i, t := range c.Tags {
		if t == tag {
			c.Tags = append(c.Tags[:i], c.Tags[i+1:]...)
			c.UpdatedAt = time.Now().UTC()
			return true
		}
	}
	return false
}

// SetSeverity changes the severity and refreshes UpdatedAt.
func (c *Comment) SetSeverity(severity Severity) {
	c.Severity = severity
	c.UpdatedAt = time.Now().UTC()
}

// SetState changes the lifecycle state and refreshes UpdatedAt.
func (c *Comment) SetState(state State) {
	c.State = state
	c.UpdatedAt = time.Now().UTC()
}
