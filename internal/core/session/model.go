// Package session ties a parsed diff and its comments into a persistent
// review session, and manages session lifecycle against a storage
// backend.
package session

import (
	"strings"
	"time"

	"github.com/0xd219b/cr-helper/internal/core/comment"
	"github.com/0xd219b/cr-helper/internal/core/diff"
	"github.com/0xd219b/cr-helper/internal/core/types"
)

// Session is one code review: the diff under review plus everything the
// reviewer wrote about it.
type Session struct {
	ID         types.SessionID  `json:"id"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
	DiffSource diff.Source      `json:"diff_source"`
	DiffData   *diff.DiffData   `json:"diff_data"`
	Comments   *comment.Manager `json:"comments"`
	Metadata   Metadata         `json:"metadata"`
	Extensions types.Extensions `json:"extensions,omitempty"`
}

// New creates a session with a generated id.
func New(src diff.Source, data *diff.DiffData) *Session {
	return WithID(types.NewSessionID(), src, data)
}

// WithID creates a session under a caller-chosen id.
func WithID(id types.SessionID, src diff.Source, data *diff.DiffData) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:         id,
		CreatedAt:  now,
		UpdatedAt:  now,
		DiffSource: src,
		DiffData:   data,
		Comments:   comment.NewManager(),
	}
}

// Touch marks the session as updated.
func (s *Session) Touch() {
	s.UpdatedAt = time.Now().UTC()
}

// CommentCount returns the number of comments.
func (s *Session) CommentCount() int {
	return s.Comments.Count()
}

// FileCount returns the number of files under review.
func (s *Session) FileCount() int {
	if s.DiffData == nil {
		return 0
	}
	return len(s.DiffData.Files)
}

// Info returns the listing summary for this session.
func (s *Session) Info() Info {
	return Info{
		ID:                s.ID,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
		Metadata:          s.Metadata,
		CommentCount:      s.CommentCount(),
		FileCount:         s.FileCount(),
		SourceDescription: s.DiffSource.Description(),
	}
}

// Metadata is reviewer-supplied context about a session.
type Metadata struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Repository  string   `json:"repository,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Reviewer    string   `json:"reviewer,omitempty"`
}

// Info is the summary a listing shows without loading the full session.
type Info struct {
	ID                types.SessionID `json:"id"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Metadata          Metadata        `json:"metadata"`
	CommentCount      int             `json:"comment_count"`
	FileCount         int             `json:"file_count"`
	SourceDescription string          `json:"source_description"`
}

// Filter selects sessions in listings. Zero-value fields do not
// constrain; set fields must all match.
type Filter struct {
	// Name matches case-insensitively as a substring of the session name.
	Name string
	// Tags matches when the session carries any of them.
	Tags []string
	// CreatedAfter and CreatedBefore bound the creation time inclusively.
	CreatedAfter  time.Time
	CreatedBefore time.Time
	// HasComments, when set, requires the session to have (or lack)
	// comments.
	HasComments *bool
}

// Matches reports whether a session summary passes the filter.
func (f Filter) Matches(info Info) bool {
	if f.Name != "" {
		if !strings.Contains(strings.ToLower(info.Metadata.Name), strings.ToLower(f.Name)) {
			return false
		}
	}

	if len(f.Tags) > 0 {
		found := false
	tags:
		for _, want := range f.Tags {
			for _, have := range info.Metadata.Tags {
				if want == have {
					found = true
					break tags
				}
			}
		}
		if !found {
			return false
		}
	}

	if !f.CreatedAfter.IsZero() && info.CreatedAt.Before(f.CreatedAfter) {
		return false
	}
	if !f.CreatedBefore.IsZero() && info.CreatedAt.After(f.CreatedBefore) {
		return false
	}

	if f.HasComments != nil {
		if *f.HasComments && info.CommentCount == 0 {
			return false
		}
		if !*f.HasComments && info.CommentCount > 0 {
			return false
		}
	}

	return true
}
