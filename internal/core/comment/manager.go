package comment

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/0xd219b/cr-helper/internal/core/types"
)

// NotFoundError is returned when a comment id resolves to nothing.
type NotFoundError struct {
	ID types.CommentID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("comment not found: %s", e.ID)
}

// Manager owns the comments of one review session. The index is derived
// state: it is rebuilt on deserialization and never persisted.
type Manager struct {
	comments map[types.CommentID]*Comment
	index    *Index
}

func NewManager() *Manager {
	return &Manager{
		comments: map[types.CommentID]*Comment{},
		index:    NewIndex(),
	}
}

// Add inserts a comment, rejecting duplicate ids.
func (m *Manager) Add(c *Comment) (types.CommentID, error) {
	if _, ok := m.comments[c.ID]; ok {
		return "", &types.ValidationError{Msg: fmt.Sprintf("comment %s already exists", c.ID)}
	}
	m.index.Add(c)
	m.comments[c.ID] = c
	return c.ID, nil
}

// Get returns a comment by id, or nil.
func (m *Manager) Get(id types.CommentID) *Comment {
	return m.comments[id]
}

// UpdateContent replaces a comment's content.
func (m *Manager) UpdateContent(id types.CommentID, content string) error {
	c, ok := m.comments[id]
	if !ok {
		return &NotFoundError{ID: id}
	}
	c.UpdateContent(content)
	return nil
}

// UpdateState moves a comment to a new lifecycle state.
func (m *Manager) UpdateState(id types.CommentID, state State) error {
	c, ok := m.comments[id]
	if !ok {
		return &NotFoundError{ID: id}
	}
	c.SetState(state)
	return nil
}

// Delete removes a comment and returns it.
func (m *Manager) Delete(id types.CommentID) (*Comment, error) {
	c, ok := m.comments[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	delete(m.comments, id)
	m.index.Remove(c)
	return c, nil
}

// DeleteByFile removes every comment in a file and returns how many went.
func (m *Manager) DeleteByFile(fileID types.FileID) int {
	ids := append([]types.CommentID{}, m.index.ByFile(fileID)...)
	for _, id := range ids {
		if c, ok := m.comments[id]; ok {
			delete(m.comments, id)
			m.index.Remove(c)
		}
	}
	return len(ids)
}

// All returns every comment in unspecified order.
func (m *Manager) All() []*Comment {
	out := make([]*Comment, 0, len(m.comments))
	for _, c := range m.comments {
		out = append(out, c)
	}
	return out
}

// AllSorted returns every comment ordered by creation time, ties broken
// by id so the order is deterministic.
func (m *Manager) AllSorted() []*Comment {
	out := m.All()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ByLine returns the comments anchored to a line.
func (m *Manager) ByLine(lineID types.LineID) []*Comment {
	return m.resolve(m.index.ByLine(lineID))
}

// ByFile returns the comments in a file.
func (m *Manager) ByFile(fileID types.FileID) []*Comment {
	return m.resolve(m.index.ByFile(fileID))
}

// BySeverity returns the comments at a severity.
func (m *Manager) BySeverity(severity Severity) []*Comment {
	return m.resolve(m.index.BySeverity(severity))
}

// HasLine reports whether a line carries any comments.
func (m *Manager) HasLine(lineID types.LineID) bool {
	return m.index.HasLine(lineID)
}

// Search matches query case-insensitively against content and tags.
func (m *Manager) Search(query string) []*Comment {
	q := strings.ToLower(query)
	var out []*Comment
	for _, c := range m.comments {
		if strings.Contains(strings.ToLower(c.Content), q) {
			out = append(out, c)
			continue
		}
		for _, tag := range c.Tags {
			if strings.Contains(strings.ToLower(tag), q) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// Count returns the total number of comments.
func (m *Manager) Count() int {
	return len(m.comments)
}

// IsEmpty reports whether there are no comments.
func (m *Manager) IsEmpty() bool {
	return len(m.comments) == 0
}

// CountBySeverity tallies comments per severity. Severities with no
// comments are absent from the map.
func (m *Manager) CountBySeverity() map[Severity]int {
	counts := map[Severity]int{}
	for _, c := range m.comments {
		counts[c.Severity]++
	}
	return counts
}

// Active returns comments still needing attention.
func (m *Manager) Active() []*Comment {
	var out []*Comment
	for _, c := range m.comments {
		if c.State.IsActive() {
			out = append(out, c)
		}
	}
	return out
}

// RebuildIndex reconstructs the index from the comments map. Recovery
// hook: needed only if comments were mutated behind the manager's back.
func (m *Manager) RebuildIndex() {
	m.index.Rebuild(m.All())
}

func (m *Manager) resolve(ids []types.CommentID) []*Comment {
	out := make([]*Comment, 0, len(ids))
	for _, id := range ids {
		if c, ok := m.comments[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

type managerJSON struct {
	Comments map[types.CommentID]*Comment `json:"comments"`
}

// MarshalJSON persists only the comments map.
func (m *Manager) MarshalJSON() ([]byte, error) {
	return json.Marshal(managerJSON{Comments: m.comments})
}

// UnmarshalJSON restores the comments map and rebuilds the index.
func (m *Manager) UnmarshalJSON(data []byte) error {
	var helper managerJSON
	if err := json.Unmarshal(data, &helper); err != nil {
		return err
	}

	m.comments = helper.Comments
	if m.comments == nil {
		m.comments = map[types.CommentID]*Comment{}
	}
	m.index = NewIndex()
	m.index.Rebuild(m.All())
	return nil
}
