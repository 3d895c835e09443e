package comment

import "github.com/0xd219b/cr-helper/internal/core/types"

// Index is a multi-key lookup over comments: by line, by file, and by
// severity. It stores ids only; the manager resolves them back to
// comments. Buckets that drain to empty are removed so membership checks
// stay accurate.
type Index struct {
	byLine     map[types.LineID][]types.CommentID
	byFile     map[types.FileID][]types.CommentID
	bySeverity map[Severity][]types.CommentID
}

func NewIndex() *Index {
	return &Index{
		byLine:     map[types.LineID][]types.CommentID{},
		byFile:     map[types.FileID][]types.CommentID{},
		bySeverity: map[Severity][]types.CommentID{},
	}
}

// Add registers a comment under every key it matches. A range reference
// indexes both its endpoint lines.
func (ix *Index) Add(c *Comment) {
	for _, lineID := range c.LineRef.LineIDs() {
		ix.byLine[lineID] = append(ix.byLine[lineID], c.ID)
	}
	ix.byFile[c.LineRef.FileID] = append(ix.byFile[c.LineRef.FileID], c.ID)
	ix.bySeverity[c.Severity] = append(ix.bySeverity[c.Severity], c.ID)
}

// Remove drops a comment from every key. The comment passed must carry
// the same line reference and severity it was added with.
func (ix *Index) Remove(c *Comment) {
	for _, lineID := range c.LineRef.LineIDs() {
		ix.byLine[lineID] = withoutID(ix.byLine[lineID], c.ID)
		if len(ix.byLine[lineID]) == 0 {
			delete(ix.byLine, lineID)
		}
	}

	fileID := c.LineRef.FileID
	ix.byFile[fileID] = withoutID(ix.byFile[fileID], c.ID)
	if len(ix.byFile[fileID]) == 0 {
		delete(ix.byFile, fileID)
	}

	ix.bySeverity[c.Severity] = withoutID(ix.bySeverity[c.Severity], c.ID)
	if len(ix.bySeverity[c.Severity]) == 0 {
		delete(ix.bySeverity, c.Severity)
	}
}

// ByLine returns the ids of comments anchored to a line.
func (ix *Index) ByLine(lineID types.LineID) []types.CommentID {
	return ix.byLine[lineID]
}

// ByFile returns the ids of comments in a file.
func (ix *Index) ByFile(fileID types.FileID) []types.CommentID {
	return ix.byFile[fileID]
}

// BySeverity returns the ids of comments at a severity.
func (ix *Index) BySeverity(severity Severity) []types.CommentID {
	return ix.bySeverity[severity]
}

// HasLine reports whether any comment is anchored to the line.
func (ix *Index) HasLine(lineID types.LineID) bool {
	return len(ix.byLine[lineID]) > 0
}

// FileCount returns the number of comments in a file.
func (ix *Index) FileCount(fileID types.FileID) int {
	return len(ix.byFile[fileID])
}

// FilesWithComments returns every file id that has at least one comment.
func (ix *Index) FilesWithComments() []types.FileID {
	files := make([]types.FileID, 0, len(ix.byFile))
	for id := range ix.byFile {
		files = append(files, id)
	}
	return files
}

// Clear empties all three indexes.
func (ix *Index) Clear() {
	ix.byLine = map[types.LineID][]types.CommentID{}
	ix.byFile = map[types.FileID][]types.CommentID{}
	ix.bySeverity = map[Severity][]types.CommentID{}
}

// Rebuild resets the index from scratch.
func (ix *Index) Rebuild(comments []*Comment) {
	ix.Clear()
	for _, c := range comments {
		ix.Add(c)
	}
}

func withoutID(ids []types.CommentID, id types.CommentID) []types.CommentID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
