package diff

// Position is a cursor into a diff: file, hunk within file, line within
// hunk. All indexes are zero-based.
type Position struct {
	FileIdx int
	HunkIdx int
	LineIdx int
}

// Navigator holds a cursor over a DiffData and moves it between lines,
// hunks, and files. Movement past a boundary falls through to the
// neighboring container; when no neighbor exists the cursor stays put and
// the move reports false.
type Navigator struct {
	diff *DiffData
	pos  Position
}

func NewNavigator(diff *DiffData) *Navigator {
	return &Navigator{diff: diff}
}

// Diff returns the underlying diff data.
func (n *Navigator) Diff() *DiffData {
	return n.diff
}

// Pos returns the current cursor position.
func (n *Navigator) Pos() Position {
	return n.pos
}

// CurrentFile returns the file under the cursor, or nil.
func (n *Navigator) CurrentFile() *FileDiff {
	if n.pos.FileIdx < len(n.diff.Files) {
		return n.diff.Files[n.pos.FileIdx]
	}
	return nil
}

// CurrentHunk returns the hunk under the cursor, or nil.
func (n *Navigator) CurrentHunk() *Hunk {
	if f := n.CurrentFile(); f != nil && n.pos.HunkIdx < len(f.Hunks) {
		return f.Hunks[n.pos.HunkIdx]
	}
	return nil
}

// CurrentLine returns the line under the cursor, or nil.
func (n *Navigator) CurrentLine() *Line {
	if h := n.CurrentHunk(); h != nil && n.pos.LineIdx < len(h.Lines) {
		return &h.Lines[n.pos.LineIdx]
	}
	return nil
}

// NextLine advances one line, crossing into the next hunk or file when
// the current one is exhausted.
func (n *Navigator) NextLine() bool {
	if h := n.CurrentHunk(); h != nil && n.pos.LineIdx+1 < len(h.Lines) {
		n.pos.LineIdx++
		return true
	}
	if n.NextHunk() {
		n.pos.LineIdx = 0
		return true
	}
	return false
}

// PrevLine moves back one line, landing on the last line of the previous
// hunk or file when at the start of the current one.
func (n *Navigator) PrevLine() bool {
	if n.pos.LineIdx > 0 {
		n.pos.LineIdx--
		return true
	}
	oldHunk := n.pos.HunkIdx
	if n.PrevHunk() {
		if h := n.CurrentHunk(); h != nil && len(h.Lines) > 0 {
			n.pos.LineIdx = len(h.Lines) - 1
		}
		return true
	}
	n.pos.HunkIdx = oldHunk
	return false
}

// NextHunk advances to the next hunk, crossing into the next file when
// the current one is exhausted.
func (n *Navigator) NextHunk() bool {
	if f := n.CurrentFile(); f != nil && n.pos.HunkIdx+1 < len(f.Hunks) {
		n.pos.HunkIdx++
		n.pos.LineIdx = 0
		return true
	}
	if n.NextFile() {
		return true
	}
	return false
}

// PrevHunk moves back to the previous hunk, landing on the last hunk of
// the previous file when at the first hunk of the current one.
func (n *Navigator) PrevHunk() bool {
	if n.pos.HunkIdx > 0 {
		n.pos.HunkIdx--
		n.pos.LineIdx = 0
		return true
	}
	oldFile := n.pos.FileIdx
	if n.PrevFile() {
		if f := n.CurrentFile(); f != nil && len(f.Hunks) > 0 {
			n.pos.HunkIdx = len(f.Hunks) - 1
		}
		n.pos.LineIdx = 0
		return true
	}
	n.pos.FileIdx = oldFile
	return false
}

// NextFile advances to the next file and resets the hunk and line cursor.
func (n *Navigator) NextFile() bool {
	if n.pos.FileIdx+1 < len(n.diff.Files) {
		n.pos.FileIdx++
		n.pos.HunkIdx = 0
		n.pos.LineIdx = 0
		return true
	}
	return false
}

// PrevFile moves back to the previous file and resets the hunk and line
// cursor.
func (n *Navigator) PrevFile() bool {
	if n.pos.FileIdx > 0 {
		n.pos.FileIdx--
		n.pos.HunkIdx = 0
		n.pos.LineIdx = 0
		return true
	}
	return false
}

// GotoFile jumps to the given file index.
func (n *Navigator) GotoFile(fileIdx int) bool {
	if fileIdx < 0 || fileIdx >= len(n.diff.Files) {
		return false
	}
	n.pos = Position{FileIdx: fileIdx}
	return true
}

// GotoLine jumps to the lineIdx-th line of the given file, counted across
// all of its hunks.
func (n *Navigator) GotoLine(fileIdx, lineIdx int) bool {
	if !n.GotoFile(fileIdx) {
		return false
	}
	seen := 0
	for hunkIdx, h := range n.diff.Files[fileIdx].Hunks {
		if seen+len(h.Lines) > lineIdx {
			n.pos.HunkIdx = hunkIdx
			n.pos.LineIdx = lineIdx - seen
			return true
		}
		seen += len(h.Lines)
	}
	return false
}

// GotoTop resets the cursor to the first line of the first file.
func (n *Navigator) GotoTop() {
	n.pos = Position{}
}

// GotoBottom moves the cursor to the last line of the last file.
func (n *Navigator) GotoBottom() {
	if len(n.diff.Files) == 0 {
		return
	}
	n.pos.FileIdx = len(n.diff.Files) - 1
	n.pos.HunkIdx = 0
	n.pos.LineIdx = 0
	if f := n.CurrentFile(); len(f.Hunks) > 0 {
		n.pos.HunkIdx = len(f.Hunks) - 1
		if h := n.CurrentHunk(); len(h.Lines) > 0 {
			n.pos.LineIdx = len(h.Lines) - 1
		}
	}
}

// MoveDown advances up to count lines, stopping at the end of the diff.
func (n *Navigator) MoveDown(count int) {
	for i := 0; i < count; i++ {
		if !n.NextLine() {
			break
		}
	}
}

// MoveUp moves back up to count lines, stopping at the start of the diff.
func (n *Navigator) MoveUp(count int) {
	for i := 0; i < count; i++ {
		if !n.PrevLine() {
			break
		}
	}
}

// LineCount returns the number of lines in the whole diff.
func (n *Navigator) LineCount() int {
	return n.diff.TotalLines()
}

// FileCount returns the number of files in the diff.
func (n *Navigator) FileCount() int {
	return len(n.diff.Files)
}

// GlobalLineIndex returns the cursor's position counted from the first
// line of the first file.
func (n *Navigator) GlobalLineIndex() int {
	index := 0
	for fileIdx, f := range n.diff.Files {
		if fileIdx < n.pos.FileIdx {
			index += f.TotalLines()
			continue
		}
		for hunkIdx, h := range f.Hunks {
			if hunkIdx < n.pos.HunkIdx {
				index += len(h.Lines)
				continue
			}
			index += n.pos.LineIdx
			break
		}
		break
	}
	return index
}
