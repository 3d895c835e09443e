// Package diff defines the parsed diff domain model: files, hunks, and
// lines with stable content-addressed identities, plus the parser and the
// navigator that traverses the structure.
package diff

import (
	"time"

	"github.com/0xd219b/cr-helper/internal/core/types"
)

// DiffData is the complete parsed form of one diff.
type DiffData struct {
	// Files holds the changed files in the order they appeared.
	Files []*FileDiff `json:"files"`
	// Metadata describes where and when the diff was produced.
	Metadata Metadata `json:"metadata"`
	// Stats holds derived counters. Always recomputable from Files.
	Stats Stats `json:"stats"`
}

// Empty returns a DiffData with no files.
func Empty() *DiffData {
	return &DiffData{
		Files:    []*FileDiff{},
		Metadata: Metadata{Source: Source{Type: SourceWorkingTree}, Timestamp: time.Now().UTC()},
	}
}

// TotalLines returns the number of lines across all files.
func (d *DiffData) TotalLines() int {
	total := 0
	for _, f := range d.Files {
		total += f.TotalLines()
	}
	return total
}

// File returns the file with the given id, or nil.
func (d *DiffData) File(id types.FileID) *FileDiff {
	for _, f := range d.Files {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// FileByPath returns the file whose old or new path matches, or nil.
func (d *DiffData) FileByPath(path string) *FileDiff {
	for _, f := range d.Files {
		if f.NewPath == path || f.OldPath == path {
			return f
		}
	}
	return nil
}

// FileMode describes how a file changed.
type FileMode string

const (
	FileAdded    FileMode = "added"
	FileDeleted  FileMode = "deleted"
	FileModified FileMode = "modified"
	FileRenamed  FileMode = "renamed"
	FileCopied   FileMode = "copied"
	FileBinary   FileMode = "binary"
)

// Indicator returns a single display character for the mode.
func (m FileMode) Indicator() string {
	switch m {
	case FileAdded:
		return "+"
	case FileDeleted:
		return "-"
	case FileModified:
		return "~"
	case FileRenamed:
		return ">"
	case FileCopied:
		return "="
	case FileBinary:
		return "B"
	default:
		return "?"
	}
}

// FileDiff is a single file's changes. At least one of OldPath/NewPath is
// always set. Created by the parser and immutable afterwards, except for
// the lazy-load transition performed by Parser.LoadLazyFile.
type FileDiff struct {
	ID      types.FileID `json:"id"`
	OldPath string       `json:"old_path,omitempty"`
	NewPath string       `json:"new_path,omitempty"`
	Mode    FileMode     `json:"mode"`
	Hunks   []*Hunk      `json:"hunks"`
	// Lazy marks a file whose hunks have not been materialized yet.
	// Cleared exactly once: either by a successful content load or by the
	// file being marked binary/oversized.
	Lazy bool `json:"lazy,omitempty"`
}

// NewLazyFile creates a placeholder entry for an untracked file whose
// content is loaded on demand.
func NewLazyFile(path string) *FileDiff {
	return &FileDiff{
		ID:      types.NewFileID(path),
		NewPath: path,
		Mode:    FileAdded,
		Hunks:   nil,
		Lazy:    true,
	}
}

// DisplayPath returns the path to show for this file, preferring NewPath.
func (f *FileDiff) DisplayPath() string {
	if f.NewPath != "" {
		return f.NewPath
	}
	return f.OldPath
}

// TotalLines returns the number of lines across all hunks.
func (f *FileDiff) TotalLines() int {
	total := 0
	for _, h := range f.Hunks {
		total += len(h.Lines)
	}
	return total
}

// IsBinary reports whether the file cannot be shown as text.
func (f *FileDiff) IsBinary() bool {
	return f.Mode == FileBinary
}

// NeedsLoading reports whether the file still awaits a lazy content load.
func (f *FileDiff) NeedsLoading() bool {
	return f.Lazy && len(f.Hunks) == 0
}

// Range is a 1-indexed line range from a hunk header. Count may be zero.
type Range struct {
	Start int `json:"start"`
	Count int `json:"count"`
}

// End returns the exclusive end line number.
func (r Range) End() int {
	return r.Start + r.Count
}

// Hunk is a contiguous block of changed and context lines.
type Hunk struct {
	ID       types.HunkID `json:"id"`
	Header   string       `json:"header"`
	OldRange Range        `json:"old_range"`
	NewRange Range        `json:"new_range"`
	Lines    []Line       `json:"lines"`
}

// LineType classifies a diff line.
type LineType string

const (
	LineAdded   LineType = "added"
	LineDeleted LineType = "deleted"
	LineContext LineType = "context"
	// LineNoNewline is the "\ No newline at end of file" marker.
	LineNoNewline LineType = "no_newline"
)

// Prefix returns the unified-diff marker character for the type.
func (t LineType) Prefix() string {
	switch t {
	case LineAdded:
		return "+"
	case LineDeleted:
		return "-"
	case LineContext:
		return " "
	case LineNoNewline:
		return "\\"
	default:
		return " "
	}
}

// Line is a single line of a hunk. Line numbers are 1-indexed; zero means
// the line has no number on that side (added lines have no old number,
// deleted lines no new number, no-newline markers neither).
type Line struct {
	ID         types.LineID `json:"id"`
	Type       LineType     `json:"type"`
	Content    string       `json:"content"`
	OldLineNum int          `json:"old_line_num,omitempty"`
	NewLineNum int          `json:"new_line_num,omitempty"`
}

// DisplayLineNum returns the line number to show, preferring the new side.
func (l Line) DisplayLineNum() int {
	if l.NewLineNum != 0 {
		return l.NewLineNum
	}
	return l.OldLineNum
}

// Metadata describes the origin of a diff.
type Metadata struct {
	Source     Source           `json:"source"`
	Timestamp  time.Time        `json:"timestamp"`
	Repository string           `json:"repository,omitempty"`
	Extensions types.Extensions `json:"extensions,omitempty"`
}

// Stats are derived counters over a diff.
type Stats struct {
	FilesChanged int `json:"files_changed"`
	Insertions   int `json:"insertions"`
	Deletions    int `json:"deletions"`
}

// StatsFromDiff derives stats by scanning every line of every hunk.
func StatsFromDiff(d *DiffData) Stats {
	s := Stats{FilesChanged: len(d.Files)}
	for _, f := range d.Files {
		for _, h := range f.Hunks {
			for _, l := range h.Lines {
				switch l.Type {
				case LineAdded:
					s.Insertions++
				case LineDeleted:
					s.Deletions++
				}
			}
		}
	}
	return s
}
