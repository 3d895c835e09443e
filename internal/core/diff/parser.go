package diff

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/0xd219b/cr-helper/internal/core/types"
)

// DefaultMaxFileSize caps the size of untracked files loaded on demand.
// Anything larger is treated as binary so the review never stalls on a
// generated artifact.
const DefaultMaxFileSize = 10 << 20

// untrackedWarnThreshold triggers a log warning when a repository has an
// unusually large number of untracked files.
const untrackedWarnThreshold = 100

// ParseError reports a malformed construct in unified diff input.
type ParseError struct {
	LineNum int
	Line    string
	Msg     string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse diff: line %d: %s: %q", e.LineNum, e.Msg, e.Line)
}

// GitRunner is the subset of git operations the parser needs to build a
// diff straight from a repository.
type GitRunner interface {
	Diff(ctx context.Context, dir string, src Source) (string, error)
	UntrackedFiles(ctx context.Context, dir string) ([]string, error)
}

// Parser turns unified diff text into the DiffData model.
type Parser struct {
	log         zerolog.Logger
	maxFileSize int64
}

func NewParser(log zerolog.Logger) *Parser {
	return &Parser{log: log, maxFileSize: DefaultMaxFileSize}
}

// SetMaxFileSize overrides the lazy-load size cap in bytes. Values below
// one keep the default.
func (p *Parser) SetMaxFileSize(n int64) {
	if n > 0 {
		p.maxFileSize = n
	}
}

// Parse parses unified diff text. Unknown line prefixes outside and inside
// hunks are skipped rather than rejected, so output from different git
// versions and diff flavors all parse.
func (p *Parser) Parse(input string) (*DiffData, error) {
	data := Empty()

	var (
		file    *FileDiff
		hunk    *Hunk
		oldLine int
		newLine int
	)

	closeHunk := func() {
		if hunk != nil && file != nil {
			file.Hunks = append(file.Hunks, hunk)
		}
		hunk = nil
	}
	closeFile := func() {
		closeHunk()
		if file != nil {
			data.Files = append(data.Files, file)
		}
		file = nil
	}

	lines := strings.Split(input, "\n")
	for i, raw := range lines {
		switch {
		case strings.HasPrefix(raw, "diff --git "):
			closeFile()
			oldPath, newPath := parseGitHeader(raw)
			file = &FileDiff{
				ID:      types.NewFileID(pickPath(oldPath, newPath)),
				OldPath: oldPath,
				NewPath: newPath,
				Mode:    FileModified,
			}

		case file == nil:
			// Preamble before the first file header.

		case strings.HasPrefix(raw, "@@ "):
			closeHunk()
			oldRange, newRange, err := parseHunkHeader(raw)
			if err != nil {
				return nil, &ParseError{LineNum: i + 1, Line: raw, Msg: err.Error()}
			}
			hunk = &Hunk{
				ID:       types.NewHunkID(file.ID, len(file.Hunks)),
				Header:   raw,
				OldRange: oldRange,
				NewRange: newRange,
			}
			oldLine = oldRange.Start
			newLine = newRange.Start

		case hunk != nil:
			path := file.DisplayPath()
			switch {
			case strings.HasPrefix(raw, "+"):
				content := raw[1:]
				hunk.Lines = append(hunk.Lines, Line{
					ID:         types.NewLineID(path, content, newLine),
					Type:       LineAdded,
					Content:    content,
					NewLineNum: newLine,
				})
				newLine++
			case strings.HasPrefix(raw, "-"):
				content := raw[1:]
				hunk.Lines = append(hunk.Lines, Line{
					ID:         types.NewLineID(path, content, oldLine),
					Type:       LineDeleted,
					Content:    content,
					OldLineNum: oldLine,
				})
				oldLine++
			case strings.HasPrefix(raw, " "):
				content := raw[1:]
				hunk.Lines = append(hunk.Lines, Line{
					ID:         types.NewLineID(path, content, newLine),
					Type:       LineContext,
					Content:    content,
					OldLineNum: oldLine,
					NewLineNum: newLine,
				})
				oldLine++
				newLine++
			case strings.HasPrefix(raw, "\\"):
				hunk.Lines = append(hunk.Lines, Line{
					ID:      types.NewLineID(path, raw, 0),
					Type:    LineNoNewline,
					Content: strings.TrimPrefix(raw, "\\ "),
				})
			default:
				// Trailing blank line or something a diff flavor added.
			}

		case strings.HasPrefix(raw, "new file mode"):
			file.Mode = FileAdded
		case strings.HasPrefix(raw, "deleted file mode"):
			file.Mode = FileDeleted
		case strings.HasPrefix(raw, "rename from "):
			file.Mode = FileRenamed
			file.OldPath = strings.TrimPrefix(raw, "rename from ")
		case strings.HasPrefix(raw, "rename to "):
			file.Mode = FileRenamed
			file.NewPath = strings.TrimPrefix(raw, "rename to ")
		case strings.HasPrefix(raw, "copy from "):
			file.Mode = FileCopied
			file.OldPath = strings.TrimPrefix(raw, "copy from ")
		case strings.HasPrefix(raw, "copy to "):
			file.Mode = FileCopied
			file.NewPath = strings.TrimPrefix(raw, "copy to ")
		case strings.HasPrefix(raw, "Binary files "), strings.HasPrefix(raw, "GIT binary patch"):
			file.Mode = FileBinary

		default:
			// index lines, mode lines, ---/+++ headers, similarity scores.
		}
	}
	closeFile()

	data.Stats = StatsFromDiff(data)
	return data, nil
}

// ParseFromGit produces a diff by running git in dir, then appends lazy
// placeholders for untracked files so working-tree and staged reviews
// also cover files git does not know about yet.
func (p *Parser) ParseFromGit(ctx context.Context, run GitRunner, dir string, src Source) (*DiffData, error) {
	raw, err := run.Diff(ctx, dir, src)
	if err != nil {
		return nil, err
	}

	data, err := p.Parse(raw)
	if err != nil {
		return nil, err
	}
	data.Metadata.Source = src
	data.Metadata.Timestamp = time.Now().UTC()
	data.Metadata.Repository = dir

	if src.Type == SourceWorkingTree || src.Type == SourceStaged {
		untracked, err := run.UntrackedFiles(ctx, dir)
		if err != nil {
			return nil, err
		}
		if len(untracked) > untrackedWarnThreshold {
			p.log.Warn().
				Int("count", len(untracked)).
				Msg("large number of untracked files, content loads lazily")
		}
		for _, path := range untracked {
			if data.FileByPath(path) != nil {
				continue
			}
			data.Files = append(data.Files, NewLazyFile(path))
		}
		data.Stats = StatsFromDiff(data)
		data.Stats.FilesChanged = len(data.Files)
	}

	return data, nil
}

// LoadLazyFile materializes the content of a lazy file as a single
// synthetic all-added hunk. Calling it on an already-loaded file is a
// no-op. Oversized or non-text content flips the file to binary instead.
func (p *Parser) LoadLazyFile(file *FileDiff, rootDir string) error {
	if !file.NeedsLoading() {
		return nil
	}

	path := filepath.Join(rootDir, file.NewPath)
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", file.NewPath, err)
	}
	if info.Size() > p.maxFileSize {
		file.Mode = FileBinary
		file.Lazy = false
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", file.NewPath, err)
	}
	if bytes.IndexByte(content, 0) >= 0 {
		file.Mode = FileBinary
		file.Lazy = false
		return nil
	}

	text := strings.TrimSuffix(string(content), "\n")
	var fileLines []string
	if text != "" {
		fileLines = strings.Split(text, "\n")
	}

	hunk := &Hunk{
		ID:       types.NewHunkID(file.ID, 0),
		Header:   fmt.Sprintf("@@ -0,0 +1,%d @@", len(fileLines)),
		OldRange: Range{Start: 0, Count: 0},
		NewRange: Range{Start: 1, Count: len(fileLines)},
	}
	for i, line := range fileLines {
		num := i + 1
		hunk.Lines = append(hunk.Lines, Line{
			ID:         types.NewLineID(file.NewPath, line, num),
			Type:       LineAdded,
			Content:    line,
			NewLineNum: num,
		})
	}

	file.Hunks = []*Hunk{hunk}
	file.Lazy = false
	return nil
}

// parseGitHeader pulls the two paths out of a "diff --git a/x b/y" line.
// Paths containing spaces are not recoverable from this header form and
// split incorrectly; the ---/+++ lines are not consulted.
func parseGitHeader(line string) (oldPath, newPath string) {
	fields := strings.Fields(line)
	if len(fields) >= 4 {
		oldPath = strings.TrimPrefix(fields[2], "a/")
		newPath = strings.TrimPrefix(fields[3], "b/")
	}
	return oldPath, newPath
}

func pickPath(oldPath, newPath string) string {
	if newPath != "" && newPath != "/dev/null" {
		return newPath
	}
	return oldPath
}

// parseHunkHeader parses "@@ -start[,count] +start[,count] @@ ...".
// A missing count means 1.
func parseHunkHeader(line string) (oldRange, newRange Range, err error) {
	rest := strings.TrimPrefix(line, "@@ ")
	marker := strings.Index(rest, " @@")
	if marker < 0 {
		return oldRange, newRange, fmt.Errorf("missing closing @@")
	}
	specs := strings.Fields(rest[:marker])
	if len(specs) != 2 || !strings.HasPrefix(specs[0], "-") || !strings.HasPrefix(specs[1], "+") {
		return oldRange, newRange, fmt.Errorf("malformed hunk ranges")
	}
	oldRange, err = parseRange(specs[0][1:])
	if err != nil {
		return oldRange, newRange, err
	}
	newRange, err = parseRange(specs[1][1:])
	return oldRange, newRange, err
}

func parseRange(spec string) (Range, error) {
	start, count, found := strings.Cut(spec, ",")
	r := Range{Count: 1}

	var err error
	if r.Start, err = strconv.Atoi(start); err != nil {
		return r, fmt.Errorf("bad range start %q", start)
	}
	if found {
		if r.Count, err = strconv.Atoi(count); err != nil {
			return r, fmt.Errorf("bad range count %q", count)
		}
	}
	return r, nil
}
