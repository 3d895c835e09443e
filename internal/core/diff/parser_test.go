package diff

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xd219b/cr-helper/internal/core/types"
)

const sampleDiff = `diff --git a/src/main.go b/src/main.go
index 1234567..89abcde 100644
--- a/src/main.go
+++ b/src/main.go
@@ -1,3 +1,3 @@
 package main
-func old() {}
+func new() {}
+func extra() {}
`

func testParser() *Parser {
	return NewParser(zerolog.Nop())
}

func Test_Parser_Parse_SingleFile(t *testing.T) {
	data, err := testParser().Parse(sampleDiff)
	require.NoError(t, err)
	require.Len(t, data.Files, 1)

	file := data.Files[0]
	assert.Equal(t, "src/main.go", file.OldPath)
	assert.Equal(t, "src/main.go", file.NewPath)
	assert.Equal(t, FileModified, file.Mode)
	assert.Equal(t, types.NewFileID("src/main.go"), file.ID)

	require.Len(t, file.Hunks, 1)
	hunk := file.Hunks[0]
	assert.Equal(t, types.HunkID(string(file.ID)+":h0"), hunk.ID)
	assert.Equal(t, Range{Start: 1, Count: 3}, hunk.OldRange)
	assert.Equal(t, Range{Start: 1, Count: 3}, hunk.NewRange)

	require.Len(t, hunk.Lines, 4)
	assert.Equal(t, LineContext, hunk.Lines[0].Type)
	assert.Equal(t, LineDeleted, hunk.Lines[1].Type)
	assert.Equal(t, LineAdded, hunk.Lines[2].Type)
	assert.Equal(t, LineAdded, hunk.Lines[3].Type)
}

func Test_Parser_Parse_LineNumbering(t *testing.T) {
	data, err := testParser().Parse(sampleDiff)
	require.NoError(t, err)

	lines := data.Files[0].Hunks[0].Lines

	// Context consumes a number on both sides.
	assert.Equal(t, 1, lines[0].OldLineNum)
	assert.Equal(t, 1, lines[0].NewLineNum)

	// Deleted only advances the old side.
	assert.Equal(t, 2, lines[1].OldLineNum)
	assert.Zero(t, lines[1].NewLineNum)

	// Added only advances the new side, independently of deletions.
	assert.Equal(t, 2, lines[2].NewLineNum)
	assert.Zero(t, lines[2].OldLineNum)
	assert.Equal(t, 3, lines[3].NewLineNum)
}

func Test_Parser_Parse_LineIdentityStable(t *testing.T) {
	first, err := testParser().Parse(sampleDiff)
	require.NoError(t, err)
	second, err := testParser().Parse(sampleDiff)
	require.NoError(t, err)

	for i, line := range first.Files[0].Hunks[0].Lines {
		assert.Equal(t, line.ID, second.Files[0].Hunks[0].Lines[i].ID)
	}
}

func Test_Parser_Parse_LineIdentityDerivation(t *testing.T) {
	data, err := testParser().Parse(sampleDiff)
	require.NoError(t, err)

	lines := data.Files[0].Hunks[0].Lines
	require.Len(t, lines, 4)

	assert.Equal(t, types.NewLineID("src/main.go", "package main", 1), lines[0].ID)
	assert.Equal(t, types.NewLineID("src/main.go", "func old() {}", 2), lines[1].ID)
	assert.Equal(t, types.NewLineID("src/main.go", "func new() {}", 2), lines[2].ID)
	assert.Equal(t, types.NewLineID("src/main.go", "func extra() {}", 3), lines[3].ID)
}

func Test_Parser_LoadLazyFile_LineIdentityMatchesParse(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("alpha\nbeta\n"), 0o644))

	file := NewLazyFile("notes.txt")
	require.NoError(t, testParser().LoadLazyFile(file, dir))

	// Lazy loading and parsing must derive ids the same way, or comments
	// anchored on an untracked file would detach once git tracks it.
	assert.Equal(t, types.NewLineID("notes.txt", "alpha", 1), file.Hunks[0].Lines[0].ID)
	assert.Equal(t, types.NewLineID("notes.txt", "beta", 2), file.Hunks[0].Lines[1].ID)
}

func Test_Parser_Parse_MultipleFilesAndHunks(t *testing.T) {
	input := `diff --git a/one.go b/one.go
@@ -1,2 +1,2 @@
 a
-b
+c
@@ -10,2 +10,3 @@
 x
+y
 z
diff --git a/two.go b/two.go
@@ -1 +1 @@
-old
+new
`
	data, err := testParser().Parse(input)
	require.NoError(t, err)
	require.Len(t, data.Files, 2)
	require.Len(t, data.Files[0].Hunks, 2)
	require.Len(t, data.Files[1].Hunks, 1)

	// Hunk ids number sequentially within their file.
	assert.True(t, strings.HasSuffix(string(data.Files[0].Hunks[0].ID), ":h0"))
	assert.True(t, strings.HasSuffix(string(data.Files[0].Hunks[1].ID), ":h1"))
	assert.True(t, strings.HasSuffix(string(data.Files[1].Hunks[0].ID), ":h0"))

	// Second hunk resumes numbering at its own header start.
	assert.Equal(t, 10, data.Files[0].Hunks[1].Lines[0].NewLineNum)

	// Count defaults to 1 when the header omits it.
	assert.Equal(t, Range{Start: 1, Count: 1}, data.Files[1].Hunks[0].OldRange)
}

func Test_Parser_Parse_FileModes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		mode  FileMode
	}{
		{
			name: "new file",
			input: `diff --git a/a.go b/a.go
new file mode 100644
@@ -0,0 +1 @@
+hello
`,
			mode: FileAdded,
		},
		{
			name: "deleted file",
			input: `diff --git a/a.go b/a.go
deleted file mode 100644
@@ -1 +0,0 @@
-hello
`,
			mode: FileDeleted,
		},
		{
			name: "binary file",
			input: `diff --git a/img.png b/img.png
Binary files a/img.png and b/img.png differ
`,
			mode: FileBinary,
		},
		{
			name: "rename",
			input: `diff --git a/old.go b/new.go
similarity index 100%
rename from old.go
rename to new.go
`,
			mode: FileRenamed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := testParser().Parse(tt.input)
			require.NoError(t, err)
			require.Len(t, data.Files, 1)
			assert.Equal(t, tt.mode, data.Files[0].Mode)
		})
	}
}

func Test_Parser_Parse_RenamePaths(t *testing.T) {
	input := `diff --git a/old name.go b/new.go
rename from pkg/old.go
rename to pkg/new.go
`
	data, err := testParser().Parse(input)
	require.NoError(t, err)
	require.Len(t, data.Files, 1)

	// rename from/to lines override the header split.
	assert.Equal(t, "pkg/old.go", data.Files[0].OldPath)
	assert.Equal(t, "pkg/new.go", data.Files[0].NewPath)
}

func Test_Parser_Parse_NoNewlineMarker(t *testing.T) {
	input := `diff --git a/a.txt b/a.txt
@@ -1 +1 @@
-old
+new
\ No newline at end of file
`
	data, err := testParser().Parse(input)
	require.NoError(t, err)

	lines := data.Files[0].Hunks[0].Lines
	require.Len(t, lines, 3)
	assert.Equal(t, LineNoNewline, lines[2].Type)
	assert.Zero(t, lines[2].OldLineNum)
	assert.Zero(t, lines[2].NewLineNum)

	// The marker does not advance either counter.
	assert.Equal(t, 1, lines[1].NewLineNum)
}

func Test_Parser_Parse_MalformedHunkHeader(t *testing.T) {
	input := `diff --git a/a.go b/a.go
@@ not a header
`
	_, err := testParser().Parse(input)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.LineNum)
}

func Test_Parser_Parse_EmptyInput(t *testing.T) {
	data, err := testParser().Parse("")
	require.NoError(t, err)
	assert.Empty(t, data.Files)
	assert.Zero(t, data.Stats.Insertions)
}

func Test_Parser_Parse_Stats(t *testing.T) {
	data, err := testParser().Parse(sampleDiff)
	require.NoError(t, err)

	assert.Equal(t, Stats{FilesChanged: 1, Insertions: 2, Deletions: 1}, data.Stats)
}

type stubGit struct {
	diff      string
	untracked []string
}

func (s *stubGit) Diff(context.Context, string, Source) (string, error) {
	return s.diff, nil
}

func (s *stubGit) UntrackedFiles(context.Context, string) ([]string, error) {
	return s.untracked, nil
}

func Test_Parser_ParseFromGit_AppendsUntracked(t *testing.T) {
	run := &stubGit{diff: sampleDiff, untracked: []string{"notes.txt", "src/main.go"}}

	data, err := testParser().ParseFromGit(context.Background(), run, "/repo", Source{Type: SourceWorkingTree})
	require.NoError(t, err)

	// src/main.go is already in the diff and must not be duplicated.
	require.Len(t, data.Files, 2)

	lazy := data.Files[1]
	assert.Equal(t, "notes.txt", lazy.NewPath)
	assert.Equal(t, FileAdded, lazy.Mode)
	assert.True(t, lazy.NeedsLoading())
	assert.Equal(t, 2, data.Stats.FilesChanged)
}

func Test_Parser_ParseFromGit_StagedAppendsUntracked(t *testing.T) {
	run := &stubGit{diff: sampleDiff, untracked: []string{"notes.txt"}}

	data, err := testParser().ParseFromGit(context.Background(), run, "/repo", Source{Type: SourceStaged})
	require.NoError(t, err)
	require.Len(t, data.Files, 2)
	assert.True(t, data.Files[1].Lazy)
}

func Test_Parser_ParseFromGit_CommitSkipsUntracked(t *testing.T) {
	run := &stubGit{diff: sampleDiff, untracked: []string{"notes.txt"}}

	data, err := testParser().ParseFromGit(context.Background(), run, "/repo", Source{Type: SourceCommit, Commit: "abc123"})
	require.NoError(t, err)
	require.Len(t, data.Files, 1)
}

func Test_Parser_LoadLazyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("alpha\nbeta\n"), 0o644))

	file := NewLazyFile("notes.txt")
	require.NoError(t, testParser().LoadLazyFile(file, dir))

	assert.False(t, file.Lazy)
	require.Len(t, file.Hunks, 1)

	hunk := file.Hunks[0]
	assert.Equal(t, "@@ -0,0 +1,2 @@", hunk.Header)
	assert.Equal(t, Range{Start: 1, Count: 2}, hunk.NewRange)
	require.Len(t, hunk.Lines, 2)
	assert.Equal(t, LineAdded, hunk.Lines[0].Type)
	assert.Equal(t, "alpha", hunk.Lines[0].Content)
	assert.Equal(t, 1, hunk.Lines[0].NewLineNum)
	assert.Equal(t, 2, hunk.Lines[1].NewLineNum)
}

func Test_Parser_LoadLazyFile_Idempotent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("alpha\n"), 0o644))

	file := NewLazyFile("notes.txt")
	require.NoError(t, testParser().LoadLazyFile(file, dir))
	firstID := file.Hunks[0].Lines[0].ID

	// A second call must not reload or reorder anything.
	require.NoError(t, testParser().LoadLazyFile(file, dir))
	require.Len(t, file.Hunks, 1)
	assert.Equal(t, firstID, file.Hunks[0].Lines[0].ID)
}

func Test_Parser_LoadLazyFile_BinaryContent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blob.bin"), []byte{0x7f, 0x00, 0x01, 0x02}, 0o644))

	file := NewLazyFile("blob.bin")
	require.NoError(t, testParser().LoadLazyFile(file, dir))

	assert.Equal(t, FileBinary, file.Mode)
	assert.False(t, file.Lazy)
	assert.Empty(t, file.Hunks)
}

func Test_Parser_LoadLazyFile_Oversized(t *testing.T) {
	dir := t.TempDir()
	big := strings.Repeat("x", 64)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "big.log"), []byte(big), 0o644))

	p := testParser()
	p.SetMaxFileSize(32)

	file := NewLazyFile("big.log")
	require.NoError(t, p.LoadLazyFile(file, dir))

	assert.Equal(t, FileBinary, file.Mode)
	assert.Empty(t, file.Hunks)
}

func Test_Parser_SetMaxFileSize_IgnoresNonPositive(t *testing.T) {
	p := testParser()
	p.SetMaxFileSize(0)
	assert.Equal(t, int64(DefaultMaxFileSize), p.maxFileSize)

	p.SetMaxFileSize(-5)
	assert.Equal(t, int64(DefaultMaxFileSize), p.maxFileSize)

	p.SetMaxFileSize(512)
	assert.Equal(t, int64(512), p.maxFileSize)
}

func Test_Parser_LoadLazyFile_Missing(t *testing.T) {
	file := NewLazyFile("gone.txt")
	err := testParser().LoadLazyFile(file, t.TempDir())
	require.Error(t, err)
	assert.True(t, file.NeedsLoading())
}
