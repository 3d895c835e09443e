package export

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xd219b/cr-helper/internal/core/comment"
	"github.com/0xd219b/cr-helper/internal/core/diff"
)

const contextDiff = `diff --git a/pkg/math.py b/pkg/math.py
index 1234567..89abcde 100644
--- a/pkg/math.py
+++ b/pkg/math.py
@@ -1,5 +1,5 @@
 def add(a, b):
     return a + b
-def sub(a, b):
-    return a - b
+def subtract(a, b):
+    return a - b
 def last():
`

func contextFixture(t *testing.T) (*diff.DiffData, *diff.FileDiff) {
	t.Helper()
	data, err := diff.NewParser(zerolog.Nop()).Parse(contextDiff)
	require.NoError(t, err)
	require.Len(t, data.Files, 1)
	return data, data.Files[0]
}

func lineComment(t *testing.T, file *diff.FileDiff, line diff.Line) *comment.Comment {
	t.Helper()
	c, err := comment.NewBuilder(file.ID, line.ID, comment.SideNew).
		Content("note").
		FilePath(file.DisplayPath()).
		LineNumber(line.DisplayLineNum()).
		Build()
	require.NoError(t, err)
	return c
}

func TestExtractCentersOnTarget(t *testing.T) {
	data, file := contextFixture(t)
	lines := file.Hunks[0].Lines // 7 lines: 2 ctx, 2 del, 2 add, 1 ctx

	ctx := NewContextExtractor(2).Extract(lineComment(t, file, lines[4]), data)
	require.NotNil(t, ctx)

	require.Len(t, ctx.Lines, 5) // indices 2..6
	assert.Equal(t, "def subtract(a, b):", ctx.TargetContent)
	assert.Equal(t, 3, ctx.TargetLineNum)
	assert.True(t, ctx.Lines[2].IsTarget)
	assert.Equal(t, "-", ctx.Lines[0].Prefix)
	assert.Equal(t, "+", ctx.Lines[2].Prefix)
	assert.Equal(t, " ", ctx.Lines[4].Prefix)
}

func TestExtractClampsAtHunkEdges(t *testing.T) {
	data, file := contextFixture(t)
	lines := file.Hunks[0].Lines

	ctx := NewContextExtractor(2).Extract(lineComment(t, file, lines[0]), data)
	require.NotNil(t, ctx)
	require.Len(t, ctx.Lines, 3) // indices 0..2
	assert.True(t, ctx.Lines[0].IsTarget)

	ctx = NewContextExtractor(2).Extract(lineComment(t, file, lines[len(lines)-1]), data)
	require.NotNil(t, ctx)
	require.Len(t, ctx.Lines, 3) // last three lines
	assert.True(t, ctx.Lines[2].IsTarget)
}

func TestExtractUnknownFileOrLine(t *testing.T) {
	data, file := contextFixture(t)
	line := file.Hunks[0].Lines[0]

	c, err := comment.NewBuilder("f_000000000000", line.ID, comment.SideNew).Content("note").Build()
	require.NoError(t, err)
	assert.Nil(t, NewContextExtractor(2).Extract(c, data))

	c, err = comment.NewBuilder(file.ID, "l_0000000000000000", comment.SideNew).Content("note").Build()
	require.NoError(t, err)
	assert.Nil(t, NewContextExtractor(2).Extract(c, data))
}

func TestFormatCodeBlock(t *testing.T) {
	data, file := contextFixture(t)
	lines := file.Hunks[0].Lines

	ctx := NewContextExtractor(1).Extract(lineComment(t, file, lines[4]), data)
	require.NotNil(t, ctx)

	block := FormatCodeBlock(ctx, file.DisplayPath())
	assert.True(t, strings.HasPrefix(block, "> **Line 3:** `def subtract(a, b):`\n\n```python\n"))
	assert.Contains(t, block, "+def subtract(a, b): ◀◀◀\n")
	assert.True(t, strings.HasSuffix(block, "```"))

	// Deleted lines keep their old line number column.
	assert.Contains(t, block, "   4 -    return a - b\n")
}

func TestLanguageByExtension(t *testing.T) {
	cases := map[string]string{
		"main.go":      "go",
		"lib.rs":       "rust",
		"script.py":    "python",
		"app.ts":       "typescript",
		"view.tsx":     "tsx",
		"header.hpp":   "cpp",
		"deploy.sh":    "bash",
		"config.yml":   "yaml",
		"README.md":    "markdown",
		"Makefile":     "",
		"notes.txt":    "",
		"style.scss":   "scss",
		"query.sql":    "sql",
		"Main.kt":      "kotlin",
		"Program.cs":   "csharp",
		"index.html":   "html",
		"a/b/nested.c": "c",
	}
	for path, want := range cases {
		assert.Equal(t, want, Language(path), path)
	}
}
