package export

import (
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/0xd219b/cr-helper/internal/core/comment"
	"github.com/0xd219b/cr-helper/internal/core/diff"
	"github.com/0xd219b/cr-helper/internal/core/session"
)

const reportDiff = `diff --git a/src/main.go b/src/main.go
index 1234567..89abcde 100644
--- a/src/main.go
+++ b/src/main.go
@@ -1,3 +1,4 @@
 package main
-func old() {}
+func renamed() {}
+func extra() {}
 func keep() {}
`

// reportSession builds a session over reportDiff with one comment per
// severity, created in a fixed order.
func reportSession(t *testing.T) *session.Session {
	t.Helper()

	data, err := diff.NewParser(zerolog.Nop()).Parse(reportDiff)
	require.NoError(t, err)
	require.Len(t, data.Files, 1)

	s := session.New(diff.Source{Type: diff.SourceWorkingTree}, data)
	s.Metadata.Repository = "/repos/demo"
	s.Metadata.Name = "pre-merge pass"

	file := data.Files[0]
	lines := file.Hunks[0].Lines

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	s.CreatedAt = base
	specs := []struct {
		line     diff.Line
		severity comment.Severity
		content  string
		tags     []string
		fix      string
	}{
		{lines[2], comment.SeverityCritical, "renamed without updating callers", []string{"bug"}, "grep for old() before merging"},
		{lines[3], comment.SeverityWarning, "extra() has no tests", nil, ""},
		{lines[0], comment.SeverityInfo, "package comment missing", []string{"style", "docs"}, ""},
	}
	for i, spec := range specs {
		b := comment.NewBuilder(file.ID, spec.line.ID, comment.SideNew).
			Content(spec.content).
			Severity(spec.severity).
			FilePath(file.DisplayPath()).
			LineNumber(spec.line.DisplayLineNum())
		if len(spec.tags) > 0 {
			b.Tags(spec.tags...)
		}
		if spec.fix != "" {
			b.SuggestedFix(spec.fix)
		}
		c, err := b.Build()
		require.NoError(t, err)
		c.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		_, err = s.Comments.Add(c)
		require.NoError(t, err)
	}
	return s
}

func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	return string(b), err
}

func TestManagerRegistersBuiltinFormats(t *testing.T) {
	m := NewManager()
	require.Equal(t, []string{"json", "json-compact", "markdown", "markdown-enhanced"}, m.AvailableFormats())
	require.True(t, m.HasFormat("markdown"))
	require.False(t, m.HasFormat("pdf"))
	require.NotNil(t, m.Get("json"))
	require.Nil(t, m.Get("pdf"))
	require.Equal(t, "json, json-compact, markdown, markdown-enhanced", m.FormatsHelp())
}

func TestManagerRejectsUnknownFormat(t *testing.T) {
	m := NewManager()
	_, err := m.Export(reportSession(t), "pdf")
	require.ErrorContains(t, err, "unknown export format")

	err = m.ExportToFile(reportSession(t), "pdf", t.TempDir()+"/out")
	require.ErrorContains(t, err, "unknown export format")
}

func TestManagerExportToFile(t *testing.T) {
	m := NewManager()
	dir := t.TempDir()
	s := reportSession(t)

	// No extension: the format's default is appended.
	err := m.ExportToFile(s, "markdown", dir+"/nested/report")
	require.NoError(t, err)
	content, err := readFile(dir + "/nested/report.md")
	require.NoError(t, err)
	require.Contains(t, content, "# Code Review Report")

	// Explicit extension is kept as-is.
	err = m.ExportToFile(s, "json", dir+"/review.json")
	require.NoError(t, err)
	content, err = readFile(dir + "/review.json")
	require.NoError(t, err)
	require.Contains(t, content, `"sid"`)
}

func TestManagerRegisterReplaces(t *testing.T) {
	m := NewManager()
	m.Register(NewMarkdownExporter().WithStats(false))

	out, err := m.Export(reportSession(t), "markdown")
	require.NoError(t, err)
	require.NotContains(t, out, "## Summary")
}
