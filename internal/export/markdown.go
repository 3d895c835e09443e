package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/0xd219b/cr-helper/internal/core/comment"
	"github.com/0xd219b/cr-helper/internal/core/session"
)

// MarkdownExporter renders a human-readable review report.
type MarkdownExporter struct {
	includeDiff        bool
	includeStats       bool
	includeSuggestions bool
	context            *ContextExtractor
}

// NewMarkdownExporter builds a markdown exporter with diff snippets,
// statistics, and suggested fixes all enabled.
func NewMarkdownExporter() *MarkdownExporter {
	return &MarkdownExporter{
		includeDiff:        true,
		includeStats:       true,
		includeSuggestions: true,
		context:            NewContextExtractor(2),
	}
}

// WithDiff toggles code context blocks.
func (e *MarkdownExporter) WithDiff(include bool) *MarkdownExporter {
	e.includeDiff = include
	return e
}

// WithStats toggles the summary section.
func (e *MarkdownExporter) WithStats(include bool) *MarkdownExporter {
	e.includeStats = include
	return e
}

// WithSuggestions toggles suggested-fix sections.
func (e *MarkdownExporter) WithSuggestions(include bool) *MarkdownExporter {
	e.includeSuggestions = include
	return e
}

func (e *MarkdownExporter) FormatName() string    { return "markdown" }
func (e *MarkdownExporter) FileExtension() string { return "md" }

func (e *MarkdownExporter) Export(s *session.Session) (string, error) {
	var b strings.Builder
	e.renderHeader(&b, s)
	e.renderStats(&b, s)
	e.renderComments(&b, s)
	return b.String(), nil
}

func (e *MarkdownExporter) renderHeader(b *strings.Builder, s *session.Session) {
	b.WriteString("# Code Review Report\n\n")
	fmt.Fprintf(b, "**Session:** `%s`\n", s.ID)
	fmt.Fprintf(b, "**Date:** %s\n", s.CreatedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(b, "**Source:** %s\n", s.DiffSource.Description())
	if s.Metadata.Repository != "" {
		fmt.Fprintf(b, "**Repository:** `%s`\n", s.Metadata.Repository)
	}
	if s.Metadata.Name != "" {
		fmt.Fprintf(b, "**Name:** %s\n", s.Metadata.Name)
	}
	b.WriteString("\n")
}

func (e *MarkdownExporter) renderStats(b *strings.Builder, s *session.Session) {
	if !e.includeStats {
		return
	}
	counts := s.Comments.CountBySeverity()
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(b, "- **Total Comments:** %d\n", s.CommentCount())
	fmt.Fprintf(b, "- **Files Reviewed:** %d\n", s.FileCount())
	fmt.Fprintf(b, "- %d Critical Issues\n", counts[comment.SeverityCritical])
	fmt.Fprintf(b, "- %d Warnings\n", counts[comment.SeverityWarning])
	fmt.Fprintf(b, "- %d Info\n", counts[comment.SeverityInfo])
	b.WriteString("\n")
}

func (e *MarkdownExporter) renderComments(b *strings.Builder, s *session.Session) {
	for _, group := range severityGroups(s) {
		if len(group.comments) == 0 {
			continue
		}
		fmt.Fprintf(b, "## %s\n\n", group.title)
		for _, c := range group.comments {
			e.renderComment(b, c, s)
		}
	}
}

func (e *MarkdownExporter) renderComment(b *strings.Builder, c *comment.Comment, s *session.Session) {
	path := reviewFilePath(c)
	fmt.Fprintf(b, "### `%s%s`%s\n\n", path, lineSuffix(c), tagSuffix(c))

	b.WriteString(c.Content)
	b.WriteString("\n\n")

	if e.includeDiff && s.DiffData != nil {
		if ctx := e.context.Extract(c, s.DiffData); ctx != nil {
			b.WriteString(FormatCodeBlock(ctx, path))
			b.WriteString("\n\n")
		}
	}

	if e.includeSuggestions {
		if fix := c.Extensions.SuggestedFix(); fix != "" {
			b.WriteString("**Suggested Fix:**\n\n")
			b.WriteString(fix)
			b.WriteString("\n\n")
		}
	}

	b.WriteString("---\n\n")
}

// MarkdownEnhancedExporter adds YAML frontmatter, severity badges, and
// per-comment anchors on top of the base markdown report.
type MarkdownEnhancedExporter struct {
	base *MarkdownExporter
}

func NewMarkdownEnhancedExporter() *MarkdownEnhancedExporter {
	return &MarkdownEnhancedExporter{base: NewMarkdownExporter()}
}

func (e *MarkdownEnhancedExporter) FormatName() string    { return "markdown-enhanced" }
func (e *MarkdownEnhancedExporter) FileExtension() string { return "md" }

func (e *MarkdownEnhancedExporter) Export(s *session.Session) (string, error) {
	var b strings.Builder
	e.renderFrontmatter(&b, s)
	e.base.renderHeader(&b, s)
	e.base.renderStats(&b, s)
	e.renderComments(&b, s)
	return b.String(), nil
}

func (e *MarkdownEnhancedExporter) renderFrontmatter(b *strings.Builder, s *session.Session) {
	counts := s.Comments.CountBySeverity()
	b.WriteString("---\n")
	fmt.Fprintf(b, "cr-helper-version: %q\n", exportVersion)
	fmt.Fprintf(b, "session-id: %q\n", string(s.ID))
	fmt.Fprintf(b, "timestamp: %q\n", s.CreatedAt.Format(time.RFC3339))
	b.WriteString("stats:\n")
	fmt.Fprintf(b, "  files: %d\n", s.FileCount())
	fmt.Fprintf(b, "  comments: %d\n", s.CommentCount())
	fmt.Fprintf(b, "  critical: %d\n", counts[comment.SeverityCritical])
	fmt.Fprintf(b, "  warnings: %d\n", counts[comment.SeverityWarning])
	fmt.Fprintf(b, "  info: %d\n", counts[comment.SeverityInfo])
	b.WriteString("---\n\n")
}

func (e *MarkdownEnhancedExporter) renderComments(b *strings.Builder, s *session.Session) {
	for _, group := range severityGroups(s) {
		if len(group.comments) == 0 {
			continue
		}
		fmt.Fprintf(b, "## %s\n\n", group.title)
		for _, c := range group.comments {
			e.renderComment(b, c, s)
		}
	}
}

func (e *MarkdownEnhancedExporter) renderComment(b *strings.Builder, c *comment.Comment, s *session.Session) {
	path := reviewFilePath(c)
	fmt.Fprintf(b, "### `%s%s`  {#%s}\n\n", path, lineSuffix(c), shortID(string(c.ID)))

	switch c.Severity {
	case comment.SeverityCritical:
		b.WriteString("> **CRITICAL**\n")
	case comment.SeverityWarning:
		b.WriteString("> **WARNING**\n")
	default:
		b.WriteString("> **INFO**\n")
	}
	if len(c.Tags) > 0 {
		fmt.Fprintf(b, "> Tags: %s\n", strings.Join(c.Tags, ", "))
	}
	b.WriteString("\n")

	b.WriteString(c.Content)
	b.WriteString("\n\n")

	if s.DiffData != nil {
		if ctx := e.base.context.Extract(c, s.DiffData); ctx != nil {
			b.WriteString("#### Code Context\n\n")
			b.WriteString(FormatCodeBlock(ctx, path))
			b.WriteString("\n\n")
		}
	}

	if fix := c.Extensions.SuggestedFix(); fix != "" {
		b.WriteString("#### Suggested Approach\n\n")
		b.WriteString(fix)
		b.WriteString("\n\n")
	}

	b.WriteString("---\n\n")
}

type commentGroup struct {
	title    string
	comments []*comment.Comment
}

// severityGroups buckets comments by severity in report order, keeping
// creation order within each bucket.
func severityGroups(s *session.Session) []commentGroup {
	groups := []commentGroup{
		{title: "Critical Issues"},
		{title: "Warnings"},
		{title: "Info"},
	}
	for _, c := range s.Comments.AllSorted() {
		switch c.Severity {
		case comment.SeverityCritical:
			groups[0].comments = append(groups[0].comments, c)
		case comment.SeverityWarning:
			groups[1].comments = append(groups[1].comments, c)
		default:
			groups[2].comments = append(groups[2].comments, c)
		}
	}
	return groups
}

func lineSuffix(c *comment.Comment) string {
	if c.Metadata.LineNumber == 0 {
		return ""
	}
	return fmt.Sprintf(":%d", c.Metadata.LineNumber)
}

func tagSuffix(c *comment.Comment) string {
	if len(c.Tags) == 0 {
		return ""
	}
	return fmt.Sprintf(" [%s]", strings.Join(c.Tags, ", "))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
