package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/0xd219b/cr-helper/internal/core/comment"
	"github.com/0xd219b/cr-helper/internal/core/diff"
	"github.com/0xd219b/cr-helper/internal/core/types"
)

// targetMarker flags the commented line inside a context block.
const targetMarker = " ◀◀◀"

// ContextLine is one line of code context around a comment.
type ContextLine struct {
	// LineNum is the display line number, zero when the line has none.
	LineNum int
	// Prefix is the diff marker: "+", "-", " ", or "\".
	Prefix string
	// Content is the line text without the marker.
	Content string
	// IsTarget marks the line the comment is anchored to.
	IsTarget bool
}

// CodeContext is the snippet of diff surrounding a commented line.
type CodeContext struct {
	Lines         []ContextLine
	TargetLineNum int
	TargetContent string
}

// ContextExtractor pulls code context out of a diff for export. Context
// never crosses hunk boundaries; lines outside the hunk were never part
// of the diff.
type ContextExtractor struct {
	contextLines int
}

// NewContextExtractor extracts n lines before and after the target.
func NewContextExtractor(n int) *ContextExtractor {
	return &ContextExtractor{contextLines: n}
}

// Extract returns the context around a comment's anchor line, or nil when
// the comment's file or line is not in the diff.
func (e *ContextExtractor) Extract(c *comment.Comment, d *diff.DiffData) *CodeContext {
	file := d.File(c.LineRef.FileID)
	if file == nil {
		return nil
	}

	hunk, lineIdx := findLine(file, c.LineRef.LineID)
	if hunk == nil {
		return nil
	}

	start := lineIdx - e.contextLines
	if start < 0 {
		start = 0
	}
	end := lineIdx + e.contextLines + 1
	if end > len(hunk.Lines) {
		end = len(hunk.Lines)
	}

	target := hunk.Lines[lineIdx]
	ctx := &CodeContext{
		TargetLineNum: target.DisplayLineNum(),
		TargetContent: target.Content,
	}
	for i := start; i < end; i++ {
		line := hunk.Lines[i]
		ctx.Lines = append(ctx.Lines, ContextLine{
			LineNum:  line.DisplayLineNum(),
			Prefix:   line.Type.Prefix(),
			Content:  line.Content,
			IsTarget: i == lineIdx,
		})
	}
	return ctx
}

func findLine(file *diff.FileDiff, lineID types.LineID) (*diff.Hunk, int) {
	for _, h := range file.Hunks {
		for i, l := range h.Lines {
			if l.ID == lineID {
				return h, i
			}
		}
	}
	return nil, 0
}

// Language maps a file extension to the fenced-code-block language tag.
func Language(path string) string {
	switch strings.TrimPrefix(filepath.Ext(path), ".") {
	case "go":
		return "go"
	case "rs":
		return "rust"
	case "py":
		return "python"
	case "js":
		return "javascript"
	case "ts":
		return "typescript"
	case "tsx":
		return "tsx"
	case "jsx":
		return "jsx"
	case "java":
		return "java"
	case "c":
		return "c"
	case "cpp", "cc", "cxx", "h", "hpp":
		return "cpp"
	case "rb":
		return "ruby"
	case "php":
		return "php"
	case "swift":
		return "swift"
	case "kt", "kts":
		return "kotlin"
	case "cs":
		return "csharp"
	case "sh", "bash":
		return "bash"
	case "json":
		return "json"
	case "yaml", "yml":
		return "yaml"
	case "toml":
		return "toml"
	case "xml":
		return "xml"
	case "html", "htm":
		return "html"
	case "css":
		return "css"
	case "scss", "sass":
		return "scss"
	case "sql":
		return "sql"
	case "md", "markdown":
		return "markdown"
	default:
		return ""
	}
}

// FormatCodeBlock renders a context as a fenced markdown block with the
// target line called out above it.
func FormatCodeBlock(ctx *CodeContext, filePath string) string {
	var b strings.Builder

	if ctx.TargetLineNum != 0 {
		fmt.Fprintf(&b, "> **Line %d:** `%s`\n\n", ctx.TargetLineNum, strings.TrimSpace(ctx.TargetContent))
	}

	fmt.Fprintf(&b, "```%s\n", Language(filePath))
	for _, line := range ctx.Lines {
		marker := ""
		if line.IsTarget {
			marker = targetMarker
		}
		fmt.Fprintf(&b, "%s %s%s%s\n", formatLineNum(line.LineNum), line.Prefix, line.Content, marker)
	}
	b.WriteString("```")

	return b.String()
}

func formatLineNum(n int) string {
	if n == 0 {
		return "    "
	}
	return fmt.Sprintf("%4d", n)
}
