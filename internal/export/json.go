package export

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/0xd219b/cr-helper/internal/core/comment"
	"github.com/0xd219b/cr-helper/internal/core/session"
)

// exportVersion is the version tag embedded in exported payloads.
const exportVersion = "1.0"

// LineNumber marshals as a bare int for single lines and as a two-element
// [start, end] array for ranges.
type LineNumber struct {
	Start int
	End   int // zero when single-line
}

// IsRange reports whether the reference spans more than one line.
func (n LineNumber) IsRange() bool { return n.End != 0 && n.End != n.Start }

func (n LineNumber) MarshalJSON() ([]byte, error) {
	if n.IsRange() {
		return json.Marshal([2]int{n.Start, n.End})
	}
	return json.Marshal(n.Start)
}

func (n *LineNumber) UnmarshalJSON(data []byte) error {
	var single int
	if err := json.Unmarshal(data, &single); err == nil {
		*n = LineNumber{Start: single}
		return nil
	}
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("line number must be an int or [start, end]: %w", err)
	}
	*n = LineNumber{Start: pair[0], End: pair[1]}
	return nil
}

// ExportData is the machine-readable review payload. Field names are kept
// short since these files get attached to PRs and pasted into tooling.
type ExportData struct {
	Version   string         `json:"v"`
	SessionID string         `json:"sid"`
	Timestamp int64          `json:"ts"`
	Repo      string         `json:"repo,omitempty"`
	Stats     ExportStats    `json:"stats"`
	Reviews   []ExportReview `json:"reviews"`
}

type ExportStats struct {
	Files    int               `json:"f"`
	Comments int               `json:"c"`
	Severity ExportSeverityTally `json:"sev"`
}

type ExportSeverityTally struct {
	Critical int `json:"c"`
	Warning  int `json:"w"`
	Info     int `json:"i"`
}

type ExportReview struct {
	ID       string         `json:"id"`
	File     string         `json:"file"`
	Location ExportLocation `json:"loc"`
	Severity string         `json:"sev"`
	Message  string         `json:"msg"`
	Tags     []string       `json:"tags,omitempty"`
	Context  string         `json:"ctx,omitempty"`
	State    string         `json:"state"`
	Time     int64          `json:"ts"`
}

type ExportLocation struct {
	Line LineNumber `json:"ln"`
	Side string     `json:"side"`
}

// JSONExporter writes the compact review payload, optionally indented.
type JSONExporter struct {
	pretty  bool
	context *ContextExtractor
}

// NewJSONExporter builds a JSON exporter. Pretty output indents with two
// spaces; compact output is single-line.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{
		pretty:  pretty,
		context: NewContextExtractor(2),
	}
}

func (e *JSONExporter) FormatName() string {
	if e.pretty {
		return "json"
	}
	return "json-compact"
}

func (e *JSONExporter) FileExtension() string { return "json" }

func (e *JSONExporter) Export(s *session.Session) (string, error) {
	data := BuildExportData(s, e.context)

	var out []byte
	var err error
	if e.pretty {
		out, err = json.MarshalIndent(data, "", "  ")
	} else {
		out, err = json.Marshal(data)
	}
	if err != nil {
		return "", fmt.Errorf("encode export payload: %w", err)
	}
	return string(out), nil
}

// BuildExportData assembles the export payload from a session. Comments
// are ordered by creation time so repeated exports are byte-stable.
func BuildExportData(s *session.Session, extractor *ContextExtractor) *ExportData {
	tally := s.Comments.CountBySeverity()
	data := &ExportData{
		Version:   exportVersion,
		SessionID: string(s.ID),
		Timestamp: s.CreatedAt.Unix(),
		Repo:      s.Metadata.Repository,
		Stats: ExportStats{
			Files:    s.FileCount(),
			Comments: s.CommentCount(),
			Severity: ExportSeverityTally{
				Critical: tally[comment.SeverityCritical],
				Warning:  tally[comment.SeverityWarning],
				Info:     tally[comment.SeverityInfo],
			},
		},
		Reviews: []ExportReview{},
	}

	for _, c := range s.Comments.AllSorted() {
		review := ExportReview{
			ID:       string(c.ID),
			File:     reviewFilePath(c),
			Location: reviewLocation(c),
			Severity: c.Severity.Short(),
			Message:  c.Content,
			Tags:     c.Tags,
			State:    string(c.State),
			Time:     c.CreatedAt.Unix(),
		}
		if extractor != nil && s.DiffData != nil {
			if ctx := extractor.Extract(c, s.DiffData); ctx != nil {
				review.Context = contextString(ctx)
			}
		}
		data.Reviews = append(data.Reviews, review)
	}
	return data
}

// reviewFilePath prefers the recorded display path, falling back to the
// file id for comments created before paths were captured.
func reviewFilePath(c *comment.Comment) string {
	if c.Metadata.FilePath != "" {
		return c.Metadata.FilePath
	}
	return string(c.LineRef.FileID)
}

func reviewLocation(c *comment.Comment) ExportLocation {
	// Only the anchor line number is recorded per comment, so ranges still
	// export a single number. LineNumber keeps the [start, end] form for
	// consumers that produce it.
	return ExportLocation{
		Line: LineNumber{Start: c.Metadata.LineNumber},
		Side: string(c.LineRef.Side),
	}
}

func contextString(ctx *CodeContext) string {
	lines := make([]string, 0, len(ctx.Lines))
	for _, l := range ctx.Lines {
		lines = append(lines, fmt.Sprintf("%s %s%s", formatLineNum(l.LineNum), l.Prefix, l.Content))
	}
	return strings.Join(lines, "\n")
}
