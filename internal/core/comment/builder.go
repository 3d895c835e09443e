package comment

import (
	"strings"
	"time"

	"github.com/0xd219b/cr-helper/internal/core/types"
)

// Builder assembles a comment field by field. Build assigns the id and
// timestamps, so a builder can be reused only for throwaway values.
type Builder struct {
	lineRef    LineReference
	content    string
	severity   Severity
	tags       []string
	state      State
	metadata   Metadata
	extensions types.Extensions
}

// NewBuilder starts a comment on a single line.
func NewBuilder(fileID types.FileID, lineID types.LineID, side DiffSide) *Builder {
	return fromRef(SingleLine(fileID, lineID, side))
}

// NewRangeBuilder starts a comment spanning a line range.
func NewRangeBuilder(fileID types.FileID, start, end types.LineID, side DiffSide) *Builder {
	return fromRef(LineRange(fileID, start, end, side))
}

// FromLineRef starts a comment from an existing reference.
func FromLineRef(ref LineReference) *Builder {
	return fromRef(ref)
}

func fromRef(ref LineReference) *Builder {
	return &Builder{
		lineRef:  ref,
		severity: SeverityInfo,
		state:    StateOpen,
	}
}

func (b *Builder) Content(content string) *Builder {
	b.content = content
	return b
}

func (b *Builder) Severity(severity Severity) *Builder {
	b.severity = severity
	return b
}

func (b *Builder) Tag(tag string) *Builder {
	b.tags = append(b.tags, tag)
	return b
}

func (b *Builder) Tags(tags ...string) *Builder {
	b.tags = append(b.tags, tags...)
	return b
}

func (b *Builder) State(state State) *Builder {
	b.state = state
	return b
}

func (b *Builder) Author(author string) *Builder {
	b.metadata.Author = author
	return b
}

func (b *Builder) Source(source string) *Builder {
	b.metadata.Source = source
	return b
}

func (b *Builder) LineNumber(n int) *Builder {
	b.metadata.LineNumber = n
	return b
}

func (b *Builder) FilePath(path string) *Builder {
	b.metadata.FilePath = path
	return b
}

func (b *Builder) SuggestedFix(fix string) *Builder {
	if b.extensions == nil {
		b.extensions = types.NewExtensions()
	}
	b.extensions.SetSuggestedFix(fix)
	return b
}

func (b *Builder) RelatedReviews(reviews []string) *Builder {
	if b.extensions == nil {
		b.extensions = types.NewExtensions()
	}
	b.extensions.SetRelatedReviews(reviews)
	return b
}

// Build validates the accumulated fields and produces the comment.
func (b *Builder) Build() (*Comment, error) {
	if strings.TrimSpace(b.content) == "" {
		return nil, &types.ValidationError{Msg: "comment content is required"}
	}

	now := time.Now().UTC()
	return &Comment{
		ID:         types.NewCommentID(),
		LineRef:    b.lineRef,
		Content:    b.content,
		Severity:   b.severity,
		Tags:       b.tags,
		CreatedAt:  now,
		UpdatedAt:  now,
		State:      b.state,
		Metadata:   b.metadata,
		Extensions: b.extensions,
	}, nil
}
