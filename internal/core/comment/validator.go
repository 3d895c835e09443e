package comment

import (
	"fmt"
	"strings"

	"github.com/0xd219b/cr-helper/internal/core/diff"
	"github.com/0xd219b/cr-helper/internal/core/types"
)

// MaxContentLength caps comment content after trimming.
const MaxContentLength = 10000

// MinContentLength is the smallest trimmed content length accepted.
const MinContentLength = 1

// Validator checks comments for well-formedness and, when a diff is
// supplied, for anchoring to lines that actually exist.
type Validator struct {
	minLength int
	maxLength int
}

func NewValidator() *Validator {
	return &Validator{minLength: MinContentLength, maxLength: MaxContentLength}
}

// WithMaxLength returns a validator with a custom content cap.
func WithMaxLength(max int) *Validator {
	return &Validator{minLength: MinContentLength, maxLength: max}
}

// WithLengthBounds returns a validator with custom content bounds.
func WithLengthBounds(min, max int) *Validator {
	return &Validator{minLength: min, maxLength: max}
}

// ValidateContent checks trimmed content against the length bounds.
func (v *Validator) ValidateContent(content string) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return &types.ValidationError{Msg: "comment content cannot be empty"}
	}
	if len(trimmed) < v.minLength {
		return &types.ValidationError{
			Msg: fmt.Sprintf("comment content must be at least %d characters", v.minLength),
		}
	}
	if len(trimmed) > v.maxLength {
		return &types.ValidationError{
			Msg: fmt.Sprintf("comment content exceeds maximum length of %d characters", v.maxLength),
		}
	}
	return nil
}

// ValidateLineRef checks that the reference points at a file and lines
// present in the diff.
func (v *Validator) ValidateLineRef(ref LineReference, d *diff.DiffData) error {
	file := d.File(ref.FileID)
	if file == nil {
		return &types.ValidationError{Msg: fmt.Sprintf("file %s not found in diff", ref.FileID)}
	}

	for _, lineID := range ref.LineIDs() {
		if !fileHasLine(file, lineID) {
			return &types.ValidationError{
				Msg: fmt.Sprintf("line %s not found in file %s", lineID, ref.FileID),
			}
		}
	}
	return nil
}

// Validate checks a complete comment. The diff is optional; without it
// only content and tags are checked.
func (v *Validator) Validate(c *Comment, d *diff.DiffData) error {
	if err := v.ValidateContent(c.Content); err != nil {
		return err
	}
	if d != nil {
		if err := v.ValidateLineRef(c.LineRef, d); err != nil {
			return err
		}
	}
	for _, tag := range c.Tags {
		if strings.TrimSpace(tag) == "" {
			return &types.ValidationError{Msg: "tags cannot be empty"}
		}
	}
	return nil
}

func fileHasLine(file *diff.FileDiff, lineID types.LineID) bool {
	for _, h := range file.Hunks {
		for _, l := range h.Lines {
			if l.ID == lineID {
				return true
			}
		}
	}
	return false
}
