package comment

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xd219b/cr-helper/internal/core/diff"
	"github.com/0xd219b/cr-helper/internal/core/types"
)

func validatorDiff(t *testing.T) *diff.DiffData {
	t.Helper()

	input := `diff --git a/main.go b/main.go
@@ -1,2 +1,2 @@
 package main
-var x = 1
+var x = 2
`
	data, err := diff.NewParser(zerolog.Nop()).Parse(input)
	require.NoError(t, err)
	return data
}

func Test_Validator_Content(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateContent("looks good"))
	assert.NoError(t, v.ValidateContent("  padded  "))
	assert.Error(t, v.ValidateContent(""))
	assert.Error(t, v.ValidateContent("   \t\n"))
}

func Test_Validator_ContentLength(t *testing.T) {
	v := WithMaxLength(10)

	assert.NoError(t, v.ValidateContent("short"))
	assert.Error(t, v.ValidateContent("this is far too long"))

	// Bounds apply to the trimmed content.
	assert.NoError(t, v.ValidateContent("   short      "))

	long := strings.Repeat("x", MaxContentLength+1)
	assert.Error(t, NewValidator().ValidateContent(long))
}

func Test_Validator_ContentMinLength(t *testing.T) {
	v := WithLengthBounds(5, 10)

	assert.NoError(t, v.ValidateContent("fiver"))
	assert.Error(t, v.ValidateContent("tiny"))

	// The minimum applies after trimming.
	assert.Error(t, v.ValidateContent("  tiny    "))

	// Default bounds accept a single character.
	assert.NoError(t, NewValidator().ValidateContent("x"))
	assert.NoError(t, WithMaxLength(10).ValidateContent("x"))
}

func Test_Validator_LineRef(t *testing.T) {
	d := validatorDiff(t)
	file := d.Files[0]
	line := file.Hunks[0].Lines[0]
	v := NewValidator()

	ok := SingleLine(file.ID, line.ID, SideNew)
	assert.NoError(t, v.ValidateLineRef(ok, d))

	badFile := SingleLine("f_missing", line.ID, SideNew)
	assert.Error(t, v.ValidateLineRef(badFile, d))

	badLine := SingleLine(file.ID, "l_missing", SideNew)
	assert.Error(t, v.ValidateLineRef(badLine, d))
}

func Test_Validator_RangeRef(t *testing.T) {
	d := validatorDiff(t)
	file := d.Files[0]
	lines := file.Hunks[0].Lines
	v := NewValidator()

	ok := LineRange(file.ID, lines[0].ID, lines[2].ID, SideNew)
	assert.NoError(t, v.ValidateLineRef(ok, d))

	badEnd := LineRange(file.ID, lines[0].ID, "l_missing", SideNew)
	assert.Error(t, v.ValidateLineRef(badEnd, d))
}

func Test_Validator_Validate(t *testing.T) {
	d := validatorDiff(t)
	file := d.Files[0]
	line := file.Hunks[0].Lines[0]
	v := NewValidator()

	c, err := NewBuilder(file.ID, line.ID, SideNew).
		Content("verified against the diff").
		Tag("style").
		Build()
	require.NoError(t, err)
	assert.NoError(t, v.Validate(c, d))

	// A nil diff skips the anchoring check.
	orphan, err := NewBuilder("f_missing", "l_missing", SideNew).Content("unanchored").Build()
	require.NoError(t, err)
	assert.NoError(t, v.Validate(orphan, nil))
	assert.Error(t, v.Validate(orphan, d))

	var verr *types.ValidationError
	c.Tags = append(c.Tags, "   ")
	require.ErrorAs(t, v.Validate(c, d), &verr)
}
