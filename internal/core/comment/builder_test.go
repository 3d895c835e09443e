package comment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xd219b/cr-helper/internal/core/types"
)

func Test_Builder_Defaults(t *testing.T) {
	c, err := NewBuilder("f_a", "l_1", SideNew).
		Content("looks fine").
		Build()
	require.NoError(t, err)

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, SeverityInfo, c.Severity)
	assert.Equal(t, StateOpen, c.State)
	assert.Equal(t, c.CreatedAt, c.UpdatedAt)
	assert.False(t, c.LineRef.IsRange())
}

func Test_Builder_AllFields(t *testing.T) {
	c, err := NewBuilder("f_a", "l_1", SideOld).
		Content("unchecked error").
		Severity(SeverityCritical).
		Tag("error-handling").
		Tags("bug", "urgent").
		State(StateAcknowledged).
		Author("reviewer").
		Source("manual").
		LineNumber(42).
		FilePath("src/main.go").
		SuggestedFix("check the returned error").
		Build()
	require.NoError(t, err)

	assert.Equal(t, SeverityCritical, c.Severity)
	assert.Equal(t, []string{"error-handling", "bug", "urgent"}, c.Tags)
	assert.Equal(t, StateAcknowledged, c.State)
	assert.Equal(t, "reviewer", c.Metadata.Author)
	assert.Equal(t, 42, c.Metadata.LineNumber)
	assert.Equal(t, "src/main.go", c.Metadata.FilePath)

	assert.Equal(t, "check the returned error", c.Extensions.SuggestedFix())
}

func Test_Builder_Range(t *testing.T) {
	c, err := NewRangeBuilder("f_a", "l_1", "l_5", SideNew).
		Content("extract this block").
		Build()
	require.NoError(t, err)
	assert.True(t, c.LineRef.IsRange())
	assert.Equal(t, types.LineID("l_5"), c.LineRef.EndLineID)
}

func Test_Builder_RequiresContent(t *testing.T) {
	var verr *types.ValidationError

	_, err := NewBuilder("f_a", "l_1", SideNew).Build()
	require.ErrorAs(t, err, &verr)

	_, err = NewBuilder("f_a", "l_1", SideNew).Content("   \n\t").Build()
	require.ErrorAs(t, err, &verr)
}

func Test_Builder_UniqueIDs(t *testing.T) {
	a, err := NewBuilder("f_a", "l_1", SideNew).Content("x").Build()
	require.NoError(t, err)
	b, err := NewBuilder("f_a", "l_1", SideNew).Content("x").Build()
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}
