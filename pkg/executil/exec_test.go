package executil

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_StderrCappedAtMaxLen(t *testing.T) {
	ctx := context.Background()

	// Write twice the cap to stderr; only the first maxStderrLen bytes
	// should appear in the error.
	longStderr := strings.Repeat("A", maxStderrLen*2)
	e := &RealExecutor{}

	_, err := e.Run(ctx, "sh", "-c", "printf '%s' '"+longStderr+"' >&2; exit 1")
	require.Error(t, err)

	errMsg := err.Error()
	assert.LessOrEqual(t, len(errMsg), maxStderrLen+20, "error message should be capped")
	assert.Equal(t, strings.Repeat("A", maxStderrLen), errMsg[:maxStderrLen])
}

func TestRun_PreservesExitError(t *testing.T) {
	e := &RealExecutor{}

	_, err := e.Run(context.Background(), "sh", "-c", "echo 'error message' >&2; exit 3")
	require.Error(t, err)

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr, "original ExitError should be preserved via wrapping")
	assert.Equal(t, 3, exitErr.ExitCode())
}

func TestRun_ExitFailureReturnsCommandError(t *testing.T) {
	e := &RealExecutor{}

	_, err := e.Run(context.Background(), "sh", "-c", "echo boom >&2; exit 1")
	require.Error(t, err)

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "sh", cmdErr.Cmd)
	assert.Equal(t, "boom", cmdErr.Stderr)
}

func TestRun_ReturnsStdout(t *testing.T) {
	e := &RealExecutor{}

	out, err := e.Run(context.Background(), "sh", "-c", "printf hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(out))
}

func TestRun_CommandNotFound(t *testing.T) {
	e := &RealExecutor{}

	_, err := e.Run(context.Background(), "definitely-not-a-real-binary-xyz")
	require.Error(t, err)
	assert.ErrorIs(t, err, exec.ErrNotFound)
}

func TestRunInput_PipesStdin(t *testing.T) {
	e := &RealExecutor{}

	out, err := e.RunInput(context.Background(), []byte("piped"), "cat")
	require.NoError(t, err)
	assert.Equal(t, "piped", string(out))
}

func TestRecordingExecutor(t *testing.T) {
	rec := &RecordingExecutor{
		Outputs: map[string][]byte{"git": []byte("out")},
	}

	out, err := rec.RunDir(context.Background(), "/repo", "git", "diff")
	require.NoError(t, err)
	assert.Equal(t, "out", string(out))

	require.Len(t, rec.Commands, 1)
	assert.Equal(t, "/repo", rec.Commands[0].Dir)
	assert.Equal(t, []string{"diff"}, rec.Commands[0].Args)

	rec.Reset()
	assert.Empty(t, rec.Commands)
}
