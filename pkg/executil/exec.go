// Package executil provides subprocess execution utilities.
package executil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

const maxStderrLen = 500

// CommandError reports a command that started but exited non-zero. Stderr
// holds the captured standard-error output, capped at maxStderrLen bytes.
// Errors from failed lookups (binary not on PATH) are not CommandErrors.
type CommandError struct {
	Cmd    string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %v", e.Stderr, e.Err)
	}
	return fmt.Sprintf("exec %s: %v", e.Cmd, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// limitedWriter caps writes to a bytes.Buffer at a maximum byte count.
// Bytes beyond the limit are silently discarded.
type limitedWriter struct {
	buf *bytes.Buffer
	n   int64
	max int64
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if w.n >= w.max {
		return len(p), nil
	}
	remaining := w.max - w.n
	origLen := len(p)
	if int64(origLen) > remaining {
		p = p[:remaining]
	}
	n, err := w.buf.Write(p)
	w.n += int64(n)
	if err != nil {
		return n, err
	}
	return origLen, nil
}

// Executor runs external commands.
type Executor interface {
	// Run executes a command and returns its stdout. On a non-zero exit the
	// returned error is a *CommandError carrying the captured stderr, capped
	// at 500 bytes, and wrapping the original *exec.ExitError so callers can
	// inspect exit codes with errors.As. A command missing from PATH surfaces
	// as the wrapped exec.ErrNotFound lookup error instead.
	Run(ctx context.Context, cmd string, args ...string) ([]byte, error)
	// RunDir executes a command in a specific directory.
	RunDir(ctx context.Context, dir, cmd string, args ...string) ([]byte, error)
	// RunInput executes a command with the given stdin content.
	RunInput(ctx context.Context, input []byte, cmd string, args ...string) ([]byte, error)
}

// RealExecutor calls actual external commands.
type RealExecutor struct{}

func (e *RealExecutor) Run(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	return e.run(ctx, "", nil, cmd, args...)
}

func (e *RealExecutor) RunDir(ctx context.Context, dir, cmd string, args ...string) ([]byte, error) {
	return e.run(ctx, dir, nil, cmd, args...)
}

func (e *RealExecutor) RunInput(ctx context.Context, input []byte, cmd string, args ...string) ([]byte, error) {
	return e.run(ctx, "", input, cmd, args...)
}

func (e *RealExecutor) run(ctx context.Context, dir string, input []byte, cmd string, args ...string) ([]byte, error) {
	c := exec.CommandContext(ctx, cmd, args...)
	if dir != "" {
		c.Dir = dir
	}
	if input != nil {
		c.Stdin = bytes.NewReader(input)
	}

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &limitedWriter{buf: &stderr, max: maxStderrLen}

	if err := c.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout.Bytes(), &CommandError{
				Cmd:    cmd,
				Stderr: strings.TrimSpace(stderr.String()),
				Err:    err,
			}
		}
		return stdout.Bytes(), fmt.Errorf("exec %s: %w", cmd, err)
	}

	return stdout.Bytes(), nil
}
