package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/0xd219b/cr-helper/internal/core/diff"
	"github.com/0xd219b/cr-helper/pkg/executil"
)

// Executor implements Git using the git command-line tool.
type Executor struct {
	gitPath string
	exec    executil.Executor
}

// NewExecutor creates a new git executor with the specified git binary path.
func NewExecutor(gitPath string, exec executil.Executor) *Executor {
	return &Executor{gitPath: gitPath, exec: exec}
}

// wrapErr turns an executor failure into a *GitError when the command
// exited non-zero, preserving the captured stderr. Other failures, such
// as a missing git binary, stay plain wrapped errors.
func wrapErr(args []string, err error) error {
	var cmdErr *executil.CommandError
	if errors.As(err, &cmdErr) {
		return &GitError{Args: args, Stderr: cmdErr.Stderr, Err: err}
	}
	return fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
}

func (e *Executor) Diff(ctx context.Context, dir string, src diff.Source) (string, error) {
	args := src.GitArgs()
	if args == nil {
		return "", fmt.Errorf("source %q has no git invocation", src.Type)
	}

	out, err := e.exec.RunDir(ctx, dir, e.gitPath, args...)
	if err != nil {
		return "", wrapErr(args, err)
	}
	return string(out), nil
}

func (e *Executor) UntrackedFiles(ctx context.Context, dir string) ([]string, error) {
	args := []string{"ls-files", "--others", "--exclude-standard"}
	out, err := e.exec.RunDir(ctx, dir, e.gitPath, args...)
	if err != nil {
		return nil, wrapErr(args, err)
	}

	var files []string
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

func (e *Executor) IsRepo(ctx context.Context, dir string) bool {
	out, err := e.exec.RunDir(ctx, dir, e.gitPath, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(string(out)) == "true"
}

func (e *Executor) RepoRoot(ctx context.Context, dir string) (string, error) {
	out, err := e.exec.RunDir(ctx, dir, e.gitPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", wrapErr([]string{"rev-parse", "--show-toplevel"}, err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (e *Executor) Branch(ctx context.Context, dir string) (string, error) {
	out, err := e.exec.RunDir(ctx, dir, e.gitPath, "branch", "--show-current")
	if err != nil {
		return "", wrapErr([]string{"branch", "--show-current"}, err)
	}

	branch := strings.TrimSpace(string(out))
	if branch != "" {
		return branch, nil
	}

	// Empty branch name means detached HEAD - get short commit SHA
	out, err = e.exec.RunDir(ctx, dir, e.gitPath, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", wrapErr([]string{"rev-parse", "--short", "HEAD"}, err)
	}

	return strings.TrimSpace(string(out)), nil
}

func (e *Executor) Version(ctx context.Context) (string, error) {
	out, err := e.exec.Run(ctx, e.gitPath, "--version")
	if err != nil {
		return "", wrapErr([]string{"--version"}, err)
	}
	return strings.TrimSpace(string(out)), nil
}
