// Package git provides an abstraction for the git operations a review
// needs: producing diffs, listing untracked files, and locating the
// repository root.
package git

import (
	"context"

	"github.com/0xd219b/cr-helper/internal/core/diff"
)

// Git defines the git operations backing a review session.
type Git interface {
	// Diff returns raw unified diff text for the given source.
	Diff(ctx context.Context, dir string, src diff.Source) (string, error)
	// UntrackedFiles lists paths git does not track, honoring ignore rules.
	UntrackedFiles(ctx context.Context, dir string) ([]string, error)
	// IsRepo reports whether dir is inside a git work tree.
	IsRepo(ctx context.Context, dir string) bool
	// RepoRoot returns the top-level directory of the repository.
	RepoRoot(ctx context.Context, dir string) (string, error)
	// Branch returns the current branch name, or short commit SHA if in
	// detached HEAD state.
	Branch(ctx context.Context, dir string) (string, error)
	// Version returns the installed git version string.
	Version(ctx context.Context) (string, error)
}
