package doctor

import (
	"context"
)

// RepoInspector answers questions about the repository in a directory.
type RepoInspector interface {
	IsRepo(ctx context.Context, dir string) bool
	RepoRoot(ctx context.Context, dir string) (string, error)
	Branch(ctx context.Context, dir string) (string, error)
}

// RepoCheck verifies the working directory is inside a git repository.
type RepoCheck struct {
	dir string
	git RepoInspector
}

// NewRepoCheck creates a new repository check for the given directory.
func NewRepoCheck(dir string, git RepoInspector) *RepoCheck {
	return &RepoCheck{dir: dir, git: git}
}

func (c *RepoCheck) Name() string {
	return "Repository"
}

func (c *RepoCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if !c.git.IsRepo(ctx, c.dir) {
		result.Items = append(result.Items, CheckItem{
			Label:  "git repository",
			Status: StatusWarn,
			Detail: "not inside a repository (reviews need one)",
		})
		return result
	}

	root, err := c.git.RepoRoot(ctx, c.dir)
	if err != nil {
		root = c.dir
	}
	result.Items = append(result.Items, CheckItem{
		Label:  "git repository",
		Status: StatusPass,
		Detail: root,
	})

	if branch, err := c.git.Branch(ctx, c.dir); err == nil && branch != "" {
		result.Items = append(result.Items, CheckItem{
			Label:  "branch",
			Status: StatusPass,
			Detail: branch,
		})
	}

	return result
}
