package git

import (
	"fmt"
	"strings"
)

// GitError reports a git command that ran but exited non-zero. Stderr
// holds the captured standard-error output. Lookup failures (git binary
// not on PATH) surface as plain wrapped errors, not GitErrors.
type GitError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *GitError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("git %s: %s", strings.Join(e.Args, " "), e.Stderr)
	}
	return fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.Err)
}

func (e *GitError) Unwrap() error { return e.Err }
