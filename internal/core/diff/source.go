package diff

import (
	"fmt"
	"strings"
)

// SourceType identifies where a diff came from.
//
// ENUM: working_tree, staged, commit, range, branch, pull_request, custom, file
type SourceType string

const (
	// SourceWorkingTree compares the working tree against HEAD.
	SourceWorkingTree SourceType = "working_tree"
	// SourceStaged compares the index against HEAD.
	SourceStaged SourceType = "staged"
	// SourceCommit shows a single commit.
	SourceCommit SourceType = "commit"
	// SourceRange compares two revisions.
	SourceRange SourceType = "range"
	// SourceBranch compares a branch against the working tree.
	SourceBranch SourceType = "branch"
	// SourcePullRequest compares HEAD against a merge base.
	SourcePullRequest SourceType = "pull_request"
	// SourceCustom passes caller-supplied diff arguments verbatim.
	SourceCustom SourceType = "custom"
	// SourceFile reads an existing patch file instead of invoking git.
	SourceFile SourceType = "file"
)

// Source describes how to obtain a diff.
type Source struct {
	Type SourceType `json:"type"`
	// Commit is set for SourceCommit.
	Commit string `json:"commit,omitempty"`
	// From and To are set for SourceRange.
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
	// Branch is set for SourceBranch.
	Branch string `json:"branch,omitempty"`
	// Base is set for SourcePullRequest.
	Base string `json:"base,omitempty"`
	// Args is set for SourceCustom.
	Args []string `json:"args,omitempty"`
	// Path is set for SourceFile.
	Path string `json:"path,omitempty"`
}

// GitArgs returns the git arguments producing this diff. SourceFile has no
// git invocation and returns nil.
func (s Source) GitArgs() []string {
	switch s.Type {
	case SourceWorkingTree:
		return []string{"diff", "HEAD"}
	case SourceStaged:
		return []string{"diff", "--staged"}
	case SourceCommit:
		return []string{"show", "--format=", s.Commit}
	case SourceRange:
		return []string{"diff", s.From + ".." + s.To}
	case SourceBranch:
		return []string{"diff", s.Branch}
	case SourcePullRequest:
		return []string{"diff", s.Base + "..HEAD"}
	case SourceCustom:
		return append([]string{"diff"}, s.Args...)
	default:
		return nil
	}
}

// Description returns a human-readable label for the source.
func (s Source) Description() string {
	switch s.Type {
	case SourceWorkingTree:
		return "working tree changes"
	case SourceStaged:
		return "staged changes"
	case SourceCommit:
		return fmt.Sprintf("commit %s", s.Commit)
	case SourceRange:
		return fmt.Sprintf("range %s..%s", s.From, s.To)
	case SourceBranch:
		return fmt.Sprintf("branch %s", s.Branch)
	case SourcePullRequest:
		return fmt.Sprintf("pull request against %s", s.Base)
	case SourceCustom:
		return fmt.Sprintf("custom args %s", strings.Join(s.Args, " "))
	case SourceFile:
		return fmt.Sprintf("file %s", s.Path)
	default:
		return string(s.Type)
	}
}
