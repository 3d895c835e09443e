package doctor

import (
	"context"
	"os/exec"
	"strings"
)

// lookPathFunc is the function used to find executables on PATH.
// Package-level variable to allow test overrides.
var lookPathFunc = exec.LookPath

// VersionFunc returns a tool's version string, or "" when unavailable.
type VersionFunc func(ctx context.Context) string

// ToolsCheck verifies that required external tools are available.
type ToolsCheck struct {
	gitPath string
	git     VersionFunc
	delta   VersionFunc
}

// NewToolsCheck creates a new tools check. git and delta may be nil, in
// which case only PATH lookups run.
func NewToolsCheck(gitPath string, git, delta VersionFunc) *ToolsCheck {
	return &ToolsCheck{gitPath: gitPath, git: git, delta: delta}
}

func (c *ToolsCheck) Name() string {
	return "Tools"
}

func (c *ToolsCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	// git is required
	if path, err := lookPathFunc(c.gitPath); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "git",
			Status: StatusFail,
			Detail: "not found on PATH",
		})
	} else {
		detail := path
		if c.git != nil {
			if v := strings.TrimSpace(c.git(ctx)); v != "" {
				detail = v
			}
		}
		result.Items = append(result.Items, CheckItem{
			Label:  "git",
			Status: StatusPass,
			Detail: detail,
		})
	}

	// delta is optional but recommended
	if path, err := lookPathFunc("delta"); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "delta",
			Status: StatusWarn,
			Detail: "not found on PATH (diffs render without syntax highlighting)",
		})
	} else {
		detail := path
		if c.delta != nil {
			if v := strings.TrimSpace(c.delta(ctx)); v != "" {
				detail = v
			}
		}
		result.Items = append(result.Items, CheckItem{
			Label:  "delta",
			Status: StatusPass,
			Detail: detail,
		})
	}

	return result
}
