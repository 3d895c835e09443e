package diff

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/0xd219b/cr-helper/pkg/executil"
)

// ErrDeltaNotInstalled is returned when the delta binary cannot be found
// on PATH.
var ErrDeltaNotInstalled = errors.New("delta is not installed")

// DeltaConfig controls how diffs are piped through delta.
type DeltaConfig struct {
	Theme       string   `yaml:"theme"        json:"theme,omitempty"`
	LineNumbers bool     `yaml:"line_numbers" json:"line_numbers"`
	SideBySide  bool     `yaml:"side_by_side" json:"side_by_side"`
	ExtraArgs   []string `yaml:"extra_args"   json:"extra_args,omitempty"`
}

// DefaultDeltaConfig returns the renderer defaults: numbered unified view.
func DefaultDeltaConfig() DeltaConfig {
	return DeltaConfig{LineNumbers: true}
}

// DeltaRenderer pipes raw diff text through the delta binary for
// syntax-highlighted terminal output.
type DeltaRenderer struct {
	cfg  DeltaConfig
	exec executil.Executor
}

func NewDeltaRenderer(cfg DeltaConfig, ex executil.Executor) *DeltaRenderer {
	return &DeltaRenderer{cfg: cfg, exec: ex}
}

// Available reports whether delta can be invoked.
func (r *DeltaRenderer) Available(ctx context.Context) bool {
	_, err := r.exec.Run(ctx, "delta", "--version")
	return err == nil
}

// Version returns the delta version string, or "" when unavailable.
func (r *DeltaRenderer) Version(ctx context.Context) string {
	out, err := r.exec.Run(ctx, "delta", "--version")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// Render pipes raw diff text through delta and returns the highlighted
// output.
func (r *DeltaRenderer) Render(ctx context.Context, rawDiff string) (string, error) {
	args := []string{}
	if r.cfg.LineNumbers {
		args = append(args, "--line-numbers")
	}
	if r.cfg.SideBySide {
		args = append(args, "--side-by-side")
	}
	if r.cfg.Theme != "" {
		args = append(args, "--syntax-theme", r.cfg.Theme)
	}
	args = append(args, r.cfg.ExtraArgs...)

	out, err := r.exec.RunInput(ctx, []byte(rawDiff), "delta", args...)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", ErrDeltaNotInstalled
		}
		return "", err
	}
	return string(out), nil
}

// RenderOrFallback returns highlighted output when delta works and the
// unmodified diff text otherwise.
func (r *DeltaRenderer) RenderOrFallback(ctx context.Context, rawDiff string) string {
	out, err := r.Render(ctx, rawDiff)
	if err != nil {
		return rawDiff
	}
	return out
}
