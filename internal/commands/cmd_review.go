package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/0xd219b/cr-helper/internal/core/diff"
	"github.com/0xd219b/cr-helper/internal/core/session"
	"github.com/0xd219b/cr-helper/internal/core/types"
	"github.com/0xd219b/cr-helper/internal/core/validate"
	"github.com/0xd219b/cr-helper/internal/tui"
)

type ReviewCmd struct {
	flags *Flags

	// flags
	staged    bool
	commit    string
	revRange  string
	branch    string
	base      string
	patchFile string
	sessionID string
	name      string
	noTUI     bool

	// gitArgs holds trailing arguments passed through to git diff verbatim.
	gitArgs []string
}

func NewReviewCmd(flags *Flags) *ReviewCmd {
	return &ReviewCmd{flags: flags}
}

// Register adds the review command to the application
func (cmd *ReviewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "review",
		Usage:     "Start or resume a review session",
		UsageText: "cr-helper review [--staged | --commit <sha> | --range <a..b> | --branch <b> | --base <b> | --file <patch>] [options] [-- <git diff args>]",
		Description: `Parses a git diff into a navigable review and opens the terminal UI.

Without source flags the working tree is reviewed (including untracked
files, loaded lazily). Trailing arguments after -- are passed to git
diff verbatim. Use --session to resume a stored session where you left
off.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "staged",
				Usage:       "review staged changes instead of the working tree",
				Destination: &cmd.staged,
			},
			&cli.StringFlag{
				Name:        "commit",
				Usage:       "review a single commit",
				Destination: &cmd.commit,
			},
			&cli.StringFlag{
				Name:        "range",
				Usage:       "review a revision range (a..b)",
				Destination: &cmd.revRange,
			},
			&cli.StringFlag{
				Name:        "branch",
				Usage:       "review changes against a branch",
				Destination: &cmd.branch,
			},
			&cli.StringFlag{
				Name:        "base",
				Usage:       "review HEAD against a merge base (pull request style)",
				Destination: &cmd.base,
			},
			&cli.StringFlag{
				Name:        "file",
				Usage:       "review an existing patch file instead of invoking git",
				Destination: &cmd.patchFile,
			},
			&cli.StringFlag{
				Name:        "session",
				Aliases:     []string{"s"},
				Usage:       "resume a stored session by id",
				Destination: &cmd.sessionID,
			},
			&cli.StringFlag{
				Name:        "name",
				Aliases:     []string{"n"},
				Usage:       "name for the new session",
				Destination: &cmd.name,
			},
			&cli.BoolFlag{
				Name:        "no-tui",
				Usage:       "create the session and print a summary without opening the UI",
				Destination: &cmd.noTUI,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ReviewCmd) run(ctx context.Context, c *cli.Command) error {
	cmd.gitArgs = c.Args().Slice()

	sess, err := cmd.openSession(ctx)
	if err != nil {
		return err
	}

	if cmd.noTUI {
		return cmd.printSummary(c, sess)
	}

	model := tui.New(sess, cmd.flags.Sessions, cmd.flags.Config, log.Logger)
	prog := tea.NewProgram(model, tea.WithAltScreen())

	final, err := prog.Run()
	if err != nil {
		return fmt.Errorf("run review ui: %w", err)
	}

	if m, ok := final.(tui.Model); ok {
		if err := m.SaveErr(); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
	}

	// Final save catches anything auto-save debounced away.
	if err := cmd.flags.Sessions.Save(sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Session %s saved (%d comments)\n", sess.ID, sess.CommentCount())
	return nil
}

func (cmd *ReviewCmd) openSession(ctx context.Context) (*session.Session, error) {
	if cmd.sessionID != "" {
		if err := validate.SessionIDField("--session", cmd.sessionID); err != nil {
			return nil, err
		}
		sess, err := cmd.flags.Sessions.Load(types.SessionID(cmd.sessionID))
		if err != nil {
			return nil, fmt.Errorf("load session: %w", err)
		}
		return sess, nil
	}

	src, err := cmd.source()
	if err != nil {
		return nil, err
	}

	parser := diff.NewParser(log.Logger)
	parser.SetMaxFileSize(cmd.flags.Config.Diff.MaxFileSize)

	var data *diff.DiffData
	var repoRoot string

	if src.Type == diff.SourceFile {
		raw, err := os.ReadFile(src.Path)
		if err != nil {
			return nil, fmt.Errorf("read patch file: %w", err)
		}
		data, err = parser.Parse(string(raw))
		if err != nil {
			return nil, err
		}
		data.Metadata.Source = src
	} else {
		dir, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		if !cmd.flags.Git.IsRepo(ctx, dir) {
			return nil, fmt.Errorf("not inside a git repository: %s", dir)
		}
		repoRoot, err = cmd.flags.Git.RepoRoot(ctx, dir)
		if err != nil {
			repoRoot = dir
		}
		data, err = parser.ParseFromGit(ctx, cmd.flags.Git, repoRoot, src)
		if err != nil {
			return nil, err
		}
	}

	cmd.applyPatterns(data)

	if len(data.Files) == 0 {
		return nil, fmt.Errorf("no changes to review (%s)", src.Description())
	}

	if cmd.name != "" {
		if err := validate.SessionNameField("--name", cmd.name); err != nil {
			return nil, err
		}
	}

	meta := session.Metadata{
		Name:       cmd.name,
		Repository: repoRoot,
	}

	sess, err := cmd.flags.Sessions.CreateWithMetadata(src, data, meta)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	log.Info().
		Str("session", string(sess.ID)).
		Int("files", sess.FileCount()).
		Msg("review session created")

	return sess, nil
}

func (cmd *ReviewCmd) source() (diff.Source, error) {
	set := 0
	exclusive := []bool{
		cmd.staged,
		cmd.commit != "",
		cmd.revRange != "",
		cmd.branch != "",
		cmd.base != "",
		cmd.patchFile != "",
		len(cmd.gitArgs) > 0,
	}
	for _, on := range exclusive {
		if on {
			set++
		}
	}
	if set > 1 {
		return diff.Source{}, fmt.Errorf("--staged, --commit, --range, --branch, --base, --file, and trailing git args are mutually exclusive")
	}

	switch {
	case cmd.staged:
		return diff.Source{Type: diff.SourceStaged}, nil
	case cmd.commit != "":
		return diff.Source{Type: diff.SourceCommit, Commit: cmd.commit}, nil
	case cmd.revRange != "":
		from, to, ok := strings.Cut(cmd.revRange, "..")
		if !ok || from == "" || to == "" {
			return diff.Source{}, fmt.Errorf("invalid range %q, expected <from>..<to>", cmd.revRange)
		}
		return diff.Source{Type: diff.SourceRange, From: from, To: strings.TrimPrefix(to, ".")}, nil
	case cmd.branch != "":
		return diff.Source{Type: diff.SourceBranch, Branch: cmd.branch}, nil
	case cmd.base != "":
		return diff.Source{Type: diff.SourcePullRequest, Base: cmd.base}, nil
	case cmd.patchFile != "":
		return diff.Source{Type: diff.SourceFile, Path: cmd.patchFile}, nil
	case len(cmd.gitArgs) > 0:
		return diff.Source{Type: diff.SourceCustom, Args: cmd.gitArgs}, nil
	default:
		return diff.Source{Type: diff.SourceWorkingTree}, nil
	}
}

// applyPatterns drops files the configured include/exclude globs reject.
func (cmd *ReviewCmd) applyPatterns(data *diff.DiffData) {
	cfg := cmd.flags.Config

	kept := data.Files[:0]
	for _, f := range data.Files {
		if cfg.IncludesFile(f.DisplayPath()) {
			kept = append(kept, f)
		} else {
			log.Debug().Str("path", f.DisplayPath()).Msg("file excluded by pattern")
		}
	}
	if len(kept) == len(data.Files) {
		return
	}

	data.Files = kept
	data.Stats = diff.StatsFromDiff(data)
	data.Stats.FilesChanged = len(data.Files)
}

func (cmd *ReviewCmd) printSummary(c *cli.Command, sess *session.Session) error {
	out := c.Root().Writer

	fmt.Fprintf(out, "Session: %s\n", sess.ID)
	if sess.Metadata.Name != "" {
		fmt.Fprintf(out, "Name:    %s\n", sess.Metadata.Name)
	}
	fmt.Fprintf(out, "Source:  %s\n", sess.DiffSource.Description())
	fmt.Fprintf(out, "Files:   %d (+%d -%d)\n",
		sess.FileCount(), sess.DiffData.Stats.Insertions, sess.DiffData.Stats.Deletions)
	return nil
}
