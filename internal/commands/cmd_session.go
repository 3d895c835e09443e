package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/0xd219b/cr-helper/internal/core/session"
	"github.com/0xd219b/cr-helper/internal/core/styles"
	"github.com/0xd219b/cr-helper/internal/core/types"
	"github.com/0xd219b/cr-helper/internal/core/validate"
	"github.com/0xd219b/cr-helper/pkg/iojson"
)

type SessionCmd struct {
	flags *Flags

	// list flags
	jsonOutput bool
	limit      int

	// show flags
	report bool

	// delete/clean flags
	yes       bool
	olderThan int
}

func NewSessionCmd(flags *Flags) *SessionCmd {
	return &SessionCmd{flags: flags}
}

// Register adds the session command to the application
func (cmd *SessionCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "session",
		Usage:       "Manage stored review sessions",
		UsageText:   "cr-helper session <list|show|delete|clean> [options]",
		Description: "Lists, inspects, deletes, and prunes review sessions in the data directory.",
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "List stored sessions",
				UsageText: "cr-helper session list [--json] [--limit n]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON lines",
						Destination: &cmd.jsonOutput,
					},
					&cli.IntFlag{
						Name:        "limit",
						Usage:       "maximum sessions to show (0 for all)",
						Value:       10,
						Destination: &cmd.limit,
					},
				},
				Action: cmd.runList,
			},
			{
				Name:      "show",
				Usage:     "Show one session in detail",
				UsageText: "cr-helper session show <id> [--json | --report]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output the full session as JSON",
						Destination: &cmd.jsonOutput,
					},
					&cli.BoolFlag{
						Name:        "report",
						Usage:       "render the markdown report in the terminal",
						Destination: &cmd.report,
					},
				},
				Action: cmd.runShow,
			},
			{
				Name:      "delete",
				Usage:     "Delete a session",
				UsageText: "cr-helper session delete <id> [--yes]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "yes",
						Aliases:     []string{"y"},
						Usage:       "skip the confirmation prompt",
						Destination: &cmd.yes,
					},
				},
				Action: cmd.runDelete,
			},
			{
				Name:      "clean",
				Usage:     "Delete sessions older than a cutoff",
				UsageText: "cr-helper session clean [--older-than days] [--yes]",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:        "older-than",
						Usage:       "delete sessions not updated in this many days",
						Value:       30,
						Destination: &cmd.olderThan,
					},
					&cli.BoolFlag{
						Name:        "yes",
						Aliases:     []string{"y"},
						Usage:       "skip the confirmation prompt",
						Destination: &cmd.yes,
					},
				},
				Action: cmd.runClean,
			},
		},
	})

	return app
}

func (cmd *SessionCmd) runList(ctx context.Context, c *cli.Command) error {
	infos, err := cmd.flags.Sessions.List()
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if cmd.limit > 0 && len(infos) > cmd.limit {
		infos = infos[:cmd.limit]
	}

	if len(infos) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintln(os.Stderr, "No sessions found")
		}
		return nil
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, info := range infos {
			if err := iojson.WriteLine(out, info); err != nil {
				return err
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSOURCE\tFILES\tCOMMENTS\tUPDATED")
	for _, info := range infos {
		name := info.Metadata.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			info.ID,
			name,
			info.SourceDescription,
			info.FileCount,
			info.CommentCount,
			info.UpdatedAt.Local().Format("2006-01-02 15:04"),
		)
	}
	return w.Flush()
}

func (cmd *SessionCmd) runShow(ctx context.Context, c *cli.Command) error {
	sess, err := cmd.loadArgSession(c)
	if err != nil {
		return err
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		return iojson.WriteWith(out, os.Stderr, sess)
	}

	if cmd.report {
		return cmd.renderReport(out, sess)
	}

	info := sess.Info()
	fmt.Fprintf(out, "ID:       %s\n", info.ID)
	if info.Metadata.Name != "" {
		fmt.Fprintf(out, "Name:     %s\n", info.Metadata.Name)
	}
	if info.Metadata.Repository != "" {
		fmt.Fprintf(out, "Repo:     %s\n", info.Metadata.Repository)
	}
	fmt.Fprintf(out, "Source:   %s\n", info.SourceDescription)
	fmt.Fprintf(out, "Created:  %s\n", info.CreatedAt.Local().Format(time.RFC1123))
	fmt.Fprintf(out, "Updated:  %s\n", info.UpdatedAt.Local().Format(time.RFC1123))
	fmt.Fprintf(out, "Files:    %d\n", info.FileCount)
	fmt.Fprintf(out, "Comments: %d\n", info.CommentCount)

	for _, cm := range sess.Comments.AllSorted() {
		fmt.Fprintf(out, "  [%s] %s:%d %s\n",
			cm.Severity.Short(), cm.Metadata.FilePath, cm.Metadata.LineNumber, cm.Content)
	}
	return nil
}

// renderReport runs the markdown exporter through glamour so the report
// reads well without leaving the terminal.
func (cmd *SessionCmd) renderReport(out io.Writer, sess *session.Session) error {
	md, err := cmd.flags.Exporters.Export(sess, "markdown")
	if err != nil {
		return err
	}

	width := 100
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && w < width {
		width = w
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		fmt.Fprint(out, md)
		return nil
	}

	rendered, err := renderer.Render(md)
	if err != nil {
		fmt.Fprint(out, md)
		return nil
	}

	fmt.Fprint(out, rendered)
	return nil
}

func (cmd *SessionCmd) runDelete(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if err := validate.SessionIDField("id", id); err != nil {
		return err
	}

	if !cmd.yes {
		ok, err := confirm(fmt.Sprintf("Delete session %s?", id), "This cannot be undone.")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(os.Stderr, "Aborted")
			return nil
		}
	}

	if err := cmd.flags.Sessions.Delete(types.SessionID(id)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Deleted session %s\n", id)
	return nil
}

func (cmd *SessionCmd) runClean(ctx context.Context, c *cli.Command) error {
	if cmd.olderThan < 1 {
		return fmt.Errorf("--older-than must be at least 1 day")
	}

	cutoff := time.Now().AddDate(0, 0, -cmd.olderThan)

	if !cmd.yes {
		ok, err := confirm(
			fmt.Sprintf("Delete sessions not updated since %s?", cutoff.Format("2006-01-02")),
			"This cannot be undone.",
		)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(os.Stderr, "Aborted")
			return nil
		}
	}

	deleted, err := cmd.flags.Sessions.Clean(cutoff)
	if err != nil {
		return fmt.Errorf("clean sessions: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Deleted %d session(s)\n", deleted)
	return nil
}

func (cmd *SessionCmd) loadArgSession(c *cli.Command) (*session.Session, error) {
	id := c.Args().First()
	if err := validate.SessionIDField("id", id); err != nil {
		return nil, err
	}

	sess, err := cmd.flags.Sessions.Load(types.SessionID(id))
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

func confirm(title, description string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Value(&ok).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}
