package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/0xd219b/cr-helper/internal/core/session"
	"github.com/0xd219b/cr-helper/internal/core/types"
	"github.com/0xd219b/cr-helper/internal/core/validate"
)

type ExportCmd struct {
	flags *Flags

	// flags
	sessionID string
	latest    bool
	format    string
	output    string
	compact   bool
}

func NewExportCmd(flags *Flags) *ExportCmd {
	return &ExportCmd{flags: flags}
}

// Register adds the export command to the application
func (cmd *ExportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "export",
		Usage:     "Export a session as JSON or Markdown",
		UsageText: "cr-helper export [--session <id> | --latest] [--format f] [--output path]",
		Description: `Writes a review session in a shareable format.

Without --output the result goes to stdout. --output paths with no
extension get the format's extension appended.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "session",
				Aliases:     []string{"s"},
				Usage:       "session id to export",
				Destination: &cmd.sessionID,
			},
			&cli.BoolFlag{
				Name:        "latest",
				Usage:       "export the most recently updated session",
				Destination: &cmd.latest,
			},
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "output format",
				Destination: &cmd.format,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "write to this file instead of stdout",
				Destination: &cmd.output,
			},
			&cli.BoolFlag{
				Name:        "compact",
				Usage:       "shorthand for --format json-compact",
				Destination: &cmd.compact,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ExportCmd) run(ctx context.Context, c *cli.Command) error {
	sess, err := cmd.resolveSession()
	if err != nil {
		return err
	}

	format := cmd.resolveFormat()
	if !cmd.flags.Exporters.HasFormat(format) {
		return fmt.Errorf("unknown format %q (available: %s)", format, cmd.flags.Exporters.FormatsHelp())
	}

	if cmd.output != "" {
		if err := cmd.flags.Exporters.ExportToFile(sess, format, cmd.output); err != nil {
			return fmt.Errorf("export session: %w", err)
		}
		log.Info().
			Str("session", string(sess.ID)).
			Str("format", format).
			Str("path", cmd.output).
			Msg("session exported")
		fmt.Fprintf(os.Stderr, "Exported session %s to %s\n", sess.ID, cmd.output)
		return nil
	}

	out, err := cmd.flags.Exporters.Export(sess, format)
	if err != nil {
		return fmt.Errorf("export session: %w", err)
	}

	_, err = fmt.Fprint(c.Root().Writer, out)
	return err
}

func (cmd *ExportCmd) resolveSession() (*session.Session, error) {
	switch {
	case cmd.sessionID != "" && cmd.latest:
		return nil, fmt.Errorf("--session and --latest are mutually exclusive")
	case cmd.sessionID != "":
		if err := validate.SessionIDField("--session", cmd.sessionID); err != nil {
			return nil, err
		}
		sess, err := cmd.flags.Sessions.Load(types.SessionID(cmd.sessionID))
		if err != nil {
			return nil, fmt.Errorf("load session: %w", err)
		}
		return sess, nil
	default:
		sess, err := cmd.flags.Sessions.LoadLatest()
		if err != nil {
			return nil, fmt.Errorf("load latest session: %w", err)
		}
		if sess == nil {
			return nil, fmt.Errorf("no sessions found, run a review first")
		}
		return sess, nil
	}
}

func (cmd *ExportCmd) resolveFormat() string {
	if cmd.compact {
		return "json-compact"
	}
	if cmd.format != "" {
		return cmd.format
	}
	return cmd.flags.Config.Export.DefaultFormat
}
