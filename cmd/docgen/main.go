// Command docgen generates CLI reference documentation from the cr-helper
// command definitions. Output is written to docs/cli-reference.md.
package main

import (
	"fmt"
	"os"

	docs "github.com/urfave/cli-docs/v3"
	"github.com/urfave/cli/v3"

	"github.com/0xd219b/cr-helper/internal/commands"
)

func main() {
	flags := &commands.Flags{}

	root := &cli.Command{
		Name:      "cr-helper",
		Usage:     "Review git diffs in the terminal",
		UsageText: "cr-helper [global options] command [command options]",
		Description: `cr-helper parses git diffs into a navigable review: move through files,
hunks, and lines, attach severity-tagged comments, and export the result
as JSON or a Markdown report.

Run 'cr-helper review' in a repository to start reviewing the working tree.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error, fatal, panic)",
				Sources: cli.EnvVars("CR_HELPER_LOG_LEVEL"),
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "path to log file (defaults to <data-dir>/cr-helper.log)",
				Sources: cli.EnvVars("CR_HELPER_LOG_FILE"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
				Sources: cli.EnvVars("CR_HELPER_CONFIG"),
				Value:   commands.DefaultConfigPath(),
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "path to data directory",
				Sources: cli.EnvVars("CR_HELPER_DATA_DIR"),
				Value:   commands.DefaultDataDir(),
			},
		},
	}

	root = commands.NewReviewCmd(flags).Register(root)
	root = commands.NewSessionCmd(flags).Register(root)
	root = commands.NewExportCmd(flags).Register(root)
	root = commands.NewDoctorCmd(flags).Register(root)
	root = commands.NewConfigCmd(flags).Register(root)

	md, err := docs.ToMarkdown(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error generating docs: %v\n", err)
		os.Exit(1)
	}

	outPath := "docs/cli-reference.md"
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}

	if err := os.WriteFile(outPath, []byte(md), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", outPath, err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s\n", outPath)
}
