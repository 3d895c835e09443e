package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

type ConfigCmd struct {
	flags *Flags
}

func NewConfigCmd(flags *Flags) *ConfigCmd {
	return &ConfigCmd{flags: flags}
}

// Register adds the config command to the application
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "config",
		Usage:       "Print the effective configuration",
		UsageText:   "cr-helper config",
		Description: "Shows the merged configuration after defaults and the config file are applied.",
		Action:      cmd.run,
	})

	return app
}

func (cmd *ConfigCmd) run(ctx context.Context, c *cli.Command) error {
	out := c.Root().Writer

	fmt.Fprintf(out, "# config file: %s\n", cmd.flags.ConfigPath)
	fmt.Fprintf(out, "# data dir:    %s\n", cmd.flags.DataDir)

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(cmd.flags.Config); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}
