package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/packhouse/packline/internal/setup"
)

// InitCmd scaffolds a new data directory.
type InitCmd struct {
	flags *Flags

	projectName string
}

func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags}
}

func (cmd *InitCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Initialize a packline data directory",
		UsageText: "packline init [--name <project>]",
		Description: `Creates the data directory with a config file and empty data files.

Refuses to run against a directory that is already initialized.

Examples:
  packline init
  packline init --name creamery --data /srv/packline`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "name",
				Usage:       "project name recorded in the config",
				Destination: &cmd.projectName,
			},
		},
		Action: cmd.run,
	})
	return root
}

func (cmd *InitCmd) run(ctx context.Context, c *cli.Command) error {
	if err := setup.Run(cmd.flags.DataDir, cmd.projectName); err != nil {
		return err
	}
	fmt.Printf("initialized packline data directory at %s\n", cmd.flags.DataDir)
	fmt.Println("edit packline.yaml to declare your catalog, then run 'packline board'")
	return nil
}
