package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/packhouse/packline/internal/board"
	"github.com/packhouse/packline/internal/watch"
)

// BoardCmd renders the production board, once or continuously.
type BoardCmd struct {
	flags *Flags
	app   *App
}

func NewBoardCmd(flags *Flags, app *App) *BoardCmd {
	return &BoardCmd{flags: flags, app: app}
}

func (cmd *BoardCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "board",
		Usage:     "Show the production board",
		UsageText: "packline board [command]",
		Description: `Recomputes the task queue from open orders and current inventory,
reconciles it with recorded task progress, and prints the board.

Examples:
  packline board
  packline board watch`,
		Action: cmd.runShow,
		Commands: []*cli.Command{
			{
				Name:        "watch",
				Usage:       "Re-render the board whenever the data files change",
				UsageText:   "packline board watch",
				Description: `Watches the data directory and reprints the board after each change. Stop with Ctrl-C.`,
				Action:      cmd.runWatch,
			},
		},
	})
	return root
}

func (cmd *BoardCmd) runShow(ctx context.Context, c *cli.Command) error {
	if err := cmd.app.open(cmd.flags); err != nil {
		return err
	}
	if err := cmd.render(ctx); err != nil {
		return err
	}
	// One-shot invocation: let ghost deletions land before the process
	// exits, instead of leaving them for the next run.
	cmd.app.Service.WaitCleanup()
	return nil
}

func (cmd *BoardCmd) runWatch(ctx context.Context, c *cli.Command) error {
	if err := cmd.app.open(cmd.flags); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.render(ctx); err != nil {
		return err
	}

	w := watch.New(cmd.flags.DataDir, log.Logger)
	err := w.Run(ctx, func() {
		fmt.Print("\033[2J\033[H")
		if err := cmd.render(ctx); err != nil {
			log.Warn().Err(err).Msg("board refresh failed")
		}
	})
	if err == context.Canceled {
		return nil
	}
	return err
}

func (cmd *BoardCmd) render(ctx context.Context) error {
	b, err := cmd.app.Service.Board(ctx)
	if err != nil {
		return err
	}
	out, err := board.Format(b, cmd.app.Config.Project.Name)
	if err != nil {
		return err
	}
	fmt.Fprint(os.Stdout, out)
	return nil
}
