package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/packhouse/packline/internal/board"
	"github.com/packhouse/packline/internal/model"
)

// TaskCmd moves tasks between board columns and manages their notes.
type TaskCmd struct {
	flags *Flags
	app   *App

	quantity int
}

func NewTaskCmd(flags *Flags, app *App) *TaskCmd {
	return &TaskCmd{flags: flags, app: app}
}

func (cmd *TaskCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "task",
		Usage:     "Advance, revert, and annotate board tasks",
		UsageText: "packline task <advance|revert|note> ...",
		Commands: []*cli.Command{
			cmd.advanceCmd(),
			cmd.revertCmd(),
			cmd.noteCmd(),
		},
	})
	return root
}

func (cmd *TaskCmd) advanceCmd() *cli.Command {
	return &cli.Command{
		Name:      "advance",
		Usage:     "Move a task one stage forward",
		UsageText: "packline task advance <task-id> [--quantity <n>]",
		Description: `Advances a task from TO FILL to TO CASE, or from TO CASE to DONE,
moving the matching inventory with it. Defaults to the task's full
quantity; --quantity advances part of it.

Examples:
  packline task advance FILL-BUTTER-URGENT
  packline task advance CASE-BUTTER-URGENT --quantity 3`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "quantity",
				Aliases:     []string{"q"},
				Usage:       "cases to advance (defaults to the task's quantity)",
				Destination: &cmd.quantity,
			},
		},
		Action: cmd.runAdvance,
	}
}

func (cmd *TaskCmd) revertCmd() *cli.Command {
	return &cli.Command{
		Name:      "revert",
		Usage:     "Move a task one stage back",
		UsageText: "packline task revert <task-id> [--quantity <n>]",
		Description: `Reverts a task from DONE to TO CASE, or from TO CASE to TO FILL,
restoring the inventory the forward move consumed.

Examples:
  packline task revert CASE-BUTTER-URGENT`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "quantity",
				Aliases:     []string{"q"},
				Usage:       "cases to revert (defaults to the task's quantity)",
				Destination: &cmd.quantity,
			},
		},
		Action: cmd.runRevert,
	}
}

func (cmd *TaskCmd) noteCmd() *cli.Command {
	return &cli.Command{
		Name:      "note",
		Usage:     "Set or clear a task's note",
		UsageText: "packline task note <task-id> [text]",
		Description: `Attaches a free-text note shown next to the task on the board.
Omitting the text clears the note. Notes follow the task when it
advances across stages.

Examples:
  packline task note FILL-BUTTER-URGENT "use the narrow line"
  packline task note FILL-BUTTER-URGENT`,
		Action: cmd.runNote,
	}
}

func (cmd *TaskCmd) runAdvance(ctx context.Context, c *cli.Command) error {
	taskID := c.Args().First()
	if taskID == "" {
		return fmt.Errorf("task id required")
	}
	if err := cmd.app.open(cmd.flags); err != nil {
		return err
	}

	return cmd.app.withFileLock(cmd.flags, func() error {
		b, err := cmd.app.Service.Board(ctx)
		if err != nil {
			return err
		}
		task := findTask(b, taskID)
		if task == nil {
			return fmt.Errorf("task %s is not on the board", taskID)
		}
		if task.Status == model.TaskBlocked {
			return fmt.Errorf("task %s is blocked: %s", taskID, task.BlockedReason)
		}

		qty := task.Quantity
		if cmd.quantity > 0 {
			qty = cmd.quantity
		}
		if err := cmd.app.Service.Advance(board.TransitionRequest{
			TaskID:     taskID,
			SKU:        task.SKU,
			Quantity:   qty,
			FromColumn: task.Column,
		}); err != nil {
			return err
		}
		fmt.Printf("advanced %s (%d cases)\n", taskID, qty)
		return nil
	})
}

func (cmd *TaskCmd) runRevert(ctx context.Context, c *cli.Command) error {
	taskID := c.Args().First()
	if taskID == "" {
		return fmt.Errorf("task id required")
	}
	if err := cmd.app.open(cmd.flags); err != nil {
		return err
	}

	return cmd.app.withFileLock(cmd.flags, func() error {
		states, err := cmd.app.Store.TaskStates()
		if err != nil {
			return err
		}
		st, ok := states[taskID]
		if !ok {
			return fmt.Errorf("task %s has no recorded progress to revert", taskID)
		}

		qty := st.Quantity
		if cmd.quantity > 0 {
			qty = cmd.quantity
		}
		if err := cmd.app.Service.Revert(board.TransitionRequest{
			TaskID:     taskID,
			SKU:        st.SKU,
			Quantity:   qty,
			FromColumn: st.CurrentColumn,
		}); err != nil {
			return err
		}
		fmt.Printf("reverted %s (%d cases)\n", taskID, qty)
		return nil
	})
}

func (cmd *TaskCmd) runNote(ctx context.Context, c *cli.Command) error {
	taskID := c.Args().First()
	if taskID == "" {
		return fmt.Errorf("task id required")
	}
	if err := cmd.app.open(cmd.flags); err != nil {
		return err
	}
	text := strings.Join(c.Args().Slice()[1:], " ")

	return cmd.app.withFileLock(cmd.flags, func() error {
		if err := cmd.app.Store.SetNote(taskID, text); err != nil {
			return err
		}
		if text == "" {
			fmt.Printf("cleared note on %s\n", taskID)
		} else {
			fmt.Printf("noted %s\n", taskID)
		}
		return nil
	})
}

func findTask(b *board.Board, id string) *model.Task {
	for _, t := range b.Tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}
