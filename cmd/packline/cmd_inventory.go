package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/packhouse/packline/internal/model"
)

// InventoryCmd reads and corrects the three pipeline pools directly.
type InventoryCmd struct {
	flags *Flags
	app   *App

	cased  int
	filled int
	staged int
}

func NewInventoryCmd(flags *Flags, app *App) *InventoryCmd {
	return &InventoryCmd{flags: flags, app: app}
}

func (cmd *InventoryCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "inventory",
		Usage:     "Show or correct inventory levels",
		UsageText: "packline inventory <show|set> ...",
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Print levels for every SKU",
				UsageText: "packline inventory show",
				Action:    cmd.runShow,
			},
			{
				Name:      "set",
				Usage:     "Overwrite one SKU's levels",
				UsageText: "packline inventory set <sku> [--cased n] [--filled n] [--staged n]",
				Description: `Directly sets pool counts, for physical count corrections. Normal
flow moves cases between pools through task advances, not here.

Examples:
  packline inventory set BUTTER --staged 12
  packline inventory set BUTTER --cased 4 --filled 2 --staged 6`,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "cased", Value: -1, Usage: "cased count", Destination: &cmd.cased},
					&cli.IntFlag{Name: "filled", Value: -1, Usage: "filled count", Destination: &cmd.filled},
					&cli.IntFlag{Name: "staged", Value: -1, Usage: "staged count", Destination: &cmd.staged},
				},
				Action: cmd.runSet,
			},
		},
	})
	return root
}

func (cmd *InventoryCmd) runShow(ctx context.Context, c *cli.Command) error {
	if err := cmd.app.open(cmd.flags); err != nil {
		return err
	}
	inv, err := cmd.app.Store.Inventory()
	if err != nil {
		return err
	}
	if len(inv) == 0 {
		fmt.Println("no inventory recorded")
		return nil
	}

	skus := make([]model.SKU, 0, len(inv))
	for sku := range inv {
		skus = append(skus, sku)
	}
	sort.Slice(skus, func(i, j int) bool { return skus[i] < skus[j] })

	fmt.Printf("%-12s %6s %6s %6s %6s\n", "SKU", "cased", "filled", "staged", "total")
	for _, sku := range skus {
		levels := inv[sku]
		fmt.Printf("%-12s %6d %6d %6d %6d\n",
			sku, levels.Cased, levels.Filled, levels.Staged, levels.OnHand())
	}
	return nil
}

func (cmd *InventoryCmd) runSet(ctx context.Context, c *cli.Command) error {
	sku := model.SKU(c.Args().First())
	if sku == "" {
		return fmt.Errorf("sku required")
	}
	if cmd.cased < 0 && cmd.filled < 0 && cmd.staged < 0 {
		return fmt.Errorf("nothing to set: pass at least one of --cased, --filled, --staged")
	}
	if err := cmd.app.open(cmd.flags); err != nil {
		return err
	}

	return cmd.app.withFileLock(cmd.flags, func() error {
		inv, err := cmd.app.Store.Inventory()
		if err != nil {
			return err
		}
		levels := inv[sku]
		if cmd.cased >= 0 {
			levels.Cased = cmd.cased
		}
		if cmd.filled >= 0 {
			levels.Filled = cmd.filled
		}
		if cmd.staged >= 0 {
			levels.Staged = cmd.staged
		}
		if err := cmd.app.Store.SetInventory(sku, levels); err != nil {
			return err
		}
		fmt.Printf("%s: cased %d, filled %d, staged %d\n",
			sku, levels.Cased, levels.Filled, levels.Staged)
		return nil
	})
}
