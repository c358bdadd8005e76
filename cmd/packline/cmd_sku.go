package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/packhouse/packline/internal/model"
)

// SKUCmd lists the configured catalog.
type SKUCmd struct {
	flags *Flags
	app   *App
}

func NewSKUCmd(flags *Flags, app *App) *SKUCmd {
	return &SKUCmd{flags: flags, app: app}
}

func (cmd *SKUCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "sku",
		Usage:     "Inspect the product catalog",
		UsageText: "packline sku list",
		Commands: []*cli.Command{
			{
				Name:      "list",
				Aliases:   []string{"ls"},
				Usage:     "List catalog SKUs",
				UsageText: "packline sku list",
				Action:    cmd.runList,
			},
		},
	})
	return root
}

func (cmd *SKUCmd) runList(ctx context.Context, c *cli.Command) error {
	if err := cmd.app.open(cmd.flags); err != nil {
		return err
	}
	catalog := cmd.app.Config.Catalog
	if len(catalog) == 0 {
		fmt.Println("no SKUs declared; edit packline.yaml")
		return nil
	}
	for _, entry := range catalog {
		threshold := cmd.app.Config.LowStockThreshold(model.SKU(entry.Code))
		fmt.Printf("%-12s %-28s low-stock threshold %d\n", entry.Code, entry.Name, threshold)
	}
	return nil
}
