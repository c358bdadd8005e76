package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/packhouse/packline/internal/model"
)

// OrderCmd manages the open-order book that drives the board.
type OrderCmd struct {
	flags *Flags
	app   *App

	customer string
	delivery string
	items    []string
}

func NewOrderCmd(flags *Flags, app *App) *OrderCmd {
	return &OrderCmd{flags: flags, app: app}
}

func (cmd *OrderCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "order",
		Usage:     "Manage customer orders",
		UsageText: "packline order <add|list|set-status> ...",
		Commands: []*cli.Command{
			cmd.addCmd(),
			cmd.listCmd(),
			cmd.setStatusCmd(),
		},
	})
	return root
}

func (cmd *OrderCmd) addCmd() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add an order",
		UsageText: "packline order add --customer <name> [--delivery <YYYY-MM-DD>] --item <sku>:<qty> [--item ...]",
		Description: `Adds a Pending order. Orders without a delivery date still generate
work, at the lowest non-restock priority.

Examples:
  packline order add --customer "North Market" --delivery 2026-04-01 --item BUTTER:6
  packline order add --customer "Walk-in" --item BUTTER:2 --item CREAM:1`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "customer",
				Aliases:     []string{"c"},
				Usage:       "customer name",
				Required:    true,
				Destination: &cmd.customer,
			},
			&cli.StringFlag{
				Name:        "delivery",
				Aliases:     []string{"d"},
				Usage:       "delivery date (YYYY-MM-DD)",
				Destination: &cmd.delivery,
			},
			&cli.StringSliceFlag{
				Name:        "item",
				Aliases:     []string{"i"},
				Usage:       "line item as <sku>:<qty>, repeatable",
				Required:    true,
				Destination: &cmd.items,
			},
		},
		Action: cmd.runAdd,
	}
}

func (cmd *OrderCmd) listCmd() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List orders",
		UsageText: "packline order list",
		Action:    cmd.runList,
	}
}

func (cmd *OrderCmd) setStatusCmd() *cli.Command {
	return &cli.Command{
		Name:      "set-status",
		Usage:     "Change an order's status",
		UsageText: "packline order set-status <order-id> <Pending|Confirmed|Packed|Delivered>",
		Description: `Packed and Delivered orders stop driving production; their tasks
disappear from the board on the next read.`,
		Action: cmd.runSetStatus,
	}
}

func (cmd *OrderCmd) runAdd(ctx context.Context, c *cli.Command) error {
	if err := cmd.app.open(cmd.flags); err != nil {
		return err
	}

	if cmd.delivery != "" {
		if _, err := time.Parse(model.DateLayout, cmd.delivery); err != nil {
			return fmt.Errorf("delivery date must be YYYY-MM-DD: %w", err)
		}
	}
	lines, err := parseLineItems(cmd.items)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if !cmd.app.Config.InCatalog(line.SKU) {
			return fmt.Errorf("unknown SKU %s (declare it in packline.yaml)", line.SKU)
		}
	}

	order := model.Order{
		ID:           uuid.NewString()[:8],
		CustomerName: cmd.customer,
		Status:       model.OrderPending,
		DeliveryDate: cmd.delivery,
		LineItems:    lines,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}

	return cmd.app.withFileLock(cmd.flags, func() error {
		if err := cmd.app.Store.AddOrder(order); err != nil {
			return err
		}
		fmt.Printf("added order %s for %s\n", order.ID, order.CustomerName)
		return nil
	})
}

func (cmd *OrderCmd) runList(ctx context.Context, c *cli.Command) error {
	if err := cmd.app.open(cmd.flags); err != nil {
		return err
	}
	orders, err := cmd.app.Store.Orders()
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Println("no orders")
		return nil
	}
	for _, o := range orders {
		delivery := o.DeliveryDate
		if delivery == "" {
			delivery = "no date"
		}
		items := make([]string, 0, len(o.LineItems))
		for _, line := range o.LineItems {
			items = append(items, fmt.Sprintf("%s:%d", line.SKU, line.Quantity))
		}
		fmt.Printf("%-10s %-10s %-12s %-24s %s\n",
			o.ID, o.Status, delivery, o.CustomerName, strings.Join(items, " "))
	}
	return nil
}

func (cmd *OrderCmd) runSetStatus(ctx context.Context, c *cli.Command) error {
	id := c.Args().Get(0)
	status := model.OrderStatus(c.Args().Get(1))
	if id == "" || status == "" {
		return fmt.Errorf("usage: packline order set-status <order-id> <status>")
	}
	if !model.ValidOrderStatus(status) {
		return fmt.Errorf("invalid status %q (valid: Pending, Confirmed, Packed, Delivered)", status)
	}
	if err := cmd.app.open(cmd.flags); err != nil {
		return err
	}

	return cmd.app.withFileLock(cmd.flags, func() error {
		if err := cmd.app.Store.SetOrderStatus(id, status); err != nil {
			return err
		}
		fmt.Printf("order %s is now %s\n", id, status)
		return nil
	})
}

func parseLineItems(specs []string) ([]model.LineItem, error) {
	lines := make([]model.LineItem, 0, len(specs))
	for _, spec := range specs {
		sku, qtyStr, ok := strings.Cut(spec, ":")
		if !ok || sku == "" {
			return nil, fmt.Errorf("item %q must be <sku>:<qty>", spec)
		}
		qty, err := strconv.Atoi(qtyStr)
		if err != nil || qty <= 0 {
			return nil, fmt.Errorf("item %q needs a positive quantity", spec)
		}
		lines = append(lines, model.LineItem{SKU: model.SKU(sku), Quantity: qty})
	}
	return lines, nil
}
