package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/packhouse/packline/internal/model"
)

// ContainerCmd manages physical staged containers. Adding one raises the
// SKU's STAGED count; removing an unused one lowers it.
type ContainerCmd struct {
	flags *Flags
	app   *App
}

func NewContainerCmd(flags *Flags, app *App) *ContainerCmd {
	return &ContainerCmd{flags: flags, app: app}
}

func (cmd *ContainerCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "container",
		Usage:     "Track physical staged containers",
		UsageText: "packline container <add|remove|list> ...",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Register a full container as staged",
				UsageText: "packline container add <sku> <size>",
				Description: `Registers a container of 1, 2, 3, 4, or 8 cases and raises the
SKU's STAGED inventory by its size.`,
				Action: cmd.runAdd,
			},
			{
				Name:      "use",
				Usage:     "Mark a container used outside the fill pipeline",
				UsageText: "packline container use <container-id>",
				Description: `Marks an AVAILABLE container USED and lowers STAGED inventory by
its size. Fill advances consume containers on their own; this covers
product pulled from staging directly.`,
				Action: cmd.runUse,
			},
			{
				Name:      "remove",
				Usage:     "Remove an unused container",
				UsageText: "packline container remove <container-id>",
				Description: `Removes an AVAILABLE container and lowers STAGED inventory by its
size. Used containers are history and cannot be removed.`,
				Action: cmd.runRemove,
			},
			{
				Name:      "list",
				Aliases:   []string{"ls"},
				Usage:     "List containers",
				UsageText: "packline container list",
				Action:    cmd.runList,
			},
		},
	})
	return root
}

func (cmd *ContainerCmd) runAdd(ctx context.Context, c *cli.Command) error {
	sku := model.SKU(c.Args().Get(0))
	sizeStr := c.Args().Get(1)
	if sku == "" || sizeStr == "" {
		return fmt.Errorf("usage: packline container add <sku> <size>")
	}
	size, err := strconv.Atoi(sizeStr)
	if err != nil || !model.ValidContainerSize(size) {
		return fmt.Errorf("size must be one of %v", model.ContainerSizes)
	}
	if err := cmd.app.open(cmd.flags); err != nil {
		return err
	}
	if !cmd.app.Config.InCatalog(sku) {
		return fmt.Errorf("unknown SKU %s (declare it in packline.yaml)", sku)
	}

	container := model.Container{
		ID:        uuid.NewString()[:8],
		SKU:       sku,
		Size:      size,
		Status:    model.ContainerAvailable,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	return cmd.app.withFileLock(cmd.flags, func() error {
		if err := cmd.app.Store.AddContainer(container); err != nil {
			return err
		}
		fmt.Printf("added container %s: %d cases of %s staged\n", container.ID, size, sku)
		return nil
	})
}

func (cmd *ContainerCmd) runUse(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("container id required")
	}
	if err := cmd.app.open(cmd.flags); err != nil {
		return err
	}

	return cmd.app.withFileLock(cmd.flags, func() error {
		if err := cmd.app.Store.UseContainer(id, time.Now()); err != nil {
			return err
		}
		fmt.Printf("container %s marked used\n", id)
		return nil
	})
}

func (cmd *ContainerCmd) runRemove(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("container id required")
	}
	if err := cmd.app.open(cmd.flags); err != nil {
		return err
	}

	return cmd.app.withFileLock(cmd.flags, func() error {
		if err := cmd.app.Store.RemoveContainer(id); err != nil {
			return err
		}
		fmt.Printf("removed container %s\n", id)
		return nil
	})
}

func (cmd *ContainerCmd) runList(ctx context.Context, c *cli.Command) error {
	if err := cmd.app.open(cmd.flags); err != nil {
		return err
	}
	containers, err := cmd.app.Store.Containers()
	if err != nil {
		return err
	}
	if len(containers) == 0 {
		fmt.Println("no containers")
		return nil
	}
	for _, ct := range containers {
		line := fmt.Sprintf("%-10s %-12s %d cases  %s", ct.ID, ct.SKU, ct.Size, ct.Status)
		if ct.UsedAt != nil {
			line += "  used " + *ct.UsedAt
		}
		fmt.Println(line)
	}
	return nil
}
