// Command packline is the production board CLI: it renders the task
// queue, records stage transitions, and manages orders, inventory, and
// staged containers for a single data directory.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/packhouse/packline/internal/board"
	"github.com/packhouse/packline/internal/lock"
	"github.com/packhouse/packline/internal/model"
	"github.com/packhouse/packline/internal/setup"
	"github.com/packhouse/packline/internal/store"
)

const version = "1.0.0"

// Flags are the global options shared by every command.
type Flags struct {
	DataDir  string
	LogLevel string
}

// App is the wired service stack commands run against. It is populated
// lazily because init must work before a data directory exists.
type App struct {
	Store   *store.Store
	Config  model.Config
	Service *board.Service
}

func (a *App) open(flags *Flags) error {
	if a.Store != nil {
		return nil
	}
	st := store.New(flags.DataDir)
	cfg, err := st.LoadConfig()
	if err != nil {
		return err
	}
	a.Store = st
	a.Config = cfg
	a.Service = board.NewService(st, cfg, log.Logger)
	return nil
}

// withFileLock serializes mutating commands across processes sharing the
// data directory.
func (a *App) withFileLock(flags *Flags, fn func() error) error {
	fl := lock.NewFileLock(filepath.Join(flags.DataDir, "locks", "packline.lock"))
	if err := fl.TryLock(); err != nil {
		return err
	}
	defer fl.Unlock()
	return fn()
}

func main() {
	flags := &Flags{}
	app := &App{}

	root := &cli.Command{
		Name:      "packline",
		Usage:     "Production board for fill and case work",
		UsageText: "packline [global options] command [command options]",
		Description: `Packline turns open orders and current inventory into a prioritized
production board. Operators advance tasks as cases are filled and cased;
the board is recomputed from orders and inventory on every read.

Run 'packline init' once per site, then 'packline board' to see the work.`,
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "data",
				Usage:       "path to the packline data directory",
				Sources:     cli.EnvVars("PACKLINE_DATA"),
				Value:       setup.DefaultDirName,
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Sources:     cli.EnvVars("PACKLINE_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			level, err := zerolog.ParseLevel(flags.LogLevel)
			if err != nil {
				return ctx, fmt.Errorf("parse log level %q: %w", flags.LogLevel, err)
			}
			log.Logger = zerolog.New(zerolog.ConsoleWriter{
				Out:        os.Stderr,
				TimeFormat: time.Kitchen,
			}).Level(level).With().Timestamp().Logger()
			return ctx, nil
		},
	}

	NewInitCmd(flags).Register(root)
	NewBoardCmd(flags, app).Register(root)
	NewTaskCmd(flags, app).Register(root)
	NewOrderCmd(flags, app).Register(root)
	NewInventoryCmd(flags, app).Register(root)
	NewContainerCmd(flags, app).Register(root)
	NewSKUCmd(flags, app).Register(root)

	if err := root.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
