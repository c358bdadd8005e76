// Package watch triggers board refreshes when the data files change on
// disk, so a live view stays current while other processes mutate state.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const (
	// Quiet period after the last write before a refresh fires. Atomic
	// writes land as a temp file, a rename, and a backup copy in quick
	// succession; coalescing them avoids rendering half-written batches.
	debounceDelay = 250 * time.Millisecond

	// Fallback rescan for edits fsnotify misses (NFS, editors that
	// replace the whole directory).
	rescanInterval = 30 * time.Second
)

type Watcher struct {
	dir string
	log zerolog.Logger
}

func New(dir string, logger zerolog.Logger) *Watcher {
	return &Watcher{dir: dir, log: logger}
}

// Run watches the data directory and calls onChange after each debounced
// burst of writes, plus once per rescan interval. It blocks until ctx is
// cancelled. onChange runs on the watch goroutine; keep it quick.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	debounce := time.NewTimer(debounceDelay)
	if !debounce.Stop() {
		<-debounce.C
	}
	ticker := time.NewTicker(rescanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if ignored(event.Name) {
				continue
			}
			w.log.Debug().Str("op", event.Op.String()).Str("file", event.Name).Msg("data file changed")
			debounce.Reset(debounceDelay)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("watch error")

		case <-debounce.C:
			onChange()

		case <-ticker.C:
			onChange()
		}
	}
}

// ignored filters the watcher's own noise: atomic-write temp files,
// backups, and lock files.
func ignored(name string) bool {
	base := filepath.Base(name)
	switch {
	case strings.HasPrefix(base, ".packline-tmp-"):
		return true
	case strings.HasSuffix(base, ".bak"):
		return true
	case strings.HasSuffix(base, ".lock"):
		return true
	}
	return false
}
