package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func runWatcher(t *testing.T, dir string) (<-chan struct{}, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan struct{}, 16)
	w := New(dir, zerolog.Nop())
	go func() {
		_ = w.Run(ctx, func() {
			select {
			case changes <- struct{}{}:
			default:
			}
		})
	}()
	// Give the watcher a moment to register before the first write.
	time.Sleep(100 * time.Millisecond)
	return changes, cancel
}

func TestRun_FiresAfterWrite(t *testing.T) {
	dir := t.TempDir()
	changes, cancel := runWatcher(t, dir)
	defer cancel()

	if err := os.WriteFile(filepath.Join(dir, "inventory.yaml"), []byte("schema_version: 1\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case <-changes:
	case <-time.After(3 * time.Second):
		t.Fatal("no change notification after write")
	}
}

func TestRun_CoalescesBurst(t *testing.T) {
	dir := t.TempDir()
	changes, cancel := runWatcher(t, dir)
	defer cancel()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(filepath.Join(dir, "orders.yaml"), []byte("schema_version: 1\n"), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	select {
	case <-changes:
	case <-time.After(3 * time.Second):
		t.Fatal("no change notification after burst")
	}
	// The burst fits inside one debounce window; no second refresh should
	// follow close behind.
	select {
	case <-changes:
		t.Error("burst produced more than one notification")
	case <-time.After(400 * time.Millisecond):
	}
}

func TestRun_IgnoresOwnNoise(t *testing.T) {
	dir := t.TempDir()
	changes, cancel := runWatcher(t, dir)
	defer cancel()

	for _, name := range []string{".packline-tmp-123.yaml", "inventory.yaml.bak", "packline.lock"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("WriteFile %s: %v", name, err)
		}
	}

	select {
	case <-changes:
		t.Error("temp, backup, and lock files should not trigger a refresh")
	case <-time.After(700 * time.Millisecond):
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	w := New(dir, zerolog.Nop())
	go func() {
		done <- w.Run(ctx, func() {})
	}()
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}
