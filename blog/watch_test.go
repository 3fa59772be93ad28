package blog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestWatchCallsOnChange(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, dir, 20*time.Millisecond, zerolog.Nop(), func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// The watcher registers asynchronously; keep touching the file until an
	// event is observed.
	deadline := time.After(3 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for i := 0; ; i++ {
		select {
		case <-changed:
			cancel()
			if err := <-done; err != nil {
				t.Fatalf("Watch returned %v", err)
			}
			return
		case <-deadline:
			t.Fatal("onChange was not called")
		case <-tick.C:
			p := filepath.Join(dir, "post.md")
			if err := os.WriteFile(p, []byte{byte('a' + i%26)}, 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
		}
	}
}

func TestWatchMissingRoot(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "missing"), 0, zerolog.Nop(), func() {})
	if err == nil {
		t.Error("expected error for missing root")
	}
}
