package vault

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskvault/taskvault/internal/event"
)

func collect(ch <-chan event.Event, want event.Type, path string, timeout time.Duration) bool {
	deadline := time.After(timeout)
	for {
		select {
		case ev := <-ch:
			if ev.Type == want && ev.Path == path {
				return true
			}
		case <-deadline:
			return false
		}
	}
}

func TestWatcherPublishesMarkdownEvents(t *testing.T) {
	v, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	bus := event.New()
	id, ch := bus.Subscribe(64)
	defer bus.Unsubscribe(id)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- NewWatcher(v, bus).Run(ctx) }()

	// Give the watcher a moment to register the root.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(v.BasePath(), "note.md")
	require.NoError(t, os.WriteFile(path, []byte("- [ ] x\n"), 0o644))
	require.True(t, collect(ch, event.FileCreated, "note.md", 3*time.Second), "create event expected")

	require.NoError(t, os.Remove(path))
	require.True(t, collect(ch, event.FileDeleted, "note.md", 3*time.Second), "delete event expected")

	cancel()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}

func TestWatcherIgnoresNonMarkdown(t *testing.T) {
	v, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	bus := event.New()
	id, ch := bus.Subscribe(64)
	defer bus.Unsubscribe(id)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = NewWatcher(v, bus).Run(ctx) }()
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(v.BasePath(), "data.txt"), []byte("x"), 0o644))

	select {
	case ev := <-ch:
		t.Fatalf("unexpected event for non-markdown file: %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}
}
