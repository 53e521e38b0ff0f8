package build

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"
)

func TestShouldIgnoreEvent(t *testing.T) {
	tests := map[string]bool{
		"/c/post.md":        false,
		"/c/.post.md.swp":   true,
		"/c/post.md~":       true,
		"/c/#post.md#":      true,
		"/c/.hidden.md":     true,
		"/c/Thumbs.db":      true,
		"/c/nested/post.md": false,
	}
	for path, want := range tests {
		require.Equal(t, want, shouldIgnoreEvent(path), path)
	}
}

func TestHandleFileEvent_TopLevelMarkdownOnly(t *testing.T) {
	dir := filepath.Join("c", "content")
	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "top level post", path: filepath.Join(dir, "post.md"), want: true},
		{name: "nested post", path: filepath.Join(dir, "drafts", "post.md"), want: false},
		{name: "non markdown", path: filepath.Join(dir, "notes.txt"), want: false},
		{name: "temp file", path: filepath.Join(dir, ".post.md.123.tmp"), want: false},
		{name: "sibling directory", path: filepath.Join("c", "other", "post.md"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fired := false
			handleFileEvent(dir, fsnotify.Event{Name: tt.path, Op: fsnotify.Write}, func() { fired = true }, slog.Default())
			require.Equal(t, tt.want, fired)
		})
	}
}

func TestDebouncer_CoalescesBursts(t *testing.T) {
	req, trigger, stop := newDebouncer(20 * time.Millisecond)
	defer stop()

	for range 10 {
		trigger()
	}
	select {
	case <-req:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced request never fired")
	}
	select {
	case <-req:
		t.Fatal("burst produced more than one request")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatch_RebuildsOnMarkdownChange(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "content")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var builds atomic.Int32
	rebuilt := make(chan struct{}, 10)
	rebuild := func(context.Context) error {
		builds.Add(1)
		rebuilt <- struct{}{}
		return errors.New("failures are logged, not fatal")
	}

	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, dir, 20*time.Millisecond, rebuild, nil)
	}()

	// Wait for the watcher to create and register the directory.
	require.Eventually(t, func() bool {
		_, err := os.Stat(dir)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "post.md"), []byte("---\n---\n"), 0o600))

	select {
	case <-rebuilt:
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild after markdown change")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
	require.GreaterOrEqual(t, builds.Load(), int32(1))
}

func TestWatch_IgnoresNestedMarkdown(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "drafts")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var builds atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, dir, 20*time.Millisecond, func(context.Context) error {
			builds.Add(1)
			return nil
		}, nil)
	}()
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(nested, "post.md"), []byte("---\n---\n"), 0o600))
	time.Sleep(300 * time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
	require.Zero(t, builds.Load())
}
