package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billie-coop/settle/internal/fakeclock"
)

type batches struct {
	mu  sync.Mutex
	got [][]string
}

func (b *batches) add(paths []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.got = append(b.got, paths)
}

func (b *batches) all() [][]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][]string(nil), b.got...)
}

func newTestWatcher(t *testing.T) (*FileWatcher, *fakeclock.Clock, *batches) {
	t.Helper()
	clock := fakeclock.New()
	b := &batches{}
	w := New(Config{DebounceDelay: 100 * time.Millisecond, Clock: clock}, b.add)
	t.Cleanup(func() { _ = w.Stop() })
	return w, clock, b
}

func TestFileWatcher_DebouncesBurst(t *testing.T) {
	w, clock, b := newTestWatcher(t)

	require.NoError(t, w.FileChanged("src/b.go"))
	require.NoError(t, w.FileChanged("src/a.go"))
	clock.Advance(50 * time.Millisecond)
	require.NoError(t, w.FilesChanged([]string{"src/c.go", "src/a.go"}))
	assert.Equal(t, 3, w.Pending())

	clock.Advance(99 * time.Millisecond)
	assert.Empty(t, b.all())

	clock.Advance(time.Millisecond)
	assert.Equal(t, [][]string{{"src/a.go", "src/b.go", "src/c.go"}}, b.all())
	assert.Zero(t, w.Pending())
}

func TestFileWatcher_SeparateBursts(t *testing.T) {
	w, clock, b := newTestWatcher(t)

	require.NoError(t, w.FileChanged("one.go"))
	clock.Advance(time.Second)
	require.NoError(t, w.FileChanged("two.go"))
	clock.Advance(time.Second)

	assert.Equal(t, [][]string{{"one.go"}, {"two.go"}}, b.all())
}

func TestFileWatcher_IgnoredPathsDoNotArm(t *testing.T) {
	w, clock, b := newTestWatcher(t)

	require.NoError(t, w.FilesChanged([]string{
		"node_modules/x/index.js",
		"app/.env",
		"debug.log",
		"main.go~",
		".git/HEAD",
	}))
	assert.Zero(t, clock.Pending())

	clock.Advance(time.Second)
	assert.Empty(t, b.all())
}

func TestFileWatcher_ExtraIgnorePaths(t *testing.T) {
	clock := fakeclock.New()
	w := New(Config{DebounceDelay: time.Millisecond, Clock: clock, IgnorePaths: []string{"generated"}}, nil)
	defer w.Stop()

	assert.True(t, w.shouldIgnore("pkg/generated/types.go"))
	assert.False(t, w.shouldIgnore("pkg/generator/types.go"))
	assert.False(t, w.shouldIgnore("outline/readme.md"))
	assert.True(t, w.shouldIgnore("out/readme.md"))
}

func TestFileWatcher_StopDropsPending(t *testing.T) {
	w, clock, b := newTestWatcher(t)

	require.NoError(t, w.FileChanged("main.go"))
	require.NoError(t, w.Stop())
	clock.Advance(time.Second)

	assert.Empty(t, b.all())
	require.NoError(t, w.FileChanged("late.go"))
	assert.ErrorIs(t, w.Watch(context.Background(), t.TempDir()), ErrStopped)
}

func TestFileWatcher_WatchDirectory(t *testing.T) {
	dir := t.TempDir()
	got := make(chan []string, 128)
	w := New(Config{DebounceDelay: 30 * time.Millisecond}, func(paths []string) { got <- paths })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx, dir) }()
	defer func() {
		cancel()
		<-done
		_ = w.Stop()
	}()

	target := filepath.Join(dir, "main.go")
	// Watch registers the directory asynchronously, so keep touching the
	// file until a batch comes through.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(target, []byte("package main\n"), 0o644)
		return len(got) > 0
	}, 3*time.Second, 50*time.Millisecond)

	assert.Contains(t, <-got, target)
}
