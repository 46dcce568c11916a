package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
)

func TestShouldIgnoreEvent(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/site/_posts/a.md", false},
		{"/site/_posts/.a.md.swp", true},
		{"/site/_posts/a.md~", true},
		{"/site/_posts/#a.md#", true},
		{"/site/.git", true},
		{"/site/templates/post-template.html", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, shouldIgnoreEvent(tt.path), tt.path)
	}
}

func TestForConfig(t *testing.T) {
	root := t.TempDir()
	cfg := config.DefaultConfig(root)
	cfg.Watch.Interval = "1m"

	opts := ForConfig(cfg)
	assert.Contains(t, opts.Dirs, filepath.Join(root, "_posts", "project"))
	assert.Contains(t, opts.Dirs, filepath.Join(root, "templates"))
	assert.Equal(t, 300*time.Millisecond, opts.Debounce)
	assert.Equal(t, time.Minute, opts.Interval)

	assert.True(t, opts.Relevant(filepath.Join(root, "_posts", "daily", "a.md")))
	assert.False(t, opts.Relevant(filepath.Join(root, "_posts", "daily", "a.html")))
	assert.True(t, opts.Relevant(filepath.Join(root, "templates", "nav-template.html")))
	assert.True(t, opts.Relevant(filepath.Join(root, "templates", "about-template.html")))
}

func TestDebouncerCoalescesTriggers(t *testing.T) {
	rebuildReq, trigger := newDebouncer(20 * time.Millisecond)
	for i := 0; i < 5; i++ {
		trigger()
	}

	select {
	case <-rebuildReq:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced rebuild was not requested")
	}
	select {
	case <-rebuildReq:
		t.Fatal("triggers were not coalesced")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRunRebuildsOnRelevantChanges(t *testing.T) {
	dir := t.TempDir()
	builds := make(chan struct{}, 10)
	w := New(func(context.Context) error {
		builds <- struct{}{}
		return nil
	}, Options{
		Dirs:     []string{dir},
		Relevant: func(p string) bool { return filepath.Ext(p) == ".md" },
		Debounce: 20 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	waitBuild(t, builds)

	// Give the watcher a moment to register before the write.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("# A"), 0o600))
	waitBuild(t, builds)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunScheduledRebuilds(t *testing.T) {
	builds := make(chan struct{}, 10)
	w := New(func(context.Context) error {
		builds <- struct{}{}
		return nil
	}, Options{Interval: 50 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	waitBuild(t, builds)
	waitBuild(t, builds)
	cancel()
	assert.NoError(t, <-done)
}

func waitBuild(t *testing.T, builds <-chan struct{}) {
	t.Helper()
	select {
	case <-builds:
	case <-time.After(5 * time.Second):
		t.Fatal("expected a build")
	}
}
