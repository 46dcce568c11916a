package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_PageFingerprints(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	fp := Fingerprint("index.html", "<p>hi</p>")
	unchanged, err := s.Unchanged(ctx, "index.html", fp)
	require.NoError(t, err)
	assert.False(t, unchanged)

	require.NoError(t, s.Record(ctx, "b1", "index.html", fp))
	unchanged, err = s.Unchanged(ctx, "index.html", fp)
	require.NoError(t, err)
	assert.True(t, unchanged)

	changed := Fingerprint("index.html", "<p>bye</p>")
	assert.NotEqual(t, fp, changed)
	unchanged, err = s.Unchanged(ctx, "index.html", changed)
	require.NoError(t, err)
	assert.False(t, unchanged)

	require.NoError(t, s.Record(ctx, "b2", "index.html", changed))
	n, err := s.Pages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, s.Forget(ctx, "index.html"))
	n, err = s.Pages(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_BuildHistory(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, ok, err := s.LastBuild(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	start := time.Now().Add(-time.Minute).Truncate(time.Millisecond)
	require.NoError(t, s.RecordBuild(ctx, BuildRecord{ID: "old", StartedAt: start, FinishedAt: start.Add(time.Second), Outcome: "success"}))
	require.NoError(t, s.RecordBuild(ctx, BuildRecord{ID: "new", StartedAt: start, FinishedAt: start.Add(2 * time.Second), Written: 4, Skipped: 1, Outcome: "warning", Failures: 1}))

	last, ok, err := s.LastBuild(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "new", last.ID)
	assert.Equal(t, 4, last.Written)
	assert.Equal(t, 1, last.Failures)
	assert.True(t, last.FinishedAt.Equal(start.Add(2*time.Second)))
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.FileExists(t, path)
}
