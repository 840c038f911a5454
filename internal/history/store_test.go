package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleResults() []FileResult {
	return []FileResult{
		{Path: "data/ansi/welcome.ans", LineCount: 12, SampleCount: 10, MinWidth: 62, MaxWidth: 62, Consistent: true},
		{Path: "data/ansi/goodbye.ans", LineCount: 8, SampleCount: 6, MinWidth: 60, MaxWidth: 62, Consistent: false},
		{Path: "data/ansi/missing.ans", Error: "open data/ansi/missing.ans: no such file or directory"},
	}
}

func TestStore_RecordAndListRuns(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	runID, err := store.RecordRun(ctx, time.Now(), sampleResults())
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	assert.Equal(t, runID, runs[0].ID)
	assert.Equal(t, 3, runs[0].FileCount)
	assert.Equal(t, 1, runs[0].ErrorCount)
}

func TestStore_RunResults(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	runID, err := store.RecordRun(ctx, time.Now(), sampleResults())
	require.NoError(t, err)

	results, err := store.RunResults(ctx, runID)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "data/ansi/welcome.ans", results[0].Path)
	assert.True(t, results[0].Consistent)
	assert.Equal(t, 62, results[0].MinWidth)

	assert.False(t, results[1].Consistent)
	assert.Equal(t, 60, results[1].MinWidth)
	assert.Equal(t, 62, results[1].MaxWidth)

	assert.NotEmpty(t, results[2].Error)
	assert.Zero(t, results[2].LineCount)
}

func TestStore_ListRunsLimitAndOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		_, err := store.RecordRun(ctx, base.Add(time.Duration(i)*time.Minute), sampleResults()[:1])
		require.NoError(t, err)
	}

	runs, err := store.ListRuns(ctx, 3)
	require.NoError(t, err)
	require.Len(t, runs, 3)

	// Newest first.
	for i := 1; i < len(runs); i++ {
		assert.True(t, runs[i-1].StartedAt.After(runs[i].StartedAt) || runs[i-1].StartedAt.Equal(runs[i].StartedAt))
	}
}

func TestStore_Stats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.RecordRun(ctx, time.Now(), sampleResults())
	require.NoError(t, err)
	_, err = store.RecordRun(ctx, time.Now(), sampleResults()[:1])
	require.NoError(t, err)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Runs)
	assert.Equal(t, 4, stats.Files)
	assert.Equal(t, 1, stats.InconsistentFiles)
	assert.Equal(t, 1, stats.FailedFiles)
}

func TestStore_ClearAll(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	runID, err := store.RecordRun(ctx, time.Now(), sampleResults())
	require.NoError(t, err)

	deleted, err := store.Clear(ctx, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, runs)

	// The file results go with their runs.
	results, err := store.RunResults(ctx, runID)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestStore_ClearAcrossConnections(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	// Force every statement onto a fresh pooled connection, the way a
	// grown pool would behave, so per-connection settings that were
	// only applied once would be missing here.
	store.db.SetMaxIdleConns(0)

	ctx := context.Background()
	runID, err := store.RecordRun(ctx, time.Now(), sampleResults())
	require.NoError(t, err)

	deleted, err := store.Clear(ctx, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	results, err := store.RunResults(ctx, runID)
	require.NoError(t, err)
	assert.Empty(t, results, "file results must not outlive their run")
}

func TestStore_ClearOlderThan(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.RecordRun(ctx, time.Now().AddDate(0, 0, -120), sampleResults()[:1])
	require.NoError(t, err)
	_, err = store.RecordRun(ctx, time.Now(), sampleResults()[:1])
	require.NoError(t, err)

	deleted, err := store.Clear(ctx, 90)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestNewStore_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "history.db")

	store, err := NewStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.RecordRun(context.Background(), time.Now(), sampleResults()[:1])
	require.NoError(t, err)
}

func TestNewStore_ReopenExisting(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	store, err := NewStore(dbPath)
	require.NoError(t, err)
	_, err = store.RecordRun(ctx, time.Now(), sampleResults()[:1])
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewStore(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	runs, err := reopened.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
