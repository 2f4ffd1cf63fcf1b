package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteindex/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, store.Initialize())
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRunRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run := models.NewGenerationRun("https://example.com", "out")
	require.NoError(t, store.CreateRun(ctx, run))

	got, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "https://example.com", got.SiteURL)
	assert.Equal(t, "out", got.OutputDir)
	assert.Equal(t, models.RunStatusRunning, got.Status)
	assert.Nil(t, got.CompletedAt)
}

func TestUpdateRun(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run := models.NewGenerationRun("https://example.com", "out")
	require.NoError(t, store.CreateRun(ctx, run))

	completedAt := time.Now()
	run.RouteCount = 12
	run.SkippedCount = 2
	run.Status = models.RunStatusCompleted
	run.CompletedAt = &completedAt
	require.NoError(t, store.UpdateRun(ctx, run))

	got, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 12, got.RouteCount)
	assert.Equal(t, 2, got.SkippedCount)
	assert.Equal(t, models.RunStatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
}

func TestGetRunNotFound(t *testing.T) {
	store := newTestStore(t)

	run := models.NewGenerationRun("https://example.com", "out")
	got, err := store.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListRuns(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.CreateRun(ctx, models.NewGenerationRun("https://example.com", "out")))
	}

	runs, err := store.ListRuns(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	runs, err = store.ListRuns(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestRouteRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run := models.NewGenerationRun("https://example.com", "out")
	require.NoError(t, store.CreateRun(ctx, run))

	route := models.NewRouteRecord(run.ID)
	route.URLPath = "/flashcards"
	route.Loc = "https://example.com/flashcards"
	route.Title = "Flashcards"
	route.Priority = 0.9
	route.ChangeFreq = models.Weekly
	route.LastMod = "2026-08-26"
	require.NoError(t, store.CreateRoute(ctx, route))

	routeRecords, err := store.GetRoutesByRun(ctx, run.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, routeRecords, 1)

	got := routeRecords[0]
	assert.Equal(t, route.ID, got.ID)
	assert.Equal(t, run.ID, got.RunID)
	assert.Equal(t, "/flashcards", got.URLPath)
	assert.Equal(t, "https://example.com/flashcards", got.Loc)
	assert.Equal(t, "Flashcards", got.Title)
	assert.Equal(t, 0.9, got.Priority)
	assert.Equal(t, models.Weekly, got.ChangeFreq)
	assert.Equal(t, "2026-08-26", got.LastMod)
	assert.False(t, got.Noindex)
}

func TestSearchRoutes(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run := models.NewGenerationRun("https://example.com", "out")
	require.NoError(t, store.CreateRun(ctx, run))

	paths := map[string]string{
		"/flashcards":    "Flashcards",
		"/databases/sql": "SQL Basics",
		"/about":         "About",
	}
	for p, title := range paths {
		route := models.NewRouteRecord(run.ID)
		route.URLPath = p
		route.Loc = "https://example.com" + p
		route.Title = title
		route.Priority = 0.7
		route.ChangeFreq = models.Weekly
		route.LastMod = "2026-08-26"
		require.NoError(t, store.CreateRoute(ctx, route))
	}

	matches, err := store.SearchRoutes(ctx, "flash", 50, 0)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "/flashcards", matches[0].URLPath)

	matches, err = store.SearchRoutes(ctx, "SQL", 50, 0)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "/databases/sql", matches[0].URLPath)
}
