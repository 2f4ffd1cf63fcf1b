package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteindex/internal/models"
	"siteindex/internal/storage"
)

func newTestServer(t *testing.T) (*Server, storage.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, store.Initialize())
	t.Cleanup(func() { store.Close() })

	return NewServer(0, t.TempDir(), store), store
}

func doGet(t *testing.T, server *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	server, _ := newTestServer(t)

	w := doGet(t, server, "/api/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestListRuns(t *testing.T) {
	server, store := newTestServer(t)

	run := models.NewGenerationRun("https://example.com", "out")
	require.NoError(t, store.CreateRun(context.Background(), run))

	w := doGet(t, server, "/api/runs")
	require.Equal(t, http.StatusOK, w.Code)

	var resp PaginationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 50, resp.Limit)
}

func TestGetRun(t *testing.T) {
	server, store := newTestServer(t)

	run := models.NewGenerationRun("https://example.com", "out")
	require.NoError(t, store.CreateRun(context.Background(), run))

	w := doGet(t, server, "/api/runs/"+run.ID.String())
	require.Equal(t, http.StatusOK, w.Code)

	var got models.GenerationRun
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, run.ID, got.ID)
}

func TestGetRunBadID(t *testing.T) {
	server, _ := newTestServer(t)

	w := doGet(t, server, "/api/runs/not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetRunNotFound(t *testing.T) {
	server, _ := newTestServer(t)

	w := doGet(t, server, "/api/runs/"+models.NewGenerationRun("", "").ID.String())
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRoutesByRun(t *testing.T) {
	server, store := newTestServer(t)
	ctx := context.Background()

	run := models.NewGenerationRun("https://example.com", "out")
	require.NoError(t, store.CreateRun(ctx, run))

	route := models.NewRouteRecord(run.ID)
	route.URLPath = "/flashcards"
	route.Loc = "https://example.com/flashcards"
	route.Priority = 0.9
	route.ChangeFreq = models.Weekly
	route.LastMod = "2026-08-26"
	require.NoError(t, store.CreateRoute(ctx, route))

	w := doGet(t, server, "/api/runs/"+run.ID.String()+"/routes")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/flashcards")
}

func TestStartReturnsServerClosedAfterShutdown(t *testing.T) {
	// A graceful Shutdown must surface as http.ErrServerClosed from
	// Start, which callers treat as a clean exit.
	server, _ := newTestServer(t)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, server.Shutdown(context.Background()))

	select {
	case err := <-errCh:
		assert.True(t, errors.Is(err, http.ErrServerClosed), "got %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after Shutdown")
	}
}

func TestSearchRoutesRequiresQuery(t *testing.T) {
	server, _ := newTestServer(t)

	w := doGet(t, server, "/api/routes/search")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
