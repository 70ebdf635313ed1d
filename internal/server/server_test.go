package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutragenie/nutragenie/internal/metrics"
	"github.com/nutragenie/nutragenie/internal/remote"
	"github.com/nutragenie/nutragenie/internal/snapshot"
)

func setupTestServer(t *testing.T) (*httptest.Server, *Repository, *metrics.Metrics) {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	m := metrics.New()
	srv := httptest.NewServer(New(repo, m, nil).Handler())
	t.Cleanup(srv.Close)
	return srv, repo, m
}

func postRecord(t *testing.T, url string, rec remote.Record) (*http.Response, remote.Record) {
	t.Helper()
	body, err := json.Marshal(rec)
	require.NoError(t, err)
	resp, err := http.Post(url+"/api/users", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out remote.Record
	if resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func TestRepository_UpsertMerges(t *testing.T) {
	repo, err := Open(":memory:")
	require.NoError(t, err)
	defer repo.Close()
	ctx := context.Background()

	first, created, err := repo.Upsert(ctx, remote.Record{Fields: map[string]string{"account.name": "Ada"}})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, first.ID)

	second, created, err := repo.Upsert(ctx, remote.Record{ID: first.ID, Fields: map[string]string{"location.zip": "94107"}})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, map[string]string{"account.name": "Ada", "location.zip": "94107"}, second.Fields)

	got, err := repo.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, second.Fields, got.Fields)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = repo.Upsert(ctx, remote.Record{ID: "a/b"})
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestServer_CreateAndGet(t *testing.T) {
	srv, _, _ := setupTestServer(t)

	resp, stored := postRecord(t, srv.URL, remote.Record{Fields: map[string]string{"account.name": "Ada"}})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, stored.ID)

	resp, again := postRecord(t, srv.URL, remote.Record{ID: stored.ID, Fields: map[string]string{"goal.goal": "lose"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Ada", again.Fields["account.name"])

	get, err := http.Get(srv.URL + "/api/users/" + stored.ID)
	require.NoError(t, err)
	defer get.Body.Close()
	require.Equal(t, http.StatusOK, get.StatusCode)

	var fetched remote.Record
	require.NoError(t, json.NewDecoder(get.Body).Decode(&fetched))
	assert.Equal(t, "lose", fetched.Fields["goal.goal"])
}

func TestServer_Errors(t *testing.T) {
	srv, _, _ := setupTestServer(t)

	resp, err := http.Get(srv.URL + "/api/users/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/api/users", "application/json", bytes.NewReader([]byte("{bad")))
	require.NoError(t, err)
	var er ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&er))
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_body", er.Error)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/users/x", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestServer_HealthAndMetrics(t *testing.T) {
	srv, _, _ := setupTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	postRecord(t, srv.URL, remote.Record{Fields: map[string]string{"a": "b"}})

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `nutragenie_http_requests_total{code="201",route="POST /api/users"} 1`)
	assert.Contains(t, buf.String(), `nutragenie_stored_records 1`)
}

// The remote client and syncer work end to end against the real server.
func TestServer_WithSyncer(t *testing.T) {
	srv, repo, _ := setupTestServer(t)

	store := snapshot.NewStore(snapshot.NewMemoryBackend())
	syncer := remote.NewSyncer(store, remote.NewClient(srv.URL, time.Second))

	saved, err := syncer.Persist(context.Background(), snapshot.New().
		Set(snapshot.KeyName, "Ada").
		SetList(snapshot.KeyRestrictions, []string{"vegan"}).
		Confirm("account", true))
	require.NoError(t, err)
	syncer.Wait()

	got, err := repo.Get(context.Background(), saved.ID)
	require.NoError(t, err)
	back := remote.Expand(got)
	assert.Equal(t, "Ada", back.Values[snapshot.KeyName])
	assert.Equal(t, []string{"vegan"}, back.Lists[snapshot.KeyRestrictions])
	assert.True(t, back.Confirmed["account"])

	client := remote.NewClient(srv.URL, time.Second)
	require.NoError(t, client.Ping(context.Background()))
	fetched, err := client.Get(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, fetched.ID)
}
