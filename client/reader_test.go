package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderServesRemoteRows(t *testing.T) {
	srv := newCatalogServer(t)
	cache := newTestCache(t)
	reader := NewReader(New(srv.URL), cache, nil)
	ctx := context.Background()

	themes, err := reader.Themes(ctx, ListParams{})
	require.NoError(t, err)
	require.Len(t, themes, 2)
	assert.Equal(t, "Акыда", themes[0].Name)
	assert.False(t, reader.Offline())
}

func TestReaderFallsBackToCacheWhenUnreachable(t *testing.T) {
	srv := newCatalogServer(t)
	cache := newTestCache(t)
	ctx := context.Background()

	_, err := NewSyncer(New(srv.URL), cache, nil).SyncAll(ctx)
	require.NoError(t, err)
	srv.Close()

	reader := NewReader(New(srv.URL), cache, nil)
	themes, err := reader.Themes(ctx, ListParams{})
	require.NoError(t, err)
	require.Len(t, themes, 2)
	assert.Equal(t, "Акыда", themes[0].Name)

	lessons, err := reader.SeriesLessons(ctx, 10)
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	assert.Equal(t, int64(10), lessons[0].SeriesID)
	assert.True(t, reader.Offline())
}

func TestReaderDoesNotFallBackOnAPIError(t *testing.T) {
	srv := newCatalogServer(t)
	cache := newTestCache(t)
	ctx := context.Background()

	_, err := NewSyncer(New(srv.URL), cache, nil).SyncAll(ctx)
	require.NoError(t, err)

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failing.Close()

	reader := NewReader(New(failing.URL), cache, nil)
	_, err = reader.Themes(ctx, ListParams{})
	require.Error(t, err)

	var aerr *APIError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, http.StatusInternalServerError, aerr.StatusCode)
}

func TestReaderSeriesLessonsWritesBack(t *testing.T) {
	srv := newCatalogServer(t)
	cache := newTestCache(t)
	reader := NewReader(New(srv.URL), cache, nil)
	ctx := context.Background()

	lessons, err := reader.SeriesLessons(ctx, 10)
	require.NoError(t, err)
	require.Len(t, lessons, 2)

	// Rows fetched through the reader land in the cache without a sync.
	cached, err := cache.SeriesLessons(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, lessons, cached)
}
