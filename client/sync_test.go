package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePage(w http.ResponseWriter, items []map[string]any) {
	json.NewEncoder(w).Encode(map[string]any{
		"items": items,
		"total": len(items),
		"skip":  0,
		"limit": 200,
	})
}

// newCatalogServer serves a small fixed catalog. Lesson payloads omit
// series_id, matching the real API.
func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/themes", func(w http.ResponseWriter, r *http.Request) {
		writePage(w, []map[string]any{
			{"id": 1, "name": "Акыда", "sort_order": 1, "is_active": true},
			{"id": 2, "name": "Фикх", "sort_order": 2, "is_active": true},
		})
	})
	mux.HandleFunc("/authors", func(w http.ResponseWriter, r *http.Request) {
		writePage(w, []map[string]any{
			{"id": 1, "name": "ан-Навави", "is_active": true},
		})
	})
	mux.HandleFunc("/books", func(w http.ResponseWriter, r *http.Request) {
		writePage(w, []map[string]any{
			{"id": 2, "name": "Рияд ас-салихин", "theme_id": 1, "author_id": 1, "is_active": true},
		})
	})
	mux.HandleFunc("/teachers", func(w http.ResponseWriter, r *http.Request) {
		writePage(w, []map[string]any{
			{"id": 1, "name": "Абу Ислам", "is_active": true},
		})
	})
	mux.HandleFunc("/series", func(w http.ResponseWriter, r *http.Request) {
		writePage(w, []map[string]any{
			{"id": 10, "name": "Рияд ас-салихин", "year": 2021, "teacher_id": 1, "book_id": 2, "theme_id": 1, "is_completed": false, "is_active": true},
			{"id": 20, "name": "Сира", "year": 2023, "teacher_id": 1, "is_completed": true, "is_active": true},
		})
	})
	mux.HandleFunc("/series/10/lessons", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": 1, "title": "Урок 1", "lesson_number": 1, "is_active": true},
			{"id": 2, "title": "Урок 2", "lesson_number": 2, "is_active": true},
		})
	})
	mux.HandleFunc("/series/20/lessons", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": 3, "title": "Урок 1", "lesson_number": 1, "is_active": true},
		})
	})
	mux.HandleFunc("/tests", func(w http.ResponseWriter, r *http.Request) {
		writePage(w, []map[string]any{
			{"id": 4, "title": "Тест", "series_id": 10, "teacher_id": 1, "passing_score": 70, "time_per_question_seconds": 60, "is_active": true},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSyncAllPopulatesCache(t *testing.T) {
	srv := newCatalogServer(t)
	cache := newTestCache(t)
	syncer := NewSyncer(New(srv.URL), cache, nil)
	ctx := context.Background()

	report, err := syncer.SyncAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, &SyncReport{Themes: 2, Authors: 1, Books: 1, Teachers: 1, Series: 2, Lessons: 3, Tests: 1}, report)

	lessons, err := cache.SeriesLessons(ctx, 10)
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	for _, l := range lessons {
		assert.Equal(t, int64(10), l.SeriesID)
	}

	lessons, err = cache.SeriesLessons(ctx, 20)
	require.NoError(t, err)
	require.Len(t, lessons, 1)
	assert.Equal(t, int64(20), lessons[0].SeriesID)
}

func TestSyncAllIsIdempotent(t *testing.T) {
	srv := newCatalogServer(t)
	cache := newTestCache(t)
	syncer := NewSyncer(New(srv.URL), cache, nil)
	ctx := context.Background()

	first, err := syncer.SyncAll(ctx)
	require.NoError(t, err)
	themesAfterFirst, err := cache.Themes(ctx)
	require.NoError(t, err)

	second, err := syncer.SyncAll(ctx)
	require.NoError(t, err)
	themesAfterSecond, err := cache.Themes(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, themesAfterFirst, themesAfterSecond)

	series, err := cache.Series(ctx)
	require.NoError(t, err)
	assert.Len(t, series, 2)
}

func TestSyncAllHandlesEmptyCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writePage(w, []map[string]any{})
	}))
	defer srv.Close()
	cache := newTestCache(t)

	report, err := NewSyncer(New(srv.URL), cache, nil).SyncAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &SyncReport{}, report)
}

func TestSyncAllReportsFailedSeries(t *testing.T) {
	srv := newCatalogServer(t)
	cache := newTestCache(t)
	ctx := context.Background()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/series/20/lessons" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		srv.Config.Handler.ServeHTTP(w, r)
	}))
	defer broken.Close()

	_, err := NewSyncer(New(broken.URL), cache, nil).SyncAll(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sync lessons of series 20")

	var aerr *APIError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, http.StatusInternalServerError, aerr.StatusCode)
}
