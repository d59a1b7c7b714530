package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientListThemesDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/themes", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("skip"))
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		fmt.Fprint(w, `{
			"items": [
				{"id": 1, "name": "Акыда", "sort_order": 1, "is_active": true},
				{"id": 2, "name": "Фикх", "description": "Право", "sort_order": 2, "is_active": true}
			],
			"total": 12, "skip": 5, "limit": 2
		}`)
	}))
	defer srv.Close()

	c := New(srv.URL)
	page, err := c.ListThemes(context.Background(), ListParams{Skip: 5, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 12, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Акыда", page.Items[0].Name)
	assert.Nil(t, page.Items[0].Description)
	require.NotNil(t, page.Items[1].Description)
	assert.Equal(t, "Право", *page.Items[1].Description)
}

func TestClientDecodesEmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": [], "total": 0, "skip": 0, "limit": 100}`)
	}))
	defer srv.Close()

	c := New(srv.URL)
	page, err := c.ListThemes(context.Background(), ListParams{Search: "nomatch"})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.Total)
}

func TestClientMissingRequiredFieldNamesEntityAndField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": [{"id": 1, "is_active": true}], "total": 1, "skip": 0, "limit": 100}`)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ListThemes(context.Background(), ListParams{})
	require.Error(t, err)

	var derr *DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "theme", derr.Entity)
	assert.Equal(t, "name", derr.Field)
}

func TestClientNullRequiredFieldIsDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": [{"id": 7, "name": null, "is_active": true}], "total": 1, "skip": 0, "limit": 100}`)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ListThemes(context.Background(), ListParams{})
	var derr *DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "theme", derr.Entity)
	assert.Equal(t, "name", derr.Field)
}

func TestClientWrongTypeIsDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": [{"id": "one", "name": "Акыда", "is_active": true}], "total": 1, "skip": 0, "limit": 100}`)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ListThemes(context.Background(), ListParams{})
	var derr *DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "theme", derr.Entity)
	assert.Equal(t, "id", derr.Field)
	assert.Contains(t, derr.Error(), "theme.id")
}

func TestClientMissingEnvelopeFieldIsDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": [], "skip": 0, "limit": 100}`)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ListThemes(context.Background(), ListParams{})
	var derr *DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "total", derr.Field)
}

func TestClientMapsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error": {"code": "NOT_FOUND", "message": "theme not found", "status": 404}}`)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.GetTheme(context.Background(), 99)
	require.Error(t, err)

	var aerr *APIError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, http.StatusNotFound, aerr.StatusCode)
	assert.Equal(t, "NOT_FOUND", aerr.Code)
	assert.Equal(t, "theme not found", aerr.Message)

	var terr *TransportError
	assert.False(t, errors.As(err, &terr))
}

func TestClientUnreachableServerIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(srv.URL)
	_, err := c.ListThemes(context.Background(), ListParams{})
	require.Error(t, err)

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Contains(t, terr.Op, "/themes")
}

func TestClientSeriesLessonsInjectsSeriesID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/series/10/lessons", r.URL.Path)
		fmt.Fprint(w, `[
			{"id": 1, "title": "Урок 1", "lesson_number": 1, "is_active": true},
			{"id": 2, "title": "Урок 2", "lesson_number": 2, "duration_seconds": 300, "is_active": true}
		]`)
	}))
	defer srv.Close()

	c := New(srv.URL)
	lessons, err := c.ListSeriesLessons(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	assert.Equal(t, int64(10), lessons[0].SeriesID)
	assert.Equal(t, int64(10), lessons[1].SeriesID)
	require.NotNil(t, lessons[1].DurationSeconds)
	assert.Equal(t, 300, *lessons[1].DurationSeconds)
}

func TestClientSeriesLessonsRejectsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": [], "total": 0, "skip": 0, "limit": 100}`)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ListSeriesLessons(context.Background(), 10)
	var derr *DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "lesson", derr.Entity)
}

func TestClientSendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"items": [], "total": 0, "skip": 0, "limit": 100}`)
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("secret-token"))
	_, err := c.ListThemes(context.Background(), ListParams{})
	require.NoError(t, err)
}
