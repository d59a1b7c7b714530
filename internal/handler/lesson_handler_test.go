package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darsapp/dars-api/internal/models"
	"github.com/darsapp/dars-api/internal/service"
	"github.com/darsapp/dars-api/pkg/storage"
)

type stubThemeRepo struct {
	items []models.Theme
	total int
}

func (s *stubThemeRepo) List(ctx context.Context, filter models.ThemeFilter) ([]models.Theme, int, error) {
	return s.items, s.total, nil
}

func (s *stubThemeRepo) FindByID(ctx context.Context, id int64) (*models.Theme, error) {
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubThemeRepo) FindWithCounts(ctx context.Context, id int64) (*models.ThemeWithCounts, error) {
	t, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.ThemeWithCounts{Theme: *t}, nil
}

func (s *stubThemeRepo) Create(ctx context.Context, theme *models.Theme) error { return nil }
func (s *stubThemeRepo) Update(ctx context.Context, theme *models.Theme) error { return nil }
func (s *stubThemeRepo) Delete(ctx context.Context, id int64) error            { return nil }

type stubSeriesRepo struct {
	series map[int64]*models.LessonSeries
}

func (s *stubSeriesRepo) List(ctx context.Context, filter models.SeriesFilter) ([]models.LessonSeries, int, error) {
	return nil, 0, nil
}

func (s *stubSeriesRepo) FindByID(ctx context.Context, id int64) (*models.LessonSeries, error) {
	sr, ok := s.series[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return sr, nil
}

func (s *stubSeriesRepo) FindWithCounts(ctx context.Context, id int64) (*models.SeriesWithCounts, error) {
	sr, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.SeriesWithCounts{LessonSeries: *sr}, nil
}

func (s *stubSeriesRepo) Create(ctx context.Context, series *models.LessonSeries) error { return nil }
func (s *stubSeriesRepo) Update(ctx context.Context, series *models.LessonSeries) error { return nil }
func (s *stubSeriesRepo) SyncLessonDenormalization(ctx context.Context, series *models.LessonSeries) error {
	return nil
}
func (s *stubSeriesRepo) Delete(ctx context.Context, id int64) error { return nil }

type stubLessonRepo struct {
	lessons  map[int64]*models.Lesson
	bySeries map[int64][]models.Lesson
}

func (s *stubLessonRepo) List(ctx context.Context, filter models.LessonFilter) ([]models.Lesson, int, error) {
	return nil, 0, nil
}

func (s *stubLessonRepo) ListBySeries(ctx context.Context, seriesID int64) ([]models.Lesson, error) {
	return s.bySeries[seriesID], nil
}

func (s *stubLessonRepo) FindByID(ctx context.Context, id int64) (*models.Lesson, error) {
	l, ok := s.lessons[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return l, nil
}

func (s *stubLessonRepo) Create(ctx context.Context, lesson *models.Lesson) error { return nil }
func (s *stubLessonRepo) Update(ctx context.Context, lesson *models.Lesson) error { return nil }
func (s *stubLessonRepo) Delete(ctx context.Context, id int64) error              { return nil }

type stubTeacherRepo struct{}

func (stubTeacherRepo) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error) {
	return nil, 0, nil
}
func (stubTeacherRepo) FindByID(ctx context.Context, id int64) (*models.Teacher, error) {
	return nil, sql.ErrNoRows
}
func (stubTeacherRepo) Create(ctx context.Context, teacher *models.Teacher) error { return nil }
func (stubTeacherRepo) Update(ctx context.Context, teacher *models.Teacher) error { return nil }
func (stubTeacherRepo) Delete(ctx context.Context, id int64) error                { return nil }

type stubBookRepo struct{}

func (stubBookRepo) List(ctx context.Context, filter models.BookFilter) ([]models.Book, int, error) {
	return nil, 0, nil
}
func (stubBookRepo) FindByID(ctx context.Context, id int64) (*models.Book, error) {
	return nil, sql.ErrNoRows
}
func (stubBookRepo) Create(ctx context.Context, book *models.Book) error { return nil }
func (stubBookRepo) Update(ctx context.Context, book *models.Book) error { return nil }
func (stubBookRepo) Delete(ctx context.Context, id int64) error          { return nil }

func newLessonTestRouter(t *testing.T, lessons *stubLessonRepo, series *stubSeriesRepo, maxUpload int64) (*gin.Engine, *storage.LocalStorage) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	lessonSvc := service.NewLessonService(lessons, series, stubTeacherRepo{}, stubBookRepo{}, &stubThemeRepo{}, store, nil, nil, nil)
	h := NewLessonHandler(lessonSvc, nil, maxUpload)
	seriesSvc := service.NewSeriesService(series, stubTeacherRepo{}, stubBookRepo{}, &stubThemeRepo{}, nil, nil)
	sh := NewSeriesHandler(seriesSvc, lessonSvc)

	r := gin.New()
	r.GET("/series/:id/lessons", sh.Lessons)
	r.POST("/lessons/:id/audio", h.UploadAudio)
	r.GET("/lessons/:id/audio", h.StreamAudio)
	return r, store
}

func TestSeriesLessonsReturnsBareArray(t *testing.T) {
	series := &stubSeriesRepo{series: map[int64]*models.LessonSeries{
		10: {ID: 10, Name: "Серия", Year: 2023, TeacherID: 1, IsActive: true},
	}}
	lessons := &stubLessonRepo{bySeries: map[int64][]models.Lesson{
		10: {
			{ID: 1, Title: "Урок 1", SeriesID: 10, IsActive: true},
			{ID: 2, Title: "Урок 2", SeriesID: 10, IsActive: true},
		},
	}}
	r, _ := newLessonTestRouter(t, lessons, series, 1<<20)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/series/10/lessons", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := strings.TrimSpace(w.Body.String())
	assert.True(t, strings.HasPrefix(body, "["), "expected a bare array, got %s", body)

	var payload []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.Len(t, payload, 2)
	assert.Equal(t, "Урок 1", payload[0]["title"])
	_, hasSeriesID := payload[0]["series_id"]
	assert.False(t, hasSeriesID)
}

func TestSeriesLessonsEmptySeriesYieldsEmptyArray(t *testing.T) {
	series := &stubSeriesRepo{series: map[int64]*models.LessonSeries{
		10: {ID: 10, Name: "Серия", Year: 2023, TeacherID: 1, IsActive: true},
	}}
	lessons := &stubLessonRepo{bySeries: map[int64][]models.Lesson{}}
	r, _ := newLessonTestRouter(t, lessons, series, 1<<20)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/series/10/lessons", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestUploadAudioRejectsOversizedBody(t *testing.T) {
	lessons := &stubLessonRepo{lessons: map[int64]*models.Lesson{
		4: {ID: 4, Title: "Урок", SeriesID: 10, IsActive: true},
	}}
	series := &stubSeriesRepo{series: map[int64]*models.LessonSeries{}}
	r, _ := newLessonTestRouter(t, lessons, series, 64)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "lecture.mp3")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte("a"), 256))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/lessons/4/audio", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, "PAYLOAD_TOO_LARGE", payload.Error.Code)
}

func TestUploadAudioRejectsOversizedChunkedBody(t *testing.T) {
	lessons := &stubLessonRepo{lessons: map[int64]*models.Lesson{
		4: {ID: 4, Title: "Урок", SeriesID: 10, IsActive: true},
	}}
	series := &stubSeriesRepo{series: map[int64]*models.LessonSeries{}}
	r, _ := newLessonTestRouter(t, lessons, series, 64)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "lecture.mp3")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte("a"), 256))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	// Wrapping the buffer hides its length, so the request goes out
	// chunked with ContentLength -1.
	req := httptest.NewRequest(http.MethodPost, "/lessons/4/audio", io.MultiReader(&buf))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.Equal(t, int64(-1), req.ContentLength)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, "PAYLOAD_TOO_LARGE", payload.Error.Code)
}

func TestStreamAudioServesRanges(t *testing.T) {
	lessons := &stubLessonRepo{lessons: map[int64]*models.Lesson{
		4: {ID: 4, Title: "Урок", SeriesID: 10, IsActive: true},
	}}
	series := &stubSeriesRepo{series: map[int64]*models.LessonSeries{}}
	r, store := newLessonTestRouter(t, lessons, series, 1<<20)

	saved, err := store.SaveStream("processed/lesson_4.mp3", strings.NewReader("0123456789"))
	require.NoError(t, err)
	lessons.lessons[4].AudioPath = &saved

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/lessons/4/audio", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "audio/mpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, "bytes", w.Header().Get("Accept-Ranges"))
	assert.Equal(t, "0123456789", w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/lessons/4/audio", nil)
	req.Header.Set("Range", "bytes=2-5")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusPartialContent, w.Code)
	assert.Equal(t, "bytes 2-5/10", w.Header().Get("Content-Range"))
	assert.Equal(t, "2345", w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/lessons/4/audio", nil)
	req.Header.Set("Range", "bytes=50-60")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestedRangeNotSatisfiable, w.Code)
}

func TestStreamAudioMissingFileIs404(t *testing.T) {
	lessons := &stubLessonRepo{lessons: map[int64]*models.Lesson{
		4: {ID: 4, Title: "Урок", SeriesID: 10, IsActive: true},
	}}
	series := &stubSeriesRepo{series: map[int64]*models.LessonSeries{}}
	r, _ := newLessonTestRouter(t, lessons, series, 1<<20)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/lessons/4/audio", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
