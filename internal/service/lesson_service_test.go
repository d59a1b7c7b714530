package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darsapp/dars-api/internal/models"
	appErrors "github.com/darsapp/dars-api/pkg/errors"
	"github.com/darsapp/dars-api/pkg/storage"
)

func newLessonFixture(t *testing.T) (*LessonService, *mockLessonRepo, *mockSeriesRepo) {
	t.Helper()
	bookID := int64(2)
	themeID := int64(5)

	repo := &mockLessonRepo{lessons: map[int64]*models.Lesson{}}
	series := &mockSeriesRepo{series: map[int64]*models.LessonSeries{
		10: {ID: 10, Name: "Рияд ас-салихин", Year: 2021, TeacherID: 1, BookID: &bookID, ThemeID: &themeID, IsActive: true},
	}}
	teachers := &mockTeacherRepo{teachers: map[int64]*models.Teacher{
		1: {ID: 1, Name: "Шейх Фулан", IsActive: true},
	}}
	books := &mockBookRepo{books: map[int64]*models.Book{
		2: {ID: 2, Name: "Рияд ас-салихин", ThemeID: &themeID, IsActive: true},
	}}
	themes := &mockThemeRepo{themes: map[int64]*models.Theme{
		5: {ID: 5, Name: "Хадис", IsActive: true},
	}}

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	return NewLessonService(repo, series, teachers, books, themes, store, nil, nil, nil), repo, series
}

func TestLessonServiceCreateGeneratesTitle(t *testing.T) {
	svc, repo, _ := newLessonFixture(t)

	lesson, err := svc.Create(context.Background(), LessonRequest{
		SeriesID:     10,
		LessonNumber: intPtr(3),
	})
	require.NoError(t, err)
	assert.Equal(t, "Шейх Фулан - Рияд ас-салихин - 2021 - Рияд ас-салихин - урок 3", lesson.Title)
	require.Len(t, repo.created, 1)
}

func TestLessonServiceCreateKeepsExplicitTitle(t *testing.T) {
	svc, _, _ := newLessonFixture(t)

	lesson, err := svc.Create(context.Background(), LessonRequest{
		Title:    strPtr("  Вводный урок  "),
		SeriesID: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, "Вводный урок", lesson.Title)
}

func TestLessonServiceCreateCopiesSeriesReferences(t *testing.T) {
	svc, _, _ := newLessonFixture(t)

	lesson, err := svc.Create(context.Background(), LessonRequest{SeriesID: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(10), lesson.SeriesID)
	require.NotNil(t, lesson.TeacherID)
	assert.Equal(t, int64(1), *lesson.TeacherID)
	require.NotNil(t, lesson.BookID)
	assert.Equal(t, int64(2), *lesson.BookID)
	require.NotNil(t, lesson.ThemeID)
	assert.Equal(t, int64(5), *lesson.ThemeID)
}

func TestLessonServiceCreateRejectsUnknownSeries(t *testing.T) {
	svc, repo, _ := newLessonFixture(t)

	_, err := svc.Create(context.Background(), LessonRequest{SeriesID: 77})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Empty(t, repo.created)
}

func TestLessonServiceGetBuildsDetail(t *testing.T) {
	svc, repo, _ := newLessonFixture(t)
	teacherID := int64(1)
	bookID := int64(2)
	duration := 125
	repo.lessons[4] = &models.Lesson{
		ID:              4,
		Title:           "Урок",
		SeriesID:        10,
		TeacherID:       &teacherID,
		BookID:          &bookID,
		DurationSeconds: &duration,
		IsActive:        true,
	}

	detail, err := svc.Get(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/lessons/4/audio", detail.AudioURL)
	assert.Equal(t, "2:05", detail.FormattedDuration)
	require.NotNil(t, detail.Series)
	assert.Equal(t, "2021 - Рияд ас-салихин", detail.Series.DisplayName)
	require.NotNil(t, detail.Teacher)
	assert.Equal(t, "Шейх Фулан", detail.Teacher.Name)
}

func TestLessonServiceOpenAudio(t *testing.T) {
	svc, repo, _ := newLessonFixture(t)

	repo.lessons[4] = &models.Lesson{ID: 4, Title: "Урок", SeriesID: 10, IsActive: true}
	_, _, err := svc.OpenAudio(context.Background(), 4)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	saved, err := svc.store.SaveStream("processed/lesson_4_test.mp3", strings.NewReader("mp3-bytes"))
	require.NoError(t, err)
	repo.lessons[4].AudioPath = &saved

	lesson, file, err := svc.OpenAudio(context.Background(), 4)
	require.NoError(t, err)
	defer file.Close()
	assert.Equal(t, int64(4), lesson.ID)
	info, err := file.Stat()
	require.NoError(t, err)
	assert.Equal(t, int64(len("mp3-bytes")), info.Size())
}
