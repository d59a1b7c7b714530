package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := OpenCache(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func strPtr(s string) *string { return &s }
func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func TestCacheUpsertThemesIsIdempotent(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	themes := []Theme{
		{ID: 1, Name: "Акыда", SortOrder: 1, IsActive: true},
		{ID: 2, Name: "Фикх", Description: strPtr("Право"), SortOrder: 2, IsActive: true},
	}
	require.NoError(t, cache.UpsertThemes(ctx, themes))
	require.NoError(t, cache.UpsertThemes(ctx, themes))

	got, err := cache.Themes(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, themes, got)
}

func TestCacheUpsertOverwritesWholeRow(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.UpsertThemes(ctx, []Theme{
		{ID: 1, Name: "Акыда", Description: strPtr("Вероучение"), SortOrder: 1, IsActive: true},
	}))
	require.NoError(t, cache.UpsertThemes(ctx, []Theme{
		{ID: 1, Name: "Акыда и таухид", SortOrder: 3, IsActive: false},
	}))

	got, err := cache.Themes(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Акыда и таухид", got[0].Name)
	assert.Nil(t, got[0].Description)
	assert.Equal(t, 3, got[0].SortOrder)
	assert.False(t, got[0].IsActive)
}

func TestCacheSeriesLessonsScopedBySeries(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	lessons := []Lesson{
		{ID: 1, Title: "Урок 2", LessonNumber: intPtr(2), SeriesID: 10, IsActive: true},
		{ID: 2, Title: "Урок 1", LessonNumber: intPtr(1), SeriesID: 10, IsActive: true},
		{ID: 3, Title: "Другой цикл", LessonNumber: intPtr(1), SeriesID: 20, IsActive: true},
	}
	require.NoError(t, cache.UpsertLessons(ctx, lessons))

	got, err := cache.SeriesLessons(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Урок 1", got[0].Title)
	assert.Equal(t, "Урок 2", got[1].Title)
	for _, l := range got {
		assert.Equal(t, int64(10), l.SeriesID)
	}
}

func TestCacheUpsertLessonsRequiresSeriesID(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	err := cache.UpsertLessons(ctx, []Lesson{{ID: 5, Title: "Урок", IsActive: true}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "series id is not set")

	got, err := cache.SeriesLessons(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCacheUpsertSeriesPreservesOptionalColumns(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	series := []Series{
		{ID: 10, Name: "Рияд ас-салихин", Year: 2021, TeacherID: 1, BookID: int64Ptr(2), ThemeID: int64Ptr(5), IsActive: true},
		{ID: 11, Name: "Сира", Year: 2023, TeacherID: 1, IsCompleted: true, IsActive: true},
	}
	require.NoError(t, cache.UpsertSeries(ctx, series))

	got, err := cache.Series(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(11), got[0].ID)
	assert.True(t, got[0].IsCompleted)
	assert.Nil(t, got[0].BookID)
	require.NotNil(t, got[1].BookID)
	assert.Equal(t, int64(2), *got[1].BookID)
}

func TestCacheTestsRoundTrip(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	tests := []Test{
		{ID: 4, Title: "Тест", SeriesID: 10, TeacherID: 1, PassingScore: 70, TimePerQuestionSeconds: 60, QuestionsCount: 12, IsActive: true},
	}
	require.NoError(t, cache.UpsertTests(ctx, tests))

	got, err := cache.Tests(ctx)
	require.NoError(t, err)
	assert.Equal(t, tests, got)
}
