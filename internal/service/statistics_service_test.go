package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darsapp/dars-api/internal/models"
	"github.com/darsapp/dars-api/pkg/config"
	appErrors "github.com/darsapp/dars-api/pkg/errors"
)

type mockStatsRepo struct {
	stats    *models.Statistics
	collects int
	err      error
}

func (m *mockStatsRepo) Collect(ctx context.Context) (*models.Statistics, error) {
	m.collects++
	if m.err != nil {
		return nil, m.err
	}
	copied := *m.stats
	return &copied, nil
}

type mockCacheStore struct {
	values map[string][]byte
	gets   int
	sets   int
}

func (m *mockCacheStore) Get(ctx context.Context, key string, dest interface{}) error {
	m.gets++
	raw, ok := m.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *mockCacheStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.sets++
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if m.values == nil {
		m.values = map[string][]byte{}
	}
	m.values[key] = raw
	return nil
}

func sampleStats() *models.Statistics {
	return &models.Statistics{
		Themes:  models.EntityCounts{Total: 4, Active: 3, Inactive: 1},
		Series:  models.SeriesCounts{EntityCounts: models.EntityCounts{Total: 2, Active: 2}, Completed: 1, InProgress: 1},
		Lessons: models.LessonCounts{EntityCounts: models.EntityCounts{Total: 40, Active: 38}, WithAudio: 35, WithoutAudio: 5, TotalDurationSeconds: 7200, TotalDurationHours: 2},
	}
}

func TestStatisticsServiceCachesOverview(t *testing.T) {
	repo := &mockStatsRepo{stats: sampleStats()}
	cache := &mockCacheStore{}
	svc := NewStatisticsService(repo, cache, config.StatisticsConfig{CacheTTL: time.Minute}, nil)

	first, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, first.Themes.Total)
	assert.Equal(t, 1, repo.collects)
	assert.Equal(t, 1, cache.sets)

	second, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.Themes, second.Themes)
	assert.Equal(t, 1, repo.collects)
}

func TestStatisticsServiceWorksWithoutCache(t *testing.T) {
	repo := &mockStatsRepo{stats: sampleStats()}
	svc := NewStatisticsService(repo, nil, config.StatisticsConfig{}, nil)

	_, err := svc.Overview(context.Background())
	require.NoError(t, err)
	_, err = svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.collects)
}

func TestStatisticsServiceExportCSV(t *testing.T) {
	repo := &mockStatsRepo{stats: sampleStats()}
	svc := NewStatisticsService(repo, nil, config.StatisticsConfig{}, nil)

	data, contentType, err := svc.Export(context.Background(), "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.Contains(t, string(data), "Themes")
}

func TestStatisticsServiceExportPDF(t *testing.T) {
	repo := &mockStatsRepo{stats: sampleStats()}
	svc := NewStatisticsService(repo, nil, config.StatisticsConfig{}, nil)

	data, contentType, err := svc.Export(context.Background(), "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, len(data) > 0)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestStatisticsServiceExportUnknownFormat(t *testing.T) {
	repo := &mockStatsRepo{stats: sampleStats()}
	svc := NewStatisticsService(repo, nil, config.StatisticsConfig{}, nil)

	_, _, err := svc.Export(context.Background(), "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
