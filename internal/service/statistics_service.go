package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/darsapp/dars-api/internal/models"
	"github.com/darsapp/dars-api/pkg/config"
	appErrors "github.com/darsapp/dars-api/pkg/errors"
	"github.com/darsapp/dars-api/pkg/export"
)

type statisticsRepository interface {
	Collect(ctx context.Context) (*models.Statistics, error)
}

type cacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

const statisticsCacheKey = "statistics:overview"

// Exporter renders a report into a downloadable document.
type Exporter interface {
	Render(report export.Report) ([]byte, error)
}

// StatisticsService serves the dashboard aggregates with a short cache in
// front of the heavy collection query.
type StatisticsService struct {
	repo   statisticsRepository
	cache  cacheStore
	cfg    config.StatisticsConfig
	logger *zap.Logger

	exporters map[string]Exporter
}

// NewStatisticsService constructs a StatisticsService. cache may be nil.
func NewStatisticsService(repo statisticsRepository, cache cacheStore, cfg config.StatisticsConfig, logger *zap.Logger) *StatisticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatisticsService{
		repo:   repo,
		cache:  cache,
		cfg:    cfg,
		logger: logger,
		exporters: map[string]Exporter{
			"csv": export.NewCSVExporter(),
			"pdf": export.NewPDFExporter(),
		},
	}
}

// Overview returns the aggregate statistics, served from cache when fresh.
func (s *StatisticsService) Overview(ctx context.Context) (*models.Statistics, error) {
	if s.cache != nil {
		var cached models.Statistics
		if err := s.cache.Get(ctx, statisticsCacheKey, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("statistics cache read failed", zap.Error(err))
		}
	}

	stats, err := s.repo.Collect(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to collect statistics")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, statisticsCacheKey, stats, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("statistics cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}

// Export renders the statistics overview as csv or pdf.
func (s *StatisticsService) Export(ctx context.Context, format string) ([]byte, string, error) {
	exporter, ok := s.exporters[format]
	if !ok {
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	stats, err := s.Overview(ctx)
	if err != nil {
		return nil, "", err
	}

	data, err := exporter.Render(buildStatisticsReport(stats))
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	contentType := "text/csv"
	if format == "pdf" {
		contentType = "application/pdf"
	}
	return data, contentType, nil
}

func buildStatisticsReport(stats *models.Statistics) export.Report {
	entityRow := func(name string, c models.EntityCounts) []string {
		return []string{name, strconv.Itoa(c.Total), strconv.Itoa(c.Active), strconv.Itoa(c.Inactive)}
	}

	content := export.Section{
		Name:    "Content",
		Headers: []string{"Entity", "Total", "Active", "Inactive"},
		Rows: [][]string{
			entityRow("Themes", stats.Themes),
			entityRow("Authors", stats.Authors),
			entityRow("Books", stats.Books),
			entityRow("Teachers", stats.Teachers),
			entityRow("Users", stats.Users),
		},
	}
	series := export.Section{
		Name:    "Series",
		Headers: []string{"Total", "Active", "Completed", "In progress"},
		Rows: [][]string{{
			strconv.Itoa(stats.Series.Total),
			strconv.Itoa(stats.Series.Active),
			strconv.Itoa(stats.Series.Completed),
			strconv.Itoa(stats.Series.InProgress),
		}},
	}
	lessons := export.Section{
		Name:    "Lessons",
		Headers: []string{"Total", "Active", "With audio", "Without audio", "Hours"},
		Rows: [][]string{{
			strconv.Itoa(stats.Lessons.Total),
			strconv.Itoa(stats.Lessons.Active),
			strconv.Itoa(stats.Lessons.WithAudio),
			strconv.Itoa(stats.Lessons.WithoutAudio),
			strconv.FormatFloat(stats.Lessons.TotalDurationHours, 'f', 1, 64),
		}},
	}

	return export.Report{
		Title:    "Content statistics",
		Sections: []export.Section{content, series, lessons},
	}
}
