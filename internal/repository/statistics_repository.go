package repository

import (
	"context"
	"fmt"
	"math"

	"github.com/jmoiron/sqlx"

	"github.com/darsapp/dars-api/internal/models"
)

// StatisticsRepository computes the aggregate dashboard counts.
type StatisticsRepository struct {
	db *sqlx.DB
}

// NewStatisticsRepository constructs a StatisticsRepository.
func NewStatisticsRepository(db *sqlx.DB) *StatisticsRepository {
	return &StatisticsRepository{db: db}
}

// Collect runs the aggregate count queries for every entity type.
func (r *StatisticsRepository) Collect(ctx context.Context) (*models.Statistics, error) {
	stats := &models.Statistics{}

	var err error
	if stats.Themes, err = r.entityCounts(ctx, "themes"); err != nil {
		return nil, err
	}
	if stats.Books, err = r.entityCounts(ctx, "books"); err != nil {
		return nil, err
	}
	if stats.Authors, err = r.entityCounts(ctx, "book_authors"); err != nil {
		return nil, err
	}
	if stats.Teachers, err = r.entityCounts(ctx, "lesson_teachers"); err != nil {
		return nil, err
	}
	if stats.Users, err = r.entityCounts(ctx, "users"); err != nil {
		return nil, err
	}

	const seriesQuery = `SELECT
		COUNT(*) AS total,
		COUNT(*) FILTER (WHERE is_active) AS active,
		COUNT(*) FILTER (WHERE is_active AND is_completed) AS completed,
		COUNT(*) FILTER (WHERE is_active AND NOT is_completed) AS in_progress
	FROM lesson_series`
	if err := r.db.GetContext(ctx, &stats.Series, seriesQuery); err != nil {
		return nil, fmt.Errorf("collect series statistics: %w", err)
	}
	stats.Series.Inactive = stats.Series.Total - stats.Series.Active

	const lessonsQuery = `SELECT
		COUNT(*) AS total,
		COUNT(*) FILTER (WHERE is_active) AS active,
		COUNT(*) FILTER (WHERE is_active AND audio_path IS NOT NULL) AS with_audio,
		COUNT(*) FILTER (WHERE is_active AND audio_path IS NULL) AS without_audio,
		COALESCE(SUM(duration_seconds) FILTER (WHERE is_active), 0) AS total_duration_seconds
	FROM lessons`
	if err := r.db.GetContext(ctx, &stats.Lessons, lessonsQuery); err != nil {
		return nil, fmt.Errorf("collect lesson statistics: %w", err)
	}
	stats.Lessons.Inactive = stats.Lessons.Total - stats.Lessons.Active
	stats.Lessons.TotalDurationHours = math.Round(float64(stats.Lessons.TotalDurationSeconds)/3600*10) / 10

	return stats, nil
}

func (r *StatisticsRepository) entityCounts(ctx context.Context, table string) (models.EntityCounts, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) AS total, COUNT(*) FILTER (WHERE is_active) AS active FROM %s`, table)
	var counts models.EntityCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return counts, fmt.Errorf("collect %s statistics: %w", table, err)
	}
	counts.Inactive = counts.Total - counts.Active
	return counts, nil
}
