package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/darsapp/dars-api/internal/models"
)

const seriesColumns = "id, name, year, description, teacher_id, book_id, theme_id, is_completed, is_active, created_at, updated_at"

// SeriesRepository manages persistence for lesson series.
type SeriesRepository struct {
	db *sqlx.DB
}

// NewSeriesRepository constructs a SeriesRepository.
func NewSeriesRepository(db *sqlx.DB) *SeriesRepository {
	return &SeriesRepository{db: db}
}

// List returns series matching filters along with the filtered total count.
func (r *SeriesRepository) List(ctx context.Context, filter models.SeriesFilter) ([]models.LessonSeries, int, error) {
	filter.Normalize()

	base := "FROM lesson_series WHERE 1=1"
	var conditions []string
	var args []interface{}

	if !filter.IncludeInactive {
		conditions = append(conditions, "is_active = TRUE")
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(COALESCE(description, '')) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, search)
	}
	if filter.TeacherID != nil {
		conditions = append(conditions, fmt.Sprintf("teacher_id = $%d", len(args)+1))
		args = append(args, *filter.TeacherID)
	}
	if filter.BookID != nil {
		conditions = append(conditions, fmt.Sprintf("book_id = $%d", len(args)+1))
		args = append(args, *filter.BookID)
	}
	if filter.ThemeID != nil {
		conditions = append(conditions, fmt.Sprintf("theme_id = $%d", len(args)+1))
		args = append(args, *filter.ThemeID)
	}
	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("year = $%d", len(args)+1))
		args = append(args, *filter.Year)
	}
	if filter.IsCompleted != nil {
		conditions = append(conditions, fmt.Sprintf("is_completed = $%d", len(args)+1))
		args = append(args, *filter.IsCompleted)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY year DESC, name ASC LIMIT %d OFFSET %d", seriesColumns, base, filter.Limit, filter.Skip)
	var series []models.LessonSeries
	if err := r.db.SelectContext(ctx, &series, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list series: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count series: %w", err)
	}

	return series, total, nil
}

// FindByID fetches a series by ID.
func (r *SeriesRepository) FindByID(ctx context.Context, id int64) (*models.LessonSeries, error) {
	query := fmt.Sprintf("SELECT %s FROM lesson_series WHERE id = $1", seriesColumns)
	var series models.LessonSeries
	if err := r.db.GetContext(ctx, &series, query, id); err != nil {
		return nil, err
	}
	return &series, nil
}

// FindWithCounts fetches a series along with its lesson count and total
// audio duration.
func (r *SeriesRepository) FindWithCounts(ctx context.Context, id int64) (*models.SeriesWithCounts, error) {
	series, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &models.SeriesWithCounts{LessonSeries: *series}
	const countQuery = `SELECT COUNT(*), COALESCE(SUM(duration_seconds), 0) FROM lessons WHERE series_id = $1 AND is_active = TRUE`
	row := r.db.QueryRowxContext(ctx, countQuery, id)
	if err := row.Scan(&result.LessonsCount, &result.TotalDurationSeconds); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("count series lessons: %w", err)
	}
	return result, nil
}

// Create inserts a new series and assigns its server-side identifier.
func (r *SeriesRepository) Create(ctx context.Context, series *models.LessonSeries) error {
	now := time.Now().UTC()
	series.CreatedAt = now
	series.UpdatedAt = now

	const query = `INSERT INTO lesson_series (name, year, description, teacher_id, book_id, theme_id, is_completed, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, series.Name, series.Year, series.Description, series.TeacherID, series.BookID, series.ThemeID, series.IsCompleted, series.IsActive, series.CreatedAt, series.UpdatedAt).Scan(&series.ID); err != nil {
		return mapConstraintError(fmt.Errorf("create series: %w", err), "", "series with this name already exists for the teacher and year")
	}
	return nil
}

// Update modifies an existing series record.
func (r *SeriesRepository) Update(ctx context.Context, series *models.LessonSeries) error {
	series.UpdatedAt = time.Now().UTC()
	const query = `UPDATE lesson_series SET name = :name, year = :year, description = :description, teacher_id = :teacher_id, book_id = :book_id, theme_id = :theme_id, is_completed = :is_completed, is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, series); err != nil {
		return mapConstraintError(fmt.Errorf("update series: %w", err), "", "series with this name already exists for the teacher and year")
	}
	return nil
}

// SyncLessonDenormalization refreshes the denormalized teacher/book/theme
// columns of every lesson in the series after the series itself changed.
func (r *SeriesRepository) SyncLessonDenormalization(ctx context.Context, series *models.LessonSeries) error {
	const query = `UPDATE lessons SET teacher_id = $2, book_id = $3, theme_id = $4, updated_at = $5 WHERE series_id = $1`
	if _, err := r.db.ExecContext(ctx, query, series.ID, series.TeacherID, series.BookID, series.ThemeID, time.Now().UTC()); err != nil {
		return fmt.Errorf("sync series lessons: %w", err)
	}
	return nil
}

// Delete removes a series unless lessons or a test still reference it.
func (r *SeriesRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM lesson_series WHERE id = $1", id); err != nil {
		return mapConstraintError(err, "series has lessons or a test attached", "")
	}
	return nil
}
