package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/darsapp/dars-api/internal/models"
)

const lessonColumns = "id, title, description, lesson_number, duration_seconds, audio_path, original_audio_path, tags, series_id, book_id, teacher_id, theme_id, is_active, created_at, updated_at"

// LessonRepository manages persistence for lessons.
type LessonRepository struct {
	db *sqlx.DB
}

// NewLessonRepository constructs a LessonRepository.
func NewLessonRepository(db *sqlx.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

// List returns lessons matching filters along with the filtered total count.
func (r *LessonRepository) List(ctx context.Context, filter models.LessonFilter) ([]models.Lesson, int, error) {
	filter.Normalize()

	base := "FROM lessons WHERE 1=1"
	var conditions []string
	var args []interface{}

	if !filter.IncludeInactive {
		conditions = append(conditions, "is_active = TRUE")
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(title) LIKE $%d OR LOWER(COALESCE(description, '')) LIKE $%d OR LOWER(COALESCE(tags, '')) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, search)
	}
	if filter.SeriesID != nil {
		conditions = append(conditions, fmt.Sprintf("series_id = $%d", len(args)+1))
		args = append(args, *filter.SeriesID)
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

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY series_id ASC, lesson_number ASC NULLS LAST, id ASC LIMIT %d OFFSET %d", lessonColumns, base, filter.Limit, filter.Skip)
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list lessons: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count lessons: %w", err)
	}

	return lessons, total, nil
}

// ListBySeries returns every active lesson of a series ordered by lesson
// number, without pagination (the sync endpoint contract).
func (r *LessonRepository) ListBySeries(ctx context.Context, seriesID int64) ([]models.Lesson, error) {
	query := fmt.Sprintf("SELECT %s FROM lessons WHERE series_id = $1 AND is_active = TRUE ORDER BY lesson_number ASC NULLS LAST, id ASC", lessonColumns)
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, query, seriesID); err != nil {
		return nil, fmt.Errorf("list series lessons: %w", err)
	}
	return lessons, nil
}

// FindByID fetches a lesson by ID.
func (r *LessonRepository) FindByID(ctx context.Context, id int64) (*models.Lesson, error) {
	query := fmt.Sprintf("SELECT %s FROM lessons WHERE id = $1", lessonColumns)
	var lesson models.Lesson
	if err := r.db.GetContext(ctx, &lesson, query, id); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// Create inserts a new lesson and assigns its server-side identifier.
func (r *LessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	now := time.Now().UTC()
	lesson.CreatedAt = now
	lesson.UpdatedAt = now

	const query = `INSERT INTO lessons (title, description, lesson_number, duration_seconds, audio_path, original_audio_path, tags, series_id, book_id, teacher_id, theme_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		lesson.Title, lesson.Description, lesson.LessonNumber, lesson.DurationSeconds,
		lesson.AudioPath, lesson.OriginalAudioPath, lesson.Tags, lesson.SeriesID,
		lesson.BookID, lesson.TeacherID, lesson.ThemeID, lesson.IsActive,
		lesson.CreatedAt, lesson.UpdatedAt,
	).Scan(&lesson.ID); err != nil {
		return mapConstraintError(fmt.Errorf("create lesson: %w", err), "", "lesson number already used within the series")
	}
	return nil
}

// Update modifies an existing lesson record.
func (r *LessonRepository) Update(ctx context.Context, lesson *models.Lesson) error {
	lesson.UpdatedAt = time.Now().UTC()
	const query = `UPDATE lessons SET title = :title, description = :description, lesson_number = :lesson_number, duration_seconds = :duration_seconds, audio_path = :audio_path, original_audio_path = :original_audio_path, tags = :tags, series_id = :series_id, book_id = :book_id, teacher_id = :teacher_id, theme_id = :theme_id, is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, lesson); err != nil {
		return mapConstraintError(fmt.Errorf("update lesson: %w", err), "", "lesson number already used within the series")
	}
	return nil
}

// Delete removes a lesson. Bookmarks cascade; test questions restrict.
func (r *LessonRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM lessons WHERE id = $1", id); err != nil {
		return mapConstraintError(err, "lesson has test questions attached", "")
	}
	return nil
}
