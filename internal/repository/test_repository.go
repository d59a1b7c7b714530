package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/darsapp/dars-api/internal/models"
)

const testColumns = "id, title, description, series_id, teacher_id, passing_score, time_per_question_seconds, questions_count, is_active, created_at, updated_at"

// TestRepository manages persistence for series quizzes.
type TestRepository struct {
	db *sqlx.DB
}

// NewTestRepository constructs a TestRepository.
func NewTestRepository(db *sqlx.DB) *TestRepository {
	return &TestRepository{db: db}
}

// List returns tests matching filters along with the filtered total count.
func (r *TestRepository) List(ctx context.Context, filter models.TestFilter) ([]models.Test, int, error) {
	filter.Normalize()

	base := "FROM tests WHERE 1=1"
	var conditions []string
	var args []interface{}

	if !filter.IncludeInactive {
		conditions = append(conditions, "is_active = TRUE")
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(title) LIKE $%d OR LOWER(COALESCE(description, '')) LIKE $%d)", len(args)+1, len(args)+1))
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

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", testColumns, base, filter.Limit, filter.Skip)
	var tests []models.Test
	if err := r.db.SelectContext(ctx, &tests, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list tests: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count tests: %w", err)
	}

	return tests, total, nil
}

// FindByID fetches a test by ID.
func (r *TestRepository) FindByID(ctx context.Context, id int64) (*models.Test, error) {
	query := fmt.Sprintf("SELECT %s FROM tests WHERE id = $1", testColumns)
	var test models.Test
	if err := r.db.GetContext(ctx, &test, query, id); err != nil {
		return nil, err
	}
	return &test, nil
}

// Create inserts a new test. The unique constraint on series_id guarantees
// a series never carries a second test.
func (r *TestRepository) Create(ctx context.Context, test *models.Test) error {
	now := time.Now().UTC()
	test.CreatedAt = now
	test.UpdatedAt = now

	const query = `INSERT INTO tests (title, description, series_id, teacher_id, passing_score, time_per_question_seconds, questions_count, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, test.Title, test.Description, test.SeriesID, test.TeacherID, test.PassingScore, test.TimePerQuestionSeconds, test.QuestionsCount, test.IsActive, test.CreatedAt, test.UpdatedAt).Scan(&test.ID); err != nil {
		return mapConstraintError(fmt.Errorf("create test: %w", err), "", "series already has a test")
	}
	return nil
}

// Update modifies an existing test record.
func (r *TestRepository) Update(ctx context.Context, test *models.Test) error {
	test.UpdatedAt = time.Now().UTC()
	const query = `UPDATE tests SET title = :title, description = :description, series_id = :series_id, teacher_id = :teacher_id, passing_score = :passing_score, time_per_question_seconds = :time_per_question_seconds, is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, test); err != nil {
		return mapConstraintError(fmt.Errorf("update test: %w", err), "", "series already has a test")
	}
	return nil
}

// Delete removes a test; its questions cascade.
func (r *TestRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM tests WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete test: %w", err)
	}
	return nil
}

// RefreshQuestionsCount recomputes the cached question total of a test.
func (r *TestRepository) RefreshQuestionsCount(ctx context.Context, testID int64) error {
	const query = `UPDATE tests SET questions_count = (SELECT COUNT(*) FROM test_questions WHERE test_id = $1), updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, testID, time.Now().UTC()); err != nil {
		return fmt.Errorf("refresh questions count: %w", err)
	}
	return nil
}
