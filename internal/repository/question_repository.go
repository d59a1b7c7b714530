package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/darsapp/dars-api/internal/models"
)

const questionColumns = "id, test_id, lesson_id, question_text, options, correct_answer_index, explanation, position, points, created_at, updated_at"

// QuestionRepository manages persistence for test questions.
type QuestionRepository struct {
	db *sqlx.DB
}

// NewQuestionRepository constructs a QuestionRepository.
func NewQuestionRepository(db *sqlx.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// ListByTest returns every question of a test ordered by position.
func (r *QuestionRepository) ListByTest(ctx context.Context, testID int64) ([]models.TestQuestion, error) {
	query := fmt.Sprintf("SELECT %s FROM test_questions WHERE test_id = $1 ORDER BY position ASC, id ASC", questionColumns)
	var questions []models.TestQuestion
	if err := r.db.SelectContext(ctx, &questions, query, testID); err != nil {
		return nil, fmt.Errorf("list test questions: %w", err)
	}
	return questions, nil
}

// FindByID fetches a question scoped to its test.
func (r *QuestionRepository) FindByID(ctx context.Context, testID, id int64) (*models.TestQuestion, error) {
	query := fmt.Sprintf("SELECT %s FROM test_questions WHERE test_id = $1 AND id = $2", questionColumns)
	var question models.TestQuestion
	if err := r.db.GetContext(ctx, &question, query, testID, id); err != nil {
		return nil, err
	}
	return &question, nil
}

// Create inserts a new question and assigns its server-side identifier.
func (r *QuestionRepository) Create(ctx context.Context, question *models.TestQuestion) error {
	now := time.Now().UTC()
	question.CreatedAt = now
	question.UpdatedAt = now

	const query = `INSERT INTO test_questions (test_id, lesson_id, question_text, options, correct_answer_index, explanation, position, points, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, question.TestID, question.LessonID, question.QuestionText, question.Options, question.CorrectAnswerIndex, question.Explanation, question.Position, question.Points, question.CreatedAt, question.UpdatedAt).Scan(&question.ID); err != nil {
		return fmt.Errorf("create test question: %w", err)
	}
	return nil
}

// Update modifies an existing question record.
func (r *QuestionRepository) Update(ctx context.Context, question *models.TestQuestion) error {
	question.UpdatedAt = time.Now().UTC()
	const query = `UPDATE test_questions SET lesson_id = :lesson_id, question_text = :question_text, options = :options, correct_answer_index = :correct_answer_index, explanation = :explanation, position = :position, points = :points, updated_at = :updated_at WHERE id = :id AND test_id = :test_id`
	if _, err := r.db.NamedExecContext(ctx, query, question); err != nil {
		return fmt.Errorf("update test question: %w", err)
	}
	return nil
}

// Delete removes a question from its test.
func (r *QuestionRepository) Delete(ctx context.Context, testID, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM test_questions WHERE test_id = $1 AND id = $2", testID, id); err != nil {
		return fmt.Errorf("delete test question: %w", err)
	}
	return nil
}
