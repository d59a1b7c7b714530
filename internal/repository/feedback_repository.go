package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/darsapp/dars-api/internal/models"
)

const feedbackColumns = "id, user_id, subject, status, replied_at, closed_at, created_at, updated_at"

// FeedbackRepository manages persistence for feedback threads.
type FeedbackRepository struct {
	db *sqlx.DB
}

// NewFeedbackRepository constructs a FeedbackRepository.
func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// List returns feedback threads matching filters with the total count.
func (r *FeedbackRepository) List(ctx context.Context, filter models.FeedbackFilter) ([]models.Feedback, int, error) {
	filter.Normalize()

	base := "FROM feedbacks WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("LOWER(subject) LIKE $%d", len(args)+1))
		args = append(args, search)
	}
	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)+1))
		args = append(args, *filter.UserID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", feedbackColumns, base, filter.Limit, filter.Skip)
	var feedbacks []models.Feedback
	if err := r.db.SelectContext(ctx, &feedbacks, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list feedbacks: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count feedbacks: %w", err)
	}

	return feedbacks, total, nil
}

// FindByID fetches a feedback thread by ID.
func (r *FeedbackRepository) FindByID(ctx context.Context, id int64) (*models.Feedback, error) {
	query := fmt.Sprintf("SELECT %s FROM feedbacks WHERE id = $1", feedbackColumns)
	var feedback models.Feedback
	if err := r.db.GetContext(ctx, &feedback, query, id); err != nil {
		return nil, err
	}
	return &feedback, nil
}

// Create inserts a new thread with status new.
func (r *FeedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	now := time.Now().UTC()
	feedback.CreatedAt = now
	feedback.UpdatedAt = now
	if feedback.Status == "" {
		feedback.Status = models.FeedbackStatusNew
	}

	const query = `INSERT INTO feedbacks (user_id, subject, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, feedback.UserID, feedback.Subject, feedback.Status, feedback.CreatedAt, feedback.UpdatedAt).Scan(&feedback.ID); err != nil {
		return fmt.Errorf("create feedback: %w", err)
	}
	return nil
}

// Update persists thread status and timestamps.
func (r *FeedbackRepository) Update(ctx context.Context, feedback *models.Feedback) error {
	feedback.UpdatedAt = time.Now().UTC()
	const query = `UPDATE feedbacks SET subject = :subject, status = :status, replied_at = :replied_at, closed_at = :closed_at, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, feedback); err != nil {
		return fmt.Errorf("update feedback: %w", err)
	}
	return nil
}

// Delete removes a thread and its messages (cascade).
func (r *FeedbackRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM feedbacks WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete feedback: %w", err)
	}
	return nil
}

// ListMessages returns the messages of a thread oldest first.
func (r *FeedbackRepository) ListMessages(ctx context.Context, feedbackID int64) ([]models.FeedbackMessage, error) {
	const query = `SELECT id, feedback_id, author_id, is_admin, body, created_at FROM feedback_messages WHERE feedback_id = $1 ORDER BY created_at ASC, id ASC`
	var messages []models.FeedbackMessage
	if err := r.db.SelectContext(ctx, &messages, query, feedbackID); err != nil {
		return nil, fmt.Errorf("list feedback messages: %w", err)
	}
	return messages, nil
}

// CreateMessage appends a message to a thread.
func (r *FeedbackRepository) CreateMessage(ctx context.Context, message *models.FeedbackMessage) error {
	message.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO feedback_messages (feedback_id, author_id, is_admin, body, created_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, message.FeedbackID, message.AuthorID, message.IsAdmin, message.Body, message.CreatedAt).Scan(&message.ID); err != nil {
		return fmt.Errorf("create feedback message: %w", err)
	}
	return nil
}

// DeleteMessage removes a single message from a thread.
func (r *FeedbackRepository) DeleteMessage(ctx context.Context, feedbackID, messageID int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM feedback_messages WHERE feedback_id = $1 AND id = $2", feedbackID, messageID); err != nil {
		return fmt.Errorf("delete feedback message: %w", err)
	}
	return nil
}
