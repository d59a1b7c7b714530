package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/darsapp/dars-api/internal/models"
)

// BookmarkRepository manages listening-position bookmarks.
type BookmarkRepository struct {
	db *sqlx.DB
}

// NewBookmarkRepository constructs a BookmarkRepository.
func NewBookmarkRepository(db *sqlx.DB) *BookmarkRepository {
	return &BookmarkRepository{db: db}
}

// ListByUser returns a user's bookmarks, most recently updated first.
func (r *BookmarkRepository) ListByUser(ctx context.Context, userID int64) ([]models.Bookmark, error) {
	const query = `SELECT id, user_id, lesson_id, position_seconds, created_at, updated_at FROM bookmarks WHERE user_id = $1 ORDER BY updated_at DESC`
	var bookmarks []models.Bookmark
	if err := r.db.SelectContext(ctx, &bookmarks, query, userID); err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return bookmarks, nil
}

// Upsert creates or replaces the bookmark for (user, lesson).
func (r *BookmarkRepository) Upsert(ctx context.Context, bookmark *models.Bookmark) error {
	now := time.Now().UTC()
	bookmark.UpdatedAt = now

	const query = `INSERT INTO bookmarks (user_id, lesson_id, position_seconds, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (user_id, lesson_id)
		DO UPDATE SET position_seconds = EXCLUDED.position_seconds, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`
	if err := r.db.QueryRowxContext(ctx, query, bookmark.UserID, bookmark.LessonID, bookmark.PositionSeconds, now).Scan(&bookmark.ID, &bookmark.CreatedAt); err != nil {
		return fmt.Errorf("upsert bookmark: %w", err)
	}
	return nil
}

// Delete removes a bookmark owned by the given user.
func (r *BookmarkRepository) Delete(ctx context.Context, userID, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM bookmarks WHERE user_id = $1 AND id = $2", userID, id); err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	return nil
}
