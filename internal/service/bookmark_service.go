package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/darsapp/dars-api/internal/models"
	appErrors "github.com/darsapp/dars-api/pkg/errors"
)

type bookmarkRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]models.Bookmark, error)
	Upsert(ctx context.Context, bookmark *models.Bookmark) error
	Delete(ctx context.Context, userID, id int64) error
}

// BookmarkRequest saves a playback position inside a lesson.
type BookmarkRequest struct {
	LessonID        int64 `json:"lesson_id" validate:"required,gt=0"`
	PositionSeconds int   `json:"position_seconds" validate:"gte=0"`
}

// BookmarkService manages per-user playback bookmarks.
type BookmarkService struct {
	repo      bookmarkRepository
	lessons   lessonRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBookmarkService constructs a BookmarkService.
func NewBookmarkService(repo bookmarkRepository, lessons lessonRepository, validate *validator.Validate, logger *zap.Logger) *BookmarkService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookmarkService{repo: repo, lessons: lessons, validator: validate, logger: logger}
}

// List returns the caller's bookmarks.
func (s *BookmarkService) List(ctx context.Context, userID int64) ([]models.Bookmark, error) {
	bookmarks, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bookmarks")
	}
	return bookmarks, nil
}

// Save upserts the caller's bookmark for a lesson.
func (s *BookmarkService) Save(ctx context.Context, userID int64, req BookmarkRequest) (*models.Bookmark, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bookmark payload")
	}
	if _, err := s.lessons.FindByID(ctx, req.LessonID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "lesson does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check lesson")
	}

	bookmark := &models.Bookmark{
		UserID:          userID,
		LessonID:        req.LessonID,
		PositionSeconds: req.PositionSeconds,
	}
	if err := s.repo.Upsert(ctx, bookmark); err != nil {
		return nil, err
	}
	return bookmark, nil
}

// Delete removes one of the caller's bookmarks.
func (s *BookmarkService) Delete(ctx context.Context, userID, id int64) error {
	return s.repo.Delete(ctx, userID, id)
}
