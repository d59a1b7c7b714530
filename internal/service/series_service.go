package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/darsapp/dars-api/internal/models"
	appErrors "github.com/darsapp/dars-api/pkg/errors"
)

type seriesRepository interface {
	List(ctx context.Context, filter models.SeriesFilter) ([]models.LessonSeries, int, error)
	FindByID(ctx context.Context, id int64) (*models.LessonSeries, error)
	FindWithCounts(ctx context.Context, id int64) (*models.SeriesWithCounts, error)
	Create(ctx context.Context, series *models.LessonSeries) error
	Update(ctx context.Context, series *models.LessonSeries) error
	SyncLessonDenormalization(ctx context.Context, series *models.LessonSeries) error
	Delete(ctx context.Context, id int64) error
}

// SeriesRequest represents payload for creating and updating lesson series.
type SeriesRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Year        int     `json:"year" validate:"required,gte=1900,lte=2100"`
	Description *string `json:"description" validate:"omitempty,max=10000"`
	TeacherID   int64   `json:"teacher_id" validate:"required,gt=0"`
	BookID      *int64  `json:"book_id" validate:"omitempty,gt=0"`
	ThemeID     *int64  `json:"theme_id" validate:"omitempty,gt=0"`
	IsCompleted *bool   `json:"is_completed"`
	IsActive    *bool   `json:"is_active"`
}

// SeriesService orchestrates lesson series operations.
type SeriesService struct {
	repo      seriesRepository
	teachers  teacherRepository
	books     bookRepository
	themes    themeRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSeriesService constructs a SeriesService.
func NewSeriesService(repo seriesRepository, teachers teacherRepository, books bookRepository, themes themeRepository, validate *validator.Validate, logger *zap.Logger) *SeriesService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeriesService{repo: repo, teachers: teachers, books: books, themes: themes, validator: validate, logger: logger}
}

// List returns series plus the filtered total.
func (s *SeriesService) List(ctx context.Context, filter models.SeriesFilter) ([]models.LessonSeries, int, error) {
	series, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list series")
	}
	return series, total, nil
}

// Get returns a series with lesson counts and total duration.
func (s *SeriesService) Get(ctx context.Context, id int64) (*models.SeriesWithCounts, error) {
	series, err := s.repo.FindWithCounts(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "series not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load series")
	}
	return series, nil
}

// Create registers a new series. A missing theme is inherited from the book.
func (s *SeriesService) Create(ctx context.Context, req SeriesRequest) (*models.LessonSeries, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid series payload")
	}
	themeID, err := s.resolveReferences(ctx, req)
	if err != nil {
		return nil, err
	}

	series := &models.LessonSeries{
		Name:        strings.TrimSpace(req.Name),
		Year:        req.Year,
		Description: normalizeOptional(req.Description),
		TeacherID:   req.TeacherID,
		BookID:      req.BookID,
		ThemeID:     themeID,
		IsActive:    true,
	}
	if req.IsCompleted != nil {
		series.IsCompleted = *req.IsCompleted
	}
	if err := s.repo.Create(ctx, series); err != nil {
		return nil, err
	}
	return series, nil
}

// Update modifies a series and refreshes the denormalized fields on its lessons.
func (s *SeriesService) Update(ctx context.Context, id int64, req SeriesRequest) (*models.LessonSeries, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid series payload")
	}

	series, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "series not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load series")
	}
	themeID, err := s.resolveReferences(ctx, req)
	if err != nil {
		return nil, err
	}

	series.Name = strings.TrimSpace(req.Name)
	series.Year = req.Year
	series.Description = normalizeOptional(req.Description)
	series.TeacherID = req.TeacherID
	series.BookID = req.BookID
	series.ThemeID = themeID
	if req.IsCompleted != nil {
		series.IsCompleted = *req.IsCompleted
	}
	if req.IsActive != nil {
		series.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, series); err != nil {
		return nil, err
	}
	if err := s.repo.SyncLessonDenormalization(ctx, series); err != nil {
		s.logger.Error("failed to sync lesson references after series update",
			zap.Int64("series_id", series.ID), zap.Error(err))
	}
	return series, nil
}

// Delete removes a series; lessons or tests referencing it block deletion.
func (s *SeriesService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "series not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load series")
	}
	return s.repo.Delete(ctx, id)
}

// resolveReferences checks foreign keys and inherits the theme from the book
// when the request does not set one.
func (s *SeriesService) resolveReferences(ctx context.Context, req SeriesRequest) (*int64, error) {
	if _, err := s.teachers.FindByID(ctx, req.TeacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "teacher does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check teacher")
	}

	themeID := req.ThemeID
	if req.BookID != nil {
		book, err := s.books.FindByID(ctx, *req.BookID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "book does not exist")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check book")
		}
		if themeID == nil {
			themeID = book.ThemeID
		}
	}
	if themeID != nil {
		if _, err := s.themes.FindByID(ctx, *themeID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrValidation, "theme does not exist")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check theme")
		}
	}
	return themeID, nil
}
