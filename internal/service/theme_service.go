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

type themeRepository interface {
	List(ctx context.Context, filter models.ThemeFilter) ([]models.Theme, int, error)
	FindByID(ctx context.Context, id int64) (*models.Theme, error)
	FindWithCounts(ctx context.Context, id int64) (*models.ThemeWithCounts, error)
	Create(ctx context.Context, theme *models.Theme) error
	Update(ctx context.Context, theme *models.Theme) error
	Delete(ctx context.Context, id int64) error
}

// CreateThemeRequest represents payload for creating themes.
type CreateThemeRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	SortOrder   int     `json:"sort_order"`
}

// UpdateThemeRequest represents payload for updating themes.
type UpdateThemeRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	SortOrder   int     `json:"sort_order"`
	IsActive    *bool   `json:"is_active"`
}

// ThemeService orchestrates theme operations.
type ThemeService struct {
	repo      themeRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewThemeService constructs a ThemeService.
func NewThemeService(repo themeRepository, validate *validator.Validate, logger *zap.Logger) *ThemeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ThemeService{repo: repo, validator: validate, logger: logger}
}

// List returns themes plus the filtered total.
func (s *ThemeService) List(ctx context.Context, filter models.ThemeFilter) ([]models.Theme, int, error) {
	themes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list themes")
	}
	return themes, total, nil
}

// Get returns a theme with its dependent counts.
func (s *ThemeService) Get(ctx context.Context, id int64) (*models.ThemeWithCounts, error) {
	theme, err := s.repo.FindWithCounts(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "theme not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load theme")
	}
	return theme, nil
}

// Create registers a new theme.
func (s *ThemeService) Create(ctx context.Context, req CreateThemeRequest) (*models.Theme, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid theme payload")
	}

	theme := &models.Theme{
		Name:        strings.TrimSpace(req.Name),
		Description: normalizeOptional(req.Description),
		SortOrder:   req.SortOrder,
		IsActive:    true,
	}
	if theme.Name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "theme name must not be empty")
	}

	if err := s.repo.Create(ctx, theme); err != nil {
		return nil, err
	}
	return theme, nil
}

// Update modifies an existing theme.
func (s *ThemeService) Update(ctx context.Context, id int64, req UpdateThemeRequest) (*models.Theme, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid theme payload")
	}

	theme, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "theme not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load theme")
	}

	theme.Name = strings.TrimSpace(req.Name)
	theme.Description = normalizeOptional(req.Description)
	theme.SortOrder = req.SortOrder
	if req.IsActive != nil {
		theme.IsActive = *req.IsActive
	}
	if theme.Name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "theme name must not be empty")
	}

	if err := s.repo.Update(ctx, theme); err != nil {
		return nil, err
	}
	return theme, nil
}

// Delete removes a theme; the repository surfaces referential restriction.
func (s *ThemeService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "theme not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load theme")
	}
	return s.repo.Delete(ctx, id)
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
