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

type authorRepository interface {
	List(ctx context.Context, filter models.AuthorFilter) ([]models.BookAuthor, int, error)
	FindByID(ctx context.Context, id int64) (*models.BookAuthor, error)
	Create(ctx context.Context, author *models.BookAuthor) error
	Update(ctx context.Context, author *models.BookAuthor) error
	Delete(ctx context.Context, id int64) error
}

// AuthorRequest represents payload for creating and updating book authors.
type AuthorRequest struct {
	Name      string  `json:"name" validate:"required,max=255"`
	Biography *string `json:"biography" validate:"omitempty,max=10000"`
	BirthYear *int    `json:"birth_year" validate:"omitempty,gte=0,lte=2100"`
	DeathYear *int    `json:"death_year" validate:"omitempty,gte=0,lte=2100"`
	IsActive  *bool   `json:"is_active"`
}

// AuthorService orchestrates book author operations.
type AuthorService struct {
	repo      authorRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthorService constructs an AuthorService.
func NewAuthorService(repo authorRepository, validate *validator.Validate, logger *zap.Logger) *AuthorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthorService{repo: repo, validator: validate, logger: logger}
}

// List returns authors plus the filtered total.
func (s *AuthorService) List(ctx context.Context, filter models.AuthorFilter) ([]models.BookAuthor, int, error) {
	authors, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list authors")
	}
	return authors, total, nil
}

// Get returns a single author.
func (s *AuthorService) Get(ctx context.Context, id int64) (*models.BookAuthor, error) {
	author, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "author not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load author")
	}
	return author, nil
}

// Create registers a new book author.
func (s *AuthorService) Create(ctx context.Context, req AuthorRequest) (*models.BookAuthor, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	author := &models.BookAuthor{
		Name:      strings.TrimSpace(req.Name),
		Biography: normalizeOptional(req.Biography),
		BirthYear: req.BirthYear,
		DeathYear: req.DeathYear,
		IsActive:  true,
	}
	if err := s.repo.Create(ctx, author); err != nil {
		return nil, err
	}
	return author, nil
}

// Update modifies an existing book author.
func (s *AuthorService) Update(ctx context.Context, id int64, req AuthorRequest) (*models.BookAuthor, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	author, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "author not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load author")
	}

	author.Name = strings.TrimSpace(req.Name)
	author.Biography = normalizeOptional(req.Biography)
	author.BirthYear = req.BirthYear
	author.DeathYear = req.DeathYear
	if req.IsActive != nil {
		author.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, author); err != nil {
		return nil, err
	}
	return author, nil
}

// Delete removes an author; books referencing them block deletion.
func (s *AuthorService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "author not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load author")
	}
	return s.repo.Delete(ctx, id)
}

func (s *AuthorService) validateRequest(req AuthorRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid author payload")
	}
	if req.BirthYear != nil && req.DeathYear != nil && *req.DeathYear < *req.BirthYear {
		return appErrors.Clone(appErrors.ErrValidation, "death year must not precede birth year")
	}
	if strings.TrimSpace(req.Name) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "author name must not be empty")
	}
	return nil
}
