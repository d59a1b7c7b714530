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

type bookRepository interface {
	List(ctx context.Context, filter models.BookFilter) ([]models.Book, int, error)
	FindByID(ctx context.Context, id int64) (*models.Book, error)
	Create(ctx context.Context, book *models.Book) error
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id int64) error
}

// BookRequest represents payload for creating and updating books.
type BookRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description" validate:"omitempty,max=10000"`
	AuthorID    int64   `json:"author_id" validate:"required,gt=0"`
	ThemeID     *int64  `json:"theme_id" validate:"omitempty,gt=0"`
	SortOrder   int     `json:"sort_order"`
	IsActive    *bool   `json:"is_active"`
}

// BookService orchestrates book operations.
type BookService struct {
	repo      bookRepository
	authors   authorRepository
	themes    themeRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBookService constructs a BookService.
func NewBookService(repo bookRepository, authors authorRepository, themes themeRepository, validate *validator.Validate, logger *zap.Logger) *BookService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookService{repo: repo, authors: authors, themes: themes, validator: validate, logger: logger}
}

// List returns books plus the filtered total.
func (s *BookService) List(ctx context.Context, filter models.BookFilter) ([]models.Book, int, error) {
	books, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list books")
	}
	return books, total, nil
}

// Get returns a single book.
func (s *BookService) Get(ctx context.Context, id int64) (*models.Book, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "book not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load book")
	}
	return book, nil
}

// Create registers a new book after checking its references exist.
func (s *BookService) Create(ctx context.Context, req BookRequest) (*models.Book, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid book payload")
	}
	if err := s.checkReferences(ctx, req); err != nil {
		return nil, err
	}

	book := &models.Book{
		Name:        strings.TrimSpace(req.Name),
		Description: normalizeOptional(req.Description),
		AuthorID:    &req.AuthorID,
		ThemeID:     req.ThemeID,
		SortOrder:   req.SortOrder,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// Update modifies an existing book.
func (s *BookService) Update(ctx context.Context, id int64, req BookRequest) (*models.Book, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid book payload")
	}

	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "book not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load book")
	}
	if err := s.checkReferences(ctx, req); err != nil {
		return nil, err
	}

	book.Name = strings.TrimSpace(req.Name)
	book.Description = normalizeOptional(req.Description)
	authorID := req.AuthorID
	book.AuthorID = &authorID
	book.ThemeID = req.ThemeID
	book.SortOrder = req.SortOrder
	if req.IsActive != nil {
		book.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// Delete removes a book; series referencing it block deletion.
func (s *BookService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "book not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load book")
	}
	return s.repo.Delete(ctx, id)
}

func (s *BookService) checkReferences(ctx context.Context, req BookRequest) error {
	if _, err := s.authors.FindByID(ctx, req.AuthorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "author does not exist")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check author")
	}
	if req.ThemeID != nil {
		if _, err := s.themes.FindByID(ctx, *req.ThemeID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrValidation, "theme does not exist")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check theme")
		}
	}
	return nil
}
