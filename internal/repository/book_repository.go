package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/darsapp/dars-api/internal/models"
)

const bookColumns = "id, name, description, theme_id, author_id, sort_order, is_active, created_at, updated_at"

// BookRepository manages persistence for books.
type BookRepository struct {
	db *sqlx.DB
}

// NewBookRepository constructs a BookRepository.
func NewBookRepository(db *sqlx.DB) *BookRepository {
	return &BookRepository{db: db}
}

// List returns books matching filters along with the filtered total count.
func (r *BookRepository) List(ctx context.Context, filter models.BookFilter) ([]models.Book, int, error) {
	filter.Normalize()

	base := "FROM books WHERE 1=1"
	var conditions []string
	var args []interface{}

	if !filter.IncludeInactive {
		conditions = append(conditions, "is_active = TRUE")
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(COALESCE(description, '')) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, search)
	}
	if filter.ThemeID != nil {
		conditions = append(conditions, fmt.Sprintf("theme_id = $%d", len(args)+1))
		args = append(args, *filter.ThemeID)
	}
	if filter.AuthorID != nil {
		conditions = append(conditions, fmt.Sprintf("author_id = $%d", len(args)+1))
		args = append(args, *filter.AuthorID)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY sort_order ASC, name ASC LIMIT %d OFFSET %d", bookColumns, base, filter.Limit, filter.Skip)
	var books []models.Book
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	return books, total, nil
}

// FindByID fetches a book by ID.
func (r *BookRepository) FindByID(ctx context.Context, id int64) (*models.Book, error) {
	query := fmt.Sprintf("SELECT %s FROM books WHERE id = $1", bookColumns)
	var book models.Book
	if err := r.db.GetContext(ctx, &book, query, id); err != nil {
		return nil, err
	}
	return &book, nil
}

// Create inserts a new book and assigns its server-side identifier.
func (r *BookRepository) Create(ctx context.Context, book *models.Book) error {
	now := time.Now().UTC()
	book.CreatedAt = now
	book.UpdatedAt = now

	const query = `INSERT INTO books (name, description, theme_id, author_id, sort_order, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, book.Name, book.Description, book.ThemeID, book.AuthorID, book.SortOrder, book.IsActive, book.CreatedAt, book.UpdatedAt).Scan(&book.ID); err != nil {
		return mapConstraintError(fmt.Errorf("create book: %w", err), "", "book with this name already exists for the author")
	}
	return nil
}

// Update modifies an existing book record.
func (r *BookRepository) Update(ctx context.Context, book *models.Book) error {
	book.UpdatedAt = time.Now().UTC()
	const query = `UPDATE books SET name = :name, description = :description, theme_id = :theme_id, author_id = :author_id, sort_order = :sort_order, is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, book); err != nil {
		return mapConstraintError(fmt.Errorf("update book: %w", err), "", "book with this name already exists for the author")
	}
	return nil
}

// Delete removes a book unless lesson series still reference it.
func (r *BookRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM books WHERE id = $1", id); err != nil {
		return mapConstraintError(err, "book has lesson series attached", "")
	}
	return nil
}
