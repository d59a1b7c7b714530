package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/darsapp/dars-api/internal/models"
)

const authorColumns = "id, name, biography, birth_year, death_year, is_active, created_at, updated_at"

// AuthorRepository manages persistence for book authors.
type AuthorRepository struct {
	db *sqlx.DB
}

// NewAuthorRepository constructs an AuthorRepository.
func NewAuthorRepository(db *sqlx.DB) *AuthorRepository {
	return &AuthorRepository{db: db}
}

// List returns authors matching filters along with the filtered total count.
func (r *AuthorRepository) List(ctx context.Context, filter models.AuthorFilter) ([]models.BookAuthor, int, error) {
	filter.Normalize()

	base := "FROM book_authors WHERE 1=1"
	var conditions []string
	var args []interface{}

	if !filter.IncludeInactive {
		conditions = append(conditions, "is_active = TRUE")
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(COALESCE(biography, '')) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, search)
	}
	if filter.BirthYearFrom != nil {
		conditions = append(conditions, fmt.Sprintf("birth_year >= $%d", len(args)+1))
		args = append(args, *filter.BirthYearFrom)
	}
	if filter.BirthYearTo != nil {
		conditions = append(conditions, fmt.Sprintf("birth_year <= $%d", len(args)+1))
		args = append(args, *filter.BirthYearTo)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY name ASC LIMIT %d OFFSET %d", authorColumns, base, filter.Limit, filter.Skip)
	var authors []models.BookAuthor
	if err := r.db.SelectContext(ctx, &authors, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list authors: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count authors: %w", err)
	}

	return authors, total, nil
}

// FindByID fetches an author by ID.
func (r *AuthorRepository) FindByID(ctx context.Context, id int64) (*models.BookAuthor, error) {
	query := fmt.Sprintf("SELECT %s FROM book_authors WHERE id = $1", authorColumns)
	var author models.BookAuthor
	if err := r.db.GetContext(ctx, &author, query, id); err != nil {
		return nil, err
	}
	return &author, nil
}

// Create inserts a new author and assigns its server-side identifier.
func (r *AuthorRepository) Create(ctx context.Context, author *models.BookAuthor) error {
	now := time.Now().UTC()
	author.CreatedAt = now
	author.UpdatedAt = now

	const query = `INSERT INTO book_authors (name, biography, birth_year, death_year, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, author.Name, author.Biography, author.BirthYear, author.DeathYear, author.IsActive, author.CreatedAt, author.UpdatedAt).Scan(&author.ID); err != nil {
		return mapConstraintError(fmt.Errorf("create author: %w", err), "", "author name already exists")
	}
	return nil
}

// Update modifies an existing author record.
func (r *AuthorRepository) Update(ctx context.Context, author *models.BookAuthor) error {
	author.UpdatedAt = time.Now().UTC()
	const query = `UPDATE book_authors SET name = :name, biography = :biography, birth_year = :birth_year, death_year = :death_year, is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, author); err != nil {
		return mapConstraintError(fmt.Errorf("update author: %w", err), "", "author name already exists")
	}
	return nil
}

// Delete removes an author unless books still reference them.
func (r *AuthorRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM book_authors WHERE id = $1", id); err != nil {
		return mapConstraintError(err, "author has books attached", "")
	}
	return nil
}
