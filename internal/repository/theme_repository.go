package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/darsapp/dars-api/internal/models"
)

const themeColumns = "id, name, description, sort_order, is_active, created_at, updated_at"

// ThemeRepository manages persistence for themes.
type ThemeRepository struct {
	db *sqlx.DB
}

// NewThemeRepository constructs a ThemeRepository.
func NewThemeRepository(db *sqlx.DB) *ThemeRepository {
	return &ThemeRepository{db: db}
}

// List returns themes matching filters along with the filtered total count.
func (r *ThemeRepository) List(ctx context.Context, filter models.ThemeFilter) ([]models.Theme, int, error) {
	filter.Normalize()

	base := "FROM themes WHERE 1=1"
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

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY sort_order ASC, name ASC LIMIT %d OFFSET %d", themeColumns, base, filter.Limit, filter.Skip)
	var themes []models.Theme
	if err := r.db.SelectContext(ctx, &themes, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list themes: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count themes: %w", err)
	}

	return themes, total, nil
}

// FindByID fetches a theme by ID.
func (r *ThemeRepository) FindByID(ctx context.Context, id int64) (*models.Theme, error) {
	query := fmt.Sprintf("SELECT %s FROM themes WHERE id = $1", themeColumns)
	var theme models.Theme
	if err := r.db.GetContext(ctx, &theme, query, id); err != nil {
		return nil, err
	}
	return &theme, nil
}

// FindWithCounts fetches a theme along with its book and series counts.
func (r *ThemeRepository) FindWithCounts(ctx context.Context, id int64) (*models.ThemeWithCounts, error) {
	theme, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &models.ThemeWithCounts{Theme: *theme}
	if err := r.db.GetContext(ctx, &result.BooksCount, "SELECT COUNT(*) FROM books WHERE theme_id = $1", id); err != nil {
		return nil, fmt.Errorf("count theme books: %w", err)
	}
	if err := r.db.GetContext(ctx, &result.SeriesCount, "SELECT COUNT(*) FROM lesson_series WHERE theme_id = $1", id); err != nil {
		return nil, fmt.Errorf("count theme series: %w", err)
	}
	return result, nil
}

// Create inserts a new theme and assigns its server-side identifier.
func (r *ThemeRepository) Create(ctx context.Context, theme *models.Theme) error {
	now := time.Now().UTC()
	theme.CreatedAt = now
	theme.UpdatedAt = now

	const query = `INSERT INTO themes (name, description, sort_order, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, theme.Name, theme.Description, theme.SortOrder, theme.IsActive, theme.CreatedAt, theme.UpdatedAt).Scan(&theme.ID); err != nil {
		return mapConstraintError(fmt.Errorf("create theme: %w", err), "", "theme name already exists")
	}
	return nil
}

// Update modifies an existing theme record.
func (r *ThemeRepository) Update(ctx context.Context, theme *models.Theme) error {
	theme.UpdatedAt = time.Now().UTC()
	const query = `UPDATE themes SET name = :name, description = :description, sort_order = :sort_order, is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, theme); err != nil {
		return mapConstraintError(fmt.Errorf("update theme: %w", err), "", "theme name already exists")
	}
	return nil
}

// Delete removes a theme. The database rejects the delete when books or
// series still reference it.
func (r *ThemeRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM themes WHERE id = $1", id); err != nil {
		return mapConstraintError(err, "theme has books or series attached", "")
	}
	return nil
}
