package models

import "time"

// Theme is a top-level content category (Акыда, Сира, Фикх, Адаб).
type Theme struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	SortOrder   int       `db:"sort_order" json:"sort_order"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ThemeWithCounts augments a theme with its dependent record counts.
type ThemeWithCounts struct {
	Theme
	BooksCount  int `json:"books_count"`
	SeriesCount int `json:"series_count"`
}

// ThemeFilter captures filtering options for listing themes.
type ThemeFilter struct {
	ListQuery
}

// BookAuthor is a classical scholar whose book is being studied.
type BookAuthor struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Biography *string   `db:"biography" json:"biography,omitempty"`
	BirthYear *int      `db:"birth_year" json:"birth_year,omitempty"`
	DeathYear *int      `db:"death_year" json:"death_year,omitempty"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// AuthorFilter captures filtering options for listing book authors.
type AuthorFilter struct {
	ListQuery
	BirthYearFrom *int
	BirthYearTo   *int
}

// Book is an Islamic book studied across one or more lesson series.
type Book struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	ThemeID     *int64    `db:"theme_id" json:"theme_id,omitempty"`
	AuthorID    *int64    `db:"author_id" json:"author_id,omitempty"`
	SortOrder   int       `db:"sort_order" json:"sort_order"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// BookFilter captures filtering options for listing books.
type BookFilter struct {
	ListQuery
	ThemeID  *int64
	AuthorID *int64
}
