package client

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const cacheSchema = `
CREATE TABLE IF NOT EXISTS themes (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT,
	sort_order INTEGER NOT NULL DEFAULT 0,
	is_active INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS authors (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	biography TEXT,
	birth_year INTEGER,
	death_year INTEGER,
	is_active INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS books (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT,
	theme_id INTEGER,
	author_id INTEGER,
	sort_order INTEGER NOT NULL DEFAULT 0,
	is_active INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS teachers (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	biography TEXT,
	is_active INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS series (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	year INTEGER NOT NULL,
	description TEXT,
	teacher_id INTEGER NOT NULL,
	book_id INTEGER,
	theme_id INTEGER,
	is_completed INTEGER NOT NULL DEFAULT 0,
	is_active INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS lessons (
	id INTEGER PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT,
	lesson_number INTEGER,
	duration_seconds INTEGER,
	audio_path TEXT,
	tags TEXT,
	series_id INTEGER NOT NULL,
	book_id INTEGER,
	teacher_id INTEGER,
	theme_id INTEGER,
	is_active INTEGER NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_lessons_series ON lessons (series_id);

CREATE TABLE IF NOT EXISTS tests (
	id INTEGER PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT,
	series_id INTEGER NOT NULL,
	teacher_id INTEGER NOT NULL,
	passing_score INTEGER NOT NULL,
	time_per_question_seconds INTEGER NOT NULL,
	questions_count INTEGER NOT NULL DEFAULT 0,
	is_active INTEGER NOT NULL DEFAULT 1
);
`

// Cache is a local SQLite mirror of the server's catalog. Every row is
// written whole, so a cached entity is always internally consistent.
type Cache struct {
	db *sqlx.DB
}

// OpenCache opens (and migrates) the cache database at path. Use ":memory:"
// for an ephemeral cache.
func OpenCache(path string) (*Cache, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// UpsertThemes replaces cached rows with the given themes in one transaction.
func (c *Cache) UpsertThemes(ctx context.Context, themes []Theme) error {
	return c.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, t := range themes {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO themes (id, name, description, sort_order, is_active)
				VALUES (?, ?, ?, ?, ?)
				ON CONFLICT (id) DO UPDATE SET
					name = excluded.name,
					description = excluded.description,
					sort_order = excluded.sort_order,
					is_active = excluded.is_active`,
				t.ID, t.Name, t.Description, t.SortOrder, t.IsActive,
			); err != nil {
				return fmt.Errorf("upsert theme %d: %w", t.ID, err)
			}
		}
		return nil
	})
}

// UpsertAuthors replaces cached rows with the given authors in one transaction.
func (c *Cache) UpsertAuthors(ctx context.Context, authors []Author) error {
	return c.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, a := range authors {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO authors (id, name, biography, birth_year, death_year, is_active)
				VALUES (?, ?, ?, ?, ?, ?)
				ON CONFLICT (id) DO UPDATE SET
					name = excluded.name,
					biography = excluded.biography,
					birth_year = excluded.birth_year,
					death_year = excluded.death_year,
					is_active = excluded.is_active`,
				a.ID, a.Name, a.Biography, a.BirthYear, a.DeathYear, a.IsActive,
			); err != nil {
				return fmt.Errorf("upsert author %d: %w", a.ID, err)
			}
		}
		return nil
	})
}

// UpsertBooks replaces cached rows with the given books in one transaction.
func (c *Cache) UpsertBooks(ctx context.Context, books []Book) error {
	return c.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, b := range books {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO books (id, name, description, theme_id, author_id, sort_order, is_active)
				VALUES (?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT (id) DO UPDATE SET
					name = excluded.name,
					description = excluded.description,
					theme_id = excluded.theme_id,
					author_id = excluded.author_id,
					sort_order = excluded.sort_order,
					is_active = excluded.is_active`,
				b.ID, b.Name, b.Description, b.ThemeID, b.AuthorID, b.SortOrder, b.IsActive,
			); err != nil {
				return fmt.Errorf("upsert book %d: %w", b.ID, err)
			}
		}
		return nil
	})
}

// UpsertTeachers replaces cached rows with the given teachers in one transaction.
func (c *Cache) UpsertTeachers(ctx context.Context, teachers []Teacher) error {
	return c.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, t := range teachers {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO teachers (id, name, biography, is_active)
				VALUES (?, ?, ?, ?)
				ON CONFLICT (id) DO UPDATE SET
					name = excluded.name,
					biography = excluded.biography,
					is_active = excluded.is_active`,
				t.ID, t.Name, t.Biography, t.IsActive,
			); err != nil {
				return fmt.Errorf("upsert teacher %d: %w", t.ID, err)
			}
		}
		return nil
	})
}

// UpsertSeries replaces cached rows with the given series in one transaction.
func (c *Cache) UpsertSeries(ctx context.Context, series []Series) error {
	return c.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, s := range series {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO series (id, name, year, description, teacher_id, book_id, theme_id, is_completed, is_active)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT (id) DO UPDATE SET
					name = excluded.name,
					year = excluded.year,
					description = excluded.description,
					teacher_id = excluded.teacher_id,
					book_id = excluded.book_id,
					theme_id = excluded.theme_id,
					is_completed = excluded.is_completed,
					is_active = excluded.is_active`,
				s.ID, s.Name, s.Year, s.Description, s.TeacherID, s.BookID, s.ThemeID, s.IsCompleted, s.IsActive,
			); err != nil {
				return fmt.Errorf("upsert series %d: %w", s.ID, err)
			}
		}
		return nil
	})
}

// UpsertLessons replaces cached rows with the given lessons in one
// transaction. Every lesson must already carry its series_id.
func (c *Cache) UpsertLessons(ctx context.Context, lessons []Lesson) error {
	return c.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, l := range lessons {
			if l.SeriesID == 0 {
				return fmt.Errorf("upsert lesson %d: series id is not set", l.ID)
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO lessons (id, title, description, lesson_number, duration_seconds, audio_path, tags, series_id, book_id, teacher_id, theme_id, is_active)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT (id) DO UPDATE SET
					title = excluded.title,
					description = excluded.description,
					lesson_number = excluded.lesson_number,
					duration_seconds = excluded.duration_seconds,
					audio_path = excluded.audio_path,
					tags = excluded.tags,
					series_id = excluded.series_id,
					book_id = excluded.book_id,
					teacher_id = excluded.teacher_id,
					theme_id = excluded.theme_id,
					is_active = excluded.is_active`,
				l.ID, l.Title, l.Description, l.LessonNumber, l.DurationSeconds, l.AudioPath, l.Tags, l.SeriesID, l.BookID, l.TeacherID, l.ThemeID, l.IsActive,
			); err != nil {
				return fmt.Errorf("upsert lesson %d: %w", l.ID, err)
			}
		}
		return nil
	})
}

// UpsertTests replaces cached rows with the given tests in one transaction.
func (c *Cache) UpsertTests(ctx context.Context, tests []Test) error {
	return c.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, t := range tests {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO tests (id, title, description, series_id, teacher_id, passing_score, time_per_question_seconds, questions_count, is_active)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT (id) DO UPDATE SET
					title = excluded.title,
					description = excluded.description,
					series_id = excluded.series_id,
					teacher_id = excluded.teacher_id,
					passing_score = excluded.passing_score,
					time_per_question_seconds = excluded.time_per_question_seconds,
					questions_count = excluded.questions_count,
					is_active = excluded.is_active`,
				t.ID, t.Title, t.Description, t.SeriesID, t.TeacherID, t.PassingScore, t.TimePerQuestionSeconds, t.QuestionsCount, t.IsActive,
			); err != nil {
				return fmt.Errorf("upsert test %d: %w", t.ID, err)
			}
		}
		return nil
	})
}

// Themes returns all cached themes ordered by sort order.
func (c *Cache) Themes(ctx context.Context) ([]Theme, error) {
	var items []Theme
	err := c.db.SelectContext(ctx, &items, `
		SELECT id, name, description, sort_order, is_active
		FROM themes ORDER BY sort_order, id`)
	return items, err
}

// Authors returns all cached authors ordered by name.
func (c *Cache) Authors(ctx context.Context) ([]Author, error) {
	var items []Author
	err := c.db.SelectContext(ctx, &items, `
		SELECT id, name, biography, birth_year, death_year, is_active
		FROM authors ORDER BY name, id`)
	return items, err
}

// Books returns all cached books ordered by sort order.
func (c *Cache) Books(ctx context.Context) ([]Book, error) {
	var items []Book
	err := c.db.SelectContext(ctx, &items, `
		SELECT id, name, description, theme_id, author_id, sort_order, is_active
		FROM books ORDER BY sort_order, id`)
	return items, err
}

// Teachers returns all cached teachers ordered by name.
func (c *Cache) Teachers(ctx context.Context) ([]Teacher, error) {
	var items []Teacher
	err := c.db.SelectContext(ctx, &items, `
		SELECT id, name, biography, is_active
		FROM teachers ORDER BY name, id`)
	return items, err
}

// Series returns all cached series, newest year first.
func (c *Cache) Series(ctx context.Context) ([]Series, error) {
	var items []Series
	err := c.db.SelectContext(ctx, &items, `
		SELECT id, name, year, description, teacher_id, book_id, theme_id, is_completed, is_active
		FROM series ORDER BY year DESC, id`)
	return items, err
}

// SeriesLessons returns the cached lessons of a single series in lesson order.
func (c *Cache) SeriesLessons(ctx context.Context, seriesID int64) ([]Lesson, error) {
	var items []Lesson
	err := c.db.SelectContext(ctx, &items, `
		SELECT id, title, description, lesson_number, duration_seconds, audio_path, tags, series_id, book_id, teacher_id, theme_id, is_active
		FROM lessons WHERE series_id = ? ORDER BY lesson_number, id`, seriesID)
	return items, err
}

// Tests returns all cached tests ordered by id.
func (c *Cache) Tests(ctx context.Context) ([]Test, error) {
	var items []Test
	err := c.db.SelectContext(ctx, &items, `
		SELECT id, title, description, series_id, teacher_id, passing_score, time_per_question_seconds, questions_count, is_active
		FROM tests ORDER BY id`)
	return items, err
}
