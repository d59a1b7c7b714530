package client

// Theme mirrors the server's theme resource.
type Theme struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description" db:"description"`
	SortOrder   int     `json:"sort_order" db:"sort_order"`
	IsActive    bool    `json:"is_active" db:"is_active"`
}

// Author mirrors the server's book author resource.
type Author struct {
	ID        int64   `json:"id" db:"id"`
	Name      string  `json:"name" db:"name"`
	Biography *string `json:"biography" db:"biography"`
	BirthYear *int    `json:"birth_year" db:"birth_year"`
	DeathYear *int    `json:"death_year" db:"death_year"`
	IsActive  bool    `json:"is_active" db:"is_active"`
}

// Book mirrors the server's book resource.
type Book struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description" db:"description"`
	ThemeID     *int64  `json:"theme_id" db:"theme_id"`
	AuthorID    *int64  `json:"author_id" db:"author_id"`
	SortOrder   int     `json:"sort_order" db:"sort_order"`
	IsActive    bool    `json:"is_active" db:"is_active"`
}

// Teacher mirrors the server's lesson teacher resource.
type Teacher struct {
	ID        int64   `json:"id" db:"id"`
	Name      string  `json:"name" db:"name"`
	Biography *string `json:"biography" db:"biography"`
	IsActive  bool    `json:"is_active" db:"is_active"`
}

// Series mirrors the server's lesson series resource.
type Series struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Year        int     `json:"year" db:"year"`
	Description *string `json:"description" db:"description"`
	TeacherID   int64   `json:"teacher_id" db:"teacher_id"`
	BookID      *int64  `json:"book_id" db:"book_id"`
	ThemeID     *int64  `json:"theme_id" db:"theme_id"`
	IsCompleted bool    `json:"is_completed" db:"is_completed"`
	IsActive    bool    `json:"is_active" db:"is_active"`
}

// Lesson mirrors the server's lesson resource. The server omits series_id
// from lesson payloads; the client injects it from the request context
// before the row reaches the cache.
type Lesson struct {
	ID              int64   `json:"id" db:"id"`
	Title           string  `json:"title" db:"title"`
	Description     *string `json:"description" db:"description"`
	LessonNumber    *int    `json:"lesson_number" db:"lesson_number"`
	DurationSeconds *int    `json:"duration_seconds" db:"duration_seconds"`
	AudioPath       *string `json:"audio_path" db:"audio_path"`
	Tags            *string `json:"tags" db:"tags"`
	SeriesID        int64   `json:"-" db:"series_id"`
	BookID          *int64  `json:"book_id" db:"book_id"`
	TeacherID       *int64  `json:"teacher_id" db:"teacher_id"`
	ThemeID         *int64  `json:"theme_id" db:"theme_id"`
	IsActive        bool    `json:"is_active" db:"is_active"`
}

// Test mirrors the server's test resource.
type Test struct {
	ID                     int64   `json:"id" db:"id"`
	Title                  string  `json:"title" db:"title"`
	Description            *string `json:"description" db:"description"`
	SeriesID               int64   `json:"series_id" db:"series_id"`
	TeacherID              int64   `json:"teacher_id" db:"teacher_id"`
	PassingScore           int     `json:"passing_score" db:"passing_score"`
	TimePerQuestionSeconds int     `json:"time_per_question_seconds" db:"time_per_question_seconds"`
	QuestionsCount         int     `json:"questions_count" db:"questions_count"`
	IsActive               bool    `json:"is_active" db:"is_active"`
}

// Page is the listing envelope returned by every general list endpoint.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}
