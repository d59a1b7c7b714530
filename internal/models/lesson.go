package models

import (
	"fmt"
	"time"
)

// Teacher is a modern lecturer recording lesson series.
type Teacher struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Biography *string   `db:"biography" json:"biography,omitempty"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	ListQuery
}

// LessonSeries groups the lessons of one book taught by one teacher in one
// year. Theme is inherited from the book when the book is set.
type LessonSeries struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Year        int       `db:"year" json:"year"`
	Description *string   `db:"description" json:"description,omitempty"`
	TeacherID   int64     `db:"teacher_id" json:"teacher_id"`
	BookID      *int64    `db:"book_id" json:"book_id,omitempty"`
	ThemeID     *int64    `db:"theme_id" json:"theme_id,omitempty"`
	IsCompleted bool      `db:"is_completed" json:"is_completed"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// DisplayName formats the series for admin dropdowns and lesson titles.
func (s LessonSeries) DisplayName() string {
	return fmt.Sprintf("%d - %s", s.Year, s.Name)
}

// SeriesWithCounts augments a series with lesson totals.
type SeriesWithCounts struct {
	LessonSeries
	LessonsCount         int `json:"lessons_count"`
	TotalDurationSeconds int `json:"total_duration_seconds"`
}

// SeriesFilter captures filtering options for listing lesson series.
type SeriesFilter struct {
	ListQuery
	TeacherID   *int64
	BookID      *int64
	ThemeID     *int64
	Year        *int
	IsCompleted *bool
}

// Lesson is a single audio lesson inside a series. Teacher, book and theme
// are denormalized copies of the parent series, refreshed on every write.
//
// SeriesID is intentionally absent from the JSON form: the list endpoints
// have always omitted it and existing cache clients inject it from request
// context instead.
type Lesson struct {
	ID                int64     `db:"id" json:"id"`
	Title             string    `db:"title" json:"title"`
	Description       *string   `db:"description" json:"description,omitempty"`
	LessonNumber      *int      `db:"lesson_number" json:"lesson_number,omitempty"`
	DurationSeconds   *int      `db:"duration_seconds" json:"duration_seconds,omitempty"`
	AudioPath         *string   `db:"audio_path" json:"audio_path,omitempty"`
	OriginalAudioPath *string   `db:"original_audio_path" json:"-"`
	Tags              *string   `db:"tags" json:"tags,omitempty"`
	SeriesID          int64     `db:"series_id" json:"-"`
	BookID            *int64    `db:"book_id" json:"book_id,omitempty"`
	TeacherID         *int64    `db:"teacher_id" json:"teacher_id,omitempty"`
	ThemeID           *int64    `db:"theme_id" json:"theme_id,omitempty"`
	IsActive          bool      `db:"is_active" json:"is_active"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// FormattedDuration renders duration as M:SS (or H:MM:SS past an hour).
func (l Lesson) FormattedDuration() string {
	if l.DurationSeconds == nil {
		return ""
	}
	total := *l.DurationSeconds
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// LessonRef is the nested shape used inside a lesson detail response.
type LessonRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SeriesRef nests the parent series inside a lesson detail response.
type SeriesRef struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Year        int    `json:"year"`
	DisplayName string `json:"display_name"`
}

// LessonDetail is the single-lesson response with resolved relations.
type LessonDetail struct {
	Lesson
	DisplayTitle      string     `json:"display_title"`
	FormattedDuration string     `json:"formatted_duration"`
	AudioURL          string     `json:"audio_url"`
	Series            *SeriesRef `json:"series,omitempty"`
	Teacher           *LessonRef `json:"teacher,omitempty"`
	Book              *LessonRef `json:"book,omitempty"`
	Theme             *LessonRef `json:"theme,omitempty"`
}

// LessonFilter captures filtering options for listing lessons.
type LessonFilter struct {
	ListQuery
	SeriesID  *int64
	TeacherID *int64
	BookID    *int64
	ThemeID   *int64
}
