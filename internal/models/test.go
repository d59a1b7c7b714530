package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Test is the quiz attached to a lesson series (at most one per series,
// enforced by a unique constraint on series_id).
type Test struct {
	ID                     int64     `db:"id" json:"id"`
	Title                  string    `db:"title" json:"title"`
	Description            *string   `db:"description" json:"description,omitempty"`
	SeriesID               int64     `db:"series_id" json:"series_id"`
	TeacherID              int64     `db:"teacher_id" json:"teacher_id"`
	PassingScore           int       `db:"passing_score" json:"passing_score"`
	TimePerQuestionSeconds int       `db:"time_per_question_seconds" json:"time_per_question_seconds"`
	QuestionsCount         int       `db:"questions_count" json:"questions_count"`
	IsActive               bool      `db:"is_active" json:"is_active"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time `db:"updated_at" json:"updated_at"`
}

// TestFilter captures filtering options for listing tests.
type TestFilter struct {
	ListQuery
	SeriesID  *int64
	TeacherID *int64
}

// StringList stores answer options as a JSON array column.
type StringList []string

// Value implements driver.Valuer.
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner.
func (s *StringList) Scan(src interface{}) error {
	if src == nil {
		*s = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported options column type %T", src)
	}
	return json.Unmarshal(raw, s)
}

// TestQuestion is one question of a test, tied to the lesson it covers.
type TestQuestion struct {
	ID                 int64      `db:"id" json:"id"`
	TestID             int64      `db:"test_id" json:"test_id"`
	LessonID           int64      `db:"lesson_id" json:"lesson_id"`
	QuestionText       string     `db:"question_text" json:"question_text"`
	Options            StringList `db:"options" json:"options"`
	CorrectAnswerIndex int        `db:"correct_answer_index" json:"correct_answer_index"`
	Explanation        *string    `db:"explanation" json:"explanation,omitempty"`
	Position           int        `db:"position" json:"position"`
	Points             int        `db:"points" json:"points"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}
