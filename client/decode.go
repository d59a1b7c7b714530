package client

import (
	"encoding/json"
)

// fields is one raw JSON object split into its members.
type fields map[string]json.RawMessage

func objectFields(entity string, raw json.RawMessage) (fields, error) {
	var m fields
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, &DecodeError{Entity: entity, Reason: "payload is not an object"}
	}
	return m, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func requireInt64(entity string, m fields, field string) (int64, error) {
	raw, ok := m[field]
	if !ok || isNull(raw) {
		return 0, &DecodeError{Entity: entity, Field: field, Reason: "required field is missing or null"}
	}
	var v int64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, &DecodeError{Entity: entity, Field: field, Reason: "expected an integer"}
	}
	return v, nil
}

func requireInt(entity string, m fields, field string) (int, error) {
	v, err := requireInt64(entity, m, field)
	return int(v), err
}

func requireString(entity string, m fields, field string) (string, error) {
	raw, ok := m[field]
	if !ok || isNull(raw) {
		return "", &DecodeError{Entity: entity, Field: field, Reason: "required field is missing or null"}
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", &DecodeError{Entity: entity, Field: field, Reason: "expected a string"}
	}
	return v, nil
}

func requireBool(entity string, m fields, field string) (bool, error) {
	raw, ok := m[field]
	if !ok || isNull(raw) {
		return false, &DecodeError{Entity: entity, Field: field, Reason: "required field is missing or null"}
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		return false, &DecodeError{Entity: entity, Field: field, Reason: "expected a boolean"}
	}
	return v, nil
}

func optionalString(entity string, m fields, field string) (*string, error) {
	raw, ok := m[field]
	if !ok || isNull(raw) {
		return nil, nil
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, &DecodeError{Entity: entity, Field: field, Reason: "expected a string"}
	}
	return &v, nil
}

func optionalInt(entity string, m fields, field string) (*int, error) {
	raw, ok := m[field]
	if !ok || isNull(raw) {
		return nil, nil
	}
	var v int
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, &DecodeError{Entity: entity, Field: field, Reason: "expected an integer"}
	}
	return &v, nil
}

func optionalInt64(entity string, m fields, field string) (*int64, error) {
	raw, ok := m[field]
	if !ok || isNull(raw) {
		return nil, nil
	}
	var v int64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, &DecodeError{Entity: entity, Field: field, Reason: "expected an integer"}
	}
	return &v, nil
}

func decodeTheme(raw json.RawMessage) (Theme, error) {
	const entity = "theme"
	var t Theme
	m, err := objectFields(entity, raw)
	if err != nil {
		return t, err
	}
	if t.ID, err = requireInt64(entity, m, "id"); err != nil {
		return t, err
	}
	if t.Name, err = requireString(entity, m, "name"); err != nil {
		return t, err
	}
	if t.IsActive, err = requireBool(entity, m, "is_active"); err != nil {
		return t, err
	}
	if t.Description, err = optionalString(entity, m, "description"); err != nil {
		return t, err
	}
	if sortOrder, err := optionalInt(entity, m, "sort_order"); err != nil {
		return t, err
	} else if sortOrder != nil {
		t.SortOrder = *sortOrder
	}
	return t, nil
}

func decodeAuthor(raw json.RawMessage) (Author, error) {
	const entity = "author"
	var a Author
	m, err := objectFields(entity, raw)
	if err != nil {
		return a, err
	}
	if a.ID, err = requireInt64(entity, m, "id"); err != nil {
		return a, err
	}
	if a.Name, err = requireString(entity, m, "name"); err != nil {
		return a, err
	}
	if a.IsActive, err = requireBool(entity, m, "is_active"); err != nil {
		return a, err
	}
	if a.Biography, err = optionalString(entity, m, "biography"); err != nil {
		return a, err
	}
	if a.BirthYear, err = optionalInt(entity, m, "birth_year"); err != nil {
		return a, err
	}
	if a.DeathYear, err = optionalInt(entity, m, "death_year"); err != nil {
		return a, err
	}
	return a, nil
}

func decodeBook(raw json.RawMessage) (Book, error) {
	const entity = "book"
	var b Book
	m, err := objectFields(entity, raw)
	if err != nil {
		return b, err
	}
	if b.ID, err = requireInt64(entity, m, "id"); err != nil {
		return b, err
	}
	if b.Name, err = requireString(entity, m, "name"); err != nil {
		return b, err
	}
	if b.IsActive, err = requireBool(entity, m, "is_active"); err != nil {
		return b, err
	}
	if b.Description, err = optionalString(entity, m, "description"); err != nil {
		return b, err
	}
	if b.ThemeID, err = optionalInt64(entity, m, "theme_id"); err != nil {
		return b, err
	}
	if b.AuthorID, err = optionalInt64(entity, m, "author_id"); err != nil {
		return b, err
	}
	if sortOrder, err := optionalInt(entity, m, "sort_order"); err != nil {
		return b, err
	} else if sortOrder != nil {
		b.SortOrder = *sortOrder
	}
	return b, nil
}

func decodeTeacher(raw json.RawMessage) (Teacher, error) {
	const entity = "teacher"
	var t Teacher
	m, err := objectFields(entity, raw)
	if err != nil {
		return t, err
	}
	if t.ID, err = requireInt64(entity, m, "id"); err != nil {
		return t, err
	}
	if t.Name, err = requireString(entity, m, "name"); err != nil {
		return t, err
	}
	if t.IsActive, err = requireBool(entity, m, "is_active"); err != nil {
		return t, err
	}
	if t.Biography, err = optionalString(entity, m, "biography"); err != nil {
		return t, err
	}
	return t, nil
}

func decodeSeries(raw json.RawMessage) (Series, error) {
	const entity = "series"
	var s Series
	m, err := objectFields(entity, raw)
	if err != nil {
		return s, err
	}
	if s.ID, err = requireInt64(entity, m, "id"); err != nil {
		return s, err
	}
	if s.Name, err = requireString(entity, m, "name"); err != nil {
		return s, err
	}
	if s.Year, err = requireInt(entity, m, "year"); err != nil {
		return s, err
	}
	if s.TeacherID, err = requireInt64(entity, m, "teacher_id"); err != nil {
		return s, err
	}
	if s.IsCompleted, err = requireBool(entity, m, "is_completed"); err != nil {
		return s, err
	}
	if s.IsActive, err = requireBool(entity, m, "is_active"); err != nil {
		return s, err
	}
	if s.Description, err = optionalString(entity, m, "description"); err != nil {
		return s, err
	}
	if s.BookID, err = optionalInt64(entity, m, "book_id"); err != nil {
		return s, err
	}
	if s.ThemeID, err = optionalInt64(entity, m, "theme_id"); err != nil {
		return s, err
	}
	return s, nil
}

// decodeLesson validates a lesson payload. seriesID comes from the request
// context because lesson payloads do not carry it.
func decodeLesson(raw json.RawMessage, seriesID int64) (Lesson, error) {
	const entity = "lesson"
	var l Lesson
	m, err := objectFields(entity, raw)
	if err != nil {
		return l, err
	}
	if l.ID, err = requireInt64(entity, m, "id"); err != nil {
		return l, err
	}
	if l.Title, err = requireString(entity, m, "title"); err != nil {
		return l, err
	}
	if l.IsActive, err = requireBool(entity, m, "is_active"); err != nil {
		return l, err
	}
	if l.Description, err = optionalString(entity, m, "description"); err != nil {
		return l, err
	}
	if l.LessonNumber, err = optionalInt(entity, m, "lesson_number"); err != nil {
		return l, err
	}
	if l.DurationSeconds, err = optionalInt(entity, m, "duration_seconds"); err != nil {
		return l, err
	}
	if l.AudioPath, err = optionalString(entity, m, "audio_path"); err != nil {
		return l, err
	}
	if l.Tags, err = optionalString(entity, m, "tags"); err != nil {
		return l, err
	}
	if l.BookID, err = optionalInt64(entity, m, "book_id"); err != nil {
		return l, err
	}
	if l.TeacherID, err = optionalInt64(entity, m, "teacher_id"); err != nil {
		return l, err
	}
	if l.ThemeID, err = optionalInt64(entity, m, "theme_id"); err != nil {
		return l, err
	}
	l.SeriesID = seriesID
	return l, nil
}

func decodeTest(raw json.RawMessage) (Test, error) {
	const entity = "test"
	var t Test
	m, err := objectFields(entity, raw)
	if err != nil {
		return t, err
	}
	if t.ID, err = requireInt64(entity, m, "id"); err != nil {
		return t, err
	}
	if t.Title, err = requireString(entity, m, "title"); err != nil {
		return t, err
	}
	if t.SeriesID, err = requireInt64(entity, m, "series_id"); err != nil {
		return t, err
	}
	if t.TeacherID, err = requireInt64(entity, m, "teacher_id"); err != nil {
		return t, err
	}
	if t.IsActive, err = requireBool(entity, m, "is_active"); err != nil {
		return t, err
	}
	if t.Description, err = optionalString(entity, m, "description"); err != nil {
		return t, err
	}
	if t.PassingScore, err = requireInt(entity, m, "passing_score"); err != nil {
		return t, err
	}
	if t.TimePerQuestionSeconds, err = requireInt(entity, m, "time_per_question_seconds"); err != nil {
		return t, err
	}
	if count, err := optionalInt(entity, m, "questions_count"); err != nil {
		return t, err
	} else if count != nil {
		t.QuestionsCount = *count
	}
	return t, nil
}

// rawPage is the envelope before item decoding.
type rawPage struct {
	Items []json.RawMessage `json:"items"`
	Total *int              `json:"total"`
	Skip  *int              `json:"skip"`
	Limit *int              `json:"limit"`
}

func decodePage(entity string, body []byte) (*rawPage, error) {
	var page rawPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, &DecodeError{Entity: entity, Reason: "response is not a listing envelope"}
	}
	if page.Items == nil {
		return nil, &DecodeError{Entity: entity, Field: "items", Reason: "required field is missing or null"}
	}
	if page.Total == nil {
		return nil, &DecodeError{Entity: entity, Field: "total", Reason: "required field is missing or null"}
	}
	if page.Skip == nil {
		return nil, &DecodeError{Entity: entity, Field: "skip", Reason: "required field is missing or null"}
	}
	if page.Limit == nil {
		return nil, &DecodeError{Entity: entity, Field: "limit", Reason: "required field is missing or null"}
	}
	return &page, nil
}
