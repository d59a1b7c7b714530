package models

// EntityCounts is the total/active/inactive breakdown shared by every
// statistics section.
type EntityCounts struct {
	Total    int `db:"total" json:"total"`
	Active   int `db:"active" json:"active"`
	Inactive int `json:"inactive"`
}

// SeriesCounts extends EntityCounts with completion breakdowns.
type SeriesCounts struct {
	EntityCounts
	Completed  int `db:"completed" json:"completed"`
	InProgress int `db:"in_progress" json:"in_progress"`
}

// LessonCounts extends EntityCounts with audio coverage and total duration.
type LessonCounts struct {
	EntityCounts
	WithAudio            int     `db:"with_audio" json:"with_audio"`
	WithoutAudio         int     `db:"without_audio" json:"without_audio"`
	TotalDurationSeconds int     `db:"total_duration_seconds" json:"total_duration_seconds"`
	TotalDurationHours   float64 `json:"total_duration_hours"`
}

// Statistics is the aggregate dashboard payload.
type Statistics struct {
	Themes   EntityCounts `json:"themes"`
	Books    EntityCounts `json:"books"`
	Authors  EntityCounts `json:"authors"`
	Teachers EntityCounts `json:"teachers"`
	Series   SeriesCounts `json:"series"`
	Lessons  LessonCounts `json:"lessons"`
	Users    EntityCounts `json:"users"`
}
