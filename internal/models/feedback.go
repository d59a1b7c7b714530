package models

import "time"

// Feedback thread statuses. Messages cannot be appended once closed.
const (
	FeedbackStatusNew     = "new"
	FeedbackStatusReplied = "replied"
	FeedbackStatusClosed  = "closed"
)

// ValidFeedbackStatus reports whether s is a known thread status.
func ValidFeedbackStatus(s string) bool {
	switch s {
	case FeedbackStatusNew, FeedbackStatusReplied, FeedbackStatusClosed:
		return true
	}
	return false
}

// Feedback is a user-initiated support thread.
type Feedback struct {
	ID        int64      `db:"id" json:"id"`
	UserID    int64      `db:"user_id" json:"user_id"`
	Subject   string     `db:"subject" json:"subject"`
	Status    string     `db:"status" json:"status"`
	RepliedAt *time.Time `db:"replied_at" json:"replied_at,omitempty"`
	ClosedAt  *time.Time `db:"closed_at" json:"closed_at,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// FeedbackMessage is one entry in a feedback thread.
type FeedbackMessage struct {
	ID         int64     `db:"id" json:"id"`
	FeedbackID int64     `db:"feedback_id" json:"feedback_id"`
	AuthorID   int64     `db:"author_id" json:"author_id"`
	IsAdmin    bool      `db:"is_admin" json:"is_admin"`
	Body       string    `db:"body" json:"body"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// FeedbackFilter captures filtering options for listing feedback threads.
type FeedbackFilter struct {
	ListQuery
	UserID *int64
	Status string
}
