package models

const (
	// DefaultLimit applies when a list request carries no explicit limit.
	DefaultLimit = 100
	// MaxLimit caps the page size of any list request.
	MaxLimit = 1000
)

// ListQuery captures the pagination and visibility inputs shared by every
// list endpoint. IncludeInactive is honored for admin callers only; the
// handler layer clears it for everyone else.
type ListQuery struct {
	Skip            int
	Limit           int
	Search          string
	IncludeInactive bool
}

// Normalize clamps skip and limit into their allowed ranges.
func (q *ListQuery) Normalize() {
	if q.Skip < 0 {
		q.Skip = 0
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
}
