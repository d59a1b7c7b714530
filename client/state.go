package client

import (
	"context"
	"sync"
)

// Phase is the lifecycle position of a listing.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseErrored
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// ListState tracks one paged listing: its filters, the current page and the
// load lifecycle. It starts idle; every fetch passes through loading and
// lands on loaded or errored. Changing a filter rewinds to the first page,
// moving between pages keeps the filters.
type ListState[T any] struct {
	mu sync.Mutex

	phase    Phase
	params   ListParams
	pageSize int
	items    []T
	total    int
	lastErr  error
}

// NewListState builds an idle state with the given page size.
func NewListState[T any](pageSize int) *ListState[T] {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &ListState[T]{phase: PhaseIdle, pageSize: pageSize, params: ListParams{Limit: pageSize}}
}

// Phase reports the current lifecycle position.
func (s *ListState[T]) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Items returns the rows of the last loaded page.
func (s *ListState[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items
}

// Total returns the server-side row count of the last loaded page.
func (s *ListState[T]) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// Err returns the failure of the last load, if the state is errored.
func (s *ListState[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseErrored {
		return nil
	}
	return s.lastErr
}

// PageIndex returns the zero-based index of the current page.
func (s *ListState[T]) PageIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.Skip / s.pageSize
}

// Params returns a copy of the parameters the next load will use.
func (s *ListState[T]) Params() ListParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// SetFilters replaces the filters and rewinds to the first page. Skip and
// Limit in the argument are ignored; paging belongs to the state.
func (s *ListState[T]) SetFilters(params ListParams) {
	s.mu.Lock()
	defer s.mu.Unlock()
	params.Skip = 0
	params.Limit = s.pageSize
	s.params = params
	s.phase = PhaseLoading
	s.lastErr = nil
}

// NextPage advances one page, keeping the filters. The last known total
// bounds the advance whatever the phase, so a failed load cannot push skip
// past the end.
func (s *ListState[T]) NextPage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.params.Skip+s.pageSize >= s.total {
		return
	}
	s.params.Skip += s.pageSize
	s.phase = PhaseLoading
	s.lastErr = nil
}

// PrevPage steps one page back, keeping the filters.
func (s *ListState[T]) PrevPage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.params.Skip == 0 {
		return
	}
	s.params.Skip -= s.pageSize
	if s.params.Skip < 0 {
		s.params.Skip = 0
	}
	s.phase = PhaseLoading
	s.lastErr = nil
}

// Reset drops filters, rows and errors, returning the state to idle.
func (s *ListState[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseIdle
	s.params = ListParams{Limit: s.pageSize}
	s.items = nil
	s.total = 0
	s.lastErr = nil
}

// Load fetches the current page with fetch and records the outcome. The
// state moves to loading for the duration of the call and lands on loaded
// or errored.
func (s *ListState[T]) Load(ctx context.Context, fetch func(context.Context, ListParams) (*Page[T], error)) error {
	s.mu.Lock()
	s.phase = PhaseLoading
	s.lastErr = nil
	params := s.params
	s.mu.Unlock()

	page, err := fetch(ctx, params)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.phase = PhaseErrored
		s.lastErr = err
		return err
	}
	s.phase = PhaseLoaded
	s.items = page.Items
	s.total = page.Total
	return nil
}
