package client

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const syncPageSize = 200

// SyncReport counts the rows written during one SyncAll run.
type SyncReport struct {
	Themes   int
	Authors  int
	Books    int
	Teachers int
	Series   int
	Lessons  int
	Tests    int
}

// Syncer mirrors the remote catalog into the local cache. SyncAll is
// idempotent: rows are upserted whole, so running it twice leaves the cache
// identical to running it once.
type Syncer struct {
	client *Client
	cache  *Cache
	logger *zap.Logger
}

// NewSyncer builds a Syncer over the given client and cache.
func NewSyncer(client *Client, cache *Cache, logger *zap.Logger) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer{client: client, cache: cache, logger: logger}
}

func syncPaged[T any](ctx context.Context, list func(context.Context, ListParams) (*Page[T], error), store func(context.Context, []T) error) (int, error) {
	total := 0
	for skip := 0; ; skip += syncPageSize {
		page, err := list(ctx, ListParams{Skip: skip, Limit: syncPageSize})
		if err != nil {
			return total, err
		}
		if len(page.Items) == 0 {
			return total, nil
		}
		if err := store(ctx, page.Items); err != nil {
			return total, err
		}
		total += len(page.Items)
		if skip+len(page.Items) >= page.Total {
			return total, nil
		}
	}
}

// SyncAll refreshes every entity: reference data first, then series and
// their lessons, then tests. Lessons are fetched per series so each row
// carries the series id before it reaches the cache.
func (s *Syncer) SyncAll(ctx context.Context) (*SyncReport, error) {
	report := &SyncReport{}
	var err error

	if report.Themes, err = syncPaged(ctx, s.client.ListThemes, s.cache.UpsertThemes); err != nil {
		return report, fmt.Errorf("sync themes: %w", err)
	}
	if report.Authors, err = syncPaged(ctx, s.client.ListAuthors, s.cache.UpsertAuthors); err != nil {
		return report, fmt.Errorf("sync authors: %w", err)
	}
	if report.Books, err = syncPaged(ctx, s.client.ListBooks, s.cache.UpsertBooks); err != nil {
		return report, fmt.Errorf("sync books: %w", err)
	}
	if report.Teachers, err = syncPaged(ctx, s.client.ListTeachers, s.cache.UpsertTeachers); err != nil {
		return report, fmt.Errorf("sync teachers: %w", err)
	}

	series := make([]Series, 0, syncPageSize)
	if report.Series, err = syncPaged(ctx, s.client.ListSeries, func(ctx context.Context, items []Series) error {
		series = append(series, items...)
		return s.cache.UpsertSeries(ctx, items)
	}); err != nil {
		return report, fmt.Errorf("sync series: %w", err)
	}

	for _, sr := range series {
		lessons, err := s.client.ListSeriesLessons(ctx, sr.ID)
		if err != nil {
			return report, fmt.Errorf("sync lessons of series %d: %w", sr.ID, err)
		}
		if err := s.cache.UpsertLessons(ctx, lessons); err != nil {
			return report, fmt.Errorf("sync lessons of series %d: %w", sr.ID, err)
		}
		report.Lessons += len(lessons)
	}

	if report.Tests, err = syncPaged(ctx, s.client.ListTests, s.cache.UpsertTests); err != nil {
		return report, fmt.Errorf("sync tests: %w", err)
	}

	s.logger.Sugar().Infow("catalog sync finished",
		"themes", report.Themes,
		"authors", report.Authors,
		"books", report.Books,
		"teachers", report.Teachers,
		"series", report.Series,
		"lessons", report.Lessons,
		"tests", report.Tests,
	)
	return report, nil
}
