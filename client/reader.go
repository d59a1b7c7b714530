package client

import (
	"context"
	"errors"
	"sync/atomic"

	"go.uber.org/zap"
)

// Reader serves catalog reads from the server, falling back to the local
// cache when the server is unreachable. Only transport failures trigger the
// fallback; API errors and decode errors are returned as-is. Offline reports
// whether the last read was served from the cache.
type Reader struct {
	client  *Client
	cache   *Cache
	logger  *zap.Logger
	offline atomic.Bool
}

// NewReader builds a Reader over the given client and cache.
func NewReader(client *Client, cache *Cache, logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{client: client, cache: cache, logger: logger}
}

// Offline reports whether the most recent read fell back to cached rows.
func (r *Reader) Offline() bool {
	return r.offline.Load()
}

func readThrough[T any](ctx context.Context, r *Reader, entity string, remote func(context.Context) ([]T, error), local func(context.Context) ([]T, error)) ([]T, error) {
	items, err := remote(ctx)
	if err == nil {
		r.offline.Store(false)
		return items, nil
	}
	var terr *TransportError
	if !errors.As(err, &terr) {
		return nil, err
	}
	r.offline.Store(true)
	r.logger.Sugar().Warnw("server unreachable, serving cached rows", "entity", entity, "error", err)
	return local(ctx)
}

// Themes lists themes, served from cache when the server is down.
func (r *Reader) Themes(ctx context.Context, params ListParams) ([]Theme, error) {
	return readThrough(ctx, r, "theme",
		func(ctx context.Context) ([]Theme, error) {
			page, err := r.client.ListThemes(ctx, params)
			if err != nil {
				return nil, err
			}
			return page.Items, nil
		},
		r.cache.Themes,
	)
}

// Authors lists authors, served from cache when the server is down.
func (r *Reader) Authors(ctx context.Context, params ListParams) ([]Author, error) {
	return readThrough(ctx, r, "author",
		func(ctx context.Context) ([]Author, error) {
			page, err := r.client.ListAuthors(ctx, params)
			if err != nil {
				return nil, err
			}
			return page.Items, nil
		},
		r.cache.Authors,
	)
}

// Books lists books, served from cache when the server is down.
func (r *Reader) Books(ctx context.Context, params ListParams) ([]Book, error) {
	return readThrough(ctx, r, "book",
		func(ctx context.Context) ([]Book, error) {
			page, err := r.client.ListBooks(ctx, params)
			if err != nil {
				return nil, err
			}
			return page.Items, nil
		},
		r.cache.Books,
	)
}

// Teachers lists teachers, served from cache when the server is down.
func (r *Reader) Teachers(ctx context.Context, params ListParams) ([]Teacher, error) {
	return readThrough(ctx, r, "teacher",
		func(ctx context.Context) ([]Teacher, error) {
			page, err := r.client.ListTeachers(ctx, params)
			if err != nil {
				return nil, err
			}
			return page.Items, nil
		},
		r.cache.Teachers,
	)
}

// Series lists series, served from cache when the server is down.
func (r *Reader) Series(ctx context.Context, params ListParams) ([]Series, error) {
	return readThrough(ctx, r, "series",
		func(ctx context.Context) ([]Series, error) {
			page, err := r.client.ListSeries(ctx, params)
			if err != nil {
				return nil, err
			}
			return page.Items, nil
		},
		r.cache.Series,
	)
}

// SeriesLessons lists a series' lessons, served from cache when the server
// is down. Fresh rows are written back to the cache on the way through.
func (r *Reader) SeriesLessons(ctx context.Context, seriesID int64) ([]Lesson, error) {
	return readThrough(ctx, r, "lesson",
		func(ctx context.Context) ([]Lesson, error) {
			lessons, err := r.client.ListSeriesLessons(ctx, seriesID)
			if err != nil {
				return nil, err
			}
			if err := r.cache.UpsertLessons(ctx, lessons); err != nil {
				r.logger.Sugar().Warnw("lesson write-back failed", "series_id", seriesID, "error", err)
			}
			return lessons, nil
		},
		func(ctx context.Context) ([]Lesson, error) {
			return r.cache.SeriesLessons(ctx, seriesID)
		},
	)
}

// Tests lists tests, served from cache when the server is down.
func (r *Reader) Tests(ctx context.Context, params ListParams) ([]Test, error) {
	return readThrough(ctx, r, "test",
		func(ctx context.Context) ([]Test, error) {
			page, err := r.client.ListTests(ctx, params)
			if err != nil {
				return nil, err
			}
			return page.Items, nil
		},
		r.cache.Tests,
	)
}
