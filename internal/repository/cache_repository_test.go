package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darsapp/dars-api/internal/models"
	appErrors "github.com/darsapp/dars-api/pkg/errors"
)

func newCacheFixture(t *testing.T) (*CacheRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheRepository(client, nil), mr
}

func TestCacheRepositoryRoundTrip(t *testing.T) {
	repo, _ := newCacheFixture(t)
	ctx := context.Background()

	stats := models.Statistics{Themes: models.EntityCounts{Total: 4, Active: 3, Inactive: 1}}
	require.NoError(t, repo.Set(ctx, "statistics:overview", stats, time.Minute))

	var got models.Statistics
	require.NoError(t, repo.Get(ctx, "statistics:overview", &got))
	assert.Equal(t, stats, got)
}

func TestCacheRepositoryMissingKeyIsCacheMiss(t *testing.T) {
	repo, _ := newCacheFixture(t)

	var got models.Statistics
	err := repo.Get(context.Background(), "statistics:overview", &got)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
}

func TestCacheRepositoryTTLExpires(t *testing.T) {
	repo, mr := newCacheFixture(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "statistics:overview", models.Statistics{}, time.Second))
	mr.FastForward(2 * time.Second)

	var got models.Statistics
	err := repo.Get(ctx, "statistics:overview", &got)
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
}

func TestCacheRepositoryNilClientDegrades(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "key", "value", time.Minute))
	var got string
	assert.ErrorIs(t, repo.Get(ctx, "key", &got), appErrors.ErrCacheMiss)
}
