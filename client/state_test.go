package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func themePage(total int, names ...string) *Page[Theme] {
	page := &Page[Theme]{Total: total}
	for i, name := range names {
		page.Items = append(page.Items, Theme{ID: int64(i + 1), Name: name, IsActive: true})
	}
	return page
}

func TestListStateStartsIdle(t *testing.T) {
	s := NewListState[Theme](20)
	assert.Equal(t, PhaseIdle, s.Phase())
	assert.Empty(t, s.Items())
	assert.NoError(t, s.Err())
	assert.Equal(t, 0, s.PageIndex())
	assert.Equal(t, 20, s.Params().Limit)
}

func TestListStateLoadLandsOnLoaded(t *testing.T) {
	s := NewListState[Theme](20)
	var seen Phase

	err := s.Load(context.Background(), func(ctx context.Context, params ListParams) (*Page[Theme], error) {
		seen = s.Phase()
		assert.Equal(t, 0, params.Skip)
		assert.Equal(t, 20, params.Limit)
		return themePage(2, "Акыда", "Фикх"), nil
	})
	require.NoError(t, err)

	assert.Equal(t, PhaseLoading, seen)
	assert.Equal(t, PhaseLoaded, s.Phase())
	assert.Len(t, s.Items(), 2)
	assert.Equal(t, 2, s.Total())
	assert.NoError(t, s.Err())
}

func TestListStateLoadLandsOnErrored(t *testing.T) {
	s := NewListState[Theme](20)

	err := s.Load(context.Background(), func(ctx context.Context, params ListParams) (*Page[Theme], error) {
		return nil, &TransportError{Op: "GET /themes", Err: assert.AnError}
	})
	require.Error(t, err)

	assert.Equal(t, PhaseErrored, s.Phase())
	assert.Equal(t, err, s.Err())

	// A successful reload clears the error.
	require.NoError(t, s.Load(context.Background(), func(ctx context.Context, params ListParams) (*Page[Theme], error) {
		return themePage(1, "Акыда"), nil
	}))
	assert.Equal(t, PhaseLoaded, s.Phase())
	assert.NoError(t, s.Err())
}

func TestListStateSetFiltersRewindsToFirstPage(t *testing.T) {
	s := NewListState[Theme](20)
	require.NoError(t, s.Load(context.Background(), func(ctx context.Context, params ListParams) (*Page[Theme], error) {
		return themePage(100, "Акыда"), nil
	}))
	s.NextPage()
	assert.Equal(t, 1, s.PageIndex())

	s.SetFilters(ListParams{Search: "фикх", Skip: 80, Limit: 7})
	assert.Equal(t, PhaseLoading, s.Phase())
	assert.Equal(t, 0, s.PageIndex())
	assert.Equal(t, "фикх", s.Params().Search)
	assert.Equal(t, 20, s.Params().Limit)
}

func TestListStatePagingKeepsFilters(t *testing.T) {
	s := NewListState[Theme](20)
	s.SetFilters(ListParams{ThemeID: 5})
	require.NoError(t, s.Load(context.Background(), func(ctx context.Context, params ListParams) (*Page[Theme], error) {
		return themePage(50, "Акыда"), nil
	}))

	s.NextPage()
	assert.Equal(t, PhaseLoading, s.Phase())
	assert.Equal(t, 1, s.PageIndex())
	assert.Equal(t, int64(5), s.Params().ThemeID)

	s.PrevPage()
	assert.Equal(t, 0, s.PageIndex())
	assert.Equal(t, int64(5), s.Params().ThemeID)
}

func TestListStateNextPageStopsAtLastPage(t *testing.T) {
	s := NewListState[Theme](20)
	require.NoError(t, s.Load(context.Background(), func(ctx context.Context, params ListParams) (*Page[Theme], error) {
		return themePage(15, "Акыда"), nil
	}))

	s.NextPage()
	assert.Equal(t, PhaseLoaded, s.Phase())
	assert.Equal(t, 0, s.PageIndex())
}

func TestListStateNextPageBoundedAfterError(t *testing.T) {
	s := NewListState[Theme](20)
	require.NoError(t, s.Load(context.Background(), func(ctx context.Context, params ListParams) (*Page[Theme], error) {
		return themePage(40, "Акыда"), nil
	}))
	s.NextPage()
	assert.Equal(t, 1, s.PageIndex())

	require.Error(t, s.Load(context.Background(), func(ctx context.Context, params ListParams) (*Page[Theme], error) {
		return nil, &TransportError{Op: "GET /themes", Err: assert.AnError}
	}))
	require.Equal(t, PhaseErrored, s.Phase())

	// Repeated NextPage calls from an errored load stay on the last page.
	s.NextPage()
	s.NextPage()
	assert.Equal(t, 1, s.PageIndex())
}

func TestListStateNextPageNoOpBeforeFirstLoad(t *testing.T) {
	s := NewListState[Theme](20)
	s.NextPage()
	assert.Equal(t, PhaseIdle, s.Phase())
	assert.Equal(t, 0, s.PageIndex())
}

func TestListStatePrevPageStopsAtFirstPage(t *testing.T) {
	s := NewListState[Theme](20)
	s.PrevPage()
	assert.Equal(t, PhaseIdle, s.Phase())
	assert.Equal(t, 0, s.PageIndex())
}

func TestListStateReset(t *testing.T) {
	s := NewListState[Theme](20)
	s.SetFilters(ListParams{Search: "фикх"})
	require.NoError(t, s.Load(context.Background(), func(ctx context.Context, params ListParams) (*Page[Theme], error) {
		return themePage(3, "Акыда"), nil
	}))

	s.Reset()
	assert.Equal(t, PhaseIdle, s.Phase())
	assert.Empty(t, s.Items())
	assert.Equal(t, 0, s.Total())
	assert.Equal(t, ListParams{Limit: 20}, s.Params())
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "loading", PhaseLoading.String())
	assert.Equal(t, "loaded", PhaseLoaded.String())
	assert.Equal(t, "errored", PhaseErrored.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
