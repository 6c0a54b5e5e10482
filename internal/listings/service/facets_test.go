package service

import (
	"context"
	"errors"
	"testing"

	"marketplace_backend/internal/listings/query"
	"marketplace_backend/internal/listings/repository"
	"marketplace_backend/internal/listings/transport"

	"github.com/stretchr/testify/require"
)

func TestAvailableFiltersAggregatesFacets(t *testing.T) {
	svc := newTestService(t, loadFixtureStore(t), nil)

	filters := svc.AvailableFilters(context.Background())

	require.Equal(t, []transport.FacetOption{{ID: 1, Name: "Excavators"}, {ID: 2, Name: "Loaders"}}, filters.Categories)
	require.Len(t, filters.SubCategories, 1)
	require.Len(t, filters.Types, 2)
	require.Len(t, filters.Brands, 3)
	require.Len(t, filters.Statuses, 1)
	require.Len(t, filters.Conditions, 1)
	require.Len(t, filters.Countries, 1)

	require.Len(t, filters.States, 2)
	require.Equal(t, "Ohio", filters.States[0].Name)
	require.Equal(t, int64(1), *filters.States[0].CountryID)

	require.Len(t, filters.Cities, 1)
	require.Equal(t, int64(7), *filters.Cities[0].StateID)

	require.Equal(t, transport.PriceRange{Min: 30000, Max: 120000}, filters.PriceRange)
	require.Equal(t, transport.YearRange{Min: 2012, Max: 2021}, filters.YearRange)
}

func TestAvailableFiltersUsesDefaultBoundsWithoutData(t *testing.T) {
	svc := newTestService(t, repository.NewMemoryStore(), nil)

	filters := svc.AvailableFilters(context.Background())
	require.Equal(t, svc.defaultFilters(), filters)
	require.Equal(t, transport.YearRange{Min: 1990, Max: 2026}, filters.YearRange)
	require.Equal(t, transport.PriceRange{Min: 0, Max: 1_000_000}, filters.PriceRange)
}

func TestAvailableFiltersFailsClosed(t *testing.T) {
	failures := []string{
		repository.OpListFacetOptions + ":" + string(repository.FacetCategories),
		repository.OpListFacetOptions + ":" + string(repository.FacetBrands),
		repository.OpListFacetOptions + ":" + string(repository.FacetStates),
		repository.OpListFacetOptions + ":" + string(repository.FacetCities),
		repository.OpPriceBounds,
		repository.OpYearValues,
	}

	for _, op := range failures {
		t.Run(op, func(t *testing.T) {
			store := loadFixtureStore(t)
			store.FailOn(op, errors.New("permission denied"))
			cache := &memoryCache{}
			svc := newTestService(t, store, cache)

			filters := svc.AvailableFilters(context.Background())
			require.Equal(t, svc.defaultFilters(), filters)
			require.NotNil(t, filters.Categories)
			require.Empty(t, filters.Categories)
			require.Equal(t, 0, cache.sets, "defaulted facets must not be cached")
		})
	}
}

func TestAvailableFiltersServesFromCache(t *testing.T) {
	store := loadFixtureStore(t)
	cache := &memoryCache{}
	svc := newTestService(t, store, cache)
	ctx := context.Background()

	first := svc.AvailableFilters(ctx)
	require.Equal(t, 1, cache.sets)

	// The store is down now; a cached universe must still be served.
	store.FailOn(repository.OpListFacetOptions, errors.New("down"))
	second := svc.AvailableFilters(ctx)
	require.Equal(t, first, second)
	require.Equal(t, 1, cache.sets)
}

func TestRefreshFiltersBypassesCache(t *testing.T) {
	cache := &memoryCache{filters: &transport.AvailableFilters{}}
	svc := newTestService(t, loadFixtureStore(t), cache)

	require.NoError(t, svc.RefreshFilters(context.Background()))
	require.Equal(t, 0, cache.gets)
	require.Equal(t, 1, cache.sets)
	require.Len(t, cache.filters.Brands, 3)
}

func TestRefreshFiltersReturnsStoreError(t *testing.T) {
	store := loadFixtureStore(t)
	store.FailOn(repository.OpPriceBounds, errors.New("timeout"))
	cache := &memoryCache{}
	svc := newTestService(t, store, cache)

	require.Error(t, svc.RefreshFilters(context.Background()))
	require.Equal(t, 0, cache.sets)
}

func TestYearRangeIgnoresUnparseableValues(t *testing.T) {
	yr, ok := yearRange([]string{"n/a", "2004", "1999", "20x1", ""})
	require.True(t, ok)
	require.Equal(t, transport.YearRange{Min: 1999, Max: 2004}, yr)

	_, ok = yearRange([]string{"unknown"})
	require.False(t, ok)
}

func TestYearRangeOnlyCountsValuesTheFilterMatches(t *testing.T) {
	values := []string{" 2015", "+2030", "-3", "1.5", "2008", "2012"}

	yr, ok := yearRange(values)
	require.True(t, ok)
	require.Equal(t, transport.YearRange{Min: 2008, Max: 2012}, yr)

	store := repository.NewMemoryStore()
	for i, v := range values {
		store.AddListing(repository.Row{"id": int64(i + 1), "year_name": v})
	}
	svc := newTestService(t, store, nil)

	for _, bound := range []int{yr.Min, yr.Max} {
		resp := svc.Search(context.Background(), query.Criteria{YearMin: &bound, YearMax: &bound}, SearchOptions{})
		require.Len(t, resp.Items, 1, "year %d", bound)
	}
	rejected := 2015
	resp := svc.Search(context.Background(), query.Criteria{YearMin: &rejected, YearMax: &rejected}, SearchOptions{})
	require.Empty(t, resp.Items)
}
