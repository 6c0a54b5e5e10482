package cache

import (
	"context"
	"testing"
	"time"

	"marketplace_backend/internal/listings/transport"
	"marketplace_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestFacets(t *testing.T) (*Facets, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewFacets(rdb, time.Minute, logger.Discard()), mr
}

func sampleFilters() transport.AvailableFilters {
	country := int64(1)
	return transport.AvailableFilters{
		Categories:    []transport.FacetOption{{ID: 1, Name: "Excavators"}},
		SubCategories: []transport.FacetOption{},
		Types:         []transport.FacetOption{},
		Brands:        []transport.FacetOption{{ID: 10, Name: "Caterpillar"}},
		Statuses:      []transport.FacetOption{},
		Conditions:    []transport.FacetOption{},
		Countries:     []transport.FacetOption{{ID: 1, Name: "United States"}},
		States:        []transport.StateOption{{ID: 7, Name: "Texas", CountryID: &country}},
		Cities:        []transport.CityOption{},
		PriceRange:    transport.PriceRange{Min: 30000, Max: 120000},
		YearRange:     transport.YearRange{Min: 2012, Max: 2021},
	}
}

func TestFacetsRoundTrip(t *testing.T) {
	facets, mr := newTestFacets(t)
	ctx := context.Background()

	_, ok := facets.Get(ctx)
	require.False(t, ok)

	want := sampleFilters()
	facets.Set(ctx, want)

	got, ok := facets.Get(ctx)
	require.True(t, ok)
	require.Equal(t, want, got)
	require.Equal(t, time.Minute, mr.TTL(FacetsKey))
}

func TestFacetsExpire(t *testing.T) {
	facets, mr := newTestFacets(t)
	ctx := context.Background()

	facets.Set(ctx, sampleFilters())
	mr.FastForward(2 * time.Minute)

	_, ok := facets.Get(ctx)
	require.False(t, ok)
}

func TestFacetsCorruptEntryIsMiss(t *testing.T) {
	facets, mr := newTestFacets(t)

	require.NoError(t, mr.Set(FacetsKey, "{not json"))
	_, ok := facets.Get(context.Background())
	require.False(t, ok)
}

func TestFacetsRedisDownIsMiss(t *testing.T) {
	facets, mr := newTestFacets(t)
	ctx := context.Background()

	mr.Close()

	facets.Set(ctx, sampleFilters())
	_, ok := facets.Get(ctx)
	require.False(t, ok)
}

func TestFacetsInvalidate(t *testing.T) {
	facets, mr := newTestFacets(t)
	ctx := context.Background()

	facets.Set(ctx, sampleFilters())
	require.NoError(t, facets.Invalidate(ctx))
	require.False(t, mr.Exists(FacetsKey))
}

func TestNewFacetsDefaultsTTL(t *testing.T) {
	facets := NewFacets(nil, 0, logger.Discard())
	require.Equal(t, defaultTTL, facets.ttl)
}
