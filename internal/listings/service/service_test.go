package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"marketplace_backend/internal/listings/repository"
	"marketplace_backend/internal/listings/transport"
	"marketplace_backend/platform/config"
	"marketplace_backend/platform/logger"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		SearchDefaultLimit:  20,
		SearchMaxLimit:      100,
		RelatedDefaultLimit: 10,
		RelatedMaxLimit:     50,
		ImageBaseURL:        "https://cdn.example.com/listings/",
		FacetCacheTTL:       5 * time.Minute,
	}
}

func newTestService(t *testing.T, store repository.Store, cache FacetCache) *Service {
	t.Helper()
	svc := New(store, cache, testConfig(), logger.Discard())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func loadFixtureStore(t *testing.T) *repository.MemoryStore {
	t.Helper()
	store, err := repository.LoadFixtures("testdata/listings.yaml")
	require.NoError(t, err)
	return store
}

func itemIDs(items []transport.SearchResultItem) []int64 {
	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

type memoryCache struct {
	mu      sync.Mutex
	filters *transport.AvailableFilters
	gets    int
	sets    int
}

func (c *memoryCache) Get(_ context.Context) (transport.AvailableFilters, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.filters == nil {
		return transport.AvailableFilters{}, false
	}
	return *c.filters, true
}

func (c *memoryCache) Set(_ context.Context, filters transport.AvailableFilters) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.filters = &filters
}
