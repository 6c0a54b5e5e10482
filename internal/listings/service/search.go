package service

import (
	"context"
	"math"
	"strings"

	"marketplace_backend/internal/listings/query"
	"marketplace_backend/internal/listings/repository"
	"marketplace_backend/internal/listings/transport"

	"golang.org/x/sync/errgroup"
)

// SearchOptions controls optional parts of a search response.
type SearchOptions struct {
	IncludeFacets bool
}

// Search returns one page of listings matching criteria together with the
// exact total. On a store error it returns an empty page with zero totals.
func (s *Service) Search(ctx context.Context, criteria query.Criteria, opts SearchOptions) transport.SearchResponse {
	c := s.NormalizeCriteria(criteria)
	preds := query.Build(c)

	q := repository.Query{
		Predicates: preds,
		Order:      []query.Order{query.ResolveSort(c.Sort), {Column: query.ColumnID, Ascending: false}},
		Offset:     (c.Page - 1) * c.Limit,
		Limit:      c.Limit,
	}

	var (
		rows   []repository.Row
		total  int
		facets transport.AvailableFilters
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		found, err := s.store.FindListings(gctx, q)
		if err != nil {
			return err
		}
		rows = found
		return nil
	})
	g.Go(func() error {
		n, err := s.countListings(gctx, c)
		if err != nil {
			return err
		}
		total = n
		return nil
	})
	if opts.IncludeFacets {
		g.Go(func() error {
			facets = s.AvailableFilters(gctx)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.log.DatabaseError(ctx, "listings.search", err)
		return s.emptySearchResponse(c)
	}

	items := make([]transport.SearchResultItem, len(rows))
	for i, row := range rows {
		items[i] = s.mapper.mapItem(row)
	}

	resp := transport.SearchResponse{
		Items:      items,
		Pagination: paginate(c.Page, c.Limit, total),
		Filters:    transport.Filters{AppliedFilters: c},
	}
	if opts.IncludeFacets {
		resp.Filters.AvailableFilters = &facets
	}
	return resp
}

// Count returns the number of listings matching criteria, or zero when the
// store fails.
func (s *Service) Count(ctx context.Context, criteria query.Criteria) transport.CountResponse {
	c := s.NormalizeCriteria(criteria)

	total, err := s.countListings(ctx, c)
	if err != nil {
		s.log.DatabaseError(ctx, "listings.count", err)
		total = 0
	}
	return transport.CountResponse{Total: total, Filters: c}
}

// countListings is the single count path shared by Search and Count.
func (s *Service) countListings(ctx context.Context, c query.Criteria) (int, error) {
	return s.store.CountListings(ctx, query.Build(c))
}

// NormalizeCriteria applies paging defaults and limits, trims the search
// text and replaces an unknown sort with the default. Pages too large to
// address are pinned to the last addressable page, which is always empty.
func (s *Service) NormalizeCriteria(c query.Criteria) query.Criteria {
	c.SearchText = strings.TrimSpace(c.SearchText)
	c.Sort = query.NormalizeSort(c.Sort)
	if c.Page < 1 {
		c.Page = 1
	}
	if c.Limit < 1 {
		c.Limit = s.cfg.GetSearchDefaultLimit()
	}
	if maxLimit := s.cfg.GetSearchMaxLimit(); maxLimit > 0 && c.Limit > maxLimit {
		c.Limit = maxLimit
	}
	// (page-1)*limit must stay representable as an offset.
	if maxPage := math.MaxInt / c.Limit; c.Page > maxPage {
		c.Page = maxPage
	}
	return c
}

func (s *Service) emptySearchResponse(c query.Criteria) transport.SearchResponse {
	facets := s.defaultFilters()
	return transport.SearchResponse{
		Items:      []transport.SearchResultItem{},
		Pagination: transport.PaginationInfo{Page: c.Page, Limit: c.Limit},
		Filters: transport.Filters{
			AppliedFilters:   c,
			AvailableFilters: &facets,
		},
	}
}

func paginate(page, limit, total int) transport.PaginationInfo {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return transport.PaginationInfo{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
