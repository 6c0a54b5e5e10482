package service

import (
	"context"

	"marketplace_backend/internal/listings/query"
	"marketplace_backend/internal/listings/repository"
	"marketplace_backend/internal/listings/transport"

	"golang.org/x/sync/errgroup"
)

const (
	defaultPriceMin = 0
	defaultPriceMax = 1_000_000
	defaultYearMin  = 1990
)

// AvailableFilters returns the facet universe, served from the cache when
// possible. If any part fails to load the whole result falls back to empty
// facets with default bounds.
func (s *Service) AvailableFilters(ctx context.Context) transport.AvailableFilters {
	if s.cache != nil {
		if filters, ok := s.cache.Get(ctx); ok {
			return filters
		}
	}

	filters, err := s.computeFilters(ctx)
	if err != nil {
		s.log.DatabaseError(ctx, "listings.facets", err)
		return s.defaultFilters()
	}

	if s.cache != nil {
		s.cache.Set(ctx, filters)
	}
	return filters
}

// RefreshFilters recomputes the facet universe, bypassing the cache, and
// stores the result in the cache.
func (s *Service) RefreshFilters(ctx context.Context) error {
	filters, err := s.computeFilters(ctx)
	if err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Set(ctx, filters)
	}
	return nil
}

func (s *Service) computeFilters(ctx context.Context) (transport.AvailableFilters, error) {
	filters := s.defaultFilters()

	g, gctx := errgroup.WithContext(ctx)

	simple := []struct {
		table repository.FacetTable
		dst   *[]transport.FacetOption
	}{
		{repository.FacetCategories, &filters.Categories},
		{repository.FacetSubCategories, &filters.SubCategories},
		{repository.FacetTypes, &filters.Types},
		{repository.FacetBrands, &filters.Brands},
		{repository.FacetStatuses, &filters.Statuses},
		{repository.FacetConditions, &filters.Conditions},
		{repository.FacetCountries, &filters.Countries},
	}
	for _, facet := range simple {
		g.Go(func() error {
			options, err := s.store.ListFacetOptions(gctx, facet.table)
			if err != nil {
				return err
			}
			out := make([]transport.FacetOption, len(options))
			for i, opt := range options {
				out[i] = transport.FacetOption{ID: opt.ID, Name: opt.Name}
			}
			*facet.dst = out
			return nil
		})
	}

	g.Go(func() error {
		options, err := s.store.ListFacetOptions(gctx, repository.FacetStates)
		if err != nil {
			return err
		}
		states := make([]transport.StateOption, len(options))
		for i, opt := range options {
			states[i] = transport.StateOption{ID: opt.ID, Name: opt.Name, CountryID: opt.ParentID}
		}
		filters.States = states
		return nil
	})

	g.Go(func() error {
		options, err := s.store.ListFacetOptions(gctx, repository.FacetCities)
		if err != nil {
			return err
		}
		cities := make([]transport.CityOption, len(options))
		for i, opt := range options {
			cities[i] = transport.CityOption{ID: opt.ID, Name: opt.Name, StateID: opt.ParentID}
		}
		filters.Cities = cities
		return nil
	})

	g.Go(func() error {
		bounds, err := s.store.PriceBounds(gctx)
		if err != nil {
			return err
		}
		if bounds.Min != nil && bounds.Max != nil {
			filters.PriceRange = transport.PriceRange{Min: *bounds.Min, Max: *bounds.Max}
		}
		return nil
	})

	g.Go(func() error {
		values, err := s.store.YearValues(gctx)
		if err != nil {
			return err
		}
		if yr, ok := yearRange(values); ok {
			filters.YearRange = yr
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return transport.AvailableFilters{}, err
	}
	return filters, nil
}

// yearRange spans the values the year filter can match.
func yearRange(values []string) (transport.YearRange, bool) {
	var (
		yr    transport.YearRange
		found bool
	)
	for _, v := range values {
		year, ok := query.ParseIntegerText(v)
		if !ok {
			continue
		}
		if !found || year < yr.Min {
			yr.Min = year
		}
		if !found || year > yr.Max {
			yr.Max = year
		}
		found = true
	}
	return yr, found
}

// defaultFilters is the empty facet universe with default range bounds.
func (s *Service) defaultFilters() transport.AvailableFilters {
	return transport.AvailableFilters{
		Categories:    []transport.FacetOption{},
		SubCategories: []transport.FacetOption{},
		Types:         []transport.FacetOption{},
		Brands:        []transport.FacetOption{},
		Statuses:      []transport.FacetOption{},
		Conditions:    []transport.FacetOption{},
		Countries:     []transport.FacetOption{},
		States:        []transport.StateOption{},
		Cities:        []transport.CityOption{},
		PriceRange:    transport.PriceRange{Min: defaultPriceMin, Max: defaultPriceMax},
		YearRange:     transport.YearRange{Min: defaultYearMin, Max: s.now().Year()},
	}
}
