// Package repository is the boundary between the search engine and the
// listing store. Repo serves it from PostgreSQL; MemoryStore serves it from
// fixtures. Both apply the same query.Predicate semantics.
package repository

import (
	"context"
	"errors"

	"marketplace_backend/internal/listings/query"
)

// ErrListingNotFound is returned when a referenced listing does not exist.
var ErrListingNotFound = errors.New("listing not found")

// Row is one record of the listing search view keyed by column name.
// Numeric values are normalized to int64 or float64.
type Row map[string]any

// Query selects a window of listing rows.
type Query struct {
	Predicates []query.Predicate
	Order      []query.Order
	Offset     int
	// Limit caps the window. Zero means no cap.
	Limit int
}

// ListingRefs holds the attributes of a listing used to find related items.
type ListingRefs struct {
	ID         int64
	CategoryID *int64
	BrandID    *int64
	CountryID  *int64
	StateID    *int64
	CityID     *int64
}

// FacetTable names a lookup collection that feeds a facet.
type FacetTable string

const (
	FacetCategories    FacetTable = "categories"
	FacetSubCategories FacetTable = "sub_categories"
	FacetTypes         FacetTable = "types"
	FacetBrands        FacetTable = "brands"
	FacetStatuses      FacetTable = "statuses"
	FacetConditions    FacetTable = "conditions"
	FacetCountries     FacetTable = "countries"
	FacetStates        FacetTable = "states"
	FacetCities        FacetTable = "cities"
)

// FacetOption is one selectable facet value. ParentID is set for states
// (country) and cities (state).
type FacetOption struct {
	ID       int64  `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	ParentID *int64 `json:"parentId,omitempty" yaml:"parentId"`
}

// PriceBounds is the observed price span. Both ends are nil when no listing
// has a price.
type PriceBounds struct {
	Min *float64
	Max *float64
}

// Store is the listing collection consumed by the search engine.
type Store interface {
	FindListings(ctx context.Context, q Query) ([]Row, error)
	CountListings(ctx context.Context, preds []query.Predicate) (int, error)
	GetListingRefs(ctx context.Context, id int64) (ListingRefs, error)
	ListFacetOptions(ctx context.Context, table FacetTable) ([]FacetOption, error)
	PriceBounds(ctx context.Context) (PriceBounds, error)
	YearValues(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
}
