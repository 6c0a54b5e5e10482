package repository

import (
	"context"
	"errors"
	"fmt"

	"marketplace_backend/internal/listings/query"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const listingView = "listing_search_view"

type facetSpec struct {
	parentColumn string
	visibleOnly  bool
}

var facetSpecs = map[FacetTable]facetSpec{
	FacetCategories:    {visibleOnly: true},
	FacetSubCategories: {},
	FacetTypes:         {},
	FacetBrands:        {},
	FacetStatuses:      {},
	FacetConditions:    {},
	FacetCountries:     {},
	FacetStates:        {parentColumn: "country_id"},
	FacetCities:        {parentColumn: "state_id"},
}

// Repo reads listings from PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a PostgreSQL-backed store.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) FindListings(ctx context.Context, q Query) ([]Row, error) {
	where, args := buildWhere(q.Predicates)
	querySQL := "SELECT * FROM " + ident(listingView) + where + buildOrderBy(q.Order)

	if q.Limit > 0 {
		args = append(args, q.Limit)
		querySQL += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if q.Offset > 0 {
		args = append(args, q.Offset)
		querySQL += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, querySQL, args...)
	if err != nil {
		return nil, fmt.Errorf("find listings: %w", err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("find listings: %w", err)
	}

	result := make([]Row, len(records))
	for i, record := range records {
		result[i] = normalizeRow(record)
	}
	return result, nil
}

func (r *Repo) CountListings(ctx context.Context, preds []query.Predicate) (int, error) {
	where, args := buildWhere(preds)
	querySQL := "SELECT COUNT(*) FROM " + ident(listingView) + where

	var total int
	if err := r.pool.QueryRow(ctx, querySQL, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count listings: %w", err)
	}
	return total, nil
}

func (r *Repo) GetListingRefs(ctx context.Context, id int64) (ListingRefs, error) {
	refs := ListingRefs{ID: id}
	err := r.pool.QueryRow(ctx, `
		SELECT category_id, brand_id, country_id, state_id, city_id
		FROM listings
		WHERE id = $1`, id,
	).Scan(&refs.CategoryID, &refs.BrandID, &refs.CountryID, &refs.StateID, &refs.CityID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ListingRefs{}, ErrListingNotFound
	}
	if err != nil {
		return ListingRefs{}, fmt.Errorf("get listing refs: %w", err)
	}
	return refs, nil
}

func (r *Repo) ListFacetOptions(ctx context.Context, table FacetTable) ([]FacetOption, error) {
	spec, ok := facetSpecs[table]
	if !ok {
		return nil, fmt.Errorf("list facet options: unknown facet table %q", table)
	}

	parent := "NULL::bigint"
	if spec.parentColumn != "" {
		parent = ident(spec.parentColumn)
	}
	querySQL := fmt.Sprintf("SELECT id, name, %s FROM %s", parent, ident(string(table)))
	if spec.visibleOnly {
		querySQL += " WHERE is_visible = true"
	}
	querySQL += " ORDER BY name ASC, id ASC"

	rows, err := r.pool.Query(ctx, querySQL)
	if err != nil {
		return nil, fmt.Errorf("list facet options %s: %w", table, err)
	}
	defer rows.Close()

	options := make([]FacetOption, 0)
	for rows.Next() {
		var opt FacetOption
		if err := rows.Scan(&opt.ID, &opt.Name, &opt.ParentID); err != nil {
			return nil, fmt.Errorf("scan facet option %s: %w", table, err)
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list facet options %s: %w", table, err)
	}
	return options, nil
}

func (r *Repo) PriceBounds(ctx context.Context) (PriceBounds, error) {
	var bounds PriceBounds
	err := r.pool.QueryRow(ctx, `
		SELECT MIN(price)::float8, MAX(price)::float8
		FROM listings
		WHERE price IS NOT NULL`,
	).Scan(&bounds.Min, &bounds.Max)
	if err != nil {
		return PriceBounds{}, fmt.Errorf("price bounds: %w", err)
	}
	return bounds, nil
}

func (r *Repo) YearValues(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, "SELECT DISTINCT year_name FROM "+ident(listingView)+" WHERE year_name IS NOT NULL")
	if err != nil {
		return nil, fmt.Errorf("year values: %w", err)
	}

	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("year values: %w", err)
	}
	return values, nil
}

func (r *Repo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// normalizeRow converts driver-specific values into plain Go values.
func normalizeRow(record map[string]any) Row {
	row := make(Row, len(record))
	for column, value := range record {
		switch v := value.(type) {
		case pgtype.Numeric:
			if f, err := v.Float64Value(); err == nil && f.Valid {
				row[column] = f.Float64
			} else {
				row[column] = nil
			}
		case int32:
			row[column] = int64(v)
		case int16:
			row[column] = int64(v)
		case float32:
			row[column] = float64(v)
		default:
			row[column] = v
		}
	}
	return row
}

var _ Store = (*Repo)(nil)
