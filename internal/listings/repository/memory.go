package repository

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"marketplace_backend/internal/listings/query"

	"gopkg.in/yaml.v3"
)

// Store operation names accepted by MemoryStore.FailOn.
const (
	OpFindListings     = "FindListings"
	OpCountListings    = "CountListings"
	OpGetListingRefs   = "GetListingRefs"
	OpListFacetOptions = "ListFacetOptions"
	OpPriceBounds      = "PriceBounds"
	OpYearValues       = "YearValues"
)

type facetRecord struct {
	FacetOption `yaml:",inline"`
	Hidden      bool `yaml:"hidden"`
}

// fixtures is the YAML document read by LoadFixtures.
type fixtures struct {
	Listings []Row                        `yaml:"listings"`
	Facets   map[FacetTable][]facetRecord `yaml:"facets"`
}

// MemoryStore serves listings from memory. It backs the demo mode and the
// engine tests.
type MemoryStore struct {
	mu       sync.RWMutex
	rows     []Row
	facets   map[FacetTable][]facetRecord
	failures map[string]error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		facets:   make(map[FacetTable][]facetRecord),
		failures: make(map[string]error),
	}
}

// LoadFixtures reads a YAML fixtures file into a new MemoryStore.
func LoadFixtures(path string) (*MemoryStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return ParseFixtures(data)
}

// ParseFixtures decodes a YAML fixtures document into a new MemoryStore.
func ParseFixtures(data []byte) (*MemoryStore, error) {
	var fx fixtures
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}

	store := NewMemoryStore()
	for _, row := range fx.Listings {
		store.AddListing(row)
	}
	for table, records := range fx.Facets {
		if _, ok := facetSpecs[table]; !ok {
			return nil, fmt.Errorf("parse fixtures: unknown facet table %q", table)
		}
		store.facets[table] = append(store.facets[table], records...)
	}
	return store, nil
}

// AddListing appends a listing row. Integer values are widened to int64.
func (m *MemoryStore) AddListing(row Row) {
	normalized := make(Row, len(row))
	for column, value := range row {
		switch v := value.(type) {
		case int:
			normalized[column] = int64(v)
		case int32:
			normalized[column] = int64(v)
		case float32:
			normalized[column] = float64(v)
		default:
			normalized[column] = v
		}
	}

	m.mu.Lock()
	m.rows = append(m.rows, normalized)
	m.mu.Unlock()
}

// AddFacetOption appends a facet value. Hidden options are skipped for the
// categories facet, like invisible categories in the database.
func (m *MemoryStore) AddFacetOption(table FacetTable, opt FacetOption, hidden bool) {
	m.mu.Lock()
	m.facets[table] = append(m.facets[table], facetRecord{FacetOption: opt, Hidden: hidden})
	m.mu.Unlock()
}

// FailOn makes the named operation return err. A nil err clears it.
func (m *MemoryStore) FailOn(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

func (m *MemoryStore) failure(op string) error {
	if err := m.failures[op]; err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (m *MemoryStore) FindListings(ctx context.Context, q Query) ([]Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failure(OpFindListings); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matched := m.filter(q.Predicates)
	slices.SortStableFunc(matched, func(a, b Row) int {
		for _, o := range q.Order {
			if c := compareForOrder(a[o.Column], b[o.Column], o.Ascending); c != 0 {
				return c
			}
		}
		return 0
	})

	start := min(max(q.Offset, 0), len(matched))
	end := len(matched)
	if q.Limit > 0 {
		end = min(start+q.Limit, len(matched))
	}

	result := make([]Row, 0, end-start)
	for _, row := range matched[start:end] {
		result = append(result, maps.Clone(row))
	}
	return result, nil
}

func (m *MemoryStore) CountListings(ctx context.Context, preds []query.Predicate) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failure(OpCountListings); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return len(m.filter(preds)), nil
}

func (m *MemoryStore) GetListingRefs(ctx context.Context, id int64) (ListingRefs, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failure(OpGetListingRefs); err != nil {
		return ListingRefs{}, err
	}

	for _, row := range m.rows {
		if rowID, ok := toInt64(row[query.ColumnID]); ok && rowID == id {
			return ListingRefs{
				ID:         id,
				CategoryID: optionalInt64(row[query.ColumnCategoryID]),
				BrandID:    optionalInt64(row[query.ColumnBrandID]),
				CountryID:  optionalInt64(row[query.ColumnCountryID]),
				StateID:    optionalInt64(row[query.ColumnStateID]),
				CityID:     optionalInt64(row[query.ColumnCityID]),
			}, nil
		}
	}
	return ListingRefs{}, ErrListingNotFound
}

func (m *MemoryStore) ListFacetOptions(ctx context.Context, table FacetTable) ([]FacetOption, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failure(OpListFacetOptions + ":" + string(table)); err != nil {
		return nil, err
	}
	if err := m.failure(OpListFacetOptions); err != nil {
		return nil, err
	}

	spec, ok := facetSpecs[table]
	if !ok {
		return nil, fmt.Errorf("list facet options: unknown facet table %q", table)
	}

	options := make([]FacetOption, 0, len(m.facets[table]))
	for _, rec := range m.facets[table] {
		if spec.visibleOnly && rec.Hidden {
			continue
		}
		options = append(options, rec.FacetOption)
	}
	slices.SortStableFunc(options, func(a, b FacetOption) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return compareInt64(a.ID, b.ID)
	})
	return options, nil
}

func (m *MemoryStore) PriceBounds(ctx context.Context) (PriceBounds, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failure(OpPriceBounds); err != nil {
		return PriceBounds{}, err
	}

	var bounds PriceBounds
	for _, row := range m.rows {
		price, ok := toFloat64(row[query.ColumnPrice])
		if !ok {
			continue
		}
		if bounds.Min == nil || price < *bounds.Min {
			bounds.Min = &price
		}
		if bounds.Max == nil || price > *bounds.Max {
			bounds.Max = &price
		}
	}
	return bounds, nil
}

func (m *MemoryStore) YearValues(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failure(OpYearValues); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, row := range m.rows {
		year, ok := row[query.ColumnYearName].(string)
		if !ok {
			continue
		}
		if _, dup := seen[year]; dup {
			continue
		}
		seen[year] = struct{}{}
		values = append(values, year)
	}
	return values, nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *MemoryStore) filter(preds []query.Predicate) []Row {
	matched := make([]Row, 0, len(m.rows))
	for _, row := range m.rows {
		if matchesAll(row, preds) {
			matched = append(matched, row)
		}
	}
	return matched
}

func matchesAll(row Row, preds []query.Predicate) bool {
	for _, p := range preds {
		if !matches(row, p) {
			return false
		}
	}
	return true
}

func matches(row Row, p query.Predicate) bool {
	switch p := p.(type) {
	case query.Eq:
		v := row[p.Column]
		return v != nil && equalValues(v, p.Value)
	case query.Ne:
		v := row[p.Column]
		return v != nil && !equalValues(v, p.Value)
	case query.Range:
		var (
			n  float64
			ok bool
		)
		if p.IntegerText {
			n, ok = integerText(row[p.Column])
		} else {
			n, ok = toFloat64(row[p.Column])
		}
		if !ok {
			return false
		}
		if p.Min != nil && n < *p.Min {
			return false
		}
		if p.Max != nil && n > *p.Max {
			return false
		}
		return true
	case query.TextOr:
		needle := strings.ToLower(p.Text)
		for _, col := range p.Columns {
			if s, ok := row[col].(string); ok && strings.Contains(strings.ToLower(s), needle) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func equalValues(a, b any) bool {
	if fa, ok := toFloat64(a); ok {
		fb, ok := toFloat64(b)
		return ok && fa == fb
	}
	return a == b
}

// compareForOrder orders two column values. Nil sorts last in both directions.
func compareForOrder(a, b any, ascending bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}

	c := compareValues(a, b)
	if !ascending {
		c = -c
	}
	return c
}

func compareValues(a, b any) int {
	if fa, ok := toFloat64(a); ok {
		if fb, ok := toFloat64(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	if ba, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ba == bb:
				return 0
			case !ba:
				return -1
			}
			return 1
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
	}
	return 0, false
}

func optionalInt64(v any) *int64 {
	n, ok := toInt64(v)
	if !ok {
		return nil
	}
	return &n
}

func integerText(v any) (float64, bool) {
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	n, ok := query.ParseIntegerText(s)
	return float64(n), ok
}

var _ Store = (*MemoryStore)(nil)
