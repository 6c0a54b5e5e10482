package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"marketplace_backend/internal/listings/query"
	"marketplace_backend/platform/config"
	"marketplace_backend/platform/db"

	"github.com/jackc/pgx/v5/pgxpool"
)

// newTestRepo connects to DATABASE_URL and applies migrations. Tests that
// need Postgres are skipped when it is not set.
func newTestRepo(t *testing.T) (*Repo, *pgxpool.Pool) {
	t.Helper()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := &config.Config{DatabaseURL: databaseURL, RunMigrations: true}
	if err := db.RunMigrations(ctx, cfg); err != nil {
		t.Fatalf("expected migrations to apply, got %v", err)
	}
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		t.Fatalf("expected pool, got %v", err)
	}
	t.Cleanup(pool.Close)

	return New(pool), pool
}

type seededListings struct {
	marker   string
	category int64
	newer    int64
	older    int64
	unknown  int64
}

// seedListings inserts three listings sharing a unique title marker so
// assertions can scope to them on a shared database.
func seedListings(t *testing.T, pool *pgxpool.Pool) seededListings {
	t.Helper()
	ctx := context.Background()

	s := seededListings{marker: fmt.Sprintf("repo-test-%d", time.Now().UnixNano())}
	insert := func(dest *int64, sql string, args ...any) {
		t.Helper()
		if err := pool.QueryRow(ctx, sql, args...).Scan(dest); err != nil {
			t.Fatalf("expected insert to succeed, got %v", err)
		}
	}

	var year2015, year1998, yearUnknown int64
	insert(&s.category, `INSERT INTO categories (name) VALUES ($1) RETURNING id`, s.marker)
	insert(&year2015, `INSERT INTO years (name) VALUES ('2015') RETURNING id`)
	insert(&year1998, `INSERT INTO years (name) VALUES ('1998') RETURNING id`)
	insert(&yearUnknown, `INSERT INTO years (name) VALUES ('n/a') RETURNING id`)

	listing := `INSERT INTO listings (title, price, created_at, is_published, category_id, year_id, priority)
		VALUES ($1, $2, $3, true, $4, $5, 3) RETURNING id`
	insert(&s.newer, listing, s.marker+" newer", 150000.5, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), s.category, year2015)
	insert(&s.older, listing, s.marker+" older", nil, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), s.category, year1998)
	insert(&s.unknown, listing, s.marker+" unknown", 900.0, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), s.category, yearUnknown)

	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM listings WHERE category_id = $1`, s.category)
		_, _ = pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, s.category)
		_, _ = pool.Exec(ctx, `DELETE FROM years WHERE id = ANY($1)`, []int64{year2015, year1998, yearUnknown})
	})
	return s
}

func (s seededListings) scope() []query.Predicate {
	return []query.Predicate{
		query.TextOr{Columns: []string{query.ColumnTitle, query.ColumnDescription}, Text: s.marker},
		query.Eq{Column: query.ColumnCategoryID, Value: s.category},
	}
}

func TestRepoNormalizesRowValues(t *testing.T) {
	repo, pool := newTestRepo(t)
	s := seedListings(t, pool)

	rows, err := repo.FindListings(context.Background(), Query{
		Predicates: s.scope(),
		Order:      []query.Order{{Column: query.ColumnCreatedAt, Ascending: true}, {Column: query.ColumnID}},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	newer := rows[2]
	if newer["id"] != s.newer {
		t.Fatalf("expected newest listing last, got id %v", newer["id"])
	}
	if price, ok := newer["price"].(float64); !ok || price != 150000.5 {
		t.Fatalf("expected numeric price as float64 150000.5, got %T %v", newer["price"], newer["price"])
	}
	if priority, ok := newer["priority"].(int64); !ok || priority != 3 {
		t.Fatalf("expected integer priority as int64 3, got %T %v", newer["priority"], newer["priority"])
	}
	if rows[0]["price"] != nil {
		t.Fatalf("expected NULL price to stay nil, got %v", rows[0]["price"])
	}
	if _, ok := newer["created_at"].(time.Time); !ok {
		t.Fatalf("expected created_at as time.Time, got %T", newer["created_at"])
	}
}

func TestRepoYearRangeCastsDigitsOnly(t *testing.T) {
	repo, pool := newTestRepo(t)
	s := seedListings(t, pool)
	ctx := context.Background()

	preds := append(s.scope(), query.Range{Column: query.ColumnYearName, Min: floatPtr(2000), Max: floatPtr(2020), IntegerText: true})

	rows, err := repo.FindListings(ctx, Query{Predicates: preds})
	if err != nil {
		t.Fatalf("expected non-numeric years to be skipped without error, got %v", err)
	}
	if len(rows) != 1 || rows[0]["id"] != s.newer {
		t.Fatalf("expected only the 2015 listing, got %v", rows)
	}

	total, err := repo.CountListings(ctx, preds)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if total != 1 {
		t.Fatalf("expected count 1, got %d", total)
	}
}

func TestRepoPriceRangeAndWindow(t *testing.T) {
	repo, pool := newTestRepo(t)
	s := seedListings(t, pool)
	ctx := context.Background()

	preds := append(s.scope(), query.Range{Column: query.ColumnPrice, Min: floatPtr(900), Max: floatPtr(150000.5)})
	total, err := repo.CountListings(ctx, preds)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if total != 2 {
		t.Fatalf("expected inclusive bounds to match 2 listings, got %d", total)
	}

	rows, err := repo.FindListings(ctx, Query{
		Predicates: s.scope(),
		Order:      []query.Order{{Column: query.ColumnPrice, Ascending: true}, {Column: query.ColumnID}},
		Offset:     2,
		Limit:      5,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(rows) != 1 || rows[0]["id"] != s.older {
		t.Fatalf("expected NULL price listing last, got %v", rows)
	}
}

func TestRepoGetListingRefs(t *testing.T) {
	repo, pool := newTestRepo(t)
	s := seedListings(t, pool)
	ctx := context.Background()

	refs, err := repo.GetListingRefs(ctx, s.newer)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if refs.CategoryID == nil || *refs.CategoryID != s.category || refs.BrandID != nil {
		t.Fatalf("unexpected refs %+v", refs)
	}

	if _, err := repo.GetListingRefs(ctx, -1); !errors.Is(err, ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound, got %v", err)
	}
}
