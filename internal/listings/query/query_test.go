package query

import (
	"reflect"
	"testing"
)

func int64Ptr(v int64) *int64     { return &v }
func boolPtr(v bool) *bool        { return &v }
func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestBuildEmptyCriteriaHasNoPredicates(t *testing.T) {
	if preds := Build(Criteria{}); len(preds) != 0 {
		t.Fatalf("expected no predicates, got %v", preds)
	}
}

func TestBuildIgnoresBlankSearchText(t *testing.T) {
	if preds := Build(Criteria{SearchText: "   \t"}); len(preds) != 0 {
		t.Fatalf("expected blank text to be ignored, got %v", preds)
	}
}

func TestBuildAllFilters(t *testing.T) {
	c := Criteria{
		SearchText: "  excavator ",
		CategoryID: int64Ptr(3),
		BrandID:    int64Ptr(7),
		CityID:     int64Ptr(11),
		IsActive:   boolPtr(true),
		IsFeatured: boolPtr(false),
		PriceMin:   floatPtr(100),
		YearMin:    intPtr(2010),
		YearMax:    intPtr(2020),
		Sort:       SortPriceAsc,
		Page:       2,
		Limit:      10,
	}

	want := []Predicate{
		TextOr{Columns: []string{ColumnTitle, ColumnDescription}, Text: "excavator"},
		Eq{Column: ColumnCategoryID, Value: int64(3)},
		Eq{Column: ColumnBrandID, Value: int64(7)},
		Eq{Column: ColumnCityID, Value: int64(11)},
		Eq{Column: ColumnIsActive, Value: true},
		Eq{Column: ColumnIsFeatured, Value: false},
		Range{Column: ColumnPrice, Min: floatPtr(100)},
		Range{Column: ColumnYearName, Min: floatPtr(2010), Max: floatPtr(2020), IntegerText: true},
	}

	got := Build(c)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %#v, got %#v", want, got)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	c := Criteria{SearchText: "cat", StateID: int64Ptr(2), PriceMax: floatPtr(5000)}
	if !reflect.DeepEqual(Build(c), Build(c)) {
		t.Fatalf("expected identical predicates for identical criteria")
	}
}

func TestParseHelpersTreatMalformedInputAsAbsent(t *testing.T) {
	if ParseID("abc") != nil || ParseID("-4") != nil || ParseID("0") != nil || ParseID("") != nil {
		t.Fatalf("expected malformed ids to be absent")
	}
	if got := ParseID(" 42 "); got == nil || *got != 42 {
		t.Fatalf("expected id 42, got %v", got)
	}

	if ParseBool("yes") != nil || ParseBool("") != nil {
		t.Fatalf("expected malformed booleans to be absent")
	}
	if got := ParseBool("false"); got == nil || *got {
		t.Fatalf("expected false, got %v", got)
	}
	if got := ParseBool("true"); got == nil || !*got {
		t.Fatalf("expected true, got %v", got)
	}

	if ParseFloat("NaN") != nil || ParseFloat("Inf") != nil || ParseFloat("12k") != nil {
		t.Fatalf("expected malformed numbers to be absent")
	}
	if got := ParseFloat("1500.50"); got == nil || *got != 1500.5 {
		t.Fatalf("expected 1500.5, got %v", got)
	}

	if ParseYear("20x0") != nil {
		t.Fatalf("expected malformed year to be absent")
	}
	if got := ParseYear("2018"); got == nil || *got != 2018 {
		t.Fatalf("expected 2018, got %v", got)
	}
}

func TestParseIntegerText(t *testing.T) {
	for _, in := range []string{"", " 2015", "2015 ", "+2015", "-3", "1.5", "20x1", "99999999999999999999"} {
		if _, ok := ParseIntegerText(in); ok {
			t.Fatalf("expected %q to be rejected", in)
		}
	}
	if got, ok := ParseIntegerText("2015"); !ok || got != 2015 {
		t.Fatalf("expected 2015, got %d %v", got, ok)
	}
	if got, ok := ParseIntegerText("0007"); !ok || got != 7 {
		t.Fatalf("expected 7, got %d %v", got, ok)
	}
}

func TestResolveSort(t *testing.T) {
	cases := map[string]Order{
		SortRecent:    {Column: ColumnCreatedAt, Ascending: false},
		SortOlder:     {Column: ColumnCreatedAt, Ascending: true},
		SortNameAsc:   {Column: ColumnTitle, Ascending: true},
		SortNameDesc:  {Column: ColumnTitle, Ascending: false},
		SortPriceAsc:  {Column: ColumnPrice, Ascending: true},
		SortPriceDesc: {Column: ColumnPrice, Ascending: false},
	}

	for sort, want := range cases {
		if got := ResolveSort(sort); got != want {
			t.Fatalf("ResolveSort(%q): expected %+v, got %+v", sort, want, got)
		}
	}
}

func TestResolveSortFallsBackToRecent(t *testing.T) {
	recent := ResolveSort(SortRecent)
	for _, sort := range []string{"", "bogus", "PRICE_ASC"} {
		if got := ResolveSort(sort); got != recent {
			t.Fatalf("ResolveSort(%q): expected %+v, got %+v", sort, recent, got)
		}
		if got := NormalizeSort(sort); got != SortRecent {
			t.Fatalf("NormalizeSort(%q): expected %q, got %q", sort, SortRecent, got)
		}
	}
}
