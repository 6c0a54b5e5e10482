package query

import (
	"math"
	"strconv"
	"strings"
)

// Criteria is the caller-supplied listing query. A nil field imposes no
// constraint, so the zero value matches every listing.
type Criteria struct {
	SearchText    string   `json:"searchText,omitempty"`
	CategoryID    *int64   `json:"categoryId,omitempty"`
	SubCategoryID *int64   `json:"subCategoryId,omitempty"`
	TypeID        *int64   `json:"typeId,omitempty"`
	BrandID       *int64   `json:"brandId,omitempty"`
	StatusID      *int64   `json:"statusId,omitempty"`
	ConditionID   *int64   `json:"conditionId,omitempty"`
	CountryID     *int64   `json:"countryId,omitempty"`
	StateID       *int64   `json:"stateId,omitempty"`
	CityID        *int64   `json:"cityId,omitempty"`
	IsActive      *bool    `json:"isActive,omitempty"`
	IsPublished   *bool    `json:"isPublished,omitempty"`
	IsFeatured    *bool    `json:"isFeatured,omitempty"`
	PriceMin      *float64 `json:"priceMin,omitempty"`
	PriceMax      *float64 `json:"priceMax,omitempty"`
	YearMin       *int     `json:"yearMin,omitempty"`
	YearMax       *int     `json:"yearMax,omitempty"`
	Sort          string   `json:"sort,omitempty"`
	Page          int      `json:"page"`
	Limit         int      `json:"limit"`
}

// Build translates criteria into the predicate set shared by the search
// and count paths.
func Build(c Criteria) []Predicate {
	var preds []Predicate

	if text := strings.TrimSpace(c.SearchText); text != "" {
		preds = append(preds, TextOr{Columns: []string{ColumnTitle, ColumnDescription}, Text: text})
	}

	ids := []struct {
		column string
		value  *int64
	}{
		{ColumnCategoryID, c.CategoryID},
		{ColumnSubCategoryID, c.SubCategoryID},
		{ColumnTypeID, c.TypeID},
		{ColumnBrandID, c.BrandID},
		{ColumnStatusID, c.StatusID},
		{ColumnConditionID, c.ConditionID},
		{ColumnCountryID, c.CountryID},
		{ColumnStateID, c.StateID},
		{ColumnCityID, c.CityID},
	}
	for _, id := range ids {
		if id.value != nil {
			preds = append(preds, Eq{Column: id.column, Value: *id.value})
		}
	}

	flags := []struct {
		column string
		value  *bool
	}{
		{ColumnIsActive, c.IsActive},
		{ColumnIsPublished, c.IsPublished},
		{ColumnIsFeatured, c.IsFeatured},
	}
	for _, flag := range flags {
		if flag.value != nil {
			preds = append(preds, Eq{Column: flag.column, Value: *flag.value})
		}
	}

	if c.PriceMin != nil || c.PriceMax != nil {
		preds = append(preds, Range{Column: ColumnPrice, Min: c.PriceMin, Max: c.PriceMax})
	}

	if c.YearMin != nil || c.YearMax != nil {
		preds = append(preds, Range{
			Column:      ColumnYearName,
			Min:         intBound(c.YearMin),
			Max:         intBound(c.YearMax),
			IntegerText: true,
		})
	}

	return preds
}

func intBound(v *int) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}

// ParseID parses a positive integer id. Anything else is treated as absent.
func ParseID(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

// ParseBool parses the boolean forms accepted by strconv ("true", "false",
// "1", "0", ...). Anything else is treated as absent.
func ParseBool(s string) *bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil
	}
	return &b
}

// ParseFloat parses a finite number. Anything else is treated as absent.
func ParseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// ParseYear parses an integer year. Anything else is treated as absent.
func ParseYear(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	y, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &y
}

// ParseIntegerText parses a stored text value that holds only ASCII digits,
// the form the year filter casts to a number. Signs, spaces and anything else
// are rejected.
func ParseIntegerText(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
