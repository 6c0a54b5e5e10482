// Package query turns listing search criteria into typed store predicates
// and resolves sort intents. Everything here is pure; every store
// implementation translates the same predicate values.
package query

// Columns of the listing search view referenced by predicates and ordering.
const (
	ColumnID            = "id"
	ColumnTitle         = "title"
	ColumnDescription   = "description"
	ColumnPrice         = "price"
	ColumnCreatedAt     = "created_at"
	ColumnIsActive      = "is_active"
	ColumnIsPublished   = "is_published"
	ColumnIsFeatured    = "is_featured"
	ColumnCategoryID    = "category_id"
	ColumnSubCategoryID = "sub_category_id"
	ColumnTypeID        = "type_id"
	ColumnBrandID       = "brand_id"
	ColumnStatusID      = "status_id"
	ColumnConditionID   = "condition_id"
	ColumnCountryID     = "country_id"
	ColumnStateID       = "state_id"
	ColumnCityID        = "city_id"
	ColumnYearName      = "year_name"
)

// Predicate is a single filter condition on the listing collection.
// A NULL column value never satisfies a predicate.
type Predicate interface {
	predicate()
}

// Eq requires Column = Value.
type Eq struct {
	Column string
	Value  any
}

// Ne requires Column <> Value.
type Ne struct {
	Column string
	Value  any
}

// Range bounds Column inclusively. A nil bound is open.
type Range struct {
	Column string
	Min    *float64
	Max    *float64
	// IntegerText marks a text column holding integers. Values that are not
	// plain digit strings never fall inside the range.
	IntegerText bool
}

// TextOr requires at least one of Columns to contain Text, ignoring case.
// Text is matched literally.
type TextOr struct {
	Columns []string
	Text    string
}

func (Eq) predicate()     {}
func (Ne) predicate()     {}
func (Range) predicate()  {}
func (TextOr) predicate() {}
