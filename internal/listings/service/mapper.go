package service

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"marketplace_backend/internal/listings/repository"
	"marketplace_backend/internal/listings/transport"
	"marketplace_backend/platform/sanitize"
)

// Column names per logical field, current name first. Older rows were
// written with lower-cased or camel-cased names.
var (
	colID           = []string{"id"}
	colTitle        = []string{"title"}
	colDescription  = []string{"description"}
	colPrice        = []string{"price"}
	colCreatedAt    = []string{"created_at", "createdat", "createdAt"}
	colUpdatedAt    = []string{"updated_at", "updatedat", "updatedAt"}
	colIsActive     = []string{"is_active", "isactive", "isActive"}
	colIsPublished  = []string{"is_published", "ispublished", "isPublished"}
	colIsFeatured   = []string{"is_featured", "isfeatured", "isFeatured"}
	colPriority     = []string{"priority"}
	colYear         = []string{"year"}
	colYearName     = []string{"year_name", "yearname"}
	colYearID       = []string{"yearid", "year_id"}
	colHours        = []string{"hours"}
	colModel        = []string{"model"}
	colImage        = []string{"image_url", "imageurl", "image", "filename"}
	colImageDefault = []string{"image_is_default", "isdefault", "is_default"}
	colCountry      = []string{"country_name", "countryname", "country"}
	colState        = []string{"state_name", "statename", "state"}
	colCity         = []string{"city_name", "cityname", "city"}
)

type entityColumns struct {
	id   []string
	name []string
}

var (
	entCategory    = entityColumns{id: []string{"category_id", "categoryid"}, name: []string{"category_name", "categoryname"}}
	entSubCategory = entityColumns{id: []string{"sub_category_id", "subcategoryid"}, name: []string{"sub_category_name", "subcategoryname"}}
	entType        = entityColumns{id: []string{"type_id", "typeid"}, name: []string{"type_name", "typename"}}
	entBrand       = entityColumns{id: []string{"brand_id", "brandid"}, name: []string{"brand_name", "brandname"}}
	entStatus      = entityColumns{id: []string{"status_id", "statusid"}, name: []string{"status_name", "statusname"}}
	entCondition   = entityColumns{id: []string{"condition_id", "conditionid"}, name: []string{"condition_name", "conditionname"}}
	entOwner       = entityColumns{id: []string{"owner_id", "ownerid", "store_id"}, name: []string{"owner_name", "ownername", "store_name"}}
)

// mapper turns store rows into result items.
type mapper struct {
	imageBaseURL string
}

func newMapper(imageBaseURL string) mapper {
	return mapper{imageBaseURL: strings.TrimRight(imageBaseURL, "/")}
}

// mapItem builds the full result projection.
func (m mapper) mapItem(row repository.Row) transport.SearchResultItem {
	item := m.mapRelated(row)

	item.SubCategory = namedRef(row, entSubCategory)
	item.Type = namedRef(row, entType)
	item.Status = namedRef(row, entStatus)
	item.Condition = namedRef(row, entCondition)
	item.Owner = namedRef(row, entOwner)
	item.Location = &transport.Location{
		Country: stringField(row, colCountry),
		State:   stringField(row, colState),
		City:    stringField(row, colCity),
	}
	item.Year = resolveYear(row)
	item.Hours = floatField(row, colHours)
	item.Model = stringField(row, colModel)

	return item
}

// mapRelated builds the lighter projection used for related items.
func (m mapper) mapRelated(row repository.Row) transport.SearchResultItem {
	title := valueOrEmpty(stringField(row, colTitle))

	item := transport.SearchResultItem{
		Title:       title,
		Slug:        sanitize.Slug(title),
		Description: valueOrEmpty(stringField(row, colDescription)),
		Price:       floatField(row, colPrice),
		CreatedAt:   valueOrEmpty(timestampField(row, colCreatedAt)),
		UpdatedAt:   valueOrEmpty(timestampField(row, colUpdatedAt)),
		IsActive:    boolField(row, colIsActive),
		IsPublished: boolField(row, colIsPublished),
		IsFeatured:  boolField(row, colIsFeatured),
		Category:    namedRef(row, entCategory),
		Brand:       namedRef(row, entBrand),
		Images:      m.images(row),
	}
	if id := intField(row, colID); id != nil {
		item.ID = *id
	}
	if priority := intField(row, colPriority); priority != nil {
		item.Priority = int(*priority)
	}
	return item
}

func (m mapper) images(row repository.Row) []transport.Image {
	ref := stringField(row, colImage)
	if ref == nil || strings.TrimSpace(*ref) == "" {
		return []transport.Image{}
	}
	return []transport.Image{{
		URL:       m.resolveImageURL(strings.TrimSpace(*ref)),
		IsDefault: boolField(row, colImageDefault),
	}}
}

func (m mapper) resolveImageURL(ref string) string {
	if m.imageBaseURL == "" {
		return ref
	}
	if u, err := url.Parse(ref); err == nil && u.IsAbs() {
		return ref
	}
	return m.imageBaseURL + "/" + strings.TrimLeft(ref, "/")
}

// resolveYear prefers a numeric year, then the year text, then the legacy
// year id. A source that does not parse is skipped.
func resolveYear(row repository.Row) *int {
	if v, ok := lookup(row, colYear); ok {
		if year, ok := toInt(v); ok {
			return &year
		}
	}
	if v, ok := lookup(row, colYearName); ok {
		if year, ok := toInt(v); ok {
			return &year
		}
	}
	if v, ok := lookup(row, colYearID); ok {
		if year, ok := toInt(v); ok {
			return &year
		}
	}
	return nil
}

// namedRef returns {id, name} only when both are present.
func namedRef(row repository.Row, cols entityColumns) *transport.NamedRef {
	id := intField(row, cols.id)
	name := stringField(row, cols.name)
	if id == nil || name == nil {
		return nil
	}
	return &transport.NamedRef{ID: *id, Name: *name}
}

// lookup returns the first non-nil value among columns.
func lookup(row repository.Row, columns []string) (any, bool) {
	for _, col := range columns {
		if v, ok := row[col]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func stringField(row repository.Row, columns []string) *string {
	v, ok := lookup(row, columns)
	if !ok {
		return nil
	}
	switch s := v.(type) {
	case string:
		return &s
	case []byte:
		str := string(s)
		return &str
	}
	return nil
}

func intField(row repository.Row, columns []string) *int64 {
	v, ok := lookup(row, columns)
	if !ok {
		return nil
	}
	switch n := v.(type) {
	case int64:
		return &n
	case int:
		i := int64(n)
		return &i
	case int32:
		i := int64(n)
		return &i
	case float64:
		if n == math.Trunc(n) {
			i := int64(n)
			return &i
		}
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
			return &i
		}
	}
	return nil
}

func floatField(row repository.Row, columns []string) *float64 {
	v, ok := lookup(row, columns)
	if !ok {
		return nil
	}
	switch n := v.(type) {
	case float64:
		return &n
	case int64:
		f := float64(n)
		return &f
	case int:
		f := float64(n)
		return &f
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return &f
		}
	}
	return nil
}

func boolField(row repository.Row, columns []string) bool {
	v, ok := lookup(row, columns)
	if !ok {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return err == nil && parsed
	case int64:
		return b != 0
	case int:
		return b != 0
	}
	return false
}

func timestampField(row repository.Row, columns []string) *string {
	v, ok := lookup(row, columns)
	if !ok {
		return nil
	}
	switch ts := v.(type) {
	case time.Time:
		s := ts.UTC().Format(time.RFC3339Nano)
		return &s
	case string:
		return &ts
	}
	return nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int64:
		return int(n), true
	case int:
		return n, true
	case int32:
		return int(n), true
	case float64:
		if n == math.Trunc(n) && !math.IsInf(n, 0) {
			return int(n), true
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func valueOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
