package transport

import "marketplace_backend/internal/listings/query"

// SearchRequest carries listing search parameters from the query string.
// Filters arrive as strings; malformed values are dropped, not rejected.
type SearchRequest struct {
	SearchText     string `form:"searchText" validate:"max=200"`
	CategoryID     string `form:"categoryId"`
	SubCategoryID  string `form:"subCategoryId"`
	TypeID         string `form:"typeId"`
	BrandID        string `form:"brandId"`
	StatusID       string `form:"statusId"`
	ConditionID    string `form:"conditionId"`
	CountryID      string `form:"countryId"`
	StateID        string `form:"stateId"`
	CityID         string `form:"cityId"`
	IsActive       string `form:"isActive"`
	IsPublished    string `form:"isPublished"`
	IsFeatured     string `form:"isFeatured"`
	PriceMin       string `form:"priceMin"`
	PriceMax       string `form:"priceMax"`
	YearMin        string `form:"yearMin"`
	YearMax        string `form:"yearMax"`
	Sort           string `form:"sort"`
	Page           *int   `form:"page" validate:"omitempty,min=1"`
	Limit          *int   `form:"limit" validate:"omitempty,min=1"`
	IncludeFilters bool   `form:"includeFilters"`
}

// Criteria converts the request into search criteria.
func (r SearchRequest) Criteria() query.Criteria {
	return query.Criteria{
		SearchText:    r.SearchText,
		CategoryID:    query.ParseID(r.CategoryID),
		SubCategoryID: query.ParseID(r.SubCategoryID),
		TypeID:        query.ParseID(r.TypeID),
		BrandID:       query.ParseID(r.BrandID),
		StatusID:      query.ParseID(r.StatusID),
		ConditionID:   query.ParseID(r.ConditionID),
		CountryID:     query.ParseID(r.CountryID),
		StateID:       query.ParseID(r.StateID),
		CityID:        query.ParseID(r.CityID),
		IsActive:      query.ParseBool(r.IsActive),
		IsPublished:   query.ParseBool(r.IsPublished),
		IsFeatured:    query.ParseBool(r.IsFeatured),
		PriceMin:      query.ParseFloat(r.PriceMin),
		PriceMax:      query.ParseFloat(r.PriceMax),
		YearMin:       query.ParseYear(r.YearMin),
		YearMax:       query.ParseYear(r.YearMax),
		Sort:          r.Sort,
		Page:          valueOrZero(r.Page),
		Limit:         valueOrZero(r.Limit),
	}
}

func valueOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// RelatedRequest carries related-items parameters.
type RelatedRequest struct {
	RelationType string `form:"relationType"`
	Limit        *int   `form:"limit" validate:"omitempty,min=1"`
}

// LimitOrZero returns the requested limit, or zero when none was given.
func (r RelatedRequest) LimitOrZero() int {
	return valueOrZero(r.Limit)
}

// Relation types for related items.
const (
	RelationCategory = "category"
	RelationBrand    = "brand"
	RelationLocation = "location"
	RelationSimilar  = "similar"
)

type NamedRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Location struct {
	Country *string `json:"country,omitempty"`
	State   *string `json:"state,omitempty"`
	City    *string `json:"city,omitempty"`
}

type Image struct {
	URL       string `json:"url"`
	IsDefault bool   `json:"isDefault"`
}

// SearchResultItem is the normalized listing returned by every query path.
type SearchResultItem struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Price       *float64  `json:"price,omitempty"`
	CreatedAt   string    `json:"createdAt"`
	UpdatedAt   string    `json:"updatedAt"`
	IsActive    bool      `json:"isActive"`
	IsPublished bool      `json:"isPublished"`
	IsFeatured  bool      `json:"isFeatured"`
	Priority    int       `json:"priority"`
	Category    *NamedRef `json:"category,omitempty"`
	SubCategory *NamedRef `json:"subCategory,omitempty"`
	Type        *NamedRef `json:"type,omitempty"`
	Brand       *NamedRef `json:"brand,omitempty"`
	Status      *NamedRef `json:"status,omitempty"`
	Condition   *NamedRef `json:"condition,omitempty"`
	Location    *Location `json:"location,omitempty"`
	Images      []Image   `json:"images"`
	Owner       *NamedRef `json:"owner,omitempty"`
	Year        *int      `json:"year,omitempty"`
	Hours       *float64  `json:"hours,omitempty"`
	Model       *string   `json:"model,omitempty"`
}

type PaginationInfo struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

type FacetOption struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type StateOption struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CountryID *int64 `json:"countryId"`
}

type CityOption struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	StateID *int64 `json:"stateId"`
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// AvailableFilters is the facet universe used to populate filter controls.
type AvailableFilters struct {
	Categories    []FacetOption `json:"categories"`
	SubCategories []FacetOption `json:"subCategories"`
	Types         []FacetOption `json:"types"`
	Brands        []FacetOption `json:"brands"`
	Statuses      []FacetOption `json:"statuses"`
	Conditions    []FacetOption `json:"conditions"`
	Countries     []FacetOption `json:"countries"`
	States        []StateOption `json:"states"`
	Cities        []CityOption  `json:"cities"`
	PriceRange    PriceRange    `json:"priceRange"`
	YearRange     YearRange     `json:"yearRange"`
}

type Filters struct {
	AppliedFilters   query.Criteria    `json:"appliedFilters"`
	AvailableFilters *AvailableFilters `json:"availableFilters,omitempty"`
}

type SearchResponse struct {
	Items      []SearchResultItem `json:"items"`
	Pagination PaginationInfo     `json:"pagination"`
	Filters    Filters            `json:"filters"`
}

type CountResponse struct {
	Total   int            `json:"total"`
	Filters query.Criteria `json:"filters"`
}

type RelatedItemsResponse struct {
	Items        []SearchResultItem `json:"items"`
	Total        int                `json:"total"`
	RelationType string             `json:"relationType"`
}
