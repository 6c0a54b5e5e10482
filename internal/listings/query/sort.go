package query

// Sort intents accepted from callers.
const (
	SortRecent    = "recent"
	SortOlder     = "older"
	SortNameAsc   = "name_asc"
	SortNameDesc  = "name_desc"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

// Order is a single ordering term.
type Order struct {
	Column    string
	Ascending bool
}

var sortOrders = map[string]Order{
	SortRecent:    {Column: ColumnCreatedAt, Ascending: false},
	SortOlder:     {Column: ColumnCreatedAt, Ascending: true},
	SortNameAsc:   {Column: ColumnTitle, Ascending: true},
	SortNameDesc:  {Column: ColumnTitle, Ascending: false},
	SortPriceAsc:  {Column: ColumnPrice, Ascending: true},
	SortPriceDesc: {Column: ColumnPrice, Ascending: false},
}

// ResolveSort maps a sort intent to its ordering. Unknown or empty intents
// resolve to SortRecent.
func ResolveSort(sort string) Order {
	if order, ok := sortOrders[sort]; ok {
		return order
	}
	return sortOrders[SortRecent]
}

// NormalizeSort returns sort if it is a known intent, otherwise SortRecent.
func NormalizeSort(sort string) string {
	if _, ok := sortOrders[sort]; ok {
		return sort
	}
	return SortRecent
}
