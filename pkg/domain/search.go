package domain

import "github.com/shopspring/decimal"

type SortOption string

const (
	SortNameAsc   SortOption = "name_asc"
	SortNameDesc  SortOption = "name_desc"
	SortPriceAsc  SortOption = "price_asc"
	SortPriceDesc SortOption = "price_desc"
	SortRecent    SortOption = "recent"
)

// OrderSort orders the order-history listing.
type OrderSort string

const (
	OrderSortDateDesc   OrderSort = "-created_at"
	OrderSortDateAsc    OrderSort = "created_at"
	OrderSortAmountDesc OrderSort = "-total_amount"
	OrderSortAmountAsc  OrderSort = "total_amount"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 12
)

// SearchFilters are the product-search parameters. Page is the only field
// whose change does not invalidate cached result pages.
type SearchFilters struct {
	Brand    string
	Search   string
	Type     string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     SortOption
	Page     int
	PageSize int
}

// Normalize fills pagination defaults.
func (f SearchFilters) Normalize() SearchFilters {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.Sort == "" {
		f.Sort = SortRecent
	}
	return f
}

// SameQuery reports whether two filter sets describe the same result set,
// ignoring the page number.
func (f SearchFilters) SameQuery(other SearchFilters) bool {
	f = f.Normalize()
	other = other.Normalize()
	return f.Brand == other.Brand &&
		f.Search == other.Search &&
		f.Type == other.Type &&
		decimalPtrEqual(f.MinPrice, other.MinPrice) &&
		decimalPtrEqual(f.MaxPrice, other.MaxPrice) &&
		f.Sort == other.Sort &&
		f.PageSize == other.PageSize
}

func decimalPtrEqual(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// TotalPages computes the page count for a result total.
func TotalPages(count, pageSize int) int {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	pages := (count + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// ResultPage is one cached page of search results.
type ResultPage struct {
	Products []Product `json:"products"`
	Count    int       `json:"count"`
}
