package store

import "racketoutlet/pkg/domain"

// MaxCachedPages bounds the search page cache. Eviction is FIFO over
// insertion order, not access recency.
const MaxCachedPages = 8

// SearchState is the product-search slice: the active filters, the page
// currently on display, and a bounded cache of result pages keyed by page
// number. Changing any filter other than the page number wipes the cache.
type SearchState struct {
	Filters   domain.SearchFilters
	Results   []domain.Product
	Count     int
	PageCache map[int]domain.ResultPage
	PageOrder []int
	Loading   bool
	Err       string

	Detail        *domain.Product
	DetailLoading bool
	DetailErr     string
}

func initialSearchState() SearchState {
	return SearchState{
		Filters:   domain.SearchFilters{}.Normalize(),
		PageCache: make(map[int]domain.ResultPage),
	}
}

func (s SearchState) clone() SearchState {
	s.Results = append([]domain.Product(nil), s.Results...)
	cache := make(map[int]domain.ResultPage, len(s.PageCache))
	for page, result := range s.PageCache {
		cache[page] = result
	}
	s.PageCache = cache
	s.PageOrder = append([]int(nil), s.PageOrder...)
	if s.Detail != nil {
		detail := *s.Detail
		s.Detail = &detail
	}
	return s
}

// CachedPage returns the cached result page, if resident.
func (s SearchState) CachedPage(page int) (domain.ResultPage, bool) {
	result, ok := s.PageCache[page]
	return result, ok
}

// TotalPages derives the page count from the last known result total.
func (s SearchState) TotalPages() int {
	return domain.TotalPages(s.Count, s.Filters.PageSize)
}

// SearchPending records the requested filters before the fetch. When the new
// filters describe a different query (anything but the page number changed),
// the entire page cache is dropped first, so no stale page survives into the
// new result set.
type SearchPending struct {
	Filters domain.SearchFilters
}

// SearchPageLoaded caches one fetched page. Display additionally replaces the
// visible results; prefetched pages only land in the cache. Inserting past
// the cache bound evicts the oldest-inserted resident page.
type SearchPageLoaded struct {
	Page    int
	Result  domain.ResultPage
	Display bool
}

// SearchPageServed shows an already-cached page without touching the cache.
type SearchPageServed struct {
	Page   int
	Result domain.ResultPage
}

// SearchFailed records a failed search fetch.
type SearchFailed struct {
	Err string
}

// ProductPending marks a product detail fetch in flight.
type ProductPending struct{}

// ProductLoaded stores the product detail view.
type ProductLoaded struct {
	Product domain.Product
}

// ProductFailed records a failed product detail fetch.
type ProductFailed struct {
	Err string
}

func reduceSearch(state SearchState, action Action) (SearchState, bool) {
	switch a := action.(type) {
	case SearchPending:
		state = state.clone()
		filters := a.Filters.Normalize()
		if !state.Filters.SameQuery(filters) {
			state.PageCache = make(map[int]domain.ResultPage)
			state.PageOrder = nil
		}
		state.Filters = filters
		state.Loading = true
		state.Err = ""
		return state, true
	case SearchPageLoaded:
		state = state.clone()
		if _, resident := state.PageCache[a.Page]; !resident {
			state.PageOrder = append(state.PageOrder, a.Page)
			if len(state.PageOrder) > MaxCachedPages {
				oldest := state.PageOrder[0]
				state.PageOrder = append([]int(nil), state.PageOrder[1:]...)
				delete(state.PageCache, oldest)
			}
		}
		state.PageCache[a.Page] = a.Result
		if a.Display {
			state.Results = append([]domain.Product(nil), a.Result.Products...)
			state.Count = a.Result.Count
			state.Filters.Page = a.Page
			state.Loading = false
			state.Err = ""
		}
		return state, true
	case SearchPageServed:
		state = state.clone()
		state.Results = append([]domain.Product(nil), a.Result.Products...)
		state.Count = a.Result.Count
		state.Filters.Page = a.Page
		state.Loading = false
		state.Err = ""
		return state, true
	case SearchFailed:
		state.Loading = false
		state.Err = a.Err
		return state, true
	case ProductPending:
		state.DetailLoading = true
		state.DetailErr = ""
		return state, true
	case ProductLoaded:
		state = state.clone()
		product := a.Product
		state.Detail = &product
		state.DetailLoading = false
		state.DetailErr = ""
		return state, true
	case ProductFailed:
		state.DetailLoading = false
		state.DetailErr = a.Err
		return state, true
	default:
		return state, false
	}
}
