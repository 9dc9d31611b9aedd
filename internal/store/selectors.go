package store

import (
	"sync"

	"github.com/shopspring/decimal"
)

// CartSummary is the derived cart view.
type CartSummary struct {
	Lines     int
	ItemCount int
	Total     decimal.Decimal
}

// PaginationView is the derived search pagination view.
type PaginationView struct {
	Page        int
	TotalPages  int
	HasPrevious bool
	HasNext     bool
	CachedPages []int
}

// Selectors derives read views from the store, recomputing a view only when
// its source slice's version has moved since the last call. Safe for
// concurrent use.
type Selectors struct {
	store *Store

	mu sync.Mutex

	cartVersion uint64
	cartValid   bool
	cart        CartSummary

	searchVersion uint64
	searchValid   bool
	pagination    PaginationView

	wishlistVersion uint64
	wishlistValid   bool
	wishlistIDs     map[int64]bool
}

// NewSelectors builds a selector set over s.
func NewSelectors(s *Store) *Selectors {
	return &Selectors{store: s}
}

// CartSummary returns line count, total item count and the derived total.
func (s *Selectors) CartSummary() CartSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	version := s.store.Version(SliceCart)
	if s.cartValid && version == s.cartVersion {
		return s.cart
	}
	cart := s.store.State().Cart
	summary := CartSummary{Lines: len(cart.Lines), Total: cart.Total()}
	for _, line := range cart.Lines {
		summary.ItemCount += line.Quantity
	}
	s.cart = summary
	s.cartVersion = version
	s.cartValid = true
	return summary
}

// Pagination returns the current search pagination view, including which
// pages are cache-resident.
func (s *Selectors) Pagination() PaginationView {
	s.mu.Lock()
	defer s.mu.Unlock()
	version := s.store.Version(SliceSearch)
	if s.searchValid && version == s.searchVersion {
		return s.pagination
	}
	search := s.store.State().Search
	view := PaginationView{
		Page:        search.Filters.Page,
		TotalPages:  search.TotalPages(),
		CachedPages: append([]int(nil), search.PageOrder...),
	}
	view.HasPrevious = view.Page > 1
	view.HasNext = view.Page < view.TotalPages
	s.pagination = view
	s.searchVersion = version
	s.searchValid = true
	return view
}

// WishlistProductIDs returns the wishlisted product-id set. Callers must not
// mutate the returned map.
func (s *Selectors) WishlistProductIDs() map[int64]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	version := s.store.Version(SliceWishlist)
	if s.wishlistValid && version == s.wishlistVersion {
		return s.wishlistIDs
	}
	wishlist := s.store.State().Wishlist
	ids := make(map[int64]bool, len(wishlist.Items))
	for _, item := range wishlist.Items {
		ids[item.Product.ID] = true
	}
	s.wishlistIDs = ids
	s.wishlistVersion = version
	s.wishlistValid = true
	return ids
}
