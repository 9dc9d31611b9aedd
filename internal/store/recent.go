package store

import "racketoutlet/pkg/domain"

// MaxRecentProducts bounds the recently-viewed list.
const MaxRecentProducts = 10

// RecentState is the recently-viewed slice: most-recent-first product
// summaries, deduplicated by product id, bounded at MaxRecentProducts.
type RecentState struct {
	Products []domain.Product
}

func (s RecentState) clone() RecentState {
	s.Products = append([]domain.Product(nil), s.Products...)
	return s
}

// ProductViewed pushes a viewed product to the front of the list. A product
// already present moves to the front instead of duplicating; past the bound
// the oldest entry drops off.
type ProductViewed struct {
	Product domain.Product
}

// RecentRestored seeds the list from persisted storage on startup.
type RecentRestored struct {
	Products []domain.Product
}

func reduceRecent(state RecentState, action Action) (RecentState, bool) {
	switch a := action.(type) {
	case ProductViewed:
		summary := a.Product.Summary()
		next := make([]domain.Product, 0, len(state.Products)+1)
		next = append(next, summary)
		for _, p := range state.Products {
			if p.ID != summary.ID {
				next = append(next, p)
			}
		}
		if len(next) > MaxRecentProducts {
			next = next[:MaxRecentProducts]
		}
		state.Products = next
		return state, true
	case RecentRestored:
		products := append([]domain.Product(nil), a.Products...)
		if len(products) > MaxRecentProducts {
			products = products[:MaxRecentProducts]
		}
		state.Products = products
		return state, true
	default:
		return state, false
	}
}
