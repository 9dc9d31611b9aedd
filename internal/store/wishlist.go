package store

import "racketoutlet/pkg/domain"

// WishlistState is the wishlist slice. Items have set semantics by product id.
type WishlistState struct {
	Items   []domain.WishlistItem
	Loading bool
	Err     string
}

func (s WishlistState) clone() WishlistState {
	s.Items = append([]domain.WishlistItem(nil), s.Items...)
	return s
}

// Contains reports whether a product is wishlisted.
func (s WishlistState) Contains(productID int64) bool {
	for _, item := range s.Items {
		if item.Product.ID == productID {
			return true
		}
	}
	return false
}

// WishlistPending marks a wishlist fetch in flight.
type WishlistPending struct{}

// WishlistReplaced replaces the wishlist wholesale with server truth.
type WishlistReplaced struct {
	Items []domain.WishlistItem
}

// WishlistFailed records a failed wishlist operation.
type WishlistFailed struct {
	Err string
}

// WishlistItemAdded adds optimistically; adding a product already present is
// a no-op rather than a duplicate.
type WishlistItemAdded struct {
	Item domain.WishlistItem
}

// WishlistItemRemoved removes optimistically by product id; removing an
// absent product is a no-op.
type WishlistItemRemoved struct {
	ProductID int64
}

func reduceWishlist(state WishlistState, action Action) (WishlistState, bool) {
	switch a := action.(type) {
	case WishlistPending:
		state.Loading = true
		state.Err = ""
		return state, true
	case WishlistReplaced:
		return WishlistState{Items: append([]domain.WishlistItem(nil), a.Items...)}, true
	case WishlistFailed:
		state.Loading = false
		state.Err = a.Err
		return state, true
	case WishlistItemAdded:
		if state.Contains(a.Item.Product.ID) {
			return state, false
		}
		state = state.clone()
		state.Items = append(state.Items, a.Item)
		return state, true
	case WishlistItemRemoved:
		state = state.clone()
		for i, item := range state.Items {
			if item.Product.ID == a.ProductID {
				state.Items = append(state.Items[:i], state.Items[i+1:]...)
				return state, true
			}
		}
		return state, false
	case SessionCleared:
		return WishlistState{}, true
	default:
		return state, false
	}
}
