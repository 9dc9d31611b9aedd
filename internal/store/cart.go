package store

import (
	"github.com/shopspring/decimal"

	"racketoutlet/pkg/domain"
)

// CartState is the cart slice. Line subtotals and the cart total are always
// derived from the lines (domain.CartLine.Subtotal), never stored here.
type CartState struct {
	ID      int64
	Lines   []domain.CartLine
	Loading bool
	Err     string
}

func (s CartState) clone() CartState {
	s.Lines = append([]domain.CartLine(nil), s.Lines...)
	return s
}

// Total sums the derived subtotals of the resident lines.
func (s CartState) Total() decimal.Decimal {
	return domain.Cart{Items: s.Lines}.Total()
}

// CartPending marks a pessimistic cart fetch in flight.
type CartPending struct{}

// CartReplaced replaces the cart wholesale with server truth.
type CartReplaced struct {
	Cart domain.Cart
}

// CartFailed records a failed cart operation.
type CartFailed struct {
	Err string
}

// CartLineAdded merges a line optimistically: an existing line for the same
// product gains quantity instead of duplicating.
type CartLineAdded struct {
	Line domain.CartLine
}

// CartQuantitySet sets a line's quantity optimistically. Quantity reaching
// zero removes the line; it never stays resident at zero.
type CartQuantitySet struct {
	LineID   int64
	Quantity int
}

// CartLineRemoved drops one line optimistically. Removing an absent line is a
// no-op.
type CartLineRemoved struct {
	LineID int64
}

// CartLinesRemoved drops several lines at once, applied only after server
// confirmation.
type CartLinesRemoved struct {
	LineIDs []int64
}

func reduceCart(state CartState, action Action) (CartState, bool) {
	switch a := action.(type) {
	case CartPending:
		state.Loading = true
		state.Err = ""
		return state, true
	case CartReplaced:
		return CartState{ID: a.Cart.ID, Lines: append([]domain.CartLine(nil), a.Cart.Items...)}, true
	case CartFailed:
		state.Loading = false
		state.Err = a.Err
		return state, true
	case CartLineAdded:
		state = state.clone()
		for i, line := range state.Lines {
			if line.Product.ID == a.Line.Product.ID {
				state.Lines[i].Quantity += a.Line.Quantity
				return state, true
			}
		}
		state.Lines = append(state.Lines, a.Line)
		return state, true
	case CartQuantitySet:
		if a.Quantity <= 0 {
			return reduceCart(state, CartLineRemoved{LineID: a.LineID})
		}
		state = state.clone()
		for i, line := range state.Lines {
			if line.ID == a.LineID {
				state.Lines[i].Quantity = a.Quantity
				return state, true
			}
		}
		return state, false
	case CartLineRemoved:
		state = state.clone()
		for i, line := range state.Lines {
			if line.ID == a.LineID {
				state.Lines = append(state.Lines[:i], state.Lines[i+1:]...)
				return state, true
			}
		}
		return state, false
	case CartLinesRemoved:
		drop := make(map[int64]bool, len(a.LineIDs))
		for _, id := range a.LineIDs {
			drop[id] = true
		}
		kept := make([]domain.CartLine, 0, len(state.Lines))
		for _, line := range state.Lines {
			if !drop[line.ID] {
				kept = append(kept, line)
			}
		}
		if len(kept) == len(state.Lines) {
			return state, false
		}
		state.Lines = kept
		return state, true
	case SessionCleared:
		return CartState{}, true
	default:
		return state, false
	}
}
