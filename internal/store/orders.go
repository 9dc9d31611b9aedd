package store

import "racketoutlet/pkg/domain"

// OrdersState is the order-history slice. Orders are immutable records; the
// slice only ever replaces whole pages.
type OrdersState struct {
	Orders     []domain.Order
	Count      int
	Page       int
	TotalPages int
	Sort       domain.OrderSort
	Current    *domain.Order
	Loading    bool
	Err        string
}

func (s OrdersState) clone() OrdersState {
	s.Orders = append([]domain.Order(nil), s.Orders...)
	if s.Current != nil {
		current := *s.Current
		s.Current = &current
	}
	return s
}

// OrdersPending marks an order-history fetch in flight.
type OrdersPending struct{}

// OrdersLoaded replaces the resident history page.
type OrdersLoaded struct {
	Orders     []domain.Order
	Count      int
	Page       int
	TotalPages int
	Sort       domain.OrderSort
}

// OrdersFailed records a failed order fetch.
type OrdersFailed struct {
	Err string
}

// OrderLoaded stores a single order's detail view.
type OrderLoaded struct {
	Order domain.Order
}

func reduceOrders(state OrdersState, action Action) (OrdersState, bool) {
	switch a := action.(type) {
	case OrdersPending:
		state.Loading = true
		state.Err = ""
		return state, true
	case OrdersLoaded:
		state = state.clone()
		state.Orders = append([]domain.Order(nil), a.Orders...)
		state.Count = a.Count
		state.Page = a.Page
		state.TotalPages = a.TotalPages
		state.Sort = a.Sort
		state.Loading = false
		state.Err = ""
		return state, true
	case OrdersFailed:
		state.Loading = false
		state.Err = a.Err
		return state, true
	case OrderLoaded:
		state = state.clone()
		order := a.Order
		state.Current = &order
		state.Loading = false
		state.Err = ""
		return state, true
	case SessionCleared:
		return OrdersState{}, true
	default:
		return state, false
	}
}
