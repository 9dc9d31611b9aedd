// Package store holds the authoritative client-side state tree. The tree is
// partitioned into independent slices; every mutation goes through Dispatch,
// which serializes reducer passes under one mutex, so reducers never observe a
// half-applied transition. Reads return copies and never trigger side effects.
package store

import "sync"

// Action is a state transition request. Each slice declares its own action
// types; every reducer sees every action, so a cross-cutting action such as
// SessionCleared can reset several slices in one pass.
type Action any

// Slice identifies one partition of the state tree.
type Slice int

const (
	SliceAuth Slice = iota
	SliceCart
	SliceWishlist
	SliceOrders
	SliceSearch
	SliceSubCategories
	SliceHome
	SliceRecent

	sliceCount
)

// State is the full state tree. Values handed out by Store.State are copies;
// mutating them does not affect the store.
type State struct {
	Auth          AuthState
	Cart          CartState
	Wishlist      WishlistState
	Orders        OrdersState
	Search        SearchState
	SubCategories SubCategoryState
	Home          HomeState
	Recent        RecentState
}

func (s State) clone() State {
	return State{
		Auth:          s.Auth.clone(),
		Cart:          s.Cart.clone(),
		Wishlist:      s.Wishlist.clone(),
		Orders:        s.Orders.clone(),
		Search:        s.Search.clone(),
		SubCategories: s.SubCategories.clone(),
		Home:          s.Home.clone(),
		Recent:        s.Recent.clone(),
	}
}

// Store owns the state tree. The zero value is not usable; construct with New.
type Store struct {
	mu          sync.Mutex
	state       State
	versions    [sliceCount]uint64
	subscribers map[int]func(State)
	nextSubID   int
}

// New returns a store holding the initial (anonymous, empty) state.
func New() *Store {
	return &Store{
		state:       initialState(),
		subscribers: make(map[int]func(State)),
	}
}

func initialState() State {
	return State{
		Auth:          AuthState{Status: Anonymous},
		Search:        initialSearchState(),
		SubCategories: initialSubCategoryState(),
	}
}

// Dispatch applies action to every slice reducer and bumps the version of each
// slice that actually changed, then notifies subscribers with a copy of the
// new state. Subscribers run on the dispatching goroutine, outside the lock.
func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	var changed bool
	if next, ok := reduceAuth(s.state.Auth, action); ok {
		s.state.Auth = next
		s.versions[SliceAuth]++
		changed = true
	}
	if next, ok := reduceCart(s.state.Cart, action); ok {
		s.state.Cart = next
		s.versions[SliceCart]++
		changed = true
	}
	if next, ok := reduceWishlist(s.state.Wishlist, action); ok {
		s.state.Wishlist = next
		s.versions[SliceWishlist]++
		changed = true
	}
	if next, ok := reduceOrders(s.state.Orders, action); ok {
		s.state.Orders = next
		s.versions[SliceOrders]++
		changed = true
	}
	if next, ok := reduceSearch(s.state.Search, action); ok {
		s.state.Search = next
		s.versions[SliceSearch]++
		changed = true
	}
	if next, ok := reduceSubCategories(s.state.SubCategories, action); ok {
		s.state.SubCategories = next
		s.versions[SliceSubCategories]++
		changed = true
	}
	if next, ok := reduceHome(s.state.Home, action); ok {
		s.state.Home = next
		s.versions[SliceHome]++
		changed = true
	}
	if next, ok := reduceRecent(s.state.Recent, action); ok {
		s.state.Recent = next
		s.versions[SliceRecent]++
		changed = true
	}

	if !changed {
		s.mu.Unlock()
		return
	}
	snapshot := s.state.clone()
	subs := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

// State returns a copy of the current state tree.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Version returns slice's change counter. It moves only when a dispatch
// actually altered the slice, which is what memoized selectors key on.
func (s *Store) Version(slice Slice) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.versions[slice]
}

// Subscribe registers fn to run after every state-changing dispatch. The
// returned function unsubscribes.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}
